package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidgrab/vidgrab/internal/downloader"
	"github.com/vidgrab/vidgrab/internal/extractor"
	"github.com/vidgrab/vidgrab/internal/qr"
)

type infoRequest struct {
	URL string `json:"url"`
}

type videoRequest struct {
	URL     string `json:"url"`
	Quality string `json:"quality"`
	Format  string `json:"format"`
}

type batchRequest struct {
	URLs []string `json:"urls"`
}

func (s *Server) handleInfo(c *gin.Context) {
	var req infoRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "URL is required"})
		return
	}

	meta, err := s.extractor.Extract(c.Request.Context(), req.URL)
	if err != nil {
		s.renderExtractionError(c, err)
		return
	}
	c.JSON(http.StatusOK, meta)
}

func (s *Server) handleVideo(c *gin.Context) {
	var req videoRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "URL is required"})
		return
	}

	file, err := s.downloader.Fetch(c.Request.Context(), req.URL, req.Quality, req.Format)
	if err != nil {
		s.renderDownloadError(c, err)
		return
	}
	// deletion fires right after the transfer finishes, success or not
	defer file.Close()

	c.FileAttachment(file.Path, file.Name)
}

func (s *Server) handleQR(c *gin.Context) {
	var req infoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	uri, err := qr.DataURI(req.URL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"qrCode": uri})
}

func (s *Server) handleBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.URLs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "URLs array is required"})
		return
	}

	results, err := s.extractor.Batch(c.Request.Context(), req.URLs)
	if err != nil {
		s.renderExtractionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (s *Server) renderExtractionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, extractor.ErrEmptyURL):
		c.JSON(http.StatusBadRequest, gin.H{"message": "URL is required"})
	case errors.Is(err, extractor.ErrNoURLs):
		c.JSON(http.StatusBadRequest, gin.H{"message": "URLs array is required"})
	case errors.Is(err, extractor.ErrToolUnavailable):
		c.JSON(http.StatusInternalServerError, gin.H{
			"message":             "yt-dlp is not installed. Please install it to use this service.",
			"installInstructions": "Install yt-dlp: pip install yt-dlp or brew install yt-dlp",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to get video information",
			"error":   err.Error(),
		})
	}
}

func (s *Server) renderDownloadError(c *gin.Context, err error) {
	var derr *downloader.Error
	switch {
	case errors.Is(err, downloader.ErrEmptyURL):
		c.JSON(http.StatusBadRequest, gin.H{"message": "URL is required"})
	case errors.Is(err, downloader.ErrToolUnavailable):
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "yt-dlp is not installed. Please install it first.",
		})
	case errors.As(err, &derr) && derr.TimedOut:
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Download timed out",
			"error":   err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to download video",
			"error":   err.Error(),
		})
	}
}
