package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type saveRequest struct {
	URL       string `json:"url"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	Platform  string `json:"platform"`
	Quality   string `json:"quality"`
	Format    string `json:"format"`
}

func (s *Server) handleHistory(c *gin.Context) {
	videos, err := s.history.List(accountFrom(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"videos": videos})
}

func (s *Server) handleSave(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "URL is required"})
		return
	}

	video, err := s.history.Save(accountFrom(c), SavedVideo{
		URL:       req.URL,
		Title:     req.Title,
		Thumbnail: req.Thumbnail,
		Platform:  req.Platform,
		Quality:   req.Quality,
		Format:    req.Format,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Video saved successfully", "video": video})
}

func (s *Server) handleDelete(c *gin.Context) {
	err := s.history.Delete(accountFrom(c), c.Param("videoId"))
	if errors.Is(err, ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Video not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Video deleted successfully"})
}
