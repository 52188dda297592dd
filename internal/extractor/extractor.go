// Package extractor turns yt-dlp's raw metadata document into the stable
// response shape served to callers, including the deduplicated,
// height-ranked quality ladder.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vidgrab/vidgrab/internal/log"
	"github.com/vidgrab/vidgrab/internal/platform"
	"github.com/vidgrab/vidgrab/internal/ytdlp"
)

// DefaultTimeout bounds a single metadata extraction.
const DefaultTimeout = 30 * time.Second

var (
	// ErrEmptyURL rejects requests with no URL before the tool is touched.
	ErrEmptyURL = errors.New("url is required")
	// ErrToolUnavailable means yt-dlp is missing or broken on this host.
	ErrToolUnavailable = errors.New("yt-dlp is not installed")
)

// ExtractionError wraps a tool failure for one URL.
type ExtractionError struct {
	URL string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.URL, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// QualityOption is one entry of the quality ladder.
type QualityOption struct {
	Quality  string `json:"quality"`
	FormatID string `json:"format_id"`
	Ext      string `json:"ext"`
}

// VideoMetadata is the normalized response for a single URL.
type VideoMetadata struct {
	Title              string            `json:"title"`
	Thumbnail          string            `json:"thumbnail"`
	Duration           float64           `json:"duration"`
	Platform           platform.Platform `json:"platform"`
	AvailableQualities []QualityOption   `json:"availableQualities"`
}

// Service drives the tool in metadata mode and normalizes its output.
type Service struct {
	driver  ytdlp.Driver
	probe   *ytdlp.Probe
	timeout time.Duration
	log     *log.Logger
}

func New(driver ytdlp.Driver, probe *ytdlp.Probe) *Service {
	return &Service{
		driver:  driver,
		probe:   probe,
		timeout: DefaultTimeout,
		log:     log.New("extractor"),
	}
}

// WithTimeout overrides the per-extraction deadline (used by tests).
func (s *Service) WithTimeout(d time.Duration) *Service {
	s.timeout = d
	return s
}

// Extract returns normalized metadata for url. It fails with ErrEmptyURL
// on a blank url, ErrToolUnavailable when the tool probe fails, and an
// ExtractionError when the tool exits non-zero, times out, or emits
// unparseable output.
func (s *Service) Extract(ctx context.Context, url string) (*VideoMetadata, error) {
	if strings.TrimSpace(url) == "" {
		return nil, ErrEmptyURL
	}
	if !s.probe.Available(ctx) {
		return nil, ErrToolUnavailable
	}
	return s.extract(ctx, url)
}

// extract assumes the probe already passed.
func (s *Service) extract(ctx context.Context, url string) (*VideoMetadata, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	info, err := s.driver.ExtractMetadata(ctx, url)
	if err != nil {
		s.log.Warnf("extraction failed for %s: %v", url, err)
		return nil, &ExtractionError{URL: url, Err: err}
	}

	meta := &VideoMetadata{
		Title:              info.Title,
		Thumbnail:          info.Thumbnail,
		Duration:           info.Duration,
		Platform:           platform.Detect(url),
		AvailableQualities: buildLadder(info.Formats),
	}
	if meta.Title == "" {
		meta.Title = "Untitled"
	}
	if meta.Thumbnail == "" && len(info.Thumbnails) > 0 {
		meta.Thumbnail = info.Thumbnails[0].URL
	}
	if meta.Duration < 0 {
		meta.Duration = 0
	}
	return meta, nil
}
