package extractor

import (
	"context"
	"errors"
)

// ErrNoURLs rejects a batch request with nothing to do.
var ErrNoURLs = errors.New("urls array is required")

// BatchResult is the outcome for one URL of a batch lookup.
type BatchResult struct {
	URL       string `json:"url"`
	Success   bool   `json:"success"`
	Title     string `json:"title,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Batch extracts metadata for each URL in order, one at a time. The tool
// probe runs once up front; if it fails the whole batch fails with
// ErrToolUnavailable. After that, each URL's outcome is captured
// independently: one bad URL produces a failure entry without aborting
// the rest. Results match the input order, one entry per URL.
func (s *Service) Batch(ctx context.Context, urls []string) ([]BatchResult, error) {
	if len(urls) == 0 {
		return nil, ErrNoURLs
	}
	if !s.probe.Available(ctx) {
		return nil, ErrToolUnavailable
	}

	results := make([]BatchResult, 0, len(urls))
	for _, url := range urls {
		meta, err := s.extract(ctx, url)
		if err != nil {
			results = append(results, BatchResult{URL: url, Error: err.Error()})
			continue
		}
		results = append(results, BatchResult{
			URL:       url,
			Success:   true,
			Title:     meta.Title,
			Thumbnail: meta.Thumbnail,
		})
	}
	return results, nil
}
