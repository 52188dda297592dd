// Package downloader materializes a chosen encoding to a scratch file and
// owns that file's lifecycle: creation, verification, hand-off to the
// transport, and guaranteed deletion once the transfer is over.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/vidgrab/vidgrab/internal/log"
	"github.com/vidgrab/vidgrab/internal/ytdlp"
)

// DefaultTimeout bounds a single download invocation.
const DefaultTimeout = 120 * time.Second

var (
	// ErrEmptyURL rejects requests with no URL before the tool is touched.
	ErrEmptyURL = errors.New("url is required")
	// ErrToolUnavailable means yt-dlp is missing or broken on this host.
	ErrToolUnavailable = errors.New("yt-dlp is not installed")
)

// Error reports a failed download. TimedOut distinguishes a killed
// process from other tool failures so the caller can say so.
type Error struct {
	URL      string
	TimedOut bool
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// File is a materialized download handed to the transport layer. Name is
// the caller-facing filename, independent of the on-disk path. Close
// deletes the backing file and must be called exactly once, after the
// transfer finishes or is abandoned.
type File struct {
	Path string
	Name string

	scratch *Scratch
	once    sync.Once
	log     *log.Logger
}

// Close removes the backing scratch file. Deletion failures are logged,
// never returned: the request has already been answered by the time the
// transfer layer calls this.
func (f *File) Close() error {
	f.once.Do(func() {
		if err := f.scratch.Remove(f.Path); err != nil {
			f.log.Warnf("cleanup %s: %v", f.Path, err)
		}
	})
	return nil
}

// Orchestrator drives the tool in download mode.
type Orchestrator struct {
	driver  ytdlp.Driver
	probe   *ytdlp.Probe
	scratch *Scratch
	timeout time.Duration
	log     *log.Logger
}

func New(driver ytdlp.Driver, probe *ytdlp.Probe, scratch *Scratch) *Orchestrator {
	return &Orchestrator{
		driver:  driver,
		probe:   probe,
		scratch: scratch,
		timeout: DefaultTimeout,
		log:     log.New("downloader"),
	}
}

// WithTimeout overrides the per-download deadline (used by tests).
func (o *Orchestrator) WithTimeout(d time.Duration) *Orchestrator {
	o.timeout = d
	return o
}

// FormatSelector maps a requested quality label to a yt-dlp selector
// expression: "audio" selects best audio, "<height>p" caps the height,
// anything else selects best overall.
func FormatSelector(quality string) string {
	switch quality {
	case "", "best":
		return "best"
	case "audio":
		return "bestaudio/best"
	}
	if h, ok := parseHeightLabel(quality); ok {
		return fmt.Sprintf("best[height<=%d]/best", h)
	}
	return "best"
}

func parseHeightLabel(quality string) (int, bool) {
	label, ok := strings.CutSuffix(quality, "p")
	if !ok {
		return 0, false
	}
	h, err := strconv.Atoi(label)
	if err != nil || h <= 0 {
		return 0, false
	}
	return h, true
}

// Fetch downloads url in the requested quality and format and returns the
// resulting file. The caller owns the returned File and must Close it
// once the transfer completes or fails; the file is guaranteed to exist
// on disk when Fetch returns nil.
func (o *Orchestrator) Fetch(ctx context.Context, url, quality, format string) (*File, error) {
	if strings.TrimSpace(url) == "" {
		return nil, ErrEmptyURL
	}
	if !o.probe.Available(ctx) {
		return nil, ErrToolUnavailable
	}
	if format == "" {
		format = "mp4"
	}

	selector := FormatSelector(quality)
	path := o.scratch.Allocate(format)

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	o.log.Infof("downloading %s (selector %q) -> %s", url, selector, path)
	if err := o.driver.Materialize(ctx, url, selector, path); err != nil {
		// the tool may have left a partial file behind
		if rmErr := o.scratch.Remove(path); rmErr != nil {
			o.log.Warnf("cleanup after failure: %v", rmErr)
		}
		var rerr *ytdlp.RunError
		timedOut := errors.As(err, &rerr) && rerr.TimedOut
		return nil, &Error{URL: url, TimedOut: timedOut, Err: err}
	}

	if _, err := os.Stat(path); err != nil {
		return nil, &Error{URL: url, Err: errors.New("download failed - file not found")}
	}

	return &File{
		Path:    path,
		Name:    "video." + strings.TrimPrefix(format, "."),
		scratch: o.scratch,
		log:     o.log,
	}, nil
}
