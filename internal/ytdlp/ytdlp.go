// Package ytdlp drives the external yt-dlp binary. The binary is treated
// as a black box: metadata extraction shells out with --dump-json, and
// downloads shell out with a format selector and an output path. Callers
// bound each invocation with a context deadline; an expired deadline kills
// the child process.
package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/vidgrab/vidgrab/internal/log"
)

// DefaultBinary is used when no explicit path is configured.
const DefaultBinary = "yt-dlp"

// Driver is the narrow interface the extraction and download layers
// consume. Tests substitute a fake; Tool is the real implementation.
type Driver interface {
	// Version runs the tool's version command and reports its output.
	Version(ctx context.Context) (string, error)
	// ExtractMetadata dumps the raw metadata document for a single item.
	ExtractMetadata(ctx context.Context, url string) (*RawInfo, error)
	// Materialize downloads the encoding chosen by selector to outputPath.
	Materialize(ctx context.Context, url, selector, outputPath string) error
}

// RawInfo is the subset of yt-dlp's --dump-json document the service reads.
type RawInfo struct {
	Title      string      `json:"title"`
	Thumbnail  string      `json:"thumbnail"`
	Thumbnails []Thumbnail `json:"thumbnails"`
	Duration   float64     `json:"duration"`
	Formats    []Format    `json:"formats"`
}

type Thumbnail struct {
	URL string `json:"url"`
}

// Format describes one encoding reported by the tool.
type Format struct {
	FormatID   string `json:"format_id"`
	Ext        string `json:"ext"`
	Height     int    `json:"height"`
	Resolution string `json:"resolution"`
	Filesize   int64  `json:"filesize"`
}

// RunError reports a failed tool invocation. Stderr carries the tool's own
// error text for operator diagnosis; TimedOut is set when the context
// deadline killed the process.
type RunError struct {
	Op       string
	TimedOut bool
	Stderr   string
	Err      error
}

func (e *RunError) Error() string {
	if e.TimedOut {
		return fmt.Sprintf("yt-dlp %s timed out", e.Op)
	}
	if e.Stderr != "" {
		return fmt.Sprintf("yt-dlp %s failed: %s", e.Op, e.Stderr)
	}
	return fmt.Sprintf("yt-dlp %s failed: %v", e.Op, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// Tool invokes a yt-dlp binary on the local system.
type Tool struct {
	binary string
	log    *log.Logger
}

func New(binary string) *Tool {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Tool{binary: binary, log: log.New("ytdlp")}
}

func (t *Tool) Version(ctx context.Context) (string, error) {
	out, err := t.run(ctx, "version", "--version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func (t *Tool) ExtractMetadata(ctx context.Context, url string) (*RawInfo, error) {
	out, err := t.run(ctx, "dump-json", "--dump-json", "--no-playlist", url)
	if err != nil {
		return nil, err
	}

	var info RawInfo
	if err := json.Unmarshal(out, &info); err != nil {
		return nil, &RunError{Op: "dump-json", Err: fmt.Errorf("unexpected output: %w", err)}
	}
	return &info, nil
}

func (t *Tool) Materialize(ctx context.Context, url, selector, outputPath string) error {
	_, err := t.run(ctx, "download",
		"-f", selector,
		"-o", outputPath,
		"--no-playlist",
		"-q", "--no-warnings", "--no-progress",
		url,
	)
	return err
}

func (t *Tool) run(ctx context.Context, op string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, t.binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	t.log.Debugf("%s %s", t.binary, strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		return nil, &RunError{
			Op:       op,
			TimedOut: errors.Is(ctx.Err(), context.DeadlineExceeded),
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
	}
	return stdout.Bytes(), nil
}
