package downloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vidgrab/vidgrab/internal/log"
)

// Scratch manages the shared staging directory for in-flight downloads.
// Every request gets a uniquely named file inside it, so no locking is
// needed between concurrent downloads. Names use a UUID rather than a
// timestamp so sub-millisecond concurrent requests cannot collide.
type Scratch struct {
	dir string
	log *log.Logger
}

func NewScratch(dir string) (*Scratch, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	return &Scratch{dir: dir, log: log.New("scratch")}, nil
}

func (s *Scratch) Dir() string { return s.dir }

// Allocate returns a fresh path inside the scratch directory with the
// given extension. The file itself is created by the tool.
func (s *Scratch) Allocate(ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	return filepath.Join(s.dir, fmt.Sprintf("video_%s.%s", uuid.NewString(), ext))
}

// Remove deletes a previously allocated file. Paths outside the scratch
// directory are refused. A missing file is not an error.
func (s *Scratch) Remove(path string) error {
	if filepath.Dir(path) != filepath.Clean(s.dir) {
		return fmt.Errorf("refusing to remove %s: outside scratch dir", path)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Sweep deletes scratch files older than maxAge and reports how many went.
// It is the safety net for files abandoned by crashed or interrupted
// transfers; the normal path deletes on transfer completion.
func (s *Scratch) Sweep(maxAge time.Duration) int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.log.Warnf("sweep: %v", err)
		return 0
	}

	removed := 0
	cutoff := time.Now().Add(-maxAge)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(s.dir, e.Name())
		if err := os.Remove(path); err != nil {
			s.log.Warnf("sweep %s: %v", path, err)
			continue
		}
		removed++
	}
	if removed > 0 {
		s.log.Infof("swept %d stale file(s)", removed)
	}
	return removed
}

// StartSweeper sweeps every interval until ctx is cancelled.
func (s *Scratch) StartSweeper(ctx context.Context, interval, maxAge time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep(maxAge)
			}
		}
	}()
}
