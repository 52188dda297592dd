package ytdlp

import (
	"context"
	"sync"
	"time"

	"github.com/vidgrab/vidgrab/internal/log"
)

// Probe answers "is the tool usable right now". The answer is cached for
// ttl so a burst of requests does not spawn a version process per request;
// a zero ttl re-runs the check every call.
type Probe struct {
	driver Driver
	ttl    time.Duration
	log    *log.Logger

	mu        sync.Mutex
	checked   time.Time
	available bool
}

func NewProbe(driver Driver, ttl time.Duration) *Probe {
	return &Probe{driver: driver, ttl: ttl, log: log.New("ytdlp")}
}

// Available reports whether the tool responds to its version command.
// Any invocation error (missing binary, non-zero exit) counts as
// unavailable.
func (p *Probe) Available(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ttl > 0 && !p.checked.IsZero() && time.Since(p.checked) < p.ttl {
		return p.available
	}

	v, err := p.driver.Version(ctx)
	p.checked = time.Now()
	p.available = err == nil
	if err != nil {
		p.log.Warnf("tool unavailable: %v", err)
	} else {
		p.log.Debugf("tool version %s", v)
	}
	return p.available
}
