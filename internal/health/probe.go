// Package health polls the backend's health endpoint after launch so the
// window can show whether the backend came up. It never blocks startup.
package health

import (
	"context"
	"io"
	"net/http"
	"sync"

	"study-desktop/internal/config"
	"study-desktop/internal/logger"

	"github.com/pkg/errors"
	"github.com/sethvargo/go-retry"
)

const component = "HealthProbe"

type Status int

const (
	Starting Status = iota
	Ready
	Unreachable
)

func (s Status) String() string {
	switch s {
	case Ready:
		return "ready"
	case Unreachable:
		return "unreachable"
	default:
		return "starting"
	}
}

type Probe struct {
	cfg    config.HealthConfig
	client *http.Client
	log    logger.Logger

	mu      sync.Mutex
	stopped bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewProbe(cfg config.HealthConfig, log logger.Logger) *Probe {
	return &Probe{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log,
	}
}

// Start runs the probe on its own goroutine. It does nothing after Shutdown
// or when already started.
func (p *Probe) Start(ctx context.Context, report func(Status)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped || p.done != nil {
		return
	}

	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	done := p.done
	go func() {
		defer close(done)
		p.Run(ctx, report)
	}()
}

// Shutdown stops a running probe and waits for it. It may be called from any
// goroutine, before or after Start.
func (p *Probe) Shutdown() {
	p.mu.Lock()
	p.stopped = true
	cancel, done := p.cancel, p.done
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Run polls until the endpoint answers 200, the attempts are used up or ctx
// is cancelled. report receives Starting first and then the final status.
// Cancellation reports nothing further.
func (p *Probe) Run(ctx context.Context, report func(Status)) {
	report(Starting)

	b := retry.NewConstant(p.cfg.Interval)
	b = retry.WithMaxRetries(uint64(p.cfg.Attempts-1), b)

	attempt := 0
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		if err := p.check(ctx); err != nil {
			p.log.Debug(component, "backend not ready", map[string]interface{}{
				"attempt": attempt,
				"error":   err.Error(),
			})
			return retry.RetryableError(err)
		}
		return nil
	})

	if ctx.Err() != nil {
		return
	}
	if err != nil {
		p.log.Warning(component, "backend unreachable", map[string]interface{}{
			"url":      p.cfg.URL,
			"attempts": attempt,
			"error":    err.Error(),
		})
		report(Unreachable)
		return
	}

	p.log.Info(component, "backend ready", map[string]interface{}{
		"url":      p.cfg.URL,
		"attempts": attempt,
	})
	report(Ready)
}

func (p *Probe) check(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.URL, nil)
	if err != nil {
		return errors.Wrap(err, "building health request")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("health endpoint returned %s", resp.Status)
	}
	return nil
}
