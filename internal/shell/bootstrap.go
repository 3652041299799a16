// Package shell brings up the windowing runtime and kicks off the backend
// launch from the runtime's one-time setup hook.
package shell

import (
	"context"
	"sync"

	"study-desktop/internal/health"
	"study-desktop/internal/logger"
)

const component = "Shell"

// Backend is the detached launcher.
type Backend interface {
	Go(ctx context.Context)
	Script() string
}

type Prober interface {
	Start(ctx context.Context, report func(health.Status))
}

// StatusView receives backend status for display.
type StatusView interface {
	SetScript(path string)
	ShowHealth(status health.Status)
	ShowLaunched()
}

type Bootstrapper struct {
	ctx     context.Context
	runtime Runtime
	backend Backend
	probe   Prober
	view    StatusView
	log     logger.Logger

	registerOnce sync.Once
	setupOnce    sync.Once
}

// NewBootstrapper wires the runtime to the backend launcher. probe and view
// may be nil.
func NewBootstrapper(ctx context.Context, rt Runtime, backend Backend, probe Prober, view StatusView, log logger.Logger) *Bootstrapper {
	return &Bootstrapper{
		ctx:     ctx,
		runtime: rt,
		backend: backend,
		probe:   probe,
		view:    view,
		log:     log,
	}
}

// Setup is the runtime's start hook. It hands the launch to another
// goroutine and always reports success.
func (b *Bootstrapper) Setup() error {
	b.setupOnce.Do(func() {
		b.log.Debug(component, "setup hook fired", map[string]interface{}{
			"script": b.backend.Script(),
		})

		if b.view != nil {
			b.view.SetScript(b.backend.Script())
		}

		b.backend.Go(b.ctx)

		switch {
		case b.probe != nil:
			b.probe.Start(b.ctx, b.report)
		case b.view != nil:
			b.view.ShowLaunched()
		}
	})
	return nil
}

func (b *Bootstrapper) report(status health.Status) {
	if b.view != nil {
		b.view.ShowHealth(status)
	}
}

// Run registers the setup hook and enters the event loop. The returned error
// comes only from the runtime; launch problems never surface here.
func (b *Bootstrapper) Run() error {
	b.registerOnce.Do(func() {
		b.runtime.SetOnStarted(func() {
			_ = b.Setup()
		})
	})

	b.log.Info(component, "entering event loop", nil)
	if err := b.runtime.Run(); err != nil {
		return err
	}
	b.log.Info(component, "event loop finished", nil)
	return nil
}
