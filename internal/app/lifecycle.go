package app

import (
	"sync"

	"study-desktop/internal/logger"
	"study-desktop/internal/shell"
	"study-desktop/internal/shutdown"
)

// Lifecycle ties window close and OS signals to the shutdown manager.
type Lifecycle struct {
	shutdown *shutdown.Manager
	runtime  shell.Runtime
	logger   logger.Logger
	once     sync.Once
}

func NewLifecycle(sm *shutdown.Manager, rt shell.Runtime, log logger.Logger) *Lifecycle {
	return &Lifecycle{
		shutdown: sm,
		runtime:  rt,
		logger:   log,
	}
}

func (l *Lifecycle) Shutdown() {
	l.once.Do(func() {
		l.logger.Info("Lifecycle", "shutdown sequence initiated", nil)
		l.shutdown.Shutdown()
		l.logger.Info("Lifecycle", "shutdown sequence completed", nil)
	})
}

// ShutdownThen runs the shutdown sequence in the background so the UI
// thread is not blocked, then calls done.
func (l *Lifecycle) ShutdownThen(done func()) {
	go func() {
		l.Shutdown()
		done()
	}()
}

// Quit shuts down and leaves the event loop.
func (l *Lifecycle) Quit() {
	l.Shutdown()
	l.runtime.Quit()
}
