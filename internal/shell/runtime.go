package shell

import (
	"fyne.io/fyne/v2"
	"github.com/pkg/errors"
)

// Runtime is the windowing runtime the shell is hosted in.
type Runtime interface {
	// SetOnStarted registers fn to run once the runtime is ready and before
	// the event loop handles input.
	SetOnStarted(fn func())
	// Run shows the main window and blocks in the event loop. A non-nil error
	// means the runtime could not start or crashed.
	Run() error
	Quit()
}

type FyneRuntime struct {
	app    fyne.App
	window fyne.Window
}

func NewFyneRuntime(app fyne.App, window fyne.Window) *FyneRuntime {
	return &FyneRuntime{app: app, window: window}
}

func (r *FyneRuntime) SetOnStarted(fn func()) {
	r.app.Lifecycle().SetOnStarted(fn)
}

// Run converts a panic from the driver (for example no display) into an
// error so the caller decides how to terminate.
func (r *FyneRuntime) Run() (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.Errorf("windowing runtime failed: %v", rec)
		}
	}()

	r.window.ShowAndRun()
	return nil
}

func (r *FyneRuntime) Quit() {
	r.app.Quit()
}
