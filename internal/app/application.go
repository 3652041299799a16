package app

import (
	"runtime"
	"time"

	"study-desktop/internal/config"
	"study-desktop/internal/health"
	"study-desktop/internal/launcher"
	"study-desktop/internal/logger"
	"study-desktop/internal/shell"
	"study-desktop/internal/shutdown"
	"study-desktop/internal/views"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

const (
	AppName         = "Study"
	AppID           = "com.study.desktop"
	AppVersion      = "1.0.0"
	shutdownTimeout = 10 * time.Second
)

type Application struct {
	fyneApp      fyne.App
	window       fyne.Window
	view         *views.MainView
	launcher     *launcher.Launcher
	bootstrapper *shell.Bootstrapper
	shutdown     *shutdown.Manager
	lifecycle    *Lifecycle
	logger       logger.Logger
}

func NewApplication(cfg config.Config, log logger.Logger) (*Application, error) {
	fyneApp := app.NewWithID(AppID)
	window := fyneApp.NewWindow(AppName)

	window.Resize(fyne.NewSize(cfg.Window.Width, cfg.Window.Height))
	window.CenterOnScreen()
	window.SetMaster()

	log.Info("Application", "starting application", map[string]interface{}{
		"version":      AppVersion,
		"go_version":   runtime.Version(),
		"mode":         string(cfg.Mode),
		"kill_on_exit": cfg.KillOnExit,
		"health":       cfg.Health.Enabled(),
	})

	view := views.NewMainView(window, AppName)
	shutdownMgr := shutdown.NewManager(log, shutdownTimeout)
	backend := launcher.New(launcher.OptionsFromConfig(cfg), log)
	shutdownMgr.Register("launcher", backend)

	var probe shell.Prober
	if cfg.Health.Enabled() {
		p := health.NewProbe(cfg.Health, log)
		shutdownMgr.Register("health probe", p)
		probe = p
	}

	rt := shell.NewFyneRuntime(fyneApp, window)
	bootstrapper := shell.NewBootstrapper(shutdownMgr.Context(), rt, backend, probe, view, log)

	application := &Application{
		fyneApp:      fyneApp,
		window:       window,
		view:         view,
		launcher:     backend,
		bootstrapper: bootstrapper,
		shutdown:     shutdownMgr,
		lifecycle:    NewLifecycle(shutdownMgr, rt, log),
		logger:       log,
	}

	log.Info("Application", "initialization complete", nil)
	return application, nil
}

// Run blocks in the event loop. The error is the windowing runtime's.
func (a *Application) Run() error {
	a.window.SetCloseIntercept(func() {
		a.logger.Info("Application", "window close requested", nil)
		a.lifecycle.ShutdownThen(func() {
			fyne.Do(a.window.Close)
		})
	})

	a.shutdown.Listen(a.lifecycle.Quit)

	err := a.bootstrapper.Run()
	a.lifecycle.Shutdown()
	return err
}

// LaunchResult exposes the launch attempt for diagnostics.
func (a *Application) LaunchResult() *launcher.Result {
	return a.launcher.Last()
}
