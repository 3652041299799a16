package config

import (
	"github.com/spf13/pflag"
)

// Flags holds the command line overrides. Only flags the user actually set
// are applied.
type Flags struct {
	fs *pflag.FlagSet

	ConfigPath   string
	HomeDir      string
	FallbackHome string
	ScriptPath   string
	Shell        string
	Mode         string
	KillOnExit   bool
	HealthURL    string
	LogLevel     string
	LogJSON      bool
}

func NewFlags(name string) *Flags {
	f := &Flags{fs: pflag.NewFlagSet(name, pflag.ContinueOnError)}

	f.fs.StringVarP(&f.ConfigPath, "config", "c", "", "path to config.toml (default: user config dir)")
	f.fs.StringVar(&f.HomeDir, "home", "", "base directory for the startup script (default: $HOME)")
	f.fs.StringVar(&f.FallbackHome, "fallback-home", DefaultFallbackHome, "base directory used when $HOME is unset")
	f.fs.StringVar(&f.ScriptPath, "script", DefaultScriptPath, "startup script path relative to the base directory")
	f.fs.StringVar(&f.Shell, "shell", DefaultShell, "shell interpreter for login-shell and command modes")
	f.fs.StringVar(&f.Mode, "mode", string(ModeCommand), "launch mode: command, login-shell or direct")
	f.fs.BoolVar(&f.KillOnExit, "kill-on-exit", false, "terminate the backend when the window closes")
	f.fs.StringVar(&f.HealthURL, "health-url", DefaultHealthURL, "backend health endpoint, empty to disable")
	f.fs.StringVar(&f.LogLevel, "log-level", "info", "debug, info, warn or error")
	f.fs.BoolVar(&f.LogJSON, "log-json", false, "write JSON logs")

	return f
}

func (f *Flags) Parse(args []string) error {
	return f.fs.Parse(args)
}

// Apply copies every flag that was set on the command line into cfg.
func (f *Flags) Apply(cfg *Config) {
	f.fs.Visit(func(fl *pflag.Flag) {
		switch fl.Name {
		case "home":
			cfg.HomeDir = f.HomeDir
		case "fallback-home":
			cfg.FallbackHome = f.FallbackHome
		case "script":
			cfg.ScriptPath = f.ScriptPath
		case "shell":
			cfg.Shell = f.Shell
		case "mode":
			cfg.Mode = Mode(f.Mode)
		case "kill-on-exit":
			cfg.KillOnExit = f.KillOnExit
		case "health-url":
			cfg.Health.URL = f.HealthURL
		case "log-level":
			cfg.Log.Level = f.LogLevel
		case "log-json":
			cfg.Log.JSON = f.LogJSON
		}
	})
}
