// Package config holds the startup configuration of the desktop shell.
//
// Values are layered: built-in defaults, then the TOML file, then STUDY_*
// environment overrides, then command line flags. Nothing in this package
// reads process state on its own; callers inject the environment lookup.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

const (
	AppDirName = "study-desktop"

	// DefaultFallbackHome is used when the home-directory value is unset or
	// empty. Override it with --fallback-home or STUDY_FALLBACK_HOME.
	DefaultFallbackHome = "/home/ryan"
	DefaultScriptPath   = "apps/Study/start_services.sh"
	DefaultShell        = "/bin/bash"
	DefaultHealthURL    = "http://127.0.0.1:8000/api/health"
)

// Mode selects how the startup script is handed to the operating system.
type Mode string

const (
	// ModeCommand runs "<shell> -lc <quoted script>". The shell executes the
	// file, so its shebang applies and it needs the exec bit.
	ModeCommand Mode = "command"
	// ModeLoginShell runs "<shell> -l <script>": the shell reads the file as
	// its own source, whatever the shebang says.
	ModeLoginShell Mode = "login-shell"
	// ModeDirect executes the script itself.
	ModeDirect Mode = "direct"
)

type HealthConfig struct {
	URL      string        `toml:"url"`
	Interval time.Duration `toml:"interval"`
	Timeout  time.Duration `toml:"timeout"`
	Attempts int           `toml:"attempts"`
}

func (h HealthConfig) Enabled() bool {
	return h.URL != ""
}

type LogConfig struct {
	Level string `toml:"level"`
	JSON  bool   `toml:"json"`
}

type WindowConfig struct {
	Width  float32 `toml:"width"`
	Height float32 `toml:"height"`
}

type Config struct {
	// HomeDir overrides the home-directory environment value when set.
	HomeDir      string `toml:"home_dir"`
	FallbackHome string `toml:"fallback_home"`
	ScriptPath   string `toml:"script_path"`
	Shell        string `toml:"shell"`
	Mode         Mode   `toml:"mode"`
	KillOnExit   bool   `toml:"kill_on_exit"`

	Health HealthConfig `toml:"health"`
	Log    LogConfig    `toml:"log"`
	Window WindowConfig `toml:"window"`
}

func Default() Config {
	return Config{
		FallbackHome: DefaultFallbackHome,
		ScriptPath:   DefaultScriptPath,
		Shell:        DefaultShell,
		Mode:         ModeCommand,
		Health: HealthConfig{
			URL:      DefaultHealthURL,
			Interval: 2 * time.Second,
			Timeout:  time.Second,
			Attempts: 30,
		},
		Log: LogConfig{
			Level: "info",
		},
		Window: WindowConfig{
			Width:  1024,
			Height: 720,
		},
	}
}

// DefaultPath returns <user config dir>/study-desktop/config.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "resolving user config dir")
	}
	return filepath.Join(dir, AppDirName, "config.toml"), nil
}

// Load decodes the TOML file at path over the defaults. A missing file is
// not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, errors.Wrapf(err, "decoding config %s", path)
	}
	return cfg, nil
}

// ApplyEnv applies STUDY_* overrides found through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("STUDY_HOME", &c.HomeDir)
	str("STUDY_FALLBACK_HOME", &c.FallbackHome)
	str("STUDY_SCRIPT_PATH", &c.ScriptPath)
	str("STUDY_SHELL", &c.Shell)
	str("STUDY_HEALTH_URL", &c.Health.URL)
	str("STUDY_LOG_LEVEL", &c.Log.Level)

	if v, ok := lookup("STUDY_MODE"); ok && v != "" {
		c.Mode = Mode(v)
	}
	if v, ok := lookup("STUDY_KILL_ON_EXIT"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(err, "parsing STUDY_KILL_ON_EXIT")
		}
		c.KillOnExit = b
	}
	if v, ok := lookup("STUDY_LOG_JSON"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(err, "parsing STUDY_LOG_JSON")
		}
		c.Log.JSON = b
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Mode {
	case ModeLoginShell, ModeCommand:
		if c.Shell == "" {
			return errors.Errorf("mode %q requires a shell", c.Mode)
		}
	case ModeDirect:
	default:
		return errors.Errorf("unknown launch mode %q", c.Mode)
	}

	if c.ScriptPath == "" {
		return errors.New("script path is empty")
	}
	if filepath.IsAbs(c.ScriptPath) {
		return errors.Errorf("script path %q must be relative to the home directory", c.ScriptPath)
	}
	if c.FallbackHome == "" {
		return errors.New("fallback home is empty")
	}

	if c.Health.Enabled() {
		if c.Health.Interval <= 0 || c.Health.Timeout <= 0 || c.Health.Attempts <= 0 {
			return errors.New("health interval, timeout and attempts must be positive")
		}
	}
	return nil
}

// ResolveHome fills HomeDir from the HOME value when no explicit override
// was configured. It may stay empty; the launcher then uses FallbackHome.
func (c *Config) ResolveHome(lookup func(string) (string, bool)) {
	if c.HomeDir != "" {
		return
	}
	if v, ok := lookup("HOME"); ok {
		c.HomeDir = v
	}
}
