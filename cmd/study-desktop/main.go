package main

import (
	"fmt"
	"os"

	"study-desktop/internal/app"
	"study-desktop/internal/config"
	"study-desktop/internal/launcher"
	"study-desktop/internal/logger"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

func main() {
	cfg, err := loadConfig(os.Args[1:], os.LookupEnv)
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "study-desktop: %v\n", err)
		os.Exit(2)
	}

	log := logger.New(logger.ParseLevel(cfg.Log.Level), cfg.Log.JSON)

	application, err := app.NewApplication(cfg, log)
	if err != nil {
		log.Fatal("Main", errors.Wrap(err, "application initialization failed"), nil)
	}

	// Only the windowing runtime can take the process down.
	if err := application.Run(); err != nil {
		log.Fatal("Main", errors.Wrap(err, "application execution failed"), nil)
	}

	log.Info("Main", "application terminated", launchSummary(application.LaunchResult()))
}

// launchSummary reports what became of the backend launch for the exit log.
func launchSummary(r *launcher.Result) map[string]interface{} {
	if r == nil {
		return map[string]interface{}{"backend": "not attempted"}
	}

	fields := map[string]interface{}{
		"backend": "launched",
		"script":  r.Script,
	}
	if r.Err != nil {
		fields["backend"] = "launch failed"
		fields["launch_error"] = r.Err.Error()
		return fields
	}
	fields["backend_pid"] = r.PID
	return fields
}

// loadConfig layers defaults, the TOML file, STUDY_* variables and flags,
// then fills the home directory from HOME.
func loadConfig(args []string, lookup func(string) (string, bool)) (config.Config, error) {
	flags := config.NewFlags("study-desktop")
	if err := flags.Parse(args); err != nil {
		return config.Config{}, err
	}

	path := flags.ConfigPath
	if path == "" {
		if v, ok := lookup("STUDY_CONFIG"); ok && v != "" {
			path = v
		} else if p, err := config.DefaultPath(); err == nil {
			path = p
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return config.Config{}, err
	}
	flags.Apply(&cfg)
	cfg.ResolveHome(lookup)

	if err := cfg.Validate(); err != nil {
		return config.Config{}, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}
