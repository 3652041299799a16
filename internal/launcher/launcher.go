// Package launcher starts the study backend as a detached child process.
//
// The launch is fire-and-forget: Go returns immediately, and whatever happens
// to the spawn is only logged. Nothing flows back to the caller.
package launcher

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"study-desktop/internal/config"
	"study-desktop/internal/logger"

	"github.com/alessio/shellescape"
	"github.com/pkg/errors"
)

const component = "Launcher"

var ErrAlreadyLaunched = errors.New("backend launch already attempted")

type State int32

const (
	NotStarted State = iota
	LaunchAttempted
)

func (s State) String() string {
	if s == LaunchAttempted {
		return "launch-attempted"
	}
	return "not-started"
}

type Options struct {
	Home       string
	Fallback   string
	ScriptPath string
	Shell      string
	Mode       config.Mode
	KillOnExit bool
}

func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Home:       cfg.HomeDir,
		Fallback:   cfg.FallbackHome,
		ScriptPath: cfg.ScriptPath,
		Shell:      cfg.Shell,
		Mode:       cfg.Mode,
		KillOnExit: cfg.KillOnExit,
	}
}

// Result records the single launch attempt.
type Result struct {
	Script string
	PID    int
	Err    error
	At     time.Time
}

type Launcher struct {
	opts  Options
	log   logger.Logger
	start func(*exec.Cmd) error

	once  sync.Once
	state atomic.Int32
	done  chan struct{}

	mu       sync.Mutex
	last     *Result
	child    *Child
	stopping bool
}

func New(opts Options, log logger.Logger) *Launcher {
	return &Launcher{
		opts:  opts,
		log:   log,
		start: (*exec.Cmd).Start,
		done:  make(chan struct{}),
	}
}

// ResolveBase returns home when it is non-empty, otherwise fallback.
func ResolveBase(home, fallback string) string {
	if home != "" {
		return home
	}
	return fallback
}

// StartupCommand joins the base directory with the relative script path.
func StartupCommand(base, rel string) string {
	return filepath.Join(base, rel)
}

func (l *Launcher) Script() string {
	return StartupCommand(ResolveBase(l.opts.Home, l.opts.Fallback), l.opts.ScriptPath)
}

// Command builds the process for script according to the launch mode. The
// child inherits the environment, the working directory and stdio.
func (l *Launcher) Command(script string) *exec.Cmd {
	var cmd *exec.Cmd
	switch l.opts.Mode {
	case config.ModeDirect:
		cmd = exec.Command(script)
	case config.ModeLoginShell:
		cmd = exec.Command(l.opts.Shell, "-l", script)
	default:
		cmd = exec.Command(l.opts.Shell, "-lc", shellescape.Quote(script))
	}

	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = detachedSysProcAttr()
	return cmd
}

// Go attempts the launch on its own goroutine and returns at once.
func (l *Launcher) Go(ctx context.Context) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				l.log.Error(component, errors.Errorf("panic during launch: %v", r), map[string]interface{}{
					"stack": string(debug.Stack()),
				})
			}
		}()

		if _, err := l.Launch(ctx); err != nil {
			l.log.Warning(component, "backend launch failed", map[string]interface{}{
				"error":  err.Error(),
				"script": l.Script(),
			})
		}
	}()
}

// Launch performs the launch attempt synchronously. Only the first call
// spawns; later calls return ErrAlreadyLaunched. The returned Child is nil
// unless the spawn succeeded.
func (l *Launcher) Launch(ctx context.Context) (*Child, error) {
	err := ErrAlreadyLaunched
	var child *Child

	l.once.Do(func() {
		defer close(l.done)
		l.state.Store(int32(LaunchAttempted))
		child, err = l.launch(ctx)
	})
	return child, err
}

func (l *Launcher) launch(ctx context.Context) (*Child, error) {
	script := l.Script()
	result := &Result{Script: script, At: time.Now()}
	defer l.record(result)

	if err := ctx.Err(); err != nil {
		result.Err = errors.Wrap(err, "launch cancelled")
		return nil, result.Err
	}

	cmd := l.Command(script)
	l.log.Debug(component, "spawning backend", map[string]interface{}{
		"script": script,
		"mode":   string(l.opts.Mode),
		"argv":   cmd.Args,
	})

	if err := l.start(cmd); err != nil {
		result.Err = errors.Wrapf(err, "starting %s", script)
		return nil, result.Err
	}

	child := newChild(cmd, l.log)
	result.PID = child.PID()

	l.mu.Lock()
	l.child = child
	stopping := l.stopping
	l.mu.Unlock()

	l.log.Info(component, "backend launched", map[string]interface{}{
		"script":       script,
		"pid":          result.PID,
		"kill_on_exit": l.opts.KillOnExit,
	})

	// Shutdown ran while the spawn was in flight.
	if stopping {
		l.log.Info(component, "shutdown in progress, terminating backend", map[string]interface{}{
			"pid": result.PID,
		})
		child.Shutdown()
	}
	return child, nil
}

func (l *Launcher) record(r *Result) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.last = r
}

func (l *Launcher) State() State {
	return State(l.state.Load())
}

// Done is closed once the launch attempt has finished, successfully or not.
func (l *Launcher) Done() <-chan struct{} {
	return l.done
}

// Last returns the launch result, or nil before the attempt has finished.
func (l *Launcher) Last() *Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.last == nil {
		return nil
	}
	r := *l.last
	return &r
}

// Shutdown terminates the child when KillOnExit is set. Without it the
// backend outlives the shell. A child spawned after Shutdown is terminated as
// soon as it starts.
func (l *Launcher) Shutdown() {
	if !l.opts.KillOnExit {
		return
	}

	l.mu.Lock()
	l.stopping = true
	child := l.child
	l.mu.Unlock()

	if child != nil {
		child.Shutdown()
	}
}
