package launcher

import (
	"context"
	"errors"
	"os/exec"
	"sync/atomic"
	"testing"
	"time"

	"study-desktop/internal/config"
	"study-desktop/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions(home string) Options {
	opts := OptionsFromConfig(config.Default())
	opts.Home = home
	return opts
}

func TestStartupCommandForHomeValues(t *testing.T) {
	tests := []struct {
		name string
		home string
		want string
	}{
		{"home set", "/home/alice", "/home/alice/apps/Study/start_services.sh"},
		{"home empty", "", "/home/ryan/apps/Study/start_services.sh"},
		{"trailing slash", "/home/alice/", "/home/alice/apps/Study/start_services.sh"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(testOptions(tt.home), logger.Nop())
			assert.Equal(t, tt.want, l.Script())
		})
	}
}

func TestResolveBaseFromUnsetHome(t *testing.T) {
	cfg := config.Default()
	cfg.ResolveHome(func(string) (string, bool) { return "", false })

	l := New(OptionsFromConfig(cfg), logger.Nop())
	assert.Equal(t, "/home/ryan/apps/Study/start_services.sh", l.Script())
}

func TestCommandModes(t *testing.T) {
	script := "/home/alice/apps/Study/start_services.sh"

	opts := testOptions("/home/alice")
	require.Equal(t, config.ModeCommand, opts.Mode)
	cmd := New(opts, logger.Nop()).Command(script)
	assert.Equal(t, []string{"/bin/bash", "-lc", script}, cmd.Args)

	cmd = New(opts, logger.Nop()).Command("/home/o'neil/start.sh")
	assert.Equal(t, []string{"/bin/bash", "-lc", `'/home/o'"'"'neil/start.sh'`}, cmd.Args)

	opts.Mode = config.ModeLoginShell
	cmd = New(opts, logger.Nop()).Command(script)
	assert.Equal(t, []string{"/bin/bash", "-l", script}, cmd.Args)

	opts.Mode = config.ModeDirect
	cmd = New(opts, logger.Nop()).Command(script)
	assert.Equal(t, []string{script}, cmd.Args)
	assert.Empty(t, cmd.Dir)
	assert.Nil(t, cmd.Env)
	assert.NotNil(t, cmd.SysProcAttr)
}

func TestLaunchOnlyOnce(t *testing.T) {
	var calls atomic.Int32
	l := New(testOptions("/home/alice"), logger.Nop())
	l.start = func(*exec.Cmd) error {
		calls.Add(1)
		return nil
	}

	assert.Equal(t, NotStarted, l.State())

	_, err := l.Launch(context.Background())
	require.NoError(t, err)
	_, err = l.Launch(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyLaunched)

	assert.EqualValues(t, 1, calls.Load())
	assert.Equal(t, LaunchAttempted, l.State())
}

func TestLaunchRecordsStartError(t *testing.T) {
	boom := errors.New("exec format error")
	l := New(testOptions("/home/alice"), logger.Nop())
	l.start = func(*exec.Cmd) error { return boom }

	child, err := l.Launch(context.Background())
	assert.Nil(t, child)
	assert.ErrorIs(t, err, boom)

	last := l.Last()
	require.NotNil(t, last)
	assert.Equal(t, "/home/alice/apps/Study/start_services.sh", last.Script)
	assert.ErrorIs(t, last.Err, boom)
	assert.Equal(t, LaunchAttempted, l.State())
}

func TestLaunchCancelledContext(t *testing.T) {
	l := New(testOptions("/home/alice"), logger.Nop())
	l.start = func(*exec.Cmd) error {
		t.Fatal("start must not be called")
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Launch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, LaunchAttempted, l.State())
}

func TestGoReturnsBeforeSpawnFinishes(t *testing.T) {
	release := make(chan struct{})
	l := New(testOptions("/home/alice"), logger.Nop())
	l.start = func(*exec.Cmd) error {
		<-release
		return errors.New("no such file")
	}

	l.Go(context.Background())

	select {
	case <-l.Done():
		t.Fatal("launch finished while spawn was still blocked")
	default:
	}

	close(release)
	select {
	case <-l.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("launch did not finish")
	}
	require.NotNil(t, l.Last())
	assert.Error(t, l.Last().Err)
}

func TestShutdownWithoutKillOnExitIsNoop(t *testing.T) {
	l := New(testOptions("/home/alice"), logger.Nop())
	l.start = func(*exec.Cmd) error { return nil }

	_, err := l.Launch(context.Background())
	require.NoError(t, err)
	l.Shutdown()
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "not-started", NotStarted.String())
	assert.Equal(t, "launch-attempted", LaunchAttempted.String())
}
