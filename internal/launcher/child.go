package launcher

import (
	"os/exec"
	"time"

	"study-desktop/internal/logger"
)

const terminateGrace = 5 * time.Second

// Child is a spawned backend. It is reaped on a background goroutine so it
// never lingers as a zombie; its exit status is only logged.
type Child struct {
	cmd    *exec.Cmd
	log    logger.Logger
	exited chan struct{}
}

func newChild(cmd *exec.Cmd, log logger.Logger) *Child {
	c := &Child{
		cmd:    cmd,
		log:    log,
		exited: make(chan struct{}),
	}
	go c.reap()
	return c
}

func (c *Child) reap() {
	defer close(c.exited)
	if c.cmd.Process == nil {
		return
	}

	err := c.cmd.Wait()
	fields := map[string]interface{}{"pid": c.PID()}
	if err != nil {
		fields["error"] = err.Error()
	}
	c.log.Debug(component, "backend exited", fields)
}

func (c *Child) PID() int {
	if c.cmd.Process == nil {
		return 0
	}
	return c.cmd.Process.Pid
}

func (c *Child) Exited() <-chan struct{} {
	return c.exited
}

// Shutdown asks the child's process group to stop and kills it if it is
// still running after the grace period.
func (c *Child) Shutdown() {
	if c.cmd.Process == nil {
		return
	}

	select {
	case <-c.exited:
		return
	default:
	}

	if err := terminate(c.cmd.Process); err != nil {
		c.log.Warning(component, "terminating backend failed", map[string]interface{}{
			"pid":   c.PID(),
			"error": err.Error(),
		})
	}

	select {
	case <-c.exited:
	case <-time.After(terminateGrace):
		_ = c.cmd.Process.Kill()
		<-c.exited
	}
}
