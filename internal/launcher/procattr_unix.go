//go:build !windows

package launcher

import (
	"os"
	"syscall"
)

// detachedSysProcAttr puts the child in a new session so it survives the
// shell and does not receive the terminal's signals.
func detachedSysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setsid: true,
	}
}

func terminate(p *os.Process) error {
	// The child leads its own session, so its pid is also the group id.
	return syscall.Kill(-p.Pid, syscall.SIGTERM)
}
