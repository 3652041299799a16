//go:build windows

package launcher

import (
	"os"
	"syscall"
)

const detachedProcess = 0x00000008

func detachedSysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP | detachedProcess,
		HideWindow:    true,
	}
}

func terminate(p *os.Process) error {
	return p.Kill()
}
