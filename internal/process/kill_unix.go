//go:build !windows

package process

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// SetProcessGroup makes cmd the leader of a new process group so that
// KillProcessGroup also reaches the tools it spawns (xelatex runs helpers).
func SetProcessGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// KillProcessGroup kills a process and all its children by sending SIGKILL
// to the process group (negative PID).
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Best-effort; exec.Cmd.Wait still reaps the leader.
	_ = unix.Kill(-pid, unix.SIGKILL)
}
