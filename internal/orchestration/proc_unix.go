//go:build !windows

package orchestration

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// configureWorkerProcess places the worker in its own process group so the
// worker and any helpers it spawns can be signaled as one unit.
func configureWorkerProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// signalWorkerGroup asks a worker's whole process group to terminate
// gracefully. A missing group means the worker is already gone; that is a
// no-op, not an error.
func signalWorkerGroup(cmd *exec.Cmd) {
	pgid, ok := workerGroup(cmd)
	if !ok {
		return
	}
	// Negative PGID targets the full process group (worker + spawned children).
	_ = unix.Kill(-pgid, unix.SIGTERM)
}

// killWorkerGroup force-kills a worker's whole process group, falling back
// to the direct child when the group cannot be resolved.
func killWorkerGroup(cmd *exec.Cmd) {
	pgid, ok := workerGroup(cmd)
	if !ok {
		if cmd != nil && cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		return
	}
	_ = unix.Kill(-pgid, unix.SIGKILL)
}

func workerGroup(cmd *exec.Cmd) (int, bool) {
	if cmd == nil || cmd.Process == nil {
		return 0, false
	}
	pid := cmd.Process.Pid
	if pid <= 0 {
		return 0, false
	}
	pgid, err := unix.Getpgid(pid)
	if err != nil || pgid <= 0 {
		return 0, false
	}
	return pgid, true
}
