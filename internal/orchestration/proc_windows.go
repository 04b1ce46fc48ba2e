//go:build windows

package orchestration

import "os/exec"

// configureWorkerProcess is a no-op on Windows; POSIX process groups are
// unavailable, so termination falls back to killing the direct child.
func configureWorkerProcess(cmd *exec.Cmd) {}

func signalWorkerGroup(cmd *exec.Cmd) {
	if cmd == nil || cmd.Process == nil {
		return
	}
	_ = cmd.Process.Kill()
}

func killWorkerGroup(cmd *exec.Cmd) {
	if cmd == nil || cmd.Process == nil {
		return
	}
	_ = cmd.Process.Kill()
}
