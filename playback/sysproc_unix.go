//go:build !windows

package playback

import "syscall"

// sysProcAttr puts the player in its own process group so it outlives the CLI.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setpgid: true,
	}
}
