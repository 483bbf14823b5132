//go:build windows

package playback

import "syscall"

func sysProcAttr() *syscall.SysProcAttr {
	return nil
}
