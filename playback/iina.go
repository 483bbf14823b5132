package playback

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/reelcast/reelcast/constant"
)

// IINA opens streams in IINA through LaunchServices. macOS only.
type IINA struct{}

func NewIINA() *IINA {
	return &IINA{}
}

func (*IINA) Play(h Handoff) error {
	if runtime.GOOS != constant.Darwin {
		return fmt.Errorf("IINA is only supported on macOS")
	}

	args, err := iinaArgs(h)
	if err != nil {
		return err
	}

	cmd := exec.Command("open", args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("LaunchServices failed to invoke IINA: %w", err)
	}

	go func() {
		_ = cmd.Wait()
	}()

	return nil
}

// iinaArgs passes mpv options through IINA's --args separator.
func iinaArgs(h Handoff) ([]string, error) {
	target, err := sanitizeMediaTarget(h.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid media target: %w", err)
	}

	args := []string{"-a", "IINA", "--args", fmt.Sprintf("--mpv-force-media-title=%s", sanitizeTitle(h.Title))}
	if fields := headerFields(h.Headers); fields != "" {
		args = append(args, fmt.Sprintf("--mpv-http-header-fields=%s", fields))
	}
	if h.Matroska() {
		args = append(args, "--mpv-demuxer-lavf-format=matroska")
	}

	return append(args, target), nil
}
