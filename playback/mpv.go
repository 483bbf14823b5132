package playback

import (
	"fmt"
	"net/url"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/reelcast/reelcast/log"
)

// MPV launches mpv detached from the terminal.
type MPV struct {
	// Executable defaults to "mpv".
	Executable string
}

func NewMPV() *MPV {
	return &MPV{Executable: "mpv"}
}

// Play starts mpv and returns once the process is running.
func (m *MPV) Play(h Handoff) error {
	args, err := mpvArgs(h)
	if err != nil {
		return err
	}

	cmd := exec.Command(m.Executable, args...)
	cmd.SysProcAttr = sysProcAttr()
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	log.Infof("mpv started (pid %d) for %s", cmd.Process.Pid, h.Title)

	// reap
	go func() {
		_ = cmd.Wait()
	}()

	return nil
}

func mpvArgs(h Handoff) ([]string, error) {
	target, err := sanitizeMediaTarget(h.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid media target: %w", err)
	}

	title := sanitizeTitle(h.Title)

	// user mpv.conf is respected: no --vo, --profile or --hwdec
	args := []string{
		"--no-terminal",
		"--really-quiet",
		"--force-window=yes",
		fmt.Sprintf("--force-media-title=%s", title),
		fmt.Sprintf("--title=%s", title),
	}

	if fields := headerFields(h.Headers); fields != "" {
		args = append(args, fmt.Sprintf("--http-header-fields=%s", fields))
	}

	if h.Matroska() {
		args = append(args, "--demuxer-lavf-format=matroska")
	}

	return append(args, target), nil
}

// headerFields joins headers the way --http-header-fields expects, in a stable order.
func headerFields(headers map[string]string) string {
	if len(headers) == 0 {
		return ""
	}

	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]string, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, fmt.Sprintf("%s: %s", k, strings.ReplaceAll(headers[k], ",", "%2C")))
	}
	return strings.Join(fields, ",")
}

// sanitizeMediaTarget rejects anything that could be read as a flag or is not http(s) or a local path.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}

func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
