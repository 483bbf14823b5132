package cmd

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/reelcast/reelcast/constant"
	"github.com/reelcast/reelcast/icon"
	"github.com/reelcast/reelcast/key"
	"github.com/reelcast/reelcast/provider/custom"
	"github.com/reelcast/reelcast/style"
)

// playerExecutable returns the binary a player name needs on PATH.
func playerExecutable(name string) string {
	if name == "iina" {
		return "open"
	}
	return "mpv"
}

// noSourcesError explains why a pass found no providers: nothing installed at all,
// or scripts present but all of them disabled by the sources settings.
func noSourcesError() error {
	if !custom.HasScrapers() {
		return fmt.Errorf("no sources installed, add one with %q", constant.App+" sources install <url>")
	}
	return errors.New("no sources enabled, list some in " + key.SourcesInstalled + " or turn on " + key.SourcesPluginsEnabled)
}

// checkPlayer reports a missing player binary in a box and returns false.
func checkPlayer(name string) bool {
	dep := playerExecutable(name)
	if _, err := exec.LookPath(dep); err != nil {
		printMissingDependencyError(dep)
		return false
	}
	return true
}

func printMissingDependencyError(dep string) {
	var installCmd string
	switch runtime.GOOS {
	case constant.Darwin:
		installCmd = "brew install " + dep
	case constant.Linux:
		installCmd = "sudo apt install " + dep
	case constant.Windows:
		installCmd = "scoop install " + dep
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.Red).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.Red).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("The required dependency '%s' was not found in your PATH.", dep))

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.Peach).Bold(true).Render(installCmd))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
