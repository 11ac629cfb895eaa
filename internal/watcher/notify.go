package watcher

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
)

// Notify sends a desktop notification for the alert: osascript on macOS,
// notify-send on Linux. Anything else, or a failure, prints to stderr.
func Notify(alert Alert) error {
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf(`display notification %q with title "devstreaks" subtitle %q`, alert.Message, alert.Title)
		return runNotifier(alert, "osascript", "-e", script)
	case "linux":
		return runNotifier(alert, "notify-send", "devstreaks: "+alert.Title, alert.Message)
	default:
		return writeAlert(os.Stderr, alert)
	}
}

func runNotifier(alert Alert, name string, args ...string) error {
	if _, err := exec.LookPath(name); err != nil {
		return writeAlert(os.Stderr, alert)
	}
	if err := exec.Command(name, args...).Run(); err != nil {
		return writeAlert(os.Stderr, alert)
	}
	return nil
}

// writeAlert prints the alert as a single line.
func writeAlert(w io.Writer, alert Alert) error {
	_, err := fmt.Fprintf(w, "[%s] %s: %s\n", alert.Level, alert.Title, alert.Message)
	return err
}
