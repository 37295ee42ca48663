// Package opener opens rendered diagrams in a viewer.
package opener

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Opener launches the configured viewer.
type Opener struct {
	viewer string
	goos   string
}

// New creates an opener for viewer ("system", "firefox" or "chromium").
func New(viewer string) *Opener {
	if viewer == "" {
		viewer = "system"
	}
	return &Opener{viewer: viewer, goos: runtime.GOOS}
}

// Resolve returns the absolute path of an existing output file.
func Resolve(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("no file to open")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(abs); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", abs)
		}
		return "", fmt.Errorf("checking file: %w", err)
	}
	return abs, nil
}

// Open starts the viewer on path without waiting for it to exit.
func (o *Opener) Open(path string) error {
	full, err := Resolve(path)
	if err != nil {
		return err
	}
	cmd, err := o.Command(full)
	if err != nil {
		return err
	}
	return cmd.Start()
}

// Command returns the viewer invocation for path on the current platform.
func (o *Opener) Command(path string) (*exec.Cmd, error) {
	switch o.goos {
	case "darwin":
		return o.darwinCommand(path), nil
	case "linux":
		return o.linuxCommand(path), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", o.goos)
	}
}

func (o *Opener) darwinCommand(path string) *exec.Cmd {
	switch o.viewer {
	case "firefox":
		return exec.Command("open", "-a", "Firefox", path)
	case "chromium":
		return exec.Command("open", "-a", "Chromium", path)
	default: // "system"
		return exec.Command("open", path)
	}
}

func (o *Opener) linuxCommand(path string) *exec.Cmd {
	switch o.viewer {
	case "firefox":
		return exec.Command("firefox", path)
	case "chromium":
		return exec.Command("chromium", path)
	default: // "system"
		return exec.Command("xdg-open", path)
	}
}
