// Package preview is the OS-integration collaborator: it hands scan
// artifacts and the output directory to the platform's file viewer.
// It is deliberately outside the engine core.
package preview

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// OpenDirectory opens dir in the platform file manager
func OpenDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("output directory not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return launch(dir)
}

// OpenFile opens path in the platform's default viewer
func OpenFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("file not accessible: %w", err)
	}
	return launch(path)
}

// launch starts the platform opener without waiting for it
func launch(target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", target)
	case "darwin":
		cmd = exec.Command("open", target)
	default:
		cmd = exec.Command("xdg-open", target)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open %s: %w", target, err)
	}
	return nil
}
