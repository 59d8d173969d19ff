// Package savepath derives the default Minecraft save directory for the
// current platform. It is pure glue: one module-level read of the OS and
// environment, returned as a value rather than consulted elsewhere.
package savepath

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Default returns the platform's default Minecraft saves directory. Only
// macOS and Windows have a known default; any other GOOS is unsupported.
func Default() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, "Library", "Application Support", "minecraft", "saves"), nil
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("%%appdata%% is not set")
		}
		return filepath.Join(appData, ".minecraft", "saves"), nil
	default:
		return "", fmt.Errorf("no default save root for platform %q; pass --root explicitly", runtime.GOOS)
	}
}
