package preview

import (
	"os"
	"path/filepath"
)

// LocalPath returns the base path of the documentation tree for the given
// executable path: the parent of the parent of the executable's directory.
func LocalPath(exe string) string {
	return filepath.Join(filepath.Dir(exe), "..", "..")
}

// Executable returns the absolute, symlink-free path of the running
// program. argv0 is used only if the program path cannot be determined.
func Executable(argv0 string) string {
	exe, err := os.Executable()
	if err != nil {
		return argv0
	}

	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		return resolved
	}

	return exe
}
