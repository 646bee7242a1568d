package utils

import (
	"os"
	"path/filepath"
)

// DefaultExecutableName is used when the running binary cannot be resolved
const DefaultExecutableName = "camel-map"

// ExecutableName returns the base name of the running binary, for help and
// error messages
func ExecutableName() string {
	executable, err := os.Executable()
	if err != nil {
		return DefaultExecutableName
	}
	return filepath.Base(executable)
}
