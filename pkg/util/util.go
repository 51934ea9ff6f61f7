package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mohae/deepcopy"
	"gopkg.in/yaml.v3"
)

// LoadConfig reads a YAML file and unmarshals it into a struct of type T.
// When base is non-nil the file is layered over a deep copy of base, so keys
// absent from the file keep their base values and base itself is untouched.
func LoadConfig[T any](filepath string, base *T) (*T, error) {
	// 1. Read the file
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// 2. Start from a private copy of base, or an empty T
	config := new(T)
	if base != nil {
		config = deepcopy.Copy(base).(*T)
	}

	// 3. Unmarshal the YAML data into the struct
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	return config, nil
}

// BaseName returns the file name of path without directory or extension.
// "-" and "" map to "stdin".
func BaseName(path string) string {
	if path == "" || path == "-" {
		return "stdin"
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
