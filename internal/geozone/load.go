package geozone

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
)

// Load reads the file at path and parses its full contents as JSON,
// returning the generic root value. No structure is checked here.
func Load(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, path, err)
	}
	return parse(data, path)
}

// LoadReader is Load for an already open stream such as stdin.
func LoadReader(r io.Reader) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return parse(data, "stdin")
}

func parse(data []byte, source string) (any, error) {
	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, source, err)
	}
	return root, nil
}
