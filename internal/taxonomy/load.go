package taxonomy

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies a document encoding for a dataset file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnsupportedFormat is returned for file extensions the loader does not handle.
var ErrUnsupportedFormat = errors.New("unsupported dataset format")

// FormatFromPath infers the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// LoadFile reads a JSON or YAML dataset document.
func LoadFile(path string) (*Dataset, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	ds, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return ds, nil
}

// Parse decodes a dataset document in the given format.
func Parse(data []byte, format Format) (*Dataset, error) {
	var ds Dataset
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &ds); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &ds); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return &ds, nil
}

// Encode writes a dataset document in the given format.
func Encode(ds *Dataset, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(ds, "", "  ")
	case FormatYAML:
		return yaml.Marshal(ds)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}
