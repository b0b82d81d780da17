package deck

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for file extensions with no codec.
var ErrUnknownFormat = errors.New("unknown deck format")

// Format is a deck file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the encoding from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// ParseJSON parses a deck from JSON.
func ParseJSON(data []byte) (*Deck, error) {
	var d Deck
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// ToJSON encodes a deck as JSON.
func ToJSON(d *Deck, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(d, "", "  ")
	}
	return json.Marshal(d)
}

// ParseYAML parses a deck from YAML.
func ParseYAML(data []byte) (*Deck, error) {
	var d Deck
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// ToYAML encodes a deck as YAML.
func ToYAML(d *Deck) ([]byte, error) {
	return yaml.Marshal(d)
}

// Parse decodes data in the given format.
func Parse(data []byte, f Format) (*Deck, error) {
	switch f {
	case FormatJSON:
		return ParseJSON(data)
	case FormatYAML:
		return ParseYAML(data)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// Encode encodes a deck in the given format. JSON output is indented.
func Encode(d *Deck, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return ToJSON(d, true)
	case FormatYAML:
		return ToYAML(d)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// ReadFile reads a deck, choosing the codec by extension.
func ReadFile(path string) (*Deck, error) {
	f, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	d, err := Parse(data, f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return d, nil
}

// WriteFile writes a deck, choosing the codec by extension.
func WriteFile(path string, d *Deck) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}

	data, err := Encode(d, f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
