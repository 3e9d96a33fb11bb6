package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	lgerrors "github.com/matzehuels/liegraph/pkg/errors"
)

// Format is a snapshot document encoding.
type Format string

// Supported snapshot encodings.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the encoding from a file extension.
// .yaml and .yml select YAML; everything else is read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// FormatFromContentType picks the encoding from an HTTP Content-Type header.
// YAML media types select YAML; everything else is read as JSON.
func FormatFromContentType(contentType string) Format {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return FormatJSON
	}
	switch mt {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return FormatYAML
	}
	return FormatJSON
}

// Decode reads a snapshot document from r and validates it.
//
// Decode returns an error carrying [lgerrors.ErrCodeInvalidSnapshot] if the
// document is malformed or fails [Validate]. Decode does not close r.
func Decode(r io.Reader, f Format) (*Snapshot, error) {
	var s Snapshot
	switch f {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&s); err != nil {
			if err == io.EOF {
				return nil, lgerrors.New(lgerrors.ErrCodeInvalidSnapshot, "empty document")
			}
			return nil, lgerrors.Wrap(lgerrors.ErrCodeInvalidSnapshot, err, "decode yaml")
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&s); err != nil {
			if err == io.EOF {
				return nil, lgerrors.New(lgerrors.ErrCodeInvalidSnapshot, "empty document")
			}
			return nil, lgerrors.Wrap(lgerrors.ErrCodeInvalidSnapshot, err, "decode json")
		}
	default:
		return nil, lgerrors.New(lgerrors.ErrCodeInvalidFormat, "unsupported snapshot format %q", f)
	}

	if err := Validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Parse decodes an in-memory snapshot document.
func Parse(data []byte, f Format) (*Snapshot, error) {
	return Decode(bytes.NewReader(data), f)
}

// ReadFile reads and validates the snapshot at path, choosing the encoding
// with [FormatFromPath].
func ReadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, lgerrors.Wrap(lgerrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, lgerrors.Wrap(lgerrors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()

	s, err := Decode(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return s, nil
}
