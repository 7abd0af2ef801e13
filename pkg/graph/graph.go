package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	nlerrors "github.com/matzehuels/nestlayout/pkg/errors"
)

// Format selects the on-disk encoding of a graph file.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFor picks the encoding from a file extension. Unknown extensions are
// treated as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// =============================================================================
// Graph Serialization API
// =============================================================================

// Marshal converts a graph to indented JSON bytes.
func Marshal(g Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(g, &buf, FormatJSON); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes JSON bytes into a graph.
func Unmarshal(data []byte) (Graph, error) {
	return Read(bytes.NewReader(data), FormatJSON)
}

// WriteFile writes a graph to path, choosing the encoding from the extension.
func WriteFile(g Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(g, f, FormatFor(path))
}

// Write encodes a graph to w.
func Write(g Graph, w io.Writer, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(g); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(g); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	}
}

// ReadFile reads a graph file, choosing the decoder from the extension.
// The graph is returned as stored; call [Graph.Normalize] and
// [Graph.Validate] before laying it out.
func ReadFile(path string) (Graph, error) {
	if err := nlerrors.ValidatePath(path); err != nil {
		return Graph{}, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Graph{}, nlerrors.Wrap(nlerrors.ErrCodeFileNotFound, err, "graph file %s", path)
	}
	if err != nil {
		return Graph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	g, err := Read(f, FormatFor(path))
	if err != nil {
		return Graph{}, nlerrors.Wrap(nlerrors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return g, nil
}

// Read decodes a graph from r.
func Read(r io.Reader, format Format) (Graph, error) {
	var g Graph
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&g); err != nil && err != io.EOF {
			return Graph{}, fmt.Errorf("decode: %w", err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&g); err != nil {
			return Graph{}, fmt.Errorf("decode: %w", err)
		}
	}
	return g, nil
}
