// Package load decodes a ProductionGraph or SolverConfig from JSON, YAML, or
// TOML, so callers (the CLI, tests, or an embedding service) never need
// format-specific unmarshaling code of their own.
package load

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/foundryflow/layoutengine/pkg/layout"
)

// Format names a supported serialization; DetectFormat infers one from a
// file extension when the caller doesn't already know it.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// DetectFormat maps a file extension (".json", ".yaml"/".yml", ".toml") to
// a Format, defaulting to JSON for anything else.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// Graph reads and decodes a ProductionGraph from path, inferring the format
// from its extension, then validates it.
func Graph(path string) (*layout.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: reading %s: %w", path, err)
	}

	var raw layout.ProductionGraph
	if err := unmarshal(DetectFormat(path), data, &raw); err != nil {
		return nil, fmt.Errorf("load: decoding %s: %w", path, err)
	}

	return layout.NewGraph(raw)
}

// Config reads and decodes a SolverConfig from path, inferring the format
// from its extension.
func Config(path string) (layout.SolverConfig, error) {
	var cfg layout.SolverConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("load: reading %s: %w", path, err)
	}
	if err := unmarshal(DetectFormat(path), data, &cfg); err != nil {
		return cfg, fmt.Errorf("load: decoding %s: %w", path, err)
	}
	return cfg, nil
}

func unmarshal(format Format, data []byte, v any) error {
	switch format {
	case FormatYAML:
		return yaml.Unmarshal(data, v)
	case FormatTOML:
		return toml.Unmarshal(data, v)
	case FormatJSON:
		return json.Unmarshal(data, v)
	default:
		return fmt.Errorf("load: unsupported format %q", format)
	}
}
