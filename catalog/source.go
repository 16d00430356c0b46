package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vortex-fintech/intlphone/geo"
)

// Source yields the full, ordered country sequence.
type Source interface {
	Load(ctx context.Context) ([]geo.Country, error)
	Name() string
}

// SourceFunc adapts a function to Source.
type SourceFunc struct {
	SourceName string
	Fn         func(ctx context.Context) ([]geo.Country, error)
}

func (s SourceFunc) Load(ctx context.Context) ([]geo.Country, error) { return s.Fn(ctx) }
func (s SourceFunc) Name() string                                    { return s.SourceName }

//go:embed countries.json
var embeddedCountries []byte

type embeddedSource struct{}

// Embedded returns the dataset compiled into the binary.
func Embedded() Source { return embeddedSource{} }

func (embeddedSource) Name() string { return "embedded" }

func (embeddedSource) Load(ctx context.Context) ([]geo.Country, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return DecodeJSON(embeddedCountries)
}

type fileSource struct {
	path string
}

// File reads a JSON (.json) or YAML (.yaml, .yml) document holding a list
// of countries. The file is re-read on every Load.
func File(path string) Source { return fileSource{path: path} }

func (s fileSource) Name() string { return "file:" + s.path }

func (s fileSource) Load(ctx context.Context) ([]geo.Country, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	case ".json", "":
		return DecodeJSON(data)
	default:
		return nil, fmt.Errorf("catalog: unsupported file extension %q", filepath.Ext(s.path))
	}
}

// DecodeJSON parses a JSON array of countries. Both the nested "names" form
// and the flat legacy form are accepted.
func DecodeJSON(data []byte) ([]geo.Country, error) {
	var out []geo.Country
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("catalog: decode json: %w", err)
	}
	return out, nil
}

// DecodeYAML parses a YAML sequence of countries in the nested form.
func DecodeYAML(data []byte) ([]geo.Country, error) {
	var out []geo.Country
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("catalog: decode yaml: %w", err)
	}
	return out, nil
}
