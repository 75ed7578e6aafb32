// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reference loads the keyword, venue and surname lists that drive the
// feed query and the relevance scorer. The lists are plain data injected into
// the pipeline; a YAML file can replace the built-in defaults.
package reference

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Data holds the reference lists.
type Data struct {
	Keywords []string `yaml:"keywords"`
	Venues   []string `yaml:"venues"`
	Surnames []string `yaml:"surnames"`
}

// Default returns the built-in lists.
func Default() Data {
	d, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("reference: invalid built-in data: %v", err))
	}
	return d
}

// Load reads a reference file. Lists missing from the file fall back to the
// built-in defaults, so a file may override only the venues, for example.
// An empty path returns Default().
func Load(path string) (Data, error) {
	def := Default()
	if path == "" {
		return def, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Data{}, fmt.Errorf("reading reference file: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return Data{}, err
	}
	if len(d.Keywords) == 0 {
		d.Keywords = def.Keywords
	}
	if len(d.Venues) == 0 {
		d.Venues = def.Venues
	}
	if len(d.Surnames) == 0 {
		d.Surnames = def.Surnames
	}
	return d, nil
}

// Parse decodes YAML reference data and drops blank entries.
func Parse(data []byte) (Data, error) {
	var d Data
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Data{}, fmt.Errorf("parsing reference file: %w", err)
	}
	d.Keywords = clean(d.Keywords)
	d.Venues = clean(d.Venues)
	d.Surnames = clean(d.Surnames)
	return d, nil
}

func clean(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
