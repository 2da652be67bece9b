// Package manifest reads project descriptions that list source files and the
// files they include, and turns them into a [dirtree.Tree].
//
// Three encodings are supported. TOML:
//
//	[[file]]
//	path = "src/app/main.c"
//	includes = ["src/lib/util.h"]
//
// JSON:
//
//	{"files": [{"path": "src/app/main.c", "includes": ["src/lib/util.h"]}]}
//
// and YAML:
//
//	files:
//	  - path: src/app/main.c
//	    includes: [src/lib/util.h]
//
// Include paths are project-relative. Includes that do not name a listed
// file are treated as external and ignored by the tree builder.
package manifest

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/dhebbeker/doxygen/pkg/dirtree"
	"github.com/dhebbeker/doxygen/pkg/errors"
)

// Manifest is the decoded project description.
type Manifest struct {
	Files []File `toml:"file" json:"files" yaml:"files"`
}

// File is one source file entry.
type File struct {
	Path     string   `toml:"path" json:"path" yaml:"path"`
	Includes []string `toml:"includes" json:"includes,omitempty" yaml:"includes,omitempty"`
}

// Format names accepted by [Load].
const (
	FormatTOML = "toml"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ReadTOML decodes a TOML manifest from r.
func ReadTOML(r io.Reader) (*Manifest, error) {
	var m Manifest
	if _, err := toml.NewDecoder(r).Decode(&m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode toml")
	}
	return &m, nil
}

// ReadJSON decodes a JSON manifest from r.
func ReadJSON(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode json")
	}
	return &m, nil
}

// ReadYAML decodes a YAML manifest from r.
func ReadYAML(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := yaml.NewDecoder(r).Decode(&m); err != nil && err != io.EOF {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode yaml")
	}
	return &m, nil
}

// Load reads the manifest at path, choosing the decoder by file extension.
func Load(path string) (*Manifest, error) {
	format, err := formatOf(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open manifest %s", path)
	}
	defer f.Close()

	switch format {
	case FormatJSON:
		return ReadJSON(f)
	case FormatYAML:
		return ReadYAML(f)
	}
	return ReadTOML(f)
}

func formatOf(path string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "yml" {
		ext = FormatYAML
	}
	if err := errors.ValidateFormat(ext, FormatTOML, FormatJSON, FormatYAML); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "manifest %s", path)
	}
	return ext, nil
}

// Build feeds every manifest entry into a [dirtree.Builder] and builds the tree.
func Build(m *Manifest) (*dirtree.Tree, error) {
	b := dirtree.NewBuilder()
	for i, f := range m.Files {
		if err := b.AddFile(f.Path, f.Includes...); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "file entry %d", i)
		}
	}
	return b.Build()
}

// LoadTree combines [Load] and [Build].
func LoadTree(path string) (*dirtree.Tree, error) {
	m, err := Load(path)
	if err != nil {
		return nil, err
	}
	return Build(m)
}
