// Package pipeline runs dirdeps end to end: a project tree goes in, DOT
// graphs and rendered images come out.
//
// This package is shared by the CLI and the HTTP server so that both use the
// same defaults, validation and caching.
//
// # Stages
//
//  1. Graph: compute the DOT graph of a directory with [dotdir.Generate].
//     Graphs are cheap and always recomputed.
//  2. Render: convert the DOT text into the requested formats. Rendered
//     artifacts are cached by the hash of the DOT text.
//
// # Usage
//
//	project, err := pipeline.LoadProject("project.toml")
//	runner := pipeline.NewRunner(cache, nil, logger)
//	dir, err := project.Dir("src/app")
//	result, err := runner.Execute(ctx, project, dir, pipeline.Options{
//	    Graph:   dotdir.DefaultOptions(),
//	    Formats: []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
//
// [Runner.RenderAll] renders every directory of a project concurrently.
package pipeline

import (
	"time"

	"github.com/dhebbeker/doxygen/pkg/dirtree"
	"github.com/dhebbeker/doxygen/pkg/dotdir"
	"github.com/dhebbeker/doxygen/pkg/errors"
	"github.com/dhebbeker/doxygen/pkg/manifest"
	"github.com/dhebbeker/doxygen/pkg/render"
)

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = render.FormatSVG

// DefaultConcurrency bounds parallel renders in [Runner.RenderAll].
const DefaultConcurrency = 4

// =============================================================================
// Project
// =============================================================================

// Project is a loaded directory tree together with the relation cache shared
// by every graph computed for it.
type Project struct {
	Tree      *dirtree.Tree
	Relations *dotdir.RelationCache
}

// NewProject wraps a built tree.
func NewProject(tree *dirtree.Tree) *Project {
	return &Project{Tree: tree, Relations: dotdir.NewRelationCache()}
}

// LoadProject reads a manifest file and builds its tree.
func LoadProject(path string) (*Project, error) {
	tree, err := manifest.LoadTree(path)
	if err != nil {
		return nil, err
	}
	return NewProject(tree), nil
}

// Dir looks up a directory by path or ID.
func (p *Project) Dir(key string) (*dirtree.Dir, error) {
	return p.Tree.Dir(key)
}

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline run.
type Options struct {
	Graph   dotdir.Options
	Formats []string
	// Refresh bypasses cached artifacts and overwrites them.
	Refresh bool
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// A zero Graph is replaced by [dotdir.DefaultOptions]; callers that want
// explicit zero limits must set at least one other field.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Graph == (dotdir.Options{}) {
		o.Graph = dotdir.DefaultOptions()
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	for _, f := range o.Formats {
		if err := render.ValidateFormat(f); err != nil {
			return err
		}
	}
	if o.Graph.MaxSuccessor < 0 || o.Graph.MaxAncestor < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "graph limits must not be negative (successor %d, ancestor %d)",
			o.Graph.MaxSuccessor, o.Graph.MaxAncestor)
	}
	if o.Graph.FontSize <= 0 {
		o.Graph.FontSize = dotdir.DefaultOptions().FontSize
	}
	if o.Graph.FontName == "" {
		o.Graph.FontName = dotdir.DefaultOptions().FontName
	}
	return nil
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a pipeline run for one directory.
type Result struct {
	Dir   *dirtree.Dir
	Graph *dotdir.Graph

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	GraphTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache use of the render stage.
type CacheInfo struct {
	RenderHit bool // Whether every image artifact came from cache
}
