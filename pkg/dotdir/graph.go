package dotdir

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dhebbeker/doxygen/pkg/dirtree"
)

// Graph is the outcome of one graph computation.
type Graph struct {
	// Origin is the directory the graph was requested for.
	Origin *dirtree.Dir
	// Nodes lists the drawn directories in emission order, clusters included.
	Nodes []*dirtree.Dir
	// Edges lists the drawn relations in emission order.
	Edges []*Relation
	// Properties holds the final drawing state of every selected directory.
	Properties map[*dirtree.Dir]Property
	// DOT is the rendered graph description.
	DOT []byte
}

type generator struct {
	opts         Options
	relations    *RelationCache
	origin       *dirtree.Dir
	startLevel   int
	originalTree map[*dirtree.Dir]bool
	props        map[*dirtree.Dir]*Property
	emitted      map[*dirtree.Dir]bool
	depth        int
	nodes        []*dirtree.Dir
	edges        []*Relation
	buf          bytes.Buffer
}

// Generate computes the dependency graph of dir. A nil relations cache is
// replaced by a private one.
func Generate(dir *dirtree.Dir, opts Options, relations *RelationCache) *Graph {
	if relations == nil {
		relations = NewRelationCache()
	}
	g := &generator{
		opts:         opts,
		relations:    relations,
		origin:       dir,
		startLevel:   dir.Level(),
		originalTree: make(map[*dirtree.Dir]bool),
		props:        make(map[*dirtree.Dir]*Property),
		emitted:      make(map[*dirtree.Dir]bool),
	}
	return g.run()
}

func (g *generator) run() *Graph {
	g.writeHeader()

	successors := Successors([]*dirtree.Dir{g.origin})
	for _, d := range successors {
		g.originalTree[d] = true
		g.property(d)
	}
	dependees := Dependees(successors, g.startLevel-g.opts.MaxAncestor)
	for _, d := range dependees {
		g.property(d)
	}

	roots := g.treeRoots(append([]*dirtree.Dir{g.origin}, dependees...))
	g.property(g.origin).Original = true

	var deps []dependency
	for _, root := range roots {
		deps = append(deps, g.drawTree(root)...)
	}
	peripherals := g.drawPeripherals()
	g.writeEdges(deps, peripherals)
	g.buf.WriteString("}\n")

	props := make(map[*dirtree.Dir]Property, len(g.props))
	for d, p := range g.props {
		props[d] = *p
	}
	return &Graph{
		Origin:     g.origin,
		Nodes:      g.nodes,
		Edges:      g.edges,
		Properties: props,
		DOT:        g.buf.Bytes(),
	}
}

func (g *generator) property(dir *dirtree.Dir) *Property {
	p, ok := g.props[dir]
	if !ok {
		p = &Property{}
		g.props[dir] = p
	}
	return p
}

func (g *generator) writeHeader() {
	fmt.Fprintf(&g.buf, "digraph \"%s\" {\n", escape(g.origin.DisplayName()))
	if g.opts.Transparent {
		g.buf.WriteString("  bgcolor=transparent;\n")
	}
	g.buf.WriteString("  compound=true\n")
	fmt.Fprintf(&g.buf, "  node [ fontsize=\"%d\", fontname=\"%s\"];\n", g.opts.FontSize, escape(g.opts.FontName))
	fmt.Fprintf(&g.buf, "  edge [ labelfontsize=\"%d\", labelfontname=\"%s\"];\n", g.opts.FontSize, escape(g.opts.FontName))
}

// Write writes the DOT graph of dir to w.
func Write(w io.Writer, dir *dirtree.Dir, opts Options, relations *RelationCache) error {
	_, err := w.Write(Generate(dir, opts, relations).DOT)
	return err
}

// ToDOT returns the DOT graph of dir.
func ToDOT(dir *dirtree.Dir, opts Options, relations *RelationCache) string {
	return string(Generate(dir, opts, relations).DOT)
}

// Analyze returns the drawing properties of every candidate directory in
// the graph of dir.
func Analyze(dir *dirtree.Dir, opts Options, relations *RelationCache) map[*dirtree.Dir]Property {
	return Generate(dir, opts, relations).Properties
}

// IsTrivial reports whether the graph of dir would show dir alone.
func IsTrivial(dir *dirtree.Dir) bool {
	return !dir.IsCluster() && len(dir.UsedDirs()) == 0
}

// BaseName returns the file base name for the graph of dir.
func BaseName(dir *dirtree.Dir) string {
	return dir.ID() + "_dep"
}
