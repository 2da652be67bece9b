package dotdir

import (
	"fmt"
	"strings"

	"github.com/dhebbeker/doxygen/pkg/dirtree"
)

// drawTree writes dir and, within the successor limit, its descendants.
// Directories without a property were never selected and are skipped.
func (g *generator) drawTree(dir *dirtree.Dir) []dependency {
	prop, ok := g.props[dir]
	if !ok || g.emitted[dir] {
		return nil
	}

	if !dir.IsCluster() {
		g.writeNode(dir, prop)
		return collect(dir, true)
	}
	if dir.Level()-g.startLevel >= g.opts.MaxSuccessor {
		prop.Truncated = true
		g.writeNode(dir, prop)
		return collect(dir, true)
	}

	g.openCluster(dir, prop)
	deps := collect(dir, false)
	for _, child := range dir.Children() {
		deps = append(deps, g.drawTree(child)...)
	}
	g.closeCluster()
	return deps
}

// drawPeripherals writes used directories that were not drawn so far and
// share a parent with the origin or one of its ancestors. It returns the
// directories it drew.
func (g *generator) drawPeripherals() map[*dirtree.Dir]bool {
	drawn := make(map[*dirtree.Dir]bool)
	candidates := Dependees(Successors([]*dirtree.Dir{g.origin}), 0)

	for dir := g.origin; dir != nil; dir = dir.Parent() {
		for _, u := range candidates {
			if g.emitted[u] || u == dir || u.Parent() != dir.Parent() || u.IsAncestorOf(g.origin) {
				continue
			}
			prop := g.property(u)
			prop.Orphaned = u.Parent() != nil
			prop.Truncated = u.IsCluster()
			prop.Peripheral = true
			g.writeNode(u, prop)
			drawn[u] = true
		}
	}
	return drawn
}

func (g *generator) writeNode(dir *dirtree.Dir, prop *Property) {
	g.emit(dir)
	fmt.Fprintf(&g.buf, "%s%s [shape=box, label=\"%s\", style=\"%s\", fillcolor=\"%s\", color=\"%s\", URL=\"%s%s\"];\n",
		g.indent(), dir.ID(), escape(dir.ShortName()), style(prop), fillColor(dir.Level()), borderColor(prop),
		dir.ID(), g.opts.FileExtension)
}

// openCluster starts a subgraph for dir. The cluster carries a plaintext node
// with the directory's own ID so that edges can attach to it.
func (g *generator) openCluster(dir *dirtree.Dir, prop *Property) {
	g.emit(dir)
	fmt.Fprintf(&g.buf, "%ssubgraph cluster%s {\n", g.indent(), dir.ID())
	g.depth++
	fmt.Fprintf(&g.buf, "%sgraph [ bgcolor=\"%s\", pencolor=\"%s\", style=\"%s\", label=\"\", fontname=\"%s\", fontsize=\"%d\", URL=\"%s%s\"]\n",
		g.indent(), fillColor(dir.Level()), borderColor(prop), style(prop), escape(g.opts.FontName), g.opts.FontSize,
		dir.ID(), g.opts.FileExtension)
	fmt.Fprintf(&g.buf, "%s%s [shape=plaintext, label=\"%s\"];\n", g.indent(), dir.ID(), escape(dir.ShortName()))
}

func (g *generator) closeCluster() {
	g.depth--
	fmt.Fprintf(&g.buf, "%s}\n", g.indent())
}

// indent returns the prefix for statements at the current cluster depth.
func (g *generator) indent() string {
	return strings.Repeat("  ", g.depth+1)
}

func (g *generator) emit(dir *dirtree.Dir) {
	g.emitted[dir] = true
	g.nodes = append(g.nodes, dir)
}
