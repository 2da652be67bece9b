package dotdir

import (
	"fmt"

	"github.com/dhebbeker/doxygen/pkg/dirtree"
)

// writeEdges emits the collected dependencies that are still meaningful in
// the drawn graph. An inherited edge is only kept when its dependee is
// truncated, because a more precise edge is drawn deeper otherwise.
func (g *generator) writeEdges(deps []dependency, peripherals map[*dirtree.Dir]bool) {
	written := make(map[string]bool)
	for _, d := range deps {
		dependee := d.used.Dir()
		keep := peripherals[dependee]
		if !keep && g.emitted[dependee] {
			keep = !d.fullyInherited || g.props[dependee].Truncated
		}
		if !keep {
			continue
		}

		rel := g.relations.Get(d.from, d.used)
		if written[rel.Name] {
			continue
		}
		written[rel.Name] = true
		g.edges = append(g.edges, rel)

		fmt.Fprintf(&g.buf, "  \"%s\"->\"%s\" [headlabel=\"%d\", labeldistance=1.5", d.from.ID(), dependee.ID(), rel.FileCount())
		if g.opts.LinkRelations {
			fmt.Fprintf(&g.buf, ", headhref=\"%s%s\"", rel.Name, g.opts.FileExtension)
		}
		g.buf.WriteString("];\n")
	}
}
