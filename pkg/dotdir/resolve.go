package dotdir

import "github.com/dhebbeker/doxygen/pkg/dirtree"

// treeRoots walks up from every based-on directory and returns the distinct
// roots to draw from, in discovery order.
func (g *generator) treeRoots(basedOn []*dirtree.Dir) []*dirtree.Dir {
	var roots []*dirtree.Dir
	seen := make(map[*dirtree.Dir]bool)
	for _, d := range basedOn {
		roots = g.resolveRoot(d, roots, seen)
	}
	return roots
}

func (g *generator) resolveRoot(dir *dirtree.Dir, roots []*dirtree.Dir, seen map[*dirtree.Dir]bool) []*dirtree.Dir {
	if seen[dir] {
		return roots
	}

	prop := g.property(dir)
	if !g.originalTree[dir] {
		prop.Incomplete = true
	}

	parent := dir.Parent()
	switch {
	case parent == nil:
	case g.startLevel-parent.Level() > g.opts.MaxAncestor:
		prop.Orphaned = true
	default:
		return g.resolveRoot(parent, roots, seen)
	}

	seen[dir] = true
	return append(roots, dir)
}
