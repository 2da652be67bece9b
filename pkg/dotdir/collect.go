package dotdir

import (
	"sort"

	"github.com/dhebbeker/doxygen/pkg/dirtree"
)

// Successors returns dirs together with all of their descendants, without
// any depth limit. Each directory appears once.
func Successors(dirs []*dirtree.Dir) []*dirtree.Dir {
	var out []*dirtree.Dir
	for _, d := range dirs {
		out = append(out, d)
		out = append(out, Successors(d.Children())...)
	}
	return out
}

// Dependees returns the directories used by any of dirs whose level is at
// least minLevel, ordered by ID and without duplicates.
func Dependees(dirs []*dirtree.Dir, minLevel int) []*dirtree.Dir {
	var out []*dirtree.Dir
	for _, d := range dirs {
		for _, u := range d.UsedDirs() {
			if u.Dir().Level() >= minLevel {
				out = append(out, u.Dir())
			}
		}
	}
	return uniqueByID(out)
}

func uniqueByID(dirs []*dirtree.Dir) []*dirtree.Dir {
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].ID() < dirs[j].ID() })
	out := dirs[:0]
	for i, d := range dirs {
		if i > 0 && d == dirs[i-1] {
			continue
		}
		out = append(out, d)
	}
	return out
}

// dependency is a uses edge met while drawing, with whether every file pair
// behind it was inherited by the dependee.
type dependency struct {
	from           *dirtree.Dir
	used           *dirtree.UsedDir
	fullyInherited bool
}

// collect returns the uses edges of dir worth considering. Expanded clusters
// skip edges that only exist because of their children, since those edges
// are collected again from the children themselves.
func collect(dir *dirtree.Dir, leaf bool) []dependency {
	var deps []dependency
	for _, u := range dir.UsedDirs() {
		if u.Dir().IsAncestorOf(dir) {
			continue
		}
		if !leaf && u.IsAllDependentsInherited() {
			continue
		}
		deps = append(deps, dependency{
			from:           dir,
			used:           u,
			fullyInherited: u.IsAllDependeesInherited(),
		})
	}
	return deps
}
