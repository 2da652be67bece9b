package dirtree

// FilePair is one include between two files underlying a directory uses edge.
type FilePair struct {
	Source      *File
	Destination *File

	// InheritedByDependent is set when the edge's dependent is a strict
	// ancestor of the directory containing Source.
	InheritedByDependent bool
	// InheritedByDependee is set when the edge's dependee is a strict
	// ancestor of the directory containing Destination.
	InheritedByDependee bool
}

// UsedDir is a uses edge from a dependent directory to the dependee Dir.
type UsedDir struct {
	dir   *Dir
	pairs []FilePair
	index map[[2]*File]struct{}
}

func newUsedDir(dependee *Dir) *UsedDir {
	return &UsedDir{dir: dependee, index: make(map[[2]*File]struct{})}
}

// Dir returns the dependee.
func (u *UsedDir) Dir() *Dir { return u.dir }

// FilePairs returns the underlying file pairs in insertion order.
// The returned slice must not be modified.
func (u *UsedDir) FilePairs() []FilePair { return u.pairs }

// IsAllDependentsInherited reports whether every file pair was inherited by
// the dependent, meaning a sub directory of the dependent holds the sources.
func (u *UsedDir) IsAllDependentsInherited() bool {
	for _, p := range u.pairs {
		if !p.InheritedByDependent {
			return false
		}
	}
	return len(u.pairs) > 0
}

// IsAllDependeesInherited reports whether every file pair was inherited by
// the dependee, meaning a sub directory of the dependee holds the targets.
func (u *UsedDir) IsAllDependeesInherited() bool {
	for _, p := range u.pairs {
		if !p.InheritedByDependee {
			return false
		}
	}
	return len(u.pairs) > 0
}

// HasDirectDeps reports whether at least one file pair is inherited by
// neither side.
func (u *UsedDir) HasDirectDeps() bool {
	for _, p := range u.pairs {
		if !p.InheritedByDependent && !p.InheritedByDependee {
			return true
		}
	}
	return false
}

func (u *UsedDir) add(p FilePair) {
	key := [2]*File{p.Source, p.Destination}
	if _, dup := u.index[key]; dup {
		return
	}
	u.index[key] = struct{}{}
	u.pairs = append(u.pairs, p)
}
