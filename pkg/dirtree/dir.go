package dirtree

import (
	"crypto/sha256"
	"encoding/hex"
	"path"
)

// Dir is a directory node in the immutable project tree.
type Dir struct {
	id        string
	path      string
	shortName string
	level     int
	count     int
	parent    *Dir
	children  []*Dir
	files     []*File
	usedDirs  []*UsedDir
	usedIndex map[*Dir]*UsedDir
}

// ID returns the stable identifier of the directory. It is safe to use as a
// DOT node identifier and as an output file base name.
func (d *Dir) ID() string { return d.id }

// Path returns the project-relative path of the directory.
func (d *Dir) Path() string { return d.path }

// ShortName returns the last element of the directory path.
func (d *Dir) ShortName() string { return d.shortName }

// DisplayName returns the name used for titles, which is the full path.
func (d *Dir) DisplayName() string { return d.path }

// Level returns the depth of the directory in the forest, 0 for top-level
// directories.
func (d *Dir) Level() int { return d.level }

// Count returns the 1-based creation counter of the directory. Counters follow
// lexical path order and are used to derive deterministic relation names.
func (d *Dir) Count() int { return d.count }

// Parent returns the parent directory or nil for a top-level directory.
func (d *Dir) Parent() *Dir { return d.parent }

// Children returns the sub directories ordered by short name.
// The returned slice must not be modified.
func (d *Dir) Children() []*Dir { return d.children }

// Files returns the files located directly in the directory.
func (d *Dir) Files() []*File { return d.files }

// UsedDirs returns the directories used by this directory ordered by path.
// The returned slice must not be modified.
func (d *Dir) UsedDirs() []*UsedDir { return d.usedDirs }

// UsedDir returns the uses edge from d to dependee, if any.
func (d *Dir) UsedDir(dependee *Dir) (*UsedDir, bool) {
	u, ok := d.usedIndex[dependee]
	return u, ok
}

// IsCluster reports whether the directory has sub directories.
func (d *Dir) IsCluster() bool { return len(d.children) > 0 }

// IsAncestorOf reports whether d is a strict ancestor of other.
func (d *Dir) IsAncestorOf(other *Dir) bool {
	for p := other.parent; p != nil; p = p.parent {
		if p == d {
			return true
		}
	}
	return false
}

// String returns the directory path.
func (d *Dir) String() string { return d.path }

// File is a source file that belongs to at most one directory.
// Files at the project root have a nil Dir.
type File struct {
	Path     string
	Dir      *Dir
	Includes []*File
}

// Name returns the base name of the file.
func (f *File) Name() string { return path.Base(f.Path) }

func dirID(p string) string {
	sum := sha256.Sum256([]byte(p))
	return "dir_" + hex.EncodeToString(sum[:])[:32]
}
