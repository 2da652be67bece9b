package dirtree

import (
	"strings"

	"github.com/dhebbeker/doxygen/pkg/errors"
)

// Tree is the immutable directory forest of a project.
type Tree struct {
	roots     []*Dir
	dirs      []*Dir
	byPath    map[string]*Dir
	byID      map[string]*Dir
	files     map[string]*File
	fileOrder []*File
	stats     Stats
}

// Stats summarizes a built tree.
type Stats struct {
	Dirs             int
	Files            int
	Includes         int
	ExternalIncludes int
	UsedDirs         int
}

// Roots returns the top-level directories ordered by name.
func (t *Tree) Roots() []*Dir { return t.roots }

// Dirs returns every directory in lexical path order.
func (t *Tree) Dirs() []*Dir { return t.dirs }

// Files returns every file in lexical path order.
func (t *Tree) Files() []*File { return t.fileOrder }

// Stats returns counters collected while building the tree.
func (t *Tree) Stats() Stats { return t.stats }

// Dir looks up a directory by path or by ID. A trailing slash is ignored.
func (t *Tree) Dir(key string) (*Dir, error) {
	key = strings.TrimSuffix(key, "/")
	if d, ok := t.byPath[key]; ok {
		return d, nil
	}
	if d, ok := t.byID[key]; ok {
		return d, nil
	}
	return nil, errors.New(errors.ErrCodeDirNotFound, "no directory %q in project", key)
}

// File looks up a file by path.
func (t *Tree) File(p string) (*File, error) {
	if f, ok := t.files[p]; ok {
		return f, nil
	}
	return nil, errors.New(errors.ErrCodeFileNotFound, "no file %q in project", p)
}
