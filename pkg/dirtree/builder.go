package dirtree

import (
	"path"
	"sort"
	"strings"

	"github.com/dhebbeker/doxygen/pkg/errors"
)

// Builder accumulates files and their includes and produces an immutable
// [Tree]. A Builder is not safe for concurrent use.
type Builder struct {
	includes map[string][]string
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{includes: make(map[string][]string)}
}

// AddFile registers a file by project-relative path together with the paths
// of the files it includes. Adding the same path twice merges the includes.
func (b *Builder) AddFile(filePath string, includes ...string) error {
	if err := errors.ValidatePath(filePath); err != nil {
		return err
	}
	for _, inc := range includes {
		if err := errors.ValidatePath(inc); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidManifest, err, "include of %s", filePath)
		}
	}
	b.includes[filePath] = append(b.includes[filePath], includes...)
	return nil
}

// Build creates the directory hierarchy, resolves includes and computes the
// directory uses relation. It fails when a path is used both as a file and
// as a directory.
func (b *Builder) Build() (*Tree, error) {
	t := &Tree{
		byPath: make(map[string]*Dir),
		byID:   make(map[string]*Dir),
		files:  make(map[string]*File),
	}

	filePaths := make([]string, 0, len(b.includes))
	for p := range b.includes {
		filePaths = append(filePaths, p)
	}
	sort.Strings(filePaths)

	dirPaths := make(map[string]struct{})
	for _, p := range filePaths {
		for d := path.Dir(p); d != "."; d = path.Dir(d) {
			dirPaths[d] = struct{}{}
		}
	}
	for _, p := range filePaths {
		if _, clash := dirPaths[p]; clash {
			return nil, errors.New(errors.ErrCodeInvalidManifest, "%s is used both as a file and a directory", p)
		}
	}

	t.createDirs(dirPaths)

	for _, p := range filePaths {
		f := &File{Path: p}
		if d := path.Dir(p); d != "." {
			f.Dir = t.byPath[d]
			f.Dir.files = append(f.Dir.files, f)
		}
		t.files[p] = f
		t.fileOrder = append(t.fileOrder, f)
	}

	for _, f := range t.fileOrder {
		seen := make(map[string]bool)
		for _, inc := range b.includes[f.Path] {
			if seen[inc] {
				continue
			}
			seen[inc] = true
			target, ok := t.files[inc]
			if !ok {
				t.stats.ExternalIncludes++
				continue
			}
			if target == f {
				continue
			}
			f.Includes = append(f.Includes, target)
			t.stats.Includes++
		}
	}

	t.computeDependencies()

	t.stats.Dirs = len(t.dirs)
	t.stats.Files = len(t.fileOrder)
	for _, d := range t.dirs {
		t.stats.UsedDirs += len(d.usedDirs)
	}
	return t, nil
}

func (t *Tree) createDirs(set map[string]struct{}) {
	paths := make([]string, 0, len(set))
	for p := range set {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for i, p := range paths {
		d := &Dir{
			id:        dirID(p),
			path:      p,
			shortName: path.Base(p),
			level:     strings.Count(p, "/"),
			count:     i + 1,
			usedIndex: make(map[*Dir]*UsedDir),
		}
		if parent := path.Dir(p); parent != "." {
			// Lexical order places every parent before its children.
			d.parent = t.byPath[parent]
			d.parent.children = append(d.parent.children, d)
		} else {
			t.roots = append(t.roots, d)
		}
		t.byPath[p] = d
		t.byID[d.id] = d
		t.dirs = append(t.dirs, d)
	}

	for _, d := range t.dirs {
		sort.SliceStable(d.children, func(i, j int) bool {
			return d.children[i].shortName < d.children[j].shortName
		})
	}
	sort.SliceStable(t.roots, func(i, j int) bool {
		return t.roots[i].shortName < t.roots[j].shortName
	})
}

// computeDependencies lifts every resolved include to directory level,
// adding edges from the source directory and its ancestors to the target
// directory and its ancestors.
func (t *Tree) computeDependencies() {
	for _, f := range t.fileOrder {
		src := f.Dir
		if src == nil {
			continue
		}
		for _, inc := range f.Includes {
			dst := inc.Dir
			if dst == nil || dst == src {
				continue
			}
			for dependent := src; dependent != nil; dependent = dependent.parent {
				for dependee := dst; dependee != nil; dependee = dependee.parent {
					if dependee == dependent || dependee.IsAncestorOf(dependent) {
						continue
					}
					dependent.use(dependee).add(FilePair{
						Source:               f,
						Destination:          inc,
						InheritedByDependent: dependent != src,
						InheritedByDependee:  dependee != dst,
					})
				}
			}
		}
	}

	for _, d := range t.dirs {
		sort.SliceStable(d.usedDirs, func(i, j int) bool {
			return d.usedDirs[i].dir.path < d.usedDirs[j].dir.path
		})
	}
}

func (d *Dir) use(dependee *Dir) *UsedDir {
	if u, ok := d.usedIndex[dependee]; ok {
		return u
	}
	u := newUsedDir(dependee)
	d.usedIndex[dependee] = u
	d.usedDirs = append(d.usedDirs, u)
	return u
}
