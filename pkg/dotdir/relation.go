package dotdir

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dhebbeker/doxygen/pkg/dirtree"
)

// Relation identifies the edge between a dependent directory and one of its
// used directories.
type Relation struct {
	Name        string
	Source      *dirtree.Dir
	Destination *dirtree.UsedDir
}

// FileCount returns the number of file pairs behind the relation.
func (r *Relation) FileCount() int { return len(r.Destination.FilePairs()) }

// RelationName returns the deterministic name of the relation between two
// directories.
func RelationName(dependent, dependee *dirtree.Dir) string {
	return fmt.Sprintf("dir_%06d_%06d", dependent.Count(), dependee.Count())
}

// RelationCache hands out one [Relation] per dependent/dependee pair.
// It is safe for concurrent use.
type RelationCache struct {
	mu     sync.Mutex
	byPair map[[2]int]*Relation
	byName map[string]*Relation
}

// NewRelationCache returns an empty cache.
func NewRelationCache() *RelationCache {
	return &RelationCache{
		byPair: make(map[[2]int]*Relation),
		byName: make(map[string]*Relation),
	}
}

// Get returns the relation for dependent using used, creating it on first
// request.
func (c *RelationCache) Get(dependent *dirtree.Dir, used *dirtree.UsedDir) *Relation {
	key := [2]int{dependent.Count(), used.Dir().Count()}

	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.byPair[key]; ok {
		return r
	}
	r := &Relation{
		Name:        RelationName(dependent, used.Dir()),
		Source:      dependent,
		Destination: used,
	}
	c.byPair[key] = r
	c.byName[r.Name] = r
	return r
}

// Lookup returns the relation registered under name.
func (c *RelationCache) Lookup(name string) (*Relation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.byName[name]
	return r, ok
}

// All returns every cached relation ordered by name.
func (c *RelationCache) All() []*Relation {
	c.mu.Lock()
	out := make([]*Relation, 0, len(c.byName))
	for _, r := range c.byName {
		out = append(out, r)
	}
	c.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of cached relations.
func (c *RelationCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.byName)
}
