// Package dotdir computes directory dependency graphs and writes them in the
// Graphviz DOT language.
//
// # Overview
//
// Given a directory of a [dirtree.Tree], [Generate] selects the directories
// worth drawing, nests them into clusters and decides which dependency edges
// remain visible. The computation runs as a straight pipeline:
//
//  1. Collect the successors of the origin and every directory they use.
//  2. Resolve tree roots by walking up from each candidate until the ancestor
//     limit is reached, flagging incomplete and orphaned directories.
//  3. Draw each tree root recursively, truncating clusters at the successor
//     limit and collecting the uses edges met on the way.
//  4. Draw used directories that share a parent with the origin or one of its
//     ancestors as peripheral nodes.
//  5. Filter and emit the collected edges.
//
// # Limits
//
// [Options.MaxSuccessor] bounds how many levels below the origin are shown as
// clusters; a cluster reaching the limit is drawn as a single truncated node.
// [Options.MaxAncestor] bounds how many levels above the origin are shown; a
// directory whose parent is beyond the limit becomes an orphaned tree root.
//
// # Relations
//
// Every drawn edge refers to a [Relation] held in a [RelationCache]. The cache
// is meant to outlive a single graph so that graphs of different directories
// share relation names, and it is safe for concurrent use:
//
//	relations := dotdir.NewRelationCache()
//	for _, d := range tree.Dirs() {
//	    dot := dotdir.ToDOT(d, dotdir.DefaultOptions(), relations)
//	    ...
//	}
//
// Output is deterministic: the same directory, options and tree always yield
// byte-identical DOT text.
package dotdir
