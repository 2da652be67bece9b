// Package dirtree models a project's directory hierarchy together with the
// directory-level "uses" relation derived from file includes.
//
// # Overview
//
// A [Tree] is built once per run with a [Builder]: every source file is added
// with the project-relative paths of the files it includes. [Builder.Build]
// creates the directory hierarchy implied by the file paths, resolves includes
// against the known files, and lifts each resolved file pair to directory
// level.
//
// # Inheritance
//
// A file pair (src in directory S, dst in directory D) produces a uses edge
// from every dependent in S and its ancestors to every dependee in D and its
// ancestors. Each recorded [FilePair] carries two flags telling whether the
// edge it belongs to was inherited: InheritedByDependent is set when the
// dependent is an ancestor of S, InheritedByDependee when the dependee is an
// ancestor of D. Edges whose dependee is the dependent itself or one of its
// ancestors are never created.
//
//	b := dirtree.NewBuilder()
//	b.AddFile("src/app/main.c", "src/lib/util.h")
//	b.AddFile("src/lib/util.h")
//	tree, err := b.Build()
//
// After Build returns, the tree and all of its directories are immutable and
// may be shared by concurrent readers without synchronization.
package dirtree
