// Package pkg provides the libraries behind dirdeps, a tool that draws
// directory dependency graphs of a source tree.
//
// # Overview
//
// A project is a set of source files and the files they include. Grouping
// files by directory turns includes into directory dependencies. For any
// directory dirdeps draws its nested subdirectories, the directories they
// use and the ancestors needed to place them, all as one DOT graph.
//
// # Architecture
//
// The typical data flow:
//
//	project.toml / project.json
//	         ↓
//	    [manifest] package (decode file list)
//	         ↓
//	    [dirtree] package (directories, levels, used dirs, file pairs)
//	         ↓
//	    [dotdir] package (select, draw and connect directories as DOT)
//	         ↓
//	    [render] package (DOT → SVG/PNG via Graphviz)
//
// [pipeline] ties the stages together with an artifact [cache] and is shared
// by the CLI and the HTTP [server].
//
// # Quick Start
//
//	tree, _ := manifest.LoadTree("project.toml")
//	dir, _ := tree.Dir("src/app")
//	dot := dotdir.ToDOT(dir, dotdir.DefaultOptions(), dotdir.NewRelationCache())
//
// # Main Packages
//
// [dirtree] - Read-only directory tree. Every directory knows its level,
// children, files and the directories it uses, together with the file pairs
// behind each use and whether they were inherited from a subdirectory.
//
// [dotdir] - The graph generator. Depth limits bound how many nested levels
// and how many ancestor levels are drawn; directories cut off by a limit are
// marked truncated or orphaned. Edges are named relations kept in a
// [dotdir.RelationCache] shared across graphs.
//
// [config] - TOML configuration of the depth limits and DOT styling.
//
// [cache] - Artifact caches: file, redis and null backends.
//
// [observability] - Hooks for graph, render, cache and HTTP events.
//
// [errors] - Coded errors shared by every package.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/dotdir/...   # Specific package
//	go test -run Example       # Examples only
//
// [manifest]: https://pkg.go.dev/github.com/dhebbeker/doxygen/pkg/manifest
// [dirtree]: https://pkg.go.dev/github.com/dhebbeker/doxygen/pkg/dirtree
// [dotdir]: https://pkg.go.dev/github.com/dhebbeker/doxygen/pkg/dotdir
// [dotdir.RelationCache]: https://pkg.go.dev/github.com/dhebbeker/doxygen/pkg/dotdir#RelationCache
// [render]: https://pkg.go.dev/github.com/dhebbeker/doxygen/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/dhebbeker/doxygen/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/dhebbeker/doxygen/pkg/cache
// [server]: https://pkg.go.dev/github.com/dhebbeker/doxygen/pkg/server
// [config]: https://pkg.go.dev/github.com/dhebbeker/doxygen/pkg/config
// [observability]: https://pkg.go.dev/github.com/dhebbeker/doxygen/pkg/observability
// [errors]: https://pkg.go.dev/github.com/dhebbeker/doxygen/pkg/errors
package pkg
