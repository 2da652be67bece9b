package dotdir

// Property holds the drawing state of one directory within one graph.
type Property struct {
	// Incomplete marks directories outside the origin's subtree whose other
	// children are not necessarily drawn.
	Incomplete bool
	// Orphaned marks directories whose parent is hidden by the ancestor limit.
	Orphaned bool
	// Truncated marks directories whose children are hidden by the successor
	// limit.
	Truncated bool
	// Original marks the directory the graph was requested for.
	Original bool
	// Peripheral marks used directories drawn standalone next to the origin's
	// ancestry, without their own ancestors or children.
	Peripheral bool
}
