package dotdir

// Options controls graph selection and DOT styling.
type Options struct {
	// MaxSuccessor is the number of levels below the origin drawn as
	// clusters. Zero draws the origin itself as a truncated node.
	MaxSuccessor int
	// MaxAncestor is the number of levels above the origin that may be drawn.
	// Zero makes the origin its own tree root.
	MaxAncestor int

	Transparent bool
	FontName    string
	FontSize    int

	// LinkRelations adds a headhref to every edge pointing at the relation
	// page named after the relation plus FileExtension.
	LinkRelations bool
	FileExtension string
}

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		MaxSuccessor:  1,
		MaxAncestor:   1,
		FontName:      "Helvetica",
		FontSize:      10,
		LinkRelations: true,
		FileExtension: ".html",
	}
}
