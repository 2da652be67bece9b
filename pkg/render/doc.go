// Package render turns DOT graph descriptions into images.
//
// Rendering uses the WebAssembly build of Graphviz shipped with
// goccy/go-graphviz, so no external dot binary is needed.
//
//	svg, err := render.Render(ctx, dot, render.FormatSVG)
//
// [FormatDOT] returns the input unchanged, which lets callers treat the raw
// graph description as one more output format.
package render
