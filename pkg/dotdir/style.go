package dotdir

import "strings"

// palette holds the fill colours indexed by directory level modulo its size.
var palette = [...]string{
	"#f7f7ff",
	"#eeeefb",
	"#e4e4f6",
	"#dadaf1",
	"#d0d0ec",
	"#c6c6e7",
	"#bcbce2",
	"#b2b2dd",
	"#a8a8d8",
}

func fillColor(level int) string {
	return palette[level%len(palette)]
}

func borderColor(p *Property) string {
	switch {
	case p.Truncated && p.Orphaned:
		return "darkorchid3"
	case p.Truncated:
		return "red"
	case p.Orphaned:
		return "grey75"
	default:
		return "black"
	}
}

func style(p *Property) string {
	var parts []string
	if !p.Peripheral {
		parts = append(parts, "filled")
	}
	if p.Original {
		parts = append(parts, "bold")
	}
	if p.Incomplete {
		parts = append(parts, "dashed")
	}
	return strings.Join(parts, ",")
}

var escaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escape(s string) string { return escaper.Replace(s) }
