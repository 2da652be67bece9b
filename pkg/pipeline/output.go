package pipeline

import (
	"html/template"
	"os"
	"path/filepath"
	"sort"

	"github.com/dhebbeker/doxygen/pkg/dotdir"
)

// WriteArtifacts writes every artifact of res into dir as
// <BaseName>.<format> and returns the written paths in format order.
func WriteArtifacts(dir string, res *Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	formats := make([]string, 0, len(res.Artifacts))
	for f := range res.Artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	base := dotdir.BaseName(res.Dir)
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := filepath.Join(dir, base+"."+f)
		if err := os.WriteFile(path, res.Artifacts[f], 0o644); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

var relationPage = template.Must(template.New("relation").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Source.Path}} &rarr; {{.Destination.Dir.Path}}</title></head>
<body>
<h1>Dependency relation for {{.Source.Path}} &rarr; {{.Destination.Dir.Path}}</h1>
<table>
<tr><th>File in {{.Source.Path}}</th><th>Includes file in {{.Destination.Dir.Path}}</th></tr>
{{- range .Destination.FilePairs}}
<tr><td>{{.Source.Path}}</td><td>{{.Destination.Path}}</td></tr>
{{- end}}
</table>
</body>
</html>
`))

// WriteRelationPages writes one page per relation into dir, named
// <relation name><ext> so that the edge links of rendered graphs resolve.
// It returns the number of pages written.
func WriteRelationPages(dir string, relations []*dotdir.Relation, ext string) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}
	for i, rel := range relations {
		f, err := os.Create(filepath.Join(dir, rel.Name+ext))
		if err != nil {
			return i, err
		}
		err = relationPage.Execute(f, rel)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return i, err
		}
	}
	return len(relations), nil
}
