package dotdir

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/dhebbeker/doxygen/pkg/dirtree"
)

func buildTree(t *testing.T, files map[string][]string) *dirtree.Tree {
	t.Helper()
	b := dirtree.NewBuilder()
	for p, incs := range files {
		if err := b.AddFile(p, incs...); err != nil {
			t.Fatalf("AddFile(%q): %v", p, err)
		}
	}
	tree, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tree
}

func dirOf(t *testing.T, tree *dirtree.Tree, p string) *dirtree.Dir {
	t.Helper()
	d, err := tree.Dir(p)
	if err != nil {
		t.Fatalf("Dir(%q): %v", p, err)
	}
	return d
}

func opts(successor, ancestor int) Options {
	o := DefaultOptions()
	o.MaxSuccessor = successor
	o.MaxAncestor = ancestor
	return o
}

var (
	nodeRe    = regexp.MustCompile(`(?m)^\s*(dir_[0-9a-f]+) \[shape=(box|plaintext)`)
	clusterRe = regexp.MustCompile(`(?m)^\s*subgraph cluster(dir_[0-9a-f]+) \{`)
	edgeRe    = regexp.MustCompile(`(?m)^\s*"(dir_[0-9a-f]+)"->"(dir_[0-9a-f]+)" \[headlabel="(\d+)"`)
)

type parsedDOT struct {
	boxes    []string
	labels   []string
	clusters []string
	edges    [][3]string
}

func parseDOT(dot string) parsedDOT {
	var p parsedDOT
	for _, m := range nodeRe.FindAllStringSubmatch(dot, -1) {
		if m[2] == "box" {
			p.boxes = append(p.boxes, m[1])
		} else {
			p.labels = append(p.labels, m[1])
		}
	}
	for _, m := range clusterRe.FindAllStringSubmatch(dot, -1) {
		p.clusters = append(p.clusters, m[1])
	}
	for _, m := range edgeRe.FindAllStringSubmatch(dot, -1) {
		p.edges = append(p.edges, [3]string{m[1], m[2], m[3]})
	}
	return p
}

func contains(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// nodeLine returns the statement line declaring id.
func nodeLine(dot, id string) string {
	for _, line := range strings.Split(dot, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), id+" [") {
			return line
		}
	}
	return ""
}

func TestSiblingScenario(t *testing.T) {
	tree := buildTree(t, map[string][]string{
		"A/B/b.c": {"A/C/c.h", "A/C/d.h"},
		"A/C/c.h": nil,
		"A/C/d.h": nil,
	})
	a, b, c := dirOf(t, tree, "A"), dirOf(t, tree, "A/B"), dirOf(t, tree, "A/C")

	dot := ToDOT(a, opts(1, 0), nil)
	p := parseDOT(dot)

	if len(p.clusters) != 1 || p.clusters[0] != a.ID() {
		t.Fatalf("clusters = %v, want only A", p.clusters)
	}
	if !contains(p.labels, a.ID()) {
		t.Error("cluster A has no label node")
	}
	if len(p.boxes) != 2 || !contains(p.boxes, b.ID()) || !contains(p.boxes, c.ID()) {
		t.Errorf("boxes = %v, want B and C", p.boxes)
	}
	if len(p.edges) != 1 {
		t.Fatalf("edges = %v, want one", p.edges)
	}
	if e := p.edges[0]; e[0] != b.ID() || e[1] != c.ID() || e[2] != "2" {
		t.Errorf("edge = %v, want B->C with headlabel 2", e)
	}

	open := strings.Index(dot, "subgraph cluster"+a.ID())
	closing := strings.LastIndex(dot, "  }\n")
	for _, id := range []string{b.ID(), c.ID()} {
		if i := strings.Index(dot, "  "+id+" ["); i < open || i > closing {
			t.Errorf("node %s is not nested inside cluster A", id)
		}
	}
	wantHref := `headhref="` + RelationName(b, c) + `.html"`
	if !strings.Contains(dot, wantHref) {
		t.Errorf("DOT lacks %s", wantHref)
	}
}

func TestAncestorScenario(t *testing.T) {
	tree := buildTree(t, map[string][]string{"P/A/a.c": nil, "P/x.c": nil})
	pDir, a := dirOf(t, tree, "P"), dirOf(t, tree, "P/A")

	g := Generate(a, opts(1, 1), nil)
	dot := string(g.DOT)
	parsed := parseDOT(dot)

	if len(parsed.clusters) != 1 || parsed.clusters[0] != pDir.ID() {
		t.Fatalf("clusters = %v, want only P", parsed.clusters)
	}
	if !contains(parsed.labels, pDir.ID()) {
		t.Error("ancestor cluster has no plaintext label node")
	}
	// The name comes from the plaintext node only, so it is not shown twice.
	if clusterLine := dot[strings.Index(dot, "subgraph cluster"+pDir.ID()):]; !strings.Contains(strings.SplitN(clusterLine, "\n", 3)[1], `label=""`) {
		t.Errorf("ancestor cluster graph line lacks an empty label:\n%s", dot)
	}
	if !contains(parsed.boxes, a.ID()) {
		t.Fatal("A not drawn")
	}
	if strings.Index(dot, a.ID()+" [") < strings.Index(dot, "subgraph cluster"+pDir.ID()) {
		t.Error("A drawn outside its ancestor cluster")
	}

	pa := g.Properties[a]
	if pa.Orphaned || pa.Truncated || pa.Incomplete || !pa.Original {
		t.Errorf("A property = %+v", pa)
	}
	if pp := g.Properties[pDir]; !pp.Incomplete || pp.Original {
		t.Errorf("P property = %+v", pp)
	}
	if line := nodeLine(dot, a.ID()); !strings.Contains(line, `style="filled,bold"`) || !strings.Contains(line, `color="black"`) {
		t.Errorf("A line = %q", line)
	}
}

func TestZeroAncestorLimit(t *testing.T) {
	tree := buildTree(t, map[string][]string{"P/A/a.c": nil})
	a := dirOf(t, tree, "P/A")

	g := Generate(a, opts(1, 0), nil)
	dot := string(g.DOT)

	if strings.Contains(dot, "subgraph") {
		t.Errorf("ancestor cluster opened with zero ancestor limit:\n%s", dot)
	}
	if len(g.Nodes) != 1 || g.Nodes[0] != a {
		t.Errorf("Nodes = %v, want [P/A]", g.Nodes)
	}
	if !g.Properties[a].Orphaned {
		t.Error("A not orphaned")
	}
	if line := nodeLine(dot, a.ID()); !strings.Contains(line, `color="grey75"`) {
		t.Errorf("A line = %q, want grey75 border", line)
	}
}

func TestZeroSuccessorLimit(t *testing.T) {
	tree := buildTree(t, map[string][]string{"A/B/b.c": nil, "A/C/c.c": nil})
	a := dirOf(t, tree, "A")

	g := Generate(a, opts(0, 1), nil)
	dot := string(g.DOT)

	if strings.Contains(dot, "subgraph") {
		t.Errorf("cluster emitted with zero successor limit:\n%s", dot)
	}
	if len(g.Nodes) != 1 || g.Nodes[0] != a {
		t.Errorf("Nodes = %v, want [A]", g.Nodes)
	}
	if !g.Properties[a].Truncated {
		t.Error("A not truncated")
	}
	if line := nodeLine(dot, a.ID()); !strings.Contains(line, `color="red"`) {
		t.Errorf("A line = %q, want red border", line)
	}
}

func TestTruncatedBoundaryEdge(t *testing.T) {
	tree := buildTree(t, map[string][]string{
		"A/a.c":     {"B/C/D/d.h"},
		"B/C/D/d.h": nil,
	})
	a, b, bc := dirOf(t, tree, "A"), dirOf(t, tree, "B"), dirOf(t, tree, "B/C")

	g := Generate(a, opts(1, 1), nil)
	parsed := parseDOT(string(g.DOT))

	if !contains(parsed.clusters, b.ID()) {
		t.Error("B not expanded")
	}
	if !g.Properties[bc].Truncated {
		t.Error("B/C not truncated")
	}
	if len(parsed.edges) != 1 {
		t.Fatalf("edges = %v, want one", parsed.edges)
	}
	if e := parsed.edges[0]; e[0] != a.ID() || e[1] != bc.ID() {
		t.Errorf("edge = %v, want A->B/C", e)
	}
	if len(g.Edges) != 1 || g.Edges[0].Name != RelationName(a, bc) {
		t.Errorf("Edges = %v", g.Edges)
	}
}

func TestClusterIndentation(t *testing.T) {
	tree := buildTree(t, map[string][]string{"A/B/C/c.c": nil})
	a, b, c := dirOf(t, tree, "A"), dirOf(t, tree, "A/B"), dirOf(t, tree, "A/B/C")
	dot := ToDOT(a, opts(5, 0), nil)

	want := []string{
		"  subgraph cluster" + a.ID() + " {",
		"    " + a.ID() + " [shape=plaintext",
		"    subgraph cluster" + b.ID() + " {",
		"      " + b.ID() + " [shape=plaintext",
		"      " + c.ID() + " [shape=box",
		"    }",
		"  }",
	}
	var got []string
	for _, line := range strings.Split(dot, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "subgraph") || strings.HasPrefix(trimmed, "dir_") || trimmed == "}" {
			got = append(got, line)
		}
	}
	// The last line closes the digraph itself.
	if len(got) != len(want)+1 || got[len(got)-1] != "}" {
		t.Fatalf("structure lines = %q", got)
	}
	for i, prefix := range want {
		if !strings.HasPrefix(got[i], prefix) {
			t.Errorf("line %d = %q, want prefix %q", i, got[i], prefix)
		}
	}
}

func TestInheritedDependentEdges(t *testing.T) {
	tree := buildTree(t, map[string][]string{
		"A/B/b.c": {"X/x.h"},
		"X/x.h":   nil,
	})
	a, ab, x := dirOf(t, tree, "A"), dirOf(t, tree, "A/B"), dirOf(t, tree, "X")

	hasEdge := func(p parsedDOT, from, to *dirtree.Dir) bool {
		for _, e := range p.edges {
			if e[0] == from.ID() && e[1] == to.ID() {
				return true
			}
		}
		return false
	}

	tests := []struct {
		name          string
		successor     int
		wantAX, wantB bool
	}{
		// An expanded cluster leaves the edge to the child that owns the include.
		{"Expanded", 1, false, true},
		// A truncated node stands in for its children and keeps their edges.
		{"Truncated", 0, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := parseDOT(ToDOT(a, opts(tt.successor, 0), nil))
			if got := hasEdge(parsed, a, x); got != tt.wantAX {
				t.Errorf("A->X drawn = %v, want %v", got, tt.wantAX)
			}
			if got := hasEdge(parsed, ab, x); got != tt.wantB {
				t.Errorf("A/B->X drawn = %v, want %v", got, tt.wantB)
			}
			if !contains(parsed.boxes, x.ID()) {
				t.Error("X not drawn")
			}
		})
	}
}

func TestPeripheral(t *testing.T) {
	tree := buildTree(t, map[string][]string{
		"P/Q/A/a.c": {"X/Y/y.h", "P/R/r.h"},
		"X/Y/y.h":   nil,
		"P/R/r.h":   nil,
	})
	a := dirOf(t, tree, "P/Q/A")
	x, xy, r := dirOf(t, tree, "X"), dirOf(t, tree, "X/Y"), dirOf(t, tree, "P/R")

	g := Generate(a, opts(1, 0), nil)
	dot := string(g.DOT)
	parsed := parseDOT(dot)

	if strings.Contains(dot, "subgraph") {
		t.Errorf("unexpected cluster:\n%s", dot)
	}
	for _, d := range []*dirtree.Dir{a, x, r} {
		if !contains(parsed.boxes, d.ID()) {
			t.Errorf("%s not drawn", d.Path())
		}
	}
	if contains(parsed.boxes, xy.ID()) {
		t.Error("X/Y drawn although hidden below peripheral X")
	}

	tests := []struct {
		dir       *dirtree.Dir
		orphaned  bool
		truncated bool
		color     string
	}{
		{x, false, true, "red"},
		{r, true, false, "grey75"},
	}
	for _, tt := range tests {
		prop := g.Properties[tt.dir]
		if !prop.Peripheral || prop.Orphaned != tt.orphaned || prop.Truncated != tt.truncated {
			t.Errorf("%s property = %+v", tt.dir.Path(), prop)
		}
		line := nodeLine(dot, tt.dir.ID())
		if !strings.Contains(line, `style=""`) || !strings.Contains(line, `color="`+tt.color+`"`) {
			t.Errorf("%s line = %q", tt.dir.Path(), line)
		}
	}

	if len(parsed.edges) != 2 {
		t.Fatalf("edges = %v, want A->P/R and A->X", parsed.edges)
	}
	for _, e := range parsed.edges {
		if e[0] != a.ID() || (e[1] != x.ID() && e[1] != r.ID()) {
			t.Errorf("unexpected edge %v", e)
		}
	}
}

func TestHeader(t *testing.T) {
	tree := buildTree(t, map[string][]string{`we"ird/a.c`: nil})
	d := dirOf(t, tree, `we"ird`)

	o := DefaultOptions()
	o.Transparent = true
	o.FontName = "Arial"
	o.FontSize = 12
	o.LinkRelations = false

	want := "digraph \"we\\\"ird\" {\n" +
		"  bgcolor=transparent;\n" +
		"  compound=true\n" +
		"  node [ fontsize=\"12\", fontname=\"Arial\"];\n" +
		"  edge [ labelfontsize=\"12\", labelfontname=\"Arial\"];\n"
	dot := ToDOT(d, o, nil)
	if !strings.HasPrefix(dot, want) {
		t.Errorf("header mismatch:\n%s", dot)
	}
	if !strings.HasSuffix(dot, "}\n") {
		t.Error("graph not closed")
	}
	if !strings.Contains(dot, `label="we\"ird"`) {
		t.Error("short name not escaped")
	}
}

func TestNoLinks(t *testing.T) {
	tree := buildTree(t, map[string][]string{"A/a.c": {"B/b.h"}, "B/b.h": nil})
	o := DefaultOptions()
	o.LinkRelations = false
	dot := ToDOT(dirOf(t, tree, "A"), o, nil)
	if len(parseDOT(dot).edges) != 1 {
		t.Fatalf("edges missing:\n%s", dot)
	}
	if strings.Contains(dot, "headhref") {
		t.Error("headhref written with links disabled")
	}
}

// fixture is a project with nesting on both sides of the dependencies.
func fixture(t *testing.T) *dirtree.Tree {
	return buildTree(t, map[string][]string{
		"src/app/main.c":        {"src/lib/core/core.h", "src/lib/util.h", "ext/zlib/zlib.h"},
		"src/app/cli/args.c":    {"src/lib/util.h", "src/app/main.c"},
		"src/lib/util.h":        {"src/lib/core/core.h"},
		"src/lib/core/core.h":   nil,
		"src/lib/core/mem/m.h":  {"ext/zlib/zlib.h"},
		"ext/zlib/zlib.h":       nil,
		"ext/zlib/contrib/c.h":  {"src/lib/util.h"},
		"docs/guide/index.md":   {"src/app/main.c"},
		"tests/unit/app_test.c": {"src/app/cli/args.c", "ext/zlib/zlib.h"},
	})
}

func TestGraphProperties(t *testing.T) {
	tree := fixture(t)
	limits := []Options{opts(0, 0), opts(1, 0), opts(0, 1), opts(1, 1), opts(2, 2), opts(5, 5)}

	for _, dir := range tree.Dirs() {
		for _, o := range limits {
			g := Generate(dir, o, nil)
			dot := string(g.DOT)
			parsed := parseDOT(dot)

			originals := 0
			for d, p := range g.Properties {
				if p.Original {
					originals++
					if d != dir {
						t.Errorf("%s: %s marked original", dir.Path(), d.Path())
					}
					if p.Incomplete {
						t.Errorf("%s: origin is incomplete", dir.Path())
					}
				}
			}
			if originals != 1 {
				t.Errorf("%s %+v: %d original nodes", dir.Path(), o, originals)
			}

			declared := make(map[string]int)
			for _, id := range parsed.boxes {
				declared[id]++
			}
			for _, id := range parsed.clusters {
				declared[id]++
			}
			for id, n := range declared {
				if n > 1 {
					t.Errorf("%s %+v: %s declared %d times", dir.Path(), o, id, n)
				}
			}
			if len(declared) != len(g.Nodes) {
				t.Errorf("%s %+v: %d declarations for %d nodes", dir.Path(), o, len(declared), len(g.Nodes))
			}

			for _, e := range parsed.edges {
				if declared[e[0]] == 0 || declared[e[1]] == 0 {
					t.Errorf("%s %+v: edge %s->%s has an undeclared endpoint", dir.Path(), o, e[0], e[1])
				}
			}
			if len(parsed.edges) != len(g.Edges) {
				t.Errorf("%s %+v: %d edge statements for %d edges", dir.Path(), o, len(parsed.edges), len(g.Edges))
			}
		}
	}
}

func TestIdempotent(t *testing.T) {
	tree := fixture(t)
	shared := NewRelationCache()
	for _, dir := range tree.Dirs() {
		first := ToDOT(dir, DefaultOptions(), shared)
		second := ToDOT(dir, DefaultOptions(), shared)
		fresh := ToDOT(dir, DefaultOptions(), nil)
		if first != second || first != fresh {
			t.Errorf("%s: output differs between runs", dir.Path())
		}
	}
}

func TestAnalyze(t *testing.T) {
	tree := fixture(t)
	d := dirOf(t, tree, "src/app")
	props := Analyze(d, DefaultOptions(), nil)
	g := Generate(d, DefaultOptions(), nil)
	if len(props) != len(g.Properties) {
		t.Fatalf("Analyze returned %d properties, Generate %d", len(props), len(g.Properties))
	}
	if !props[d].Original {
		t.Error("origin not marked original")
	}
}

func TestWrite(t *testing.T) {
	tree := fixture(t)
	d := dirOf(t, tree, "src/app")
	var buf bytes.Buffer
	if err := Write(&buf, d, DefaultOptions(), nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if buf.String() != ToDOT(d, DefaultOptions(), nil) {
		t.Error("Write and ToDOT disagree")
	}
}

func TestIsTrivial(t *testing.T) {
	tree := buildTree(t, map[string][]string{
		"lonely/a.c":    nil,
		"user/u.c":      {"lib/l.h"},
		"lib/l.h":       nil,
		"group/sub/s.c": nil,
	})
	tests := []struct {
		path string
		want bool
	}{
		{"lonely", true},
		{"lib", true},
		{"user", false},
		{"group", false},
	}
	for _, tt := range tests {
		if got := IsTrivial(dirOf(t, tree, tt.path)); got != tt.want {
			t.Errorf("IsTrivial(%s) = %v, want %v", tt.path, got, tt.want)
		}
	}
	if d := dirOf(t, tree, "lib"); BaseName(d) != d.ID()+"_dep" {
		t.Errorf("BaseName = %q", BaseName(d))
	}
}
