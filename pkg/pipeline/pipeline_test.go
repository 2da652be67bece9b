package pipeline

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/dhebbeker/doxygen/pkg/cache"
	"github.com/dhebbeker/doxygen/pkg/dirtree"
	"github.com/dhebbeker/doxygen/pkg/dotdir"
	derrors "github.com/dhebbeker/doxygen/pkg/errors"
	"github.com/dhebbeker/doxygen/pkg/observability"
)

func testProject(t *testing.T) *Project {
	t.Helper()
	b := dirtree.NewBuilder()
	files := map[string][]string{
		"src/app/main.c":      {"src/lib/util.h"},
		"src/app/cli/args.c":  {"src/lib/util.h"},
		"src/lib/util.h":      {"src/lib/core/core.h"},
		"src/lib/core/core.h": nil,
		"docs/readme.md":      nil,
	}
	for p, incs := range files {
		if err := b.AddFile(p, incs...); err != nil {
			t.Fatal(err)
		}
	}
	tree, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return NewProject(tree)
}

// fakeRunner returns a runner whose render step is counted instead of
// calling Graphviz.
func fakeRunner(c cache.Cache) (*Runner, *atomic.Int32) {
	var calls atomic.Int32
	r := NewRunner(c, nil, log.NewWithOptions(io.Discard, log.Options{}))
	r.render = func(ctx context.Context, dot []byte, format string) ([]byte, error) {
		calls.Add(1)
		return []byte(format + ":" + cache.Hash(dot)), nil
	}
	return r, &calls
}

func TestValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr derrors.Code
	}{
		{"Defaults", Options{}, ""},
		{"AllFormats", Options{Formats: []string{"dot", "svg", "png"}}, ""},
		{"BadFormat", Options{Formats: []string{"svg", "pdf"}}, derrors.ErrCodeInvalidFormat},
		{"NegativeLimit", Options{Graph: dotdir.Options{MaxAncestor: -1}}, derrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if len(tt.opts.Formats) == 0 || tt.opts.Graph.FontSize == 0 || tt.opts.Graph.FontName == "" {
					t.Errorf("defaults not applied: %+v", tt.opts)
				}
				return
			}
			if !derrors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %s", err, tt.wantErr)
			}
		})
	}
}

func TestValidateAndSetDefaultsGraph(t *testing.T) {
	tests := []struct {
		name  string
		graph dotdir.Options
		want  dotdir.Options
	}{
		{"Zero", dotdir.Options{}, dotdir.DefaultOptions()},
		{"ExplicitZeroLimits", dotdir.Options{Transparent: true},
			dotdir.Options{Transparent: true, FontName: "Helvetica", FontSize: 10}},
		{"Custom", dotdir.Options{MaxSuccessor: 3, FontName: "Courier", FontSize: 8},
			dotdir.Options{MaxSuccessor: 3, FontName: "Courier", FontSize: 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{Graph: tt.graph}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				t.Fatal(err)
			}
			if opts.Graph != tt.want {
				t.Errorf("Graph = %+v, want %+v", opts.Graph, tt.want)
			}
		})
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	p := testProject(t)
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r, calls := fakeRunner(fc)
	dir, _ := p.Dir("src/app")

	opts := Options{Graph: dotdir.DefaultOptions(), Formats: []string{"dot", "svg"}}
	res, err := r.Execute(ctx, p, dir, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if string(res.Artifacts["dot"]) != string(res.Graph.DOT) {
		t.Error("dot artifact differs from graph DOT")
	}
	if !strings.HasPrefix(string(res.Artifacts["svg"]), "svg:") {
		t.Errorf("svg artifact = %q", res.Artifacts["svg"])
	}
	if res.CacheInfo.RenderHit {
		t.Error("first run reported a cache hit")
	}
	if res.Stats.NodeCount != len(res.Graph.Nodes) || res.Stats.EdgeCount == 0 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if calls.Load() != 1 {
		t.Errorf("render calls = %d, want 1", calls.Load())
	}

	res, err = r.Execute(ctx, p, dir, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !res.CacheInfo.RenderHit || calls.Load() != 1 {
		t.Errorf("second run: hit = %v, calls = %d", res.CacheInfo.RenderHit, calls.Load())
	}

	opts.Refresh = true
	if _, err := r.Execute(ctx, p, dir, opts); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 2 {
		t.Errorf("refresh did not re-render, calls = %d", calls.Load())
	}
}

type brokenCache struct{ cache.NullCache }

func (brokenCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("disk on fire")
}

func (brokenCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("disk on fire")
}

func TestExecuteCacheFailureIsNotFatal(t *testing.T) {
	p := testProject(t)
	r, calls := fakeRunner(brokenCache{})
	dir, _ := p.Dir("src")

	res, err := r.Execute(context.Background(), p, dir, Options{Graph: dotdir.DefaultOptions()})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Artifacts[DefaultFormat]) == 0 || calls.Load() != 1 {
		t.Errorf("artifact missing, calls = %d", calls.Load())
	}
}

func TestExecuteRenderError(t *testing.T) {
	p := testProject(t)
	r, _ := fakeRunner(nil)
	r.render = func(context.Context, []byte, string) ([]byte, error) {
		return nil, errors.New("graphviz exploded")
	}
	dir, _ := p.Dir("src")

	if _, err := r.Execute(context.Background(), p, dir, Options{Graph: dotdir.DefaultOptions()}); err == nil {
		t.Fatal("Execute succeeded despite render failure")
	}
}

type countingHooks struct {
	observability.NoopPipelineHooks
	graphs atomic.Int32
}

func (h *countingHooks) OnGraphComplete(context.Context, string, int, int, time.Duration, error) {
	h.graphs.Add(1)
}

func TestRenderAll(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	p := testProject(t)
	r, calls := fakeRunner(nil)

	var seen atomic.Int32
	batch, err := r.RenderAll(context.Background(), p, BatchOptions{
		Options:     Options{Graph: dotdir.DefaultOptions(), Formats: []string{"dot", "png"}},
		Concurrency: 3,
		OnResult:    func(*Result) { seen.Add(1) },
	})
	if err != nil {
		t.Fatalf("RenderAll: %v", err)
	}

	if _, err := uuid.Parse(batch.ID); err != nil {
		t.Errorf("batch ID %q is not a UUID", batch.ID)
	}
	total := len(p.Tree.Dirs())
	if len(batch.Results)+len(batch.Skipped) != total {
		t.Errorf("results %d + skipped %d != dirs %d", len(batch.Results), len(batch.Skipped), total)
	}
	for _, d := range batch.Skipped {
		if !dotdir.IsTrivial(d) {
			t.Errorf("non-trivial dir %s skipped", d.Path())
		}
	}
	for i, res := range batch.Results {
		if res == nil {
			t.Fatalf("result %d missing", i)
		}
	}
	if int(seen.Load()) != len(batch.Results) || int(hooks.graphs.Load()) != len(batch.Results) {
		t.Errorf("callbacks = %d, hooks = %d, results = %d", seen.Load(), hooks.graphs.Load(), len(batch.Results))
	}
	if int(calls.Load()) != len(batch.Results) {
		t.Errorf("render calls = %d, want one png per result", calls.Load())
	}
	if p.Relations.Len() == 0 {
		t.Error("relations not shared through the project")
	}

	all, err := r.RenderAll(context.Background(), p, BatchOptions{IncludeTrivial: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(all.Results) != total || len(all.Skipped) != 0 {
		t.Errorf("IncludeTrivial: %d results, %d skipped", len(all.Results), len(all.Skipped))
	}
}

func TestRenderAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, _ := fakeRunner(nil)
	_, err := r.RenderAll(ctx, testProject(t), BatchOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RenderAll error = %v, want context.Canceled", err)
	}
}

func TestWriteArtifacts(t *testing.T) {
	p := testProject(t)
	r, _ := fakeRunner(nil)
	dir, _ := p.Dir("src/lib")
	res, err := r.Execute(context.Background(), p, dir, Options{Formats: []string{"svg", "dot"}})
	if err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "graphs")
	paths, err := WriteArtifacts(out, res)
	if err != nil {
		t.Fatalf("WriteArtifacts: %v", err)
	}
	base := filepath.Join(out, dotdir.BaseName(dir))
	if len(paths) != 2 || paths[0] != base+".dot" || paths[1] != base+".svg" {
		t.Errorf("paths = %v", paths)
	}
	data, err := os.ReadFile(base + ".dot")
	if err != nil || string(data) != string(res.Graph.DOT) {
		t.Errorf("dot file = %q, %v", data, err)
	}
}

func TestLoadProject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.json")
	content := `{"files":[{"path":"a/x.c","includes":["b/y.h"]},{"path":"b/y.h"}]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadProject(path)
	if err != nil {
		t.Fatalf("LoadProject: %v", err)
	}
	if _, err := p.Dir("a"); err != nil {
		t.Error(err)
	}
	if _, err := LoadProject(filepath.Join(t.TempDir(), "none.toml")); !derrors.Is(err, derrors.ErrCodeFileNotFound) {
		t.Errorf("LoadProject(missing) error = %v", err)
	}
}

func TestWriteRelationPages(t *testing.T) {
	p := testProject(t)
	r, _ := fakeRunner(nil)
	dir, _ := p.Dir("src")
	opts := Options{Graph: dotdir.DefaultOptions(), Formats: []string{"dot"}}
	if _, err := r.Execute(context.Background(), p, dir, opts); err != nil {
		t.Fatal(err)
	}

	rels := p.Relations.All()
	if len(rels) == 0 {
		t.Fatal("no relations computed")
	}
	out := t.TempDir()
	n, err := WriteRelationPages(out, rels, ".html")
	if err != nil || n != len(rels) {
		t.Fatalf("WriteRelationPages = %d, %v", n, err)
	}
	page, err := os.ReadFile(filepath.Join(out, rels[0].Name+".html"))
	if err != nil {
		t.Fatal(err)
	}
	for _, pair := range rels[0].Destination.FilePairs() {
		if !strings.Contains(string(page), pair.Source.Path) || !strings.Contains(string(page), pair.Destination.Path) {
			t.Errorf("page misses pair %s -> %s", pair.Source.Path, pair.Destination.Path)
		}
	}
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "project.toml")
	write := func(content string) {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("[[file]]\npath = \"a/x.c\"\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reloaded := make(chan *Project, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, log.NewWithOptions(io.Discard, log.Options{}), func(p *Project) { reloaded <- p })
	}()

	// Writes closer together than WatchDebounce collapse into one reload, so
	// rewrite at a slower pace until the watcher is registered.
	tick := time.NewTicker(2 * WatchDebounce)
	defer tick.Stop()
	timeout := time.After(10 * time.Second)
	var p *Project
	for p == nil {
		select {
		case p = <-reloaded:
		case <-tick.C:
			write("[[file]]\npath = \"a/x.c\"\nincludes = [\"b/y.h\"]\n\n[[file]]\npath = \"b/y.h\"\n")
		case <-timeout:
			t.Fatal("no reload after manifest change")
		}
	}
	if _, err := p.Dir("b"); err != nil {
		t.Errorf("reloaded project misses new directory: %v", err)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch = %v", err)
	}
}
