package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dhebbeker/doxygen/pkg/dirtree"
	"github.com/dhebbeker/doxygen/pkg/dotdir"
)

// BatchOptions configures [Runner.RenderAll].
type BatchOptions struct {
	Options

	// IncludeTrivial also renders directories whose graph shows nothing but
	// the directory itself.
	IncludeTrivial bool
	// Concurrency bounds parallel renders. Zero uses DefaultConcurrency.
	Concurrency int
	// OnResult is called once per finished directory. Calls are serialized.
	OnResult func(*Result)
}

// Batch is the outcome of rendering a whole project.
type Batch struct {
	ID       string
	Results  []*Result // ordered like Tree.Dirs
	Skipped  []*dirtree.Dir
	Duration time.Duration
}

// RenderAll renders every directory of the project. All graphs share the
// project's relation cache. The first failure cancels the remaining work.
func (r *Runner) RenderAll(ctx context.Context, p *Project, opts BatchOptions) (*Batch, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	batch := &Batch{ID: uuid.NewString()}
	logger := r.Logger.With("batch", batch.ID)
	start := time.Now()

	var dirs []*dirtree.Dir
	for _, d := range p.Tree.Dirs() {
		if !opts.IncludeTrivial && dotdir.IsTrivial(d) {
			batch.Skipped = append(batch.Skipped, d)
			continue
		}
		dirs = append(dirs, d)
	}
	logger.Info("rendering project", "dirs", len(dirs), "skipped", len(batch.Skipped), "concurrency", limit)

	results := make([]*Result, len(dirs))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, d := range dirs {
		g.Go(func() error {
			res, err := r.Execute(gctx, p, d, opts.Options)
			if err != nil {
				return fmt.Errorf("%s: %w", d.Path(), err)
			}
			results[i] = res
			if opts.OnResult != nil {
				mu.Lock()
				opts.OnResult(res)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("batch failed", "err", err)
		return nil, err
	}

	batch.Results = results
	batch.Duration = time.Since(start)
	logger.Info("rendered project", "graphs", len(results), "relations", p.Relations.Len(), "duration", batch.Duration)
	return batch, nil
}
