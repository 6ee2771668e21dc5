package pipeline

import (
	"context"
	"math/rand/v2"
	"runtime"
	"sync/atomic"

	"github.com/ZanzyTHEbar/dialogue-prep/dprep/catalog"
	"github.com/ZanzyTHEbar/dialogue-prep/dprep/common"
	"github.com/ZanzyTHEbar/dialogue-prep/dprep/dialogue"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"
)

// ErrorPolicy decides what a failing example does to the run.
type ErrorPolicy string

const (
	// FailFast aborts the run on the first failing example.
	FailFast ErrorPolicy = "fail"
	// SkipAndLog logs the failure, drops the example and keeps going.
	SkipAndLog ErrorPolicy = "skip"
)

// RunOptions configures a Runner
type RunOptions struct {
	Workers int
	OnError ErrorPolicy
	Seed    uint64
}

// Result holds the features of a run, in input order.
type Result struct {
	Features []Features
	Skipped  int
}

// Runner builds features for many examples on a bounded worker pool.
type Runner struct {
	builder *Builder
	opts    RunOptions
	logger  zerolog.Logger
}

// NewRunner creates a Runner. Workers <= 0 means runtime.NumCPU().
func NewRunner(builder *Builder, opts RunOptions, logger zerolog.Logger) (*Runner, error) {
	switch opts.OnError {
	case "":
		opts.OnError = FailFast
	case FailFast, SkipAndLog:
	default:
		return nil, common.ConfigError("pipeline.onError", "unknown policy %q", opts.OnError)
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Runner{
		builder: builder,
		opts:    opts,
		logger:  logger.With().Str("component", "pipeline").Logger(),
	}, nil
}

// exampleRNG gives every example its own stream so output does not depend on scheduling.
func (r *Runner) exampleRNG(i int) *rand.Rand {
	return rand.New(rand.NewPCG(r.opts.Seed, uint64(i)))
}

// Run builds features for examples.
func (r *Runner) Run(ctx context.Context, examples []dialogue.Example) (*Result, error) {
	results := make([]*Features, len(examples))
	var skipped atomic.Int64

	p := pool.New().WithMaxGoroutines(r.opts.Workers).WithContext(ctx)
	if r.opts.OnError == FailFast {
		p = p.WithCancelOnError().WithFirstError()
	}

	for i, ex := range examples {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := r.builder.Build(ex, r.exampleRNG(i))
			if err != nil {
				if r.opts.OnError == SkipAndLog {
					skipped.Add(1)
					r.logger.Warn().Err(err).Str("id", ex.ID).Str("source", ex.Source).Msg("skipping example")
					return nil
				}
				return err
			}
			results[i] = f
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := &Result{Features: make([]Features, 0, len(examples)), Skipped: int(skipped.Load())}
	for _, f := range results {
		if f != nil {
			out.Features = append(out.Features, *f)
		}
	}
	r.logger.Info().
		Int("examples", len(examples)).
		Int("built", len(out.Features)).
		Int("skipped", out.Skipped).
		Str("mode", string(r.builder.Options().Mode)).
		Msg("features built")
	return out, nil
}

// Index builds a catalog over examples. Duplicate dialogue ids are malformed records.
func Index(examples []dialogue.Example) (*catalog.Catalog, error) {
	c := catalog.New()
	for i, ex := range examples {
		if err := c.Add(ex.ID, ex.Topic, catalog.Ordinal(i)); err != nil {
			re := common.NewRecordError(ex.Source, ex.Index, "cannot index dialogue", err)
			re.ID = ex.ID
			return nil, re
		}
	}
	return c, nil
}

// SelectTopics keeps the examples whose topic is listed, preserving order.
// An empty topic list keeps everything.
func SelectTopics(examples []dialogue.Example, c *catalog.Catalog, topics []string) []dialogue.Example {
	if len(topics) == 0 {
		return examples
	}
	ords := c.ByTopics(topics...)
	out := make([]dialogue.Example, 0, len(ords))
	for _, o := range ords {
		out = append(out, examples[o])
	}
	return out
}
