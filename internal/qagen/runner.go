package qagen

import (
	"context"
	"time"

	"github.com/qaforge/qaforge/internal/llm"
)

// Runner drives the batch: one generation call per seed, sequentially,
// in seed order. A failed seed contributes zero records and the batch
// continues; only cancellation stops a run early.
type Runner struct {
	provider llm.Provider
	config   Config
}

// NewRunner creates a Runner with the given provider and config.
func NewRunner(provider llm.Provider, cfg Config) *Runner {
	return &Runner{provider: provider, config: cfg}
}

// Run processes seeds in order and returns the accumulated results.
// On cancellation it returns the partial result alongside ctx.Err();
// the cancellation takes effect before the next seed, never mid-batch
// bookkeeping (the in-flight HTTP call itself is context-bound).
func (r *Runner) Run(ctx context.Context, seeds []SeedPair) (*BatchResult, error) {
	ctx = llm.WithPurpose(ctx, "qa-gen")

	result := &BatchResult{Results: make([]SeedResult, 0, len(seeds))}

	temperature := r.config.Temperature
	if temperature < 0 {
		temperature = r.config.Template.DefaultTemperature
	}

	for i, seed := range seeds {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		records, err := r.generateOne(ctx, seed, temperature)
		if err != nil && ctx.Err() != nil {
			// The run's own context is done; stop with the partial
			// result. An error that merely looks like a deadline (a
			// per-request client timeout) is a failed seed, handled
			// below like any other.
			return result, ctx.Err()
		}

		result.Results = append(result.Results, SeedResult{
			Seed:    seed,
			Records: records,
			Err:     err,
		})

		if r.config.Progress != nil {
			r.config.Progress(ProgressEvent{
				Index:        i,
				Total:        len(seeds),
				Seed:         seed,
				Records:      len(records),
				TotalRecords: result.TotalRecords(),
				Err:          err,
			})
		}

		// Fixed pacing between seeds, applied regardless of outcome.
		if r.config.Pacing > 0 && i < len(seeds)-1 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(r.config.Pacing):
			}
		}
	}

	return result, nil
}

// generateOne issues the generation call for a single seed and parses
// whatever came back. Endpoint errors are returned for logging; the
// caller records them and moves on.
func (r *Runner) generateOne(ctx context.Context, seed SeedPair, temperature float64) ([]QARecord, error) {
	req := llm.Request{
		Prompt:      r.config.Template.Build(seed.Category, seed.Topic, r.config.Count),
		Temperature: temperature,
	}
	if r.config.UseSchema {
		req.Schema = RecordsSchema
	}

	resp, err := r.provider.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	return Parse(resp.Text, r.config.Count), nil
}
