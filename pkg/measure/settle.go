package measure

import (
	"context"
)

// DefaultMaxIterations bounds the synchronous fixed-point loop.
const DefaultMaxIterations = 6

// SettleOptions configures Settle.
type SettleOptions struct {
	MaxIterations int
	Tolerance     float64
}

// Step renders once and returns the measured metrics. prev is nil on the
// first call and the previous measurement afterwards, which lets the step
// refine its scale inputs.
type Step func(ctx context.Context, prev *StoryMetrics) (StoryMetrics, error)

// SettleResult reports how the loop ended.
type SettleResult struct {
	Metrics    StoryMetrics
	Iterations int
	Converged  bool
}

// Settle runs step until two consecutive measurements agree within the
// tolerance or MaxIterations is reached. Hitting the cap is not an error:
// the last measurement stands.
func Settle(ctx context.Context, step Step, opts SettleOptions) (SettleResult, error) {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = Tolerance
	}

	var (
		res  SettleResult
		prev *StoryMetrics
	)
	for res.Iterations < opts.MaxIterations {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		m, err := step(ctx, prev)
		if err != nil {
			return res, err
		}
		res.Iterations++
		res.Metrics = m
		if prev != nil && !m.Changed(*prev, opts.Tolerance) {
			res.Converged = true
			return res, nil
		}
		prev = &m
	}
	return res, nil
}
