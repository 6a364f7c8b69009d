package reconstruct

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/google/uuid"

	"github.com/temporal-IPA/protoform/pkg/lexeme"
)

// BatchOptions configures RunAll and Stream.
type BatchOptions struct {
	// Workers bounds the number of sets processed at once. Zero or less
	// uses GOMAXPROCS.
	Workers int
	// Collapse merges the forms of each set pairwise instead of aligning
	// them all at once.
	Collapse bool
}

// Outcome is the result of one cognate set in a batch.
type Outcome struct {
	RunID string            `json:"run_id"`
	Index int               `json:"index"`
	Set   lexeme.CognateSet `json:"set"`
	// Result is set when the run does not collapse.
	Result Result `json:"result"`
	// Collapse is set when the run collapses.
	Collapse *CollapseResult `json:"collapse,omitempty"`
	Err      error           `json:"-"`
}

// Form returns the reconstructed form, empty on error.
func (o Outcome) Form() string {
	if o.Err != nil {
		return ""
	}
	if o.Collapse != nil {
		return o.Collapse.Form
	}
	return o.Result.Form
}

// Diagnostics returns the diagnostics of the set.
func (o Outcome) Diagnostics() Diagnostics {
	if o.Collapse != nil {
		return o.Collapse.Diagnostics
	}
	return o.Result.Diagnostics
}

func (o BatchOptions) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// RunAll reconstructs every set on a bounded worker pool. Outcomes are
// returned in input order whatever the number of workers; a set that
// fails carries its error and does not stop the others.
//
// Cancellation is checked before each set starts. On cancellation the
// outcomes of the sets that ran are returned with ctx.Err(); the others
// are left zero.
func (e *Engine) RunAll(ctx context.Context, sets []lexeme.CognateSet, opts BatchOptions) ([]Outcome, error) {
	runID := uuid.NewString()
	logger := e.logger.With(slog.String("run_id", runID))
	logger.Debug("batch started", slog.Int("sets", len(sets)), slog.Int("workers", opts.workers()))

	outcomes := make([]Outcome, len(sets))
	sem := make(chan struct{}, opts.workers())
	var wg sync.WaitGroup

loop:
	for i := range sets {
		select {
		case <-ctx.Done():
			break loop
		case sem <- struct{}{}:
		}
		if ctx.Err() != nil {
			<-sem
			break
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			outcomes[i] = e.runOne(runID, i, sets[i], opts)
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		logger.Debug("batch canceled", slog.Any("error", err))
		return outcomes, err
	}
	logger.Debug("batch finished", slog.Int("sets", len(sets)))
	return outcomes, nil
}

// Stream reconstructs the sets received on in and emits one Outcome per
// set, in arrival order. The returned channel is closed once in is
// drained or ctx is canceled.
func (e *Engine) Stream(ctx context.Context, in <-chan lexeme.CognateSet, opts BatchOptions) <-chan Outcome {
	out := make(chan Outcome, opts.workers())
	runID := uuid.NewString()

	go func() {
		defer close(out)

		// pending keeps arrival order: each set gets its own result slot.
		pending := make(chan chan Outcome, opts.workers())
		go func() {
			defer close(pending)
			for i := 0; ; i++ {
				var set lexeme.CognateSet
				var ok bool
				select {
				case <-ctx.Done():
					return
				case set, ok = <-in:
					if !ok {
						return
					}
				}
				slot := make(chan Outcome, 1)
				select {
				case <-ctx.Done():
					return
				case pending <- slot:
				}
				go func(i int, set lexeme.CognateSet) {
					slot <- e.runOne(runID, i, set, opts)
				}(i, set)
			}
		}()

		for slot := range pending {
			var o Outcome
			select {
			case <-ctx.Done():
				return
			case o = <-slot:
			}
			select {
			case <-ctx.Done():
				return
			case out <- o:
			}
		}
	}()

	return out
}

func (e *Engine) runOne(runID string, i int, set lexeme.CognateSet, opts BatchOptions) Outcome {
	o := Outcome{RunID: runID, Index: i, Set: set}
	forms := set.Texts()
	if opts.Collapse {
		res, err := e.Collapse(forms)
		if err != nil {
			o.Err = err
		} else {
			o.Collapse = &res
		}
	} else {
		o.Result, o.Err = e.Reconstruct(forms)
	}
	if o.Err != nil {
		e.logger.Debug("set failed",
			slog.String("run_id", runID),
			slog.Int("root", set.Root),
			slog.Any("error", o.Err))
	}
	return o
}
