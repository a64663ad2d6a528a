package trigger

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/tagship/pkg/domain/interfaces"
	"github.com/m-mizutani/tagship/pkg/domain/model"
)

// Processor turns the CI ref of a run into a trigger and dispatches it
type Processor struct {
	pipeline      interfaces.PipelineUseCase
	branchEnabled bool
}

// Option is a functional option for Processor
type Option func(*Processor)

// WithBranchRelease enables releases on branch pushes
func WithBranchRelease(enabled bool) Option {
	return func(p *Processor) {
		p.branchEnabled = enabled
	}
}

// NewProcessor creates a trigger processor
func NewProcessor(pipeline interfaces.PipelineUseCase, opts ...Option) *Processor {
	p := &Processor{pipeline: pipeline}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process runs the pipeline for refType ("branch" or "tag") and ref. Branch
// pushes are skipped unless branch releases are enabled.
func (p *Processor) Process(ctx context.Context, refType, ref string) (*model.RunResult, error) {
	logger := ctxlog.From(ctx)

	kind, err := model.ParseTriggerKind(refType)
	if err != nil {
		return nil, err
	}
	trigger := model.Trigger{Kind: kind, Ref: ref}

	if kind == model.TriggerBranchPush && !p.branchEnabled {
		logger.Info("Branch push detected; branch releases are not enabled. Skipping release.", "ref", ref)
		return &model.RunResult{SkipReason: "branch releases disabled"}, nil
	}

	logger.Info("Processing trigger", "kind", kind, "ref", ref)
	return p.pipeline.Run(ctx, trigger)
}
