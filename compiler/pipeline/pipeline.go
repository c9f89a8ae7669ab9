package pipeline

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/typegraph-dev/typegraph/compiler/errors"
	"github.com/typegraph-dev/typegraph/compiler/infer"
	"github.com/typegraph-dev/typegraph/compiler/input"
	"github.com/typegraph-dev/typegraph/compiler/passes"
	"github.com/typegraph-dev/typegraph/compiler/typegraph"
)

// Source is one input feeding the pipeline. Parse may suspend (the
// input boundary is the pipeline's only asynchronous edge); every
// source drains to completion before the first rewrite runs.
type Source interface {
	Name() string
	Parse(ctx context.Context) (*input.Sequence, error)
}

// jsonSource serves pre-supplied JSON documents.
type jsonSource struct {
	name      string
	documents []string
}

// NewJSONSource creates a source over JSON document texts.
func NewJSONSource(name string, documents ...string) Source {
	return &jsonSource{name: name, documents: documents}
}

func (s *jsonSource) Name() string { return s.name }

func (s *jsonSource) Parse(context.Context) (*input.Sequence, error) {
	values := make([]input.Value, 0, len(s.documents))
	for _, doc := range s.documents {
		value, err := input.DecodeJSON(s.name, strings.NewReader(doc))
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return input.SequenceOf(values...), nil
}

// Pipeline runs inference and normalization over a set of sources.
type Pipeline struct {
	logger  *zap.Logger
	opts    *Options
	sources []Source
}

// New creates a pipeline. A nil logger logs nothing; nil options take
// the defaults.
func New(logger *zap.Logger, opts *Options) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Pipeline{logger: logger, opts: opts}
}

// AddSource appends an input source; each becomes one top level, in
// insertion order.
func (p *Pipeline) AddSource(src Source) {
	p.sources = append(p.sources, src)
}

func (p *Pipeline) stringTypeMapping() typegraph.StringTypeMapping {
	if p.opts.PreserveTransformed {
		return typegraph.PreserveTransformedStrings()
	}
	return typegraph.TransformedStringsToString()
}

// Run drains every source, infers the initial graph, and normalizes it
// to the fixpoint of the rewrite passes. Structural errors raised
// during construction surface as typed errors; invariant violations
// stay fatal.
func (p *Pipeline) Run(ctx context.Context) (result *typegraph.TypeGraph, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ir, ok := r.(*errors.IRError); ok && !ir.IsFatal() {
				result = nil
				err = ir
				return
			}
			panic(r)
		}
	}()

	start := time.Now()
	builder := typegraph.NewTypeBuilder(p.stringTypeMapping(), p.opts.CanonicalOrder)

	inferOpts := infer.Options{
		InferEnums:              p.opts.InferEnums,
		InferTransformedStrings: p.opts.InferTransformedStrings,
		InferMaps:               p.opts.InferMaps,
		MapPropertyThreshold:    p.opts.Heuristics.MapThresholdProperty,
		DetectRefs:              p.opts.DetectRefs,
	}

	// Input acquisition is the only suspension point; it completes
	// before any rewrite begins, keeping the transformation replayable.
	for _, src := range p.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		seq, err := src.Parse(ctx)
		if err != nil {
			return nil, err
		}
		inference := infer.New(builder, inferOpts)
		inference.InferTopLevel(src.Name(), seq)
		p.logger.Debug("source inferred",
			zap.String("source", src.Name()),
			zap.String("provenance", inference.SourceID()))
	}

	g := builder.Finish()
	p.logger.Info("initial graph built",
		zap.Int("types", g.Size()),
		zap.Int("top_levels", len(g.TopLevelNames())))

	passCtx := passes.DefaultContext(p.logger)
	passCtx.StringTypeMapping = p.stringTypeMapping()
	passCtx.CanonicalOrder = p.opts.CanonicalOrder
	passCtx.Debug = p.opts.Debug
	passCtx.ConflateNumbers = p.opts.ConflateNumbers
	passCtx.EnumInference = p.opts.enumInference()
	passCtx.LeaveFullObjects = p.opts.LeaveFullObjects
	passCtx.MinLengthForEnum = p.opts.Heuristics.MinLengthForEnum
	passCtx.MinLengthForOverlap = p.opts.Heuristics.MinLengthForOverlap
	passCtx.RequiredOverlap = p.opts.Heuristics.RequiredOverlap
	passCtx.MapSizeThreshold = p.opts.Heuristics.MapThreshold

	optional := passes.OptionalPasses{
		ExpandStrings:     p.opts.EnumInference != "none" || p.opts.InferTransformedStrings,
		FlattenStrings:    p.opts.FlattenStrings,
		InferMaps:         p.opts.InferMaps,
		CombineClasses:    p.opts.CombineClasses,
		ReplaceObjectType: p.opts.ReplaceObjectType,
	}

	normalized, err := passes.Normalize(g, passCtx, optional)
	if err != nil {
		return nil, err
	}
	if passCtx.LostTypeAttributes {
		p.logger.Warn("rewrites discarded type attributes")
	}

	p.logger.Info("graph normalized",
		zap.Int("types", normalized.Size()),
		zap.Duration("elapsed", time.Since(start)))
	return normalized, nil
}
