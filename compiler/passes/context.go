// Package passes implements the graph rewrite passes and the fixpoint
// driver that normalizes a type graph for renderers.
package passes

import (
	"go.uber.org/zap"

	"github.com/typegraph-dev/typegraph/compiler/errors"
	"github.com/typegraph-dev/typegraph/compiler/typegraph"
	"github.com/typegraph-dev/typegraph/internal/markov"
)

// EnumInference selects how string-enum expansion treats observed
// cases.
type EnumInference int

const (
	EnumInferenceNone EnumInference = iota
	EnumInferenceInfer
	EnumInferenceAll
)

// Context carries everything a pass needs besides the graph itself:
// the logger, the rewrite configuration, the tunable heuristics, and
// the lazily loaded Markov chain.
type Context struct {
	Logger            *zap.Logger
	StringTypeMapping typegraph.StringTypeMapping
	CanonicalOrder    bool
	Debug             bool

	ConflateNumbers bool
	EnumInference   EnumInference
	LeaveFullObjects bool

	// Tunable heuristics, loaded from pipeline options.
	MinLengthForEnum    int
	MinLengthForOverlap int
	RequiredOverlap     float64
	MapSizeThreshold    int

	// LostTypeAttributes is raised when a pass knowingly discarded
	// attributes; downstream code must not assume losslessness.
	LostTypeAttributes bool

	chain *markov.Chain
}

// DefaultContext returns a context with the heuristics at their
// canonical values.
func DefaultContext(logger *zap.Logger) *Context {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Context{
		Logger:              logger,
		StringTypeMapping:   typegraph.PreserveTransformedStrings(),
		ConflateNumbers:     true,
		EnumInference:       EnumInferenceInfer,
		MinLengthForEnum:    10,
		MinLengthForOverlap: 5,
		RequiredOverlap:     0.75,
		MapSizeThreshold:    20,
	}
}

func (ctx *Context) rewriteOptions(title string) typegraph.RewriteOptions {
	return typegraph.RewriteOptions{
		Title:             title,
		Logger:            ctx.Logger,
		StringTypeMapping: ctx.StringTypeMapping,
		CanonicalOrder:    ctx.CanonicalOrder,
		Debug:             ctx.Debug,
	}
}

// Markov returns the property-name scoring chain, loading it on first
// use.
func (ctx *Context) Markov() *markov.Chain {
	if ctx.chain == nil {
		chain, err := markov.Load()
		if err != nil {
			errors.Panicf("loading markov chain: %v", err)
		}
		ctx.chain = chain
	}
	return ctx.chain
}
