package passes

import (
	"go.uber.org/zap"

	"github.com/typegraph-dev/typegraph/compiler/errors"
	"github.com/typegraph-dev/typegraph/compiler/typegraph"
)

// maxFixpointRounds bounds the outer normalization loop; exceeding it
// means a pass oscillates, which is an internal error.
const maxFixpointRounds = 32

// PassFunc is one rewrite pass: graph in, graph out, plus whether it
// changed anything.
type PassFunc func(*typegraph.TypeGraph, *Context) (*typegraph.TypeGraph, bool)

// OptionalPasses selects which normalization passes run after union
// flattening and intersection resolution.
type OptionalPasses struct {
	ExpandStrings     bool
	FlattenStrings    bool
	InferMaps         bool
	CombineClasses    bool
	ReplaceObjectType bool
}

// AllOptionalPasses enables everything.
func AllOptionalPasses() OptionalPasses {
	return OptionalPasses{
		ExpandStrings:     true,
		FlattenStrings:    true,
		InferMaps:         true,
		CombineClasses:    true,
		ReplaceObjectType: true,
	}
}

// Normalize drives the rewrite pipeline to its fixpoint: flatten-unions
// and resolve-intersections iterate until both are stable, then the
// enabled optional passes run, and the whole sequence repeats until no
// pass reports a change. Structural errors raised by a pass abort the
// pipeline.
func Normalize(g *typegraph.TypeGraph, ctx *Context, optional OptionalPasses) (result *typegraph.TypeGraph, err error) {
	defer func() {
		if r := recover(); r != nil {
			// Structural errors propagate as typed errors; invariant
			// violations stay fatal.
			if ir, ok := r.(*errors.IRError); ok && !ir.IsFatal() {
				result = nil
				err = ir
				return
			}
			panic(r)
		}
	}()

	type namedPass struct {
		name    string
		run     PassFunc
		enabled bool
	}
	optionalPasses := []namedPass{
		{"expand-strings", ExpandStrings, optional.ExpandStrings},
		{"flatten-strings", FlattenStrings, optional.FlattenStrings},
		{"infer-maps", InferMaps, optional.InferMaps},
		{"combine-classes", CombineClasses, optional.CombineClasses},
		{"replace-object-type", ReplaceObjectType, optional.ReplaceObjectType},
	}

	for round := 0; ; round++ {
		errors.MessageAssertf(round < maxFixpointRounds,
			"rewrite pipeline did not reach a fixpoint in %d rounds", maxFixpointRounds)
		anyChange := false

		// Flatten and resolve to their joint fixpoint first; flattening
		// can expose intersections and vice versa.
		for inner := 0; ; inner++ {
			errors.MessageAssertf(inner < maxFixpointRounds,
				"flatten/resolve did not reach a fixpoint in %d rounds", maxFixpointRounds)
			var flattened, resolved bool
			g, flattened = FlattenUnions(g, ctx)
			g, resolved = ResolveIntersections(g, ctx)
			if flattened || resolved {
				anyChange = true
				continue
			}
			break
		}

		for _, pass := range optionalPasses {
			if !pass.enabled {
				continue
			}
			next, changed := pass.run(g, ctx)
			if changed {
				ctx.Logger.Debug("pass changed graph",
					zap.String("pass", pass.name),
					zap.Int("types", next.Size()))
				anyChange = true
			}
			g = next
		}

		if !anyChange {
			break
		}
	}
	return g, nil
}
