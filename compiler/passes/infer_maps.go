package passes

import (
	"math"
	"regexp"

	"go.uber.org/zap"

	"github.com/typegraph-dev/typegraph/compiler/typegraph"
)

var digitsOnly = regexp.MustCompile(`^\d+$`)

// markovThresholdScale normalizes the power-law threshold so typical
// property-name probabilities sit above it for small classes and below
// it for large ones.
const markovThresholdScale = float64(1 << 31)

// InferMaps decides, for each class, whether its properties look like
// arbitrary keys rather than a fixed schema, and converts such classes
// into maps over the unified value type.
func InferMaps(g *typegraph.TypeGraph, ctx *Context) (*typegraph.TypeGraph, bool) {
	var groups [][]typegraph.TypeRef
	for _, ref := range g.AllTypesUnordered() {
		if g.Resolve(ref).Kind() != typegraph.KindClass {
			continue
		}
		if shouldBeMap(g, ctx, ref) {
			groups = append(groups, []typegraph.TypeRef{ref})
		}
	}
	if len(groups) == 0 {
		return g, false
	}

	ctx.Logger.Debug("inferring maps", zap.Int("classes", len(groups)))

	replacer := func(group []typegraph.TypeRef, rec *typegraph.GraphReconstituter, fwd typegraph.TypeRef) typegraph.TypeRef {
		class := g.Resolve(group[0]).(*typegraph.ObjectType)
		b := rec.Builder()
		attrs := rec.ReconstituteAttributes(g.Attributes(group[0]))

		result := b.GetUniqueMapType(attrs, &fwd)
		var valueRefs []typegraph.TypeRef
		for _, p := range class.Properties() {
			valueRefs = append(valueRefs, rec.Reconstitute(p.Type))
		}
		valueRef := unionOf(b, valueRefs)
		b.SetObjectProperties(result, nil, &valueRef)
		return result
	}

	return g.Rewrite(ctx.rewriteOptions("infer-maps"), groups, replacer), true
}

// shouldBeMap implements the decision rule: digit keys always convert;
// small classes of plain-string-or-null properties never do; everything
// else is scored by the Markov chain against a power-law threshold in
// the property count, and must additionally have structurally
// compatible value types.
func shouldBeMap(g *typegraph.TypeGraph, ctx *Context, ref typegraph.TypeRef) bool {
	class := g.Resolve(ref).(*typegraph.ObjectType)
	properties := class.Properties()
	if len(properties) < 2 {
		return false
	}

	allDigits := true
	for _, p := range properties {
		if !digitsOnly.MatchString(p.Name) {
			allDigits = false
			break
		}
	}
	if allDigits {
		return valueTypesCompatible(g, ctx, properties)
	}

	if len(properties) < ctx.MapSizeThreshold && allStringish(g, properties) {
		return false
	}

	chain := ctx.Markov()
	logSum := 0.0
	for _, p := range properties {
		logSum += math.Log(chain.Probability(p.Name))
	}
	probability := math.Exp(logSum / float64(len(properties)))

	n := float64(len(properties))
	threshold := math.Pow(n+2, 5)/markovThresholdScale -
		math.Pow(3, 5)/markovThresholdScale + 0.0025
	if probability >= threshold {
		return false
	}
	return valueTypesCompatible(g, ctx, properties)
}

// allStringish reports whether every property is a plain string, null,
// or a nullable string.
func allStringish(g *typegraph.TypeGraph, properties []typegraph.Property) bool {
	for _, p := range properties {
		for _, c := range nonNullCases(g, p.Type) {
			if g.Resolve(c).Kind() != typegraph.KindString {
				return false
			}
		}
	}
	return true
}

// valueTypesCompatible requires every pair of non-null property type
// cases to be structurally compatible before a class may become a map.
func valueTypesCompatible(g *typegraph.TypeGraph, ctx *Context, properties []typegraph.Property) bool {
	var first *typegraph.TypeRef
	for _, p := range properties {
		for _, c := range nonNullCases(g, p.Type) {
			if first == nil {
				ref := c
				first = &ref
				continue
			}
			if !typegraph.StructurallyCompatible(g, *first, g, c, ctx.ConflateNumbers) {
				return false
			}
		}
	}
	return true
}
