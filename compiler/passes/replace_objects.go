package passes

import (
	"go.uber.org/zap"

	"github.com/typegraph-dev/typegraph/compiler/typegraph"
)

// ReplaceObjectType converts every plain object into a class or a map.
// With LeaveFullObjects, objects carrying both named properties and
// additional properties are kept as objects.
func ReplaceObjectType(g *typegraph.TypeGraph, ctx *Context) (*typegraph.TypeGraph, bool) {
	var groups [][]typegraph.TypeRef
	for _, ref := range g.AllTypesUnordered() {
		obj, ok := g.Resolve(ref).(*typegraph.ObjectType)
		if !ok || obj.Kind() != typegraph.KindObject {
			continue
		}
		_, hasAdditional := obj.AdditionalProperties()
		if ctx.LeaveFullObjects && len(obj.Properties()) > 0 && hasAdditional {
			continue
		}
		groups = append(groups, []typegraph.TypeRef{ref})
	}
	if len(groups) == 0 {
		return g, false
	}

	ctx.Logger.Debug("replacing object types", zap.Int("objects", len(groups)))

	replacer := func(group []typegraph.TypeRef, rec *typegraph.GraphReconstituter, fwd typegraph.TypeRef) typegraph.TypeRef {
		obj := g.Resolve(group[0]).(*typegraph.ObjectType)
		b := rec.Builder()
		attrs := rec.ReconstituteAttributes(g.Attributes(group[0]))

		additional, hasAdditional := obj.AdditionalProperties()
		properties := obj.Properties()

		buildClass := func() typegraph.TypeRef {
			result := b.GetUniqueClassType(attrs, true, nil, &fwd)
			mapped := make([]typegraph.Property, 0, len(properties))
			for _, p := range properties {
				mapped = append(mapped, typegraph.Property{
					Name:     p.Name,
					Type:     rec.Reconstitute(p.Type),
					Optional: p.Optional,
				})
			}
			b.SetObjectProperties(result, mapped, nil)
			return result
		}

		switch {
		case !hasAdditional:
			return buildClass()

		case len(properties) == 0:
			result := b.GetUniqueMapType(attrs, &fwd)
			values := rec.Reconstitute(additional)
			b.SetObjectProperties(result, nil, &values)
			return result

		case g.Resolve(additional).Kind() == typegraph.KindAny:
			// The additional-properties constraint is dropped; mark the
			// loss so downstream code does not assume losslessness.
			ctx.LostTypeAttributes = true
			return buildClass()

		default:
			result := b.GetUniqueMapType(attrs, &fwd)
			var valueRefs []typegraph.TypeRef
			for _, p := range properties {
				valueRefs = append(valueRefs, rec.Reconstitute(p.Type))
			}
			valueRefs = append(valueRefs, rec.Reconstitute(additional))
			values := unionOf(b, valueRefs)
			b.SetObjectProperties(result, nil, &values)
			return result
		}
	}

	return g.Rewrite(ctx.rewriteOptions("replace-object-type"), groups, replacer), true
}
