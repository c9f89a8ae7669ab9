package passes

import (
	"sort"

	"github.com/typegraph-dev/typegraph/compiler/typegraph"
)

// unifyHooks builds the union-builder hooks used by the rewrite
// passes: accumulated array and object members are unified in the new
// graph by reconstituting their parts.
func unifyHooks(rec *typegraph.GraphReconstituter) typegraph.UnionBuilderHooks {
	return typegraph.UnionBuilderHooks{
		MakeArray: func(b *typegraph.TypeBuilder, itemRefs []typegraph.TypeRef, attrs typegraph.TypeAttributes, fwd *typegraph.TypeRef) typegraph.TypeRef {
			result := b.GetUniqueArrayType(attrs, fwd)
			// Later flatten iterations canonicalize unified items.
			b.SetArrayItems(result, unionOf(b, rec.ReconstituteMany(itemRefs)))
			return result
		},
		MakeObject: func(b *typegraph.TypeBuilder, objectRefs []typegraph.TypeRef, attrs typegraph.TypeAttributes, fwd *typegraph.TypeRef) typegraph.TypeRef {
			if len(objectRefs) == 1 {
				if fwd == nil {
					ref := rec.Reconstitute(objectRefs[0])
					if attrs.Size() > 0 {
						b.AddAttributes(ref, attrs)
					}
					return ref
				}
				return cloneObjectAt(rec, objectRefs[0], attrs, fwd)
			}
			return unifyObjects(rec, objectRefs, attrs, fwd)
		},
	}
}

// uniqueRefs drops duplicate refs, keeping first-seen order.
func uniqueRefs(refs []typegraph.TypeRef) []typegraph.TypeRef {
	seen := make(map[typegraph.TypeRef]struct{}, len(refs))
	var out []typegraph.TypeRef
	for _, r := range refs {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// unionOf builds the union of refs, collapsing a single distinct ref to
// itself.
func unionOf(b *typegraph.TypeBuilder, refs []typegraph.TypeRef) typegraph.TypeRef {
	refs = uniqueRefs(refs)
	if len(refs) == 1 {
		return refs[0]
	}
	return b.GetUnionType(typegraph.EmptyAttributes(), refs, nil)
}

// cloneObjectAt rebuilds one object-kind type at a reserved ref,
// keeping its kind.
func cloneObjectAt(rec *typegraph.GraphReconstituter, objRef typegraph.TypeRef, attrs typegraph.TypeAttributes, fwd *typegraph.TypeRef) typegraph.TypeRef {
	g := rec.Source()
	b := rec.Builder()
	obj := g.Resolve(objRef).(*typegraph.ObjectType)

	var result typegraph.TypeRef
	switch obj.Kind() {
	case typegraph.KindMap:
		result = b.GetUniqueMapType(attrs, fwd)
	case typegraph.KindClass:
		result = b.GetUniqueClassType(attrs, obj.IsFixed(), nil, fwd)
	default:
		result = b.GetUniqueObjectType(attrs, nil, nil, fwd)
	}

	properties := make([]typegraph.Property, 0, len(obj.Properties()))
	for _, p := range obj.Properties() {
		properties = append(properties, typegraph.Property{
			Name:     p.Name,
			Type:     rec.Reconstitute(p.Type),
			Optional: p.Optional,
		})
	}
	var additional *typegraph.TypeRef
	if add, ok := obj.AdditionalProperties(); ok {
		mapped := rec.Reconstitute(add)
		additional = &mapped
	}
	b.SetObjectProperties(result, properties, additional)
	return result
}

// unifyObjects merges several object-kind types into one class: the
// property set is the union of all, each property typed as the union
// of its contributions and optional when absent from or optional in
// any contributor.
func unifyObjects(rec *typegraph.GraphReconstituter, objectRefs []typegraph.TypeRef, attrs typegraph.TypeAttributes, forwardingRef *typegraph.TypeRef) typegraph.TypeRef {
	g := rec.Source()
	b := rec.Builder()

	type propAcc struct {
		refs     []typegraph.TypeRef
		optional bool
		seenIn   int
	}
	props := map[string]*propAcc{}
	var order []string
	var additionals []typegraph.TypeRef

	for _, objRef := range objectRefs {
		obj := g.Resolve(objRef).(*typegraph.ObjectType)
		for _, p := range obj.Properties() {
			acc, ok := props[p.Name]
			if !ok {
				acc = &propAcc{}
				props[p.Name] = acc
				order = append(order, p.Name)
			}
			acc.refs = append(acc.refs, p.Type)
			acc.optional = acc.optional || p.Optional
			acc.seenIn++
		}
		if add, ok := obj.AdditionalProperties(); ok {
			additionals = append(additionals, add)
		}
	}
	sort.Strings(order)

	result := b.GetUniqueClassType(attrs, true, nil, forwardingRef)
	properties := make([]typegraph.Property, 0, len(order))
	for _, name := range order {
		acc := props[name]
		properties = append(properties, typegraph.Property{
			Name:     name,
			Type:     unionOf(b, rec.ReconstituteMany(acc.refs)),
			Optional: acc.optional || acc.seenIn < len(objectRefs),
		})
	}
	b.SetObjectProperties(result, properties, nil)
	return result
}
