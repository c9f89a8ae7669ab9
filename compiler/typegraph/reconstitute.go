package typegraph

import (
	"go.uber.org/zap"

	"github.com/typegraph-dev/typegraph/compiler/errors"
)

// ReplacerFunc collapses one disjoint set of types into a single type.
// It must produce its result at the given forwarding ref.
type ReplacerFunc func(group []TypeRef, rec *GraphReconstituter, forwardingRef TypeRef) TypeRef

// RewriteOptions configures one rewrite of a graph.
type RewriteOptions struct {
	Title             string
	Logger            *zap.Logger
	StringTypeMapping StringTypeMapping
	CanonicalOrder    bool
	Debug             bool
}

func (o RewriteOptions) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// GraphReconstituter rebuilds every reachable type of a source graph
// into a fresh builder, applying remappings and replacements on the
// way. Forwarding refs let a type participate in its own ancestry.
type GraphReconstituter struct {
	src     *TypeGraph
	builder *TypeBuilder
	opts    RewriteOptions

	lookup map[TypeRef]TypeRef

	remap      map[TypeRef]TypeRef
	extraAttrs map[TypeRef][]TypeAttributes

	groups      [][]TypeRef
	groupOf     map[TypeRef]int
	groupResult map[int]TypeRef
	replacer    ReplacerFunc

	unionByMembers map[string]TypeRef

	depth int
}

func newReconstituter(src *TypeGraph, opts RewriteOptions) *GraphReconstituter {
	return &GraphReconstituter{
		src:            src,
		builder:        NewTypeBuilder(opts.StringTypeMapping, opts.CanonicalOrder),
		opts:           opts,
		lookup:         map[TypeRef]TypeRef{},
		extraAttrs:     map[TypeRef][]TypeAttributes{},
		groupOf:        map[TypeRef]int{},
		groupResult:    map[int]TypeRef{},
		unionByMembers: map[string]TypeRef{},
	}
}

// Builder exposes the target builder to replacers.
func (r *GraphReconstituter) Builder() *TypeBuilder { return r.builder }

// Source exposes the graph being rewritten.
func (r *GraphReconstituter) Source() *TypeGraph { return r.src }

// SourceAttributes returns a source type's attributes, including the
// attributes of any remapped types coalesced into it.
func (r *GraphReconstituter) SourceAttributes(old TypeRef) TypeAttributes {
	sets := []TypeAttributes{r.src.Attributes(old)}
	sets = append(sets, r.extraAttrs[old]...)
	return CombineAttributes(CombineUnion, sets...)
}

// ReconstituteAttributes rebuilds an attribute set for the new graph.
func (r *GraphReconstituter) ReconstituteAttributes(attrs TypeAttributes) TypeAttributes {
	return reconstituteAttributes(r, attrs)
}

// ReconstituteMany maps Reconstitute over refs.
func (r *GraphReconstituter) ReconstituteMany(refs []TypeRef) []TypeRef {
	out := make([]TypeRef, len(refs))
	for i, ref := range refs {
		out[i] = r.Reconstitute(ref)
	}
	return out
}

// FindUnion looks up a union previously registered under the given new
// member set.
func (r *GraphReconstituter) FindUnion(members []TypeRef) (TypeRef, bool) {
	ref, ok := r.unionByMembers["u\x00"+refsKey(members)]
	return ref, ok
}

func (r *GraphReconstituter) registerUnion(members []TypeRef, ref TypeRef) {
	r.unionByMembers["u\x00"+refsKey(members)] = ref
}

func (r *GraphReconstituter) resolveRemap(old TypeRef) TypeRef {
	for {
		target, ok := r.remap[old]
		if !ok {
			return old
		}
		old = target
	}
}

func (r *GraphReconstituter) debugf(format string, args ...interface{}) {
	if !r.opts.Debug {
		return
	}
	indent := make([]byte, r.depth*2)
	for i := range indent {
		indent[i] = ' '
	}
	r.opts.logger().Sugar().Debugf(string(indent)+format, args...)
}

// Reconstitute returns the new-graph ref for a source type, rebuilding
// it on first use.
func (r *GraphReconstituter) Reconstitute(old TypeRef) TypeRef {
	old.assertGraph(r.src.serial)
	old = r.resolveRemap(old)

	if newRef, done := r.lookup[old]; done {
		return newRef
	}

	if groupIndex, replaced := r.groupOf[old]; replaced {
		return r.replaceGroup(groupIndex)
	}

	r.debugf("reconstituting %s (%s)", old, r.src.Resolve(old).Kind())
	r.depth++
	defer func() { r.depth-- }()

	attrs := r.ReconstituteAttributes(r.SourceAttributes(old))
	t := r.src.Resolve(old)

	switch t := t.(type) {
	case *PrimitiveType:
		newRef := r.builder.GetPrimitiveType(t.kind, attrs, nil)
		r.lookup[old] = newRef
		return newRef

	case *EnumType:
		newRef := r.builder.GetEnumType(attrs, t.cases, nil)
		r.lookup[old] = newRef
		return newRef

	case *ArrayType:
		fwd := r.builder.GetUniqueArrayType(attrs, nil)
		r.lookup[old] = fwd
		r.builder.SetArrayItems(fwd, r.Reconstitute(t.Items()))
		return fwd

	case *ObjectType:
		var fwd TypeRef
		switch t.kind {
		case KindClass:
			fwd = r.builder.GetUniqueClassType(attrs, t.isFixed, nil, nil)
		case KindMap:
			fwd = r.builder.GetUniqueMapType(attrs, nil)
		default:
			fwd = r.builder.GetUniqueObjectType(attrs, nil, nil, nil)
		}
		r.lookup[old] = fwd
		properties := make([]Property, 0, len(t.Properties()))
		for _, p := range t.Properties() {
			properties = append(properties, Property{
				Name:     p.Name,
				Type:     r.Reconstitute(p.Type),
				Optional: p.Optional,
			})
		}
		var additional *TypeRef
		if add, ok := t.AdditionalProperties(); ok {
			mapped := r.Reconstitute(add)
			additional = &mapped
		}
		r.builder.SetObjectProperties(fwd, properties, additional)
		return fwd

	case *SetOperationType:
		var fwd TypeRef
		if t.kind == KindUnion {
			fwd = r.builder.GetUniqueUnionType(attrs, nil, nil)
		} else {
			fwd = r.builder.GetUniqueIntersectionType(attrs, nil, nil)
		}
		r.lookup[old] = fwd
		members := r.ReconstituteMany(t.Members())
		r.builder.SetSetOperationMembers(fwd, members)
		if t.kind == KindUnion {
			r.registerUnion(members, fwd)
		}
		return fwd

	default:
		errors.Panicf("unknown type variant %T", t)
		return TypeRef{}
	}
}

func (r *GraphReconstituter) replaceGroup(groupIndex int) TypeRef {
	if result, done := r.groupResult[groupIndex]; done {
		return result
	}
	group := r.groups[groupIndex]
	fwd := r.builder.ReserveRef()
	// Register the forwarding ref for every member up front so cyclic
	// replacements terminate.
	for _, member := range group {
		r.lookup[member] = fwd
	}
	r.groupResult[groupIndex] = fwd
	r.debugf("replacing group of %d types", len(group))
	r.depth++
	result := r.replacer(group, r, fwd)
	r.depth--
	errors.MessageAssert(result == fwd, "replacer did not produce its type at the forwarding ref")
	return fwd
}

func (r *GraphReconstituter) run() *TypeGraph {
	for _, name := range r.src.TopLevelNames() {
		oldRef, _ := r.src.TopLevel(name)
		r.builder.AddTopLevel(name, r.Reconstitute(oldRef))
	}
	result := r.builder.Finish()
	// Reconstitution totality: every original top-level must survive.
	for _, name := range r.src.TopLevelNames() {
		_, ok := result.TopLevel(name)
		errors.MessageAssertf(ok, "top-level %q lost in rewrite %q", name, r.opts.Title)
	}
	return result
}

// Rewrite produces a new graph in which each replacement group has been
// collapsed into the single type its replacer builds. Groups must be
// disjoint.
func (g *TypeGraph) Rewrite(opts RewriteOptions, groups [][]TypeRef, replacer ReplacerFunc) *TypeGraph {
	errors.MessageAssert(replacer != nil, "rewrite without a replacer")
	rec := newReconstituter(g, opts)
	rec.groups = groups
	rec.replacer = replacer
	for i, group := range groups {
		errors.MessageAssert(len(group) > 0, "empty replacement group")
		for _, member := range group {
			member.assertGraph(g.serial)
			_, dup := rec.groupOf[member]
			errors.MessageAssert(!dup, "replacement groups are not disjoint")
			rec.groupOf[member] = i
		}
	}
	opts.logger().Debug("rewriting graph",
		zap.String("pass", opts.Title),
		zap.Int("groups", len(groups)),
		zap.Int("types", g.Size()))
	return rec.run()
}

// RemapTypes produces a new graph in which every occurrence of a source
// type becomes its target. Sources coalesced into one target union
// their attributes onto it. Forwarding refs are not supported in remap.
func (g *TypeGraph) RemapTypes(opts RewriteOptions, remap map[TypeRef]TypeRef) *TypeGraph {
	rec := newReconstituter(g, opts)
	rec.remap = remap
	for source, target := range remap {
		source.assertGraph(g.serial)
		resolved := rec.resolveRemap(target)
		rec.extraAttrs[resolved] = append(rec.extraAttrs[resolved], g.Attributes(source))
	}
	opts.logger().Debug("remapping graph",
		zap.String("pass", opts.Title),
		zap.Int("remapped", len(remap)),
		zap.Int("types", g.Size()))
	return rec.run()
}

// Clone rewrites the graph without changes, e.g. to apply a different
// string-type mapping.
func (g *TypeGraph) Clone(opts RewriteOptions) *TypeGraph {
	return g.RemapTypes(opts, nil)
}
