// Package infer turns lazy streams of sampled values into type-graph
// types: primitives by tag, objects into classes (or maps past a size
// threshold), strings into enum candidates or recognized
// transformed-string kinds.
package infer

import (
	"strings"

	"github.com/google/uuid"

	"github.com/typegraph-dev/typegraph/compiler/errors"
	"github.com/typegraph-dev/typegraph/compiler/input"
	"github.com/typegraph-dev/typegraph/compiler/typegraph"
	strutil "github.com/typegraph-dev/typegraph/internal/util/strings"
)

// Options tunes inference.
type Options struct {
	// InferEnums promotes interned strings to enum candidates.
	InferEnums bool
	// InferTransformedStrings recognizes date/uuid/uri-like formats.
	InferTransformedStrings bool
	// InferMaps collapses objects with at least MapPropertyThreshold
	// properties into maps during construction.
	InferMaps bool
	// MapPropertyThreshold is the property count at or above which an
	// object collapses to a map.
	MapPropertyThreshold int
	// DetectRefs builds {"$ref": ...} objects as deferred
	// intersections resolved after the top level is constructed.
	DetectRefs bool
}

// DefaultOptions returns inference with everything on and the canonical
// map threshold.
func DefaultOptions() Options {
	return Options{
		InferEnums:              true,
		InferTransformedStrings: true,
		InferMaps:               true,
		MapPropertyThreshold:    500,
		DetectRefs:              true,
	}
}

type deferredRef struct {
	ref    typegraph.TypeRef
	target string
}

// Inference builds types for one input source into a shared builder.
// Each source carries a provenance UUID that survives all rewrites.
type Inference struct {
	builder  *typegraph.TypeBuilder
	opts     Options
	sourceID string

	deferred []deferredRef
}

// New creates an inference for one source.
func New(builder *typegraph.TypeBuilder, opts Options) *Inference {
	if opts.MapPropertyThreshold <= 0 {
		opts.MapPropertyThreshold = 500
	}
	return &Inference{
		builder:  builder,
		opts:     opts,
		sourceID: uuid.NewString(),
	}
}

// SourceID returns the provenance UUID of this source.
func (inf *Inference) SourceID() string { return inf.sourceID }

// InferTopLevel infers a type from the sampled values, registers it as
// a top level under the given name, and resolves any deferred
// references against the builder's top levels.
func (inf *Inference) InferTopLevel(name string, values *input.Sequence) typegraph.TypeRef {
	ref := inf.inferValues(values.Drain(), name, 0)
	inf.builder.AddTopLevel(name, ref)
	inf.resolveDeferred()
	return ref
}

func (inf *Inference) provenance() typegraph.TypeAttributes {
	return typegraph.SingleAttribute(typegraph.ProvenanceAttribute,
		typegraph.NewStringSet(inf.sourceID))
}

func (inf *Inference) namesFor(name string, distance int) typegraph.TypeAttributes {
	attrs := inf.provenance()
	if name == "" {
		return attrs
	}
	return attrs.With(typegraph.NamesAttribute,
		typegraph.NewTypeNames([]string{name}, nil, distance))
}

// inferValues accumulates all samples of one position and builds the
// union of what was observed.
func (inf *Inference) inferValues(values []input.Value, name string, distance int) typegraph.TypeRef {
	acc := typegraph.NewUnionAccumulator(false)

	enumCases := map[string]int{}
	sawUninterned := false
	sawString := false
	transformations := map[typegraph.TypeKind]struct{}{}

	var objectSamples []input.Value
	var arrayItems []input.Value
	sawArray := false

	for _, v := range values {
		switch v.Kind {
		case input.NullValue:
			acc.AddPrimitiveKind(typegraph.KindNull, typegraph.EmptyAttributes())
		case input.BoolValue:
			acc.AddPrimitiveKind(typegraph.KindBool, typegraph.EmptyAttributes())
		case input.IntegerValue:
			acc.AddPrimitiveKind(typegraph.KindInteger, typegraph.EmptyAttributes())
		case input.DoubleValue:
			acc.AddPrimitiveKind(typegraph.KindDouble, typegraph.EmptyAttributes())
		case input.StringValue:
			if inf.opts.InferTransformedStrings {
				if kind, ok := recognizeFormat(v.Str); ok {
					transformations[kind] = struct{}{}
					sawString = true
					continue
				}
			}
			sawString = true
			if v.Interned && inf.opts.InferEnums {
				enumCases[v.Str]++
			} else {
				sawUninterned = true
			}
		case input.ObjectValue:
			objectSamples = append(objectSamples, v)
		case input.ArrayValue:
			sawArray = true
			arrayItems = append(arrayItems, v.Items...)
		}
	}

	if sawString {
		var st typegraph.StringTypes
		if sawUninterned || !inf.opts.InferEnums {
			st = typegraph.UnrestrictedStringTypes()
			st = st.Union(typegraph.RestrictedStringTypes(nil, kindsOf(transformations)))
		} else {
			st = typegraph.RestrictedStringTypes(enumCases, kindsOf(transformations))
		}
		acc.AddStringType(typegraph.EmptyAttributes(), st)
	}

	if sawArray {
		itemName := strutil.Singularize(name)
		itemRef := inf.inferValues(arrayItems, itemName, distance+1)
		acc.AddArray(itemRef, typegraph.EmptyAttributes())
	}

	if len(objectSamples) > 0 {
		objectRef := inf.inferObject(objectSamples, name, distance)
		acc.AddObject(objectRef, typegraph.EmptyAttributes())
	}

	hooks := typegraph.UnionBuilderHooks{
		MakeArray: func(b *typegraph.TypeBuilder, itemRefs []typegraph.TypeRef, attrs typegraph.TypeAttributes, fwd *typegraph.TypeRef) typegraph.TypeRef {
			errors.MessageAssert(len(itemRefs) == 1, "inference accumulated more than one array item type")
			return b.GetArrayType(attrs, itemRefs[0], fwd)
		},
		MakeObject: func(b *typegraph.TypeBuilder, objectRefs []typegraph.TypeRef, attrs typegraph.TypeAttributes, _ *typegraph.TypeRef) typegraph.TypeRef {
			errors.MessageAssert(len(objectRefs) == 1, "inference accumulated more than one object type")
			if attrs.Size() > 0 {
				b.AddAttributes(objectRefs[0], attrs)
			}
			return objectRefs[0]
		},
	}

	return acc.BuildUnionType(inf.builder, hooks, inf.namesFor(name, distance), false, nil)
}

// inferObject gathers per-key samples across all object values, marks
// properties optional when absent from any sample, and collapses to a
// map once the property count reaches the configured threshold.
func (inf *Inference) inferObject(samples []input.Value, name string, distance int) typegraph.TypeRef {
	if inf.opts.DetectRefs && allRefShapes(samples) {
		// Deferred intersection: the target is known only after the
		// top level exists.
		ref := inf.builder.GetUniqueIntersectionType(inf.namesFor(name, distance), nil, nil)
		inf.deferred = append(inf.deferred, deferredRef{ref: ref, target: samples[0].Members[0].Value.Str})
		return ref
	}

	valuesByKey := map[string][]input.Value{}
	presence := map[string]int{}
	var keyOrder []string
	for _, sample := range samples {
		for _, member := range sample.Members {
			if _, seen := valuesByKey[member.Key]; !seen {
				keyOrder = append(keyOrder, member.Key)
			}
			valuesByKey[member.Key] = append(valuesByKey[member.Key], member.Value)
			presence[member.Key]++
		}
	}

	attrs := inf.namesFor(name, distance)

	if inf.opts.InferMaps && len(keyOrder) >= inf.opts.MapPropertyThreshold {
		var all []input.Value
		for _, key := range keyOrder {
			all = append(all, valuesByKey[key]...)
		}
		valueRef := inf.inferValues(all, strutil.Singularize(name), distance+1)
		return inf.builder.GetMapType(attrs, valueRef, nil)
	}

	properties := make([]typegraph.Property, 0, len(keyOrder))
	for _, key := range keyOrder {
		propRef := inf.inferValues(valuesByKey[key], key, distance+1)
		properties = append(properties, typegraph.Property{
			Name:     key,
			Type:     propRef,
			Optional: presence[key] < len(samples),
		})
	}
	return inf.builder.GetUniqueClassType(attrs, true, properties, nil)
}

// allRefShapes reports whether every sample is exactly {"$ref": string}.
func allRefShapes(samples []input.Value) bool {
	for _, sample := range samples {
		if len(sample.Members) != 1 {
			return false
		}
		member := sample.Members[0]
		if member.Key != "$ref" || member.Value.Kind != input.StringValue || !member.Value.Interned {
			return false
		}
	}
	return len(samples) > 0
}

// resolveDeferred binds each deferred reference to the top level its
// path names; unresolvable targets degrade to any.
func (inf *Inference) resolveDeferred() {
	pending := inf.deferred
	inf.deferred = nil
	for _, d := range pending {
		target := refTargetName(d.target)
		if ref, ok := inf.builder.TopLevel(target); ok {
			inf.builder.SetSetOperationMembers(d.ref, []typegraph.TypeRef{ref})
			continue
		}
		anyRef := inf.builder.GetPrimitiveType(typegraph.KindAny, typegraph.EmptyAttributes(), nil)
		inf.builder.SetSetOperationMembers(d.ref, []typegraph.TypeRef{anyRef})
	}
}

// refTargetName extracts the referenced name from a JSON-pointer-like
// target: the last path segment.
func refTargetName(target string) string {
	target = strings.TrimPrefix(target, "#")
	target = strings.Trim(target, "/")
	if i := strings.LastIndex(target, "/"); i >= 0 {
		return target[i+1:]
	}
	return target
}

func kindsOf(set map[typegraph.TypeKind]struct{}) []typegraph.TypeKind {
	out := make([]typegraph.TypeKind, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
