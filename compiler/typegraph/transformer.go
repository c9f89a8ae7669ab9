package typegraph

import (
	"fmt"
	"strings"

	"github.com/typegraph-dev/typegraph/compiler/errors"
)

// Transformer is one node of an encode/decode transformation tree.
// Transformers describe how a serialized representation becomes the
// refined type and back; they are attached to types through the
// transformation attribute.
type Transformer interface {
	// CanFail reports whether applying the transformer can fail at
	// runtime.
	CanFail() bool
	// Reverse returns the transformer for the opposite direction.
	Reverse() Transformer
	// Equals compares transformers structurally.
	Equals(other Transformer) bool
	// ChildRefs returns the type refs the transformer carries.
	ChildRefs() []TypeRef
	// reconstitute rebuilds carried refs across a rewrite.
	reconstitute(rec *GraphReconstituter) Transformer
	String() string
}

// ParseStringTransformer parses a string into a transformed kind; it
// can fail on malformed input.
type ParseStringTransformer struct {
	TargetKind TypeKind
}

func (t *ParseStringTransformer) CanFail() bool { return true }

func (t *ParseStringTransformer) Reverse() Transformer {
	return &StringifyTransformer{SourceKind: t.TargetKind}
}

func (t *ParseStringTransformer) Equals(other Transformer) bool {
	o, ok := other.(*ParseStringTransformer)
	return ok && o.TargetKind == t.TargetKind
}

func (t *ParseStringTransformer) ChildRefs() []TypeRef { return nil }

func (t *ParseStringTransformer) reconstitute(*GraphReconstituter) Transformer { return t }

func (t *ParseStringTransformer) String() string {
	return fmt.Sprintf("parse-string(%s)", t.TargetKind)
}

// StringifyTransformer renders a transformed kind back into a string;
// it never fails.
type StringifyTransformer struct {
	SourceKind TypeKind
}

func (t *StringifyTransformer) CanFail() bool { return false }

func (t *StringifyTransformer) Reverse() Transformer {
	return &ParseStringTransformer{TargetKind: t.SourceKind}
}

func (t *StringifyTransformer) Equals(other Transformer) bool {
	o, ok := other.(*StringifyTransformer)
	return ok && o.SourceKind == t.SourceKind
}

func (t *StringifyTransformer) ChildRefs() []TypeRef { return nil }

func (t *StringifyTransformer) reconstitute(*GraphReconstituter) Transformer { return t }

func (t *StringifyTransformer) String() string {
	return fmt.Sprintf("stringify(%s)", t.SourceKind)
}

// DecodeTransformer decodes a serialized value of the carried source
// type through its inner transformer.
type DecodeTransformer struct {
	Source TypeRef
	Inner  Transformer
}

func (t *DecodeTransformer) CanFail() bool { return t.Inner.CanFail() }

func (t *DecodeTransformer) Reverse() Transformer {
	return &EncodeTransformer{Target: t.Source, Inner: t.Inner.Reverse()}
}

func (t *DecodeTransformer) Equals(other Transformer) bool {
	o, ok := other.(*DecodeTransformer)
	return ok && o.Source == t.Source && o.Inner.Equals(t.Inner)
}

func (t *DecodeTransformer) ChildRefs() []TypeRef {
	return append([]TypeRef{t.Source}, t.Inner.ChildRefs()...)
}

func (t *DecodeTransformer) reconstitute(rec *GraphReconstituter) Transformer {
	return &DecodeTransformer{
		Source: rec.Reconstitute(t.Source),
		Inner:  t.Inner.reconstitute(rec),
	}
}

func (t *DecodeTransformer) String() string {
	return fmt.Sprintf("decode(%s, %s)", t.Source, t.Inner)
}

// EncodeTransformer encodes a value into the carried target type
// through its inner transformer.
type EncodeTransformer struct {
	Target TypeRef
	Inner  Transformer
}

func (t *EncodeTransformer) CanFail() bool { return t.Inner.CanFail() }

func (t *EncodeTransformer) Reverse() Transformer {
	return &DecodeTransformer{Source: t.Target, Inner: t.Inner.Reverse()}
}

func (t *EncodeTransformer) Equals(other Transformer) bool {
	o, ok := other.(*EncodeTransformer)
	return ok && o.Target == t.Target && o.Inner.Equals(t.Inner)
}

func (t *EncodeTransformer) ChildRefs() []TypeRef {
	return append([]TypeRef{t.Target}, t.Inner.ChildRefs()...)
}

func (t *EncodeTransformer) reconstitute(rec *GraphReconstituter) Transformer {
	return &EncodeTransformer{
		Target: rec.Reconstitute(t.Target),
		Inner:  t.Inner.reconstitute(rec),
	}
}

func (t *EncodeTransformer) String() string {
	return fmt.Sprintf("encode(%s, %s)", t.Target, t.Inner)
}

// ChoiceTransformer tries its options in order until one succeeds. It
// can fail only if every option can.
type ChoiceTransformer struct {
	Options []Transformer
}

func (t *ChoiceTransformer) CanFail() bool {
	for _, o := range t.Options {
		if !o.CanFail() {
			return false
		}
	}
	return true
}

func (t *ChoiceTransformer) Reverse() Transformer {
	reversed := make([]Transformer, len(t.Options))
	for i, o := range t.Options {
		reversed[i] = o.Reverse()
	}
	return &ChoiceTransformer{Options: reversed}
}

func (t *ChoiceTransformer) Equals(other Transformer) bool {
	o, ok := other.(*ChoiceTransformer)
	if !ok || len(o.Options) != len(t.Options) {
		return false
	}
	for i := range t.Options {
		if !t.Options[i].Equals(o.Options[i]) {
			return false
		}
	}
	return true
}

func (t *ChoiceTransformer) ChildRefs() []TypeRef {
	var refs []TypeRef
	for _, o := range t.Options {
		refs = append(refs, o.ChildRefs()...)
	}
	return refs
}

func (t *ChoiceTransformer) reconstitute(rec *GraphReconstituter) Transformer {
	options := make([]Transformer, len(t.Options))
	for i, o := range t.Options {
		options[i] = o.reconstitute(rec)
	}
	return &ChoiceTransformer{Options: options}
}

func (t *ChoiceTransformer) String() string {
	var parts []string
	for _, o := range t.Options {
		parts = append(parts, o.String())
	}
	return "choice(" + strings.Join(parts, ", ") + ")"
}

// Transformation is the value of the transformation attribute: the
// serialized source type and the transformer tree connecting it to the
// type the attribute is attached to.
type Transformation struct {
	Source      TypeRef
	Transformer Transformer
}

// Reverse returns the transformation for the opposite direction,
// anchored at the given new source.
func (t Transformation) Reverse(source TypeRef) Transformation {
	return Transformation{Source: source, Transformer: t.Transformer.Reverse()}
}

// Equals compares transformations structurally.
func (t Transformation) Equals(other Transformation) bool {
	return t.Source == other.Source && t.Transformer.Equals(other.Transformer)
}

func (t Transformation) String() string {
	return fmt.Sprintf("%s <- %s", t.Transformer, t.Source)
}

// transformationAttributeKind attaches transformations to types. It
// participates in identity: differently-transformed types must stay
// distinct.
type transformationAttributeKind struct {
	attributeKindBase
}

// TransformationAttribute is the transformation attribute kind
// singleton.
var TransformationAttribute = &transformationAttributeKind{
	attributeKindBase{name: "transformation", inIdentity: true},
}

func (k *transformationAttributeKind) Combine(values []interface{}) (interface{}, bool) {
	// Distinct transformations cannot merge; the caller loses the
	// attribute and must treat the result accordingly.
	first := values[0].(Transformation)
	for _, v := range values[1:] {
		if !first.Equals(v.(Transformation)) {
			return nil, false
		}
	}
	return first, true
}

func (k *transformationAttributeKind) Children(value interface{}) []TypeRef {
	t := value.(Transformation)
	return append([]TypeRef{t.Source}, t.Transformer.ChildRefs()...)
}

func (k *transformationAttributeKind) Reconstitute(rec *GraphReconstituter, value interface{}) interface{} {
	t := value.(Transformation)
	return Transformation{
		Source:      rec.Reconstitute(t.Source),
		Transformer: t.Transformer.reconstitute(rec),
	}
}

func (k *transformationAttributeKind) ValueString(value interface{}) string {
	return value.(Transformation).String()
}

// TransformationOf returns the transformation attached to the given
// attributes, if any.
func TransformationOf(a TypeAttributes) (Transformation, bool) {
	v, ok := a.Get(TransformationAttribute)
	if !ok {
		return Transformation{}, false
	}
	return v.(Transformation), true
}

// MustTransformation returns the transformation or dies.
func MustTransformation(a TypeAttributes) Transformation {
	t, ok := TransformationOf(a)
	errors.MessageAssert(ok, "type has no transformation attribute")
	return t
}
