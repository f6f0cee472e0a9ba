package schema

import (
	"github.com/hexbee-net/errors"
	"github.com/hexbee-net/parquet-schema/parquet"
)

// MaxNestingDepth is the deepest type tree the decoders accept.
const MaxNestingDepth = 1024

const (
	errEmptySchema    = errors.Error("schema has no element")
	errNestingTooDeep = errors.Error("schema nesting is too deep")
)

// ToSchemaElements returns the flat, depth first list of schema elements describing t.
func ToSchemaElements(t Type) []*parquet.SchemaElement {
	var (
		ret   []*parquet.SchemaElement
		stack = []Type{t}
	)

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch n := n.(type) {
		case *PrimitiveType:
			ret = append(ret, primitiveElement(n))
		case *GroupType:
			ret = append(ret, groupElement(n))

			for i := len(n.fields) - 1; i >= 0; i-- {
				stack = append(stack, n.fields[i])
			}
		}
	}

	return ret
}

func primitiveElement(t *PrimitiveType) *parquet.SchemaElement {
	rep := t.rep

	return &parquet.SchemaElement{
		Type:           parquet.TypePtr(t.physicalType),
		TypeLength:     copyInt32(t.typeLength),
		RepetitionType: &rep,
		Name:           t.name,
		ConvertedType:  t.convertedType,
		Scale:          copyInt32(t.scale),
		Precision:      copyInt32(t.precision),
		FieldID:        copyInt32(t.id),
		LogicalType:    t.logicalType,
	}
}

func groupElement(g *GroupType) *parquet.SchemaElement {
	rep := g.rep
	nc := int32(len(g.fields))

	return &parquet.SchemaElement{
		RepetitionType: &rep,
		Name:           g.name,
		NumChildren:    &nc,
		ConvertedType:  g.convertedType,
		FieldID:        copyInt32(g.id),
		LogicalType:    g.logicalType,
	}
}

// TypeFromSchemaElements rebuilds the type tree from its flat, depth first list of schema
// elements. The first element is the root of the tree.
func TypeFromSchemaElements(elements []*parquet.SchemaElement) (Type, error) {
	if len(elements) == 0 {
		return nil, errors.WithStack(errEmptySchema)
	}

	r := &elementReader{elements: elements}

	t, err := r.read(0)
	if err != nil {
		return nil, err
	}

	if r.idx != len(elements) {
		return nil, errors.WithFields(
			errors.New("schema has unused elements"),
			errors.Fields{
				"used": r.idx,
				"size": len(elements),
			})
	}

	return t, nil
}

type elementReader struct {
	elements []*parquet.SchemaElement
	idx      int
}

func (r *elementReader) read(depth int) (Type, error) {
	idx := r.idx

	if len(r.elements) <= idx {
		return nil, errors.WithFields(
			errors.New("schema index out of bound"),
			errors.Fields{
				"index": idx,
				"size":  len(r.elements),
			})
	}

	if depth > MaxNestingDepth {
		return nil, errors.WithFields(
			errors.WithStack(errNestingTooDeep),
			errors.Fields{
				"index": idx,
				"depth": depth,
			})
	}

	s := r.elements[idx]
	if s == nil {
		return nil, errors.WithFields(
			errors.New("schema element is nil"),
			errors.Fields{
				"index": idx,
			})
	}

	root := idx == 0

	if s.Name == "" && !root {
		return nil, errors.WithFields(
			errors.New("name in schema is empty"),
			errors.Fields{
				"index": idx,
			})
	}

	// the root doesn't need a repetition type
	rep := parquet.FieldRepetitionType_OPTIONAL
	if s.RepetitionType != nil {
		rep = *s.RepetitionType
	} else if !root {
		return nil, errors.WithFields(
			errors.New("field RepetitionType is nil"),
			errors.Fields{
				"index": idx,
				"name":  s.Name,
			})
	}

	params := &ColumnParameters{
		LogicalType:   s.LogicalType,
		ConvertedType: s.ConvertedType,
		TypeLength:    s.TypeLength,
		FieldID:       s.FieldID,
		Scale:         s.Scale,
		Precision:     s.Precision,
	}

	r.idx++ // move idx to the first child, or the next sibling

	if s.Type != nil {
		if s.GetNumChildren() != 0 {
			return nil, errors.WithFields(
				errors.New("field type is not nil for group"),
				errors.Fields{
					"index": idx,
					"name":  s.Name,
				})
		}

		return NewPrimitiveType(s.Name, rep, *s.Type, params), nil
	}

	if s.NumChildren == nil {
		return nil, errors.WithFields(
			errors.New("field NumChildren is invalid"),
			errors.Fields{
				"index": idx,
				"name":  s.Name,
			})
	}

	l := int(*s.NumChildren)

	if l < 0 {
		return nil, errors.WithFields(
			errors.New("field NumChildren is negative"),
			errors.Fields{
				"index":       idx,
				"numChildren": l,
			})
	}

	if len(r.elements) < r.idx+l {
		return nil, errors.WithFields(
			errors.New("not enough element in schema list"),
			errors.Fields{
				"index":       idx,
				"numChildren": l,
				"size":        len(r.elements),
			})
	}

	children := make([]Type, 0, l)

	for i := 0; i < l; i++ {
		child, err := r.read(depth + 1)
		if err != nil {
			return nil, err
		}

		children = append(children, child)
	}

	return NewGroupType(s.Name, rep, params, children...), nil
}
