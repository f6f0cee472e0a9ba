package schema

import (
	"github.com/hexbee-net/parquet-schema/parquet"
)

// ColumnParameters contains common parameters related to a column.
type ColumnParameters struct {
	LogicalType   *parquet.LogicalType
	ConvertedType *parquet.ConvertedType
	TypeLength    *int32
	FieldID       *int32
	Scale         *int32
	Precision     *int32
}

// FieldInfo holds the attributes shared by primitive and group types.
type FieldInfo struct {
	Name       string
	Repetition parquet.FieldRepetitionType
	ID         *int32
}

// Type is a node of a parquet type tree. It is either a *PrimitiveType or a *GroupType.
// Types are immutable once created and can be shared freely.
type Type interface {
	Name() string
	RepetitionType() parquet.FieldRepetitionType
	FieldInfo() FieldInfo
	// ID returns the field id, nil when none is set.
	ID() *int32
	IsPrimitive() bool
	LogicalType() *parquet.LogicalType
	ConvertedType() *parquet.ConvertedType

	typeNode()
}

type baseType struct {
	name          string
	rep           parquet.FieldRepetitionType
	id            *int32
	logicalType   *parquet.LogicalType
	convertedType *parquet.ConvertedType
}

func newBaseType(name string, rep parquet.FieldRepetitionType, params *ColumnParameters) baseType {
	b := baseType{
		name: name,
		rep:  rep,
	}

	if params != nil {
		b.id = copyInt32(params.FieldID)
		b.logicalType = params.LogicalType
		b.convertedType = params.ConvertedType
	}

	return b
}

func (b *baseType) typeNode() {}

func (b *baseType) Name() string {
	return b.name
}

func (b *baseType) RepetitionType() parquet.FieldRepetitionType {
	return b.rep
}

func (b *baseType) ID() *int32 {
	return copyInt32(b.id)
}

func (b *baseType) FieldInfo() FieldInfo {
	return FieldInfo{
		Name:       b.name,
		Repetition: b.rep,
		ID:         copyInt32(b.id),
	}
}

func (b *baseType) LogicalType() *parquet.LogicalType {
	return b.logicalType
}

func (b *baseType) ConvertedType() *parquet.ConvertedType {
	return b.convertedType
}

// PrimitiveType is a leaf of the type tree.
type PrimitiveType struct {
	baseType

	physicalType parquet.Type
	typeLength   *int32
	scale        *int32
	precision    *int32
}

// NewPrimitiveType creates a leaf type. TypeLength, Scale and Precision are taken from
// params when provided.
func NewPrimitiveType(name string, rep parquet.FieldRepetitionType, typ parquet.Type, params *ColumnParameters) *PrimitiveType {
	t := &PrimitiveType{
		baseType:     newBaseType(name, rep, params),
		physicalType: typ,
	}

	if params != nil {
		t.typeLength = copyInt32(params.TypeLength)
		t.scale = copyInt32(params.Scale)
		t.precision = copyInt32(params.Precision)
	}

	return t
}

func (t *PrimitiveType) IsPrimitive() bool {
	return true
}

// PhysicalType returns the parquet type the values are stored with.
func (t *PrimitiveType) PhysicalType() parquet.Type {
	return t.physicalType
}

// TypeLength returns the length of a FIXED_LEN_BYTE_ARRAY, nil when not set.
func (t *PrimitiveType) TypeLength() *int32 {
	return copyInt32(t.typeLength)
}

func (t *PrimitiveType) Scale() *int32 {
	return copyInt32(t.scale)
}

func (t *PrimitiveType) Precision() *int32 {
	return copyInt32(t.precision)
}

// Params returns the column parameters the type was created with.
func (t *PrimitiveType) Params() *ColumnParameters {
	return &ColumnParameters{
		LogicalType:   t.logicalType,
		ConvertedType: t.convertedType,
		TypeLength:    copyInt32(t.typeLength),
		FieldID:       copyInt32(t.id),
		Scale:         copyInt32(t.scale),
		Precision:     copyInt32(t.precision),
	}
}

// GroupType is an inner node of the type tree.
type GroupType struct {
	baseType

	fields []Type
}

// NewGroupType creates an inner node owning the provided children, in order.
// Only LogicalType, ConvertedType and FieldID are used from params.
func NewGroupType(name string, rep parquet.FieldRepetitionType, params *ColumnParameters, fields ...Type) *GroupType {
	g := &GroupType{
		baseType: newBaseType(name, rep, params),
	}

	if len(fields) > 0 {
		g.fields = make([]Type, len(fields))
		copy(g.fields, fields)
	}

	return g
}

func (g *GroupType) IsPrimitive() bool {
	return false
}

// Fields returns the group children.
func (g *GroupType) Fields() []Type {
	if g.fields == nil {
		return nil
	}

	ret := make([]Type, len(g.fields))
	copy(ret, g.fields)

	return ret
}

// NumFields returns the number of children.
func (g *GroupType) NumFields() int {
	return len(g.fields)
}

// Field returns the i-th child.
func (g *GroupType) Field(i int) Type {
	return g.fields[i]
}

// FieldByName returns the child with the given name, nil if there is none.
func (g *GroupType) FieldByName(name string) Type {
	for _, f := range g.fields {
		if f.Name() == name {
			return f
		}
	}

	return nil
}

func copyInt32(v *int32) *int32 {
	if v == nil {
		return nil
	}

	c := *v

	return &c
}
