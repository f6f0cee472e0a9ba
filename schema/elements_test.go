package schema

import (
	"testing"

	"github.com/hexbee-net/errors"
	"github.com/hexbee-net/parquet-schema/parquet"
	"github.com/stretchr/testify/require"
	"github.com/tj/assert"
)

func groupElem(name string, rep *parquet.FieldRepetitionType, n int32) *parquet.SchemaElement {
	return &parquet.SchemaElement{
		Name:           name,
		RepetitionType: rep,
		NumChildren:    parquet.Int32Ptr(n),
	}
}

func leafElem(name string, rep parquet.FieldRepetitionType, typ parquet.Type) *parquet.SchemaElement {
	return &parquet.SchemaElement{
		Name:           name,
		RepetitionType: parquet.FieldRepetitionTypePtr(rep),
		Type:           parquet.TypePtr(typ),
	}
}

func TestToSchemaElements_Primitive(t *testing.T) {
	t.Parallel()

	p := NewPrimitiveType("d", optional, parquet.Type_FIXED_LEN_BYTE_ARRAY, &ColumnParameters{
		LogicalType:   &parquet.LogicalType{DECIMAL: &parquet.DecimalType{Scale: 2, Precision: 10}},
		ConvertedType: parquet.ConvertedTypePtr(parquet.ConvertedType_DECIMAL),
		TypeLength:    parquet.Int32Ptr(5),
		FieldID:       parquet.Int32Ptr(3),
		Scale:         parquet.Int32Ptr(2),
		Precision:     parquet.Int32Ptr(10),
	})

	elements := ToSchemaElements(p)
	require.Len(t, elements, 1)

	e := elements[0]
	assert.Equal(t, "d", e.Name)
	assert.Equal(t, parquet.Type_FIXED_LEN_BYTE_ARRAY, *e.Type)
	assert.Equal(t, optional, *e.RepetitionType)
	assert.Equal(t, int32(5), *e.TypeLength)
	assert.Equal(t, int32(3), *e.FieldID)
	assert.Equal(t, int32(2), *e.Scale)
	assert.Equal(t, int32(10), *e.Precision)
	assert.Equal(t, parquet.ConvertedType_DECIMAL, *e.ConvertedType)
	assert.Nil(t, e.NumChildren)

	// the element of a column is the element of its primitive
	c := New("m", []Type{p}).Column(0)
	assert.Equal(t, e, c.Element())
}

func TestTypeFromSchemaElements(t *testing.T) {
	t.Parallel()

	tree, err := TypeFromSchemaElements([]*parquet.SchemaElement{
		groupElem("root", nil, 2),
		groupElem("a", parquet.FieldRepetitionTypePtr(repeated), 1),
		leafElem("b", optional, parquet.Type_INT32),
		leafElem("c", required, parquet.Type_BOOLEAN),
	})
	require.NoError(t, err)

	root, ok := tree.(*GroupType)
	require.True(t, ok)

	assert.Equal(t, "root", root.Name())
	assert.Equal(t, optional, root.RepetitionType())
	require.Equal(t, 2, root.NumFields())

	a := root.Field(0).(*GroupType)
	assert.Equal(t, repeated, a.RepetitionType())
	assert.Equal(t, "b", a.Field(0).Name())
	assert.True(t, a.Field(0).IsPrimitive())
	assert.Equal(t, parquet.Type_BOOLEAN, root.FieldByName("c").(*PrimitiveType).PhysicalType())
	assert.Nil(t, root.FieldByName("d"))
}

func TestTypeFromSchemaElements_EmptyRoot(t *testing.T) {
	t.Parallel()

	tree, err := TypeFromSchemaElements([]*parquet.SchemaElement{
		groupElem("root", nil, 0),
	})
	require.NoError(t, err)

	assert.Equal(t, 0, tree.(*GroupType).NumFields())
}

func TestTypeFromSchemaElements_Errors(t *testing.T) {
	t.Parallel()

	rep := parquet.FieldRepetitionTypePtr(required)

	for _, tt := range []struct {
		name     string
		elements []*parquet.SchemaElement
		err      string
	}{
		{
			name: "empty",
			err:  errEmptySchema.Error(),
		},
		{
			name:     "nil element",
			elements: []*parquet.SchemaElement{groupElem("root", nil, 1), nil},
			err:      "schema element is nil",
		},
		{
			name:     "not enough elements",
			elements: []*parquet.SchemaElement{groupElem("root", nil, 3), leafElem("a", required, parquet.Type_INT32)},
			err:      "not enough element in schema list",
		},
		{
			name: "child of nested group",
			elements: []*parquet.SchemaElement{
				groupElem("root", nil, 1),
				groupElem("a", rep, 1),
			},
			err: "not enough element in schema list",
		},
		{
			name: "sibling out of bound",
			elements: []*parquet.SchemaElement{
				groupElem("root", nil, 2),
				groupElem("a", rep, 1),
				leafElem("b", required, parquet.Type_INT32),
			},
			err: "schema index out of bound",
		},
		{
			name: "empty name",
			elements: []*parquet.SchemaElement{
				groupElem("root", nil, 1),
				leafElem("", required, parquet.Type_INT32),
			},
			err: "name in schema is empty",
		},
		{
			name: "missing repetition",
			elements: []*parquet.SchemaElement{
				groupElem("root", nil, 1),
				{Name: "a", Type: parquet.TypePtr(parquet.Type_INT32)},
			},
			err: "field RepetitionType is nil",
		},
		{
			name: "missing num children",
			elements: []*parquet.SchemaElement{
				groupElem("root", nil, 1),
				{Name: "a", RepetitionType: rep},
			},
			err: "field NumChildren is invalid",
		},
		{
			name: "negative num children",
			elements: []*parquet.SchemaElement{
				groupElem("root", nil, -1),
			},
			err: "field NumChildren is negative",
		},
		{
			name: "typed group",
			elements: []*parquet.SchemaElement{
				groupElem("root", nil, 1),
				{Name: "a", RepetitionType: rep, Type: parquet.TypePtr(parquet.Type_INT32), NumChildren: parquet.Int32Ptr(1)},
				leafElem("b", required, parquet.Type_INT32),
			},
			err: "field type is not nil for group",
		},
		{
			name: "unused elements",
			elements: []*parquet.SchemaElement{
				groupElem("root", nil, 1),
				leafElem("a", required, parquet.Type_INT32),
				leafElem("b", required, parquet.Type_INT32),
			},
			err: "schema has unused elements",
		},
	} {
		tree, err := TypeFromSchemaElements(tt.elements)

		assert.Nil(t, tree, tt.name)
		assert.EqualError(t, errors.Cause(err), tt.err, tt.name)
	}
}

func TestTypeFromSchemaElements_TooDeep(t *testing.T) {
	t.Parallel()

	rep := parquet.FieldRepetitionTypePtr(required)

	elements := []*parquet.SchemaElement{groupElem("root", nil, 1)}
	for i := 0; i < MaxNestingDepth+1; i++ {
		elements = append(elements, groupElem("g", rep, 1))
	}

	elements = append(elements, leafElem("leaf", required, parquet.Type_INT32))

	_, err := TypeFromSchemaElements(elements)
	assert.EqualError(t, errors.Cause(err), errNestingTooDeep.Error())
}

func TestSchemaElements_RoundTrip(t *testing.T) {
	t.Parallel()

	root := NewGroupType("m", optional, nil, testFields()...)

	tree, err := TypeFromSchemaElements(ToSchemaElements(root))
	require.NoError(t, err)

	assert.Equal(t, Type(root), tree)
}
