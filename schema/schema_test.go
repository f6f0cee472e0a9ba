package schema

import (
	"testing"

	"github.com/hexbee-net/errors"
	"github.com/hexbee-net/parquet-schema/parquet"
	"github.com/stretchr/testify/require"
	"github.com/tj/assert"
)

var (
	required = parquet.FieldRepetitionType_REQUIRED
	optional = parquet.FieldRepetitionType_OPTIONAL
	repeated = parquet.FieldRepetitionType_REPEATED
)

func stringParams() *ColumnParameters {
	return &ColumnParameters{
		LogicalType:   &parquet.LogicalType{STRING: &parquet.StringType{}},
		ConvertedType: parquet.ConvertedTypePtr(parquet.ConvertedType_UTF8),
	}
}

// testFields describes:
//
//	message m {
//	  required int64 id;
//	  optional group name {
//	    required binary first (STRING);
//	    optional binary last (STRING);
//	  }
//	  repeated group links {
//	    repeated int64 backward;
//	    optional group forward (LIST) {
//	      repeated group list {
//	        optional int64 element;
//	      }
//	    }
//	  }
//	  optional fixed_len_byte_array(16) uuid (UUID) = 7;
//	}
func testFields() []Type {
	return []Type{
		NewPrimitiveType("id", required, parquet.Type_INT64, nil),
		NewGroupType("name", optional, nil,
			NewPrimitiveType("first", required, parquet.Type_BYTE_ARRAY, stringParams()),
			NewPrimitiveType("last", optional, parquet.Type_BYTE_ARRAY, stringParams()),
		),
		NewGroupType("links", repeated, nil,
			NewPrimitiveType("backward", repeated, parquet.Type_INT64, nil),
			NewGroupType("forward", optional,
				&ColumnParameters{
					LogicalType:   &parquet.LogicalType{LIST: &parquet.ListType{}},
					ConvertedType: parquet.ConvertedTypePtr(parquet.ConvertedType_LIST),
				},
				NewGroupType("list", repeated, nil,
					NewPrimitiveType("element", optional, parquet.Type_INT64, nil),
				),
			),
		),
		NewPrimitiveType("uuid", optional, parquet.Type_FIXED_LEN_BYTE_ARRAY, &ColumnParameters{
			LogicalType: &parquet.LogicalType{UUID: &parquet.UUIDType{}},
			TypeLength:  parquet.Int32Ptr(16),
			FieldID:     parquet.Int32Ptr(7),
		}),
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	s := New("m", testFields())

	expected := []struct {
		path []string
		maxD uint16
		maxR uint16
	}{
		{[]string{"id"}, 0, 0},
		{[]string{"name", "first"}, 1, 0},
		{[]string{"name", "last"}, 2, 0},
		{[]string{"links", "backward"}, 2, 2},
		{[]string{"links", "forward", "list", "element"}, 4, 2},
		{[]string{"uuid"}, 1, 0},
	}

	require.Equal(t, len(expected), s.NumColumns())

	for i, c := range s.Columns() {
		assert.Equal(t, i, c.Index())
		assert.Equal(t, expected[i].path, c.Path())
		assert.Equal(t, expected[i].maxD, c.MaxDefinitionLevel(), c.FlatName())
		assert.Equal(t, expected[i].maxR, c.MaxRepetitionLevel(), c.FlatName())
	}

	assert.Equal(t, "m", s.Name())
	assert.Equal(t, testFields(), s.Fields())
}

func TestNew_ExampleOptionalGroup(t *testing.T) {
	t.Parallel()

	s := New("schema", []Type{
		NewGroupType("a", optional, nil,
			NewPrimitiveType("b", required, parquet.Type_INT32, nil),
		),
	})

	require.Len(t, s.Columns(), 1)

	c := s.Column(0)
	assert.Equal(t, []string{"a", "b"}, c.Path())
	assert.Equal(t, uint16(1), c.MaxDefinitionLevel())
	assert.Equal(t, uint16(0), c.MaxRepetitionLevel())
	assert.Equal(t, parquet.Type_INT32, c.Type())
}

func TestNew_ExampleRepeatedGroup(t *testing.T) {
	t.Parallel()

	s := New("schema", []Type{
		NewGroupType("a", repeated, nil,
			NewGroupType("b", optional, nil,
				NewPrimitiveType("c", required, parquet.Type_INT64, nil),
			),
		),
	})

	require.Len(t, s.Columns(), 1)

	c := s.Column(0)
	assert.Equal(t, []string{"a", "b", "c"}, c.Path())
	assert.Equal(t, "a.b.c", c.FlatName())
	assert.Equal(t, uint16(2), c.MaxDefinitionLevel())
	assert.Equal(t, uint16(1), c.MaxRepetitionLevel())
}

func TestNew_Empty(t *testing.T) {
	t.Parallel()

	s := New("empty", nil)

	assert.Equal(t, "empty", s.Name())
	assert.Empty(t, s.Fields())
	assert.Empty(t, s.Columns())
	assert.Equal(t, 0, s.NumColumns())
}

func TestNew_TopLevelPrimitive(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		rep  parquet.FieldRepetitionType
		maxD uint16
		maxR uint16
	}{
		{required, 0, 0},
		{optional, 1, 0},
		{repeated, 1, 1},
	} {
		p := NewPrimitiveType("v", tt.rep, parquet.Type_DOUBLE, nil)
		s := New("m", []Type{p})

		require.Equal(t, 1, s.NumColumns())

		c := s.Column(0)
		assert.Equal(t, tt.maxD, c.MaxDefinitionLevel(), tt.rep.String())
		assert.Equal(t, tt.maxR, c.MaxRepetitionLevel(), tt.rep.String())
		assert.Equal(t, []string{"v"}, c.Path())
		assert.Equal(t, Type(p), c.BaseType())
		assert.Nil(t, c.Parent())
	}
}

func TestNew_DoesNotKeepCallerSlice(t *testing.T) {
	t.Parallel()

	fields := testFields()
	s := New("m", fields)

	fields[0] = NewPrimitiveType("other", optional, parquet.Type_BOOLEAN, nil)

	assert.Equal(t, "id", s.Fields()[0].Name())
	assert.Equal(t, "id", s.Column(0).Name())

	path := s.Column(1).Path()
	path[0] = "changed"

	assert.Equal(t, []string{"name", "first"}, s.Column(1).Path())
}

func TestNew_SharedContext(t *testing.T) {
	t.Parallel()

	fields := testFields()
	s := New("m", fields)

	links := s.GetColumnByName("links.backward")
	element := s.GetColumnByName("links.forward.list.element")

	require.NotNil(t, links)
	require.NotNil(t, element)

	// leaves of the same top level field share the same node
	assert.True(t, links.BaseType() == fields[2])
	assert.True(t, element.BaseType() == fields[2])

	assert.True(t, links.Parent() == fields[2])
	assert.Equal(t, "list", element.Parent().Name())

	first := s.GetColumnByName("name.first")
	last := s.GetColumnByName("name.last")
	assert.True(t, first.Parent() == last.Parent())
}

func TestNew_LevelsMatchAncestors(t *testing.T) {
	t.Parallel()

	fields := testFields()
	s := New("m", fields)

	var expected []*Column

	// reference implementation: recursive, counting ancestors
	var walk func(node Type, path []string, ancestors []Type)
	walk = func(node Type, path []string, ancestors []Type) {
		path = append(append([]string{}, path...), node.Name())
		ancestors = append(append([]Type{}, ancestors...), node)

		if p, ok := node.(*PrimitiveType); ok {
			c := &Column{path: path, primitive: p}
			for _, a := range ancestors {
				switch a.RepetitionType() {
				case optional:
					c.maxD++
				case repeated:
					c.maxD++
					c.maxR++
				}
			}

			expected = append(expected, c)

			return
		}

		for _, f := range node.(*GroupType).Fields() {
			walk(f, path, ancestors)
		}
	}

	for _, f := range fields {
		walk(f, nil, nil)
	}

	require.Len(t, s.Columns(), len(expected))

	for i, c := range s.Columns() {
		assert.Equal(t, expected[i].path, c.Path())
		assert.True(t, expected[i].primitive == c.PrimitiveType())
		assert.Equal(t, expected[i].maxD, c.MaxDefinitionLevel())
		assert.Equal(t, expected[i].maxR, c.MaxRepetitionLevel())
	}
}

func TestNew_AddingAncestors(t *testing.T) {
	t.Parallel()

	leaf := func() Type { return NewPrimitiveType("x", optional, parquet.Type_INT32, nil) }

	base := New("m", []Type{NewGroupType("a", required, nil, leaf())}).Column(0)
	withOptional := New("m", []Type{NewGroupType("a", required, nil, NewGroupType("o", optional, nil, leaf()))}).Column(0)
	withRepeated := New("m", []Type{NewGroupType("a", required, nil, NewGroupType("r", repeated, nil, leaf()))}).Column(0)

	assert.Equal(t, base.MaxDefinitionLevel()+1, withOptional.MaxDefinitionLevel())
	assert.Equal(t, base.MaxRepetitionLevel(), withOptional.MaxRepetitionLevel())

	assert.Equal(t, base.MaxDefinitionLevel()+1, withRepeated.MaxDefinitionLevel())
	assert.Equal(t, base.MaxRepetitionLevel()+1, withRepeated.MaxRepetitionLevel())
}

func TestNew_DeepNesting(t *testing.T) {
	t.Parallel()

	const depth = 1000

	var node Type = NewPrimitiveType("leaf", required, parquet.Type_INT32, nil)
	for i := 0; i < depth; i++ {
		node = NewGroupType("g", optional, nil, node)
	}

	s := New("m", []Type{node})

	require.Equal(t, 1, s.NumColumns())
	assert.Equal(t, uint16(depth), s.Column(0).MaxDefinitionLevel())
	assert.Len(t, s.Column(0).Path(), depth+1)
}

func TestSchema_GetColumnByName(t *testing.T) {
	t.Parallel()

	s := New("m", testFields())

	c := s.GetColumnByName("name.last")
	require.NotNil(t, c)
	assert.Equal(t, 2, c.Index())
	assert.Equal(t, "last", c.Name())
	assert.Equal(t, optional, c.RepetitionType())

	assert.Nil(t, s.GetColumnByName("name"))
	assert.Nil(t, s.GetColumnByName("missing"))
}

func TestSchema_SelectColumns(t *testing.T) {
	t.Parallel()

	s := New("m", testFields())

	names := func(cols []*Column) []string {
		var ret []string
		for _, c := range cols {
			ret = append(ret, c.FlatName())
		}

		return ret
	}

	assert.Len(t, s.SelectColumns(), 6)
	assert.Equal(t, []string{"name.first", "name.last"}, names(s.SelectColumns("name")))
	assert.Equal(t, []string{"id", "links.forward.list.element"}, names(s.SelectColumns("id", "links.forward")))
	assert.Empty(t, s.SelectColumns("nam"))
}

func TestSchema_SchemaElements(t *testing.T) {
	t.Parallel()

	elements := New("m", testFields()).SchemaElements()

	require.Len(t, elements, 11)

	root := elements[0]
	assert.Equal(t, "m", root.Name)
	assert.Equal(t, optional, root.GetRepetitionType())
	assert.Equal(t, int32(4), root.GetNumChildren())
	assert.Nil(t, root.Type)
	assert.Nil(t, root.FieldID)
	assert.Nil(t, root.LogicalType)
	assert.Nil(t, root.ConvertedType)

	var order []string
	for _, e := range elements {
		order = append(order, e.Name)
	}

	assert.Equal(t, []string{"m", "id", "name", "first", "last", "links", "backward", "forward", "list", "element", "uuid"}, order)
}

func TestSchema_RoundTrip(t *testing.T) {
	t.Parallel()

	for name, fields := range map[string][]Type{
		"nested": testFields(),
		"empty":  nil,
	} {
		s := New(name, fields)

		loaded, err := LoadSchema(s.SchemaElements())
		require.NoError(t, err, name)
		assert.Equal(t, s, loaded, name)

		data, err := s.MarshalBinary()
		require.NoError(t, err, name)

		decoded, err := LoadSchemaBinary(data)
		require.NoError(t, err, name)
		assert.Equal(t, s, decoded, name)
	}
}

func TestLoadSchema_NotGroup(t *testing.T) {
	t.Parallel()

	elements := []*parquet.SchemaElement{
		{
			Type:           parquet.TypePtr(parquet.Type_INT32),
			RepetitionType: parquet.FieldRepetitionTypePtr(required),
			Name:           "a",
		},
	}

	s, err := LoadSchema(elements)

	assert.Nil(t, s)
	assert.EqualError(t, errors.Cause(err), ErrNotGroup.Error())
}

func TestLoadSchema_CodecError(t *testing.T) {
	t.Parallel()

	s, err := LoadSchema(nil)

	assert.Nil(t, s)
	assert.EqualError(t, errors.Cause(err), errEmptySchema.Error())
}

func TestLoadSchemaBinary_Malformed(t *testing.T) {
	t.Parallel()

	s, err := LoadSchemaBinary([]byte{0x1c, 0x15})

	assert.Nil(t, s)
	assert.Error(t, err)

	// list header declaring 2^31-1 elements
	s, err = LoadSchemaBinary([]byte{0xFC, 0xFF, 0xFF, 0xFF, 0xFF, 0x07})

	assert.Nil(t, s)
	assert.Error(t, err)
}

func TestLoadSchemaDefinition(t *testing.T) {
	t.Parallel()

	s, err := LoadSchemaDefinition(`
		message m {
		  optional group a {
		    required int32 b;
		  }
		}`)
	require.NoError(t, err)

	assert.Equal(t, "m", s.Name())
	require.Equal(t, 1, s.NumColumns())
	assert.Equal(t, "a.b", s.Column(0).FlatName())
	assert.Equal(t, uint16(1), s.Column(0).MaxDefinitionLevel())
}

func TestLoadSchemaDefinition_NotGroup(t *testing.T) {
	t.Parallel()

	s, err := LoadSchemaDefinition("required int32 a;")

	assert.Nil(t, s)
	assert.EqualError(t, errors.Cause(err), ErrNotGroup.Error())
}

func TestLoadSchemaDefinition_SyntaxError(t *testing.T) {
	t.Parallel()

	s, err := LoadSchemaDefinition("message m { required int32 a }")

	assert.Nil(t, s)
	assert.EqualError(t, errors.Cause(err), errSyntax.Error())
}

func TestSchema_String(t *testing.T) {
	t.Parallel()

	s := New("m", testFields())

	loaded, err := LoadSchemaDefinition(s.String())
	require.NoError(t, err)

	assert.Equal(t, s.String(), loaded.String())
	assert.Equal(t, s.NumColumns(), loaded.NumColumns())
}
