package schema

import (
	"bytes"
	"strings"

	"github.com/hexbee-net/errors"
	"github.com/hexbee-net/parquet-schema/parquet"
)

// ErrNotGroup is returned when the root of a decoded schema is not a group.
const ErrNotGroup = errors.Error("the parquet schema MUST be a group type")

// Schema encapsulates the top level fields of a parquet schema ("message" type)
// along with the columns for all its primitive fields, in depth first order.
//
// A Schema is immutable and safe for concurrent use.
type Schema struct {
	name   string
	fields []Type

	// built from fields, in depth first order
	leaves []*Column
}

// New creates a schema from its name and top level fields.
//
// Levels are kept as uint16: a leaf may have at most 65535 optional or repeated
// ancestors, itself included. The decoders stop far earlier, at MaxNestingDepth;
// trees built by hand past that limit get wrapped levels.
func New(name string, fields []Type) *Schema {
	s := &Schema{
		name: name,
	}

	if len(fields) > 0 {
		s.fields = make([]Type, len(fields))
		copy(s.fields, fields)
	}

	s.leaves = buildLeaves(s.fields)

	return s
}

// LoadSchema creates a schema from its flat list of schema elements,
// as found in the file metadata.
func LoadSchema(elements []*parquet.SchemaElement) (*Schema, error) {
	t, err := TypeFromSchemaElements(elements)
	if err != nil {
		return nil, err
	}

	return fromType(t)
}

// LoadSchemaDefinition creates a schema from its textual definition.
func LoadSchemaDefinition(schemaText string) (*Schema, error) {
	def, err := ParseSchemaDefinition(schemaText)
	if err != nil {
		return nil, err
	}

	return fromType(def.Root)
}

// LoadSchemaBinary creates a schema from a list of schema elements encoded with the
// thrift compact protocol, as produced by MarshalBinary.
func LoadSchemaBinary(data []byte) (*Schema, error) {
	elements, err := parquet.ReadSchemaElements(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	return LoadSchema(elements)
}

func fromType(t Type) (*Schema, error) {
	g, ok := t.(*GroupType)
	if !ok {
		return nil, errors.WithFields(
			errors.WithStack(ErrNotGroup),
			errors.Fields{
				"name": t.Name(),
			})
	}

	return New(g.name, g.fields), nil
}

// Name returns the schema name.
func (s *Schema) Name() string {
	return s.name
}

// Fields returns the top level fields.
func (s *Schema) Fields() []Type {
	ret := make([]Type, len(s.fields))
	copy(ret, s.fields)

	return ret
}

// Columns returns the leaves of the schema in depth first order.
// Nested fields produce as many columns as they have primitive descendants.
func (s *Schema) Columns() []*Column {
	ret := make([]*Column, len(s.leaves))
	copy(ret, s.leaves)

	return ret
}

// Leaves is an alias of Columns.
func (s *Schema) Leaves() []*Column {
	return s.Columns()
}

// NumColumns returns the number of leaves.
func (s *Schema) NumColumns() int {
	return len(s.leaves)
}

// Column returns the i-th leaf.
func (s *Schema) Column(i int) *Column {
	return s.leaves[i]
}

// GetColumnByName returns the leaf with the provided dotted name, nil if there is none.
func (s *Schema) GetColumnByName(path string) *Column {
	for _, c := range s.leaves {
		if c.flatName == path {
			return c
		}
	}

	return nil
}

// SelectColumns returns the leaves matching one of the provided dotted names.
// A name selects the leaf with that exact name and every leaf under it.
// Without names, all the leaves are selected.
func (s *Schema) SelectColumns(selected ...string) []*Column {
	if len(selected) == 0 {
		return s.Columns()
	}

	var ret []*Column

	for _, c := range s.leaves {
		if isSelected(c.flatName, selected) {
			ret = append(ret, c)
		}
	}

	return ret
}

func isSelected(colPath string, selected []string) bool {
	for _, pattern := range selected {
		if pattern == colPath {
			return true
		}

		if strings.HasPrefix(colPath, pattern+".") {
			return true
		}
	}

	return false
}

// Root returns the schema as a single group, the way it is stored in a file.
func (s *Schema) Root() *GroupType {
	// OPTIONAL, without id nor annotation, is what the existing readers expect.
	return NewGroupType(s.name, parquet.FieldRepetitionType_OPTIONAL, nil, s.fields...)
}

// SchemaElements returns the flat list of schema elements of the schema, root first.
func (s *Schema) SchemaElements() []*parquet.SchemaElement {
	return ToSchemaElements(s.Root())
}

// MarshalBinary encodes the schema elements with the thrift compact protocol.
func (s *Schema) MarshalBinary() ([]byte, error) {
	buf := &bytes.Buffer{}

	if err := parquet.WriteSchemaElements(buf, s.SchemaElements()); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// SchemaDefinition returns the textual definition of the schema.
func (s *Schema) SchemaDefinition() *SchemaDefinition {
	return &SchemaDefinition{Root: s.Root()}
}

// String returns the textual definition of the schema, see SchemaDefinition.String for
// the names it can round trip.
func (s *Schema) String() string {
	return s.SchemaDefinition().String()
}
