package schema

import (
	"math/bits"
	"strings"

	"github.com/hexbee-net/parquet-schema/parquet"
)

// Column is a leaf of the schema: a primitive type along with its position in the
// type tree and the level bookkeeping needed to encode and decode it.
type Column struct {
	index    int
	flatName string
	path     []string

	primitive *PrimitiveType

	maxR uint16
	maxD uint16

	// top level field containing the column, shared by all its leaves
	base Type
	// nearest enclosing group, nil for a top level primitive
	parent *GroupType
}

// Index returns the index of the column in schema, zero based.
func (c *Column) Index() int {
	return c.index
}

// Name returns the column name.
func (c *Column) Name() string {
	return c.primitive.Name()
}

// FlatName returns the name of the column and its parents in dotted notation.
func (c *Column) FlatName() string {
	return c.flatName
}

// Path returns the names of the column and its parents, from the top level field down.
func (c *Column) Path() []string {
	ret := make([]string, len(c.path))
	copy(ret, c.path)

	return ret
}

// PrimitiveType returns the leaf type of the column.
func (c *Column) PrimitiveType() *PrimitiveType {
	return c.primitive
}

// Type returns the parquet type of the values.
func (c *Column) Type() parquet.Type {
	return c.primitive.PhysicalType()
}

// RepetitionType returns the repetition type of the leaf itself.
func (c *Column) RepetitionType() parquet.FieldRepetitionType {
	return c.primitive.RepetitionType()
}

// MaxDefinitionLevel returns the maximum definition level for this column.
func (c *Column) MaxDefinitionLevel() uint16 {
	return c.maxD
}

// MaxRepetitionLevel returns the maximum repetition value for this column.
func (c *Column) MaxRepetitionLevel() uint16 {
	return c.maxR
}

// DefinitionLevelBitWidth returns the number of bits needed to encode a definition level.
func (c *Column) DefinitionLevelBitWidth() int {
	return bits.Len16(c.maxD)
}

// RepetitionLevelBitWidth returns the number of bits needed to encode a repetition level.
func (c *Column) RepetitionLevelBitWidth() int {
	return bits.Len16(c.maxR)
}

// BaseType returns the top level field the column belongs to.
// For a top level primitive this is the primitive itself.
func (c *Column) BaseType() Type {
	return c.base
}

// Parent returns the nearest group containing the column, nil for a top level primitive.
func (c *Column) Parent() *GroupType {
	return c.parent
}

// Element returns schema element definition of the column.
func (c *Column) Element() *parquet.SchemaElement {
	return primitiveElement(c.primitive)
}

func (c *Column) String() string {
	return c.flatName
}

func flatName(path []string) string {
	return strings.Join(path, ".")
}
