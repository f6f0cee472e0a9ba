package schema

import (
	"fmt"
	"strings"

	"github.com/hexbee-net/parquet-schema/parquet"
)

// SchemaDefinition represents a valid textual schema definition.
type SchemaDefinition struct {
	Root Type
}

// ParseSchemaDefinition parses a textual schema definition, either a whole message:
//
//	message m {
//	  required int64 id;
//	  optional group tags (LIST) {
//	    repeated binary element (STRING);
//	  }
//	}
//
// or a single field declaration.
func ParseSchemaDefinition(schemaText string) (*SchemaDefinition, error) {
	tokens, err := tokenize(schemaText)
	if err != nil {
		return nil, err
	}

	p := &schemaParser{tokens: tokens}

	root, err := p.parseDefinition()
	if err != nil {
		return nil, err
	}

	return &SchemaDefinition{Root: root}, nil
}

// String returns a textual representation of the schema definition. This textual representation
// adheres to the format accepted by the ParseSchemaDefinition function. A textual schema definition
// parsed by ParseSchemaDefinition and turned back into a string by this method repeatedly will
// always remain the same, save for differences in the emitted whitespaces.
//
// Names are printed as they are. A schema decoded from elements whose names are empty, or
// hold spaces or one of the {}();=, characters, prints to a text ParseSchemaDefinition rejects.
func (d *SchemaDefinition) String() string {
	if d == nil || d.Root == nil {
		return ""
	}

	b := &strings.Builder{}

	if g, ok := d.Root.(*GroupType); ok {
		fmt.Fprintf(b, "message %s {\n", g.name)
		printFields(b, g.fields, 1)
		b.WriteString("}\n")

		return b.String()
	}

	printField(b, d.Root, 0)

	return b.String()
}

func printFields(b *strings.Builder, fields []Type, indent int) {
	for _, f := range fields {
		printField(b, f, indent)
	}
}

func printField(b *strings.Builder, t Type, indent int) {
	b.WriteString(strings.Repeat("  ", indent))
	b.WriteString(strings.ToLower(t.RepetitionType().String()))
	b.WriteByte(' ')

	switch t := t.(type) {
	case *PrimitiveType:
		b.WriteString(physicalTypeName(t))
		b.WriteByte(' ')
		b.WriteString(t.name)
		printSuffix(b, &t.baseType, t.scale, t.precision)
		b.WriteString(";\n")

	case *GroupType:
		b.WriteString("group ")
		b.WriteString(t.name)
		printSuffix(b, &t.baseType, nil, nil)
		b.WriteString(" {\n")
		printFields(b, t.fields, indent+1)
		b.WriteString(strings.Repeat("  ", indent))
		b.WriteString("}\n")
	}
}

func physicalTypeName(t *PrimitiveType) string {
	name := strings.ToLower(t.physicalType.String())

	if t.physicalType == parquet.Type_FIXED_LEN_BYTE_ARRAY {
		l := int32(0)
		if t.typeLength != nil {
			l = *t.typeLength
		}

		return fmt.Sprintf("%s(%d)", name, l)
	}

	return name
}

func printSuffix(b *strings.Builder, t *baseType, scale, precision *int32) {
	if a := annotationString(t.logicalType, t.convertedType, scale, precision); a != "" {
		fmt.Fprintf(b, " (%s)", a)
	}

	if t.id != nil {
		fmt.Fprintf(b, " = %d", *t.id)
	}
}

func annotationString(l *parquet.LogicalType, c *parquet.ConvertedType, scale, precision *int32) string {
	if l != nil {
		if s := logicalTypeString(l); s != "" {
			return s
		}
	}

	if c == nil {
		return ""
	}

	if *c == parquet.ConvertedType_DECIMAL {
		var p, s int32
		if precision != nil {
			p = *precision
		}

		if scale != nil {
			s = *scale
		}

		return fmt.Sprintf("DECIMAL(%d,%d)", p, s)
	}

	return c.String()
}

func logicalTypeString(l *parquet.LogicalType) string {
	switch {
	case l.STRING != nil:
		return "STRING"
	case l.MAP != nil:
		return "MAP"
	case l.LIST != nil:
		return "LIST"
	case l.ENUM != nil:
		return "ENUM"
	case l.DECIMAL != nil:
		return fmt.Sprintf("DECIMAL(%d,%d)", l.DECIMAL.Precision, l.DECIMAL.Scale)
	case l.DATE != nil:
		return "DATE"
	case l.TIME != nil:
		return fmt.Sprintf("TIME(%s,%t)", timeUnitString(l.TIME.Unit), l.TIME.IsAdjustedToUTC)
	case l.TIMESTAMP != nil:
		return fmt.Sprintf("TIMESTAMP(%s,%t)", timeUnitString(l.TIMESTAMP.Unit), l.TIMESTAMP.IsAdjustedToUTC)
	case l.INTEGER != nil:
		return fmt.Sprintf("INTEGER(%d,%t)", l.INTEGER.BitWidth, l.INTEGER.IsSigned)
	case l.UNKNOWN != nil:
		return "UNKNOWN"
	case l.JSON != nil:
		return "JSON"
	case l.BSON != nil:
		return "BSON"
	case l.UUID != nil:
		return "UUID"
	case l.FLOAT16 != nil:
		return "FLOAT16"
	}

	return ""
}

func timeUnitString(u *parquet.TimeUnit) string {
	switch {
	case u == nil:
		return "MILLIS"
	case u.MICROS != nil:
		return "MICROS"
	case u.NANOS != nil:
		return "NANOS"
	}

	return "MILLIS"
}
