package parquet

import (
	"io"

	"github.com/apache/thrift/lib/go/thrift"
	"github.com/hexbee-net/errors"
)

const errMissingName = errors.Error("required field Name is not set")

// SchemaElement represents an element inside a schema definition.
//  - if it is a group (inner node) then type is undefined and num_children is defined
//  - if it is a primitive type (leaf) then type is defined and num_children is undefined
// The nodes are listed in depth first traversal order.
type SchemaElement struct {
	Type           *Type
	TypeLength     *int32
	RepetitionType *FieldRepetitionType
	Name           string
	NumChildren    *int32
	ConvertedType  *ConvertedType
	Scale          *int32
	Precision      *int32
	FieldID        *int32
	LogicalType    *LogicalType
}

func (e *SchemaElement) GetName() string {
	return e.Name
}

// GetRepetitionType returns the repetition type, REQUIRED when it's not set.
func (e *SchemaElement) GetRepetitionType() FieldRepetitionType {
	if e.RepetitionType == nil {
		return FieldRepetitionType_REQUIRED
	}

	return *e.RepetitionType
}

func (e *SchemaElement) GetNumChildren() int32 {
	if e.NumChildren == nil {
		return 0
	}

	return *e.NumChildren
}

func (e *SchemaElement) IsSetType() bool {
	return e.Type != nil
}

func (e *SchemaElement) IsSetNumChildren() bool {
	return e.NumChildren != nil
}

func (e *SchemaElement) Read(p thrift.TProtocol) error {
	nameSet := false

	err := readStruct(p, "SchemaElement", func(id int16, typ thrift.TType) (bool, error) {
		if id == 4 {
			if typ != thrift.STRING {
				return false, nil
			}

			v, err := p.ReadString()
			e.Name = v
			nameSet = true

			return true, err
		}

		if id == 10 {
			if typ != thrift.STRUCT {
				return false, nil
			}

			e.LogicalType = &LogicalType{}

			return true, e.LogicalType.Read(p)
		}

		if typ != thrift.I32 {
			return false, nil
		}

		v, err := readI32(p)
		if err != nil {
			return true, err
		}

		switch id {
		case 1:
			e.Type = TypePtr(Type(*v))
		case 2:
			e.TypeLength = v
		case 3:
			e.RepetitionType = FieldRepetitionTypePtr(FieldRepetitionType(*v))
		case 5:
			e.NumChildren = v
		case 6:
			e.ConvertedType = ConvertedTypePtr(ConvertedType(*v))
		case 7:
			e.Scale = v
		case 8:
			e.Precision = v
		case 9:
			e.FieldID = v
		}

		return true, nil
	})
	if err != nil {
		return err
	}

	if !nameSet {
		return errors.WithStack(errMissingName)
	}

	return nil
}

func (e *SchemaElement) Write(p thrift.TProtocol) error {
	return writeStruct(p, "SchemaElement",
		i32Field("type", 1, (*int32)(e.Type)),
		i32Field("type_length", 2, e.TypeLength),
		i32Field("repetition_type", 3, (*int32)(e.RepetitionType)),
		stringField("name", 4, e.Name),
		i32Field("num_children", 5, e.NumChildren),
		i32Field("converted_type", 6, (*int32)(e.ConvertedType)),
		i32Field("scale", 7, e.Scale),
		i32Field("precision", 8, e.Precision),
		i32Field("field_id", 9, e.FieldID),
		structField("logicalType", 10, e.LogicalType == nil, e.LogicalType),
	)
}

// /////////////////////////////////////////////////////////////////////////////

// readSchemaList reads a list<SchemaElement> from the protocol.
func readSchemaList(p thrift.TProtocol) ([]*SchemaElement, error) {
	elemType, size, err := p.ReadListBegin()
	if err != nil {
		return nil, errors.Wrap(err, "error reading schema list begin")
	}

	if elemType != thrift.STRUCT {
		return nil, errors.WithFields(
			errors.New("unexpected schema list element type"),
			errors.Fields{
				"type": elemType.String(),
			})
	}

	if size < 0 {
		return nil, errors.WithFields(
			errors.New("invalid schema list size"),
			errors.Fields{
				"size": size,
			})
	}

	elements := make([]*SchemaElement, 0, listCap(size))

	for i := 0; i < size; i++ {
		elem := &SchemaElement{}
		if err := elem.Read(p); err != nil {
			return nil, errors.WithFields(
				errors.Wrap(err, "error reading schema element"),
				errors.Fields{
					"index": i,
				})
		}

		elements = append(elements, elem)
	}

	if err := p.ReadListEnd(); err != nil {
		return nil, errors.Wrap(err, "error reading schema list end")
	}

	return elements, nil
}

func writeSchemaList(p thrift.TProtocol, elements []*SchemaElement) error {
	if err := p.WriteListBegin(thrift.STRUCT, len(elements)); err != nil {
		return errors.Wrap(err, "error writing schema list begin")
	}

	for i, elem := range elements {
		if err := elem.Write(p); err != nil {
			return errors.WithFields(
				errors.Wrap(err, "error writing schema element"),
				errors.Fields{
					"index": i,
				})
		}
	}

	return p.WriteListEnd()
}

// ReadSchemaElements decodes a bare list of schema elements encoded with the compact protocol.
func ReadSchemaElements(r io.Reader) ([]*SchemaElement, error) {
	return readSchemaList(newReadProtocol(r))
}

// WriteSchemaElements encodes a list of schema elements with the compact protocol.
func WriteSchemaElements(w io.Writer, elements []*SchemaElement) error {
	transport := &thrift.StreamTransport{Writer: w}

	return writeSchemaList(thrift.NewTCompactProtocol(transport), elements)
}
