package parquet

import (
	"github.com/apache/thrift/lib/go/thrift"
	"github.com/hexbee-net/errors"
)

// KeyValue is a user-defined metadata entry.
type KeyValue struct {
	Key   string
	Value *string
}

func (kv *KeyValue) Read(p thrift.TProtocol) error {
	return readStruct(p, "KeyValue", func(id int16, typ thrift.TType) (bool, error) {
		if typ != thrift.STRING {
			return false, nil
		}

		switch id {
		case 1:
			v, err := p.ReadString()
			kv.Key = v

			return true, err
		case 2:
			v, err := p.ReadString()
			kv.Value = &v

			return true, err
		default:
			return false, nil
		}
	})
}

func (kv *KeyValue) Write(p thrift.TProtocol) error {
	return writeStruct(p, "KeyValue",
		stringField("key", 1, kv.Key),
		optionalStringField("value", 2, kv.Value),
	)
}

// FileMetaData is the footer of a parquet file.
// Only the fields describing the file schema are decoded; the row groups and the
// remaining fields are skipped.
type FileMetaData struct {
	Version          int32
	Schema           []*SchemaElement
	NumRows          int64
	KeyValueMetadata []*KeyValue
	CreatedBy        *string
}

func (m *FileMetaData) Read(p thrift.TProtocol) error {
	return readStruct(p, "FileMetaData", func(id int16, typ thrift.TType) (bool, error) {
		var err error

		switch {
		case id == 1 && typ == thrift.I32:
			m.Version, err = p.ReadI32()
		case id == 2 && typ == thrift.LIST:
			m.Schema, err = readSchemaList(p)
		case id == 3 && typ == thrift.I64:
			m.NumRows, err = p.ReadI64()
		case id == 5 && typ == thrift.LIST:
			m.KeyValueMetadata, err = readKeyValueList(p)
		case id == 6 && typ == thrift.STRING:
			var v string
			v, err = p.ReadString()
			m.CreatedBy = &v
		default:
			return false, nil
		}

		return true, err
	})
}

func (m *FileMetaData) Write(p thrift.TProtocol) error {
	fields := []fieldWriter{
		writeField("version", thrift.I32, 1, func(p thrift.TProtocol) error {
			return p.WriteI32(m.Version)
		}),
		writeField("schema", thrift.LIST, 2, func(p thrift.TProtocol) error {
			return writeSchemaList(p, m.Schema)
		}),
		i64Field("num_rows", 3, m.NumRows),
		// row_groups is required; this module never produces any.
		writeField("row_groups", thrift.LIST, 4, func(p thrift.TProtocol) error {
			if err := p.WriteListBegin(thrift.STRUCT, 0); err != nil {
				return err
			}

			return p.WriteListEnd()
		}),
	}

	if m.KeyValueMetadata != nil {
		fields = append(fields, writeField("key_value_metadata", thrift.LIST, 5, func(p thrift.TProtocol) error {
			return writeKeyValueList(p, m.KeyValueMetadata)
		}))
	}

	fields = append(fields, optionalStringField("created_by", 6, m.CreatedBy))

	return writeStruct(p, "FileMetaData", fields...)
}

func readKeyValueList(p thrift.TProtocol) ([]*KeyValue, error) {
	elemType, size, err := p.ReadListBegin()
	if err != nil {
		return nil, err
	}

	if elemType != thrift.STRUCT || size < 0 {
		return nil, errors.WithFields(
			errors.New("invalid key value list"),
			errors.Fields{
				"type": elemType.String(),
				"size": size,
			})
	}

	ret := make([]*KeyValue, 0, listCap(size))

	for i := 0; i < size; i++ {
		kv := &KeyValue{}
		if err := kv.Read(p); err != nil {
			return nil, err
		}

		ret = append(ret, kv)
	}

	return ret, p.ReadListEnd()
}

func writeKeyValueList(p thrift.TProtocol, kvs []*KeyValue) error {
	if err := p.WriteListBegin(thrift.STRUCT, len(kvs)); err != nil {
		return err
	}

	for _, kv := range kvs {
		if err := kv.Write(p); err != nil {
			return err
		}
	}

	return p.WriteListEnd()
}
