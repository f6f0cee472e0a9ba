package parquet

import (
	"io"

	"github.com/apache/thrift/lib/go/thrift"
	"github.com/hexbee-net/errors"
)

// ThriftReader is implemented by every struct that can be decoded from a thrift protocol.
type ThriftReader interface {
	Read(thrift.TProtocol) error
}

// ThriftWriter is implemented by every struct that can be encoded to a thrift protocol.
type ThriftWriter interface {
	Write(thrift.TProtocol) error
}

// ReadThrift decodes tr from r using the compact protocol.
func ReadThrift(tr ThriftReader, r io.Reader) error {
	return tr.Read(newReadProtocol(r))
}

// readTransport reports the bytes left in readers that know their length
// (bytes.Reader, bytes.Buffer, strings.Reader), so the protocol rejects string
// and binary lengths larger than the input instead of allocating them.
type readTransport struct {
	*thrift.StreamTransport
}

func (t *readTransport) RemainingBytes() uint64 {
	if l, ok := t.Reader.(interface{ Len() int }); ok {
		return uint64(l.Len())
	}

	return t.StreamTransport.RemainingBytes()
}

func newReadProtocol(r io.Reader) thrift.TProtocol {
	// Make sure we are not using any kind of buffered reader here.
	// bufio.Reader "can" reads more data ahead of time, which is a problem on this library
	return thrift.NewTCompactProtocol(&readTransport{&thrift.StreamTransport{Reader: r}})
}

// WriteThrift encodes tr to w using the compact protocol.
func WriteThrift(tr ThriftWriter, w io.Writer) error {
	transport := &thrift.StreamTransport{Writer: w}
	proto := thrift.NewTCompactProtocol(transport)

	return tr.Write(proto)
}

// /////////////////////////////////////////////////////////////////////////////

// readStruct walks the fields of a struct and hands each one to fn.
// fn returns false for the fields it does not know; those are skipped.
func readStruct(p thrift.TProtocol, name string, fn func(id int16, typ thrift.TType) (bool, error)) error {
	if _, err := p.ReadStructBegin(); err != nil {
		return errors.Wrapf(err, "%s read struct begin error", name)
	}

	for {
		_, typ, id, err := p.ReadFieldBegin()
		if err != nil {
			return errors.WithFields(
				errors.Wrapf(err, "%s read field begin error", name),
				errors.Fields{
					"field": id,
				})
		}

		if typ == thrift.STOP {
			break
		}

		handled, err := fn(id, typ)
		if err != nil {
			return errors.WithFields(
				errors.Wrapf(err, "%s field read error", name),
				errors.Fields{
					"field": id,
				})
		}

		if !handled {
			if err := p.Skip(typ); err != nil {
				return errors.WithFields(
					errors.Wrapf(err, "%s field skip error", name),
					errors.Fields{
						"field": id,
					})
			}
		}

		if err := p.ReadFieldEnd(); err != nil {
			return errors.Wrapf(err, "%s read field end error", name)
		}
	}

	if err := p.ReadStructEnd(); err != nil {
		return errors.Wrapf(err, "%s read struct end error", name)
	}

	return nil
}

// maxListPrealloc bounds the capacity reserved from a list header. The declared size
// comes from the input; the list grows past it only as its elements are actually read.
const maxListPrealloc = 1024

func listCap(size int) int {
	if size > maxListPrealloc {
		return maxListPrealloc
	}

	return size
}

func readI32(p thrift.TProtocol) (*int32, error) {
	v, err := p.ReadI32()
	if err != nil {
		return nil, err
	}

	return &v, nil
}

type fieldWriter func(p thrift.TProtocol) error

func writeStruct(p thrift.TProtocol, name string, fields ...fieldWriter) error {
	if err := p.WriteStructBegin(name); err != nil {
		return errors.Wrapf(err, "%s write struct begin error", name)
	}

	for _, fn := range fields {
		if err := fn(p); err != nil {
			return errors.Wrapf(err, "%s write field error", name)
		}
	}

	if err := p.WriteFieldStop(); err != nil {
		return errors.Wrapf(err, "%s write field stop error", name)
	}

	if err := p.WriteStructEnd(); err != nil {
		return errors.Wrapf(err, "%s write struct end error", name)
	}

	return nil
}

func writeField(name string, typ thrift.TType, id int16, fn func(p thrift.TProtocol) error) fieldWriter {
	return func(p thrift.TProtocol) error {
		if err := p.WriteFieldBegin(name, typ, id); err != nil {
			return err
		}

		if err := fn(p); err != nil {
			return err
		}

		return p.WriteFieldEnd()
	}
}

func i32Field(name string, id int16, v *int32) fieldWriter {
	if v == nil {
		return skipField
	}

	return writeField(name, thrift.I32, id, func(p thrift.TProtocol) error {
		return p.WriteI32(*v)
	})
}

func i64Field(name string, id int16, v int64) fieldWriter {
	return writeField(name, thrift.I64, id, func(p thrift.TProtocol) error {
		return p.WriteI64(v)
	})
}

func boolField(name string, id int16, v bool) fieldWriter {
	return writeField(name, thrift.BOOL, id, func(p thrift.TProtocol) error {
		return p.WriteBool(v)
	})
}

func byteField(name string, id int16, v int8) fieldWriter {
	return writeField(name, thrift.BYTE, id, func(p thrift.TProtocol) error {
		return p.WriteByte(v)
	})
}

func stringField(name string, id int16, v string) fieldWriter {
	return writeField(name, thrift.STRING, id, func(p thrift.TProtocol) error {
		return p.WriteString(v)
	})
}

func optionalStringField(name string, id int16, v *string) fieldWriter {
	if v == nil {
		return skipField
	}

	return stringField(name, id, *v)
}

// structField writes a nested struct unless isNil is set.
func structField(name string, id int16, isNil bool, tw ThriftWriter) fieldWriter {
	if isNil {
		return skipField
	}

	return writeField(name, thrift.STRUCT, id, tw.Write)
}

func skipField(thrift.TProtocol) error {
	return nil
}

// emptyStruct is the wire shape of every parameterless logical type.
type emptyStruct struct {
	name string
}

func (e emptyStruct) Read(p thrift.TProtocol) error {
	return readStruct(p, e.name, func(int16, thrift.TType) (bool, error) {
		return false, nil
	})
}

func (e emptyStruct) Write(p thrift.TProtocol) error {
	return writeStruct(p, e.name)
}
