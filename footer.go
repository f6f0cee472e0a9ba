package parquet

import (
	"bytes"
	"encoding/binary"
	"io"
	"sort"

	"github.com/hexbee-net/errors"
	"github.com/hexbee-net/parquet-schema/parquet"
	"github.com/hexbee-net/parquet-schema/schema"
)

const (
	magic         = "PAR1"
	magicLen      = len(magic)
	footerLenSize = 4
	footerLen     = int64(footerLenSize + magicLen)
)

const (
	errInvalidHeader       = errors.Error("invalid parquet file header")
	errInvalidFooter       = errors.Error("invalid parquet file footer")
	errInvalidFooterLength = errors.Error("invalid footer length")
	errNoSchema            = errors.Error("no schema element found")
)

// ReadFileMetaData reads the footer of the parquet file held by r.
func ReadFileMetaData(r io.ReadSeeker) (*parquet.FileMetaData, error) {
	buf := make([]byte, magicLen)

	// read and validate magic header
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "failed to seek to file magic header")
	}

	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, errors.Wrap(err, "failed to read file magic header")
	}

	if !bytes.Equal(buf, []byte(magic)) {
		return nil, errors.WithStack(errInvalidHeader)
	}

	// read and validate footer
	end, err := r.Seek(int64(-magicLen), io.SeekEnd)
	if err != nil {
		return nil, errors.Wrap(err, "failed to seek to file magic footer")
	}

	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, errors.Wrap(err, "failed to read file magic footer")
	}

	if !bytes.Equal(buf, []byte(magic)) {
		return nil, errors.WithStack(errInvalidFooter)
	}

	// read footer length
	var fl int32

	if _, err := r.Seek(-footerLen, io.SeekEnd); err != nil {
		return nil, errors.Wrap(err, "failed to seek to footer length")
	}

	if err := binary.Read(r, binary.LittleEndian, &fl); err != nil {
		return nil, errors.Wrap(err, "failed to read footer length")
	}

	// the metadata must fit between the header and the footer length
	if fl <= 0 || int64(fl) > end-int64(footerLenSize)-int64(magicLen) {
		return nil, errors.WithFields(
			errors.WithStack(errInvalidFooterLength),
			errors.Fields{
				"length": fl,
			})
	}

	// read file metadata
	meta := &parquet.FileMetaData{}

	if _, err := r.Seek(-footerLen-int64(fl), io.SeekEnd); err != nil {
		return nil, errors.Wrap(err, "failed to seek to file meta data")
	}

	data := make([]byte, fl)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, errors.Wrap(err, "failed to read file meta data")
	}

	if err := parquet.ReadThrift(meta, bytes.NewReader(data)); err != nil {
		return nil, errors.Wrap(err, "failed to read file meta data")
	}

	return meta, nil
}

// ReadSchema reads the schema of the parquet file held by r.
func ReadSchema(r io.ReadSeeker) (*schema.Schema, error) {
	meta, err := ReadFileMetaData(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read file meta data")
	}

	return readFileSchema(meta)
}

func readFileSchema(meta *parquet.FileMetaData) (*schema.Schema, error) {
	if len(meta.Schema) < 1 {
		return nil, errors.WithStack(errNoSchema)
	}

	return schema.LoadSchema(meta.Schema)
}

// WriteFooter writes the file metadata followed by its length and the magic footer.
func WriteFooter(w io.Writer, meta *parquet.FileMetaData) error {
	buf := &bytes.Buffer{}

	if err := parquet.WriteThrift(meta, buf); err != nil {
		return errors.Wrap(err, "failed to write file meta data")
	}

	if err := binary.Write(buf, binary.LittleEndian, int32(buf.Len())); err != nil {
		return errors.Wrap(err, "failed to write footer length")
	}

	buf.WriteString(magic)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return errors.Wrap(err, "failed to write footer")
	}

	return nil
}

// NewFileMetaData returns the metadata describing a file with the provided schema.
func NewFileMetaData(s *schema.Schema, numRows int64, kv map[string]string) *parquet.FileMetaData {
	meta := &parquet.FileMetaData{
		Version: 1,
		Schema:  s.SchemaElements(),
		NumRows: numRows,
	}

	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		v := kv[k]
		meta.KeyValueMetadata = append(meta.KeyValueMetadata, &parquet.KeyValue{Key: k, Value: &v})
	}

	return meta
}

// MetaData returns a map of metadata key-value pairs stored in the file metadata.
func MetaData(meta *parquet.FileMetaData) map[string]string {
	data := make(map[string]string)

	for _, kv := range meta.KeyValueMetadata {
		if kv.Value != nil {
			data[kv.Key] = *kv.Value
		}
	}

	return data
}
