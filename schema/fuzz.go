// +build gofuzz

package schema

import (
	"bytes"

	"github.com/hexbee-net/parquet-schema/parquet"
)

func FuzzSchemaElements(data []byte) int {
	elements, err := parquet.ReadSchemaElements(bytes.NewReader(data))
	if err != nil {
		return 0
	}

	s, err := LoadSchema(elements)
	if err != nil {
		return 0
	}

	again, err := LoadSchema(s.SchemaElements())
	if err != nil {
		panic(err)
	}

	if again.NumColumns() != s.NumColumns() {
		panic("column count changed in round trip")
	}

	return 1
}

func FuzzSchemaDefinition(data []byte) int {
	def, err := ParseSchemaDefinition(string(data))
	if err != nil {
		return 0
	}

	if _, err := ParseSchemaDefinition(def.String()); err != nil {
		panic(err)
	}

	return 1
}
