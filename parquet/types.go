package parquet

import (
	"github.com/hexbee-net/errors"
)

// Type is the physical type of a primitive column.
type Type int32

const (
	Type_BOOLEAN              Type = 0
	Type_INT32                Type = 1
	Type_INT64                Type = 2
	Type_INT96                Type = 3
	Type_FLOAT                Type = 4
	Type_DOUBLE               Type = 5
	Type_BYTE_ARRAY           Type = 6
	Type_FIXED_LEN_BYTE_ARRAY Type = 7
)

var typeNames = map[Type]string{
	Type_BOOLEAN:              "BOOLEAN",
	Type_INT32:                "INT32",
	Type_INT64:                "INT64",
	Type_INT96:                "INT96",
	Type_FLOAT:                "FLOAT",
	Type_DOUBLE:               "DOUBLE",
	Type_BYTE_ARRAY:           "BYTE_ARRAY",
	Type_FIXED_LEN_BYTE_ARRAY: "FIXED_LEN_BYTE_ARRAY",
}

func (p Type) String() string {
	if s, ok := typeNames[p]; ok {
		return s
	}

	return "<UNSET>"
}

// TypeFromString returns the physical type matching its thrift name.
func TypeFromString(s string) (Type, error) {
	for k, v := range typeNames {
		if v == s {
			return k, nil
		}
	}

	return Type(0), errors.WithFields(
		errors.New("not a valid Type string"),
		errors.Fields{
			"value": s,
		})
}

func TypePtr(v Type) *Type { return &v }

// FieldRepetitionType tells whether a field is required, optional or repeated.
type FieldRepetitionType int32

const (
	FieldRepetitionType_REQUIRED FieldRepetitionType = 0
	FieldRepetitionType_OPTIONAL FieldRepetitionType = 1
	FieldRepetitionType_REPEATED FieldRepetitionType = 2
)

var fieldRepetitionTypeNames = map[FieldRepetitionType]string{
	FieldRepetitionType_REQUIRED: "REQUIRED",
	FieldRepetitionType_OPTIONAL: "OPTIONAL",
	FieldRepetitionType_REPEATED: "REPEATED",
}

func (p FieldRepetitionType) String() string {
	if s, ok := fieldRepetitionTypeNames[p]; ok {
		return s
	}

	return "<UNSET>"
}

// FieldRepetitionTypeFromString returns the repetition type matching its thrift name.
func FieldRepetitionTypeFromString(s string) (FieldRepetitionType, error) {
	for k, v := range fieldRepetitionTypeNames {
		if v == s {
			return k, nil
		}
	}

	return FieldRepetitionType(0), errors.WithFields(
		errors.New("not a valid FieldRepetitionType string"),
		errors.Fields{
			"value": s,
		})
}

func FieldRepetitionTypePtr(v FieldRepetitionType) *FieldRepetitionType { return &v }

// ConvertedType is the legacy annotation of a column, superseded by LogicalType.
type ConvertedType int32

const (
	ConvertedType_UTF8             ConvertedType = 0
	ConvertedType_MAP              ConvertedType = 1
	ConvertedType_MAP_KEY_VALUE    ConvertedType = 2
	ConvertedType_LIST             ConvertedType = 3
	ConvertedType_ENUM             ConvertedType = 4
	ConvertedType_DECIMAL          ConvertedType = 5
	ConvertedType_DATE             ConvertedType = 6
	ConvertedType_TIME_MILLIS      ConvertedType = 7
	ConvertedType_TIME_MICROS      ConvertedType = 8
	ConvertedType_TIMESTAMP_MILLIS ConvertedType = 9
	ConvertedType_TIMESTAMP_MICROS ConvertedType = 10
	ConvertedType_UINT_8           ConvertedType = 11
	ConvertedType_UINT_16          ConvertedType = 12
	ConvertedType_UINT_32          ConvertedType = 13
	ConvertedType_UINT_64          ConvertedType = 14
	ConvertedType_INT_8            ConvertedType = 15
	ConvertedType_INT_16           ConvertedType = 16
	ConvertedType_INT_32           ConvertedType = 17
	ConvertedType_INT_64           ConvertedType = 18
	ConvertedType_JSON             ConvertedType = 19
	ConvertedType_BSON             ConvertedType = 20
	ConvertedType_INTERVAL         ConvertedType = 21
)

var convertedTypeNames = map[ConvertedType]string{
	ConvertedType_UTF8:             "UTF8",
	ConvertedType_MAP:              "MAP",
	ConvertedType_MAP_KEY_VALUE:    "MAP_KEY_VALUE",
	ConvertedType_LIST:             "LIST",
	ConvertedType_ENUM:             "ENUM",
	ConvertedType_DECIMAL:          "DECIMAL",
	ConvertedType_DATE:             "DATE",
	ConvertedType_TIME_MILLIS:      "TIME_MILLIS",
	ConvertedType_TIME_MICROS:      "TIME_MICROS",
	ConvertedType_TIMESTAMP_MILLIS: "TIMESTAMP_MILLIS",
	ConvertedType_TIMESTAMP_MICROS: "TIMESTAMP_MICROS",
	ConvertedType_UINT_8:           "UINT_8",
	ConvertedType_UINT_16:          "UINT_16",
	ConvertedType_UINT_32:          "UINT_32",
	ConvertedType_UINT_64:          "UINT_64",
	ConvertedType_INT_8:            "INT_8",
	ConvertedType_INT_16:           "INT_16",
	ConvertedType_INT_32:           "INT_32",
	ConvertedType_INT_64:           "INT_64",
	ConvertedType_JSON:             "JSON",
	ConvertedType_BSON:             "BSON",
	ConvertedType_INTERVAL:         "INTERVAL",
}

func (p ConvertedType) String() string {
	if s, ok := convertedTypeNames[p]; ok {
		return s
	}

	return "<UNSET>"
}

// ConvertedTypeFromString returns the converted type matching its thrift name.
func ConvertedTypeFromString(s string) (ConvertedType, error) {
	for k, v := range convertedTypeNames {
		if v == s {
			return k, nil
		}
	}

	return ConvertedType(0), errors.WithFields(
		errors.New("not a valid ConvertedType string"),
		errors.Fields{
			"value": s,
		})
}

func ConvertedTypePtr(v ConvertedType) *ConvertedType { return &v }

func Int32Ptr(v int32) *int32 { return &v }
