package parquet

import (
	"github.com/apache/thrift/lib/go/thrift"
)

// Parameterless logical types. They are empty structs on the wire.
type (
	StringType  struct{}
	MapType     struct{}
	ListType    struct{}
	EnumType    struct{}
	DateType    struct{}
	NullType    struct{}
	JsonType    struct{}
	BsonType    struct{}
	UUIDType    struct{}
	Float16Type struct{}

	MilliSeconds struct{}
	MicroSeconds struct{}
	NanoSeconds  struct{}
)

// DecimalType annotates a decimal value; scale and precision must also be set on the
// SchemaElement for compatibility with the converted type.
type DecimalType struct {
	Scale     int32
	Precision int32
}

func (d *DecimalType) Read(p thrift.TProtocol) error {
	return readStruct(p, "DecimalType", func(id int16, typ thrift.TType) (bool, error) {
		if typ != thrift.I32 {
			return false, nil
		}

		var err error

		switch id {
		case 1:
			d.Scale, err = p.ReadI32()
		case 2:
			d.Precision, err = p.ReadI32()
		default:
			return false, nil
		}

		return true, err
	})
}

func (d *DecimalType) Write(p thrift.TProtocol) error {
	return writeStruct(p, "DecimalType",
		i32Field("scale", 1, &d.Scale),
		i32Field("precision", 2, &d.Precision),
	)
}

// TimeUnit is a union: exactly one member is set.
type TimeUnit struct {
	MILLIS *MilliSeconds
	MICROS *MicroSeconds
	NANOS  *NanoSeconds
}

func (u *TimeUnit) Read(p thrift.TProtocol) error {
	return readStruct(p, "TimeUnit", func(id int16, typ thrift.TType) (bool, error) {
		if typ != thrift.STRUCT {
			return false, nil
		}

		switch id {
		case 1:
			u.MILLIS = &MilliSeconds{}
			return true, emptyStruct{"MilliSeconds"}.Read(p)
		case 2:
			u.MICROS = &MicroSeconds{}
			return true, emptyStruct{"MicroSeconds"}.Read(p)
		case 3:
			u.NANOS = &NanoSeconds{}
			return true, emptyStruct{"NanoSeconds"}.Read(p)
		default:
			return false, nil
		}
	})
}

func (u *TimeUnit) Write(p thrift.TProtocol) error {
	return writeStruct(p, "TimeUnit",
		structField("MILLIS", 1, u.MILLIS == nil, emptyStruct{"MilliSeconds"}),
		structField("MICROS", 2, u.MICROS == nil, emptyStruct{"MicroSeconds"}),
		structField("NANOS", 3, u.NANOS == nil, emptyStruct{"NanoSeconds"}),
	)
}

// TimeType annotates a time of day.
type TimeType struct {
	IsAdjustedToUTC bool
	Unit            *TimeUnit
}

func (t *TimeType) Read(p thrift.TProtocol) error {
	return readTemporal(p, "TimeType", &t.IsAdjustedToUTC, &t.Unit)
}

func (t *TimeType) Write(p thrift.TProtocol) error {
	return writeTemporal(p, "TimeType", t.IsAdjustedToUTC, t.Unit)
}

// TimestampType annotates an instant.
type TimestampType struct {
	IsAdjustedToUTC bool
	Unit            *TimeUnit
}

func (t *TimestampType) Read(p thrift.TProtocol) error {
	return readTemporal(p, "TimestampType", &t.IsAdjustedToUTC, &t.Unit)
}

func (t *TimestampType) Write(p thrift.TProtocol) error {
	return writeTemporal(p, "TimestampType", t.IsAdjustedToUTC, t.Unit)
}

func readTemporal(p thrift.TProtocol, name string, adjusted *bool, unit **TimeUnit) error {
	return readStruct(p, name, func(id int16, typ thrift.TType) (bool, error) {
		var err error

		switch {
		case id == 1 && typ == thrift.BOOL:
			*adjusted, err = p.ReadBool()
		case id == 2 && typ == thrift.STRUCT:
			*unit = &TimeUnit{}
			err = (*unit).Read(p)
		default:
			return false, nil
		}

		return true, err
	})
}

func writeTemporal(p thrift.TProtocol, name string, adjusted bool, unit *TimeUnit) error {
	if unit == nil {
		unit = &TimeUnit{}
	}

	return writeStruct(p, name,
		boolField("isAdjustedToUTC", 1, adjusted),
		structField("unit", 2, false, unit),
	)
}

// IntType annotates an integer of the given width and signedness.
type IntType struct {
	BitWidth int8
	IsSigned bool
}

func (t *IntType) Read(p thrift.TProtocol) error {
	return readStruct(p, "IntType", func(id int16, typ thrift.TType) (bool, error) {
		var err error

		switch {
		case id == 1 && typ == thrift.BYTE:
			t.BitWidth, err = p.ReadByte()
		case id == 2 && typ == thrift.BOOL:
			t.IsSigned, err = p.ReadBool()
		default:
			return false, nil
		}

		return true, err
	})
}

func (t *IntType) Write(p thrift.TProtocol) error {
	return writeStruct(p, "IntType",
		byteField("bitWidth", 1, t.BitWidth),
		boolField("isSigned", 2, t.IsSigned),
	)
}

// LogicalType is a union: exactly one member is set.
type LogicalType struct {
	STRING    *StringType
	MAP       *MapType
	LIST      *ListType
	ENUM      *EnumType
	DECIMAL   *DecimalType
	DATE      *DateType
	TIME      *TimeType
	TIMESTAMP *TimestampType
	INTEGER   *IntType
	UNKNOWN   *NullType
	JSON      *JsonType
	BSON      *BsonType
	UUID      *UUIDType
	FLOAT16   *Float16Type
}

func (l *LogicalType) Read(p thrift.TProtocol) error {
	return readStruct(p, "LogicalType", func(id int16, typ thrift.TType) (bool, error) {
		if typ != thrift.STRUCT {
			return false, nil
		}

		switch id {
		case 1:
			l.STRING = &StringType{}
			return true, emptyStruct{"StringType"}.Read(p)
		case 2:
			l.MAP = &MapType{}
			return true, emptyStruct{"MapType"}.Read(p)
		case 3:
			l.LIST = &ListType{}
			return true, emptyStruct{"ListType"}.Read(p)
		case 4:
			l.ENUM = &EnumType{}
			return true, emptyStruct{"EnumType"}.Read(p)
		case 5:
			l.DECIMAL = &DecimalType{}
			return true, l.DECIMAL.Read(p)
		case 6:
			l.DATE = &DateType{}
			return true, emptyStruct{"DateType"}.Read(p)
		case 7:
			l.TIME = &TimeType{}
			return true, l.TIME.Read(p)
		case 8:
			l.TIMESTAMP = &TimestampType{}
			return true, l.TIMESTAMP.Read(p)
		case 10:
			l.INTEGER = &IntType{}
			return true, l.INTEGER.Read(p)
		case 11:
			l.UNKNOWN = &NullType{}
			return true, emptyStruct{"NullType"}.Read(p)
		case 12:
			l.JSON = &JsonType{}
			return true, emptyStruct{"JsonType"}.Read(p)
		case 13:
			l.BSON = &BsonType{}
			return true, emptyStruct{"BsonType"}.Read(p)
		case 14:
			l.UUID = &UUIDType{}
			return true, emptyStruct{"UUIDType"}.Read(p)
		case 15:
			l.FLOAT16 = &Float16Type{}
			return true, emptyStruct{"Float16Type"}.Read(p)
		default:
			return false, nil
		}
	})
}

func (l *LogicalType) Write(p thrift.TProtocol) error {
	return writeStruct(p, "LogicalType",
		structField("STRING", 1, l.STRING == nil, emptyStruct{"StringType"}),
		structField("MAP", 2, l.MAP == nil, emptyStruct{"MapType"}),
		structField("LIST", 3, l.LIST == nil, emptyStruct{"ListType"}),
		structField("ENUM", 4, l.ENUM == nil, emptyStruct{"EnumType"}),
		structField("DECIMAL", 5, l.DECIMAL == nil, l.DECIMAL),
		structField("DATE", 6, l.DATE == nil, emptyStruct{"DateType"}),
		structField("TIME", 7, l.TIME == nil, l.TIME),
		structField("TIMESTAMP", 8, l.TIMESTAMP == nil, l.TIMESTAMP),
		structField("INTEGER", 10, l.INTEGER == nil, l.INTEGER),
		structField("UNKNOWN", 11, l.UNKNOWN == nil, emptyStruct{"NullType"}),
		structField("JSON", 12, l.JSON == nil, emptyStruct{"JsonType"}),
		structField("BSON", 13, l.BSON == nil, emptyStruct{"BsonType"}),
		structField("UUID", 14, l.UUID == nil, emptyStruct{"UUIDType"}),
		structField("FLOAT16", 15, l.FLOAT16 == nil, emptyStruct{"Float16Type"}),
	)
}
