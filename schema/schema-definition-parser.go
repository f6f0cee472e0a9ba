package schema

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/hexbee-net/errors"
	"github.com/hexbee-net/parquet-schema/parquet"
)

const errSyntax = errors.Error("invalid schema definition")

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenWord
	tokenPunct
)

type token struct {
	kind tokenKind
	text string
	line int
	col  int
}

const punctuation = "{}();=,"

func tokenize(text string) ([]token, error) {
	var (
		tokens []token
		line   = 1
		col    = 0
		runes  = []rune(text)
	)

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		col++

		switch {
		case r == '\n':
			line++
			col = 0

		case unicode.IsSpace(r):

		case r == '#' || (r == '/' && i+1 < len(runes) && runes[i+1] == '/'):
			for i+1 < len(runes) && runes[i+1] != '\n' {
				i++
			}

		case strings.ContainsRune(punctuation, r):
			tokens = append(tokens, token{kind: tokenPunct, text: string(r), line: line, col: col})

		default:
			start, startCol := i, col
			for i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) && !strings.ContainsRune(punctuation, runes[i+1]) {
				i++
				col++
			}

			if !isWord(runes[start : i+1]) {
				return nil, errors.WithFields(
					errors.Wrap(errSyntax, "invalid character"),
					errors.Fields{
						"line":   line,
						"column": startCol,
					})
			}

			tokens = append(tokens, token{kind: tokenWord, text: string(runes[start : i+1]), line: line, col: startCol})
		}
	}

	return append(tokens, token{kind: tokenEOF, line: line, col: col + 1}), nil
}

func isWord(word []rune) bool {
	for _, r := range word {
		if !unicode.IsPrint(r) {
			return false
		}
	}

	return true
}

// /////////////////////////////////////////////////////////////////////////////

type schemaParser struct {
	tokens []token
	pos    int
	depth  int
}

func (p *schemaParser) peek() token {
	return p.tokens[p.pos]
}

func (p *schemaParser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokenEOF {
		p.pos++
	}

	return t
}

func (p *schemaParser) errorf(t token, msg string) error {
	found := t.text
	if t.kind == tokenEOF {
		found = "end of input"
	}

	return errors.WithFields(
		errors.Wrap(errSyntax, msg),
		errors.Fields{
			"line":   t.line,
			"column": t.col,
			"found":  found,
		})
}

func (p *schemaParser) expect(punct string) error {
	t := p.next()
	if t.kind != tokenPunct || t.text != punct {
		return p.errorf(t, "expected '"+punct+"'")
	}

	return nil
}

func (p *schemaParser) accept(punct string) bool {
	t := p.peek()
	if t.kind == tokenPunct && t.text == punct {
		p.pos++
		return true
	}

	return false
}

func (p *schemaParser) word(what string) (string, error) {
	t := p.next()
	if t.kind != tokenWord {
		return "", p.errorf(t, "expected "+what)
	}

	return t.text, nil
}

func (p *schemaParser) integer(what string) (int64, error) {
	t := p.next()
	if t.kind != tokenWord {
		return 0, p.errorf(t, "expected "+what)
	}

	v, err := strconv.ParseInt(t.text, 10, 32)
	if err != nil {
		return 0, p.errorf(t, "expected "+what)
	}

	return v, nil
}

func (p *schemaParser) parseDefinition() (Type, error) {
	var (
		t   Type
		err error
	)

	if tok := p.peek(); tok.kind == tokenWord && strings.EqualFold(tok.text, "message") {
		t, err = p.parseMessage()
	} else {
		t, err = p.parseField()
	}

	if err != nil {
		return nil, err
	}

	p.accept(";")

	if tok := p.next(); tok.kind != tokenEOF {
		return nil, p.errorf(tok, "expected end of input")
	}

	return t, nil
}

func (p *schemaParser) parseMessage() (Type, error) {
	p.next()

	name, err := p.word("message name")
	if err != nil {
		return nil, err
	}

	fields, err := p.parseFields()
	if err != nil {
		return nil, err
	}

	return NewGroupType(name, parquet.FieldRepetitionType_OPTIONAL, nil, fields...), nil
}

func (p *schemaParser) parseFields() ([]Type, error) {
	if err := p.expect("{"); err != nil {
		return nil, err
	}

	p.depth++
	if p.depth > MaxNestingDepth {
		return nil, errors.WithFields(
			errors.WithStack(errNestingTooDeep),
			errors.Fields{
				"line":  p.peek().line,
				"depth": p.depth,
			})
	}

	var fields []Type

	for !p.accept("}") {
		f, err := p.parseField()
		if err != nil {
			return nil, err
		}

		fields = append(fields, f)
	}

	p.depth--

	return fields, nil
}

var repetitions = map[string]parquet.FieldRepetitionType{
	"required": parquet.FieldRepetitionType_REQUIRED,
	"optional": parquet.FieldRepetitionType_OPTIONAL,
	"repeated": parquet.FieldRepetitionType_REPEATED,
}

var physicalTypes = map[string]parquet.Type{
	"boolean":              parquet.Type_BOOLEAN,
	"int32":                parquet.Type_INT32,
	"int64":                parquet.Type_INT64,
	"int96":                parquet.Type_INT96,
	"float":                parquet.Type_FLOAT,
	"double":               parquet.Type_DOUBLE,
	"binary":               parquet.Type_BYTE_ARRAY,
	"fixed_len_byte_array": parquet.Type_FIXED_LEN_BYTE_ARRAY,
}

func (p *schemaParser) parseField() (Type, error) {
	tok := p.next()

	rep, ok := repetitions[strings.ToLower(tok.text)]
	if tok.kind != tokenWord || !ok {
		return nil, p.errorf(tok, "expected repetition (required, optional or repeated)")
	}

	tok = p.next()
	if tok.kind != tokenWord {
		return nil, p.errorf(tok, "expected field type")
	}

	if strings.EqualFold(tok.text, "group") {
		return p.parseGroup(rep)
	}

	typ, ok := physicalTypes[strings.ToLower(tok.text)]
	if !ok {
		return nil, p.errorf(tok, "unknown field type")
	}

	params := &ColumnParameters{}

	if typ == parquet.Type_FIXED_LEN_BYTE_ARRAY {
		if err := p.expect("("); err != nil {
			return nil, err
		}

		l, err := p.integer("type length")
		if err != nil {
			return nil, err
		}

		params.TypeLength = parquet.Int32Ptr(int32(l))

		if err := p.expect(")"); err != nil {
			return nil, err
		}
	}

	name, err := p.word("field name")
	if err != nil {
		return nil, err
	}

	if err := p.parseSuffix(params); err != nil {
		return nil, err
	}

	if err := p.expect(";"); err != nil {
		return nil, err
	}

	return NewPrimitiveType(name, rep, typ, params), nil
}

func (p *schemaParser) parseGroup(rep parquet.FieldRepetitionType) (Type, error) {
	name, err := p.word("group name")
	if err != nil {
		return nil, err
	}

	params := &ColumnParameters{}
	if err := p.parseSuffix(params); err != nil {
		return nil, err
	}

	fields, err := p.parseFields()
	if err != nil {
		return nil, err
	}

	p.accept(";")

	return NewGroupType(name, rep, params, fields...), nil
}

// parseSuffix reads the optional annotation and field id following a field name.
func (p *schemaParser) parseSuffix(params *ColumnParameters) error {
	if p.accept("(") {
		if err := p.parseAnnotation(params); err != nil {
			return err
		}

		if err := p.expect(")"); err != nil {
			return err
		}
	}

	if p.accept("=") {
		id, err := p.integer("field id")
		if err != nil {
			return err
		}

		params.FieldID = parquet.Int32Ptr(int32(id))
	}

	return nil
}

func (p *schemaParser) parseAnnotation(params *ColumnParameters) error {
	tok := p.next()
	if tok.kind != tokenWord {
		return p.errorf(tok, "expected annotation")
	}

	var args []token

	if p.accept("(") {
		for {
			arg := p.next()
			if arg.kind != tokenWord {
				return p.errorf(arg, "expected annotation argument")
			}

			args = append(args, arg)

			if p.accept(")") {
				break
			}

			if err := p.expect(","); err != nil {
				return err
			}
		}
	}

	fn, ok := annotations[strings.ToUpper(tok.text)]
	if !ok {
		return p.errorf(tok, "unknown annotation")
	}

	if err := fn(params, args); err != nil {
		return p.errorf(tok, err.Error())
	}

	return nil
}

// /////////////////////////////////////////////////////////////////////////////

type annotationFn func(params *ColumnParameters, args []token) error

var annotations map[string]annotationFn

func init() {
	annotations = map[string]annotationFn{
		"UTF8":          simpleAnnotation(&parquet.LogicalType{STRING: &parquet.StringType{}}, parquet.ConvertedType_UTF8),
		"STRING":        simpleAnnotation(&parquet.LogicalType{STRING: &parquet.StringType{}}, parquet.ConvertedType_UTF8),
		"MAP":           simpleAnnotation(&parquet.LogicalType{MAP: &parquet.MapType{}}, parquet.ConvertedType_MAP),
		"MAP_KEY_VALUE": simpleAnnotation(nil, parquet.ConvertedType_MAP_KEY_VALUE),
		"LIST":          simpleAnnotation(&parquet.LogicalType{LIST: &parquet.ListType{}}, parquet.ConvertedType_LIST),
		"ENUM":          simpleAnnotation(&parquet.LogicalType{ENUM: &parquet.EnumType{}}, parquet.ConvertedType_ENUM),
		"DATE":          simpleAnnotation(&parquet.LogicalType{DATE: &parquet.DateType{}}, parquet.ConvertedType_DATE),
		"JSON":          simpleAnnotation(&parquet.LogicalType{JSON: &parquet.JsonType{}}, parquet.ConvertedType_JSON),
		"BSON":          simpleAnnotation(&parquet.LogicalType{BSON: &parquet.BsonType{}}, parquet.ConvertedType_BSON),
		"INTERVAL":      simpleAnnotation(nil, parquet.ConvertedType_INTERVAL),
		"UUID":          logicalAnnotation(&parquet.LogicalType{UUID: &parquet.UUIDType{}}),
		"FLOAT16":       logicalAnnotation(&parquet.LogicalType{FLOAT16: &parquet.Float16Type{}}),
		"UNKNOWN":       logicalAnnotation(&parquet.LogicalType{UNKNOWN: &parquet.NullType{}}),

		"TIME_MILLIS":      fixedTemporal(false, "MILLIS"),
		"TIME_MICROS":      fixedTemporal(false, "MICROS"),
		"TIMESTAMP_MILLIS": fixedTemporal(true, "MILLIS"),
		"TIMESTAMP_MICROS": fixedTemporal(true, "MICROS"),
		"TIME":             temporalAnnotation(false),
		"TIMESTAMP":        temporalAnnotation(true),

		"DECIMAL": decimalAnnotation,
		"INTEGER": integerAnnotation,
	}

	for _, w := range []int8{8, 16, 32, 64} {
		annotations["INT_"+strconv.Itoa(int(w))] = fixedInteger(w, true)
		annotations["UINT_"+strconv.Itoa(int(w))] = fixedInteger(w, false)
	}
}

func noArgs(args []token) error {
	if len(args) != 0 {
		return errors.New("annotation takes no argument")
	}

	return nil
}

func simpleAnnotation(l *parquet.LogicalType, c parquet.ConvertedType) annotationFn {
	return func(params *ColumnParameters, args []token) error {
		if err := noArgs(args); err != nil {
			return err
		}

		params.LogicalType = copyLogicalType(l)
		params.ConvertedType = parquet.ConvertedTypePtr(c)

		return nil
	}
}

func logicalAnnotation(l *parquet.LogicalType) annotationFn {
	return func(params *ColumnParameters, args []token) error {
		if err := noArgs(args); err != nil {
			return err
		}

		params.LogicalType = copyLogicalType(l)

		return nil
	}
}

// copyLogicalType keeps parsed schemas from sharing the annotation templates.
func copyLogicalType(l *parquet.LogicalType) *parquet.LogicalType {
	if l == nil {
		return nil
	}

	c := *l

	return &c
}

var timeUnits = map[string]func() *parquet.TimeUnit{
	"MILLIS": func() *parquet.TimeUnit { return &parquet.TimeUnit{MILLIS: &parquet.MilliSeconds{}} },
	"MICROS": func() *parquet.TimeUnit { return &parquet.TimeUnit{MICROS: &parquet.MicroSeconds{}} },
	"NANOS":  func() *parquet.TimeUnit { return &parquet.TimeUnit{NANOS: &parquet.NanoSeconds{}} },
}

// setTemporal sets the logical type and, when one exists, the matching converted type.
func setTemporal(params *ColumnParameters, timestamp bool, unit string, utc bool) error {
	mkUnit, ok := timeUnits[unit]
	if !ok {
		return errors.New("unknown time unit " + unit)
	}

	if timestamp {
		params.LogicalType = &parquet.LogicalType{TIMESTAMP: &parquet.TimestampType{IsAdjustedToUTC: utc, Unit: mkUnit()}}
	} else {
		params.LogicalType = &parquet.LogicalType{TIME: &parquet.TimeType{IsAdjustedToUTC: utc, Unit: mkUnit()}}
	}

	params.ConvertedType = nil

	if !utc {
		return nil
	}

	switch {
	case timestamp && unit == "MILLIS":
		params.ConvertedType = parquet.ConvertedTypePtr(parquet.ConvertedType_TIMESTAMP_MILLIS)
	case timestamp && unit == "MICROS":
		params.ConvertedType = parquet.ConvertedTypePtr(parquet.ConvertedType_TIMESTAMP_MICROS)
	case !timestamp && unit == "MILLIS":
		params.ConvertedType = parquet.ConvertedTypePtr(parquet.ConvertedType_TIME_MILLIS)
	case !timestamp && unit == "MICROS":
		params.ConvertedType = parquet.ConvertedTypePtr(parquet.ConvertedType_TIME_MICROS)
	}

	return nil
}

func fixedTemporal(timestamp bool, unit string) annotationFn {
	return func(params *ColumnParameters, args []token) error {
		if err := noArgs(args); err != nil {
			return err
		}

		return setTemporal(params, timestamp, unit, true)
	}
}

func temporalAnnotation(timestamp bool) annotationFn {
	return func(params *ColumnParameters, args []token) error {
		if len(args) != 2 {
			return errors.New("annotation takes a unit and a UTC adjustment flag")
		}

		utc, err := strconv.ParseBool(args[1].text)
		if err != nil {
			return errors.New("invalid UTC adjustment flag")
		}

		return setTemporal(params, timestamp, strings.ToUpper(args[0].text), utc)
	}
}

func decimalAnnotation(params *ColumnParameters, args []token) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.New("annotation takes a precision and an optional scale")
	}

	precision, err := strconv.ParseInt(args[0].text, 10, 32)
	if err != nil {
		return errors.New("invalid decimal precision")
	}

	scale := int64(0)
	if len(args) == 2 {
		if scale, err = strconv.ParseInt(args[1].text, 10, 32); err != nil {
			return errors.New("invalid decimal scale")
		}
	}

	params.LogicalType = &parquet.LogicalType{DECIMAL: &parquet.DecimalType{Scale: int32(scale), Precision: int32(precision)}}
	params.ConvertedType = parquet.ConvertedTypePtr(parquet.ConvertedType_DECIMAL)
	params.Scale = parquet.Int32Ptr(int32(scale))
	params.Precision = parquet.Int32Ptr(int32(precision))

	return nil
}

func setInteger(params *ColumnParameters, width int8, signed bool) {
	params.LogicalType = &parquet.LogicalType{INTEGER: &parquet.IntType{BitWidth: width, IsSigned: signed}}
	params.ConvertedType = nil

	prefix := "UINT_"
	if signed {
		prefix = "INT_"
	}

	if c, err := parquet.ConvertedTypeFromString(prefix + strconv.Itoa(int(width))); err == nil {
		params.ConvertedType = parquet.ConvertedTypePtr(c)
	}
}

func fixedInteger(width int8, signed bool) annotationFn {
	return func(params *ColumnParameters, args []token) error {
		if err := noArgs(args); err != nil {
			return err
		}

		setInteger(params, width, signed)

		return nil
	}
}

func integerAnnotation(params *ColumnParameters, args []token) error {
	if len(args) != 2 {
		return errors.New("annotation takes a bit width and a signedness flag")
	}

	width, err := strconv.ParseInt(args[0].text, 10, 8)
	if err != nil {
		return errors.New("invalid integer bit width")
	}

	signed, err := strconv.ParseBool(args[1].text)
	if err != nil {
		return errors.New("invalid integer signedness flag")
	}

	setInteger(params, int8(width), signed)

	return nil
}
