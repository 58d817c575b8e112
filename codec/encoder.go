package codec

import (
	"reflect"
	"sort"

	"github.com/tarsio/jce-go/errors"
	"github.com/tarsio/jce-go/jce"
)

// EncodeStruct encodes obj against a compiled schema, pulling field
// values through acc. The root record is a bare field sequence with no
// StructBegin/StructEnd wrapper; only nested struct fields carry the
// wrapper pair.
func EncodeStruct(obj any, schema *Schema, acc FieldAccessor, opts Options) ([]byte, error) {
	w := getWriter(opts)
	defer putWriter(w, opts)

	e := &encoder{w: w, opts: opts}
	if err := e.encodeFields(obj, schema, acc); err != nil {
		return nil, err
	}

	out := make([]byte, w.Len())
	copy(out, w.Bytes())
	return out, nil
}

// EncodeGeneric encodes a schema-less value. A Struct root becomes a
// bare field sequence; any other value is written as a single tag-0
// field.
func EncodeGeneric(v any, opts Options) ([]byte, error) {
	w := getWriter(opts)
	defer putWriter(w, opts)

	e := &encoder{w: w, opts: opts}
	var err error
	if s, ok := v.(Struct); ok {
		err = e.encodeStructFields(s)
	} else {
		err = e.encodeValue(0, v)
	}
	if err != nil {
		return nil, err
	}

	out := make([]byte, w.Len())
	copy(out, w.Bytes())
	return out, nil
}

type encoder struct {
	w     *jce.Writer
	opts  Options
	depth int
}

func (e *encoder) encodeFields(obj any, schema *Schema, acc FieldAccessor) error {
	for _, f := range schema.Fields() {
		// Absent and nil fields are never written; defaults are a
		// decode-side fill, not an encode-side substitution.
		v, present := acc.Get(obj, f.Name)
		if !present || v == nil {
			continue
		}
		if e.opts&OptExcludeUnset != 0 && !acc.IsSet(obj, f.Name) {
			continue
		}
		if e.opts&OptOmitDefault != 0 || f.Flags&FlagOmitDefault != 0 {
			if f.Default != nil && equalValues(v, f.Default) {
				continue
			}
		}
		if err := e.encodeField(f, v); err != nil {
			return err
		}
	}
	return nil
}

// encodeField writes one schema field. A declared type constrains what
// host values are accepted; TypeAuto defers entirely to the value.
func (e *encoder) encodeField(f Field, v any) error {
	switch f.Type {
	case jce.TypeAuto:
		return e.encodeValue(f.Tag, v)

	case jce.TypeInt1, jce.TypeInt2, jce.TypeInt4, jce.TypeInt8, jce.TypeZeroTag:
		n, ok := asInt64(v)
		if !ok {
			return e.fieldMismatch(f, v, "integer")
		}
		e.w.WriteInt64(f.Tag, n)
		return nil

	case jce.TypeFloat:
		switch x := v.(type) {
		case float32:
			e.w.WriteFloat32(f.Tag, x)
		case float64:
			e.w.WriteFloat32(f.Tag, float32(x))
		default:
			return e.fieldMismatch(f, v, "float")
		}
		return nil

	case jce.TypeDouble:
		switch x := v.(type) {
		case float64:
			e.w.WriteFloat64(f.Tag, x)
		case float32:
			e.w.WriteFloat64(f.Tag, float64(x))
		default:
			return e.fieldMismatch(f, v, "double")
		}
		return nil

	case jce.TypeString1, jce.TypeString4:
		s, ok := v.(string)
		if !ok {
			return e.fieldMismatch(f, v, "string")
		}
		e.w.WriteString(f.Tag, s)
		return nil

	case jce.TypeSimpleList:
		if b, ok := v.([]byte); ok {
			e.w.WriteBytes(f.Tag, b)
			return nil
		}
		// Non-byte payloads declared as SimpleList are serialized to
		// their own wire form and carried as an opaque byte array.
		return e.encodeNestedBytes(f.Tag, v)

	case jce.TypeMap:
		rv := reflect.ValueOf(v)
		if !rv.IsValid() || rv.Kind() != reflect.Map {
			return e.fieldMismatch(f, v, "map")
		}
		return e.encodeMap(f.Tag, rv)

	case jce.TypeList:
		rv := reflect.ValueOf(v)
		if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
			return e.fieldMismatch(f, v, "list")
		}
		return e.encodeList(f.Tag, rv)

	case jce.TypeStructBegin:
		return e.encodeValue(f.Tag, v)

	default:
		return errors.New(errors.PhaseEncode, errors.KindInvalidType).
			Tag(f.Tag).
			TypeCode(byte(f.Type)).
			Detail("field %q declares unencodable type %s", f.Name, f.Type).
			Build()
	}
}

func (e *encoder) fieldMismatch(f Field, v any, want string) error {
	return errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
		Tag(f.Tag).
		Detail("field %q: Go value %T where %s is declared", f.Name, v, want).
		Build()
}

// encodeValue classifies a schema-less value and writes it under tag.
// Classification tries concrete types first and falls back to reflection
// for named map and slice types.
func (e *encoder) encodeValue(tag uint8, v any) error {
	switch x := v.(type) {
	case bool:
		if x {
			e.w.WriteInt64(tag, 1)
		} else {
			e.w.WriteInt64(tag, 0)
		}
		return nil
	case int:
		e.w.WriteInt64(tag, int64(x))
		return nil
	case int8:
		e.w.WriteInt64(tag, int64(x))
		return nil
	case int16:
		e.w.WriteInt64(tag, int64(x))
		return nil
	case int32:
		e.w.WriteInt64(tag, int64(x))
		return nil
	case int64:
		e.w.WriteInt64(tag, x)
		return nil
	case uint8:
		e.w.WriteInt64(tag, int64(x))
		return nil
	case uint16:
		e.w.WriteInt64(tag, int64(x))
		return nil
	case uint32:
		e.w.WriteInt64(tag, int64(x))
		return nil
	case uint64:
		if x > 1<<63-1 {
			return errors.New(errors.PhaseEncode, errors.KindUnsupported).
				Tag(tag).
				Detail("uint64 value %d exceeds int64 range", x).
				Build()
		}
		e.w.WriteInt64(tag, int64(x))
		return nil
	case uint:
		return e.encodeValue(tag, uint64(x))
	case float32:
		e.w.WriteFloat32(tag, x)
		return nil
	case float64:
		e.w.WriteFloat64(tag, x)
		return nil
	case []byte:
		e.w.WriteBytes(tag, x)
		return nil
	case string:
		e.w.WriteString(tag, x)
		return nil
	case []any:
		return e.encodeList(tag, reflect.ValueOf(x))
	case Struct:
		return e.encodeStruct(tag, x)
	case SchemaProvider:
		return e.encodeProvider(tag, x)
	}

	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return errors.Unsupported(errors.PhaseEncode, "nil value has no wire representation")
	}
	switch rv.Kind() {
	case reflect.Map:
		return e.encodeMap(tag, rv)
	case reflect.Slice, reflect.Array:
		return e.encodeList(tag, rv)
	case reflect.Pointer:
		if rv.IsNil() {
			return errors.Unsupported(errors.PhaseEncode, "nil pointer has no wire representation")
		}
		return e.encodeValue(tag, rv.Elem().Interface())
	case reflect.Struct:
		// Tagged Go structs encode through a derived schema.
		fields, err := SchemaOf(rv.Type())
		if err == nil && len(fields) > 0 {
			return e.encodeTagged(tag, v, fields)
		}
	}
	return errors.Unsupported(errors.PhaseEncode, "cannot encode Go type "+rv.Type().String())
}

func (e *encoder) encodeMap(tag uint8, rv reflect.Value) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.leave()

	e.w.WriteHead(tag, jce.TypeMap)
	e.w.WriteInt64(0, int64(rv.Len()))
	for _, k := range sortedMapKeys(rv) {
		if err := e.encodeValue(0, k.Interface()); err != nil {
			return err
		}
		if err := e.encodeValue(1, rv.MapIndex(k).Interface()); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) encodeList(tag uint8, rv reflect.Value) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.leave()

	e.w.WriteHead(tag, jce.TypeList)
	e.w.WriteInt64(0, int64(rv.Len()))
	for i := 0; i < rv.Len(); i++ {
		if err := e.encodeValue(0, rv.Index(i).Interface()); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) encodeStruct(tag uint8, s Struct) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.leave()

	e.w.WriteHead(tag, jce.TypeStructBegin)
	if err := e.encodeStructFields(s); err != nil {
		return err
	}
	e.w.WriteHead(0, jce.TypeStructEnd)
	return nil
}

// encodeStructFields writes a Struct's fields in ascending tag order.
func (e *encoder) encodeStructFields(s Struct) error {
	tags := make([]int, 0, len(s))
	for t := range s {
		tags = append(tags, int(t))
	}
	sort.Ints(tags)
	for _, t := range tags {
		if err := e.encodeValue(uint8(t), s[uint8(t)]); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) encodeProvider(tag uint8, p SchemaProvider) error {
	return e.encodeTagged(tag, p, p.JCESchema())
}

// encodeTagged writes a typed value as a nested struct through its field
// descriptors.
func (e *encoder) encodeTagged(tag uint8, v any, fields []Field) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.leave()

	schema, err := Compile(fields)
	if err != nil {
		return err
	}
	e.w.WriteHead(tag, jce.TypeStructBegin)
	if err := e.encodeFields(v, schema, ReflectAccessor{}); err != nil {
		return err
	}
	e.w.WriteHead(0, jce.TypeStructEnd)
	return nil
}

// encodeNestedBytes serializes v to its own wire form and writes the
// result as a SimpleList byte array.
func (e *encoder) encodeNestedBytes(tag uint8, v any) error {
	nested, err := EncodeGeneric(v, e.opts)
	if err != nil {
		return err
	}
	e.w.WriteBytes(tag, nested)
	return nil
}

func (e *encoder) enter() error {
	if e.depth >= jce.MaxDepth {
		return errors.DepthExceeded(errors.PhaseEncode)
	}
	e.depth++
	return nil
}

func (e *encoder) leave() {
	e.depth--
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint:
		if uint64(x) > 1<<63-1 {
			return 0, false
		}
		return int64(x), true
	case uint64:
		if x > 1<<63-1 {
			return 0, false
		}
		return int64(x), true
	}
	return 0, false
}

// equalValues compares a live value against a schema default, comparing
// numbers by value rather than by Go type.
func equalValues(a, b any) bool {
	if ai, ok := asInt64(a); ok {
		bi, ok := asInt64(b)
		return ok && ai == bi
	}
	if af, ok := asFloat64(a); ok {
		bf, ok := asFloat64(b)
		return ok && af == bf
	}
	return reflect.DeepEqual(a, b)
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

// sortedMapKeys returns a map's keys in a stable order when the key kind
// admits one, so encode output is deterministic.
func sortedMapKeys(rv reflect.Value) []reflect.Value {
	keys := rv.MapKeys()
	if len(keys) < 2 {
		return keys
	}
	switch rv.Type().Key().Kind() {
	case reflect.String:
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		sort.Slice(keys, func(i, j int) bool { return keys[i].Int() < keys[j].Int() })
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		sort.Slice(keys, func(i, j int) bool { return keys[i].Uint() < keys[j].Uint() })
	}
	return keys
}
