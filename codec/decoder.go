package codec

import (
	"reflect"
	"unicode/utf8"

	"github.com/tarsio/jce-go/errors"
	"github.com/tarsio/jce-go/jce"
)

// DecodeStruct decodes a bare field sequence against a compiled schema
// into a name-keyed map. Unknown wire tags are skipped; fields missing
// from the wire take their schema defaults; a wire type incompatible
// with the declared type degrades to a schema-less decode of whatever
// actually arrived.
func DecodeStruct(data []byte, schema *Schema, opts Options, mode BytesMode) (map[string]any, error) {
	out := make(map[string]any, schema.Len())
	if err := DecodeStructInto(data, schema, out, MapAccessor{}, opts, mode); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeStructInto decodes a bare field sequence against a schema,
// storing values into obj through acc.
func DecodeStructInto(data []byte, schema *Schema, obj any, acc FieldAccessor, opts Options, mode BytesMode) error {
	d := &decoder{
		r:    jce.NewReaderOrder(data, opts.Order()),
		opts: opts,
		mode: mode,
	}

	var seen [256]bool
	for !d.r.AtEnd() {
		tag, code, err := d.r.ReadHead()
		if err != nil {
			return err
		}
		if code == jce.TypeStructEnd {
			break
		}
		f, ok := schema.FieldByTag(tag)
		if !ok {
			if err := d.r.SkipField(code); err != nil {
				return err
			}
			continue
		}
		v, err := d.decodeField(f, code)
		if err != nil {
			return err
		}
		if err := acc.Set(obj, f.Name, v); err != nil {
			return err
		}
		seen[tag] = true
	}

	for _, f := range schema.Fields() {
		if !seen[f.Tag] && f.Default != nil {
			if err := acc.Set(obj, f.Name, f.Default); err != nil {
				return err
			}
		}
	}
	return nil
}

// DecodeGeneric decodes a bare field sequence with no schema at all,
// yielding a tag-keyed Struct. SimpleList payloads are interpreted per
// mode.
func DecodeGeneric(data []byte, opts Options, mode BytesMode) (Struct, error) {
	d := &decoder{
		r:    jce.NewReaderOrder(data, opts.Order()),
		opts: opts,
		mode: mode,
	}
	return d.decodeStructFields(false)
}

type decoder struct {
	r     *jce.Reader
	opts  Options
	mode  BytesMode
	depth int
}

// decodeField decodes a wire value for a declared schema field,
// enforcing the type compatibility rules. Narrower integer wire forms
// are accepted for any declared integer width; Float widens into a
// declared Double; anything else must match exactly or falls back to a
// schema-less decode.
func (d *decoder) decodeField(f Field, code jce.TypeCode) (any, error) {
	if f.Type == jce.TypeAuto {
		return d.decodeValue(code)
	}

	switch f.Type {
	case jce.TypeInt1, jce.TypeInt2, jce.TypeInt4, jce.TypeInt8, jce.TypeZeroTag:
		switch code {
		case jce.TypeZeroTag, jce.TypeInt1, jce.TypeInt2, jce.TypeInt4, jce.TypeInt8:
			return d.r.ReadInt64(code)
		}

	case jce.TypeFloat:
		if code == jce.TypeFloat {
			return d.r.ReadFloat32()
		}

	case jce.TypeDouble:
		switch code {
		case jce.TypeDouble:
			return d.r.ReadFloat64()
		case jce.TypeFloat:
			v, err := d.r.ReadFloat32()
			if err != nil {
				return nil, err
			}
			return float64(v), nil
		}

	case jce.TypeString1, jce.TypeString4:
		switch code {
		case jce.TypeString1, jce.TypeString4:
			return d.r.ReadString(code)
		}

	case jce.TypeMap:
		if code == jce.TypeMap {
			return d.decodeMap()
		}

	case jce.TypeList:
		if code == jce.TypeList {
			return d.decodeList()
		}

	case jce.TypeSimpleList:
		if code == jce.TypeSimpleList {
			b, err := d.readSimpleList()
			if err != nil {
				return nil, err
			}
			return b, nil
		}

	case jce.TypeStructBegin:
		if code == jce.TypeStructBegin {
			return d.decodeNestedStruct()
		}
	}

	return d.decodeValue(code)
}

// decodeValue decodes one wire value by its type code alone.
func (d *decoder) decodeValue(code jce.TypeCode) (any, error) {
	switch code {
	case jce.TypeZeroTag:
		return int64(0), nil
	case jce.TypeInt1, jce.TypeInt2, jce.TypeInt4, jce.TypeInt8:
		return d.r.ReadInt64(code)
	case jce.TypeFloat:
		return d.r.ReadFloat32()
	case jce.TypeDouble:
		return d.r.ReadFloat64()
	case jce.TypeString1, jce.TypeString4:
		return d.r.ReadString(code)
	case jce.TypeMap:
		return d.decodeMap()
	case jce.TypeList:
		return d.decodeList()
	case jce.TypeSimpleList:
		b, err := d.readSimpleList()
		if err != nil {
			return nil, err
		}
		return d.interpretBytes(b)
	case jce.TypeStructBegin:
		return d.decodeNestedStruct()
	case jce.TypeStructEnd:
		return nil, nil
	default:
		return nil, errors.InvalidType(d.r.Position(), byte(code))
	}
}

func (d *decoder) decodeMap() (map[any]any, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer d.leave()

	size, err := d.readSize()
	if err != nil {
		return nil, err
	}
	m := make(map[any]any, min(size, 1024))
	for i := 0; i < size; i++ {
		_, kcode, err := d.r.ReadHead()
		if err != nil {
			return nil, err
		}
		k, err := d.decodeValue(kcode)
		if err != nil {
			return nil, err
		}
		_, vcode, err := d.r.ReadHead()
		if err != nil {
			return nil, err
		}
		v, err := d.decodeValue(vcode)
		if err != nil {
			return nil, err
		}
		if k == nil || !reflect.TypeOf(k).Comparable() {
			return nil, errors.InvalidData(errors.PhaseDecode, d.r.Position(),
				"map key type is not comparable")
		}
		m[k] = v
	}
	return m, nil
}

func (d *decoder) decodeList() ([]any, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer d.leave()

	size, err := d.readSize()
	if err != nil {
		return nil, err
	}
	list := make([]any, 0, min(size, 1024))
	for i := 0; i < size; i++ {
		_, code, err := d.r.ReadHead()
		if err != nil {
			return nil, err
		}
		v, err := d.decodeValue(code)
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, nil
}

// decodeNestedStruct decodes StructBegin..StructEnd into a Struct. The
// opening head has already been consumed.
func (d *decoder) decodeNestedStruct() (Struct, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer d.leave()
	return d.decodeStructFields(true)
}

// decodeStructFields reads fields into a Struct until StructEnd when
// nested, or end of buffer at the root. On a repeated wire tag the last
// value wins.
func (d *decoder) decodeStructFields(nested bool) (Struct, error) {
	s := Struct{}
	for {
		if d.r.AtEnd() {
			if nested {
				return nil, errors.BufferOverflow(errors.PhaseDecode, d.r.Position())
			}
			return s, nil
		}
		tag, code, err := d.r.ReadHead()
		if err != nil {
			return nil, err
		}
		if code == jce.TypeStructEnd {
			return s, nil
		}
		v, err := d.decodeValue(code)
		if err != nil {
			return nil, err
		}
		s[tag] = v
	}
}

// readSimpleList consumes a SimpleList body and returns an owned copy of
// the raw bytes. The head has already been consumed.
func (d *decoder) readSimpleList() ([]byte, error) {
	elemPos := d.r.Position()
	elem, err := d.r.ReadBytes(1)
	if err != nil {
		return nil, err
	}
	if elem[0] != 0 {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Offset(elemPos).
			Detail("SimpleList element type must be byte (0), got %d", elem[0]).
			Build()
	}
	size, err := d.readSize()
	if err != nil {
		return nil, err
	}
	view, err := d.r.ReadBytes(size)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(view))
	copy(out, view)
	return out, nil
}

// interpretBytes applies the BytesMode policy to a raw SimpleList
// payload during schema-less decode.
func (d *decoder) interpretBytes(b []byte) (any, error) {
	switch d.mode {
	case BytesString:
		if utf8.Valid(b) {
			return string(b), nil
		}
		return b, nil

	case BytesAuto:
		if len(b) == 0 {
			return b, nil
		}
		if isSafeText(b) {
			return string(b), nil
		}
		if structProbe(b, d.opts) {
			if d.depth >= jce.MaxDepth {
				return nil, errors.DepthExceeded(errors.PhaseDecode)
			}
			nested := &decoder{
				r:     jce.NewReaderOrder(b, d.opts.Order()),
				opts:  d.opts,
				mode:  d.mode,
				depth: d.depth + 1,
			}
			s, err := nested.decodeStructFields(false)
			if err == nil {
				return s, nil
			}
			// Structurally valid but semantically rejected payloads
			// fall through to raw bytes.
		}
		return b, nil

	default:
		return b, nil
	}
}

// isSafeText accepts printable UTF-8 plus tab, LF and CR. Other control
// bytes disqualify the payload from the text interpretation.
func isSafeText(b []byte) bool {
	for _, c := range b {
		if c < 0x20 && c != '\t' && c != '\n' && c != '\r' {
			return false
		}
		if c == 0x7F {
			return false
		}
	}
	return utf8.Valid(b)
}

// structProbe reports whether b parses as a complete field sequence.
// The check allocates nothing beyond the scanner itself.
func structProbe(b []byte, opts Options) bool {
	s := jce.NewScannerOrder(b, opts.Order())
	return s.ValidateStruct() == nil && s.AtEnd()
}

func (d *decoder) readSize() (int, error) {
	size, err := d.r.ReadSize()
	if err != nil {
		return 0, err
	}
	// Every entry occupies at least one byte, so a count beyond the
	// remaining input can only be hostile or corrupt.
	if size > d.r.Remaining() {
		return 0, errors.BufferOverflow(errors.PhaseDecode, d.r.Position())
	}
	return size, nil
}

func (d *decoder) enter() error {
	if d.depth >= jce.MaxDepth {
		return errors.DepthExceeded(errors.PhaseDecode)
	}
	d.depth++
	return nil
}

func (d *decoder) leave() {
	d.depth--
}
