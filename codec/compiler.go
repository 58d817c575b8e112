package codec

import (
	"sync"

	"github.com/tarsio/jce-go/errors"
	"github.com/tarsio/jce-go/jce"
)

// FieldFlags carries per-field encoding behavior.
type FieldFlags uint8

const (
	// FlagOmitDefault skips the field when its value equals the declared
	// default, independent of the call-level OptOmitDefault option.
	FlagOmitDefault FieldFlags = 1 << iota
)

// Field describes one schema field: its host-side name, wire tag,
// declared wire type and default value. Type may be jce.TypeAuto, in
// which case the encoder infers the wire type from the runtime value and
// the decoder accepts whatever arrives.
type Field struct {
	Name    string
	Tag     uint8
	Type    jce.TypeCode
	Default any
	Flags   FieldFlags
}

// Schema is a compiled field set with a tag lookup table. Compile once,
// use from any number of goroutines.
type Schema struct {
	fields []Field
	byTag  [256]int16
}

// Compile validates a field list and builds the tag index. Duplicate
// tags are rejected. Field order is preserved; the encoder emits fields
// in declaration order.
func Compile(fields []Field) (*Schema, error) {
	s := &Schema{fields: make([]Field, len(fields))}
	copy(s.fields, fields)
	for i := range s.byTag {
		s.byTag[i] = -1
	}
	for i, f := range s.fields {
		if f.Type != jce.TypeAuto && !f.Type.Valid() {
			return nil, errors.New(errors.PhaseCompile, errors.KindInvalidType).
				TypeCode(byte(f.Type)).
				Detail("field %q declares invalid type code %d", f.Name, f.Type).
				Build()
		}
		if s.byTag[f.Tag] >= 0 {
			return nil, errors.DuplicateTag(f.Tag)
		}
		s.byTag[f.Tag] = int16(i)
	}
	return s, nil
}

// MustCompile is Compile for schemas known valid at program start.
// It panics on error.
func MustCompile(fields []Field) *Schema {
	s, err := Compile(fields)
	if err != nil {
		panic(err)
	}
	return s
}

// Fields returns the schema's fields in declaration order. The slice
// must not be modified.
func (s *Schema) Fields() []Field {
	return s.fields
}

// FieldByTag returns the field declared for tag, if any.
func (s *Schema) FieldByTag(tag uint8) (Field, bool) {
	i := s.byTag[tag]
	if i < 0 {
		return Field{}, false
	}
	return s.fields[i], true
}

// Len returns the number of declared fields.
func (s *Schema) Len() int {
	return len(s.fields)
}

// Registry caches compiled schemas under a caller-chosen comparable key,
// typically a message name or a reflect.Type. Safe for concurrent use.
type Registry struct {
	schemas sync.Map
}

// Lookup returns the cached schema for key, or nil.
func (r *Registry) Lookup(key any) *Schema {
	if v, ok := r.schemas.Load(key); ok {
		return v.(*Schema)
	}
	return nil
}

// Register compiles fields and caches the result under key. If a schema
// is already cached for key, the existing one is returned and the input
// is ignored.
func (r *Registry) Register(key any, fields []Field) (*Schema, error) {
	if s := r.Lookup(key); s != nil {
		return s, nil
	}
	s, err := Compile(fields)
	if err != nil {
		return nil, err
	}
	actual, _ := r.schemas.LoadOrStore(key, s)
	return actual.(*Schema), nil
}
