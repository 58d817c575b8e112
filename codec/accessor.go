package codec

import (
	"reflect"
	"strings"

	"github.com/tarsio/jce-go/errors"
)

// FieldAccessor abstracts how field values are pulled from and pushed
// into a host object, so the struct codec works over maps, reflected
// structs or anything else without the encoder knowing.
type FieldAccessor interface {
	// Get returns the value for a schema field name and whether it was
	// present on the object.
	Get(obj any, name string) (any, bool)

	// Set stores a decoded value under a schema field name.
	Set(obj any, name string, value any) error

	// IsSet reports whether the field was explicitly assigned, for the
	// exclude-unset encoding policy. Accessors with no notion of
	// presence return true for fields that exist.
	IsSet(obj any, name string) bool
}

// MapAccessor serves map[string]any objects. Presence is key existence.
type MapAccessor struct{}

func (MapAccessor) Get(obj any, name string) (any, bool) {
	m, ok := obj.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := m[name]
	return v, ok
}

func (MapAccessor) Set(obj any, name string, value any) error {
	m, ok := obj.(map[string]any)
	if !ok {
		return errors.TypeMismatch(errors.PhaseDecode, reflect.TypeOf(obj).String(), "map[string]any")
	}
	m[name] = value
	return nil
}

func (MapAccessor) IsSet(obj any, name string) bool {
	_, ok := MapAccessor{}.Get(obj, name)
	return ok
}

// ReflectAccessor serves Go structs via reflection. Field resolution
// tries the `jce` struct tag first, then an exact name match, then a
// case-insensitive match. Objects passed to Set must be pointers to
// structs.
type ReflectAccessor struct{}

func (ReflectAccessor) Get(obj any, name string) (any, bool) {
	v := reflect.ValueOf(obj)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, false
	}
	f := findGoField(v, name)
	if !f.IsValid() {
		return nil, false
	}
	return f.Interface(), true
}

func (ReflectAccessor) Set(obj any, name string, value any) error {
	v := reflect.ValueOf(obj)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return errors.TypeMismatch(errors.PhaseDecode, reflect.TypeOf(obj).String(), "pointer to struct")
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return errors.TypeMismatch(errors.PhaseDecode, v.Type().String(), "struct")
	}
	f := findGoField(v, name)
	if !f.IsValid() || !f.CanSet() {
		// Unknown host fields are not an error; forward compatibility
		// drops values with no destination.
		return nil
	}

	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		f.Set(reflect.Zero(f.Type()))
		return nil
	}
	if rv.Type().AssignableTo(f.Type()) {
		f.Set(rv)
		return nil
	}
	if rv.Type().ConvertibleTo(f.Type()) && convertPreservesValue(rv.Type(), f.Type()) {
		f.Set(rv.Convert(f.Type()))
		return nil
	}
	return errors.TypeMismatch(errors.PhaseDecode, rv.Type().String(), f.Type().String())
}

func (ReflectAccessor) IsSet(obj any, name string) bool {
	v, ok := ReflectAccessor{}.Get(obj, name)
	if !ok {
		return false
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return false
	}
	return !rv.IsZero()
}

// findGoField resolves a schema field name to a struct field value,
// matching by `jce` tag, exact name, then case-insensitive name.
func findGoField(v reflect.Value, name string) reflect.Value {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("jce")
		if tag == "" {
			continue
		}
		if base, _, _ := strings.Cut(tag, ","); base == name {
			return v.Field(i)
		}
	}
	if f := v.FieldByName(name); f.IsValid() {
		return f
	}
	for i := 0; i < t.NumField(); i++ {
		if strings.EqualFold(t.Field(i).Name, name) {
			return v.Field(i)
		}
	}
	return reflect.Value{}
}

// convertPreservesValue restricts Convert-based assignment to numeric
// widenings and kindred kinds, keeping surprising conversions like
// int-to-string out.
func convertPreservesValue(from, to reflect.Type) bool {
	fk, tk := from.Kind(), to.Kind()
	numeric := func(k reflect.Kind) bool {
		return k >= reflect.Int && k <= reflect.Float64
	}
	if numeric(fk) && numeric(tk) {
		return true
	}
	if fk == reflect.String && tk == reflect.String {
		return true
	}
	if fk == reflect.Slice && tk == reflect.Slice {
		return from.Elem().Kind() == to.Elem().Kind()
	}
	return false
}
