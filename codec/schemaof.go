package codec

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/tarsio/jce-go/errors"
	"github.com/tarsio/jce-go/jce"
)

// SchemaOf derives a field list from a struct type's `jce` tags. The tag
// format is `jce:"name,tag=N"` with optional `,omitdefault`. The wire
// type is inferred from the Go field type; fields without a tag=N entry
// are invisible to the codec.
//
//	type LoginReq struct {
//	    UID  int64  `jce:"uid,tag=0"`
//	    Name string `jce:"name,tag=1,omitdefault"`
//	}
func SchemaOf(t reflect.Type) ([]Field, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, errors.TypeMismatch(errors.PhaseCompile, t.String(), "struct")
	}

	var fields []Field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get("jce")
		if tag == "" || tag == "-" {
			continue
		}
		name, rest, _ := strings.Cut(tag, ",")
		if name == "" {
			name = sf.Name
		}

		f := Field{Name: name, Type: jce.TypeAuto}
		haveTag := false
		for rest != "" {
			var opt string
			opt, rest, _ = strings.Cut(rest, ",")
			switch {
			case strings.HasPrefix(opt, "tag="):
				n, err := strconv.ParseUint(opt[4:], 10, 8)
				if err != nil {
					return nil, errors.New(errors.PhaseCompile, errors.KindInvalidData).
						Detail("field %s: bad tag option %q", sf.Name, opt).
						Cause(err).
						Build()
				}
				f.Tag = uint8(n)
				haveTag = true
			case opt == "omitdefault":
				f.Flags |= FlagOmitDefault
			}
		}
		if !haveTag {
			continue
		}
		f.Type = inferTypeCode(sf.Type)
		fields = append(fields, f)
	}
	return fields, nil
}

// SchemaFor compiles and caches the schema for v's type in reg.
func SchemaFor(reg *Registry, v any) (*Schema, error) {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if s := reg.Lookup(t); s != nil {
		return s, nil
	}
	fields, err := SchemaOf(t)
	if err != nil {
		return nil, err
	}
	return reg.Register(t, fields)
}

func inferTypeCode(t reflect.Type) jce.TypeCode {
	switch t.Kind() {
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return jce.TypeInt8
	case reflect.Uint8:
		return jce.TypeInt1
	case reflect.Float32:
		return jce.TypeFloat
	case reflect.Float64:
		return jce.TypeDouble
	case reflect.String:
		return jce.TypeString4
	case reflect.Map:
		return jce.TypeMap
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return jce.TypeSimpleList
		}
		return jce.TypeList
	case reflect.Struct:
		return jce.TypeStructBegin
	default:
		return jce.TypeAuto
	}
}
