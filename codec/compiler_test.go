package codec_test

import (
	stderrors "errors"
	"testing"

	"github.com/tarsio/jce-go/codec"
	"github.com/tarsio/jce-go/errors"
	"github.com/tarsio/jce-go/jce"
)

func TestCompile(t *testing.T) {
	s, err := codec.Compile([]codec.Field{
		{Name: "uid", Tag: 0, Type: jce.TypeInt8},
		{Name: "name", Tag: 1, Type: jce.TypeString1},
		{Name: "extra", Tag: 200, Type: jce.TypeAuto},
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if s.Len() != 3 {
		t.Errorf("Len = %d, want 3", s.Len())
	}

	f, ok := s.FieldByTag(200)
	if !ok || f.Name != "extra" {
		t.Errorf("FieldByTag(200) = (%v, %v)", f, ok)
	}
	if _, ok := s.FieldByTag(7); ok {
		t.Error("FieldByTag(7) found a field that was never declared")
	}
}

func TestCompileDuplicateTag(t *testing.T) {
	_, err := codec.Compile([]codec.Field{
		{Name: "a", Tag: 3, Type: jce.TypeInt4},
		{Name: "b", Tag: 3, Type: jce.TypeString1},
	})
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseCompile, Kind: errors.KindDuplicateTag}) {
		t.Errorf("expected duplicate_tag, got %v", err)
	}
}

func TestCompileInvalidTypeCode(t *testing.T) {
	_, err := codec.Compile([]codec.Field{
		{Name: "a", Tag: 0, Type: jce.TypeCode(14)},
	})
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseCompile, Kind: errors.KindInvalidType}) {
		t.Errorf("expected invalid_type, got %v", err)
	}
}

func TestRegistry(t *testing.T) {
	var r codec.Registry

	if s := r.Lookup("login"); s != nil {
		t.Fatal("empty registry returned a schema")
	}

	fields := []codec.Field{{Name: "uid", Tag: 0, Type: jce.TypeInt8}}
	s1, err := r.Register("login", fields)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	s2, err := r.Register("login", []codec.Field{{Name: "other", Tag: 0, Type: jce.TypeInt8}})
	if err != nil {
		t.Fatalf("second Register: %v", err)
	}
	if s1 != s2 {
		t.Error("Register replaced a cached schema")
	}
	if r.Lookup("login") != s1 {
		t.Error("Lookup disagrees with Register")
	}
}
