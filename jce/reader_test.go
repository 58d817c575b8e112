package jce_test

import (
	stderrors "errors"
	"encoding/binary"
	"testing"

	"github.com/tarsio/jce-go/errors"
	"github.com/tarsio/jce-go/jce"
)

func TestReadHead(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		wantTag  uint8
		wantCode jce.TypeCode
	}{
		{"tag 1 Int1", []byte{0x10}, 1, jce.TypeInt1},
		{"tag 0 ZeroTag", []byte{0x0C}, 0, jce.TypeZeroTag},
		{"extended tag 15", []byte{0xF0, 0x0F}, 15, jce.TypeInt1},
		{"extended tag 255", []byte{0xF5, 0xFF}, 255, jce.TypeDouble},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := jce.NewReader(tt.data)
			tag, code, err := r.ReadHead()
			if err != nil {
				t.Fatalf("ReadHead: %v", err)
			}
			if tag != tt.wantTag || code != tt.wantCode {
				t.Errorf("got (%d, %v), want (%d, %v)", tag, code, tt.wantTag, tt.wantCode)
			}
		})
	}
}

func TestReadHeadErrors(t *testing.T) {
	// Low nibble 14 is not a valid type code.
	r := jce.NewReader([]byte{0x0E})
	_, _, err := r.ReadHead()
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindInvalidType}) {
		t.Errorf("expected invalid_type, got %v", err)
	}

	// Extended tag header with the tag byte missing.
	r = jce.NewReader([]byte{0xF0})
	_, _, err = r.ReadHead()
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindBufferOverflow}) {
		t.Errorf("expected buffer_overflow, got %v", err)
	}

	// Empty buffer.
	r = jce.NewReader(nil)
	if _, _, err = r.ReadHead(); err == nil {
		t.Error("expected error on empty buffer")
	}
}

func TestPeekHead(t *testing.T) {
	r := jce.NewReader([]byte{0x10, 0x01})
	tag, code, err := r.PeekHead()
	if err != nil || tag != 1 || code != jce.TypeInt1 {
		t.Fatalf("PeekHead = (%d, %v, %v)", tag, code, err)
	}
	if r.Position() != 0 {
		t.Errorf("peek moved cursor to %d", r.Position())
	}
	if tag2, _, _ := r.ReadHead(); tag2 != tag {
		t.Errorf("read after peek disagrees: %d vs %d", tag2, tag)
	}
}

func TestReadInt64(t *testing.T) {
	data := []byte{
		0x00,                   // Int1: 0
		0x00, 0x01,             // Int2: 1
		0x00, 0x00, 0x00, 0x01, // Int4: 1
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, // Int8: 1
	}
	r := jce.NewReader(data)

	cases := []struct {
		code jce.TypeCode
		want int64
	}{
		{jce.TypeInt1, 0},
		{jce.TypeInt2, 1},
		{jce.TypeInt4, 1},
		{jce.TypeInt8, 1},
		{jce.TypeZeroTag, 0},
	}
	for _, c := range cases {
		got, err := r.ReadInt64(c.code)
		if err != nil {
			t.Fatalf("ReadInt64(%v): %v", c.code, err)
		}
		if got != c.want {
			t.Errorf("ReadInt64(%v) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestReadInt64SignExtension(t *testing.T) {
	r := jce.NewReader([]byte{0xFF})
	v, err := r.ReadInt64(jce.TypeInt1)
	if err != nil || v != -1 {
		t.Errorf("Int1 0xFF = (%d, %v), want -1", v, err)
	}

	r = jce.NewReader([]byte{0x80, 0x00})
	v, err = r.ReadInt64(jce.TypeInt2)
	if err != nil || v != -32768 {
		t.Errorf("Int2 0x8000 = (%d, %v), want -32768", v, err)
	}
}

func TestReadString(t *testing.T) {
	data := []byte{0x05, 'H', 'e', 'l', 'l', 'o', 0x00, 0x00, 0x00, 0x05, 'W', 'o', 'r', 'l', 'd'}
	r := jce.NewReader(data)

	s, err := r.ReadString(jce.TypeString1)
	if err != nil || s != "Hello" {
		t.Errorf("String1 = (%q, %v)", s, err)
	}
	s, err = r.ReadString(jce.TypeString4)
	if err != nil || s != "World" {
		t.Errorf("String4 = (%q, %v)", s, err)
	}
}

func TestReadStringInvalidUTF8(t *testing.T) {
	r := jce.NewReader([]byte{0x02, 0xFF, 0xFE})
	_, err := r.ReadString(jce.TypeString1)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindInvalidData}) {
		t.Errorf("expected invalid_data for bad UTF-8, got %v", err)
	}
}

func TestReadStringOverflowOffset(t *testing.T) {
	// Declares 5 bytes, provides 2.
	r := jce.NewReader([]byte{0x05, 'a', 'b'})
	_, err := r.ReadString(jce.TypeString1)
	var cerr *errors.Error
	if !stderrors.As(err, &cerr) {
		t.Fatalf("expected *errors.Error, got %v", err)
	}
	if cerr.Kind != errors.KindBufferOverflow || cerr.Offset != 1 {
		t.Errorf("got kind=%s offset=%d, want buffer_overflow at 1", cerr.Kind, cerr.Offset)
	}
}

func TestReadLittleEndian(t *testing.T) {
	r := jce.NewReaderOrder([]byte{0x01, 0x00}, binary.LittleEndian)
	if v, _ := r.ReadInt64(jce.TypeInt2); v != 1 {
		t.Errorf("LE Int2 = %d, want 1", v)
	}

	r = jce.NewReaderOrder([]byte{0x01, 0x00, 0x00, 0x00, 'A'}, binary.LittleEndian)
	if s, _ := r.ReadString(jce.TypeString4); s != "A" {
		t.Errorf("LE String4 = %q, want A", s)
	}
}

func TestSkipField(t *testing.T) {
	// Struct: tag 1 StructBegin, Int1 field, StructEnd.
	r := jce.NewReader([]byte{0x1A, 0x10, 0x01, 0x0B})
	tag, code, err := r.ReadHead()
	if err != nil || tag != 1 || code != jce.TypeStructBegin {
		t.Fatalf("head = (%d, %v, %v)", tag, code, err)
	}
	if err := r.SkipField(code); err != nil {
		t.Fatalf("SkipField: %v", err)
	}
	if !r.AtEnd() {
		t.Errorf("cursor at %d, %d bytes remaining", r.Position(), r.Remaining())
	}
}

func TestSkipFieldContainers(t *testing.T) {
	w := jce.NewWriter()

	// Map with one string->int entry under tag 2, then an Int1 under tag 3.
	w.WriteHead(2, jce.TypeMap)
	w.WriteInt64(0, 1)
	w.WriteString(0, "k")
	w.WriteInt64(1, 7)
	w.WriteInt64(3, 9)

	r := jce.NewReader(w.Bytes())
	_, code, err := r.ReadHead()
	if err != nil || code != jce.TypeMap {
		t.Fatalf("head: (%v, %v)", code, err)
	}
	if err := r.SkipField(code); err != nil {
		t.Fatalf("skip map: %v", err)
	}

	tag, code, err := r.ReadHead()
	if err != nil || tag != 3 {
		t.Fatalf("field after map: (%d, %v)", tag, err)
	}
	if v, _ := r.ReadInt64(code); v != 9 {
		t.Errorf("value after skip = %d, want 9", v)
	}
}

func TestSkipFieldDepthLimit(t *testing.T) {
	// 150 nested StructBegin heads; deeper than the cap, never closed.
	data := make([]byte, 150)
	for i := range data {
		data[i] = 0x0A
	}
	r := jce.NewReader(data)
	_, code, _ := r.ReadHead()
	err := r.SkipField(code)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindDepthExceeded}) {
		t.Errorf("expected depth_exceeded, got %v", err)
	}
}

func TestSkipSimpleListBadElementType(t *testing.T) {
	// SimpleList declaring element type 1 instead of byte.
	r := jce.NewReader([]byte{0x0D, 0x01, 0x00, 0x03, 0x61, 0x62, 0x63})
	_, code, _ := r.ReadHead()
	err := r.SkipField(code)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindInvalidData}) {
		t.Errorf("expected invalid_data, got %v", err)
	}
}

func TestReadSize(t *testing.T) {
	w := jce.NewWriter()
	w.WriteInt64(0, 300)
	r := jce.NewReader(w.Bytes())
	n, err := r.ReadSize()
	if err != nil || n != 300 {
		t.Errorf("ReadSize = (%d, %v), want 300", n, err)
	}

	// Negative counts are rejected.
	w.Reset()
	w.WriteInt64(0, -1)
	r = jce.NewReader(w.Bytes())
	if _, err := r.ReadSize(); err == nil {
		t.Error("expected error for negative size")
	}
}

func TestReadBytesZeroCopy(t *testing.T) {
	src := []byte{1, 2, 3, 4}
	r := jce.NewReader(src)
	b, err := r.ReadBytes(4)
	if err != nil {
		t.Fatal(err)
	}
	src[0] = 99
	if b[0] != 99 {
		t.Error("ReadBytes copied instead of slicing")
	}
}
