package jce_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/tarsio/jce-go/jce"
)

func TestWriteInt64WidthSelection(t *testing.T) {
	tests := []struct {
		name  string
		tag   uint8
		value int64
		want  []byte
	}{
		{"zero collapses to ZeroTag", 0, 0, []byte{0x0C}},
		{"one is Int1", 0, 1, []byte{0x00, 0x01}},
		{"minus one is Int1", 0, -1, []byte{0x00, 0xFF}},
		{"int8 max is Int1", 0, 127, []byte{0x00, 0x7F}},
		{"200 needs Int2", 0, 200, []byte{0x01, 0x00, 0xC8}},
		{"256 is Int2", 0, 256, []byte{0x01, 0x01, 0x00}},
		{"int16 min is Int2", 0, -32768, []byte{0x01, 0x80, 0x00}},
		{"65536 is Int4", 0, 65536, []byte{0x02, 0x00, 0x01, 0x00, 0x00}},
		{"int32 overflow is Int8", 0, 1 << 40, []byte{0x03, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00}},
		{"tag in high nibble", 1, 1, []byte{0x10, 0x01}},
		{"extended tag", 15, 1, []byte{0xF0, 0x0F, 0x01}},
		{"extended tag 255", 255, 1, []byte{0xF0, 0xFF, 0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := jce.NewWriter()
			w.WriteInt64(tt.tag, tt.value)
			if !bytes.Equal(w.Bytes(), tt.want) {
				t.Errorf("got % X, want % X", w.Bytes(), tt.want)
			}
		})
	}
}

func TestWriteString(t *testing.T) {
	w := jce.NewWriter()
	w.WriteString(0, "a")
	if !bytes.Equal(w.Bytes(), []byte{0x06, 0x01, 0x61}) {
		t.Errorf("short string: got % X", w.Bytes())
	}

	// 256 bytes forces the 4-byte length prefix.
	long := string(bytes.Repeat([]byte{'x'}, 256))
	w.Reset()
	w.WriteString(0, long)
	got := w.Bytes()
	if got[0] != 0x07 {
		t.Fatalf("expected String4 head, got 0x%02X", got[0])
	}
	if n := binary.BigEndian.Uint32(got[1:5]); n != 256 {
		t.Errorf("length prefix = %d, want 256", n)
	}
	if len(got) != 5+256 {
		t.Errorf("total length = %d, want %d", len(got), 5+256)
	}
}

func TestWriteBytes(t *testing.T) {
	w := jce.NewWriter()
	w.WriteBytes(0, []byte{0x61, 0x62, 0x63})
	want := []byte{0x0D, 0x00, 0x00, 0x03, 0x61, 0x62, 0x63}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("got % X, want % X", w.Bytes(), want)
	}

	w.Reset()
	w.WriteBytes(1, nil)
	want = []byte{0x1D, 0x00, 0x0C}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("empty: got % X, want % X", w.Bytes(), want)
	}
}

func TestWriteFloats(t *testing.T) {
	w := jce.NewWriter()
	w.WriteFloat32(0, 1.0)
	want := []byte{0x04, 0x3F, 0x80, 0x00, 0x00}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("float: got % X, want % X", w.Bytes(), want)
	}

	w.Reset()
	w.WriteFloat64(0, 1.0)
	want = []byte{0x05, 0x3F, 0xF0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("double: got % X, want % X", w.Bytes(), want)
	}
}

func TestWriteLittleEndian(t *testing.T) {
	w := jce.NewWriterOrder(binary.LittleEndian)
	w.WriteInt64(0, 256)
	if !bytes.Equal(w.Bytes(), []byte{0x01, 0x00, 0x01}) {
		t.Errorf("int2: got % X", w.Bytes())
	}

	w.Reset()
	long := string(bytes.Repeat([]byte{'x'}, 256))
	w.WriteString(0, long)
	got := w.Bytes()
	if n := binary.LittleEndian.Uint32(got[1:5]); n != 256 {
		t.Errorf("length prefix = %d, want 256", n)
	}
}

func TestWriterReset(t *testing.T) {
	w := jce.NewWriter()
	w.WriteInt64(0, 1)
	w.Reset()
	if w.Len() != 0 {
		t.Errorf("length after reset = %d", w.Len())
	}
	w.WriteInt64(0, 0)
	if !bytes.Equal(w.Bytes(), []byte{0x0C}) {
		t.Errorf("write after reset: got % X", w.Bytes())
	}
}
