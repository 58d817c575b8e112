package jce

import (
	"encoding/binary"
	"math"
)

// Writer encodes primitive JCE values into an internal buffer. Writes
// never fail; all validation happens before encoding is invoked.
//
// The zero value is not usable; construct with NewWriter or
// NewWriterOrder.
type Writer struct {
	buf   []byte
	order binary.ByteOrder
}

// NewWriter creates a big-endian Writer, the wire default.
func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 128), order: binary.BigEndian}
}

// NewWriterOrder creates a Writer with an explicit byte order. The order
// applies to every multi-byte payload: integers, floats and length
// prefixes alike.
func NewWriterOrder(order binary.ByteOrder) *Writer {
	return &Writer{buf: make([]byte, 0, 128), order: order}
}

// Bytes returns the encoded bytes. The slice aliases the internal buffer
// and is invalidated by the next write or Reset.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Cap returns the capacity of the internal buffer.
func (w *Writer) Cap() int {
	return cap(w.buf)
}

// Reset truncates the buffer for reuse, keeping its capacity.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
}

// WriteHead writes the field header. Tags below 15 pack into a single
// byte with the type code; larger tags use the extended two-byte form.
func (w *Writer) WriteHead(tag uint8, code TypeCode) {
	if tag < extendedTag {
		w.buf = append(w.buf, tag<<4|byte(code))
	} else {
		w.buf = append(w.buf, extendedTag<<4|byte(code), tag)
	}
}

// WriteInt64 writes an integer in its narrowest representation: zero
// becomes ZeroTag with no payload, then Int1/Int2/Int4/Int8 by signed
// range.
func (w *Writer) WriteInt64(tag uint8, v int64) {
	switch {
	case v == 0:
		w.WriteHead(tag, TypeZeroTag)
	case v >= math.MinInt8 && v <= math.MaxInt8:
		w.WriteHead(tag, TypeInt1)
		w.buf = append(w.buf, byte(v))
	case v >= math.MinInt16 && v <= math.MaxInt16:
		w.WriteHead(tag, TypeInt2)
		w.putUint(uint64(uint16(v)), 2)
	case v >= math.MinInt32 && v <= math.MaxInt32:
		w.WriteHead(tag, TypeInt4)
		w.putUint(uint64(uint32(v)), 4)
	default:
		w.WriteHead(tag, TypeInt8)
		w.putUint(uint64(v), 8)
	}
}

// WriteFloat32 writes a fixed 4-byte IEEE-754 single.
func (w *Writer) WriteFloat32(tag uint8, v float32) {
	w.WriteHead(tag, TypeFloat)
	w.putUint(uint64(math.Float32bits(v)), 4)
}

// WriteFloat64 writes a fixed 8-byte IEEE-754 double.
func (w *Writer) WriteFloat64(tag uint8, v float64) {
	w.WriteHead(tag, TypeDouble)
	w.putUint(math.Float64bits(v), 8)
}

// WriteString writes UTF-8 string bytes with a 1-byte length prefix for
// lengths up to 255, or a 4-byte prefix otherwise. The wire format
// cannot represent strings longer than math.MaxUint32 bytes; the caller
// must not pass one.
func (w *Writer) WriteString(tag uint8, s string) {
	if len(s) <= math.MaxUint8 {
		w.WriteHead(tag, TypeString1)
		w.buf = append(w.buf, byte(len(s)))
	} else {
		w.WriteHead(tag, TypeString4)
		w.putUint(uint64(uint32(len(s))), 4)
	}
	w.buf = append(w.buf, s...)
}

// WriteBytes writes a raw byte array as SimpleList: an element type byte
// (always 0, "byte"), the length as a tag-0 integer field, then the raw
// bytes.
func (w *Writer) WriteBytes(tag uint8, b []byte) {
	w.WriteHead(tag, TypeSimpleList)
	w.buf = append(w.buf, 0)
	w.WriteInt64(0, int64(len(b)))
	w.buf = append(w.buf, b...)
}

func (w *Writer) putUint(v uint64, width int) {
	var scratch [8]byte
	switch width {
	case 2:
		w.order.PutUint16(scratch[:2], uint16(v))
	case 4:
		w.order.PutUint32(scratch[:4], uint32(v))
	default:
		w.order.PutUint64(scratch[:8], v)
	}
	w.buf = append(w.buf, scratch[:width]...)
}
