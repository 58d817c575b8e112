// Package jce implements the primitive layer of the JCE/Tars wire
// format: field headers, the fourteen wire type codes, and the byte-level
// Writer, Reader and Scanner the higher-level codecs are built on.
//
// # Wire Format
//
// Every field starts with a header byte packing a tag and a type code:
//
//	header = (tag << 4) | code        tag < 15
//	header = 0xF0      | code, tag    tag >= 15 (extended form)
//
// Type codes:
//
//	0  Int1         1-byte signed integer
//	1  Int2         2-byte signed integer
//	2  Int4         4-byte signed integer
//	3  Int8         8-byte signed integer
//	4  Float        IEEE-754 single
//	5  Double       IEEE-754 double
//	6  String1      1-byte length + UTF-8 bytes
//	7  String4      4-byte length + UTF-8 bytes
//	8  Map          count + interleaved key/value fields
//	9  List         count + element fields
//	10 StructBegin  opens a nested record
//	11 StructEnd    closes a nested record
//	12 ZeroTag      integer zero, no payload
//	13 SimpleList   raw byte array
//
// Integers are written in the minimal width that holds the value, with
// zero collapsing to ZeroTag. Multi-byte payloads are big-endian by
// default; a little-endian mode covers the whole stream.
//
// # Writer and Reader
//
// Writer appends primitives to an internal buffer and cannot fail:
//
//	w := jce.NewWriter()
//	w.WriteInt64(0, 42)
//	w.WriteString(1, "hello")
//	data := w.Bytes()
//
// Reader is a position-tracking cursor. All reads that would run past
// the end of the buffer fail with a buffer_overflow error carrying the
// byte offset; unknown type codes fail with invalid_type.
//
//	r := jce.NewReader(data)
//	tag, code, err := r.ReadHead()
//	v, err := r.ReadInt64(code)
//
// # Scanner
//
// Scanner answers "is this byte range a structurally valid struct?"
// without allocating. The generic decoder uses it to probe whether an
// opaque SimpleList payload hides a serialized nested record before
// committing to a recursive decode.
//
// # Recursion
//
// SkipField and ValidateStruct recurse into containers and cap the depth
// at MaxDepth (100), converting adversarial nesting into an error
// instead of stack exhaustion.
package jce
