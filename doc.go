// Package jcego implements the JCE/Tars tag-length-value wire format.
//
// JCE serializes records as tagged fields. Every field starts with a
// header carrying a 4-bit type code and a tag; integers shrink to their
// narrowest wire form, strings and byte arrays are length-prefixed, and
// records nest through StructBegin/StructEnd pairs. The format has no
// embedded schema, which is what makes it forward compatible: decoders
// skip tags they do not know and fill defaults for tags that never
// arrive.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	jce-go/              Root package with Marshal/Unmarshal shorthand
//	├── jce/             Primitive wire codec: Writer, Reader, Scanner
//	├── codec/           Schema compiler, struct codec, generic codec
//	├── stream/          Length-prefixed frame reassembly and decoding
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
// Encode and decode without a schema:
//
//	data, err := jcego.Marshal(codec.Struct{
//	    0: int64(12345),
//	    1: "hello",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	v, err := jcego.Unmarshal(data)
//	fmt.Println(v[1]) // "hello"
//
// Or compile a schema once and move typed records:
//
//	schema := codec.MustCompile([]codec.Field{
//	    {Name: "uid", Tag: 0, Type: jce.TypeInt8},
//	    {Name: "name", Tag: 1, Type: jce.TypeString4},
//	})
//	data, err := codec.EncodeStruct(req, schema, codec.ReflectAccessor{}, 0)
//
// # Forward Compatibility
//
// Schema-driven decoding never fails on version skew:
//
//   - unknown wire tags are skipped structurally
//   - missing fields take their schema defaults
//   - narrower integers widen into the declared type, Float widens
//     into Double
//   - any other mismatch delivers the wire value as-is instead of
//     erroring
//
// # Byte Order
//
// The wire default is big-endian. OptLittleEndian flips every
// multi-byte value in a call, length prefixes included; both peers must
// agree out of band, since nothing on the wire records the order.
//
// # Limits
//
// Nesting depth is capped at jce.MaxDepth on both encode and decode.
// Hostile inputs produce structured errors with byte offsets, never
// panics.
package jcego
