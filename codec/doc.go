// Package codec implements the schema-driven and schema-less object
// codecs on top of the primitive wire layer in package jce.
//
// # Schemas
//
// A schema is a list of Field descriptors compiled once with Compile and
// reused across calls. Each field binds a host-side name to a wire tag,
// a declared type and an optional default. Compilation rejects duplicate
// tags and builds a direct tag lookup table; a Registry caches compiled
// schemas under caller-chosen keys for concurrent reuse.
//
// # Struct codec
//
// EncodeStruct and DecodeStructInto move values between host objects and
// the wire through a FieldAccessor, so the same codec serves
// map[string]any payloads (MapAccessor) and reflected Go structs
// (ReflectAccessor). Decoding is forward compatible by construction:
//
//   - wire tags with no schema entry are structurally skipped
//   - schema fields absent from the wire take their declared defaults
//   - integer fields accept any narrower integer wire form, and a
//     declared double accepts a 4-byte float
//   - any other declared/wire type disagreement degrades to a
//     schema-less decode of the arriving value instead of failing
//
// # Generic codec
//
// EncodeGeneric and DecodeGeneric need no schema. Records travel as the
// Struct type, a tag-keyed map encoded with fields in ascending tag
// order. SimpleList payloads are ambiguous on the wire (text, blobs and
// nested serialized records all share the type); BytesMode picks the
// interpretation, with BytesAuto trying safe text first, then a
// zero-allocation structural probe for nested records, then raw bytes.
//
// # Limits
//
// All recursive paths share the jce.MaxDepth cap and report
// depth_exceeded instead of exhausting the stack. Container counts are
// validated against the remaining input before any allocation sized by
// them.
package codec
