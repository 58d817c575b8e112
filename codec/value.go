package codec

// Struct is the schema-less record value: an ordered tag-to-value
// mapping encoded as StructBegin..fields..StructEnd. It is a distinct
// type so the generic encoder can tell a structured record apart from an
// associative map, which the wire format encodes differently.
//
// Fields are written in ascending tag order regardless of insertion
// order. Duplicate tags cannot be represented.
type Struct map[uint8]any

// SchemaProvider lets a typed value carry its own field descriptors, so
// it can be embedded in generic payloads and nested struct fields. The
// generic encoder consults it after all built-in value kinds.
type SchemaProvider interface {
	JCESchema() []Field
}
