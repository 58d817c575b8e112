package jce

// TypeCode is the 4-bit wire code selecting the physical encoding of a
// field value. Codes 0-13 are valid on the wire; anything else in a
// field header is a decode error.
type TypeCode byte

const (
	TypeInt1        TypeCode = 0  // 1-byte signed integer
	TypeInt2        TypeCode = 1  // 2-byte signed integer
	TypeInt4        TypeCode = 2  // 4-byte signed integer
	TypeInt8        TypeCode = 3  // 8-byte signed integer
	TypeFloat       TypeCode = 4  // IEEE-754 single
	TypeDouble      TypeCode = 5  // IEEE-754 double
	TypeString1     TypeCode = 6  // string, 1-byte length prefix (len <= 255)
	TypeString4     TypeCode = 7  // string, 4-byte length prefix
	TypeMap         TypeCode = 8  // count + interleaved key/value fields
	TypeList        TypeCode = 9  // count + element fields
	TypeStructBegin TypeCode = 10 // opens a nested record
	TypeStructEnd   TypeCode = 11 // closes a nested record
	TypeZeroTag     TypeCode = 12 // integer zero, no payload
	TypeSimpleList  TypeCode = 13 // raw byte array

	// TypeAuto is the schema sentinel for "infer at runtime". It never
	// appears on the wire.
	TypeAuto TypeCode = 255
)

// MaxDepth bounds recursion on both encode and decode. Exceeding it is a
// reported error, never a stack overflow.
const MaxDepth = 100

// extendedTag is the header high-nibble value signalling that the true
// tag follows in the next byte.
const extendedTag = 15

var typeNames = [...]string{
	"Int1", "Int2", "Int4", "Int8",
	"Float", "Double", "String1", "String4",
	"Map", "List", "StructBegin", "StructEnd",
	"ZeroTag", "SimpleList",
}

// Valid reports whether the code is one of the fourteen wire codes.
func (c TypeCode) Valid() bool {
	return c <= TypeSimpleList
}

func (c TypeCode) String() string {
	if c.Valid() {
		return typeNames[c]
	}
	if c == TypeAuto {
		return "Auto"
	}
	return "Invalid"
}
