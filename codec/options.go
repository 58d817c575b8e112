package codec

import "encoding/binary"

// Options is the caller-supplied bit-flag set governing a single encode
// or decode call.
type Options uint32

const (
	// OptLittleEndian switches every multi-byte field in the call to
	// little-endian, length prefixes included.
	OptLittleEndian Options = 1

	// OptOmitDefault skips encoding fields whose value equals their
	// declared default.
	OptOmitDefault Options = 32

	// OptExcludeUnset skips encoding fields the host object never
	// explicitly set, as reported by the accessor's IsSet oracle.
	OptExcludeUnset Options = 64
)

// Order returns the byte order selected by the options.
func (o Options) Order() binary.ByteOrder {
	if o&OptLittleEndian != 0 {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// BytesMode selects how an opaque SimpleList payload is interpreted
// during generic decode. The wire format carries text, raw blobs and
// serialized nested records all as SimpleList, so the distinction has to
// be a caller policy.
type BytesMode int

const (
	// BytesRaw always returns the byte array unmodified.
	BytesRaw BytesMode = iota

	// BytesString attempts UTF-8 decoding, returning raw bytes on
	// failure.
	BytesString

	// BytesAuto decodes safe text as string, probes structurally valid
	// payloads as nested structs, and falls back to raw bytes.
	BytesAuto
)
