package jcego

import "github.com/tarsio/jce-go/codec"

// Marshal encodes a value generically: a codec.Struct becomes a bare
// field sequence, anything else a single tag-0 field.
func Marshal(v any) ([]byte, error) {
	return codec.EncodeGeneric(v, 0)
}

// MarshalOptions is Marshal with explicit option bits.
func MarshalOptions(v any, opts codec.Options) ([]byte, error) {
	return codec.EncodeGeneric(v, opts)
}

// Unmarshal decodes a bare field sequence into a tag-keyed Struct,
// interpreting byte arrays with the auto heuristic.
func Unmarshal(data []byte) (codec.Struct, error) {
	return codec.DecodeGeneric(data, 0, codec.BytesAuto)
}

// UnmarshalOptions is Unmarshal with explicit option bits and byte
// interpretation mode.
func UnmarshalOptions(data []byte, opts codec.Options, mode codec.BytesMode) (codec.Struct, error) {
	return codec.DecodeGeneric(data, opts, mode)
}
