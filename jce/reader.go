package jce

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/tarsio/jce-go/errors"
)

// Reader decodes primitive JCE values from a byte slice with position
// tracking. String and byte reads return views into the source buffer;
// the buffer must outlive them.
type Reader struct {
	data  []byte
	order binary.ByteOrder
	pos   int
	depth int
}

// NewReader creates a big-endian Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data, order: binary.BigEndian}
}

// NewReaderOrder creates a Reader with an explicit byte order.
func NewReaderOrder(data []byte, order binary.ByteOrder) *Reader {
	return &Reader{data: data, order: order}
}

// Position returns the current byte offset.
func (r *Reader) Position() int {
	return r.pos
}

// AtEnd reports whether the cursor has consumed the whole buffer.
func (r *Reader) AtEnd() bool {
	return r.pos >= len(r.data)
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// ReadHead reads a field header and returns the tag and type code. Tags
// of 15 and above occupy a second header byte.
func (r *Reader) ReadHead() (uint8, TypeCode, error) {
	start := r.pos
	b, err := r.readByte()
	if err != nil {
		return 0, 0, err
	}

	code := TypeCode(b & 0x0F)
	tag := b >> 4
	if tag == extendedTag {
		tag, err = r.readByte()
		if err != nil {
			return 0, 0, err
		}
	}

	if !code.Valid() {
		return 0, 0, errors.InvalidType(start, byte(code))
	}
	return tag, code, nil
}

// PeekHead reads a field header without advancing the cursor.
func (r *Reader) PeekHead() (uint8, TypeCode, error) {
	pos := r.pos
	tag, code, err := r.ReadHead()
	r.pos = pos
	return tag, code, err
}

// ReadInt64 reads an integer payload of the given wire type. ZeroTag
// carries no payload and yields 0.
func (r *Reader) ReadInt64(code TypeCode) (int64, error) {
	pos := r.pos
	switch code {
	case TypeZeroTag:
		return 0, nil
	case TypeInt1:
		b, err := r.readByte()
		if err != nil {
			return 0, err
		}
		return int64(int8(b)), nil
	case TypeInt2:
		v, err := r.readUint(2)
		if err != nil {
			return 0, err
		}
		return int64(int16(v)), nil
	case TypeInt4:
		v, err := r.readUint(4)
		if err != nil {
			return 0, err
		}
		return int64(int32(v)), nil
	case TypeInt8:
		v, err := r.readUint(8)
		if err != nil {
			return 0, err
		}
		return int64(v), nil
	default:
		return 0, errors.InvalidData(errors.PhaseDecode, pos, "cannot read int from type "+code.String())
	}
}

// ReadFloat32 reads a fixed 4-byte IEEE-754 single.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.readUint(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(uint32(v)), nil
}

// ReadFloat64 reads a fixed 8-byte IEEE-754 double.
func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.readUint(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// ReadString reads a length-prefixed string of the given wire type and
// validates it as UTF-8. Invalid UTF-8 is a decode error, never a silent
// replacement.
func (r *Reader) ReadString(code TypeCode) (string, error) {
	var length int
	switch code {
	case TypeString1:
		b, err := r.readByte()
		if err != nil {
			return "", err
		}
		length = int(b)
	case TypeString4:
		v, err := r.readUint(4)
		if err != nil {
			return "", err
		}
		length = int(uint32(v))
	default:
		return "", errors.InvalidData(errors.PhaseDecode, r.pos, "cannot read string from type "+code.String())
	}

	start := r.pos
	data, err := r.ReadBytes(length)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", errors.InvalidUTF8(start, data)
	}
	return string(data), nil
}

// ReadBytes returns the next n bytes as a sub-slice of the source
// buffer, without copying.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, errors.BufferOverflow(errors.PhaseDecode, r.pos)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadSize reads a container count: a header followed by an integer,
// conventionally written under tag 0.
func (r *Reader) ReadSize() (int, error) {
	_, code, err := r.ReadHead()
	if err != nil {
		return 0, err
	}
	v, err := r.ReadInt64(code)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, errors.InvalidData(errors.PhaseDecode, r.pos, "negative container size")
	}
	return int(v), nil
}

// SkipField structurally skips a field of the given wire type, recursing
// into containers and nested structs. Recursion is capped at MaxDepth.
func (r *Reader) SkipField(code TypeCode) error {
	if r.depth >= MaxDepth {
		return errors.DepthExceeded(errors.PhaseDecode)
	}
	r.depth++
	err := r.doSkipField(code)
	r.depth--
	return err
}

func (r *Reader) doSkipField(code TypeCode) error {
	switch code {
	case TypeInt1:
		return r.skip(1)
	case TypeInt2:
		return r.skip(2)
	case TypeInt4:
		return r.skip(4)
	case TypeInt8:
		return r.skip(8)
	case TypeFloat:
		return r.skip(4)
	case TypeDouble:
		return r.skip(8)
	case TypeString1:
		b, err := r.readByte()
		if err != nil {
			return err
		}
		return r.skip(int(b))
	case TypeString4:
		v, err := r.readUint(4)
		if err != nil {
			return err
		}
		return r.skip(int(uint32(v)))
	case TypeMap:
		size, err := r.ReadSize()
		if err != nil {
			return err
		}
		for i := 0; i < size*2; i++ {
			_, t, err := r.ReadHead()
			if err != nil {
				return err
			}
			if err := r.SkipField(t); err != nil {
				return err
			}
		}
		return nil
	case TypeList:
		size, err := r.ReadSize()
		if err != nil {
			return err
		}
		for i := 0; i < size; i++ {
			_, t, err := r.ReadHead()
			if err != nil {
				return err
			}
			if err := r.SkipField(t); err != nil {
				return err
			}
		}
		return nil
	case TypeSimpleList:
		elem, err := r.readByte()
		if err != nil {
			return err
		}
		if elem != 0 {
			return errors.New(errors.PhaseDecode, errors.KindInvalidData).
				Offset(r.pos).
				Detail("SimpleList element type must be byte (0), got %d", elem).
				Build()
		}
		size, err := r.ReadSize()
		if err != nil {
			return err
		}
		return r.skip(size)
	case TypeStructBegin:
		for {
			_, t, err := r.ReadHead()
			if err != nil {
				return err
			}
			if t == TypeStructEnd {
				return nil
			}
			if err := r.SkipField(t); err != nil {
				return err
			}
		}
	case TypeStructEnd, TypeZeroTag:
		return nil
	default:
		return errors.InvalidType(r.pos, byte(code))
	}
}

func (r *Reader) skip(n int) error {
	if r.pos+n > len(r.data) {
		return errors.BufferOverflow(errors.PhaseDecode, r.pos)
	}
	r.pos += n
	return nil
}

func (r *Reader) readByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, errors.BufferOverflow(errors.PhaseDecode, r.pos)
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *Reader) readUint(width int) (uint64, error) {
	if r.pos+width > len(r.data) {
		return 0, errors.BufferOverflow(errors.PhaseDecode, r.pos)
	}
	buf := r.data[r.pos : r.pos+width]
	r.pos += width
	switch width {
	case 2:
		return uint64(r.order.Uint16(buf)), nil
	case 4:
		return uint64(r.order.Uint32(buf)), nil
	default:
		return r.order.Uint64(buf), nil
	}
}
