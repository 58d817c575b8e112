package jce

import (
	"encoding/binary"

	"github.com/tarsio/jce-go/errors"
)

// Scanner walks a buffer verifying structural well-formedness without
// materializing any values. It deliberately duplicates the Reader's skip
// grammar: the Reader sometimes has to materialize while bailing out of
// a typed decode, whereas the Scanner must stay allocation-free so the
// generic decoder can probe ambiguous byte blobs cheaply.
type Scanner struct {
	data  []byte
	order binary.ByteOrder
	pos   int
	depth int
}

// NewScanner creates a big-endian Scanner over data.
func NewScanner(data []byte) *Scanner {
	return &Scanner{data: data, order: binary.BigEndian}
}

// NewScannerOrder creates a Scanner with an explicit byte order.
func NewScannerOrder(data []byte, order binary.ByteOrder) *Scanner {
	return &Scanner{data: data, order: order}
}

// AtEnd reports whether the scanner has consumed the whole buffer.
func (s *Scanner) AtEnd() bool {
	return s.pos >= len(s.data)
}

// ValidateStruct checks that the buffer is a structurally valid struct
// body: a sequence of well-formed fields terminated by StructEnd.
// Reaching end-of-buffer without StructEnd is accepted only at the root,
// where raw packets are a bare field sequence.
func (s *Scanner) ValidateStruct() error {
	if s.depth >= MaxDepth {
		return errors.DepthExceeded(errors.PhaseDecode)
	}
	s.depth++

	for !s.AtEnd() {
		_, code, err := s.readHead()
		if err != nil {
			return err
		}
		if code == TypeStructEnd {
			s.depth--
			return nil
		}
		if err := s.skipField(code); err != nil {
			return err
		}
	}

	if s.depth == 1 {
		return nil
	}
	return errors.BufferOverflow(errors.PhaseDecode, s.pos)
}

func (s *Scanner) readHead() (uint8, TypeCode, error) {
	start := s.pos
	if s.pos >= len(s.data) {
		return 0, 0, errors.BufferOverflow(errors.PhaseDecode, s.pos)
	}
	b := s.data[s.pos]
	s.pos++

	code := TypeCode(b & 0x0F)
	tag := b >> 4
	if tag == extendedTag {
		if s.pos >= len(s.data) {
			return 0, 0, errors.BufferOverflow(errors.PhaseDecode, s.pos)
		}
		tag = s.data[s.pos]
		s.pos++
	}

	if !code.Valid() {
		return 0, 0, errors.InvalidType(start, byte(code))
	}
	return tag, code, nil
}

func (s *Scanner) skipField(code TypeCode) error {
	switch code {
	case TypeInt1:
		return s.skip(1)
	case TypeInt2:
		return s.skip(2)
	case TypeInt4:
		return s.skip(4)
	case TypeInt8:
		return s.skip(8)
	case TypeFloat:
		return s.skip(4)
	case TypeDouble:
		return s.skip(8)
	case TypeString1:
		if s.pos >= len(s.data) {
			return errors.BufferOverflow(errors.PhaseDecode, s.pos)
		}
		n := int(s.data[s.pos])
		s.pos++
		return s.skip(n)
	case TypeString4:
		if s.pos+4 > len(s.data) {
			return errors.BufferOverflow(errors.PhaseDecode, s.pos)
		}
		n := int(s.order.Uint32(s.data[s.pos : s.pos+4]))
		s.pos += 4
		return s.skip(n)
	case TypeMap:
		if s.depth >= MaxDepth {
			return errors.DepthExceeded(errors.PhaseDecode)
		}
		s.depth++
		size, err := s.readSize()
		if err != nil {
			return err
		}
		for i := 0; i < size*2; i++ {
			_, t, err := s.readHead()
			if err != nil {
				return err
			}
			if err := s.skipField(t); err != nil {
				return err
			}
		}
		s.depth--
		return nil
	case TypeList:
		if s.depth >= MaxDepth {
			return errors.DepthExceeded(errors.PhaseDecode)
		}
		s.depth++
		size, err := s.readSize()
		if err != nil {
			return err
		}
		for i := 0; i < size; i++ {
			_, t, err := s.readHead()
			if err != nil {
				return err
			}
			if err := s.skipField(t); err != nil {
				return err
			}
		}
		s.depth--
		return nil
	case TypeSimpleList:
		if s.pos >= len(s.data) {
			return errors.BufferOverflow(errors.PhaseDecode, s.pos)
		}
		elem := s.data[s.pos]
		s.pos++
		if elem != 0 {
			return errors.InvalidData(errors.PhaseDecode, s.pos, "SimpleList element type must be byte")
		}
		size, err := s.readSize()
		if err != nil {
			return err
		}
		return s.skip(size)
	case TypeStructBegin:
		return s.ValidateStruct()
	case TypeStructEnd, TypeZeroTag:
		return nil
	default:
		return errors.InvalidType(s.pos, byte(code))
	}
}

// readSize accepts only the integer widths a well-formed count can use.
func (s *Scanner) readSize() (int, error) {
	_, code, err := s.readHead()
	if err != nil {
		return 0, err
	}
	var v int64
	switch code {
	case TypeZeroTag:
		v = 0
	case TypeInt1:
		if s.pos >= len(s.data) {
			return 0, errors.BufferOverflow(errors.PhaseDecode, s.pos)
		}
		v = int64(int8(s.data[s.pos]))
		s.pos++
	case TypeInt2:
		if s.pos+2 > len(s.data) {
			return 0, errors.BufferOverflow(errors.PhaseDecode, s.pos)
		}
		v = int64(int16(s.order.Uint16(s.data[s.pos : s.pos+2])))
		s.pos += 2
	case TypeInt4:
		if s.pos+4 > len(s.data) {
			return 0, errors.BufferOverflow(errors.PhaseDecode, s.pos)
		}
		v = int64(int32(s.order.Uint32(s.data[s.pos : s.pos+4])))
		s.pos += 4
	default:
		return 0, errors.InvalidData(errors.PhaseDecode, s.pos, "invalid size type "+code.String())
	}
	if v < 0 {
		return 0, errors.InvalidData(errors.PhaseDecode, s.pos, "negative container size")
	}
	return int(v), nil
}

func (s *Scanner) skip(n int) error {
	if s.pos+n > len(s.data) {
		return errors.BufferOverflow(errors.PhaseDecode, s.pos)
	}
	s.pos += n
	return nil
}
