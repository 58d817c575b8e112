package stream

import (
	"encoding/binary"
	"fmt"

	"github.com/tarsio/jce-go/errors"
)

// Config describes the length-prefix framing of a packet stream.
type Config struct {
	// LengthWidth is the size of the length prefix in bytes: 1, 2 or 4.
	LengthWidth int

	// Inclusive means the length value counts the prefix itself; the
	// body is length minus LengthWidth bytes. Exclusive lengths count
	// only the body.
	Inclusive bool

	// LittleEndian selects the byte order of the length prefix.
	LittleEndian bool

	// MaxFrameSize caps the total frame size, prefix included. Zero
	// means no cap.
	MaxFrameSize int
}

// Validate checks the configuration. A Config must validate before use.
func (c Config) Validate() error {
	switch c.LengthWidth {
	case 1, 2, 4:
	default:
		return errors.New(errors.PhaseFrame, errors.KindInvalidLength).
			Detail("length width must be 1, 2 or 4, got %d", c.LengthWidth).
			Build()
	}
	if c.MaxFrameSize < 0 {
		return errors.New(errors.PhaseFrame, errors.KindInvalidLength).
			Detail("negative max frame size %d", c.MaxFrameSize).
			Build()
	}
	return nil
}

// CheckFrame examines the start of buf for a complete frame.
//
// It returns (0, false, nil) when more bytes are needed, (n, true, nil)
// when the first n bytes of buf form a complete frame, and a non-nil
// error for conditions no amount of further input can repair: an
// inclusive length smaller than the prefix itself, or a frame beyond
// MaxFrameSize.
func (c Config) CheckFrame(buf []byte) (int, bool, error) {
	if len(buf) < c.LengthWidth {
		return 0, false, nil
	}

	var length int
	switch c.LengthWidth {
	case 1:
		length = int(buf[0])
	case 2:
		if c.LittleEndian {
			length = int(binary.LittleEndian.Uint16(buf))
		} else {
			length = int(binary.BigEndian.Uint16(buf))
		}
	case 4:
		var v uint32
		if c.LittleEndian {
			v = binary.LittleEndian.Uint32(buf)
		} else {
			v = binary.BigEndian.Uint32(buf)
		}
		length = int(v)
	}

	var total int
	if c.Inclusive {
		if length < c.LengthWidth {
			return 0, false, errors.InvalidLength(length, c.LengthWidth)
		}
		total = length
	} else {
		total = c.LengthWidth + length
	}

	if c.MaxFrameSize > 0 && total > c.MaxFrameSize {
		return 0, false, errors.FrameTooLarge(total, c.MaxFrameSize)
	}
	if len(buf) < total {
		return 0, false, nil
	}
	return total, true, nil
}

// Frame prepends the configured length prefix to body, producing one
// wire frame.
func (c Config) Frame(body []byte) ([]byte, error) {
	length := len(body)
	if c.Inclusive {
		length += c.LengthWidth
	}

	var limit int
	switch c.LengthWidth {
	case 1:
		limit = 1<<8 - 1
	case 2:
		limit = 1<<16 - 1
	case 4:
		limit = 1<<31 - 1
	default:
		return nil, fmt.Errorf("unvalidated config: length width %d", c.LengthWidth)
	}
	if length > limit {
		return nil, errors.FrameTooLarge(length, limit)
	}
	if c.MaxFrameSize > 0 && c.LengthWidth+len(body) > c.MaxFrameSize {
		return nil, errors.FrameTooLarge(c.LengthWidth+len(body), c.MaxFrameSize)
	}

	out := make([]byte, c.LengthWidth+len(body))
	switch c.LengthWidth {
	case 1:
		out[0] = byte(length)
	case 2:
		if c.LittleEndian {
			binary.LittleEndian.PutUint16(out, uint16(length))
		} else {
			binary.BigEndian.PutUint16(out, uint16(length))
		}
	case 4:
		if c.LittleEndian {
			binary.LittleEndian.PutUint32(out, uint32(length))
		} else {
			binary.BigEndian.PutUint32(out, uint32(length))
		}
	}
	copy(out[c.LengthWidth:], body)
	return out, nil
}
