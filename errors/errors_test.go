package errors_test

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/tarsio/jce-go/errors"
)

func TestErrorFormat(t *testing.T) {
	tests := []struct {
		name string
		err  *errors.Error
		want string
	}{
		{
			name: "buffer overflow with offset",
			err:  errors.BufferOverflow(errors.PhaseDecode, 17),
			want: "[decode] buffer_overflow at offset 17: unexpected end of buffer",
		},
		{
			name: "invalid type",
			err:  errors.InvalidType(3, 14),
			want: "[decode] invalid_type at offset 3: invalid type code 14",
		},
		{
			name: "duplicate tag has no offset",
			err:  errors.DuplicateTag(5),
			want: "[compile] duplicate_tag: duplicate tag 5 in schema",
		},
		{
			name: "frame too large",
			err:  errors.FrameTooLarge(101, 100),
			want: "[frame] frame_too_large: frame length 101 exceeds limit 100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	err := errors.BufferOverflow(errors.PhaseDecode, 42)

	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindBufferOverflow}) {
		t.Error("expected match on phase+kind")
	}
	if stderrors.Is(err, &errors.Error{Phase: errors.PhaseEncode, Kind: errors.KindBufferOverflow}) {
		t.Error("should not match different phase")
	}
	if stderrors.Is(err, &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindInvalidType}) {
		t.Error("should not match different kind")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := stderrors.New("underlying")
	err := errors.Wrap(errors.PhaseFrame, errors.KindInvalidData, cause, "decode body")

	if !stderrors.Is(err, cause) {
		t.Error("expected cause to be reachable via Unwrap")
	}
	if !strings.Contains(err.Error(), "caused by: underlying") {
		t.Errorf("cause missing from message: %q", err.Error())
	}
}

func TestBuilder(t *testing.T) {
	err := errors.New(errors.PhaseDecode, errors.KindInvalidData).
		Offset(9).
		TypeCode(7).
		Detail("SimpleList element type must be byte, got %d", 7).
		Build()

	if err.Offset != 9 {
		t.Errorf("offset = %d, want 9", err.Offset)
	}
	if err.TypeCode != 7 {
		t.Errorf("type code = %d, want 7", err.TypeCode)
	}
	want := "[decode] invalid_data at offset 9: SimpleList element type must be byte, got 7"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestInvalidUTF8Preview(t *testing.T) {
	data := make([]byte, 100)
	for i := range data {
		data[i] = 0xFF
	}
	err := errors.InvalidUTF8(0, data)
	// 32-byte preview means 64 hex chars.
	if strings.Count(err.Detail, "ff") != 32 {
		t.Errorf("preview not truncated to 32 bytes: %q", err.Detail)
	}
}
