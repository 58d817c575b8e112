package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseCompile Phase = "compile" // schema compilation
	PhaseEncode  Phase = "encode"  // value to wire bytes
	PhaseDecode  Phase = "decode"  // wire bytes to value
	PhaseFrame   Phase = "frame"   // stream framing
)

// Kind categorizes the error
type Kind string

const (
	KindBufferOverflow Kind = "buffer_overflow"
	KindInvalidType    Kind = "invalid_type"
	KindInvalidData    Kind = "invalid_data"
	KindDepthExceeded  Kind = "depth_exceeded"
	KindInvalidLength  Kind = "invalid_length"
	KindFrameTooLarge  Kind = "frame_too_large"
	KindDuplicateTag   Kind = "duplicate_tag"
	KindTypeMismatch   Kind = "type_mismatch"
	KindUnsupported    Kind = "unsupported"
)

// Error is the structured error type used throughout the codec.
// Offset is the byte position in the input where the error was detected;
// it is -1 when no position applies (compile and frame errors).
type Error struct {
	Cause    error
	Phase    Phase
	Kind     Kind
	Detail   string
	Offset   int
	TypeCode uint8
	Tag      uint8
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Offset >= 0 {
		b.WriteString(" at offset ")
		b.WriteString(strconv.Itoa(e.Offset))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase:  phase,
			Kind:   kind,
			Offset: -1,
		},
	}
}

// Offset sets the byte offset in the input
func (b *Builder) Offset(off int) *Builder {
	b.err.Offset = off
	return b
}

// TypeCode sets the offending wire type code
func (b *Builder) TypeCode(code uint8) *Builder {
	b.err.TypeCode = code
	return b
}

// Tag sets the offending field tag
func (b *Builder) Tag(tag uint8) *Builder {
	b.err.Tag = tag
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// BufferOverflow creates a read-past-end error at the given byte offset.
func BufferOverflow(phase Phase, offset int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindBufferOverflow,
		Offset: offset,
		Detail: "unexpected end of buffer",
	}
}

// InvalidType creates an unrecognized wire type code error.
func InvalidType(offset int, code uint8) *Error {
	return &Error{
		Phase:    PhaseDecode,
		Kind:     KindInvalidType,
		Offset:   offset,
		TypeCode: code,
		Detail:   fmt.Sprintf("invalid type code %d", code),
	}
}

// InvalidData creates a contextual decode error at the given offset.
func InvalidData(phase Phase, offset int, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Offset: offset,
		Detail: detail,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error with a bounded data preview.
func InvalidUTF8(offset int, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidData,
		Offset: offset,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// DepthExceeded creates a recursion-cap error.
func DepthExceeded(phase Phase) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDepthExceeded,
		Offset: -1,
		Detail: "max recursion depth exceeded",
	}
}

// DuplicateTag creates a schema compile-time duplicate tag error.
func DuplicateTag(tag uint8) *Error {
	return &Error{
		Phase:  PhaseCompile,
		Kind:   KindDuplicateTag,
		Offset: -1,
		Tag:    tag,
		Detail: fmt.Sprintf("duplicate tag %d in schema", tag),
	}
}

// TypeMismatch creates a host-type vs declared-type error.
func TypeMismatch(phase Phase, goType, wireType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Offset: -1,
		Detail: fmt.Sprintf("Go type %s, wire type %s", goType, wireType),
	}
}

// Unsupported creates an unsupported operation error.
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Offset: -1,
		Detail: what,
	}
}

// InvalidLength creates a framing error for an inclusive length smaller
// than the length header itself.
func InvalidLength(length, header int) *Error {
	return &Error{
		Phase:  PhaseFrame,
		Kind:   KindInvalidLength,
		Offset: -1,
		Detail: fmt.Sprintf("frame length %d is invalid (less than header length %d)", length, header),
	}
}

// FrameTooLarge creates a framing error for a packet exceeding the limit.
func FrameTooLarge(size, limit int) *Error {
	return &Error{
		Phase:  PhaseFrame,
		Kind:   KindFrameTooLarge,
		Offset: -1,
		Detail: fmt.Sprintf("frame length %d exceeds limit %d", size, limit),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Offset: -1,
		Detail: detail,
		Cause:  cause,
	}
}
