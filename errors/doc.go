// Package errors provides structured error types for the JCE codec.
//
// Every error carries a Phase (where in processing it occurred) and a
// Kind (what went wrong), plus the byte offset in the input when one
// applies. Errors render as:
//
//	[decode] buffer_overflow at offset 17: unexpected end of buffer
//	[compile] duplicate_tag: duplicate tag 3 in schema
//
// # Matching
//
// Errors match with errors.Is on Phase and Kind:
//
//	if errors.Is(err, &codecerrors.Error{Phase: codecerrors.PhaseDecode, Kind: codecerrors.KindBufferOverflow}) {
//	    // truncated input
//	}
//
// # Construction
//
// Use the convenience constructors for common cases, or the Builder for
// anything richer:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidData).
//	    Offset(pos).
//	    Detail("SimpleList element type must be byte, got %d", elem).
//	    Build()
package errors
