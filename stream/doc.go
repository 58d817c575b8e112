// Package stream reassembles length-prefixed packet frames from a byte
// stream and decodes their bodies.
//
// # Framing
//
// Config describes the prefix: its width (1, 2 or 4 bytes), whether the
// length counts the prefix itself, its byte order, and an optional size
// cap. CheckFrame classifies the buffered bytes three ways: awaiting
// more input, a complete frame of n bytes, or a fatal condition that no
// further input can repair. An inclusive length smaller than its own
// prefix and a frame beyond the cap are fatal, because the stream's
// frame boundaries can no longer be trusted.
//
// # Decoding
//
// Decoder couples a framer with the object codec. Feed it stream chunks
// of any size; Next yields one decoded frame body at a time, either
// through a compiled schema (WithSchema) or generically. A frame that
// frames correctly but fails to decode is dropped by default so the
// stream keeps moving; WithDrainOnError(false) keeps it buffered
// instead.
//
// Debug logging goes through this package's zap logger, a no-op unless
// SetLogger is called.
package stream
