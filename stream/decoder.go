package stream

import (
	"go.uber.org/zap"

	"github.com/tarsio/jce-go/codec"
	"github.com/tarsio/jce-go/errors"
)

// Decoder reassembles length-prefixed frames from an arbitrarily
// chunked byte stream and decodes each frame body. Frames decode
// through a schema when one is attached, generically otherwise.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	cfg          Config
	buf          []byte
	schema       *codec.Schema
	opts         codec.Options
	mode         codec.BytesMode
	maxBuffer    int
	drainOnError bool
	fatal        error
}

// DecoderOption configures a Decoder at construction.
type DecoderOption func(*Decoder)

// WithSchema decodes every frame body against a compiled schema,
// yielding map[string]any values from Next.
func WithSchema(s *codec.Schema) DecoderOption {
	return func(d *Decoder) { d.schema = s }
}

// WithOptions sets the codec option bits applied to every frame.
func WithOptions(o codec.Options) DecoderOption {
	return func(d *Decoder) { d.opts = o }
}

// WithBytesMode sets the SimpleList interpretation for generic decode.
func WithBytesMode(m codec.BytesMode) DecoderOption {
	return func(d *Decoder) { d.mode = m }
}

// WithMaxBuffer caps the number of bytes the decoder will hold between
// Feed and Next. Zero means unbounded.
func WithMaxBuffer(n int) DecoderOption {
	return func(d *Decoder) { d.maxBuffer = n }
}

// WithDrainOnError controls what happens to a frame whose body fails to
// decode. When true, the default, the frame is dropped so the stream
// can make progress; when false it stays buffered and every Next call
// reports the same error until the caller intervenes.
func WithDrainOnError(drain bool) DecoderOption {
	return func(d *Decoder) { d.drainOnError = drain }
}

// NewDecoder creates a frame decoder. Generic decoding with BytesAuto
// is the default; attach a schema with WithSchema.
func NewDecoder(cfg Config, opts ...DecoderOption) (*Decoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d := &Decoder{
		cfg:          cfg,
		mode:         codec.BytesAuto,
		drainOnError: true,
	}
	for _, o := range opts {
		o(d)
	}
	return d, nil
}

// Feed appends stream bytes to the internal buffer. It fails when the
// buffer would grow past the configured maximum.
func (d *Decoder) Feed(p []byte) error {
	if d.maxBuffer > 0 && len(d.buf)+len(p) > d.maxBuffer {
		return errors.New(errors.PhaseFrame, errors.KindFrameTooLarge).
			Detail("buffer of %d bytes would exceed limit %d", len(d.buf)+len(p), d.maxBuffer).
			Build()
	}
	d.buf = append(d.buf, p...)
	return nil
}

// Buffered returns the number of bytes held but not yet consumed.
func (d *Decoder) Buffered() int {
	return len(d.buf)
}

// Next decodes the next complete frame. It returns (nil, nil) when the
// buffer holds no complete frame yet. Framing errors are fatal and
// repeat on every subsequent call; decode errors consume or keep the
// offending frame per the drain policy.
func (d *Decoder) Next() (any, error) {
	if d.fatal != nil {
		return nil, d.fatal
	}

	n, ok, err := d.cfg.CheckFrame(d.buf)
	if err != nil {
		// The stream is desynchronized; no later frame boundary can
		// be trusted.
		d.fatal = err
		Logger().Debug("stream fatal", zap.Error(err))
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	body := d.buf[d.cfg.LengthWidth:n]
	Logger().Debug("frame ready",
		zap.Int("frame_size", n),
		zap.Int("body_size", len(body)))

	var v any
	var derr error
	if d.schema != nil {
		v, derr = codec.DecodeStruct(body, d.schema, d.opts, d.mode)
	} else {
		v, derr = codec.DecodeGeneric(body, d.opts, d.mode)
	}
	if derr != nil {
		if d.drainOnError {
			d.consume(n)
			Logger().Debug("frame dropped", zap.Error(derr))
		}
		return nil, derr
	}

	d.consume(n)
	return v, nil
}

// Reset discards all buffered bytes and clears any fatal state.
func (d *Decoder) Reset() {
	d.buf = d.buf[:0]
	d.fatal = nil
}

func (d *Decoder) consume(n int) {
	d.buf = append(d.buf[:0], d.buf[n:]...)
}
