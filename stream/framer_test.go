package stream_test

import (
	"bytes"
	stderrors "errors"
	"testing"

	"github.com/tarsio/jce-go/errors"
	"github.com/tarsio/jce-go/stream"
)

func TestConfigValidate(t *testing.T) {
	if err := (stream.Config{LengthWidth: 4}).Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
	if err := (stream.Config{LengthWidth: 3}).Validate(); err == nil {
		t.Error("width 3 accepted")
	}
	if err := (stream.Config{LengthWidth: 2, MaxFrameSize: -1}).Validate(); err == nil {
		t.Error("negative max accepted")
	}
}

func TestCheckFrameInclusive(t *testing.T) {
	cfg := stream.Config{LengthWidth: 4, Inclusive: true, MaxFrameSize: 1024}

	// Length 10 counts the 4-byte prefix: 6 body bytes complete it.
	buf := []byte{0x00, 0x00, 0x00, 0x0A, 1, 2, 3, 4, 5, 6}
	n, ok, err := cfg.CheckFrame(buf)
	if err != nil || !ok || n != 10 {
		t.Errorf("complete frame: (%d, %v, %v), want (10, true, nil)", n, ok, err)
	}

	// One byte short.
	n, ok, err = cfg.CheckFrame(buf[:9])
	if err != nil || ok || n != 0 {
		t.Errorf("short frame: (%d, %v, %v), want awaiting", n, ok, err)
	}

	// Not even a full prefix.
	if _, ok, err := cfg.CheckFrame(buf[:3]); ok || err != nil {
		t.Errorf("partial prefix: (%v, %v)", ok, err)
	}
}

func TestCheckFrameInclusiveTooSmall(t *testing.T) {
	cfg := stream.Config{LengthWidth: 4, Inclusive: true}
	// An inclusive length of 2 cannot even cover its own prefix.
	_, _, err := cfg.CheckFrame([]byte{0x00, 0x00, 0x00, 0x02})
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseFrame, Kind: errors.KindInvalidLength}) {
		t.Errorf("expected invalid_length, got %v", err)
	}
}

func TestCheckFrameTooLarge(t *testing.T) {
	cfg := stream.Config{LengthWidth: 4, Inclusive: true, MaxFrameSize: 16}
	_, _, err := cfg.CheckFrame([]byte{0x00, 0x00, 0x01, 0x00})
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseFrame, Kind: errors.KindFrameTooLarge}) {
		t.Errorf("expected frame_too_large, got %v", err)
	}
}

func TestCheckFrameExclusive(t *testing.T) {
	cfg := stream.Config{LengthWidth: 2}
	// Exclusive length 3 plus the 2-byte prefix is a 5-byte frame.
	buf := []byte{0x00, 0x03, 0xAA, 0xBB, 0xCC}
	n, ok, err := cfg.CheckFrame(buf)
	if err != nil || !ok || n != 5 {
		t.Errorf("got (%d, %v, %v), want (5, true, nil)", n, ok, err)
	}

	// A zero-length body is a complete frame of just the prefix.
	n, ok, err = cfg.CheckFrame([]byte{0x00, 0x00})
	if err != nil || !ok || n != 2 {
		t.Errorf("empty body: (%d, %v, %v)", n, ok, err)
	}
}

func TestCheckFrameLittleEndian(t *testing.T) {
	cfg := stream.Config{LengthWidth: 2, LittleEndian: true}
	buf := []byte{0x03, 0x00, 1, 2, 3}
	n, ok, err := cfg.CheckFrame(buf)
	if err != nil || !ok || n != 5 {
		t.Errorf("got (%d, %v, %v), want (5, true, nil)", n, ok, err)
	}
}

func TestCheckFrameWidthOne(t *testing.T) {
	cfg := stream.Config{LengthWidth: 1, Inclusive: true}
	buf := []byte{0x03, 0xAA, 0xBB}
	n, ok, err := cfg.CheckFrame(buf)
	if err != nil || !ok || n != 3 {
		t.Errorf("got (%d, %v, %v), want (3, true, nil)", n, ok, err)
	}
}

func TestFrameRoundTrip(t *testing.T) {
	configs := []stream.Config{
		{LengthWidth: 1},
		{LengthWidth: 2, Inclusive: true},
		{LengthWidth: 4, LittleEndian: true},
		{LengthWidth: 4, Inclusive: true, LittleEndian: true},
	}
	body := []byte("packet body")
	for _, cfg := range configs {
		framed, err := cfg.Frame(body)
		if err != nil {
			t.Fatalf("%+v: Frame: %v", cfg, err)
		}
		n, ok, err := cfg.CheckFrame(framed)
		if err != nil || !ok || n != len(framed) {
			t.Errorf("%+v: CheckFrame = (%d, %v, %v), want (%d, true, nil)", cfg, n, ok, err, len(framed))
		}
		if !bytes.Equal(framed[cfg.LengthWidth:], body) {
			t.Errorf("%+v: body mangled", cfg)
		}
	}
}

func TestFrameBodyTooLargeForWidth(t *testing.T) {
	cfg := stream.Config{LengthWidth: 1}
	if _, err := cfg.Frame(make([]byte, 300)); err == nil {
		t.Error("300-byte body accepted with a 1-byte prefix")
	}
}
