package codec

import (
	"encoding/binary"
	"sync"

	"github.com/tarsio/jce-go/jce"
)

// Writers whose buffers grew past this are not returned to the pool, so
// one oversized payload does not pin memory for the process lifetime.
const maxPooledWriterCap = 64 * 1024

var bigEndianWriters = sync.Pool{
	New: func() any { return jce.NewWriter() },
}

var littleEndianWriters = sync.Pool{
	New: func() any { return jce.NewWriterOrder(binary.LittleEndian) },
}

// getWriter borrows a reset Writer for the byte order selected by opts.
func getWriter(opts Options) *jce.Writer {
	var w *jce.Writer
	if opts&OptLittleEndian != 0 {
		w = littleEndianWriters.Get().(*jce.Writer)
	} else {
		w = bigEndianWriters.Get().(*jce.Writer)
	}
	w.Reset()
	return w
}

func putWriter(w *jce.Writer, opts Options) {
	if w.Cap() > maxPooledWriterCap {
		return
	}
	if opts&OptLittleEndian != 0 {
		littleEndianWriters.Put(w)
	} else {
		bigEndianWriters.Put(w)
	}
}
