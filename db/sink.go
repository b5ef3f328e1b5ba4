package db

import (
	"io"
	"os"
	"sync"
)

type Sink interface {
	io.Closer
	io.WriterAt
	io.ReaderAt

	Size() (int64, error)
}

type fileSink struct {
	*os.File
}

func (sink fileSink) Size() (size int64, err error) {
	stat, err := sink.Stat()
	if err != nil {
		return
	}
	size = stat.Size()
	return
}

// MemSink is a Sink backed by a growable byte slice.
type MemSink struct {
	mu  sync.Mutex
	buf []byte
}

func NewMemSink() *MemSink {
	return &MemSink{}
}

func (sink *MemSink) ReadAt(p []byte, off int64) (int, error) {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if off >= int64(len(sink.buf)) {
		return 0, io.EOF
	}
	n := copy(p, sink.buf[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (sink *MemSink) WriteAt(p []byte, off int64) (int, error) {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if end := off + int64(len(p)); end > int64(len(sink.buf)) {
		grown := make([]byte, end)
		copy(grown, sink.buf)
		sink.buf = grown
	}
	return copy(sink.buf[off:], p), nil
}

func (sink *MemSink) Size() (int64, error) {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	return int64(len(sink.buf)), nil
}

func (sink *MemSink) Close() error {
	return nil
}
