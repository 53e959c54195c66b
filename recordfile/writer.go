// Package recordfile reads and writes record files: append only JSON lines files,
// optionally zstd compressed when the path ends with ".zst".
package recordfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/x4b1/mqbackup"
	"github.com/x4b1/mqbackup/codec"
)

const (
	// ZstdExtension enables zstd compression when the file path ends with it.
	ZstdExtension = ".zst"

	defaultMaxBatch   = 256
	defaultBufferSize = 64 * 1024
)

var _ mqbackup.RecordWriter = (*Writer)(nil)

// WriterOption defines the optional parameters for Writer.
type WriterOption func(*Writer)

// WithoutSync skips fsync after each group commit. Records are flushed to the OS
// but may be lost on power failure.
func WithoutSync() WriterOption {
	return func(w *Writer) {
		w.sync = false
	}
}

// WithMaxBatch sets how many pending records are committed together.
func WithMaxBatch(n int) WriterOption {
	return func(w *Writer) {
		if n > 0 {
			w.maxBatch = n
		}
	}
}

// Create opens the file for appending, creating it and its directory if needed.
func Create(path string, opts ...WriterOption) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating record file directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o640)
	if err != nil {
		return nil, fmt.Errorf("opening record file: %w", err)
	}

	compressed := strings.HasSuffix(path, ZstdExtension)
	if !compressed {
		if err := terminateLastLine(path, f); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	return newWriter(f, f, compressed, opts...)
}

// NewWriter returns a writer over w. Sync is only done when w is an *os.File.
func NewWriter(w io.Writer, opts ...WriterOption) (*Writer, error) {
	f, _ := w.(*os.File)

	return newWriter(w, f, false, opts...)
}

func newWriter(out io.Writer, f *os.File, compressed bool, opts ...WriterOption) (*Writer, error) {
	w := Writer{
		file:     f,
		sync:     f != nil,
		maxBatch: defaultMaxBatch,
		reqs:     make(chan appendRequest),
		done:     make(chan struct{}),
	}
	if c, ok := out.(io.Closer); ok {
		w.closer = c
	}
	for _, opt := range opts {
		opt(&w)
	}

	w.buf = bufio.NewWriterSize(out, defaultBufferSize)
	w.out = w.buf
	if compressed {
		enc, err := zstd.NewWriter(w.buf)
		if err != nil {
			return nil, fmt.Errorf("creating zstd encoder: %w", err)
		}
		w.zw = enc
		w.out = enc
	}

	go w.loop()

	return &w, nil
}

// Writer appends records to a record file. A single goroutine owns the file: appends are
// queued, written in order and committed in groups, so each record is written whole and
// never interleaved with another one.
type Writer struct {
	file   *os.File
	closer io.Closer
	buf    *bufio.Writer
	zw     *zstd.Encoder
	out    io.Writer

	sync     bool
	maxBatch int

	reqs chan appendRequest
	done chan struct{}

	mu     sync.RWMutex
	closed bool

	// err is the first write error, owned by the loop goroutine.
	err error
}

type appendRequest struct {
	line   []byte
	result chan error
}

// Append writes the record and returns once it is flushed, and synced unless disabled.
func (w *Writer) Append(ctx context.Context, r mqbackup.Record) error {
	line, err := codec.Encode(r)
	if err != nil {
		return err
	}

	return w.appendLine(ctx, line)
}

// WriteHeader appends a header line.
func (w *Writer) WriteHeader(ctx context.Context, h codec.Header) error {
	line, err := codec.EncodeHeader(h)
	if err != nil {
		return err
	}

	return w.appendLine(ctx, line)
}

func (w *Writer) appendLine(ctx context.Context, line []byte) error {
	req := appendRequest{line: line, result: make(chan error, 1)}

	w.mu.RLock()
	if w.closed {
		w.mu.RUnlock()
		return mqbackup.ErrClosed
	}
	select {
	case w.reqs <- req:
		w.mu.RUnlock()
	case <-ctx.Done():
		w.mu.RUnlock()
		return ctx.Err()
	}

	select {
	case err := <-req.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Writer) loop() {
	defer close(w.done)

	for req := range w.reqs {
		batch := []appendRequest{req}
	collect:
		for len(batch) < w.maxBatch {
			select {
			case next, ok := <-w.reqs:
				if !ok {
					break collect
				}
				batch = append(batch, next)
			default:
				break collect
			}
		}

		err := w.commit(batch)
		for _, r := range batch {
			r.result <- err
		}
	}
}

func (w *Writer) commit(batch []appendRequest) error {
	if w.err != nil {
		return w.err
	}

	for _, r := range batch {
		if _, err := w.out.Write(r.line); err != nil {
			w.err = fmt.Errorf("writing record: %w", err)
			return w.err
		}
	}

	if err := w.flush(); err != nil {
		w.err = err
		return err
	}

	return nil
}

func (w *Writer) flush() error {
	if w.zw != nil {
		if err := w.zw.Flush(); err != nil {
			return fmt.Errorf("flushing compressed records: %w", err)
		}
	}
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("flushing records: %w", err)
	}
	if w.sync && w.file != nil {
		if err := w.file.Sync(); err != nil {
			return fmt.Errorf("syncing record file: %w", err)
		}
	}

	return nil
}

// Close waits for the queued records to be committed and closes the file.
// It is safe to call Close more than once.
func (w *Writer) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.reqs)
	w.mu.Unlock()

	<-w.done

	errs := []error{w.err}
	if w.err == nil {
		if w.zw != nil {
			errs = append(errs, w.zw.Close())
		}
		errs = append(errs, w.buf.Flush())
		if w.sync && w.file != nil {
			errs = append(errs, w.file.Sync())
		}
	}
	if w.closer != nil {
		errs = append(errs, w.closer.Close())
	}

	return errors.Join(errs...)
}

// terminateLastLine appends a new line when the file ends with a torn record, so the
// next records are not glued to it.
func terminateLastLine(path string, f *os.File) error {
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("reading record file info: %w", err)
	}
	if info.Size() == 0 {
		return nil
	}

	rf, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening record file: %w", err)
	}
	defer rf.Close()

	last := make([]byte, 1)
	if _, err := rf.ReadAt(last, info.Size()-1); err != nil {
		return fmt.Errorf("reading record file tail: %w", err)
	}
	if last[0] == '\n' {
		return nil
	}

	if _, err := f.Write([]byte{'\n'}); err != nil {
		return fmt.Errorf("terminating torn record: %w", err)
	}

	return nil
}
