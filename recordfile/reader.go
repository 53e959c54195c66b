package recordfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/x4b1/mqbackup"
	"github.com/x4b1/mqbackup/codec"
)

// ErrTruncated is reported for a last line that was not completely written.
var ErrTruncated = errors.New("truncated record")

//nolint:gochecknoglobals // zstd frame magic number
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

var _ mqbackup.RecordReader = (*Reader)(nil)

// Open returns a reader of the record file, detecting zstd compression.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening record file: %w", err)
	}

	r, err := NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	r.closers = append(r.closers, f.Close)

	return r, nil
}

// NewReader returns a reader of records from r, detecting zstd compression.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReaderSize(r, defaultBufferSize)

	rd := Reader{r: br}

	magic, err := br.Peek(len(zstdMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading record file: %w", err)
	}
	if bytes.Equal(magic, zstdMagic) {
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("creating zstd decoder: %w", err)
		}
		rd.r = bufio.NewReaderSize(dec, defaultBufferSize)
		rd.closers = append(rd.closers, func() error {
			dec.Close()
			return nil
		})
	}

	return &rd, nil
}

// Reader reads records sequentially.
type Reader struct {
	r       *bufio.Reader
	closers []func() error

	line    int
	headers []codec.Header
	eof     bool
}

// Next returns the next record. Header lines are collected and skipped.
// Malformed lines return a *mqbackup.DecodeError with the line number, the following
// call continues with the next line. Returns io.EOF at the end of the file.
func (r *Reader) Next() (mqbackup.Record, error) {
	for {
		if r.eof {
			return mqbackup.Record{}, io.EOF
		}

		b, err := r.r.ReadBytes('\n')
		if err != nil {
			r.eof = true
			if len(b) == 0 && errors.Is(err, io.EOF) {
				return mqbackup.Record{}, io.EOF
			}
		}
		r.line++

		if err != nil {
			// the last line was not completely written, or the stream is corrupt.
			if !errors.Is(err, io.EOF) {
				return mqbackup.Record{}, &mqbackup.DecodeError{
					Line: r.line,
					Err:  fmt.Errorf("%w: %w", ErrTruncated, err),
				}
			}
			if _, derr := codec.Decode(b); derr != nil {
				return mqbackup.Record{}, &mqbackup.DecodeError{Line: r.line, Err: ErrTruncated}
			}
		}

		if len(bytes.TrimSpace(b)) == 0 {
			continue
		}

		e, err := codec.Decode(b)
		if err != nil {
			return mqbackup.Record{}, &mqbackup.DecodeError{Line: r.line, Err: err}
		}
		if e.IsHeader() {
			r.headers = append(r.headers, *e.Header)
			continue
		}

		return e.Record, nil
	}
}

// Line returns the number of the last line read.
func (r *Reader) Line() int {
	return r.line
}

// Headers returns the headers read so far.
func (r *Reader) Headers() []codec.Header {
	return r.headers
}

// Close releases the file.
func (r *Reader) Close() error {
	errs := make([]error, 0, len(r.closers))
	for i := len(r.closers) - 1; i >= 0; i-- {
		errs = append(errs, r.closers[i]())
	}

	return errors.Join(errs...)
}
