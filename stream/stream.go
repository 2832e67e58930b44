// Package stream provides the byte-oriented bitstream abstraction that the
// rest of skyconv reads and writes game-asset files through.
//
// Unlike a raw io.Reader/io.Writer, Reader and Writer remember whether a
// prior operation already failed (ErrFlag) or hit end of file (EOFFlag), and
// they track a byte position so callers can seek back to patch a header
// after writing a body of unknown length, exactly how the native planet and
// sprite-area formats work (a header field points at data written later in
// the same pass).
package stream

import (
	"encoding/binary"
	"errors"
	"io"
)

// Whence values for Reader.Seek and Writer.Seek, matching io.Seeker.
const (
	SeekStart   = io.SeekStart
	SeekCurrent = io.SeekCurrent
	SeekEnd     = io.SeekEnd
)

// ErrClosed is returned by any operation attempted after Close.
var ErrClosed = errors.New("stream: use of closed stream")

// Reader is a buffered, seekable, little-endian byte reader with sticky
// error and EOF flags. Once an operation fails, every subsequent operation
// returns the same error until the flags are cleared by ClearError.
type Reader struct {
	r      io.ReadSeeker
	err    error
	eof    bool
	pos    int64
	closed bool
}

// NewReader wraps rs as a Reader. rs must support Seek for BadSeek/BadTell
// reporting; callers that only need forward reads can wrap a non-seekable
// source with io.NewSectionReader over a buffered copy.
func NewReader(rs io.ReadSeeker) *Reader {
	return &Reader{r: rs}
}

// Error reports the sticky error, if any.
func (r *Reader) Error() error {
	if r.closed {
		return ErrClosed
	}
	return r.err
}

// EOF reports whether the last read hit end of file.
func (r *Reader) EOF() bool {
	return r.eof
}

// ClearError clears the sticky error and EOF flags, mirroring the host
// stream contract's fclearerr.
func (r *Reader) ClearError() {
	r.err = nil
	r.eof = false
}

// Tell returns the current byte offset, or -1 if BadTell is in effect.
func (r *Reader) Tell() int64 {
	if r.err != nil {
		return -1
	}
	return r.pos
}

// Seek repositions the stream. On failure it sets the sticky error and
// returns it.
func (r *Reader) Seek(offset int64, whence int) error {
	if r.closed {
		return ErrClosed
	}
	if r.err != nil {
		return r.err
	}
	n, err := r.r.Seek(offset, whence)
	if err != nil {
		r.err = err
		return err
	}
	r.pos = n
	r.eof = false
	return nil
}

// Read fills buf, returning the number of bytes read. Any failure sets the
// sticky error; a short read additionally sets the EOF flag.
func (r *Reader) Read(buf []byte) (int, error) {
	if r.closed {
		return 0, ErrClosed
	}
	if r.err != nil {
		return 0, r.err
	}
	n, err := io.ReadFull(r.r, buf)
	r.pos += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			r.eof = true
		}
		r.err = err
		return n, err
	}
	return n, nil
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	var b [1]byte
	_, err := r.Read(b[:])
	return b[0], err
}

// ReadInt32LE reads a little-endian, two's-complement 32-bit integer.
func (r *Reader) ReadInt32LE() (int32, error) {
	var buf [4]byte
	if _, err := r.Read(buf[:]); err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(buf[:])), nil
}

// ReadUint32LE reads a little-endian 32-bit unsigned integer.
func (r *Reader) ReadUint32LE() (uint32, error) {
	var buf [4]byte
	if _, err := r.Read(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// Close releases the underlying resource if it implements io.Closer.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if c, ok := r.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Writer is a seekable, little-endian byte writer with a sticky error flag.
type Writer struct {
	w      io.WriteSeeker
	err    error
	pos    int64
	total  int64
	closed bool
}

// NewWriter wraps ws as a Writer.
func NewWriter(ws io.WriteSeeker) *Writer {
	return &Writer{w: ws}
}

// Error reports the sticky error, if any.
func (w *Writer) Error() error {
	if w.closed {
		return ErrClosed
	}
	return w.err
}

// Tell returns the current byte offset, or -1 if an error is in effect.
func (w *Writer) Tell() int64 {
	if w.err != nil {
		return -1
	}
	return w.pos
}

// Seek repositions the stream, e.g. to patch a header field after writing
// the body whose size it describes.
func (w *Writer) Seek(offset int64, whence int) error {
	if w.closed {
		return ErrClosed
	}
	if w.err != nil {
		return w.err
	}
	n, err := w.w.Seek(offset, whence)
	if err != nil {
		w.err = err
		return err
	}
	w.pos = n
	if w.pos > w.total {
		w.total = w.pos
	}
	return nil
}

// Write writes buf in full.
func (w *Writer) Write(buf []byte) (int, error) {
	if w.closed {
		return 0, ErrClosed
	}
	if w.err != nil {
		return 0, w.err
	}
	n, err := w.w.Write(buf)
	w.pos += int64(n)
	if w.pos > w.total {
		w.total = w.pos
	}
	if err != nil {
		w.err = err
	}
	return n, err
}

// WriteByte writes a single byte.
func (w *Writer) WriteByte(b byte) error {
	_, err := w.Write([]byte{b})
	return err
}

// WriteInt32LE writes a little-endian, two's-complement 32-bit integer.
func (w *Writer) WriteInt32LE(v int32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(v))
	_, err := w.Write(buf[:])
	return err
}

// WriteUint32LE writes a little-endian 32-bit unsigned integer.
func (w *Writer) WriteUint32LE(v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// Close finalizes the stream and returns the total number of bytes written,
// or -1 if a sticky error is in effect.
func (w *Writer) Close() (int64, error) {
	if w.closed {
		return -1, nil
	}
	w.closed = true
	if c, ok := w.w.(io.Closer); ok {
		if err := c.Close(); err != nil {
			w.err = err
		}
	}
	if w.err != nil {
		return -1, w.err
	}
	return w.total, nil
}
