package aseprite

// This file contains the sequential little-endian cursor all decoders read
// through. Every read advances pos; a short read is an ErrUnexpectedEOF
// DecodeError carrying the offset at which the read started.

import (
	"encoding/binary"
	"io"
)

type reader struct {
	rs   io.ReadSeeker
	pos  int64
	size int64
	tmp  [4]byte
}

func newReader(rs io.ReadSeeker) (*reader, error) {
	start, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, newError(ErrUnexpectedEOF, 0, "could not query stream position: %v", err)
	}
	end, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, newError(ErrUnexpectedEOF, start, "could not query stream size: %v", err)
	}
	if _, err := rs.Seek(start, io.SeekStart); err != nil {
		return nil, newError(ErrUnexpectedEOF, start, "could not rewind stream: %v", err)
	}
	return &reader{rs: rs, pos: start, size: end}, nil
}

// Read implements io.Reader over the cursor so that the inflater can pull
// compressed bytes while pos stays accurate.
func (r *reader) Read(p []byte) (int, error) {
	n, err := r.rs.Read(p)
	r.pos += int64(n)
	return n, err
}

func (r *reader) position() int64 {
	return r.pos
}

func (r *reader) remaining() int64 {
	return r.size - r.pos
}

func (r *reader) readFull(p []byte) error {
	at := r.pos
	if int64(len(p)) > r.remaining() {
		return newError(ErrUnexpectedEOF, at, "need %d bytes, have %d", len(p), r.remaining())
	}
	if _, err := io.ReadFull(r, p); err != nil {
		return newError(ErrUnexpectedEOF, at, "short read of %d bytes: %v", len(p), err)
	}
	return nil
}

// fixed reads a fixed-layout struct (blank fields are skipped).
func (r *reader) fixed(v interface{}) error {
	at := r.pos
	size := binary.Size(v)
	if size < 0 {
		panic("aseprite: fixed read of a variable-size value")
	}
	if int64(size) > r.remaining() {
		return newError(ErrUnexpectedEOF, at, "need %d bytes for %T, have %d", size, v, r.remaining())
	}
	if err := binary.Read(r, binary.LittleEndian, v); err != nil {
		return newError(ErrUnexpectedEOF, at, "could not read %T: %v", v, err)
	}
	return nil
}

func (r *reader) u8() (uint8, error) {
	if err := r.readFull(r.tmp[:1]); err != nil {
		return 0, err
	}
	return r.tmp[0], nil
}

func (r *reader) u16() (uint16, error) {
	if err := r.readFull(r.tmp[:2]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(r.tmp[:2]), nil
}

func (r *reader) i16() (int16, error) {
	v, err := r.u16()
	return int16(v), err
}

func (r *reader) u32() (uint32, error) {
	if err := r.readFull(r.tmp[:4]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(r.tmp[:4]), nil
}

// i32 reads a signed 32-bit value widened to int64.
func (r *reader) i32() (int64, error) {
	v, err := r.u32()
	return int64(int32(v)), err
}

func (r *reader) bytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, newError(ErrInvalidFormat, r.pos, "negative length %d", n)
	}
	b := make([]byte, n)
	if err := r.readFull(b); err != nil {
		return nil, err
	}
	return b, nil
}

// str reads a u16 byte length followed by that many bytes of UTF-8.
func (r *reader) str() (string, error) {
	n, err := r.u16()
	if err != nil {
		return "", err
	}
	b, err := r.bytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *reader) skip(n int64) error {
	return r.seekTo(r.pos + n)
}

// seekTo moves the cursor to an absolute offset. Offsets past the end of the
// stream are an error; the end itself is fine.
func (r *reader) seekTo(off int64) error {
	if off < 0 || off > r.size {
		return newError(ErrUnexpectedEOF, r.pos, "seek to 0x%x outside stream of %d bytes", off, r.size)
	}
	if off == r.pos {
		return nil
	}
	if _, err := r.rs.Seek(off, io.SeekStart); err != nil {
		return newError(ErrUnexpectedEOF, r.pos, "seek to 0x%x: %v", off, err)
	}
	r.pos = off
	return nil
}
