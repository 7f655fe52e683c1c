package binary

import (
	"encoding/binary"
	"math"

	"github.com/wippyai/wasm-encoder/errors"
)

// Writer provides append-only writing utilities for WASM binary encoding.
// The zero value is an empty writer ready to use.
type Writer struct {
	buf []byte
}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Byte writes a single byte.
func (w *Writer) Byte(b byte) {
	w.buf = append(w.buf, b)
}

// WriteBytes writes a byte slice.
func (w *Writer) WriteBytes(data []byte) {
	w.buf = append(w.buf, data...)
}

// WriteU32 writes an unsigned LEB128 encoded uint32.
func (w *Writer) WriteU32(v uint32) {
	w.buf = AppendU32(w.buf, v)
}

// WriteU64 writes an unsigned LEB128 encoded uint64.
func (w *Writer) WriteU64(v uint64) {
	w.buf = AppendU64(w.buf, v)
}

// WriteS32 writes a signed LEB128 encoded int32.
func (w *Writer) WriteS32(v int32) {
	w.buf = AppendS64(w.buf, int64(v))
}

// WriteS64 writes a signed LEB128 encoded int64.
func (w *Writer) WriteS64(v int64) {
	w.buf = AppendS64(w.buf, v)
}

// WriteF32 writes a little-endian float32.
func (w *Writer) WriteF32(v float32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, math.Float32bits(v))
}

// WriteF64 writes a little-endian float64.
func (w *Writer) WriteF64(v float64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, math.Float64bits(v))
}

// WriteName writes a UTF-8 encoded name (length-prefixed).
func (w *Writer) WriteName(s string) {
	w.WriteU32(Len32(len(s), "name"))
	w.buf = append(w.buf, s...)
}

// WriteSized writes data prefixed by its LEB128 encoded length.
func (w *Writer) WriteSized(data []byte, what string) {
	w.WriteU32(Len32(len(data), what))
	w.buf = append(w.buf, data...)
}

// Truncate discards everything written after the first n bytes.
func (w *Writer) Truncate(n int) {
	w.buf = w.buf[:n]
}

// Extend passes the written bytes to fn and keeps the slice it returns.
// fn must only append.
func (w *Writer) Extend(fn func([]byte) []byte) {
	w.buf = fn(w.buf)
}

// WriteU32LE writes a little-endian uint32 (fixed 4 bytes).
func (w *Writer) WriteU32LE(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

// AppendU32 appends the unsigned LEB128 encoding of v to dst.
func AppendU32(dst []byte, v uint32) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		dst = append(dst, b)
		if v == 0 {
			return dst
		}
	}
}

// AppendU64 appends the unsigned LEB128 encoding of v to dst.
func AppendU64(dst []byte, v uint64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		dst = append(dst, b)
		if v == 0 {
			return dst
		}
	}
}

// AppendS64 appends the signed LEB128 encoding of v to dst.
func AppendS64(dst []byte, v int64) []byte {
	more := true
	for more {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && (b&0x40) == 0) || (v == -1 && (b&0x40) != 0) {
			more = false
		} else {
			b |= 0x80
		}
		dst = append(dst, b)
	}
	return dst
}

// SizeU32 returns the number of bytes AppendU32 writes for v.
func SizeU32(v uint32) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// Len32 converts a Go length to the u32 the format stores.
// Lengths that do not fit panic with an overflow *errors.Error.
func Len32(n int, what string) uint32 {
	if uint64(n) > math.MaxUint32 {
		panic(errors.New(errors.PhaseEncode, errors.KindOverflow).
			Path(what).
			Value(n).
			Detail("length %d of %s exceeds u32", n, what).
			Build())
	}
	return uint32(n)
}

// Inc32 returns count+1, panicking with an overflow *errors.Error when the
// entry count of a section would wrap.
func Inc32(count uint32, what string) uint32 {
	if count == math.MaxUint32 {
		panic(errors.Overflow(errors.PhaseEncode, []string{what}, uint64(count)+1, "u32"))
	}
	return count + 1
}
