package wasm

import (
	"github.com/wippyai/wasm-encoder/wasm/internal/binary"
)

// LEB128 encoding utilities for WebAssembly binary format.
// All encoders produce the shortest form, least significant group first.

// EncodeLEB128u encodes an unsigned 32-bit LEB128 value to bytes.
func EncodeLEB128u(v uint32) []byte {
	return binary.AppendU32(make([]byte, 0, binary.SizeU32(v)), v)
}

// AppendLEB128u appends an unsigned 32-bit LEB128 value to dst.
func AppendLEB128u(dst []byte, v uint32) []byte {
	return binary.AppendU32(dst, v)
}

// SizeLEB128u returns the encoded length of v without encoding it.
func SizeLEB128u(v uint32) int {
	return binary.SizeU32(v)
}

// EncodeLEB128u64 encodes an unsigned 64-bit LEB128 value to bytes.
func EncodeLEB128u64(v uint64) []byte {
	return binary.AppendU64(nil, v)
}

// EncodeLEB128s encodes a signed 32-bit LEB128 value to bytes.
func EncodeLEB128s(v int32) []byte {
	return binary.AppendS64(nil, int64(v))
}

// AppendLEB128s appends a signed 32-bit LEB128 value to dst.
func AppendLEB128s(dst []byte, v int32) []byte {
	return binary.AppendS64(dst, int64(v))
}

// EncodeLEB128s64 encodes a signed 64-bit LEB128 value to bytes.
func EncodeLEB128s64(v int64) []byte {
	return binary.AppendS64(nil, v)
}
