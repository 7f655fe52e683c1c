package wasm

import (
	"math"

	"github.com/wippyai/wasm-encoder/errors"
	"github.com/wippyai/wasm-encoder/wasm/internal/binary"
)

// MemoryType describes a linear memory in pages.
type MemoryType struct {
	Maximum  *uint64
	Minimum  uint64
	Memory64 bool
	Shared   bool
}

// MemorySection is an encoder for the memory section.
type MemorySection struct {
	vec
}

// NewMemorySection creates a new memory section encoder.
func NewMemorySection() *MemorySection {
	return &MemorySection{}
}

// Memory defines a memory.
func (s *MemorySection) Memory(m MemoryType) *MemorySection {
	s.entry(SectionMemory, func(w *binary.Writer) {
		writeMemoryType(w, m)
	})
	return s
}

// ID implements Section.
func (s *MemorySection) ID() SectionID {
	return SectionMemory
}

// Encode implements Section.
func (s *MemorySection) Encode(sink []byte) []byte {
	return s.encode(sink)
}

func writeMemoryType(w *binary.Writer, m MemoryType) {
	var flags byte
	if m.Maximum != nil {
		flags |= LimitsHasMax
	}
	if m.Shared {
		flags |= LimitsShared
	}
	if m.Memory64 {
		flags |= LimitsMemory64
	}
	w.Byte(flags)

	if m.Memory64 {
		w.WriteU64(m.Minimum)
		if m.Maximum != nil {
			w.WriteU64(*m.Maximum)
		}
	} else {
		w.WriteU32(limit32(m.Minimum, "minimum"))
		if m.Maximum != nil {
			w.WriteU32(limit32(*m.Maximum, "maximum"))
		}
	}
}

// limit32 narrows a 32-bit memory limit, panicking with an overflow
// *errors.Error when it does not fit.
func limit32(v uint64, field string) uint32 {
	if v > math.MaxUint32 {
		panic(errors.Overflow(errors.PhaseEncode, []string{field}, v, "u32 memory limit"))
	}
	return uint32(v)
}
