package wasm

import (
	"github.com/wippyai/wasm-encoder/wasm/internal/binary"
)

// FuncType represents a function signature
type FuncType struct {
	Params  []ValType
	Results []ValType
}

// TypeSection is an encoder for the type section. Only function types are
// supported.
type TypeSection struct {
	vec
}

// NewTypeSection creates a new type section encoder.
func NewTypeSection() *TypeSection {
	return &TypeSection{}
}

// Function defines a function type.
func (s *TypeSection) Function(ft FuncType) *TypeSection {
	s.entry(SectionType, func(w *binary.Writer) {
		w.Byte(FuncTypeByte)
		writeValTypes(w, ft.Params)
		writeValTypes(w, ft.Results)
	})
	return s
}

// ID implements Section.
func (s *TypeSection) ID() SectionID {
	return SectionType
}

// Encode implements Section.
func (s *TypeSection) Encode(sink []byte) []byte {
	return s.encode(sink)
}

func writeValTypes(w *binary.Writer, types []ValType) {
	w.WriteU32(binary.Len32(len(types), "value types"))
	for _, t := range types {
		w.Byte(byte(t))
	}
}
