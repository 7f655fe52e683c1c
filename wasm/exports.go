package wasm

import (
	"github.com/wippyai/wasm-encoder/wasm/internal/binary"
)

// ExportSection is an encoder for the export section.
type ExportSection struct {
	vec
}

// NewExportSection creates a new export section encoder.
func NewExportSection() *ExportSection {
	return &ExportSection{}
}

// Export defines an export of the item of the given kind at index.
func (s *ExportSection) Export(name string, kind ExportKind, index uint32) *ExportSection {
	s.entry(SectionExport, func(w *binary.Writer) {
		w.WriteName(name)
		w.Byte(byte(kind))
		w.WriteU32(index)
	})
	return s
}

// ID implements Section.
func (s *ExportSection) ID() SectionID {
	return SectionExport
}

// Encode implements Section.
func (s *ExportSection) Encode(sink []byte) []byte {
	return s.encode(sink)
}
