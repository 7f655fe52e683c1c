package wasm

import (
	"github.com/wippyai/wasm-encoder/errors"
	"github.com/wippyai/wasm-encoder/wasm/internal/binary"
)

// DataModeKind selects between active and passive data segments.
type DataModeKind uint8

const (
	// DataModeActive segments are copied into a memory at instantiation.
	DataModeActive DataModeKind = iota
	// DataModePassive segments are only copied by memory.init.
	DataModePassive
)

// DataSegmentMode is a data segment's mode. MemoryIndex and Offset are only
// meaningful for active segments.
type DataSegmentMode struct {
	Offset      Instruction
	MemoryIndex uint32
	Kind        DataModeKind
}

// ActiveMode returns the mode of a segment initialised into memoryIndex at the
// address computed by offset.
func ActiveMode(memoryIndex uint32, offset Instruction) DataSegmentMode {
	return DataSegmentMode{Kind: DataModeActive, MemoryIndex: memoryIndex, Offset: offset}
}

// PassiveMode returns the mode of a passive segment.
func PassiveMode() DataSegmentMode {
	return DataSegmentMode{Kind: DataModePassive}
}

// DataSegment is a segment in the data section.
type DataSegment struct {
	Data []byte
	Mode DataSegmentMode
}

// DataSection is an encoder for the data section.
// Data sections are only supported for modules. The zero value is ready to use.
//
//	var data wasm.DataSection
//	data.Active(0, wasm.I32Const(42), []byte("hello"))
//
//	m := wasm.NewModule()
//	m.Section(&memories).Section(&data)
//	bin := m.Finish()
type DataSection struct {
	vec
}

// NewDataSection creates a new data section encoder.
func NewDataSection() *DataSection {
	return &DataSection{}
}

// Segment defines a data segment.
func (s *DataSection) Segment(seg DataSegment) *DataSection {
	s.entry(SectionData, func(w *binary.Writer) {
		writeDataSegmentMode(w, seg.Mode)
		w.WriteSized(seg.Data, "data segment")
	})
	return s
}

// Active defines an active data segment.
func (s *DataSection) Active(memoryIndex uint32, offset Instruction, data []byte) *DataSection {
	return s.Segment(DataSegment{Mode: ActiveMode(memoryIndex, offset), Data: data})
}

// Passive defines a passive data segment.
func (s *DataSection) Passive(data []byte) *DataSection {
	return s.Segment(DataSegment{Mode: PassiveMode(), Data: data})
}

// Raw copies an already-encoded data segment into this section and counts it.
// The bytes are trusted: nothing checks that they form a valid segment.
func (s *DataSection) Raw(alreadyEncodedSegment []byte) *DataSection {
	s.entry(SectionData, func(w *binary.Writer) {
		w.WriteBytes(alreadyEncodedSegment)
	})
	return s
}

// ID implements Section.
func (s *DataSection) ID() SectionID {
	return SectionData
}

// Encode implements Section.
func (s *DataSection) Encode(sink []byte) []byte {
	return s.encode(sink)
}

// writeDataSegmentMode is the only place the discriminant is chosen. Memory 0
// takes the short form with no index.
func writeDataSegmentMode(w *binary.Writer, mode DataSegmentMode) {
	switch mode.Kind {
	case DataModePassive:
		w.Byte(DataFlagPassive)
	case DataModeActive:
		if mode.MemoryIndex == 0 {
			w.Byte(DataFlagActive)
		} else {
			w.Byte(DataFlagActiveExplicit)
			w.WriteU32(mode.MemoryIndex)
		}
		writeConstExpr(w, mode.Offset)
	default:
		panic(errors.InvalidEnum(errors.PhaseEncode, []string{"mode"}, mode.Kind, "data segment mode"))
	}
}

// DataCountSection is an encoder for the data count section. It lets a
// validator learn the number of data segments before the code section.
type DataCountSection struct {
	// Count is the number of segments in the data section.
	Count uint32
}

// ID implements Section.
func (s DataCountSection) ID() SectionID {
	return SectionDataCount
}

// Encode implements Section.
func (s DataCountSection) Encode(sink []byte) []byte {
	var buf [5]byte
	return AppendFramed(sink, binary.AppendU32(buf[:0], s.Count))
}
