package wasm

import (
	"github.com/wippyai/wasm-encoder/errors"
	"github.com/wippyai/wasm-encoder/wasm/internal/binary"
)

// Section is implemented by every core module section encoder.
//
// The builders in this package implement it; custom builders can too, or use
// RawSection to wrap bytes produced elsewhere.
type Section interface {
	// ID returns the section identifier.
	ID() SectionID

	// Encode appends the section's size-prefixed body to sink and returns the
	// extended slice. The identifier is written by the container, not here.
	Encode(sink []byte) []byte
}

// AppendFramed appends body to sink prefixed by its LEB128 encoded length.
// It panics with an overflow *errors.Error if body is longer than a u32.
func AppendFramed(sink, body []byte) []byte {
	sink = binary.AppendU32(sink, binary.Len32(len(body), "section body"))
	return append(sink, body...)
}

// AppendVectorSection frames a body made of an entry count followed by the
// already encoded entries, without copying the entries into a scratch body.
func AppendVectorSection(sink []byte, count uint32, entries []byte) []byte {
	n := binary.SizeU32(count) + len(entries)
	sink = binary.AppendU32(sink, binary.Len32(n, "section body"))
	sink = binary.AppendU32(sink, count)
	return append(sink, entries...)
}

// vec is the append-only entry buffer shared by vector sections.
type vec struct {
	w     binary.Writer
	count uint32
}

// Len returns the number of entries added so far.
func (v *vec) Len() uint32 {
	return v.count
}

// IsEmpty reports whether no entries were added.
func (v *vec) IsEmpty() bool {
	return v.count == 0
}

// entry writes one entry with fn and counts it. If fn panics, the buffer is
// cut back to where the entry began and *errors.Error values are tagged with
// the section name before the panic continues.
func (v *vec) entry(section SectionID, fn func(w *binary.Writer)) {
	mark := v.w.Len()
	defer func() {
		if r := recover(); r != nil {
			v.w.Truncate(mark)
			tagSection(r, section.String())
			panic(r)
		}
	}()
	fn(&v.w)
	v.count = binary.Inc32(v.count, section.String())
}

// tagSection records the section name on a recovered *errors.Error.
func tagSection(r any, name string) {
	if e, ok := r.(*errors.Error); ok && e.Section == "" {
		e.Section = name
	}
}

func (v *vec) encode(sink []byte) []byte {
	return AppendVectorSection(sink, v.count, v.w.Bytes())
}

// RawSection is a section whose body was encoded elsewhere.
// The body is written verbatim; nothing checks it matches ID.
type RawSection struct {
	Data    []byte
	Section SectionID
}

// ID implements Section.
func (s RawSection) ID() SectionID {
	return s.Section
}

// Encode implements Section.
func (s RawSection) Encode(sink []byte) []byte {
	return AppendFramed(sink, s.Data)
}

// CustomSection is a named section of arbitrary bytes.
type CustomSection struct {
	Name string
	Data []byte
}

// ID implements Section.
func (s CustomSection) ID() SectionID {
	return SectionCustom
}

// Encode implements Section.
func (s CustomSection) Encode(sink []byte) []byte {
	name := binary.Len32(len(s.Name), "custom section name")
	n := binary.SizeU32(name) + len(s.Name) + len(s.Data)
	sink = binary.AppendU32(sink, binary.Len32(n, "section body"))
	sink = binary.AppendU32(sink, name)
	sink = append(sink, s.Name...)
	return append(sink, s.Data...)
}
