package wasm

import (
	"github.com/wippyai/wasm-encoder/wasm/internal/binary"
)

// TagKind is a tag's attribute byte.
type TagKind byte

const (
	// TagKindException marks a tag as an exception type.
	TagKindException TagKind = 0x00
)

// TagType is a tag's type.
type TagType struct {
	Kind        TagKind
	FuncTypeIdx uint32 // function type describing the tag's payload
}

// TagSection is an encoder for the tag section. The zero value is ready to use.
//
//	var tags wasm.TagSection
//	tags.Tag(wasm.TagType{Kind: wasm.TagKindException, FuncTypeIdx: 0})
type TagSection struct {
	vec
}

// NewTagSection creates a new tag section encoder.
func NewTagSection() *TagSection {
	return &TagSection{}
}

// Tag defines a tag.
func (s *TagSection) Tag(t TagType) *TagSection {
	s.entry(SectionTag, func(w *binary.Writer) {
		writeTagType(w, t)
	})
	return s
}

// ID implements Section.
func (s *TagSection) ID() SectionID {
	return SectionTag
}

// Encode implements Section.
func (s *TagSection) Encode(sink []byte) []byte {
	return s.encode(sink)
}

func writeTagType(w *binary.Writer, t TagType) {
	w.Byte(byte(t.Kind))
	w.WriteU32(t.FuncTypeIdx)
}
