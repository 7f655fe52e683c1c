package component

import (
	"go.uber.org/zap"

	"github.com/wippyai/wasm-encoder/errors"
	"github.com/wippyai/wasm-encoder/wasm"
)

// Magic is the shared WebAssembly magic number ("\0asm" in little-endian).
const Magic = wasm.Magic

// Version is the component version and layer field: version 0x000a, layer 1.
// It distinguishes a component from a core module, whose field is 1.
const Version uint32 = 0x0001000a

// SectionID identifies a component section. The values are independent of
// wasm.SectionID even where the numbers overlap.
type SectionID byte

// Known component section identifiers.
const (
	SectionCustom    SectionID = 0
	SectionType      SectionID = 1
	SectionImport    SectionID = 2
	SectionFunction  SectionID = 3
	SectionModule    SectionID = 4
	SectionComponent SectionID = 5
	SectionInstance  SectionID = 6
	SectionExport    SectionID = 7
	SectionStart     SectionID = 8
	SectionAlias     SectionID = 9
)

var sectionNames = [...]string{
	SectionCustom:    "custom",
	SectionType:      "type",
	SectionImport:    "import",
	SectionFunction:  "function",
	SectionModule:    "module",
	SectionComponent: "component",
	SectionInstance:  "instance",
	SectionExport:    "export",
	SectionStart:     "start",
	SectionAlias:     "alias",
}

func (id SectionID) String() string {
	if int(id) < len(sectionNames) {
		return sectionNames[id]
	}
	return "unknown"
}

// Section is implemented by component section encoders. It has the same
// contract as wasm.Section over the component identifier space.
type Section interface {
	// ID returns the section identifier.
	ID() SectionID

	// Encode appends the section's size-prefixed body to sink.
	Encode(sink []byte) []byte
}

// Component is a WebAssembly component being encoded.
//
// Unlike core modules, component sections may appear in any order and may be
// repeated, so sections are written exactly as added.
type Component struct {
	bytes    []byte
	sections int
	finished bool
}

// NewComponent begins writing a new component.
func NewComponent() *Component {
	c := &Component{}
	c.open()
	return c
}

func (c *Component) open() {
	if c.finished {
		panic(errors.Finished("component"))
	}
	if len(c.bytes) == 0 {
		c.bytes = append(c.bytes,
			0x00, 0x61, 0x73, 0x6D, // magic
			0x0a, 0x00, 0x01, 0x00, // version, layer
		)
	}
}

// Section writes a section to this component. If encoding panics, the
// component is left as it was before the call.
func (c *Component) Section(s Section) *Component {
	c.open()

	start := len(c.bytes)
	id := s.ID()
	c.appendSection(id, s)
	c.sections++

	if ce := Logger().Check(zap.DebugLevel, "component section appended"); ce != nil {
		ce.Write(
			zap.Stringer("id", id),
			zap.Int("size", len(c.bytes)-start),
		)
	}
	return c
}

func (c *Component) appendSection(id SectionID, s Section) {
	start := len(c.bytes)
	defer func() {
		if r := recover(); r != nil {
			c.bytes = c.bytes[:start]
			if e, ok := r.(*errors.Error); ok && e.Section == "" {
				e.Section = "component " + id.String()
			}
			panic(r)
		}
	}()
	c.bytes = append(c.bytes, byte(id))
	c.bytes = s.Encode(c.bytes)
}

// Len returns the number of bytes encoded so far, header included.
func (c *Component) Len() int {
	if c.finished {
		return 0
	}
	c.open()
	return len(c.bytes)
}

// Finish ends the component and hands ownership of the encoded bytes to the
// caller. The component cannot be used afterwards.
func (c *Component) Finish() []byte {
	c.open()
	out := c.bytes
	c.bytes = nil
	c.finished = true

	Logger().Debug("component finished",
		zap.Int("size", len(out)),
		zap.Int("sections", c.sections),
	)
	return out
}
