package wasm

import (
	"go.uber.org/zap"

	"github.com/wippyai/wasm-encoder/errors"
	"github.com/wippyai/wasm-encoder/wasm/internal/binary"
)

// Module is a core WebAssembly module being encoded. The zero value is an
// empty module, same as NewModule.
//
// Sections are written in the order they are added. Canonical ordering is the
// caller's responsibility.
type Module struct {
	w        binary.Writer
	sections int
	finished bool
}

// NewModule begins writing a new module.
func NewModule() *Module {
	m := &Module{}
	m.open()
	return m
}

// open panics with a finished *errors.Error after Finish and writes the
// header on first use.
func (m *Module) open() {
	if m.finished {
		panic(errors.Finished("module"))
	}
	if m.w.Len() == 0 {
		m.w.WriteU32LE(Magic)
		m.w.WriteU32LE(Version)
	}
}

// Section writes a section to this module: its ID followed by its encoding.
// If encoding panics, the module is left as it was before the call.
func (m *Module) Section(s Section) *Module {
	m.open()

	start := m.w.Len()
	id := s.ID()
	m.appendSection(id, s)
	m.sections++

	if ce := Logger().Check(zap.DebugLevel, "section appended"); ce != nil {
		ce.Write(
			zap.Stringer("id", id),
			zap.Int("size", m.w.Len()-start),
		)
	}
	return m
}

func (m *Module) appendSection(id SectionID, s Section) {
	start := m.w.Len()
	defer func() {
		if r := recover(); r != nil {
			m.w.Truncate(start)
			tagSection(r, id.String())
			panic(r)
		}
	}()
	m.w.Byte(byte(id))
	m.w.Extend(s.Encode)
}

// Len returns the number of bytes encoded so far, header included.
func (m *Module) Len() int {
	if m.finished {
		return 0
	}
	m.open()
	return m.w.Len()
}

// Finish ends the module and hands ownership of the encoded bytes to the
// caller. The module cannot be used afterwards.
func (m *Module) Finish() []byte {
	m.open()
	out := m.w.Bytes()
	m.w = binary.Writer{}
	m.finished = true

	Logger().Debug("module finished",
		zap.Int("size", len(out)),
		zap.Int("sections", m.sections),
	)
	return out
}
