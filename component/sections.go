package component

import (
	"github.com/wippyai/wasm-encoder/wasm"
)

// ModuleSection embeds a finished core module in a component.
type ModuleSection struct {
	Module []byte
}

// NewModuleSection finishes m and wraps its bytes.
func NewModuleSection(m *wasm.Module) ModuleSection {
	return ModuleSection{Module: m.Finish()}
}

// ID implements Section.
func (s ModuleSection) ID() SectionID {
	return SectionModule
}

// Encode implements Section.
func (s ModuleSection) Encode(sink []byte) []byte {
	return wasm.AppendFramed(sink, s.Module)
}

// CustomSection is a named section of arbitrary bytes, encoded as in core
// modules.
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
	return wasm.CustomSection{Name: s.Name, Data: s.Data}.Encode(sink)
}

// RawSection is a component section whose body was encoded elsewhere.
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
	return wasm.AppendFramed(sink, s.Data)
}
