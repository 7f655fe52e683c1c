// Package component encodes WebAssembly components.
//
// A component shares the core module framing: the "\0asm" magic, then a
// version field, then sections of id, size and body. The version field is
// 0x0a 0x00 0x01 0x00 (version 10, layer 1) and section identifiers come from
// the component space (SectionModule, SectionInstance, ...).
//
//	core := wasm.NewModule()
//	core.Section(&data)
//
//	c := component.NewComponent()
//	c.Section(component.NewModuleSection(core)).
//		Section(component.CustomSection{Name: "producers"})
//	bin := c.Finish()
//
// Sections may repeat and appear in any order; the component writes them as
// added. Section builders follow wasm.Section and reuse wasm.AppendFramed for
// the size prefix.
package component
