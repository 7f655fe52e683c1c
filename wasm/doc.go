// Package wasm encodes core WebAssembly modules in the binary format.
//
// A module is assembled from section encoders. Each encoder accumulates
// entries and, when added to a Module, writes its identifier followed by a
// LEB128 length and its body:
//
//	section := id:byte size:u32 body:bytes
//
// Vector sections (type, memory, export, tag, data) use a body of an entry
// count followed by the entries.
//
// # Building a Module
//
//	var types wasm.TypeSection
//	types.Function(wasm.FuncType{Params: []wasm.ValType{wasm.ValI32}})
//
//	var memories wasm.MemorySection
//	memories.Memory(wasm.MemoryType{Minimum: 1})
//
//	var data wasm.DataSection
//	data.Active(0, wasm.I32Const(42), []byte("hello"))
//	data.Passive([]byte("lazy"))
//
//	m := wasm.NewModule()
//	m.Section(&types).
//		Section(&memories).
//		Section(wasm.DataCountSection{Count: data.Len()}).
//		Section(&data)
//	bin := m.Finish()
//
// Sections are written in call order. The module does not reorder, merge or
// validate them.
//
// # Data Segments
//
// The mode discriminant depends on the segment:
//
//	0x00  active, memory 0 (index omitted)
//	0x01  passive
//	0x02  active, explicit memory index
//
// Active segments carry an offset expression: a single constant instruction
// followed by end. DataSection.Raw appends a pre-encoded segment verbatim.
//
// # Custom Section Encoders
//
// Any type with ID and Encode methods is a Section. Use AppendFramed or
// AppendVectorSection so the size prefix is computed the same way:
//
//	func (s *mySection) Encode(sink []byte) []byte {
//	    return wasm.AppendVectorSection(sink, s.count, s.entries)
//	}
//
// RawSection wraps a body that was encoded elsewhere.
//
// # Limits
//
// Sizes and counts are u32 in the format. Exceeding that panics with an
// *errors.Error of kind overflow; such inputs are far beyond any loadable
// module. Using a Module after Finish panics with kind finished.
//
// # LEB128 Encoding
//
// The package exposes the LEB128 encoders it uses:
//
//	b := wasm.EncodeLEB128u(624485)     // e5 8e 26
//	n := wasm.SizeLEB128u(624485)       // 3
//	b = wasm.AppendLEB128s(b, -64)      // ... 40
package wasm
