package wasm

// WebAssembly binary format magic number and version.
const (
	// Magic is the WebAssembly binary magic number ("\0asm" in little-endian).
	Magic uint32 = 0x6D736100

	// Version is the core module binary format version.
	Version uint32 = 0x01
)

// SectionID identifies a core module section in the binary format.
type SectionID byte

// Section IDs define the binary identifiers for each module section.
// Canonical order is by ID, except custom sections (anywhere), data count
// (before code) and tag (between memory and global). Module does not enforce it.
const (
	SectionCustom    SectionID = 0  // Custom section (can appear anywhere)
	SectionType      SectionID = 1  // Type section (function signatures)
	SectionImport    SectionID = 2  // Import section
	SectionFunction  SectionID = 3  // Function section (type indices)
	SectionTable     SectionID = 4  // Table section
	SectionMemory    SectionID = 5  // Memory section
	SectionGlobal    SectionID = 6  // Global section
	SectionExport    SectionID = 7  // Export section
	SectionStart     SectionID = 8  // Start section
	SectionElement   SectionID = 9  // Element section
	SectionCode      SectionID = 10 // Code section (function bodies)
	SectionData      SectionID = 11 // Data section
	SectionDataCount SectionID = 12 // Data count section (bulk memory)
	SectionTag       SectionID = 13 // Tag section (exception handling)
)

var sectionNames = [...]string{
	SectionCustom:    "custom",
	SectionType:      "type",
	SectionImport:    "import",
	SectionFunction:  "function",
	SectionTable:     "table",
	SectionMemory:    "memory",
	SectionGlobal:    "global",
	SectionExport:    "export",
	SectionStart:     "start",
	SectionElement:   "element",
	SectionCode:      "code",
	SectionData:      "data",
	SectionDataCount: "datacount",
	SectionTag:       "tag",
}

func (id SectionID) String() string {
	if int(id) < len(sectionNames) {
		return sectionNames[id]
	}
	return "unknown"
}

// ExportKind identifies the type of an exported item.
type ExportKind byte

// Import/Export descriptor kinds identify the type of imported or exported item.
const (
	KindFunc   ExportKind = 0 // Function import/export
	KindTable  ExportKind = 1 // Table import/export
	KindMemory ExportKind = 2 // Memory import/export
	KindGlobal ExportKind = 3 // Global import/export
	KindTag    ExportKind = 4 // Tag import/export (exception handling)
)

// ValType is a value type encoding as defined in the WebAssembly binary format.
type ValType byte

// Value type encodings. Core types use 0x7F-0x7B, reference types 0x70 and 0x6F.
const (
	ValI32     ValType = 0x7F // 32-bit integer
	ValI64     ValType = 0x7E // 64-bit integer
	ValF32     ValType = 0x7D // 32-bit float
	ValF64     ValType = 0x7C // 64-bit float
	ValV128    ValType = 0x7B // 128-bit vector (SIMD)
	ValFuncRef ValType = 0x70 // Function reference
	ValExtern  ValType = 0x6F // External reference
)

// Heap types as signed LEB128 values for ref.null.
const (
	HeapFunc   int64 = -0x10 // encodes as 0x70
	HeapExtern int64 = -0x11 // encodes as 0x6F
)

// FuncTypeByte prefixes a function type in the type section.
const FuncTypeByte byte = 0x60

// Limits flag bits.
const (
	LimitsHasMax   byte = 0x01
	LimitsShared   byte = 0x02
	LimitsMemory64 byte = 0x04
)

// Data segment mode discriminants.
const (
	DataFlagActive         byte = 0x00 // active, memory 0, index omitted
	DataFlagPassive        byte = 0x01 // passive
	DataFlagActiveExplicit byte = 0x02 // active, explicit memory index
)

// Opcodes permitted in constant expressions.
const (
	OpEnd       byte = 0x0B
	OpGlobalGet byte = 0x23
	OpI32Const  byte = 0x41
	OpI64Const  byte = 0x42
	OpF32Const  byte = 0x43
	OpF64Const  byte = 0x44
	OpRefNull   byte = 0xD0
	OpRefFunc   byte = 0xD2
)
