package wasm

import (
	"github.com/wippyai/wasm-encoder/errors"
	"github.com/wippyai/wasm-encoder/wasm/internal/binary"
)

// Instruction is a single WebAssembly instruction. Only the instructions valid
// in constant expressions are encodable here; they are what an offset needs.
type Instruction struct {
	Imm    interface{}
	Opcode byte
}

// I32Imm holds the constant value for i32.const instruction.
type I32Imm struct {
	Value int32
}

// I64Imm holds the constant value for i64.const instruction.
type I64Imm struct {
	Value int64
}

// F32Imm holds the constant value for f32.const instruction.
type F32Imm struct {
	Value float32
}

// F64Imm holds the constant value for f64.const instruction.
type F64Imm struct {
	Value float64
}

// GlobalImm holds the global index for global.get.
type GlobalImm struct {
	GlobalIdx uint32
}

// RefNullImm holds the heap type for ref.null
type RefNullImm struct {
	HeapType int64 // s33: HeapFunc, HeapExtern, or a type index
}

// RefFuncImm holds the function index for ref.func
type RefFuncImm struct {
	FuncIdx uint32
}

// I32Const returns i32.const v.
func I32Const(v int32) Instruction { return Instruction{Opcode: OpI32Const, Imm: I32Imm{Value: v}} }

// I64Const returns i64.const v.
func I64Const(v int64) Instruction { return Instruction{Opcode: OpI64Const, Imm: I64Imm{Value: v}} }

// F32Const returns f32.const v.
func F32Const(v float32) Instruction { return Instruction{Opcode: OpF32Const, Imm: F32Imm{Value: v}} }

// F64Const returns f64.const v.
func F64Const(v float64) Instruction { return Instruction{Opcode: OpF64Const, Imm: F64Imm{Value: v}} }

// GlobalGet returns global.get idx.
func GlobalGet(idx uint32) Instruction {
	return Instruction{Opcode: OpGlobalGet, Imm: GlobalImm{GlobalIdx: idx}}
}

// RefNull returns ref.null of the given heap type.
func RefNull(heapType int64) Instruction {
	return Instruction{Opcode: OpRefNull, Imm: RefNullImm{HeapType: heapType}}
}

// RefFunc returns ref.func idx.
func RefFunc(idx uint32) Instruction {
	return Instruction{Opcode: OpRefFunc, Imm: RefFuncImm{FuncIdx: idx}}
}

// End terminates a block or expression.
func End() Instruction { return Instruction{Opcode: OpEnd} }

// AppendInstruction appends the encoding of a single instruction to dst.
func AppendInstruction(dst []byte, instr Instruction) []byte {
	var w binary.Writer
	w.WriteBytes(dst)
	writeInstruction(&w, instr)
	return w.Bytes()
}

// writeInstruction panics with an unsupported *errors.Error for opcodes that
// cannot appear in a constant expression.
func writeInstruction(w *binary.Writer, instr Instruction) {
	switch instr.Opcode {
	case OpEnd:
		w.Byte(OpEnd)

	case OpI32Const:
		w.Byte(instr.Opcode)
		w.WriteS32(immediate[I32Imm](instr).Value)

	case OpI64Const:
		w.Byte(instr.Opcode)
		w.WriteS64(immediate[I64Imm](instr).Value)

	case OpF32Const:
		w.Byte(instr.Opcode)
		w.WriteF32(immediate[F32Imm](instr).Value)

	case OpF64Const:
		w.Byte(instr.Opcode)
		w.WriteF64(immediate[F64Imm](instr).Value)

	case OpGlobalGet:
		w.Byte(instr.Opcode)
		w.WriteU32(immediate[GlobalImm](instr).GlobalIdx)

	case OpRefNull:
		w.Byte(instr.Opcode)
		w.WriteS64(immediate[RefNullImm](instr).HeapType)

	case OpRefFunc:
		w.Byte(instr.Opcode)
		w.WriteU32(immediate[RefFuncImm](instr).FuncIdx)

	default:
		panic(errors.New(errors.PhaseEncode, errors.KindUnsupported).
			Value(instr.Opcode).
			Detail("opcode 0x%02x is not a constant instruction", instr.Opcode).
			Build())
	}
}

// immediate returns instr.Imm as T, panicking with an invalid input
// *errors.Error when the opcode carries the wrong immediate.
func immediate[T any](instr Instruction) T {
	v, ok := instr.Imm.(T)
	if !ok {
		panic(errors.New(errors.PhaseEncode, errors.KindInvalidInput).
			Value(instr.Imm).
			Detail("opcode 0x%02x needs a %T immediate, got %T", instr.Opcode, v, instr.Imm).
			Build())
	}
	return v
}

// writeConstExpr writes instr followed by the end marker.
func writeConstExpr(w *binary.Writer, instr Instruction) {
	writeInstruction(w, instr)
	w.Byte(OpEnd)
}
