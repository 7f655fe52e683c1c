// Package wasmencoder is a byte-exact encoder for the WebAssembly binary format.
//
// Callers build typed sections, append them to a core module or a component
// and take the finished bytes. Nothing is decoded or validated; the encoder
// writes exactly what it is given, in the order it is given.
//
// # Architecture Overview
//
//	wasmencoder/
//	├── wasm/            Core module sections, LEB128 codec and the Module container
//	├── component/       Component container and component-level sections
//	├── manifest/        TOML/YAML module descriptions built into binaries
//	├── errors/          Structured error types
//	└── cmd/wasmenc/     CLI: build, check with wazero, browse sections
//
// # Quick Start
//
// Encode a module holding one memory initialised with "hello" at offset 42:
//
//	data := wasm.NewDataSection().
//	    Active(0, wasm.I32Const(42), []byte("hello"))
//
//	bin := wasm.NewModule().
//	    Section(wasm.NewMemorySection().Memory(wasm.MemoryType{Minimum: 1})).
//	    Section(data).
//	    Finish()
//
// Every section is written as its id byte, the LEB128 length of its body and
// the body. The container writes the id; a Section appends the rest.
//
// # Data Segments
//
// A segment is active (copied into memory at instantiation) or passive
// (available to memory.init). Active segments targeting memory 0 use the
// compact encoding; any other memory index is written explicitly.
//
//	data.Passive(payload)
//	data.Active(1, wasm.GlobalGet(0), payload)
//
// # Errors
//
// Encoding is infallible for in-range input. Lengths and counts that do not
// fit in 32 bits, and any use of a container after Finish, panic with an
// *errors.Error. The manifest and CLI layers return errors.Error values
// carrying phase, kind and path:
//
//	if errors.Is(err, &errors.Error{Phase: errors.PhaseValidate, Kind: errors.KindInvalidEnum}) {
//	    ...
//	}
//
// # Logging
//
// Packages log through zap at debug level. Loggers default to a no-op and are
// installed with SetLogger:
//
//	wasm.SetLogger(logger.Named("wasm"))
package wasmencoder
