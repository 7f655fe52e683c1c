// Package manifest builds core modules from declarative TOML or YAML files.
//
// A manifest lists types, memories, tags, exports, data segments and custom
// sections:
//
//	data_count = true
//
//	[[memories]]
//	min = 1
//
//	[[exports]]
//	name = "memory"
//	kind = "memory"
//	index = 0
//
//	[[data]]
//	offset = 42
//	text = "hello"
//
//	[[data]]
//	mode = "passive"
//	file = "blob.bin"
//
// Build validates the manifest, reads payload files concurrently and encodes
// the sections in canonical order. Validation covers the manifest's own
// fields (enums, exclusive payload sources); it does not check index spaces.
package manifest
