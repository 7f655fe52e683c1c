package manifest

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/wasm-encoder/errors"
)

// Format names a manifest encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// Manifest declares the contents of a core module.
type Manifest struct {
	Types     []FuncType `toml:"types" yaml:"types"`
	Memories  []Memory   `toml:"memories" yaml:"memories"`
	Tags      []Tag      `toml:"tags" yaml:"tags"`
	Exports   []Export   `toml:"exports" yaml:"exports"`
	Data      []Segment  `toml:"data" yaml:"data"`
	Custom    []Custom   `toml:"custom" yaml:"custom"`
	DataCount bool       `toml:"data_count" yaml:"data_count"`
}

// FuncType is a function signature; value types are "i32", "i64", "f32",
// "f64", "v128", "funcref" or "externref".
type FuncType struct {
	Params  []string `toml:"params" yaml:"params"`
	Results []string `toml:"results" yaml:"results"`
}

// Memory declares a linear memory in 64KiB pages.
type Memory struct {
	Max      *uint64 `toml:"max" yaml:"max"`
	Min      uint64  `toml:"min" yaml:"min"`
	Memory64 bool    `toml:"memory64" yaml:"memory64"`
	Shared   bool    `toml:"shared" yaml:"shared"`
}

// Tag declares an exception tag whose payload is described by function type Type.
type Tag struct {
	Type uint32 `toml:"type" yaml:"type"`
}

// Export exports an item by kind ("func", "table", "memory", "global", "tag") and index.
type Export struct {
	Name  string `toml:"name" yaml:"name"`
	Kind  string `toml:"kind" yaml:"kind"`
	Index uint32 `toml:"index" yaml:"index"`
}

// Segment declares a data segment. Mode is "active" (default) or "passive".
// Active segments take exactly one of Offset (i32.const) or OffsetGlobal
// (global.get). The payload comes from at most one of Text, Hex or File.
type Segment struct {
	Offset       *int32  `toml:"offset" yaml:"offset"`
	OffsetGlobal *uint32 `toml:"offset_global" yaml:"offset_global"`
	Mode         string  `toml:"mode" yaml:"mode"`
	Text         string  `toml:"text" yaml:"text"`
	Hex          string  `toml:"hex" yaml:"hex"`
	File         string  `toml:"file" yaml:"file"`
	Memory       uint32  `toml:"memory" yaml:"memory"`
}

// Custom declares a custom section.
type Custom struct {
	Name string `toml:"name" yaml:"name"`
	Text string `toml:"text" yaml:"text"`
	Hex  string `toml:"hex" yaml:"hex"`
	File string `toml:"file" yaml:"file"`
}

// FormatOf returns the manifest format implied by a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errors.Unsupported(errors.PhaseParse, "manifest extension "+filepath.Ext(path))
	}
}

// Load reads and decodes the manifest at path.
func Load(path string) (*Manifest, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindNotFound, err, "read manifest "+path)
	}
	return Parse(data, format)
}

// Parse decodes a manifest. Unknown keys are rejected.
func Parse(data []byte, format Format) (*Manifest, error) {
	var m Manifest
	switch format {
	case FormatTOML:
		meta, err := toml.Decode(string(data), &m)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseParse, errors.KindInvalidInput, err, "decode toml manifest")
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, errors.New(errors.PhaseParse, errors.KindInvalidInput).
				Detail("unknown keys: %s", strings.Join(keys, ", ")).
				Build()
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.PhaseParse, errors.KindInvalidInput, err, "decode yaml manifest")
		}
	default:
		return nil, errors.Unsupported(errors.PhaseParse, "manifest format "+string(format))
	}
	return &m, nil
}
