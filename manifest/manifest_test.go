package manifest_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tetratelabs/wazero"

	wasmerrors "github.com/wippyai/wasm-encoder/errors"
	"github.com/wippyai/wasm-encoder/manifest"
	"github.com/wippyai/wasm-encoder/wasm"
)

const helloTOML = `
data_count = true

[[memories]]
min = 1
max = 2

[[exports]]
name = "memory"
kind = "memory"
index = 0

[[data]]
offset = 42
text = "hello"

[[data]]
mode = "passive"
hex = "cafe"

[[custom]]
name = "note"
text = "hi"
`

const helloYAML = `
data_count: true
memories:
  - min: 1
    max: 2
exports:
  - name: memory
    kind: memory
    index: 0
data:
  - offset: 42
    text: hello
  - mode: passive
    hex: cafe
custom:
  - name: note
    text: hi
`

func TestParseFormatsAgree(t *testing.T) {
	fromTOML, err := manifest.Parse([]byte(helloTOML), manifest.FormatTOML)
	if err != nil {
		t.Fatalf("toml: %v", err)
	}
	fromYAML, err := manifest.Parse([]byte(helloYAML), manifest.FormatYAML)
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if diff := cmp.Diff(fromTOML, fromYAML); diff != "" {
		t.Errorf("toml and yaml manifests differ (-toml +yaml):\n%s", diff)
	}
	if len(fromTOML.Data) != 2 || *fromTOML.Data[0].Offset != 42 {
		t.Errorf("unexpected data: %+v", fromTOML.Data)
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	tests := []struct {
		format manifest.Format
		input  string
	}{
		{manifest.FormatTOML, "[[data]]\noffest = 1\n"},
		{manifest.FormatYAML, "data:\n  - offest: 1\n"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			_, err := manifest.Parse([]byte(tt.input), tt.format)
			target := &wasmerrors.Error{Phase: wasmerrors.PhaseParse, Kind: wasmerrors.KindInvalidInput}
			if !errors.Is(err, target) {
				t.Errorf("expected parse error, got %v", err)
			}
		})
	}
}

func TestParseEmptyYAML(t *testing.T) {
	m, err := manifest.Parse(nil, manifest.FormatYAML)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	res, err := manifest.Build(context.Background(), m, "")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(res.Bytes) != 8 || len(res.Sections) != 0 {
		t.Errorf("empty manifest: %d bytes, %d sections", len(res.Bytes), len(res.Sections))
	}
}

func TestFormatOf(t *testing.T) {
	tests := map[string]manifest.Format{
		"mod.toml": manifest.FormatTOML,
		"mod.yaml": manifest.FormatYAML,
		"MOD.YML":  manifest.FormatYAML,
	}
	for name, want := range tests {
		got, err := manifest.FormatOf(name)
		if err != nil || got != want {
			t.Errorf("FormatOf(%q) = %q, %v", name, got, err)
		}
	}
	if _, err := manifest.FormatOf("mod.json"); err == nil {
		t.Error("expected error for .json")
	}
}

func TestBuildHello(t *testing.T) {
	m, err := manifest.Parse([]byte(helloTOML), manifest.FormatTOML)
	if err != nil {
		t.Fatal(err)
	}
	res, err := manifest.Build(context.Background(), m, "")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	maxPages := uint64(2)
	var memories wasm.MemorySection
	memories.Memory(wasm.MemoryType{Minimum: 1, Maximum: &maxPages})
	var exports wasm.ExportSection
	exports.Export("memory", wasm.KindMemory, 0)
	var data wasm.DataSection
	data.Active(0, wasm.I32Const(42), []byte("hello")).Passive([]byte{0xca, 0xfe})

	want := wasm.NewModule().
		Section(&memories).
		Section(&exports).
		Section(wasm.DataCountSection{Count: 2}).
		Section(&data).
		Section(wasm.CustomSection{Name: "note", Data: []byte("hi")}).
		Finish()
	if diff := cmp.Diff(want, res.Bytes); diff != "" {
		t.Fatalf("module mismatch (-want +got):\n%s", diff)
	}

	var names []string
	next := 8
	for _, s := range res.Sections {
		names = append(names, s.Name)
		if s.Offset != next {
			t.Errorf("%s: offset %d, want %d", s.Name, s.Offset, next)
		}
		if res.Bytes[s.Offset] != byte(s.ID) {
			t.Errorf("%s: byte at offset is 0x%02x", s.Name, res.Bytes[s.Offset])
		}
		next += s.Size
	}
	if next != len(res.Bytes) {
		t.Errorf("sections cover %d bytes of %d", next, len(res.Bytes))
	}
	if diff := cmp.Diff([]string{"memory", "export", "datacount", "data", "note"}, names); diff != "" {
		t.Errorf("section order (-want +got):\n%s", diff)
	}
}

func TestBuildLoadsInWazero(t *testing.T) {
	dir := t.TempDir()
	blob := bytes.Repeat([]byte("abc"), 100)
	if err := os.WriteFile(filepath.Join(dir, "blob.bin"), blob, 0o644); err != nil {
		t.Fatal(err)
	}
	manifestPath := filepath.Join(dir, "mod.toml")
	src := helloTOML + "\n[[data]]\noffset = 4096\nfile = \"blob.bin\"\n"
	if err := os.WriteFile(manifestPath, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := manifest.Load(manifestPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	res, err := manifest.Build(context.Background(), m, dir)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	mod, err := r.Instantiate(ctx, res.Bytes)
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	mem := mod.ExportedMemory("memory")
	if got, ok := mem.Read(42, 5); !ok || string(got) != "hello" {
		t.Errorf("memory[42:47] = %q", got)
	}
	if got, ok := mem.Read(4096, uint32(len(blob))); !ok || !bytes.Equal(got, blob) {
		t.Error("file segment not initialised")
	}
}

func TestBuildManyFiles(t *testing.T) {
	dir := t.TempDir()
	m := &manifest.Manifest{Memories: []manifest.Memory{{Min: 1}}}
	for i := 0; i < 40; i++ {
		name := "seg" + strconv.Itoa(i)
		if err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644); err != nil {
			t.Fatal(err)
		}
		off := int32(i * 16)
		m.Data = append(m.Data, manifest.Segment{Offset: &off, File: name})
	}

	res, err := manifest.Build(context.Background(), m, dir)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// segments keep manifest order regardless of load order
	var want wasm.DataSection
	for i := 0; i < 40; i++ {
		want.Active(0, wasm.I32Const(int32(i*16)), []byte("seg"+strconv.Itoa(i)))
	}
	last := res.Sections[len(res.Sections)-1]
	got := res.Bytes[last.Offset+1 : last.Offset+last.Size]
	if !bytes.Equal(got, want.Encode(nil)) {
		t.Error("data section differs from sequential encoding")
	}
}

func TestBuildValidation(t *testing.T) {
	off := int32(0)
	glob := uint32(0)
	bigLimit := uint64(1<<32 + 2)

	tests := []struct {
		name string
		m    manifest.Manifest
		kind wasmerrors.Kind
	}{
		{
			name: "bad value type",
			m:    manifest.Manifest{Types: []manifest.FuncType{{Params: []string{"i33"}}}},
			kind: wasmerrors.KindInvalidEnum,
		},
		{
			name: "bad export kind",
			m:    manifest.Manifest{Exports: []manifest.Export{{Name: "x", Kind: "module"}}},
			kind: wasmerrors.KindInvalidEnum,
		},
		{
			name: "bad mode",
			m:    manifest.Manifest{Data: []manifest.Segment{{Mode: "lazy"}}},
			kind: wasmerrors.KindInvalidEnum,
		},
		{
			name: "active without offset",
			m:    manifest.Manifest{Data: []manifest.Segment{{Text: "x"}}},
			kind: wasmerrors.KindFieldMissing,
		},
		{
			name: "memory min above u32",
			m:    manifest.Manifest{Memories: []manifest.Memory{{Min: 1<<32 + 1}}},
			kind: wasmerrors.KindInvalidInput,
		},
		{
			name: "memory max above u32",
			m:    manifest.Manifest{Memories: []manifest.Memory{{Min: 1, Max: &bigLimit}}},
			kind: wasmerrors.KindInvalidInput,
		},
		{
			name: "two offsets",
			m:    manifest.Manifest{Data: []manifest.Segment{{Offset: &off, OffsetGlobal: &glob}}},
			kind: wasmerrors.KindInvalidInput,
		},
		{
			name: "passive with offset",
			m:    manifest.Manifest{Data: []manifest.Segment{{Mode: "passive", Offset: &off}}},
			kind: wasmerrors.KindInvalidInput,
		},
		{
			name: "two payload sources",
			m:    manifest.Manifest{Data: []manifest.Segment{{Mode: "passive", Text: "a", Hex: "00"}}},
			kind: wasmerrors.KindInvalidInput,
		},
		{
			name: "bad hex",
			m:    manifest.Manifest{Custom: []manifest.Custom{{Name: "c", Hex: "zz"}}},
			kind: wasmerrors.KindInvalidInput,
		},
		{
			name: "custom without name",
			m:    manifest.Manifest{Custom: []manifest.Custom{{Text: "x"}}},
			kind: wasmerrors.KindFieldMissing,
		},
		{
			name: "missing file",
			m:    manifest.Manifest{Data: []manifest.Segment{{Mode: "passive", File: "nope.bin"}}},
			kind: wasmerrors.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manifest.Build(context.Background(), &tt.m, t.TempDir())
			var e *wasmerrors.Error
			if !errors.As(err, &e) {
				t.Fatalf("expected *errors.Error, got %v", err)
			}
			if e.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v (%v)", e.Kind, tt.kind, err)
			}
		})
	}
}

func TestBuildCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := &manifest.Manifest{Data: []manifest.Segment{{Mode: "passive", File: "x.bin"}}}
	_, err := manifest.Build(ctx, m, t.TempDir())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestBuildGlobalOffset(t *testing.T) {
	g := uint32(3)
	m := &manifest.Manifest{Data: []manifest.Segment{{Memory: 1, OffsetGlobal: &g, Hex: "01"}}}
	res, err := manifest.Build(context.Background(), m, "")
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x0b, 0x08, 0x01, 0x02, 0x01, 0x23, 0x03, 0x0b, 0x01, 0x01}
	if !bytes.Equal(res.Bytes[8:], want) {
		t.Errorf("got %x, want %x", res.Bytes[8:], want)
	}
}

func TestBuildMemoryLimits(t *testing.T) {
	m, err := manifest.Parse([]byte("[[memories]]\nmin = 4294967297\n"), manifest.FormatTOML)
	if err != nil {
		t.Fatal(err)
	}
	_, err = manifest.Build(context.Background(), m, "")
	target := &wasmerrors.Error{Phase: wasmerrors.PhaseValidate, Kind: wasmerrors.KindInvalidInput}
	if !errors.Is(err, target) {
		t.Fatalf("expected limit error, got %v", err)
	}
	var e *wasmerrors.Error
	if errors.As(err, &e) && strings.Join(e.Path, ".") != "memories.0.min" {
		t.Errorf("Path = %v", e.Path)
	}

	m.Memories[0].Memory64 = true
	res, err := manifest.Build(context.Background(), m, "")
	if err != nil {
		t.Fatalf("memory64: %v", err)
	}
	want := []byte{0x05, 0x07, 0x01, 0x04, 0x81, 0x80, 0x80, 0x80, 0x10}
	if !bytes.Equal(res.Bytes[8:], want) {
		t.Errorf("got %x, want %x", res.Bytes[8:], want)
	}
}
