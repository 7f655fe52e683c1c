package manifest

import (
	"context"
	"encoding/hex"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wippyai/wasm-encoder/errors"
	"github.com/wippyai/wasm-encoder/wasm"
)

// maxConcurrentLoads bounds the number of payload files read at once.
const maxConcurrentLoads = 8

// SectionInfo locates one encoded section inside Result.Bytes.
type SectionInfo struct {
	Name   string // section name, or the custom section's own name
	Offset int    // offset of the id byte
	Size   int    // id, size prefix and body
	ID     wasm.SectionID
}

// Result is an encoded module together with its section layout.
type Result struct {
	Bytes    []byte
	Sections []SectionInfo
}

var valTypes = map[string]wasm.ValType{
	"i32":       wasm.ValI32,
	"i64":       wasm.ValI64,
	"f32":       wasm.ValF32,
	"f64":       wasm.ValF64,
	"v128":      wasm.ValV128,
	"funcref":   wasm.ValFuncRef,
	"externref": wasm.ValExtern,
}

var exportKinds = map[string]wasm.ExportKind{
	"func":   wasm.KindFunc,
	"table":  wasm.KindTable,
	"memory": wasm.KindMemory,
	"global": wasm.KindGlobal,
	"tag":    wasm.KindTag,
}

// Build validates m, loads its payloads and encodes the module. Relative
// payload files are resolved against baseDir.
//
// Sections are emitted in canonical order: type, memory, tag, export, data
// count, data, custom. Empty sections are omitted.
func Build(ctx context.Context, m *Manifest, baseDir string) (*Result, error) {
	types, err := buildTypes(m.Types)
	if err != nil {
		return nil, err
	}
	modes, err := buildModes(m.Data)
	if err != nil {
		return nil, err
	}
	exports := wasm.NewExportSection()
	for i, e := range m.Exports {
		kind, ok := exportKinds[e.Kind]
		if !ok {
			return nil, errors.InvalidEnum(errors.PhaseValidate, path("exports", i, "kind"), e.Kind, "export kind")
		}
		exports.Export(e.Name, kind, e.Index)
	}
	for i, mem := range m.Memories {
		if err := checkLimits(mem, path("memories", i)); err != nil {
			return nil, err
		}
	}
	for i, c := range m.Custom {
		if c.Name == "" {
			return nil, errors.FieldMissing(errors.PhaseValidate, path("custom", i), "name")
		}
	}

	segments, customs, err := loadPayloads(ctx, m, baseDir)
	if err != nil {
		return nil, err
	}

	memories := wasm.NewMemorySection()
	for _, mem := range m.Memories {
		memories.Memory(wasm.MemoryType{
			Minimum:  mem.Min,
			Maximum:  mem.Max,
			Memory64: mem.Memory64,
			Shared:   mem.Shared,
		})
	}
	tags := wasm.NewTagSection()
	for _, tag := range m.Tags {
		tags.Tag(wasm.TagType{Kind: wasm.TagKindException, FuncTypeIdx: tag.Type})
	}
	data := wasm.NewDataSection()
	for i, mode := range modes {
		data.Segment(wasm.DataSegment{Mode: mode, Data: segments[i]})
	}

	b := &builder{module: wasm.NewModule()}
	b.addVector(types)
	b.addVector(memories)
	b.addVector(tags)
	b.addVector(exports)
	if m.DataCount {
		b.add(wasm.DataCountSection{Count: data.Len()}, "")
	}
	b.addVector(data)
	for i, c := range m.Custom {
		b.add(wasm.CustomSection{Name: c.Name, Data: customs[i]}, c.Name)
	}

	res := &Result{Bytes: b.module.Finish(), Sections: b.infos}
	Logger().Debug("manifest built",
		zap.Int("size", len(res.Bytes)),
		zap.Int("sections", len(res.Sections)),
		zap.Int("segments", len(m.Data)),
	)
	return res, nil
}

// builder appends sections and records where each one landed.
type builder struct {
	module *wasm.Module
	infos  []SectionInfo
}

func (b *builder) add(s wasm.Section, name string) {
	if name == "" {
		name = s.ID().String()
	}
	start := b.module.Len()
	b.module.Section(s)
	b.infos = append(b.infos, SectionInfo{
		ID:     s.ID(),
		Name:   name,
		Offset: start,
		Size:   b.module.Len() - start,
	})
}

type vectorSection interface {
	wasm.Section
	IsEmpty() bool
}

func (b *builder) addVector(s vectorSection) {
	if !s.IsEmpty() {
		b.add(s, "")
	}
}

// checkLimits rejects 32-bit memory limits the format cannot hold.
func checkLimits(mem Memory, at []string) error {
	if mem.Memory64 {
		return nil
	}
	if mem.Min > math.MaxUint32 {
		return errors.InvalidInput(errors.PhaseValidate, append(at, "min"), "min exceeds u32; set memory64 for larger limits")
	}
	if mem.Max != nil && *mem.Max > math.MaxUint32 {
		return errors.InvalidInput(errors.PhaseValidate, append(at, "max"), "max exceeds u32; set memory64 for larger limits")
	}
	return nil
}

func buildTypes(decls []FuncType) (*wasm.TypeSection, error) {
	types := wasm.NewTypeSection()
	for i, ft := range decls {
		params, err := valTypeList(ft.Params, path("types", i, "params"))
		if err != nil {
			return nil, err
		}
		results, err := valTypeList(ft.Results, path("types", i, "results"))
		if err != nil {
			return nil, err
		}
		types.Function(wasm.FuncType{Params: params, Results: results})
	}
	return types, nil
}

func valTypeList(names []string, at []string) ([]wasm.ValType, error) {
	out := make([]wasm.ValType, len(names))
	for i, name := range names {
		vt, ok := valTypes[name]
		if !ok {
			return nil, errors.InvalidEnum(errors.PhaseValidate, append(at, strconv.Itoa(i)), name, "value type")
		}
		out[i] = vt
	}
	return out, nil
}

func buildModes(segs []Segment) ([]wasm.DataSegmentMode, error) {
	modes := make([]wasm.DataSegmentMode, len(segs))
	for i, s := range segs {
		switch s.Mode {
		case "", "active":
			switch {
			case s.Offset != nil && s.OffsetGlobal != nil:
				return nil, errors.InvalidInput(errors.PhaseValidate, path("data", i), "offset and offset_global are exclusive")
			case s.Offset != nil:
				modes[i] = wasm.ActiveMode(s.Memory, wasm.I32Const(*s.Offset))
			case s.OffsetGlobal != nil:
				modes[i] = wasm.ActiveMode(s.Memory, wasm.GlobalGet(*s.OffsetGlobal))
			default:
				return nil, errors.FieldMissing(errors.PhaseValidate, path("data", i), "offset")
			}
		case "passive":
			if s.Offset != nil || s.OffsetGlobal != nil || s.Memory != 0 {
				return nil, errors.InvalidInput(errors.PhaseValidate, path("data", i), "passive segments take no memory or offset")
			}
			modes[i] = wasm.PassiveMode()
		default:
			return nil, errors.InvalidEnum(errors.PhaseValidate, path("data", i, "mode"), s.Mode, "data segment mode")
		}
	}
	return modes, nil
}

// payload is one of the three payload sources of a segment or custom section.
type payload struct {
	text, hex, file string
}

// loadPayloads resolves segment and custom payloads concurrently.
func loadPayloads(ctx context.Context, m *Manifest, baseDir string) (segments, customs [][]byte, err error) {
	segments = make([][]byte, len(m.Data))
	customs = make([][]byte, len(m.Custom))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)

	for i, s := range m.Data {
		i := i
		p := payload{text: s.Text, hex: s.Hex, file: s.File}
		at := path("data", i)
		g.Go(func() error {
			b, err := p.load(gctx, baseDir, at)
			segments[i] = b
			return err
		})
	}
	for i, c := range m.Custom {
		i := i
		p := payload{text: c.Text, hex: c.Hex, file: c.File}
		at := path("custom", i)
		g.Go(func() error {
			b, err := p.load(gctx, baseDir, at)
			customs[i] = b
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return segments, customs, nil
}

func (p payload) load(ctx context.Context, baseDir string, at []string) ([]byte, error) {
	set := 0
	for _, s := range []string{p.text, p.hex, p.file} {
		if s != "" {
			set++
		}
	}
	if set > 1 {
		return nil, errors.InvalidInput(errors.PhaseValidate, at, "text, hex and file are exclusive")
	}

	switch {
	case p.text != "":
		return []byte(p.text), nil
	case p.hex != "":
		b, err := hex.DecodeString(p.hex)
		if err != nil {
			return nil, errors.New(errors.PhaseValidate, errors.KindInvalidInput).
				Path(at...).
				Cause(err).
				Detail("bad hex payload").
				Build()
		}
		return b, nil
	case p.file != "":
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := p.file
		if !filepath.IsAbs(name) {
			name = filepath.Join(baseDir, name)
		}
		b, err := os.ReadFile(name)
		if err != nil {
			return nil, errors.New(errors.PhaseLoad, errors.KindNotFound).
				Path(at...).
				Cause(err).
				Detail("read payload %s", p.file).
				Build()
		}
		return b, nil
	default:
		return nil, nil
	}
}

func path(parts ...any) []string {
	out := make([]string, len(parts))
	for i, p := range parts {
		switch v := p.(type) {
		case string:
			out[i] = v
		case int:
			out[i] = strconv.Itoa(v)
		}
	}
	return out
}
