package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-encoder/component"
	wasmerrors "github.com/wippyai/wasm-encoder/errors"
	"github.com/wippyai/wasm-encoder/manifest"
	"github.com/wippyai/wasm-encoder/wasm"
)

func buildResult(t *testing.T, src string) *manifest.Result {
	t.Helper()
	m, err := manifest.Parse([]byte(src), manifest.FormatTOML)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	res, err := manifest.Build(context.Background(), m, "")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return res
}

const memoryModule = `
[[memories]]
min = 1
max = 3

[[exports]]
name = "memory"
kind = "memory"

[[data]]
offset = 0
text = "hi"
`

func TestCheck(t *testing.T) {
	res := buildResult(t, memoryModule)

	var out bytes.Buffer
	if err := check(context.Background(), res.Bytes, &out); err != nil {
		t.Fatalf("check: %v", err)
	}
	got := out.String()
	for _, want := range []string{"1 exported memories", "memory: min=1 max=3 size=65536 bytes"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestCheckRejectsBadModule(t *testing.T) {
	// data segment without a memory
	res := buildResult(t, "[[data]]\noffset = 0\ntext = \"x\"\n")

	err := check(context.Background(), res.Bytes, &bytes.Buffer{})
	target := &wasmerrors.Error{Phase: wasmerrors.PhaseCheck, Kind: wasmerrors.KindInvalidInput}
	if !errors.Is(err, target) {
		t.Errorf("expected check error, got %v", err)
	}
}

func TestSummary(t *testing.T) {
	res := buildResult(t, memoryModule)

	var out bytes.Buffer
	summary(&out, res)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header and 3 sections, got:\n%s", out.String())
	}
	if !strings.HasPrefix(lines[1], "  memory") || !strings.Contains(lines[1], "offset=0x000008") {
		t.Errorf("unexpected first section line %q", lines[1])
	}
}

func TestBrowserNavigation(t *testing.T) {
	res := buildResult(t, memoryModule)
	m := newBrowserModel("mod.toml", res)

	if m.View() != "Loading..." {
		t.Errorf("view before size = %q", m.View())
	}
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if !m.ready {
		t.Fatal("model not ready after resize")
	}

	down := tea.KeyMsg{Type: tea.KeyDown}
	up := tea.KeyMsg{Type: tea.KeyUp}
	for i := 0; i < 5; i++ {
		m.Update(down)
	}
	if m.selected != len(res.Sections)-1 {
		t.Errorf("selected = %d, want last section", m.selected)
	}
	m.Update(up)
	if m.selected != len(res.Sections)-2 {
		t.Errorf("selected = %d after up", m.selected)
	}

	s := res.Sections[m.selected]
	if !strings.Contains(m.sectionDump(), "00000000  07") {
		t.Errorf("dump of %s does not start with its id:\n%s", s.Name, m.sectionDump())
	}

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); cmd == nil {
		t.Error("q should quit")
	}
}

func TestRealMainExitCodes(t *testing.T) {
	defer func() {
		wasm.SetLogger(zap.NewNop())
		component.SetLogger(zap.NewNop())
		manifest.SetLogger(zap.NewNop())
	}()

	dir := t.TempDir()
	good := filepath.Join(dir, "mod.toml")
	if err := os.WriteFile(good, []byte(memoryModule), 0o644); err != nil {
		t.Fatal(err)
	}
	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[[data]]\nmode = \"lazy\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "mod.wasm")

	tests := []struct {
		name string
		args []string
		want int
		msg  string
	}{
		{"no manifest", nil, 1, "Usage"},
		{"unknown flag", []string{"-nope"}, 2, "flag provided but not defined"},
		{"build error", []string{"-manifest", bad}, 1, "invalid_enum"},
		{"build error verbose", []string{"-v", "-manifest", bad}, 1, "invalid_enum"},
		{"write output", []string{"-manifest", good, "-o", out}, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			if got := realMain(tt.args, &stderr); got != tt.want {
				t.Errorf("exit code = %d, want %d (stderr: %s)", got, tt.want, stderr.String())
			}
			if !strings.Contains(stderr.String(), tt.msg) {
				t.Errorf("stderr %q missing %q", stderr.String(), tt.msg)
			}
		})
	}

	bin, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if res := buildResult(t, memoryModule); !bytes.Equal(bin, res.Bytes) {
		t.Error("written module differs from build result")
	}
}
