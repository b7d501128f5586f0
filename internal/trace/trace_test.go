package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Level
	}{
		{"off", LevelOff},
		{"PHASE", LevelPhase},
		{"detail", LevelDetail},
		{"debug", LevelDebug},
	} {
		got, err := ParseLevel(tc.in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestShouldEmit(t *testing.T) {
	if LevelPhase.ShouldEmit(ScopeFile) {
		t.Fatal("phase level must not emit file events")
	}
	if !LevelDetail.ShouldEmit(ScopeFile) || LevelDetail.ShouldEmit(ScopePass) {
		t.Fatal("detail level emits files but not passes")
	}
	if !LevelDebug.ShouldEmit(ScopePass) {
		t.Fatal("debug level emits everything")
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Enabled() {
		t.Fatal("off tracer must be disabled")
	}
}

func TestStreamNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatNDJSON)
	ctx := WithTracer(context.Background(), tr)

	ctx, run := BeginCtx(ctx, ScopeDriver, "scan")
	_, file := BeginCtx(ctx, ScopeFile, "file:a.c")
	file.WithExtra("records", "3").End("")
	Begin(tr, ScopePass, "lex+scan", file.ID()).End("")
	run.End("done")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 events, got %d:\n%s", len(lines), buf.String())
	}
	var ev jsonEvent
	if err := json.Unmarshal([]byte(lines[1]), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Name != "file:a.c" || ev.Scope != "file" || ev.ParentID != run.ID() {
		t.Fatalf("unexpected file event: %+v", ev)
	}
	if err := json.Unmarshal([]byte(lines[2]), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Kind != "end" || ev.Extra["records"] != "3" {
		t.Fatalf("unexpected end event: %+v", ev)
	}
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatText)
	sp := Begin(tr, ScopeDriver, "scan", 0)
	sp.WithExtra("files", "2").WithExtra("cached", "1").End("ok")

	out := buf.String()
	if !strings.Contains(out, "→ scan") || !strings.Contains(out, "← scan (ok) {cached=1, files=2}") {
		t.Fatalf("unexpected text output:\n%s", out)
	}
}

func TestFromContextDefaultsToNop(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatal("expected Nop tracer")
	}
	sp := Begin(Nop, ScopeDriver, "x", 0)
	if sp.ID() != 0 {
		t.Fatal("nop span has no id")
	}
}

func TestBeginPassCarriesFile(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	ctx := WithFile(WithTracer(context.Background(), tr), "src/a.c")

	ctx, file := BeginCtx(ctx, ScopeFile, "file:src/a.c")
	if got := CurrentSpan(ctx).File; got != "src/a.c" {
		t.Fatalf("file lost across BeginCtx: %q", got)
	}
	BeginPass(ctx, "lex+scan").End("")
	file.End("")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 events, got %d:\n%s", len(lines), buf.String())
	}
	var ev jsonEvent
	if err := json.Unmarshal([]byte(lines[2]), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Name != "lex+scan" || ev.ParentID != file.ID() || ev.Extra["file"] != "src/a.c" {
		t.Fatalf("unexpected pass end event: %+v", ev)
	}
}
