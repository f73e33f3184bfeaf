package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestPrompter(input string) (*Prompter, *bytes.Buffer) {
	var out bytes.Buffer
	return NewPrompter(strings.NewReader(input), &out), &out
}

func TestIsQuit(t *testing.T) {
	for _, in := range []string{"q", "Q", "quit", " QUIT "} {
		if !IsQuit(in) {
			t.Errorf("IsQuit(%q) = false, want true", in)
		}
	}
	for _, in := range []string{"", "qq", "exit", "1"} {
		if IsQuit(in) {
			t.Errorf("IsQuit(%q) = true, want false", in)
		}
	}
}

func TestAsk_Quit(t *testing.T) {
	p, _ := newTestPrompter("quit\n")
	if _, err := p.Ask("> "); !errors.Is(err, ErrQuit) {
		t.Fatalf("Ask() error = %v, want ErrQuit", err)
	}
}

func TestAsk_EOF(t *testing.T) {
	p, _ := newTestPrompter("")
	if _, err := p.Ask("> "); !errors.Is(err, ErrQuit) {
		t.Fatalf("Ask() at EOF error = %v, want ErrQuit", err)
	}

	p, _ = newTestPrompter("last line without newline")
	got, err := p.Ask("> ")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if got != "last line without newline" {
		t.Errorf("Ask() = %q", got)
	}
}

func TestAskText_KeepsQuitToken(t *testing.T) {
	p, _ := newTestPrompter("q\n")
	got, err := p.AskText("Narration: ")
	if err != nil {
		t.Fatalf("AskText() error = %v", err)
	}
	if got != "q" {
		t.Errorf("AskText() = %q, want q", got)
	}
}

func TestAskDefault(t *testing.T) {
	p, out := newTestPrompter("\n  renders  \n")

	got, err := p.AskDefault("Output folder", "output")
	if err != nil || got != "output" {
		t.Errorf("AskDefault(blank) = %q, %v; want output", got, err)
	}
	got, err = p.AskDefault("Output folder", "output")
	if err != nil || got != "renders" {
		t.Errorf("AskDefault(renders) = %q, %v; want renders", got, err)
	}
	if !strings.Contains(out.String(), "[default 'output']") {
		t.Errorf("prompt output %q missing default hint", out.String())
	}
}

func TestAskInt(t *testing.T) {
	positive := func(v int) bool { return v > 0 }
	tests := []struct {
		input string
		want  int
	}{
		{"\n", 24},
		{"30\n", 30},
		{"abc\n", 24},
		{"0\n", 24},
		{"-5\n", 24},
	}

	for _, tc := range tests {
		p, _ := newTestPrompter(tc.input)
		got, err := p.AskInt("FPS", 24, positive)
		if err != nil {
			t.Fatalf("AskInt(%q) error = %v", tc.input, err)
		}
		if got != tc.want {
			t.Errorf("AskInt(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}
}

func TestAskFloat(t *testing.T) {
	atLeastOne := func(v float64) bool { return v >= 1.0 }
	tests := []struct {
		input string
		want  float64
	}{
		{"\n", 1.0},
		{"1.5\n", 1.5},
		{"x\n", 1.0},
		{"0.5\n", 1.0},
		{"inf\n", 1.0},
		{"+Inf\n", 1.0},
		{"NaN\n", 1.0},
	}

	for _, tc := range tests {
		p, _ := newTestPrompter(tc.input)
		got, err := p.AskFloat("Max zoom factor", 1.0, atLeastOne)
		if err != nil {
			t.Fatalf("AskFloat(%q) error = %v", tc.input, err)
		}
		if got != tc.want {
			t.Errorf("AskFloat(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"sure\n", false},
	}

	for _, tc := range tests {
		p, _ := newTestPrompter(tc.input)
		got, err := p.Confirm("Render another?")
		if err != nil {
			t.Fatalf("Confirm(%q) error = %v", tc.input, err)
		}
		if got != tc.want {
			t.Errorf("Confirm(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestResolveDirectory(t *testing.T) {
	dir := t.TempDir()
	got, err := ResolveDirectory(dir)
	if err != nil {
		t.Fatalf("ResolveDirectory() error = %v", err)
	}
	if got != dir {
		t.Errorf("ResolveDirectory() = %q, want %q", got, dir)
	}

	if _, err := ResolveDirectory(dir + "/missing"); err == nil {
		t.Error("ResolveDirectory(missing) returned nil error")
	}
}

func TestEnsureDirectory(t *testing.T) {
	dir := t.TempDir() + "/a/b"
	got, err := EnsureDirectory(dir)
	if err != nil {
		t.Fatalf("EnsureDirectory() error = %v", err)
	}
	if got != dir {
		t.Errorf("EnsureDirectory() = %q, want %q", got, dir)
	}
}

func TestFormatDurationShort(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{5 * time.Second, "0:05"},
		{75 * time.Second, "1:15"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
	}
	for _, tc := range tests {
		if got := FormatDurationShort(tc.d); got != tc.want {
			t.Errorf("FormatDurationShort(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	if got := FormatBytes(1536); got != "1.5 KiB" {
		t.Errorf("FormatBytes(1536) = %q, want 1.5 KiB", got)
	}
}
