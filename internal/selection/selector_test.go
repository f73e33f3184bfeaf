package selection

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/fpang/frame-render/internal/cli"
)

func touch(t *testing.T, root, rel string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(rel), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
	return path
}

func newSelector(input string) (*Selector, *bytes.Buffer) {
	var out bytes.Buffer
	return NewSelector(cli.NewPrompter(strings.NewReader(input), &out)), &out
}

// fourEntryRoot builds: DIR a (x.png, y.txt), DIR b (z.jpg), c.png, d.txt.
func fourEntryRoot(t *testing.T) (root, ax, bz, c string) {
	t.Helper()
	root = t.TempDir()
	ax = touch(t, root, "a/x.png")
	touch(t, root, "a/y.txt")
	bz = touch(t, root, "b/z.jpg")
	c = touch(t, root, "c.png")
	touch(t, root, "d.txt")
	return root, ax, bz, c
}

func TestBrowseAndSelect_TwoDirectories(t *testing.T) {
	root, ax, bz, _ := fourEntryRoot(t)
	s, out := newSelector("1,2\n")

	got, err := s.BrowseAndSelect(root)
	if err != nil {
		t.Fatalf("BrowseAndSelect() error = %v", err)
	}
	if want := []string{ax, bz}; !reflect.DeepEqual(got, want) {
		t.Errorf("BrowseAndSelect() = %v, want %v", got, want)
	}

	listing := out.String()
	for _, row := range []string{"  1: [DIR] a", "  2: [DIR] b", "  3: [IMG] c.png", "  4: [IMG] d.txt"} {
		if !strings.Contains(listing, row) {
			t.Errorf("listing missing %q:\n%s", row, listing)
		}
	}
}

func TestBrowseAndSelect_NoImagesReprompts(t *testing.T) {
	root, _, _, c := fourEntryRoot(t)
	s, out := newSelector("4\n3\n")

	got, err := s.BrowseAndSelect(root)
	if err != nil {
		t.Fatalf("BrowseAndSelect() error = %v", err)
	}
	if want := []string{c}; !reflect.DeepEqual(got, want) {
		t.Errorf("BrowseAndSelect() = %v, want %v", got, want)
	}
	if !strings.Contains(out.String(), "No images found in your selection") {
		t.Errorf("expected no-images message, got:\n%s", out.String())
	}
}

func TestBrowseAndSelect_InvalidSyntaxReprompts(t *testing.T) {
	root, _, _, c := fourEntryRoot(t)
	s, out := newSelector("abc\n3\n")

	got, err := s.BrowseAndSelect(root)
	if err != nil {
		t.Fatalf("BrowseAndSelect() error = %v", err)
	}
	if len(got) != 1 || got[0] != c {
		t.Errorf("BrowseAndSelect() = %v, want [%s]", got, c)
	}
	if !strings.Contains(out.String(), "Invalid selection syntax") {
		t.Errorf("expected invalid-syntax message, got:\n%s", out.String())
	}
}

func TestBrowseAndSelect_EmptyRoot(t *testing.T) {
	s, out := newSelector("")

	got, err := s.BrowseAndSelect(t.TempDir())
	if err != nil {
		t.Fatalf("BrowseAndSelect() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("BrowseAndSelect(empty) = %v, want none", got)
	}
	if strings.Contains(out.String(), "Select [") {
		t.Error("empty root should not prompt for a selection")
	}
}

func TestBrowseAndSelect_Quit(t *testing.T) {
	root, _, _, _ := fourEntryRoot(t)
	for _, input := range []string{"q\n", "QUIT\n", ""} {
		s, _ := newSelector(input)
		if _, err := s.BrowseAndSelect(root); !errors.Is(err, cli.ErrQuit) {
			t.Errorf("input %q: error = %v, want ErrQuit", input, err)
		}
	}
}

func TestResolve_DeduplicatesAndSorts(t *testing.T) {
	root := t.TempDir()
	a := touch(t, root, "set/b.png")
	b := touch(t, root, "set/a.webp")
	entries := []Entry{
		{Path: filepath.Join(root, "set"), IsDir: true},
		{Path: a},
	}

	got := Resolve(entries, []int{1, 2, 7})
	if want := []string{b, a}; !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}
