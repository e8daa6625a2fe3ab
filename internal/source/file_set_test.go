package source

import "testing"

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("my-el.html", []byte("hello world"), 0)
	id2 := fs.Add("my-el.html", []byte("hello universe"), 0)
	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %d twice", id1)
	}

	latest, ok := fs.Lookup("my-el.html")
	if !ok {
		t.Fatalf("expected file to exist")
	}
	if latest.ID != id2 {
		t.Fatalf("latest id = %d, want %d", latest.ID, id2)
	}
	if got := string(fs.Get(id1).Content); got != "hello world" {
		t.Fatalf("old version content = %q", got)
	}
}

func TestFilePositionAndOffset(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("x.js", []byte("ab\ncde\n\nf"))
	f := fs.Get(id)

	tests := []struct {
		offset int
		want   Position
	}{
		{0, Position{0, 0}},
		{2, Position{0, 2}},
		{3, Position{1, 0}},
		{5, Position{1, 2}},
		{7, Position{2, 0}},
		{8, Position{3, 0}},
		{9, Position{3, 1}},
	}
	for _, tt := range tests {
		if got := f.Position(tt.offset); got != tt.want {
			t.Fatalf("Position(%d) = %v, want %v", tt.offset, got, tt.want)
		}
		if got := f.Offset(tt.want); got != tt.offset {
			t.Fatalf("Offset(%v) = %d, want %d", tt.want, got, tt.offset)
		}
	}
}

func TestFileLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("x.html", []byte("first\r\nsecond\nthird")))

	if f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("expected CRLF normalization flag")
	}
	want := []string{"first", "second", "third", ""}
	for i, w := range want {
		if got := f.Line(uint32(i)); got != w {
			t.Fatalf("Line(%d) = %q, want %q", i, got, w)
		}
	}
	if f.LineCount() != 3 {
		t.Fatalf("LineCount() = %d, want 3", f.LineCount())
	}
}
