package source

import "testing"

func TestCorrectRangeShiftsFirstLineColumnOnly(t *testing.T) {
	offset := &LocationOffset{Line: 10, Col: 4, Filename: "index.html"}
	tests := []struct {
		name string
		in   Range
		want Range
	}{
		{
			name: "single line on first line",
			in:   Range{File: "index.html", Start: Position{0, 2}, End: Position{0, 7}},
			want: Range{File: "index.html", Start: Position{10, 6}, End: Position{10, 11}},
		},
		{
			name: "spans into later lines",
			in:   Range{File: "index.html", Start: Position{0, 1}, End: Position{3, 5}},
			want: Range{File: "index.html", Start: Position{10, 5}, End: Position{13, 5}},
		},
		{
			name: "later lines keep column",
			in:   Range{File: "index.html", Start: Position{2, 0}, End: Position{2, 9}},
			want: Range{File: "index.html", Start: Position{12, 0}, End: Position{12, 9}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CorrectRange(tt.in, offset); got != tt.want {
				t.Fatalf("CorrectRange() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCorrectRangeNilOffset(t *testing.T) {
	r := Range{File: "a.js", Start: Position{1, 1}, End: Position{1, 4}}
	if got := CorrectRange(r, nil); got != r {
		t.Fatalf("CorrectRange(nil) = %v, want %v", got, r)
	}
}

func TestRangeContains(t *testing.T) {
	outer := Range{File: "a.html", Start: Position{1, 0}, End: Position{20, 0}}
	inner := Range{File: "a.html", Start: Position{3, 2}, End: Position{5, 0}}
	other := Range{File: "b.html", Start: Position{3, 2}, End: Position{5, 0}}

	if !outer.Contains(inner) {
		t.Fatalf("expected %v to contain %v", outer, inner)
	}
	if inner.Contains(outer) {
		t.Fatalf("did not expect %v to contain %v", inner, outer)
	}
	if outer.Contains(other) {
		t.Fatalf("ranges from different files must not contain each other")
	}
	if !outer.ContainsPosition(Position{20, 0}) {
		t.Fatalf("end position is inclusive")
	}
}

func TestNewRangePanicsOnInvertedRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for inverted range")
		}
	}()
	NewRange("a.js", Position{2, 0}, Position{1, 0})
}

func TestRangeCover(t *testing.T) {
	a := Range{File: "a.js", Start: Position{2, 4}, End: Position{2, 8}}
	b := Range{File: "a.js", Start: Position{1, 0}, End: Position{2, 6}}
	want := Range{File: "a.js", Start: Position{1, 0}, End: Position{2, 8}}
	if got := a.Cover(b); got != want {
		t.Fatalf("Cover() = %v, want %v", got, want)
	}
}
