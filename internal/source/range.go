package source

import (
	"fmt"
)

// NewRange builds a range and panics when start is after end.
func NewRange(file string, start, end Position) Range {
	if end.Less(start) {
		panic(fmt.Errorf("source.NewRange: start %s after end %s in %q", start, end, file))
	}
	return Range{File: file, Start: start, End: end}
}

// IsZero reports whether the range was never set.
func (r Range) IsZero() bool {
	return r == Range{}
}

// Empty reports whether the range covers no characters.
func (r Range) Empty() bool {
	return r.Start == r.End
}

func (r Range) String() string {
	return fmt.Sprintf("%s:%s-%s", r.File, r.Start, r.End)
}

// Compare orders ranges by file, start and end.
func (r Range) Compare(other Range) int {
	if r.File != other.File {
		if r.File < other.File {
			return -1
		}
		return 1
	}
	if c := r.Start.Compare(other.Start); c != 0 {
		return c
	}
	return r.End.Compare(other.End)
}

// ContainsPosition reports whether pos lies within [Start, End].
func (r Range) ContainsPosition(pos Position) bool {
	return r.Start.Compare(pos) <= 0 && pos.Compare(r.End) <= 0
}

// Contains reports whether other lies completely inside r (same file).
func (r Range) Contains(other Range) bool {
	if r.File != other.File {
		return false
	}
	return r.ContainsPosition(other.Start) && r.ContainsPosition(other.End)
}

// Cover returns the smallest range spanning both ranges. Ranges from
// different files are not merged.
func (r Range) Cover(other Range) Range {
	if r.File != other.File {
		return r
	}
	if other.Start.Less(r.Start) {
		r.Start = other.Start
	}
	if r.End.Less(other.End) {
		r.End = other.End
	}
	return r
}

// CorrectRange converts a range relative to an inline document into the
// containing file's coordinates.
func CorrectRange(r Range, offset *LocationOffset) Range {
	if offset == nil {
		return r
	}
	file := r.File
	if offset.Filename != "" {
		file = offset.Filename
	}
	return Range{
		File:  file,
		Start: CorrectPosition(r.Start, offset),
		End:   CorrectPosition(r.End, offset),
	}
}
