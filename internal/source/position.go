package source

import "fmt"

// Compare orders positions by line, then column.
func (p Position) Compare(other Position) int {
	switch {
	case p.Line < other.Line:
		return -1
	case p.Line > other.Line:
		return 1
	case p.Column < other.Column:
		return -1
	case p.Column > other.Column:
		return 1
	}
	return 0
}

// Less reports whether p sorts before other.
func (p Position) Less(other Position) bool {
	return p.Compare(other) < 0
}

// String renders the position 1-based, the way editors display it.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Column+1)
}

// CorrectPosition maps a position relative to an inline document into the
// coordinates of the containing file. The column offset only applies to the
// first line of the inline text.
func CorrectPosition(pos Position, offset *LocationOffset) Position {
	if offset == nil {
		return pos
	}
	out := Position{Line: pos.Line + offset.Line, Column: pos.Column}
	if pos.Line == 0 {
		out.Column += offset.Col
	}
	return out
}
