package scan

import (
	"plexus/internal/source"
)

// Locator converts byte offsets of the scanned text into ranges of the file
// the text lives in.
type Locator struct {
	file   *source.File
	offset *source.LocationOffset
}

// NewLocator measures req.Text. For inline requests the ranges it hands out
// are already shifted into the containing file.
func NewLocator(req Request) Locator {
	return Locator{file: source.NewFile(req.URL, req.Text), offset: req.Offset}
}

// Range returns the range of text[start:end].
func (l Locator) Range(start, end int) source.Range {
	end = min(end, len(l.file.Content))
	start = min(start, end)
	return source.CorrectRange(l.file.Range(start, end), l.offset)
}

// Position returns the position of text[off].
func (l Locator) Position(off int) source.Position {
	off = min(off, len(l.file.Content))
	return source.CorrectPosition(l.file.Position(off), l.offset)
}

// Whole covers the entire text.
func (l Locator) Whole() source.Range {
	return l.Range(0, len(l.file.Content))
}

// OffsetAt returns the location offset for a document embedded at text[off].
func (l Locator) OffsetAt(off int) *source.LocationOffset {
	pos := l.Position(off)
	name := l.file.URL
	if l.offset != nil && l.offset.Filename != "" {
		name = l.offset.Filename
	}
	return &source.LocationOffset{Line: pos.Line, Col: pos.Column, Filename: name}
}
