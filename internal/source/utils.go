package source

import (
	"bytes"
	"sort"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// normalizeCRLF turns \r\n into \n; a lone \r is kept.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if bytes.IndexByte(content, '\r') < 0 {
		return content, false
	}
	out := bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	return out, len(out) != len(content)
}

func removeBOM(content []byte) ([]byte, bool) {
	trimmed := bytes.TrimPrefix(content, utf8BOM)
	return trimmed, len(trimmed) != len(content)
}

// buildLineIndex: смещения всех '\n' по возрастанию.
func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for off := 0; ; {
		i := bytes.IndexByte(content[off:], '\n')
		if i < 0 {
			return out
		}
		off += i
		out = append(out, uint32(off))
		off++
	}
}

// offsetToPosition maps a byte offset to a zero-based line and column;
// the line is the number of newlines strictly before off.
func offsetToPosition(lineIdx []uint32, off uint32) Position {
	line := sort.Search(len(lineIdx), func(i int) bool { return lineIdx[i] >= off })
	if line == 0 {
		return Position{Column: off}
	}
	return Position{Line: uint32(line), Column: off - lineIdx[line-1] - 1}
}
