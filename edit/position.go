package edit

import (
	"sort"
	"unicode/utf16"
	"unicode/utf8"
)

// Position is a zero-based line and a column counted in UTF-16 code units,
// the unit editors speaking LSP expect.
type Position struct {
	Line      int
	Character int
}

// LineIndex converts byte offsets of one document into line/column
// positions.
type LineIndex struct {
	src   []byte
	lines []int
}

func NewLineIndex(src []byte) *LineIndex {
	lines := []int{0}
	for i, b := range src {
		if b == '\n' {
			lines = append(lines, i+1)
		}
	}
	return &LineIndex{src: src, lines: lines}
}

func (x *LineIndex) Lines() int {
	return len(x.lines)
}

// Position clamps offset to the document.
func (x *LineIndex) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(x.src) {
		offset = len(x.src)
	}
	line := sort.Search(len(x.lines), func(i int) bool { return x.lines[i] > offset }) - 1
	col := 0
	for rest := x.src[x.lines[line]:offset]; len(rest) > 0; {
		r, size := utf8.DecodeRune(rest)
		col += utf16.RuneLen(r)
		rest = rest[size:]
	}
	return Position{Line: line, Character: col}
}

// Offset is the inverse of Position. Positions past the end of a line map
// to the end of that line.
func (x *LineIndex) Offset(pos Position) int {
	if pos.Line < 0 {
		return 0
	}
	if pos.Line >= len(x.lines) {
		return len(x.src)
	}
	offset := x.lines[pos.Line]
	end := len(x.src)
	if pos.Line+1 < len(x.lines) {
		end = x.lines[pos.Line+1] - 1
	}
	for col := 0; offset < end && col < pos.Character; {
		r, size := utf8.DecodeRune(x.src[offset:end])
		col += utf16.RuneLen(r)
		offset += size
	}
	return offset
}
