package format

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffContext is the number of unchanged lines shown around each change.
const DiffContext = 3

// UnifiedDiff renders the line diff from a to b in unified format, or ""
// when they are equal.
func UnifiedDiff(a, b string) string {
	return UnifiedDiffNamed("a", "b", a, b)
}

func UnifiedDiffNamed(fromName, toName, a, b string) string {
	if a == b {
		return ""
	}
	lines := diffLines(a, b)

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s\n+++ %s\n", fromName, toName)
	for _, h := range hunks(lines) {
		writeHunk(&sb, lines[h.from:h.to])
	}
	return sb.String()
}

type diffLine struct {
	op   byte
	text string
	old  int
	new  int
}

// diffLines runs a line-mode diff: every line is mapped to one rune, so
// the rune count of each diff chunk is its line count.
func diffLines(a, b string) []diffLine {
	dmp := diffmatchpatch.New()
	src, dst, _ := dmp.DiffLinesToRunes(a, b)
	diffs := dmp.DiffMainRunes(src, dst, false)

	from, to := splitLines(a), splitLines(b)
	var out []diffLine
	oldLine, newLine := 1, 1
	for _, d := range diffs {
		n := utf8.RuneCountInString(d.Text)
		for range n {
			l := diffLine{old: oldLine, new: newLine}
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				l.op, l.text = ' ', from[oldLine-1]
				oldLine++
				newLine++
			case diffmatchpatch.DiffDelete:
				l.op, l.text = '-', from[oldLine-1]
				oldLine++
			case diffmatchpatch.DiffInsert:
				l.op, l.text = '+', to[newLine-1]
				newLine++
			}
			out = append(out, l)
		}
	}
	return out
}

func splitLines(text string) []string {
	lines := strings.SplitAfter(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

type hunk struct {
	from, to int
}

// hunks groups changed lines that are at most 2*DiffContext unchanged
// lines apart.
func hunks(lines []diffLine) []hunk {
	var out []hunk
	for i := 0; i < len(lines); i++ {
		if lines[i].op == ' ' {
			continue
		}
		last := i
		for j := i + 1; j < len(lines) && j-last <= 2*DiffContext+1; j++ {
			if lines[j].op != ' ' {
				last = j
			}
		}
		out = append(out, hunk{
			from: max(0, i-DiffContext),
			to:   min(len(lines), last+DiffContext+1),
		})
		i = last
	}
	return out
}

func writeHunk(sb *strings.Builder, lines []diffLine) {
	oldStart, newStart := lines[0].old, lines[0].new
	oldCount, newCount := 0, 0
	for _, l := range lines {
		if l.op != '+' {
			oldCount++
		}
		if l.op != '-' {
			newCount++
		}
	}
	if oldCount == 0 {
		oldStart--
	}
	if newCount == 0 {
		newStart--
	}
	fmt.Fprintf(sb, "@@ -%d,%d +%d,%d @@\n", oldStart, oldCount, newStart, newCount)
	for _, l := range lines {
		sb.WriteByte(l.op)
		sb.WriteString(l.text)
		if !strings.HasSuffix(l.text, "\n") {
			sb.WriteString("\n\\ No newline at end of file\n")
		}
	}
}

// DiffWriter colours unified diff text line by line as it is written.
type DiffWriter struct {
	w       io.Writer
	pending []byte

	header *color.Color
	hunk   *color.Color
	add    *color.Color
	del    *color.Color
}

func NewDiffWriter(w io.Writer) *DiffWriter {
	return &DiffWriter{
		w:      w,
		header: color.New(color.Bold),
		hunk:   color.New(color.FgCyan),
		add:    color.New(color.FgGreen),
		del:    color.New(color.FgRed),
	}
}

func (d *DiffWriter) Write(p []byte) (int, error) {
	d.pending = append(d.pending, p...)
	for {
		i := bytes.IndexByte(d.pending, '\n')
		if i < 0 {
			return len(p), nil
		}
		if err := d.writeLine(string(d.pending[:i])); err != nil {
			return 0, err
		}
		d.pending = d.pending[i+1:]
	}
}

// Flush writes a trailing line that has no newline yet.
func (d *DiffWriter) Flush() error {
	if len(d.pending) == 0 {
		return nil
	}
	line := string(d.pending)
	d.pending = nil
	return d.print(line)
}

func (d *DiffWriter) writeLine(line string) error {
	if err := d.print(line); err != nil {
		return err
	}
	_, err := io.WriteString(d.w, "\n")
	return err
}

func (d *DiffWriter) print(line string) error {
	c := d.colorFor(line)
	if c == nil {
		_, err := io.WriteString(d.w, line)
		return err
	}
	_, err := c.Fprint(d.w, line)
	return err
}

func (d *DiffWriter) colorFor(line string) *color.Color {
	switch {
	case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		return d.header
	case strings.HasPrefix(line, "@@"):
		return d.hunk
	case strings.HasPrefix(line, "+"):
		return d.add
	case strings.HasPrefix(line, "-"):
		return d.del
	}
	return nil
}
