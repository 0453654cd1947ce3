// Package diff renders line diffs between a document and its sorted form.
package diff

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// contextLines is the number of unchanged lines kept around each change.
const contextLines = 3

type line struct {
	op   diffpatch.Operation
	text string
	// 1-based positions in before and after
	oldLine, newLine int
}

// Unified returns a unified-style diff from before to after, or an empty
// string when they are equal. Lines are colored red and green when colored
// is set, regardless of whether the output is a terminal.
func Unified(name, before, after string, colored bool) string {
	if before == after {
		return ""
	}

	lines := diffLines(before, after)

	var (
		removed = fmt.Sprint
		added   = fmt.Sprint
		header  = fmt.Sprint
	)
	if colored {
		removed = enabled(color.FgRed).Sprint
		added = enabled(color.FgGreen).Sprint
		header = enabled(color.FgCyan).Sprint
	}

	var b strings.Builder
	b.WriteString(header(fmt.Sprintf("--- %s", name)) + "\n")
	b.WriteString(header(fmt.Sprintf("+++ %s (sorted)", name)) + "\n")

	for _, h := range hunks(lines) {
		first := lines[h[0]]
		b.WriteString(header(fmt.Sprintf("@@ -%d +%d @@", first.oldLine, first.newLine)) + "\n")
		for _, l := range lines[h[0]:h[1]] {
			switch l.op {
			case diffpatch.DiffDelete:
				b.WriteString(removed("-"+l.text) + "\n")
			case diffpatch.DiffInsert:
				b.WriteString(added("+"+l.text) + "\n")
			default:
				b.WriteString(" " + l.text + "\n")
			}
		}
	}
	return b.String()
}

func enabled(attr color.Attribute) *color.Color {
	c := color.New(attr)
	c.EnableColor()
	return c
}

// diffLines runs a line-mode diff and splits the result into single lines.
func diffLines(before, after string) []line {
	dmp := diffpatch.New()
	a, b, table := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), table)

	var (
		out              []line
		oldLine, newLine = 1, 1
	)
	for _, d := range diffs {
		for _, text := range splitLines(d.Text) {
			out = append(out, line{op: d.Type, text: text, oldLine: oldLine, newLine: newLine})
			switch d.Type {
			case diffpatch.DiffDelete:
				oldLine++
			case diffpatch.DiffInsert:
				newLine++
			default:
				oldLine++
				newLine++
			}
		}
	}
	return out
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}

// hunks returns the [start, end) ranges of lines to print: every change plus
// up to contextLines unchanged lines on either side, with overlapping ranges
// merged.
func hunks(lines []line) [][2]int {
	var out [][2]int
	for i, l := range lines {
		if l.op == diffpatch.DiffEqual {
			continue
		}
		start := max(0, i-contextLines)
		end := min(len(lines), i+contextLines+1)
		if n := len(out); n > 0 && start <= out[n-1][1] {
			out[n-1][1] = max(out[n-1][1], end)
			continue
		}
		out = append(out, [2]int{start, end})
	}
	return out
}
