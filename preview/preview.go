// Package preview renders a line diff between the loaded document
// bytes and the edited result, for showing a change without writing
// it.
package preview

import (
	"strings"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Diff returns a unified-style line diff of before and after.
// Unchanged runs longer than a few lines are elided. Colored output
// marks insertions green and deletions red.
func Diff(before, after []byte, colored bool) string {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(string(before), string(after))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for i, d := range diffs {
		switch d.Type {
		case diffpatch.DiffEqual:
			writeContext(&sb, d.Text, i == 0, i == len(diffs)-1)
		case diffpatch.DiffDelete:
			writeMarked(&sb, d.Text, "-", color.RedString, colored)
		case diffpatch.DiffInsert:
			writeMarked(&sb, d.Text, "+", color.GreenString, colored)
		}
	}
	return sb.String()
}

const contextLines = 3

// writeContext keeps only the lines adjacent to a change, replacing
// the elided middle with a separator.
func writeContext(sb *strings.Builder, text string, first, last bool) {
	lines := splitLines(text)
	if len(lines) <= 2*contextLines {
		for _, l := range lines {
			sb.WriteString("  " + l + "\n")
		}
		return
	}
	if !first {
		for _, l := range lines[:contextLines] {
			sb.WriteString("  " + l + "\n")
		}
	}
	sb.WriteString("  ...\n")
	if !last {
		for _, l := range lines[len(lines)-contextLines:] {
			sb.WriteString("  " + l + "\n")
		}
	}
}

func writeMarked(sb *strings.Builder, text, mark string, c func(format string, a ...interface{}) string, colored bool) {
	for _, l := range splitLines(text) {
		if colored {
			sb.WriteString(c("%s %s", mark, l) + "\n")
		} else {
			sb.WriteString(mark + " " + l + "\n")
		}
	}
}

func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
