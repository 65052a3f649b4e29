package preview

import (
	"strings"
	"testing"
)

func doc(lines ...string) []byte {
	return []byte(strings.Join(lines, "\r\n") + "\r\n")
}

func TestDiffMarksChange(t *testing.T) {
	before := doc("<a>", "\t<b>1</b>", "</a>")
	after := doc("<a>", "\t<b>2</b>", "</a>")

	got := Diff(before, after, false)
	want := "  <a>\n" +
		"- \t<b>1</b>\n" +
		"+ \t<b>2</b>\n" +
		"  </a>\n"
	if got != want {
		t.Errorf("Diff = %q, want %q", got, want)
	}
}

func TestDiffElidesLongContext(t *testing.T) {
	var lines []string
	for i := 0; i < 20; i++ {
		lines = append(lines, "\t<x/>")
	}
	before := doc(append([]string{"<a>"}, append(lines, "</a>")...)...)
	after := doc(append([]string{"<b>"}, append(lines, "</a>")...)...)

	got := Diff(before, after, false)
	if !strings.Contains(got, "  ...\n") {
		t.Errorf("long unchanged run not elided:\n%s", got)
	}
	if n := strings.Count(got, "<x/>"); n > 2*3 {
		t.Errorf("kept %d context lines, want at most 6", n)
	}
	if !strings.Contains(got, "- <a>\n") || !strings.Contains(got, "+ <b>\n") {
		t.Errorf("change markers missing:\n%s", got)
	}
}

func TestDiffIdentical(t *testing.T) {
	b := doc("<a>", "</a>")
	got := Diff(b, b, false)
	if strings.ContainsAny(got, "+-") {
		t.Errorf("identical inputs produced change markers: %q", got)
	}
}
