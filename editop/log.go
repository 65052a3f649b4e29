package editop

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Log collects audit lines for applied operations and keeps the
// change counters the final summary reports.
type Log struct {
	W     io.Writer
	Color bool

	Added    int
	Removed  int
	Modified int
	Warnings int
}

func NewLog(w io.Writer, colored bool) *Log {
	return &Log{W: w, Color: colored}
}

func (l *Log) tag(t string, c func(format string, a ...interface{}) string) string {
	if l.Color {
		return c("[%s]", t)
	}
	return "[" + t + "]"
}

func (l *Log) line(tag string, c func(format string, a ...interface{}) string, format string, args ...any) {
	if l.W == nil {
		return
	}
	fmt.Fprintf(l.W, "%s %s\n", l.tag(tag, c), fmt.Sprintf(format, args...))
}

// OK reports a completed change. The counter arguments let callers
// attribute the line to adds, removes or modifications.
func (l *Log) OK(format string, args ...any) {
	l.line("OK", color.GreenString, format, args...)
}

func (l *Log) Warnf(format string, args ...any) {
	l.Warnings++
	l.line("WARN", color.YellowString, format, args...)
}

func (l *Log) Infof(format string, args ...any) {
	l.line("INFO", color.CyanString, format, args...)
}

func (l *Log) added(format string, args ...any) {
	l.Added++
	l.OK(format, args...)
}

func (l *Log) removed(format string, args ...any) {
	l.Removed++
	l.OK(format, args...)
}

func (l *Log) modified(format string, args ...any) {
	l.Modified++
	l.OK(format, args...)
}

// Summary renders the closing counters line.
func (l *Log) Summary() string {
	return fmt.Sprintf("%d added, %d removed, %d modified, %d warnings",
		l.Added, l.Removed, l.Modified, l.Warnings)
}
