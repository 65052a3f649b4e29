package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Scan    bool
	Indent  bool
	Splice  bool
	Render  bool
	Op      bool
	Cascade bool
}

var d *debug

func init() {
	d = &debug{}
	d.Scan = boolEnv("MX_DEBUG_SCAN")
	d.Indent = boolEnv("MX_DEBUG_INDENT")
	d.Splice = boolEnv("MX_DEBUG_SPLICE")
	d.Render = boolEnv("MX_DEBUG_RENDER")
	d.Op = boolEnv("MX_DEBUG_OP")
	d.Cascade = boolEnv("MX_DEBUG_CASCADE")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Scan() bool {
	return d.Scan
}
func Indent() bool {
	return d.Indent
}
func Splice() bool {
	return d.Splice
}
func Render() bool {
	return d.Render
}
func Op() bool {
	return d.Op
}
func Cascade() bool {
	return d.Cascade
}

func Logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

func LogAny(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", v)
		return
	}
	os.Stderr.Write(append(d, '\n'))
}
