package editop

import (
	"strings"

	"github.com/mxtool/mx/debug"
)

// Separator splits one command-line value into sub-operations.
const Separator = ";;"

// Split breaks value into the sub-values op runs over. Single-value
// operations (query text, structure chains) take the value whole;
// everything else splits on the separator, dropping blanks.
func Split(op *Op, value string) []string {
	if op.Single {
		return []string{value}
	}
	var out []string
	for _, v := range strings.Split(value, Separator) {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Run applies op to every sub-value of value against cx. The first
// error stops the batch; callers decide whether the document is still
// worth writing (it is not). Operations that take no value, like the
// clear family, run once with an empty value.
func Run(cx *Context, op *Op, value string) error {
	vals := Split(op, value)
	if len(vals) == 0 {
		vals = []string{""}
	}
	for _, v := range vals {
		if debug.Op() {
			debug.Logf("op %s %q", op.Name, v)
		}
		if err := op.Apply(cx, v); err != nil {
			return err
		}
	}
	return nil
}
