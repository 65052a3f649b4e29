// Package editop names the operations the patch engine supports and
// applies them to loaded documents. Each operation owns one shorthand
// grammar and the splice logic for its target container.
package editop

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mxtool/mx/dialect"
	"github.com/mxtool/mx/edit"
	"github.com/mxtool/mx/idalloc"
	"github.com/mxtool/mx/render"
	"github.com/mxtool/mx/xmlgap"
)

var (
	ErrUnknownOp = errors.New("unknown operation")
	ErrNotFound  = errors.New("not found")
)

// Op is one registered operation.
type Op struct {
	Name    string
	Doc     string
	Dialect dialect.Name
	// Single means the value is taken whole, never split on the
	// batch separator.
	Single bool
	Apply  func(cx *Context, value string) error
}

var registry = map[string]*Op{}

func register(op *Op) {
	if _, dup := registry[op.Name]; dup {
		panic(fmt.Sprintf("editop: duplicate op %q", op.Name))
	}
	registry[op.Name] = op
}

// Lookup resolves an operation name; the error carries a nearest-name
// suggestion when one is plausible.
func Lookup(name string) (*Op, error) {
	if op, ok := registry[name]; ok {
		return op, nil
	}
	if hint := dialect.Suggest(name, Names()); hint != "" {
		return nil, fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownOp, name, hint)
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownOp, name)
}

// Names lists the registered operation names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Context is the shared state one batch of operations runs against.
type Context struct {
	Doc *xmlgap.Document
	Ed  *edit.Editor
	R   *render.Renderer
	Log *Log

	// DataSet and Variant select the target containers; empty means
	// the first one in the document.
	DataSet string
	Variant string

	// NoCascade suppresses the follow-up edits an operation would
	// otherwise make (selection upkeep on field adds and removes).
	NoCascade bool

	// Where holds a compiled predicate narrowing which elements a
	// remove or modify touches; nil matches everything.
	Where *Predicate

	// Datasets allocates names for anonymous dataSet adds.
	Datasets *idalloc.Pool

	warnedForeign bool
}

// NewContext wires a context with default renderer and log.
func NewContext(doc *xmlgap.Document, log *Log) *Context {
	return &Context{
		Doc:      doc,
		Ed:       edit.New(doc),
		R:        render.New(),
		Log:      log,
		Datasets: idalloc.New(1, 0),
	}
}

// warnForeign reports an unknown child kind once per run.
func (cx *Context) warnForeign(kind, container string) {
	if cx.warnedForeign {
		return
	}
	cx.warnedForeign = true
	cx.Log.Warnf("kind %q has no canonical position in <%s>, appended last", kind, container)
}
