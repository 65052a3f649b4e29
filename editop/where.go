package editop

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/mxtool/mx/debug"
	"github.com/mxtool/mx/xmlgap"
)

// Predicate is a compiled -where expression. It runs against a small
// environment describing one candidate element: name, title, type and
// path, all strings.
type Predicate struct {
	src  string
	prog *vm.Program
}

// CompileWhere compiles a boolean expression over the candidate
// environment.
func CompileWhere(src string) (*Predicate, error) {
	prog, err := expr.Compile(src,
		expr.Env(map[string]string{}),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("bad where expression %q: %w", src, err)
	}
	return &Predicate{src: src, prog: prog}, nil
}

func (p *Predicate) String() string { return p.src }

// Match evaluates the predicate against el. The name is the identity
// the caller matched on, the title and type are read from the
// element's children when present.
func (p *Predicate) Match(el *xmlgap.Node, name string) (bool, error) {
	env := map[string]string{
		"name":  name,
		"title": elementTitle(el),
		"type":  elementType(el),
		"path":  el.Path(),
	}
	if debug.Op() {
		debug.LogAny(env)
	}
	out, err := expr.Run(p.prog, env)
	if err != nil {
		return false, fmt.Errorf("where %q: %w", p.src, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

// match applies the context predicate, logging skipped candidates.
// A nil predicate matches everything.
func (cx *Context) match(el *xmlgap.Node, name string) (bool, error) {
	if cx.Where == nil {
		return true, nil
	}
	ok, err := cx.Where.Match(el, name)
	if err != nil {
		return false, err
	}
	if !ok {
		cx.Log.Infof("%q does not match where %s, skipped", name, cx.Where)
	}
	return ok, nil
}

// elementTitle digs the localized title text out of a schema element,
// or the synonym out of a metadata object child.
func elementTitle(el *xmlgap.Node) string {
	title := el.Child("title")
	if title == nil {
		if props := el.Child("Properties"); props != nil {
			if syn := props.Child("Synonym"); syn != nil {
				for _, item := range syn.Children("item") {
					if c := item.Child("content"); c != nil {
						return c.TrimText()
					}
				}
			}
		}
		return ""
	}
	for _, item := range title.Children("item") {
		if c := item.Child("content"); c != nil {
			return c.TrimText()
		}
	}
	return title.TrimText()
}

// elementType reads the declared value type: the v8:Type text under
// valueType, or the element's own xsi:type attribute.
func elementType(el *xmlgap.Node) string {
	if vt := el.Child("valueType"); vt != nil {
		if t := vt.Child("Type"); t != nil {
			return t.TrimText()
		}
	}
	if props := el.Child("Properties"); props != nil {
		if outer := props.Child("Type"); outer != nil {
			if t := outer.Child("Type"); t != nil {
				return t.TrimText()
			}
		}
	}
	if t, ok := el.Attr("xsi:type"); ok {
		return xmlgap.Unescape(t)
	}
	return ""
}
