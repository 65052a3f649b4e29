// Package edit splices rendered fragments into loaded documents,
// re-threading the surrounding whitespace so untouched bytes survive
// a round trip.
package edit

import (
	"strings"

	"github.com/mxtool/mx/debug"
	"github.com/mxtool/mx/dialect"
	"github.com/mxtool/mx/xmlgap"
)

// Editor performs structural edits on one document. The document's
// newline convention is reused for every gap the editor writes.
type Editor struct {
	Doc *xmlgap.Document
}

func New(doc *xmlgap.Document) *Editor {
	return &Editor{Doc: doc}
}

func (e *Editor) nl() string { return e.Doc.NL }

// ChildIndent recovers the whitespace unit separating container from
// its children: the run after the last newline in the gap before any
// child, or a depth-derived fallback when no such gap exists.
func ChildIndent(container *xmlgap.Node) string {
	for i := range container.Kids {
		gap := container.Text
		if i > 0 {
			gap = container.Kids[i-1].Tail
		}
		if nl := strings.LastIndexByte(gap, '\n'); nl >= 0 {
			run := gap[nl+1:]
			if run != "" && strings.TrimSpace(run) == "" {
				return run
			}
		}
	}
	if debug.Indent() {
		debug.Logf("indent: <%s> has no usable gap, using depth %d", container.Name, container.Depth()+1)
	}
	return strings.Repeat("\t", container.Depth()+1)
}

// ContainerChildIndent is ChildIndent for containers that may still
// be empty: an empty container indents one unit past its parent.
func ContainerChildIndent(container *xmlgap.Node) string {
	if len(container.Elems()) > 0 {
		return ChildIndent(container)
	}
	if container.Parent != nil {
		return ChildIndent(container.Parent) + "\t"
	}
	return "\t"
}

// parentIndent derives the closing-tag indent from a child indent.
func parentIndent(childIndent string) string {
	if len(childIndent) > 0 {
		return childIndent[:len(childIndent)-1]
	}
	return ""
}

// InsertBefore splices node into container before ref, or appends
// when ref is nil. Gaps around the splice point are re-threaded with
// childIndent.
func (e *Editor) InsertBefore(container, node, ref *xmlgap.Node, childIndent string) {
	if debug.Splice() {
		refName := "(append)"
		if ref != nil {
			refName = "<" + ref.Name + ">"
		}
		debug.Logf("splice: <%s> into <%s> before %s, indent %q", node.Name, container.Name, refName, childIndent)
	}
	nl := e.nl()
	node.Parent = container
	if ref != nil {
		idx := ref.Index()
		node.Tail = nl + childIndent
		container.Kids = append(container.Kids[:idx], append([]*xmlgap.Node{node}, container.Kids[idx:]...)...)
		return
	}
	if len(container.Kids) > 0 {
		last := container.Kids[len(container.Kids)-1]
		node.Tail = last.Tail
		last.Tail = nl + childIndent
		container.Kids = append(container.Kids, node)
		return
	}
	// empty, possibly self-closed
	container.SelfClose = false
	container.Text = nl + childIndent
	node.Tail = nl + parentIndent(childIndent)
	container.Kids = append(container.Kids, node)
}

// InsertOrdered inserts node as a child of kind, honoring spec's
// canonical order: after the last existing child of the same kind,
// otherwise before the first child of a later-ordered kind. Kinds the
// spec does not know go last; the return value reports that case so
// callers can warn.
func (e *Editor) InsertOrdered(container, node *xmlgap.Node, kind string, spec *dialect.OrderSpec, childIndent string) (foreign bool) {
	if spec == nil {
		e.InsertBefore(container, node, nil, childIndent)
		return false
	}
	idx, known := spec.Index(kind)
	if !known {
		e.InsertBefore(container, node, nil, childIndent)
		return true
	}
	var last *xmlgap.Node
	for _, ch := range container.Elems() {
		if ch.Local() == kind {
			last = ch
		}
	}
	if last != nil {
		e.InsertBefore(container, node, last.NextElem(), childIndent)
		return false
	}
	for _, ch := range container.Elems() {
		chIdx, _ := spec.Index(ch.Local())
		if chIdx > idx {
			e.InsertBefore(container, node, ch, childIndent)
			return false
		}
	}
	e.InsertBefore(container, node, nil, childIndent)
	return false
}

// InsertFragments parses rendered fragment strings and splices each
// into container with InsertOrdered.
func (e *Editor) InsertFragments(container *xmlgap.Node, frags []string, kind string, spec *dialect.OrderSpec, childIndent string) (foreign bool, err error) {
	for _, f := range frags {
		nodes, perr := xmlgap.ParseFragment(f)
		if perr != nil {
			return false, perr
		}
		for _, n := range nodes {
			if e.InsertOrdered(container, n, kind, spec, childIndent) {
				foreign = true
			}
		}
	}
	return foreign, nil
}

// Remove unlinks node from its parent, handing its tail gap to the
// preceding sibling or to the parent's leading text.
func (e *Editor) Remove(node *xmlgap.Node) {
	parent := node.Parent
	if parent == nil {
		return
	}
	idx := node.Index()
	if idx < 0 {
		return
	}
	if idx > 0 {
		parent.Kids[idx-1].Tail = node.Tail
	} else {
		parent.Text = node.Tail
	}
	parent.Kids = append(parent.Kids[:idx], parent.Kids[idx+1:]...)
	node.Parent = nil
}

// Clear removes every element child of container, keeping raw nodes
// (comments, processing instructions) in place.
func (e *Editor) Clear(container *xmlgap.Node) int {
	var victims []*xmlgap.Node
	for _, ch := range container.Kids {
		if ch.IsElem() {
			victims = append(victims, ch)
		}
	}
	for _, v := range victims {
		e.Remove(v)
	}
	return len(victims)
}

// Collapse shrinks an element-less container back to self-closing
// form.
func (e *Editor) Collapse(container *xmlgap.Node) {
	if len(container.Elems()) == 0 && len(container.Kids) == 0 {
		container.Text = ""
		container.SelfClose = true
	}
}

// Open prepares a possibly self-closed empty container to receive
// children by giving it an inner gap.
func (e *Editor) Open(container *xmlgap.Node, childIndent string) {
	if len(container.Kids) == 0 && container.Text == "" {
		container.SelfClose = false
		container.Text = e.nl() + childIndent
	}
}

// SetText replaces the text content of node, escaping value.
func (e *Editor) SetText(node *xmlgap.Node, value string) {
	node.Text = xmlgap.Escape(value)
	node.SelfClose = false
}

// SetOrCreateChild sets the text of the named child, creating it at
// the end of parent when missing. An xsiType, when given, is set as
// the xsi:type attribute either way. Name is the qualified name the
// new element is written with; lookup falls back to local names.
func (e *Editor) SetOrCreateChild(parent *xmlgap.Node, name, value, xsiType, childIndent string) *xmlgap.Node {
	local := name
	if c := strings.IndexByte(name, ':'); c >= 0 {
		local = name[c+1:]
	}
	if ch := parent.ChildAny(local); ch != nil {
		e.SetText(ch, value)
		if xsiType != "" {
			setAttr(ch, "xsi:type", xsiType)
		}
		return ch
	}
	node := &xmlgap.Node{Kind: xmlgap.ElementKind, Name: name, Text: xmlgap.Escape(value)}
	if xsiType != "" {
		setAttr(node, "xsi:type", xsiType)
	}
	e.InsertBefore(parent, node, nil, childIndent)
	return node
}

func setAttr(n *xmlgap.Node, name, value string) {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs[i].Value = xmlgap.Escape(value)
			return
		}
	}
	n.Attrs = append(n.Attrs, xmlgap.Attr{Name: name, Value: xmlgap.Escape(value)})
}

// EnsureChild returns the named child of settings, creating a
// self-closed one at its canonical position when missing. The
// canonical slot is just after the last sibling kind that orders
// before name, per spec.
func (e *Editor) EnsureChild(settings *xmlgap.Node, qualName, localName string, spec *dialect.OrderSpec) *xmlgap.Node {
	if ch := settings.ChildAny(localName); ch != nil {
		return ch
	}
	indent := ChildIndent(settings)
	node := &xmlgap.Node{Kind: xmlgap.ElementKind, Name: qualName, SelfClose: true}
	e.InsertOrdered(settings, node, localName, spec, indent)
	return node
}
