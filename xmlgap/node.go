package xmlgap

import (
	"fmt"
	"strings"
)

type Kind int

const (
	ElementKind Kind = iota
	RawKind
)

// Attr keeps the attribute value exactly as written between its quotes,
// plus the quote character itself and the whitespace run preceding the
// name, so an untouched start tag serializes byte for byte.
type Attr struct {
	Name  string
	Value string

	Quote byte   // '"' or '\''; zero means '"' with quote escaping
	Gap   string // whitespace before the name; empty means one space
}

// Node is one element (or raw pass-through region) of a document. Text is
// the literal bytes between the start tag and the first child; for scalar
// elements that is the content, for containers it is the gap before the
// first child. Tail is the literal bytes after the end tag, up to the next
// sibling's start tag.
type Node struct {
	Kind   Kind
	Parent *Node

	Name  string // prefixed name as written, e.g. "dcsset:item"
	Attrs []Attr
	Kids  []*Node

	Text      string
	Tail      string
	SelfClose bool

	Raw string // RawKind only: the source bytes, tags included
}

func (n *Node) IsElem() bool {
	return n.Kind == ElementKind
}

// Local returns the name with any namespace prefix stripped.
func (n *Node) Local() string {
	return localOf(n.Name)
}

func localOf(name string) string {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Attr returns the raw attribute value as written, matching on the full
// prefixed name first, then on the local name.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	for _, a := range n.Attrs {
		if localOf(a.Name) == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrValue is Attr with entity references resolved.
func (n *Node) AttrValue(name string) string {
	v, _ := n.Attr(name)
	return Unescape(v)
}

// TrimText returns the unescaped element text with surrounding whitespace
// removed, the form used for identity comparisons.
func (n *Node) TrimText() string {
	return strings.TrimSpace(Unescape(n.Text))
}

// Elems returns the element children, skipping raw nodes.
func (n *Node) Elems() []*Node {
	res := make([]*Node, 0, len(n.Kids))
	for _, k := range n.Kids {
		if k.IsElem() {
			res = append(res, k)
		}
	}
	return res
}

// Child returns the first element child with the given local name.
func (n *Node) Child(local string) *Node {
	for _, k := range n.Kids {
		if k.IsElem() && k.Local() == local {
			return k
		}
	}
	return nil
}

// ChildAny returns the first element child whose local name is in locals,
// scanning in document order.
func (n *Node) ChildAny(locals ...string) *Node {
	for _, k := range n.Kids {
		if !k.IsElem() {
			continue
		}
		l := k.Local()
		for _, want := range locals {
			if l == want {
				return k
			}
		}
	}
	return nil
}

// Children returns all element children with the given local name.
func (n *Node) Children(local string) []*Node {
	var res []*Node
	for _, k := range n.Kids {
		if k.IsElem() && k.Local() == local {
			res = append(res, k)
		}
	}
	return res
}

// LastChild returns the last element child with the given local name.
func (n *Node) LastChild(local string) *Node {
	var last *Node
	for _, k := range n.Kids {
		if k.IsElem() && k.Local() == local {
			last = k
		}
	}
	return last
}

// Index returns the node's position in its parent's Kids, or -1.
func (n *Node) Index() int {
	if n.Parent == nil {
		return -1
	}
	for i, k := range n.Parent.Kids {
		if k == n {
			return i
		}
	}
	return -1
}

// NextElem returns the next element sibling, or nil.
func (n *Node) NextElem() *Node {
	i := n.Index()
	if i < 0 {
		return nil
	}
	for _, k := range n.Parent.Kids[i+1:] {
		if k.IsElem() {
			return k
		}
	}
	return nil
}

// PrevSibling returns the immediately preceding sibling of any kind, or nil.
func (n *Node) PrevSibling() *Node {
	i := n.Index()
	if i <= 0 {
		return nil
	}
	return n.Parent.Kids[i-1]
}

// Depth is the number of ancestors above the node.
func (n *Node) Depth() int {
	d := 0
	for p := n.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

// Path renders a /root/elem[2]-style location for error reporting. The
// index is 1-based and appears only when the local name is ambiguous among
// siblings.
func (n *Node) Path() string {
	if n.Parent == nil {
		return "/" + n.Name
	}
	sibs := n.Parent.Children(n.Local())
	if len(sibs) <= 1 {
		return n.Parent.Path() + "/" + n.Name
	}
	for i, s := range sibs {
		if s == n {
			return fmt.Sprintf("%s/%s[%d]", n.Parent.Path(), n.Name, i+1)
		}
	}
	return n.Parent.Path() + "/" + n.Name
}

// FindByChildText returns the first element child of container with local
// name elem having a child with local name key whose trimmed text equals
// text. This is the compound identity lookup used for dedup.
func FindByChildText(container *Node, elem, key, text string) *Node {
	for _, k := range container.Kids {
		if !k.IsElem() || k.Local() != elem {
			continue
		}
		for _, gc := range k.Kids {
			if gc.IsElem() && gc.Local() == key && gc.TrimText() == text {
				return k
			}
		}
	}
	return nil
}
