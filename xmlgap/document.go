package xmlgap

import (
	"fmt"
	"os"
	"strings"
)

// Document owns a parsed tree plus the verbatim prolog/epilog bytes and the
// detected newline convention. Saving an unmodified Document reproduces the
// loaded bytes exactly.
type Document struct {
	Prolog string
	Root   *Node
	Epilog string

	// NL is the document's line ending, used for every gap string the
	// structural editor threads in.
	NL string
}

// Load reads and parses path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %q: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}
	return doc, nil
}

// HasBOM reports whether the prolog starts with the UTF-8 byte-order
// marker the platform requires on its metadata files.
func (d *Document) HasBOM() bool {
	return strings.HasPrefix(d.Prolog, "\xef\xbb\xbf")
}

// Bytes serializes the document without any normalization.
func (d *Document) Bytes() []byte {
	var b strings.Builder
	b.WriteString(d.Prolog)
	writeNode(&b, d.Root)
	b.WriteString(d.Epilog)
	return []byte(b.String())
}

// Save writes the document back in one shot.
func (d *Document) Save(path string) error {
	if err := os.WriteFile(path, d.Bytes(), 0o644); err != nil {
		return fmt.Errorf("could not write %q: %w", path, err)
	}
	return nil
}

func writeNode(b *strings.Builder, n *Node) {
	if n.Kind == RawKind {
		b.WriteString(n.Raw)
		b.WriteString(n.Tail)
		return
	}
	b.WriteByte('<')
	b.WriteString(n.Name)
	for _, a := range n.Attrs {
		if a.Gap != "" {
			b.WriteString(a.Gap)
		} else {
			b.WriteByte(' ')
		}
		q, v := a.Quote, a.Value
		if q == 0 {
			q = '"'
			v = strings.ReplaceAll(v, `"`, "&quot;")
		}
		b.WriteString(a.Name)
		b.WriteByte('=')
		b.WriteByte(q)
		b.WriteString(v)
		b.WriteByte(q)
	}
	if n.SelfClose && len(n.Kids) == 0 && n.Text == "" {
		b.WriteString("/>")
		b.WriteString(n.Tail)
		return
	}
	b.WriteByte('>')
	b.WriteString(n.Text)
	for _, k := range n.Kids {
		writeNode(b, k)
	}
	b.WriteString("</")
	b.WriteString(n.Name)
	b.WriteByte('>')
	b.WriteString(n.Tail)
}

// ParseFragment parses renderer output: one or more sibling elements with
// their internal indentation. Leading indent before the first element and
// inter-element whitespace are discarded; the structural editor threads its
// own gaps on insertion.
func ParseFragment(s string) ([]*Node, error) {
	doc, err := Parse([]byte("<mxfrag>" + s + "</mxfrag>"))
	if err != nil {
		return nil, fmt.Errorf("error parsing fragment: %w", err)
	}
	var nodes []*Node
	for _, k := range doc.Root.Kids {
		if !k.IsElem() {
			continue
		}
		k.Parent = nil
		k.Tail = ""
		nodes = append(nodes, k)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: fragment holds no elements", ErrScan)
	}
	return nodes, nil
}
