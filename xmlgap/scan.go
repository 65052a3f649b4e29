package xmlgap

import (
	"fmt"
	"strings"

	"github.com/mxtool/mx/debug"
)

type scanner struct {
	data []byte
	pos  int
}

func (sc *scanner) errf(format string, args ...any) error {
	return fmt.Errorf("%w: offset %d: %s", ErrScan, sc.pos, fmt.Sprintf(format, args...))
}

func (sc *scanner) eof() bool {
	return sc.pos >= len(sc.data)
}

func (sc *scanner) rest() string {
	return string(sc.data[sc.pos:])
}

func (sc *scanner) hasPrefix(p string) bool {
	return strings.HasPrefix(sc.rest(), p)
}

// until consumes up to (not including) the first occurrence of stop.
func (sc *scanner) until(stop string) (string, error) {
	i := strings.Index(sc.rest(), stop)
	if i < 0 {
		return "", sc.errf("unterminated construct, expected %q", stop)
	}
	out := sc.rest()[:i]
	sc.pos += i
	return out, nil
}

// through consumes up to and including the first occurrence of stop.
func (sc *scanner) through(stop string) (string, error) {
	i := strings.Index(sc.rest(), stop)
	if i < 0 {
		return "", sc.errf("unterminated construct, expected %q", stop)
	}
	end := i + len(stop)
	out := sc.rest()[:end]
	sc.pos += end
	return out, nil
}

func isNameStart(c byte) bool {
	return c == '_' || c == ':' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isNameByte(c byte) bool {
	return isNameStart(c) || c == '-' || c == '.' || (c >= '0' && c <= '9')
}

func (sc *scanner) name() (string, error) {
	start := sc.pos
	if sc.eof() || !isNameStart(sc.data[sc.pos]) {
		return "", sc.errf("expected name")
	}
	for !sc.eof() && isNameByte(sc.data[sc.pos]) {
		sc.pos++
	}
	return string(sc.data[start:sc.pos]), nil
}

func (sc *scanner) skipSpace() {
	for !sc.eof() {
		switch sc.data[sc.pos] {
		case ' ', '\t', '\r', '\n':
			sc.pos++
		default:
			return
		}
	}
}

// element parses one element whose '<' has already been seen (pos is at
// '<'). Child parent links are set; Text/Tail are raw source bytes.
func (sc *scanner) element() (*Node, error) {
	sc.pos++ // '<'
	name, err := sc.name()
	if err != nil {
		return nil, err
	}
	n := &Node{Kind: ElementKind, Name: name}
	if err := sc.attrs(n); err != nil {
		return nil, err
	}
	if sc.hasPrefix("/>") {
		sc.pos += 2
		n.SelfClose = true
		return n, nil
	}
	if sc.eof() || sc.data[sc.pos] != '>' {
		return nil, sc.errf("malformed start tag <%s", name)
	}
	sc.pos++
	return n, sc.content(n)
}

func (sc *scanner) attrs(n *Node) error {
	for {
		gapStart := sc.pos
		sc.skipSpace()
		if sc.eof() {
			return sc.errf("unterminated start tag <%s", n.Name)
		}
		c := sc.data[sc.pos]
		if c == '>' || c == '/' {
			return nil
		}
		gap := string(sc.data[gapStart:sc.pos])
		aname, err := sc.name()
		if err != nil {
			return err
		}
		sc.skipSpace()
		if sc.eof() || sc.data[sc.pos] != '=' {
			return sc.errf("attribute %s missing value", aname)
		}
		sc.pos++
		sc.skipSpace()
		if sc.eof() {
			return sc.errf("attribute %s missing value", aname)
		}
		q := sc.data[sc.pos]
		if q != '"' && q != '\'' {
			return sc.errf("attribute %s value not quoted", aname)
		}
		sc.pos++
		val, err := sc.until(string(q))
		if err != nil {
			return err
		}
		sc.pos++ // closing quote
		n.Attrs = append(n.Attrs, Attr{Name: aname, Value: val, Quote: q, Gap: gap})
	}
}

// content parses everything between a start tag and its matching end tag.
func (sc *scanner) content(n *Node) error {
	for {
		text, err := sc.until("<")
		if err != nil {
			return sc.errf("element <%s> not closed", n.Name)
		}
		sc.setInnerText(n, text)
		switch {
		case sc.hasPrefix("</"):
			sc.pos += 2
			end, err := sc.name()
			if err != nil {
				return err
			}
			if end != n.Name {
				return sc.errf("mismatched end tag </%s>, open element is <%s>", end, n.Name)
			}
			sc.skipSpace()
			if sc.eof() || sc.data[sc.pos] != '>' {
				return sc.errf("malformed end tag </%s", end)
			}
			sc.pos++
			return nil
		case sc.hasPrefix("<!--"):
			raw, err := sc.through("-->")
			if err != nil {
				return err
			}
			sc.appendKid(n, &Node{Kind: RawKind, Raw: raw})
		case sc.hasPrefix("<![CDATA["):
			raw, err := sc.through("]]>")
			if err != nil {
				return err
			}
			sc.appendKid(n, &Node{Kind: RawKind, Raw: raw})
		case sc.hasPrefix("<?"):
			raw, err := sc.through("?>")
			if err != nil {
				return err
			}
			sc.appendKid(n, &Node{Kind: RawKind, Raw: raw})
		case sc.hasPrefix("<!"):
			raw, err := sc.through(">")
			if err != nil {
				return err
			}
			sc.appendKid(n, &Node{Kind: RawKind, Raw: raw})
		default:
			kid, err := sc.element()
			if err != nil {
				return err
			}
			sc.appendKid(n, kid)
		}
	}
}

// setInnerText stores raw text read since the last structural token: on the
// node itself when nothing has been parsed yet, otherwise as the previous
// child's tail.
func (sc *scanner) setInnerText(n *Node, text string) {
	if text == "" {
		return
	}
	if len(n.Kids) == 0 {
		n.Text += text
		return
	}
	n.Kids[len(n.Kids)-1].Tail += text
}

func (sc *scanner) appendKid(n *Node, kid *Node) {
	kid.Parent = n
	n.Kids = append(n.Kids, kid)
}

// Parse scans a complete document. Everything before the root element
// (byte-order marker, XML declaration, comments, whitespace) is kept
// verbatim as the prolog; anything after the root end tag becomes the
// epilog.
func Parse(data []byte) (*Document, error) {
	sc := &scanner{data: data}
	prologEnd := -1
	for i := 0; i+1 < len(data); i++ {
		if data[i] == '<' && isNameStart(data[i+1]) {
			prologEnd = i
			break
		}
		if data[i] == '<' {
			// skip over declaration / comment / doctype
			sc.pos = i
			var err error
			switch {
			case sc.hasPrefix("<?"):
				_, err = sc.through("?>")
			case sc.hasPrefix("<!--"):
				_, err = sc.through("-->")
			case sc.hasPrefix("<!"):
				_, err = sc.through(">")
			default:
				err = sc.errf("unexpected %q before root element", data[i])
			}
			if err != nil {
				return nil, err
			}
			i = sc.pos - 1
		}
	}
	if prologEnd < 0 {
		return nil, fmt.Errorf("%w: no root element", ErrScan)
	}
	sc.pos = prologEnd
	root, err := sc.element()
	if err != nil {
		return nil, err
	}
	doc := &Document{
		Prolog: string(data[:prologEnd]),
		Root:   root,
		Epilog: sc.rest(),
		NL:     detectNL(data),
	}
	if debug.Scan() {
		debug.Logf("scan: root <%s>, prolog %d bytes, nl %q", root.Name, prologEnd, doc.NL)
	}
	return doc, nil
}

func detectNL(data []byte) string {
	for i, c := range data {
		if c != '\n' {
			continue
		}
		if i > 0 && data[i-1] == '\r' {
			return "\r\n"
		}
		return "\n"
	}
	return "\r\n"
}
