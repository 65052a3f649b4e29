package xmlgap

import (
	"strconv"
	"strings"
)

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// Escape encodes text for element content and attribute values. The set of
// escaped characters matches what the platform's own serializer emits;
// apostrophes stay literal.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Unescape resolves the predefined entities and numeric character
// references. Unknown entities are left as written.
func Unescape(s string) string {
	amp := strings.IndexByte(s, '&')
	if amp < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for {
		b.WriteString(s[:amp])
		s = s[amp:]
		semi := strings.IndexByte(s, ';')
		if semi < 0 {
			b.WriteString(s)
			return b.String()
		}
		ent := s[1:semi]
		switch {
		case ent == "amp":
			b.WriteByte('&')
		case ent == "lt":
			b.WriteByte('<')
		case ent == "gt":
			b.WriteByte('>')
		case ent == "quot":
			b.WriteByte('"')
		case ent == "apos":
			b.WriteByte('\'')
		case strings.HasPrefix(ent, "#x") || strings.HasPrefix(ent, "#X"):
			if r, err := strconv.ParseInt(ent[2:], 16, 32); err == nil {
				b.WriteRune(rune(r))
			} else {
				b.WriteString(s[:semi+1])
			}
		case strings.HasPrefix(ent, "#"):
			if r, err := strconv.ParseInt(ent[1:], 10, 32); err == nil {
				b.WriteRune(rune(r))
			} else {
				b.WriteString(s[:semi+1])
			}
		default:
			b.WriteString(s[:semi+1])
		}
		s = s[semi+1:]
		amp = strings.IndexByte(s, '&')
		if amp < 0 {
			b.WriteString(s)
			return b.String()
		}
	}
}
