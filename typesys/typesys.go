// Package typesys resolves shorthand type tokens, including localized
// synonyms, into a canonical type plus structured qualifiers.
package typesys

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind enumerates the canonical value types.
type Kind int

const (
	Raw Kind = iota // unrecognized token, emitted as written
	Boolean
	String
	Decimal
	Date
	DateTime
	StandardPeriod
	ValueStorage
	Ref // config-scoped dotted reference
)

func (k Kind) String() string {
	switch k {
	case Raw:
		return "raw"
	case Boolean:
		return "boolean"
	case String:
		return "string"
	case Decimal:
		return "decimal"
	case Date:
		return "date"
	case DateTime:
		return "dateTime"
	case StandardPeriod:
		return "StandardPeriod"
	case ValueStorage:
		return "ValueStorage"
	case Ref:
		return "ref"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Type is a resolved value type. Qualifier fields are meaningful only
// for the kinds that carry them.
type Type struct {
	Kind     Kind
	Length   int  // String: max length, 0 = unlimited
	Digits   int  // Decimal
	Fraction int  // Decimal
	NonNeg   bool // Decimal
	Name     string // Ref: full dotted name; Raw: the token as resolved
}

// synonyms maps lowercased localized and abbreviated tokens to their
// canonical base names.
var synonyms = map[string]string{
	"число":                        "decimal",
	"строка":                       "string",
	"булево":                       "boolean",
	"дата":                         "date",
	"датавремя":                    "dateTime",
	"стандартныйпериод":            "StandardPeriod",
	"bool":                         "boolean",
	"str":                          "string",
	"int":                          "decimal",
	"integer":                      "decimal",
	"number":                       "decimal",
	"num":                          "decimal",
	"справочникссылка":             "CatalogRef",
	"документссылка":               "DocumentRef",
	"перечислениессылка":           "EnumRef",
	"плансчетовссылка":             "ChartOfAccountsRef",
	"планвидовхарактеристикссылка": "ChartOfCharacteristicTypesRef",
}

// resolveToken rewrites the synonym part of a raw token: the base
// before a qualifier list, the prefix before a dot, or the whole
// token. Unmatched tokens come back unchanged.
func resolveToken(s string) string {
	if s == "" {
		return s
	}
	if open := strings.Index(s, "("); open > 0 && strings.HasSuffix(s, ")") {
		base := strings.TrimSpace(s[:open])
		if r, ok := synonyms[strings.ToLower(base)]; ok {
			return r + s[open:]
		}
		return s
	}
	if dot := strings.Index(s, "."); dot > 0 {
		if r, ok := synonyms[strings.ToLower(s[:dot])]; ok {
			return r + s[dot:]
		}
		return s
	}
	if r, ok := synonyms[strings.ToLower(s)]; ok {
		return r
	}
	return s
}

var (
	stringRe  = regexp.MustCompile(`^string(\((\d+)\))?$`)
	decimalRe = regexp.MustCompile(`^decimal\((\d+),(\d+)(,nonneg)?\)$`)
)

// Resolve parses a raw type token into a Type. It never fails:
// anything it does not recognize comes back as a Raw or Ref type
// carrying the resolved token, matching what the platform accepts.
func Resolve(s string) Type {
	s = resolveToken(strings.TrimSpace(s))
	switch {
	case s == "boolean":
		return Type{Kind: Boolean}
	case s == "date":
		return Type{Kind: Date}
	case s == "dateTime":
		return Type{Kind: DateTime}
	case s == "StandardPeriod":
		return Type{Kind: StandardPeriod}
	}
	if m := stringRe.FindStringSubmatch(s); m != nil {
		n := 0
		if m[2] != "" {
			n, _ = strconv.Atoi(m[2])
		}
		return Type{Kind: String, Length: n}
	}
	if m := decimalRe.FindStringSubmatch(s); m != nil {
		d, _ := strconv.Atoi(m[1])
		f, _ := strconv.Atoi(m[2])
		return Type{Kind: Decimal, Digits: d, Fraction: f, NonNeg: m[3] != ""}
	}
	if strings.Contains(s, ".") {
		return Type{Kind: Ref, Name: s}
	}
	return Type{Kind: Raw, Name: s}
}
