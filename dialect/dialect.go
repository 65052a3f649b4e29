// Package dialect holds the vocabulary tables for the supported
// document dialects: canonical child orderings, comparison operator
// names, field restriction flags, standard period variants, and
// output parameter typing. The tables live in tables.yaml and are
// decoded once at init.
package dialect

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
)

//go:embed tables.yaml
var tablesYAML []byte

type tableData struct {
	Orders               map[string]map[string][]string `yaml:"orders"`
	Operators            map[string]string              `yaml:"operators"`
	ValuelessOperators   []string                       `yaml:"valuelessOperators"`
	Restrictions         map[string]string              `yaml:"restrictions"`
	Roles                []string                       `yaml:"roles"`
	ViewModes            map[string]string              `yaml:"viewModes"`
	PeriodVariants       []string                       `yaml:"periodVariants"`
	OutputParameterTypes map[string]string              `yaml:"outputParameterTypes"`
}

var tables tableData

func init() {
	if err := yaml.Unmarshal(tablesYAML, &tables); err != nil {
		panic(fmt.Sprintf("dialect: bad tables.yaml: %v", err))
	}
}

// Name identifies a document dialect.
type Name string

const (
	Schema  Name = "schema"
	Objects Name = "objects"
)

// OrderSpec gives the canonical ordering of child element kinds
// inside one container.
type OrderSpec struct {
	Container string
	Kinds     []string
}

// Order returns the ordering for container under dialect d, or
// false if the container has no canonical order.
func Order(d Name, container string) (*OrderSpec, bool) {
	m, ok := tables.Orders[string(d)]
	if !ok {
		return nil, false
	}
	kinds, ok := m[container]
	if !ok {
		return nil, false
	}
	return &OrderSpec{Container: container, Kinds: kinds}, true
}

// Index returns the position of kind in the canonical order. Kinds
// not in the order come after everything that is.
func (s *OrderSpec) Index(kind string) (int, bool) {
	for i, k := range s.Kinds {
		if k == kind {
			return i, true
		}
	}
	return len(s.Kinds), false
}

// Later reports the kinds ordered strictly after kind.
func (s *OrderSpec) Later(kind string) []string {
	i, ok := s.Index(kind)
	if !ok {
		return nil
	}
	return s.Kinds[i+1:]
}

// Operator maps a shorthand comparison token to its canonical
// comparison type name.
func Operator(tok string) (string, bool) {
	op, ok := tables.Operators[tok]
	if !ok {
		// tokens like "in" match case-insensitively
		for k, v := range tables.Operators {
			if strings.EqualFold(k, tok) {
				return v, true
			}
		}
	}
	return op, ok
}

// Valueless reports whether comparison type op takes no right value.
func Valueless(op string) bool {
	for _, v := range tables.ValuelessOperators {
		if v == op {
			return true
		}
	}
	return false
}

// OperatorTokens returns the shorthand operator tokens, sorted.
func OperatorTokens() []string {
	toks := make([]string, 0, len(tables.Operators))
	for k := range tables.Operators {
		toks = append(toks, k)
	}
	sort.Strings(toks)
	return toks
}

// Restriction maps a field restriction flag to the attribute name it
// sets on the field's use restriction element.
func Restriction(tok string) (string, bool) {
	for k, v := range tables.Restrictions {
		if strings.EqualFold(k, tok) {
			return v, true
		}
	}
	return "", false
}

// RestrictionTokens returns the known restriction flags, sorted.
func RestrictionTokens() []string {
	toks := make([]string, 0, len(tables.Restrictions))
	for k := range tables.Restrictions {
		toks = append(toks, k)
	}
	sort.Strings(toks)
	return toks
}

// Role canonicalizes a field role token. Matching is
// case-insensitive; the returned value is the role element name.
func Role(tok string) (string, bool) {
	for _, r := range tables.Roles {
		if strings.EqualFold(r, tok) {
			return r, true
		}
	}
	return "", false
}

// RoleTokens returns the known role tokens in table order.
func RoleTokens() []string {
	return tables.Roles
}

// ViewMode maps a flag token to a canonical view mode value.
func ViewMode(tok string) (string, bool) {
	for k, v := range tables.ViewModes {
		if strings.EqualFold(k, tok) {
			return v, true
		}
	}
	return "", false
}

// IsPeriodVariant reports whether s names a standard period variant.
// Matching is case-insensitive; the returned value is canonical.
func IsPeriodVariant(s string) (string, bool) {
	for _, v := range tables.PeriodVariants {
		if strings.EqualFold(v, s) {
			return v, true
		}
	}
	return "", false
}

// PeriodVariants returns the canonical standard period variant names.
func PeriodVariants() []string {
	return tables.PeriodVariants
}

// OutputParameterType returns the value type for a named output
// parameter. The second result is false when the parameter is not in
// the table; callers then default to xs:string.
func OutputParameterType(name string) (string, bool) {
	t, ok := tables.OutputParameterTypes[name]
	return t, ok
}

// Suggest returns the known token closest to tok by edit distance,
// or "" when nothing is close enough to be a plausible typo.
func Suggest(tok string, known []string) string {
	best, bestDist := "", len(tok)/2+2
	lt := strings.ToLower(tok)
	for _, k := range known {
		d := editDistance(lt, strings.ToLower(k))
		if d < bestDist {
			best, bestDist = k, d
		}
	}
	return best
}

func editDistance(a, b string) int {
	ar, br := []rune(a), []rune(b)
	prev := make([]int, len(br)+1)
	cur := make([]int, len(br)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ar); i++ {
		cur[0] = i
		for j := 1; j <= len(br); j++ {
			cost := 1
			if ar[i-1] == br[j-1] {
				cost = 0
			}
			cur[j] = min3(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(br)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
