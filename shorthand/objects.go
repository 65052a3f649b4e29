package shorthand

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	cyrCamelRe = regexp.MustCompile(`([а-яё])([А-ЯЁ])`)
	latCamelRe = regexp.MustCompile(`([a-z])([A-Z])`)
)

// SplitCamelCase derives a presentation from an identifier: word
// breaks at case changes, everything after the first rune lowered.
// Works for both Cyrillic and Latin identifiers.
func SplitCamelCase(name string) string {
	if name == "" {
		return name
	}
	s := cyrCamelRe.ReplaceAllString(name, "$1 $2")
	s = latCamelRe.ReplaceAllString(s, "$1 $2")
	r := []rune(s)
	if len(r) > 1 {
		s = string(r[0]) + strings.ToLower(string(r[1:]))
	}
	return s
}

var (
	afterRe  = regexp.MustCompile(`\s*>>\s*after\s+(\S+)\s*$`)
	beforeRe = regexp.MustCompile(`\s*<<\s*before\s+(\S+)\s*$`)
)

// cutPlacement strips a trailing ">> after X" or "<< before Y" marker.
func cutPlacement(s string) (rest, after, before string) {
	if m := afterRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(afterRe.ReplaceAllString(s, "")), m[1], ""
	}
	if m := beforeRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(beforeRe.ReplaceAllString(s, "")), "", m[1]
	}
	return s, "", ""
}

// ParseAttribute parses "Name[:type] [| flag,flag] [>> after X]".
// Flags: req (fill checking), index, indexAdditional.
func ParseAttribute(s string) (*Attribute, error) {
	a := &Attribute{}
	s, a.After, a.Before = cutPlacement(s)

	main, flagStr, hasFlags := strings.Cut(s, "|")
	if hasFlags {
		for _, f := range strings.Split(flagStr, ",") {
			if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
				a.Flags = append(a.Flags, f)
			}
		}
	}
	main = strings.TrimSpace(main)
	if name, typ, ok := strings.Cut(main, ":"); ok {
		a.Name = strings.TrimSpace(name)
		a.Type = strings.TrimSpace(typ)
	} else {
		a.Name = main
	}
	if a.Name == "" {
		return nil, fmt.Errorf("%w: empty attribute name", ErrSyntax)
	}
	a.Synonym = SplitCamelCase(a.Name)
	for _, f := range a.Flags {
		switch f {
		case "req":
			if a.FillChecking == "" {
				a.FillChecking = "ShowError"
			}
		case "index":
			if a.Indexing == "" {
				a.Indexing = "Index"
			}
		case "indexadditional":
			if a.Indexing == "" {
				a.Indexing = "IndexWithAdditionalOrder"
			}
		}
	}
	return a, nil
}

// ParseEnumValue parses a bare enum value name with an optional
// placement marker.
func ParseEnumValue(s string) (*EnumValue, error) {
	e := &EnumValue{}
	s, e.After, e.Before = cutPlacement(s)
	e.Name = strings.TrimSpace(s)
	if e.Name == "" {
		return nil, fmt.Errorf("%w: empty enum value name", ErrSyntax)
	}
	e.Synonym = SplitCamelCase(e.Name)
	return e, nil
}

// ParseTabularSection parses "Name[; attr; attr...] [>> after X]".
// Each attr segment is attribute shorthand for an inline column of
// the section.
func ParseTabularSection(s string) (*TabularSection, error) {
	t := &TabularSection{}
	s, t.After, t.Before = cutPlacement(s)
	segs := strings.Split(s, ";")
	t.Name = strings.TrimSpace(segs[0])
	if t.Name == "" {
		return nil, fmt.Errorf("%w: empty tabular section name", ErrSyntax)
	}
	t.Synonym = SplitCamelCase(t.Name)
	for _, seg := range segs[1:] {
		if seg = strings.TrimSpace(seg); seg == "" {
			continue
		}
		a, err := ParseAttribute(seg)
		if err != nil {
			return nil, err
		}
		t.Attrs = append(t.Attrs, a)
	}
	return t, nil
}

// ParseObjectModify parses "Name | prop=value[; prop=value...]".
// Semicolons separate changes so type qualifiers may carry commas.
func ParseObjectModify(s string) (*ObjectModify, error) {
	m := &ObjectModify{}
	name, rest, ok := strings.Cut(s, "|")
	m.Name = strings.TrimSpace(name)
	if m.Name == "" {
		return nil, fmt.Errorf("%w: empty name in modify shorthand", ErrSyntax)
	}
	if !ok {
		return nil, fmt.Errorf("%w: modify needs \"Name | prop=value\"", ErrSyntax)
	}
	for _, seg := range strings.Split(rest, ";") {
		if seg = strings.TrimSpace(seg); seg == "" {
			continue
		}
		prop, val, ok := strings.Cut(seg, "=")
		if !ok {
			return nil, fmt.Errorf("%w: change %q is not prop=value", ErrSyntax, seg)
		}
		m.Changes = append(m.Changes, ObjectChange{
			Prop:  strings.TrimSpace(prop),
			Value: strings.TrimSpace(val),
		})
	}
	if len(m.Changes) == 0 {
		return nil, fmt.Errorf("%w: modify lists no changes", ErrSyntax)
	}
	return m, nil
}

// ParseColumn parses "Name [| index] [>> after X]".
func ParseColumn(s string) (*Column, error) {
	c := &Column{Indexing: "DontIndex"}
	s, c.After, c.Before = cutPlacement(s)
	main, flagStr, hasFlags := strings.Cut(s, "|")
	if hasFlags {
		for _, f := range strings.Split(flagStr, ",") {
			switch strings.ToLower(strings.TrimSpace(f)) {
			case "index":
				c.Indexing = "Index"
			case "indexadditional":
				c.Indexing = "IndexWithAdditionalOrder"
			}
		}
	}
	c.Name = strings.TrimSpace(main)
	if c.Name == "" {
		return nil, fmt.Errorf("%w: empty column name", ErrSyntax)
	}
	c.Synonym = SplitCamelCase(c.Name)
	return c, nil
}
