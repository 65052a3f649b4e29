package shorthand

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mxtool/mx/dialect"
)

var (
	titleRe    = regexp.MustCompile(`\[([^\]]+)\]`)
	titleCutRe = regexp.MustCompile(`\s*\[[^\]]+\]`)
	roleRe     = regexp.MustCompile(`@(\w+)`)
	roleCutRe  = regexp.MustCompile(`\s*@\w+`)
	restrRe    = regexp.MustCompile(`#(\w+)`)
	restrCutRe = regexp.MustCompile(`\s*#\w+`)
)

// ParseField parses "dataPath[:type] [Title] @role #restriction".
func ParseField(s string) (*Field, error) {
	f := &Field{}
	if m := titleRe.FindStringSubmatch(s); m != nil {
		f.Title = m[1]
		s = titleCutRe.ReplaceAllString(s, "")
	}
	for _, m := range roleRe.FindAllStringSubmatch(s, -1) {
		tok := m[1]
		role, ok := dialect.Role(tok)
		if !ok {
			hint := dialect.Suggest(tok, dialect.RoleTokens())
			if hint != "" {
				return nil, fmt.Errorf("%w: unknown role @%s (did you mean @%s?)", ErrSyntax, tok, hint)
			}
			return nil, fmt.Errorf("%w: unknown role @%s", ErrSyntax, tok)
		}
		f.Roles = append(f.Roles, role)
	}
	s = roleCutRe.ReplaceAllString(s, "")
	for _, m := range restrRe.FindAllStringSubmatch(s, -1) {
		tok := m[1]
		if _, ok := dialect.Restriction(tok); !ok {
			hint := dialect.Suggest(tok, dialect.RestrictionTokens())
			if hint != "" {
				return nil, fmt.Errorf("%w: unknown restriction #%s (did you mean #%s?)", ErrSyntax, tok, hint)
			}
			return nil, fmt.Errorf("%w: unknown restriction #%s", ErrSyntax, tok)
		}
		f.Restrict = append(f.Restrict, tok)
	}
	s = restrCutRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	if path, typ, ok := strings.Cut(s, ":"); ok {
		f.DataPath = strings.TrimSpace(path)
		f.Type = strings.TrimSpace(typ)
	} else {
		f.DataPath = s
	}
	if f.DataPath == "" {
		return nil, fmt.Errorf("%w: empty field path", ErrSyntax)
	}
	f.FieldRef = f.DataPath
	return f, nil
}

var funcCallRe = regexp.MustCompile(`^\w+\(`)

// ParseTotal parses "dataPath: func" or "dataPath: expr(...)". A bare
// function name is expanded to func(dataPath).
func ParseTotal(s string) (*Total, error) {
	path, fn, ok := strings.Cut(s, ":")
	if !ok {
		return nil, fmt.Errorf("%w: total needs \"dataPath: function\", got %q", ErrSyntax, s)
	}
	path = strings.TrimSpace(path)
	fn = strings.TrimSpace(fn)
	if path == "" || fn == "" {
		return nil, fmt.Errorf("%w: total needs \"dataPath: function\", got %q", ErrSyntax, s)
	}
	if !funcCallRe.MatchString(fn) {
		fn = fmt.Sprintf("%s(%s)", fn, path)
	}
	return &Total{DataPath: path, Expression: fn}, nil
}

// ParseCalculated parses "dataPath[:type] = expression [Title]".
func ParseCalculated(s string) (*CalculatedField, error) {
	c := &CalculatedField{}
	if m := titleRe.FindStringSubmatch(s); m != nil {
		c.Title = m[1]
		s = titleCutRe.ReplaceAllString(s, "")
	}
	eq := strings.Index(s, "=")
	if eq <= 0 {
		c.DataPath = strings.TrimSpace(s)
		if c.DataPath == "" {
			return nil, fmt.Errorf("%w: empty calculated field", ErrSyntax)
		}
		return c, nil
	}
	left := strings.TrimSpace(s[:eq])
	c.Expression = strings.TrimSpace(s[eq+1:])
	if path, typ, ok := strings.Cut(left, ":"); ok {
		c.DataPath = strings.TrimSpace(path)
		c.Type = strings.TrimSpace(typ)
	} else {
		c.DataPath = left
	}
	return c, nil
}

var (
	paramRe        = regexp.MustCompile(`^([^:]+):\s*(\S+)(\s*=\s*(.+))?$`)
	autoDatesCutRe = regexp.MustCompile(`\s*@autoDates`)
)

// ParseParameter parses "name: type [= value] [@autoDates]".
func ParseParameter(s string) (*Parameter, error) {
	p := &Parameter{}
	if strings.Contains(s, "@autoDates") {
		p.AutoDates = true
		s = strings.TrimSpace(autoDatesCutRe.ReplaceAllString(s, ""))
	}
	if m := paramRe.FindStringSubmatch(s); m != nil {
		p.Name = strings.TrimSpace(m[1])
		p.Type = strings.TrimSpace(m[2])
		if m[4] != "" {
			p.Value = strings.TrimSpace(m[4])
			p.HasValue = true
		}
	} else {
		p.Name = strings.TrimSpace(s)
	}
	if p.Name == "" {
		return nil, fmt.Errorf("%w: empty parameter name", ErrSyntax)
	}
	return p, nil
}

// markers shared by filter and data-parameter grammars
var markerRes = func() map[string]*regexp.Regexp {
	m := map[string]*regexp.Regexp{}
	for _, name := range markerNames {
		m[name] = regexp.MustCompile(`\s*@` + name + `\b`)
	}
	return m
}()

var markerNames = []string{"user", "off", "quickAccess", "normal", "inaccessible"}

func cutMarkers(s string, f func(name string)) string {
	for _, name := range markerNames {
		re := markerRes[name]
		if re.MatchString(s) {
			f(name)
			s = re.ReplaceAllString(s, "")
		}
	}
	return strings.TrimSpace(s)
}

var filterRe = regexp.MustCompile(
	`^(.+?)\s+(<>|>=|<=|=|>|<|notIn\b|in\b|inHierarchy\b|inListByHierarchy\b|` +
		`notContains\b|contains\b|notBeginsWith\b|beginsWith\b|notFilled\b|filled\b)\s*(.*)$`)

// ParseFilter parses "field op [value]" with optional @user, @off and
// view mode markers. The value "_" means no right-hand value.
func ParseFilter(s string) (*Filter, error) {
	f := &Filter{Op: "Equal", Use: true}
	s = cutMarkers(s, func(name string) {
		switch name {
		case "user":
			f.UserID = true
		case "off":
			f.Use = false
		default:
			if vm, ok := dialect.ViewMode(name); ok {
				f.ViewMode = vm
			}
		}
	})
	m := filterRe.FindStringSubmatch(s)
	if m == nil {
		f.Field = s
		if f.Field == "" {
			return nil, fmt.Errorf("%w: empty filter", ErrSyntax)
		}
		return f, nil
	}
	f.Field = strings.TrimSpace(m[1])
	opTok := strings.TrimSpace(m[2])
	if op, ok := dialect.Operator(opTok); ok {
		f.Op = op
	} else {
		f.Op = opTok
	}
	val := strings.TrimSpace(m[3])
	if val != "" && val != "_" {
		f.Value = val
		f.HasValue = true
		f.ValueType = literalType(val)
	}
	return f, nil
}

var (
	dateTimeLitRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T`)
	decimalLitRe  = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// literalType types a right-hand literal by its shape.
func literalType(v string) string {
	switch {
	case v == "true" || v == "false":
		return "xs:boolean"
	case dateTimeLitRe.MatchString(v):
		return "xs:dateTime"
	case decimalLitRe.MatchString(v):
		return "xs:decimal"
	}
	return "xs:string"
}

var dataParamRe = regexp.MustCompile(`^([^=]+)=\s*(.+)$`)

// ParseDataParameter parses "name = value". A value naming a standard
// period variant produces a period record instead of a scalar.
func ParseDataParameter(s string) (*DataParameter, error) {
	p := &DataParameter{Use: true}
	s = cutMarkers(s, func(name string) {
		switch name {
		case "user":
			p.UserID = true
		case "off":
			p.Use = false
		default:
			if vm, ok := dialect.ViewMode(name); ok {
				p.ViewMode = vm
			}
		}
	})
	m := dataParamRe.FindStringSubmatch(s)
	if m == nil {
		p.Name = s
		if p.Name == "" {
			return nil, fmt.Errorf("%w: empty data parameter", ErrSyntax)
		}
		return p, nil
	}
	p.Name = strings.TrimSpace(m[1])
	val := strings.TrimSpace(m[2])
	p.HasValue = true
	if v, ok := dialect.IsPeriodVariant(val); ok {
		p.PeriodVariant = v
	} else {
		p.Value = val
	}
	return p, nil
}

var descRe = regexp.MustCompile(`(?i)^desc$`)

// ParseOrder parses "field [asc|desc]" or the literal "Auto".
func ParseOrder(s string) (*Order, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty order", ErrSyntax)
	}
	if s == "Auto" {
		return &Order{Field: "Auto"}, nil
	}
	o := &Order{Direction: "Asc"}
	parts := strings.Fields(s)
	o.Field = parts[0]
	if len(parts) > 1 && descRe.MatchString(parts[1]) {
		o.Direction = "Desc"
	}
	return o, nil
}

// ParseSelection parses a selected field name, "Auto" included.
func ParseSelection(s string) (*Selection, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty selection", ErrSyntax)
	}
	return &Selection{Field: s}, nil
}

var (
	linkParamRe    = regexp.MustCompile(`\[param\s+([^\]]+)\]`)
	linkParamCutRe = regexp.MustCompile(`\s*\[param\s+[^\]]+\]`)
	linkRe         = regexp.MustCompile(`^(.+?)\s*>\s*(.+?)\s+on\s+(.+?)\s*=\s*(.+)$`)
)

// ParseLink parses "Source > Dest on FieldA = FieldB [param Name]".
func ParseLink(s string) (*Link, error) {
	l := &Link{}
	if m := linkParamRe.FindStringSubmatch(s); m != nil {
		l.Parameter = strings.TrimSpace(m[1])
		s = linkParamCutRe.ReplaceAllString(s, "")
	}
	m := linkRe.FindStringSubmatch(s)
	if m == nil {
		return nil, fmt.Errorf("%w: want \"Source > Dest on FieldA = FieldB [param Name]\", got %q", ErrSyntax, s)
	}
	l.Source = strings.TrimSpace(m[1])
	l.Dest = strings.TrimSpace(m[2])
	l.SourceExpr = strings.TrimSpace(m[3])
	l.DestExpr = strings.TrimSpace(m[4])
	return l, nil
}

var datasetRe = regexp.MustCompile(`^(\S+):\s(.+)$`)

// ParseDataset parses "[name:] query". The name is optional; callers
// allocate one when it is missing.
func ParseDataset(s string) (*Dataset, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty dataSet", ErrSyntax)
	}
	if m := datasetRe.FindStringSubmatch(s); m != nil {
		return &Dataset{Name: m[1], Query: m[2]}, nil
	}
	return &Dataset{Query: s}, nil
}

// ParseVariant parses "name [Presentation]"; the presentation
// defaults to the name.
func ParseVariant(s string) (*Variant, error) {
	v := &Variant{}
	if m := titleRe.FindStringSubmatch(s); m != nil {
		v.Presentation = m[1]
		s = titleCutRe.ReplaceAllString(s, "")
	}
	v.Name = strings.TrimSpace(s)
	if v.Name == "" {
		return nil, fmt.Errorf("%w: empty variant name", ErrSyntax)
	}
	if v.Presentation == "" {
		v.Presentation = v.Name
	}
	return v, nil
}

// ParseConditionalAppearance parses
// "param = value [when filter] [for field, field]".
func ParseConditionalAppearance(s string) (*ConditionalAppearance, error) {
	c := &ConditionalAppearance{}
	whenIdx := strings.Index(s, " when ")
	forIdx := strings.Index(s, " for ")

	mainEnd := len(s)
	if whenIdx >= 0 && forIdx >= 0 {
		mainEnd = min(whenIdx, forIdx)
	} else if whenIdx >= 0 {
		mainEnd = whenIdx
	} else if forIdx >= 0 {
		mainEnd = forIdx
	}

	if forIdx >= 0 {
		forEnd := len(s)
		if whenIdx > forIdx {
			forEnd = whenIdx
		}
		for _, f := range strings.Split(s[forIdx+5:forEnd], ",") {
			if f = strings.TrimSpace(f); f != "" {
				c.Fields = append(c.Fields, f)
			}
		}
	}
	if whenIdx >= 0 {
		whenEnd := len(s)
		if forIdx > whenIdx {
			whenEnd = forIdx
		}
		flt, err := ParseFilter(strings.TrimSpace(s[whenIdx+6 : whenEnd]))
		if err != nil {
			return nil, err
		}
		c.When = flt
	}

	main := strings.TrimSpace(s[:mainEnd])
	if eq := strings.Index(main, "="); eq > 0 {
		c.Param = strings.TrimSpace(main[:eq])
		c.Value = strings.TrimSpace(main[eq+1:])
	} else {
		c.Param = main
	}
	if c.Param == "" {
		return nil, fmt.Errorf("%w: empty appearance parameter", ErrSyntax)
	}
	return c, nil
}

var detailsRe = regexp.MustCompile(`^(?i)(details|детали)$`)

// ParseStructure parses "A > B > details" into a nested group chain,
// outermost first.
func ParseStructure(s string) (*StructureGroup, error) {
	segs := strings.Split(s, ">")
	var inner *StructureGroup
	for i := len(segs) - 1; i >= 0; i-- {
		seg := strings.TrimSpace(segs[i])
		if seg == "" {
			return nil, fmt.Errorf("%w: empty structure segment in %q", ErrSyntax, s)
		}
		g := &StructureGroup{Child: inner}
		if !detailsRe.MatchString(seg) {
			g.GroupBy = []string{seg}
		}
		inner = g
	}
	if inner == nil {
		return nil, fmt.Errorf("%w: empty structure", ErrSyntax)
	}
	return inner, nil
}

// ParseOutputParameter parses "key = value"; a bare key clears the
// parameter value.
func ParseOutputParameter(s string) (*OutputParameter, error) {
	if eq := strings.Index(s, "="); eq > 0 {
		return &OutputParameter{
			Key:   strings.TrimSpace(s[:eq]),
			Value: strings.TrimSpace(s[eq+1:]),
		}, nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty output parameter", ErrSyntax)
	}
	return &OutputParameter{Key: s}, nil
}
