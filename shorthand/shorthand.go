// Package shorthand compiles single-line shorthand strings into
// intermediate records. Each record kind has its own grammar; the
// renderer turns records into insertable subtrees.
package shorthand

import "fmt"

// Record is the common interface of parsed shorthand records.
type Record interface {
	// RecordKind is the child element kind the record produces.
	RecordKind() string
	// Describe is a short human label used in audit lines.
	Describe() string
}

// Field is an "add-field" record: dataPath[:type] [Title] @role #restriction.
type Field struct {
	DataPath string
	FieldRef string
	Title    string
	Type     string
	Roles    []string
	Restrict []string
}

func (*Field) RecordKind() string { return "field" }
func (f *Field) Describe() string { return f.DataPath }

// Total is a total field: dataPath: func or dataPath: expr(...).
type Total struct {
	DataPath   string
	Expression string
}

func (*Total) RecordKind() string { return "totalField" }
func (t *Total) Describe() string { return t.DataPath }

// CalculatedField: dataPath[:type] = expression [Title].
type CalculatedField struct {
	DataPath   string
	Expression string
	Type       string
	Title      string
}

func (*CalculatedField) RecordKind() string { return "calculatedField" }
func (c *CalculatedField) Describe() string { return c.DataPath }

// Parameter: name: type [= value] [@autoDates].
type Parameter struct {
	Name      string
	Type      string
	Value     string
	HasValue  bool
	AutoDates bool
}

func (*Parameter) RecordKind() string { return "parameter" }
func (p *Parameter) Describe() string { return p.Name }

// Filter: field op [value] with @user/@off/view-mode markers.
type Filter struct {
	Field     string
	Op        string // canonical comparison type, default Equal
	Value     string
	HasValue  bool
	ValueType string // xs:boolean, xs:dateTime, xs:decimal or xs:string
	Use       bool
	UserID    bool // generate a user setting identity marker
	ViewMode  string
}

func (*Filter) RecordKind() string { return "item" }
func (f *Filter) Describe() string { return fmt.Sprintf("%s %s", f.Field, f.Op) }

// DataParameter: name = value, where value may name a standard
// period variant.
type DataParameter struct {
	Name          string
	Value         string
	PeriodVariant string // set instead of Value for period values
	HasValue      bool
	Use           bool
	UserID        bool
	ViewMode      string
}

func (*DataParameter) RecordKind() string { return "dataParameters" }
func (p *DataParameter) Describe() string { return p.Name }

// Order: field [asc|desc], or the literal Auto item.
type Order struct {
	Field     string
	Direction string // Asc, Desc, or "" for Auto
}

func (*Order) RecordKind() string { return "order" }
func (o *Order) Describe() string { return o.Field }

// Selection is a selected field item; Auto yields the auto item.
type Selection struct {
	Field string
}

func (*Selection) RecordKind() string { return "selection" }
func (s *Selection) Describe() string { return s.Field }

// Link: Source > Dest on FieldA = FieldB [param Name].
type Link struct {
	Source     string
	Dest       string
	SourceExpr string
	DestExpr   string
	Parameter  string
}

func (*Link) RecordKind() string { return "dataSetLink" }
func (l *Link) Describe() string { return fmt.Sprintf("%s > %s", l.Source, l.Dest) }

// Dataset: [name:] query text. Name and DataSource are filled by the
// caller when missing; the grammar carries only the query and an
// optional name.
type Dataset struct {
	Name       string
	DataSource string
	Query      string
}

func (*Dataset) RecordKind() string { return "dataSet" }
func (d *Dataset) Describe() string { return d.Name }

// Variant: name [Presentation].
type Variant struct {
	Name         string
	Presentation string
}

func (*Variant) RecordKind() string { return "settingsVariant" }
func (v *Variant) Describe() string { return v.Name }

// ConditionalAppearance: param = value [when filter] [for fields].
type ConditionalAppearance struct {
	Param  string
	Value  string
	When   *Filter
	Fields []string
}

func (*ConditionalAppearance) RecordKind() string { return "conditionalAppearance" }
func (c *ConditionalAppearance) Describe() string { return c.Param }

// StructureGroup is one level of a "A > B > details" structure chain.
type StructureGroup struct {
	GroupBy []string // empty for a detail records group
	Child   *StructureGroup
}

func (*StructureGroup) RecordKind() string { return "item" }
func (g *StructureGroup) Describe() string {
	if len(g.GroupBy) == 0 {
		return "details"
	}
	return g.GroupBy[0]
}

// OutputParameter: key = value.
type OutputParameter struct {
	Key   string
	Value string
}

func (*OutputParameter) RecordKind() string { return "outputParameters" }
func (o *OutputParameter) Describe() string { return o.Key }

// Attribute is an object-dialect attribute: Name[:type] [| flags]
// [>> after X | << before Y].
type Attribute struct {
	Name         string
	Type         string
	Synonym      string
	Context      string // catalog, document, register, processor, tabular
	FillChecking string
	Indexing     string
	Flags        []string
	After        string
	Before       string
}

func (*Attribute) RecordKind() string { return "Attribute" }
func (a *Attribute) Describe() string { return a.Name }

// EnumValue is an object-dialect enumeration value.
type EnumValue struct {
	Name    string
	Synonym string
	After   string
	Before  string
}

func (*EnumValue) RecordKind() string { return "EnumValue" }
func (e *EnumValue) Describe() string { return e.Name }

// Column is an object-dialect document journal column.
type Column struct {
	Name       string
	Synonym    string
	Indexing   string
	References []string
	After      string
	Before     string
}

func (*Column) RecordKind() string { return "Column" }
func (c *Column) Describe() string { return c.Name }

// HasFlag reports whether the attribute shorthand carried the flag.
func (a *Attribute) HasFlag(name string) bool {
	for _, f := range a.Flags {
		if f == name {
			return true
		}
	}
	return false
}

// TabularSection is an object-dialect tabular section with optional
// inline attributes.
type TabularSection struct {
	Name    string
	Synonym string
	Attrs   []*Attribute
	After   string
	Before  string
}

func (*TabularSection) RecordKind() string { return "TabularSection" }
func (t *TabularSection) Describe() string { return t.Name }

// ObjectChange is one prop=value pair of an object modify shorthand.
// Prop is "name", "type", "synonym" or a literal Properties child tag.
type ObjectChange struct {
	Prop  string
	Value string
}

// ObjectModify addresses a child object by name and lists its changes
// in shorthand order.
type ObjectModify struct {
	Name    string
	Changes []ObjectChange
}

func (*ObjectModify) RecordKind() string { return "ObjectModify" }
func (m *ObjectModify) Describe() string { return m.Name }
