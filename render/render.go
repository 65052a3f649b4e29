// Package render turns shorthand records into insertable XML fragment
// strings. Fragments use CRLF line endings and tab indentation, the
// conventions of designer-written metadata files.
package render

import (
	"fmt"
	"strings"

	"github.com/mxtool/mx/shorthand"
	"github.com/mxtool/mx/xmlgap"
)

// Renderer carries rendering options. NewID generates identity
// markers; tests inject a deterministic one.
type Renderer struct {
	NewID func() string
	Lang  string
}

func New() *Renderer {
	return &Renderer{NewID: RandomID, Lang: "ru"}
}

// Render produces the fragments for rec, indented with indent. Most
// records yield one fragment; parameters with @autoDates yield three.
func (r *Renderer) Render(rec shorthand.Record, indent string) ([]string, error) {
	switch v := rec.(type) {
	case *shorthand.Field:
		return []string{r.Field(v, indent)}, nil
	case *shorthand.Total:
		return []string{r.Total(v, indent)}, nil
	case *shorthand.CalculatedField:
		return []string{r.Calculated(v, indent)}, nil
	case *shorthand.Parameter:
		return r.Parameter(v, indent), nil
	case *shorthand.Filter:
		return []string{r.FilterItem(v, indent)}, nil
	case *shorthand.DataParameter:
		return []string{r.DataParameterItem(v, indent)}, nil
	case *shorthand.Order:
		return []string{r.OrderItem(v, indent)}, nil
	case *shorthand.Selection:
		return []string{r.SelectionItem(v.Field, indent)}, nil
	case *shorthand.Link:
		return []string{r.Link(v, indent)}, nil
	case *shorthand.Dataset:
		return []string{r.Dataset(v, indent)}, nil
	case *shorthand.Variant:
		return []string{r.Variant(v, indent)}, nil
	case *shorthand.ConditionalAppearance:
		return []string{r.AppearanceItem(v, indent)}, nil
	case *shorthand.StructureGroup:
		return []string{r.StructureItem(v, indent)}, nil
	case *shorthand.OutputParameter:
		return []string{r.OutputParameterItem(v, indent)}, nil
	case *shorthand.Attribute:
		return []string{r.Attribute(v, indent)}, nil
	case *shorthand.EnumValue:
		return []string{r.EnumValue(v, indent)}, nil
	case *shorthand.Column:
		return []string{r.Column(v, indent)}, nil
	}
	return nil, fmt.Errorf("render: no fragment for %T", rec)
}

// frag accumulates CRLF-joined fragment lines.
type frag struct {
	lines []string
}

func (f *frag) add(format string, args ...any) {
	f.lines = append(f.lines, fmt.Sprintf(format, args...))
}

func (f *frag) addRaw(s string) {
	f.lines = append(f.lines, s)
}

func (f *frag) String() string {
	return strings.Join(f.lines, "\r\n")
}

func esc(s string) string { return xmlgap.Escape(s) }

// mlText renders a localized string element in schema documents.
func (r *Renderer) mlText(tag, text, indent string) string {
	f := &frag{}
	f.add(`%s<%s xsi:type="v8:LocalStringType">`, indent, tag)
	f.add("%s\t<v8:item>", indent)
	f.add("%s\t\t<v8:lang>%s</v8:lang>", indent, r.Lang)
	f.add("%s\t\t<v8:content>%s</v8:content>", indent, esc(text))
	f.add("%s\t</v8:item>", indent)
	f.add("%s</%s>", indent, tag)
	return f.String()
}

func (r *Renderer) Field(p *shorthand.Field, indent string) string {
	f := &frag{}
	f.add(`%s<field xsi:type="DataSetFieldField">`, indent)
	f.add("%s\t<dataPath>%s</dataPath>", indent, esc(p.DataPath))
	f.add("%s\t<field>%s</field>", indent, esc(p.FieldRef))
	if p.Title != "" {
		f.addRaw(r.mlText("title", p.Title, indent+"\t"))
	}
	if len(p.Restrict) > 0 {
		f.addRaw(restrictionXML(p.Restrict, indent+"\t"))
	}
	if len(p.Roles) > 0 {
		f.addRaw(roleXML(p.Roles, indent+"\t"))
	}
	if p.Type != "" {
		f.add("%s\t<valueType>", indent)
		f.addRaw(valueTypeXML(p.Type, indent+"\t\t"))
		f.add("%s\t</valueType>", indent)
	}
	f.add("%s</field>", indent)
	return f.String()
}

func roleXML(roles []string, indent string) string {
	f := &frag{}
	f.add("%s<role>", indent)
	for _, role := range roles {
		if role == "period" {
			f.add("%s\t<dcscom:periodNumber>1</dcscom:periodNumber>", indent)
			f.add("%s\t<dcscom:periodType>Main</dcscom:periodType>", indent)
		} else {
			f.add("%s\t<dcscom:%s>true</dcscom:%s>", indent, role, role)
		}
	}
	f.add("%s</role>", indent)
	return f.String()
}

func restrictionXML(restrict []string, indent string) string {
	f := &frag{}
	f.add("%s<useRestriction>", indent)
	for _, r := range restrict {
		if name, ok := restrictionName(r); ok {
			f.add("%s\t<%s>true</%s>", indent, name, name)
		}
	}
	f.add("%s</useRestriction>", indent)
	return f.String()
}

func (r *Renderer) Total(p *shorthand.Total, indent string) string {
	f := &frag{}
	f.add("%s<totalField>", indent)
	f.add("%s\t<dataPath>%s</dataPath>", indent, esc(p.DataPath))
	f.add("%s\t<expression>%s</expression>", indent, esc(p.Expression))
	f.add("%s</totalField>", indent)
	return f.String()
}

func (r *Renderer) Calculated(p *shorthand.CalculatedField, indent string) string {
	f := &frag{}
	f.add("%s<calculatedField>", indent)
	f.add("%s\t<dataPath>%s</dataPath>", indent, esc(p.DataPath))
	f.add("%s\t<expression>%s</expression>", indent, esc(p.Expression))
	if p.Title != "" {
		f.addRaw(r.mlText("title", p.Title, indent+"\t"))
	}
	if p.Type != "" {
		f.add("%s\t<valueType>", indent)
		f.addRaw(valueTypeXML(p.Type, indent+"\t\t"))
		f.add("%s\t</valueType>", indent)
	}
	f.add("%s</calculatedField>", indent)
	return f.String()
}

// Parameter renders a parameter element and, for @autoDates, the two
// derived boundary-date parameters after it.
func (r *Renderer) Parameter(p *shorthand.Parameter, indent string) []string {
	f := &frag{}
	f.add("%s<parameter>", indent)
	f.add("%s\t<name>%s</name>", indent, esc(p.Name))
	if p.Type != "" {
		f.add("%s\t<valueType>", indent)
		f.addRaw(valueTypeXML(p.Type, indent+"\t\t"))
		f.add("%s\t</valueType>", indent)
	}
	if p.HasValue {
		f.addRaw(parameterValueXML(p.Type, p.Value, indent+"\t"))
	}
	f.add("%s</parameter>", indent)
	out := []string{f.String()}

	if p.AutoDates {
		for _, bound := range []string{"ДатаНачала", "ДатаОкончания"} {
			b := &frag{}
			b.add("%s<parameter>", indent)
			b.add("%s\t<name>%s</name>", indent, bound)
			b.add("%s\t<valueType>", indent)
			b.addRaw(valueTypeXML("date", indent+"\t\t"))
			b.add("%s\t</valueType>", indent)
			b.add("%s\t<expression>%s</expression>", indent, esc("&"+p.Name+"."+bound))
			b.add("%s\t<availableAsField>false</availableAsField>", indent)
			b.add("%s</parameter>", indent)
			out = append(out, b.String())
		}
	}
	return out
}

func (r *Renderer) FilterItem(p *shorthand.Filter, indent string) string {
	f := &frag{}
	f.add(`%s<dcsset:item xsi:type="dcsset:FilterItemComparison">`, indent)
	if !p.Use {
		f.add("%s\t<dcsset:use>false</dcsset:use>", indent)
	}
	f.add(`%s	<dcsset:left xsi:type="dcscor:Field">%s</dcsset:left>`, indent, esc(p.Field))
	f.add("%s\t<dcsset:comparisonType>%s</dcsset:comparisonType>", indent, esc(p.Op))
	if p.HasValue {
		vt := p.ValueType
		if vt == "" {
			vt = "xs:string"
		}
		f.add(`%s	<dcsset:right xsi:type="%s">%s</dcsset:right>`, indent, vt, esc(p.Value))
	}
	if p.ViewMode != "" {
		f.add("%s\t<dcsset:viewMode>%s</dcsset:viewMode>", indent, esc(p.ViewMode))
	}
	if p.UserID {
		f.add("%s\t<dcsset:userSettingID>%s</dcsset:userSettingID>", indent, esc(r.NewID()))
	}
	f.add("%s</dcsset:item>", indent)
	return f.String()
}

func (r *Renderer) SelectionItem(field, indent string) string {
	if field == "Auto" {
		return indent + `<dcsset:item xsi:type="dcsset:SelectedItemAuto"/>`
	}
	f := &frag{}
	f.add(`%s<dcsset:item xsi:type="dcsset:SelectedItemField">`, indent)
	f.add("%s\t<dcsset:field>%s</dcsset:field>", indent, esc(field))
	f.add("%s</dcsset:item>", indent)
	return f.String()
}

func (r *Renderer) DataParameterItem(p *shorthand.DataParameter, indent string) string {
	f := &frag{}
	f.add(`%s<dcscor:item xsi:type="dcsset:SettingsParameterValue">`, indent)
	if !p.Use {
		f.add("%s\t<dcscor:use>false</dcscor:use>", indent)
	}
	f.add("%s\t<dcscor:parameter>%s</dcscor:parameter>", indent, esc(p.Name))
	if p.HasValue {
		switch {
		case p.PeriodVariant != "":
			f.add(`%s	<dcscor:value xsi:type="v8:StandardPeriod">`, indent)
			f.add(`%s		<v8:variant xsi:type="v8:StandardPeriodVariant">%s</v8:variant>`, indent, esc(p.PeriodVariant))
			f.add("%s\t</dcscor:value>", indent)
		default:
			f.add(`%s	<dcscor:value xsi:type="%s">%s</dcscor:value>`, indent, scalarType(p.Value), esc(p.Value))
		}
	}
	if p.ViewMode != "" {
		f.add("%s\t<dcsset:viewMode>%s</dcsset:viewMode>", indent, esc(p.ViewMode))
	}
	if p.UserID {
		f.add("%s\t<dcsset:userSettingID>%s</dcsset:userSettingID>", indent, esc(r.NewID()))
	}
	f.add("%s</dcscor:item>", indent)
	return f.String()
}

// DataParameterValue renders only the dcscor:value element, used when
// replacing the value of an existing parameter item in place.
func (r *Renderer) DataParameterValue(p *shorthand.DataParameter, indent string) string {
	if p.PeriodVariant != "" {
		f := &frag{}
		f.add(`%s<dcscor:value xsi:type="v8:StandardPeriod">`, indent)
		f.add(`%s	<v8:variant xsi:type="v8:StandardPeriodVariant">%s</v8:variant>`, indent, esc(p.PeriodVariant))
		f.add("%s</dcscor:value>", indent)
		return f.String()
	}
	return fmt.Sprintf(`%s<dcscor:value xsi:type="%s">%s</dcscor:value>`, indent, scalarType(p.Value), esc(p.Value))
}

func (r *Renderer) OrderItem(p *shorthand.Order, indent string) string {
	if p.Field == "Auto" {
		return indent + `<dcsset:item xsi:type="dcsset:OrderItemAuto"/>`
	}
	f := &frag{}
	f.add(`%s<dcsset:item xsi:type="dcsset:OrderItemField">`, indent)
	f.add("%s\t<dcsset:field>%s</dcsset:field>", indent, esc(p.Field))
	f.add("%s\t<dcsset:orderType>%s</dcsset:orderType>", indent, p.Direction)
	f.add("%s</dcsset:item>", indent)
	return f.String()
}

func (r *Renderer) Link(p *shorthand.Link, indent string) string {
	f := &frag{}
	f.add("%s<dataSetLink>", indent)
	f.add("%s\t<sourceDataSet>%s</sourceDataSet>", indent, esc(p.Source))
	f.add("%s\t<destinationDataSet>%s</destinationDataSet>", indent, esc(p.Dest))
	f.add("%s\t<sourceExpression>%s</sourceExpression>", indent, esc(p.SourceExpr))
	f.add("%s\t<destinationExpression>%s</destinationExpression>", indent, esc(p.DestExpr))
	if p.Parameter != "" {
		f.add("%s\t<parameter>%s</parameter>", indent, esc(p.Parameter))
	}
	f.add("%s</dataSetLink>", indent)
	return f.String()
}

func (r *Renderer) Dataset(p *shorthand.Dataset, indent string) string {
	f := &frag{}
	f.add(`%s<dataSet xsi:type="DataSetQuery">`, indent)
	f.add("%s\t<name>%s</name>", indent, esc(p.Name))
	f.add("%s\t<dataSource>%s</dataSource>", indent, esc(p.DataSource))
	f.add("%s\t<query>%s</query>", indent, esc(p.Query))
	f.add("%s</dataSet>", indent)
	return f.String()
}

// variantStyleNS carries the style namespaces a settings block needs
// for appearance values.
const variantStyleNS = `xmlns:style="http://v8.1c.ru/8.1/data/ui/style" ` +
	`xmlns:sys="http://v8.1c.ru/8.1/data/ui/fonts/system" ` +
	`xmlns:web="http://v8.1c.ru/8.1/data/ui/colors/web" ` +
	`xmlns:win="http://v8.1c.ru/8.1/data/ui/colors/windows"`

func (r *Renderer) Variant(p *shorthand.Variant, indent string) string {
	f := &frag{}
	f.add("%s<settingsVariant>", indent)
	f.add("%s\t<dcsset:name>%s</dcsset:name>", indent, esc(p.Name))
	f.addRaw(r.mlText("dcsset:presentation", p.Presentation, indent+"\t"))
	f.add("%s\t<dcsset:settings %s>", indent, variantStyleNS)
	f.add("%s\t\t<dcsset:selection>", indent)
	f.add(`%s			<dcsset:item xsi:type="dcsset:SelectedItemAuto"/>`, indent)
	f.add("%s\t\t</dcsset:selection>", indent)
	f.add(`%s		<dcsset:item xsi:type="dcsset:StructureItemGroup">`, indent)
	f.add("%s\t\t\t<dcsset:groupItems/>", indent)
	f.add("%s\t\t\t<dcsset:order>", indent)
	f.add(`%s				<dcsset:item xsi:type="dcsset:OrderItemAuto"/>`, indent)
	f.add("%s\t\t\t</dcsset:order>", indent)
	f.add("%s\t\t\t<dcsset:selection>", indent)
	f.add(`%s				<dcsset:item xsi:type="dcsset:SelectedItemAuto"/>`, indent)
	f.add("%s\t\t\t</dcsset:selection>", indent)
	f.add("%s\t\t</dcsset:item>", indent)
	f.add("%s\t</dcsset:settings>", indent)
	f.add("%s</settingsVariant>", indent)
	return f.String()
}

func (r *Renderer) AppearanceItem(p *shorthand.ConditionalAppearance, indent string) string {
	f := &frag{}
	f.add("%s<dcsset:item>", indent)
	if len(p.Fields) > 0 {
		f.add("%s\t<dcsset:selection>", indent)
		for _, fld := range p.Fields {
			f.add("%s\t\t<dcsset:item>", indent)
			f.add("%s\t\t\t<dcsset:field>%s</dcsset:field>", indent, esc(fld))
			f.add("%s\t\t</dcsset:item>", indent)
		}
		f.add("%s\t</dcsset:selection>", indent)
	} else {
		f.add("%s\t<dcsset:selection/>", indent)
	}
	if p.When != nil {
		w := p.When
		f.add("%s\t<dcsset:filter>", indent)
		f.add(`%s		<dcsset:item xsi:type="dcsset:FilterItemComparison">`, indent)
		f.add(`%s			<dcsset:left xsi:type="dcscor:Field">%s</dcsset:left>`, indent, esc(w.Field))
		f.add("%s\t\t\t<dcsset:comparisonType>%s</dcsset:comparisonType>", indent, esc(w.Op))
		if w.HasValue {
			vt := w.ValueType
			if vt == "" {
				vt = "xs:string"
			}
			f.add(`%s			<dcsset:right xsi:type="%s">%s</dcsset:right>`, indent, vt, esc(w.Value))
		}
		f.add("%s\t\t</dcsset:item>", indent)
		f.add("%s\t</dcsset:filter>", indent)
	} else {
		f.add("%s\t<dcsset:filter/>", indent)
	}
	f.add("%s\t<dcsset:appearance>", indent)
	f.add(`%s		<dcscor:item xsi:type="dcsset:SettingsParameterValue">`, indent)
	f.add("%s\t\t\t<dcscor:parameter>%s</dcscor:parameter>", indent, esc(p.Param))
	f.add(`%s			<dcscor:value xsi:type="%s">%s</dcscor:value>`, indent, appearanceType(p.Value), esc(p.Value))
	f.add("%s\t\t</dcscor:item>", indent)
	f.add("%s\t</dcsset:appearance>", indent)
	f.add("%s</dcsset:item>", indent)
	return f.String()
}

func (r *Renderer) StructureItem(g *shorthand.StructureGroup, indent string) string {
	f := &frag{}
	f.add(`%s<dcsset:item xsi:type="dcsset:StructureItemGroup">`, indent)
	if len(g.GroupBy) == 0 {
		f.add("%s\t<dcsset:groupItems/>", indent)
	} else {
		f.add("%s\t<dcsset:groupItems>", indent)
		for _, field := range g.GroupBy {
			f.add(`%s		<dcsset:item xsi:type="dcsset:GroupItemField">`, indent)
			f.add("%s\t\t\t<dcsset:field>%s</dcsset:field>", indent, esc(field))
			f.add("%s\t\t\t<dcsset:groupType>Items</dcsset:groupType>", indent)
			f.add("%s\t\t\t<dcsset:periodAdditionType>None</dcsset:periodAdditionType>", indent)
			f.add(`%s			<dcsset:periodAdditionBegin xsi:type="xs:dateTime">0001-01-01T00:00:00</dcsset:periodAdditionBegin>`, indent)
			f.add(`%s			<dcsset:periodAdditionEnd xsi:type="xs:dateTime">0001-01-01T00:00:00</dcsset:periodAdditionEnd>`, indent)
			f.add("%s\t\t</dcsset:item>", indent)
		}
		f.add("%s\t</dcsset:groupItems>", indent)
	}
	f.add("%s\t<dcsset:order>", indent)
	f.add(`%s		<dcsset:item xsi:type="dcsset:OrderItemAuto"/>`, indent)
	f.add("%s\t</dcsset:order>", indent)
	f.add("%s\t<dcsset:selection>", indent)
	f.add(`%s		<dcsset:item xsi:type="dcsset:SelectedItemAuto"/>`, indent)
	f.add("%s\t</dcsset:selection>", indent)
	if g.Child != nil {
		f.addRaw(r.StructureItem(g.Child, indent+"\t"))
	}
	f.add("%s</dcsset:item>", indent)
	return f.String()
}

func (r *Renderer) OutputParameterItem(p *shorthand.OutputParameter, indent string) string {
	f := &frag{}
	f.add(`%s<dcscor:item xsi:type="dcsset:SettingsParameterValue">`, indent)
	f.add("%s\t<dcscor:parameter>%s</dcscor:parameter>", indent, esc(p.Key))
	if t, ok := outputParamType(p.Key); ok && t == "mltext" {
		f.add(`%s	<dcscor:value xsi:type="v8:LocalStringType">`, indent)
		f.add("%s\t\t<v8:item>", indent)
		f.add("%s\t\t\t<v8:lang>%s</v8:lang>", indent, r.Lang)
		f.add("%s\t\t\t<v8:content>%s</v8:content>", indent, esc(p.Value))
		f.add("%s\t\t</v8:item>", indent)
		f.add("%s\t</dcscor:value>", indent)
	} else {
		vt := "xs:string"
		if ok {
			vt = t
		}
		f.add(`%s	<dcscor:value xsi:type="%s">%s</dcscor:value>`, indent, vt, esc(p.Value))
	}
	f.add("%s</dcscor:item>", indent)
	return f.String()
}
