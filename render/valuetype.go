package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mxtool/mx/dialect"
	"github.com/mxtool/mx/typesys"
)

const configNS = `xmlns:d5p1="http://v8.1c.ru/8.1/data/enterprise/current-config"`

// valueTypeXML renders the v8:Type block for a schema value type.
func valueTypeXML(typeToken, indent string) string {
	t := typesys.Resolve(typeToken)
	f := &frag{}
	switch t.Kind {
	case typesys.Boolean:
		f.add("%s<v8:Type>xs:boolean</v8:Type>", indent)
	case typesys.String:
		f.add("%s<v8:Type>xs:string</v8:Type>", indent)
		f.add("%s<v8:StringQualifiers>", indent)
		f.add("%s\t<v8:Length>%d</v8:Length>", indent, t.Length)
		f.add("%s\t<v8:AllowedLength>Variable</v8:AllowedLength>", indent)
		f.add("%s</v8:StringQualifiers>", indent)
	case typesys.Decimal:
		sign := "Any"
		if t.NonNeg {
			sign = "Nonnegative"
		}
		f.add("%s<v8:Type>xs:decimal</v8:Type>", indent)
		f.add("%s<v8:NumberQualifiers>", indent)
		f.add("%s\t<v8:Digits>%d</v8:Digits>", indent, t.Digits)
		f.add("%s\t<v8:FractionDigits>%d</v8:FractionDigits>", indent, t.Fraction)
		f.add("%s\t<v8:AllowedSign>%s</v8:AllowedSign>", indent, sign)
		f.add("%s</v8:NumberQualifiers>", indent)
	case typesys.Date, typesys.DateTime:
		fractions := "Date"
		if t.Kind == typesys.DateTime {
			fractions = "DateTime"
		}
		f.add("%s<v8:Type>xs:dateTime</v8:Type>", indent)
		f.add("%s<v8:DateQualifiers>", indent)
		f.add("%s\t<v8:DateFractions>%s</v8:DateFractions>", indent, fractions)
		f.add("%s</v8:DateQualifiers>", indent)
	case typesys.StandardPeriod:
		f.add("%s<v8:Type>v8:StandardPeriod</v8:Type>", indent)
	case typesys.Ref:
		f.add("%s<v8:Type %s>d5p1:%s</v8:Type>", indent, configNS, esc(t.Name))
	default:
		f.add("%s<v8:Type>%s</v8:Type>", indent, esc(t.Name))
	}
	return f.String()
}

// parameterValueXML types a parameter's default value by its declared
// type, falling back to string.
func parameterValueXML(typeToken, value, indent string) string {
	t := typesys.Resolve(typeToken)
	switch {
	case t.Kind == typesys.StandardPeriod:
		f := &frag{}
		f.add(`%s<value xsi:type="v8:StandardPeriod">`, indent)
		f.add(`%s	<v8:variant xsi:type="v8:StandardPeriodVariant">%s</v8:variant>`, indent, esc(value))
		f.add("%s</value>", indent)
		return f.String()
	case t.Kind == typesys.Date || t.Kind == typesys.DateTime:
		return fmt.Sprintf(`%s<value xsi:type="xs:dateTime">%s</value>`, indent, esc(value))
	case t.Kind == typesys.Boolean:
		return fmt.Sprintf(`%s<value xsi:type="xs:boolean">%s</value>`, indent, esc(value))
	case t.Kind == typesys.Decimal,
		t.Kind == typesys.Raw && strings.HasPrefix(t.Name, "decimal"):
		return fmt.Sprintf(`%s<value xsi:type="xs:decimal">%s</value>`, indent, esc(value))
	}
	return fmt.Sprintf(`%s<value xsi:type="xs:string">%s</value>`, indent, esc(value))
}

var dateTimeLitRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T`)

// scalarType types a bare literal for settings parameter values.
func scalarType(v string) string {
	switch {
	case dateTimeLitRe.MatchString(v):
		return "xs:dateTime"
	case v == "true" || v == "false":
		return "xs:boolean"
	}
	return "xs:string"
}

var colorLitRe = regexp.MustCompile(`^(web|style|win):`)

// appearanceType types a conditional appearance value: color literals
// and booleans are recognized by shape.
func appearanceType(v string) string {
	switch {
	case colorLitRe.MatchString(v):
		return "v8ui:Color"
	case v == "true" || v == "false":
		return "xs:boolean"
	}
	return "xs:string"
}

func restrictionName(tok string) (string, bool) {
	return dialect.Restriction(tok)
}

func outputParamType(key string) (string, bool) {
	return dialect.OutputParameterType(key)
}
