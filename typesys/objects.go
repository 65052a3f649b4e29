package typesys

import (
	"strconv"
	"strings"
)

// objectSynonyms is the metadata-object vocabulary. It is wider than
// the schema one: more reference kinds, value storage, defined types.
var objectSynonyms = map[string]string{
	"число":            "Number",
	"строка":           "String",
	"булево":           "Boolean",
	"дата":             "Date",
	"датавремя":        "DateTime",
	"хранилищезначения": "ValueStorage",
	"number":           "Number",
	"string":           "String",
	"boolean":          "Boolean",
	"date":             "Date",
	"datetime":         "DateTime",
	"valuestorage":     "ValueStorage",
	"bool":             "Boolean",
	"справочникссылка":             "CatalogRef",
	"документссылка":               "DocumentRef",
	"перечислениессылка":           "EnumRef",
	"плансчетовссылка":             "ChartOfAccountsRef",
	"планвидовхарактеристикссылка": "ChartOfCharacteristicTypesRef",
	"планвидоврасчётассылка":       "ChartOfCalculationTypesRef",
	"планвидоврасчетассылка":       "ChartOfCalculationTypesRef",
	"планобменассылка":             "ExchangePlanRef",
	"бизнеспроцессссылка":          "BusinessProcessRef",
	"задачассылка":                 "TaskRef",
	"определяемыйтип":              "DefinedType",
	"definedtype":                  "DefinedType",
	"catalogref":                   "CatalogRef",
	"documentref":                  "DocumentRef",
	"enumref":                      "EnumRef",
}

func resolveObjectToken(s string) string {
	if s == "" {
		return s
	}
	if open := strings.Index(s, "("); open > 0 && strings.HasSuffix(s, ")") {
		base := strings.TrimSpace(s[:open])
		if r, ok := objectSynonyms[strings.ToLower(base)]; ok {
			return r + s[open:]
		}
		return s
	}
	if dot := strings.Index(s, "."); dot > 0 {
		if r, ok := objectSynonyms[strings.ToLower(s[:dot])]; ok {
			return r + s[dot:]
		}
		return s
	}
	if r, ok := objectSynonyms[strings.ToLower(s)]; ok {
		return r
	}
	return s
}

// ResolveObject parses a metadata-object type token. A bare Number
// defaults to Number(10,0); everything dotted is a reference.
func ResolveObject(s string) Type {
	s = resolveObjectToken(strings.TrimSpace(s))
	switch s {
	case "Boolean":
		return Type{Kind: Boolean}
	case "ValueStorage":
		return Type{Kind: ValueStorage}
	case "Date":
		return Type{Kind: Date}
	case "DateTime":
		return Type{Kind: DateTime}
	case "Number":
		return Type{Kind: Decimal, Digits: 10}
	}
	if strings.HasPrefix(s, "String") {
		rest := s[len("String"):]
		if rest == "" {
			return Type{Kind: String}
		}
		if strings.HasPrefix(rest, "(") && strings.HasSuffix(rest, ")") {
			if n, err := strconv.Atoi(rest[1 : len(rest)-1]); err == nil {
				return Type{Kind: String, Length: n}
			}
		}
	}
	if strings.HasPrefix(s, "Number(") && strings.HasSuffix(s, ")") {
		args := strings.Split(s[len("Number("):len(s)-1], ",")
		if len(args) >= 2 {
			d, derr := strconv.Atoi(strings.TrimSpace(args[0]))
			f, ferr := strconv.Atoi(strings.TrimSpace(args[1]))
			if derr == nil && ferr == nil {
				nn := len(args) > 2 && strings.TrimSpace(args[2]) == "nonneg"
				return Type{Kind: Decimal, Digits: d, Fraction: f, NonNeg: nn}
			}
		}
	}
	if strings.Contains(s, ".") {
		return Type{Kind: Ref, Name: s}
	}
	return Type{Kind: Raw, Name: s}
}
