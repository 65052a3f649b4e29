package shorthand

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseField(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want *Field
	}{
		{
			"Total: decimal(15,2) [Total Amount] @measure",
			&Field{DataPath: "Total", FieldRef: "Total", Title: "Total Amount",
				Type: "decimal(15,2)", Roles: []string{"measure"}},
		},
		{
			"Контрагент",
			&Field{DataPath: "Контрагент", FieldRef: "Контрагент"},
		},
		{
			"Период: date @period #noFilter #noOrder",
			&Field{DataPath: "Период", FieldRef: "Период", Type: "date",
				Roles: []string{"period"}, Restrict: []string{"noFilter", "noOrder"}},
		},
		{
			"Сумма: число(15,2) [Сумма документа]",
			&Field{DataPath: "Сумма", FieldRef: "Сумма", Title: "Сумма документа",
				Type: "число(15,2)"},
		},
	} {
		got, err := ParseField(tc.in)
		if err != nil {
			t.Errorf("ParseField(%q): %v", tc.in, err)
			continue
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("ParseField(%q) (-want +got):\n%s", tc.in, diff)
		}
	}

	_, err := ParseField("X #noSort")
	if !errors.Is(err, ErrSyntax) {
		t.Errorf("unknown restriction: err = %v", err)
	}

	_, err = ParseField("X @mesure")
	if !errors.Is(err, ErrSyntax) {
		t.Errorf("unknown role: err = %v", err)
	}
	if err == nil || !strings.Contains(err.Error(), "@measure") {
		t.Errorf("unknown role: no suggestion in %v", err)
	}

	_, err = ParseField("X @Period")
	if err != nil {
		t.Errorf("case-folded role: %v", err)
	}
}

func TestParseTotal(t *testing.T) {
	got, err := ParseTotal("Сумма: Sum")
	if err != nil {
		t.Fatal(err)
	}
	if got.Expression != "Sum(Сумма)" {
		t.Errorf("expression = %q", got.Expression)
	}
	got, err = ParseTotal("Остаток: Sum(Приход - Расход)")
	if err != nil {
		t.Fatal(err)
	}
	if got.Expression != "Sum(Приход - Расход)" {
		t.Errorf("expression = %q", got.Expression)
	}
	if _, err := ParseTotal("НетФункции"); !errors.Is(err, ErrSyntax) {
		t.Errorf("missing colon: err = %v", err)
	}
}

func TestParseCalculated(t *testing.T) {
	got, err := ParseCalculated("Маржа: число(15,2) = Выручка - Себестоимость [Маржа]")
	if err != nil {
		t.Fatal(err)
	}
	want := &CalculatedField{DataPath: "Маржа", Type: "число(15,2)",
		Expression: "Выручка - Себестоимость", Title: "Маржа"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestParseParameter(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want *Parameter
	}{
		{"Период: StandardPeriod @autoDates",
			&Parameter{Name: "Период", Type: "StandardPeriod", AutoDates: true}},
		{"Организация: CatalogRef.Организации",
			&Parameter{Name: "Организация", Type: "CatalogRef.Организации"}},
		{"ТолькоПроведенные: boolean = true",
			&Parameter{Name: "ТолькоПроведенные", Type: "boolean", Value: "true", HasValue: true}},
	} {
		got, err := ParseParameter(tc.in)
		if err != nil {
			t.Errorf("ParseParameter(%q): %v", tc.in, err)
			continue
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("ParseParameter(%q) (-want +got):\n%s", tc.in, diff)
		}
	}
}

func TestParseFilter(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want *Filter
	}{
		{"Status = Active @user",
			&Filter{Field: "Status", Op: "Equal", Value: "Active", HasValue: true,
				ValueType: "xs:string", Use: true, UserID: true}},
		{"Сумма >= 1000",
			&Filter{Field: "Сумма", Op: "GreaterOrEqual", Value: "1000", HasValue: true,
				ValueType: "xs:decimal", Use: true}},
		{"Проведен = true @off",
			&Filter{Field: "Проведен", Op: "Equal", Value: "true", HasValue: true,
				ValueType: "xs:boolean", Use: false}},
		{"Дата >= 2024-01-01T00:00:00",
			&Filter{Field: "Дата", Op: "GreaterOrEqual", Value: "2024-01-01T00:00:00",
				HasValue: true, ValueType: "xs:dateTime", Use: true}},
		{"Комментарий notFilled _",
			&Filter{Field: "Комментарий", Op: "NotFilled", Use: true}},
		{"Контрагент inHierarchy Покупатели @quickAccess",
			&Filter{Field: "Контрагент", Op: "InHierarchy", Value: "Покупатели",
				HasValue: true, ValueType: "xs:string", Use: true, ViewMode: "QuickAccess"}},
		{"ТолькоПоле",
			&Filter{Field: "ТолькоПоле", Op: "Equal", Use: true}},
	} {
		got, err := ParseFilter(tc.in)
		if err != nil {
			t.Errorf("ParseFilter(%q): %v", tc.in, err)
			continue
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("ParseFilter(%q) (-want +got):\n%s", tc.in, diff)
		}
	}
}

func TestParseDataParameter(t *testing.T) {
	got, err := ParseDataParameter("Период = ThisMonth @user")
	if err != nil {
		t.Fatal(err)
	}
	want := &DataParameter{Name: "Период", PeriodVariant: "ThisMonth",
		HasValue: true, Use: true, UserID: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	got, err = ParseDataParameter("Организация = Основная")
	if err != nil {
		t.Fatal(err)
	}
	if got.Value != "Основная" || got.PeriodVariant != "" {
		t.Errorf("scalar value parse: %+v", got)
	}
}

func TestParseOrder(t *testing.T) {
	for _, tc := range []struct {
		in        string
		field, dir string
	}{
		{"Дата", "Дата", "Asc"},
		{"Дата desc", "Дата", "Desc"},
		{"Дата DESC", "Дата", "Desc"},
		{"Auto", "Auto", ""},
	} {
		got, err := ParseOrder(tc.in)
		if err != nil {
			t.Fatal(err)
		}
		if got.Field != tc.field || got.Direction != tc.dir {
			t.Errorf("ParseOrder(%q) = %+v", tc.in, got)
		}
	}
}

func TestParseLink(t *testing.T) {
	got, err := ParseLink("Остатки > Обороты on Номенклатура = Номенклатура [param Ном]")
	if err != nil {
		t.Fatal(err)
	}
	want := &Link{Source: "Остатки", Dest: "Обороты",
		SourceExpr: "Номенклатура", DestExpr: "Номенклатура", Parameter: "Ном"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if _, err := ParseLink("всё сломано"); !errors.Is(err, ErrSyntax) {
		t.Errorf("bad link: err = %v", err)
	}
}

func TestParseDataset(t *testing.T) {
	got, err := ParseDataset("Остатки: ВЫБРАТЬ * ИЗ Справочник.Номенклатура")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Остатки" || got.Query != "ВЫБРАТЬ * ИЗ Справочник.Номенклатура" {
		t.Errorf("named dataset: %+v", got)
	}
	got, err = ParseDataset("ВЫБРАТЬ 1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "" || got.Query != "ВЫБРАТЬ 1" {
		t.Errorf("anonymous dataset: %+v", got)
	}
}

func TestParseConditionalAppearance(t *testing.T) {
	got, err := ParseConditionalAppearance("ЦветТекста = web:Red when Сумма < 0 for Сумма, Остаток")
	if err != nil {
		t.Fatal(err)
	}
	if got.Param != "ЦветТекста" || got.Value != "web:Red" {
		t.Errorf("main part: %+v", got)
	}
	if got.When == nil || got.When.Field != "Сумма" || got.When.Op != "Less" {
		t.Errorf("when part: %+v", got.When)
	}
	if len(got.Fields) != 2 || got.Fields[1] != "Остаток" {
		t.Errorf("for part: %v", got.Fields)
	}
}

func TestParseStructure(t *testing.T) {
	got, err := ParseStructure("Контрагент > Договор > details")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.GroupBy) != 1 || got.GroupBy[0] != "Контрагент" {
		t.Fatalf("outer group: %+v", got)
	}
	mid := got.Child
	if mid == nil || mid.GroupBy[0] != "Договор" {
		t.Fatalf("middle group: %+v", mid)
	}
	leaf := mid.Child
	if leaf == nil || len(leaf.GroupBy) != 0 || leaf.Child != nil {
		t.Fatalf("detail group: %+v", leaf)
	}
}

func TestParseVariantAndOutputParameter(t *testing.T) {
	v, err := ParseVariant("Основной [Основной отчет]")
	if err != nil {
		t.Fatal(err)
	}
	if v.Name != "Основной" || v.Presentation != "Основной отчет" {
		t.Errorf("variant: %+v", v)
	}
	v, _ = ParseVariant("Краткий")
	if v.Presentation != "Краткий" {
		t.Errorf("default presentation: %+v", v)
	}
	op, err := ParseOutputParameter("Заголовок = Отчет по продажам")
	if err != nil {
		t.Fatal(err)
	}
	if op.Key != "Заголовок" || op.Value != "Отчет по продажам" {
		t.Errorf("output parameter: %+v", op)
	}
}
