package render

import (
	"strings"
	"testing"

	"github.com/mxtool/mx/shorthand"
)

func testRenderer() *Renderer {
	n := 0
	return &Renderer{
		Lang: "ru",
		NewID: func() string {
			n++
			return "00000000-0000-0000-0000-00000000000" + string(rune('0'+n))
		},
	}
}

func TestFieldFragment(t *testing.T) {
	rec, err := shorthand.ParseField("Total: decimal(15,2) [Total Amount] @measure")
	if err != nil {
		t.Fatal(err)
	}
	got := testRenderer().Field(rec, "\t\t")
	want := strings.Join([]string{
		"\t\t" + `<field xsi:type="DataSetFieldField">`,
		"\t\t\t<dataPath>Total</dataPath>",
		"\t\t\t<field>Total</field>",
		"\t\t\t" + `<title xsi:type="v8:LocalStringType">`,
		"\t\t\t\t<v8:item>",
		"\t\t\t\t\t<v8:lang>ru</v8:lang>",
		"\t\t\t\t\t<v8:content>Total Amount</v8:content>",
		"\t\t\t\t</v8:item>",
		"\t\t\t</title>",
		"\t\t\t<role>",
		"\t\t\t\t<dcscom:measure>true</dcscom:measure>",
		"\t\t\t</role>",
		"\t\t\t<valueType>",
		"\t\t\t\t<v8:Type>xs:decimal</v8:Type>",
		"\t\t\t\t<v8:NumberQualifiers>",
		"\t\t\t\t\t<v8:Digits>15</v8:Digits>",
		"\t\t\t\t\t<v8:FractionDigits>2</v8:FractionDigits>",
		"\t\t\t\t\t<v8:AllowedSign>Any</v8:AllowedSign>",
		"\t\t\t\t</v8:NumberQualifiers>",
		"\t\t\t</valueType>",
		"\t\t</field>",
	}, "\r\n")
	if got != want {
		t.Errorf("field fragment:\n got: %q\nwant: %q", got, want)
	}
}

func TestFilterFragment(t *testing.T) {
	rec, err := shorthand.ParseFilter("Status = Active @user")
	if err != nil {
		t.Fatal(err)
	}
	got := testRenderer().FilterItem(rec, "\t")
	for _, want := range []string{
		`<dcsset:item xsi:type="dcsset:FilterItemComparison">`,
		"<dcsset:comparisonType>Equal</dcsset:comparisonType>",
		`<dcsset:right xsi:type="xs:string">Active</dcsset:right>`,
		"<dcsset:userSettingID>00000000-0000-0000-0000-000000000001</dcsset:userSettingID>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("filter fragment missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "<dcsset:use>") {
		t.Error("use element rendered for enabled filter")
	}
}

func TestParameterAutoDates(t *testing.T) {
	rec, err := shorthand.ParseParameter("Период: StandardPeriod @autoDates")
	if err != nil {
		t.Fatal(err)
	}
	frags := testRenderer().Parameter(rec, "\t")
	if len(frags) != 3 {
		t.Fatalf("got %d fragments, want 3", len(frags))
	}
	if !strings.Contains(frags[0], "<v8:Type>v8:StandardPeriod</v8:Type>") {
		t.Errorf("period type:\n%s", frags[0])
	}
	if !strings.Contains(frags[1], "<name>ДатаНачала</name>") ||
		!strings.Contains(frags[1], "<expression>&amp;Период.ДатаНачала</expression>") ||
		!strings.Contains(frags[1], "<availableAsField>false</availableAsField>") {
		t.Errorf("begin date:\n%s", frags[1])
	}
	if !strings.Contains(frags[2], "<name>ДатаОкончания</name>") {
		t.Errorf("end date:\n%s", frags[2])
	}
}

func TestSelectionAndOrderAuto(t *testing.T) {
	r := testRenderer()
	if got := r.SelectionItem("Auto", "\t"); got != "\t"+`<dcsset:item xsi:type="dcsset:SelectedItemAuto"/>` {
		t.Errorf("auto selection: %q", got)
	}
	rec, _ := shorthand.ParseOrder("Дата desc")
	got := r.OrderItem(rec, "")
	if !strings.Contains(got, "<dcsset:orderType>Desc</dcsset:orderType>") {
		t.Errorf("order fragment:\n%s", got)
	}
}

func TestDataParameterPeriodVariant(t *testing.T) {
	rec, err := shorthand.ParseDataParameter("Период = ThisMonth")
	if err != nil {
		t.Fatal(err)
	}
	got := testRenderer().DataParameterItem(rec, "")
	if !strings.Contains(got, `<dcscor:value xsi:type="v8:StandardPeriod">`) ||
		!strings.Contains(got, `<v8:variant xsi:type="v8:StandardPeriodVariant">ThisMonth</v8:variant>`) {
		t.Errorf("period value:\n%s", got)
	}
}

func TestVariantFragment(t *testing.T) {
	rec, _ := shorthand.ParseVariant("Основной")
	got := testRenderer().Variant(rec, "\t")
	for _, want := range []string{
		"<dcsset:name>Основной</dcsset:name>",
		`xmlns:web="http://v8.1c.ru/8.1/data/ui/colors/web"`,
		`<dcsset:item xsi:type="dcsset:StructureItemGroup">`,
		`<dcsset:item xsi:type="dcsset:OrderItemAuto"/>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("variant fragment missing %q", want)
		}
	}
}

func TestAppearanceFragment(t *testing.T) {
	rec, err := shorthand.ParseConditionalAppearance("ЦветТекста = web:Red when Сумма < 0 for Сумма")
	if err != nil {
		t.Fatal(err)
	}
	got := testRenderer().AppearanceItem(rec, "")
	for _, want := range []string{
		`<dcscor:value xsi:type="v8ui:Color">web:Red</dcscor:value>`,
		"<dcsset:comparisonType>Less</dcsset:comparisonType>",
		"<dcsset:field>Сумма</dcsset:field>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("appearance fragment missing %q:\n%s", want, got)
		}
	}
}

func TestStructureFragment(t *testing.T) {
	rec, err := shorthand.ParseStructure("Контрагент > details")
	if err != nil {
		t.Fatal(err)
	}
	got := testRenderer().StructureItem(rec, "")
	if !strings.Contains(got, "<dcsset:groupType>Items</dcsset:groupType>") {
		t.Errorf("group items:\n%s", got)
	}
	// the detail group nests one level deeper with empty groupItems
	if !strings.Contains(got, "\t<dcsset:groupItems/>") {
		t.Errorf("detail group:\n%s", got)
	}
}

func TestOutputParameterFragment(t *testing.T) {
	r := testRenderer()
	rec, _ := shorthand.ParseOutputParameter("Заголовок = Продажи")
	got := r.OutputParameterItem(rec, "")
	if !strings.Contains(got, `<dcscor:value xsi:type="v8:LocalStringType">`) ||
		!strings.Contains(got, "<v8:content>Продажи</v8:content>") {
		t.Errorf("mltext output parameter:\n%s", got)
	}
	rec, _ = shorthand.ParseOutputParameter("ВыводитьОтбор = DontOutput")
	got = r.OutputParameterItem(rec, "")
	if !strings.Contains(got, `xsi:type="dcsset:DataCompositionTextOutputType"`) {
		t.Errorf("typed output parameter:\n%s", got)
	}
}

func TestAttributeFragment(t *testing.T) {
	rec, err := shorthand.ParseAttribute("НомерДоговора: Строка(25) | req, index")
	if err != nil {
		t.Fatal(err)
	}
	rec.Context = "catalog"
	got := testRenderer().Attribute(rec, "\t\t")
	for _, want := range []string{
		`<Attribute uuid="00000000-0000-0000-0000-000000000001">`,
		"<Name>НомерДоговора</Name>",
		"<v8:content>Номер договора</v8:content>",
		"<v8:Length>25</v8:Length>",
		"<FillChecking>ShowError</FillChecking>",
		"<Indexing>Index</Indexing>",
		"<Use>ForItem</Use>",
		`<FillValue xsi:type="xs:string"/>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("attribute fragment missing %q", want)
		}
	}

	rec2, _ := shorthand.ParseAttribute("Сумма: Число(15,2)")
	rec2.Context = "register"
	got = testRenderer().Attribute(rec2, "")
	if strings.Contains(got, "FillFromFillingValue") || strings.Contains(got, "<Use>") {
		t.Errorf("register attribute carries catalog properties:\n%s", got)
	}
}

func TestEnumValueAndColumn(t *testing.T) {
	r := testRenderer()
	ev, _ := shorthand.ParseEnumValue("ВРаботе")
	got := r.EnumValue(ev, "")
	if !strings.Contains(got, "<Name>ВРаботе</Name>") {
		t.Errorf("enum value:\n%s", got)
	}
	col, _ := shorthand.ParseColumn("Контрагент | index")
	got = r.Column(col, "")
	if !strings.Contains(got, "<Indexing>Index</Indexing>") ||
		!strings.Contains(got, "<References/>") {
		t.Errorf("column:\n%s", got)
	}
}

func TestRenderDispatch(t *testing.T) {
	r := testRenderer()
	for _, rec := range []shorthand.Record{
		&shorthand.Total{DataPath: "Сумма", Expression: "Sum(Сумма)"},
		&shorthand.Link{Source: "А", Dest: "Б", SourceExpr: "X", DestExpr: "Y"},
		&shorthand.Dataset{Name: "НаборДанных1", DataSource: "ИсточникДанных1", Query: "ВЫБРАТЬ 1"},
	} {
		frags, err := r.Render(rec, "\t")
		if err != nil {
			t.Errorf("Render(%T): %v", rec, err)
		}
		if len(frags) != 1 || !strings.HasPrefix(frags[0], "\t<") {
			t.Errorf("Render(%T) = %v", rec, frags)
		}
	}
}
