package editop

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/mxtool/mx/xmlgap"
)

const schemaHeader = `<DataCompositionSchema xmlns="http://v8.1c.ru/8.1/data-composition-system/schema" xmlns:dcscom="http://v8.1c.ru/8.1/data-composition-system/common" xmlns:dcscor="http://v8.1c.ru/8.1/data-composition-system/core" xmlns:dcsset="http://v8.1c.ru/8.1/data-composition-system/settings" xmlns:v8="http://v8.1c.ru/8.1/data/core" xmlns:v8ui="http://v8.1c.ru/8.1/data/ui" xmlns:xs="http://www.w3.org/2001/XMLSchema" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`

var schemaDoc = crlf(`<?xml version="1.0" encoding="UTF-8"?>
` + schemaHeader + `
	<dataSource>
		<name>ИсточникДанных1</name>
		<dataSourceType>Local</dataSourceType>
	</dataSource>
	<dataSet xsi:type="DataSetQuery">
		<name>НаборДанных1</name>
		<field xsi:type="DataSetFieldField">
			<dataPath>Номенклатура</dataPath>
			<field>Номенклатура</field>
		</field>
		<dataSource>ИсточникДанных1</dataSource>
		<query>ВЫБРАТЬ Номенклатура ИЗ Справочник.Номенклатура</query>
	</dataSet>
	<settingsVariant>
		<dcsset:name>Основной</dcsset:name>
		<dcsset:settings xmlns:style="http://v8.1c.ru/8.1/data/ui/style">
			<dcsset:selection>
				<dcsset:item xsi:type="dcsset:SelectedItemField">
					<dcsset:field>Номенклатура</dcsset:field>
				</dcsset:item>
			</dcsset:selection>
		</dcsset:settings>
	</settingsVariant>
</DataCompositionSchema>`)

func crlf(s string) string {
	return strings.ReplaceAll(s, "\n", "\r\n")
}

func newTestContext(t *testing.T, src string) (*Context, *bytes.Buffer) {
	t.Helper()
	doc, err := xmlgap.Parse([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	cx := NewContext(doc, NewLog(&out, false))
	n := 0
	cx.R.NewID = func() string {
		n++
		return fmt.Sprintf("00000000-0000-0000-0000-%012d", n)
	}
	return cx, &out
}

func mustRun(t *testing.T, cx *Context, opName, value string) {
	t.Helper()
	op, err := Lookup(opName)
	if err != nil {
		t.Fatal(err)
	}
	if err := Run(cx, op, value); err != nil {
		t.Fatalf("%s: %v", opName, err)
	}
}

func TestAddField(t *testing.T) {
	cx, out := newTestContext(t, schemaDoc)
	mustRun(t, cx, "add-field", "Цена")

	fieldFrag := crlf(`<field xsi:type="DataSetFieldField">
			<dataPath>Цена</dataPath>
			<field>Цена</field>
		</field>`)
	selFrag := crlf(`<dcsset:item xsi:type="dcsset:SelectedItemField">
					<dcsset:field>Цена</dcsset:field>
				</dcsset:item>`)

	want := schemaDoc
	want = strings.Replace(want,
		"<dataSource>ИсточникДанных1</dataSource>",
		fieldFrag+"\r\n\t\t<dataSource>ИсточникДанных1</dataSource>", 1)
	want = strings.Replace(want,
		"\r\n\t\t\t</dcsset:selection>",
		"\r\n\t\t\t\t"+selFrag+"\r\n\t\t\t</dcsset:selection>", 1)

	if got := string(cx.Doc.Bytes()); got != want {
		t.Errorf("document mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
	if cx.Log.Added != 2 || cx.Log.Warnings != 0 {
		t.Errorf("counters: %s", cx.Log.Summary())
	}
	if !strings.Contains(out.String(), `[OK] field "Цена" added to dataset "НаборДанных1"`) {
		t.Errorf("audit output:\n%s", out.String())
	}
}

func TestAddFieldDuplicate(t *testing.T) {
	cx, _ := newTestContext(t, schemaDoc)
	mustRun(t, cx, "add-field", "Номенклатура")
	if got := string(cx.Doc.Bytes()); got != schemaDoc {
		t.Errorf("duplicate add changed the document")
	}
	if cx.Log.Warnings != 1 || cx.Log.Added != 0 {
		t.Errorf("counters: %s", cx.Log.Summary())
	}
}

func TestAddFieldNoCascade(t *testing.T) {
	cx, _ := newTestContext(t, schemaDoc)
	cx.NoCascade = true
	mustRun(t, cx, "add-field", "Цена")
	got := string(cx.Doc.Bytes())
	if !strings.Contains(got, "<dataPath>Цена</dataPath>") {
		t.Fatal("field not added")
	}
	if strings.Contains(got, "<dcsset:field>Цена</dcsset:field>") {
		t.Error("selection updated despite NoCascade")
	}
}

func TestAddOrderBatch(t *testing.T) {
	cx, _ := newTestContext(t, schemaDoc)
	mustRun(t, cx, "add-order", "Auto;;Цена desc")
	got := string(cx.Doc.Bytes())

	// the order section lands after the existing selection
	selEnd := strings.Index(got, "</dcsset:selection>")
	orderStart := strings.Index(got, "<dcsset:order>")
	if orderStart < selEnd {
		t.Errorf("order section before selection end (%d < %d)", orderStart, selEnd)
	}
	if !strings.Contains(got, `<dcsset:item xsi:type="dcsset:OrderItemAuto"/>`) {
		t.Error("auto order item missing")
	}
	if !strings.Contains(got, "<dcsset:orderType>Desc</dcsset:orderType>") {
		t.Error("descending order item missing")
	}
	if cx.Log.Added != 2 {
		t.Errorf("counters: %s", cx.Log.Summary())
	}

	// both items are duplicates the second time around
	mustRun(t, cx, "add-order", "Auto;;Цена")
	if cx.Log.Warnings != 2 {
		t.Errorf("dedup counters: %s", cx.Log.Summary())
	}
}

func TestAddParameterAutoDates(t *testing.T) {
	cx, _ := newTestContext(t, schemaDoc)
	mustRun(t, cx, "add-parameter", "Период: StandardPeriod @autoDates")
	got := string(cx.Doc.Bytes())
	for _, name := range []string{"Период", "ДатаНачала", "ДатаОкончания"} {
		if !strings.Contains(got, "<name>"+name+"</name>") {
			t.Errorf("parameter %s missing", name)
		}
	}
	// parameters sit before the settings variant
	if p, sv := strings.Index(got, "<parameter>"), strings.Index(got, "<settingsVariant>"); p > sv {
		t.Errorf("parameter after settingsVariant (%d > %d)", p, sv)
	}
	if !strings.Contains(got, "&amp;Период.ДатаНачала") {
		t.Error("auto date expression missing")
	}
}

func TestAddDataSetAutoName(t *testing.T) {
	cx, _ := newTestContext(t, schemaDoc)
	mustRun(t, cx, "add-dataSet", "ВЫБРАТЬ 2")
	got := string(cx.Doc.Bytes())
	if !strings.Contains(got, "<name>НаборДанных2</name>") {
		t.Error("auto name not allocated")
	}
	if strings.Count(got, "<dataSource>ИсточникДанных1</dataSource>") != 2 {
		t.Error("data source not inherited")
	}
	// new dataSet lands after the existing one, before settingsVariant
	first := strings.Index(got, "<name>НаборДанных1</name>")
	second := strings.Index(got, "<name>НаборДанных2</name>")
	sv := strings.Index(got, "<settingsVariant>")
	if !(first < second && second < sv) {
		t.Errorf("dataSet order wrong: %d %d %d", first, second, sv)
	}
}

func TestSetQueryTakesValueWhole(t *testing.T) {
	cx, _ := newTestContext(t, schemaDoc)
	mustRun(t, cx, "set-query", "ВЫБРАТЬ 1 ;; ВЫБРАТЬ 2")
	if !strings.Contains(string(cx.Doc.Bytes()), "<query>ВЫБРАТЬ 1 ;; ВЫБРАТЬ 2</query>") {
		t.Error("query not replaced whole")
	}
	if cx.Log.Modified != 1 {
		t.Errorf("counters: %s", cx.Log.Summary())
	}
}

func TestSetOutputParameterReplace(t *testing.T) {
	cx, _ := newTestContext(t, schemaDoc)
	mustRun(t, cx, "set-outputParameter", "Заголовок = Продажи")
	mustRun(t, cx, "set-outputParameter", "Заголовок = Продажи за период")
	got := string(cx.Doc.Bytes())
	if strings.Count(got, "<dcscor:parameter>Заголовок</dcscor:parameter>") != 1 {
		t.Error("replace left more than one item")
	}
	if !strings.Contains(got, "<v8:content>Продажи за период</v8:content>") {
		t.Error("new value missing")
	}
	if cx.Log.Added != 1 || cx.Log.Modified != 1 {
		t.Errorf("counters: %s", cx.Log.Summary())
	}
}

func TestSetStructure(t *testing.T) {
	cx, _ := newTestContext(t, schemaDoc)
	mustRun(t, cx, "set-structure", "Номенклатура > details")
	got := string(cx.Doc.Bytes())
	if !strings.Contains(got, `<dcsset:item xsi:type="dcsset:GroupItemField">`) {
		t.Error("group item missing")
	}
	if strings.Count(got, "<dcsset:groupItems/>") != 1 {
		t.Error("details group missing")
	}
	// replacing again leaves a single structure chain
	mustRun(t, cx, "set-structure", "details")
	got = string(cx.Doc.Bytes())
	if strings.Contains(got, `xsi:type="dcsset:GroupItemField"`) {
		t.Error("old structure survived replacement")
	}
}

func TestClearSelection(t *testing.T) {
	cx, _ := newTestContext(t, schemaDoc)
	mustRun(t, cx, "clear-selection", "")
	got := string(cx.Doc.Bytes())
	if strings.Contains(got, "dcsset:SelectedItemField") {
		t.Error("selection items survived clear")
	}
	if cx.Log.Removed != 1 {
		t.Errorf("counters: %s", cx.Log.Summary())
	}
}

func TestRemoveFieldCascade(t *testing.T) {
	cx, _ := newTestContext(t, schemaDoc)
	mustRun(t, cx, "remove-field", "Номенклатура")
	got := string(cx.Doc.Bytes())
	if strings.Contains(got, "<dataPath>Номенклатура</dataPath>") {
		t.Error("field survived removal")
	}
	if strings.Contains(got, "<dcsset:field>Номенклатура</dcsset:field>") {
		t.Error("selection item survived removal")
	}
	if cx.Log.Removed != 2 {
		t.Errorf("counters: %s", cx.Log.Summary())
	}
}

func TestWhereSkipsNonMatching(t *testing.T) {
	cx, _ := newTestContext(t, schemaDoc)
	pred, err := CompileWhere(`name == "Цена"`)
	if err != nil {
		t.Fatal(err)
	}
	cx.Where = pred
	mustRun(t, cx, "remove-field", "Номенклатура")
	if got := string(cx.Doc.Bytes()); got != schemaDoc {
		t.Error("non-matching field was removed")
	}
	if cx.Log.Removed != 0 {
		t.Errorf("counters: %s", cx.Log.Summary())
	}
}

func TestWhereMatchesPath(t *testing.T) {
	cx, _ := newTestContext(t, schemaDoc)
	pred, err := CompileWhere(`path contains "dataSet"`)
	if err != nil {
		t.Fatal(err)
	}
	cx.Where = pred
	mustRun(t, cx, "remove-field", "Номенклатура")
	if strings.Contains(string(cx.Doc.Bytes()), "<dataPath>Номенклатура</dataPath>") {
		t.Error("matching field was not removed")
	}
}

var filterDoc = crlf(`<?xml version="1.0" encoding="UTF-8"?>
` + schemaHeader + `
	<dataSet xsi:type="DataSetQuery">
		<name>НаборДанных1</name>
		<query>ВЫБРАТЬ 1</query>
	</dataSet>
	<settingsVariant>
		<dcsset:name>Основной</dcsset:name>
		<dcsset:settings xmlns:style="http://v8.1c.ru/8.1/data/ui/style">
			<dcsset:filter>
				<dcsset:item xsi:type="dcsset:FilterItemComparison">
					<dcsset:left xsi:type="dcscor:Field">Номенклатура</dcsset:left>
					<dcsset:comparisonType>Equal</dcsset:comparisonType>
				</dcsset:item>
			</dcsset:filter>
		</dcsset:settings>
	</settingsVariant>
</DataCompositionSchema>`)

func TestAddFilterDedup(t *testing.T) {
	cx, _ := newTestContext(t, schemaDoc)
	mustRun(t, cx, "add-filter", "Статус = Активен @user")
	once := string(cx.Doc.Bytes())
	mustRun(t, cx, "add-filter", "Статус = Активен @user")

	if got := string(cx.Doc.Bytes()); got != once {
		t.Error("document changed on duplicate filter")
	}
	if n := strings.Count(once, `xsi:type="dcsset:FilterItemComparison"`); n != 1 {
		t.Errorf("filter item count = %d, want 1", n)
	}
	if cx.Log.Added != 1 || cx.Log.Warnings != 1 {
		t.Errorf("Added = %d, Warnings = %d, want 1, 1", cx.Log.Added, cx.Log.Warnings)
	}
}

func TestAddSelectionDedup(t *testing.T) {
	cx, out := newTestContext(t, schemaDoc)
	mustRun(t, cx, "add-selection", "Номенклатура")

	if got := string(cx.Doc.Bytes()); got != schemaDoc {
		t.Error("document changed on duplicate selection")
	}
	if cx.Log.Added != 0 || cx.Log.Warnings != 1 {
		t.Errorf("Added = %d, Warnings = %d, want 0, 1", cx.Log.Added, cx.Log.Warnings)
	}
	if !strings.Contains(out.String(), `selection "Номенклатура" already exists`) {
		t.Errorf("audit output missing warning: %q", out.String())
	}
}

func TestAddDataParameterDedup(t *testing.T) {
	cx, _ := newTestContext(t, schemaDoc)
	mustRun(t, cx, "add-dataParameter", "Период")
	mustRun(t, cx, "add-dataParameter", "Период")

	got := string(cx.Doc.Bytes())
	if n := strings.Count(got, "<dcscor:parameter>Период</dcscor:parameter>"); n != 1 {
		t.Errorf("parameter item count = %d, want 1", n)
	}
	if cx.Log.Added != 1 || cx.Log.Warnings != 1 {
		t.Errorf("Added = %d, Warnings = %d, want 1, 1", cx.Log.Added, cx.Log.Warnings)
	}
}

func TestAddDataSetLinkDedup(t *testing.T) {
	cx, _ := newTestContext(t, schemaDoc)
	mustRun(t, cx, "add-dataSetLink", "НаборДанных1 > НаборДанных2 on Ссылка = Товар")
	mustRun(t, cx, "add-dataSetLink", "НаборДанных1 > НаборДанных2 on Ссылка = Товар")

	got := string(cx.Doc.Bytes())
	if n := strings.Count(got, "<dataSetLink>"); n != 1 {
		t.Errorf("dataSetLink count = %d, want 1", n)
	}
	if cx.Log.Added != 1 || cx.Log.Warnings != 1 {
		t.Errorf("Added = %d, Warnings = %d, want 1, 1", cx.Log.Added, cx.Log.Warnings)
	}
}

func TestAddConditionalAppearanceDedup(t *testing.T) {
	cx, _ := newTestContext(t, schemaDoc)
	mustRun(t, cx, "add-conditionalAppearance", "ЦветТекста = web:Red when Цена > 100")
	mustRun(t, cx, "add-conditionalAppearance", "ЦветТекста = web:Red when Цена > 100")
	// same parameter under a different condition field is a new item
	mustRun(t, cx, "add-conditionalAppearance", "ЦветТекста = web:Red when Склад = Основной")

	got := string(cx.Doc.Bytes())
	if n := strings.Count(got, "<dcscor:parameter>ЦветТекста</dcscor:parameter>"); n != 2 {
		t.Errorf("appearance item count = %d, want 2", n)
	}
	if cx.Log.Added != 2 || cx.Log.Warnings != 1 {
		t.Errorf("Added = %d, Warnings = %d, want 2, 1", cx.Log.Added, cx.Log.Warnings)
	}
}

func TestModifyFilter(t *testing.T) {
	cx, _ := newTestContext(t, filterDoc)
	mustRun(t, cx, "modify-filter", "Номенклатура > 5 @off")
	got := string(cx.Doc.Bytes())
	if !strings.Contains(got, "<dcsset:comparisonType>Greater</dcsset:comparisonType>") {
		t.Error("comparison type not updated")
	}
	if !strings.Contains(got, `<dcsset:right xsi:type="xs:decimal">5</dcsset:right>`) {
		t.Error("right value not set")
	}
	if !strings.Contains(got, "<dcsset:use>false</dcsset:use>") {
		t.Error("use=false missing")
	}

	// re-enabling drops the use element
	mustRun(t, cx, "modify-filter", "Номенклатура = 3")
	got = string(cx.Doc.Bytes())
	if strings.Contains(got, "<dcsset:use>") {
		t.Error("use=false survived re-enable")
	}
	if !strings.Contains(got, "<dcsset:comparisonType>Equal</dcsset:comparisonType>") {
		t.Error("comparison type not restored")
	}
	if cx.Log.Modified != 2 {
		t.Errorf("counters: %s", cx.Log.Summary())
	}
}

func TestModifyFilterMissing(t *testing.T) {
	cx, _ := newTestContext(t, filterDoc)
	mustRun(t, cx, "modify-filter", "Склад = 1")
	if cx.Log.Warnings != 1 || cx.Log.Modified != 0 {
		t.Errorf("counters: %s", cx.Log.Summary())
	}
}

func TestModifyFieldMerges(t *testing.T) {
	cx, _ := newTestContext(t, schemaDoc)
	mustRun(t, cx, "modify-field", "Номенклатура [Товар]")
	got := string(cx.Doc.Bytes())
	if !strings.Contains(got, "<v8:content>Товар</v8:content>") {
		t.Error("title not applied")
	}
	if !strings.Contains(got, "<field>Номенклатура</field>") {
		t.Error("field reference lost in merge")
	}
	// the rebuilt field keeps its slot before the dataSource reference
	f := strings.Index(got, "<dataPath>Номенклатура</dataPath>")
	dsRef := strings.Index(got, "<dataSource>ИсточникДанных1</dataSource>")
	if f > dsRef {
		t.Errorf("field moved: %d > %d", f, dsRef)
	}
}

func TestAddVariant(t *testing.T) {
	cx, _ := newTestContext(t, schemaDoc)
	mustRun(t, cx, "add-variant", "Сводный [Сводный отчёт]")
	got := string(cx.Doc.Bytes())
	if !strings.Contains(got, "<dcsset:name>Сводный</dcsset:name>") {
		t.Error("variant missing")
	}
	if !strings.Contains(got, "<v8:content>Сводный отчёт</v8:content>") {
		t.Error("presentation missing")
	}
	mustRun(t, cx, "add-variant", "Сводный")
	if cx.Log.Warnings != 1 {
		t.Errorf("dup variant counters: %s", cx.Log.Summary())
	}
}

func TestLookupSuggests(t *testing.T) {
	_, err := Lookup("ad-field")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), `"add-field"`) {
		t.Errorf("no suggestion in %v", err)
	}
}

func TestSummaryLine(t *testing.T) {
	cx, _ := newTestContext(t, schemaDoc)
	mustRun(t, cx, "add-field", "Цена;;Номенклатура")
	want := "2 added, 0 removed, 0 modified, 1 warnings"
	if got := cx.Log.Summary(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}
