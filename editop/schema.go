package editop

import (
	"fmt"
	"strings"

	"github.com/mxtool/mx/debug"
	"github.com/mxtool/mx/dialect"
	"github.com/mxtool/mx/edit"
	"github.com/mxtool/mx/shorthand"
	"github.com/mxtool/mx/xmlgap"
)

const (
	autoDataSetPrefix = "НаборДанных"
	defaultDataSource = "ИсточникДанных1"
)

func schemaOrder() *dialect.OrderSpec {
	spec, _ := dialect.Order(dialect.Schema, "schema")
	return spec
}

func dataSetOrder() *dialect.OrderSpec {
	spec, _ := dialect.Order(dialect.Schema, "dataSet")
	return spec
}

func settingsOrder() *dialect.OrderSpec {
	spec, _ := dialect.Order(dialect.Schema, "settings")
	return spec
}

func init() {
	register(&Op{Name: "add-field", Dialect: dialect.Schema,
		Doc:   "dataPath[:type] [Title] @role #restriction",
		Apply: addField})
	register(&Op{Name: "add-total", Dialect: dialect.Schema,
		Doc:   "dataPath: func | dataPath: expr(...)",
		Apply: addTotal})
	register(&Op{Name: "add-calculated-field", Dialect: dialect.Schema,
		Doc:   "dataPath[:type] = expression [Title]",
		Apply: addCalculated})
	register(&Op{Name: "add-parameter", Dialect: dialect.Schema,
		Doc:   "name: type [= value] [@autoDates]",
		Apply: addParameter})
	register(&Op{Name: "add-filter", Dialect: dialect.Schema,
		Doc:   "field op [value] [@user @off @viewMode]",
		Apply: addFilter})
	register(&Op{Name: "add-dataParameter", Dialect: dialect.Schema,
		Doc:   "name = value",
		Apply: addDataParameter})
	register(&Op{Name: "add-order", Dialect: dialect.Schema,
		Doc:   "field [desc] | Auto",
		Apply: addOrder})
	register(&Op{Name: "add-selection", Dialect: dialect.Schema,
		Doc:   "field | Auto",
		Apply: addSelection})
	register(&Op{Name: "add-dataSetLink", Dialect: dialect.Schema,
		Doc:   "Source > Dest on FieldA = FieldB [param Name]",
		Apply: addDataSetLink})
	register(&Op{Name: "add-dataSet", Dialect: dialect.Schema, Single: true,
		Doc:   "[name:] query",
		Apply: addDataSet})
	register(&Op{Name: "add-variant", Dialect: dialect.Schema,
		Doc:   "name [Presentation]",
		Apply: addVariant})
	register(&Op{Name: "add-conditionalAppearance", Dialect: dialect.Schema,
		Doc:   "param = value [when filter] [for field, field]",
		Apply: addConditionalAppearance})
	register(&Op{Name: "set-query", Dialect: dialect.Schema, Single: true,
		Doc:   "query text",
		Apply: setQuery})
	register(&Op{Name: "set-outputParameter", Dialect: dialect.Schema,
		Doc:   "key = value",
		Apply: setOutputParameter})
	register(&Op{Name: "set-structure", Dialect: dialect.Schema, Single: true,
		Doc:   "GroupA > GroupB > details",
		Apply: setStructure})
	register(&Op{Name: "modify-field", Dialect: dialect.Schema,
		Doc:   "dataPath[:type] [Title] @role #restriction",
		Apply: modifyField})
	register(&Op{Name: "modify-filter", Dialect: dialect.Schema,
		Doc:   "field op [value] [@user @off @viewMode]",
		Apply: modifyFilter})
	register(&Op{Name: "modify-dataParameter", Dialect: dialect.Schema,
		Doc:   "name = value",
		Apply: modifyDataParameter})
	register(&Op{Name: "clear-selection", Dialect: dialect.Schema,
		Doc:   "(no value)",
		Apply: clearSection("selection")})
	register(&Op{Name: "clear-order", Dialect: dialect.Schema,
		Doc:   "(no value)",
		Apply: clearSection("order")})
	register(&Op{Name: "clear-filter", Dialect: dialect.Schema,
		Doc:   "(no value)",
		Apply: clearSection("filter")})
	register(&Op{Name: "remove-field", Dialect: dialect.Schema,
		Doc:   "dataPath",
		Apply: removeField})
	register(&Op{Name: "remove-total", Dialect: dialect.Schema,
		Doc:   "dataPath",
		Apply: removeTotal})
	register(&Op{Name: "remove-calculated-field", Dialect: dialect.Schema,
		Doc:   "dataPath",
		Apply: removeCalculated})
	register(&Op{Name: "remove-parameter", Dialect: dialect.Schema,
		Doc:   "name",
		Apply: removeParameter})
	register(&Op{Name: "remove-filter", Dialect: dialect.Schema,
		Doc:   "field",
		Apply: removeFilter})
}

// addToSelection keeps the variant's selection list in step with a
// field add. Missing selection sections are created at their canonical
// slot.
func (cx *Context) addToSelection(dataPath string) error {
	if debug.Cascade() {
		debug.Logf("cascade: select %q in variant %q", dataPath, cx.Variant)
	}
	settings, err := cx.variantSettings()
	if err != nil {
		return err
	}
	sel := cx.Ed.EnsureChild(settings, "dcsset:selection", "selection", settingsOrder())
	if xmlgap.FindByChildText(sel, "item", "field", dataPath) != nil {
		cx.Log.Infof("field %q already in selection, skipped", dataPath)
		return nil
	}
	indent := edit.ContainerChildIndent(sel)
	if err := cx.insertFragment(sel, cx.R.SelectionItem(dataPath, indent), nil, indent); err != nil {
		return err
	}
	cx.Log.added("field %q added to selection of variant %q", dataPath, cx.variantName())
	return nil
}

// dropFromSelection removes the selection item for a removed field.
// Documents without a variant are left alone.
func (cx *Context) dropFromSelection(dataPath string) error {
	if debug.Cascade() {
		debug.Logf("cascade: deselect %q in variant %q", dataPath, cx.Variant)
	}
	settings, err := cx.variantSettings()
	if err != nil {
		return nil
	}
	sel := settings.Child("selection")
	if sel == nil {
		return nil
	}
	item := xmlgap.FindByChildText(sel, "item", "field", dataPath)
	if item == nil {
		return nil
	}
	cx.Ed.Remove(item)
	cx.Log.removed("field %q removed from selection of variant %q", dataPath, cx.variantName())
	return nil
}

func addField(cx *Context, value string) error {
	ds, err := cx.dataSet()
	if err != nil {
		return err
	}
	dsName := dataSetName(ds)
	p, err := shorthand.ParseField(value)
	if err != nil {
		return err
	}
	if xmlgap.FindByChildText(ds, "field", "dataPath", p.DataPath) != nil {
		cx.Log.Warnf("field %q already exists in dataset %q, skipped", p.DataPath, dsName)
		return nil
	}
	indent := edit.ChildIndent(ds)
	if _, err := cx.Ed.InsertFragments(ds, []string{cx.R.Field(p, indent)}, "field", dataSetOrder(), indent); err != nil {
		return err
	}
	cx.Log.added("field %q added to dataset %q", p.DataPath, dsName)
	if cx.NoCascade {
		return nil
	}
	return cx.addToSelection(p.DataPath)
}

func addTotal(cx *Context, value string) error {
	p, err := shorthand.ParseTotal(value)
	if err != nil {
		return err
	}
	root := cx.Doc.Root
	if xmlgap.FindByChildText(root, "totalField", "dataPath", p.DataPath) != nil {
		cx.Log.Warnf("total field %q already exists, skipped", p.DataPath)
		return nil
	}
	indent := edit.ChildIndent(root)
	if _, err := cx.Ed.InsertFragments(root, []string{cx.R.Total(p, indent)}, "totalField", schemaOrder(), indent); err != nil {
		return err
	}
	cx.Log.added("total field %q = %s added", p.DataPath, p.Expression)
	return nil
}

func addCalculated(cx *Context, value string) error {
	p, err := shorthand.ParseCalculated(value)
	if err != nil {
		return err
	}
	root := cx.Doc.Root
	if xmlgap.FindByChildText(root, "calculatedField", "dataPath", p.DataPath) != nil {
		cx.Log.Warnf("calculated field %q already exists, skipped", p.DataPath)
		return nil
	}
	indent := edit.ChildIndent(root)
	if _, err := cx.Ed.InsertFragments(root, []string{cx.R.Calculated(p, indent)}, "calculatedField", schemaOrder(), indent); err != nil {
		return err
	}
	cx.Log.added("calculated field %q = %s added", p.DataPath, p.Expression)
	if cx.NoCascade {
		return nil
	}
	return cx.addToSelection(p.DataPath)
}

func addParameter(cx *Context, value string) error {
	p, err := shorthand.ParseParameter(value)
	if err != nil {
		return err
	}
	root := cx.Doc.Root
	if xmlgap.FindByChildText(root, "parameter", "name", p.Name) != nil {
		cx.Log.Warnf("parameter %q already exists, skipped", p.Name)
		return nil
	}
	indent := edit.ChildIndent(root)
	frags := cx.R.Parameter(p, indent)
	if _, err := cx.Ed.InsertFragments(root, frags, "parameter", schemaOrder(), indent); err != nil {
		return err
	}
	cx.Log.added("parameter %q added", p.Name)
	if p.AutoDates {
		cx.Log.added("auto parameters %q, %q added", "ДатаНачала", "ДатаОкончания")
	}
	return nil
}

func addFilter(cx *Context, value string) error {
	settings, err := cx.variantSettings()
	if err != nil {
		return err
	}
	p, err := shorthand.ParseFilter(value)
	if err != nil {
		return err
	}
	filter := cx.Ed.EnsureChild(settings, "dcsset:filter", "filter", settingsOrder())
	if xmlgap.FindByChildText(filter, "item", "left", p.Field) != nil {
		cx.Log.Warnf("filter on %q already exists in variant %q, skipped", p.Field, cx.variantName())
		return nil
	}
	indent := edit.ContainerChildIndent(filter)
	if err := cx.insertFragment(filter, cx.R.FilterItem(p, indent), nil, indent); err != nil {
		return err
	}
	cx.Log.added("filter %q added to variant %q", p.Field+" "+p.Op, cx.variantName())
	return nil
}

func addDataParameter(cx *Context, value string) error {
	settings, err := cx.variantSettings()
	if err != nil {
		return err
	}
	p, err := shorthand.ParseDataParameter(value)
	if err != nil {
		return err
	}
	dp := cx.Ed.EnsureChild(settings, "dcsset:dataParameters", "dataParameters", settingsOrder())
	if xmlgap.FindByChildText(dp, "item", "parameter", p.Name) != nil {
		cx.Log.Warnf("data parameter %q already exists in variant %q, skipped", p.Name, cx.variantName())
		return nil
	}
	indent := edit.ContainerChildIndent(dp)
	if err := cx.insertFragment(dp, cx.R.DataParameterItem(p, indent), nil, indent); err != nil {
		return err
	}
	cx.Log.added("data parameter %q added to variant %q", p.Name, cx.variantName())
	return nil
}

func addOrder(cx *Context, value string) error {
	settings, err := cx.variantSettings()
	if err != nil {
		return err
	}
	p, err := shorthand.ParseOrder(value)
	if err != nil {
		return err
	}
	order := cx.Ed.EnsureChild(settings, "dcsset:order", "order", settingsOrder())
	if p.Field == "Auto" {
		for _, item := range order.Children("item") {
			if t, ok := item.Attr("xsi:type"); ok && strings.Contains(t, "OrderItemAuto") {
				cx.Log.Warnf("auto order item already exists in variant %q, skipped", cx.variantName())
				return nil
			}
		}
	} else if xmlgap.FindByChildText(order, "item", "field", p.Field) != nil {
		cx.Log.Warnf("order %q already exists in variant %q, skipped", p.Field, cx.variantName())
		return nil
	}
	indent := edit.ContainerChildIndent(order)
	if err := cx.insertFragment(order, cx.R.OrderItem(p, indent), nil, indent); err != nil {
		return err
	}
	desc := "Auto"
	if p.Field != "Auto" {
		desc = p.Field + " " + p.Direction
	}
	cx.Log.added("order %q added to variant %q", desc, cx.variantName())
	return nil
}

func addSelection(cx *Context, value string) error {
	settings, err := cx.variantSettings()
	if err != nil {
		return err
	}
	p, err := shorthand.ParseSelection(value)
	if err != nil {
		return err
	}
	sel := cx.Ed.EnsureChild(settings, "dcsset:selection", "selection", settingsOrder())
	if xmlgap.FindByChildText(sel, "item", "field", p.Field) != nil {
		cx.Log.Warnf("selection %q already exists in variant %q, skipped", p.Field, cx.variantName())
		return nil
	}
	indent := edit.ContainerChildIndent(sel)
	if err := cx.insertFragment(sel, cx.R.SelectionItem(p.Field, indent), nil, indent); err != nil {
		return err
	}
	cx.Log.added("selection %q added to variant %q", p.Field, cx.variantName())
	return nil
}

func addDataSetLink(cx *Context, value string) error {
	p, err := shorthand.ParseLink(value)
	if err != nil {
		return err
	}
	root := cx.Doc.Root
	if findDataSetLink(root, p) != nil {
		cx.Log.Warnf("dataSetLink %s > %s on %s already exists, skipped", p.Source, p.Dest, p.SourceExpr)
		return nil
	}
	indent := edit.ChildIndent(root)
	if _, err := cx.Ed.InsertFragments(root, []string{cx.R.Link(p, indent)}, "dataSetLink", schemaOrder(), indent); err != nil {
		return err
	}
	desc := fmt.Sprintf("%s > %s on %s = %s", p.Source, p.Dest, p.SourceExpr, p.DestExpr)
	if p.Parameter != "" {
		desc += fmt.Sprintf(" [param %s]", p.Parameter)
	}
	cx.Log.added("dataSetLink %q added", desc)
	return nil
}

func addDataSet(cx *Context, value string) error {
	p, err := shorthand.ParseDataset(value)
	if err != nil {
		return err
	}
	root := cx.Doc.Root
	if p.Name == "" {
		cx.seedDataSetNames()
		n, err := cx.Datasets.Next()
		if err != nil {
			return err
		}
		p.Name = fmt.Sprintf("%s%d", autoDataSetPrefix, n)
	}
	if xmlgap.FindByChildText(root, "dataSet", "name", p.Name) != nil {
		cx.Log.Warnf("dataSet %q already exists, skipped", p.Name)
		return nil
	}
	p.DataSource = defaultDataSource
	if src := root.Child("dataSource"); src != nil {
		if name := src.Child("name"); name != nil && name.TrimText() != "" {
			p.DataSource = name.TrimText()
		}
	}
	indent := edit.ChildIndent(root)
	if _, err := cx.Ed.InsertFragments(root, []string{cx.R.Dataset(p, indent)}, "dataSet", schemaOrder(), indent); err != nil {
		return err
	}
	cx.Log.added("dataSet %q added (dataSource=%s)", p.Name, p.DataSource)
	return nil
}

// seedDataSetNames marks the numeric suffixes of existing generated
// dataSet names as taken, so an auto name never collides even when
// the existing numbering has holes.
func (cx *Context) seedDataSetNames() {
	for _, ds := range cx.Doc.Root.Children("dataSet") {
		name := ds.Child("name")
		if name == nil {
			continue
		}
		rest, ok := strings.CutPrefix(name.TrimText(), autoDataSetPrefix)
		if !ok {
			continue
		}
		var n uint64
		if _, err := fmt.Sscanf(rest, "%d", &n); err == nil && n > 0 {
			cx.Datasets.Seed(n)
		}
	}
}

func addVariant(cx *Context, value string) error {
	p, err := shorthand.ParseVariant(value)
	if err != nil {
		return err
	}
	root := cx.Doc.Root
	for _, sv := range root.Children("settingsVariant") {
		if name := sv.Child("name"); name != nil && name.TrimText() == p.Name {
			cx.Log.Warnf("variant %q already exists, skipped", p.Name)
			return nil
		}
	}
	indent := edit.ChildIndent(root)
	if _, err := cx.Ed.InsertFragments(root, []string{cx.R.Variant(p, indent)}, "settingsVariant", schemaOrder(), indent); err != nil {
		return err
	}
	cx.Log.added("variant %q [%q] added", p.Name, p.Presentation)
	return nil
}

// findDataSetLink matches an existing link on its full compound key:
// both dataset names and both join expressions.
func findDataSetLink(root *xmlgap.Node, p *shorthand.Link) *xmlgap.Node {
	for _, link := range root.Children("dataSetLink") {
		if childText(link, "sourceDataSet") == p.Source &&
			childText(link, "destinationDataSet") == p.Dest &&
			childText(link, "sourceExpression") == p.SourceExpr &&
			childText(link, "destinationExpression") == p.DestExpr {
			return link
		}
	}
	return nil
}

// findAppearanceItem matches an existing appearance item on its
// parameter plus the condition's left-hand field. The same parameter
// may appear again under a different condition.
func findAppearanceItem(ca *xmlgap.Node, p *shorthand.ConditionalAppearance) *xmlgap.Node {
	whenField := ""
	if p.When != nil {
		whenField = p.When.Field
	}
	for _, item := range ca.Children("item") {
		param := ""
		if app := item.Child("appearance"); app != nil {
			if pv := app.Child("item"); pv != nil {
				param = childText(pv, "parameter")
			}
		}
		if param != p.Param {
			continue
		}
		field := ""
		if flt := item.Child("filter"); flt != nil {
			if cond := flt.Child("item"); cond != nil {
				field = childText(cond, "left")
			}
		}
		if field == whenField {
			return item
		}
	}
	return nil
}

func childText(n *xmlgap.Node, name string) string {
	if ch := n.Child(name); ch != nil {
		return ch.TrimText()
	}
	return ""
}

func addConditionalAppearance(cx *Context, value string) error {
	settings, err := cx.variantSettings()
	if err != nil {
		return err
	}
	p, err := shorthand.ParseConditionalAppearance(value)
	if err != nil {
		return err
	}
	ca := cx.Ed.EnsureChild(settings, "dcsset:conditionalAppearance", "conditionalAppearance", settingsOrder())
	if findAppearanceItem(ca, p) != nil {
		cx.Log.Warnf("conditional appearance for %q already exists in variant %q, skipped", p.Param, cx.variantName())
		return nil
	}
	indent := edit.ContainerChildIndent(ca)
	if err := cx.insertFragment(ca, cx.R.AppearanceItem(p, indent), nil, indent); err != nil {
		return err
	}
	desc := fmt.Sprintf("%s = %s", p.Param, p.Value)
	if p.When != nil {
		desc += fmt.Sprintf(" when %s %s", p.When.Field, p.When.Op)
	}
	if len(p.Fields) > 0 {
		desc += " for " + strings.Join(p.Fields, ", ")
	}
	cx.Log.added("conditional appearance %q added to variant %q", desc, cx.variantName())
	return nil
}

func setQuery(cx *Context, value string) error {
	ds, err := cx.dataSet()
	if err != nil {
		return err
	}
	dsName := dataSetName(ds)
	q := ds.Child("query")
	if q == nil {
		return fmt.Errorf("query element %w in dataset %q", ErrNotFound, dsName)
	}
	cx.Ed.SetText(q, value)
	cx.Log.modified("query replaced in dataset %q", dsName)
	return nil
}

func setOutputParameter(cx *Context, value string) error {
	settings, err := cx.variantSettings()
	if err != nil {
		return err
	}
	p, err := shorthand.ParseOutputParameter(value)
	if err != nil {
		return err
	}
	out := cx.Ed.EnsureChild(settings, "dcsset:outputParameters", "outputParameters", settingsOrder())
	indent := edit.ContainerChildIndent(out)
	if existing := xmlgap.FindByChildText(out, "item", "parameter", p.Key); existing != nil {
		cx.Ed.Remove(existing)
		cx.Log.modified("output parameter %q replaced in variant %q", p.Key, cx.variantName())
	} else {
		cx.Log.added("output parameter %q added to variant %q", p.Key, cx.variantName())
	}
	return cx.insertFragment(out, cx.R.OutputParameterItem(p, indent), nil, indent)
}

func setStructure(cx *Context, value string) error {
	settings, err := cx.variantSettings()
	if err != nil {
		return err
	}
	group, err := shorthand.ParseStructure(value)
	if err != nil {
		return err
	}
	for _, item := range settings.Children("item") {
		cx.Ed.Remove(item)
	}
	indent := edit.ChildIndent(settings)

	// New structure items land before the first recognized settings
	// section so the file keeps the section run intact.
	spec := settingsOrder()
	var ref *xmlgap.Node
	for _, ch := range settings.Elems() {
		if _, ok := spec.Index(ch.Local()); ok {
			ref = ch
			break
		}
	}
	if err := cx.insertFragment(settings, cx.R.StructureItem(group, indent), ref, indent); err != nil {
		return err
	}
	cx.Log.modified("structure set in variant %q: %s", cx.variantName(), value)
	return nil
}

// readFieldRecord reads an existing field element back into a record,
// so a modify can merge supplied parts over the parts already there.
func readFieldRecord(el *xmlgap.Node) *shorthand.Field {
	f := &shorthand.Field{}
	if c := el.Child("dataPath"); c != nil {
		f.DataPath = c.TrimText()
	}
	if c := el.Child("field"); c != nil {
		f.FieldRef = c.TrimText()
	}
	f.Title = elementTitle(el)
	if vt := el.Child("valueType"); vt != nil {
		if t := vt.Child("Type"); t != nil {
			f.Type = t.TrimText()
		}
	}
	if role := el.Child("role"); role != nil {
		for _, gc := range role.Elems() {
			switch {
			case gc.Local() == "periodNumber":
				f.Roles = append(f.Roles, "period")
			case gc.Local() == "periodType":
			case gc.TrimText() == "true":
				f.Roles = append(f.Roles, gc.Local())
			}
		}
	}
	if ur := el.Child("useRestriction"); ur != nil {
		back := map[string]string{"field": "noField", "condition": "noFilter", "group": "noGroup", "order": "noOrder"}
		for _, gc := range ur.Elems() {
			if gc.TrimText() == "true" {
				if tok, ok := back[gc.Local()]; ok {
					f.Restrict = append(f.Restrict, tok)
				}
			}
		}
	}
	return f
}

func modifyField(cx *Context, value string) error {
	ds, err := cx.dataSet()
	if err != nil {
		return err
	}
	dsName := dataSetName(ds)
	p, err := shorthand.ParseField(value)
	if err != nil {
		return err
	}
	el := xmlgap.FindByChildText(ds, "field", "dataPath", p.DataPath)
	if el == nil {
		cx.Log.Warnf("field %q not found in dataset %q", p.DataPath, dsName)
		return nil
	}
	if ok, err := cx.match(el, p.DataPath); err != nil || !ok {
		return err
	}

	merged := readFieldRecord(el)
	if p.Title != "" {
		merged.Title = p.Title
	}
	if p.Type != "" {
		merged.Type = p.Type
	}
	if len(p.Roles) > 0 {
		merged.Roles = p.Roles
	}
	if len(p.Restrict) > 0 {
		merged.Restrict = p.Restrict
	}

	ref := el.NextElem()
	indent := edit.ChildIndent(ds)
	cx.Ed.Remove(el)
	if err := cx.insertFragment(ds, cx.R.Field(merged, indent), ref, indent); err != nil {
		return err
	}
	cx.Log.modified("field %q modified in dataset %q", p.DataPath, dsName)
	return nil
}

func modifyFilter(cx *Context, value string) error {
	settings, err := cx.variantSettings()
	if err != nil {
		return err
	}
	p, err := shorthand.ParseFilter(value)
	if err != nil {
		return err
	}
	filter := settings.Child("filter")
	if filter == nil {
		cx.Log.Warnf("no filter section in variant %q", cx.variantName())
		return nil
	}
	item := xmlgap.FindByChildText(filter, "item", "left", p.Field)
	if item == nil {
		cx.Log.Warnf("filter for %q not found in variant %q", p.Field, cx.variantName())
		return nil
	}
	if ok, err := cx.match(item, p.Field); err != nil || !ok {
		return err
	}

	indent := edit.ChildIndent(item)
	cx.Ed.SetOrCreateChild(item, "dcsset:comparisonType", p.Op, "", indent)
	if p.HasValue {
		cx.Ed.SetOrCreateChild(item, "dcsset:right", p.Value, p.ValueType, indent)
	}
	cx.applyUse(item, "dcsset:use", p.Use, indent)
	if p.ViewMode != "" {
		cx.Ed.SetOrCreateChild(item, "dcsset:viewMode", p.ViewMode, "", indent)
	}
	if p.UserID {
		cx.Ed.SetOrCreateChild(item, "dcsset:userSettingID", cx.R.NewID(), "", indent)
	}
	cx.Log.modified("filter %q modified in variant %q", p.Field, cx.variantName())
	return nil
}

// applyUse writes use=false, or drops an existing use=false when the
// item is re-enabled. An enabled item carries no use element at all.
// qual is the dialect-correct element name for the item's kind.
func (cx *Context) applyUse(item *xmlgap.Node, qual string, use bool, indent string) {
	if !use {
		cx.Ed.SetOrCreateChild(item, qual, "false", "", indent)
		return
	}
	if u := item.Child("use"); u != nil && u.TrimText() == "false" {
		cx.Ed.Remove(u)
	}
}

func modifyDataParameter(cx *Context, value string) error {
	settings, err := cx.variantSettings()
	if err != nil {
		return err
	}
	p, err := shorthand.ParseDataParameter(value)
	if err != nil {
		return err
	}
	dp := settings.Child("dataParameters")
	if dp == nil {
		cx.Log.Warnf("no dataParameters section in variant %q", cx.variantName())
		return nil
	}
	item := xmlgap.FindByChildText(dp, "item", "parameter", p.Name)
	if item == nil {
		cx.Log.Warnf("data parameter %q not found in variant %q", p.Name, cx.variantName())
		return nil
	}
	if ok, err := cx.match(item, p.Name); err != nil || !ok {
		return err
	}

	indent := edit.ChildIndent(item)
	if p.HasValue || p.PeriodVariant != "" {
		if old := item.Child("value"); old != nil {
			cx.Ed.Remove(old)
		}
		if err := cx.insertFragment(item, cx.R.DataParameterValue(p, indent), nil, indent); err != nil {
			return err
		}
	}
	cx.applyUse(item, "dcscor:use", p.Use, indent)
	if p.ViewMode != "" {
		cx.Ed.SetOrCreateChild(item, "dcsset:viewMode", p.ViewMode, "", indent)
	}
	if p.UserID {
		cx.Ed.SetOrCreateChild(item, "dcsset:userSettingID", cx.R.NewID(), "", indent)
	}
	cx.Log.modified("data parameter %q modified in variant %q", p.Name, cx.variantName())
	return nil
}

func clearSection(local string) func(*Context, string) error {
	return func(cx *Context, value string) error {
		settings, err := cx.variantSettings()
		if err != nil {
			return err
		}
		section := settings.Child(local)
		if section == nil {
			cx.Log.Infof("no %s section in variant %q", local, cx.variantName())
			return nil
		}
		if n := cx.Ed.Clear(section); n > 0 {
			cx.Log.Removed += n
		}
		cx.Log.OK("%s cleared in variant %q", local, cx.variantName())
		return nil
	}
}

func removeField(cx *Context, value string) error {
	ds, err := cx.dataSet()
	if err != nil {
		return err
	}
	dsName := dataSetName(ds)
	name := strings.TrimSpace(value)
	el := xmlgap.FindByChildText(ds, "field", "dataPath", name)
	if el == nil {
		cx.Log.Warnf("field %q not found in dataset %q", name, dsName)
		return nil
	}
	if ok, err := cx.match(el, name); err != nil || !ok {
		return err
	}
	cx.Ed.Remove(el)
	cx.Log.removed("field %q removed from dataset %q", name, dsName)
	if cx.NoCascade {
		return nil
	}
	return cx.dropFromSelection(name)
}

func removeTotal(cx *Context, value string) error {
	name := strings.TrimSpace(value)
	el := xmlgap.FindByChildText(cx.Doc.Root, "totalField", "dataPath", name)
	if el == nil {
		cx.Log.Warnf("total field %q not found", name)
		return nil
	}
	if ok, err := cx.match(el, name); err != nil || !ok {
		return err
	}
	cx.Ed.Remove(el)
	cx.Log.removed("total field %q removed", name)
	return nil
}

func removeCalculated(cx *Context, value string) error {
	name := strings.TrimSpace(value)
	el := xmlgap.FindByChildText(cx.Doc.Root, "calculatedField", "dataPath", name)
	if el == nil {
		cx.Log.Warnf("calculated field %q not found", name)
		return nil
	}
	if ok, err := cx.match(el, name); err != nil || !ok {
		return err
	}
	cx.Ed.Remove(el)
	cx.Log.removed("calculated field %q removed", name)
	if cx.NoCascade {
		return nil
	}
	return cx.dropFromSelection(name)
}

func removeParameter(cx *Context, value string) error {
	name := strings.TrimSpace(value)
	el := xmlgap.FindByChildText(cx.Doc.Root, "parameter", "name", name)
	if el == nil {
		cx.Log.Warnf("parameter %q not found", name)
		return nil
	}
	if ok, err := cx.match(el, name); err != nil || !ok {
		return err
	}
	cx.Ed.Remove(el)
	cx.Log.removed("parameter %q removed", name)
	return nil
}

func removeFilter(cx *Context, value string) error {
	settings, err := cx.variantSettings()
	if err != nil {
		return err
	}
	name := strings.TrimSpace(value)
	filter := settings.Child("filter")
	if filter == nil {
		cx.Log.Warnf("no filter section in variant %q", cx.variantName())
		return nil
	}
	item := xmlgap.FindByChildText(filter, "item", "left", name)
	if item == nil {
		cx.Log.Warnf("filter for %q not found in variant %q", name, cx.variantName())
		return nil
	}
	if ok, err := cx.match(item, name); err != nil || !ok {
		return err
	}
	cx.Ed.Remove(item)
	cx.Log.removed("filter for %q removed from variant %q", name, cx.variantName())
	return nil
}
