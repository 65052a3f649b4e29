package editop

import (
	"strings"

	"github.com/mxtool/mx/dialect"
	"github.com/mxtool/mx/edit"
	"github.com/mxtool/mx/shorthand"
	"github.com/mxtool/mx/xmlgap"
)

func objectsOrder() *dialect.OrderSpec {
	spec, _ := dialect.Order(dialect.Objects, "childObjects")
	return spec
}

func init() {
	register(&Op{Name: "add-attribute", Dialect: dialect.Objects,
		Doc:   "Name[:type] [| flags] [>> after X | << before Y]",
		Apply: addAttribute})
	register(&Op{Name: "add-enumValue", Dialect: dialect.Objects,
		Doc:   "Name [Synonym] [>> after X | << before Y]",
		Apply: addEnumValue})
	register(&Op{Name: "add-column", Dialect: dialect.Objects,
		Doc:   "Name [Synonym] [>> after X | << before Y]",
		Apply: addColumn})
	register(&Op{Name: "add-dimension", Dialect: dialect.Objects,
		Doc:   "Name[:type] [| flags] [>> after X | << before Y]",
		Apply: addDimension})
	register(&Op{Name: "add-resource", Dialect: dialect.Objects,
		Doc:   "Name[:type] [| flags] [>> after X | << before Y]",
		Apply: addResource})
	register(&Op{Name: "add-tabularSection", Dialect: dialect.Objects,
		Doc:   "Name[; attr; attr...] [>> after X | << before Y]",
		Apply: addTabularSection})
	register(&Op{Name: "modify-attribute", Dialect: dialect.Objects,
		Doc:   "Name | prop=value[; prop=value...]",
		Apply: modifyChild("Attribute", "attribute")})
	register(&Op{Name: "modify-dimension", Dialect: dialect.Objects,
		Doc:   "Name | prop=value[; prop=value...]",
		Apply: modifyChild("Dimension", "dimension")})
	register(&Op{Name: "modify-resource", Dialect: dialect.Objects,
		Doc:   "Name | prop=value[; prop=value...]",
		Apply: modifyChild("Resource", "resource")})
	register(&Op{Name: "modify-column", Dialect: dialect.Objects,
		Doc:   "Name | prop=value[; prop=value...]",
		Apply: modifyChild("Column", "column")})
	register(&Op{Name: "remove-attribute", Dialect: dialect.Objects,
		Doc:   "Name",
		Apply: removeChild("Attribute", "attribute")})
	register(&Op{Name: "remove-dimension", Dialect: dialect.Objects,
		Doc:   "Name",
		Apply: removeChild("Dimension", "dimension")})
	register(&Op{Name: "remove-resource", Dialect: dialect.Objects,
		Doc:   "Name",
		Apply: removeChild("Resource", "resource")})
	register(&Op{Name: "remove-tabularSection", Dialect: dialect.Objects,
		Doc:   "Name",
		Apply: removeChild("TabularSection", "tabular section")})
	register(&Op{Name: "remove-enumValue", Dialect: dialect.Objects,
		Doc:   "Name",
		Apply: removeChild("EnumValue", "enum value")})
	register(&Op{Name: "remove-column", Dialect: dialect.Objects,
		Doc:   "Name",
		Apply: removeChild("Column", "column")})
}

// attributeContext maps a metadata object kind to the attribute
// rendering context. The designer emits different property sets for
// catalogs, documents, registers and processors.
func attributeContext(objType string) string {
	switch objType {
	case "Catalog":
		return "catalog"
	case "Document":
		return "document"
	case "InformationRegister", "AccumulationRegister", "AccountingRegister", "CalculationRegister":
		return "register"
	case "DataProcessor", "Report", "ExternalDataProcessor", "ExternalReport":
		return "processor"
	}
	return "object"
}

// propName reads a child object's name: Properties/Name for designer
// elements, a direct Name child otherwise.
func propName(el *xmlgap.Node) string {
	holder := el
	if props := el.Child("Properties"); props != nil {
		holder = props
	}
	if name := holder.Child("Name"); name != nil {
		return name.TrimText()
	}
	return ""
}

// findByPropName returns the child of container with the given tag
// and name.
func findByPropName(container *xmlgap.Node, tag, name string) *xmlgap.Node {
	for _, ch := range container.Elems() {
		if ch.Local() == tag && propName(ch) == name {
			return ch
		}
	}
	return nil
}

// findAnyName reports whether any child object, of any kind, already
// carries the name. Child object names share one namespace.
func findAnyName(container *xmlgap.Node, name string) (tag string, found bool) {
	for _, ch := range container.Elems() {
		if propName(ch) == name {
			return ch.Local(), true
		}
	}
	return "", false
}

// childObjects returns the object's ChildObjects container, creating
// an open one right after Properties when the object has none yet.
func (cx *Context) childObjects(obj *xmlgap.Node) *xmlgap.Node {
	if co := obj.Child("ChildObjects"); co != nil {
		cx.Ed.Open(co, edit.ContainerChildIndent(co))
		return co
	}
	indent := edit.ChildIndent(obj)
	co := &xmlgap.Node{Kind: xmlgap.ElementKind, Name: "ChildObjects", SelfClose: true}
	var ref *xmlgap.Node
	if props := obj.Child("Properties"); props != nil {
		ref = props.NextElem()
	}
	cx.Ed.InsertBefore(obj, co, ref, indent)
	cx.Ed.Open(co, edit.ContainerChildIndent(co))
	return co
}

// insertionPoint picks where a new child of tag goes: an explicit
// after/before anchor when one was given and found, otherwise after
// the last sibling of the same tag, otherwise the canonical slot.
// A nil result means append.
func (cx *Context) insertionPoint(co *xmlgap.Node, tag, after, before string) *xmlgap.Node {
	if after != "" {
		if el := findByPropName(co, tag, after); el != nil {
			if nxt := el.NextElem(); nxt != nil && nxt.Local() == tag {
				return nxt
			}
			return nil
		}
		cx.Log.Warnf("after=%q: %s not found, appending", after, tag)
	}
	if before != "" {
		if el := findByPropName(co, tag, before); el != nil {
			return el
		}
		cx.Log.Warnf("before=%q: %s not found, appending", before, tag)
	}
	if last := co.LastChild(tag); last != nil {
		return last.NextElem()
	}
	spec := objectsOrder()
	idx, known := spec.Index(tag)
	if !known {
		cx.warnForeign(tag, co.Name)
		return nil
	}
	for _, ch := range co.Elems() {
		if i, ok := spec.Index(ch.Local()); ok && i > idx {
			return ch
		}
	}
	return nil
}

func addAttribute(cx *Context, value string) error {
	obj, err := cx.metaObject()
	if err != nil {
		return err
	}
	p, err := shorthand.ParseAttribute(value)
	if err != nil {
		return err
	}
	co := cx.childObjects(obj)
	if tag, dup := findAnyName(co, p.Name); dup {
		cx.Log.Warnf("%s %q already exists, skipped", strings.ToLower(tag), p.Name)
		return nil
	}
	p.Context = attributeContext(obj.Local())
	indent := edit.ChildIndent(co)
	ref := cx.insertionPoint(co, "Attribute", p.After, p.Before)
	if err := cx.insertFragment(co, cx.R.Attribute(p, indent), ref, indent); err != nil {
		return err
	}
	cx.Log.added("attribute %q added to %s %q", p.Name, strings.ToLower(obj.Local()), propName(obj))
	return nil
}

func addEnumValue(cx *Context, value string) error {
	obj, err := cx.metaObject()
	if err != nil {
		return err
	}
	p, err := shorthand.ParseEnumValue(value)
	if err != nil {
		return err
	}
	co := cx.childObjects(obj)
	if tag, dup := findAnyName(co, p.Name); dup {
		cx.Log.Warnf("%s %q already exists, skipped", strings.ToLower(tag), p.Name)
		return nil
	}
	indent := edit.ChildIndent(co)
	ref := cx.insertionPoint(co, "EnumValue", p.After, p.Before)
	if err := cx.insertFragment(co, cx.R.EnumValue(p, indent), ref, indent); err != nil {
		return err
	}
	cx.Log.added("enum value %q added", p.Name)
	return nil
}

func addColumn(cx *Context, value string) error {
	obj, err := cx.metaObject()
	if err != nil {
		return err
	}
	p, err := shorthand.ParseColumn(value)
	if err != nil {
		return err
	}
	co := cx.childObjects(obj)
	if tag, dup := findAnyName(co, p.Name); dup {
		cx.Log.Warnf("%s %q already exists, skipped", strings.ToLower(tag), p.Name)
		return nil
	}
	indent := edit.ChildIndent(co)
	ref := cx.insertionPoint(co, "Column", p.After, p.Before)
	if err := cx.insertFragment(co, cx.R.Column(p, indent), ref, indent); err != nil {
		return err
	}
	cx.Log.added("column %q added", p.Name)
	return nil
}

func addDimension(cx *Context, value string) error {
	obj, err := cx.metaObject()
	if err != nil {
		return err
	}
	p, err := shorthand.ParseAttribute(value)
	if err != nil {
		return err
	}
	co := cx.childObjects(obj)
	if tag, dup := findAnyName(co, p.Name); dup {
		cx.Log.Warnf("%s %q already exists, skipped", strings.ToLower(tag), p.Name)
		return nil
	}
	indent := edit.ChildIndent(co)
	ref := cx.insertionPoint(co, "Dimension", p.After, p.Before)
	if err := cx.insertFragment(co, cx.R.Dimension(p, obj.Local(), indent), ref, indent); err != nil {
		return err
	}
	cx.Log.added("dimension %q added to %s %q", p.Name, strings.ToLower(obj.Local()), propName(obj))
	return nil
}

func addResource(cx *Context, value string) error {
	obj, err := cx.metaObject()
	if err != nil {
		return err
	}
	p, err := shorthand.ParseAttribute(value)
	if err != nil {
		return err
	}
	co := cx.childObjects(obj)
	if tag, dup := findAnyName(co, p.Name); dup {
		cx.Log.Warnf("%s %q already exists, skipped", strings.ToLower(tag), p.Name)
		return nil
	}
	indent := edit.ChildIndent(co)
	ref := cx.insertionPoint(co, "Resource", p.After, p.Before)
	if err := cx.insertFragment(co, cx.R.Resource(p, obj.Local(), indent), ref, indent); err != nil {
		return err
	}
	cx.Log.added("resource %q added to %s %q", p.Name, strings.ToLower(obj.Local()), propName(obj))
	return nil
}

func addTabularSection(cx *Context, value string) error {
	obj, err := cx.metaObject()
	if err != nil {
		return err
	}
	p, err := shorthand.ParseTabularSection(value)
	if err != nil {
		return err
	}
	co := cx.childObjects(obj)
	if tag, dup := findAnyName(co, p.Name); dup {
		cx.Log.Warnf("%s %q already exists, skipped", strings.ToLower(tag), p.Name)
		return nil
	}
	indent := edit.ChildIndent(co)
	ref := cx.insertionPoint(co, "TabularSection", p.After, p.Before)
	frag := cx.R.TabularSection(p, obj.Local(), propName(obj), indent)
	if err := cx.insertFragment(co, frag, ref, indent); err != nil {
		return err
	}
	cx.Log.added("tabular section %q added to %s %q", p.Name, strings.ToLower(obj.Local()), propName(obj))
	return nil
}

// modifyChild applies prop=value changes to a child object's
// Properties. The name, type and synonym props get structural
// treatment; anything else sets the text of the named scalar child.
func modifyChild(tag, label string) func(*Context, string) error {
	return func(cx *Context, value string) error {
		obj, err := cx.metaObject()
		if err != nil {
			return err
		}
		p, err := shorthand.ParseObjectModify(value)
		if err != nil {
			return err
		}
		co := obj.Child("ChildObjects")
		if co == nil {
			cx.Log.Warnf("no ChildObjects in %s %q", strings.ToLower(obj.Local()), propName(obj))
			return nil
		}
		el := findByPropName(co, tag, p.Name)
		if el == nil {
			cx.Log.Warnf("%s %q not found, skipped", label, p.Name)
			return nil
		}
		if ok, err := cx.match(el, p.Name); err != nil || !ok {
			return err
		}
		props := el.Child("Properties")
		if props == nil {
			cx.Log.Warnf("%s %q has no Properties, skipped", label, p.Name)
			return nil
		}
		indent := edit.ChildIndent(props)
		for _, ch := range p.Changes {
			switch ch.Prop {
			case "name":
				cx.renameChild(props, label, p.Name, ch.Value, indent)
			case "type":
				cx.retypeChild(props, label, p.Name, ch.Value, indent)
			case "synonym":
				cx.replaceChild(props, "Synonym", cx.R.PlainSynonym(ch.Value, indent), indent)
				cx.Log.modified("%s %q synonym set to %q", label, p.Name, ch.Value)
			default:
				scalar := props.Child(ch.Prop)
				if scalar == nil {
					cx.Log.Warnf("%s %q: property %q not found", label, p.Name, ch.Prop)
					continue
				}
				cx.Ed.SetText(scalar, ch.Value)
				cx.Log.modified("%s %q.%s = %s", label, p.Name, ch.Prop, ch.Value)
			}
		}
		return nil
	}
}

// renameChild changes the Name text and follows with the synonym when
// the old one was auto-derived (or empty).
func (cx *Context) renameChild(props *xmlgap.Node, label, oldName, newName, indent string) {
	name := props.Child("Name")
	if name == nil {
		cx.Log.Warnf("%s %q has no Name property", label, oldName)
		return
	}
	cx.Ed.SetText(name, newName)
	if syn := props.Child("Synonym"); syn != nil {
		current := ""
		if item := syn.Child("item"); item != nil {
			current = childText(item, "content")
		}
		if current == "" || current == shorthand.SplitCamelCase(oldName) {
			cx.replaceChild(props, "Synonym",
				cx.R.PlainSynonym(shorthand.SplitCamelCase(newName), indent), indent)
		}
	}
	cx.Log.modified("%s renamed: %s -> %s", label, oldName, newName)
}

// retypeChild swaps the Type block and refreshes FillValue when the
// element carries one.
func (cx *Context) retypeChild(props *xmlgap.Node, label, name, typeToken, indent string) {
	if props.Child("Type") != nil {
		cx.replaceChild(props, "Type", cx.R.ObjectType(typeToken, indent), indent)
	} else if comment := props.Child("Comment"); comment != nil {
		ref := comment.NextElem()
		if err := cx.insertFragment(props, cx.R.ObjectType(typeToken, indent), ref, indent); err != nil {
			cx.Log.Warnf("%s %q: %v", label, name, err)
			return
		}
	}
	if props.Child("FillValue") != nil {
		cx.replaceChild(props, "FillValue", cx.R.ObjectFillValue(typeToken, indent), indent)
	}
	cx.Log.modified("%s %q type set to %s", label, name, typeToken)
}

// replaceChild swaps the named child of props for a freshly rendered
// fragment in the same slot.
func (cx *Context) replaceChild(props *xmlgap.Node, local, frag, indent string) {
	old := props.Child(local)
	if old == nil {
		return
	}
	ref := old.NextElem()
	cx.Ed.Remove(old)
	if err := cx.insertFragment(props, frag, ref, indent); err != nil {
		cx.Log.Warnf("could not replace %s: %v", local, err)
	}
}

func removeChild(tag, label string) func(*Context, string) error {
	return func(cx *Context, value string) error {
		obj, err := cx.metaObject()
		if err != nil {
			return err
		}
		name := strings.TrimSpace(value)
		co := obj.Child("ChildObjects")
		if co == nil {
			cx.Log.Warnf("no ChildObjects in %s %q", strings.ToLower(obj.Local()), propName(obj))
			return nil
		}
		el := findByPropName(co, tag, name)
		if el == nil {
			cx.Log.Warnf("%s %q not found, skipped", label, name)
			return nil
		}
		if ok, err := cx.match(el, name); err != nil || !ok {
			return err
		}
		cx.Ed.Remove(el)
		cx.Ed.Collapse(co)
		cx.Log.removed("%s %q removed", label, name)
		return nil
	}
}
