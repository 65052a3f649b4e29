package render

import (
	"strings"

	"github.com/mxtool/mx/shorthand"
	"github.com/mxtool/mx/typesys"
)

// mlTextPlain renders a localized string in metadata object files,
// where the wrapper carries no xsi:type.
func (r *Renderer) mlTextPlain(tag, text, indent string) string {
	if text == "" {
		return indent + "<" + tag + "/>"
	}
	f := &frag{}
	f.add("%s<%s>", indent, tag)
	f.add("%s\t<v8:item>", indent)
	f.add("%s\t\t<v8:lang>%s</v8:lang>", indent, r.Lang)
	f.add("%s\t\t<v8:content>%s</v8:content>", indent, esc(text))
	f.add("%s\t</v8:item>", indent)
	f.add("%s</%s>", indent, tag)
	return f.String()
}

// objectTypeXML renders the v8:Type content for a metadata object
// type. Defined types become a TypeSet, references carry the cfg
// prefix.
func objectTypeXML(typeToken, indent string) string {
	t := typesys.ResolveObject(typeToken)
	f := &frag{}
	switch t.Kind {
	case typesys.Boolean:
		f.add("%s<v8:Type>xs:boolean</v8:Type>", indent)
	case typesys.ValueStorage:
		f.add("%s<v8:Type>xs:base64Binary</v8:Type>", indent)
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
	case typesys.Ref:
		if name, ok := strings.CutPrefix(t.Name, "DefinedType."); ok {
			f.add("%s<v8:TypeSet>cfg:DefinedType.%s</v8:TypeSet>", indent, esc(name))
		} else {
			f.add("%s<v8:Type>cfg:%s</v8:Type>", indent, esc(t.Name))
		}
	default:
		f.add("%s<v8:Type>%s</v8:Type>", indent, esc(t.Name))
	}
	return f.String()
}

// fillValueXML renders the default fill value for an attribute type.
func fillValueXML(typeToken, indent string) string {
	if typeToken == "" {
		return indent + `<FillValue xsi:nil="true"/>`
	}
	t := typesys.ResolveObject(typeToken)
	switch t.Kind {
	case typesys.Boolean:
		return indent + `<FillValue xsi:type="xs:boolean">false</FillValue>`
	case typesys.String:
		return indent + `<FillValue xsi:type="xs:string"/>`
	case typesys.Decimal:
		return indent + `<FillValue xsi:type="xs:decimal">0</FillValue>`
	}
	return indent + `<FillValue xsi:nil="true"/>`
}

// Attribute renders an Attribute element. The record's Context picks
// which of the per-object-kind properties appear.
func (r *Renderer) Attribute(p *shorthand.Attribute, indent string) string {
	ctx := p.Context
	f := &frag{}
	f.add(`%s<Attribute uuid="%s">`, indent, r.NewID())
	f.add("%s\t<Properties>", indent)
	f.add("%s\t\t<Name>%s</Name>", indent, esc(p.Name))
	f.addRaw(r.mlTextPlain("Synonym", p.Synonym, indent+"\t\t"))
	f.add("%s\t\t<Comment/>", indent)
	if p.Type != "" {
		f.add("%s\t\t<Type>", indent)
		f.addRaw(objectTypeXML(p.Type, indent+"\t\t\t"))
		f.add("%s\t\t</Type>", indent)
	} else {
		f.add("%s\t\t<Type>", indent)
		f.add("%s\t\t\t<v8:Type>xs:string</v8:Type>", indent)
		f.add("%s\t\t</Type>", indent)
	}
	f.add("%s\t\t<PasswordMode>false</PasswordMode>", indent)
	f.add("%s\t\t<Format/>", indent)
	f.add("%s\t\t<EditFormat/>", indent)
	f.add("%s\t\t<ToolTip/>", indent)
	f.add("%s\t\t<MarkNegatives>false</MarkNegatives>", indent)
	f.add("%s\t\t<Mask/>", indent)
	f.add("%s\t\t<MultiLine>false</MultiLine>", indent)
	f.add("%s\t\t<ExtendedEdit>false</ExtendedEdit>", indent)
	f.add(`%s		<MinValue xsi:nil="true"/>`, indent)
	f.add(`%s		<MaxValue xsi:nil="true"/>`, indent)
	if ctx != "register" && ctx != "tabular" && ctx != "processor" {
		f.add("%s\t\t<FillFromFillingValue>false</FillFromFillingValue>", indent)
		f.addRaw(fillValueXML(p.Type, indent+"\t\t"))
	}
	fillChecking := "DontCheck"
	if p.FillChecking != "" {
		fillChecking = p.FillChecking
	}
	f.add("%s\t\t<FillChecking>%s</FillChecking>", indent, fillChecking)
	f.add("%s\t\t<ChoiceFoldersAndItems>Items</ChoiceFoldersAndItems>", indent)
	f.add("%s\t\t<ChoiceParameterLinks/>", indent)
	f.add("%s\t\t<ChoiceParameters/>", indent)
	f.add("%s\t\t<QuickChoice>Auto</QuickChoice>", indent)
	f.add("%s\t\t<CreateOnInput>Auto</CreateOnInput>", indent)
	f.add("%s\t\t<ChoiceForm/>", indent)
	f.add("%s\t\t<LinkByType/>", indent)
	f.add("%s\t\t<ChoiceHistoryOnInput>Auto</ChoiceHistoryOnInput>", indent)
	if ctx == "catalog" {
		f.add("%s\t\t<Use>ForItem</Use>", indent)
	}
	if ctx != "processor" && ctx != "processor-tabular" {
		indexing := "DontIndex"
		if p.Indexing != "" {
			indexing = p.Indexing
		}
		f.add("%s\t\t<Indexing>%s</Indexing>", indent, indexing)
		f.add("%s\t\t<FullTextSearch>Use</FullTextSearch>", indent)
		f.add("%s\t\t<DataHistory>Use</DataHistory>", indent)
	}
	f.add("%s\t</Properties>", indent)
	f.add("%s</Attribute>", indent)
	return f.String()
}

// ObjectType renders a metadata object Type block for a shorthand
// type token.
func (r *Renderer) ObjectType(typeToken, indent string) string {
	f := &frag{}
	f.add("%s<Type>", indent)
	f.addRaw(objectTypeXML(typeToken, indent+"\t"))
	f.add("%s</Type>", indent)
	return f.String()
}

// ObjectFillValue renders the FillValue element for a type token.
func (r *Renderer) ObjectFillValue(typeToken, indent string) string {
	return fillValueXML(typeToken, indent)
}

// PlainSynonym renders a Synonym element outside the dcs namespaces.
func (r *Renderer) PlainSynonym(text, indent string) string {
	return r.mlTextPlain("Synonym", text, indent)
}

// Dimension renders a register Dimension. The register kind decides
// which of the master/filter/totals/history properties appear.
func (r *Renderer) Dimension(p *shorthand.Attribute, registerType, indent string) string {
	f := &frag{}
	f.add(`%s<Dimension uuid="%s">`, indent, r.NewID())
	f.add("%s\t<Properties>", indent)
	f.add("%s\t\t<Name>%s</Name>", indent, esc(p.Name))
	f.addRaw(r.mlTextPlain("Synonym", p.Synonym, indent+"\t\t"))
	f.add("%s\t\t<Comment/>", indent)
	if p.Type != "" {
		f.addRaw(r.ObjectType(p.Type, indent+"\t\t"))
	} else {
		f.add("%s\t\t<Type>", indent)
		f.add("%s\t\t\t<v8:Type>xs:string</v8:Type>", indent)
		f.add("%s\t\t</Type>", indent)
	}
	f.addRaw(editFieldProps(indent))
	if registerType == "InformationRegister" {
		f.add("%s\t\t<FillFromFillingValue>%t</FillFromFillingValue>", indent, p.HasFlag("master"))
		f.add(`%s		<FillValue xsi:nil="true"/>`, indent)
	}
	fillChecking := "DontCheck"
	if p.FillChecking != "" {
		fillChecking = p.FillChecking
	}
	f.add("%s\t\t<FillChecking>%s</FillChecking>", indent, fillChecking)
	f.addRaw(choiceProps(indent))
	if registerType == "InformationRegister" {
		f.add("%s\t\t<Master>%t</Master>", indent, p.HasFlag("master"))
		f.add("%s\t\t<MainFilter>%t</MainFilter>", indent, p.HasFlag("mainfilter"))
	}
	if registerType == "InformationRegister" || registerType == "AccumulationRegister" {
		f.add("%s\t\t<DenyIncompleteValues>%t</DenyIncompleteValues>", indent, p.HasFlag("denyincomplete"))
	}
	indexing := "DontIndex"
	if p.Indexing != "" {
		indexing = p.Indexing
	}
	f.add("%s\t\t<Indexing>%s</Indexing>", indent, indexing)
	f.add("%s\t\t<FullTextSearch>Use</FullTextSearch>", indent)
	if registerType == "AccumulationRegister" {
		f.add("%s\t\t<UseInTotals>%t</UseInTotals>", indent, !p.HasFlag("nouseintotals"))
	}
	if registerType == "InformationRegister" {
		f.add("%s\t\t<DataHistory>Use</DataHistory>", indent)
	}
	f.add("%s\t</Properties>", indent)
	f.add("%s</Dimension>", indent)
	return f.String()
}

// Resource renders a register Resource. An untyped resource defaults
// to Number(15,2).
func (r *Renderer) Resource(p *shorthand.Attribute, registerType, indent string) string {
	f := &frag{}
	f.add(`%s<Resource uuid="%s">`, indent, r.NewID())
	f.add("%s\t<Properties>", indent)
	f.add("%s\t\t<Name>%s</Name>", indent, esc(p.Name))
	f.addRaw(r.mlTextPlain("Synonym", p.Synonym, indent+"\t\t"))
	f.add("%s\t\t<Comment/>", indent)
	typeToken := p.Type
	if typeToken == "" {
		typeToken = "Number(15,2)"
	}
	f.addRaw(r.ObjectType(typeToken, indent+"\t\t"))
	f.addRaw(editFieldProps(indent))
	if registerType == "InformationRegister" {
		f.add("%s\t\t<FillFromFillingValue>false</FillFromFillingValue>", indent)
		f.add(`%s		<FillValue xsi:nil="true"/>`, indent)
	}
	fillChecking := "DontCheck"
	if p.FillChecking != "" {
		fillChecking = p.FillChecking
	}
	f.add("%s\t\t<FillChecking>%s</FillChecking>", indent, fillChecking)
	f.addRaw(choiceProps(indent))
	if registerType == "InformationRegister" {
		f.add("%s\t\t<Indexing>DontIndex</Indexing>", indent)
		f.add("%s\t\t<FullTextSearch>Use</FullTextSearch>", indent)
		f.add("%s\t\t<DataHistory>Use</DataHistory>", indent)
	}
	if registerType == "AccumulationRegister" {
		f.add("%s\t\t<FullTextSearch>Use</FullTextSearch>", indent)
	}
	f.add("%s\t</Properties>", indent)
	f.add("%s</Resource>", indent)
	return f.String()
}

// editFieldProps is the editing-related property run shared by
// dimensions and resources.
func editFieldProps(indent string) string {
	f := &frag{}
	f.add("%s\t\t<PasswordMode>false</PasswordMode>", indent)
	f.add("%s\t\t<Format/>", indent)
	f.add("%s\t\t<EditFormat/>", indent)
	f.add("%s\t\t<ToolTip/>", indent)
	f.add("%s\t\t<MarkNegatives>false</MarkNegatives>", indent)
	f.add("%s\t\t<Mask/>", indent)
	f.add("%s\t\t<MultiLine>false</MultiLine>", indent)
	f.add("%s\t\t<ExtendedEdit>false</ExtendedEdit>", indent)
	f.add(`%s		<MinValue xsi:nil="true"/>`, indent)
	f.add(`%s		<MaxValue xsi:nil="true"/>`, indent)
	return f.String()
}

// choiceProps is the choice-related property run shared by dimensions
// and resources.
func choiceProps(indent string) string {
	f := &frag{}
	f.add("%s\t\t<ChoiceFoldersAndItems>Items</ChoiceFoldersAndItems>", indent)
	f.add("%s\t\t<ChoiceParameterLinks/>", indent)
	f.add("%s\t\t<ChoiceParameters/>", indent)
	f.add("%s\t\t<QuickChoice>Auto</QuickChoice>", indent)
	f.add("%s\t\t<CreateOnInput>Auto</CreateOnInput>", indent)
	f.add("%s\t\t<ChoiceForm/>", indent)
	f.add("%s\t\t<LinkByType/>", indent)
	f.add("%s\t\t<ChoiceHistoryOnInput>Auto</ChoiceHistoryOnInput>", indent)
	return f.String()
}

// TabularSection renders a TabularSection with its generated-type
// bookkeeping, standard LineNumber attribute and inline columns.
func (r *Renderer) TabularSection(p *shorthand.TabularSection, objType, objName, indent string) string {
	f := &frag{}
	f.add(`%s<TabularSection uuid="%s">`, indent, r.NewID())
	f.add("%s\t<InternalInfo>", indent)
	f.add(`%s		<xr:GeneratedType name="%sTabularSection.%s.%s" category="TabularSection">`,
		indent, objType, esc(objName), esc(p.Name))
	f.add("%s\t\t\t<xr:TypeId>%s</xr:TypeId>", indent, r.NewID())
	f.add("%s\t\t\t<xr:ValueId>%s</xr:ValueId>", indent, r.NewID())
	f.add("%s\t\t</xr:GeneratedType>", indent)
	f.add(`%s		<xr:GeneratedType name="%sTabularSectionRow.%s.%s" category="TabularSectionRow">`,
		indent, objType, esc(objName), esc(p.Name))
	f.add("%s\t\t\t<xr:TypeId>%s</xr:TypeId>", indent, r.NewID())
	f.add("%s\t\t\t<xr:ValueId>%s</xr:ValueId>", indent, r.NewID())
	f.add("%s\t\t</xr:GeneratedType>", indent)
	f.add("%s\t</InternalInfo>", indent)
	f.add("%s\t<Properties>", indent)
	f.add("%s\t\t<Name>%s</Name>", indent, esc(p.Name))
	f.addRaw(r.mlTextPlain("Synonym", p.Synonym, indent+"\t\t"))
	f.add("%s\t\t<Comment/>", indent)
	f.add("%s\t\t<ToolTip/>", indent)
	f.add("%s\t\t<FillChecking>DontCheck</FillChecking>", indent)
	f.addRaw(lineNumberAttribute(indent + "\t\t"))
	if objType == "Catalog" {
		f.add("%s\t\t<Use>ForItem</Use>", indent)
	}
	f.add("%s\t</Properties>", indent)
	if len(p.Attrs) == 0 {
		f.add("%s\t<ChildObjects/>", indent)
	} else {
		ctx := "tabular"
		switch objType {
		case "DataProcessor", "Report", "ExternalDataProcessor", "ExternalReport":
			ctx = "processor-tabular"
		}
		f.add("%s\t<ChildObjects>", indent)
		for _, a := range p.Attrs {
			a.Context = ctx
			f.addRaw(r.Attribute(a, indent+"\t\t"))
		}
		f.add("%s\t</ChildObjects>", indent)
	}
	f.add("%s</TabularSection>", indent)
	return f.String()
}

// lineNumberAttribute is the fixed LineNumber standard attribute every
// tabular section carries.
func lineNumberAttribute(indent string) string {
	f := &frag{}
	f.add("%s<StandardAttributes>", indent)
	f.add(`%s	<xr:StandardAttribute name="LineNumber">`, indent)
	f.add("%s\t\t<xr:LinkByType/>", indent)
	f.add("%s\t\t<xr:FillChecking>DontCheck</xr:FillChecking>", indent)
	f.add("%s\t\t<xr:MultiLine>false</xr:MultiLine>", indent)
	f.add("%s\t\t<xr:FillFromFillingValue>false</xr:FillFromFillingValue>", indent)
	f.add("%s\t\t<xr:CreateOnInput>Auto</xr:CreateOnInput>", indent)
	f.add(`%s		<xr:MaxValue xsi:nil="true"/>`, indent)
	f.add("%s\t\t<xr:ToolTip/>", indent)
	f.add("%s\t\t<xr:ExtendedEdit>false</xr:ExtendedEdit>", indent)
	f.add("%s\t\t<xr:Format/>", indent)
	f.add("%s\t\t<xr:ChoiceForm/>", indent)
	f.add("%s\t\t<xr:QuickChoice>Auto</xr:QuickChoice>", indent)
	f.add("%s\t\t<xr:ChoiceHistoryOnInput>Auto</xr:ChoiceHistoryOnInput>", indent)
	f.add("%s\t\t<xr:EditFormat/>", indent)
	f.add("%s\t\t<xr:PasswordMode>false</xr:PasswordMode>", indent)
	f.add("%s\t\t<xr:DataHistory>Use</xr:DataHistory>", indent)
	f.add("%s\t\t<xr:MarkNegatives>false</xr:MarkNegatives>", indent)
	f.add(`%s		<xr:MinValue xsi:nil="true"/>`, indent)
	f.add("%s\t\t<xr:Synonym/>", indent)
	f.add("%s\t\t<xr:Comment/>", indent)
	f.add("%s\t\t<xr:FullTextSearch>Use</xr:FullTextSearch>", indent)
	f.add("%s\t\t<xr:ChoiceParameterLinks/>", indent)
	f.add(`%s		<xr:FillValue xsi:nil="true"/>`, indent)
	f.add("%s\t\t<xr:Mask/>", indent)
	f.add("%s\t\t<xr:ChoiceParameters/>", indent)
	f.add("%s\t</xr:StandardAttribute>", indent)
	f.add("%s</StandardAttributes>", indent)
	return f.String()
}

func (r *Renderer) EnumValue(p *shorthand.EnumValue, indent string) string {
	f := &frag{}
	f.add(`%s<EnumValue uuid="%s">`, indent, r.NewID())
	f.add("%s\t<Properties>", indent)
	f.add("%s\t\t<Name>%s</Name>", indent, esc(p.Name))
	f.addRaw(r.mlTextPlain("Synonym", p.Synonym, indent+"\t\t"))
	f.add("%s\t\t<Comment/>", indent)
	f.add("%s\t</Properties>", indent)
	f.add("%s</EnumValue>", indent)
	return f.String()
}

func (r *Renderer) Column(p *shorthand.Column, indent string) string {
	f := &frag{}
	f.add(`%s<Column uuid="%s">`, indent, r.NewID())
	f.add("%s\t<Properties>", indent)
	f.add("%s\t\t<Name>%s</Name>", indent, esc(p.Name))
	f.addRaw(r.mlTextPlain("Synonym", p.Synonym, indent+"\t\t"))
	f.add("%s\t\t<Comment/>", indent)
	f.add("%s\t\t<Indexing>%s</Indexing>", indent, p.Indexing)
	if len(p.References) > 0 {
		f.add("%s\t\t<References>", indent)
		for _, ref := range p.References {
			f.add(`%s			<xr:Item xsi:type="xr:MDObjectRef">%s</xr:Item>`, indent, esc(ref))
		}
		f.add("%s\t\t</References>", indent)
	} else {
		f.add("%s\t\t<References/>", indent)
	}
	f.add("%s\t</Properties>", indent)
	f.add("%s</Column>", indent)
	return f.String()
}
