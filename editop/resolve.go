package editop

import (
	"fmt"

	"github.com/mxtool/mx/debug"
	"github.com/mxtool/mx/xmlgap"
)

// dataSet resolves the target dataSet element under the schema root:
// the one named by cx.DataSet, or the first one when no name is set.
func (cx *Context) dataSet() (*xmlgap.Node, error) {
	root := cx.Doc.Root
	if cx.DataSet != "" {
		for _, ch := range root.Elems() {
			if ch.Local() != "dataSet" {
				continue
			}
			if name := ch.Child("name"); name != nil && name.TrimText() == cx.DataSet {
				return ch, nil
			}
		}
		return nil, fmt.Errorf("dataSet %q %w", cx.DataSet, ErrNotFound)
	}
	if ds := root.Child("dataSet"); ds != nil {
		return ds, nil
	}
	return nil, fmt.Errorf("dataSet %w in document", ErrNotFound)
}

func dataSetName(ds *xmlgap.Node) string {
	if name := ds.Child("name"); name != nil && name.TrimText() != "" {
		return name.TrimText()
	}
	return "(unknown)"
}

// settingsVariant resolves the target settingsVariant element.
func (cx *Context) settingsVariant() (*xmlgap.Node, error) {
	root := cx.Doc.Root
	if cx.Variant != "" {
		for _, ch := range root.Elems() {
			if ch.Local() != "settingsVariant" {
				continue
			}
			if name := ch.Child("name"); name != nil && name.TrimText() == cx.Variant {
				return ch, nil
			}
		}
		return nil, fmt.Errorf("variant %q %w", cx.Variant, ErrNotFound)
	}
	if sv := root.Child("settingsVariant"); sv != nil {
		return sv, nil
	}
	return nil, fmt.Errorf("settingsVariant %w in document", ErrNotFound)
}

// variantSettings resolves the dcsset:settings container of the target
// variant.
func (cx *Context) variantSettings() (*xmlgap.Node, error) {
	sv, err := cx.settingsVariant()
	if err != nil {
		return nil, err
	}
	if s := sv.Child("settings"); s != nil {
		return s, nil
	}
	return nil, fmt.Errorf("settings %w in variant %q", ErrNotFound, cx.variantName())
}

// variantName reports the name of the target variant for audit lines.
func (cx *Context) variantName() string {
	if cx.Variant != "" {
		return cx.Variant
	}
	if sv := cx.Doc.Root.Child("settingsVariant"); sv != nil {
		if name := sv.Child("name"); name != nil && name.TrimText() != "" {
			return name.TrimText()
		}
	}
	return "(unknown)"
}

// metaObject resolves the metadata object element, the single child of
// the MetaDataObject root.
func (cx *Context) metaObject() (*xmlgap.Node, error) {
	for _, ch := range cx.Doc.Root.Elems() {
		return ch, nil
	}
	return nil, fmt.Errorf("metadata object %w under <%s>", ErrNotFound, cx.Doc.Root.Name)
}

// insertFragment parses one rendered fragment and splices its nodes
// into container before ref (nil ref appends).
func (cx *Context) insertFragment(container *xmlgap.Node, frag string, ref *xmlgap.Node, indent string) error {
	if debug.Render() {
		debug.Logf("render: %d bytes into <%s>", len(frag), container.Name)
	}
	nodes, err := xmlgap.ParseFragment(frag)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		cx.Ed.InsertBefore(container, n, ref, indent)
	}
	return nil
}
