package pptx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"auto_presentation_generator/opc"
)

const xmlDecl = `version="1.0" encoding="UTF-8" standalone="yes"`

type relationship struct {
	ID       string
	Type     string
	Target   string
	External bool
}

func readXML(pkg *opc.Package, part string) (*etree.Document, error) {
	raw, ok := pkg.Get(part)
	if !ok {
		return nil, fmt.Errorf("missing part %s", part)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", part, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("parse %s: empty document", part)
	}
	return doc, nil
}

func writeXML(pkg *opc.Package, part string, doc *etree.Document) error {
	out, err := doc.WriteToBytes()
	if err != nil {
		return fmt.Errorf("write %s: %w", part, err)
	}
	pkg.Set(part, out)
	return nil
}

// readRels returns the relationships of source; a missing rels part is empty.
func readRels(pkg *opc.Package, source string) ([]relationship, error) {
	name := opc.RelsPath(source)
	if source == "" {
		name = opc.RootRelsPart
	}
	if !pkg.Has(name) {
		return nil, nil
	}
	doc, err := readXML(pkg, name)
	if err != nil {
		return nil, err
	}
	var out []relationship
	for _, el := range doc.Root().SelectElements("Relationship") {
		out = append(out, relationship{
			ID:       el.SelectAttrValue("Id", ""),
			Type:     el.SelectAttrValue("Type", ""),
			Target:   el.SelectAttrValue("Target", ""),
			External: el.SelectAttrValue("TargetMode", "") == "External",
		})
	}
	return out, nil
}

func writeRels(pkg *opc.Package, source string, rels []relationship) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", xmlDecl)
	root := doc.CreateElement("Relationships")
	root.CreateAttr("xmlns", opc.NSRelationships)
	for _, r := range rels {
		el := root.CreateElement("Relationship")
		el.CreateAttr("Id", r.ID)
		el.CreateAttr("Type", r.Type)
		el.CreateAttr("Target", r.Target)
		if r.External {
			el.CreateAttr("TargetMode", "External")
		}
	}
	return writeXML(pkg, opc.RelsPath(source), doc)
}

// nextRelID returns an rId above every id in rels.
func nextRelID(rels []relationship) string {
	top := 0
	for _, r := range rels {
		if n, err := strconv.Atoi(strings.TrimPrefix(r.ID, "rId")); err == nil && n > top {
			top = n
		}
	}
	return "rId" + strconv.Itoa(top+1)
}

func relByID(rels []relationship, id string) (relationship, bool) {
	for _, r := range rels {
		if r.ID == id {
			return r, true
		}
	}
	return relationship{}, false
}

// contentTypes edits [Content_Types].xml in place.
type contentTypes struct {
	doc *etree.Document
}

func loadContentTypes(pkg *opc.Package) (*contentTypes, error) {
	doc, err := readXML(pkg, opc.ContentTypesPart)
	if err != nil {
		return nil, err
	}
	return &contentTypes{doc: doc}, nil
}

func (c *contentTypes) addDefault(ext, contentType string) {
	for _, el := range c.doc.Root().SelectElements("Default") {
		if strings.EqualFold(el.SelectAttrValue("Extension", ""), ext) {
			return
		}
	}
	el := etree.NewElement("Default")
	el.CreateAttr("Extension", ext)
	el.CreateAttr("ContentType", contentType)
	c.doc.Root().InsertChildAt(0, el)
}

func (c *contentTypes) addOverride(part, contentType string) {
	name := "/" + strings.TrimPrefix(part, "/")
	for _, el := range c.doc.Root().SelectElements("Override") {
		if el.SelectAttrValue("PartName", "") == name {
			el.CreateAttr("ContentType", contentType)
			return
		}
	}
	el := c.doc.Root().CreateElement("Override")
	el.CreateAttr("PartName", name)
	el.CreateAttr("ContentType", contentType)
}

// prune drops overrides for parts that no longer exist.
func (c *contentTypes) prune(pkg *opc.Package) {
	for _, el := range c.doc.Root().SelectElements("Override") {
		if !pkg.Has(el.SelectAttrValue("PartName", "")) {
			c.doc.Root().RemoveChild(el)
		}
	}
}

func (c *contentTypes) save(pkg *opc.Package) error {
	return writeXML(pkg, opc.ContentTypesPart, c.doc)
}
