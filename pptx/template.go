package pptx

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"

	"auto_presentation_generator/opc"
)

// Template is a read-only presentation package. Decks are built on clones,
// so one Template may back any number of concurrent NewDeck calls.
type Template struct {
	Name    string
	pkg     *opc.Package
	pres    string
	layouts []string
}

// OpenTemplate reads a template from disk. The template is named after the
// file without its extension.
func OpenTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ParseTemplate(name, data)
}

// ParseTemplate loads a template from serialized .pptx bytes.
func ParseTemplate(name string, data []byte) (*Template, error) {
	pkg, err := opc.Read(data)
	if err != nil {
		return nil, err
	}
	return fromPackage(name, pkg)
}

func fromPackage(name string, pkg *opc.Package) (*Template, error) {
	pres, err := presentationPart(pkg)
	if err != nil {
		return nil, err
	}
	layouts, err := layoutParts(pkg, pres)
	if err != nil {
		return nil, err
	}
	if len(layouts) < NumLayouts {
		return nil, fmt.Errorf("%w: %d of %d", ErrTooFewLayouts, len(layouts), NumLayouts)
	}
	return &Template{Name: name, pkg: pkg, pres: pres, layouts: layouts}, nil
}

// Layouts returns the template's layout part names in master order.
func (t *Template) Layouts() []string {
	return append([]string(nil), t.layouts...)
}

// Bytes returns the template package unchanged.
func (t *Template) Bytes() ([]byte, error) {
	return t.pkg.Bytes()
}

// NewDeck clones the template and removes its example slides.
func (t *Template) NewDeck() (*Deck, error) {
	d := &Deck{
		pkg:     t.pkg.Clone(),
		pres:    t.pres,
		layouts: t.layouts,
	}
	if err := d.stripSlides(); err != nil {
		return nil, err
	}
	if err := d.collect(); err != nil {
		return nil, err
	}
	return d, nil
}

func presentationPart(pkg *opc.Package) (string, error) {
	rels, err := readRels(pkg, "")
	if err != nil {
		return "", err
	}
	for _, r := range rels {
		if r.Type != opc.RelTypeOfficeDocument {
			continue
		}
		part := opc.ResolveTarget("", r.Target)
		doc, err := readXML(pkg, part)
		if err != nil {
			return "", err
		}
		if doc.Root().Tag != "presentation" {
			return "", fmt.Errorf("%w: root element %s", ErrNotPresentation, doc.Root().FullTag())
		}
		return part, nil
	}
	return "", ErrNotPresentation
}

// layoutParts resolves the first slide master's layout list.
func layoutParts(pkg *opc.Package, pres string) ([]string, error) {
	doc, err := readXML(pkg, pres)
	if err != nil {
		return nil, err
	}
	presRels, err := readRels(pkg, pres)
	if err != nil {
		return nil, err
	}
	masterID := doc.Root().FindElement("./p:sldMasterIdLst/p:sldMasterId")
	if masterID == nil {
		return nil, fmt.Errorf("%w: no slide master", ErrNotPresentation)
	}
	rel, ok := relByID(presRels, masterID.SelectAttrValue("r:id", ""))
	if !ok {
		return nil, fmt.Errorf("%w: dangling slide master reference", ErrNotPresentation)
	}
	master := opc.ResolveTarget(pres, rel.Target)

	mdoc, err := readXML(pkg, master)
	if err != nil {
		return nil, err
	}
	masterRels, err := readRels(pkg, master)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, el := range mdoc.Root().FindElements("./p:sldLayoutIdLst/p:sldLayoutId") {
		r, ok := relByID(masterRels, el.SelectAttrValue("r:id", ""))
		if !ok || r.Type != relTypeSlideLayout {
			continue
		}
		out = append(out, opc.ResolveTarget(master, r.Target))
	}
	return out, nil
}

// layoutShape is a placeholder declared by a layout.
type layoutShape struct {
	ph   *etree.Element
	kind string
	idx  int
	// ext is the placeholder size in EMU when the layout sets it.
	cx, cy int64
}

func (s layoutShape) isTitle() bool {
	return s.kind == "title" || s.kind == "ctrTitle"
}

func (s layoutShape) isPicture() bool {
	return s.kind == "pic"
}

// skipped on new slides, matching PowerPoint
func (s layoutShape) isFurniture() bool {
	switch s.kind {
	case "dt", "ftr", "sldNum", "hdr":
		return true
	}
	return false
}

func readPlaceholders(pkg *opc.Package, layout string) ([]layoutShape, error) {
	doc, err := readXML(pkg, layout)
	if err != nil {
		return nil, err
	}
	var out []layoutShape
	for _, sp := range doc.Root().FindElements("./p:cSld/p:spTree/*") {
		ph := sp.FindElement(".//p:nvPr/p:ph")
		if ph == nil {
			continue
		}
		s := layoutShape{
			ph:   ph,
			kind: ph.SelectAttrValue("type", "obj"),
			idx:  atoi(ph.SelectAttrValue("idx", "0")),
		}
		if ext := sp.FindElement("./p:spPr/a:xfrm/a:ext"); ext != nil {
			s.cx = int64(atoi(ext.SelectAttrValue("cx", "0")))
			s.cy = int64(atoi(ext.SelectAttrValue("cy", "0")))
		}
		out = append(out, s)
	}
	return out, nil
}
