package pptx

import (
	"strings"

	"github.com/beevik/etree"

	"auto_presentation_generator/opc"
)

// ReadSlides opens a serialized deck and describes its slides in order.
func ReadSlides(data []byte) ([]SlideInfo, error) {
	pkg, err := opc.Read(data)
	if err != nil {
		return nil, err
	}
	pres, err := presentationPart(pkg)
	if err != nil {
		return nil, err
	}
	layouts, err := layoutParts(pkg, pres)
	if err != nil {
		return nil, err
	}
	return readSlides(pkg, pres, layouts)
}

func readSlides(pkg *opc.Package, pres string, layouts []string) ([]SlideInfo, error) {
	doc, err := readXML(pkg, pres)
	if err != nil {
		return nil, err
	}
	rels, err := readRels(pkg, pres)
	if err != nil {
		return nil, err
	}

	var out []SlideInfo
	for _, el := range doc.Root().FindElements("./p:sldIdLst/p:sldId") {
		r, ok := relByID(rels, el.SelectAttrValue("r:id", ""))
		if !ok {
			continue
		}
		info, err := readSlide(pkg, opc.ResolveTarget(pres, r.Target), layouts)
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, nil
}

func readSlide(pkg *opc.Package, part string, layouts []string) (SlideInfo, error) {
	info := SlideInfo{
		Layout:   -1,
		Text:     make(map[int]string),
		Pictures: make(map[int][]byte),
	}
	doc, err := readXML(pkg, part)
	if err != nil {
		return info, err
	}
	rels, err := readRels(pkg, part)
	if err != nil {
		return info, err
	}
	for _, r := range rels {
		if r.Type != relTypeSlideLayout {
			continue
		}
		target := opc.ResolveTarget(part, r.Target)
		for i, l := range layouts {
			if l == target {
				info.Layout = Layout(i)
			}
		}
	}

	for _, shape := range doc.Root().FindElements("./p:cSld/p:spTree/*") {
		ph := shape.FindElement(".//p:nvPr/p:ph")
		if ph == nil {
			continue
		}
		kind := ph.SelectAttrValue("type", "obj")
		idx := atoi(ph.SelectAttrValue("idx", "0"))

		if shape.Tag == "pic" {
			blip := shape.FindElement("./p:blipFill/a:blip")
			if blip == nil {
				continue
			}
			if r, ok := relByID(rels, blip.SelectAttrValue("r:embed", "")); ok {
				data, _ := pkg.Get(opc.ResolveTarget(part, r.Target))
				info.Pictures[idx] = data
			}
			continue
		}

		text := shapeText(shape)
		if kind == "title" || kind == "ctrTitle" {
			info.Title = text
			continue
		}
		if text != "" {
			info.Text[idx] = text
		}
	}
	return info, nil
}

// shapeText joins a shape's paragraphs with newlines.
func shapeText(shape *etree.Element) string {
	var lines []string
	for _, p := range shape.FindElements("./p:txBody/a:p") {
		var b strings.Builder
		for _, t := range p.FindElements(".//a:t") {
			b.WriteString(t.Text())
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}
