package docx

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"auto_presentation_generator/opc"
)

const (
	partDocument = "word/document.xml"
	partStyles   = "word/styles.xml"
	partCore     = "docProps/core.xml"

	relTypeStyles = opc.NSOfficeRels + "/styles"

	// Letter page, one inch margins (twentieths of a point).
	pageWidthTwips  = 12240
	pageHeightTwips = 15840
	marginTwips     = 1440
)

// Write serializes the document as a .docx package.
func (d *Document) Write(w io.Writer) error {
	pkg, err := d.pack()
	if err != nil {
		return err
	}
	return pkg.Write(w)
}

// Bytes returns the serialized .docx package.
func (d *Document) Bytes() ([]byte, error) {
	pkg, err := d.pack()
	if err != nil {
		return nil, err
	}
	return pkg.Bytes()
}

func (d *Document) pack() (*opc.Package, error) {
	pkg := opc.New()

	var body strings.Builder
	var rels strings.Builder
	rels.WriteString(xml.Header)
	rels.WriteString(`<Relationships xmlns="` + opc.NSRelationships + `">`)
	fmt.Fprintf(&rels, `<Relationship Id="rId1" Type="%s" Target="styles.xml"/>`, relTypeStyles)

	formats := make(map[string]bool)
	picture := 0
	for _, s := range d.sections {
		switch s.Kind {
		case SectionHeading:
			writeParagraph(&body, headingStyle(s.Level), s.Text)
		case SectionParagraph:
			writeParagraph(&body, "", s.Text)
		case SectionPicture:
			picture++
			rID := fmt.Sprintf("rId%d", picture+1)
			media := fmt.Sprintf("media/image%d.%s", picture, s.Picture.Format)
			pkg.Set("word/"+media, s.Picture.Data)
			formats[s.Picture.Format] = true
			fmt.Fprintf(&rels, `<Relationship Id="%s" Type="%s" Target="%s"/>`, rID, opc.RelTypeImage, media)
			writePicture(&body, picture, rID, s.Picture)
		}
	}
	rels.WriteString(`</Relationships>`)

	title, _ := d.Title()
	pkg.Set(opc.ContentTypesPart, []byte(contentTypes(formats)))
	pkg.Set(opc.RootRelsPart, []byte(rootRels))
	pkg.Set(partCore, []byte(coreProps(title)))
	pkg.Set(partDocument, []byte(documentXML(body.String())))
	pkg.Set(partStyles, []byte(stylesXML))
	pkg.Set(opc.RelsPath(partDocument), []byte(rels.String()))
	return pkg, nil
}

func headingStyle(level int) string {
	if level == 0 {
		return "Title"
	}
	return fmt.Sprintf("Heading%d", level)
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func writeParagraph(b *strings.Builder, style, text string) {
	b.WriteString("<w:p>")
	if style != "" {
		fmt.Fprintf(b, `<w:pPr><w:pStyle w:val="%s"/></w:pPr>`, style)
	}
	b.WriteString("<w:r>")
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			b.WriteString("<w:br/>")
		}
		for j, chunk := range strings.Split(line, "\t") {
			if j > 0 {
				b.WriteString("<w:tab/>")
			}
			if chunk != "" {
				fmt.Fprintf(b, `<w:t xml:space="preserve">%s</w:t>`, escape(chunk))
			}
		}
	}
	b.WriteString("</w:r></w:p>")
}

func writePicture(b *strings.Builder, n int, rID string, p *Picture) {
	name := fmt.Sprintf("image%d.%s", n, p.Format)
	fmt.Fprintf(b, `<w:p><w:r><w:drawing>`+
		`<wp:inline distT="0" distB="0" distL="0" distR="0">`+
		`<wp:extent cx="%[1]d" cy="%[2]d"/>`+
		`<wp:docPr id="%[3]d" name="Picture %[3]d"/>`+
		`<wp:cNvGraphicFramePr><a:graphicFrameLocks noChangeAspect="1"/></wp:cNvGraphicFramePr>`+
		`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:pic><pic:nvPicPr><pic:cNvPr id="%[3]d" name="%[4]s"/><pic:cNvPicPr/></pic:nvPicPr>`+
		`<pic:blipFill><a:blip r:embed="%[5]s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%[1]d" cy="%[2]d"/></a:xfrm>`+
		`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
		`</pic:pic></a:graphicData></a:graphic></wp:inline>`+
		`</w:drawing></w:r></w:p>`,
		p.Width, p.Height, n, name, rID)
}

func documentXML(body string) string {
	return xml.Header +
		`<w:document` +
		` xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"` +
		` xmlns:r="` + opc.NSOfficeRels + `"` +
		` xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"` +
		` xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"` +
		` xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">` +
		`<w:body>` + body +
		fmt.Sprintf(`<w:sectPr><w:pgSz w:w="%d" w:h="%d"/>`+
			`<w:pgMar w:top="%[3]d" w:right="%[3]d" w:bottom="%[3]d" w:left="%[3]d" w:header="720" w:footer="720" w:gutter="0"/>`+
			`</w:sectPr>`, pageWidthTwips, pageHeightTwips, marginTwips) +
		`</w:body></w:document>`
}

func contentTypes(formats map[string]bool) string {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<Types xmlns="` + opc.NSContentTypes + `">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	for _, f := range []string{"gif", "jpeg", "png"} {
		if formats[f] {
			fmt.Fprintf(&b, `<Default Extension="%s" ContentType="image/%s"/>`, f, f)
		}
	}
	b.WriteString(`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>`)
	b.WriteString(`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>`)
	b.WriteString(`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>`)
	b.WriteString(`</Types>`)
	return b.String()
}

var rootRels = xml.Header +
	`<Relationships xmlns="` + opc.NSRelationships + `">` +
	`<Relationship Id="rId1" Type="` + opc.RelTypeOfficeDocument + `" Target="word/document.xml"/>` +
	`<Relationship Id="rId2" Type="` + opc.RelTypeCoreProps + `" Target="docProps/core.xml"/>` +
	`</Relationships>`

func coreProps(title string) string {
	return xml.Header +
		`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"` +
		` xmlns:dc="http://purl.org/dc/elements/1.1/">` +
		`<dc:title>` + escape(title) + `</dc:title>` +
		`</cp:coreProperties>`
}

var stylesXML = xml.Header +
	`<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
	`<w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:ascii="Calibri" w:hAnsi="Calibri" w:eastAsia="Calibri" w:cs="Calibri"/>` +
	`<w:sz w:val="22"/><w:szCs w:val="22"/><w:lang w:val="en-US"/></w:rPr></w:rPrDefault>` +
	`<w:pPrDefault><w:pPr><w:spacing w:after="160" w:line="259" w:lineRule="auto"/></w:pPr></w:pPrDefault></w:docDefaults>` +
	`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:qFormat/></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Title"><w:name w:val="Title"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/>` +
	`<w:pPr><w:spacing w:after="80"/><w:contextualSpacing/></w:pPr>` +
	`<w:rPr><w:rFonts w:ascii="Calibri Light" w:hAnsi="Calibri Light"/><w:kern w:val="28"/><w:sz w:val="56"/><w:szCs w:val="56"/></w:rPr></w:style>` +
	headingStyleXML(1, 32, "2F5496") +
	headingStyleXML(2, 26, "2F5496") +
	headingStyleXML(3, 24, "1F3763") +
	`</w:styles>`

func headingStyleXML(level, halfPoints int, color string) string {
	return fmt.Sprintf(`<w:style w:type="paragraph" w:styleId="Heading%[1]d"><w:name w:val="heading %[1]d"/>`+
		`<w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:uiPriority w:val="9"/><w:qFormat/>`+
		`<w:pPr><w:keepNext/><w:keepLines/><w:spacing w:before="240" w:after="0"/><w:outlineLvl w:val="%[4]d"/></w:pPr>`+
		`<w:rPr><w:rFonts w:ascii="Calibri Light" w:hAnsi="Calibri Light"/><w:color w:val="%[3]s"/>`+
		`<w:sz w:val="%[2]d"/><w:szCs w:val="%[2]d"/></w:rPr></w:style>`,
		level, halfPoints, color, level-1)
}
