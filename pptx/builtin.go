package pptx

import (
	"encoding/xml"
	"fmt"
	"strings"

	"auto_presentation_generator/opc"
)

// Palette colours a built-in template. Colours are six-digit RGB hex.
type Palette struct {
	Background string
	Text       string
	Dark2      string
	Light2     string
	Accents    [6]string
	Hyperlink  string
	MajorFont  string
	MinorFont  string
}

// Palettes are the built-in looks for the template catalog.
var Palettes = map[string]Palette{
	"Mountains": {
		Background: "F4F6F8", Text: "1E2A38", Dark2: "34495E", Light2: "DDE3EA",
		Accents: [6]string{"3B6E8F", "6C8EA4", "8FA9B8", "A3B18A", "588157", "D9BF77"},
		Hyperlink: "2E6DA4", MajorFont: "Calibri Light", MinorFont: "Calibri",
	},
	"Organic": {
		Background: "FAF7F0", Text: "3E3A2F", Dark2: "5B5237", Light2: "EFE8D8",
		Accents: [6]string{"7A9A3A", "A3B86C", "C97C3C", "8C6D46", "D4A373", "6B705C"},
		Hyperlink: "6B8E23", MajorFont: "Georgia", MinorFont: "Garamond",
	},
	"East Asia": {
		Background: "FFFDF8", Text: "2B2B2B", Dark2: "7A1F1F", Light2: "F3E9DC",
		Accents: [6]string{"B22222", "D4A017", "2F4F4F", "8B4513", "C04000", "556B2F"},
		Hyperlink: "B22222", MajorFont: "Yu Mincho", MinorFont: "Yu Gothic",
	},
	"Explore": {
		Background: "0F1B2D", Text: "F2F5F9", Dark2: "16324F", Light2: "C9D6E3",
		Accents: [6]string{"F9A03F", "34C3FF", "7ED957", "FF6B6B", "B388FF", "FFD166"},
		Hyperlink: "34C3FF", MajorFont: "Segoe UI Semibold", MinorFont: "Segoe UI",
	},
	"3D Float": {
		Background: "FFFFFF", Text: "222831", Dark2: "393E46", Light2: "EEEEEE",
		Accents: [6]string{"00ADB5", "FF5722", "7C4DFF", "FFC107", "4CAF50", "E91E63"},
		Hyperlink: "00ADB5", MajorFont: "Century Gothic", MinorFont: "Century Gothic",
	},
	"Luminous": {
		Background: "1A1A2E", Text: "EAEAEA", Dark2: "16213E", Light2: "E3E3F0",
		Accents: [6]string{"E94560", "F5A623", "0F9B8E", "5C7AEA", "FFD460", "C06C84"},
		Hyperlink: "F5A623", MajorFont: "Trebuchet MS", MinorFont: "Trebuchet MS",
	},
	"Academic": {
		Background: "FFFFFF", Text: "1B1B1B", Dark2: "1F3864", Light2: "E7E6E6",
		Accents: [6]string{"1F3864", "2E75B6", "C55A11", "548235", "7F6000", "7030A0"},
		Hyperlink: "0563C1", MajorFont: "Cambria", MinorFont: "Calibri",
	},
	"Snowflake": {
		Background: "F7FBFF", Text: "243447", Dark2: "30475E", Light2: "E1ECF7",
		Accents: [6]string{"5DA9E9", "A0C4FF", "BDB2FF", "9BF6FF", "6D597A", "B56576"},
		Hyperlink: "3A86FF", MajorFont: "Segoe UI Light", MinorFont: "Segoe UI",
	},
}

// DefaultPalette is used for template names missing from Palettes.
var DefaultPalette = Palettes["Academic"]

const (
	slideWidth  = 12192000
	slideHeight = 6858000

	ctPresentation = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ctSlideMaster  = "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"
	ctSlideLayout  = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
	ctTheme        = "application/vnd.openxmlformats-officedocument.theme+xml"
	ctPresProps    = "application/vnd.openxmlformats-officedocument.presentationml.presProps+xml"
	ctCoreProps    = "application/vnd.openxmlformats-package.core-properties+xml"
)

type phSpec struct {
	kind string
	idx  int
	x, y int64
	w, h int64
}

type layoutSpec struct {
	kind string
	phs  []phSpec
}

var (
	titleBar = phSpec{"title", 0, 838200, 365125, 10515600, 1325563}
	captionT = phSpec{"title", 0, 839788, 457200, 3932237, 1600200}
)

// builtinLayouts follows the standard Office layout slot order.
var builtinLayouts = [NumLayouts]layoutSpec{
	{"title", []phSpec{
		{"ctrTitle", 0, 1524000, 1122363, 9144000, 2387600},
		{"subTitle", 1, 1524000, 3602038, 9144000, 1655762},
	}},
	{"obj", []phSpec{
		titleBar,
		{"obj", 1, 838200, 1825625, 10515600, 4351338},
	}},
	{"secHead", []phSpec{
		{"title", 0, 831850, 1709738, 10515600, 2852737},
		{"body", 1, 831850, 4589463, 10515600, 1500187},
	}},
	{"twoObj", []phSpec{
		titleBar,
		{"obj", 1, 838200, 1825625, 5181600, 4351338},
		{"obj", 2, 6172200, 1825625, 5181600, 4351338},
	}},
	{"twoTxTwoObj", []phSpec{
		{"title", 0, 839788, 365125, 10515600, 1325563},
		{"body", 1, 839788, 1681163, 5157787, 823912},
		{"obj", 2, 839788, 2505075, 5157787, 3684588},
		{"body", 3, 6172200, 1681163, 5183188, 823912},
		{"obj", 4, 6172200, 2505075, 5183188, 3684588},
	}},
	{"titleOnly", []phSpec{titleBar}},
	{"blank", nil},
	{"objTx", []phSpec{
		captionT,
		{"obj", 1, 5183188, 987425, 6172200, 4873625},
		{"body", 2, 839788, 2057400, 3932237, 3811588},
	}},
	{"picTx", []phSpec{
		captionT,
		{"pic", 1, 5183188, 987425, 6172200, 4873625},
		{"body", 2, 839788, 2057400, 3932237, 3811588},
	}},
}

// Builtin generates a 16:9 template with the standard nine layouts, a theme
// coloured by p and one sample slide.
func Builtin(name string, p Palette) (*Template, error) {
	pkg := opc.New()

	var ct strings.Builder
	ct.WriteString(xml.Header)
	ct.WriteString(`<Types xmlns="` + opc.NSContentTypes + `">`)
	ct.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	ct.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	override := func(part, contentType string) {
		fmt.Fprintf(&ct, `<Override PartName="/%s" ContentType="%s"/>`, part, contentType)
	}
	override("ppt/presentation.xml", ctPresentation)
	override("ppt/slideMasters/slideMaster1.xml", ctSlideMaster)
	for i := range builtinLayouts {
		override(fmt.Sprintf("ppt/slideLayouts/slideLayout%d.xml", i+1), ctSlideLayout)
	}
	override("ppt/slides/slide1.xml", ctSlide)
	override("ppt/theme/theme1.xml", ctTheme)
	override("ppt/presProps.xml", ctPresProps)
	override("docProps/core.xml", ctCoreProps)
	ct.WriteString(`</Types>`)
	pkg.Set(opc.ContentTypesPart, []byte(ct.String()))

	pkg.Set(opc.RootRelsPart, []byte(relsXML(
		[3]string{"rId1", opc.RelTypeOfficeDocument, "ppt/presentation.xml"},
		[3]string{"rId2", opc.RelTypeCoreProps, "docProps/core.xml"},
	)))
	pkg.Set("docProps/core.xml", []byte(xml.Header+
		`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"`+
		` xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>`+escape(name)+`</dc:title></cp:coreProperties>`))

	pkg.Set("ppt/presentation.xml", []byte(xml.Header+
		`<p:presentation xmlns:a="`+nsA+`" xmlns:r="`+nsRel+`" xmlns:p="`+nsP+`" saveSubsetFonts="1">`+
		`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`+
		`<p:sldIdLst><p:sldId id="256" r:id="rId2"/></p:sldIdLst>`+
		fmt.Sprintf(`<p:sldSz cx="%d" cy="%d"/>`, slideWidth, slideHeight)+
		`<p:notesSz cx="6858000" cy="9144000"/>`+
		`</p:presentation>`))
	pkg.Set("ppt/_rels/presentation.xml.rels", []byte(relsXML(
		[3]string{"rId1", relTypeSlideMaster, "slideMasters/slideMaster1.xml"},
		[3]string{"rId2", relTypeSlide, "slides/slide1.xml"},
		[3]string{"rId3", relTypeTheme, "theme/theme1.xml"},
		[3]string{"rId4", relTypePresProps, "presProps.xml"},
	)))
	pkg.Set("ppt/presProps.xml", []byte(xml.Header+
		`<p:presentationPr xmlns:a="`+nsA+`" xmlns:r="`+nsRel+`" xmlns:p="`+nsP+`"/>`))

	masterRels := make([][3]string, 0, NumLayouts+1)
	for i := range builtinLayouts {
		masterRels = append(masterRels, [3]string{
			fmt.Sprintf("rId%d", i+1), relTypeSlideLayout, fmt.Sprintf("../slideLayouts/slideLayout%d.xml", i+1),
		})
	}
	masterRels = append(masterRels, [3]string{fmt.Sprintf("rId%d", NumLayouts+1), relTypeTheme, "../theme/theme1.xml"})
	pkg.Set("ppt/slideMasters/slideMaster1.xml", []byte(masterXML(p)))
	pkg.Set("ppt/slideMasters/_rels/slideMaster1.xml.rels", []byte(relsXML(masterRels...)))

	for i, l := range builtinLayouts {
		part := fmt.Sprintf("ppt/slideLayouts/slideLayout%d.xml", i+1)
		pkg.Set(part, []byte(layoutXML(Layout(i), l)))
		pkg.Set(opc.RelsPath(part), []byte(relsXML(
			[3]string{"rId1", relTypeSlideMaster, "../slideMasters/slideMaster1.xml"},
		)))
	}

	pkg.Set("ppt/theme/theme1.xml", []byte(themeXML(name, p)))

	pkg.Set("ppt/slides/slide1.xml", []byte(sampleSlideXML(name)))
	pkg.Set("ppt/slides/_rels/slide1.xml.rels", []byte(relsXML(
		[3]string{"rId1", relTypeSlideLayout, "../slideLayouts/slideLayout1.xml"},
	)))

	return fromPackage(name, pkg)
}

// BuiltinNamed returns the built-in template for a catalog name, falling
// back to DefaultPalette for unknown names.
func BuiltinNamed(name string) (*Template, error) {
	p, ok := Palettes[name]
	if !ok {
		p = DefaultPalette
	}
	return Builtin(name, p)
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func relsXML(rels ...[3]string) string {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<Relationships xmlns="` + opc.NSRelationships + `">`)
	for _, r := range rels {
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="%s" Target="%s"/>`, r[0], r[1], r[2])
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

const groupProps = `<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`

func placeholderXML(id int, ph phSpec, prompt string) string {
	attrs := ""
	if ph.kind != "obj" {
		attrs += fmt.Sprintf(` type="%s"`, ph.kind)
	}
	if ph.idx != 0 {
		attrs += fmt.Sprintf(` idx="%d"`, ph.idx)
	}
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s %d"/>`+
		`<p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr><p:ph%s/></p:nvPr></p:nvSpPr>`+
		`<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm></p:spPr>`+
		`<p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:r><a:rPr lang="en-US"/><a:t>%s</a:t></a:r></a:p></p:txBody></p:sp>`,
		id, ph.kind, id-1, attrs, ph.x, ph.y, ph.w, ph.h, escape(prompt))
}

func prompt(kind string) string {
	switch kind {
	case "title", "ctrTitle":
		return "Click to edit Master title style"
	case "subTitle":
		return "Click to edit Master subtitle style"
	case "pic":
		return "Click icon to add picture"
	default:
		return "Click to edit Master text styles"
	}
}

func layoutXML(slot Layout, l layoutSpec) string {
	var b strings.Builder
	b.WriteString(xml.Header)
	fmt.Fprintf(&b, `<p:sldLayout xmlns:a="%s" xmlns:r="%s" xmlns:p="%s" type="%s" preserve="1">`, nsA, nsRel, nsP, l.kind)
	fmt.Fprintf(&b, `<p:cSld name="%s"><p:spTree>`, escape(slot.String()))
	b.WriteString(groupProps)
	for i, ph := range l.phs {
		b.WriteString(placeholderXML(i+2, ph, prompt(ph.kind)))
	}
	b.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sldLayout>`)
	return b.String()
}

func masterXML(p Palette) string {
	var b strings.Builder
	b.WriteString(xml.Header)
	fmt.Fprintf(&b, `<p:sldMaster xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">`, nsA, nsRel, nsP)
	fmt.Fprintf(&b, `<p:cSld><p:bg><p:bgPr><a:solidFill><a:srgbClr val="%s"/></a:solidFill><a:effectLst/></p:bgPr></p:bg><p:spTree>`, p.Background)
	b.WriteString(groupProps)
	b.WriteString(placeholderXML(2, titleBar, prompt("title")))
	b.WriteString(placeholderXML(3, phSpec{"body", 1, 838200, 1825625, 10515600, 4351338}, prompt("body")))
	b.WriteString(`</p:spTree></p:cSld>`)
	b.WriteString(`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3"` +
		` accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>`)
	b.WriteString(`<p:sldLayoutIdLst>`)
	for i := range builtinLayouts {
		fmt.Fprintf(&b, `<p:sldLayoutId id="%d" r:id="rId%d"/>`, 2147483649+i, i+1)
	}
	b.WriteString(`</p:sldLayoutIdLst>`)
	b.WriteString(`<p:txStyles>` +
		`<p:titleStyle><a:lvl1pPr algn="l"><a:defRPr sz="4400" kern="1200"><a:solidFill><a:schemeClr val="tx1"/></a:solidFill>` +
		`<a:latin typeface="+mj-lt"/></a:defRPr></a:lvl1pPr></p:titleStyle>` +
		`<p:bodyStyle><a:lvl1pPr marL="228600" indent="-228600"><a:buFont typeface="Arial"/><a:buChar char="&#8226;"/>` +
		`<a:defRPr sz="2800" kern="1200"><a:solidFill><a:schemeClr val="tx1"/></a:solidFill><a:latin typeface="+mn-lt"/></a:defRPr>` +
		`</a:lvl1pPr></p:bodyStyle>` +
		`<p:otherStyle><a:lvl1pPr><a:defRPr sz="1800"><a:solidFill><a:schemeClr val="tx1"/></a:solidFill></a:defRPr></a:lvl1pPr></p:otherStyle>` +
		`</p:txStyles>`)
	b.WriteString(`</p:sldMaster>`)
	return b.String()
}

func themeXML(name string, p Palette) string {
	var b strings.Builder
	b.WriteString(xml.Header)
	fmt.Fprintf(&b, `<a:theme xmlns:a="%s" name="%s"><a:themeElements>`, nsA, escape(name))
	fmt.Fprintf(&b, `<a:clrScheme name="%s">`, escape(name))
	color := func(slot, rgb string) {
		fmt.Fprintf(&b, `<a:%[1]s><a:srgbClr val="%[2]s"/></a:%[1]s>`, slot, rgb)
	}
	color("dk1", p.Text)
	color("lt1", p.Background)
	color("dk2", p.Dark2)
	color("lt2", p.Light2)
	for i, a := range p.Accents {
		color(fmt.Sprintf("accent%d", i+1), a)
	}
	color("hlink", p.Hyperlink)
	color("folHlink", p.Accents[4])
	b.WriteString(`</a:clrScheme>`)

	fmt.Fprintf(&b, `<a:fontScheme name="%s">`+
		`<a:majorFont><a:latin typeface="%s"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>`+
		`<a:minorFont><a:latin typeface="%s"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont>`+
		`</a:fontScheme>`, escape(name), escape(p.MajorFont), escape(p.MinorFont))

	const solid = `<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>`
	fmt.Fprintf(&b, `<a:fmtScheme name="%s">`, escape(name))
	b.WriteString(`<a:fillStyleLst>` + solid + solid + solid + `</a:fillStyleLst>`)
	b.WriteString(`<a:lnStyleLst>`)
	for _, w := range []int{6350, 12700, 19050} {
		fmt.Fprintf(&b, `<a:ln w="%d">%s</a:ln>`, w, solid)
	}
	b.WriteString(`</a:lnStyleLst>`)
	b.WriteString(`<a:effectStyleLst>`)
	for i := 0; i < 3; i++ {
		b.WriteString(`<a:effectStyle><a:effectLst/></a:effectStyle>`)
	}
	b.WriteString(`</a:effectStyleLst>`)
	b.WriteString(`<a:bgFillStyleLst>` + solid + solid + solid + `</a:bgFillStyleLst>`)
	b.WriteString(`</a:fmtScheme></a:themeElements><a:objectDefaults/><a:extraClrSchemeLst/></a:theme>`)
	return b.String()
}

func sampleSlideXML(name string) string {
	return xml.Header +
		`<p:sld xmlns:a="` + nsA + `" xmlns:r="` + nsRel + `" xmlns:p="` + nsP + `">` +
		`<p:cSld><p:spTree>` + groupProps +
		`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title 1"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr>` +
		`<p:nvPr><p:ph type="ctrTitle"/></p:nvPr></p:nvSpPr><p:spPr/>` +
		`<p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:r><a:rPr lang="en-US"/><a:t>` + escape(name) + `</a:t></a:r></a:p></p:txBody></p:sp>` +
		`<p:sp><p:nvSpPr><p:cNvPr id="3" name="Subtitle 2"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr>` +
		`<p:nvPr><p:ph type="subTitle" idx="1"/></p:nvPr></p:nvSpPr><p:spPr/>` +
		`<p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:r><a:rPr lang="en-US"/><a:t>Sample slide</a:t></a:r></a:p></p:txBody></p:sp>` +
		`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`
}
