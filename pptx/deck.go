package pptx

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register GIF for DecodeConfig
	_ "image/jpeg" // register JPEG for DecodeConfig
	_ "image/png"  // register PNG for DecodeConfig
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"auto_presentation_generator/opc"
)

// Deck is a template clone being populated. It is owned by one goroutine.
type Deck struct {
	pkg     *opc.Package
	pres    string
	layouts []string
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// stripSlides drops every slide from the presentation's slide list and
// relationships. The orphaned parts are removed by collect.
func (d *Deck) stripSlides() error {
	doc, err := readXML(d.pkg, d.pres)
	if err != nil {
		return err
	}
	rels, err := readRels(d.pkg, d.pres)
	if err != nil {
		return err
	}

	drop := make(map[string]bool)
	if lst := doc.Root().SelectElement("sldIdLst"); lst != nil {
		for _, el := range lst.SelectElements("sldId") {
			drop[el.SelectAttrValue("r:id", "")] = true
			lst.RemoveChild(el)
		}
	}
	for _, r := range rels {
		if r.Type == relTypeSlide {
			drop[r.ID] = true
		}
	}
	// Section and custom show lists reference slide ids that no longer exist.
	for _, name := range []string{"sectionLst", "custShowLst"} {
		for _, el := range doc.Root().FindElements(".//" + name) {
			if p := el.Parent(); p != nil {
				p.RemoveChild(el)
			}
		}
	}

	kept := rels[:0]
	for _, r := range rels {
		if !drop[r.ID] {
			kept = append(kept, r)
		}
	}
	if err := writeRels(d.pkg, d.pres, kept); err != nil {
		return err
	}
	return writeXML(d.pkg, d.pres, doc)
}

// collect deletes parts that are unreachable from the package root and
// prunes their content type overrides.
func (d *Deck) collect() error {
	reached := map[string]bool{}
	queue := []string{""}
	for len(queue) > 0 {
		src := queue[0]
		queue = queue[1:]
		rels, err := readRels(d.pkg, src)
		if err != nil {
			return err
		}
		for _, r := range rels {
			if r.External {
				continue
			}
			part := opc.ResolveTarget(src, r.Target)
			if reached[part] || !d.pkg.Has(part) {
				continue
			}
			reached[part] = true
			queue = append(queue, part)
		}
	}

	for _, name := range d.pkg.Names() {
		switch {
		case name == opc.ContentTypesPart, name == opc.RootRelsPart, reached[name]:
			continue
		case strings.Contains(name, "_rels/") && strings.HasSuffix(name, ".rels"):
			if reached[sourceOfRels(name)] {
				continue
			}
		}
		d.pkg.Delete(name)
	}

	ct, err := loadContentTypes(d.pkg)
	if err != nil {
		return err
	}
	ct.prune(d.pkg)
	return ct.save(d.pkg)
}

// sourceOfRels inverts opc.RelsPath.
func sourceOfRels(name string) string {
	dir, file, _ := strings.Cut(name, "_rels/")
	return dir + strings.TrimSuffix(file, ".rels")
}

// AppendSlide adds a slide on the given layout slot. title fills the
// layout's title placeholder; each Placeholder fills the placeholder with
// the same idx. Layout placeholders that are not filled are added empty.
func (d *Deck) AppendSlide(layout Layout, title string, fill ...Placeholder) error {
	if layout < 0 || int(layout) >= len(d.layouts) {
		return fmt.Errorf("%w: layout slot %d", ErrNoPlaceholder, int(layout))
	}
	layoutPart := d.layouts[layout]
	shapes, err := readPlaceholders(d.pkg, layoutPart)
	if err != nil {
		return err
	}

	byIdx := make(map[int]Placeholder, len(fill))
	for _, p := range fill {
		byIdx[p.Idx] = p
	}
	if err := checkPlaceholders(layout, shapes, title, byIdx); err != nil {
		return err
	}

	slidePart := d.freeName("ppt/slides/slide", ".xml")
	rels := []relationship{{
		ID:     "rId1",
		Type:   relTypeSlideLayout,
		Target: opc.RelativeTarget(slidePart, layoutPart),
	}}

	ct, err := loadContentTypes(d.pkg)
	if err != nil {
		return err
	}

	doc, tree := newSlideDocument()
	shapeID := 2
	for _, s := range shapes {
		if s.isFurniture() {
			continue
		}
		p, filled := byIdx[s.idx]
		switch {
		case s.isTitle():
			addTextShape(tree, shapeID, s, title)
		case s.isPicture() && filled && p.Picture != nil:
			media, err := d.addMedia(ct, p.Picture)
			if err != nil {
				return err
			}
			rID := nextRelID(rels)
			rels = append(rels, relationship{
				ID:     rID,
				Type:   opc.RelTypeImage,
				Target: opc.RelativeTarget(slidePart, media),
			})
			addPicture(tree, shapeID, s, rID, p.Picture)
		case s.isPicture():
			addEmptyShape(tree, shapeID, s)
		default:
			addTextShape(tree, shapeID, s, p.Text)
		}
		shapeID++
	}

	if err := writeXML(d.pkg, slidePart, doc); err != nil {
		return err
	}
	if err := writeRels(d.pkg, slidePart, rels); err != nil {
		return err
	}
	ct.addOverride(slidePart, ctSlide)
	if err := ct.save(d.pkg); err != nil {
		return err
	}
	return d.register(slidePart)
}

func checkPlaceholders(layout Layout, shapes []layoutShape, title string, fill map[int]Placeholder) error {
	hasTitle := false
	byIdx := make(map[int]layoutShape)
	for _, s := range shapes {
		if s.isTitle() {
			hasTitle = true
			continue
		}
		byIdx[s.idx] = s
	}
	if title != "" && !hasTitle {
		return fmt.Errorf("%w: %s has no title", ErrNoPlaceholder, layout)
	}
	for idx, p := range fill {
		s, ok := byIdx[idx]
		if !ok {
			return fmt.Errorf("%w: %s has no idx %d", ErrNoPlaceholder, layout, idx)
		}
		if p.Picture != nil && !s.isPicture() {
			return fmt.Errorf("%w: %s idx %d is not a picture placeholder", ErrNoPlaceholder, layout, idx)
		}
	}
	return nil
}

// register appends slidePart to the presentation's slide list.
func (d *Deck) register(slidePart string) error {
	doc, err := readXML(d.pkg, d.pres)
	if err != nil {
		return err
	}
	rels, err := readRels(d.pkg, d.pres)
	if err != nil {
		return err
	}
	rID := nextRelID(rels)
	rels = append(rels, relationship{
		ID:     rID,
		Type:   relTypeSlide,
		Target: opc.RelativeTarget(d.pres, slidePart),
	})

	root := doc.Root()
	lst := root.SelectElement("sldIdLst")
	if lst == nil {
		lst = etree.NewElement("p:sldIdLst")
		root.InsertChildAt(slideListIndex(root), lst)
	}
	id := 255
	for _, el := range lst.SelectElements("sldId") {
		if n := atoi(el.SelectAttrValue("id", "0")); n > id {
			id = n
		}
	}
	el := lst.CreateElement("p:sldId")
	el.CreateAttr("id", strconv.Itoa(id+1))
	el.CreateAttr("r:id", rID)

	if err := writeRels(d.pkg, d.pres, rels); err != nil {
		return err
	}
	return writeXML(d.pkg, d.pres, doc)
}

// slideListIndex returns where sldIdLst belongs among the presentation's
// children: after the master, notes master and handout master lists.
func slideListIndex(root *etree.Element) int {
	idx := 0
	for _, el := range root.ChildElements() {
		switch el.Tag {
		case "sldMasterIdLst", "notesMasterIdLst", "handoutMasterIdLst":
			idx = el.Index() + 1
		}
	}
	return idx
}

func (d *Deck) freeName(prefix, suffix string) string {
	for n := 1; ; n++ {
		name := prefix + strconv.Itoa(n) + suffix
		if !d.pkg.Has(name) {
			return name
		}
	}
}

func (d *Deck) addMedia(ct *contentTypes, img *Image) (string, error) {
	switch img.Format {
	case "jpeg", "png", "gif":
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, img.Format)
	}
	name := d.freeName("ppt/media/image", "."+img.Format)
	d.pkg.Set(name, img.Data)
	ct.addDefault(img.Format, "image/"+img.Format)
	return name, nil
}

// Slides reads back the deck's slides in presentation order.
func (d *Deck) Slides() ([]SlideInfo, error) {
	return readSlides(d.pkg, d.pres, d.layouts)
}

// Len returns the number of slides.
func (d *Deck) Len() int {
	doc, err := readXML(d.pkg, d.pres)
	if err != nil {
		return 0
	}
	lst := doc.Root().SelectElement("sldIdLst")
	if lst == nil {
		return 0
	}
	return len(lst.SelectElements("sldId"))
}

// Write serializes the deck.
func (d *Deck) Write(w io.Writer) error {
	if err := d.collect(); err != nil {
		return err
	}
	return d.pkg.Write(w)
}

// Bytes returns the serialized deck.
func (d *Deck) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func newSlideDocument() (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", xmlDecl)
	sld := doc.CreateElement("p:sld")
	sld.CreateAttr("xmlns:a", nsA)
	sld.CreateAttr("xmlns:r", nsRel)
	sld.CreateAttr("xmlns:p", nsP)
	tree := sld.CreateElement("p:cSld").CreateElement("p:spTree")

	grp := tree.CreateElement("p:nvGrpSpPr")
	cNvPr := grp.CreateElement("p:cNvPr")
	cNvPr.CreateAttr("id", "1")
	cNvPr.CreateAttr("name", "")
	grp.CreateElement("p:cNvGrpSpPr")
	grp.CreateElement("p:nvPr")
	tree.CreateElement("p:grpSpPr")

	sld.CreateElement("p:clrMapOvr").CreateElement("a:masterClrMapping")
	return doc, tree
}

func shapeName(s layoutShape, id int) string {
	switch {
	case s.isTitle():
		return fmt.Sprintf("Title %d", id-1)
	case s.isPicture():
		return fmt.Sprintf("Picture Placeholder %d", id-1)
	case s.kind == "subTitle":
		return fmt.Sprintf("Subtitle %d", id-1)
	case s.kind == "body":
		return fmt.Sprintf("Text Placeholder %d", id-1)
	default:
		return fmt.Sprintf("Content Placeholder %d", id-1)
	}
}

func addNonVisual(parent *etree.Element, tag string, id int, s layoutShape) {
	nv := parent.CreateElement("p:nv" + tag + "Pr")
	c := nv.CreateElement("p:cNvPr")
	c.CreateAttr("id", strconv.Itoa(id))
	c.CreateAttr("name", shapeName(s, id))
	locks := nv.CreateElement("p:cNv" + tag + "Pr")
	if tag == "Pic" {
		l := locks.CreateElement("a:picLocks")
		l.CreateAttr("noGrp", "1")
		l.CreateAttr("noChangeAspect", "1")
	} else {
		locks.CreateElement("a:spLocks").CreateAttr("noGrp", "1")
	}
	nv.CreateElement("p:nvPr").AddChild(s.ph.Copy())
}

func addEmptyShape(tree *etree.Element, id int, s layoutShape) {
	sp := tree.CreateElement("p:sp")
	addNonVisual(sp, "Sp", id, s)
	sp.CreateElement("p:spPr")
}

func addTextShape(tree *etree.Element, id int, s layoutShape, text string) {
	sp := tree.CreateElement("p:sp")
	addNonVisual(sp, "Sp", id, s)
	sp.CreateElement("p:spPr")
	body := sp.CreateElement("p:txBody")
	body.CreateElement("a:bodyPr")
	body.CreateElement("a:lstStyle")
	if text == "" {
		body.CreateElement("a:p")
		return
	}
	for _, line := range strings.Split(text, "\n") {
		p := body.CreateElement("a:p")
		if line == "" {
			continue
		}
		r := p.CreateElement("a:r")
		rPr := r.CreateElement("a:rPr")
		rPr.CreateAttr("lang", "en-US")
		rPr.CreateAttr("dirty", "0")
		r.CreateElement("a:t").SetText(line)
	}
}

func addPicture(tree *etree.Element, id int, s layoutShape, rID string, img *Image) {
	pic := tree.CreateElement("p:pic")
	addNonVisual(pic, "Pic", id, s)

	fill := pic.CreateElement("p:blipFill")
	fill.CreateElement("a:blip").CreateAttr("r:embed", rID)
	if l, t, r, b, ok := cropToFit(img.Data, s.cx, s.cy); ok {
		rect := fill.CreateElement("a:srcRect")
		for _, kv := range [][2]string{{"l", l}, {"t", t}, {"r", r}, {"b", b}} {
			if kv[1] != "0" {
				rect.CreateAttr(kv[0], kv[1])
			}
		}
	}
	fill.CreateElement("a:stretch").CreateElement("a:fillRect")
	pic.CreateElement("p:spPr")
}

// cropToFit returns source-rectangle insets, in thousandths of a percent,
// that trim the image to the placeholder's aspect ratio around its centre.
func cropToFit(data []byte, cx, cy int64) (l, t, r, b string, ok bool) {
	if cx <= 0 || cy <= 0 {
		return "", "", "", "", false
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width == 0 || cfg.Height == 0 {
		return "", "", "", "", false
	}
	imgAspect := float64(cfg.Width) / float64(cfg.Height)
	boxAspect := float64(cx) / float64(cy)
	if imgAspect > boxAspect {
		side := strconv.Itoa(int((1 - boxAspect/imgAspect) / 2 * 100000))
		return side, "0", side, "0", true
	}
	side := strconv.Itoa(int((1 - imgAspect/boxAspect) / 2 * 100000))
	return "0", side, "0", side, true
}
