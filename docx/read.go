package docx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"auto_presentation_generator/opc"
)

// ErrNotDocument is returned by Read when the package has no main document part.
var ErrNotDocument = errors.New("not a wordprocessing document")

// Read parses a serialized .docx and returns its blocks in reading order.
// Paragraphs styled Title or HeadingN come back as headings; inline drawings
// come back as pictures with their embedded media.
func Read(data []byte) ([]Section, error) {
	pkg, err := opc.Read(data)
	if err != nil {
		return nil, err
	}
	doc, ok := pkg.Get(partDocument)
	if !ok {
		return nil, ErrNotDocument
	}
	media, err := readRels(pkg, partDocument)
	if err != nil {
		return nil, err
	}

	dec := xml.NewDecoder(bytes.NewReader(doc))
	var (
		out    []Section
		cur    *paragraph
		inText bool
		extent [2]int64
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse document: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				cur = &paragraph{}
			case "pStyle":
				if cur != nil {
					cur.style = attr(t, "val")
				}
			case "t":
				inText = true
			case "br":
				if cur != nil {
					cur.text.WriteByte('\n')
				}
			case "tab":
				if cur != nil {
					cur.text.WriteByte('\t')
				}
			case "extent":
				extent[0], _ = strconv.ParseInt(attr(t, "cx"), 10, 64)
				extent[1], _ = strconv.ParseInt(attr(t, "cy"), 10, 64)
			case "blip":
				target, ok := media[attr(t, "embed")]
				if !ok || cur == nil {
					continue
				}
				data, _ := pkg.Get(target)
				cur.pictures = append(cur.pictures, &Picture{
					Data:   data,
					Format: strings.TrimPrefix(extOf(target), "."),
					Width:  extent[0],
					Height: extent[1],
				})
			}
		case xml.CharData:
			if inText && cur != nil {
				cur.text.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if cur != nil {
					out = append(out, cur.sections()...)
					cur = nil
				}
			}
		}
	}
	return out, nil
}

type paragraph struct {
	style    string
	text     strings.Builder
	pictures []*Picture
}

func (p *paragraph) sections() []Section {
	if len(p.pictures) > 0 {
		out := make([]Section, 0, len(p.pictures))
		for _, pic := range p.pictures {
			out = append(out, Section{Kind: SectionPicture, Picture: pic})
		}
		return out
	}
	text := p.text.String()
	switch {
	case p.style == "Title":
		return []Section{{Kind: SectionHeading, Level: 0, Text: text}}
	case strings.HasPrefix(p.style, "Heading"):
		level, err := strconv.Atoi(strings.TrimPrefix(p.style, "Heading"))
		if err == nil {
			return []Section{{Kind: SectionHeading, Level: level, Text: text}}
		}
	}
	return []Section{{Kind: SectionParagraph, Text: text}}
}

type relationships struct {
	Items []struct {
		ID     string `xml:"Id,attr"`
		Type   string `xml:"Type,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

// readRels maps image relationship ids of part to package part names.
func readRels(pkg *opc.Package, part string) (map[string]string, error) {
	out := make(map[string]string)
	raw, ok := pkg.Get(opc.RelsPath(part))
	if !ok {
		return out, nil
	}
	var rels relationships
	if err := xml.Unmarshal(raw, &rels); err != nil {
		return nil, fmt.Errorf("parse relationships: %w", err)
	}
	for _, r := range rels.Items {
		if r.Type == opc.RelTypeImage {
			out[r.ID] = opc.ResolveTarget(part, r.Target)
		}
	}
	return out, nil
}

func attr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func extOf(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i:]
	}
	return ""
}
