// Package docx builds outline documents (headings, paragraphs and pictures)
// and serializes them as WordprocessingML (.docx).
package docx

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF for DecodeConfig
	_ "image/jpeg" // register JPEG for DecodeConfig
	_ "image/png"  // register PNG for DecodeConfig
)

const (
	// EMUPerInch converts inches to English Metric Units.
	EMUPerInch = 914400

	ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	Extension   = "docx"
)

// ErrUnsupportedPicture is returned by AddPicture for data that is not a
// decodable JPEG, PNG or GIF.
var ErrUnsupportedPicture = errors.New("unsupported picture data")

// SectionKind distinguishes the blocks of an outline.
type SectionKind int

const (
	SectionHeading SectionKind = iota
	SectionParagraph
	SectionPicture
)

func (k SectionKind) String() string {
	switch k {
	case SectionHeading:
		return "heading"
	case SectionParagraph:
		return "paragraph"
	case SectionPicture:
		return "picture"
	default:
		return "unknown"
	}
}

// Picture is an embedded raster image and its display size in EMU.
type Picture struct {
	Data   []byte
	Format string
	Width  int64
	Height int64
}

// Section is one block of the document in reading order.
type Section struct {
	Kind SectionKind
	// Level is the heading level; 0 is the document title.
	Level   int
	Text    string
	Picture *Picture
}

// Document is an outline under construction. It is not safe for concurrent use.
type Document struct {
	sections []Section
}

// New returns an empty document.
func New() *Document {
	return &Document{}
}

// AddHeading appends a heading. Level 0 is the title style; levels are
// clamped to 0..9.
func (d *Document) AddHeading(text string, level int) {
	if level < 0 {
		level = 0
	}
	if level > 9 {
		level = 9
	}
	d.sections = append(d.sections, Section{Kind: SectionHeading, Level: level, Text: text})
}

// AddParagraph appends body text verbatim. Newlines become line breaks.
func (d *Document) AddParagraph(text string) {
	d.sections = append(d.sections, Section{Kind: SectionParagraph, Text: text})
}

// AddPicture appends an image scaled to widthInches, keeping its aspect ratio.
func (d *Document) AddPicture(data []byte, widthInches float64) error {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedPicture, err)
	}
	switch format {
	case "jpeg", "png", "gif":
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedPicture, format)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return fmt.Errorf("%w: zero size", ErrUnsupportedPicture)
	}

	cx := int64(widthInches * EMUPerInch)
	cy := cx * int64(cfg.Height) / int64(cfg.Width)
	d.sections = append(d.sections, Section{
		Kind: SectionPicture,
		Picture: &Picture{
			Data:   data,
			Format: format,
			Width:  cx,
			Height: cy,
		},
	})
	return nil
}

// Sections returns a copy of the document's blocks in order.
func (d *Document) Sections() []Section {
	return append([]Section(nil), d.sections...)
}

// Title returns the text of the first level-0 heading.
func (d *Document) Title() (string, bool) {
	for _, s := range d.sections {
		if s.Kind == SectionHeading && s.Level == 0 {
			return s.Text, true
		}
	}
	return "", false
}

// Len returns the number of sections.
func (d *Document) Len() int {
	return len(d.sections)
}
