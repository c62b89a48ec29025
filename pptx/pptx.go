// Package pptx loads slide-deck templates and appends slides to a clone of
// them. Templates are PresentationML packages; the deck is edited as XML
// parts with etree and written back as a new package.
package pptx

import (
	"errors"
	"fmt"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	Extension   = "pptx"

	nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsP   = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsRel = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

	relTypeSlide       = nsRel + "/slide"
	relTypeSlideLayout = nsRel + "/slideLayout"
	relTypeSlideMaster = nsRel + "/slideMaster"
	relTypeTheme       = nsRel + "/theme"
	relTypePresProps   = nsRel + "/presProps"

	ctSlide = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
)

// Layout is a slot in the first slide master's layout list.
type Layout int

// Standard Office layout order.
const (
	LayoutTitle Layout = iota
	LayoutTitleContent
	LayoutSectionHeader
	LayoutTwoContent
	LayoutComparison
	LayoutTitleOnly
	LayoutBlank
	LayoutContentCaption
	LayoutPictureCaption

	// NumLayouts is the number of slots a usable template must provide.
	NumLayouts = 9
)

var layoutNames = [NumLayouts]string{
	"Title Slide",
	"Title and Content",
	"Section Header",
	"Two Content",
	"Comparison",
	"Title Only",
	"Blank",
	"Content with Caption",
	"Picture with Caption",
}

func (l Layout) String() string {
	if l < 0 || int(l) >= NumLayouts {
		return fmt.Sprintf("Layout(%d)", int(l))
	}
	return layoutNames[l]
}

var (
	ErrNotPresentation   = errors.New("not a presentation package")
	ErrTooFewLayouts     = errors.New("template has too few slide layouts")
	ErrNoPlaceholder     = errors.New("layout has no such placeholder")
	ErrUnsupportedFormat = errors.New("unsupported picture format")
)

// Image is picture data for a picture placeholder. Format is the file
// extension: jpeg, png or gif.
type Image struct {
	Data   []byte
	Format string
}

// Placeholder fills one layout placeholder by its idx. Text is split into
// paragraphs on newlines; Picture is only valid on picture placeholders.
type Placeholder struct {
	Idx     int
	Text    string
	Picture *Image
}

// SlideInfo describes a slide as read back from a package.
type SlideInfo struct {
	Layout   Layout
	Title    string
	Text     map[int]string
	Pictures map[int][]byte
}
