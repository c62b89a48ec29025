package tags

import "strings"

// SlideBreak separates slide groups in a deck completion.
const SlideBreak = "[SLIDEBREAK]"

// Layout is the slide kind selected by a layout marker inside a group.
type Layout int

const (
	LayoutNone Layout = iota
	LayoutTitle
	LayoutContent
	LayoutImage
	LayoutThanks
)

// layoutMarkers is checked in order; the first marker present wins.
var layoutMarkers = []struct {
	layout Layout
	marker string
}{
	{LayoutTitle, "[L_TS]"},
	{LayoutContent, "[L_CS]"},
	{LayoutImage, "[L_IS]"},
	{LayoutThanks, "[L_THS]"},
}

func (l Layout) String() string {
	switch l {
	case LayoutTitle:
		return "SLIDE_TITLE"
	case LayoutContent:
		return "SLIDE_CONTENT"
	case LayoutImage:
		return "SLIDE_IMAGE"
	case LayoutThanks:
		return "SLIDE_THANKS"
	default:
		return "NONE"
	}
}

// Marker returns the literal marker that selects l, or "" for LayoutNone.
func (l Layout) Marker() string {
	for _, m := range layoutMarkers {
		if m.layout == l {
			return m.marker
		}
	}
	return ""
}

// SlideGroup is the raw text between two slide breaks.
type SlideGroup struct {
	Index  int
	Layout Layout
	Raw    string
}

// SplitSlides splits text on SlideBreak. Groups without a layout marker are
// returned with LayoutNone; they produce no slide.
func SplitSlides(text string) []SlideGroup {
	parts := strings.Split(text, SlideBreak)
	groups := make([]SlideGroup, 0, len(parts))
	for i, raw := range parts {
		groups = append(groups, SlideGroup{
			Index:  i,
			Layout: DetectLayout(raw),
			Raw:    raw,
		})
	}
	return groups
}

// DetectLayout reports the first layout marker found in raw, by fixed priority.
func DetectLayout(raw string) Layout {
	for _, m := range layoutMarkers {
		if strings.Contains(raw, m.marker) {
			return m.layout
		}
	}
	return LayoutNone
}

// Field returns the text of kind for this group. CONTENT has nested image
// markers removed because slides render their body as plain text.
func (g SlideGroup) Field(kind Kind) string {
	text := Extract(g.Raw, kind)
	if kind == Content {
		text = StripImages(text)
	}
	return text
}
