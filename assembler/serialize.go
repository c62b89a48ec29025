package assembler

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"auto_presentation_generator/docx"
	"auto_presentation_generator/pptx"
	"auto_presentation_generator/tags"
)

const maxNameRunes = 200

// Result is a serialized document ready to hand back to the caller.
type Result struct {
	Data        []byte
	Filename    string
	ContentType string
	Slides      int
}

// SerializeOutline writes doc and names it after the first TITLE tag.
func SerializeOutline(doc *docx.Document, ts []tags.Tag) (*Result, error) {
	title, err := outlineTitle(ts)
	if err != nil {
		return nil, err
	}
	data, err := doc.Bytes()
	if err != nil {
		return nil, err
	}
	return &Result{
		Data:        data,
		Filename:    Filename(title, docx.Extension),
		ContentType: docx.ContentType,
	}, nil
}

// SerializeDeck writes deck and names it after its first slide's title.
func SerializeDeck(deck *pptx.Deck) (*Result, error) {
	slides, err := deck.Slides()
	if err != nil {
		return nil, err
	}
	if len(slides) == 0 || strings.TrimSpace(slides[0].Title) == "" {
		return nil, ErrMissingTitle
	}
	data, err := deck.Bytes()
	if err != nil {
		return nil, err
	}
	return &Result{
		Data:        data,
		Filename:    Filename(slides[0].Title, pptx.Extension),
		ContentType: pptx.ContentType,
		Slides:      len(slides),
	}, nil
}

func outlineTitle(ts []tags.Tag) (string, error) {
	title, ok := tags.First(ts, tags.Title)
	if !ok || strings.TrimSpace(title) == "" {
		return "", ErrMissingTitle
	}
	return title, nil
}

// Filename returns "<title>.<ext>" with characters that are unsafe in file
// names replaced by underscores and whitespace runs collapsed. The name part
// is cut to at most 200 runes.
func Filename(title, ext string) string {
	var b strings.Builder
	space := false
	n := 0
	for _, r := range strings.TrimSpace(title) {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if r == utf8.RuneError || unicode.IsControl(r) || strings.ContainsRune(`/\:*?"<>|`, r) {
			r = '_'
		}
		need := 1
		if space && b.Len() > 0 {
			need = 2
		}
		if n+need > maxNameRunes {
			break
		}
		if need == 2 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
		n += need
	}
	name := strings.Trim(b.String(), ". ")
	if name == "" {
		name = "untitled"
	}
	return name + "." + ext
}
