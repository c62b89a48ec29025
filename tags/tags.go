// Package tags extracts bracket-delimited tag spans such as [TITLE]...[/TITLE]
// from model completions and groups slide-deck completions into slides.
package tags

import (
	"strings"
)

// Kind names a content tag.
type Kind string

const (
	Title    Kind = "TITLE"
	Subtitle Kind = "SUBTITLE"
	Heading  Kind = "HEADING"
	Content  Kind = "CONTENT"
	Image    Kind = "IMAGE"
)

// Vocabulary lists every content tag the scanner recognizes.
var Vocabulary = []Kind{Title, Subtitle, Heading, Content, Image}

// Tag is one matched [KIND]body[/KIND] span.
type Tag struct {
	Kind Kind
	Body string
	// Offset is the byte position of the opening marker in the scanned text.
	Offset int
}

func (k Kind) open() string { return "[" + string(k) + "]" }
func (k Kind) close() string { return "[/" + string(k) + "]" }

// Scan returns every well-formed tag span in text, in source order.
//
// An opening marker without a matching closing marker is skipped and scanning
// resumes right after it. Spans never overlap: once a span is emitted, the scan
// continues after its closing marker, so markers inside a body are part of the body.
func Scan(text string) []Tag {
	return scan(text, Vocabulary)
}

// ScanKind is Scan restricted to a single tag name. Markers of other names are
// ignored, which finds spans of kind nested inside other tags' bodies.
func ScanKind(text string, kind Kind) []Tag {
	return scan(text, []Kind{kind})
}

func scan(text string, kinds []Kind) []Tag {
	var out []Tag
	pos := 0
	for pos < len(text) {
		rel := strings.IndexByte(text[pos:], '[')
		if rel < 0 {
			break
		}
		start := pos + rel
		kind, ok := openingAt(text, start, kinds)
		if !ok {
			pos = start + 1
			continue
		}
		bodyStart := start + len(kind.open())
		end := strings.Index(text[bodyStart:], kind.close())
		if end < 0 {
			// unmatched opening marker
			pos = bodyStart
			continue
		}
		out = append(out, Tag{
			Kind:   kind,
			Body:   text[bodyStart : bodyStart+end],
			Offset: start,
		})
		pos = bodyStart + end + len(kind.close())
	}
	return out
}

func openingAt(text string, at int, kinds []Kind) (Kind, bool) {
	for _, k := range kinds {
		if strings.HasPrefix(text[at:], k.open()) {
			return k, true
		}
	}
	return "", false
}

// First returns the body of the first tag of kind, if any.
func First(ts []Tag, kind Kind) (string, bool) {
	for _, t := range ts {
		if t.Kind == kind {
			return t.Body, true
		}
	}
	return "", false
}

// Extract concatenates, in order, the bodies of every kind span in text.
// Repeated spans of one name only occur in malformed completions; joining them
// keeps their text instead of dropping it.
func Extract(text string, kind Kind) string {
	spans := ScanKind(text, kind)
	if len(spans) == 0 {
		return ""
	}
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Body)
	}
	return b.String()
}

// StripImages removes [IMAGE]...[/IMAGE] spans from s.
func StripImages(s string) string {
	spans := ScanKind(s, Image)
	if len(spans) == 0 {
		return s
	}
	var b strings.Builder
	last := 0
	for _, sp := range spans {
		b.WriteString(s[last:sp.Offset])
		last = sp.Offset + len(Image.open()) + len(sp.Body) + len(Image.close())
	}
	b.WriteString(s[last:])
	return b.String()
}
