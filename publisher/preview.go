package publisher

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"auto_presentation_generator/assembler"
	"auto_presentation_generator/generator"
	"auto_presentation_generator/tags"
)

// RenderPreview converts a tagged completion into HTML for a quick look in
// the browser. Images are shown as their search query; nothing is fetched.
func RenderPreview(kind generator.Kind, text string) (string, error) {
	ts := tags.Scan(text)
	if len(ts) == 0 {
		return "", assembler.ErrEmptyResponse
	}
	var md string
	if kind == generator.KindDeck {
		md = deckMarkdown(text)
	} else {
		md = outlineMarkdown(ts)
	}
	return mdToHTML(md)
}

func outlineMarkdown(ts []tags.Tag) string {
	var sb strings.Builder
	for _, t := range ts {
		switch t.Kind {
		case tags.Title:
			fmt.Fprintf(&sb, "# %s\n\n", oneLine(t.Body))
		case tags.Subtitle:
			fmt.Fprintf(&sb, "## %s\n\n", oneLine(t.Body))
		case tags.Heading:
			fmt.Fprintf(&sb, "### %s\n\n", oneLine(t.Body))
		case tags.Content:
			sb.WriteString(paragraphs(t.Body))
		case tags.Image:
			fmt.Fprintf(&sb, "> image: %s\n\n", oneLine(t.Body))
		}
	}
	return sb.String()
}

func deckMarkdown(text string) string {
	var sb strings.Builder
	n := 0
	for _, g := range tags.SplitSlides(text) {
		if g.Layout == tags.LayoutNone {
			continue
		}
		if n > 0 {
			sb.WriteString("---\n\n")
		}
		n++
		fmt.Fprintf(&sb, "## %d. %s\n\n", n, oneLine(g.Field(tags.Title)))
		if sub := g.Field(tags.Subtitle); g.Layout == tags.LayoutTitle && sub != "" {
			fmt.Fprintf(&sb, "*%s*\n\n", oneLine(sub))
		}
		if g.Layout == tags.LayoutContent || g.Layout == tags.LayoutImage {
			sb.WriteString(paragraphs(g.Field(tags.Content)))
		}
		if g.Layout == tags.LayoutImage {
			fmt.Fprintf(&sb, "> image: %s\n\n", oneLine(g.Field(tags.Image)))
		}
	}
	return sb.String()
}

// paragraphs keeps the model's line breaks as hard breaks.
func paragraphs(body string) string {
	body = strings.TrimSpace(body)
	if body == "" {
		return ""
	}
	lines := strings.Split(body, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.Join(lines, "  \n") + "\n\n"
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func mdToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
