package assembler

import (
	"context"

	"auto_presentation_generator/docx"
	"auto_presentation_generator/logger"
	"auto_presentation_generator/tags"
)

// Outline builds a document from tags in scan order: TITLE, SUBTITLE and
// HEADING become headings of level 0, 1 and 2, CONTENT becomes a paragraph
// and IMAGE becomes a picture when its lookup succeeds.
func (a *Assembler) Outline(ctx context.Context, ts []tags.Tag) (*docx.Document, error) {
	if len(ts) == 0 {
		return nil, ErrEmptyResponse
	}

	var queries []string
	for _, t := range ts {
		if t.Kind == tags.Image {
			queries = append(queries, t.Body)
		}
	}
	images := a.fetchAll(ctx, queries, a.cfg.OutlineFilter)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := docx.New()
	next := 0
	for _, t := range ts {
		switch t.Kind {
		case tags.Title:
			doc.AddHeading(t.Body, 0)
		case tags.Subtitle:
			doc.AddHeading(t.Body, 1)
		case tags.Heading:
			doc.AddHeading(t.Body, 2)
		case tags.Content:
			doc.AddParagraph(t.Body)
		case tags.Image:
			img := images[next]
			next++
			if img == nil {
				continue
			}
			if err := doc.AddPicture(img.Data, a.cfg.PictureWidth); err != nil {
				a.log.Warn("image not embeddable, leaving picture out",
					logger.String("query", t.Body),
					logger.Error(err))
			}
		}
	}
	return doc, nil
}

// BuildOutline scans text, assembles the outline and serializes it.
func (a *Assembler) BuildOutline(ctx context.Context, text string) (*Result, error) {
	ts := tags.Scan(text)
	if len(ts) == 0 {
		return nil, ErrEmptyResponse
	}
	// Naming needs a title; fail before spending time on image lookups.
	if _, err := outlineTitle(ts); err != nil {
		return nil, err
	}
	doc, err := a.Outline(ctx, ts)
	if err != nil {
		return nil, err
	}
	return SerializeOutline(doc, ts)
}
