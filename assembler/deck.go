package assembler

import (
	"context"
	"fmt"
	"strings"

	"auto_presentation_generator/logger"
	"auto_presentation_generator/pptx"
	"auto_presentation_generator/tags"
)

// slidePlan is one slide to append once its picture, if any, is resolved.
type slidePlan struct {
	layout pptx.Layout
	title  string
	fill   []pptx.Placeholder
	// query is the IMAGE text for picture slides; image is its index into
	// the fetched results, or -1.
	query string
	image int
}

// Deck clones tpl without its sample slides and appends one slide per slide
// group that carries a layout marker. Groups without a marker are skipped.
func (a *Assembler) Deck(ctx context.Context, text string, tpl *pptx.Template) (*pptx.Deck, error) {
	if len(tags.Scan(text)) == 0 {
		return nil, ErrEmptyResponse
	}
	deck, err := tpl.NewDeck()
	if err != nil {
		return nil, fmt.Errorf("prepare template %s: %w", tpl.Name, err)
	}

	var (
		plans   []slidePlan
		queries []string
	)
	for _, g := range tags.SplitSlides(text) {
		p, ok := planSlide(g)
		if !ok {
			if strings.TrimSpace(g.Raw) != "" {
				a.log.Info("skipping slide group without layout marker", logger.Int("group", g.Index))
				a.metrics.RecordSkippedSlide()
			}
			continue
		}
		if g.Layout == tags.LayoutImage {
			p.query = g.Field(tags.Image)
			p.image = len(queries)
			queries = append(queries, p.query)
		}
		plans = append(plans, p)
	}

	images := a.fetchAll(ctx, queries, a.cfg.DeckFilter)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, p := range plans {
		fill := p.fill
		if p.image >= 0 {
			if img := images[p.image]; img != nil {
				fill = append(fill, pptx.Placeholder{
					Idx:     1,
					Picture: &pptx.Image{Data: img.Data, Format: img.Format.Extension()},
				})
			}
		}
		if err := deck.AppendSlide(p.layout, p.title, fill...); err != nil {
			return nil, fmt.Errorf("append %s slide: %w", p.layout, err)
		}
	}
	return deck, nil
}

// planSlide maps a group to its template slot and placeholder text.
func planSlide(g tags.SlideGroup) (slidePlan, bool) {
	p := slidePlan{title: g.Field(tags.Title), image: -1}
	switch g.Layout {
	case tags.LayoutTitle:
		p.layout = pptx.LayoutTitle
		p.fill = []pptx.Placeholder{{Idx: 1, Text: g.Field(tags.Subtitle)}}
	case tags.LayoutContent:
		p.layout = pptx.LayoutTitleContent
		p.fill = []pptx.Placeholder{{Idx: 1, Text: g.Field(tags.Content)}}
	case tags.LayoutImage:
		p.layout = pptx.LayoutPictureCaption
		p.fill = []pptx.Placeholder{{Idx: 2, Text: g.Field(tags.Content)}}
	case tags.LayoutThanks:
		p.layout = pptx.LayoutSectionHeader
	default:
		return slidePlan{}, false
	}
	return p, true
}

// BuildDeck assembles text on tpl and serializes the deck.
func (a *Assembler) BuildDeck(ctx context.Context, text string, tpl *pptx.Template) (*Result, error) {
	deck, err := a.Deck(ctx, text, tpl)
	if err != nil {
		return nil, err
	}
	return SerializeDeck(deck)
}
