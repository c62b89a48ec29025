package assembler

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auto_presentation_generator/docx"
	"auto_presentation_generator/imagesearch"
	"auto_presentation_generator/logger"
	"auto_presentation_generator/metrics"
	"auto_presentation_generator/pptx"
	"auto_presentation_generator/tags"
)

type fakeFetcher struct {
	mu      sync.Mutex
	images  map[string][]byte
	delay   map[string]time.Duration
	queries []string
	filters []string
}

func (f *fakeFetcher) FetchOne(ctx context.Context, query string, opts imagesearch.FetchOptions) (*imagesearch.Image, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.filters = append(f.filters, opts.Filter)
	data, ok := f.images[query]
	d := f.delay[query]
	f.mu.Unlock()

	if d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if !ok {
		return nil, &imagesearch.FetchError{Query: query, Err: imagesearch.ErrNoResults}
	}
	return &imagesearch.Image{URL: "https://img.test/" + query, Data: data, Format: imagesearch.PNG, Width: 4, Height: 2}, nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func template(t *testing.T) *pptx.Template {
	t.Helper()
	tpl, err := pptx.BuiltinNamed("Academic")
	require.NoError(t, err)
	return tpl
}

func TestOutlineDispatch(t *testing.T) {
	cat := pngBytes(t, 40, 20)
	f := &fakeFetcher{images: map[string][]byte{"cat": cat}}
	m := metrics.New()
	a := New(f, Config{}, nil, m)

	text := "[TITLE]Pets[/TITLE]intro noise[SUBTITLE]Cats[/SUBTITLE][HEADING]Why[/HEADING]" +
		"[CONTENT]They purr.\nA lot.[/CONTENT][IMAGE]cat[/IMAGE][IMAGE]unicorn[/IMAGE][CONTENT]End[/CONTENT]"
	ts := tags.Scan(text)
	doc, err := a.Outline(context.Background(), ts)
	require.NoError(t, err)

	s := doc.Sections()
	require.Len(t, s, 6)
	assert.Equal(t, docx.Section{Kind: docx.SectionHeading, Level: 0, Text: "Pets"}, s[0])
	assert.Equal(t, docx.Section{Kind: docx.SectionHeading, Level: 1, Text: "Cats"}, s[1])
	assert.Equal(t, docx.Section{Kind: docx.SectionHeading, Level: 2, Text: "Why"}, s[2])
	assert.Equal(t, docx.Section{Kind: docx.SectionParagraph, Text: "They purr.\nA lot."}, s[3])
	assert.Equal(t, docx.SectionPicture, s[4].Kind)
	assert.Equal(t, cat, s[4].Picture.Data)
	assert.Equal(t, int64(6*docx.EMUPerInch), s[4].Picture.Width)
	assert.Equal(t, docx.Section{Kind: docx.SectionParagraph, Text: "End"}, s[5])

	assert.ElementsMatch(t, []string{"cat", "unicorn"}, f.queries)
	assert.Equal(t, []string{DefaultOutlineFilter, DefaultOutlineFilter}, f.filters)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ImageFetches.WithLabelValues(metrics.ImageFetched)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ImageFetches.WithLabelValues(metrics.ImageFailed)))
}

func TestOutlinePreservesOrderWhenFetchesFinishOutOfOrder(t *testing.T) {
	slow, fast := pngBytes(t, 2, 2), pngBytes(t, 3, 3)
	f := &fakeFetcher{
		images: map[string][]byte{"slow": slow, "fast": fast},
		delay:  map[string]time.Duration{"slow": 50 * time.Millisecond},
	}
	a := New(f, Config{Concurrency: 2}, nil, nil)

	doc, err := a.Outline(context.Background(), tags.Scan("[IMAGE]slow[/IMAGE][IMAGE]fast[/IMAGE]"))
	require.NoError(t, err)
	s := doc.Sections()
	require.Len(t, s, 2)
	assert.Equal(t, slow, s[0].Picture.Data)
	assert.Equal(t, fast, s[1].Picture.Data)
}

func TestOutlineEmpty(t *testing.T) {
	a := New(nil, Config{}, nil, nil)
	_, err := a.Outline(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOutlineWithoutFetcherSkipsPictures(t *testing.T) {
	a := New(nil, Config{}, nil, nil)
	doc, err := a.Outline(context.Background(), tags.Scan("[TITLE]T[/TITLE][IMAGE]x[/IMAGE]"))
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Len())
}

func TestOutlineCancelled(t *testing.T) {
	f := &fakeFetcher{delay: map[string]time.Duration{"x": time.Minute}}
	a := New(f, Config{}, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Outline(ctx, tags.Scan("[TITLE]T[/TITLE][IMAGE]x[/IMAGE]"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildOutline(t *testing.T) {
	a := New(nil, Config{}, nil, nil)

	res, err := a.BuildOutline(context.Background(), "[TITLE]Mental Health[/TITLE][CONTENT]Body[/CONTENT]")
	require.NoError(t, err)
	assert.Equal(t, "Mental Health.docx", res.Filename)
	assert.Equal(t, docx.ContentType, res.ContentType)

	sections, err := docx.Read(res.Data)
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "Mental Health", sections[0].Text)
	assert.Equal(t, "Body", sections[1].Text)
}

func TestBuildOutlineErrors(t *testing.T) {
	f := &fakeFetcher{}
	a := New(f, Config{}, nil, nil)

	_, err := a.BuildOutline(context.Background(), "no tags at all [FOO]bar[/FOO]")
	assert.ErrorIs(t, err, ErrEmptyResponse)

	_, err = a.BuildOutline(context.Background(), "[HEADING]h[/HEADING][IMAGE]q[/IMAGE]")
	assert.ErrorIs(t, err, ErrMissingTitle)
	assert.Empty(t, f.queries)

	_, err = a.BuildOutline(context.Background(), "[TITLE]  [/TITLE]")
	assert.ErrorIs(t, err, ErrMissingTitle)
}

const deckText = `[L_TS][TITLE]Mental Health[/TITLE][SUBTITLE]A short tour[/SUBTITLE]
[SLIDEBREAK]
[L_CS][TITLE]Sleep[/TITLE][CONTENT]Rest well[IMAGE]bed[/IMAGE]
Move daily[/CONTENT]
[SLIDEBREAK]
just chatter without a marker [TITLE]Lost[/TITLE]
[SLIDEBREAK]
[L_IS][TITLE]Nature[/TITLE][CONTENT]Green spaces[/CONTENT][IMAGE]forest[/IMAGE]
[SLIDEBREAK]
[L_IS][TITLE]Ocean[/TITLE][CONTENT]Blue spaces[/CONTENT][IMAGE]nothing here[/IMAGE]
[SLIDEBREAK]
[L_THS][TITLE]Thank you[/TITLE]
`

func TestDeck(t *testing.T) {
	forest := pngBytes(t, 30, 20)
	f := &fakeFetcher{images: map[string][]byte{"forest": forest}}
	m := metrics.New()
	a := New(f, Config{}, nil, m)

	deck, err := a.Deck(context.Background(), deckText, template(t))
	require.NoError(t, err)
	slides, err := deck.Slides()
	require.NoError(t, err)
	require.Len(t, slides, 5)

	assert.Equal(t, pptx.LayoutTitle, slides[0].Layout)
	assert.Equal(t, "Mental Health", slides[0].Title)
	assert.Equal(t, "A short tour", slides[0].Text[1])

	assert.Equal(t, pptx.LayoutTitleContent, slides[1].Layout)
	assert.Equal(t, "Sleep", slides[1].Title)
	assert.Equal(t, "Rest well\nMove daily", slides[1].Text[1])

	assert.Equal(t, pptx.LayoutPictureCaption, slides[2].Layout)
	assert.Equal(t, "Nature", slides[2].Title)
	assert.Equal(t, "Green spaces", slides[2].Text[2])
	assert.Equal(t, forest, slides[2].Pictures[1])

	assert.Equal(t, pptx.LayoutPictureCaption, slides[3].Layout)
	assert.Equal(t, "Blue spaces", slides[3].Text[2])
	assert.Empty(t, slides[3].Pictures)

	assert.Equal(t, pptx.LayoutSectionHeader, slides[4].Layout)
	assert.Equal(t, "Thank you", slides[4].Title)

	assert.ElementsMatch(t, []string{"forest", "nothing here"}, f.queries)
	assert.Equal(t, []string{DefaultDeckFilter, DefaultDeckFilter}, f.filters)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SlidesSkipped))
}

func TestDeckSkipsUnmarkedGroupsForTitle(t *testing.T) {
	text := "[TITLE]Unmarked[/TITLE][SLIDEBREAK][L_CS][TITLE]Second[/TITLE][CONTENT]x[/CONTENT]"
	a := New(nil, Config{}, nil, nil)

	res, err := a.BuildDeck(context.Background(), text, template(t))
	require.NoError(t, err)
	assert.Equal(t, "Second.pptx", res.Filename)
	assert.Equal(t, 1, res.Slides)
	assert.Equal(t, pptx.ContentType, res.ContentType)

	slides, err := pptx.ReadSlides(res.Data)
	require.NoError(t, err)
	require.Len(t, slides, 1)
	assert.Equal(t, "Second", slides[0].Title)
}

func TestDeckErrors(t *testing.T) {
	a := New(nil, Config{}, nil, nil)

	_, err := a.Deck(context.Background(), "[L_TS] nothing tagged [SLIDEBREAK]", template(t))
	assert.ErrorIs(t, err, ErrEmptyResponse)

	_, err = a.BuildDeck(context.Background(), "[TITLE]No markers anywhere[/TITLE]", template(t))
	assert.ErrorIs(t, err, ErrMissingTitle)
}

func TestDecksFromOneTemplateAreIsolated(t *testing.T) {
	tpl := template(t)
	a := New(nil, Config{}, nil, nil)

	var wg sync.WaitGroup
	results := make([]*Result, 6)
	errs := make([]error, 6)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			text := "[L_TS][TITLE]Deck " + string(rune('A'+i)) + "[/TITLE]"
			results[i], errs[i] = a.BuildDeck(context.Background(), text, tpl)
		}(i)
	}
	wg.Wait()
	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, "Deck "+string(rune('A'+i))+".pptx", results[i].Filename)
		assert.Equal(t, 1, results[i].Slides)
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		title string
		ext   string
		want  string
	}{
		{"Mental Health", "docx", "Mental Health.docx"},
		{"  Padded  ", "pptx", "Padded.pptx"},
		{"AC/DC: Live?", "pptx", "AC_DC_ Live_.pptx"},
		{"Two\nlines\tand  gaps", "docx", "Two lines and gaps.docx"},
		{"...", "docx", "untitled.docx"},
		{"Привет мир", "docx", "Привет мир.docx"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Filename(tt.title, tt.ext))
		})
	}
}

func TestFilenameLengthCap(t *testing.T) {
	tests := map[string]string{
		"spaced words":  strings.Repeat("a ", 300),
		"one long word": strings.Repeat("b", 500),
		"wide runes":    strings.Repeat("мир ", 120),
	}
	for name, title := range tests {
		t.Run(name, func(t *testing.T) {
			got := Filename(title, "docx")
			base := strings.TrimSuffix(got, ".docx")
			assert.LessOrEqual(t, utf8.RuneCountInString(base), maxNameRunes)
			assert.Greater(t, utf8.RuneCountInString(base), maxNameRunes-4)
			assert.False(t, strings.HasSuffix(base, " "))
		})
	}
}

func TestFetchErrorsAreFailSoft(t *testing.T) {
	f := &fakeFetcher{}
	a := New(f, Config{}, nil, nil)
	out := a.fetchAll(context.Background(), []string{"a", "b", "c"}, "photo")
	assert.Equal(t, []*imagesearch.Image{nil, nil, nil}, out)
	assert.Len(t, f.queries, 3)

	_, err := f.FetchOne(context.Background(), "a", imagesearch.FetchOptions{})
	assert.True(t, errors.Is(err, imagesearch.ErrNoResults))
}

// levelLogger records the level of every message.
type levelLogger struct {
	mu     sync.Mutex
	levels []string
}

func (l *levelLogger) add(level string) {
	l.mu.Lock()
	l.levels = append(l.levels, level)
	l.mu.Unlock()
}

func (l *levelLogger) Debug(string, ...logger.Field) { l.add("debug") }
func (l *levelLogger) Info(string, ...logger.Field)  { l.add("info") }
func (l *levelLogger) Warn(string, ...logger.Field)  { l.add("warn") }
func (l *levelLogger) Error(string, ...logger.Field) { l.add("error") }
func (l *levelLogger) With(...logger.Field) logger.Logger {
	return l
}
func (l *levelLogger) Sync() error { return nil }

type brokenFetcher struct{}

func (brokenFetcher) FetchOne(context.Context, string, imagesearch.FetchOptions) (*imagesearch.Image, error) {
	return nil, errors.New("fetcher not configured")
}

func TestFetchFailureLogLevels(t *testing.T) {
	log := &levelLogger{}
	New(&fakeFetcher{}, Config{}, log, nil).fetchAll(context.Background(), []string{"missing"}, "")
	assert.Equal(t, []string{"warn"}, log.levels)

	log = &levelLogger{}
	out := New(brokenFetcher{}, Config{}, log, nil).fetchAll(context.Background(), []string{"x"}, "")
	assert.Equal(t, []*imagesearch.Image{nil}, out)
	assert.Equal(t, []string{"error"}, log.levels)
}
