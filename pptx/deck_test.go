package pptx

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auto_presentation_generator/opc"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{B: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func builtin(t *testing.T) *Template {
	t.Helper()
	tpl, err := BuiltinNamed("Mountains")
	require.NoError(t, err)
	return tpl
}

func TestBuiltinTemplateHasSampleSlide(t *testing.T) {
	tpl := builtin(t)
	assert.Len(t, tpl.Layouts(), NumLayouts)
	assert.Equal(t, "ppt/slideLayouts/slideLayout9.xml", tpl.Layouts()[LayoutPictureCaption])

	data, err := tpl.Bytes()
	require.NoError(t, err)
	slides, err := ReadSlides(data)
	require.NoError(t, err)
	require.Len(t, slides, 1)
	assert.Equal(t, LayoutTitle, slides[0].Layout)
	assert.Equal(t, "Mountains", slides[0].Title)
}

func TestNewDeckStripsSampleSlides(t *testing.T) {
	deck, err := builtin(t).NewDeck()
	require.NoError(t, err)
	assert.Equal(t, 0, deck.Len())

	data, err := deck.Bytes()
	require.NoError(t, err)
	pkg, err := opc.Read(data)
	require.NoError(t, err)

	assert.False(t, pkg.Has("ppt/slides/slide1.xml"))
	assert.False(t, pkg.Has("ppt/slides/_rels/slide1.xml.rels"))
	assert.True(t, pkg.Has("ppt/slideLayouts/slideLayout9.xml"))
	assert.True(t, pkg.Has("ppt/theme/theme1.xml"))

	ct, _ := pkg.Get(opc.ContentTypesPart)
	assert.NotContains(t, string(ct), "/ppt/slides/slide1.xml")
	rels, _ := pkg.Get("ppt/_rels/presentation.xml.rels")
	assert.NotContains(t, string(rels), relTypeSlide+`"`)

	slides, err := ReadSlides(data)
	require.NoError(t, err)
	assert.Empty(t, slides)
}

func TestTemplateIsNotMutated(t *testing.T) {
	tpl := builtin(t)
	before, err := tpl.Bytes()
	require.NoError(t, err)

	deck, err := tpl.NewDeck()
	require.NoError(t, err)
	require.NoError(t, deck.AppendSlide(LayoutTitle, "Changed", Placeholder{Idx: 1, Text: "x"}))

	after, err := tpl.Bytes()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestAppendSlideRoundTrip(t *testing.T) {
	deck, err := builtin(t).NewDeck()
	require.NoError(t, err)

	pic := pngBytes(t, 40, 20)
	require.NoError(t, deck.AppendSlide(LayoutTitle, "Mental Health", Placeholder{Idx: 1, Text: "A short tour"}))
	require.NoError(t, deck.AppendSlide(LayoutTitleContent, "Sleep", Placeholder{Idx: 1, Text: "Rest well\nMove daily"}))
	require.NoError(t, deck.AppendSlide(LayoutPictureCaption, "Nature",
		Placeholder{Idx: 2, Text: "Green spaces help"},
		Placeholder{Idx: 1, Picture: &Image{Data: pic, Format: "png"}},
	))
	require.NoError(t, deck.AppendSlide(LayoutSectionHeader, "Thank you"))

	data, err := deck.Bytes()
	require.NoError(t, err)
	slides, err := ReadSlides(data)
	require.NoError(t, err)
	require.Len(t, slides, 4)

	assert.Equal(t, LayoutTitle, slides[0].Layout)
	assert.Equal(t, "Mental Health", slides[0].Title)
	assert.Equal(t, "A short tour", slides[0].Text[1])

	assert.Equal(t, LayoutTitleContent, slides[1].Layout)
	assert.Equal(t, "Rest well\nMove daily", slides[1].Text[1])

	assert.Equal(t, LayoutPictureCaption, slides[2].Layout)
	assert.Equal(t, "Green spaces help", slides[2].Text[2])
	assert.Equal(t, pic, slides[2].Pictures[1])

	assert.Equal(t, LayoutSectionHeader, slides[3].Layout)
	assert.Equal(t, "Thank you", slides[3].Title)
	assert.Empty(t, slides[3].Text)

	inMemory, err := deck.Slides()
	require.NoError(t, err)
	assert.Equal(t, slides, inMemory)

	pkg, err := opc.Read(data)
	require.NoError(t, err)
	assert.True(t, pkg.Has("ppt/slides/slide1.xml"))
	assert.True(t, pkg.Has("ppt/media/image1.png"))
	ct, _ := pkg.Get(opc.ContentTypesPart)
	assert.Contains(t, string(ct), `Extension="png"`)
	assert.Contains(t, string(ct), "/ppt/slides/slide4.xml")
}

func TestAppendSlidePictureLeftEmpty(t *testing.T) {
	deck, err := builtin(t).NewDeck()
	require.NoError(t, err)
	require.NoError(t, deck.AppendSlide(LayoutPictureCaption, "No picture", Placeholder{Idx: 2, Text: "caption"}))

	slides, err := deck.Slides()
	require.NoError(t, err)
	require.Len(t, slides, 1)
	assert.Empty(t, slides[0].Pictures)
	assert.Equal(t, "caption", slides[0].Text[2])
}

func TestAppendSlideErrors(t *testing.T) {
	deck, err := builtin(t).NewDeck()
	require.NoError(t, err)

	err = deck.AppendSlide(LayoutBlank, "title on blank")
	assert.ErrorIs(t, err, ErrNoPlaceholder)

	err = deck.AppendSlide(LayoutTitleContent, "x", Placeholder{Idx: 7, Text: "nowhere"})
	assert.ErrorIs(t, err, ErrNoPlaceholder)

	err = deck.AppendSlide(LayoutTitleContent, "x", Placeholder{Idx: 1, Picture: &Image{Data: []byte{1}, Format: "png"}})
	assert.ErrorIs(t, err, ErrNoPlaceholder)

	err = deck.AppendSlide(LayoutPictureCaption, "x", Placeholder{Idx: 1, Picture: &Image{Data: []byte{1}, Format: "bmp"}})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	err = deck.AppendSlide(Layout(42), "x")
	assert.ErrorIs(t, err, ErrNoPlaceholder)
}

func TestParseTemplateRoundTrip(t *testing.T) {
	data, err := builtin(t).Bytes()
	require.NoError(t, err)

	tpl, err := ParseTemplate("Copy", data)
	require.NoError(t, err)
	assert.Equal(t, "Copy", tpl.Name)
	assert.Len(t, tpl.Layouts(), NumLayouts)
}

func TestParseTemplateRejectsOtherPackages(t *testing.T) {
	pkg := opc.New()
	pkg.Set("readme.txt", []byte("hi"))
	data, err := pkg.Bytes()
	require.NoError(t, err)

	_, err = ParseTemplate("x", data)
	assert.ErrorIs(t, err, ErrNotPresentation)
}

func TestConcurrentDecksFromOneTemplate(t *testing.T) {
	tpl := builtin(t)
	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			deck, err := tpl.NewDeck()
			if err != nil {
				errs[i] = err
				return
			}
			errs[i] = deck.AppendSlide(LayoutTitleOnly, strings.Repeat("x", i+1))
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		assert.NoError(t, err)
	}
}

func TestCropToFit(t *testing.T) {
	wide := pngBytes(t, 200, 50)
	l, top, r, b, ok := cropToFit(wide, 100, 100)
	require.True(t, ok)
	assert.Equal(t, "37500", l)
	assert.Equal(t, "37500", r)
	assert.Equal(t, "0", top)
	assert.Equal(t, "0", b)

	_, _, _, _, ok = cropToFit([]byte("junk"), 100, 100)
	assert.False(t, ok)
}

func TestLayoutString(t *testing.T) {
	assert.Equal(t, "Picture with Caption", LayoutPictureCaption.String())
	assert.Equal(t, "Layout(12)", Layout(12).String())
}
