package docx

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auto_presentation_generator/opc"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{G: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestAddHeadingClampsLevel(t *testing.T) {
	d := New()
	d.AddHeading("low", -3)
	d.AddHeading("high", 12)

	s := d.Sections()
	require.Len(t, s, 2)
	assert.Equal(t, 0, s[0].Level)
	assert.Equal(t, 9, s[1].Level)
}

func TestAddPictureKeepsAspectRatio(t *testing.T) {
	d := New()
	require.NoError(t, d.AddPicture(pngBytes(t, 400, 200), 6))

	s := d.Sections()
	require.Len(t, s, 1)
	pic := s[0].Picture
	require.NotNil(t, pic)
	assert.Equal(t, "png", pic.Format)
	assert.Equal(t, int64(6*EMUPerInch), pic.Width)
	assert.Equal(t, int64(3*EMUPerInch), pic.Height)
}

func TestAddPictureRejectsGarbage(t *testing.T) {
	d := New()
	err := d.AddPicture([]byte("not an image"), 6)
	assert.ErrorIs(t, err, ErrUnsupportedPicture)
	assert.Equal(t, 0, d.Len())
}

func TestTitle(t *testing.T) {
	d := New()
	_, ok := d.Title()
	assert.False(t, ok)

	d.AddHeading("Chapter", 1)
	d.AddHeading("Mental Health", 0)
	d.AddHeading("Second", 0)
	title, ok := d.Title()
	assert.True(t, ok)
	assert.Equal(t, "Mental Health", title)
}

func TestRoundTrip(t *testing.T) {
	d := New()
	d.AddHeading("Mental Health", 0)
	d.AddHeading("Overview", 1)
	d.AddHeading("Sleep & <Stress>", 2)
	d.AddParagraph("line one\nline two\tindented")
	require.NoError(t, d.AddPicture(pngBytes(t, 10, 5), 6))
	d.AddParagraph("")

	data, err := d.Bytes()
	require.NoError(t, err)

	got, err := Read(data)
	require.NoError(t, err)
	require.Len(t, got, 6)

	assert.Equal(t, Section{Kind: SectionHeading, Level: 0, Text: "Mental Health"}, got[0])
	assert.Equal(t, Section{Kind: SectionHeading, Level: 1, Text: "Overview"}, got[1])
	assert.Equal(t, Section{Kind: SectionHeading, Level: 2, Text: "Sleep & <Stress>"}, got[2])
	assert.Equal(t, Section{Kind: SectionParagraph, Text: "line one\nline two\tindented"}, got[3])
	assert.Equal(t, SectionPicture, got[4].Kind)
	require.NotNil(t, got[4].Picture)
	assert.Equal(t, d.Sections()[4].Picture.Data, got[4].Picture.Data)
	assert.Equal(t, "png", got[4].Picture.Format)
	assert.Equal(t, int64(6*EMUPerInch), got[4].Picture.Width)
	assert.Equal(t, Section{Kind: SectionParagraph}, got[5])
}

func TestPackageParts(t *testing.T) {
	d := New()
	d.AddHeading("Deck", 0)
	require.NoError(t, d.AddPicture(pngBytes(t, 2, 2), 6))

	data, err := d.Bytes()
	require.NoError(t, err)
	pkg, err := opc.Read(data)
	require.NoError(t, err)

	assert.Equal(t, opc.ContentTypesPart, pkg.Names()[0])
	for _, name := range []string{
		opc.RootRelsPart,
		"docProps/core.xml",
		"word/document.xml",
		"word/styles.xml",
		"word/_rels/document.xml.rels",
		"word/media/image1.png",
	} {
		assert.True(t, pkg.Has(name), name)
	}
	ct, _ := pkg.Get(opc.ContentTypesPart)
	assert.Contains(t, string(ct), `Extension="png"`)
	core, _ := pkg.Get("docProps/core.xml")
	assert.Contains(t, string(core), "<dc:title>Deck</dc:title>")
}

func TestReadRejectsNonDocument(t *testing.T) {
	pkg := opc.New()
	pkg.Set("hello.txt", []byte("hi"))
	data, err := pkg.Bytes()
	require.NoError(t, err)

	_, err = Read(data)
	assert.ErrorIs(t, err, ErrNotDocument)
}
