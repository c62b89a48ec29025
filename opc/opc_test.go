package opc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripKeepsOrderAndContentTypesFirst(t *testing.T) {
	p := New()
	p.Set("word/document.xml", []byte("<doc/>"))
	p.Set("/"+ContentTypesPart, []byte("<Types/>"))
	p.Set("_rels/.rels", []byte("<Relationships/>"))

	data, err := p.Bytes()
	require.NoError(t, err)

	back, err := Read(data)
	require.NoError(t, err)
	assert.Equal(t, []string{ContentTypesPart, "word/document.xml", "_rels/.rels"}, back.Names())
	got, ok := back.Get("/word/document.xml")
	assert.True(t, ok)
	assert.Equal(t, "<doc/>", string(got))
}

func TestCloneAndDelete(t *testing.T) {
	p := New()
	p.Set("a.xml", []byte("a"))
	p.Set("b.xml", []byte("b"))

	c := p.Clone()
	c.Delete("a.xml")
	c.Delete("missing.xml")

	assert.True(t, p.Has("a.xml"))
	assert.False(t, c.Has("a.xml"))
	assert.Equal(t, []string{"b.xml"}, c.Names())
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "ppt/slides/_rels/slide1.xml.rels", RelsPath("ppt/slides/slide1.xml"))
	assert.Equal(t, "_rels/.rels", RelsPath(""))
	assert.Equal(t, "ppt/slideLayouts/slideLayout2.xml", ResolveTarget("ppt/slides/slide1.xml", "../slideLayouts/slideLayout2.xml"))
	assert.Equal(t, "ppt/slides/slide3.xml", ResolveTarget("ppt/presentation.xml", "slides/slide3.xml"))
	assert.Equal(t, "word/document.xml", ResolveTarget("", "/word/document.xml"))
	assert.Equal(t, "../media/image1.png", RelativeTarget("ppt/slides/slide1.xml", "ppt/media/image1.png"))
	assert.Equal(t, "slides/slide2.xml", RelativeTarget("ppt/presentation.xml", "ppt/slides/slide2.xml"))
	assert.Equal(t, "media/image1.png", RelativeTarget("word/document.xml", "word/media/image1.png"))
}
