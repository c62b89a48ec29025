package tags

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bodies(ts []Tag) [][2]string {
	out := make([][2]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, [2]string{string(t.Kind), t.Body})
	}
	return out
}

func TestScan(t *testing.T) {
	tests := []struct {
		name string
		text string
		want [][2]string
	}{
		{
			name: "source order with text between spans",
			text: "[TITLE]A[/TITLE]x[CONTENT]B[/CONTENT]",
			want: [][2]string{{"TITLE", "A"}, {"CONTENT", "B"}},
		},
		{
			name: "unmatched opening marker",
			text: "[TITLE]A",
			want: [][2]string{},
		},
		{
			name: "unmatched marker does not hide later spans",
			text: "[TITLE]A [CONTENT]B[/CONTENT]",
			want: [][2]string{{"CONTENT", "B"}},
		},
		{
			name: "empty body",
			text: "[HEADING][/HEADING]",
			want: [][2]string{{"HEADING", ""}},
		},
		{
			name: "close marker must repeat the name",
			text: "[TITLE]A[/SUBTITLE] [SUBTITLE]B[/SUBTITLE]",
			want: [][2]string{{"SUBTITLE", "B"}},
		},
		{
			name: "non-greedy per name",
			text: "[CONTENT]one[/CONTENT][CONTENT]two[/CONTENT]",
			want: [][2]string{{"CONTENT", "one"}, {"CONTENT", "two"}},
		},
		{
			name: "nested markers stay in the body",
			text: "[CONTENT]see [IMAGE]Cat[/IMAGE] here[/CONTENT][IMAGE]Dog[/IMAGE]",
			want: [][2]string{{"CONTENT", "see [IMAGE]Cat[/IMAGE] here"}, {"IMAGE", "Dog"}},
		},
		{
			name: "brackets that are not tags",
			text: "[CONTENT]array[0] and [note] and [/x][/CONTENT]",
			want: [][2]string{{"CONTENT", "array[0] and [note] and [/x]"}},
		},
		{
			name: "case sensitive",
			text: "[title]A[/title][Title]B[/Title]",
			want: [][2]string{},
		},
		{
			name: "unknown names are ignored",
			text: "[L_TS][FOO]x[/FOO][TITLE]T[/TITLE]",
			want: [][2]string{{"TITLE", "T"}},
		},
		{
			name: "multiline body",
			text: "[CONTENT]line 1\nline 2\n[/CONTENT]",
			want: [][2]string{{"CONTENT", "line 1\nline 2\n"}},
		},
		{
			name: "no tags",
			text: "plain text",
			want: [][2]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bodies(Scan(tt.text)))
		})
	}
}

func TestScanOffsets(t *testing.T) {
	text := "xx[TITLE]A[/TITLE] [IMAGE]B[/IMAGE]"
	got := Scan(text)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].Offset)
	assert.True(t, strings.HasPrefix(text[got[1].Offset:], "[IMAGE]"))
}

func TestScanIdempotentOverBodies(t *testing.T) {
	text := "[TITLE]T[/TITLE][CONTENT]plain [a] text[/CONTENT][HEADING]H[/HEADING]"
	var joined strings.Builder
	for _, tg := range Scan(text) {
		joined.WriteString(tg.Body)
	}
	assert.Empty(t, Scan(joined.String()))
}

func TestScanKindFindsNestedSpans(t *testing.T) {
	text := "[CONTENT]a [IMAGE]Cat[/IMAGE] b[/CONTENT]"
	got := ScanKind(text, Image)
	require.Len(t, got, 1)
	assert.Equal(t, "Cat", got[0].Body)
}

func TestFirst(t *testing.T) {
	ts := Scan("[HEADING]h[/HEADING][TITLE]one[/TITLE][TITLE]two[/TITLE]")
	got, ok := First(ts, Title)
	assert.True(t, ok)
	assert.Equal(t, "one", got)

	_, ok = First(ts, Subtitle)
	assert.False(t, ok)
}

func TestExtractConcatenates(t *testing.T) {
	assert.Equal(t, "AB", Extract("[TITLE]A[/TITLE] junk [TITLE]B[/TITLE]", Title))
	assert.Equal(t, "", Extract("[TITLE]A", Title))
}

func TestStripImages(t *testing.T) {
	assert.Equal(t, "before  after", StripImages("before [IMAGE]x[/IMAGE] after"))
	assert.Equal(t, "ab", StripImages("a[IMAGE][/IMAGE]b[IMAGE]y[/IMAGE]"))
	assert.Equal(t, "no images", StripImages("no images"))
	assert.Equal(t, "dangling [IMAGE] marker", StripImages("dangling [IMAGE] marker"))
}
