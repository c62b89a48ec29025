package imagesearch

import "strings"

// filterShorthands maps caller shorthands to Bing "qft" filter syntax.
var filterShorthands = map[string]string{
	"line":        "+filterui:photo-linedrawing",
	"linedrawing": "+filterui:photo-linedrawing",
	"photo":       "+filterui:photo-photo",
	"clipart":     "+filterui:photo-clipart",
	"gif":         "+filterui:photo-animatedgif",
	"animatedgif": "+filterui:photo-animatedgif",
	"transparent": "+filterui:photo-transparent",
	"wide":        "+filterui:aspect-wide",
	"wallpaper":   "+filterui:imagesize-wallpaper",
	"large":       "+filterui:imagesize-large",
}

// ResolveFilter translates a comma-separated list of shorthands into the
// backend filter string. Unknown entries are passed through unchanged.
func ResolveFilter(shorthand string) string {
	var b strings.Builder
	for _, part := range strings.Split(shorthand, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if native, ok := filterShorthands[strings.ToLower(part)]; ok {
			b.WriteString(native)
			continue
		}
		b.WriteString(part)
	}
	return b.String()
}
