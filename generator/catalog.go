package generator

import "strings"

const (
	MinSlides     = 3
	MaxSlides     = 26
	MaxTopicRunes = 500

	DefaultLanguage = "English"
	DefaultStyle    = "Informative"
	DefaultTemplate = "Academic"
	DefaultSlides   = 10
)

// Languages 可选的输出语言。
var Languages = []string{
	"English", "Russian", "German", "French", "Italian", "Spanish", "Ukrainian", "Polish",
	"Turkish", "Romanian", "Dutch", "Greek", "Czech", "Portuguese", "Swedish", "Hungarian",
	"Serbian", "Bulgarian", "Danish", "Norwegian", "Finnish", "Slovak", "Croatian", "Arabic",
	"Hebrew", "Lithuanian", "Slovenian", "Bengali", "Chinese", "Persian", "Indonesian", "Latvian",
	"Tamil", "Japanese", "Estonian", "Telugu", "Korean", "Thai", "Icelandic", "Vietnamese",
}

// Styles 是文档的风格（原始称呼 type）。
var Styles = []string{
	"Fun", "Serious", "Creative", "Informative", "Inspirational", "Motivational", "Educational",
	"Historical", "Romantic", "Mysterious", "Relaxing", "Adventurous", "Humorous", "Scientific",
	"Musical", "Horror", "Fantasy", "Action", "Dramatic", "Satirical", "Poetic", "Thriller",
	"Sports", "Comedy", "Biographical", "Political", "Magical", "Mystery", "Travel", "Documentary",
	"Crime", "Cooking",
}

// Templates 幻灯片模板目录。
var Templates = []string{
	"Mountains", "Organic", "East Asia", "Explore", "3D Float", "Luminous", "Academic", "Snowflake",
}

// SlideCounts returns the selectable slide counts in order.
func SlideCounts() []int {
	out := make([]int, 0, MaxSlides-MinSlides+1)
	for n := MinSlides; n <= MaxSlides; n++ {
		out = append(out, n)
	}
	return out
}

// lookup matches case-insensitively and returns the canonical spelling.
func lookup(list []string, v string) (string, bool) {
	v = strings.TrimSpace(v)
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return item, true
		}
	}
	return "", false
}
