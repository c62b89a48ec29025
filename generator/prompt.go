package generator

import (
	"fmt"
	"strings"
)

// Prompt 表示发送给 LLM 的消息集合。
type Prompt struct {
	System  string
	User    string
	History []Message
	// Kind 和 Topic 不发送给模型，仅供 Mock 与日志使用。
	Kind  Kind
	Topic string
}

// Message 用于少量历史（可选）。
type Message struct {
	Role    string
	Content string
}

const systemPrompt = "You write structured documents using only the bracket tags you are given. " +
	"Never add commentary outside the tags."

// BuildPrompt dispatches on spec.Kind.
func BuildPrompt(spec Spec) Prompt {
	if spec.Kind == KindDeck {
		return BuildDeckPrompt(spec)
	}
	return BuildOutlinePrompt(spec)
}

// BuildOutlinePrompt 生成长篇大纲（docx）的提示词。
func BuildOutlinePrompt(spec Spec) Prompt {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Create an %s language very long outline for a %s research paper on the topic of %s which is long as much as possible.\n",
		spec.Language, spec.Style, spec.Topic)
	fmt.Fprintf(&sb, "Language of research paper - %s.\n", spec.Language)
	sb.WriteString("Provide as much information as possible.\n\n")
	writeTagRules(&sb, "Title", "Subtitle", "Heading", "Content", "Image")
	sb.WriteString("\nElaborate on the Content, provide as much information as possible.\n")
	sb.WriteString("You put a [/CONTENT] at the end of the Content.\n")
	sb.WriteString("Do not put a tag before ending previous.\n\n")
	sb.WriteString("For example:\n")
	sb.WriteString("[TITLE]Mental Health[/TITLE]\n")
	sb.WriteString("[SUBTITLE]Understanding and Nurturing Your Mind: A Guide to Mental Health[/SUBTITLE]\n")
	sb.WriteString("[HEADING]Mental Health Definition[/HEADING]\n")
	sb.WriteString("[CONTENT]...[/CONTENT]\n")
	sb.WriteString("[IMAGE]Person Meditating[/IMAGE]\n\n")
	fmt.Fprintf(&sb, "Pay attention to the language of research paper - %s.\n", spec.Language)
	sb.WriteString("Each image should be described in general by a set of keywords, such as \"Mount Everest Sunset\" or \"Niagara Falls Rainbow\".\n")
	sb.WriteString("Do not reply as if you are talking about the research paper itself. (ex. \"Include pictures here about...\")\n")
	writeClosingRules(&sb)

	return Prompt{System: systemPrompt, User: sb.String(), Kind: KindOutline, Topic: spec.Topic}
}

// BuildDeckPrompt 生成幻灯片（pptx）的提示词。
func BuildDeckPrompt(spec Spec) Prompt {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Create an %s language outline for a %s slideshow presentation on the topic of %s which is %d slides long.\n\n",
		spec.Language, spec.Style, spec.Topic, spec.Slides)
	sb.WriteString("You are allowed to use the following slide types:\n\n")
	sb.WriteString("Slide types:\n")
	sb.WriteString("Title Slide - (Title, Subtitle)\n")
	sb.WriteString("Content Slide - (Title, Content)\n")
	sb.WriteString("Image Slide - (Title, Content, Image)\n")
	sb.WriteString("Thanks Slide - (Title)\n\n")
	sb.WriteString("Put this tag before the Title Slide: [L_TS]\n")
	sb.WriteString("Put this tag before the Content Slide: [L_CS]\n")
	sb.WriteString("Put this tag before the Image Slide: [L_IS]\n")
	sb.WriteString("Put this tag before the Thanks Slide: [L_THS]\n\n")
	sb.WriteString("Put \"[SLIDEBREAK]\" after each slide\n\n")
	sb.WriteString("For example:\n")
	sb.WriteString("[L_TS]\n[TITLE]Mental Health[/TITLE]\n\n[SLIDEBREAK]\n\n")
	sb.WriteString("[L_CS]\n[TITLE]Mental Health Definition[/TITLE]\n")
	sb.WriteString("[CONTENT]1. Definition: A person's condition with regard to their psychological and emotional well-being\n")
	sb.WriteString("2. Can impact one's physical health\n3. Stigmatized too often.[/CONTENT]\n\n[SLIDEBREAK]\n\n")
	writeTagRules(&sb, "Title", "Subtitle", "Content", "Image")
	sb.WriteString("\nElaborate on the Content, provide as much information as possible.\n")
	sb.WriteString("You put a [/CONTENT] at the end of the Content.\n")
	fmt.Fprintf(&sb, "Pay attention to the language of presentation - %s.\n", spec.Language)
	sb.WriteString("Do not reply as if you are talking about the slideshow itself. (ex. \"Include pictures here about...\")\n")
	sb.WriteString("Do not write something like: \"Include image here\" in the Image, specify each image.\n")
	sb.WriteString("Do not write URL to the Image.\n")
	sb.WriteString("Do not include more than 350 symbols in Content tag of [L_IS] slide.\n")
	sb.WriteString("Do not include more than 550 symbols in Content tag of [L_CS] slide.\n")
	writeClosingRules(&sb)

	return Prompt{System: systemPrompt, User: sb.String(), Kind: KindDeck, Topic: spec.Topic}
}

func writeTagRules(sb *strings.Builder, names ...string) {
	for _, n := range names {
		tag := strings.ToUpper(n)
		fmt.Fprintf(sb, "Put this tag before the %s: [%s]\n", n, tag)
		fmt.Fprintf(sb, "Put this tag after the %s: [/%s]\n", n, tag)
	}
}

func writeClosingRules(sb *strings.Builder) {
	sb.WriteString("Do not include any special characters (?, !, ., :, ) in the Title.\n")
	sb.WriteString("Do not include any additional information in your response and stick to the format.")
}
