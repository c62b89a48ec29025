package generator

import (
	"context"
	"fmt"
	"strings"
)

// MockLLM 一个简单的占位实现，便于本地调试，不调用外部模型。
// 输出遵循提示词中的标签格式，可直接交给 assembler。
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (Completion, error) {
	topic := strings.TrimSpace(prompt.Topic)
	if topic == "" {
		topic = "Sample Topic"
	}
	var text string
	if prompt.Kind == KindDeck {
		text = mockDeck(topic)
	} else {
		text = mockOutline(topic)
	}
	return Completion{Text: text, TotalTokens: int64(len(strings.Fields(prompt.User)) + len(strings.Fields(text)))}, nil
}

func mockOutline(topic string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[TITLE]%s[/TITLE]\n", topic)
	fmt.Fprintf(&sb, "[SUBTITLE]An introduction to %s[/SUBTITLE]\n", topic)
	sb.WriteString("[HEADING]Background[/HEADING]\n")
	fmt.Fprintf(&sb, "[CONTENT]%s has a long history worth reviewing.\nThis section summarizes it.[/CONTENT]\n", topic)
	fmt.Fprintf(&sb, "[IMAGE]%s overview[/IMAGE]\n", topic)
	sb.WriteString("[HEADING]Conclusion[/HEADING]\n")
	sb.WriteString("[CONTENT]Key points and next steps.[/CONTENT]\n")
	return sb.String()
}

func mockDeck(topic string) string {
	slides := []string{
		fmt.Sprintf("[L_TS]\n[TITLE]%s[/TITLE]\n[SUBTITLE]An overview[/SUBTITLE]", topic),
		"[L_CS]\n[TITLE]Agenda[/TITLE]\n[CONTENT]1. Background\n2. Details\n3. Summary[/CONTENT]",
		fmt.Sprintf("[L_IS]\n[TITLE]In Pictures[/TITLE]\n[CONTENT]A visual look at %s.[/CONTENT]\n[IMAGE]%s landscape[/IMAGE]", topic, topic),
		"[L_THS]\n[TITLE]Thank You[/TITLE]",
	}
	return strings.Join(slides, "\n\n[SLIDEBREAK]\n\n") + "\n\n[SLIDEBREAK]\n"
}
