package generator

import (
	"errors"
	"fmt"
	"strings"
)

// Kind 选择生成的文档类型。
type Kind string

const (
	KindOutline Kind = "outline"
	KindDeck    Kind = "deck"
)

// ParseKind accepts outline/deck (大小写不敏感)。
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindOutline:
		return KindOutline, nil
	case KindDeck:
		return KindDeck, nil
	}
	return "", &ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown document kind %q", s)}
}

// Spec describes the document to generate. 除 Topic 外的字段只用于拼装提示词。
type Spec struct {
	Kind     Kind
	Topic    string
	Language string
	Style    string
	// Slides 和 Template 仅对 deck 有效。
	Slides   int
	Template string
}

// ErrInvalidSpec is wrapped by every ValidationError.
var ErrInvalidSpec = errors.New("invalid request")

// ValidationError names the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidSpec }

// Validate checks the spec against the catalogs and fills defaults
// (English, Informative, Academic template, 10 slides).
func (s *Spec) Validate() error {
	if s.Kind == "" {
		s.Kind = KindOutline
	}
	if s.Kind != KindOutline && s.Kind != KindDeck {
		return &ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown document kind %q", s.Kind)}
	}
	s.Topic = strings.TrimSpace(s.Topic)
	if s.Topic == "" {
		return &ValidationError{Field: "topic", Reason: "must not be empty"}
	}
	if len([]rune(s.Topic)) > MaxTopicRunes {
		return &ValidationError{Field: "topic", Reason: fmt.Sprintf("longer than %d characters", MaxTopicRunes)}
	}

	if s.Language == "" {
		s.Language = DefaultLanguage
	}
	lang, ok := lookup(Languages, s.Language)
	if !ok {
		return &ValidationError{Field: "language", Reason: fmt.Sprintf("%q is not supported", s.Language)}
	}
	s.Language = lang

	if s.Style == "" {
		s.Style = DefaultStyle
	}
	style, ok := lookup(Styles, s.Style)
	if !ok {
		return &ValidationError{Field: "style", Reason: fmt.Sprintf("%q is not supported", s.Style)}
	}
	s.Style = style

	if s.Kind == KindOutline {
		return nil
	}
	if s.Slides == 0 {
		s.Slides = DefaultSlides
	}
	if s.Slides < MinSlides || s.Slides > MaxSlides {
		return &ValidationError{Field: "slides", Reason: fmt.Sprintf("must be between %d and %d", MinSlides, MaxSlides)}
	}
	if s.Template == "" {
		s.Template = DefaultTemplate
	}
	tpl, ok := lookup(Templates, s.Template)
	if !ok {
		return &ValidationError{Field: "template", Reason: fmt.Sprintf("%q is not in the catalog", s.Template)}
	}
	s.Template = tpl
	return nil
}

// Completion is the model output plus usage for caller-side accounting.
type Completion struct {
	Text        string
	TotalTokens int64
}
