package generator

import (
	"context"
	"time"
)

// LLMClient 抽象大模型客户端，便于替换/Mock。
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (Completion, error)
}

const (
	DefaultTemperature = 0.75
	DefaultMaxTokens   = 3072
	DefaultLLMTimeout  = 3 * time.Minute
)

// LLMSettings 提供给具体实现的基础配置。
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	// 以下为零值时使用默认值。
	Temperature float64
	MaxTokens   int64
	Timeout     time.Duration
}

func (s *LLMSettings) withDefaults() LLMSettings {
	out := *s
	if out.Temperature <= 0 {
		out.Temperature = DefaultTemperature
	}
	if out.MaxTokens <= 0 {
		out.MaxTokens = DefaultMaxTokens
	}
	if out.Timeout <= 0 {
		out.Timeout = DefaultLLMTimeout
	}
	return out
}
