package generator

import (
	"context"
	"errors"
)

// Agent 负责根据 Spec 生成带标签的模型输出。
type Agent struct {
	llm LLMClient
}

func NewAgent(llm LLMClient) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	return &Agent{llm: llm}, nil
}

// Generate validates spec, asks the model once and normalizes the text.
// Backend failures come back wrapped in one of the ErrBackend* sentinels.
func (a *Agent) Generate(ctx context.Context, spec Spec) (Completion, error) {
	if err := spec.Validate(); err != nil {
		return Completion{}, err
	}
	out, err := a.llm.Complete(ctx, BuildPrompt(spec))
	if err != nil {
		return Completion{}, err
	}
	out.Text = PostProcess(out.Text)
	return out, nil
}
