package publisher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"auto_presentation_generator/assembler"
	"auto_presentation_generator/generator"
	"auto_presentation_generator/logger"
	"auto_presentation_generator/metrics"
)

// Result is a finished document plus the tokens spent producing it.
type Result struct {
	Data        []byte
	Filename    string
	ContentType string
	Slides      int
	Tokens      int64
}

// Publisher orchestrates completion, assembly and serialization.
type Publisher struct {
	agent     *generator.Agent
	asm       *assembler.Assembler
	templates *Templates
	logger    logger.Logger
	metrics   *metrics.Metrics
}

// New creates a Publisher. agent may be nil when only Render is used.
func New(agent *generator.Agent, asm *assembler.Assembler, templates *Templates, log logger.Logger, m *metrics.Metrics) (*Publisher, error) {
	if asm == nil {
		return nil, errors.New("assembler is required")
	}
	if templates == nil {
		templates = NewTemplates("")
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Publisher{agent: agent, asm: asm, templates: templates, logger: log, metrics: m}, nil
}

// Generate asks the model for a tagged completion and turns it into a
// document. A backend failure aborts before anything is assembled.
func (p *Publisher) Generate(ctx context.Context, spec generator.Spec) (*Result, error) {
	if p.agent == nil {
		return nil, errors.New("publisher has no completion backend")
	}
	if err := spec.Validate(); err != nil {
		p.metrics.RecordFailure(string(spec.Kind), Reason(err))
		return nil, err
	}
	log := p.logger.With(
		logger.String("kind", string(spec.Kind)),
		logger.String("topic", spec.Topic))
	start := time.Now()

	log.Info("requesting completion",
		logger.String("language", spec.Language),
		logger.String("style", spec.Style),
		logger.Int("slides", spec.Slides))
	comp, err := p.agent.Generate(ctx, spec)
	if err != nil {
		p.metrics.RecordFailure(string(spec.Kind), Reason(err))
		log.Error("completion failed", logger.Error(err))
		return nil, err
	}
	log.Debug("completion received",
		logger.Int64("tokens", comp.TotalTokens),
		logger.Int("chars", len(comp.Text)))

	res, err := p.assemble(ctx, spec.Kind, comp.Text, spec.Template)
	if err != nil {
		p.metrics.RecordFailure(string(spec.Kind), Reason(err))
		log.Warn("assembly failed", logger.Error(err))
		return nil, err
	}
	res.Tokens = comp.TotalTokens
	elapsed := time.Since(start)
	p.metrics.RecordDocument(string(spec.Kind), elapsed, comp.TotalTokens)
	log.Info("document generated",
		logger.String("filename", res.Filename),
		logger.Int("bytes", len(res.Data)),
		logger.Duration("elapsed", elapsed))
	return res, nil
}

// Render assembles an existing completion text without calling the model.
func (p *Publisher) Render(ctx context.Context, kind generator.Kind, text, template string) (*Result, error) {
	start := time.Now()
	res, err := p.assemble(ctx, kind, text, template)
	if err != nil {
		p.metrics.RecordFailure(string(kind), Reason(err))
		return nil, err
	}
	p.metrics.RecordDocument(string(kind), time.Since(start), 0)
	return res, nil
}

func (p *Publisher) assemble(ctx context.Context, kind generator.Kind, text, template string) (*Result, error) {
	var (
		out *assembler.Result
		err error
	)
	switch kind {
	case generator.KindOutline:
		out, err = p.asm.BuildOutline(ctx, text)
	case generator.KindDeck:
		tpl, terr := p.templates.Load(template)
		if terr != nil {
			return nil, terr
		}
		out, err = p.asm.BuildDeck(ctx, text, tpl)
	default:
		_, err = generator.ParseKind(string(kind))
	}
	if err != nil {
		return nil, err
	}
	return &Result{
		Data:        out.Data,
		Filename:    out.Filename,
		ContentType: out.ContentType,
		Slides:      out.Slides,
	}, nil
}

// Reason is a short label for err, used in metrics and logs.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, generator.ErrInvalidSpec):
		return "invalid"
	case errors.Is(err, assembler.ErrEmptyResponse):
		return "empty_response"
	case errors.Is(err, assembler.ErrMissingTitle):
		return "missing_title"
	case errors.Is(err, generator.ErrBackendOverloaded):
		return "overloaded"
	case errors.Is(err, generator.ErrBackendRequestTooLarge):
		return "too_large"
	case errors.Is(err, generator.ErrBackendTransport):
		return "backend"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	}
	return "internal"
}

func (r *Result) String() string {
	return fmt.Sprintf("%s (%d bytes)", r.Filename, len(r.Data))
}
