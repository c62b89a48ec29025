package server

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"auto_presentation_generator/assembler"
	"auto_presentation_generator/generator"
	"auto_presentation_generator/logger"
	"auto_presentation_generator/publisher"
)

type outlineReq struct {
	Topic    string `json:"topic"`
	Language string `json:"language"`
	Style    string `json:"style"`
}

type deckReq struct {
	Topic    string `json:"topic"`
	Language string `json:"language"`
	Style    string `json:"style"`
	Slides   int    `json:"slides"`
	Template string `json:"template"`
}

type renderReq struct {
	Kind     string `json:"kind"`
	Text     string `json:"text"`
	Template string `json:"template"`
}

type catalogResp struct {
	Languages []string `json:"languages"`
	Styles    []string `json:"styles"`
	Templates []string `json:"templates"`
	Slides    []int    `json:"slides"`
}

type errorResp struct {
	Error     string `json:"error"`
	Reason    string `json:"reason"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, catalogResp{
		Languages: generator.Languages,
		Styles:    generator.Styles,
		Templates: generator.Templates,
		Slides:    generator.SlideCounts(),
	})
}

func (s *Server) handleOutline(c *gin.Context) {
	var req outlineReq
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	s.generate(c, generator.Spec{
		Kind:     generator.KindOutline,
		Topic:    req.Topic,
		Language: req.Language,
		Style:    req.Style,
	})
}

func (s *Server) handleDeck(c *gin.Context) {
	var req deckReq
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	s.generate(c, generator.Spec{
		Kind:     generator.KindDeck,
		Topic:    req.Topic,
		Language: req.Language,
		Style:    req.Style,
		Slides:   req.Slides,
		Template: req.Template,
	})
}

func (s *Server) generate(c *gin.Context, spec generator.Spec) {
	ctx, release := s.begin(c)
	defer release()

	res, err := s.pub.Generate(ctx, spec)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header(headerTokens, strconv.FormatInt(res.Tokens, 10))
	s.attach(c, res)
}

func (s *Server) handleRender(c *gin.Context) {
	var req renderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	kind, err := generator.ParseKind(req.Kind)
	if err != nil {
		s.fail(c, err)
		return
	}
	ctx, release := s.begin(c)
	defer release()

	res, err := s.pub.Render(ctx, kind, req.Text, req.Template)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.attach(c, res)
}

func (s *Server) handlePreview(c *gin.Context) {
	var req renderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	kind, err := generator.ParseKind(req.Kind)
	if err != nil {
		s.fail(c, err)
		return
	}
	html, err := publisher.RenderPreview(kind, req.Text)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// begin registers the request under its client id and applies the timeout.
func (s *Server) begin(c *gin.Context) (context.Context, func()) {
	ctx, release := s.inflight.begin(c.Request.Context(), c.GetHeader(headerClientID))
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	return ctx, func() {
		cancel()
		release()
	}
}

func (s *Server) attach(c *gin.Context, res *publisher.Result) {
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.Filename}))
	if res.Slides > 0 {
		c.Header("X-Slide-Count", strconv.Itoa(res.Slides))
	}
	c.Data(http.StatusOK, res.ContentType, res.Data)
}

func (s *Server) badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, errorResp{
		Error:     "malformed request body",
		Reason:    "invalid",
		RequestID: c.GetString(ctxRequestID),
	})
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	} else {
		s.log.Debug("request rejected",
			logger.String("request_id", c.GetString(ctxRequestID)),
			logger.Error(err))
	}
	c.JSON(status, errorResp{
		Error:     publisher.UserMessage(err),
		Reason:    publisher.Reason(err),
		RequestID: c.GetString(ctxRequestID),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, generator.ErrInvalidSpec):
		return http.StatusBadRequest
	case errors.Is(err, assembler.ErrEmptyResponse), errors.Is(err, assembler.ErrMissingTitle):
		return http.StatusUnprocessableEntity
	case errors.Is(err, generator.ErrBackendRequestTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, generator.ErrBackendOverloaded):
		return http.StatusServiceUnavailable
	case errors.Is(err, generator.ErrBackendTransport):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled):
		// superseded by a newer request from the same client
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}
