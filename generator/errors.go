package generator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/openai/openai-go"
)

var (
	// ErrBackendOverloaded means the model provider is rate limiting us.
	ErrBackendOverloaded = errors.New("language model backend is overloaded")
	// ErrBackendRequestTooLarge means the prompt or requested output exceeds
	// what the model accepts.
	ErrBackendRequestTooLarge = errors.New("request too large for the language model")
	// ErrBackendTransport covers every other provider or network failure.
	ErrBackendTransport = errors.New("language model backend failed")
)

// classify maps an SDK error onto one of the backend sentinels. The original
// error stays in the chain for logging.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %w", ErrBackendOverloaded, err)
		case apiErr.StatusCode == http.StatusRequestEntityTooLarge,
			strings.Contains(apiErr.Code, "context_length"),
			apiErr.StatusCode == http.StatusBadRequest:
			return fmt.Errorf("%w: %w", ErrBackendRequestTooLarge, err)
		}
	}
	return fmt.Errorf("%w: %w", ErrBackendTransport, err)
}
