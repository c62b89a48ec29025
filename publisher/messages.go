package publisher

import (
	"errors"

	"auto_presentation_generator/assembler"
	"auto_presentation_generator/generator"
)

// 面向最终用户的提示，不暴露内部错误细节。
const (
	MsgCheckInput = "Check the inserted data and input the topic again."
	MsgOverloaded = "The system is currently overloaded. Please try again."
	MsgTooLarge   = "Your request is too big. Reduce the scope and try again."
	MsgGeneric    = "Some error happened. Please try again."
)

// UserMessage maps err to the text shown to the person who asked for the
// document. Validation errors are already user-facing and pass through.
func UserMessage(err error) string {
	var ve *generator.ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return ve.Error()
	case errors.Is(err, assembler.ErrEmptyResponse), errors.Is(err, assembler.ErrMissingTitle):
		return MsgCheckInput
	case errors.Is(err, generator.ErrBackendOverloaded):
		return MsgOverloaded
	case errors.Is(err, generator.ErrBackendRequestTooLarge):
		return MsgTooLarge
	}
	return MsgGeneric
}
