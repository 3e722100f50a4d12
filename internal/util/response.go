package util

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/fadilmartias/job-matcher/internal/apperror"
	"github.com/fadilmartias/job-matcher/internal/config"
	"github.com/fadilmartias/job-matcher/internal/response"
	"github.com/gofiber/fiber/v2"
)

type SuccessResponseFormat struct {
	Code       int
	Message    string
	Data       any
	Pagination *response.Pagination
	Meta       any
}

type OrderedSuccessResponse struct {
	Success    bool                 `json:"success"`
	Message    string               `json:"message"`
	Meta       any                  `json:"meta,omitempty"`
	Pagination *response.Pagination `json:"pagination,omitempty"`
	Data       any                  `json:"data"`
}

type ErrorResponseFormat struct {
	Code       int
	Message    string
	DevMessage string
	Details    any
	Trace      string
}

type OrderedErrorResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	DevMessage string `json:"dev_message,omitempty"`
	Details    any    `json:"details,omitempty"`
	Trace      string `json:"trace,omitempty"`
}

type FormError struct {
	Errors  map[string]string
	Message string
}

func (e *FormError) Error() string {
	return fmt.Sprintf("form error: %s", e.Message)
}

func NewFormError(message string, errors map[string]string) *FormError {
	return &FormError{
		Message: message,
		Errors:  errors,
	}
}

// SuccessResponse writes the standard success envelope.
func SuccessResponse(c *fiber.Ctx, params SuccessResponseFormat) error {
	code := params.Code
	if code == 0 {
		code = fiber.StatusOK
	}
	response := OrderedSuccessResponse{
		Success:    true,
		Message:    params.Message,
		Data:       params.Data,
		Pagination: params.Pagination,
		Meta:       params.Meta,
	}
	return c.Status(code).JSON(response)
}

// ErrorResponse writes the standard error envelope. Outside production the
// first error's text and a stack trace are included for debugging.
func ErrorResponse(c *fiber.Ctx, params ErrorResponseFormat, errs ...error) error {
	response := OrderedErrorResponse{
		Success: false,
		Message: params.Message,
	}
	if params.Details != nil {
		response.Details = params.Details
	}
	if !config.LoadAppConfig().IsProduction() {
		if len(errs) > 0 && errs[0] != nil {
			response.DevMessage = errs[0].Error()
			response.Trace = string(debug.Stack())
		}

		if params.DevMessage != "" {
			response.DevMessage = params.DevMessage
		}
		if params.Trace != "" {
			response.Trace = params.Trace
		}
	}

	errorCode := params.Code
	if params.Code == 0 {
		errorCode = fiber.StatusInternalServerError
	}
	return c.Status(errorCode).JSON(response)
}

// ErrorFrom maps err onto a status code and client message and writes the
// error envelope. fallback is the message used for unexpected errors.
func ErrorFrom(c *fiber.Ctx, err error, fallback string) error {
	params := ErrorResponseFormat{Code: fiber.StatusInternalServerError, Message: fallback}

	var formErr *FormError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &formErr):
		params.Code = fiber.StatusBadRequest
		params.Message = formErr.Message
		if len(formErr.Errors) > 0 {
			params.Details = formErr.Errors
		}
	case errors.Is(err, apperror.ErrCorpusNotReady):
		params.Code = fiber.StatusServiceUnavailable
		params.Message = "Job data not loaded yet"
	case errors.Is(err, apperror.ErrQueryEmbedding):
		params.Code = fiber.StatusBadGateway
		params.Message = "Could not process the match query"
	case errors.Is(err, apperror.ErrNotFound):
		params.Code = fiber.StatusNotFound
		params.Message = err.Error()
	case errors.As(err, &fiberErr):
		params.Code = fiberErr.Code
		params.Message = fiberErr.Message
	}
	return ErrorResponse(c, params, err)
}
