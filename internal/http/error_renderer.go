package httpx

import (
	"context"
	"errors"
	"net/http"

	apperrors "github.com/esm-labs/paddock/internal/errors"
)

const errMsgFixBelow = "Please fix the errors below."

// ErrorRenderer is a function that renders a page with the given data.
type ErrorRenderer func(w http.ResponseWriter, r *http.Request, data any)

// ErrorOpts contains all options needed to render an error response on a form page.
type ErrorOpts struct {
	W http.ResponseWriter
	R *http.Request
	// Err is the error that occurred (optional, can be nil if only field errors)
	Err error
	// Fallback is shown when Err carries no user-facing message.
	Fallback    string
	FieldErrors map[string]string
	Renderer    ErrorRenderer
	PageMeta    PageMeta
	// Data preserves form values and other page data across the re-render.
	Data map[string]any
	// StatusCode overrides DetermineErrorStatus when non-zero.
	StatusCode int
}

// DetermineErrorStatus maps an error to the status of the re-rendered page.
// Validation and server errors re-render the form with 200 so htmx swaps the
// response; missing and conflicting records keep their own status.
func DetermineErrorStatus(err error) int {
	switch {
	case err == nil:
		return 0
	case apperrors.IsNotFound(err):
		return http.StatusNotFound
	case apperrors.IsConflict(err):
		return http.StatusConflict
	case apperrors.IsUnavailable(err):
		return http.StatusServiceUnavailable
	default:
		return 0
	}
}

// RenderError re-renders a form page with a general message and field errors.
func RenderError(opts ErrorOpts) {
	if opts.Renderer == nil {
		http.Error(opts.W, "misconfigured error renderer", http.StatusInternalServerError)
		return
	}

	builder := NewTemplateData(opts.R, opts.PageMeta)

	generalError := processError(opts.Err, opts.Fallback, &opts.FieldErrors)
	if len(opts.FieldErrors) > 0 {
		builder.WithFieldErrors(opts.FieldErrors)
	}
	if generalError != "" {
		builder.WithError(generalError)
	} else if len(opts.FieldErrors) > 0 {
		builder.WithError(errMsgFixBelow)
	}

	for k, v := range opts.Data {
		builder.With(k, v)
	}

	status := opts.StatusCode
	if status == 0 {
		status = DetermineErrorStatus(opts.Err)
	}
	if status != 0 {
		opts.W.Header().Set("Content-Type", "text/html; charset=utf-8")
		opts.W.WriteHeader(status)
	}

	opts.Renderer(opts.W, opts.R, builder.Build())
}

// processError returns the general message for err and moves field-scoped
// validation errors into fieldErrors. Returns empty string if err is nil.
func processError(err error, fallback string, fieldErrors *map[string]string) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "Request timed out. Please try again."
	}
	if errors.Is(err, context.Canceled) {
		return "Request was canceled."
	}

	if fallback == "" {
		fallback = "An error occurred. Please try again."
	}
	msg := apperrors.UserMessage(err, fallback)

	if field := apperrors.GetField(err); field != "" && fieldErrors != nil && apperrors.IsValidation(err) {
		if *fieldErrors == nil {
			*fieldErrors = make(map[string]string)
		}
		(*fieldErrors)[field] = msg
		return errMsgFixBelow
	}
	return msg
}
