package apiclient

import (
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	apperrors "github.com/esm-labs/paddock/internal/errors"
)

// errorBody is the backend error envelope. Detail is a string for handled
// errors and a list of field errors for request validation failures.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type fieldError struct {
	Msg string `json:"msg"`
}

// Detail extracts the human-readable detail message from a backend error body.
func Detail(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(eb.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var list []fieldError
	if err := json.Unmarshal(eb.Detail, &list); err == nil {
		msgs := make([]string, 0, len(list))
		for _, fe := range list {
			if m := strings.TrimSpace(fe.Msg); m != "" {
				msgs = append(msgs, m)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

// statusError maps a non-2xx response onto the application error taxonomy.
func statusError(resp *Response) *apperrors.AppError {
	detail := Detail(resp.Body)
	switch resp.Status {
	case http.StatusUnauthorized:
		return apperrors.Unauthorized(fallback(detail, "Your session has expired, please log in again"))
	case http.StatusNotFound:
		return apperrors.NotFound(fallback(detail, "Not found"))
	case http.StatusConflict:
		err := apperrors.Conflict(fallback(detail, "Conflict"))
		err.Status = resp.Status
		return err
	default:
		return apperrors.Server(resp.Status, detail)
	}
}

func fallback(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
