// Package errors reduces backend failures to a small set of metric label values.
package errors

import (
	"context"
	goerrors "errors"
	"net"
	"reflect"
	"strings"

	"github.com/sony/gobreaker/v2"

	apperrors "github.com/esm-labs/paddock/internal/errors"
)

// Transport-level classes reported ahead of application codes.
const (
	ClassTimeout     = "timeout"
	ClassCanceled    = "canceled"
	ClassCircuitOpen = "circuit_open"
	ClassNetwork     = "network"
	classUnknown     = "unknown"
)

// Classify returns a normalized error class suitable for tagging metrics/logs.
// Transport causes win over the application code wrapping them, so an
// unavailable error reports whether the breaker, a timeout or the network
// was behind it. Anything unrecognised reports its innermost concrete type.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	if class := transportClass(err); class != "" {
		return class
	}
	if code := apperrors.GetCode(err); code != "" {
		return string(code)
	}
	return typeName(err)
}

func transportClass(err error) string {
	switch {
	case goerrors.Is(err, gobreaker.ErrOpenState), goerrors.Is(err, gobreaker.ErrTooManyRequests):
		return ClassCircuitOpen
	case goerrors.Is(err, context.DeadlineExceeded):
		return ClassTimeout
	case goerrors.Is(err, context.Canceled):
		return ClassCanceled
	}
	var netErr net.Error
	if goerrors.As(err, &netErr) {
		if netErr.Timeout() {
			return ClassTimeout
		}
		return ClassNetwork
	}
	return ""
}

func typeName(err error) string {
	for {
		unwrapped := goerrors.Unwrap(err)
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return classUnknown
	}

	name := strings.ToLower(strings.ReplaceAll(t.String(), ".", "_"))
	if name == "" {
		return classUnknown
	}
	return name
}
