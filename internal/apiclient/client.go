// Package apiclient talks to the F1 statistics REST API.
//
// Every backend call goes through Client.Do, which resolves the bearer token
// from the caller's TokenSource at call time, applies the circuit breaker and
// maps non-2xx responses onto the application error taxonomy.
package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	apperrors "github.com/esm-labs/paddock/internal/errors"
	"github.com/esm-labs/paddock/internal/observability/metrics"
	"github.com/esm-labs/paddock/internal/ports"
)

const (
	defaultTimeout         = 10 * time.Second
	defaultBreakerFailures = 5
	defaultBreakerTimeout  = 30 * time.Second
	maxResponseBytes       = 4 << 20

	breakerName = "backend-api"
)

// Options configures a Client.
type Options struct {
	BaseURL string
	// Timeout bounds each request when HTTPClient is nil.
	Timeout time.Duration
	// BreakerFailures is the number of consecutive transport/5xx failures that opens the breaker.
	BreakerFailures uint32
	// BreakerTimeout is how long the breaker stays open before probing again.
	BreakerTimeout time.Duration
	HTTPClient     *http.Client
	Logger         *slog.Logger
}

// Client is the single authorized-fetch path to the backend.
type Client struct {
	base    *url.URL
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*Response]
	logger  *slog.Logger
}

// New builds a Client. BaseURL must be an absolute http(s) URL.
func New(opts Options) (*Client, error) {
	raw := strings.TrimSpace(opts.BaseURL)
	if raw == "" {
		return nil, errors.New("api base url is required")
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("api base url must be http or https, got %q", base.Scheme)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	failures := opts.BreakerFailures
	if failures == 0 {
		failures = defaultBreakerFailures
	}
	openFor := opts.BreakerTimeout
	if openFor <= 0 {
		openFor = defaultBreakerTimeout
	}

	c := &Client{base: base, http: hc, logger: opts.Logger}
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	c.breaker = gobreaker.NewCircuitBreaker[*Response](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     openFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// Only transport failures and 5xx count against the backend.
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			var ue *upstreamError
			return errors.As(err, &ue) && ue.clientFault()
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log().Warn("backend circuit breaker state change", "from", from.String(), "to", to.String())
			metrics.RecordBreakerTransition(name, from, to)
		},
	})
	return c, nil
}

func (c *Client) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}

// Request describes one backend call.
type Request struct {
	Method string
	// Path is relative to the base URL, e.g. "/auth/me".
	Path   string
	Query  url.Values
	Header http.Header
	// Body is JSON-encoded when non-nil.
	Body any
	// Endpoint labels metrics; defaults to Path. Set it when Path carries ids.
	Endpoint string
}

// Response is a fully read 2xx backend response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Decode unmarshals the JSON body into out.
func (r *Response) Decode(out any) error {
	if out == nil || len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, out); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "decode backend response")
	}
	return nil
}

// Do sends req with the bearer token resolved from ts (nil ts sends no token).
// Non-2xx responses come back as *errors.AppError; a 401 is reported as Unauthorized.
func (c *Client) Do(ctx context.Context, ts ports.TokenSource, req Request) (*Response, error) {
	token := ""
	if ts != nil {
		tok, err := ts.Token(ctx)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "resolve session token")
		}
		token = tok
	}

	httpReq, err := c.newHTTPRequest(ctx, req, token)
	if err != nil {
		return nil, err
	}

	endpoint := req.Endpoint
	if endpoint == "" {
		endpoint = req.Path
	}
	start := time.Now()
	resp, err := c.breaker.Execute(func() (*Response, error) {
		return c.roundTrip(httpReq)
	})
	status := 0
	if resp != nil {
		status = resp.Status
	}
	mapped := c.mapError(err)
	metrics.ObserveBackend(httpReq.Method, endpoint, status, time.Since(start), mapped)
	if mapped != nil {
		c.log().Debug("backend request failed",
			"method", httpReq.Method, "endpoint", endpoint, "status", status, "error", mapped)
		return nil, mapped
	}
	return resp, nil
}

func (c *Client) newHTTPRequest(ctx context.Context, req Request, token string) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	u := *c.base
	u.Path = c.base.Path + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode backend request")
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build backend request")
	}
	httpReq.Header = WithBearer(req.Header, token)
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	return httpReq, nil
}

func (c *Client) roundTrip(httpReq *http.Request) (*Response, error) {
	res, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &upstreamError{cause: err}
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return nil, &upstreamError{cause: fmt.Errorf("read response: %w", err)}
	}
	resp := &Response{Status: res.StatusCode, Header: res.Header, Body: data}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return resp, &upstreamError{resp: resp}
	}
	return resp, nil
}

// upstreamError carries either a transport failure or a non-2xx response out of the breaker.
type upstreamError struct {
	resp  *Response
	cause error
}

func (e *upstreamError) Error() string {
	if e.cause != nil {
		return e.cause.Error()
	}
	return fmt.Sprintf("backend responded %d", e.resp.Status)
}

func (e *upstreamError) Unwrap() error { return e.cause }

// clientFault reports whether the backend answered with a 4xx.
func (e *upstreamError) clientFault() bool {
	return e.resp != nil && e.resp.Status < http.StatusInternalServerError
}

func (c *Client) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "The statistics service is temporarily unavailable")
	}
	var ue *upstreamError
	if !errors.As(err, &ue) {
		return err
	}
	if ue.resp == nil {
		return apperrors.Wrap(ue.cause, apperrors.ErrCodeUnavailable, "The statistics service could not be reached")
	}
	return statusError(ue.resp)
}
