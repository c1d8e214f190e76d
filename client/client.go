package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/adamwoolhether/fetchkit/client/throttle"
	"github.com/adamwoolhether/fetchkit/querystring"
)

// Client dispatches JSON requests through a [Transport].
// It is read-only after [Build] and safe for concurrent use.
// The zero value has no transport and fails every call with
// [ErrTransportUnavailable].
type Client struct {
	transport      Transport
	logger         *slog.Logger
	tracer         trace.Tracer
	defaultHeaders map[string]string
	requestID      bool
	useJSONNumber  bool
}

// Build creates a [Client]. Unless [WithTransport] is given, requests go
// through an [HTTPTransport] assembled from the HTTP options.
func Build(optFns ...Option) (*Client, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	client := &Client{
		logger:         slog.Default(),
		tracer:         noop.NewTracerProvider().Tracer("fetchkit"),
		defaultHeaders: opts.defaultHeaders,
		requestID:      opts.requestID,
		useJSONNumber:  opts.useJSONNumber,
	}
	if opts.logger != nil {
		client.logger = opts.logger
	}
	if opts.tracer != nil {
		client.tracer = opts.tracer
	}

	if opts.transport != nil {
		if opts.usesHTTPSettings() {
			return nil, errors.New("http client options cannot be combined with WithTransport")
		}
		client.transport = opts.transport
		return client, nil
	}

	hc, err := buildHTTPClient(&opts, func() *slog.Logger { return client.logger })
	if err != nil {
		return nil, err
	}
	client.transport = NewHTTPTransport(hc, client.logger)

	return client, nil
}

// buildHTTPClient layers the user agent and throttle round trippers over
// the base transport.
func buildHTTPClient(opts *options, logFn func() *slog.Logger) (*http.Client, error) {
	hc := &http.Client{}
	if opts.client != nil {
		cpy := *opts.client
		hc = &cpy
	}

	if opts.timeout != nil {
		hc.Timeout = *opts.timeout
	}

	if opts.noFollowRedirects {
		hc.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case hc.Transport != nil:
		transport = hc.Transport
	default:
		transport = http.DefaultTransport
	}
	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}
	if opts.throttle != nil {
		rt, err := throttle.NewRoundTripper(*opts.throttle, logFn, transport)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		transport = rt
	}
	hc.Transport = transport

	return hc, nil
}

// Request performs exactly one request to url and returns the unwrapped
// JSON payload: the "data" member of an object response when present and
// non-null, otherwise the whole parsed body. Responses the transport
// cannot expose a body for are returned as they are.
func (c *Client) Request(ctx context.Context, url string, optFns ...RequestOption) (any, error) {
	if c == nil || c.transport == nil {
		return nil, ErrTransportUnavailable
	}

	var opts requestOpts
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying request option: %w", err)
		}
	}

	d, err := c.describe(opts)
	if err != nil {
		return nil, err
	}
	if err := validateDescriptor(d); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	if opts.query != nil {
		url = querystring.AppendToURL(url, opts.query)
	}

	ctx, span := c.tracer.Start(ctx, "fetchkit.request",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", d.Method),
			attribute.String("url.full", url),
		),
	)
	defer span.End()

	logger := c.log()
	start := time.Now()
	logger.Debug("request started", "method", d.Method, "url", url)

	payload, status, err := c.exec(ctx, url, d, opts)
	if status != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Debug("request failed", "method", d.Method, "url", url, "statusCode", status, "since", time.Since(start).String(), "error", err)
		return nil, err
	}

	logger.Debug("request completed", "method", d.Method, "url", url, "statusCode", status, "since", time.Since(start).String())

	return payload, nil
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, url string, opts ...RequestOption) (any, error) {
	return c.Request(ctx, url, append(slices.Clip(opts), WithMethod(http.MethodGet))...)
}

// Post issues a POST request with data as the body.
func (c *Client) Post(ctx context.Context, url string, data any, opts ...RequestOption) (any, error) {
	return c.Request(ctx, url, append(slices.Clip(opts), WithMethod(http.MethodPost), WithBody(data))...)
}

// Put issues a PUT request with data as the body.
func (c *Client) Put(ctx context.Context, url string, data any, opts ...RequestOption) (any, error) {
	return c.Request(ctx, url, append(slices.Clip(opts), WithMethod(http.MethodPut), WithBody(data))...)
}

// Del issues a DELETE request with data as the body.
func (c *Client) Del(ctx context.Context, url string, data any, opts ...RequestOption) (any, error) {
	return c.Request(ctx, url, append(slices.Clip(opts), WithMethod(http.MethodDelete), WithBody(data))...)
}

// exec calls the transport once and turns its response into the payload.
// The returned status is 0 when the response carries none.
func (c *Client) exec(ctx context.Context, url string, d *Descriptor, opts requestOpts) (any, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrCancelled, err)
	}

	resp, err := c.transport.Fetch(ctx, url, d)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrCancelled, ctxErr)
		}
		return nil, 0, &NetworkError{Method: d.Method, URL: url, Err: err}
	}

	var status int
	if sc, ok := resp.(StatusCoder); ok {
		status = sc.StatusCode()
	}

	br, ok := resp.(BodyReader)
	if !ok {
		return resp, status, nil
	}

	body, err := br.ReadBody()
	if err != nil {
		return nil, status, &NetworkError{Method: d.Method, URL: url, Err: fmt.Errorf("reading body: %w", err)}
	}

	if len(opts.expected) > 0 && status != 0 && !slices.Contains(opts.expected, status) {
		statusErr := ErrUnexpectedStatusCode
		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			statusErr = fmt.Errorf("%w: %w", ErrAuthFailure, ErrUnexpectedStatusCode)
		}

		return nil, status, &UnexpectedStatusError{
			StatusCode: status,
			Body:       truncate(body),
			Err:        statusErr,
		}
	}

	payload, raw, err := unwrap(body, c.useJSONNumber)
	if err != nil {
		return nil, status, err
	}

	if opts.responseBody != nil && raw != nil {
		if err := json.Unmarshal(raw, opts.responseBody); err != nil {
			return nil, status, &ResponseParseError{Body: truncate(raw), Err: fmt.Errorf("decoding into destination: %w", err)}
		}
	}

	return payload, status, nil
}

func (c *Client) log() *slog.Logger {
	if c.logger == nil {
		return slog.Default()
	}

	return c.logger
}
