package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// Transport is the fetch primitive a [Client] dispatches through. It
// performs exactly one request for d against url.
type Transport interface {
	Fetch(ctx context.Context, url string, d *Descriptor) (Response, error)
}

// TransportFunc adapts a plain function to [Transport].
type TransportFunc func(ctx context.Context, url string, d *Descriptor) (Response, error)

// Fetch calls f.
func (f TransportFunc) Fetch(ctx context.Context, url string, d *Descriptor) (Response, error) {
	return f(ctx, url, d)
}

// Response is whatever a Transport returns. Responses implementing
// [BodyReader] are parsed as JSON; any other value is handed back to the
// caller untouched.
type Response any

// BodyReader is implemented by responses whose body can be parsed.
type BodyReader interface {
	ReadBody() ([]byte, error)
}

// StatusCoder is implemented by responses that carry an HTTP status.
type StatusCoder interface {
	StatusCode() int
}

// HTTPResponse is the response produced by [HTTPTransport]. The body has
// already been read and the connection released.
type HTTPResponse struct {
	status int
	header http.Header
	body   []byte
}

// NewHTTPResponse builds an HTTPResponse, mainly for transport doubles.
func NewHTTPResponse(status int, header http.Header, body []byte) *HTTPResponse {
	if header == nil {
		header = http.Header{}
	}

	return &HTTPResponse{status: status, header: header, body: body}
}

func (r *HTTPResponse) StatusCode() int           { return r.status }
func (r *HTTPResponse) Header() http.Header       { return r.header }
func (r *HTTPResponse) ReadBody() ([]byte, error) { return r.body, nil }

// HTTPTransport is the default [Transport], backed by an [http.Client].
// Fetch-only settings are mapped onto plain HTTP: cache directives become
// Cache-Control headers, the mode is sent as Sec-Fetch-Mode, and the
// redirect and credentials policies adjust the client per request.
type HTTPTransport struct {
	client *http.Client
	logger *slog.Logger
}

// NewHTTPTransport returns an HTTPTransport over hc. A nil hc uses a fresh
// client with the default transport.
func NewHTTPTransport(hc *http.Client, logger *slog.Logger) *HTTPTransport {
	if hc == nil {
		hc = &http.Client{Transport: http.DefaultTransport}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &HTTPTransport{client: hc, logger: logger}
}

// Fetch implements [Transport].
func (t *HTTPTransport) Fetch(ctx context.Context, url string, d *Descriptor) (Response, error) {
	var body io.Reader
	if d.Method != http.MethodGet {
		body = strings.NewReader(d.Body)
	}

	req, err := http.NewRequestWithContext(ctx, d.Method, url, body)
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}

	for k, v := range d.Headers {
		req.Header.Set(k, v)
	}
	if d.Mode != "" {
		req.Header.Set("Sec-Fetch-Mode", d.Mode)
	}
	setCacheHeaders(req.Header, d.Cache)
	if d.Referrer != "" && d.Referrer != ReferrerNone && d.Referrer != ReferrerClient {
		req.Header.Set("Referer", d.Referrer)
	}
	if d.Credentials == CredentialsOmit {
		req.Header.Del("Cookie")
		req.Header.Del("Authorization")
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := t.clientFor(d).Do(req)
	if err != nil {
		return nil, err
	}

	discardBody := true
	defer func() {
		if discardBody {
			if _, err := io.Copy(io.Discard, resp.Body); err != nil {
				t.logger.Error("failed to discard unused body", "error", err)
			}
		}
		if err := resp.Body.Close(); err != nil {
			t.logger.Error("failed to close response body", "error", err)
		}
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	discardBody = false

	return &HTTPResponse{status: resp.StatusCode, header: resp.Header, body: b}, nil
}

// clientFor returns t.client, or a shallow copy of it when the redirect
// or credentials policy needs different behaviour for this request.
func (t *HTTPTransport) clientFor(d *Descriptor) *http.Client {
	if d.Redirect == RedirectFollow && d.Credentials != CredentialsOmit {
		return t.client
	}

	hc := *t.client
	switch d.Redirect {
	case RedirectManual:
		hc.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	case RedirectError:
		hc.CheckRedirect = func(req *http.Request, _ []*http.Request) error {
			return fmt.Errorf("%w: %s", ErrRedirectBlocked, req.URL.Redacted())
		}
	}
	if d.Credentials == CredentialsOmit {
		hc.Jar = nil
	}

	return &hc
}

func setCacheHeaders(h http.Header, cache string) {
	switch cache {
	case CacheNoStore:
		h.Set("Cache-Control", "no-store")
	case CacheNoCache, CacheReload:
		h.Set("Cache-Control", "no-cache")
		h.Set("Pragma", "no-cache")
	case CacheForceCache:
		h.Set("Cache-Control", "max-stale")
	case CacheOnlyIfCached:
		h.Set("Cache-Control", "only-if-cached")
	}
}

// userAgent is an http.RoundTripper, enabling the persistent User-Agent header.
type userAgent struct {
	value string
	base  http.RoundTripper
}

func (ua userAgent) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	cpy.Header.Set("User-Agent", ua.value)
	return ua.base.RoundTrip(cpy)
}
