package client

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/fetchkit/client/throttle"
	"github.com/adamwoolhether/fetchkit/querystring"
)

// Option is a functional option for configuring a [Client] via [Build].
type Option func(*options) error
type options struct {
	transport         Transport
	client            *http.Client
	rt                http.RoundTripper
	timeout           *time.Duration
	userAgent         string
	throttle          *throttle.Config
	noFollowRedirects bool
	logger            *slog.Logger
	tracer            trace.Tracer
	requestID         bool
	defaultHeaders    map[string]string
	useJSONNumber     bool
}

// usesHTTPSettings reports whether any option only makes sense for the
// built-in HTTP transport.
func (o *options) usesHTTPSettings() bool {
	return o.client != nil || o.rt != nil || o.timeout != nil || o.userAgent != "" ||
		o.throttle != nil || o.noFollowRedirects
}

// WithTransport replaces the built-in HTTP transport with t. It cannot be
// combined with the options that configure the HTTP transport.
func WithTransport(t Transport) Option {
	return func(c *options) error {
		if t == nil {
			return errors.New("transport must not be nil")
		}
		c.transport = t
		return nil
	}
}

// WithHTTPClient sets the [http.Client] used by the HTTP transport.
// The client is copied, so later changes to hc do not leak in.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *options) error {
		if hc == nil {
			return errors.New("client must not be nil")
		}
		c.client = hc
		return nil
	}
}

// WithRoundTripper sets a custom [http.RoundTripper] as the base of the HTTP transport.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(c *options) error {
		if rt == nil {
			return errors.New("round tripper must not be nil")
		}
		c.rt = rt
		return nil
	}
}

// WithTimeout sets the overall request timeout on the underlying [http.Client].
func WithTimeout(d time.Duration) Option {
	return func(c *options) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		c.timeout = &d
		return nil
	}
}

// WithUserAgent adds a persistent User-Agent header to all outgoing requests.
func WithUserAgent(header string) Option {
	return func(c *options) error {
		c.userAgent = header
		return nil
	}
}

// WithThrottle enables token-bucket rate limiting with the given requests per second and burst capacity.
func WithThrottle(rps, burst int) Option {
	return WithThrottleConfig(throttle.Config{RPS: rps, Burst: burst})
}

// WithThrottleConfig is WithThrottle with the full [throttle.Config],
// including a separate bucket per host.
func WithThrottleConfig(cfg throttle.Config) Option {
	return func(c *options) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		c.throttle = &cfg
		return nil
	}
}

// WithNoFollowRedirects makes redirect mode "follow" behave like "manual"
// for every request on the [Client].
func WithNoFollowRedirects() Option {
	return func(c *options) error {
		c.noFollowRedirects = true
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Client].
func WithLogger(logger *slog.Logger) Option {
	return func(c *options) error {
		c.logger = logger
		return nil
	}
}

// WithTracer sets the tracer used to open one span per request.
// Without it a no-op tracer is used.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *options) error {
		if tracer == nil {
			return errors.New("tracer must not be nil")
		}
		c.tracer = tracer
		return nil
	}
}

// WithRequestID stamps every request that lacks one with a random
// X-Request-Id header.
func WithRequestID() Option {
	return func(c *options) error {
		c.requestID = true
		return nil
	}
}

// WithDefaultHeaders sets headers sent with every request. They sit above
// the default Content-Type and below per-request headers.
func WithDefaultHeaders(headers map[string]string) Option {
	return func(c *options) error {
		c.defaultHeaders = maps.Clone(headers)
		return nil
	}
}

// WithJSONNumber tells the JSON decoder to use [json.Decoder.UseNumber],
// preserving number precision as [json.Number] instead of float64.
func WithJSONNumber() Option {
	return func(c *options) error {
		c.useJSONNumber = true
		return nil
	}
}

// RequestOption is a functional option for [Client.Request] and its wrappers.
type RequestOption func(*requestOpts) error

type requestOpts struct {
	method       string
	mode         string
	cache        any
	credentials  string
	redirect     string
	referrer     string
	headers      map[string]string
	body         any
	query        *querystring.Map
	expected     []int
	responseBody any
}

// WithMethod sets the HTTP method. It is uppercased before use; the default is GET.
func WithMethod(method string) RequestOption {
	return func(opts *requestOpts) error {
		opts.method = method
		return nil
	}
}

// WithMode sets the cross-origin mode. The default is "cors".
func WithMode(mode string) RequestOption {
	return func(opts *requestOpts) error {
		opts.mode = mode
		return nil
	}
}

// WithCache sets the cache directive. false selects "no-cache", a string
// is used as given, anything else selects "default".
func WithCache(cache any) RequestOption {
	return func(opts *requestOpts) error {
		opts.cache = cache
		return nil
	}
}

// WithCredentials sets the credentials policy. The default is "same-origin".
func WithCredentials(credentials string) RequestOption {
	return func(opts *requestOpts) error {
		opts.credentials = credentials
		return nil
	}
}

// WithRedirect sets the redirect policy. The default is "follow".
func WithRedirect(redirect string) RequestOption {
	return func(opts *requestOpts) error {
		opts.redirect = redirect
		return nil
	}
}

// WithReferrer sets the referrer. The default is "no-referrer".
func WithReferrer(referrer string) RequestOption {
	return func(opts *requestOpts) error {
		opts.referrer = referrer
		return nil
	}
}

// WithHeaders sets request headers. They override client default headers
// and the default Content-Type, key by key.
func WithHeaders(headers map[string]string) RequestOption {
	return func(opts *requestOpts) error {
		if opts.headers == nil {
			opts.headers = make(map[string]string, len(headers))
		}
		maps.Copy(opts.headers, headers)
		return nil
	}
}

// WithBody sets the request payload. Strings and byte slices are sent as
// they are, anything else is JSON encoded. Ignored for GET.
func WithBody(body any) RequestOption {
	return func(opts *requestOpts) error {
		opts.body = body
		return nil
	}
}

// WithQuery appends params, encoded as a query string, to the request URL.
func WithQuery(params map[string]any) RequestOption {
	return func(opts *requestOpts) error {
		opts.query = querystring.FromMap(params)
		return nil
	}
}

// WithQueryMap is WithQuery for an ordered [querystring.Map].
func WithQueryMap(params *querystring.Map) RequestOption {
	return func(opts *requestOpts) error {
		opts.query = params
		return nil
	}
}

// WithExpectedStatus fails the request with an [UnexpectedStatusError]
// when the response status is not one of codes.
func WithExpectedStatus(codes ...int) RequestOption {
	return func(opts *requestOpts) error {
		if len(codes) == 0 {
			return errors.New("at least one status code is required")
		}
		for _, code := range codes {
			if code < 100 || code > 999 {
				return fmt.Errorf("invalid status code[%d]", code)
			}
		}
		opts.expected = codes
		return nil
	}
}

// WithDestination additionally decodes the unwrapped payload into
// bodyTemplate, which must be a pointer.
func WithDestination[T any](bodyTemplate *T) RequestOption {
	return func(opts *requestOpts) error {
		if bodyTemplate == nil {
			return errors.New("destination must not be nil")
		}
		opts.responseBody = bodyTemplate
		return nil
	}
}
