package client

import (
	"cmp"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Request modes, mirroring the fetch API.
const (
	ModeCORS       = "cors"
	ModeNoCORS     = "no-cors"
	ModeSameOrigin = "same-origin"
	ModeNavigate   = "navigate"
)

// Cache directives.
const (
	CacheDefault      = "default"
	CacheNoStore      = "no-store"
	CacheReload       = "reload"
	CacheNoCache      = "no-cache"
	CacheForceCache   = "force-cache"
	CacheOnlyIfCached = "only-if-cached"
)

// Credentials policies.
const (
	CredentialsOmit       = "omit"
	CredentialsSameOrigin = "same-origin"
	CredentialsInclude    = "include"
)

// Redirect policies.
const (
	RedirectFollow = "follow"
	RedirectError  = "error"
	RedirectManual = "manual"
)

// Referrer values with special meaning. Any absolute URL is also accepted.
const (
	ReferrerNone   = "no-referrer"
	ReferrerClient = "about:client"
)

const (
	headerContentType = "Content-Type"
	headerRequestID   = "X-Request-Id"
	contentTypeJSON   = "application/json"
)

// Descriptor is the fully resolved request handed to a [Transport].
// Headers use canonical names. Body is already serialized and is always
// empty for GET.
type Descriptor struct {
	Method      string            `json:"method" validate:"required,oneof=GET POST PUT DELETE"`
	Mode        string            `json:"mode" validate:"required,oneof=cors no-cors same-origin navigate"`
	Cache       string            `json:"cache" validate:"required"`
	Credentials string            `json:"credentials" validate:"required,oneof=omit same-origin include"`
	Redirect    string            `json:"redirect" validate:"required,oneof=follow error manual"`
	Referrer    string            `json:"referrer" validate:"omitempty,oneof=no-referrer about:client|url"`
	Headers     map[string]string `json:"headers"`
	Body        string            `json:"body,omitempty"`
}

// describe applies the defaults to opts and produces the Descriptor.
func (c *Client) describe(opts requestOpts) (*Descriptor, error) {
	d := Descriptor{
		Method:      strings.ToUpper(cmp.Or(opts.method, http.MethodGet)),
		Mode:        cmp.Or(opts.mode, ModeCORS),
		Cache:       resolveCache(opts.cache),
		Credentials: cmp.Or(opts.credentials, CredentialsSameOrigin),
		Redirect:    cmp.Or(opts.redirect, RedirectFollow),
		Referrer:    cmp.Or(opts.referrer, ReferrerNone),
	}

	d.Headers = map[string]string{headerContentType: contentTypeJSON}
	for k, v := range c.defaultHeaders {
		d.Headers[http.CanonicalHeaderKey(k)] = v
	}
	for k, v := range opts.headers {
		d.Headers[http.CanonicalHeaderKey(k)] = v
	}

	if c.requestID {
		if _, ok := d.Headers[headerRequestID]; !ok {
			d.Headers[headerRequestID] = uuid.NewString()
		}
	}

	if d.Method != http.MethodGet {
		body, err := serializeBody(opts.body)
		if err != nil {
			return nil, err
		}
		d.Body = body
	}

	return &d, nil
}

// resolveCache maps the cache option: false means "no-cache", a string is
// used as given and anything else falls back to "default".
func resolveCache(v any) string {
	switch c := v.(type) {
	case bool:
		if !c {
			return CacheNoCache
		}
	case string:
		if c != "" {
			return c
		}
	}

	return CacheDefault
}

// serializeBody encodes body as JSON unless it already is text.
func serializeBody(body any) (string, error) {
	switch b := body.(type) {
	case nil:
		return "", nil
	case string:
		return b, nil
	case []byte:
		return string(b), nil
	case json.RawMessage:
		return string(b), nil
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encoding request body: %w", err)
	}

	return string(data), nil
}
