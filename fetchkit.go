// Package fetchkit exposes the client builder and the query string codec.
package fetchkit

import (
	"github.com/adamwoolhether/fetchkit/client"
	"github.com/adamwoolhether/fetchkit/querystring"
)

// NewClient instantiates a new *Client with the provided options.
// If not specified, requests go through an http.Client using
// http.DefaultTransport.
func NewClient(opts ...client.Option) (*client.Client, error) {
	return client.Build(opts...)
}

// Encode serializes params as a query string with a leading "?", or ""
// when params is empty. Keys are emitted in sorted order.
func Encode(params map[string]any) string {
	return querystring.EncodeMap(params)
}

// Decode parses a query string into an ordered map. It never fails.
func Decode(qs string) *querystring.Map {
	return querystring.Decode(qs)
}

// ReplaceKeyValue sets key to value in qs, keeping the position of an
// existing key, and returns the re-encoded query string.
func ReplaceKeyValue(qs, key string, value any) string {
	return querystring.ReplaceKeyValue(qs, key, value)
}
