package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// Unwrap parses body as JSON and returns its "data" member when the body
// is an object with a non-null "data", otherwise the whole value. An empty
// body is not JSON and fails like any other unparseable body. Numbers decode
// as [json.Number] when useNumber is set.
func Unwrap(body []byte, useNumber bool) (any, error) {
	v, _, err := unwrap(body, useNumber)
	return v, err
}

// unwrap is Unwrap that also returns the raw JSON of the chosen payload.
func unwrap(body []byte, useNumber bool) (any, json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil, &ResponseParseError{Body: truncate(body), Err: io.ErrUnexpectedEOF}
	}

	if !json.Valid(trimmed) {
		return nil, nil, &ResponseParseError{
			Body: truncate(body),
			Err:  errors.New("invalid JSON"),
		}
	}

	raw := json.RawMessage(trimmed)
	if trimmed[0] == '{' {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, nil, &ResponseParseError{Body: truncate(body), Err: err}
		}
		if data, ok := envelope["data"]; ok && !bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
			raw = data
		}
	}

	v, err := decode(raw, useNumber)
	if err != nil {
		return nil, nil, &ResponseParseError{Body: truncate(body), Err: err}
	}

	return v, raw, nil
}

func decode(raw json.RawMessage, useNumber bool) (any, error) {
	d := json.NewDecoder(bytes.NewReader(raw))
	if useNumber {
		d.UseNumber()
	}

	var v any
	if err := d.Decode(&v); err != nil {
		return nil, err
	}

	return v, nil
}
