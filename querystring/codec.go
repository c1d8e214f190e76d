package querystring

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

const upperhex = "0123456789ABCDEF"

// Encode serializes m as "?k1=v1&k2=v2", in m's order. Keys and values are
// URI-component escaped. A nil or empty map yields "".
func Encode(m *Map) string {
	return encode(m, nil)
}

// encode is Encode that writes the keys in verbatim unchanged.
func encode(m *Map, verbatim map[string]bool) string {
	if m.Len() == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteByte('?')
	first := true
	for k, v := range m.All() {
		if !first {
			b.WriteByte('&')
		}
		first = false

		if verbatim[k] {
			b.WriteString(k)
		} else {
			b.WriteString(Escape(k))
		}
		b.WriteByte('=')
		b.WriteString(Escape(v))
	}

	return b.String()
}

// EncodeMap is Encode for a plain Go map. Keys are emitted in sorted order.
func EncodeMap(params map[string]any) string {
	return Encode(FromMap(params))
}

// Decode parses a query string, with or without its leading "?", into a Map.
// Values are percent-decoded and trimmed. Keys are kept verbatim. Pairs
// without a key are skipped and the last value of a repeated key wins.
func Decode(str string) *Map {
	m, _ := DecodeStrict(str)
	return m
}

// DecodeStrict behaves like Decode and additionally reports every pair that
// was skipped or whose value was kept raw, as a join of *PairError.
// The returned Map is always usable.
func DecodeStrict(str string) (*Map, error) {
	m := New()

	str = strings.TrimPrefix(str, "?")
	if str == "" {
		return m, nil
	}

	var errs []error
	for pair := range strings.SplitSeq(str, "&") {
		if pair == "" {
			continue
		}

		key, raw, _ := strings.Cut(pair, "=")
		if key == "" {
			errs = append(errs, &PairError{Pair: pair, Err: ErrInvalidQueryPair})
			continue
		}

		value, err := Unescape(raw)
		if err != nil {
			errs = append(errs, &PairError{Pair: pair, Err: err})
			value = raw
		}

		m.Set(key, strings.TrimSpace(value))
	}

	return m, errors.Join(errs...)
}

// ReplaceKeyValue sets key to value inside queryString and returns the
// re-encoded result. Other pairs keep their order, and key is appended if it
// was not present. Leading and trailing "?" and "&" are tolerated. An empty
// key sets nothing.
func ReplaceKeyValue(queryString, key string, value any) string {
	decoded := Decode(strings.Trim(queryString, "?&"))

	// Decode leaves keys escaped; unescape them so Encode does not double up.
	// Keys with a malformed escape are written back as they came.
	m := New()
	var verbatim map[string]bool
	for k, v := range decoded.All() {
		if uk, err := Unescape(k); err == nil {
			k = uk
		} else {
			if verbatim == nil {
				verbatim = make(map[string]bool)
			}
			verbatim[k] = true
		}
		m.Set(k, v)
	}
	if key != "" {
		m.SetAny(key, value)
	}

	return encode(m, verbatim)
}

// AppendToURL appends the encoded form of m to rawURL, joining with "&"
// when rawURL already has a query. Any fragment stays at the end.
func AppendToURL(rawURL string, m *Map) string {
	qs := Encode(m)
	if qs == "" {
		return rawURL
	}

	base, fragment, hasFragment := strings.Cut(rawURL, "#")

	switch {
	case strings.HasSuffix(base, "?"), strings.HasSuffix(base, "&"):
		base += qs[1:]
	case strings.Contains(base, "?"):
		base += "&" + qs[1:]
	default:
		base += qs
	}

	if hasFragment {
		return base + "#" + fragment
	}

	return base
}

// Escape applies URI-component escaping: ASCII letters, digits and
// "-_.!~*'()" are left alone, every other byte becomes %XX.
func Escape(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if shouldEscape(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if shouldEscape(c) {
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&15])
			continue
		}
		b.WriteByte(c)
	}

	return b.String()
}

// Unescape reverses Escape. "+" is not treated as a space. The decoded
// bytes must form valid UTF-8.
func Unescape(s string) (string, error) {
	if !strings.Contains(s, "%") {
		return s, nil
	}

	out, err := url.PathUnescape(s)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidEscape, err)
	}
	if !utf8.ValidString(out) {
		return "", fmt.Errorf("%w: %q is not valid utf-8", ErrInvalidEscape, s)
	}

	return out, nil
}

func shouldEscape(c byte) bool {
	if 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' {
		return false
	}

	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return false
	}

	return true
}
