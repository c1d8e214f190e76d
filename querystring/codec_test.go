package querystring_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/adamwoolhether/fetchkit/querystring"
)

func TestEncode(t *testing.T) {
	testCases := map[string]struct {
		in  *querystring.Map
		exp string
	}{
		"nil map": {
			in:  nil,
			exp: "",
		},
		"empty map": {
			in:  querystring.New(),
			exp: "",
		},
		"number and space": {
			in:  mapOf("a", 1, "b", "x y"),
			exp: "?a=1&b=x%20y",
		},
		"reserved characters escaped": {
			in:  mapOf("q", "a&b=c?d/e"),
			exp: "?q=a%26b%3Dc%3Fd%2Fe",
		},
		"unreserved marks literal": {
			in:  mapOf("mark", "-_.!~*'()"),
			exp: "?mark=-_.!~*'()",
		},
		"key escaped too": {
			in:  mapOf("a key", "v"),
			exp: "?a%20key=v",
		},
		"plus escaped": {
			in:  mapOf("p", "1+1"),
			exp: "?p=1%2B1",
		},
		"multibyte utf-8": {
			in:  mapOf("city", "Zürich"),
			exp: "?city=Z%C3%BCrich",
		},
		"bool float and nil": {
			in:  mapOf("t", true, "f", 1.5, "n", nil),
			exp: "?t=true&f=1.5&n=null",
		},
		"insertion order kept": {
			in:  mapOf("z", "1", "a", "2", "m", "3"),
			exp: "?z=1&a=2&m=3",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			got := querystring.Encode(tc.in)
			if got != tc.exp {
				t.Errorf("exp %q; got %q", tc.exp, got)
			}
		})
	}
}

func TestEncodeMap_SortedKeys(t *testing.T) {
	got := querystring.EncodeMap(map[string]any{"b": "x y", "a": 1})
	if exp := "?a=1&b=x%20y"; got != exp {
		t.Errorf("exp %q; got %q", exp, got)
	}

	if got := querystring.EncodeMap(nil); got != "" {
		t.Errorf("exp empty string for nil map; got %q", got)
	}
}

func TestEncode_CompositeValue(t *testing.T) {
	got := querystring.Encode(mapOf("ids", []int{1, 2}))
	if exp := "?ids=%5B1%2C2%5D"; got != exp {
		t.Errorf("exp %q; got %q", exp, got)
	}
}

func TestDecode(t *testing.T) {
	testCases := map[string]struct {
		in  string
		exp map[string]string
	}{
		"empty": {
			in:  "",
			exp: map[string]string{},
		},
		"only question mark": {
			in:  "?",
			exp: map[string]string{},
		},
		"leading question mark": {
			in:  "?one=1&two=something",
			exp: map[string]string{"one": "1", "two": "something"},
		},
		"no question mark": {
			in:  "one=1&two=something",
			exp: map[string]string{"one": "1", "two": "something"},
		},
		"empty value preserved": {
			in:  "a=&b=2",
			exp: map[string]string{"a": "", "b": "2"},
		},
		"missing equals": {
			in:  "flag&b=2",
			exp: map[string]string{"flag": "", "b": "2"},
		},
		"empty key skipped": {
			in:  "=orphan&b=2",
			exp: map[string]string{"b": "2"},
		},
		"empty pairs skipped": {
			in:  "&&a=1&&",
			exp: map[string]string{"a": "1"},
		},
		"value decoded and trimmed": {
			in:  "?q=%20hello%20world%20",
			exp: map[string]string{"q": "hello world"},
		},
		"plus is literal": {
			in:  "p=1+1",
			exp: map[string]string{"p": "1+1"},
		},
		"keys not decoded": {
			in:  "a%20b=c%20d",
			exp: map[string]string{"a%20b": "c d"},
		},
		"split once on equals": {
			in:  "expr=a=b",
			exp: map[string]string{"expr": "a=b"},
		},
		"last duplicate wins": {
			in:  "k=1&k=2",
			exp: map[string]string{"k": "2"},
		},
		"malformed escape kept raw": {
			in:  "bad=%zz&ok=1",
			exp: map[string]string{"bad": "%zz", "ok": "1"},
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			got := querystring.Decode(tc.in).ToMap()
			if diff := cmp.Diff(tc.exp, got); diff != "" {
				t.Errorf("decoded map mismatch (-exp +got):\n%s", diff)
			}
		})
	}
}

func TestDecode_DuplicateKeepsFirstPosition(t *testing.T) {
	m := querystring.Decode("k=1&x=0&k=2")

	if diff := cmp.Diff([]string{"k", "x"}, m.Keys()); diff != "" {
		t.Errorf("key order mismatch (-exp +got):\n%s", diff)
	}
	if v, _ := m.Get("k"); v != "2" {
		t.Errorf("exp k=2; got %q", v)
	}
}

func TestDecodeStrict(t *testing.T) {
	m, err := querystring.DecodeStrict("=x&bad=%E0%A4%A&ok=1")
	if err == nil {
		t.Fatal("exp error describing dropped pairs")
	}

	if !errors.Is(err, querystring.ErrInvalidQueryPair) {
		t.Errorf("exp ErrInvalidQueryPair in %v", err)
	}
	if !errors.Is(err, querystring.ErrInvalidEscape) {
		t.Errorf("exp ErrInvalidEscape in %v", err)
	}

	var pe *querystring.PairError
	if !errors.As(err, &pe) {
		t.Fatalf("exp *PairError; got %T", err)
	}
	if pe.Pair != "=x" {
		t.Errorf("exp first pair error for %q; got %q", "=x", pe.Pair)
	}

	exp := map[string]string{"bad": "%E0%A4%A", "ok": "1"}
	if diff := cmp.Diff(exp, m.ToMap()); diff != "" {
		t.Errorf("decoded map mismatch (-exp +got):\n%s", diff)
	}
}

func TestDecodeStrict_Clean(t *testing.T) {
	_, err := querystring.DecodeStrict("?a=1&b=2")
	if err != nil {
		t.Fatalf("exp nil err; got %v", err)
	}
}

func TestDecodeStrict_InvalidUTF8(t *testing.T) {
	_, err := querystring.DecodeStrict("v=%FF")
	if !errors.Is(err, querystring.ErrInvalidEscape) {
		t.Errorf("exp ErrInvalidEscape; got %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	in := mapOf(
		"name", "Jane Doe",
		"email", "jane+test@example.com",
		"path", "/a/b?c#d",
		"unicode", "naïve café",
		"empty", "",
	)

	got := querystring.Decode(querystring.Encode(in))
	if diff := cmp.Diff(in.ToMap(), got.ToMap()); diff != "" {
		t.Errorf("round trip mismatch (-exp +got):\n%s", diff)
	}
	if diff := cmp.Diff(in.Keys(), got.Keys()); diff != "" {
		t.Errorf("round trip order mismatch (-exp +got):\n%s", diff)
	}
}

func TestReplaceKeyValue(t *testing.T) {
	testCases := map[string]struct {
		qs    string
		key   string
		value any
		exp   string
	}{
		"replace existing": {
			qs:    "?start=10&fruit=apple",
			key:   "fruit",
			value: "species",
			exp:   "?start=10&fruit=species",
		},
		"empty query": {
			qs:    "",
			key:   "k",
			value: "v",
			exp:   "?k=v",
		},
		"append missing key": {
			qs:    "?a=1",
			key:   "b",
			value: 2,
			exp:   "?a=1&b=2",
		},
		"no leading question mark": {
			qs:    "a=1&b=2",
			key:   "a",
			value: "9",
			exp:   "?a=9&b=2",
		},
		"trailing ampersand": {
			qs:    "?a=1&b=2&",
			key:   "b",
			value: "3",
			exp:   "?a=1&b=3",
		},
		"leading ampersand": {
			qs:    "&a=1",
			key:   "a",
			value: "2",
			exp:   "?a=2",
		},
		"only separators": {
			qs:    "?&",
			key:   "k",
			value: "v",
			exp:   "?k=v",
		},
		"value with reserved characters": {
			qs:    "?a=1",
			key:   "q",
			value: `x&y="z"=w`,
			exp:   "?a=1&q=x%26y%3D%22z%22%3Dw",
		},
		"existing escaped values survive": {
			qs:    "?msg=hello%20world&n=1",
			key:   "n",
			value: 2,
			exp:   "?msg=hello%20world&n=2",
		},
		"escaped key not double escaped": {
			qs:    "?a%20b=1",
			key:   "c",
			value: "2",
			exp:   "?a%20b=1&c=2",
		},
		"bool value": {
			qs:    "?debug=false",
			key:   "debug",
			value: true,
			exp:   "?debug=true",
		},
		"malformed key escape kept verbatim": {
			qs:    "?a%zz=1&b=2",
			key:   "b",
			value: "3",
			exp:   "?a%zz=1&b=3",
		},
		"empty key sets nothing": {
			qs:    "?a=1",
			key:   "",
			value: "3",
			exp:   "?a=1",
		},
		"empty key on empty query": {
			qs:    "",
			key:   "",
			value: "3",
			exp:   "",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			got := querystring.ReplaceKeyValue(tc.qs, tc.key, tc.value)
			if got != tc.exp {
				t.Errorf("exp %q; got %q", tc.exp, got)
			}
		})
	}
}

func TestReplaceKeyValue_RoundTripsThroughDecode(t *testing.T) {
	got := querystring.ReplaceKeyValue("?a=1&b=2", "b", "x&y=z")

	v, ok := querystring.Decode(got).Get("b")
	if !ok {
		t.Fatalf("exp key b in %q", got)
	}
	if v != "x&y=z" {
		t.Errorf("exp %q; got %q", "x&y=z", v)
	}
}

func TestAppendToURL(t *testing.T) {
	params := mapOf("page", 2, "q", "go lang")

	testCases := map[string]struct {
		url string
		exp string
	}{
		"no query": {
			url: "https://example.com/items",
			exp: "https://example.com/items?page=2&q=go%20lang",
		},
		"existing query": {
			url: "https://example.com/items?sort=asc",
			exp: "https://example.com/items?sort=asc&page=2&q=go%20lang",
		},
		"dangling question mark": {
			url: "https://example.com/items?",
			exp: "https://example.com/items?page=2&q=go%20lang",
		},
		"fragment kept last": {
			url: "https://example.com/items#top",
			exp: "https://example.com/items?page=2&q=go%20lang#top",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			got := querystring.AppendToURL(tc.url, params)
			if got != tc.exp {
				t.Errorf("exp %q; got %q", tc.exp, got)
			}
		})
	}

	if got := querystring.AppendToURL("https://example.com", nil); got != "https://example.com" {
		t.Errorf("exp url unchanged for nil params; got %q", got)
	}
}

func TestEscapeUnescape(t *testing.T) {
	in := "a b/c?d=e&f+g%h"

	esc := querystring.Escape(in)
	if exp := "a%20b%2Fc%3Fd%3De%26f%2Bg%25h"; esc != exp {
		t.Errorf("exp %q; got %q", exp, esc)
	}

	out, err := querystring.Unescape(esc)
	if err != nil {
		t.Fatalf("unescape: %v", err)
	}
	if out != in {
		t.Errorf("exp %q; got %q", in, out)
	}
}

func mapOf(kv ...any) *querystring.Map {
	m := querystring.New()
	for i := 0; i+1 < len(kv); i += 2 {
		m.SetAny(kv[i].(string), kv[i+1])
	}

	return m
}
