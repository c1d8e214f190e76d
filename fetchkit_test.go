package fetchkit_test

import (
	"testing"

	"github.com/adamwoolhether/fetchkit"
)

func TestEncode(t *testing.T) {
	testCases := map[string]struct {
		in  map[string]any
		exp string
	}{
		"nil":   {in: nil, exp: ""},
		"empty": {in: map[string]any{}, exp: ""},
		"pairs": {in: map[string]any{"b": "x y", "a": 1}, exp: "?a=1&b=x%20y"},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			if got := fetchkit.Encode(tc.in); got != tc.exp {
				t.Errorf("exp %q; got %q", tc.exp, got)
			}
		})
	}
}
