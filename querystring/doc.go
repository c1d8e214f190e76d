// Package querystring encodes and decodes flat URL query strings.
//
// # Encoding
//
// [Encode] walks an ordered [Map] and emits URI-component escaped pairs,
// prefixed with "?" unless the map is empty:
//
//	m := querystring.New()
//	m.Set("a", "1")
//	m.Set("b", "x y")
//	querystring.Encode(m) // "?a=1&b=x%20y"
//
// [EncodeMap] accepts a plain Go map; keys are sorted so output is stable.
//
// # Decoding
//
// [Decode] accepts a string with or without the leading "?". Values are
// percent-decoded and trimmed, keys are kept exactly as written. Pairs
// without a key are dropped. [DecodeStrict] returns the same map plus an
// error describing everything that was dropped or kept raw.
//
// # Replacing a single value
//
// [ReplaceKeyValue] decodes, sets one key and re-encodes, leaving every
// other pair in its original position:
//
//	querystring.ReplaceKeyValue("?start=10&fruit=apple", "fruit", "species")
//	// "?start=10&fruit=species"
package querystring
