package handler

import (
	"net/url"
	"strings"
)

// Params is the flat key-value parameter set of one dispatch request. All
// values are strings; absent keys read as empty.
type Params map[string]string

// paramsFromQuery keeps the first value of each query key.
func paramsFromQuery(q url.Values) Params {
	p := make(Params, len(q))
	for key, values := range q {
		if len(values) > 0 {
			p[key] = values[0]
		}
	}
	return p
}

// Get returns the trimmed value for key, or the empty string.
func (p Params) Get(key string) string {
	return strings.TrimSpace(p[key])
}

// Pick resolves the first key with a non-empty trimmed value, falling back
// when none is present. This is how every optional field defaults instead
// of erroring.
func (p Params) Pick(fallback string, keys ...string) string {
	for _, key := range keys {
		if v := p.Get(key); v != "" {
			return v
		}
	}
	return fallback
}
