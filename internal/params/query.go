package params

import (
	"net/url"
	"sort"
	"strings"
)

// BuildQuery builds a query string for the given values, with the keys sorted so it can be signed.
// Params with an empty value are encoded as "key" instead of "key=".
func BuildQuery(v url.Values) string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	var buf strings.Builder
	for _, key := range keys {
		for _, value := range v[key] {
			if buf.Len() > 0 {
				buf.WriteByte('&')
			} else {
				buf.WriteByte('?')
			}

			buf.WriteString(url.QueryEscape(key))
			if value != "" {
				buf.WriteByte('=')
				buf.WriteString(url.QueryEscape(value))
			}
		}
	}

	return buf.String()
}
