package params

import (
	"net/http"
	"net/url"

	"github.com/DMarby/bandfilter/internal/hmac"
)

const hmacParam = "hmac"

// HMAC signs a URL path + query params, and returns the URL with the signature appended as a query param
func HMAC(h *hmac.HMAC, path string, query url.Values) (string, error) {
	signed := url.Values{}
	for key, values := range query {
		if key != hmacParam {
			signed[key] = values
		}
	}

	mac, err := h.Create(path + BuildQuery(signed))
	if err != nil {
		return "", err
	}

	signed.Set(hmacParam, mac)
	return path + BuildQuery(signed), nil
}

// ValidateHMAC validates the URL path/query params of a request against the signature in its hmac query param
func ValidateHMAC(h *hmac.HMAC, r *http.Request) (bool, error) {
	query := r.URL.Query()

	mac := query.Get(hmacParam)
	if mac == "" {
		return false, nil
	}

	query.Del(hmacParam)
	return h.Validate(r.URL.Path+BuildQuery(query), mac)
}
