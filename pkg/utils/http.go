// Package utils provides common utility functions.
package utils

import (
	"net/http"
	"net/url"
)

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "yongpei-site-builder/1.0"

// BuildHeaders creates HTTP headers with defaults.
func BuildHeaders(userAgent string, customHeaders map[string]string) http.Header {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	headers := http.Header{}
	headers.Set("User-Agent", userAgent)
	headers.Set("Accept", "application/json, text/plain, */*")

	for key, value := range customHeaders {
		headers.Set(key, value)
	}

	return headers
}

// WithQuery returns rawURL with key=value added to its query string.
func WithQuery(rawURL, key, value string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()

	return u.String(), nil
}
