package pixabay

import (
	"net/url"
	"strings"

	"pixabaydl/pkg/models"
)

const (
	// DefaultAPIURL is the Pixabay image search endpoint
	DefaultAPIURL = "https://pixabay.com/api/"

	// RegisterURL is where users obtain an API key
	RegisterURL = "https://pixabay.com/"
)

// LookupURL constructs the API URL that resolves a single image id
func LookupURL(baseURL, apiKey string, id models.ImageID) string {
	params := url.Values{}
	params.Set("key", apiKey)
	params.Set("id", id.String())

	if strings.Contains(baseURL, "?") {
		return baseURL + "&" + params.Encode()
	}
	return baseURL + "?" + params.Encode()
}

// MaskKey hides all but the last four characters of an API key
func MaskKey(apiKey string) string {
	if len(apiKey) <= 4 {
		return strings.Repeat("*", len(apiKey))
	}
	return strings.Repeat("*", len(apiKey)-4) + apiKey[len(apiKey)-4:]
}

// redactURL returns rawURL with its key query parameter masked
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	if key := q.Get("key"); key != "" {
		q.Set("key", MaskKey(key))
		u.RawQuery = q.Encode()
	}
	return u.String()
}
