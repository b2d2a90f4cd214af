package utils

import "regexp"

// URL-bearing messages are the only recognized submission shape. The scan
// is case-sensitive and matches from the scheme onward.
var urlPattern = regexp.MustCompile(`https?://\S+`)

// ExtractURLs returns every http(s) URL token found in content, in order.
func ExtractURLs(content string) []string {
	return urlPattern.FindAllString(content, -1)
}
