package textutil

import (
	"net/url"
	"regexp"
	"strings"
)

var urlPattern = regexp.MustCompile(`https?://[^\s<>"']+`)

// ExtractLinks returns every URL-looking span in s.
func ExtractLinks(s string) []string {
	return urlPattern.FindAllString(s, -1)
}

// CountLinks counts URL-looking spans in s.
func CountLinks(s string) int {
	return len(urlPattern.FindAllStringIndex(s, -1))
}

// LinkDomain extracts the host of a URL with any leading "www." stripped.
// Malformed URLs yield ok=false and are meant to be skipped silently.
func LinkDomain(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimRight(raw, ".,;:)"))
	if err != nil || u.Host == "" {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return "", false
	}
	return host, true
}
