package textutil

import (
	"regexp"
	"strings"
)

// WhatsApp wraps mention display names in first-strong-isolate pairs;
// Instagram and plain text use literal @name runs.
var (
	isolateMention = regexp.MustCompile(`\x{2068}([^\x{2069}]*)\x{2069}`)
	atMention      = regexp.MustCompile(`@([\p{L}][\p{L}\p{N}_'.]*)`)
)

// ExtractMentions pulls mention candidates out of raw message text and
// returns the text with the mention spans removed. Candidates are raw
// display-name strings; the caller decides which ones name real
// participants.
func ExtractMentions(text string) ([]string, string) {
	var candidates []string

	for _, m := range isolateMention.FindAllStringSubmatch(text, -1) {
		if name := NormalizeName(m[1]); name != "" {
			candidates = append(candidates, name)
		}
	}
	text = isolateMention.ReplaceAllString(text, "")

	for _, m := range atMention.FindAllStringSubmatch(text, -1) {
		if name := NormalizeName(m[1]); name != "" {
			candidates = append(candidates, name)
		}
	}
	text = atMention.ReplaceAllString(text, "")

	return candidates, strings.TrimSpace(text)
}
