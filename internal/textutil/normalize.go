package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName canonicalizes a display name: NFC form, invisible
// control/format marks removed, whitespace collapsed to single spaces,
// leading/trailing space trimmed.
func NormalizeName(s string) string {
	s = norm.NFC.String(s)
	s = StripControlMarks(s)
	return CollapseWhitespace(s)
}

// CanonicalKey is the case-folded form of a normalized name, used wherever
// two names must compare equal regardless of capitalization.
func CanonicalKey(s string) string {
	return strings.ToLower(NormalizeName(s))
}

// StripControlMarks removes Unicode format characters (directional marks,
// isolates, zero-width joiners outside emoji context is left to grapheme
// handling) and control characters other than newline and tab.
func StripControlMarks(s string) string {
	return stripMarks(s, false)
}

// CleanMessageText is the parse-time variant of StripControlMarks for
// message bodies: the directional isolates U+2066..U+2069 carry mention
// spans and must survive until ExtractMentions has run.
func CleanMessageText(s string) string {
	return stripMarks(s, true)
}

// IsMentionIsolate reports whether r is one of the directional isolate
// marks that delimit mention spans.
func IsMentionIsolate(r rune) bool {
	return r >= '\u2066' && r <= '\u2069'
}

func stripMarks(s string, keepIsolates bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if keepIsolates && IsMentionIsolate(r) {
			b.WriteRune(r)
			continue
		}
		if unicode.Is(unicode.Cf, r) {
			continue
		}
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CollapseWhitespace trims the string and squeezes interior whitespace runs
// (including non-breaking and thin spaces) down to one regular space.
func CollapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// NameTokens splits a normalized name into its lowercased word components.
func NameTokens(name string) []string {
	return strings.Fields(strings.ToLower(NormalizeName(name)))
}

// ContainsArabic reports whether any rune falls in an Arabic Unicode block.
func ContainsArabic(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Arabic, r) {
			return true
		}
	}
	return false
}
