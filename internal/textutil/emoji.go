package textutil

import "github.com/rivo/uniseg"

// isEmojiRune reports whether r belongs to the Unicode blocks emoji are
// drawn from. Variation selectors and ZWJ are glue, not bases, and are
// excluded; a cluster counts as emoji when it contains at least one base.
func isEmojiRune(r rune) bool {
	switch {
	case r >= 0x1F1E6 && r <= 0x1F1FF: // regional indicators (flags)
		return true
	case r >= 0x1F300 && r <= 0x1F5FF: // misc symbols and pictographs
		return true
	case r >= 0x1F600 && r <= 0x1F64F: // emoticons
		return true
	case r >= 0x1F680 && r <= 0x1F6FF: // transport and map
		return true
	case r >= 0x1F900 && r <= 0x1F9FF: // supplemental symbols
		return true
	case r >= 0x1FA70 && r <= 0x1FAFF: // symbols and pictographs extended-A
		return true
	case r >= 0x2600 && r <= 0x26FF: // misc symbols
		return true
	case r >= 0x2700 && r <= 0x27BF: // dingbats
		return true
	case r == 0x2764: // heavy black heart
		return true
	case r >= 0x2B00 && r <= 0x2BFF: // misc symbols and arrows (stars)
		return true
	}
	return false
}

// ExtractEmojis returns every emoji in s as whole grapheme clusters, in
// order of appearance. A multi-codepoint sequence (flag, ZWJ family, skin
// tone modifier) is one entry.
func ExtractEmojis(s string) []string {
	var out []string
	state := -1
	rest := s
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		for _, r := range cluster {
			if isEmojiRune(r) {
				out = append(out, cluster)
				break
			}
		}
	}
	return out
}

// CountEmojis counts emoji grapheme clusters in s.
func CountEmojis(s string) int {
	return len(ExtractEmojis(s))
}
