package textutil

import (
	"strings"
	"unicode"
)

// Stopwords is the generic English stoplist applied when selecting top
// words. It never affects raw word totals.
var Stopwords = newSet(
	"the", "and", "for", "are", "but", "not", "you", "all", "any", "can",
	"had", "her", "was", "one", "our", "out", "day", "get", "has", "him",
	"his", "how", "man", "new", "now", "old", "see", "two", "way", "who",
	"did", "its", "let", "put", "say", "she", "too", "use", "that", "with",
	"have", "this", "will", "your", "from", "they", "know", "want", "been",
	"good", "much", "some", "time", "very", "when", "come", "here", "just",
	"like", "long", "make", "many", "more", "only", "over", "such", "take",
	"than", "them", "well", "were", "what", "about", "there", "think",
	"would", "could", "their", "other", "after", "first", "these", "going",
	"right", "really", "should", "because", "dont", "don't", "didnt",
	"didn't", "cant", "can't", "im", "i'm", "ive", "i've", "youre",
	"you're", "thats", "that's", "was", "yeah", "okay", "also", "then",
	"still", "even", "back", "said", "where", "which", "being", "before",
	"doing", "into", "something", "anything",
)

// SystemVocabulary is vocabulary characteristic of platform narrative text
// ("image omitted", "messages are end-to-end encrypted", ...). System
// messages drop these tokens before any word counting; user messages drop
// them only from top-word selection.
var SystemVocabulary = newSet(
	"omitted", "image", "video", "audio", "sticker", "document", "media",
	"message", "messages", "deleted", "group", "call", "calls", "missed",
	"voice", "changed", "subject", "icon", "added", "removed", "left",
	"created", "encrypted", "end", "security", "code", "tapped", "joined",
	"using", "link", "admin", "poll", "gif", "contact", "card", "attached",
	"waiting", "this",
)

// ArabiziAllowlist force-includes common Egyptian-Arabizi colloquialisms in
// top-word tracking even when they are short enough to look like noise.
var ArabiziAllowlist = newSet(
	"ya", "la", "eh", "ah", "aywa", "mesh", "msh", "ana", "enta", "enty",
	"howa", "heya", "keda", "kda", "awy", "awi", "gedan", "bas", "tab",
	"tayeb", "tyb", "mashy", "mashi", "khalas", "5alas", "yalla", "habibi",
	"habibty", "wallah", "wallahi", "isa", "inshallah", "el", "fe", "fi",
	"mn", "leh", "lih", "ezay", "ezayak", "fen", "emta", "kol", "kteer",
	"ktir", "shwaya", "delwa2ty", "bokra", "embare7", "nharda", "3ashan",
	"3shan", "ba2a", "b2a", "maalesh", "ma3lesh", "begad", "gamed", "helw",
	"7elw", "tamam", "zay", "bardo", "lesa", "0k",
)

func newSet(words ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

// Tokenize lowercases s and splits it into alphabetic runs. Apostrophes are
// kept when they sit between letters so contractions stay whole.
func Tokenize(s string) []string {
	var tokens []string
	var b strings.Builder
	runes := []rune(strings.ToLower(s))
	flush := func() {
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}
	for i, r := range runes {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(r)
		case r == '\'' && b.Len() > 0 && i+1 < len(runes) && unicode.IsLetter(runes[i+1]):
			b.WriteRune(r)
		default:
			flush()
		}
	}
	flush()
	return tokens
}

// IsLatinToken reports whether every letter in the token is Latin script.
func IsLatinToken(token string) bool {
	for _, r := range token {
		if unicode.IsLetter(r) && !unicode.Is(unicode.Latin, r) {
			return false
		}
	}
	return true
}

// QualifiesTopWord decides whether a token enters frequency tracking:
// Latin-script, at least 3 runes, digit-free, and either allow-listed
// Arabizi or absent from both stoplists. Tokens matching a component of the
// sender's own name are rejected regardless.
func QualifiesTopWord(token string, senderTokens []string) bool {
	for _, nt := range senderTokens {
		if token == nt {
			return false
		}
	}
	if _, ok := ArabiziAllowlist[token]; ok {
		return true
	}
	if len([]rune(token)) < 3 {
		return false
	}
	if !IsLatinToken(token) {
		return false
	}
	for _, r := range token {
		if unicode.IsDigit(r) {
			return false
		}
	}
	if _, ok := Stopwords[token]; ok {
		return false
	}
	if _, ok := SystemVocabulary[token]; ok {
		return false
	}
	return true
}

// CountableWords returns the tokens of visible text that count toward word
// totals. System messages shed system vocabulary first so narrative boiler-
// plate is not mistaken for prose.
func CountableWords(visible string, isSystem bool) []string {
	tokens := Tokenize(visible)
	if !isSystem {
		return tokens
	}
	var out []string
	for _, t := range tokens {
		if _, ok := SystemVocabulary[t]; ok {
			continue
		}
		out = append(out, t)
	}
	return out
}
