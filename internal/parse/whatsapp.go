package parse

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/Bishoy334/chat-analyser/internal/model"
	"github.com/Bishoy334/chat-analyser/internal/textutil"
)

// WhatsApp exports carry one of two timestamp prefix conventions:
//
//	15/3/2024, 9:05 PM - Alice: hello        (dash form)
//	[15/3/2024, 9:05:30 PM] Alice: hello     (bracket form)
//
// Day/month/year tolerate 1-2 digit day and month and 2-4 digit year;
// seconds and AM/PM are optional, with the AM/PM separator sometimes a
// narrow no-break space.
var (
	dashPrefix = regexp.MustCompile(
		`^(\d{1,2})[./-](\d{1,2})[./-](\d{2,4}),?\s+(\d{1,2}):(\d{2})(?::(\d{2}))?(?:[\s\x{202F}\x{00A0}]?([AaPp])\.?[Mm]\.?)?\s+-\s(.*)$`)
	bracketPrefix = regexp.MustCompile(
		`^\[(\d{1,2})[./-](\d{1,2})[./-](\d{2,4}),?\s+(\d{1,2}):(\d{2})(?::(\d{2}))?(?:[\s\x{202F}\x{00A0}]?([AaPp])\.?[Mm]\.?)?\]\s?(.*)$`)
	inlineTimestamp = regexp.MustCompile(
		`(\d{1,2})[./-](\d{1,2})[./-](\d{2,4}),?\s+(\d{1,2}):(\d{2})(?::(\d{2}))?(?:[\s\x{202F}\x{00A0}]?([AaPp])\.?[Mm]\.?)?`)

	groupRenameQuote = regexp.MustCompile(`changed the group name to ["\x{201C}]([^"\x{201D}]+)["\x{201D}]`)
)

// groupIndicatorWords mark a colon-delimited prefix as a group label rather
// than a person.
var groupIndicatorWords = []string{"group", "team", "chat", "family", "squad", "class"}

// ParseWhatsApp converts one exported transcript into a chat. now supplies
// the fallback timestamp for system lines that carry none.
func ParseWhatsApp(content, title string, now func() time.Time) (*model.ParsedChat, error) {
	content = strings.TrimPrefix(content, "\uFEFF")

	var messages []model.Message
	var pending *model.Message

	flush := func() {
		if pending != nil {
			messages = append(messages, *pending)
			pending = nil
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if ts, rest, ok := matchTimestampPrefix(line); ok {
			flush()
			msg := classifyWhatsAppContent(rest)
			msg.Timestamp = ts
			pending = &msg
			continue
		}

		if startsNewWithoutPrefix(line) {
			flush()
			ts, stripped := extractInlineTimestamp(line, now)
			msg := classifyWhatsAppContent(stripped)
			msg.Timestamp = ts
			pending = &msg
			continue
		}

		// plain continuation of the previous message
		if pending != nil {
			pending.Text += "\n" + textutil.CleanMessageText(line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()

	model.SortMessages(messages)

	return &model.ParsedChat{
		Messages:     messages,
		Participants: whatsappParticipants(messages),
		Platforms:    []model.Platform{model.PlatformWhatsApp},
		Title:        title,
	}, nil
}

func matchTimestampPrefix(line string) (time.Time, string, bool) {
	for _, re := range []*regexp.Regexp{dashPrefix, bracketPrefix} {
		if m := re.FindStringSubmatch(line); m != nil {
			return whatsappTime(m), m[8], true
		}
	}
	return time.Time{}, "", false
}

// startsNewWithoutPrefix catches lines that open a new message despite a
// mangled timestamp: a directional-mark prefix or embedded platform
// narrative.
func startsNewWithoutPrefix(line string) bool {
	if r, _ := utf8.DecodeRuneInString(line); unicode.Is(unicode.Cf, r) && !textutil.IsMentionIsolate(r) {
		return true
	}
	if _, ok := textutil.DetectMediaNotice(line); ok {
		return true
	}
	return textutil.IsSystemPhrase(line)
}

func extractInlineTimestamp(line string, now func() time.Time) (time.Time, string) {
	if m := inlineTimestamp.FindStringSubmatch(line); m != nil {
		stripped := strings.TrimSpace(inlineTimestamp.ReplaceAllString(line, ""))
		stripped = strings.TrimLeft(stripped, "[]- ")
		return whatsappTime(m), stripped
	}
	return now(), line
}

// whatsappTime builds a local timestamp from prefix submatches:
// m[1] m[2] = ambiguous day/month fields, m[3] year, m[4]:m[5]:m[6] time,
// m[7] AM/PM marker.
func whatsappTime(m []string) time.Time {
	a, _ := strconv.Atoi(m[1])
	b, _ := strconv.Atoi(m[2])
	day, month := resolveDayMonth(a, b)

	year, _ := strconv.Atoi(m[3])
	if year < 100 {
		year += 2000
	}

	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])
	second := 0
	if m[6] != "" {
		second, _ = strconv.Atoi(m[6])
	}

	switch strings.ToLower(m[7]) {
	case "p":
		if hour < 12 {
			hour += 12
		}
	case "a":
		if hour == 12 {
			hour = 0
		}
	}

	return time.Date(year, time.Month(month), day, hour, minute, second, 0, time.Local)
}

// resolveDayMonth disambiguates the two leading numeric date fields. When
// both fit a month, DD/MM order wins; otherwise the larger value is the day.
func resolveDayMonth(a, b int) (day, month int) {
	if a <= 12 && b <= 12 {
		return a, b
	}
	if a > 12 {
		return a, b
	}
	return b, a
}

// classifyWhatsAppContent splits the text after the timestamp prefix into
// sender and body and runs the system/media reclassification battery.
func classifyWhatsAppContent(rest string) model.Message {
	msg := model.Message{Platform: model.PlatformWhatsApp}

	sender, body, hasSender := splitSender(rest)

	probe := body
	if !hasSender {
		probe = rest
	}

	if mt, ok := textutil.DetectMediaNotice(probe); ok {
		// media lines look like ordinary "Sender: image omitted" messages,
		// so the sender survives even when a system phrase also matches
		msg.From = textutil.NormalizeName(sender)
		msg.Text = textutil.CleanMessageText(probe)
		msg.IsMediaNotice = true
		msg.MediaType = mt
		return msg
	}

	system := !hasSender ||
		textutil.IsSystemPhrase(rest) ||
		textutil.IsSystemPhrase(body) ||
		looksLikeGroupRelay(sender, body)

	if system {
		msg.IsSystem = true
		msg.Text = textutil.CleanMessageText(rest)
		return msg
	}

	msg.From = textutil.NormalizeName(sender)
	msg.Text = textutil.CleanMessageText(body)
	return msg
}

func splitSender(rest string) (sender, body string, ok bool) {
	idx := strings.Index(rest, ": ")
	if idx <= 0 {
		return "", rest, false
	}
	return rest[:idx], rest[idx+2:], true
}

// looksLikeGroupRelay detects the "GroupName: RealSender: text" shape, where
// the first colon segment is a group label rather than the author.
func looksLikeGroupRelay(sender, body string) bool {
	idx := strings.Index(body, ": ")
	if idx <= 0 || idx > 40 {
		return false
	}
	inner := body[:idx]
	if len(strings.Fields(inner)) > 4 {
		return false
	}
	lower := strings.ToLower(sender)
	for _, w := range groupIndicatorWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// whatsappParticipants runs the two-pass extraction: first collect group
// name artifacts from system messages, then collect non-system senders that
// are not artifacts.
func whatsappParticipants(messages []model.Message) []string {
	artifacts := make(map[string]struct{})
	for _, msg := range messages {
		if !msg.IsSystem {
			continue
		}
		if m := groupRenameQuote.FindStringSubmatch(msg.Text); m != nil {
			artifacts[textutil.CanonicalKey(m[1])] = struct{}{}
		}
		if idx := strings.Index(msg.Text, ": "); idx > 0 {
			prefix := msg.Text[:idx]
			lower := strings.ToLower(prefix)
			for _, w := range groupIndicatorWords {
				if strings.Contains(lower, w) {
					artifacts[textutil.CanonicalKey(prefix)] = struct{}{}
					break
				}
			}
		}
	}

	var names []string
	for _, msg := range messages {
		if msg.IsSystem || msg.From == "" {
			continue
		}
		if _, ok := artifacts[textutil.CanonicalKey(msg.From)]; ok {
			continue
		}
		names = append(names, msg.From)
	}
	return model.SortedSet(names)
}
