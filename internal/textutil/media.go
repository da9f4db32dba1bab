package textutil

import (
	"strings"

	"github.com/Bishoy334/chat-analyser/internal/model"
)

// mediaPhrases maps the placeholder phrasings the platforms emit to the
// media kind they stand for. Matching is case-insensitive substring over the
// control-mark-stripped text.
var mediaPhrases = []struct {
	phrase string
	kind   model.MediaType
}{
	{"image omitted", model.MediaImage},
	{"photo omitted", model.MediaPhoto},
	{"video omitted", model.MediaVideo},
	{"audio omitted", model.MediaAudio},
	{"sticker omitted", model.MediaSticker},
	{"document omitted", model.MediaDocument},
	{"gif omitted", model.MediaGIF},
	{"contact card omitted", model.MediaDocument},
	{"<media omitted>", model.MediaGeneric},
	{"media omitted", model.MediaGeneric},
	{"sent a photo", model.MediaPhoto},
	{"sent an attachment", model.MediaGeneric},
	{"sent a video", model.MediaVideo},
	{"sent an audio", model.MediaAudio},
	{"shared:", model.MediaShare},
}

// DetectMediaNotice reports whether text is an attachment placeholder and,
// if so, which media kind it names.
func DetectMediaNotice(text string) (model.MediaType, bool) {
	lower := strings.ToLower(StripControlMarks(text))
	for _, mp := range mediaPhrases {
		if strings.Contains(lower, mp.phrase) {
			return mp.kind, true
		}
	}
	return "", false
}

// whatsappSystemPhrases are substrings that mark a line as platform
// narrative rather than user content.
var whatsappSystemPhrases = []string{
	"messages and calls are end-to-end encrypted",
	"messages to this group are now secured",
	"your security code with",
	"this message was deleted",
	"you deleted this message",
	"missed voice call",
	"missed video call",
	"changed the group name to",
	"changed this group's icon",
	"changed the subject",
	"changed their phone number",
	"added you",
	"to the group",
	"left the group",
	"removed ",
	"created group",
	"created this group",
	"joined using this group's invite link",
	"you're now an admin",
	"created a poll",
	"turned on disappearing messages",
	"turned off disappearing messages",
	"tap to learn more",
}

// IsSystemPhrase reports whether text matches any known platform-narrative
// phrasing.
func IsSystemPhrase(text string) bool {
	lower := strings.ToLower(StripControlMarks(text))
	for _, p := range whatsappSystemPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// System event categories, in classification priority order.
const (
	EventDeleted       = "deleted"
	EventMissedCall    = "missed_call"
	EventCall          = "call"
	EventAdded         = "added"
	EventLeft          = "left"
	EventSubjectChange = "subject_change"
	EventIconChange    = "icon_change"
	EventPoll          = "poll"
	EventOther         = "system_other"
)

var systemEventPatterns = []struct {
	category string
	phrases  []string
}{
	{EventDeleted, []string{"was deleted", "deleted this message"}},
	{EventMissedCall, []string{"missed voice call", "missed video call", "missed call"}},
	{EventCall, []string{"voice call", "video call", "started a call", "call ended"}},
	{EventAdded, []string{"added", "joined using"}},
	{EventLeft, []string{"left the group", "left", "removed"}},
	{EventSubjectChange, []string{"changed the group name", "changed the subject"}},
	{EventIconChange, []string{"changed this group's icon", "changed the group icon"}},
	{EventPoll, []string{"created a poll", "poll:"}},
}

// ClassifySystemEvent buckets a system message's text into a fixed category
// set, falling through to EventOther.
func ClassifySystemEvent(text string) string {
	lower := strings.ToLower(StripControlMarks(text))
	for _, pat := range systemEventPatterns {
		for _, p := range pat.phrases {
			if strings.Contains(lower, p) {
				return pat.category
			}
		}
	}
	return EventOther
}
