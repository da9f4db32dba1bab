package parse

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Bishoy334/chat-analyser/internal/model"
	"github.com/Bishoy334/chat-analyser/internal/textutil"
)

type instagramExport struct {
	Participants []struct {
		Name string `json:"name"`
	} `json:"participants"`
	Messages []instagramMessage `json:"messages"`
	Title    string             `json:"title"`
}

type instagramMessage struct {
	SenderName   string            `json:"sender_name"`
	TimestampMs  int64             `json:"timestamp_ms"`
	Content      string            `json:"content"`
	Photos       []json.RawMessage `json:"photos"`
	Videos       []json.RawMessage `json:"videos"`
	AudioFiles   []json.RawMessage `json:"audio_files"`
	Reactions    []json.RawMessage `json:"reactions"`
	Share        *instagramShare   `json:"share"`
	CallDuration *int              `json:"call_duration"`
}

type instagramShare struct {
	Link      string `json:"link"`
	ShareText string `json:"share_text"`
}

// escapeRun matches a maximal run of \uXXXX escapes in raw JSON text.
var escapeRun = regexp.MustCompile(`(?:\\u[0-9a-fA-F]{4})+`)

// RepairInstagramEncoding undoes Instagram's double encoding: the export
// pipeline takes UTF-8 bytes and escapes each byte as if it were a UTF-16
// code unit, so "’" arrives as â. Each maximal run of
// escapes whose code units all fit a byte is reassembled into bytes and
// re-read as UTF-8. Runs have to be handled whole since one character spans
// several escapes.
func RepairInstagramEncoding(raw []byte) []byte {
	return escapeRun.ReplaceAllFunc(raw, func(run []byte) []byte {
		bytes := make([]byte, 0, len(run)/6)
		for i := 0; i+6 <= len(run); i += 6 {
			v, err := strconv.ParseUint(string(run[i+2:i+6]), 16, 32)
			if err != nil || v > 0xFF {
				return run
			}
			bytes = append(bytes, byte(v))
		}
		if !utf8.Valid(bytes) {
			return run
		}
		var b strings.Builder
		for _, r := range string(bytes) {
			// re-escape anything JSON cannot carry literally
			if r < 0x20 || r == '"' || r == '\\' {
				fmt.Fprintf(&b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
		return []byte(b.String())
	})
}

// ParseInstagram converts one message_N.json export into a chat.
func ParseInstagram(raw []byte, title string) (*model.ParsedChat, error) {
	var export instagramExport
	if err := json.Unmarshal(RepairInstagramEncoding(raw), &export); err != nil {
		return nil, fmt.Errorf("decode instagram export: %w", err)
	}
	if len(export.Participants) == 0 && len(export.Messages) == 0 {
		return nil, ErrNotInstagramExport
	}

	var names []string
	for _, p := range export.Participants {
		names = append(names, textutil.NormalizeName(p.Name))
	}

	var messages []model.Message
	for _, im := range export.Messages {
		msg, ok := convertInstagramMessage(im)
		if !ok {
			continue
		}
		messages = append(messages, msg)
	}

	// exports are expected to arrive ordered, but sort anyway
	model.SortMessages(messages)

	if title == "" {
		title = textutil.NormalizeName(export.Title)
	}

	return &model.ParsedChat{
		Messages:     messages,
		Participants: model.SortedSet(names),
		Platforms:    []model.Platform{model.PlatformInstagram},
		Title:        title,
	}, nil
}

// convertInstagramMessage classifies one export record. Priority order:
// photos, videos, audio, share, call, reaction acknowledgement, plain text.
// Records with no usable content are dropped.
func convertInstagramMessage(im instagramMessage) (model.Message, bool) {
	msg := model.Message{
		Timestamp: time.UnixMilli(im.TimestampMs),
		From:      textutil.NormalizeName(im.SenderName),
		Platform:  model.PlatformInstagram,
	}

	switch {
	case len(im.Photos) > 0:
		msg.Text = countedNotice("sent", len(im.Photos), "photo")
		msg.IsMediaNotice = true
		msg.MediaType = model.MediaPhoto
	case len(im.Videos) > 0:
		msg.Text = countedNotice("sent", len(im.Videos), "video")
		msg.IsMediaNotice = true
		msg.MediaType = model.MediaVideo
	case len(im.AudioFiles) > 0:
		msg.Text = countedNotice("sent", len(im.AudioFiles), "audio file")
		msg.IsMediaNotice = true
		msg.MediaType = model.MediaAudio
	case im.Share != nil:
		text := textutil.NormalizeName(im.Share.ShareText)
		if text == "" {
			text = im.Share.Link
		}
		msg.Text = "shared: " + text
		msg.IsMediaNotice = true
		msg.MediaType = model.MediaShare
	case im.CallDuration != nil:
		msg.IsSystem = true
		if *im.CallDuration <= 0 {
			msg.Text = "started a call"
		} else {
			msg.Text = fmt.Sprintf("call ended (%s)", callDuration(*im.CallDuration))
		}
	case isReactionAcknowledgement(im.Content):
		msg.IsSystem = true
		msg.Text = textutil.CleanMessageText(im.Content)
	case strings.TrimSpace(im.Content) != "":
		msg.Text = textutil.CleanMessageText(im.Content)
	default:
		return model.Message{}, false
	}

	return msg, true
}

func countedNotice(verb string, n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%s 1 %s", verb, noun)
	}
	return fmt.Sprintf("%s %d %ss", verb, n, noun)
}

// callDuration renders seconds as M:SS.
func callDuration(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func isReactionAcknowledgement(content string) bool {
	lower := strings.ToLower(strings.TrimSpace(content))
	if strings.HasPrefix(lower, "reacted ") && strings.Contains(lower, " to your message") {
		return true
	}
	return lower == "liked a message"
}
