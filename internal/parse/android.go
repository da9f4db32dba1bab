package parse

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Bishoy334/chat-analyser/internal/model"
	"github.com/Bishoy334/chat-analyser/internal/textutil"
)

type androidBackup struct {
	XMLName xml.Name
	SMS     []androidSMS `xml:"sms"`
	MMS     []androidMMS `xml:"mms"`
}

type androidSMS struct {
	Date        int64  `xml:"date,attr"`
	Type        int    `xml:"type,attr"`
	Body        string `xml:"body,attr"`
	ContactName string `xml:"contact_name,attr"`
}

type androidMMS struct {
	Date        int64         `xml:"date,attr"`
	MsgBox      int           `xml:"msg_box,attr"`
	ContactName string        `xml:"contact_name,attr"`
	Parts       []androidPart `xml:"parts>part"`
}

type androidPart struct {
	ContentType string `xml:"ct,attr"`
	Text        string `xml:"text,attr"`
	Charset     string `xml:"chset,attr"`
}

// SMS/MMS direction codes: 1 = received, 2 = sent by the device owner. The
// owner's display name is not in the backup, so sent messages stay
// unattributed until identity resolution fills them in.
const (
	androidReceived = 1
	androidSent     = 2
)

var numericEntity = regexp.MustCompile(`&#(x[0-9a-fA-F]+|\d+);`)

// decodeNumericEntities rewrites double-encoded numeric character references
// (common in SMS backup bodies, e.g. &#128557;) to their literal runes.
func decodeNumericEntities(s string) string {
	if !strings.Contains(s, "&#") {
		return s
	}
	return numericEntity.ReplaceAllStringFunc(s, func(ent string) string {
		inner := ent[2 : len(ent)-1]
		var v uint64
		var err error
		if inner[0] == 'x' || inner[0] == 'X' {
			v, err = strconv.ParseUint(inner[1:], 16, 32)
		} else {
			v, err = strconv.ParseUint(inner, 10, 32)
		}
		if err != nil || v > 0x10FFFF {
			return ent
		}
		return string(rune(v))
	})
}

// ParseAndroid converts an SMS Backup & Restore style XML export into a
// chat. A document whose root element is not <smses> is a structural error.
func ParseAndroid(raw []byte, title string) (*model.ParsedChat, error) {
	var backup androidBackup
	if err := xml.Unmarshal(raw, &backup); err != nil {
		return nil, fmt.Errorf("decode android export: %w", err)
	}
	if backup.XMLName.Local != "smses" {
		return nil, ErrNotAndroidExport
	}

	var messages []model.Message
	for _, sms := range backup.SMS {
		msg, ok := convertSMS(sms)
		if !ok {
			continue
		}
		messages = append(messages, msg)
	}
	for _, mms := range backup.MMS {
		msg, ok := convertMMS(mms)
		if !ok {
			continue
		}
		messages = append(messages, msg)
	}

	model.SortMessages(messages)

	var names []string
	for _, msg := range messages {
		// device-owner messages have no sender yet and stay out of the set
		if msg.From != "" {
			names = append(names, msg.From)
		}
	}

	return &model.ParsedChat{
		Messages:     messages,
		Participants: model.SortedSet(names),
		Platforms:    []model.Platform{model.PlatformAndroid},
		Title:        title,
	}, nil
}

func convertSMS(sms androidSMS) (model.Message, bool) {
	body := textutil.CleanMessageText(decodeNumericEntities(sms.Body))
	if strings.TrimSpace(body) == "" {
		return model.Message{}, false
	}
	msg := model.Message{
		Timestamp: time.UnixMilli(sms.Date),
		Text:      body,
		Platform:  model.PlatformAndroid,
	}
	if sms.Type == androidReceived {
		msg.From = textutil.NormalizeName(sms.ContactName)
	}
	return msg, true
}

func convertMMS(mms androidMMS) (model.Message, bool) {
	msg := model.Message{
		Timestamp: time.UnixMilli(mms.Date),
		Platform:  model.PlatformAndroid,
	}
	if mms.MsgBox == androidReceived {
		msg.From = textutil.NormalizeName(mms.ContactName)
	}

	var textParts []string
	var mediaKinds []model.MediaType
	for _, part := range mms.Parts {
		ct := strings.ToLower(part.ContentType)
		switch {
		case ct == "text/plain":
			text := part.Text
			if part.Charset == "106" {
				text = decodeNumericEntities(text)
			}
			text = textutil.CleanMessageText(text)
			if strings.TrimSpace(text) != "" {
				textParts = append(textParts, text)
			}
		case ct == "application/smil":
			// layout part, never content
		case strings.HasPrefix(ct, "image/"):
			mediaKinds = append(mediaKinds, model.MediaImage)
		case strings.HasPrefix(ct, "video/"):
			mediaKinds = append(mediaKinds, model.MediaVideo)
		case strings.HasPrefix(ct, "audio/"):
			mediaKinds = append(mediaKinds, model.MediaAudio)
		default:
			mediaKinds = append(mediaKinds, model.MediaGeneric)
		}
	}

	switch {
	case len(textParts) > 0:
		msg.Text = strings.Join(textParts, "\n")
	case len(mediaKinds) > 0:
		msg.IsMediaNotice = true
		msg.MediaType = dominantMediaKind(mediaKinds)
		msg.Text = fmt.Sprintf("%s attached", msg.MediaType)
	default:
		return model.Message{}, false
	}
	return msg, true
}

// dominantMediaKind picks the single kind when the parts agree, generic
// otherwise.
func dominantMediaKind(kinds []model.MediaType) model.MediaType {
	first := kinds[0]
	for _, k := range kinds[1:] {
		if k != first {
			return model.MediaGeneric
		}
	}
	return first
}
