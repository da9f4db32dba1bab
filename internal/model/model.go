package model

import (
	"sort"
	"time"
)

// Platform identifies the messaging service a message or chat came from.
type Platform string

const (
	PlatformWhatsApp  Platform = "whatsapp"
	PlatformInstagram Platform = "instagram"
	PlatformAndroid   Platform = "android_messages"
	// PlatformMixed is never stored on a chat; it is the derived tag for a
	// chat whose constituents span more than one platform.
	PlatformMixed Platform = "mixed"
)

// MediaType classifies what a media-notice placeholder stands for.
type MediaType string

const (
	MediaImage    MediaType = "image"
	MediaVideo    MediaType = "video"
	MediaAudio    MediaType = "audio"
	MediaSticker  MediaType = "sticker"
	MediaDocument MediaType = "document"
	MediaGIF      MediaType = "gif"
	MediaGeneric  MediaType = "media"
	MediaPhoto    MediaType = "photo"
	MediaShare    MediaType = "share"
)

// Message is one communicative event in a chat. From is empty for
// platform-generated messages and for Android device-owner messages that
// have not been resolved to a display name yet.
type Message struct {
	Timestamp     time.Time
	From          string
	Text          string
	IsSystem      bool
	IsMediaNotice bool
	MediaType     MediaType
	Platform      Platform
}

// ParsedChat is one conversation: either the output of a single parser or
// the result of merging several parsed chats. Messages are kept in ascending
// timestamp order; every pipeline stage relies on that.
//
// Platforms records provenance: one entry for a single-source chat, several
// after a cross-platform merge. Chats are treated as immutable; stages that
// rewrite them return fresh copies.
type ParsedChat struct {
	Messages     []Message
	Participants []string
	Platforms    []Platform
	Title        string
}

// Platform returns the chat's effective platform tag, PlatformMixed when the
// chat merges more than one source platform.
func (c *ParsedChat) Platform() Platform {
	if len(c.Platforms) == 1 {
		return c.Platforms[0]
	}
	if len(c.Platforms) > 1 {
		return PlatformMixed
	}
	return ""
}

// HasParticipant reports whether name is in the participant set.
func (c *ParsedChat) HasParticipant(name string) bool {
	for _, p := range c.Participants {
		if p == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy whose slices share nothing with the receiver.
func (c *ParsedChat) Clone() *ParsedChat {
	out := &ParsedChat{
		Messages:     append([]Message(nil), c.Messages...),
		Participants: append([]string(nil), c.Participants...),
		Platforms:    append([]Platform(nil), c.Platforms...),
		Title:        c.Title,
	}
	return out
}

// SortMessages orders messages by ascending timestamp. The sort is stable so
// same-instant messages keep their source order.
func SortMessages(msgs []Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})
}

// SortedSet returns the distinct values of names, sorted. Empty strings are
// dropped.
func SortedSet(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	var out []string
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// SortedPlatforms returns the distinct values of platforms, sorted.
func SortedPlatforms(platforms []Platform) []Platform {
	seen := make(map[Platform]struct{}, len(platforms))
	var out []Platform
	for _, p := range platforms {
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
