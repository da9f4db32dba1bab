package merge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bishoy334/chat-analyser/internal/model"
)

func chatAt(platform model.Platform, title string, participants []string, times ...time.Time) *model.ParsedChat {
	var msgs []model.Message
	for i, ts := range times {
		msgs = append(msgs, model.Message{
			Timestamp: ts,
			From:      participants[i%len(participants)],
			Text:      "m",
			Platform:  platform,
		})
	}
	return &model.ParsedChat{
		Messages:     msgs,
		Participants: model.SortedSet(participants),
		Platforms:    []model.Platform{platform},
		Title:        title,
	}
}

func TestMergeSingletonPassesThrough(t *testing.T) {
	chat := chatAt(model.PlatformWhatsApp, "a", []string{"Alice", "Bob"},
		time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	out := Chats([]*model.ParsedChat{chat})
	require.Len(t, out, 1)
	assert.Same(t, chat, out[0], "singleton groups are not copied")
}

func TestMergeSamePlatformSameParticipants(t *testing.T) {
	t1 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC)
	t3 := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

	a := chatAt(model.PlatformWhatsApp, "part1", []string{"Alice", "Bob"}, t1, t2)
	b := chatAt(model.PlatformWhatsApp, "part2", []string{"bob", "alice"}, t3)

	out := Chats([]*model.ParsedChat{a, b})
	require.Len(t, out, 1, "case-folded participant sets group together")

	merged := out[0]
	require.Len(t, merged.Messages, 3)
	assert.True(t, merged.Messages[0].Timestamp.Equal(t1))
	assert.True(t, merged.Messages[1].Timestamp.Equal(t3), "re-sorted ascending")
	assert.True(t, merged.Messages[2].Timestamp.Equal(t2))
	assert.Equal(t, "part1+part2", merged.Title)
	assert.Equal(t, model.PlatformWhatsApp, merged.Platform())
}

func TestMergeDoesNotCrossPlatforms(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	a := chatAt(model.PlatformWhatsApp, "", []string{"Alice", "Bob"}, ts)
	b := chatAt(model.PlatformInstagram, "", []string{"Alice", "Bob"}, ts)

	out := Chats([]*model.ParsedChat{a, b})
	assert.Len(t, out, 2, "identical participants on different platforms stay apart")
}

func TestMergeDoesNotGroupDifferentParticipantSets(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	a := chatAt(model.PlatformWhatsApp, "", []string{"Alice", "Bob"}, ts)
	b := chatAt(model.PlatformWhatsApp, "", []string{"Alice", "Bob", "Cara"}, ts)

	out := Chats([]*model.ParsedChat{a, b})
	assert.Len(t, out, 2)
}

func TestMergeInputsUntouched(t *testing.T) {
	t1 := time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	a := chatAt(model.PlatformWhatsApp, "a", []string{"Alice", "Bob"}, t1)
	b := chatAt(model.PlatformWhatsApp, "b", []string{"Alice", "Bob"}, t2)

	Chats([]*model.ParsedChat{a, b})
	assert.True(t, a.Messages[0].Timestamp.Equal(t1), "input slices not reordered")
	assert.Equal(t, "a", a.Title)
}
