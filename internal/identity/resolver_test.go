package identity

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bishoy334/chat-analyser/internal/model"
)

// scriptPrompt plays back canned answers.
type scriptPrompt struct {
	interactive bool
	accept      bool
	manual      string
	owner       string

	confirmCalls [][2]string
}

func (p *scriptPrompt) Interactive() bool { return p.interactive }

func (p *scriptPrompt) ConfirmMapping(candidate, suggestion string) (bool, error) {
	p.confirmCalls = append(p.confirmCalls, [2]string{candidate, suggestion})
	return p.accept, nil
}

func (p *scriptPrompt) RequestManualName(string) (string, error) { return p.manual, nil }

func (p *scriptPrompt) RequestDeviceOwnerName() (string, error) { return p.owner, nil }

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func chatWith(platform model.Platform, participants []string, senders ...string) *model.ParsedChat {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	var msgs []model.Message
	for i, s := range senders {
		msgs = append(msgs, model.Message{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			From:      s,
			Text:      "hi",
			Platform:  platform,
		})
	}
	return &model.ParsedChat{
		Messages:     msgs,
		Participants: model.SortedSet(participants),
		Platforms:    []model.Platform{platform},
	}
}

func TestResolveNoVariationsNoChanges(t *testing.T) {
	chats := []*model.ParsedChat{
		chatWith(model.PlatformWhatsApp, []string{"Alice", "Bob"}, "Alice", "Bob"),
		chatWith(model.PlatformInstagram, []string{"Alice", "Bob"}, "Bob", "Alice"),
	}
	r := NewResolver(AutoPrompt{}, quietLogger())
	out, err := r.Resolve(chats)
	require.NoError(t, err)
	assert.Same(t, chats[0], out[0], "identical name sets imply no rewriting")
	assert.Same(t, chats[1], out[1])
}

func TestResolveFoldsVariantTowardPriorityPlatform(t *testing.T) {
	chats := []*model.ParsedChat{
		chatWith(model.PlatformWhatsApp, []string{"Alice", "Bob"}, "Alice", "Bob"),
		chatWith(model.PlatformInstagram, []string{"Alice", "Bob B."}, "Bob B.", "Alice"),
	}
	prompt := &scriptPrompt{accept: true}
	r := NewResolver(prompt, quietLogger())
	out, err := r.Resolve(chats)
	require.NoError(t, err)

	assert.Equal(t, []string{"Alice", "Bob"}, out[1].Participants)
	assert.Equal(t, "Bob", out[1].Messages[0].From, "message senders rewritten")
	require.NotEmpty(t, prompt.confirmCalls)
	assert.Equal(t, [2]string{"Bob B.", "Bob"}, prompt.confirmCalls[0],
		"instagram spelling folds toward the whatsapp name")

	// copy-on-write: original untouched
	assert.Equal(t, "Bob B.", chats[1].Messages[0].From)
}

func TestResolveRejectionFallsBackToManual(t *testing.T) {
	chats := []*model.ParsedChat{
		chatWith(model.PlatformWhatsApp, []string{"Alice", "Bob"}, "Alice", "Bob"),
		chatWith(model.PlatformInstagram, []string{"Alice", "Bob B."}, "Bob B.", "Alice"),
	}
	prompt := &scriptPrompt{interactive: true, accept: false, manual: "Robert"}
	r := NewResolver(prompt, quietLogger())
	out, err := r.Resolve(chats)
	require.NoError(t, err)

	found := false
	for _, p := range out[1].Participants {
		if p == "Robert" {
			found = true
		}
	}
	assert.True(t, found, "manual entry applied")
}

func TestResolveManualEmptyKeepsSeparate(t *testing.T) {
	chats := []*model.ParsedChat{
		chatWith(model.PlatformWhatsApp, []string{"Alice", "Bob"}, "Alice", "Bob"),
		chatWith(model.PlatformInstagram, []string{"Alice", "Zeinab"}, "Zeinab", "Alice"),
	}
	// no heuristic matches Zeinab; auto mode keeps it separate
	r := NewResolver(AutoPrompt{}, quietLogger())
	out, err := r.Resolve(chats)
	require.NoError(t, err)
	assert.Contains(t, out[1].Participants, "Zeinab")
}

func TestResolveDeviceOwner(t *testing.T) {
	android := chatWith(model.PlatformAndroid, []string{"Alice"}, "Alice")
	android.Messages = append(android.Messages, model.Message{
		Timestamp: time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC),
		From:      "",
		Text:      "sent from the phone",
		Platform:  model.PlatformAndroid,
	})

	r := NewResolver(AutoPrompt{DeviceOwner: "Karim"}, quietLogger())
	out, err := r.Resolve([]*model.ParsedChat{android})
	require.NoError(t, err)

	assert.Equal(t, "Karim", out[0].Messages[1].From)
	assert.Contains(t, out[0].Participants, "Karim")
	assert.Empty(t, android.Messages[1].From, "input chat untouched")
}

func TestResolveDeviceOwnerBlankLeavesUnresolved(t *testing.T) {
	android := chatWith(model.PlatformAndroid, []string{"Alice"}, "Alice", "")

	r := NewResolver(AutoPrompt{}, quietLogger())
	out, err := r.Resolve([]*model.ParsedChat{android})
	require.NoError(t, err)
	assert.Empty(t, out[0].Messages[1].From)
	assert.NotContains(t, out[0].Participants, "")
}
