package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Bishoy334/chat-analyser/internal/aggregate"
	"github.com/Bishoy334/chat-analyser/internal/metrics"
	"github.com/Bishoy334/chat-analyser/internal/model"
)

func TestSummary(t *testing.T) {
	chat := &model.ParsedChat{
		Messages: []model.Message{
			{Timestamp: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC), From: "Alice", Text: "hi there", Platform: model.PlatformWhatsApp},
			{Timestamp: time.Date(2024, 3, 15, 10, 2, 0, 0, time.UTC), From: "Bob", Text: "hello", Platform: model.PlatformWhatsApp},
		},
		Participants: []string{"Alice", "Bob"},
		Platforms:    []model.Platform{model.PlatformWhatsApp},
	}
	m := metrics.Compute(chat, metrics.Config{Now: time.Now})
	analysis := aggregate.Build([]*model.ParsedChat{chat}, []*metrics.Metrics{m})

	var buf bytes.Buffer
	Summary(&buf, analysis)
	out := buf.String()

	assert.Contains(t, out, "Overview")
	assert.Contains(t, out, "chats 1")
	assert.Contains(t, out, "messages 2")
	assert.Contains(t, out, "whatsapp")
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "Bob")
	assert.Contains(t, out, "2m00s", "Bob's reply gap shows as the median")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45s", formatDuration(45*time.Second))
	assert.Equal(t, "5m30s", formatDuration(5*time.Minute+30*time.Second))
	assert.Equal(t, "2h05m", formatDuration(2*time.Hour+5*time.Minute))
}

func TestPadName(t *testing.T) {
	assert.Equal(t, "ab  ", padName("ab", 4))
	assert.Equal(t, "abcd", padName("abcd", 3))
}
