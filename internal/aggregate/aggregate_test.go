package aggregate

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bishoy334/chat-analyser/internal/identity"
	"github.com/Bishoy334/chat-analyser/internal/merge"
	"github.com/Bishoy334/chat-analyser/internal/metrics"
	"github.com/Bishoy334/chat-analyser/internal/model"
)

var base = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func chatOf(platform model.Platform, title string, msgs ...model.Message) *model.ParsedChat {
	var names []string
	for i := range msgs {
		msgs[i].Platform = platform
		if msgs[i].From != "" && !msgs[i].IsSystem {
			names = append(names, msgs[i].From)
		}
	}
	return &model.ParsedChat{
		Messages:     msgs,
		Participants: model.SortedSet(names),
		Platforms:    []model.Platform{platform},
		Title:        title,
	}
}

func msg(offset time.Duration, from, text string) model.Message {
	return model.Message{Timestamp: base.Add(offset), From: from, Text: text}
}

func buildFixture() ([]*model.ParsedChat, []*metrics.Metrics) {
	chats := []*model.ParsedChat{
		chatOf(model.PlatformWhatsApp, "alice wa",
			msg(0, "Me", "hey"),
			msg(2*time.Minute, "Alice", "hey back"),
			msg(4*time.Minute, "Me", "how are you"),
		),
		chatOf(model.PlatformInstagram, "alice insta",
			msg(time.Hour, "Alice", "saw this https://example.com/x"),
			msg(time.Hour+time.Minute, "Me", "nice 😀"),
		),
	}
	cfg := metrics.Config{CountFullGap: true, Now: func() time.Time { return base }}
	computed := make([]*metrics.Metrics, len(chats))
	for i, c := range chats {
		computed[i] = metrics.Compute(c, cfg)
	}
	return chats, computed
}

func TestOverviewSumsChats(t *testing.T) {
	chats, computed := buildFixture()
	h := Build(chats, computed)

	assert.Equal(t, 2, h.Overview.Chats)
	assert.Equal(t, 5, h.Overview.Totals.Messages)
	assert.Equal(t, computed[0].Totals.Links+computed[1].Totals.Links, h.Overview.Totals.Links)
	assert.Equal(t, len(computed[0].Sessions)+len(computed[1].Sessions), h.Overview.Sessions)
	assert.Equal(t, computed[0].EngagementTime+computed[1].EngagementTime, h.Overview.EngagementTime)

	assert.Equal(t, 3, h.Overview.HourHistogram[10])
	assert.Equal(t, 2, h.Overview.HourHistogram[11])
	assert.Len(t, h.IndividualChats, 2)
	assert.Equal(t, "alice wa", h.IndividualChats[0].Title)
}

func TestPerPlatformExcludesMixed(t *testing.T) {
	chats, computed := buildFixture()
	mixed := chatOf(model.PlatformWhatsApp, "merged", msg(0, "Alice", "x"))
	mixed.Platforms = []model.Platform{model.PlatformWhatsApp, model.PlatformInstagram}
	cfg := metrics.Config{Now: func() time.Time { return base }}
	chats = append(chats, mixed)
	computed = append(computed, metrics.Compute(mixed, cfg))

	h := Build(chats, computed)
	require.Len(t, h.PerPlatform, 2)
	assert.Equal(t, model.PlatformInstagram, h.PerPlatform[0].Platform)
	assert.Equal(t, model.PlatformWhatsApp, h.PerPlatform[1].Platform)
	assert.Equal(t, 1, h.PerPlatform[0].Chats)
	assert.Equal(t, 3, h.PerPlatform[1].Totals.Messages, "mixed chat counted nowhere")
}

func TestPerPersonSpansPlatforms(t *testing.T) {
	chats, computed := buildFixture()
	h := Build(chats, computed)

	require.Len(t, h.PerPerson, 2)
	assert.Equal(t, "Alice", h.PerPerson[0].Name)
	assert.Equal(t, "Me", h.PerPerson[1].Name)

	alice := h.PerPerson[0]
	assert.Equal(t, 2, alice.Chats)
	assert.Equal(t, []model.Platform{model.PlatformInstagram, model.PlatformWhatsApp}, alice.Platforms)
	assert.Equal(t, 2, alice.Totals.Messages)

	require.Len(t, alice.PerPlatform, 2)
	wa := alice.PerPlatform[1]
	assert.Equal(t, model.PlatformWhatsApp, wa.Platform)
	assert.Equal(t, 1, wa.Messages)
	assert.Equal(t, 1, wa.ResponseTime.Count, "replied to Me after 2m")
	assert.InDelta(t, 120, wa.ResponseTime.MeanSeconds, 0.001)

	insta := alice.PerPlatform[0]
	assert.Equal(t, 1, insta.Messages)
	assert.Zero(t, insta.ResponseTime.Count, "Alice opened the Instagram chat")
}

func TestPerPersonLookupIsCaseInsensitive(t *testing.T) {
	chats := []*model.ParsedChat{
		chatOf(model.PlatformWhatsApp, "a", msg(0, "ALICE", "hi"), msg(time.Minute, "Me", "yo")),
		chatOf(model.PlatformInstagram, "b", msg(0, "alice", "hey"), msg(time.Minute, "Me", "hm")),
	}
	cfg := metrics.Config{Now: func() time.Time { return base }}
	computed := []*metrics.Metrics{metrics.Compute(chats[0], cfg), metrics.Compute(chats[1], cfg)}

	h := Build(chats, computed)
	require.Len(t, h.PerPerson, 2)
	assert.Equal(t, "ALICE", h.PerPerson[0].Name, "first-seen spelling wins")
	assert.Equal(t, 2, h.PerPerson[0].Chats)
	assert.Equal(t, 2, h.PerPerson[0].Totals.Messages)
}

func TestCrossPlatformMeansAreUnweighted(t *testing.T) {
	chats, computed := buildFixture()
	h := Build(chats, computed)

	me := h.PerPerson[1]
	u0 := computed[0].ByUser["Me"]
	u1 := computed[1].ByUser["Me"]
	want := (u0.AvgMsgLengthChars + u1.AvgMsgLengthChars) / 2
	assert.InDelta(t, want, me.CrossPlatformMetrics.AvgMsgLengthChars, 0.001)
}

// Full pipeline shape: two WhatsApp exports of the same pair collapse into
// one chat, the Instagram alias folds into the WhatsApp spelling, and the
// final per-person view has exactly two people.
func TestPipelineFoldsAliasesIntoTwoPeople(t *testing.T) {
	chats := []*model.ParsedChat{
		chatOf(model.PlatformWhatsApp, "wa part1",
			msg(0, "Alice", "hi"), msg(time.Minute, "Bob", "hey")),
		chatOf(model.PlatformWhatsApp, "wa part2",
			msg(2*time.Hour, "Bob", "later"), msg(2*time.Hour+time.Minute, "Alice", "yep")),
		chatOf(model.PlatformInstagram, "insta",
			msg(time.Hour, "Bob B.", "yo"), msg(time.Hour+time.Minute, "Alice", "yo yourself")),
	}

	chats = merge.Chats(chats)
	require.Len(t, chats, 2, "same-pair whatsapp exports merge")

	log := logrus.New()
	log.SetOutput(io.Discard)
	resolved, err := identity.NewResolver(identity.AutoPrompt{}, log).Resolve(chats)
	require.NoError(t, err)

	cfg := metrics.Config{Now: func() time.Time { return base }}
	computed := make([]*metrics.Metrics, len(resolved))
	for i, c := range resolved {
		computed[i] = metrics.Compute(c, cfg)
	}

	h := Build(resolved, computed)
	require.Len(t, h.PerPerson, 2)
	assert.Equal(t, "Alice", h.PerPerson[0].Name)
	assert.Equal(t, "Bob", h.PerPerson[1].Name, "Bob B. folded into Bob")
	assert.Equal(t, 2, h.PerPerson[1].Chats)
	assert.Equal(t, 3, h.PerPerson[1].Totals.Messages)
}

func TestLightweightDropsMessages(t *testing.T) {
	chats, computed := buildFixture()
	h := Build(chats, computed)

	lite := h.Lightweight()
	for _, ca := range lite.IndividualChats {
		assert.Nil(t, ca.Metrics.Messages)
	}
	for _, ca := range h.IndividualChats {
		assert.NotEmpty(t, ca.Metrics.Messages, "full analysis keeps the flat stream")
	}
	assert.Equal(t, h.Overview, lite.Overview)
}
