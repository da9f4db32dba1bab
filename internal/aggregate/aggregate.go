// Package aggregate composes per-chat metrics into the cross-chat views:
// a global overview, per-platform rollups and per-person summaries that
// span platforms.
package aggregate

import (
	"sort"
	"time"

	"github.com/Bishoy334/chat-analyser/internal/metrics"
	"github.com/Bishoy334/chat-analyser/internal/model"
	"github.com/Bishoy334/chat-analyser/internal/textutil"
)

// ChatAnalysis pairs one chat's descriptive metadata with its metrics.
type ChatAnalysis struct {
	Title        string           `json:"title,omitempty"`
	Platform     model.Platform   `json:"platform"`
	Platforms    []model.Platform `json:"platforms"`
	Participants []string         `json:"participants"`
	Metrics      *metrics.Metrics `json:"metrics"`
}

// Overview is the global rollup over every chat.
type Overview struct {
	Chats            int                 `json:"chats"`
	Totals           metrics.Totals      `json:"totals"`
	Sessions         int                 `json:"sessions"`
	EngagementTime   time.Duration       `json:"engagementTime"`
	TopEmojis        []metrics.CountItem `json:"topEmojis"`
	TopWords         []metrics.CountItem `json:"topWords"`
	HourHistogram    [24]int             `json:"hourHistogram"`
	WeekdayHistogram [7]int              `json:"weekdayHistogram"`
}

// PlatformView is the overview restricted to one platform's chats. Chats
// that merged platforms (mixed) are excluded.
type PlatformView struct {
	Platform         model.Platform      `json:"platform"`
	Chats            int                 `json:"chats"`
	Totals           metrics.Totals      `json:"totals"`
	TopEmojis        []metrics.CountItem `json:"topEmojis"`
	TopWords         []metrics.CountItem `json:"topWords"`
	HourHistogram    [24]int             `json:"hourHistogram"`
	WeekdayHistogram [7]int              `json:"weekdayHistogram"`
	SystemEvents     map[string]int      `json:"systemEvents"`
	LinkDomains      map[string]int      `json:"linkDomains"`
}

// PersonPlatform carries the platform-scoped reply metrics for one person,
// recomputed over that platform's merged message stream.
type PersonPlatform struct {
	Platform     model.Platform          `json:"platform"`
	Messages     int                     `json:"messages"`
	ResponseTime metrics.ResponseSummary `json:"responseTime"`
}

// CrossPlatformMetrics are unweighted means of the person's per-chat
// figures. A chat contributes one sample regardless of its size.
type CrossPlatformMetrics struct {
	AvgMsgLengthChars  float64 `json:"avgMsgLengthChars"`
	QuestionRate       float64 `json:"questionRate"`
	ExclamationRate    float64 `json:"exclamationRate"`
	AvgResponseSeconds float64 `json:"avgResponseSeconds"`
}

// PersonView is one participant's rollup across every chat they appear in.
type PersonView struct {
	Name                 string               `json:"name"`
	Chats                int                  `json:"chats"`
	Platforms            []model.Platform     `json:"platforms"`
	Totals               metrics.Totals       `json:"totals"`
	LongestStreak        int                  `json:"longestStreak"`
	PerPlatform          []PersonPlatform     `json:"perPlatform"`
	CrossPlatformMetrics CrossPlatformMetrics `json:"crossPlatformMetrics"`
}

// HierarchicalAnalysis is the pipeline's final output.
type HierarchicalAnalysis struct {
	Overview        Overview       `json:"overview"`
	PerPlatform     []PlatformView `json:"perPlatform"`
	PerPerson       []PersonView   `json:"perPerson"`
	IndividualChats []ChatAnalysis `json:"individualChats"`
}

// Lightweight returns a copy suitable for compact JSON export: per-chat
// message arrays are cleared, everything else is shared.
func (h *HierarchicalAnalysis) Lightweight() *HierarchicalAnalysis {
	out := &HierarchicalAnalysis{
		Overview:    h.Overview,
		PerPlatform: h.PerPlatform,
		PerPerson:   h.PerPerson,
	}
	for _, ca := range h.IndividualChats {
		lite := *ca.Metrics
		lite.Messages = nil
		out.IndividualChats = append(out.IndividualChats, ChatAnalysis{
			Title:        ca.Title,
			Platform:     ca.Platform,
			Platforms:    ca.Platforms,
			Participants: ca.Participants,
			Metrics:      &lite,
		})
	}
	return out
}

// Build combines chats and their metrics (one-to-one, same order) into the
// hierarchical views.
func Build(chats []*model.ParsedChat, computed []*metrics.Metrics) *HierarchicalAnalysis {
	h := &HierarchicalAnalysis{}

	for i, chat := range chats {
		h.IndividualChats = append(h.IndividualChats, ChatAnalysis{
			Title:        chat.Title,
			Platform:     chat.Platform(),
			Platforms:    chat.Platforms,
			Participants: chat.Participants,
			Metrics:      computed[i],
		})
	}

	h.Overview = buildOverview(computed)
	h.PerPlatform = buildPerPlatform(chats, computed)
	h.PerPerson = buildPerPerson(chats, computed)
	return h
}

func buildOverview(computed []*metrics.Metrics) Overview {
	var o Overview
	emojis := newTally()
	words := newTally()

	for _, m := range computed {
		o.Chats++
		addTotals(&o.Totals, m.Totals)
		o.Sessions += len(m.Sessions)
		o.EngagementTime += m.EngagementTime
		// summing the already-trimmed top lists: words popular in one chat
		// but outside its own top-N cannot resurface here
		emojis.addItems(m.TopEmojis)
		words.addItems(m.TopWords)
		for i, n := range m.HourHistogram {
			o.HourHistogram[i] += n
		}
		for i, n := range m.WeekdayHistogram {
			o.WeekdayHistogram[i] += n
		}
	}

	o.TopEmojis = emojis.top(metrics.TopEmojiCount)
	o.TopWords = words.top(metrics.TopWordCount)
	return o
}

func buildPerPlatform(chats []*model.ParsedChat, computed []*metrics.Metrics) []PlatformView {
	views := make(map[model.Platform]*PlatformView)
	tallies := make(map[model.Platform]*struct{ emojis, words *tally })
	var order []model.Platform

	for i, chat := range chats {
		platform := chat.Platform()
		if platform == model.PlatformMixed {
			continue
		}
		view := views[platform]
		if view == nil {
			view = &PlatformView{
				Platform:     platform,
				SystemEvents: make(map[string]int),
				LinkDomains:  make(map[string]int),
			}
			views[platform] = view
			tallies[platform] = &struct{ emojis, words *tally }{newTally(), newTally()}
			order = append(order, platform)
		}

		m := computed[i]
		view.Chats++
		addTotals(&view.Totals, m.Totals)
		tallies[platform].emojis.addItems(m.TopEmojis)
		tallies[platform].words.addItems(m.TopWords)
		for j, n := range m.HourHistogram {
			view.HourHistogram[j] += n
		}
		for j, n := range m.WeekdayHistogram {
			view.WeekdayHistogram[j] += n
		}
		for ev, n := range m.SystemEvents {
			view.SystemEvents[ev] += n
		}
		for host, n := range m.LinkDomains {
			view.LinkDomains[host] += n
		}
	}

	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	out := make([]PlatformView, 0, len(order))
	for _, platform := range order {
		view := views[platform]
		view.TopEmojis = tallies[platform].emojis.top(metrics.TopEmojiCount)
		view.TopWords = tallies[platform].words.top(metrics.TopWordCount)
		out = append(out, *view)
	}
	return out
}

func buildPerPerson(chats []*model.ParsedChat, computed []*metrics.Metrics) []PersonView {
	var names []string
	seen := make(map[string]struct{})
	for _, chat := range chats {
		for _, p := range chat.Participants {
			key := textutil.CanonicalKey(p)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			names = append(names, p)
		}
	}
	sort.Strings(names)

	out := make([]PersonView, 0, len(names))
	for _, name := range names {
		out = append(out, buildPerson(name, chats, computed))
	}
	return out
}

func buildPerson(name string, chats []*model.ParsedChat, computed []*metrics.Metrics) PersonView {
	view := PersonView{Name: name}
	key := textutil.CanonicalKey(name)

	var platforms []model.Platform
	var chatEntries []*metrics.UserStats

	for i, chat := range chats {
		if !containsKey(chat.Participants, key) {
			continue
		}
		view.Chats++
		platforms = append(platforms, chat.Platforms...)

		if user := lookupUser(computed[i].ByUser, key); user != nil {
			chatEntries = append(chatEntries, user)
			view.Totals.Messages += user.Messages
			view.Totals.Words += user.Words
			view.Totals.Characters += user.Characters
			view.Totals.Emojis += user.Emojis
			view.Totals.MediaNotices += user.MediaNotices
			view.Totals.Links += user.Links
			if user.LongestStreak > view.LongestStreak {
				view.LongestStreak = user.LongestStreak
			}
		}
	}
	view.Platforms = model.SortedPlatforms(platforms)

	for _, platform := range view.Platforms {
		view.PerPlatform = append(view.PerPlatform, platformReplay(name, platform, chats))
	}

	view.CrossPlatformMetrics = meanOfChats(chatEntries)
	return view
}

// platformReplay re-derives reply metrics over the platform-wide merged
// message stream. This is deliberately independent of the per-chat pairwise
// latency: that one is keyed by sender pair within a single chat, while this
// needs "did this person reply" over one platform's full ordering across
// possibly several merged chats.
func platformReplay(name string, platform model.Platform, chats []*model.ParsedChat) PersonPlatform {
	key := textutil.CanonicalKey(name)

	var stream []model.Message
	for _, chat := range chats {
		if !containsKey(chat.Participants, key) {
			continue
		}
		for _, msg := range chat.Messages {
			if msg.Platform == platform {
				stream = append(stream, msg)
			}
		}
	}
	model.SortMessages(stream)

	pp := PersonPlatform{Platform: platform}
	var samples []float64
	for i := range stream {
		msg := &stream[i]
		if textutil.CanonicalKey(msg.From) != key {
			continue
		}
		pp.Messages++
		if i == 0 {
			continue
		}
		prev := &stream[i-1]
		if prev.IsSystem || msg.IsSystem || prev.From == "" ||
			textutil.CanonicalKey(prev.From) == key {
			continue
		}
		gap := msg.Timestamp.Sub(prev.Timestamp)
		if gap >= 0 && gap <= metrics.MaxReplyGap {
			samples = append(samples, gap.Seconds())
		}
	}
	pp.ResponseTime = metrics.SummarizeResponse(samples)
	return pp
}

// meanOfChats averages per-chat entries with equal weight. A mean of means,
// not a pooled weighted mean.
func meanOfChats(entries []*metrics.UserStats) CrossPlatformMetrics {
	var c CrossPlatformMetrics
	if len(entries) == 0 {
		return c
	}
	responded := 0
	for _, e := range entries {
		c.AvgMsgLengthChars += e.AvgMsgLengthChars
		c.QuestionRate += e.QuestionRate
		c.ExclamationRate += e.ExclamationRate
		if e.ResponseTime.Count > 0 {
			c.AvgResponseSeconds += e.ResponseTime.MeanSeconds
			responded++
		}
	}
	n := float64(len(entries))
	c.AvgMsgLengthChars /= n
	c.QuestionRate /= n
	c.ExclamationRate /= n
	if responded > 0 {
		c.AvgResponseSeconds /= float64(responded)
	}
	return c
}

func addTotals(dst *metrics.Totals, src metrics.Totals) {
	dst.Messages += src.Messages
	dst.Words += src.Words
	dst.Characters += src.Characters
	dst.Emojis += src.Emojis
	dst.MediaNotices += src.MediaNotices
	dst.Links += src.Links
}

// lookupUser finds a per-user bucket by canonical name key.
func lookupUser(byUser map[string]*metrics.UserStats, key string) *metrics.UserStats {
	for name, user := range byUser {
		if name == metrics.SystemUser {
			continue
		}
		if textutil.CanonicalKey(name) == key {
			return user
		}
	}
	return nil
}

func containsKey(participants []string, key string) bool {
	for _, p := range participants {
		if textutil.CanonicalKey(p) == key {
			return true
		}
	}
	return false
}

// tally re-aggregates already-trimmed top-N lists, keeping first-seen order
// for tie-breaking like the per-chat counter does.
type tally struct {
	counts map[string]int
	order  map[string]int
	next   int
}

func newTally() *tally {
	return &tally{counts: make(map[string]int), order: make(map[string]int)}
}

func (t *tally) addItems(items []metrics.CountItem) {
	for _, it := range items {
		if _, seen := t.counts[it.Value]; !seen {
			t.order[it.Value] = t.next
			t.next++
		}
		t.counts[it.Value] += it.Count
	}
}

func (t *tally) top(n int) []metrics.CountItem {
	items := make([]metrics.CountItem, 0, len(t.counts))
	for k, v := range t.counts {
		items = append(items, metrics.CountItem{Value: k, Count: v})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return t.order[items[i].Value] < t.order[items[j].Value]
	})
	if len(items) > n {
		items = items[:n]
	}
	return items
}
