// Package metrics derives the per-chat statistics: totals, per-user
// rollups, sessions, engagement time, reply latency, histograms, streaks
// and frequency tables. One forward pass over the timestamp-sorted message
// stream, carrying only the previous message as look-behind.
package metrics

import (
	"sort"
	"strings"
	"time"

	"github.com/Bishoy334/chat-analyser/internal/model"
	"github.com/Bishoy334/chat-analyser/internal/textutil"
)

type pairKey struct {
	from, to string
}

// openSession is the in-flight session accumulator.
type openSession struct {
	start        time.Time
	end          time.Time
	messages     int
	initiator    string
	participants map[string]struct{}
}

func (s *openSession) close() Session {
	return Session{
		Start:        s.start,
		End:          s.end,
		DurationMs:   s.end.Sub(s.start).Milliseconds(),
		Messages:     s.messages,
		Initiator:    s.initiator,
		Participants: sortedKeys(s.participants),
	}
}

// Compute summarizes one chat. The input is read, never modified.
func Compute(chat *model.ParsedChat, cfg Config) *Metrics {
	cfg = cfg.withDefaults()

	m := &Metrics{
		ByUser:            make(map[string]*UserStats),
		SystemEvents:      make(map[string]int),
		SessionInitiators: make(map[string]int),
	}

	emojis := newCounter()
	words := newCounter()
	domains := newCounter()
	replies := make(map[pairKey][]float64)
	var replyOrder []pairKey

	known := make(map[string]string, len(chat.Participants))
	for _, p := range chat.Participants {
		known[textutil.CanonicalKey(p)] = p
	}

	var sessions []Session
	var current *openSession
	var prev *model.Message

	for i := range chat.Messages {
		msg := &chat.Messages[i]
		user := m.ensureUser(bucketFor(msg))

		// mentions come off the raw text before visible-text derivation
		candidates, stripped := textutil.ExtractMentions(msg.Text)
		for _, c := range candidates {
			if display, ok := known[textutil.CanonicalKey(c)]; ok {
				user.mentions.add(display, 1)
			}
		}

		visible := ""
		if !msg.IsMediaNotice {
			visible = textutil.StripControlMarks(stripped)
		}

		chars := len([]rune(visible))
		msgEmojis := textutil.ExtractEmojis(visible)
		links := textutil.ExtractLinks(visible)

		m.Totals.Messages++
		m.Totals.Characters += chars
		m.Totals.Emojis += len(msgEmojis)
		m.Totals.Links += len(links)
		user.Messages++
		user.Characters += chars
		user.Emojis += len(msgEmojis)
		user.Links += len(links)

		for _, e := range msgEmojis {
			emojis.add(e, 1)
		}
		for _, link := range links {
			if host, ok := textutil.LinkDomain(link); ok {
				domains.add(host, 1)
			}
		}

		if msg.IsMediaNotice {
			m.Totals.MediaNotices++
			user.MediaNotices++
			if msg.MediaType != "" {
				user.MediaTypes[string(msg.MediaType)]++
			}
		}

		if textutil.ContainsArabic(visible) {
			m.ArabicMessages++
		}

		hour := msg.Timestamp.Hour()
		weekday := int(msg.Timestamp.Weekday())
		m.HourHistogram[hour]++
		m.WeekdayHistogram[weekday]++
		user.Heatmap[weekday][hour]++

		if bucketFor(msg) != SystemUser {
			user.days[msg.Timestamp.Format(dayKeyLayout)] = struct{}{}
		}

		// session assignment
		if current == nil || msg.Timestamp.Sub(current.end) > cfg.SessionGap {
			if current != nil {
				sessions = append(sessions, current.close())
			}
			current = &openSession{
				start:        msg.Timestamp,
				end:          msg.Timestamp,
				messages:     1,
				initiator:    msg.From,
				participants: make(map[string]struct{}),
			}
			if msg.From != "" {
				current.participants[msg.From] = struct{}{}
				m.SessionInitiators[msg.From]++
			}
			if bucketFor(msg) != SystemUser {
				user.SessionsStarted++
			}
		} else {
			current.end = msg.Timestamp
			current.messages++
			if msg.From != "" {
				current.participants[msg.From] = struct{}{}
			}
		}

		// words: raw count first, then the stricter top-word filter
		tokens := textutil.CountableWords(visible, msg.IsSystem)
		m.Totals.Words += len(tokens)
		user.Words += len(tokens)

		senderTokens := textutil.NameTokens(msg.From)
		for _, t := range tokens {
			if textutil.QualifiesTopWord(t, senderTokens) {
				words.add(t, 1)
				user.words.add(t, 1)
			}
		}

		if strings.Contains(visible, "?") {
			user.questions++
		}
		if strings.Contains(visible, "!") {
			user.exclamations++
		}

		if msg.IsSystem {
			m.SystemEvents[textutil.ClassifySystemEvent(msg.Text)]++
		}

		// pairwise reply latency between consecutive distinct human senders
		if prev != nil && !msg.IsSystem && !prev.IsSystem &&
			msg.From != "" && prev.From != "" && msg.From != prev.From {
			gap := msg.Timestamp.Sub(prev.Timestamp)
			if gap >= 0 && gap <= MaxReplyGap {
				key := pairKey{from: prev.From, to: msg.From}
				if _, seen := replies[key]; !seen {
					replyOrder = append(replyOrder, key)
				}
				replies[key] = append(replies[key], gap.Seconds())
				user.samples = append(user.samples, gap.Seconds())
			}
		}

		// engagement time accrual
		if prev != nil {
			gap := msg.Timestamp.Sub(prev.Timestamp)
			if gap > 0 && gap <= cfg.EngagementGap {
				if cfg.CountFullGap {
					m.EngagementTime += gap
				} else {
					m.EngagementTime += time.Minute
				}
			}
		}

		m.Messages = append(m.Messages, FlatMessage{
			Timestamp:     msg.Timestamp.Format(time.RFC3339),
			From:          msg.From,
			Text:          msg.Text,
			IsSystem:      msg.IsSystem,
			IsMediaNotice: msg.IsMediaNotice,
			SessionIndex:  len(sessions),
			Platform:      msg.Platform,
		})

		prev = msg
	}
	if current != nil {
		sessions = append(sessions, current.close())
	}
	m.Sessions = sessions

	m.TopEmojis = emojis.top(TopEmojiCount)
	m.TopWords = words.top(TopWordCount)
	m.LinkDomains = domains.asMap()

	for _, key := range replyOrder {
		m.ReplyLatency = append(m.ReplyLatency, summarizePair(key, replies[key]))
	}

	now := cfg.Now()
	for _, user := range m.ByUser {
		user.finalize(now)
	}

	return m
}

// bucketFor maps a message to its per-user bucket. Unattributable messages
// (system narrative, unresolved device-owner senders) land in the system
// bucket so chat totals still balance against the per-user sums.
func bucketFor(msg *model.Message) string {
	if msg.IsSystem || msg.From == "" {
		return SystemUser
	}
	return msg.From
}

func (m *Metrics) ensureUser(name string) *UserStats {
	if u, ok := m.ByUser[name]; ok {
		return u
	}
	u := &UserStats{
		MediaTypes: make(map[string]int),
		words:      newCounter(),
		mentions:   newCounter(),
		days:       make(map[string]struct{}),
	}
	m.ByUser[name] = u
	return u
}

func (u *UserStats) finalize(now time.Time) {
	if u.Messages > 0 {
		u.AvgMsgLengthChars = float64(u.Characters) / float64(u.Messages)
		u.QuestionRate = float64(u.questions) / float64(u.Messages)
		u.ExclamationRate = float64(u.exclamations) / float64(u.Messages)
	}
	u.TopWords = u.words.top(TopUserWordCount)
	u.TopMentions = u.mentions.top(TopUserMentionCount)
	u.ResponseTime = SummarizeResponse(u.samples)
	u.LongestStreak, u.CurrentStreak = computeStreaks(u.days, now)
}

// SummarizeResponse reduces a gap sample list (seconds) to count, mean,
// median and the fixed six-bucket histogram. The aggregator reuses it for
// platform-scoped replays.
func SummarizeResponse(samples []float64) ResponseSummary {
	var s ResponseSummary
	s.Count = len(samples)
	if s.Count == 0 {
		return s
	}

	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
		s.Buckets[responseBucket(v)]++
	}
	s.MeanSeconds = sum / float64(s.Count)

	mid := s.Count / 2
	if s.Count%2 == 0 {
		s.MedianSeconds = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		s.MedianSeconds = sorted[mid]
	}
	return s
}

func responseBucket(seconds float64) int {
	switch {
	case seconds < 5*60:
		return 0
	case seconds < 15*60:
		return 1
	case seconds < 60*60:
		return 2
	case seconds < 6*60*60:
		return 3
	case seconds < 24*60*60:
		return 4
	default:
		return 5
	}
}

func summarizePair(key pairKey, samples []float64) PairLatency {
	summary := SummarizeResponse(samples)
	return PairLatency{
		From:          key.from,
		To:            key.to,
		Count:         summary.Count,
		MeanSeconds:   summary.MeanSeconds,
		MedianSeconds: summary.MedianSeconds,
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
