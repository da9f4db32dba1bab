package metrics

import (
	"time"

	"github.com/Bishoy334/chat-analyser/internal/model"
)

// SystemUser is the synthetic per-user bucket platform narrative lands in.
const SystemUser = "__system__"

// Defaults for the timing knobs.
const (
	DefaultSessionGap    = 45 * time.Minute
	DefaultEngagementGap = 120 * time.Second
)

// Reply gaps outside this window are discarded as noise (negative clock
// skew, or replies so late they are new conversations).
const MaxReplyGap = 24 * time.Hour

// Top-N cutoffs.
const (
	TopEmojiCount       = 20
	TopWordCount        = 50
	TopUserWordCount    = 30
	TopUserMentionCount = 30
)

// Config carries the timing knobs for one computation run. Zero-value
// fields fall back to the defaults above; Now defaults to time.Now.
type Config struct {
	SessionGap    time.Duration
	EngagementGap time.Duration
	CountFullGap  bool
	Now           func() time.Time
}

func (c Config) withDefaults() Config {
	if c.SessionGap <= 0 {
		c.SessionGap = DefaultSessionGap
	}
	if c.EngagementGap <= 0 {
		c.EngagementGap = DefaultEngagementGap
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// DefaultConfig is the configuration the CLI uses unless overridden.
func DefaultConfig() Config {
	return Config{
		SessionGap:    DefaultSessionGap,
		EngagementGap: DefaultEngagementGap,
		CountFullGap:  true,
	}
}

// CountItem is one entry of a frequency table.
type CountItem struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Totals are chat-wide sums. Each field equals the sum of the matching
// field over every ByUser bucket, the system bucket included.
type Totals struct {
	Messages     int `json:"messages"`
	Words        int `json:"words"`
	Characters   int `json:"characters"`
	Emojis       int `json:"emojis"`
	MediaNotices int `json:"mediaNotices"`
	Links        int `json:"links"`
}

// ResponseSummary condenses one sample list of reply gaps.
type ResponseSummary struct {
	Count         int     `json:"count"`
	MeanSeconds   float64 `json:"meanSeconds"`
	MedianSeconds float64 `json:"medianSeconds"`
	// Buckets: <5m, <15m, <1h, <6h, <24h, >24h
	Buckets [6]int `json:"buckets"`
}

// ResponseBucketLabels name the fixed histogram buckets, in order.
var ResponseBucketLabels = [6]string{"<5m", "<15m", "<1h", "<6h", "<24h", ">24h"}

// UserStats is the per-sender rollup.
type UserStats struct {
	Messages          int                `json:"messages"`
	Words             int                `json:"words"`
	Characters        int                `json:"characters"`
	Emojis            int                `json:"emojis"`
	MediaNotices      int                `json:"mediaNotices"`
	Links             int                `json:"links"`
	AvgMsgLengthChars float64            `json:"avgMsgLengthChars"`
	QuestionRate      float64            `json:"questionRate"`
	ExclamationRate   float64            `json:"exclamationRate"`
	TopWords          []CountItem        `json:"topWords"`
	TopMentions       []CountItem        `json:"topMentions"`
	MediaTypes        map[string]int     `json:"mediaTypes"`
	Heatmap           [7][24]int         `json:"heatmap"`
	ResponseTime      ResponseSummary    `json:"responseTime"`
	LongestStreak     int                `json:"longestStreak"`
	CurrentStreak     int                `json:"currentStreak"`
	SessionsStarted   int                `json:"sessionsStarted"`

	questions    int
	exclamations int
	words        *counter
	mentions     *counter
	samples      []float64
	days         map[string]struct{}
}

// Session is a run of temporally close messages.
type Session struct {
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	DurationMs   int64     `json:"durationMs"`
	Messages     int       `json:"messages"`
	Initiator    string    `json:"initiator,omitempty"`
	Participants []string  `json:"participants"`
}

// PairLatency summarizes reply gaps from one sender to another.
type PairLatency struct {
	From          string  `json:"from"`
	To            string  `json:"to"`
	Count         int     `json:"count"`
	MeanSeconds   float64 `json:"meanSeconds"`
	MedianSeconds float64 `json:"medianSeconds"`
}

// FlatMessage is the per-message record handed to downstream renderers,
// annotated with its session index.
type FlatMessage struct {
	Timestamp     string         `json:"timestamp"`
	From          string         `json:"from,omitempty"`
	Text          string         `json:"text"`
	IsSystem      bool           `json:"isSystem"`
	IsMediaNotice bool           `json:"isMediaNotice"`
	SessionIndex  int            `json:"sessionIndex"`
	Platform      model.Platform `json:"platform"`
}

// Metrics is the read-only summary of exactly one chat.
type Metrics struct {
	Totals            Totals                `json:"totals"`
	ByUser            map[string]*UserStats `json:"byUser"`
	TopEmojis         []CountItem           `json:"topEmojis"`
	TopWords          []CountItem           `json:"topWords"`
	HourHistogram     [24]int               `json:"hourHistogram"`
	WeekdayHistogram  [7]int                `json:"weekdayHistogram"` // 0 = Sunday
	EngagementTime    time.Duration         `json:"engagementTime"`
	Sessions          []Session             `json:"sessions"`
	SystemEvents      map[string]int        `json:"systemEvents"`
	LinkDomains       map[string]int        `json:"linkDomains"`
	ArabicMessages    int                   `json:"arabicMessages"`
	ReplyLatency      []PairLatency         `json:"replyLatency"`
	SessionInitiators map[string]int        `json:"sessionInitiators"`
	Messages          []FlatMessage         `json:"messages"`
}
