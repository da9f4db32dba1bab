// Package merge reconciles independently parsed chats that are really the
// same conversation: identical platform and identical normalized
// participant set. Cross-platform reconciliation is the identity resolver's
// job, not this package's.
package merge

import (
	"strings"

	"github.com/Bishoy334/chat-analyser/internal/model"
	"github.com/Bishoy334/chat-analyser/internal/textutil"
)

// GroupKey is the strict grouping key: platform tag plus the sorted,
// case-folded, pipe-joined participant names. Chats with a differently
// spelled or sized participant set never group.
func GroupKey(chat *model.ParsedChat) string {
	keys := make([]string, 0, len(chat.Participants))
	for _, p := range chat.Participants {
		keys = append(keys, textutil.CanonicalKey(p))
	}
	// participants are already sorted, but canonical folding can reorder
	return string(chat.Platform()) + "|" + strings.Join(model.SortedSet(keys), "|")
}

// Chats partitions the input by GroupKey and merges each group. Groups keep
// first-seen order; singleton groups pass through untouched.
func Chats(chats []*model.ParsedChat) []*model.ParsedChat {
	groups := make(map[string][]*model.ParsedChat)
	var order []string
	for _, chat := range chats {
		key := GroupKey(chat)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], chat)
	}

	out := make([]*model.ParsedChat, 0, len(order))
	for _, key := range order {
		group := groups[key]
		if len(group) == 1 {
			out = append(out, group[0])
			continue
		}
		out = append(out, mergeGroup(group))
	}
	return out
}

func mergeGroup(group []*model.ParsedChat) *model.ParsedChat {
	var messages []model.Message
	var participants []string
	var platforms []model.Platform
	var titles []string

	for _, chat := range group {
		messages = append(messages, chat.Messages...)
		participants = append(participants, chat.Participants...)
		platforms = append(platforms, chat.Platforms...)
		if chat.Title != "" {
			titles = append(titles, chat.Title)
		}
	}

	model.SortMessages(messages)

	return &model.ParsedChat{
		Messages:     messages,
		Participants: model.SortedSet(participants),
		Platforms:    model.SortedPlatforms(platforms),
		Title:        strings.Join(titles, "+"),
	}
}
