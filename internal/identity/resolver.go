// Package identity reconciles the names a person appears under across
// platforms and resolves the Android export's unnamed device owner. All
// rewrites are copy-on-write: callers get fresh chats, inputs are never
// mutated.
package identity

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sirupsen/logrus"

	"github.com/Bishoy334/chat-analyser/internal/model"
	"github.com/Bishoy334/chat-analyser/internal/textutil"
)

// platformPriority orders platforms for mapping direction: names fold
// toward the platform with the lower number.
var platformPriority = map[model.Platform]int{
	model.PlatformWhatsApp:  0,
	model.PlatformInstagram: 1,
	model.PlatformAndroid:   2,
}

type Resolver struct {
	prompt Prompt
	log    logrus.FieldLogger
}

func NewResolver(prompt Prompt, log logrus.FieldLogger) *Resolver {
	return &Resolver{prompt: prompt, log: log}
}

// Resolve runs device-owner resolution followed by the cross-platform
// name-variation pass. The owner step runs first so a newly introduced
// owner name participates in variation detection.
func (r *Resolver) Resolve(chats []*model.ParsedChat) ([]*model.ParsedChat, error) {
	chats, err := r.resolveDeviceOwner(chats)
	if err != nil {
		return nil, err
	}
	return r.resolveVariations(chats)
}

// resolveDeviceOwner rewrites every unattributed Android sender to a single
// owner display name. Blank input leaves them unattributed; downstream
// aggregation skips them per-person but still counts them per-chat.
func (r *Resolver) resolveDeviceOwner(chats []*model.ParsedChat) ([]*model.ParsedChat, error) {
	needsOwner := false
	for _, chat := range chats {
		if chat.Platform() != model.PlatformAndroid {
			continue
		}
		for _, msg := range chat.Messages {
			if msg.From == "" && !msg.IsSystem {
				needsOwner = true
				break
			}
		}
		if needsOwner {
			break
		}
	}
	if !needsOwner {
		return chats, nil
	}

	owner, err := r.prompt.RequestDeviceOwnerName()
	if err != nil {
		return nil, err
	}
	owner = textutil.NormalizeName(owner)
	if owner == "" {
		r.log.Warn("no device owner name supplied, sent messages stay unattributed")
		return chats, nil
	}

	out := make([]*model.ParsedChat, len(chats))
	for i, chat := range chats {
		if chat.Platform() != model.PlatformAndroid {
			out[i] = chat
			continue
		}
		c := chat.Clone()
		touched := false
		for j := range c.Messages {
			if c.Messages[j].From == "" && !c.Messages[j].IsSystem {
				c.Messages[j].From = owner
				touched = true
			}
		}
		if touched {
			c.Participants = model.SortedSet(append(c.Participants, owner))
		}
		out[i] = c
	}
	r.log.WithField("owner", owner).Info("resolved device owner")
	return out, nil
}

// nameInfo tracks one distinct (canonical) name across the chat set.
type nameInfo struct {
	display   string
	platforms map[model.Platform]struct{}
}

// resolveVariations detects aliasing and folds flagged names toward their
// canonical spellings. Variations are assumed to exist only when the total
// distinct-name count exceeds what the richest single platform already
// distinguishes.
func (r *Resolver) resolveVariations(chats []*model.ParsedChat) ([]*model.ParsedChat, error) {
	names := collectNames(chats)
	if len(names) == 0 {
		return chats, nil
	}

	perPlatform := make(map[model.Platform]int)
	for _, info := range names {
		for p := range info.platforms {
			perPlatform[p]++
		}
	}
	maxPlatform := 0
	for _, n := range perPlatform {
		if n > maxPlatform {
			maxPlatform = n
		}
	}
	if len(names) <= maxPlatform {
		return chats, nil
	}

	// single-platform names are remap candidates; multi-platform names are
	// already unified
	var candidates []string
	for key, info := range names {
		if len(info.platforms) == 1 {
			candidates = append(candidates, key)
		}
	}
	sort.Strings(candidates)

	processed := make(map[string]struct{})
	for _, key := range candidates {
		if _, done := processed[key]; done {
			continue
		}
		source, target, found, err := r.matchCandidate(key, names, processed)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		chats = applyMapping(chats, source, target)
		processed[textutil.CanonicalKey(source)] = struct{}{}
		processed[textutil.CanonicalKey(target)] = struct{}{}
		r.log.WithFields(logrus.Fields{"from": source, "to": target}).Info("merged participant names")
	}
	return chats, nil
}

// matchCandidate finds the canonical spelling for one flagged name, asking
// the prompt to confirm. found=false means keep the candidate separate.
func (r *Resolver) matchCandidate(key string, names map[string]*nameInfo, processed map[string]struct{}) (source, target string, found bool, err error) {
	candidate := names[key].display

	others := otherKeys(names, key, processed)
	matchKey := heuristicMatch(key, others, names)

	if matchKey == "" && r.prompt.Interactive() {
		matchKey = fuzzyFallback(key, others)
	}

	if matchKey != "" {
		source, target = orientMapping(names[key], names[matchKey])
		ok, err := r.prompt.ConfirmMapping(source, target)
		if err != nil {
			return "", "", false, err
		}
		if ok {
			return source, target, true, nil
		}
	} else if !r.prompt.Interactive() {
		// no heuristic match in auto mode always means keep separate
		return "", "", false, nil
	}

	manual, err := r.prompt.RequestManualName(candidate)
	if err != nil {
		return "", "", false, err
	}
	manual = textutil.NormalizeName(manual)
	if manual == "" || textutil.CanonicalKey(manual) == key {
		return "", "", false, nil
	}
	return candidate, manual, true, nil
}

// heuristicMatch tries, in order: substring containment either direction,
// equal first token (length > 2), candidate contained in a single word of
// the other name. Platform priority breaks ties within a heuristic level.
func heuristicMatch(key string, others []string, names map[string]*nameInfo) string {
	type check func(candidate, other string) bool
	checks := []check{
		func(c, o string) bool {
			return strings.Contains(o, c) || strings.Contains(c, o)
		},
		func(c, o string) bool {
			ct := strings.Fields(c)
			ot := strings.Fields(o)
			return len(ct) > 0 && len(ot) > 0 && len(ct[0]) > 2 && ct[0] == ot[0]
		},
		func(c, o string) bool {
			for _, word := range strings.Fields(o) {
				if strings.Contains(word, c) {
					return true
				}
			}
			return false
		},
	}

	for _, chk := range checks {
		best := ""
		bestPriority := len(platformPriority) + 1
		for _, other := range others {
			if !chk(key, other) {
				continue
			}
			if p := minPriority(names[other]); p < bestPriority {
				best = other
				bestPriority = p
			}
		}
		if best != "" {
			return best
		}
	}
	return ""
}

// fuzzyFallback ranks the remaining names and offers only the best hit.
// Interactive mode only: a fuzzy guess is never applied unconfirmed.
func fuzzyFallback(key string, others []string) string {
	ranks := fuzzy.RankFindNormalizedFold(key, others)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}

// orientMapping folds toward the platform earlier in the priority order.
func orientMapping(a, b *nameInfo) (source, target string) {
	if minPriority(a) <= minPriority(b) {
		return b.display, a.display
	}
	return a.display, b.display
}

func minPriority(info *nameInfo) int {
	min := len(platformPriority) + 1
	for p := range info.platforms {
		if pr, ok := platformPriority[p]; ok && pr < min {
			min = pr
		}
	}
	return min
}

func collectNames(chats []*model.ParsedChat) map[string]*nameInfo {
	names := make(map[string]*nameInfo)
	for _, chat := range chats {
		for _, p := range chat.Participants {
			key := textutil.CanonicalKey(p)
			info := names[key]
			if info == nil {
				info = &nameInfo{display: p, platforms: make(map[model.Platform]struct{})}
				names[key] = info
			}
			for _, platform := range chat.Platforms {
				info.platforms[platform] = struct{}{}
			}
		}
	}
	return names
}

func otherKeys(names map[string]*nameInfo, key string, processed map[string]struct{}) []string {
	var out []string
	for k := range names {
		if k == key {
			continue
		}
		if _, done := processed[k]; done {
			continue
		}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// applyMapping rewrites every chat that mentions source: participant set and
// message senders move to target. Copy-on-write.
func applyMapping(chats []*model.ParsedChat, source, target string) []*model.ParsedChat {
	srcKey := textutil.CanonicalKey(source)
	out := make([]*model.ParsedChat, len(chats))
	for i, chat := range chats {
		affected := false
		for _, p := range chat.Participants {
			if textutil.CanonicalKey(p) == srcKey {
				affected = true
				break
			}
		}
		if !affected {
			out[i] = chat
			continue
		}
		c := chat.Clone()
		var participants []string
		for _, p := range c.Participants {
			if textutil.CanonicalKey(p) == srcKey {
				participants = append(participants, target)
			} else {
				participants = append(participants, p)
			}
		}
		c.Participants = model.SortedSet(participants)
		for j := range c.Messages {
			if textutil.CanonicalKey(c.Messages[j].From) == srcKey {
				c.Messages[j].From = target
			}
		}
		out[i] = c
	}
	return out
}
