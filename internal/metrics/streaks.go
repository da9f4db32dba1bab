package metrics

import (
	"sort"
	"time"
)

const dayKeyLayout = "2006-01-02"

// computeStreaks turns a set of active calendar dates into the longest-ever
// consecutive-day run and the current run. The current streak only counts
// if its most recent day is today or yesterday relative to now.
func computeStreaks(days map[string]struct{}, now time.Time) (longest, current int) {
	if len(days) == 0 {
		return 0, 0
	}

	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	dates := make([]time.Time, 0, len(keys))
	for _, k := range keys {
		d, err := time.Parse(dayKeyLayout, k)
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}
	if len(dates) == 0 {
		return 0, 0
	}

	run := 1
	longest = 1
	for i := 1; i < len(dates); i++ {
		if dates[i].Sub(dates[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	today, err := time.Parse(dayKeyLayout, now.Format(dayKeyLayout))
	if err != nil {
		return longest, 0
	}
	last := dates[len(dates)-1]
	if today.Sub(last) > 24*time.Hour {
		return longest, 0
	}

	// length of the trailing unbroken run
	current = 1
	for i := len(dates) - 1; i > 0; i-- {
		if dates[i].Sub(dates[i-1]) != 24*time.Hour {
			break
		}
		current++
	}
	return longest, current
}
