package metrics

import "sort"

// counter is a frequency table that remembers discovery order so top-N
// selection breaks count ties by first appearance.
type counter struct {
	counts map[string]int
	order  map[string]int
	next   int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int), order: make(map[string]int)}
}

func (c *counter) add(key string, delta int) {
	if _, seen := c.counts[key]; !seen {
		c.order[key] = c.next
		c.next++
	}
	c.counts[key] += delta
}

func (c *counter) top(n int) []CountItem {
	items := make([]CountItem, 0, len(c.counts))
	for k, v := range c.counts {
		items = append(items, CountItem{Value: k, Count: v})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return c.order[items[i].Value] < c.order[items[j].Value]
	})
	if len(items) > n {
		items = items[:n]
	}
	return items
}

func (c *counter) asMap() map[string]int {
	out := make(map[string]int, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}
