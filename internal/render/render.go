// Package render prints a terminal summary of a finished analysis. The full
// detail goes to the JSON export; this is the operator-facing digest.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Bishoy334/chat-analyser/internal/aggregate"
)

var (
	styleHeading = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleName    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

// Summary writes the headline numbers and per-person table to w.
func Summary(w io.Writer, analysis *aggregate.HierarchicalAnalysis) {
	o := analysis.Overview
	fmt.Fprintln(w, styleHeading.Render("Overview"))
	fmt.Fprintf(w, "  chats %d  messages %d  words %d  emojis %d  sessions %d  engagement %s\n\n",
		o.Chats, o.Totals.Messages, o.Totals.Words, o.Totals.Emojis,
		o.Sessions, formatDuration(o.EngagementTime))

	for _, pv := range analysis.PerPlatform {
		fmt.Fprintf(w, "  %s %s\n",
			styleDim.Render(string(pv.Platform)),
			fmt.Sprintf("chats %d, messages %d", pv.Chats, pv.Totals.Messages))
	}
	if len(analysis.PerPlatform) > 0 {
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, styleHeading.Render("People"))
	nameWidth := 4
	for _, p := range analysis.PerPerson {
		if width := runewidth.StringWidth(p.Name); width > nameWidth {
			nameWidth = width
		}
	}
	fmt.Fprintf(w, "  %s  %8s  %8s  %7s  %12s\n",
		padName("name", nameWidth), "messages", "words", "emojis", "median reply")
	for _, p := range analysis.PerPerson {
		median := "-"
		if m := medianReply(p); m > 0 {
			median = formatDuration(time.Duration(m * float64(time.Second)))
		}
		fmt.Fprintf(w, "  %s  %8d  %8d  %7d  %12s\n",
			styleName.Render(padName(p.Name, nameWidth)),
			p.Totals.Messages, p.Totals.Words, p.Totals.Emojis, median)
	}
}

// medianReply picks the person's busiest platform median as the headline
// figure.
func medianReply(p aggregate.PersonView) float64 {
	best := 0
	median := 0.0
	for _, pp := range p.PerPlatform {
		if pp.ResponseTime.Count > best {
			best = pp.ResponseTime.Count
			median = pp.ResponseTime.MedianSeconds
		}
	}
	return median
}

// padName right-pads by display width so wide runes stay aligned.
func padName(name string, width int) string {
	gap := width - runewidth.StringWidth(name)
	if gap <= 0 {
		return name
	}
	return name + strings.Repeat(" ", gap)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	switch {
	case d >= time.Hour:
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	case d >= time.Minute:
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
}
