package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/instalens/instalens/internal/instalens"
	"github.com/instalens/instalens/internal/model"
)

// Tui is the terminal browser for one ingested session: a relationship list
// on the left and the selected analysis on the right.
type Tui struct {
	app     *instalens.App
	session *model.Session

	ui     *tview.Application
	list   *tview.List
	detail *tview.TextView
}

func New(app *instalens.App, session *model.Session) *Tui {
	t := &Tui{
		app:     app,
		session: session,
		ui:      tview.NewApplication(),
	}

	t.list = tview.NewList().ShowSecondaryText(true)
	t.list.SetBorder(true).SetTitle(fmt.Sprintf(" %s's relationships ", session.Owner))

	t.detail = tview.NewTextView().SetDynamicColors(true).SetWrap(true)
	t.detail.SetBorder(true).SetTitle(" analysis ")

	for _, rel := range session.Relationships {
		rel := rel
		t.list.AddItem(rel.Name, fmt.Sprintf("%d messages", rel.TotalMessages), 0, func() {
			t.showAnalysis(rel)
		})
	}

	flex := tview.NewFlex().
		AddItem(t.list, 0, 1, true).
		AddItem(t.detail, 0, 2, false)

	t.ui.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Key() == tcell.KeyEscape, event.Rune() == 'q':
			t.ui.Stop()
			return nil
		case event.Rune() == 'n':
			t.showNetwork()
			return nil
		}
		return event
	})

	t.ui.SetRoot(flex, true)
	return t
}

// Run blocks until the user quits.
func (t *Tui) Run() error {
	return t.ui.Run()
}

func (t *Tui) showAnalysis(rel *model.Relationship) {
	result, err := t.app.Analyze(t.session.ID, rel.ID)
	if err != nil {
		t.detail.SetText(fmt.Sprintf("[red]%v", err))
		return
	}
	t.detail.SetText(renderAnalysis(result))
	t.detail.ScrollToBeginning()
}

func (t *Tui) showNetwork() {
	summary, skipped, err := t.app.Network(t.session.ID)
	if err != nil {
		t.detail.SetText(fmt.Sprintf("[red]%v", err))
		return
	}
	t.detail.SetText(renderNetwork(summary, skipped))
	t.detail.ScrollToBeginning()
}

func renderAnalysis(a *model.RelationshipAnalysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[yellow]%s ⇄ %s[-]\n\n", a.Owner, a.Other)
	fmt.Fprintf(&b, "messages      %d (%.1f/day over %.0f days)\n", a.TotalMessages, a.MessagesPerDay, a.DurationDays)
	if a.FirstMessage != nil && a.LastMessage != nil {
		fmt.Fprintf(&b, "span          %s → %s\n",
			a.FirstMessage.Format("2006-01-02"), a.LastMessage.Format("2006-01-02"))
	}
	fmt.Fprintf(&b, "intensity     %d/100 (%s)\n", a.Intensity, a.Rating)
	fmt.Fprintf(&b, "gaps >24h     %d\n\n", a.GapCount)

	renderSide := func(label string, s model.SideStats) {
		fmt.Fprintf(&b, "[green]%s[-]  %d messages (%.1f%%)\n", label, s.Messages, s.Percentage)
		if s.Response.Count > 0 {
			fmt.Fprintf(&b, "  avg response  %.0fs over %d replies\n", s.Response.AvgSeconds, s.Response.Count)
		}
		fmt.Fprintf(&b, "  peak          %02d:00 on %ss\n", s.Timing.PeakHour, s.Timing.PeakDay)
		if len(s.Words) > 0 {
			words := make([]string, 0, len(s.Words))
			for _, w := range s.Words {
				words = append(words, fmt.Sprintf("%s(%d)", w.Word, w.Count))
			}
			fmt.Fprintf(&b, "  words         %s\n", strings.Join(words, " "))
		}
		if s.Shared.Total > 0 {
			fmt.Fprintf(&b, "  shared        %d posts, %d reels, %d stories, %d story replies, %d links\n",
				s.Shared.Posts, s.Shared.Reels, s.Shared.Stories, s.Shared.StoryReplies, s.Shared.OtherLinks)
		}
		b.WriteString("\n")
	}
	renderSide(a.Owner, a.OwnerStats)
	renderSide(a.Other, a.OtherStats)

	if len(a.Gaps) > 0 {
		b.WriteString("[green]longest silences[-]\n")
		for i, g := range a.Gaps {
			if i >= 5 {
				break
			}
			fmt.Fprintf(&b, "  %s → %s (%.1f days)\n",
				g.Start.Format("2006-01-02"), g.End.Format("2006-01-02"), g.DurationDays)
		}
	}
	return b.String()
}

func renderNetwork(n *model.NetworkSummary, skipped []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[yellow]network: %d relationships, %d messages[-]\n\n", n.TotalRelationships, n.TotalMessages)

	tier := func(label string, entries []*model.RelationshipAnalysis) {
		fmt.Fprintf(&b, "[green]%s[-] (%d)\n", label, len(entries))
		for _, e := range entries {
			fmt.Fprintf(&b, "  %-24s %6d msgs  %3d/100 %s\n", e.Other, e.TotalMessages, e.Intensity, e.Rating)
		}
		b.WriteString("\n")
	}
	tier("best friends", n.Categories.Best)
	tier("close friends", n.Categories.Close)
	tier("regular contacts", n.Categories.Regular)
	tier("occasional contacts", n.Categories.Occasional)
	tier("distant contacts", n.Categories.Distant)

	if len(skipped) > 0 {
		fmt.Fprintf(&b, "[red]skipped %d relationships with no usable messages[-]\n", len(skipped))
	}
	return b.String()
}
