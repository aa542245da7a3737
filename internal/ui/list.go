package ui

import (
	"fmt"

	"github.com/Makepad-fr/shoplist/internal/model"
	"github.com/Makepad-fr/shoplist/internal/shoplist"
	"github.com/Makepad-fr/shoplist/internal/view"
)

const maxTextWidth = 80

// Header is the title line with live counts.
func Header(s shoplist.Stats) string {
	t := Current()
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		t.Title.Render(view.Title),
		t.Success.Render("✔"), s.Completed,
		t.Pending.Render("•"), s.Total-s.Completed,
		t.Accent.Render("Total"), s.Total,
	)
}

// ItemLine renders one item without its index.
func ItemLine(it model.Item) string {
	t := Current()
	text := []rune(it.Text)
	if len(text) > maxTextWidth {
		text = append(text[:maxTextWidth-3], []rune("...")...)
	}
	if it.Completed {
		return t.Success.Render(t.BoxChecked) + " " + t.Done.Render(string(text))
	}
	return t.Muted.Render(t.BoxUnchecked) + " " + string(text)
}

// ListLines numbers items from 1 in display order.
func ListLines(items []model.Item) []string {
	if len(items) == 0 {
		return []string{Current().Muted.Render("리스트가 비어있습니다")}
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		idx := Current().Muted.Render(fmt.Sprintf("%2d.", i+1))
		out = append(out, idx+" "+ItemLine(it))
	}
	return out
}

// ListPanel is the full `ls` output.
func ListPanel(items []model.Item, s shoplist.Stats) string {
	lines := []string{
		Header(s),
		Current().Muted.Render(ProgressBar(s.Completed, s.Total, 28)),
		"",
	}
	lines = append(lines, ListLines(items)...)
	lines = append(lines, "", Current().Muted.Render(view.Summary(s)))
	return Panel(lines)
}
