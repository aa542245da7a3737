// Package view renders a shopping list to HTML. Rendering is a pure
// projection of the items passed in; nothing here touches storage.
package view

import (
	"fmt"
	"html/template"
	"io"

	"github.com/Makepad-fr/shoplist/internal/model"
	"github.com/Makepad-fr/shoplist/internal/shoplist"
)

// Title is the page heading.
const Title = "쇼핑 리스트"

// Summary formats the counts shown under the list, e.g. "3개 중 1개 완료".
func Summary(s shoplist.Stats) string {
	return fmt.Sprintf("%d개 중 %d개 완료", s.Total, s.Completed)
}

// Row is one rendered item.
type Row struct {
	ID        string
	Text      string
	Completed bool
}

// Page is everything the template needs.
type Page struct {
	Title   string
	Rows    []Row
	Summary string
	Empty   bool
}

func NewPage(items []model.Item, stats shoplist.Stats) Page {
	rows := make([]Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, Row{ID: it.ID, Text: it.Text, Completed: it.Completed})
	}
	return Page{
		Title:   Title,
		Rows:    rows,
		Summary: Summary(stats),
		Empty:   len(rows) == 0,
	}
}

var pageTmpl = template.Must(template.New("page").Parse(pageHTML))

// Render writes the full document. Item text goes through html/template's
// contextual escaping and is never emitted as markup.
func Render(w io.Writer, p Page) error {
	if err := pageTmpl.Execute(w, p); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}
