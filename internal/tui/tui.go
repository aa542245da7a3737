// Package tui is the interactive terminal front end. It drives the same
// shoplist.List as the web server, so every key command is persisted
// before the next frame is drawn.
package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/shoplist/internal/model"
	"github.com/Makepad-fr/shoplist/internal/shoplist"
	"github.com/Makepad-fr/shoplist/internal/ui"
)

// listItem adapts model.Item to bubbles/list.Item
type listItem struct{ model.Item }

func (i listItem) Title() string       { return ui.ItemLine(i.Item) }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.Text }

// itemDelegate renders single-line rows.
type itemDelegate struct{}

var selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render(">") + " "
	}
	fmt.Fprintln(w, prefix+ui.ItemLine(it.Item))
}

type Model struct {
	store *shoplist.List
	list  list.Model

	adding bool
	ti     textinput.Model
	err    error // last persistence failure, shown under the list

	width, height int
}

var (
	addKey    = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	toggleKey = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "check"))
	deleteKey = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
)

func New(store *shoplist.List) Model {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.Styles.Title = ui.Current().Title
	l.SetStatusBarItemName("item", "items")
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{addKey, toggleKey, deleteKey} }
	l.AdditionalFullHelpKeys = l.AdditionalShortHelpKeys

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "아이템을 입력하세요"
	ti.CharLimit = 200

	m := Model{store: store, list: l, ti: ti, width: 80, height: 24}
	m.refresh()
	return m
}

// refresh re-projects the store into the list widget.
func (m *Model) refresh() {
	items := m.store.Items()
	li := make([]list.Item, 0, len(items))
	for _, it := range items {
		li = append(li, listItem{it})
	}
	m.list.SetItems(li)
	m.list.Title = ui.Header(m.store.Stats())
}

func (m Model) selectedID() (string, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return "", false
	}
	return it.ID, true
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		return m, nil
	}

	if m.adding {
		if k, ok := msg.(tea.KeyMsg); ok {
			switch k.String() {
			case "enter":
				// blank input is dropped, like the web form
				if _, added, err := m.store.Add(m.ti.Value()); added {
					m.err = err
					m.refresh()
					m.list.Select(0)
				}
				m.ti.SetValue("")
				m.ti.Blur()
				m.adding = false
				return m, nil
			case "esc":
				m.ti.SetValue("")
				m.ti.Blur()
				m.adding = false
				return m, nil
			}
		}
		var cmd tea.Cmd
		m.ti, cmd = m.ti.Update(msg)
		return m, cmd
	}

	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case " ":
			if id, ok := m.selectedID(); ok {
				_, m.err = m.store.Toggle(id)
				m.refresh()
			}
			return m, nil
		case "d":
			if id, ok := m.selectedID(); ok {
				idx := m.list.Index()
				_, m.err = m.store.Remove(id)
				m.refresh()
				if idx >= len(m.list.Items()) && idx > 0 {
					m.list.Select(idx - 1)
				}
			}
			return m, nil
		case "a":
			m.adding = true
			m.ti.SetValue("")
			return m, m.ti.Focus()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	listHeight := m.height - 4
	if m.adding {
		listHeight = m.height - 8
	}
	m.list.SetSize(m.width-4, listHeight)

	content := m.list.View()
	if m.adding {
		bar := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
		content += "\n" + bar.Render("추가\n"+m.ti.View())
	}
	if m.err != nil {
		content += "\n" + ui.Current().Error.Render("save failed: "+m.err.Error())
	}
	return ui.Panel([]string{content})
}

// Run starts the program on the terminal and returns when the user quits.
func Run(store *shoplist.List) error {
	p := tea.NewProgram(New(store), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
