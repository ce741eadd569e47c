package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/phonebook/internal/engine"
	"github.com/idilsaglam/phonebook/internal/model"
	"github.com/idilsaglam/phonebook/internal/notify"
	"github.com/idilsaglam/phonebook/internal/store/reststore"
)

// Config ties the interactive view to a remote collection.
type Config struct {
	BaseURL string
}

const opTimeout = 15 * time.Second

// listItem adapts a Person to bubbles/list.Item
type listItem struct {
	person model.Person
}

// Implement list.Item interface
func (i listItem) Title() string       { return i.person.Name }
func (i listItem) Description() string { return i.person.Number }
func (i listItem) FilterValue() string { return i.person.Name }

// messages flowing back from engine commands and the notifier

type refreshedMsg struct{}
type opDoneMsg struct{}
type notesChangedMsg struct{}

// confirmMsg carries a blocked confirmation request from an engine
// goroutine into the Update loop. The answer goes back on reply.
type confirmMsg struct {
	question string
	reply    chan bool
}

// teaConfirmer satisfies the engine's synchronous confirm API from
// inside tea.Cmd goroutines: it posts the question to the program and
// blocks until the Update loop answers.
type teaConfirmer struct {
	send func(tea.Msg)
}

func (c *teaConfirmer) ask(question string) bool {
	reply := make(chan bool, 1)
	c.send(confirmMsg{question: question, reply: reply})
	return <-reply
}

func (c *teaConfirmer) ConfirmOverwrite(name string) bool {
	return c.ask(name + " is already added to phonebook, replace the old number with a new one?")
}

func (c *teaConfirmer) ConfirmDelete(name string) bool {
	return c.ask("Delete " + name + " ?")
}

type modelTUI struct {
	eng   *engine.Engine
	notes *notify.Notifier

	list  list.Model
	query string

	// Inline search
	searching bool
	ti        textinput.Model // shared text input model (search & add)

	// Inline add: two steps through the shared input
	adding     bool
	addingName string // captured name while the number is typed
	addErr     string

	// Pending confirmation from a blocked engine call
	confirming bool
	confirmQ   string
	reply      chan bool

	width, height int
}

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(listItem)
	name := it.person.Name
	if len(name) > 40 {
		name = name[:37] + "..."
	}
	line := fmt.Sprintf("%-42s %s", name, mutedStyle.Render(it.person.Number))
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

// Run starts the Bubble Tea view over a REST-backed engine.
func Run(cfg Config) error {
	notes := notify.New()
	confirmer := &teaConfirmer{}
	eng := engine.New(reststore.New(cfg.BaseURL), notes, confirmer, slog.Default())

	m := newModel(eng, notes)
	p := tea.NewProgram(m, tea.WithAltScreen())

	// The program exists now; late-bind everything that needs Send.
	confirmer.send = p.Send
	notes.OnChange(func() { p.Send(notesChangedMsg{}) })

	_, err := p.Run()
	return err
}

func newModel(eng *engine.Engine, notes *notify.Notifier) modelTUI {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false) // search has its own rules
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.SetStatusBarItemName("person", "persons")

	// Extend help with our bindings
	addBind := key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	delBind := key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	searchBind := key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search"))
	refreshBind := key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh"))
	extra := func() []key.Binding { return []key.Binding{addBind, delBind, searchBind, refreshBind} }
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	m := modelTUI{eng: eng, notes: notes, list: l}
	m.ti = textinput.New()
	m.ti.Prompt = "> "
	m.ti.CharLimit = 120
	return m
}

func (m modelTUI) Init() tea.Cmd { return m.refreshCmd() }

// ---- engine commands (each runs on its own goroutine) ----

func (m modelTUI) refreshCmd() tea.Cmd {
	eng := m.eng
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		eng.Refresh(ctx)
		return refreshedMsg{}
	}
}

func (m modelTUI) submitCmd(name, number string) tea.Cmd {
	eng := m.eng
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		eng.SetName(name)
		eng.SetNumber(number)
		eng.Submit(ctx)
		return opDoneMsg{}
	}
}

func (m modelTUI) removeCmd(id string) tea.Cmd {
	eng := m.eng
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		eng.RemovePerson(ctx, id)
		return opDoneMsg{}
	}
}

// syncItems rebuilds the visible list from the engine snapshot through
// the current search query.
func (m *modelTUI) syncItems() tea.Cmd {
	persons := m.eng.Search(m.query)
	items := make([]list.Item, 0, len(persons))
	for _, p := range persons {
		items = append(items, listItem{person: p})
	}
	total := len(m.eng.Snapshot())
	m.list.Title = fmt.Sprintf("%s  %s",
		titleStyle.Render("Phonebook"),
		accentStyle.Render(fmt.Sprintf("%d entries", total)),
	)
	return m.list.SetItems(items)
}

func (m modelTUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case refreshedMsg, opDoneMsg:
		return m, m.syncItems()
	case notesChangedMsg:
		// repaint; the notification line reads straight from the notifier
		return m, nil
	case confirmMsg:
		m.confirming = true
		m.confirmQ = msg.question
		m.reply = msg.reply
		return m, nil
	}

	// confirm modal swallows everything until answered
	if m.confirming {
		if k, ok := msg.(tea.KeyMsg); ok {
			switch k.String() {
			case "y", "Y":
				m.reply <- true
				m.confirming = false
				m.reply = nil
			case "n", "N", "esc", "enter":
				m.reply <- false
				m.confirming = false
				m.reply = nil
			}
		}
		return m, nil
	}

	// live search mode
	if m.searching {
		var cmd tea.Cmd
		if k, ok := msg.(tea.KeyMsg); ok {
			switch k.String() {
			case "enter":
				m.searching = false
				m.ti.Blur()
				return m, nil
			case "esc":
				m.searching = false
				m.query = ""
				m.ti.SetValue("")
				m.ti.Blur()
				return m, m.syncItems()
			}
		}
		m.ti, cmd = m.ti.Update(msg)
		if m.ti.Value() != m.query {
			m.query = m.ti.Value()
			return m, tea.Batch(cmd, m.syncItems())
		}
		return m, cmd
	}

	// add mode: name first, then number
	if m.adding {
		var cmd tea.Cmd
		if k, ok := msg.(tea.KeyMsg); ok {
			switch k.String() {
			case "enter":
				value := strings.TrimSpace(m.ti.Value())
				if value == "" {
					if m.addingName == "" {
						m.addErr = "Name cannot be empty"
					} else {
						m.addErr = "Number cannot be empty"
					}
					return m, nil
				}
				if m.addingName == "" {
					m.addingName = value
					m.addErr = ""
					m.ti.SetValue("")
					m.ti.Placeholder = "Number..."
					return m, nil
				}
				name, number := m.addingName, value
				m.adding = false
				m.addingName = ""
				m.addErr = ""
				m.ti.SetValue("")
				m.ti.Blur()
				return m, m.submitCmd(name, number)
			case "esc":
				m.adding = false
				m.addingName = ""
				m.addErr = ""
				m.ti.SetValue("")
				m.ti.Blur()
				return m, nil
			}
		}
		m.ti, cmd = m.ti.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "r":
			return m, m.refreshCmd()
		case "/":
			m.searching = true
			m.ti.SetValue(m.query)
			m.ti.Placeholder = "Name, or number if the query has a digit..."
			m.ti.CursorEnd()
			m.ti.Focus()
			return m, nil
		case "a":
			m.adding = true
			m.addingName = ""
			m.ti.SetValue("")
			m.ti.Placeholder = "Name..."
			m.ti.Focus()
			return m, nil
		case "d":
			i := m.list.Index()
			if i >= 0 && i < len(m.list.Items()) {
				if li, ok := m.list.Items()[i].(listItem); ok {
					return m, m.removeCmd(li.person.ID)
				}
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m modelTUI) View() string {
	w, h := m.width, m.height
	if w == 0 {
		w, h = 80, 24
	}
	listHeight := h - 5
	if m.searching || m.adding || m.confirming {
		listHeight = h - 8
	}
	m.list.SetSize(w-4, listHeight)

	content := m.list.View()

	if n, ok := m.notes.Current(); ok {
		style := successStyle
		if n.Kind == notify.Error {
			style = errorStyle
		}
		content += "\n" + style.Render(n.Text)
	} else {
		content += "\n"
	}

	switch {
	case m.confirming:
		content += "\n" + barStyle.Render(m.confirmQ+"  "+helpStyle.Render("y/n"))
	case m.searching:
		content += "\n" + barStyle.Render("Search\n"+m.ti.View())
	case m.adding:
		title := "Add person — name"
		if m.addingName != "" {
			title = "Add person — number for " + m.addingName
		}
		if m.addErr != "" {
			title += " — " + errorStyle.Render(m.addErr)
		}
		content += "\n" + barStyle.Render(title+"\n"+m.ti.View())
	}

	return panelStyle.Render(content)
}

// ------- minimal styling helpers (Lip Gloss) -------
var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	accentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)

	barStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)
