package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/tabnotify/internal/history"
	"github.com/cristianoliveira/tabnotify/internal/ipc"
	"github.com/cristianoliveira/tabnotify/internal/notify"
)

const (
	// DefaultInterval is how often the monitor refreshes.
	DefaultInterval = time.Second
	// DefaultLimit is the number of history rows shown.
	DefaultLimit = 20

	fetchTimeout = 2 * time.Second
	focusMarker  = "▶"
)

type tickMsg time.Time

type refreshMsg struct {
	status     *ipc.Status
	statusErr  error
	entries    []history.Entry
	historyErr error
	at         time.Time
}

// Options configures a Model.
type Options struct {
	Source   Source
	Interval time.Duration
	Limit    int
}

// Model is the bubbletea model of the monitor.
type Model struct {
	source   Source
	interval time.Duration
	limit    int

	tabs    table.Model
	recent  table.Model
	focused int

	status     *ipc.Status
	statusErr  error
	historyErr error
	updated    time.Time

	width  int
	height int
}

// NewModel builds a monitor model. It panics when Source is nil.
func NewModel(opts Options) Model {
	if opts.Source == nil {
		panic("tui.NewModel: source dependency cannot be nil")
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}

	tabs := table.New(
		table.WithColumns(tabColumns(defaultWidth)),
		table.WithHeight(6),
		table.WithWidth(defaultWidth),
		table.WithFocused(true),
	)
	tabs.SetStyles(tableStyles())
	recent := table.New(
		table.WithColumns(historyColumns(defaultWidth)),
		table.WithHeight(10),
		table.WithWidth(defaultWidth),
	)
	recent.SetStyles(tableStyles())

	return Model{
		source:   opts.Source,
		interval: opts.Interval,
		limit:    opts.Limit,
		tabs:     tabs,
		recent:   recent,
		width:    defaultWidth,
	}
}

// Init starts the first fetch and the refresh ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetch(), m.tick())
}

// Update handles keys, resizes, ticks and fetched data.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, m.fetch()
		case "tab":
			m.toggleFocus()
			return m, nil
		}
		var cmd tea.Cmd
		if m.focused == 0 {
			m.tabs, cmd = m.tabs.Update(msg)
		} else {
			m.recent, cmd = m.recent.Update(msg)
		}
		return m, cmd

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.fetch(), m.tick())

	case refreshMsg:
		m.apply(msg)
		return m, nil
	}
	return m, nil
}

// View renders the monitor.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("tabnotify monitor"))
	b.WriteString("\n")
	b.WriteString(m.daemonLine())
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Tabs"))
	b.WriteString("\n")
	if m.status == nil || len(m.status.Tabs) == 0 {
		b.WriteString(mutedStyle.Render("no tabs"))
	} else {
		b.WriteString(m.tabs.View())
	}
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Recent notifications"))
	b.WriteString("\n")
	switch {
	case m.historyErr != nil:
		b.WriteString(errorStyle.Render("history unavailable: " + m.historyErr.Error()))
	case len(m.recent.Rows()) == 0:
		b.WriteString(mutedStyle.Render("no notifications recorded"))
	default:
		b.WriteString(m.recent.View())
	}
	b.WriteString("\n\n")

	b.WriteString(helpStyle.Render("q quit • r refresh • tab switch table • ↑/↓ scroll"))
	return b.String()
}

func (m Model) daemonLine() string {
	if m.statusErr != nil {
		if errors.Is(m.statusErr, ipc.ErrNoDaemon) {
			return errorStyle.Render("daemon not running")
		}
		return errorStyle.Render("daemon error: " + m.statusErr.Error())
	}
	if m.status == nil {
		return mutedStyle.Render("connecting…")
	}

	parts := []string{
		okStyle.Render("daemon running"),
		fmt.Sprintf("pid %d", m.status.PID),
	}
	if m.status.Session != "" {
		parts = append(parts, "session "+m.status.Session)
	}
	if n := len(m.status.Sessions); n > 1 {
		parts = append(parts, fmt.Sprintf("%d sessions", n))
	}
	parts = append(parts,
		fmt.Sprintf("%d presets", len(m.status.Presets)),
		fmt.Sprintf("%d handled", m.status.Handled),
	)
	if !m.updated.IsZero() {
		parts = append(parts, "updated "+m.updated.Format("15:04:05"))
	}
	line := strings.Join(parts, " · ")
	if m.status.PollError != "" {
		line += "\n" + errorStyle.Render("poll failed: "+m.status.PollError)
	}
	return line
}

func (m *Model) apply(msg refreshMsg) {
	m.statusErr = msg.statusErr
	m.historyErr = msg.historyErr
	m.updated = msg.at
	if msg.statusErr == nil {
		m.status = msg.status
	} else {
		m.status = nil
	}
	if m.status != nil {
		m.tabs.SetRows(tabRows(*m.status))
	} else {
		m.tabs.SetRows(nil)
	}
	if msg.historyErr == nil {
		m.recent.SetRows(historyRows(msg.entries))
	}
}

func (m *Model) toggleFocus() {
	if m.focused == 0 {
		m.focused = 1
		m.tabs.Blur()
		m.recent.Focus()
		return
	}
	m.focused = 0
	m.recent.Blur()
	m.tabs.Focus()
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.tabs.SetColumns(tabColumns(width))
	m.tabs.SetWidth(width)
	m.recent.SetColumns(historyColumns(width))
	m.recent.SetWidth(width)

	// title, daemon line, two section headers, spacing and help.
	available := height - 10
	if available < 4 {
		available = 4
	}
	tabsHeight := available / 3
	if tabsHeight < 2 {
		tabsHeight = 2
	}
	m.tabs.SetHeight(tabsHeight)
	m.recent.SetHeight(available - tabsHeight)
}

func (m Model) fetch() tea.Cmd {
	source := m.source
	limit := m.limit
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		msg := refreshMsg{at: time.Now()}
		msg.status, msg.statusErr = source.Status(ctx)
		msg.entries, msg.historyErr = source.Recent(ctx, limit)
		return msg
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func tabRows(st ipc.Status) []table.Row {
	rows := make([]table.Row, 0, len(st.Tabs))
	for _, t := range st.Tabs {
		marker := ""
		if st.HasFocus && st.Focused == t.Position {
			marker = focusMarker
		}
		rows = append(rows, table.Row{
			marker,
			strconv.Itoa(t.Position),
			notify.Strip(t.Name),
			tabGlyph(t.Name),
		})
	}
	return rows
}

// tabGlyph returns the mark a tab label carries, if any.
func tabGlyph(name string) string {
	return strings.TrimSpace(strings.TrimPrefix(name, notify.Strip(name)))
}

func historyRows(entries []history.Entry) []table.Row {
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, table.Row{
			shortTime(e.Timestamp),
			e.Preset,
			e.Glyph,
			string(e.Tier),
			entryResult(e),
		})
	}
	return rows
}

func entryResult(e history.Entry) string {
	switch {
	case e.Renamed:
		return e.NewName
	case e.Reason != "":
		return string(e.Reason)
	default:
		return "-"
	}
}

func shortTime(ts string) string {
	t, err := time.Parse(history.TimestampFormat, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("15:04:05")
}
