// Package ui renders the interactive progress view of kplsym check.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Status is where a manifest is in its check.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusError
)

func (s Status) finished() bool { return s == StatusDone || s == StatusError }

// Event moves File to Status. Phase is the pass that just started while
// working; Errors is the error count once finished.
type Event struct {
	File   string
	Phase  string
	Status Status
	Errors int
}

// phases in run order with their row label and share of a file's progress
var phases = map[string]struct {
	label  string
	weight float64
}{
	"load":       {"loading", 0.1},
	"validate":   {"validating", 0.3},
	"walk":       {"declaring", 0.6},
	"invariants": {"verifying", 0.9},
}

var statusStyles = map[Status]lipgloss.Style{
	StatusQueued:  lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	StatusWorking: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	StatusDone:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
}

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))

const statusWidth = 12

type fileItem struct {
	path   string
	status Status
	phase  string
	errors int
}

func (f fileItem) label() string {
	switch f.status {
	case StatusQueued:
		return "queued"
	case StatusDone:
		return "done"
	case StatusError:
		return "error"
	}
	if p, ok := phases[f.phase]; ok {
		return p.label
	}
	return "checking"
}

func (f fileItem) progress() float64 {
	if f.status.finished() {
		return 1
	}
	if f.status == StatusWorking {
		return phases[f.phase].weight
	}
	return 0
}

type progressModel struct {
	title   string
	events  <-chan Event
	spinner spinner.Model
	bar     progress.Model
	items   []fileItem
	index   map[string]int
	width   int
	done    bool
}

type eventMsg Event
type closedMsg struct{}

// NewProgressModel follows files through their checks until events is
// closed.
func NewProgressModel(title string, files []string, events <-chan Event) tea.Model {
	m := &progressModel{
		title:   title,
		events:  events,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(statusStyles[StatusWorking])),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		items:   make([]fileItem, len(files)),
		index:   make(map[string]int, len(files)),
		width:   80,
	}
	for i, file := range files {
		m.items[i] = fileItem{path: file}
		m.index[file] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

// next waits for one event; a closed channel ends the program.
func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return closedMsg{}
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(Event(msg)), m.next())
	case closedMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) applyEvent(ev Event) tea.Cmd {
	idx, ok := m.index[ev.File]
	if !ok {
		return nil
	}
	item := &m.items[idx]
	item.status = ev.Status
	if ev.Status == StatusWorking {
		item.phase = ev.Phase
	}
	if ev.Status.finished() {
		item.errors = ev.Errors
	}
	return m.bar.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	total := 0.0
	for _, item := range m.items {
		total += item.progress()
	}
	return total / float64(len(m.items))
}

func (m *progressModel) counts() (finished, failed int) {
	for _, item := range m.items {
		if item.status.finished() {
			finished++
		}
		if item.status == StatusError {
			failed++
		}
	}
	return finished, failed
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	finished, failed := m.counts()
	header := fmt.Sprintf("%s (%d/%d", m.title, finished, len(m.items))
	if failed > 0 {
		header += fmt.Sprintf(", %d failed", failed)
	}
	header += ")"
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header) + "\n\n")
	nameWidth := max(m.width-statusWidth-4, 20)
	for _, item := range m.items {
		status := statusStyles[item.status].Render(fmt.Sprintf("%*s", statusWidth, item.label()))
		line := "  " + status + " " + truncate(item.path, nameWidth)
		if item.errors > 0 {
			line += fmt.Sprintf("  %d error(s)", item.errors)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

// truncate cuts value to width cells, the "..." tail included.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
