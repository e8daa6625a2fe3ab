package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"plexus/internal/analyzer"
)

// maxVisible bounds the file list; older finished entries scroll away.
const maxVisible = 12

type progressModel struct {
	title      string
	events     <-chan analyzer.Event
	spinner    spinner.Model
	prog       progress.Model
	items      []fileItem
	index      map[string]int
	finished   int
	failed     int
	stageLabel string
	width      int
	done       bool
}

type fileItem struct {
	url    string
	status string
	stage  analyzer.Stage
}

type eventMsg analyzer.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders analysis progress.
// Documents are discovered while imports are followed, so the list grows as
// events arrive; urls seeds it with the files known up front.
func NewProgressModel(title string, urls []string, events <-chan analyzer.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		index:   make(map[string]int, len(urls)),
		width:   80,
	}
	for _, url := range urls {
		m.item(url)
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(analyzer.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
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
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s [%d/%d]", m.title, m.finished, len(m.items))
	if m.stageLabel != "" {
		header = fmt.Sprintf("%s (%s)", header, m.stageLabel)
	}
	if m.done {
		header = fmt.Sprintf("done: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 12
	nameWidth := max(m.width-statusWidth-4, 20)

	visible := m.items
	if len(visible) > maxVisible {
		hidden := len(visible) - maxVisible
		visible = visible[hidden:]
		fmt.Fprintf(&b, "  %12s %d more\n", "...", hidden)
	}
	for _, item := range visible {
		name := truncate(item.url, nameWidth)
		statusStyled := styleStatus(item.status).Render(fmt.Sprintf("%12s", item.status))
		fmt.Fprintf(&b, "  %s %s\n", statusStyled, name)
	}
	if m.failed > 0 {
		fmt.Fprintf(&b, "\n  %s\n", styleStatus("error").Render(fmt.Sprintf("%d file(s) failed", m.failed)))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) item(url string) int {
	if idx, ok := m.index[url]; ok {
		return idx
	}
	m.items = append(m.items, fileItem{url: url, status: "queued"})
	m.index[url] = len(m.items) - 1
	return len(m.items) - 1
}

func (m *progressModel) applyEvent(ev analyzer.Event) tea.Cmd {
	label := statusLabel(ev.Stage, ev.Status)
	if ev.URL == "" {
		if label != "" {
			m.stageLabel = label
		}
		return nil
	}
	idx := m.item(ev.URL)
	it := &m.items[idx]
	wasFinal := it.status == "done" || it.status == "error"
	switch {
	case ev.Status == analyzer.StatusError:
		it.status = "error"
	case ev.Status == analyzer.StatusDone && ev.Stage == analyzer.StageScan:
		it.status = "done"
	case ev.Status == analyzer.StatusDone:
		// load done: the scan follows
	case label != "":
		it.status = label
	}
	it.stage = ev.Stage
	if !wasFinal {
		switch it.status {
		case "done":
			m.finished++
		case "error":
			m.finished++
			m.failed++
		}
	}

	total := 0.0
	for _, item := range m.items {
		if item.status == "done" || item.status == "error" {
			total += 1.0
		} else {
			total += progressFromStage(item.stage)
		}
	}
	return m.prog.SetPercent(total / float64(len(m.items)))
}

func progressFromStage(stage analyzer.Stage) float64 {
	switch stage {
	case analyzer.StageLoad:
		return 0.2
	case analyzer.StageScan:
		return 0.6
	default:
		return 0.0
	}
}

func statusLabel(stage analyzer.Stage, status analyzer.Status) string {
	switch status {
	case analyzer.StatusQueued:
		return "queued"
	case analyzer.StatusDone:
		return "done"
	case analyzer.StatusError:
		return "error"
	case analyzer.StatusWorking:
		return stageLabel(stage)
	default:
		return ""
	}
}

func stageLabel(stage analyzer.Stage) string {
	switch stage {
	case analyzer.StageLoad:
		return "loading"
	case analyzer.StageScan:
		return "scanning"
	case analyzer.StageResolve:
		return "resolving"
	case analyzer.StageIndex:
		return "indexing"
	default:
		return ""
	}
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "done":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "loading", "scanning", "resolving", "indexing":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
