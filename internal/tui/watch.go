// Package tui implements the live terminal preview: the matrix frame
// rendered with half-block glyphs, refreshed on a ticker, with keys to
// step through the individual event frames.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"signadmin/internal/canvas"
	"signadmin/internal/editor"
	"signadmin/internal/scene"
)

const refreshEvery = 2 * time.Second

// currentSelection shows the live "what the sign displays now" frame;
// selections >= 0 index into the dated-then-recurring event list.
const currentSelection = -1

type keyMap struct {
	Next key.Binding
	Prev key.Binding
	Live key.Binding
	Help key.Binding
	Quit key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Live, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Prev, k.Next, k.Live}, {k.Help, k.Quit}}
}

var defaultKeys = keyMap{
	Next: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next frame")),
	Prev: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous frame")),
	Live: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "live frame")),
	Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	statusStyle = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

type tickMsg time.Time

type frameMsg struct {
	view       string
	label      string
	frameCount int
	err        error
}

// Model owns the Bubble Tea state for the watch view.
type Model struct {
	ctx      context.Context
	session  *editor.Session
	renderer *scene.Renderer
	loc      *time.Location
	sink     *canvas.TermSink

	selection  int
	frameCount int

	view      string
	label     string
	errorLine string

	keys keyMap
	help help.Model
}

// NewModel seeds the watch model with its collaborators.
func NewModel(ctx context.Context, session *editor.Session, renderer *scene.Renderer, loc *time.Location) Model {
	return Model{
		ctx:       ctx,
		session:   session,
		renderer:  renderer,
		loc:       loc,
		sink:      &canvas.TermSink{},
		selection: currentSelection,
		keys:      defaultKeys,
		help:      help.New(),
	}
}

// Init kicks off the first render and the refresh ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.renderCmd(), tickCmd())
}

// Update advances state from key presses, ticks, and finished renders.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Live):
			m.selection = currentSelection
			return m, m.renderCmd()
		case key.Matches(msg, m.keys.Next):
			if m.frameCount > 0 {
				m.selection++
				if m.selection >= m.frameCount {
					m.selection = currentSelection
				}
			}
			return m, m.renderCmd()
		case key.Matches(msg, m.keys.Prev):
			if m.frameCount > 0 {
				m.selection--
				if m.selection < currentSelection {
					m.selection = m.frameCount - 1
				}
			}
			return m, m.renderCmd()
		}
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.renderCmd(), tickCmd())

	case frameMsg:
		if msg.err != nil {
			m.errorLine = msg.err.Error()
			return m, nil
		}
		m.errorLine = ""
		m.view = msg.view
		m.label = msg.label
		m.frameCount = msg.frameCount
		return m, nil
	}

	return m, nil
}

// View renders the frame with its label and key help.
func (m Model) View() string {
	out := titleStyle.Render("signadmin watch") + "\n\n"
	if m.view != "" {
		out += m.view
	}
	out += "\n" + statusStyle.Render(m.label)
	if m.errorLine != "" {
		out += "\n" + errorStyle.Render("error: "+m.errorLine)
	}
	out += "\n" + m.help.View(m.keys) + "\n"
	return out
}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshEvery, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// renderCmd loads a data snapshot and renders the selected frame off the
// update loop.
func (m Model) renderCmd() tea.Cmd {
	selection := m.selection
	return func() tea.Msg {
		now := time.Now().In(m.loc)

		events, err := m.session.LoadEvents(m.ctx)
		if err != nil {
			return frameMsg{err: err}
		}
		recurring, err := m.session.LoadRecurring(m.ctx)
		if err != nil {
			return frameMsg{err: err}
		}

		frame := canvas.NewMatrixFrame()
		msg := frameMsg{frameCount: len(events) + len(recurring)}

		switch {
		case selection >= 0 && selection < len(events):
			ev := events[selection]
			m.renderer.RenderEventFrame(m.ctx, frame, scene.ViewOfEvent(ev))
			msg.label = fmt.Sprintf("event %d/%d: %s", selection+1, msg.frameCount, ev.TopLine)

		case selection >= len(events) && selection < msg.frameCount:
			rev := recurring[selection-len(events)]
			m.renderer.RenderEventFrame(m.ctx, frame, scene.ViewOfRecurring(rev))
			msg.label = fmt.Sprintf("recurring %d/%d: %s", selection+1, msg.frameCount, rev.TopLine)

		default:
			sched, err := m.session.LoadScheduleFor(m.ctx, now)
			if err != nil {
				return frameMsg{err: err}
			}
			m.renderer.RenderCurrent(m.ctx, frame, events, recurring, sched.Items, now)
			msg.label = "live frame at " + now.Format("15:04")
		}

		msg.view = m.sink.Render(frame)
		return msg
	}
}
