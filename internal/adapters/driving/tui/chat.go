// Package tui provides the interactive chat terminal interface.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/studyhall-labs/studyhall-cli/internal/core/domain"
	"github.com/studyhall-labs/studyhall-cli/internal/core/ports/driving"
)

var (
	chatBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	sourceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errStatusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// exchange is one question/answer pair in the transcript.
type exchange struct {
	question string
	answer   string
	sources  []domain.Source
}

// answerMsg carries one completed query back into the update loop.
type answerMsg struct {
	question string
	answer   *domain.Answer
}

// answerErrMsg carries a failed query back into the update loop.
type answerErrMsg struct {
	question string
	err      error
}

// Model is the Bubble Tea model for the chat interface.
type Model struct {
	service   driving.QueryService
	ctx       context.Context
	input     textinput.Model
	viewport  viewport.Model
	spin      spinner.Model
	exchanges []exchange
	sessionID string
	status    string
	statusErr bool
	waiting   bool
	ready     bool
}

// New creates a new chat model over the query service.
func New(service driving.QueryService) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about the course materials and press Enter"
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	vp := viewport.New(0, 0)

	return Model{
		service:  service,
		ctx:      context.Background(),
		input:    ti,
		viewport: vp,
		spin:     sp,
		status:   "Ready. Type a question to begin.",
	}
}

// WithContext sets the context used for queries.
func (m Model) WithContext(ctx context.Context) Model {
	m.ctx = ctx
	return m
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window, and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ch := chatBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 1 + 1 + ih + 1 // header, spacer, input frame, status
		vh := msg.Height - reserved - ch
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width-4)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderTranscript())
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			question := strings.TrimSpace(m.input.Value())
			if question == "" || m.waiting {
				return m, nil
			}
			m.input.Reset()
			m.waiting = true
			m.statusErr = false
			m.status = "Thinking..."
			return m, tea.Batch(m.spin.Tick, m.askCmd(question))
		case "up":
			m.viewport.ScrollUp(1)
			return m, nil
		case "down":
			m.viewport.ScrollDown(1)
			return m, nil
		}

	case answerMsg:
		m.waiting = false
		m.sessionID = msg.answer.SessionID
		m.exchanges = append(m.exchanges, exchange{
			question: msg.question,
			answer:   msg.answer.Text,
			sources:  msg.answer.Sources,
		})
		m.status = fmt.Sprintf("Answered. Session %s", shortID(m.sessionID))
		m.statusErr = false
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil

	case answerErrMsg:
		m.waiting = false
		m.status = "Error: " + msg.err.Error()
		m.statusErr = true
		return m, nil

	case spinner.TickMsg:
		if m.waiting {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// askCmd runs one query off the update loop.
func (m Model) askCmd(question string) tea.Cmd {
	service, ctx, sessionID := m.service, m.ctx, m.sessionID
	return func() tea.Msg {
		answer, err := service.Query(ctx, question, sessionID)
		if err != nil {
			return answerErrMsg{question: question, err: err}
		}
		return answerMsg{question: question, answer: answer}
	}
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := lipgloss.NewStyle().Bold(true).Render("Course Materials Assistant")
	transcript := chatBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())

	status := m.status
	if m.waiting {
		status = m.spin.View() + " " + status
	}
	styled := statusStyle.Render(status)
	if m.statusErr {
		styled = errStatusStyle.Render(status)
	}

	return header + "\n" + transcript + "\n" + input + "\n" + styled
}

// renderTranscript renders all exchanges with their citations.
func (m Model) renderTranscript() string {
	if len(m.exchanges) == 0 {
		return "No questions yet. Ask about any ingested course."
	}

	parts := make([]string, 0, len(m.exchanges))
	for _, ex := range m.exchanges {
		block := questionStyle.Render("You: "+ex.question) + "\n" + ex.answer
		if len(ex.sources) > 0 {
			labels := make([]string, len(ex.sources))
			for i, src := range ex.sources {
				labels[i] = src.Label
				if src.Link != "" {
					labels[i] += " <" + src.Link + ">"
				}
			}
			block += "\n" + sourceStyle.Render("Sources: "+strings.Join(labels, ", "))
		}
		parts = append(parts, block)
	}
	return strings.Join(parts, "\n\n")
}

// shortID abbreviates a session id for the status line.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
