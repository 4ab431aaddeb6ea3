package chatcmder

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/tahadhari/tahadhari/pkg/conversation"
	"github.com/tahadhari/tahadhari/pkg/transcript"
)

var (
	maroonColor = lipgloss.Color("#800000")
	dimColor    = lipgloss.Color("7")
	dangerColor = lipgloss.Color("9")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(maroonColor).
			Padding(0, 1)

	UserStyle = lipgloss.NewStyle().
			Foreground(maroonColor).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(dangerColor).
			Bold(true)
)

// replyMsg carries the outcome of one exchange.
type replyMsg struct {
	reply string
	err   error
}

// dictationMsg carries the outcome of one dictation.
type dictationMsg struct {
	text string
	err  error
}

type chatModel struct {
	ctx  context.Context
	ctrl *conversation.Controller

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	width, height int
	waiting       bool
	listening     bool
	notice        string
	failure       string
}

func newChatModel(ctx context.Context, ctrl *conversation.Controller) *chatModel {
	strs := ctrl.Session().Strings()

	ta := textarea.New()
	ta.Placeholder = strs.Placeholder
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)
	ta.KeyMap.InsertNewline.SetEnabled(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = UserStyle

	m := &chatModel{
		ctx:      ctx,
		ctrl:     ctrl,
		viewport: viewport.New(80, 20),
		textarea: ta,
		spinner:  sp,
		width:    80,
		height:   26,
	}
	m.renderer = newRenderer(m.width)
	return m
}

// newRenderer returns a markdown renderer for the terminal background, or nil
// when glamour cannot build one.
func newRenderer(width int) *glamour.TermRenderer {
	style := "light"
	if termenv.HasDarkBackground() {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(max(width-4, 20)),
	)
	if err != nil {
		return nil
	}
	return r
}

func (m *chatModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m *chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		// Reserve title (1), staged line (1), status (1), textarea (3) and help (1).
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-7, 1)
		m.textarea.SetWidth(msg.Width)
		m.renderer = newRenderer(msg.Width)
		m.refresh()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyCtrlD:
			return m, m.startDictation()
		case tea.KeyEnter:
			return m, m.submitInput()
		}

	case spinner.TickMsg:
		if m.waiting || m.listening {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			m.refresh()
			return m, cmd
		}
		return m, nil

	case replyMsg:
		m.waiting = false
		m.failure = ""
		if msg.err != nil {
			m.failure = surfaced(m.ctrl, msg.err)
		}
		m.refresh()
		return m, nil

	case dictationMsg:
		m.listening = false
		if msg.err != nil {
			m.failure = surfaced(m.ctrl, msg.err)
			return m, nil
		}
		m.failure = ""
		m.textarea.SetValue(msg.text)
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submitInput handles Enter: slash commands run here, anything else becomes
// an exchange.
func (m *chatModel) submitInput() tea.Cmd {
	value := m.textarea.Value()

	if sc, ok := parseSlash(value); ok {
		m.textarea.Reset()
		if sc.name == "dictate" {
			return m.startDictation()
		}
		notice, quit, err := applySlash(m.ctrl, sc)
		if quit {
			return tea.Quit
		}
		m.notice, m.failure = notice, ""
		if err != nil {
			m.notice, m.failure = "", commandError(m.ctrl, err)
		}
		m.textarea.Placeholder = m.ctrl.Session().Strings().Placeholder
		m.refresh()
		return nil
	}

	if m.waiting {
		return nil
	}
	if strings.TrimSpace(value) == "" && m.ctrl.Staged() == nil {
		return nil
	}

	m.textarea.Reset()
	m.waiting = true
	m.notice, m.failure = "", ""
	return tea.Batch(m.submit(value), m.spinner.Tick)
}

func (m *chatModel) submit(prompt string) tea.Cmd {
	return func() tea.Msg {
		reply, err := m.ctrl.SubmitExchange(m.ctx, prompt)
		return replyMsg{reply: reply, err: err}
	}
}

func (m *chatModel) startDictation() tea.Cmd {
	if m.listening {
		return nil
	}
	m.listening = true
	return tea.Batch(func() tea.Msg {
		text, err := m.ctrl.Dictate(m.ctx)
		return dictationMsg{text: text, err: err}
	}, m.spinner.Tick)
}

// refresh re-renders the transcript into the viewport and scrolls to the end.
func (m *chatModel) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m *chatModel) renderTranscript() string {
	strs := m.ctrl.Session().Strings()

	var sb strings.Builder
	for _, e := range m.ctrl.Transcript() {
		switch e.Author {
		case transcript.AuthorUser:
			sb.WriteString(UserStyle.Render("> "))
			sb.WriteString(e.Text)
			if e.Image != nil {
				sb.WriteString(DimStyle.Render(" [" + strs.ImageStaged + ": " + e.Image.Name + "]"))
			}
			sb.WriteString("\n\n")
		case transcript.AuthorAssistant:
			sb.WriteString(m.renderMarkdown(e.Text))
			sb.WriteString("\n")
		}
	}

	if m.waiting {
		sb.WriteString(m.spinner.View() + " " + DimStyle.Render(strs.Loading) + "\n")
	}
	return sb.String()
}

func (m *chatModel) renderMarkdown(content string) string {
	if m.renderer == nil {
		return content + "\n"
	}
	rendered, err := m.renderer.Render(content)
	if err != nil {
		return content + "\n"
	}
	return rendered
}

func (m *chatModel) View() string {
	strs := m.ctrl.Session().Strings()

	title := TitleStyle.Render(strs.Title) + " " + DimStyle.Render(strs.History)
	if summary := m.ctrl.Summary(); summary.Head != "" {
		title += DimStyle.Render(fmt.Sprintf(" (%d) #%s", summary.Entries, summary.Head[:8]))
	}

	staged := ""
	if img := m.ctrl.Staged(); img != nil {
		staged = DimStyle.Render(strs.ImageStaged + ": " + img.Ref.Name)
	}

	status := m.notice
	switch {
	case m.failure != "":
		status = ErrorStyle.Render(m.failure)
	case m.listening:
		status = m.spinner.View() + " " + strs.Listen
	}

	help := DimStyle.Render("enter " + strs.Send + "  ctrl+d " + strs.Speak + "  /help  esc")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.viewport.View(),
		ansi.Truncate(staged, m.width, "…"),
		ansi.Truncate(status, m.width, "…"),
		m.textarea.View(),
		ansi.Truncate(help, m.width, "…"),
	)
}
