package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/handcoach/internal/analysis"
	"github.com/lox/handcoach/internal/deck"
	"github.com/lox/handcoach/internal/hand"
	"github.com/lox/handcoach/internal/history"
	"github.com/lox/handcoach/internal/session"
	"github.com/lox/handcoach/internal/wizard"
	"github.com/muesli/termenv"
)

// Options configures a Model.
type Options struct {
	// Analyzer answers "?" actions, submissions and follow-ups. Without one
	// the wizard still works but cannot request analysis.
	Analyzer analysis.Analyzer
	Clock    quartz.Clock
	TestMode bool
}

// analysisMsg carries a finished analysis request back to Update.
type analysisMsg struct {
	conv *analysis.Conversation
	turn analysis.Turn
	err  error
}

// Model is the Bubble Tea model for the hand entry wizard
type Model struct {
	ctx      context.Context
	sess     *session.Session
	analyzer analysis.Analyzer
	clock    quartz.Clock
	logger   *log.Logger

	// UI components
	viewport viewport.Model
	input    textinput.Model

	// Analysis state
	conv        *analysis.Conversation
	busy        bool
	showReplies bool

	status    string
	statusErr bool
	quitting  bool

	// Dimensions
	width       int
	height      int
	initialized bool

	// Test mode
	testMode    bool
	capturedLog []string
}

// NewModel creates a wizard model driving sess.
func NewModel(ctx context.Context, sess *session.Session, logger *log.Logger, opts Options) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "card h1 As, act CO raise 3, next, help ..."
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 100
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	if opts.TestMode {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	return &Model{
		ctx:      ctx,
		sess:     sess,
		analyzer: opts.Analyzer,
		clock:    opts.Clock,
		logger:   logger.WithPrefix("tui"),
		viewport: vp,
		input:    ti,
		status:   "Enter both hero cards to begin, e.g. card h1 As",
		testMode: opts.TestMode,
	}
}

// Run starts the program on the terminal and blocks until the user quits
// or ctx is cancelled.
func Run(ctx context.Context, m *Model) error {
	lipgloss.SetColorProfile(termenv.NewOutput(os.Stdout).EnvColorProfile())

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case analysisMsg:
		if msg.conv != m.conv {
			m.logger.Debug("Dropping reply for a discarded hand", "error", msg.err)
			break
		}
		m.busy = false
		if msg.err != nil {
			m.logger.Error("Analysis failed", "error", msg.err)
			m.fail(fmt.Errorf("analysis failed: %w", msg.err))
		} else {
			m.ok("Analysis received. Follow up with: ask <question>")
		}
		m.refresh(true)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if cmd := m.Execute(line); cmd != nil {
				cmds = append(cmds, cmd)
			}
			if m.quitting {
				return m, tea.Sequence(tea.ClearScreen, tea.Quit)
			}
		case "pgup":
			m.viewport.HalfPageUp()
		case "pgdown":
			m.viewport.HalfPageDown()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// Execute runs one command line against the session. The returned command,
// if any, performs the analysis request in the background.
func (m *Model) Execute(line string) tea.Cmd {
	cmd, err := ParseCommand(line, m.sess.State())
	if err != nil {
		m.fail(err)
		return nil
	}

	switch cmd.Kind {
	case CommandIntent:
		res, err := m.sess.Apply(cmd.Intent)
		if err != nil {
			m.fail(err)
			return nil
		}
		if cmd.Intent.Type == session.Reset {
			// any reply still in flight belongs to the old hand
			m.conv = nil
			m.busy = false
			m.showReplies = false
		}
		m.ok(m.describe(cmd.Intent, res))
		m.refresh(false)
		if res.Question {
			return m.startAnalysis(res.Snapshot)
		}

	case CommandSubmit:
		doc, err := m.sess.Submit()
		if err != nil {
			m.fail(err)
			return nil
		}
		return m.startAnalysis(doc)

	case CommandAsk:
		if m.conv == nil {
			m.fail(errors.New("nothing has been analysed yet: add a ? action or submit"))
			return nil
		}
		if m.busy {
			m.fail(errors.New("an analysis is already running"))
			return nil
		}
		if err := m.conv.Ask(cmd.Text); err != nil {
			m.fail(err)
			return nil
		}
		m.showReplies = true
		return m.analyze()

	case CommandCards:
		slot, err := hand.ParseSlot(cmd.Text)
		if err != nil {
			m.fail(err)
			return nil
		}
		cards := hand.AvailableCards(m.sess.State(), slot)
		m.ok(fmt.Sprintf("%d cards for %s: %s", len(cards), slot, m.formatCards(cards)))

	case CommandView:
		switch cmd.Text {
		case "preview":
			m.showReplies = false
		case "analysis":
			if m.conv == nil {
				m.fail(errors.New("nothing has been analysed yet"))
				return nil
			}
			m.showReplies = true
		default:
			m.fail(fmt.Errorf("view: want preview or analysis, got %q", cmd.Text))
			return nil
		}
		m.refresh(m.showReplies)

	case CommandHelp:
		m.ok(helpText)

	case CommandQuit:
		m.quitting = true
	}
	return nil
}

// startAnalysis opens a conversation about document and requests the first
// reply.
func (m *Model) startAnalysis(document string) tea.Cmd {
	if m.analyzer == nil {
		m.fail(errors.New("analysis is not configured: set HANDCOACH_API_KEY"))
		return nil
	}
	if m.busy {
		m.fail(errors.New("an analysis is already running"))
		return nil
	}
	conv, err := analysis.NewConversation(m.clock, document)
	if err != nil {
		m.fail(err)
		return nil
	}
	m.conv = conv
	m.showReplies = true
	return m.analyze()
}

func (m *Model) analyze() tea.Cmd {
	m.busy = true
	m.ok("Analysing...")
	m.refresh(true)

	ctx, a, conv := m.ctx, m.analyzer, m.conv
	return func() tea.Msg {
		turn, err := analysis.Exchange(ctx, a, conv)
		return analysisMsg{conv: conv, turn: turn, err: err}
	}
}

// describe summarises an applied intent for the status line.
func (m *Model) describe(in session.Intent, res session.Result) string {
	switch in.Type {
	case session.Next, session.Back, session.Jump:
		return fmt.Sprintf("Step %d: %s", res.Step, m.stepTitle(res.Step))
	case session.AddAction:
		if res.Question {
			return "Question added, requesting analysis"
		}
		return fmt.Sprintf("Action added. Pot %.1fBB", res.State.PotSize)
	case session.RemoveAction:
		return fmt.Sprintf("Action removed. Pot %.1fBB", res.State.PotSize)
	case session.Reset:
		return "New hand"
	default:
		return "OK: " + in.String()
	}
}

func (m *Model) ok(text string) {
	m.status, m.statusErr = text, false
	m.capture(text)
}

func (m *Model) fail(err error) {
	m.status, m.statusErr = err.Error(), true
	m.capture("error: " + err.Error())
}

func (m *Model) capture(entry string) {
	if m.testMode {
		m.capturedLog = append(m.capturedLog, entry)
	}
}

// refresh reloads the main pane. bottom scrolls to the end, which is where
// new replies appear.
func (m *Model) refresh(bottom bool) {
	m.viewport.SetContent(m.renderMain())
	if bottom && m.viewport.Height > 0 && m.viewport.Width > 0 {
		m.viewport.GotoBottom()
	}
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := HeaderStyle.Render(m.renderSteps())
	headerHeight := lipgloss.Height(header)

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(max(m.width-2, 1)).
		Render(actionContent)

	sidebarContent := m.renderSidebar()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 28)
	paneHeight := max(m.height-headerHeight-actionHeight-4, 1)

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	mainWidth := max(m.width-sidebarWidth-4, 1)
	m.viewport.Width = mainWidth
	m.viewport.Height = paneHeight
	if !m.initialized && mainWidth > 1 && paneHeight > 1 {
		m.viewport.SetContent(m.renderMain())
		m.viewport.GotoTop()
		m.initialized = true
	}

	mainPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(mainWidth).
		Height(paneHeight).
		Render(m.viewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, mainPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Left, header, topRow, actionPane)
}

func (m *Model) stepTitle(s wizard.Step) string {
	if m.sess.Labels().Locale == "en" {
		return s.String()
	}
	return s.Title()
}

// renderSteps renders the step bar: current step highlighted, reachable
// steps coloured, the rest dimmed.
func (m *Model) renderSteps() string {
	machine := m.sess.Machine()
	parts := make([]string, 0, len(wizard.Steps))
	for _, s := range wizard.Steps {
		label := fmt.Sprintf(" %d %s ", s, m.stepTitle(s))
		switch {
		case s == machine.Current():
			parts = append(parts, CurrentStepStyle.Render(label))
		case machine.Visited(s):
			parts = append(parts, VisitedStepStyle.Render(label))
		default:
			parts = append(parts, PendingStepStyle.Render(label))
		}
	}
	return strings.Join(parts, "›")
}

// renderMain renders either the live document or the analysis transcript.
func (m *Model) renderMain() string {
	if !m.showReplies || m.conv == nil {
		return DocumentStyle.Render(m.sess.Preview())
	}

	var b strings.Builder
	for i, t := range m.conv.Turns() {
		switch {
		case i == 0:
			b.WriteString(DocumentStyle.Render(t.Content))
		case t.Role == analysis.RoleUser:
			b.WriteString(QuestionStyle.Render("> " + t.Content))
		default:
			b.WriteString(ReplyStyle.Render(t.Content))
		}
		b.WriteString("\n\n")
	}
	if m.busy {
		b.WriteString(InfoStyle.Render("Analysing..."))
	}
	return b.String()
}

func (m *Model) renderSidebar() string {
	s := m.sess.State()
	var b strings.Builder

	b.WriteString(WarningStyle.Render(fmt.Sprintf("Pot: %.1fBB", s.PotSize)))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Hero: %s %s\n", s.HeroPosition, m.formatCards(s.HeroHand[:]))
	if board := history.Board(s); len(board) > 0 {
		fmt.Fprintf(&b, "Board: %s\n", m.formatCards(board))
	}

	b.WriteString("\n")
	b.WriteString(InfoStyle.Render(fmt.Sprintf("Stacks (%d players):", s.PlayerCount)))
	b.WriteString("\n")
	for _, e := range s.Stacks {
		marker := " "
		if e.IsHero {
			marker = "*"
		}
		fmt.Fprintf(&b, " %s%-6s %6.1fBB\n", marker, e.Position, e.Stack)
	}

	positions := hand.AvailablePositions(s)
	names := make([]string, len(positions))
	for i, p := range positions {
		names[i] = string(p)
	}
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render("In hand: "))
	b.WriteString(strings.Join(names, " "))
	b.WriteString("\n")

	if street, ok := m.sess.Step().Street(); ok {
		b.WriteString("\n")
		b.WriteString(InfoStyle.Render(fmt.Sprintf("Actions (%s):", street)))
		b.WriteString("\n")
		for i, a := range s.Actions(street) {
			line := fmt.Sprintf(" [%d] %s %s", i, a.Position, a.Action)
			if a.HasAmount() {
				line += fmt.Sprintf(" %.1fBB", a.Amount)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *Model) renderActionPane() string {
	var b strings.Builder
	if m.statusErr {
		b.WriteString(ErrorStyle.Render(m.status))
	} else {
		b.WriteString(SuccessStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	help := "Enter to run • PgUp/PgDn scroll • help for commands • Ctrl+C to quit"
	if err := wizard.Guard(m.sess.Step(), m.sess.State()); err != nil && !errors.Is(err, wizard.ErrTerminal) {
		b.WriteString(WarningStyle.Render(err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(InfoStyle.Render(help))
	return b.String()
}

// formatCards formats cards with colors
func (m *Model) formatCards(cards []deck.Card) string {
	if len(cards) == 0 {
		return ""
	}

	formatted := make([]string, len(cards))
	for i, card := range cards {
		if card.IsRed() {
			formatted[i] = RedCardStyle.Render(card.Pretty())
		} else {
			formatted[i] = BlackCardStyle.Render(card.Pretty())
		}
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

// Session returns the session the model drives.
func (m *Model) Session() *session.Session {
	return m.sess
}

// Busy reports whether an analysis request is in flight.
func (m *Model) Busy() bool {
	return m.busy
}

// Conversation returns the current analysis conversation, if any.
func (m *Model) Conversation() *analysis.Conversation {
	return m.conv
}

// GetCapturedLog returns the captured status entries (test mode only)
func (m *Model) GetCapturedLog() []string {
	if !m.testMode {
		return nil
	}
	result := make([]string, len(m.capturedLog))
	copy(result, m.capturedLog)
	return result
}

// IsTestMode returns whether the TUI is in test mode
func (m *Model) IsTestMode() bool {
	return m.testMode
}
