// Package tui renders a sort run live in the terminal.
//
// The Model is the consumer side of a session's channel. Every frame tick
// it polls the channel once, replays the batch onto a mirror of the array
// and redraws the mirror as vertical bars, coloring the elements the batch
// read or wrote. Polling stops after the final batch.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/sortscope/internal/channel"
	"github.com/Iron-Ham/sortscope/internal/logging"
	"github.com/Iron-Ham/sortscope/internal/replay"
	"github.com/Iron-Ham/sortscope/internal/session"
	"github.com/Iron-Ham/sortscope/internal/tui/styles"
)

// DefaultFrame is the poll interval used when none is configured.
const DefaultFrame = 33 * time.Millisecond

// tickMsg is sent every frame.
type tickMsg time.Time

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the Bubble Tea model of the sort view.
type Model struct {
	sess   *session.Session
	mirror *replay.Mirror
	styles *styles.Styles
	keys   keyMap
	help   help.Model
	logger *logging.Logger

	frame    time.Duration
	showHelp bool

	width  int
	height int

	paused   bool
	finished bool
	err      error
	polls    int
	last     int // events in the most recent non-empty batch
}

// Option configures a Model.
type Option func(*Model)

// WithFrame sets the poll interval.
func WithFrame(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.frame = d
		}
	}
}

// WithTheme selects a built-in color theme.
func WithTheme(name string) Option {
	return func(m *Model) {
		m.styles = styles.ForTheme(name)
	}
}

// WithHelp shows or hides the key help footer.
func WithHelp(show bool) Option {
	return func(m *Model) {
		m.showHelp = show
	}
}

// WithLogger sets the logger used for frame-level diagnostics.
func WithLogger(logger *logging.Logger) Option {
	return func(m *Model) {
		m.logger = logger
	}
}

// NewModel creates the view of sess. The session is expected to be started
// by the caller.
func NewModel(sess *session.Session, opts ...Option) Model {
	m := Model{
		sess:     sess,
		mirror:   replay.New(sess.Initial()),
		styles:   styles.ForTheme(string(styles.ThemeDefault)),
		keys:     defaultKeyMap(),
		help:     help.New(),
		frame:    DefaultFrame,
		showHelp: true,
		logger:   logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.help.Styles.ShortKey = m.styles.HelpKey
	m.help.Styles.ShortDesc = m.styles.HelpDesc
	m.help.Styles.FullKey = m.styles.HelpKey
	m.help.Styles.FullDesc = m.styles.HelpDesc
	return m
}

// Init starts the frame ticker.
func (m Model) Init() tea.Cmd {
	return tick(m.frame)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeypress(msg)

	case tickMsg:
		if m.finished {
			return m, nil
		}
		if !m.paused {
			m.poll()
		}
		if m.finished {
			return m, nil
		}
		return m, tick(m.frame)
	}
	return m, nil
}

func (m Model) handleKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Pause):
		if !m.finished {
			m.paused = !m.paused
		}
	}
	return m, nil
}

// poll drains the channel once and replays the batch onto the mirror.
func (m *Model) poll() {
	batch := m.sess.Channel().Poll()
	m.polls++
	m.mirror.Apply(batch.Events)
	if len(batch.Events) > 0 {
		m.last = len(batch.Events)
	}
	if batch.Final {
		m.finished = true
		m.err = batch.Err
		m.logger.Debug("final batch received",
			"polls", m.polls,
			"gaps", m.mirror.Gaps(),
			"last_seq", m.mirror.LastSeq(),
		)
	}
}

// Finished reports whether the final batch has been received.
func (m Model) Finished() bool { return m.finished }

// Err returns the failure carried by the final batch.
func (m Model) Err() error { return m.err }

// Mirror returns the consumer-side copy of the array.
func (m Model) Mirror() *replay.Mirror { return m.mirror }

func (m Model) channelStats() channel.Stats {
	return m.sess.Channel().Stats()
}
