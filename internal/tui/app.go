package tui

import (
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/sortscope/internal/errors"
	"github.com/Iron-Ham/sortscope/internal/session"
)

// App is the main TUI application
type App struct {
	model   Model
	session *session.Session
	program *tea.Program
	final   Model
}

// New creates a new TUI application for sess
func New(sess *session.Session, opts ...Option) *App {
	return &App{
		model:   NewModel(sess, opts...),
		session: sess,
	}
}

// Run starts the session if needed and runs the TUI until the user quits.
// The sort keeps running if the user quits early; it cannot be cancelled.
func (a *App) Run() error {
	if err := a.session.Start(); err != nil && !errors.Is(err, errors.ErrAlreadyStarted) {
		return err
	}

	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
	)

	// Quit cleanly on termination signals so the terminal is restored
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		if _, ok := <-sigChan; ok && a.program != nil {
			a.program.Send(tea.Quit())
		}
	}()

	final, err := a.program.Run()

	// Clean up signal handler
	signal.Stop(sigChan)
	close(sigChan)

	if m, ok := final.(Model); ok {
		a.final = m
	}
	return err
}

// Finished reports whether the final batch was shown before the TUI exited.
func (a *App) Finished() bool {
	return a.final.Finished()
}

// SortErr returns the sort failure shown by the TUI, if any.
func (a *App) SortErr() error {
	return a.final.Err()
}
