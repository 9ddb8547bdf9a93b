package tui

import (
	"slices"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/sortscope/internal/access"
	"github.com/Iron-Ham/sortscope/internal/errors"
	"github.com/Iron-Ham/sortscope/internal/session"
)

func newStartedModel(t *testing.T, values []int, opts ...Option) Model {
	t.Helper()
	sess, err := session.New(values, session.Config{Radix: 10})
	if err != nil {
		t.Fatalf("session.New failed: %v", err)
	}
	if err := sess.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	m := NewModel(sess, opts...)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model)
}

// runToCompletion feeds ticks until the model stops asking for more.
func runToCompletion(t *testing.T, m Model) Model {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		updated, cmd := m.Update(tickMsg(time.Now()))
		m = updated.(Model)
		if cmd == nil {
			return m
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("model never received the final batch")
	return m
}

func TestModel_ReplaysSortToCompletion(t *testing.T) {
	input := []int{170, 45, 75, 90, 802, 24, 2, 66}
	m := runToCompletion(t, newStartedModel(t, input))

	if !m.Finished() {
		t.Fatal("model should be finished")
	}
	if m.Err() != nil {
		t.Fatalf("Err() = %v", m.Err())
	}
	if want := []int{2, 24, 45, 66, 75, 90, 170, 802}; !slices.Equal(m.Mirror().Ints(), want) {
		t.Errorf("mirror = %v, want %v", m.Mirror().Ints(), want)
	}
	if m.Mirror().Gaps() != 0 {
		t.Errorf("Gaps() = %d", m.Mirror().Gaps())
	}

	view := m.View()
	if !strings.Contains(view, "sorted") {
		t.Errorf("view should report the sorted state:\n%s", view)
	}
	if !strings.Contains(view, barGlyph) {
		t.Errorf("view should draw bars:\n%s", view)
	}

	// No more ticks after the final batch.
	if _, cmd := m.Update(tickMsg(time.Now())); cmd != nil {
		t.Error("finished model should stop ticking")
	}
}

func TestModel_ShowsFailure(t *testing.T) {
	m := runToCompletion(t, newStartedModel(t, []int{3, -9}))

	if !errors.Is(m.Err(), errors.ErrInvalidInput) {
		t.Fatalf("Err() = %v, want ErrInvalidInput", m.Err())
	}
	if !strings.Contains(m.View(), "failed") {
		t.Errorf("view should report the failure:\n%s", m.View())
	}
}

func TestModel_Keys(t *testing.T) {
	m := newStartedModel(t, []int{1, 2, 3})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	if !updated.(Model).help.ShowAll {
		t.Error("? should expand the help")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	paused := updated.(Model)
	if !paused.paused {
		t.Fatal("p should pause the display")
	}

	polls := paused.polls
	updated, cmd = paused.Update(tickMsg(time.Now()))
	if updated.(Model).polls != polls {
		t.Error("a paused model must not poll")
	}
	if cmd == nil {
		t.Error("a paused model keeps ticking")
	}
}

func TestModel_ViewBeforeSize(t *testing.T) {
	sess, err := session.New([]int{1}, session.Config{Radix: 10})
	if err != nil {
		t.Fatalf("session.New failed: %v", err)
	}
	if got := NewModel(sess).View(); got != "Loading..." {
		t.Errorf("View() = %q", got)
	}
}

func TestModel_ColumnsGroupWideArrays(t *testing.T) {
	values := make([]int, 10)
	for i := range values {
		values[i] = i
	}
	m := newStartedModel(t, values, WithHelp(false), WithTheme("ocean"))
	m.mirror.Apply([]access.Event{
		{Seq: 1, Op: access.OpRead, Index: 2},
		{Seq: 2, Op: access.OpWrite, Index: 3, Value: access.Some(3)},
		{Seq: 3, Op: access.OpRead, Index: 8},
	})

	cols := m.columns(5)
	if len(cols) != 5 {
		t.Fatalf("Expected 5 columns, got %d", len(cols))
	}
	if cols[1].value != 3 || !cols[1].marked || cols[1].touched != access.OpWrite {
		t.Errorf("column 1 = %+v, want max 3 marked as written", cols[1])
	}
	if !cols[4].marked || cols[4].touched != access.OpRead {
		t.Errorf("column 4 = %+v, want marked as read", cols[4])
	}
	if cols[0].marked {
		t.Errorf("column 0 = %+v, want untouched", cols[0])
	}
}

func TestModel_EmptyArray(t *testing.T) {
	m := runToCompletion(t, newStartedModel(t, nil))

	if !m.Finished() || m.Err() != nil {
		t.Fatalf("empty sort should finish cleanly, err = %v", m.Err())
	}
	if !strings.Contains(m.View(), "empty array") {
		t.Errorf("view should mention the empty array:\n%s", m.View())
	}
}
