// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/quizdeck/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/quizdeck/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateIdle      State = "idle"
	StateLoading   State = "loading"
	StateReady     State = "ready"
	StateError     State = "error"
	StateFiltering State = "filtering"
)

// Bar displays load status and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	message string
	count   int
	cached  bool
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateIdle,
		width:  80,
	}
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the left side of the status bar.
func (s *Bar) renderLeft() string {
	var left string
	switch s.state {
	case StateLoading:
		left = s.styles.Muted.Render("Loading...")
	case StateError:
		left = s.styles.Error.Render("Load failed")
	case StateFiltering:
		left = s.styles.Normal.Render("Category filter")
	case StateReady:
		noun := "questions"
		if s.count == 1 {
			noun = "question"
		}
		left = s.styles.Normal.Render(fmt.Sprintf("%d %s", s.count, noun))
		if s.cached {
			left += " " + s.styles.Warning.Render("(cached)")
		}
	default:
		left = s.styles.Muted.Render("Idle")
	}

	if s.message != "" {
		left += "  " + s.styles.Muted.Render(s.message)
	}
	return left
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	var bindings []key.Binding
	switch s.state {
	case StateError:
		bindings = s.keymap.ErrorHelp()
	case StateFiltering:
		bindings = s.keymap.FilterHelp()
	default:
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a transient message shown after the state.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetCount sets the number of questions shown.
func (s *Bar) SetCount(count int) {
	s.count = count
}

// SetCached marks the shown questions as coming from the cache.
func (s *Bar) SetCached(cached bool) {
	s.cached = cached
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}
