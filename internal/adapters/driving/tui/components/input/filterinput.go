// Package input provides text input components for the TUI.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/quizdeck/internal/adapters/driving/tui/styles"
)

// CategoryInput wraps a bubbles textinput for editing the category filter.
type CategoryInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
}

// NewCategoryInput creates a new, unfocused category input.
func NewCategoryInput(s *styles.Styles) *CategoryInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "game_type (empty for all)"
	ti.CharLimit = 64
	ti.Width = 40

	return &CategoryInput{
		textinput: ti,
		styles:    s,
		width:     40,
	}
}

// Update handles input messages.
func (c *CategoryInput) Update(msg tea.Msg) (*CategoryInput, tea.Cmd) {
	var cmd tea.Cmd
	c.textinput, cmd = c.textinput.Update(msg)
	return c, cmd
}

// View renders the category input.
func (c *CategoryInput) View() string {
	label := c.styles.Title.Render("Category: ")
	field := c.styles.InputField.Render(c.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Value returns the trimmed input value.
func (c *CategoryInput) Value() string {
	return strings.TrimSpace(c.textinput.Value())
}

// Open focuses the input with value pre-filled.
func (c *CategoryInput) Open(value string) tea.Cmd {
	c.textinput.SetValue(value)
	c.textinput.CursorEnd()
	return c.textinput.Focus()
}

// Close removes focus from the input.
func (c *CategoryInput) Close() {
	c.textinput.Blur()
}

// Focused returns whether the input is focused.
func (c *CategoryInput) Focused() bool {
	return c.textinput.Focused()
}

// SetWidth sets the width of the input.
func (c *CategoryInput) SetWidth(width int) {
	c.width = width
	// label and padding
	c.textinput.Width = max(width-14, 20)
}

// Width returns the current width.
func (c *CategoryInput) Width() int {
	return c.width
}
