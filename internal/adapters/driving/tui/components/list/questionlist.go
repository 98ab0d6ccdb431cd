// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/quizdeck/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quizdeck/internal/core/domain"
)

// Field names tried, in order, for a question's prompt and answer.
var (
	promptFields = []string{"question", "prompt", "clue", "title"}
	answerFields = []string{"answer", "solution", "response"}
)

// QuestionList displays records as a navigable deck of questions.
type QuestionList struct {
	records  domain.RecordSet
	selected int
	revealed map[int]bool
	styles   *styles.Styles
	width    int
	height   int
}

// NewQuestionList creates a new question list component.
func NewQuestionList(s *styles.Styles) *QuestionList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &QuestionList{
		revealed: make(map[int]bool),
		styles:   s,
		width:    80,
		height:   10,
	}
}

// Update handles list navigation messages.
func (l *QuestionList) Update(msg tea.Msg) (*QuestionList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		case "enter", " ":
			l.ToggleReveal()
		}
	}
	return l, nil
}

// View renders the visible part of the deck.
func (l *QuestionList) View() string {
	if len(l.records) == 0 {
		return l.styles.Muted.Render("No questions")
	}

	// Each question takes two lines.
	visible := l.height / 2
	if visible < 1 {
		visible = 1
	}

	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := min(start+visible, len(l.records))

	lines := make([]string, 0, (end-start)*2)
	for i := start; i < end; i++ {
		lines = append(lines, l.renderQuestion(i))
	}
	return strings.Join(lines, "\n")
}

// renderQuestion formats a single record.
func (l *QuestionList) renderQuestion(index int) string {
	r := l.records[index]

	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	prompt := truncate(fmt.Sprintf("%d. %s", index+1, Prompt(r)), l.width-4)
	var promptLine string
	if index == l.selected {
		promptLine = l.styles.Selected.Render(indicator + prompt)
	} else {
		promptLine = l.styles.Normal.Render(indicator + prompt)
	}

	var detail string
	if l.revealed[index] {
		detail = l.styles.Answer.Render("    " + truncate(Answer(r), l.width-6))
	} else {
		detail = l.styles.Muted.Render("    " + meta(r))
	}

	return promptLine + "\n" + detail
}

// SetRecords replaces the deck. Selection is kept when still in range.
func (l *QuestionList) SetRecords(records domain.RecordSet) {
	l.records = records
	l.revealed = make(map[int]bool)
	if l.selected >= len(records) {
		l.selected = max(len(records)-1, 0)
	}
}

// Records returns the current deck.
func (l *QuestionList) Records() domain.RecordSet {
	return l.records
}

// Selected returns the index of the selected question.
func (l *QuestionList) Selected() int {
	return l.selected
}

// MoveUp moves selection up.
func (l *QuestionList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *QuestionList) MoveDown() {
	if l.selected < len(l.records)-1 {
		l.selected++
	}
}

// ToggleReveal shows or hides the selected answer.
func (l *QuestionList) ToggleReveal() {
	if len(l.records) == 0 {
		return
	}
	l.revealed[l.selected] = !l.revealed[l.selected]
}

// Revealed reports whether the answer at index is shown.
func (l *QuestionList) Revealed(index int) bool {
	return l.revealed[index]
}

// SetDimensions sets the area available to the list.
func (l *QuestionList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Prompt returns the question text of r, falling back to its first field.
func Prompt(r domain.Record) string {
	if v := firstOf(r, promptFields); v != "" {
		return v
	}
	if values := r.Values(); len(values) > 0 {
		return values[0]
	}
	return ""
}

// Answer returns the answer text of r, or "(no answer)".
func Answer(r domain.Record) string {
	if v := firstOf(r, answerFields); v != "" {
		return v
	}
	return "(no answer)"
}

func firstOf(r domain.Record, fields []string) string {
	for _, f := range fields {
		if v := r.Get(f); v != "" {
			return v
		}
	}
	return ""
}

func meta(r domain.Record) string {
	parts := make([]string, 0, 2)
	if gt := r.GameType(); gt != "" {
		parts = append(parts, gt)
	}
	if d := r.Difficulty(); d != "" {
		parts = append(parts, d)
	}
	return strings.Join(parts, " · ")
}

func truncate(s string, n int) string {
	if n < 10 {
		n = 10
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
