package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/quizdeck/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/quizdeck/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/quizdeck/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/quizdeck/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/quizdeck/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/quizdeck/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quizdeck/internal/core/domain"
)

// Default retry throttle: one retry every two seconds, bursts of two.
const (
	DefaultRetryInterval = 2 * time.Second
	DefaultRetryBurst    = 2
)

// Option configures an App.
type Option func(*App)

// WithRetryLimiter replaces the token bucket that throttles the retry key.
func WithRetryLimiter(l *rate.Limiter) Option {
	return func(a *App) {
		if l != nil {
			a.limiter = l
		}
	}
}

// App is the deck TUI following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx bounds every load the app starts.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	questions *list.QuestionList
	filter    *input.CategoryInput
	statusBar *status.Bar
	spinner   spinner.Model

	// limiter throttles the retry key.
	limiter *rate.Limiter

	// states receives the latest data source state; older pending states are dropped.
	states      chan domain.LoadState
	unsubscribe func()

	settings domain.Settings
	category string
	state    domain.LoadState

	showHelp bool

	// err holds a settings error shown above the deck.
	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
// It subscribes to the data source; Close releases the subscription.
func NewApp(ports *Ports, opts ...Option) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Title

	a := &App{
		ports:     ports,
		ctx:       context.Background(),
		styles:    s,
		keymap:    km,
		questions: list.NewQuestionList(s),
		filter:    input.NewCategoryInput(s),
		statusBar: status.NewBar(s, km),
		spinner:   sp,
		limiter:   rate.NewLimiter(rate.Every(DefaultRetryInterval), DefaultRetryBurst),
		states:    make(chan domain.LoadState, 1),
		settings:  domain.DefaultSettings(),
		state:     ports.Questions.State(),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.unsubscribe = ports.Questions.Subscribe(a.publish)
	return a, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// publish hands a state to the UI loop, replacing any state not yet consumed.
// It runs on the data source goroutine and never blocks.
func (a *App) publish(state domain.LoadState) {
	for {
		select {
		case a.states <- state:
			return
		default:
		}
		select {
		case <-a.states:
		default:
		}
	}
}

// waitForState delivers the next published state as a message.
func (a *App) waitForState() tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		select {
		case state := <-a.states:
			return messages.StateChanged{State: state}
		case <-ctx.Done():
			return nil
		}
	}
}

// loadSettings reads the configured source.
func (a *App) loadSettings() tea.Cmd {
	return func() tea.Msg {
		settings, err := a.ports.Settings.Get()
		if err != nil {
			return messages.SettingsLoaded{Settings: domain.DefaultSettings(), Err: err}
		}
		return messages.SettingsLoaded{Settings: *settings}
	}
}

// reload switches the data source to the current inputs off the UI loop.
func (a *App) reload() tea.Cmd {
	ctx, source, category := a.ctx, a.settings.SourceURL, a.category
	return func() tea.Msg {
		a.ports.Questions.Reload(ctx, source, category)
		return nil
	}
}

// retry re-runs the load if the token bucket allows it.
func (a *App) retry() tea.Cmd {
	if !a.limiter.Allow() {
		r := a.limiter.Reserve()
		wait := r.Delay()
		r.Cancel()
		return func() tea.Msg { return messages.RetryThrottled{Wait: wait} }
	}

	ctx := a.ctx
	return func() tea.Msg {
		a.ports.Questions.Retry(ctx)
		return nil
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("quizdeck"),
		a.spinner.Tick,
		a.loadSettings(),
		a.waitForState(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if a.filter.Focused() {
			return a.updateFilter(msg)
		}
		return a.updateDeck(msg)

	case messages.SettingsLoaded:
		a.settings = msg.Settings
		a.category = msg.Settings.Category
		a.err = msg.Err
		return a, a.reload()

	case messages.CategoryChanged:
		a.category = msg.Category
		return a, a.reload()

	case messages.StateChanged:
		a.setState(msg.State)
		return a, a.waitForState()

	case messages.RetryThrottled:
		a.statusBar.SetMessage(fmt.Sprintf("retry available in %s", msg.Wait.Round(time.Second)))
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

// updateDeck handles keys while browsing the deck.
func (a *App) updateDeck(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keymap.Quit):
		a.Close()
		return a, tea.Quit

	case key.Matches(msg, a.keymap.Help):
		a.showHelp = !a.showHelp
		return a, nil

	case key.Matches(msg, a.keymap.Retry):
		a.statusBar.SetMessage("")
		return a, a.retry()

	case key.Matches(msg, a.keymap.Filter):
		a.statusBar.SetState(status.StateFiltering)
		return a, a.filter.Open(a.category)

	case key.Matches(msg, a.keymap.Cancel):
		a.showHelp = false
		return a, nil
	}

	var cmd tea.Cmd
	a.questions, cmd = a.questions.Update(msg)
	return a, cmd
}

// updateFilter handles keys while the category input is open.
func (a *App) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		category := a.filter.Value()
		a.filter.Close()
		a.syncStatus()
		return a, func() tea.Msg { return messages.CategoryChanged{Category: category} }

	case tea.KeyEsc:
		a.filter.Close()
		a.syncStatus()
		return a, nil

	case tea.KeyCtrlC:
		a.Close()
		return a, tea.Quit
	}

	var cmd tea.Cmd
	a.filter, cmd = a.filter.Update(msg)
	return a, cmd
}

// setState installs a data source state into the components.
func (a *App) setState(state domain.LoadState) {
	a.state = state
	a.questions.SetRecords(state.Records.FilterByDifficulty(a.settings.Difficulty))
	if !state.HasError() {
		a.statusBar.SetMessage("")
	}
	if !a.filter.Focused() {
		a.syncStatus()
	}
}

// syncStatus derives the status bar from the current state.
func (a *App) syncStatus() {
	switch {
	case a.state.IsLoading:
		a.statusBar.SetState(status.StateLoading)
	case a.state.HasError():
		a.statusBar.SetState(status.StateError)
	case a.state.Phase == domain.PhaseReady:
		a.statusBar.SetState(status.StateReady)
	default:
		a.statusBar.SetState(status.StateIdle)
	}
	a.statusBar.SetCount(len(a.questions.Records()))
	a.statusBar.SetCached(a.state.IsFromCache)
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	sections := []string{a.renderHeader()}
	if a.err != nil {
		sections = append(sections, a.styles.Warning.Render("Settings: "+a.err.Error()))
	}
	if a.filter.Focused() {
		sections = append(sections, a.filter.View())
	}
	if a.showHelp {
		sections = append(sections, a.renderHelp())
	} else {
		sections = append(sections, a.renderBody())
	}
	sections = append(sections, a.statusBar.View())

	return strings.Join(sections, "\n\n")
}

func (a *App) renderHeader() string {
	header := a.styles.Title.Render("quizdeck")
	if a.settings.SourceURL != "" {
		header += " " + a.styles.Muted.Render(a.settings.SourceURL)
	}
	if a.category != "" {
		header += " " + a.styles.Subtitle.Render("["+a.category+"]")
	}
	if a.state.IsFromCache && !a.state.HasError() {
		header += " " + a.styles.CachedBadge.Render("cached")
	}
	return header
}

func (a *App) renderBody() string {
	switch {
	case a.state.IsLoading:
		return a.spinner.View() + " " + a.styles.Muted.Render("Loading questions...")

	case a.state.HasError():
		category := domain.ClassifyFailure(a.state.Err)
		panel := strings.Join([]string{
			a.styles.Error.Render(category.Description()),
			a.styles.Normal.Render(category.Hint()),
			a.styles.Muted.Render(a.state.Err),
		}, "\n")
		return a.styles.ErrorPanel.Width(max(a.width-4, 20)).Render(panel)

	case a.state.Identifier == "" && a.state.Phase == domain.PhaseReady:
		return a.styles.Muted.Render("No source configured. Run: quizdeck config set source <url>")

	default:
		return a.questions.View()
	}
}

func (a *App) renderHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Subtitle.Render("Keys"))
	for _, group := range a.keymap.FullHelp() {
		b.WriteString("\n")
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(&b, "\n  %-8s %s", h.Key, h.Desc)
		}
	}
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	defer a.Close()
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Close stops observing the data source.
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
}

// State returns the last data source state the app displayed.
func (a *App) State() domain.LoadState {
	return a.state
}

// Category returns the active category filter.
func (a *App) Category() string {
	return a.category
}

// Questions returns the question list component.
func (a *App) Questions() *list.QuestionList {
	return a.questions
}

// Status returns the status bar component.
func (a *App) Status() *status.Bar {
	return a.statusBar
}

// Err returns the settings error, if any.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.statusBar.SetWidth(width)
	a.filter.SetWidth(width)
	// header, status bar and spacing
	a.questions.SetDimensions(width, max(height-8, 2))
}
