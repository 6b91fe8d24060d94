// Package chat provides the interactive terminal interface for shopscout.
// It is a thin rendering layer: all conversational state lives in the
// assistant.Controller, and the TUI re-reads it after every update.
package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"shopscout/cmd/scout/ui"
	"shopscout/internal/api"
	"shopscout/internal/assistant"
	"shopscout/internal/config"
)

// Suggestions shown on the empty timeline.
var suggestions = []string{
	"Find laptops under $1500",
	"Recommend espresso machine",
	"Find sunglasses under $100",
	"Find running shoes in white",
}

// Model is the bubbletea model for the chat interface.
type Model struct {
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	styles   ui.Styles
	renderer *glamour.TermRenderer

	ctrl   *assistant.Controller
	cfg    *config.Config
	logger *zap.Logger

	width   int
	height  int
	ready   bool
	loading bool
	errText string
	notice  string // transient status line text (command feedback)
}

// Messages for tea updates.
type (
	// turnDoneMsg signals that a SubmitTurn call settled.
	turnDoneMsg struct{ err error }

	// modelSwitchMsg signals that a SwitchModel call settled.
	modelSwitchMsg struct {
		model string
		err   error
	}

	// configReloadedMsg carries a hot-reloaded config from the watcher.
	configReloadedMsg struct{ cfg *config.Config }
)

// NewModel creates the chat model over an initialized controller.
func NewModel(ctrl *assistant.Controller, cfg *config.Config, logger *zap.Logger) Model {
	ta := textarea.New()
	ta.Placeholder = "Tell me what you want to buy..."
	ta.Prompt = "┃ "
	ta.CharLimit = 500
	ta.SetHeight(1)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()

	styles := ui.NewStyles(ui.ThemeFor(cfg.UI.Theme))

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Muted

	if logger == nil {
		logger = zap.NewNop()
	}

	return Model{
		textarea: ta,
		spinner:  sp,
		styles:   styles,
		ctrl:     ctrl,
		cfg:      cfg,
		logger:   logger,
	}
}

// Init starts the textarea blink.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// submitCmd runs one conversational turn off the event loop. The controller
// serializes its own state, so the spinner tick can re-render the timeline
// while the turn is still in flight.
func (m Model) submitCmd(text string) tea.Cmd {
	return func() tea.Msg {
		err := m.ctrl.SubmitTurn(context.Background(), text)
		return turnDoneMsg{err: err}
	}
}

// switchModelCmd changes the AI model, through the service when a session
// is active.
func (m Model) switchModelCmd(model string) tea.Cmd {
	return func() tea.Msg {
		err := m.ctrl.SwitchModel(context.Background(), model)
		return modelSwitchMsg{model: model, err: err}
	}
}

// nextModel cycles perplexity → openai → hybrid → perplexity.
func nextModel(current string) string {
	switch current {
	case api.ModelPerplexity:
		return api.ModelOpenAI
	case api.ModelOpenAI:
		return api.ModelHybrid
	default:
		return api.ModelPerplexity
	}
}
