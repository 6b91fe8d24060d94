package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"shopscout/cmd/scout/ui"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit

		case tea.KeyCtrlN:
			// New conversation. In-flight work is cancelled and its result
			// discarded by the controller.
			m.ctrl.Reset()
			m.loading = false
			m.errText = ""
			m.notice = "Started a new conversation."
			m.syncViewport()
			return m, nil

		case tea.KeyCtrlT:
			if m.loading {
				return m, nil
			}
			return m, m.switchModelCmd(nextModel(m.ctrl.ModelChoice()))

		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}
			text := strings.TrimSpace(m.textarea.Value())

			if strings.HasPrefix(text, "/") {
				m.textarea.Reset()
				return m.handleCommand(text)
			}

			// Plain Enter with pending tags submits them without extra text.
			if text == "" && len(m.ctrl.DisplayedPreferences()) == 0 {
				return m, nil
			}

			m.textarea.Reset()
			m.loading = true
			m.errText = ""
			m.notice = ""
			m.syncViewport()
			return m, tea.Batch(m.submitCmd(text), m.spinner.Tick)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 1
		footerHeight := 5 // status line + tags + bordered input
		vpHeight := msg.Height - headerHeight - footerHeight
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(msg.Width - 4)

		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(msg.Width-4),
		)
		if err != nil {
			m.logger.Warn("markdown renderer init failed", zap.Error(err))
		} else {
			m.renderer = renderer
		}

		m.syncViewport()
		return m, nil

	case turnDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.errText = m.ctrl.LastError()
			if m.errText == "" {
				m.errText = "Error: " + msg.err.Error()
			}
		}
		m.syncViewport()
		return m, nil

	case modelSwitchMsg:
		if msg.err != nil {
			m.errText = m.ctrl.LastError()
		} else {
			m.notice = ""
		}
		m.syncViewport()
		return m, nil

	case configReloadedMsg:
		m.cfg = msg.cfg
		m.styles = ui.NewStyles(ui.ThemeFor(msg.cfg.UI.Theme))
		m.spinner.Style = m.styles.Muted
		// The service model choice only applies before a session exists;
		// mid-conversation switches go through /model.
		if m.ctrl.SessionID() == "" && !m.loading {
			m.syncViewport()
			return m, m.switchModelCmd(msg.cfg.Service.ModelChoice)
		}
		m.syncViewport()
		return m, nil

	case spinner.TickMsg:
		m.spinner, spCmd = m.spinner.Update(msg)
		if m.loading {
			// Re-render mid-turn: the controller appends timeline entries
			// (loading messages, the overview) while SubmitTurn is running.
			m.syncViewport()
			return m, spCmd
		}
		return m, nil
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd)
}

// syncViewport re-renders the timeline into the viewport and pins the bottom.
func (m *Model) syncViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTimeline())
	m.viewport.GotoBottom()
}
