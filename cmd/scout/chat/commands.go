package chat

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"shopscout/internal/api"
	"shopscout/internal/extract"
)

// handleCommand dispatches a slash command typed into the input box.
func (m Model) handleCommand(input string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(input)
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	switch cmd {
	case "/help":
		m.notice = helpText
		m.errText = ""

	case "/new":
		m.ctrl.Reset()
		m.loading = false
		m.errText = ""
		m.notice = "Started a new conversation."
		m.syncViewport()

	case "/quit", "/exit":
		return m, tea.Quit

	case "/model":
		if len(args) != 1 {
			m.errText = "Usage: /model perplexity|openai|hybrid"
			return m, nil
		}
		model := strings.ToLower(args[0])
		switch model {
		case api.ModelPerplexity, api.ModelOpenAI, api.ModelHybrid:
			m.errText = ""
			m.notice = ""
			return m, m.switchModelCmd(model)
		default:
			m.errText = fmt.Sprintf("Unknown model %q. Choose perplexity, openai or hybrid.", args[0])
		}

	case "/pick":
		m.handlePick(args)
		m.syncViewport()

	case "/drop":
		if len(args) == 0 {
			m.errText = "Usage: /drop <category>"
			return m, nil
		}
		category := m.matchCategory(strings.Join(args, " "))
		m.ctrl.RemovePreference(category)
		m.errText = ""
		m.notice = fmt.Sprintf("Dropped %s.", category)
		m.syncViewport()

	default:
		m.errText = fmt.Sprintf("Unknown command %s. Type /help for commands.", cmd)
	}

	return m, nil
}

// handlePick records a clarification answer: "/pick <category> <n>" chooses
// a preset option by number, "/pick <category> <free text>" records the text
// as the answer.
func (m *Model) handlePick(args []string) {
	if len(args) < 2 {
		m.errText = "Usage: /pick <category> <option-number or answer text>"
		return
	}

	questions := m.ctrl.ClarifyingQuestions()
	if len(questions) == 0 {
		m.errText = "There are no clarifying questions to answer right now."
		return
	}

	category := m.matchCategory(args[0])
	q, ok := questions[category]
	if !ok {
		m.errText = fmt.Sprintf("No clarifying question for %q. Pending: %s.",
			args[0], strings.Join(categoryNames(questions), ", "))
		return
	}

	answer := strings.Join(args[1:], " ")
	if n, err := strconv.Atoi(answer); err == nil {
		if n < 1 || n > len(q.Options) {
			m.errText = fmt.Sprintf("%s has %d options; pick 1-%d.", category, len(q.Options), len(q.Options))
			return
		}
		answer = q.Options[n-1]
	}

	m.ctrl.AnswerClarification(category, answer)
	m.errText = ""
	m.notice = fmt.Sprintf("%s: %s. Press Enter to send your answers.", category, answer)
}

// matchCategory resolves user input to an existing category name
// case-insensitively, falling back to the input as typed.
func (m *Model) matchCategory(input string) string {
	for _, p := range m.ctrl.DisplayedPreferences() {
		if strings.EqualFold(p.Category, input) {
			return p.Category
		}
	}
	for _, p := range m.ctrl.PersistedPreferences() {
		if strings.EqualFold(p.Category, input) {
			return p.Category
		}
	}
	for category := range m.ctrl.ClarifyingQuestions() {
		if strings.EqualFold(category, input) {
			return category
		}
	}
	return input
}

func categoryNames(questions map[string]extract.Question) []string {
	names := make([]string, 0, len(questions))
	for category := range questions {
		names = append(names, category)
	}
	return names
}

const helpText = `Commands: /pick <category> <option-number or text>  answer a clarifying question
/drop <category>  remove a preference   /model perplexity|openai|hybrid  switch AI model
/new  start over (Ctrl+N)   /quit  exit (Ctrl+C)`
