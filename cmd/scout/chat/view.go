package chat

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"shopscout/internal/api"
	"shopscout/internal/assistant"
	"shopscout/internal/extract"
)

// =============================================================================
// VIEW RENDERING
// =============================================================================

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderTags(),
		m.styles.InputBorder.Width(m.width-2).Render(m.textarea.View()),
		m.renderStatus(),
	)
}

func (m Model) renderHeader() string {
	title := m.styles.AssistantLabel.MarginTop(0).Render("shopscout")
	model := m.styles.Muted.Render("model: " + api.ModelDisplayName(m.ctrl.ModelChoice()))
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(model)
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + model
}

func (m Model) renderTimeline() string {
	messages := m.ctrl.Messages()
	if len(messages) == 0 {
		return m.renderWelcome()
	}

	var sb strings.Builder
	for _, msg := range messages {
		switch msg.Kind {
		case assistant.KindUser:
			sb.WriteString(m.styles.UserLabel.Render("You") + "\n")
			sb.WriteString(m.styles.UserText.Render(msg.Text))
			sb.WriteString("\n")

		case assistant.KindLoading:
			sb.WriteString("\n" + m.spinner.View() + m.styles.Muted.Render(msg.Text) + "\n")

		case assistant.KindOverview:
			sb.WriteString(m.styles.AssistantLabel.Render("Scout") + "\n")
			sb.WriteString(m.renderOverview(msg.Text))
			sb.WriteString("\n")

		case assistant.KindClarification:
			sb.WriteString(m.renderClarification(msg.Questions))

		case assistant.KindProducts:
			sb.WriteString(m.renderProducts(msg.Products))

		default: // KindAssistant
			sb.WriteString(m.styles.AssistantLabel.Render("Scout") + "\n")
			sb.WriteString(m.renderMarkdown(msg.Text))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (m Model) renderWelcome() string {
	var sb strings.Builder
	sb.WriteString(m.styles.AssistantLabel.Render("Scout") + "\n")
	sb.WriteString(m.styles.UserText.Render("Hi! I can help you find the right product. Try one of these:"))
	sb.WriteString("\n\n")
	for _, s := range suggestions {
		sb.WriteString("  " + m.styles.Option.Render("• "+s) + "\n")
	}
	sb.WriteString("\n" + m.styles.Muted.Render("Type /help for commands.") + "\n")
	return sb.String()
}

// renderOverview shows only the overview text of a raw recommendation
// response, hiding the embedded JSON payload.
func (m Model) renderOverview(raw string) string {
	result, err := extract.Parse(raw)
	if err != nil {
		return m.styles.Muted.Render("Unable to parse overview data. Please try again.")
	}
	if result.Overview == "" {
		return m.styles.Muted.Render("No overview available for this recommendation.")
	}
	return m.renderMarkdown(result.Overview)
}

// renderClarification lists the pending questions with numbered options so
// they can be answered with /pick.
func (m Model) renderClarification(questions map[string]extract.Question) string {
	categories := make([]string, 0, len(questions))
	for category := range questions {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	answered := make(map[string]string)
	for _, p := range m.ctrl.DisplayedPreferences() {
		answered[p.Category] = p.Answer
	}

	var sb strings.Builder
	for _, category := range categories {
		q := questions[category]
		sb.WriteString("\n" + m.styles.ProductName.Render(category) + " " + m.styles.UserText.Render(q.Question) + "\n")
		for i, opt := range q.Options {
			line := fmt.Sprintf("  %d. %s", i+1, opt)
			if answered[category] == opt {
				sb.WriteString(m.styles.OptionSelected.Render(line+"  ✓") + "\n")
			} else {
				sb.WriteString(m.styles.Option.Render(line) + "\n")
			}
		}
		sb.WriteString(m.styles.Muted.Render(fmt.Sprintf("  /pick %s <number or your own answer>", strings.ToLower(category))) + "\n")
	}
	return sb.String()
}

func (m Model) renderProducts(bundle *assistant.ProductBundle) string {
	if bundle == nil {
		return ""
	}

	var sb strings.Builder
	for i, rec := range bundle.Recommendations {
		sb.WriteString("\n" + m.styles.ProductName.Render(fmt.Sprintf("%d. %s", i+1, rec.Name)))
		if rec.Price != "" {
			sb.WriteString("  " + m.styles.ProductPrice.Render(rec.Price))
		}
		sb.WriteString("\n")
		if rec.Description != "" {
			sb.WriteString(m.styles.UserText.Render(rec.Description) + "\n")
		}
		for _, f := range rec.Features {
			sb.WriteString(m.styles.Option.Render("  • "+f) + "\n")
		}

		if detail := bundle.DetailFor(i); detail != nil {
			sb.WriteString(m.renderDetail(detail))
		}
	}
	return sb.String()
}

// renderDetail shows the enrichment for one product: retail listings and a
// review summary. Buy links and reviews arrive untyped from the aggregator;
// absent fields are simply skipped.
func (m Model) renderDetail(detail *api.ProductDetail) string {
	var sb strings.Builder

	if len(detail.BuyLinks) > 0 {
		sb.WriteString(m.styles.Muted.Render("  Where to Buy:") + "\n")
		for _, link := range detail.BuyLinks {
			title := stringField(link, "title")
			price := stringField(link, "price")
			url := stringField(link, "link")
			line := "    " + title
			if price != "" {
				line += "  " + price
			}
			sb.WriteString(m.styles.Option.Render(line) + "\n")
			if url != "" {
				sb.WriteString(m.styles.Muted.Render("      "+url) + "\n")
			}
		}
	}

	if len(detail.Reviews) > 0 {
		summary := stringField(detail.Reviews[0], "summary")
		if summary == "" {
			summary = "No review summary available."
		}
		sb.WriteString(m.styles.Muted.Render("  Review Summary:") + "\n")
		sb.WriteString(m.styles.UserText.Render("    \""+summary+"\"") + "\n")
		for _, review := range detail.Reviews {
			if url := stringField(review, "link"); url != "" {
				sb.WriteString(m.styles.Muted.Render("      "+url) + "\n")
			}
		}
	}

	return sb.String()
}

// renderTags shows the pending preference tags that will ride along with the
// next submission.
func (m Model) renderTags() string {
	displayed := m.ctrl.DisplayedPreferences()
	if len(displayed) == 0 {
		return ""
	}

	tags := make([]string, 0, len(displayed))
	for _, p := range displayed {
		tags = append(tags, m.styles.Tag.Render(p.Category+": "+p.Answer))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, tags...)
}

func (m Model) renderStatus() string {
	if m.errText != "" {
		return m.styles.ErrorText.Render(m.errText)
	}
	if m.notice != "" {
		return m.styles.StatusBar.Render(m.notice)
	}
	if m.loading {
		return m.styles.StatusBar.Render("Working...")
	}
	return m.styles.StatusBar.Render("Enter send · /help commands · Ctrl+T model · Ctrl+N new · Ctrl+C quit")
}

// renderMarkdown renders assistant text through glamour, falling back to the
// raw text when the renderer is unavailable or panics on odd input.
func (m Model) renderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		if rendered, err := m.renderer.Render(content); err == nil {
			return strings.TrimRight(rendered, "\n") + "\n"
		}
	}
	return content
}

func stringField(obj map[string]any, key string) string {
	if s, ok := obj[key].(string); ok {
		return s
	}
	return ""
}
