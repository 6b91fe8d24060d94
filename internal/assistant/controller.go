// Package assistant owns the conversation: session identity, the three-state
// conversational state machine, both preference views, and the message
// timeline the rendering layer displays. The Controller decides per turn
// whether to start a conversation, answer pending clarification, or send a
// follow-up, and sequences the two-phase fetch (chat response, then polled
// product details).
package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"shopscout/internal/api"
	"shopscout/internal/extract"
)

// Canonical user-facing strings. The rendering layer shows these verbatim.
const (
	loadingInitialText  = "Analyzing your needs..."
	loadingFollowupText = "AI is thinking..."
	loadingDetailsText  = "Fetching recommendation details..."

	clarificationLeadIn = "To help you find the perfect product, I need to know more about your preferences:"
	productsLeadIn      = "Here are some products I have found for you:"
	detailFailureText   = "I had trouble retrieving detailed product information. Please try again or refine your search."
)

// Dispatcher issues one chat request to the recommendation service.
type Dispatcher interface {
	Chat(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error)
}

// DetailFetcher blocks until a session's product details are ready.
type DetailFetcher interface {
	Await(ctx context.Context, sessionID string) ([]api.ProductDetail, error)
}

// ModelSwitcher changes the AI model for an existing session.
type ModelSwitcher interface {
	SwitchModel(ctx context.Context, sessionID, model string) error
}

// Options configures a Controller.
type Options struct {
	// ModelChoice is the initial model; defaults to api.ModelPerplexity.
	ModelChoice string
	Logger      *zap.Logger
}

// Controller is the conversation orchestration state machine. One instance
// per conversation; Reset reuses the instance for a fresh one. All state is
// mutex-serialized so any host (single goroutine or not) sees consistent
// timeline updates.
type Controller struct {
	mu sync.Mutex

	dispatcher Dispatcher
	details    DetailFetcher
	switcher   ModelSwitcher
	logger     *zap.Logger

	sessionID string
	state     State
	questions map[string]extract.Question
	prefs     *PreferenceStore
	timeline  []Message
	model     string

	lastRecommendations []extract.Recommendation
	lastDetails         []api.ProductDetail

	loading bool
	lastErr string

	// generation invalidates in-flight work: Reset bumps it, and any turn
	// or model switch that started under an older generation discards its
	// eventual result instead of applying it to the fresh conversation.
	generation uint64
	cancelTurn context.CancelFunc
}

// New creates a Controller over the given collaborators.
func New(dispatcher Dispatcher, details DetailFetcher, switcher ModelSwitcher, opts Options) *Controller {
	model := opts.ModelChoice
	if model == "" {
		model = api.ModelPerplexity
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		dispatcher: dispatcher,
		details:    details,
		switcher:   switcher,
		logger:     logger,
		prefs:      NewPreferenceStore(),
		model:      model,
	}
}

// SubmitTurn processes one user turn. Empty input with no pending preference
// tags is a no-op. The call blocks through dispatch and, on the
// recommendation path, through detail polling; hosts run it off their event
// loop and re-render from the accessors when it returns.
//
// A dispatch failure is returned and surfaced through LastError; the
// conversation state is left untouched so the next submission retries from
// where it was. Parse or poll failures on the recommendation path are
// reported inside the timeline (apology message) and return nil.
func (c *Controller) SubmitTurn(ctx context.Context, rawText string) error {
	text := strings.TrimSpace(rawText)

	c.mu.Lock()
	if text == "" && c.prefs.Displayed().Len() == 0 {
		c.mu.Unlock()
		return nil
	}
	if c.loading {
		// A dispatch or poll is outstanding; hosts disable input while
		// loading, so this is purely defensive serialization.
		c.mu.Unlock()
		return nil
	}
	c.lastErr = ""

	// The user bubble shows the enhanced form whenever tags are pending,
	// regardless of which branch dispatches below.
	shown := text
	if c.prefs.Displayed().Len() > 0 {
		shown = joinNonEmpty(c.prefs.Persisted().Render(), text)
	}
	c.appendLocked(Message{Kind: KindUser, Text: shown, Time: time.Now()})

	var req api.ChatRequest
	var loadingText string
	switch c.state {
	case StateInitial:
		req = api.ChatRequest{
			Message:     text,
			IsFollowup:  false,
			ModelChoice: c.model,
		}
		loadingText = loadingInitialText

	case StateClarified:
		req = api.ChatRequest{
			Message:     text,
			Preferences: c.prefs.Persisted().Snapshot(),
			SessionID:   c.sessionID,
			IsFollowup:  true,
			ModelChoice: c.model,
		}
		loadingText = loadingFollowupText

	case StateClarifying:
		req = api.ChatRequest{
			Message:     joinNonEmpty(c.prefs.Persisted().Render(), text),
			Preferences: c.prefs.Persisted().Snapshot(),
			SessionID:   c.sessionID,
			IsFollowup:  false,
			ModelChoice: c.model,
		}
		loadingText = loadingInitialText
		// The tags are consumed by this submission; the answers stay in
		// the persisted view for every later request.
		c.prefs.ClearDisplayed()
	}

	gen := c.generation
	turnCtx, cancel := context.WithCancel(ctx)
	c.cancelTurn = cancel
	c.loading = true
	c.appendLocked(Message{Kind: KindLoading, Text: loadingText, Time: time.Now()})

	c.logger.Debug("submitting turn",
		zap.String("state", c.state.String()),
		zap.String("session_id", c.sessionID),
		zap.Bool("is_followup", req.IsFollowup))
	c.mu.Unlock()

	defer cancel()

	resp, err := c.dispatcher.Chat(turnCtx, req)

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return nil
	}
	c.dropLoadingLocked()

	if err != nil {
		c.lastErr = "Error: " + err.Error()
		c.loading = false
		c.mu.Unlock()
		return err
	}

	if resp.SessionID != "" {
		// First response assigns the session; later ones reaffirm it and
		// are accepted as authoritative either way.
		c.sessionID = resp.SessionID
	}

	if questions := extract.Clarification(resp.Response); questions != nil {
		c.state = StateClarifying
		c.questions = questions
		c.appendLocked(Message{Kind: KindAssistant, Text: clarificationLeadIn, Time: time.Now()})
		c.appendLocked(Message{Kind: KindClarification, Questions: questions, Time: time.Now()})
		c.loading = false
		c.mu.Unlock()
		return nil
	}

	c.state = StateClarified
	c.questions = nil
	c.appendLocked(Message{Kind: KindOverview, Text: resp.Response, Time: time.Now()})
	c.appendLocked(Message{Kind: KindLoading, Text: loadingDetailsText, Time: time.Now()})
	sessionID := c.sessionID
	c.mu.Unlock()

	// Second phase: parse the recommendation payload and wait for the
	// background enrichment to finish.
	var bundle *ProductBundle
	result, perr := extract.Parse(resp.Response)
	if perr == nil {
		details, derr := c.details.Await(turnCtx, sessionID)
		if derr == nil {
			bundle = &ProductBundle{Recommendations: result.Recommendations, Details: details}
		} else {
			c.logger.Warn("product detail fetch failed", zap.String("session_id", sessionID), zap.Error(derr))
		}
	} else {
		c.logger.Warn("recommendation payload did not parse", zap.String("session_id", sessionID), zap.Error(perr))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return nil
	}
	c.dropLoadingLocked()
	c.loading = false

	if bundle == nil {
		// Session and preferences survive; the conversation stays
		// clarified so the next turn retries as a follow-up.
		c.appendLocked(Message{Kind: KindAssistant, Text: detailFailureText, Time: time.Now()})
		return nil
	}

	c.appendLocked(Message{Kind: KindAssistant, Text: productsLeadIn, Time: time.Now()})
	c.appendLocked(Message{Kind: KindProducts, Products: bundle, Time: time.Now()})
	c.lastRecommendations = bundle.Recommendations
	c.lastDetails = bundle.Details
	return nil
}

// AnswerClarification records the chosen answer for a clarification
// category in both preference views.
func (c *Controller) AnswerClarification(category, answer string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prefs.Set(category, answer)
}

// RemovePreference deletes a category from both preference views.
func (c *Controller) RemovePreference(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prefs.Remove(category)
}

// SwitchModel changes the AI model. Before a session exists the choice is
// only recorded locally; with an active session the service is informed
// first, and a failed switch leaves the recorded model unchanged.
func (c *Controller) SwitchModel(ctx context.Context, model string) error {
	c.mu.Lock()
	if c.sessionID == "" {
		c.model = model
		c.mu.Unlock()
		return nil
	}
	gen := c.generation
	sessionID := c.sessionID
	c.mu.Unlock()

	if err := c.switcher.SwitchModel(ctx, sessionID, model); err != nil {
		c.mu.Lock()
		if gen == c.generation {
			c.lastErr = "Error: " + err.Error()
		}
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return nil
	}
	c.model = model
	c.appendLocked(Message{
		Kind: KindAssistant,
		Text: fmt.Sprintf("AI model switched to %s.", api.ModelDisplayName(model)),
		Time: time.Now(),
	})
	return nil
}

// Reset atomically discards the session, both preference views, pending
// clarification, the timeline, and any error; in-flight work is cancelled
// and its eventual result discarded. Safe to call in any state.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	if c.cancelTurn != nil {
		c.cancelTurn()
		c.cancelTurn = nil
	}

	c.sessionID = ""
	c.state = StateInitial
	c.questions = nil
	c.prefs.Reset()
	c.timeline = nil
	c.lastRecommendations = nil
	c.lastDetails = nil
	c.loading = false
	c.lastErr = ""

	c.logger.Debug("conversation reset")
}

// =============================================================================
// ACCESSORS (rendering layer)
// =============================================================================

// Messages returns a copy of the timeline.
func (c *Controller) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.timeline))
	copy(out, c.timeline)
	return out
}

// State returns the current conversational state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SessionID returns the active session identifier, "" before the first
// successful response.
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// ModelChoice returns the currently recorded model.
func (c *Controller) ModelChoice() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.model
}

// IsLoading reports whether a dispatch or detail fetch is outstanding.
func (c *Controller) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// LastError returns the user-visible process-level error string, "" when the
// last operation succeeded.
func (c *Controller) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// ClarifyingQuestions returns the pending question set, nil outside the
// clarifying state.
func (c *Controller) ClarifyingQuestions() map[string]extract.Question {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.questions == nil {
		return nil
	}
	out := make(map[string]extract.Question, len(c.questions))
	for category, q := range c.questions {
		out[category] = q
	}
	return out
}

// PersistedPreferences returns the accumulated preferences in insertion order.
func (c *Controller) PersistedPreferences() []Preference {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prefs.Persisted().Pairs()
}

// DisplayedPreferences returns the pending input tags in insertion order.
func (c *Controller) DisplayedPreferences() []Preference {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prefs.Displayed().Pairs()
}

// LatestResults returns the most recent recommendation and detail sequences.
func (c *Controller) LatestResults() ([]extract.Recommendation, []api.ProductDetail) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRecommendations, c.lastDetails
}

// =============================================================================
// TIMELINE HELPERS
// =============================================================================

func (c *Controller) appendLocked(msg Message) {
	c.timeline = append(c.timeline, msg)
}

// dropLoadingLocked removes every loading-tagged entry. Loading messages are
// the only timeline entries ever removed, and always by kind.
func (c *Controller) dropLoadingLocked() {
	kept := c.timeline[:0]
	for _, msg := range c.timeline {
		if msg.Kind != KindLoading {
			kept = append(kept, msg)
		}
	}
	c.timeline = kept
}

// joinNonEmpty comma-joins its non-empty parts.
func joinNonEmpty(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
