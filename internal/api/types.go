package api

// =============================================================================
// RECOMMENDATION SERVICE WIRE TYPES
// =============================================================================

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message     string            `json:"message"`
	Preferences map[string]string `json:"preferences"`
	SessionID   string            `json:"session_id,omitempty"`
	IsFollowup  bool              `json:"is_followup"`
	ModelChoice string            `json:"model_choice"`
}

// ChatResponse is the service's reply to a chat request. Response is raw text
// with an embedded JSON object; the extract package takes it from here.
type ChatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

// ProductDetail is the asynchronously-fetched enrichment for one recommended
// product. The details list is index-aligned with the recommendation list and
// may be shorter; a missing tail entry means "no details for that product".
// Buy links and reviews are passed through untyped because the service
// aggregates them from several retailers and review sites with no fixed shape.
type ProductDetail struct {
	Name     string           `json:"name"`
	BuyLinks []map[string]any `json:"buy_links"`
	Reviews  []map[string]any `json:"reviews"`
}

// Detail fetch statuses reported by GET /api/product-details/{session_id}.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
)

// DetailsStatus is one observation of the enrichment endpoint.
type DetailsStatus struct {
	Status         string          `json:"status"`
	State          string          `json:"state"`
	Message        string          `json:"message"`
	ProductDetails []ProductDetail `json:"product_details"`
}

// switchModelRequest is the body of POST /api/switch-model/{session_id}.
type switchModelRequest struct {
	ModelChoice string `json:"model_choice"`
}

// Known model choices accepted by the service.
const (
	ModelPerplexity = "perplexity"
	ModelOpenAI     = "openai"
	ModelHybrid     = "hybrid"
)

// ModelDisplayName maps a model key to its user-facing name.
// Unknown keys are returned as-is.
func ModelDisplayName(model string) string {
	switch model {
	case ModelPerplexity:
		return "Perplexity"
	case ModelOpenAI:
		return "OpenAI GPT-4"
	case ModelHybrid:
		return "Hybrid (Perplexity + OpenAI)"
	default:
		return model
	}
}
