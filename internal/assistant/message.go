package assistant

import (
	"time"

	"shopscout/internal/api"
	"shopscout/internal/extract"
)

// MessageKind tags a timeline entry with the payload it carries.
type MessageKind int

const (
	KindUser          MessageKind = iota // text the user submitted (enhanced form when tags were attached)
	KindAssistant                        // plain assistant text
	KindLoading                          // transient progress entry, removed when the operation settles
	KindOverview                         // raw chat response carrying the recommendation overview
	KindClarification                    // clarifying question set
	KindProducts                         // recommendation + detail bundle
)

// String returns the kind name used in logs.
func (k MessageKind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindAssistant:
		return "assistant"
	case KindLoading:
		return "loading"
	case KindOverview:
		return "overview"
	case KindClarification:
		return "clarification"
	case KindProducts:
		return "products"
	default:
		return "unknown"
	}
}

// ProductBundle pairs a recommendation sequence with its index-aligned
// enrichment details. Details may be shorter than the recommendations.
type ProductBundle struct {
	Recommendations []extract.Recommendation
	Details         []api.ProductDetail
}

// DetailFor returns the enrichment for recommendation i, or nil when the
// details sequence has no entry at that index.
func (b *ProductBundle) DetailFor(i int) *api.ProductDetail {
	if b == nil || i < 0 || i >= len(b.Details) {
		return nil
	}
	return &b.Details[i]
}

// Message is one entry in the conversation timeline. Messages are immutable
// once appended; the only removal is the bulk drop of loading entries when a
// dispatch or detail fetch settles.
type Message struct {
	Kind      MessageKind
	Text      string
	Questions map[string]extract.Question // KindClarification only
	Products  *ProductBundle              // KindProducts only
	Time      time.Time
}
