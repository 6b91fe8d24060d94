package assistant

// State is the conversational state. Exactly three states exist:
//
//	StateInitial    — no session yet; the next turn starts a new conversation.
//	StateClarifying — a session exists and clarifying questions are pending.
//	StateClarified  — a session exists and at least one recommendation set
//	                  has been produced; the next turn is a follow-up.
//
// Transitions only happen inside the Controller: a chat response moves the
// conversation to Clarifying or Clarified, and Reset returns it to Initial.
type State int

const (
	StateInitial State = iota
	StateClarifying
	StateClarified
)

// String returns the state name used in logs.
func (s State) String() string {
	switch s {
	case StateInitial:
		return "initial"
	case StateClarifying:
		return "clarifying"
	case StateClarified:
		return "clarified"
	default:
		return "unknown"
	}
}
