package auth

// DecisionKind is the outcome of evaluating a guard against the session.
type DecisionKind int

const (
	// DecisionLoading means the session is unresolved; suspend rendering
	DecisionLoading DecisionKind = iota
	// DecisionFallback means the visitor is not signed in; render the
	// configured fallback, or the built-in sign-in prompt when none is set
	DecisionFallback
	// DecisionDenied means the user is signed in but lacks the admin role.
	// The denied view always wins over a configured fallback.
	DecisionDenied
	// DecisionAllow means the protected content renders
	DecisionAllow
)

func (d DecisionKind) String() string {
	switch d {
	case DecisionLoading:
		return "loading"
	case DecisionFallback:
		return "fallback"
	case DecisionDenied:
		return "denied"
	case DecisionAllow:
		return "allow"
	default:
		return "unknown"
	}
}

// Guard is the declarative content gate. It is a pure state-to-decision
// mapping: no side effects, no navigation.
type Guard struct {
	RequireAdmin bool
}

// Evaluate maps the current session and loading flag to a render decision.
func (g Guard) Evaluate(session Session, loading bool) DecisionKind {
	if loading {
		return DecisionLoading
	}

	if !session.IsAuthenticated() {
		return DecisionFallback
	}

	if g.RequireAdmin && !session.IsAdmin() {
		return DecisionDenied
	}

	return DecisionAllow
}
