package auth

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeInvalidPhaseTransition = "INVALID_SESSION_PHASE_TRANSITION"
)

// ErrInvalidPhaseTransition is returned when a requested phase change is not allowed.
var ErrInvalidPhaseTransition = goerrors.New("invalid session phase transition", goerrors.CategoryConflict).
	WithTextCode(textCodeInvalidPhaseTransition).
	WithCode(goerrors.CodeConflict)

// Phase is the session lifecycle phase. The initializer and the credential
// operations share one machine so they can never race on the session: a Login
// attempted while Initializing is rejected instead of overlapping writes.
type Phase string

const (
	// PhaseIdle means persisted storage has not been consulted yet
	PhaseIdle Phase = "idle"
	// PhaseInitializing means a persisted token is being verified remotely
	PhaseInitializing Phase = "initializing"
	// PhaseAuthenticating means a login round trip is in flight
	PhaseAuthenticating Phase = "authenticating"
	// PhaseReady means the session is resolved, authenticated or anonymous
	PhaseReady Phase = "ready"
)

// PhaseObserver is notified after every successful transition.
type PhaseObserver func(from, to Phase)

var allowedPhaseTransitions = map[Phase][]Phase{
	// Idle moves straight to Ready on the no-persisted-token fast path.
	PhaseIdle:           {PhaseInitializing, PhaseAuthenticating, PhaseReady},
	PhaseInitializing:   {PhaseReady},
	PhaseAuthenticating: {PhaseReady},
	PhaseReady:          {PhaseAuthenticating},
}

// phaseMachine centralizes the transition graph for the session lifecycle.
// It is not safe for concurrent use; the Manager serializes access.
type phaseMachine struct {
	current  Phase
	resolved bool
	observer PhaseObserver
}

func newPhaseMachine(observer PhaseObserver) *phaseMachine {
	return &phaseMachine{
		current:  PhaseIdle,
		observer: observer,
	}
}

func (m *phaseMachine) phase() Phase {
	return m.current
}

// loading reports whether the session has not reached Ready yet. It flips to
// false exactly once, on the first resolution, and stays false through later
// logins so an in-flight re-authentication does not re-suspend consumers.
func (m *phaseMachine) loading() bool {
	return !m.resolved
}

// transition moves the machine to target or fails with
// ErrInvalidPhaseTransition, leaving the current phase untouched.
func (m *phaseMachine) transition(target Phase) error {
	for _, allowed := range allowedPhaseTransitions[m.current] {
		if allowed == target {
			from := m.current
			m.current = target
			if target == PhaseReady {
				m.resolved = true
			}
			if m.observer != nil {
				m.observer(from, target)
			}
			return nil
		}
	}

	clone := ErrInvalidPhaseTransition.Clone()
	if clone == nil {
		return ErrInvalidPhaseTransition
	}
	return clone.WithMetadata(map[string]any{
		"from": string(m.current),
		"to":   string(target),
	})
}
