package auth

import (
	"context"
	"sync"
	"time"
)

// Manager owns the session singleton: one per application instance,
// constructed at bootstrap and threaded to consumers. It serializes the
// initializer and the credential operations through the phase machine so they
// never race on the session or the persisted token.
type Manager struct {
	api       APIClient
	store     TokenStore
	inspector TokenInspector
	logger    Logger
	sink      ActivitySink
	now       func() time.Time

	mu          sync.Mutex
	machine     *phaseMachine
	session     Session
	initialized bool
}

var _ SessionManager = (*Manager)(nil)

// NewManager returns a Manager with an empty, unresolved session.
func NewManager(api APIClient, store TokenStore) *Manager {
	m := &Manager{
		api:       api,
		store:     store,
		inspector: NewTokenInspector(),
		logger:    defLogger{},
		sink:      noopActivitySink{},
		now:       time.Now,
	}
	m.machine = newPhaseMachine(m.observePhase)
	return m
}

func (m *Manager) WithLogger(logger Logger) *Manager {
	m.logger = logger
	return m
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (m *Manager) WithActivitySink(sink ActivitySink) *Manager {
	m.sink = normalizeActivitySink(sink)
	return m
}

// WithTokenInspector overrides the local token expiry check. Pass nil to
// disable the fast path and always verify remotely.
func (m *Manager) WithTokenInspector(inspector TokenInspector) *Manager {
	m.inspector = inspector
	return m
}

// WithClock injects a custom clock (useful for tests).
func (m *Manager) WithClock(clock func() time.Time) *Manager {
	if clock != nil {
		m.now = clock
	}
	return m
}

func (m *Manager) observePhase(from, to Phase) {
	m.logger.Debug("session phase transition", "from", string(from), "to", string(to))
}

// Initialize hydrates the session from the persisted token. It runs exactly
// once per Manager; later calls are no-ops. Any verification failure —
// transport error, non-2xx status, malformed payload — resolves to an
// anonymous session and deletes the stale token; it is never surfaced to the
// user as an error.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	if m.initialized {
		m.mu.Unlock()
		return nil
	}
	m.initialized = true

	token, err := m.store.Load(ctx)
	if err != nil {
		m.logger.Warn("failed to read persisted token", "error", err)
		token = ""
	}

	if token == "" {
		err := m.machine.transition(PhaseReady)
		m.mu.Unlock()
		return err
	}

	if m.inspector != nil && m.inspector.Expired(token, m.now()) {
		m.logger.Info("persisted token already expired, skipping verification")
		m.clearPersistedToken(ctx)
		err := m.machine.transition(PhaseReady)
		m.mu.Unlock()
		m.emit(ctx, ActivityEventSessionRejected, "", map[string]any{
			"reason": "token expired",
		})
		return err
	}

	if err := m.machine.transition(PhaseInitializing); err != nil {
		m.mu.Unlock()
		return err
	}
	m.mu.Unlock()

	user, err := m.api.Me(ctx, token)

	m.mu.Lock()
	defer m.mu.Unlock()

	// A logout during verification already resolved the session; the stale
	// result must not resurrect it.
	if m.machine.phase() != PhaseInitializing {
		return nil
	}

	if err != nil {
		m.logger.Info("persisted token rejected", "error", err)
		m.clearPersistedToken(ctx)
		m.session = Session{}
		terr := m.machine.transition(PhaseReady)
		m.emit(ctx, ActivityEventSessionRejected, "", map[string]any{
			"error": err.Error(),
		})
		return terr
	}

	m.session = Session{User: user, Token: token}
	terr := m.machine.transition(PhaseReady)
	m.emit(ctx, ActivityEventSessionRestored, user.ID.String(), nil)
	return terr
}

// Login performs the credential round trip: exchange credentials for a
// token, persist it, then fetch the profile. All failures collapse into a
// Result; nothing propagates to the caller as an error.
func (m *Manager) Login(ctx context.Context, username, password string) Result {
	m.mu.Lock()
	if m.machine.phase() == PhaseInitializing {
		m.mu.Unlock()
		m.logger.Warn("login rejected while session is resolving", "username", username)
		return Result{Success: false, Message: MsgSessionResolving}
	}

	if err := m.machine.transition(PhaseAuthenticating); err != nil {
		m.mu.Unlock()
		m.logger.Error("login transition rejected", "error", err)
		return Result{Success: false, Message: MsgSessionResolving}
	}
	m.initialized = true
	m.mu.Unlock()

	token, err := m.api.Login(ctx, username, password)
	if err != nil {
		m.resolveAnonymous()
		m.emit(ctx, ActivityEventLoginFailure, "", map[string]any{
			"username": username,
			"error":    err.Error(),
		})
		return Result{Success: false, Message: ErrorMessage(err, MsgLoginFailed)}
	}

	if err := m.store.Save(ctx, token); err != nil {
		// The in-memory session still works for this run.
		m.logger.Warn("failed to persist token", "error", err)
	}

	user, err := m.api.Me(ctx, token)
	if err != nil {
		// The persisted token stays so a reload can retry the verification;
		// the in-memory session rolls back to keep user and token paired.
		m.resolveAnonymous()
		m.logger.Error("profile fetch after login failed", "error", err)
		m.emit(ctx, ActivityEventLoginFailure, "", map[string]any{
			"username": username,
			"error":    err.Error(),
		})
		return Result{Success: false, Message: MsgProfileFetch}
	}

	m.mu.Lock()
	m.session = Session{User: user, Token: token}
	if terr := m.machine.transition(PhaseReady); terr != nil {
		m.logger.Error("login completion transition rejected", "error", terr)
	}
	m.mu.Unlock()

	m.emit(ctx, ActivityEventLoginSuccess, user.ID.String(), map[string]any{
		"username": username,
	})

	return Result{Success: true}
}

// Register creates an account through the remote API. It never authenticates
// the user; the backend requires a separate email verification step.
func (m *Manager) Register(ctx context.Context, payload RegisterPayload) Result {
	if err := payload.Validate(); err != nil {
		return Result{Success: false, Message: err.Error()}
	}

	message, err := m.api.Register(ctx, payload)
	if err != nil {
		return Result{Success: false, Message: ErrorMessage(err, MsgRegisterFailed)}
	}

	if message == "" {
		message = MsgRegisterSuccess
	}

	m.emit(ctx, ActivityEventRegister, "", map[string]any{
		"username": payload.Username,
		"email":    payload.Email,
	})

	return Result{Success: true, Message: message}
}

// Logout clears the session and the persisted token. Synchronous, idempotent,
// no remote call.
func (m *Manager) Logout() {
	ctx := context.Background()

	m.mu.Lock()
	wasAuthenticated := m.session.IsAuthenticated()
	userID := ""
	if wasAuthenticated {
		userID = m.session.User.ID.String()
	}

	m.session = Session{}
	m.initialized = true
	if m.machine.phase() != PhaseReady {
		if err := m.machine.transition(PhaseReady); err != nil {
			m.logger.Error("logout transition rejected", "error", err)
		}
	}
	m.clearPersistedToken(ctx)
	m.mu.Unlock()

	if wasAuthenticated {
		m.emit(ctx, ActivityEventLogout, userID, nil)
	}
}

// Current returns a snapshot of the session.
func (m *Manager) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Loading reports whether the initial resolution has not finished yet. It
// flips to false exactly once per application load.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.machine.loading()
}

// Phase returns the current lifecycle phase.
func (m *Manager) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.machine.phase()
}

func (m *Manager) IsAuthenticated() bool {
	return m.Current().IsAuthenticated()
}

func (m *Manager) IsAdmin() bool {
	return m.Current().IsAdmin()
}

func (m *Manager) IsVerified() bool {
	return m.Current().IsVerified()
}

func (m *Manager) resolveAnonymous() {
	m.mu.Lock()
	m.session = Session{}
	if err := m.machine.transition(PhaseReady); err != nil {
		m.logger.Error("anonymous resolution transition rejected", "error", err)
	}
	m.mu.Unlock()
}

// clearPersistedToken requires m.mu to be held.
func (m *Manager) clearPersistedToken(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.logger.Warn("failed to clear persisted token", "error", err)
	}
}

func (m *Manager) emit(ctx context.Context, eventType ActivityEventType, userID string, metadata map[string]any) {
	sink := normalizeActivitySink(m.sink)
	event := ActivityEvent{
		EventType: eventType,
		UserID:    userID,
		Metadata:  metadata,
	}

	if event.Metadata == nil {
		event.Metadata = map[string]any{}
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = m.now()
	}

	if err := sink.Record(ctx, event); err != nil {
		m.logger.Warn("activity sink record error: %v", err)
	}
}
