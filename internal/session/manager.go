// Package session decides whether the authenticated application state is
// active and keeps the current user in sync with the backend's view.
//
// The manager owns a small state machine: Unknown (before the startup check
// completes), Unauthenticated, Authenticating (transient, while a login or
// registration is submitted), and Authenticated. Only a confirmed 401 forces
// re-authentication; an unreachable backend falls back to the cached profile
// so transient connectivity loss does not lock the user out.
package session

import (
	"context"
	"encoding/json"
	"regexp"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"

	"github.com/teamboard/client/internal/api"
	"github.com/teamboard/client/internal/credstore"
	"github.com/teamboard/client/internal/logging"
	"github.com/teamboard/client/internal/models"
)

// State of the session machine.
type State int

const (
	StateUnknown State = iota
	StateUnauthenticated
	StateAuthenticating
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "invalid"
	}
}

// APIClient is the slice of the API client the session manager needs.
type APIClient interface {
	Login(ctx context.Context, username, password string) (*models.TokenResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.UserProfile, error)
	FetchUserInfo(ctx context.Context) (*models.UserProfile, error)
	SetToken(token string)
	Logout(ctx context.Context) error
}

// RegisterFields holds the registration form input, validated locally before
// any network call is made.
type RegisterFields struct {
	Username        string
	Password        string
	ConfirmPassword string
	QQ              string
}

const minPasswordLength = 6

var numericRe = regexp.MustCompile(`^[0-9]+$`)

// Manager orchestrates login, registration, logout and startup session
// restoration. State-transitioning operations are serialized by an in-flight
// flag, and concurrent duplicate submissions are coalesced, so a double-click
// on a submit button issues a single network request.
type Manager struct {
	client APIClient
	store  credstore.Repository
	log    logging.Logger

	mu          sync.Mutex
	state       State
	currentUser *models.UserProfile
	busy        bool
	initialized bool

	sf singleflight.Group

	hookMu      sync.Mutex
	nextHookID  int
	loginHooks  map[int]func(*models.UserProfile)
	logoutHooks map[int]func()
}

// NewManager constructs a Manager in the Unknown state.
func NewManager(client APIClient, store credstore.Repository, log logging.Logger) *Manager {
	return &Manager{
		client:      client,
		store:       store,
		log:         log,
		state:       StateUnknown,
		loginHooks:  make(map[int]func(*models.UserProfile)),
		logoutHooks: make(map[int]func()),
	}
}

// Initialize performs the startup check: restore the persisted token, ask the
// backend to validate it, and settle into Authenticated or Unauthenticated.
// It must be the first operation invoked and is a no-op on repeat calls.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	if m.initialized {
		m.mu.Unlock()
		return nil
	}
	m.initialized = true
	m.mu.Unlock()

	raw, err := m.store.Get(ctx, credstore.KeyAuthToken)
	if err != nil {
		// store trouble degrades to "ask the user to log in again"
		m.log.Warn(ctx, "failed to read persisted token", "error", err)
		raw = nil
	}
	if len(raw) == 0 {
		m.setState(StateUnauthenticated, nil)
		return nil
	}

	token := string(raw)
	if expired, at := tokenExpiry(token); expired {
		m.log.Warn(ctx, "persisted token is past its expiry", "expired_at", at)
	}
	m.client.SetToken(token)

	user, err := m.client.FetchUserInfo(ctx)
	switch {
	case err == nil && user != nil:
		m.setState(StateAuthenticated, user)
		m.log.Info(ctx, "session restored", "username", user.Username)

	case err == nil:
		m.log.Warn(ctx, "token validation returned an empty profile")
		m.clearSession(ctx)

	case api.IsUnauthorized(err):
		m.log.Warn(ctx, "persisted token rejected, re-authentication required")
		m.clearSession(ctx)

	default:
		// Ambiguous failure: not proof of invalid credentials. Trust the
		// cached profile when we have one.
		if cached := m.cachedProfile(ctx); cached != nil {
			m.log.Warn(ctx, "token validation unreachable, using cached profile", "error", err)
			m.setState(StateAuthenticated, cached)
		} else {
			m.log.Warn(ctx, "token validation unreachable and no cached profile", "error", err)
			m.setState(StateUnauthenticated, nil)
		}
	}
	return nil
}

// Login validates the credentials locally, then authenticates against the
// backend. Concurrent calls are coalesced into one request. On failure the
// underlying error is surfaced without transitioning state.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return &ValidationError{Reason: "all fields are required"}
	}

	_, err, _ := m.sf.Do("login", func() (any, error) {
		return nil, m.authenticate(ctx, username, password)
	})
	return err
}

// Register validates the form locally, creates the account, then immediately
// logs in with the same credentials (registration alone does not establish a
// session). Concurrent calls are coalesced.
func (m *Manager) Register(ctx context.Context, fields RegisterFields) error {
	if err := validateRegistration(fields); err != nil {
		return err
	}

	_, err, _ := m.sf.Do("register", func() (any, error) {
		prev, err := m.begin()
		if err != nil {
			return nil, err
		}

		req := models.RegisterRequest{Username: fields.Username, Password: fields.Password, QQ: fields.QQ}
		if _, err := m.client.Register(ctx, req); err != nil {
			m.rollback(prev)
			m.log.Warn(ctx, "registration rejected", "username", fields.Username, "error", err)
			return nil, err
		}

		if _, err := m.client.Login(ctx, fields.Username, fields.Password); err != nil {
			m.rollback(prev)
			m.log.Warn(ctx, "login after registration failed", "username", fields.Username, "error", err)
			return nil, err
		}

		m.complete(ctx)
		return nil, nil
	})
	return err
}

func (m *Manager) authenticate(ctx context.Context, username, password string) error {
	prev, err := m.begin()
	if err != nil {
		return err
	}

	if _, err := m.client.Login(ctx, username, password); err != nil {
		m.rollback(prev)
		m.log.Warn(ctx, "login rejected", "username", username, "error", err)
		return err
	}

	m.complete(ctx)
	return nil
}

// Logout clears all local session state. It has no server-side effect and
// always succeeds locally; a second consecutive call is a no-op.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	if m.busy {
		m.mu.Unlock()
		return ErrBusy
	}
	if m.state != StateAuthenticated {
		m.mu.Unlock()
		return nil
	}
	m.busy = true
	m.mu.Unlock()

	if err := m.client.Logout(ctx); err != nil {
		m.log.Warn(ctx, "failed to clear stored credentials", "error", err)
	}

	m.mu.Lock()
	m.state = StateUnauthenticated
	m.currentUser = nil
	m.busy = false
	m.mu.Unlock()

	m.fireLogout()
	m.log.Info(ctx, "logged out")
	return nil
}

// IsUserAuthenticated reports whether the session is active (including the
// degraded, cached-profile case).
func (m *Manager) IsUserAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == StateAuthenticated
}

// CurrentUser returns the profile of the authenticated user, or nil.
func (m *Manager) CurrentUser() *models.UserProfile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentUser
}

// State returns the current session state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// OnLogin registers a callback invoked after a successful login or
// registration transition. The returned function unsubscribes it.
func (m *Manager) OnLogin(fn func(*models.UserProfile)) (unsubscribe func()) {
	m.hookMu.Lock()
	defer m.hookMu.Unlock()
	id := m.nextHookID
	m.nextHookID++
	m.loginHooks[id] = fn
	return func() {
		m.hookMu.Lock()
		defer m.hookMu.Unlock()
		delete(m.loginHooks, id)
	}
}

// OnLogout registers a callback invoked after Logout completes. The returned
// function unsubscribes it.
func (m *Manager) OnLogout(fn func()) (unsubscribe func()) {
	m.hookMu.Lock()
	defer m.hookMu.Unlock()
	id := m.nextHookID
	m.nextHookID++
	m.logoutHooks[id] = fn
	return func() {
		m.hookMu.Lock()
		defer m.hookMu.Unlock()
		delete(m.logoutHooks, id)
	}
}

// snapshot captures the session state an auth operation started from, so a
// failure can revert without leaving a partial session behind.
type snapshot struct {
	state State
	user  *models.UserProfile
}

// begin marks an auth operation in flight and enters Authenticating.
func (m *Manager) begin() (snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.busy {
		return snapshot{}, ErrBusy
	}
	m.busy = true
	prev := snapshot{state: m.state, user: m.currentUser}
	m.state = StateAuthenticating
	return prev, nil
}

// rollback reverts a failed auth operation to where it started.
func (m *Manager) rollback(prev snapshot) {
	m.mu.Lock()
	m.state = prev.state
	m.currentUser = prev.user
	m.busy = false
	m.mu.Unlock()
}

// complete settles a successful auth operation. The profile was cached by the
// API client as a login side effect; reading it back avoids a second fetch.
func (m *Manager) complete(ctx context.Context) {
	user := m.cachedProfile(ctx)

	m.mu.Lock()
	m.state = StateAuthenticated
	m.currentUser = user
	m.busy = false
	m.mu.Unlock()

	m.fireLogin(user)
	if user != nil {
		m.log.Info(ctx, "authenticated", "username", user.Username)
	}
}

func (m *Manager) setState(s State, user *models.UserProfile) {
	m.mu.Lock()
	m.state = s
	m.currentUser = user
	m.mu.Unlock()
}

// clearSession handles a confirmed-invalid token: wipe stored credentials and
// fall back to the auth screen.
func (m *Manager) clearSession(ctx context.Context) {
	if err := m.client.Logout(ctx); err != nil {
		m.log.Warn(ctx, "failed to clear stored credentials", "error", err)
	}
	m.setState(StateUnauthenticated, nil)
}

func (m *Manager) cachedProfile(ctx context.Context) *models.UserProfile {
	raw, err := m.store.Get(ctx, credstore.KeyUserInfo)
	if err != nil {
		m.log.Warn(ctx, "failed to read cached profile", "error", err)
		return nil
	}
	if len(raw) == 0 {
		return nil
	}
	var user models.UserProfile
	if err := json.Unmarshal(raw, &user); err != nil {
		m.log.Warn(ctx, "cached profile is corrupt", "error", err)
		return nil
	}
	return &user
}

func (m *Manager) fireLogin(user *models.UserProfile) {
	m.hookMu.Lock()
	hooks := make([]func(*models.UserProfile), 0, len(m.loginHooks))
	for _, fn := range m.loginHooks {
		hooks = append(hooks, fn)
	}
	m.hookMu.Unlock()
	for _, fn := range hooks {
		fn(user)
	}
}

func (m *Manager) fireLogout() {
	m.hookMu.Lock()
	hooks := make([]func(), 0, len(m.logoutHooks))
	for _, fn := range m.logoutHooks {
		hooks = append(hooks, fn)
	}
	m.hookMu.Unlock()
	for _, fn := range hooks {
		fn()
	}
}

func validateRegistration(f RegisterFields) error {
	if f.Username == "" || f.Password == "" || f.ConfirmPassword == "" || f.QQ == "" {
		return &ValidationError{Reason: "all fields are required"}
	}
	if f.Password != f.ConfirmPassword {
		return &ValidationError{Field: "confirm_password", Reason: "passwords do not match"}
	}
	if len(f.Password) < minPasswordLength {
		return &ValidationError{Field: "password", Reason: "password must be at least 6 characters"}
	}
	if !numericRe.MatchString(f.QQ) {
		return &ValidationError{Field: "qq", Reason: "qq must be numeric"}
	}
	return nil
}

// tokenExpiry peeks at the bearer token's exp claim without verifying the
// signature. It is used only to log a heads-up at startup; the server's 401
// remains the sole authority on token validity.
func tokenExpiry(token string) (expired bool, at time.Time) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false, time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false, time.Time{}
	}
	return exp.Before(time.Now()), exp.Time
}
