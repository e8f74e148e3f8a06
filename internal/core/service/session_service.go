package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/futuremakers/market-client/internal/core/domain"
	"github.com/futuremakers/market-client/internal/core/ports"
)

// storeTimeout bounds durable store writes made outside a caller's context.
const storeTimeout = 2 * time.Second

// SessionService owns the bearer credential and the identity derived from it.
//
//	Unknown → Checking → Authenticated(identity) | Anonymous
//	Authenticated → Anonymous (logout)
//
// It also implements ports.CredentialSource for the gateway.
type SessionService struct {
	gw       ports.AuthGateway
	store    ports.KVStore
	validate *validator.Validate
	log      zerolog.Logger

	mu         sync.RWMutex
	state      ports.SessionState
	identity   *domain.Identity
	credential string
	// epoch changes on every logout so a check that started earlier cannot
	// resurrect the session when it completes.
	epoch uint64

	subMu   sync.Mutex
	subs    map[int]func(ports.SessionSnapshot)
	nextSub int
}

var (
	_ ports.SessionService   = (*SessionService)(nil)
	_ ports.CredentialSource = (*SessionService)(nil)
)

func NewSessionService(gw ports.AuthGateway, store ports.KVStore, log zerolog.Logger) *SessionService {
	return &SessionService{
		gw:       gw,
		store:    store,
		validate: validator.New(),
		log:      log,
		state:    ports.SessionUnknown,
		subs:     make(map[int]func(ports.SessionSnapshot)),
	}
}

// Credential returns the bearer credential currently held, or "".
func (s *SessionService) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

// Restore re-derives the session from the stored credential. It never fails:
// any problem leaves the session Anonymous with the credential erased.
func (s *SessionService) Restore(ctx context.Context) ports.SessionSnapshot {
	tok, err := s.store.Get(ctx, ports.CredentialKey)
	switch {
	case errors.Is(err, domain.ErrKeyNotFound) || (err == nil && tok == ""):
		s.mu.Lock()
		s.credential = ""
		s.identity = nil
		s.mu.Unlock()
		return s.transition(ports.SessionAnonymous, nil)
	case err != nil:
		s.log.Warn().Err(err).Msg("credential unreadable, discarding")
		s.discard(ctx)
		return s.transition(ports.SessionAnonymous, nil)
	}
	return s.check(ctx, tok)
}

// check asks the remote service who tok belongs to and settles the state.
func (s *SessionService) check(ctx context.Context, tok string) ports.SessionSnapshot {
	s.mu.Lock()
	s.credential = tok
	epoch := s.epoch
	s.mu.Unlock()
	s.transition(ports.SessionChecking, nil)

	identity, err := s.gw.Me(ctx)
	if err != nil {
		s.mu.RLock()
		stale := s.epoch != epoch
		s.mu.RUnlock()
		if stale {
			// logged out while the check was running
			return s.Snapshot()
		}
		s.log.Info().Err(err).Msg("stored credential rejected")
		s.discard(ctx)
		return s.transition(ports.SessionAnonymous, nil)
	}
	snap, _ := s.transitionIfEpoch(epoch, ports.SessionAuthenticated, identity)
	return snap
}

// discard erases the credential from memory and from the store.
func (s *SessionService) discard(ctx context.Context) {
	s.mu.Lock()
	s.credential = ""
	s.identity = nil
	s.mu.Unlock()

	if err := s.store.Delete(ctx, ports.CredentialKey); err != nil {
		s.log.Warn().Err(err).Msg("failed to erase stored credential")
	}
}

// Login exchanges email and password for a credential, stores it and restores
// the session from it. It reports whether the session is now authenticated.
func (s *SessionService) Login(ctx context.Context, email, password string) bool {
	tok, err := s.gw.Login(ctx, email, password)
	if err != nil {
		s.log.Info().Err(err).Msg("login failed")
		return false
	}
	if err := s.store.Set(ctx, ports.CredentialKey, tok); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist credential")
	}
	return s.check(ctx, tok).IsAuthenticated()
}

// Register validates the profile locally, creates the account and, when the
// profile carries a password, signs in with it. Only local precondition failures
// are returned as errors.
func (s *SessionService) Register(ctx context.Context, p ports.RegisterProfile) (bool, error) {
	p.Email = strings.TrimSpace(p.Email)
	p.GuardianEmail = strings.TrimSpace(p.GuardianEmail)

	if err := s.validate.Struct(p); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return false, fmt.Errorf("%w: %s failed %q", domain.ErrInvalidProfile, strings.ToLower(ve[0].Field()), ve[0].Tag())
		}
		return false, fmt.Errorf("%w: %v", domain.ErrInvalidProfile, err)
	}
	if p.Role == domain.RoleMinorSeller && p.GuardianEmail == "" {
		return false, domain.ErrGuardianEmailRequired
	}

	_, err := s.gw.Signup(ctx, ports.SignupInput{
		Email:         p.Email,
		Password:      p.Password,
		DisplayName:   p.DisplayName,
		Role:          p.Role,
		GuardianEmail: p.GuardianEmail,
		Birthday:      p.Birthday,
	})
	if err != nil {
		s.log.Info().Err(err).Str("role", string(p.Role)).Msg("registration failed")
		return false, nil
	}
	if p.Email == "" || p.Password == "" {
		return true, nil
	}
	return s.Login(ctx, p.Email, p.Password), nil
}

// Logout drops the session immediately. It makes no network call.
func (s *SessionService) Logout() {
	s.mu.Lock()
	s.epoch++
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	s.discard(ctx)
	s.transition(ports.SessionAnonymous, nil)
}

// UpdateProfile sends the display name and optional new password. On success the
// identity is replaced with the server's response.
func (s *SessionService) UpdateProfile(ctx context.Context, upd ports.ProfileUpdate) bool {
	s.mu.RLock()
	authenticated := s.state == ports.SessionAuthenticated
	epoch := s.epoch
	s.mu.RUnlock()
	if !authenticated {
		return false
	}

	identity, err := s.gw.UpdateMe(ctx, ports.ProfileUpdate{DisplayName: upd.DisplayName, Password: upd.Password})
	if err != nil {
		s.log.Info().Err(err).Msg("profile update failed")
		return false
	}

	_, ok := s.transitionIfEpoch(epoch, ports.SessionAuthenticated, identity)
	return ok
}

func (s *SessionService) Snapshot() ports.SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *SessionService) snapshotLocked() ports.SessionSnapshot {
	snap := ports.SessionSnapshot{State: s.state}
	if s.identity != nil {
		id := *s.identity
		snap.Identity = &id
	}
	return snap
}

// Subscribe registers fn for every state change. fn runs synchronously on the
// goroutine that caused the change and must not call back into Subscribe.
func (s *SessionService) Subscribe(fn func(ports.SessionSnapshot)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *SessionService) transition(state ports.SessionState, identity *domain.Identity) ports.SessionSnapshot {
	s.mu.Lock()
	prev, snap := s.setStateLocked(state, identity)
	s.mu.Unlock()
	s.announce(prev, snap)
	return snap
}

// transitionIfEpoch is transition guarded by the logout epoch: nothing changes
// when a logout happened after epoch was read, or when it would authenticate
// without a credential. The check and the write share one critical section.
func (s *SessionService) transitionIfEpoch(epoch uint64, state ports.SessionState, identity *domain.Identity) (ports.SessionSnapshot, bool) {
	s.mu.Lock()
	if s.epoch != epoch || (state == ports.SessionAuthenticated && s.credential == "") {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, false
	}
	prev, snap := s.setStateLocked(state, identity)
	s.mu.Unlock()
	s.announce(prev, snap)
	return snap, true
}

func (s *SessionService) setStateLocked(state ports.SessionState, identity *domain.Identity) (ports.SessionState, ports.SessionSnapshot) {
	prev := s.state
	s.state = state
	if state == ports.SessionAuthenticated {
		s.identity = identity
	} else {
		s.identity = nil
	}
	return prev, s.snapshotLocked()
}

func (s *SessionService) announce(prev ports.SessionState, snap ports.SessionSnapshot) {
	state := snap.State
	evt := s.log.Debug()
	if prev != state {
		evt = s.log.Info()
	}
	evt.Str("from", string(prev)).
		Str("to", string(state)).
		Str("role", string(snap.Role())).
		Msg("session state")

	s.subMu.Lock()
	fns := make([]func(ports.SessionSnapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}
