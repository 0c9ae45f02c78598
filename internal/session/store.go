// Package session keeps per-browser authentication state (token, identity and
// the forced password change flag) in an injectable key-value store.
//
// A Scope binds the store to one browser session id and is passed explicitly
// to every operation that issues backend requests on the browser's behalf.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domainauth "github.com/esm-labs/paddock/internal/domain/auth"
	"github.com/esm-labs/paddock/internal/ports"
)

const (
	keyToken      = "token"
	keyUser       = "user"
	keyMustChange = "must_change_password"

	flagTrue = "true"

	// DefaultTTL applies when the token carries no readable expiry.
	DefaultTTL = 8 * time.Hour

	// ExpiredTokenTTL keeps an already expired token just long enough for the
	// next backend call to fail with 401 and clear the session.
	ExpiredTokenTTL = time.Minute
)

// ErrNoToken is returned when a write needs an existing token and none is stored.
var ErrNoToken = errors.New("session has no token")

// StoreOptions groups dependencies for NewStore.
type StoreOptions struct {
	KV         ports.KeyValueStore
	DefaultTTL time.Duration
	Logger     *slog.Logger
	Now        func() time.Time
}

// Store hands out Scopes over a shared key-value store.
type Store struct {
	kv         ports.KeyValueStore
	defaultTTL time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// NewStore creates a session Store.
func NewStore(opts StoreOptions) *Store {
	ttl := opts.DefaultTTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		kv:         opts.KV,
		defaultTTL: ttl,
		logger:     opts.Logger,
		now:        now,
	}
}

func (s *Store) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

// NewSessionID returns a fresh opaque browser session id.
func NewSessionID() string {
	return uuid.NewString()
}

// Scope returns the session context bound to sid.
func (s *Store) Scope(sid string) *Scope {
	return &Scope{store: s, sid: sid}
}

// probeKey never matches a session key, since those all start with a uuid.
const probeKey = "healthz:probe"

// Ping reports whether the backing store answers reads. A missing key counts
// as a healthy answer.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.kv.Get(ctx, probeKey); err != nil && !errors.Is(err, ports.ErrKeyNotFound) {
		return fmt.Errorf("session store: %w", err)
	}
	return nil
}

// ttlFor derives key lifetime from the token's exp claim when the token is a
// JWT. The signature is not checked; the token stays opaque everywhere else.
func (s *Store) ttlFor(token string) time.Duration {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return s.defaultTTL
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return s.defaultTTL
	}
	ttl := exp.Sub(s.now())
	if ttl <= 0 {
		return ExpiredTokenTTL
	}
	return ttl
}

// Scope is the session context for one browser. It is cheap to create and
// holds no state of its own; every read goes to the store.
type Scope struct {
	store *Store
	sid   string
}

var _ ports.TokenSource = (*Scope)(nil)

// ID returns the browser session id this scope is bound to.
func (sc *Scope) ID() string { return sc.sid }

func (sc *Scope) key(name string) string { return sc.sid + ":" + name }

func (sc *Scope) keys() []string {
	return []string{sc.key(keyToken), sc.key(keyUser), sc.key(keyMustChange)}
}

// Token returns the stored bearer token, or "" when none is held.
func (sc *Scope) Token(ctx context.Context) (string, error) {
	if sc == nil || sc.sid == "" {
		return "", nil
	}
	tok, err := sc.store.kv.Get(ctx, sc.key(keyToken))
	if errors.Is(err, ports.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get token: %w", err)
	}
	return tok, nil
}

// Get reads the whole session. Identity and the flag are only reported while a token is held.
func (sc *Scope) Get(ctx context.Context) (domainauth.Session, error) {
	tok, err := sc.Token(ctx)
	if err != nil || tok == "" {
		return domainauth.Session{}, err
	}
	sess := domainauth.Session{Token: tok}

	raw, err := sc.store.kv.Get(ctx, sc.key(keyUser))
	switch {
	case errors.Is(err, ports.ErrKeyNotFound):
	case err != nil:
		return domainauth.Session{}, fmt.Errorf("get identity: %w", err)
	default:
		var id domainauth.Identity
		if uerr := json.Unmarshal([]byte(raw), &id); uerr != nil {
			sc.store.log().Warn("discarding unreadable session identity", "error", uerr)
		} else {
			sess.Identity = &id
		}
	}

	flag, err := sc.store.kv.Get(ctx, sc.key(keyMustChange))
	switch {
	case errors.Is(err, ports.ErrKeyNotFound):
	case err != nil:
		return domainauth.Session{}, fmt.Errorf("get must_change_password: %w", err)
	default:
		sess.MustChangePassword = flag == flagTrue
	}
	return sess, nil
}

// Set replaces the whole session. A nil identity or false flag removes the stored value.
func (sc *Scope) Set(ctx context.Context, token string, identity *domainauth.Identity, mustChange bool) error {
	if token == "" {
		return ErrNoToken
	}
	if err := sc.SetToken(ctx, token); err != nil {
		return err
	}
	ttl := sc.store.ttlFor(token)
	if identity != nil {
		if err := sc.writeIdentity(ctx, *identity, ttl); err != nil {
			return err
		}
	} else if err := sc.store.kv.Delete(ctx, sc.key(keyUser)); err != nil {
		return fmt.Errorf("clear identity: %w", err)
	}
	if mustChange {
		return sc.writeFlag(ctx, ttl)
	}
	return sc.ClearMustChangePassword(ctx)
}

// SetToken stores the bearer token.
func (sc *Scope) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return ErrNoToken
	}
	if err := sc.store.kv.Set(ctx, sc.key(keyToken), token, sc.store.ttlFor(token)); err != nil {
		return fmt.Errorf("set token: %w", err)
	}
	return nil
}

// SetIdentity replaces the stored identity wholesale. A token must already be stored.
func (sc *Scope) SetIdentity(ctx context.Context, identity domainauth.Identity) error {
	tok, err := sc.requireToken(ctx)
	if err != nil {
		return err
	}
	return sc.writeIdentity(ctx, identity, sc.store.ttlFor(tok))
}

// SetMustChangePassword raises the forced password change flag. A token must already be stored.
func (sc *Scope) SetMustChangePassword(ctx context.Context) error {
	tok, err := sc.requireToken(ctx)
	if err != nil {
		return err
	}
	return sc.writeFlag(ctx, sc.store.ttlFor(tok))
}

// ClearMustChangePassword drops the forced password change flag.
func (sc *Scope) ClearMustChangePassword(ctx context.Context) error {
	if err := sc.store.kv.Delete(ctx, sc.key(keyMustChange)); err != nil {
		return fmt.Errorf("clear must_change_password: %w", err)
	}
	return nil
}

// ClearAll deletes token, identity and flag in one call.
func (sc *Scope) ClearAll(ctx context.Context) error {
	if sc == nil || sc.sid == "" {
		return nil
	}
	if err := sc.store.kv.Delete(ctx, sc.keys()...); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (sc *Scope) requireToken(ctx context.Context) (string, error) {
	tok, err := sc.Token(ctx)
	if err != nil {
		return "", err
	}
	if tok == "" {
		return "", ErrNoToken
	}
	return tok, nil
}

func (sc *Scope) writeIdentity(ctx context.Context, identity domainauth.Identity, ttl time.Duration) error {
	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}
	if err := sc.store.kv.Set(ctx, sc.key(keyUser), string(data), ttl); err != nil {
		return fmt.Errorf("set identity: %w", err)
	}
	return nil
}

func (sc *Scope) writeFlag(ctx context.Context, ttl time.Duration) error {
	if err := sc.store.kv.Set(ctx, sc.key(keyMustChange), flagTrue, ttl); err != nil {
		return fmt.Errorf("set must_change_password: %w", err)
	}
	return nil
}
