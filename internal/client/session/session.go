// Package session keeps the signed-in state of the client: the token pair
// installed on the apiclient, its persisted copy and the current user.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/pulse/internal/client/api"
	"github.com/dmitrijs2005/pulse/internal/client/apiclient"
	"github.com/dmitrijs2005/pulse/internal/client/models"
	"github.com/dmitrijs2005/pulse/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// TokensKey is the store key of the persisted token pair.
const TokensKey = "auth_tokens"

// TokenStore persists string records. Get reports a missing key with ok=false.
type TokenStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Controller owns the session lifecycle on top of an apiclient.Client.
//
// Refreshed tokens are persisted and an invalidated session is wiped from
// the store as the client reports them.
type Controller struct {
	client *apiclient.Client
	auth   api.AuthAPI
	store  TokenStore
	log    logging.Logger
	now    func() time.Time

	mu   sync.RWMutex
	user *models.User

	unsubscribe func()
}

type Option func(*Controller)

func WithLogger(l logging.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func NewController(client *apiclient.Client, auth api.AuthAPI, store TokenStore, opts ...Option) *Controller {
	c := &Controller{
		client: client,
		auth:   auth,
		store:  store,
		log:    logging.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.unsubscribe = client.Subscribe(c.handleEvent)
	return c
}

// Close detaches the controller from the client's events.
func (c *Controller) Close() {
	c.unsubscribe()
}

func (c *Controller) handleEvent(ev apiclient.Event) {
	// Events carry no context; the store calls are short local writes.
	ctx := context.Background()

	switch ev.Kind {
	case apiclient.EventTokensRefreshed:
		if err := c.persist(ctx, ev.Tokens); err != nil {
			c.log.Error(ctx, "failed to persist refreshed tokens", "err", err)
		}
	case apiclient.EventSessionInvalidated:
		c.setUser(nil)
		if err := c.store.Remove(ctx, TokensKey); err != nil {
			c.log.Error(ctx, "failed to remove stored tokens", "err", err)
		}
		c.log.Info(ctx, "session invalidated", "reason", ev.Err)
	}
}

// Restore loads a persisted session and verifies it with /auth/me. It
// reports false without error when there is nothing usable to restore.
// Transport errors are returned with the stored tokens left in place.
func (c *Controller) Restore(ctx context.Context) (bool, error) {
	raw, ok, err := c.store.Get(ctx, TokensKey)
	if err != nil {
		return false, fmt.Errorf("failed to load session: %w", err)
	}
	if !ok {
		return false, nil
	}

	var pair models.TokenPair
	if err := json.Unmarshal([]byte(raw), &pair); err != nil || pair.AccessToken == "" {
		c.log.Warn(ctx, "discarding unreadable stored session", "err", err)
		return false, c.discard(ctx)
	}

	if c.expired(pair.RefreshToken) {
		c.log.Info(ctx, "stored session expired")
		return false, c.discard(ctx)
	}

	c.client.SetTokens(pair)

	user, err := c.auth.Me(ctx)
	if err != nil {
		if errors.Is(err, apiclient.ErrSessionExpired) || errors.Is(err, apiclient.ErrUnauthorized) {
			return false, c.discard(ctx)
		}
		return false, err
	}

	c.setUser(user)
	return true, nil
}

// expired reports whether token is a JWT whose exp has passed. Opaque
// tokens are never considered expired locally.
func (c *Controller) expired(token string) bool {
	if token == "" {
		return false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && !c.now().Before(claims.ExpiresAt.Time)
}

func (c *Controller) Login(ctx context.Context, creds models.LoginCredentials) (*models.User, error) {
	res, err := c.auth.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	return c.start(ctx, res)
}

func (c *Controller) Register(ctx context.Context, creds models.RegisterCredentials) (*models.User, error) {
	res, err := c.auth.Register(ctx, creds)
	if err != nil {
		return nil, err
	}
	return c.start(ctx, res)
}

func (c *Controller) start(ctx context.Context, res *models.AuthResponse) (*models.User, error) {
	c.client.SetTokens(res.Tokens)
	c.setUser(&res.User)

	if err := c.persist(ctx, res.Tokens); err != nil {
		return &res.User, err
	}
	return &res.User, nil
}

// Logout forgets the session locally; the backend has no logout endpoint.
func (c *Controller) Logout(ctx context.Context) error {
	c.client.ClearTokens()
	return c.discard(ctx)
}

func (c *Controller) discard(ctx context.Context) error {
	c.client.ClearTokens()
	c.setUser(nil)
	if err := c.store.Remove(ctx, TokensKey); err != nil {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

func (c *Controller) persist(ctx context.Context, pair models.TokenPair) error {
	data, err := json.Marshal(pair)
	if err != nil {
		return err
	}
	if err := c.store.Set(ctx, TokensKey, string(data)); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// User returns a copy of the signed-in user, or nil.
func (c *Controller) User() *models.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

func (c *Controller) LoggedIn() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user != nil
}

func (c *Controller) setUser(u *models.User) {
	c.mu.Lock()
	c.user = u
	c.mu.Unlock()
}
