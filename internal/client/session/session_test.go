package session

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/pulse/internal/client/api"
	"github.com/dmitrijs2005/pulse/internal/client/apiclient"
	"github.com/dmitrijs2005/pulse/internal/client/models"
	"github.com/dmitrijs2005/pulse/internal/client/storage"
	"github.com/dmitrijs2005/pulse/internal/logging"
	"github.com/dmitrijs2005/pulse/internal/server"
	"github.com/dmitrijs2005/pulse/internal/server/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	app    *server.App
	srv    *httptest.Server
	client *apiclient.Client
	store  *storage.MemoryStore
	ctrl   *Controller
}

func newEnv(t *testing.T) *env {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()

	app, err := server.NewApp(cfg, logging.Discard())
	require.NoError(t, err)
	srv := httptest.NewServer(app.Handler())
	t.Cleanup(srv.Close)

	e := &env{app: app, srv: srv, store: storage.NewMemoryStore()}
	e.client, e.ctrl = e.newController(t)
	return e
}

// newController builds a fresh client and controller over the same server and store.
func (e *env) newController(t *testing.T, opts ...Option) (*apiclient.Client, *Controller) {
	t.Helper()
	client := apiclient.New(e.srv.URL)
	ctrl := NewController(client, api.NewAuthAPI(client), e.store, opts...)
	t.Cleanup(ctrl.Close)
	return client, ctrl
}

func (e *env) stored(t *testing.T) (models.TokenPair, bool) {
	t.Helper()
	raw, ok, err := e.store.Get(context.Background(), TokensKey)
	require.NoError(t, err)
	if !ok {
		return models.TokenPair{}, false
	}
	var pair models.TokenPair
	require.NoError(t, json.Unmarshal([]byte(raw), &pair))
	return pair, true
}

func demoLogin(t *testing.T, e *env) *models.User {
	t.Helper()
	u, err := e.ctrl.Login(context.Background(), models.LoginCredentials{Identifier: server.DemoUsername, Password: server.DemoPassword})
	require.NoError(t, err)
	return u
}

func TestController_LoginPersistsSession(t *testing.T) {
	e := newEnv(t)
	assert.False(t, e.ctrl.LoggedIn())

	u := demoLogin(t, e)
	assert.Equal(t, server.DemoUsername, u.Username)
	assert.True(t, e.ctrl.LoggedIn())
	assert.Equal(t, server.DemoUsername, e.ctrl.User().Username)

	pair, ok := e.stored(t)
	require.True(t, ok)
	assert.Equal(t, e.client.Tokens(), pair)
	assert.False(t, pair.Empty())
}

func TestController_LoginFailureKeepsLoggedOut(t *testing.T) {
	e := newEnv(t)

	_, err := e.ctrl.Login(context.Background(), models.LoginCredentials{Identifier: server.DemoUsername, Password: "wrong"})
	require.ErrorIs(t, err, apiclient.ErrUnauthorized)
	assert.False(t, e.ctrl.LoggedIn())
	_, ok := e.stored(t)
	assert.False(t, ok)
	assert.Equal(t, int64(0), e.app.Stats().Refresh)
}

func TestController_RegisterValidationError(t *testing.T) {
	e := newEnv(t)

	_, err := e.ctrl.Register(context.Background(), models.RegisterCredentials{Username: "x", Email: "bad", Password: "1"})
	var vErr *apiclient.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "username")
	assert.False(t, e.ctrl.LoggedIn())

	u, err := e.ctrl.Register(context.Background(), models.RegisterCredentials{
		Username: "newbie", Email: "newbie@example.com", Password: "password1", FirstName: "New",
	})
	require.NoError(t, err)
	assert.Equal(t, "newbie", u.Username)
	assert.True(t, e.ctrl.LoggedIn())
}

func TestController_RestoreNothingStored(t *testing.T) {
	e := newEnv(t)

	ok, err := e.ctrl.Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestController_RestoreAfterRestart(t *testing.T) {
	e := newEnv(t)
	demoLogin(t, e)

	client, ctrl := e.newController(t)
	ok, err := ctrl.Restore(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, server.DemoUsername, ctrl.User().Username)
	assert.Equal(t, e.client.Tokens(), client.Tokens())
}

func TestController_RestoreDiscardsExpiredRefreshToken(t *testing.T) {
	e := newEnv(t)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	data, _ := json.Marshal(models.TokenPair{AccessToken: "a", RefreshToken: refresh})
	require.NoError(t, e.store.Set(context.Background(), TokensKey, string(data)))

	client, ctrl := e.newController(t, WithClock(func() time.Time { return now }))
	ok, err := ctrl.Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	_, stored := e.stored(t)
	assert.False(t, stored)
	assert.True(t, client.Tokens().Empty())
	assert.Equal(t, int64(0), e.app.Stats().Me, "no network call for a locally expired session")
}

func TestController_RestoreDiscardsUnreadableRecord(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.store.Set(context.Background(), TokensKey, "{not json"))

	ok, err := e.ctrl.Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	_, stored := e.stored(t)
	assert.False(t, stored)
}

func TestController_RestoreWithRevokedSession(t *testing.T) {
	e := newEnv(t)
	demoLogin(t, e)
	require.NoError(t, e.app.RevokeSessions(context.Background()))

	pair, _ := e.stored(t)
	pair.AccessToken = "stale"
	data, _ := json.Marshal(pair)
	require.NoError(t, e.store.Set(context.Background(), TokensKey, string(data)))

	_, ctrl := e.newController(t)
	ok, err := ctrl.Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	_, stored := e.stored(t)
	assert.False(t, stored)
}

func TestController_RestoreTransportErrorKeepsRecord(t *testing.T) {
	e := newEnv(t)
	demoLogin(t, e)
	e.srv.Close()

	_, ctrl := e.newController(t)
	ok, err := ctrl.Restore(context.Background())
	require.Error(t, err)
	assert.False(t, ok)
	_, stored := e.stored(t)
	assert.True(t, stored)
}

func TestController_PersistsRefreshedTokens(t *testing.T) {
	e := newEnv(t)
	demoLogin(t, e)
	before, _ := e.stored(t)

	e.client.SetAuthToken("stale")
	_, err := api.NewAuthAPI(e.client).Me(context.Background())
	require.NoError(t, err)

	after, ok := e.stored(t)
	require.True(t, ok)
	assert.Equal(t, e.client.Tokens(), after)
	assert.NotEqual(t, before.RefreshToken, after.RefreshToken, "server rotates refresh tokens")
	assert.Equal(t, int64(1), e.app.Stats().Refresh)
	assert.True(t, e.ctrl.LoggedIn())
}

func TestController_InvalidatedSessionIsWiped(t *testing.T) {
	e := newEnv(t)
	demoLogin(t, e)
	require.NoError(t, e.app.RevokeSessions(context.Background()))

	e.client.SetAuthToken("stale")
	_, err := api.NewThreadsAPI(e.client).List(context.Background(), 1, 10)
	require.ErrorIs(t, err, apiclient.ErrSessionExpired)

	assert.False(t, e.ctrl.LoggedIn())
	assert.Nil(t, e.ctrl.User())
	_, stored := e.stored(t)
	assert.False(t, stored)
	assert.True(t, e.client.Tokens().Empty())
}

func TestController_Logout(t *testing.T) {
	e := newEnv(t)
	demoLogin(t, e)

	require.NoError(t, e.ctrl.Logout(context.Background()))
	assert.False(t, e.ctrl.LoggedIn())
	assert.True(t, e.client.Tokens().Empty())
	_, stored := e.stored(t)
	assert.False(t, stored)
}

func TestController_CloseStopsListening(t *testing.T) {
	e := newEnv(t)
	demoLogin(t, e)
	before, _ := e.stored(t)
	e.ctrl.Close()

	e.client.SetAuthToken("stale")
	_, err := api.NewAuthAPI(e.client).Me(context.Background())
	require.NoError(t, err)

	after, _ := e.stored(t)
	assert.Equal(t, before, after)
}
