package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmitrijs2005/pulse/internal/client/api"
	"github.com/dmitrijs2005/pulse/internal/client/apiclient"
	"github.com/dmitrijs2005/pulse/internal/client/config"
	"github.com/dmitrijs2005/pulse/internal/client/models"
	"github.com/dmitrijs2005/pulse/internal/client/session"
	"github.com/dmitrijs2005/pulse/internal/client/storage"
	"github.com/dmitrijs2005/pulse/internal/logging"
	"github.com/dmitrijs2005/pulse/internal/server"
	srvconfig "github.com/dmitrijs2005/pulse/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	server *server.App
	client *apiclient.Client
	ctrl   *session.Controller
	cfg    *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	scfg := &srvconfig.Config{}
	scfg.LoadDefaults()
	srvApp, err := server.NewApp(scfg, logging.Discard())
	require.NoError(t, err)
	srv := httptest.NewServer(srvApp.Handler())
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.BaseURL = srv.URL

	client := apiclient.New(cfg.ResolveBaseURL())
	ctrl := session.NewController(client, api.NewAuthAPI(client), storage.NewMemoryStore())
	t.Cleanup(ctrl.Close)

	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	origPassword := readPassword
	readPassword = func(int) ([]byte, error) { return []byte(server.DemoPassword), nil }
	t.Cleanup(func() {
		printlnFn = origPrint
		readPassword = origPassword
	})

	return &testEnv{server: srvApp, client: client, ctrl: ctrl, cfg: cfg}
}

func (e *testEnv) run(t *testing.T, script ...string) string {
	t.Helper()
	var out bytes.Buffer
	app := NewApp(e.cfg, e.client, e.ctrl, strings.NewReader(strings.Join(script, "\n")+"\n"), &out)
	app.Run(context.Background())
	return out.String()
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	_, err := e.ctrl.Login(context.Background(), models.LoginCredentials{
		Identifier: server.DemoUsername,
		Password:   server.DemoPassword,
	})
	require.NoError(t, err)
}

func TestApp_LoginFeedAndPaging(t *testing.T) {
	e := newTestEnv(t)

	out := e.run(t,
		"feed",
		"login",
		server.DemoUsername,
		"me",
		"feed",
		"more",
		"more",
		"more",
		"exit",
	)

	assert.Contains(t, out, "Please log in first")
	assert.Contains(t, out, "Logged in as @demo")
	assert.Contains(t, out, "@demo (Demo) <demo@example.com>")
	assert.Contains(t, out, "Page 1 of 3 (25 threads)")
	assert.Contains(t, out, "Page 2 of 3 (25 threads)")
	assert.Contains(t, out, "Page 3 of 3 (25 threads)")
	assert.Contains(t, out, "No more threads")
	assert.True(t, e.ctrl.LoggedIn())
}

func TestApp_LoginFailurePrintsServerMessage(t *testing.T) {
	e := newTestEnv(t)
	readPassword = func(int) ([]byte, error) { return []byte("wrong-password"), nil }

	out := e.run(t, "login", server.DemoUsername, "exit")

	assert.Contains(t, out, "Invalid credentials")
	assert.False(t, e.ctrl.LoggedIn())
}

func TestApp_RegisterValidationErrors(t *testing.T) {
	e := newTestEnv(t)

	out := e.run(t,
		"register",
		"demo",
		"not-an-email",
		"Someone",
		"",
		"exit",
	)

	assert.Contains(t, out, "email: Please provide a valid email")
	assert.False(t, e.ctrl.LoggedIn())
}

func TestApp_RegisterStartsSession(t *testing.T) {
	e := newTestEnv(t)

	out := e.run(t,
		"register",
		"newcomer",
		"newcomer@example.com",
		"New",
		"Comer",
		"me",
		"exit",
	)

	assert.Contains(t, out, "Welcome, @newcomer!")
	assert.Contains(t, out, "@newcomer (New Comer) <newcomer@example.com>")
}

func TestApp_RestoresSessionPostsAndSubscribes(t *testing.T) {
	e := newTestEnv(t)
	e.login(t)

	page, err := api.NewThreadsAPI(e.client).List(context.Background(), 1, 1)
	require.NoError(t, err)
	require.NotEmpty(t, page.Items)
	id := page.Items[0].ID

	out := e.run(t,
		"post",
		"Hello from the terminal",
		"first line",
		"second line",
		"",
		"sub "+id,
		"unsub "+id,
		"sub does-not-exist",
		"logout",
		"me",
		"exit",
	)

	assert.Contains(t, out, "Welcome back, @demo")
	assert.Contains(t, out, "Created thread ")
	assert.Contains(t, out, "Subscribed to "+id)
	assert.Contains(t, out, "Unsubscribed from "+id)
	assert.Contains(t, out, "Logged out")
	assert.Contains(t, out, "Please log in first")
	assert.False(t, e.ctrl.LoggedIn())

	page, err = api.NewThreadsAPI(e.client).List(context.Background(), 1, 1)
	require.Error(t, err)
	assert.Nil(t, page)
}

func TestApp_InvalidatedSessionReturnsToLoggedOut(t *testing.T) {
	e := newTestEnv(t)
	e.login(t)

	var out bytes.Buffer
	app := NewApp(e.cfg, e.client, e.ctrl, strings.NewReader("feed\n"), &out)
	require.NoError(t, app.Feed(context.Background(), 1))
	require.NotNil(t, app.currentFeed())

	// Force the next call through a failing refresh.
	require.NoError(t, e.server.RevokeSessions(context.Background()))
	e.client.SetAuthToken("stale")

	err := app.Feed(context.Background(), 2)
	require.ErrorIs(t, err, apiclient.ErrSessionExpired)
	app.report(err)

	assert.Contains(t, out.String(), "Session expired, please log in again")
	assert.Nil(t, app.currentFeed())
	assert.False(t, app.isLoggedIn())
	assert.Equal(t, "", app.status())
}
