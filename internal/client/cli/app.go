package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/pulse/internal/client/api"
	"github.com/dmitrijs2005/pulse/internal/client/apiclient"
	"github.com/dmitrijs2005/pulse/internal/client/config"
	"github.com/dmitrijs2005/pulse/internal/client/models"
	"github.com/dmitrijs2005/pulse/internal/client/session"
)

type App struct {
	config  *config.Config
	session *session.Controller
	auth    api.AuthAPI
	threads api.ThreadsAPI
	reader  *bufio.Reader
	out     io.Writer

	unsubscribe func()

	mu   sync.Mutex
	feed *models.PageMeta
}

// NewApp builds the REPL on top of an already configured client. Input is
// read from in and all command output goes to out.
func NewApp(c *config.Config, client *apiclient.Client, ctrl *session.Controller, in io.Reader, out io.Writer) *App {
	a := &App{
		config:  c,
		session: ctrl,
		auth:    api.NewAuthAPI(client),
		threads: api.NewThreadsAPI(client),
		reader:  bufio.NewReader(in),
		out:     out,
	}
	a.unsubscribe = client.Subscribe(a.onEvent)
	return a
}

func (a *App) onEvent(ev apiclient.Event) {
	if ev.Kind == apiclient.EventSessionInvalidated {
		a.setFeed(nil)
	}
}

// Run restores a stored session and serves the REPL until the user exits
// or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.unsubscribe()

	fmt.Fprintln(a.out, "Welcome to Pulse CLI (type 'help' for commands)")

	restored, err := a.session.Restore(ctx)
	switch {
	case err != nil:
		fmt.Fprintln(a.out, "Could not restore session:", err)
	case restored:
		fmt.Fprintf(a.out, "Welcome back, @%s\n", a.session.User().Username)
	}

	runREPL(ctx, a, a.status, bufio.NewScanner(lineSource{a.reader}))
}

func (a *App) status() string {
	if u := a.session.User(); u != nil {
		return "(@" + u.Username + ") "
	}
	return ""
}

func (a *App) isLoggedIn() bool {
	return a.session.LoggedIn()
}

func (a *App) report(err error) {
	for _, line := range describeError(err) {
		fmt.Fprintln(a.out, line)
	}
}

func (a *App) setFeed(m *models.PageMeta) {
	a.mu.Lock()
	a.feed = m
	a.mu.Unlock()
}

func (a *App) currentFeed() *models.PageMeta {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.feed
}

// lineSource hands the scanner one line per Read so prompts reading from
// the same bufio.Reader still see the rest of the input.
type lineSource struct {
	r *bufio.Reader
}

func (l lineSource) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		b, err := l.r.ReadByte()
		if err != nil {
			if n > 0 {
				return n, nil
			}
			return 0, err
		}
		p[n] = b
		n++
		if b == '\n' {
			break
		}
	}
	return n, nil
}
