package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/pulse/internal/client/models"
	"github.com/dmitrijs2005/pulse/internal/logging"
	"github.com/google/uuid"
)

const (
	RefreshPath  = "/auth/refresh"
	LoginPath    = "/auth/login"
	RegisterPath = "/auth/register"

	RequestIDHeaderName = "X-Request-Id"

	DefaultTimeout        = 15 * time.Second
	DefaultRefreshTimeout = 10 * time.Second
)

// exemptPaths never enter refresh recovery; a 401 from them is final.
var exemptPaths = map[string]struct{}{
	RefreshPath:  {},
	LoginPath:    {},
	RegisterPath: {},
}

// Client is a JSON-over-HTTP client that attaches a bearer token and
// transparently recovers from an expired access token.
//
// refreshing, pending and the token pair are guarded together by mu.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	log            logging.Logger
	timeout        time.Duration
	refreshTimeout time.Duration
	events         eventBus

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	refreshing   bool
	pending      []*pendingRequest
}

type request struct {
	method    string
	path      string
	body      []byte
	header    http.Header
	requestID string
}

type response struct {
	statusCode int
	body       []byte
}

// pendingRequest is a caller parked behind an in-flight refresh.
type pendingRequest struct {
	req   *request
	ready chan grant
}

// grant releases a parked caller: replay with token, or fail with err.
type grant struct {
	token string
	err   error
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithTimeout bounds every single HTTP exchange.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRefreshTimeout bounds the /auth/refresh call independently of the
// context of the request that triggered it.
func WithRefreshTimeout(d time.Duration) Option {
	return func(c *Client) { c.refreshTimeout = d }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		httpClient:     &http.Client{Timeout: DefaultTimeout},
		log:            logging.Discard(),
		refreshTimeout: DefaultRefreshTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// SetAuthToken replaces the access token; "" removes it.
func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	c.accessToken = token
	c.mu.Unlock()
}

// SetRefreshToken replaces the refresh token; "" disables recovery.
func (c *Client) SetRefreshToken(token string) {
	c.mu.Lock()
	c.refreshToken = token
	c.mu.Unlock()
}

func (c *Client) SetTokens(p models.TokenPair) {
	c.mu.Lock()
	c.accessToken = p.AccessToken
	c.refreshToken = p.RefreshToken
	c.mu.Unlock()
}

func (c *Client) ClearTokens() {
	c.SetTokens(models.TokenPair{})
}

func (c *Client) Tokens() models.TokenPair {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.TokenPair{AccessToken: c.accessToken, RefreshToken: c.refreshToken}
}

// Refreshing reports whether a refresh is in flight.
func (c *Client) Refreshing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshing
}

// Pending returns the number of callers queued behind the in-flight refresh.
func (c *Client) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Subscribe registers fn for session events and returns a function that
// removes it. Handlers run synchronously on the goroutine that performed
// the refresh and must not block on requests made through this client.
func (c *Client) Subscribe(fn func(Event)) (unsubscribe func()) {
	return c.events.subscribe(fn)
}

type RequestOption func(*request)

// WithHeader sets a request header. It wins over the client's defaults on
// the first attempt; a replay after refresh always carries the new token.
func WithHeader(key, value string) RequestOption {
	return func(r *request) { r.header.Set(key, value) }
}

func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*RawEnvelope, error) {
	return c.Do(ctx, http.MethodGet, path, nil, opts...)
}

func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*RawEnvelope, error) {
	return c.Do(ctx, http.MethodPost, path, body, opts...)
}

func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (*RawEnvelope, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, opts...)
}

// Do sends a request with a JSON body (nil for none) and returns the
// success envelope. fail/error envelopes come back as *ValidationError and
// *APIError, an undecodable body as *MalformedResponseError.
func (c *Client) Do(ctx context.Context, method, path string, body any, opts ...RequestOption) (*RawEnvelope, error) {
	req := &request{
		method:    method,
		path:      path,
		header:    http.Header{},
		requestID: uuid.NewString(),
	}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		req.body = data
	}
	for _, opt := range opts {
		opt(req)
	}

	token := c.Tokens().AccessToken
	resp, err := c.send(ctx, req, token, false)
	if err != nil {
		return nil, err
	}

	if resp.statusCode == http.StatusUnauthorized && recoverable(req.path) {
		resp, err = c.recoverUnauthorized(ctx, req, resp, token)
		if err != nil {
			return nil, err
		}
	}

	return parseEnvelope(resp.statusCode, resp.body)
}

func recoverable(path string) bool {
	p, _, _ := strings.Cut(path, "?")
	_, exempt := exemptPaths[p]
	return !exempt
}

// recoverUnauthorized handles a 401. The returned response is the outcome of at most one
// replay; a second 401 is handed back as-is.
func (c *Client) recoverUnauthorized(ctx context.Context, req *request, unauthorized *response, usedToken string) (*response, error) {
	c.mu.Lock()

	if c.refreshToken == "" {
		c.mu.Unlock()
		return unauthorized, nil
	}

	if c.refreshing {
		p := &pendingRequest{req: req, ready: make(chan grant, 1)}
		c.pending = append(c.pending, p)
		c.mu.Unlock()

		c.log.Debug(ctx, "waiting for token refresh", "path", req.path, "request_id", req.requestID)
		select {
		case g := <-p.ready:
			if g.err != nil {
				return nil, g.err
			}
			return c.replay(ctx, req, g.token)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	// Someone refreshed while this request was on the wire.
	if c.accessToken != "" && c.accessToken != usedToken {
		token := c.accessToken
		c.mu.Unlock()
		return c.send(ctx, req, token, true)
	}

	c.refreshing = true
	refreshToken := c.refreshToken
	c.mu.Unlock()

	c.log.Info(ctx, "access token expired, refreshing", "path", req.path, "request_id", req.requestID)

	pair, err := c.refresh(ctx, refreshToken)
	token, err := c.settleRefresh(ctx, refreshToken, pair, err)
	if err != nil {
		return nil, err
	}
	return c.replay(ctx, req, token)
}

// replay resends req once with token unless the caller has given up.
func (c *Client) replay(ctx context.Context, req *request, token string) (*response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.send(ctx, req, token, true)
}

// settleRefresh ends the refresh that was started with startedWith and
// returns the access token replays should use.
//
// The outcome is applied only while the refresh token is still startedWith.
// If SetTokens or ClearTokens ran meanwhile, the result is dropped, no event
// is emitted and the queue replays with the current tokens. Otherwise a
// success installs pair and a failure clears both tokens and rejects the
// queue with refreshErr. Parked callers are released in FIFO order and each
// replays its own request.
func (c *Client) settleRefresh(ctx context.Context, startedWith string, pair models.TokenPair, refreshErr error) (string, error) {
	c.mu.Lock()
	current := c.refreshToken == startedWith
	switch {
	case !current:
	case refreshErr != nil:
		c.accessToken = ""
		c.refreshToken = ""
	default:
		c.accessToken = pair.AccessToken
		c.refreshToken = pair.RefreshToken
	}
	token := c.accessToken
	batch := c.pending
	c.pending = nil
	c.refreshing = false
	c.mu.Unlock()

	g := grant{token: token}
	switch {
	case !current:
		c.log.Info(ctx, "tokens replaced during refresh, discarding its outcome", "err", refreshErr, "released", len(batch))
	case refreshErr != nil:
		g = grant{err: refreshErr}
		c.log.Warn(ctx, "token refresh failed, session invalidated", "err", refreshErr, "rejected", len(batch))
		c.events.emit(Event{Kind: EventSessionInvalidated, Err: refreshErr})
	default:
		c.log.Info(ctx, "access token refreshed", "released", len(batch))
		c.events.emit(Event{Kind: EventTokensRefreshed, Tokens: pair})
	}

	for _, p := range batch {
		p.ready <- g
	}
	return g.token, g.err
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// refresh exchanges refreshToken for a new pair. It is detached from the
// caller's cancellation so one impatient caller cannot fail the queue; the
// refresh timeout bounds it instead.
func (c *Client) refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.refreshTimeout)
	defer cancel()

	body, err := json.Marshal(refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return models.TokenPair{}, &RefreshError{Err: err}
	}

	req := &request{
		method:    http.MethodPost,
		path:      RefreshPath,
		body:      body,
		header:    http.Header{},
		requestID: uuid.NewString(),
	}
	resp, err := c.send(ctx, req, "", false)
	if err != nil {
		return models.TokenPair{}, &RefreshError{Err: err}
	}

	if resp.statusCode < 200 || resp.statusCode > 299 {
		cause := fmt.Errorf("unexpected status %d", resp.statusCode)
		if _, envErr := parseEnvelope(resp.statusCode, resp.body); envErr != nil {
			cause = envErr
		}
		return models.TokenPair{}, &RefreshError{StatusCode: resp.statusCode, Err: cause}
	}

	env, err := parseEnvelope(resp.statusCode, resp.body)
	if err != nil {
		return models.TokenPair{}, &RefreshError{StatusCode: resp.statusCode, Err: err}
	}
	decoded, err := Decode[models.TokenPair](env)
	if err != nil {
		return models.TokenPair{}, &RefreshError{StatusCode: resp.statusCode, Err: err}
	}

	pair := decoded.Data
	if pair.AccessToken == "" {
		return models.TokenPair{}, &RefreshError{StatusCode: resp.statusCode, Err: errors.New("no access token in refresh response")}
	}
	// Servers without rotation keep the old refresh token valid.
	if pair.RefreshToken == "" {
		pair.RefreshToken = refreshToken
	}
	return pair, nil
}

// send performs one HTTP exchange and reads the whole body.
func (c *Client) send(ctx context.Context, req *request, token string, replay bool) (*response, error) {
	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(RequestIDHeaderName, req.requestID)
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	for key, values := range req.header {
		if replay && key == "Authorization" {
			continue
		}
		httpReq.Header[key] = append([]string(nil), values...)
	}

	c.log.Debug(ctx, "sending request", "method", req.method, "path", req.path, "request_id", req.requestID, "replay", replay)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return &response{statusCode: resp.StatusCode, body: data}, nil
}

// Get issues a GET and decodes the envelope data into T.
func Get[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (*Envelope[T], error) {
	env, err := c.Get(ctx, path, opts...)
	if err != nil {
		return nil, err
	}
	return Decode[T](env)
}

// Post issues a POST and decodes the envelope data into T.
func Post[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (*Envelope[T], error) {
	env, err := c.Post(ctx, path, body, opts...)
	if err != nil {
		return nil, err
	}
	return Decode[T](env)
}

// Delete issues a DELETE and decodes the envelope data into T.
func Delete[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (*Envelope[T], error) {
	env, err := c.Delete(ctx, path, opts...)
	if err != nil {
		return nil, err
	}
	return Decode[T](env)
}
