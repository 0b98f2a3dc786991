// Package apiclient is the authenticated HTTP client of the pulse app.
//
// # Overview
//
// Client sends JSON requests to {baseURL}{path}, attaches the current access
// token as a bearer credential and decodes the uniform response envelope
//
//	{"status": "success"|"fail"|"error", "data": ..., "message": "...", "errors": {...}}
//
// into a RawEnvelope (or an Envelope[T] through Get, Post and Delete).
//
// # Token refresh
//
// A 401 from any endpoint other than /auth/refresh, /auth/login and
// /auth/register, while a refresh token is set, starts recovery. Only one
// refresh runs at a time: callers that hit 401 meanwhile are queued and,
// once the refresh succeeds, released in the order they queued; each caller
// then replays its own request, as does the one that triggered the refresh.
// Each request is replayed at most once. A failed refresh rejects the whole
// queue with a *RefreshError, clears both tokens and emits
// EventSessionInvalidated.
//
// A refresh only affects the session it was started for. If the tokens are
// replaced or cleared while it runs, its outcome is dropped and queued
// requests replay with whatever tokens are current.
//
// # Events
//
// The session layer learns about new tokens and invalidated sessions through
// Subscribe rather than through callback slots on the client.
//
// # Error Handling
//
// Match errors with errors.Is against ErrMalformedResponse, ErrValidation,
// ErrAPI, ErrUnauthorized and ErrSessionExpired, or use errors.As for the
// typed forms that carry field messages and HTTP status codes.
package apiclient
