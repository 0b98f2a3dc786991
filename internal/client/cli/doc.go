// Package cli provides the interactive pulse command-line client.
//
// It wires the session controller and the threads API into a small REPL.
// A stored session is restored on start; if a token refresh fails later the
// prompt falls back to the logged-out state and the user is asked to log in
// again.
//
// Commands:
//   - register / login / logout / me
//   - feed [page] and more (next page of the feed)
//   - post (create a thread)
//   - sub <id> / unsub <id>
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
