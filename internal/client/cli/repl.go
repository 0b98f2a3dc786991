package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	report(err error)
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) error
	Feed(ctx context.Context, page int) error
	More(ctx context.Context) error
	Post(ctx context.Context) error
	Subscribe(ctx context.Context, threadID string) error
	Unsubscribe(ctx context.Context, threadID string) error
}

// runREPL reads commands from scanner and dispatches them to a until EOF or
// "exit"/"quit".
//
//	Not logged in:
//	  - help           show available commands
//	  - register       create an account
//	  - login          authenticate
//	  - exit | quit    leave the program
//
//	Logged in:
//	  - help           show available commands
//	  - me             show the current user
//	  - feed [page]    list threads, first page by default
//	  - more           load the next page of the feed
//	  - post           create a thread
//	  - sub <id>       subscribe to a thread
//	  - unsub <id>     unsubscribe from a thread
//	  - logout         log out
//	  - exit | quit    leave the program
//
// Handler errors are passed to a.report and never stop the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	done := func(err error) {
		if err != nil {
			a.report(err)
		}
	}

	for {
		printlnFn(fmt.Sprintf("pulse %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: me, feed [page], more, post, sub <id>, unsub <id>, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			done(a.Register(ctx))

		case "login":
			done(a.Login(ctx))

		case "logout":
			done(a.Logout(ctx))

		case "me":
			done(a.Me(ctx))

		case "feed":
			page := 1
			if len(args) > 0 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					printlnFn("Usage: feed [page]")
					continue
				}
				page = n
			}
			done(a.Feed(ctx, page))

		case "more":
			done(a.More(ctx))

		case "post":
			done(a.Post(ctx))

		case "sub":
			if len(args) == 0 {
				printlnFn("Usage: sub <id>")
				continue
			}
			done(a.Subscribe(ctx, args[0]))

		case "unsub":
			if len(args) == 0 {
				printlnFn("Usage: unsub <id>")
				continue
			}
			done(a.Unsubscribe(ctx, args[0]))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
