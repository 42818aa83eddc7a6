package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies it.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Stats(ctx context.Context) error
	Users(ctx context.Context, args []string) error
	User(ctx context.Context, args []string) error
	Subscriptions(ctx context.Context, args []string) error
	Transactions(ctx context.Context, args []string) error
}

// runREPL reads commands until EOF, "exit" or "quit". Handlers report their
// own errors, so the returned errors are dropped here.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("admin %s> ", statusFn()))
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
			if a.isLoggedIn(ctx) {
				printlnFn("Available commands: stats, users, user, subs, txs, logout, exit")
			} else {
				printlnFn("Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "stats":
			_ = a.Stats(ctx)

		case "users":
			_ = a.Users(ctx, args)

		case "user":
			_ = a.User(ctx, args)

		case "subs":
			_ = a.Subscriptions(ctx, args)

		case "txs":
			_ = a.Transactions(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
