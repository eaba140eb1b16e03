package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn and printFn are test seams for user-facing output.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Feed(ctx context.Context) error
	Profile(ctx context.Context, args []string) error
	Stats(ctx context.Context, args []string) error
	Follow(ctx context.Context, args []string) error
	Unfollow(ctx context.Context, args []string) error
	Toggle(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	Upload(ctx context.Context, args []string) error
	Avatar(ctx context.Context, args []string) error
	Relink(ctx context.Context, args []string) error
}

const (
	guestHelp = "Available commands: signup, login, search <text>, exit"
	userHelp  = "Available commands: feed, profile [id], stats [id], follow <id>, unfollow <id>, toggle <id>, " +
		"search <text>, upload <path> [caption], avatar <path>, relink <url>, logout, exit"
)

// runREPL reads commands from reader until EOF, "exit" or "quit".
//
// The first token of a line selects the command and the rest are passed as
// arguments. Prompts shown by commands read from the same reader. Handler
// errors are ignored here since handlers report their own failures.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printFn(fmt.Sprintf("snapgram (%s)> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				printlnFn(userHelp)
			} else {
				printlnFn(guestHelp)
			}

		case "signup":
			_ = a.Signup(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "feed":
			_ = a.Feed(ctx)

		case "profile":
			_ = a.Profile(ctx, args)

		case "stats":
			_ = a.Stats(ctx, args)

		case "follow":
			_ = a.Follow(ctx, args)

		case "unfollow":
			_ = a.Unfollow(ctx, args)

		case "toggle":
			_ = a.Toggle(ctx, args)

		case "search":
			_ = a.Search(ctx, args)

		case "upload":
			_ = a.Upload(ctx, args)

		case "avatar":
			_ = a.Avatar(ctx, args)

		case "relink":
			_ = a.Relink(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
