package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/senselib/f8client/internal/client/api"
	"github.com/senselib/f8client/internal/client/gate"
	"github.com/senselib/f8client/internal/common"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Docs(ctx context.Context, args []string) error
	Page(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Fav(ctx context.Context, args []string) error
	Unfav(ctx context.Context, args []string) error
	Favs(ctx context.Context) error
	Download(ctx context.Context, args []string) error
	Balance(ctx context.Context) error
	Deposit(ctx context.Context, args []string) error
	History(ctx context.Context) error
	Transactions(ctx context.Context, args []string) error
	Profile(ctx context.Context, args []string) error
	Passwd(ctx context.Context) error
	Admin(ctx context.Context, args []string) error
	Upload(ctx context.Context) error
}

const (
	helpAnonymous = "Available commands: login, docs [search], page <n>, show <id>, download <id>, exit"
	helpUser      = "Available commands: whoami, docs [search], page <n>, show <id>, fav <id>, unfav <id>, favs, " +
		"download <id>, balance, deposit <points>, history, transactions [page], profile [edit], passwd, logout, exit"
	helpAdmin = "Admin commands: admin <resource> [list [page]|show <id>|delete <id>], upload"
)

// runREPL starts a simple read–eval–print loop for the SenseLib CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command and the rest as its arguments, and dispatches to methods on 'a'.
// The loop exits on scanner EOF, when ctx is done, or when the user types
// "exit" or "quit".
//
// The prompt shows the current status (from statusFn): the signed-in
// identity and the current surface. Errors returned by handlers are printed
// as a single line and never stop the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("senselib %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpUser)
				if a.isAdmin() {
					printlnFn(helpAdmin)
				}
			} else {
				printlnFn(helpAnonymous)
			}

		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "whoami":
			err = a.WhoAmI(ctx)

		case "docs", "search":
			err = a.Docs(ctx, args)
		case "page":
			err = a.Page(ctx, args)
		case "show":
			err = a.Show(ctx, args)
		case "fav":
			err = a.Fav(ctx, args)
		case "unfav":
			err = a.Unfav(ctx, args)
		case "favs":
			err = a.Favs(ctx)
		case "download", "dl":
			err = a.Download(ctx, args)

		case "balance":
			err = a.Balance(ctx)
		case "deposit":
			err = a.Deposit(ctx, args)
		case "history":
			err = a.History(ctx)
		case "transactions":
			err = a.Transactions(ctx, args)

		case "profile":
			err = a.Profile(ctx, args)
		case "passwd":
			err = a.Passwd(ctx)

		case "admin":
			err = a.Admin(ctx, args)
		case "upload":
			err = a.Upload(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", describe(err))
		}
	}
}

// errUsage is returned by handlers called with malformed arguments.
type errUsage string

func (e errUsage) Error() string { return "usage: " + string(e) }

// describe renders err as the line shown to the user.
func describe(err error) string {
	var usage errUsage
	switch {
	case errors.As(err, &usage):
		return usage.Error()
	case errors.Is(err, gate.ErrNotAuthenticated):
		return gate.ResultNotAuthenticated.Message()
	case errors.Is(err, gate.ErrInsufficientBalance):
		return gate.ResultInsufficientBalance.Message()
	case errors.Is(err, gate.ErrFetchFailed):
		return gate.ResultFetchFailed.Message()
	case errors.Is(err, common.ErrNoSession):
		return "Please log in first."
	case errors.Is(err, common.ErrInvalidAmount):
		return "The amount is not valid."
	}
	return api.Message(err)
}
