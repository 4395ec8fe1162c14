package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/todoapi/internal/client/client"
)

// printFn and printlnFn are test seams for user-facing output. In tests,
// replace them with stubs.
var (
	printFn   = fmt.Print
	printlnFn = fmt.Println
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Add(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Done(ctx context.Context, args []string) error
	Undo(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
}

// runREPL reads commands from reader until EOF, "exit" or "quit" and
// dispatches them to a. The prompt shows statusFn().
//
//	Not logged in:
//	  help, register, login, exit | quit
//
//	Logged in:
//	  (l)ist [done|open] [text]  list todos, optionally filtered
//	  show <n|id>                show one todo
//	  add [description]          create a todo
//	  edit <n|id>                change a description
//	  done <n|id>, undo <n|id>   mark (not) completed
//	  delete <n|id>              remove a todo
//	  logout, exit | quit
//
// <n> is the position in the last listing. Command errors are printed and
// the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printFn("todo " + statusFn() + "> ")
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			printlnFn()
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist [done|open] [text], show, add, edit, done, undo, delete, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			report(a.Register(ctx))

		case "login":
			report(a.Login(ctx))

		case "logout":
			report(a.Logout(ctx))

		case "l", "list":
			report(a.List(ctx, args))

		case "show":
			report(a.Show(ctx, args))

		case "add":
			report(a.Add(ctx, args))

		case "edit":
			report(a.Edit(ctx, args))

		case "done":
			report(a.Done(ctx, args))

		case "undo":
			report(a.Undo(ctx, args))

		case "delete", "rm":
			report(a.Delete(ctx, args))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func report(err error) {
	if err != nil {
		printlnFn("Error:", userMessage(err))
	}
}

// userMessage turns command errors into something a person can act on.
func userMessage(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, errNotLoggedIn):
		return "not logged in, use 'login' first"
	case errors.Is(err, errBadCredentials):
		return "invalid email or password"
	case errors.Is(err, client.ErrUnauthorized):
		return "session expired, please login again"
	case errors.Is(err, client.ErrNotFound):
		return "no such todo"
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable, try again later"
	case errors.As(err, &apiErr) && apiErr.Code == client.CodeAlreadyExists:
		return "this email is already registered"
	case errors.As(err, &apiErr) && apiErr.Field != "":
		return apiErr.Field + " " + apiErr.Message
	}
	return err.Error()
}
