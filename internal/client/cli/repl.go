package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Report(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Upvote(ctx context.Context, args []string) error
	Pending(ctx context.Context) error
	Sync(ctx context.Context) error
	SetOffline(ctx context.Context, offline bool) error
	Status(ctx context.Context) error
	SetStatus(ctx context.Context, args []string) error
	SetPriority(ctx context.Context, args []string) error
	SetCost(ctx context.Context, args []string) error
	SetCategory(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Users(ctx context.Context) error
	SetRole(ctx context.Context, args []string) error
	Audit(ctx context.Context, args []string) error
}

// runREPL starts a simple read–eval–print loop for the CityCare CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command and the rest as its arguments, and dispatches to methods on 'a'.
// The loop exits on scanner EOF or when the user types "exit" or "quit".
//
//	Everyone:       help, register, login, list [status], show <id>,
//	                offline, online, status, exit | quit
//	Signed in:      report, upvote <id>, pending, sync, logout
//	Administrators: setstatus, setpriority, setcost, setcategory, edit,
//	                delete, users, setrole, audit [limit]
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("citycare %s> ", statusFn()))
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
			printlnFn(helpText(a))

		case "register":
			_ = a.Register(ctx)
		case "login":
			_ = a.Login(ctx)
		case "logout":
			_ = a.Logout(ctx)

		case "report", "new":
			_ = a.Report(ctx)
		case "l", "list":
			_ = a.List(ctx, args)
		case "show":
			_ = a.Show(ctx, args)
		case "upvote":
			_ = a.Upvote(ctx, args)

		case "pending":
			_ = a.Pending(ctx)
		case "sync":
			_ = a.Sync(ctx)
		case "offline":
			_ = a.SetOffline(ctx, true)
		case "online":
			_ = a.SetOffline(ctx, false)
		case "status":
			_ = a.Status(ctx)

		case "setstatus":
			_ = a.SetStatus(ctx, args)
		case "setpriority":
			_ = a.SetPriority(ctx, args)
		case "setcost":
			_ = a.SetCost(ctx, args)
		case "setcategory":
			_ = a.SetCategory(ctx, args)
		case "edit":
			_ = a.Edit(ctx, args)
		case "delete":
			_ = a.Delete(ctx, args)
		case "users":
			_ = a.Users(ctx)
		case "setrole":
			_ = a.SetRole(ctx, args)
		case "audit":
			_ = a.Audit(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func helpText(a execIface) string {
	cmds := "Available commands: register, login, (l)ist [status], show <id>, offline, online, status, exit"
	if a.isLoggedIn() {
		cmds = "Available commands: report, (l)ist [status], show <id>, upvote <id>, pending, sync, offline, online, status, logout, exit"
	}
	if a.isAdmin() {
		cmds += "\nAdmin commands: setstatus <id> <status>, setpriority <id> <priority>, setcost <id> <amount>, setcategory <id> <category>, edit <id>, delete <id>, users, setrole <user-id> <role>, audit [limit]"
	}
	return cmds
}
