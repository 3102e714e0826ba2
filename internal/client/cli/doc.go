// Package cli provides the interactive CityCare command-line client.
//
// It wires configuration, the local SQLite store, the gRPC transport, the
// offline queue and the services, then runs a REPL. Reports submitted while
// offline are queued locally and uploaded when the client goes back online,
// either by the user's "online" command or, with -w, by the background
// reachability watcher.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, runREPL and offline.Manager for details.
package cli
