// Package cli provides the interactive todo command-line client.
//
// It wires configuration, the HTTP API client, a saved login session and an
// interactive REPL. A login survives restarts through the session file; a
// background watcher pings the server and shows online/offline in the prompt.
//
// Commands:
//   - register, login, logout
//   - list [done|open] [text], show, add, edit, done, undo, delete
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
