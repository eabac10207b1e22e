// Package repl provides the interactive shell of the rolodex CLI.
//
//   - repl.go: read loop, argument splitting and dispatch
//   - completer.go: command lookup by unique prefix
//   - history.go: command history persisted between sessions
//
// The loop knows nothing about contacts; each line is handed to an
// Executor, normally a urfave/cli app sharing one open index.
package repl
