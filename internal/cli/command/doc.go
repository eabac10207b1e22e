// Package command provides the rolodex CLI commands.
//
// This package defines all commands using urfave/cli/v2:
//
//   - root.go: App, global flags and the per-run Env
//   - contact.go: add, search, get and remove
//   - document.go: dump, save and stats
//   - backup.go: backup subcommand group
//   - config.go: configuration subcommand group
//   - shell.go: interactive shell over one open index
//   - version.go: build information
//
// Commands follow a consistent pattern: parse arguments, open the engine
// through Env, call it with a context tagged with the command name and
// print the result in the selected output format.
package command
