// Package logger provides structured logging for Rolodex.
//
// This package wraps log/slog:
//
//   - logger.go: logger construction, levels, optional rotating log file
//   - context.go: context-aware logging with the running command
//   - redact.go: masking of contact data and secrets
//
// Features:
//
//   - JSON and text output formats
//   - Runtime log level changes
//   - Automatic masking of email addresses and phone-like numbers
//   - Rotating file output through lumberjack
package logger
