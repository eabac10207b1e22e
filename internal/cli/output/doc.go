// Package output renders command results for the rolodex CLI.
//
//   - formatter.go: Formatter interface and factory
//   - table.go: aligned tables built from structs, slices and maps
//   - json.go: indented JSON
//   - yaml.go: YAML
//
// Table output is meant for people; json and yaml are stable enough for
// scripts.
package output
