// Package config defines the Rolodex configuration structure.
//
// Configuration is loaded through confloader from a YAML file, ROLODEX_*
// environment variables and command-line flags, in increasing priority,
// on top of Default().
package config
