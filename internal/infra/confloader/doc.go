// Package confloader loads layered configuration with koanf.
//
// Sources, highest priority first:
//
//  1. Command-line flags (applied with LoadMap)
//  2. Environment variables (ROLODEX_SECTION_KEY)
//  3. The YAML configuration file
//  4. Defaults already present in the target struct
//
// A Watcher reports changes to the configuration file so long-running
// commands can pick up new settings.
package confloader
