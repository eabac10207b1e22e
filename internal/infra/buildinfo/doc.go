// Package buildinfo reports the version of the rolodex binary.
//
// Release builds inject values through ldflags:
//
//	go build -ldflags "-X github.com/yndnr/rolodex/internal/infra/buildinfo.Version=v1.0.0"
//
// Values left unset fall back to the module and VCS data embedded by the
// Go toolchain.
package buildinfo
