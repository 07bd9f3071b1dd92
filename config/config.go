package config

import (
	_ "embed"
)

//go:embed nightsvg.yaml
var defaultConfig []byte

// DefaultYAML returns the commented config file written by `nightsvg init`.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultConfig...)
}
