package configs

import _ "embed"

// DefaultConfig is the built-in configuration the user file is layered on
//
//go:embed default.yaml
var DefaultConfig []byte
