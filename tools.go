//go:build tools
// +build tools

// Package tools tracks tool dependencies invoked via `go generate` (mockgen).
package tools

import (
	_ "go.uber.org/mock/mockgen"
)
