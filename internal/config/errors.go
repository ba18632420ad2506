package config

import "errors"

// ErrConfiguration - invalid operator-supplied setting, the process must not start.
var ErrConfiguration = errors.New("configuration error")
