package registry

import "errors"

// ErrNameTaken - returns when a participant with the same name is registered already.
var ErrNameTaken = errors.New("registry: name is already in use")
