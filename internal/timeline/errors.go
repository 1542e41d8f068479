package timeline

import "errors"

// ErrConfigNotFound is returned when a timeline configuration id does not
// resolve.
var ErrConfigNotFound = errors.New("timeline configuration not found")

// ErrConfigInactive is returned when a projection or move is attempted
// against an inactive configuration.
var ErrConfigInactive = errors.New("timeline configuration is not active")
