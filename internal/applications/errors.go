package applications

import "errors"

// ErrNotFound covers both a missing id and a record owned by someone
// else; callers cannot distinguish the two.
var ErrNotFound = errors.New("application not found")
