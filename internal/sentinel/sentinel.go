package sentinel

import "errors"

// ErrNotFound is returned by store lookups for ids that were never issued
// or have been swept. Callers translate it into a domain error exactly once.
var ErrNotFound = errors.New("not found")
