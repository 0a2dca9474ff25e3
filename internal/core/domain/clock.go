package domain

import "time"

// Now returns the current UTC time truncated to whole seconds, the resolution
// used for every persisted timestamp and token claim.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
