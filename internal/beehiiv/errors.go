package beehiiv

import "errors"

// Construction errors. Request itself never returns a Go error.
var (
	ErrMissingAPIKey  = errors.New("beehiiv client requires an API key")
	ErrInvalidBaseURL = errors.New("beehiiv base URL must be absolute")
)
