package hemispheres

import "errors"

var (
	// ErrDiscoveryFailed marks a listing or index page that could not be
	// reached. Discovery returns no partial results behind it.
	ErrDiscoveryFailed = errors.New("listing discovery failed")

	// ErrSessionUnavailable marks a browser tab that could not be created
	// at all. A batch hitting this aborts before any article is attempted.
	ErrSessionUnavailable = errors.New("browser session unavailable")
)
