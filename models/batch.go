package models

// Processing statuses recorded in ListingState.Processed.
const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// BatchResult is the outcome of one article URL inside a batch run.
// Outputs maps format name ("json", "html", "markdown") to file path and is
// only populated on success.
type BatchResult struct {
	URL     string
	Region  string
	Success bool
	Error   string
	Outputs map[string]string
}

// ListingState captures everything one discovery run found on a listing
// page. A fresh value is built per run; Processed and Remaining are
// diagnostic fields and are not updated once the state is returned.
type ListingState struct {
	ListingURL  string
	TotalFound  int
	ValidURLs   []string
	SkippedURLs []string
	Processed   map[string]string
	Remaining   []string
}

// Place pairs a category index URL with its slug, e.g. "africa" for the
// Africa listing page.
type Place struct {
	Name string
	URL  string
}
