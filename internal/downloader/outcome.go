package downloader

import "time"

// Outcome classifies how one file's transfer ended.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeNotModified
	OutcomeNotFound
	OutcomeOtherHTTPError
)

// Result is the return value of DownloadFile.
type Result struct {
	Outcome Outcome

	// LastModified is set only for OutcomeSuccess, and only if the server
	// sent a Last-Modified header that parsed as a valid HTTP date.
	LastModified *time.Time

	// HTTPCode and Description are set only for OutcomeOtherHTTPError.
	HTTPCode    int
	Description string
}
