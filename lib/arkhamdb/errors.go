package arkhamdb

import "fmt"

// RetrievalError indicates a failure to retrieve data from the
// upstream service: a transport failure, a non-success status, or an
// empty body where one was required.
type RetrievalError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *RetrievalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("retrieve %s: %s", e.Endpoint, e.Err.Error())
	}
	return fmt.Sprintf("retrieve %s: status code %d", e.Endpoint, e.StatusCode)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// ValidationError indicates an upstream payload that fails
// required-field or type checks, such as an encounter card reaching
// the player card normalizer or a non-string trait field.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validate upstream record: %s", e.Reason)
}

// ScrapeStructureError indicates an expected HTML landmark is missing
// from a scraped page.
type ScrapeStructureError struct {
	Landmark string
}

func (e *ScrapeStructureError) Error() string {
	return fmt.Sprintf("scrape: missing landmark %q", e.Landmark)
}
