package models

// BatchError records why one day in a batch write was rejected.
type BatchError struct {
	Date  string `json:"date"`
	Error string `json:"error"`
}

// BatchResult reports the outcome of a batch save. Partial failure is a
// normal outcome, not an error: callers surface one consolidated
// summary rather than a notification per date.
type BatchResult struct {
	Attempted int          `json:"attempted"`
	Succeeded int          `json:"succeeded"`
	Failed    []BatchError `json:"failed,omitempty"`
}

// AllSucceeded reports whether every record in the batch was stored.
func (r BatchResult) AllSucceeded() bool {
	return len(r.Failed) == 0 && r.Succeeded == r.Attempted
}
