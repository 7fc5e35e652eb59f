package domain

// TestStatus is the outcome recorded for a single test
type TestStatus string

const (
	StatusPassed TestStatus = "passed"
	StatusFailed TestStatus = "failed"
)

// TestResult is one test recovered from the progress stream.
// ID is "<filePath>:<lineNumber>"; Title holds the whole line that introduced it.
type TestResult struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	FilePath    string     `json:"file_path"`
	LineNumber  int        `json:"line_number"`
	Status      TestStatus `json:"status"`
	Details     string     `json:"details"`
	ShowDetails bool       `json:"show_details"`
}

// Failed reports whether the result is marked as failed
func (r TestResult) Failed() bool {
	return r.Status == StatusFailed
}

// ResultsSummary counts results by status
type ResultsSummary struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}
