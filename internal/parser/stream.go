package parser

import (
	"strings"

	"pwr/internal/domain"
)

// Stream keeps the running result list of one run together with the latest
// message worth showing. It is not safe for concurrent use.
type Stream struct {
	results []domain.TestResult
	latest  string
}

// NewStream returns an empty stream
func NewStream() *Stream {
	return &Stream{}
}

// Push classifies one progress line
func (s *Stream) Push(rawLine string) {
	s.results = Classify(s.results, rawLine)
	if line := strings.TrimSpace(StripANSI(rawLine)); line != "" {
		s.latest = line
	}
}

// PushMessage feeds a progress message that may hold several lines
func (s *Stream) PushMessage(message string) {
	for _, line := range strings.Split(strings.TrimRight(message, "\n"), "\n") {
		s.Push(strings.TrimSuffix(line, "\r"))
	}
}

// SetLatest replaces the latest message without touching the results
func (s *Stream) SetLatest(message string) {
	if message != "" {
		s.latest = message
	}
}

// Results returns a copy of the current results
func (s *Stream) Results() []domain.TestResult {
	out := make([]domain.TestResult, len(s.results))
	copy(out, s.results)
	return out
}

// Latest returns the latest message
func (s *Stream) Latest() string {
	return s.latest
}

// Summary counts the current results by status
func (s *Stream) Summary() domain.ResultsSummary {
	return Summarize(s.results)
}

// Reset drops every result, as done when a new run starts
func (s *Stream) Reset() {
	s.results = nil
	s.latest = ""
}
