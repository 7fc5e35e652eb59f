// Package parser classifies the free-form progress lines of a Playwright run
// into structured test results.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/acarl005/stripansi"

	"pwr/internal/domain"
)

var (
	// [chromium] › tests/login.spec.ts:12:5 › Login › logs in
	testLinePattern = regexp.MustCompile(`\[[^\]]+\]\s+›\s+([\w/\\.\-]+):(\d+):\d+\s+›\s+(.+)`)
	// "  3 failed" on a line of its own, as printed in the run summary
	summaryFailedPattern = regexp.MustCompile(`^\s*\d+\s+failed\s*$`)
	// cloud runner log lines carry a colored "[...]" prefix before the message
	logMessagePattern = regexp.MustCompile(`\]\s*\x1b?\[0m\s*(.*)`)
)

// LineKind tells how a line was classified
type LineKind int

const (
	// LineMessage carries no structure; it only updates the latest message
	LineMessage LineKind = iota
	// LineTest identifies a test
	LineTest
	// LineFailure fails the most recently seen test
	LineFailure
	// LineSummaryFailed fails every test seen so far
	LineSummaryFailed
)

// StripANSI removes terminal escape sequences
func StripANSI(s string) string {
	return stripansi.Strip(s)
}

// Kind classifies a line that has already been stripped of escape sequences
func Kind(line string) LineKind {
	switch {
	case testLinePattern.MatchString(line):
		return LineTest
	case summaryFailedPattern.MatchString(line):
		return LineSummaryFailed
	case isFailure(line):
		return LineFailure
	default:
		return LineMessage
	}
}

func isFailure(line string) bool {
	lower := strings.ToLower(line)
	return strings.Contains(lower, "failed") || strings.Contains(lower, "error")
}

// Classify folds one raw progress line into results and returns the new list.
// results is not modified.
//
// Rules, after stripping escape sequences:
//   - a test line "[project] › file:line:col › title" adds a passed result with
//     id "file:line", or appends the line to the details of the existing one;
//   - a summary line "<n> failed" marks every result failed. A trailing
//     summary is the final word of a run, so it overrides per-test statuses;
//   - any other line containing "failed" or "error" fails the most recently
//     added result and is appended to its details. Without a result it is
//     dropped;
//   - everything else leaves results untouched.
//
// Lines must be passed in the order they were produced.
func Classify(results []domain.TestResult, rawLine string) []domain.TestResult {
	line := StripANSI(rawLine)
	out := make([]domain.TestResult, len(results), len(results)+1)
	copy(out, results)

	switch Kind(line) {
	case LineTest:
		match := testLinePattern.FindStringSubmatch(line)
		filePath, lineNumber := match[1], match[2]
		id := filePath + ":" + lineNumber
		for i := range out {
			if out[i].ID == id {
				out[i].Details += "\n" + line
				return out
			}
		}
		number, _ := strconv.Atoi(lineNumber)
		out = append(out, domain.TestResult{
			ID:         id,
			Title:      line,
			FilePath:   filePath,
			LineNumber: number,
			Status:     domain.StatusPassed,
			Details:    line,
		})
	case LineSummaryFailed:
		for i := range out {
			out[i].Status = domain.StatusFailed
		}
	case LineFailure:
		if len(out) == 0 {
			return out
		}
		last := &out[len(out)-1]
		last.Status = domain.StatusFailed
		last.Details += "\n" + line
	}
	return out
}

// Fold classifies lines in order starting from an empty result list
func Fold(lines []string) []domain.TestResult {
	var results []domain.TestResult
	for _, line := range lines {
		results = Classify(results, line)
	}
	return results
}

// ExtractLogMessage returns the text of a cloud runner log line after its
// colored prefix, or the stripped line when there is no such prefix.
func ExtractLogMessage(raw string) string {
	if match := logMessagePattern.FindStringSubmatch(raw); match != nil && match[1] != "" {
		return StripANSI(match[1])
	}
	return strings.TrimSpace(StripANSI(raw))
}

// Summarize counts results by status
func Summarize(results []domain.TestResult) domain.ResultsSummary {
	summary := domain.ResultsSummary{Total: len(results)}
	for _, r := range results {
		if r.Failed() {
			summary.Failed++
		} else {
			summary.Passed++
		}
	}
	return summary
}
