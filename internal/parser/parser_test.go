package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pwr/internal/domain"
)

func TestFold_SummaryFailsEverything(t *testing.T) {
	results := Fold([]string{
		"[chromium] › a.spec.ts:10:3 › does X",
		"1 failed",
	})

	require.Len(t, results, 1)
	assert.Equal(t, domain.StatusFailed, results[0].Status)
	assert.Equal(t, "a.spec.ts:10", results[0].ID)
}

func TestFold_ErrorAttachesToLatestTest(t *testing.T) {
	results := Fold([]string{
		"[chromium] › a.spec.ts:5:1 › logs in",
		"Error: timeout",
		"[chromium] › a.spec.ts:9:1 › logs out",
	})

	require.Len(t, results, 2)

	assert.Equal(t, domain.StatusFailed, results[0].Status)
	assert.Contains(t, results[0].Details, "Error: timeout")
	assert.Equal(t, "a.spec.ts", results[0].FilePath)
	assert.Equal(t, 5, results[0].LineNumber)

	assert.Equal(t, domain.StatusPassed, results[1].Status)
	assert.Equal(t, "[chromium] › a.spec.ts:9:1 › logs out", results[1].Title)
	assert.Equal(t, "[chromium] › a.spec.ts:9:1 › logs out", results[1].Details)
	assert.False(t, results[1].ShowDetails)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		expected []domain.TestResult
	}{
		{
			name:     "failure before any test is dropped",
			lines:    []string{"Error: browser did not start"},
			expected: nil,
		},
		{
			name:     "noise leaves results untouched",
			lines:    []string{"Running 3 tests using 1 worker", ""},
			expected: nil,
		},
		{
			name: "same test twice appends details and keeps status",
			lines: []string{
				"  ✓  1 [chromium] › tests/a.spec.ts:5:1 › logs in (1.2s)",
				"[chromium] › tests/a.spec.ts:5:7 › logs in › retry #1",
			},
			expected: []domain.TestResult{{
				ID:         "tests/a.spec.ts:5",
				Title:      "  ✓  1 [chromium] › tests/a.spec.ts:5:1 › logs in (1.2s)",
				FilePath:   "tests/a.spec.ts",
				LineNumber: 5,
				Status:     domain.StatusPassed,
				Details:    "  ✓  1 [chromium] › tests/a.spec.ts:5:1 › logs in (1.2s)\n[chromium] › tests/a.spec.ts:5:7 › logs in › retry #1",
			}},
		},
		{
			name: "other projects are recognised",
			lines: []string{
				"[firefox] › b.spec.js:2:1 › works",
			},
			expected: []domain.TestResult{{
				ID:         "b.spec.js:2",
				Title:      "[firefox] › b.spec.js:2:1 › works",
				FilePath:   "b.spec.js",
				LineNumber: 2,
				Status:     domain.StatusPassed,
				Details:    "[firefox] › b.spec.js:2:1 › works",
			}},
		},
		{
			name: "escape sequences are stripped",
			lines: []string{
				"\x1b[32m[chromium] › a.spec.ts:1:1 › green\x1b[39m",
				"\x1b[31mError:\x1b[39m expected 1",
			},
			expected: []domain.TestResult{{
				ID:         "a.spec.ts:1",
				Title:      "[chromium] › a.spec.ts:1:1 › green",
				FilePath:   "a.spec.ts",
				LineNumber: 1,
				Status:     domain.StatusFailed,
				Details:    "[chromium] › a.spec.ts:1:1 › green\nError: expected 1",
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Fold(tt.lines))
		})
	}
}

func TestClassify_SummaryOverridesPassedTests(t *testing.T) {
	results := Fold([]string{
		"[chromium] › a.spec.ts:1:1 › one",
		"[chromium] › a.spec.ts:2:1 › two",
		"  2 failed",
	})

	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, domain.StatusFailed, r.Status, r.ID)
	}
	assert.NotContains(t, results[1].Details, "failed", "the summary line is not attached")
}

func TestClassify_DoesNotModifyInput(t *testing.T) {
	results := Fold([]string{"[chromium] › a.spec.ts:1:1 › one"})
	before := append([]domain.TestResult(nil), results...)

	updated := Classify(results, "Error: boom")

	assert.Equal(t, before, results)
	assert.Equal(t, domain.StatusFailed, updated[0].Status)
}

func TestClassify_IsDeterministic(t *testing.T) {
	lines := []string{
		"[chromium] › a.spec.ts:1:1 › one",
		"TimeoutError: locator.click",
		"[chromium] › a.spec.ts:8:1 › two",
		"[chromium] › a.spec.ts:1:1 › one",
		"1 failed",
		"1 passed",
	}
	assert.Equal(t, Fold(lines), Fold(lines))
}

func TestKind(t *testing.T) {
	tests := map[string]LineKind{
		"[chromium] › a.spec.ts:1:1 › one": LineTest,
		"3 failed":                         LineSummaryFailed,
		"  12 failed  ":                    LineSummaryFailed,
		"3 failed, 2 flaky":                LineFailure,
		"Test FAILED":                      LineFailure,
		"TypeError: x is undefined":        LineFailure,
		"5 passed (3.1s)":                  LineMessage,
		"":                                 LineMessage,
	}
	for line, expected := range tests {
		assert.Equal(t, expected, Kind(line), line)
	}
}

func TestExtractLogMessage(t *testing.T) {
	assert.Equal(t, "Running 4 tests", ExtractLogMessage("[runner-1] \x1b[0m Running 4 tests"))
	assert.Equal(t, "Running 4 tests", ExtractLogMessage("[runner-1] [0m Running 4 tests"))
	assert.Equal(t, "plain line", ExtractLogMessage("  plain line "))
}

func TestStream(t *testing.T) {
	stream := NewStream()

	stream.PushMessage("[chromium] › a.spec.ts:1:1 › one\nError: boom\n")
	stream.Push("Slow test file: a.spec.ts")

	results := stream.Results()
	require.Len(t, results, 1)
	assert.Equal(t, domain.StatusFailed, results[0].Status)
	assert.Equal(t, "Slow test file: a.spec.ts", stream.Latest())
	assert.Equal(t, domain.ResultsSummary{Total: 1, Failed: 1}, stream.Summary())

	stream.SetLatest("done")
	assert.Equal(t, "done", stream.Latest())

	stream.Reset()
	assert.Empty(t, stream.Results())
	assert.Empty(t, stream.Latest())
}
