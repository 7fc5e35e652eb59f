package ui

import "pwr/internal/domain"

// Viewer displays test results in an interactive TUI
type Viewer interface {
	View(results []domain.TestResult) error
}
