package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

const maxMessageWidth = 60

// ProgressBar shows live pass/fail counts while a run streams
type ProgressBar struct {
	bar     *progressbar.ProgressBar
	total   int
	passed  int
	failed  int
	message string
}

// NewProgressBar creates a progress bar for total cases on stderr
func NewProgressBar(total int) *ProgressBar {
	return newProgressBar(total, os.Stderr)
}

func newProgressBar(total int, w io.Writer) *ProgressBar {
	if total <= 0 {
		total = -1
	}
	p := &ProgressBar{total: total}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription(p.description()),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(w),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
	return p
}

// Update sets the number of passed and failed tests seen so far
func (p *ProgressBar) Update(passed, failed int) {
	p.passed, p.failed = passed, failed
	done := passed + failed
	if p.total > 0 && done > p.total {
		p.total = done
		p.bar.ChangeMax(done)
	}
	_ = p.bar.Set(done)
	p.bar.Describe(p.description())
}

// Describe shows the latest runner message next to the counts
func (p *ProgressBar) Describe(message string) {
	p.message = shorten(message, maxMessageWidth)
	p.bar.Describe(p.description())
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() {
	_ = p.bar.Finish()
}

func (p *ProgressBar) description() string {
	desc := color.CyanString("Running tests: ") +
		color.GreenString("[passed: %d", p.passed) +
		" | " +
		color.RedString("failed: %d]", p.failed)
	if p.message != "" {
		desc += " " + p.message
	}
	return desc
}

// shorten keeps the first line of s within width runes
func shorten(s string, width int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
