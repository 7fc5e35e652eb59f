package discovery

import (
	"fmt"
	"regexp"
	"strings"

	"pwr/internal/domain"
)

// Parser recovers suite and case declarations from spec source text.
//
// It is a line based heuristic, not a grammar: a suite stays open until the
// braces counted after its declaration balance out. Braces inside string
// literals, template literals and block comments are counted like any other
// brace, and a suite declared inside another suite starts a new top-level suite.
type Parser struct {
	suitePattern *regexp.Regexp
	casePattern  *regexp.Regexp
}

// quoted matches a single, double or backtick quoted string literal
const quoted = "(?:'([^']+)'|\"([^\"]+)\"|`([^`]+)`)"

// NewParser creates a new Parser
func NewParser() *Parser {
	return &Parser{
		// test.describe('Login', () => {
		// test.describe.serial("Checkout", function () {
		suitePattern: regexp.MustCompile(`(?:^|[^\w$.])test\.describe(?:\.(?:only|skip|serial|parallel|fixme))?\(\s*` + quoted),
		// test('logs in', async ({ page }) => {
		// test.skip(`logs out`, function () {
		casePattern: regexp.MustCompile(`(?:^|[^\w$.])test(?:\.(?:only|skip|fixme|fail|slow))?\(\s*` + quoted +
			`\s*,\s*(?:async\s*)?(?:\(|function\b|[\w$]+\s*=>)`),
	}
}

// literal returns the string literal captured by quoted
func literal(match []string) string {
	for _, group := range match[1:] {
		if group != "" {
			return group
		}
	}
	return ""
}

// cursor walks the lines of one file
type cursor struct {
	lines []string
	pos   int
}

func newCursor(content string) *cursor {
	return &cursor{lines: strings.Split(content, "\n")}
}

// next returns the trimmed current line and its index, advancing the cursor
func (c *cursor) next() (string, int, bool) {
	if c.pos >= len(c.lines) {
		return "", 0, false
	}
	index := c.pos
	c.pos++
	return strings.TrimSpace(strings.TrimSuffix(c.lines[index], "\r")), index, true
}

// openSuite tracks the suite cases are currently attached to
type openSuite struct {
	index  int // position in the top-level items
	depth  int
	opened bool // the suite's opening brace has been seen
}

// Parse returns the suites and cases declared in file.
// Lines that look like neither are skipped, so malformed input never fails.
func (p *Parser) Parse(file domain.SourceFile) []domain.TestNode {
	if file.Content == "" {
		return nil
	}

	var items []domain.TestNode
	var suite *openSuite

	c := newCursor(file.Content)
	for {
		line, index, ok := c.next()
		if !ok {
			break
		}
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		if match := p.suitePattern.FindStringSubmatch(line); match != nil {
			items = append(items, domain.TestNode{
				ID:       nodeID(file.ID, domain.KindSuite, index),
				Name:     literal(match),
				Kind:     domain.KindSuite,
				Children: []domain.TestNode{},
			})
			suite = &openSuite{index: len(items) - 1}
			opens, closes := strings.Count(line, "{"), strings.Count(line, "}")
			if opens > 0 {
				suite.opened = true
				suite.depth = opens - closes
				if suite.depth <= 0 {
					suite = nil
				}
			}
			continue
		}

		if match := p.casePattern.FindStringSubmatch(line); match != nil {
			node := domain.TestNode{
				ID:   nodeID(file.ID, domain.KindCase, index),
				Name: literal(match),
				Kind: domain.KindCase,
			}
			if suite != nil {
				items[suite.index].Children = append(items[suite.index].Children, node)
			} else {
				items = append(items, node)
			}
		}

		if suite != nil && suite.track(line) {
			suite = nil
		}
	}

	return items
}

// track applies the braces of line and reports whether the suite closed
func (s *openSuite) track(line string) bool {
	opens, closes := strings.Count(line, "{"), strings.Count(line, "}")
	if !s.opened {
		if opens == 0 {
			return false
		}
		s.opened = true
	}
	s.depth += opens - closes
	return s.depth <= 0
}

func nodeID(fileID string, kind domain.NodeKind, line int) string {
	return fmt.Sprintf("%s-%s-%d", fileID, kind, line)
}

// CountCases returns the number of case nodes anywhere in items
func CountCases(items []domain.TestNode) int {
	count := 0
	for _, item := range items {
		if item.Kind == domain.KindCase {
			count++
			continue
		}
		count += CountCases(item.Children)
	}
	return count
}
