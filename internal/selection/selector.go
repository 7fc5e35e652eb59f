package selection

import (
	"errors"
	"fmt"
	"strings"

	"pwr/internal/domain"
)

// SelectorSeparator separates the path parts of a selector
const SelectorSeparator = ">"

var (
	// ErrNoMatch is returned when a selector matches no node
	ErrNoMatch = errors.New("no test matches selector")
	// ErrAmbiguous is returned when a selector matches several nodes
	ErrAmbiguous = errors.New("selector matches more than one test")
)

// Resolve finds the node a selector names. A selector is either a node id
// or a path such as "login.spec.ts > checkout > pays by card": the first
// part names a folder or file by id, id suffix or name, every further part
// names a direct child by name.
func Resolve(tree []domain.TestNode, selector string) (domain.TestNode, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return domain.TestNode{}, fmt.Errorf("%w: empty selector", ErrNoMatch)
	}
	if node, ok := Find(tree, selector); ok {
		return node, nil
	}

	parts := strings.Split(selector, SelectorSeparator)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	candidates := findEntries(tree, parts[0])
	if len(candidates) == 0 {
		return domain.TestNode{}, fmt.Errorf("%w: %s", ErrNoMatch, selector)
	}
	if len(candidates) > 1 {
		return domain.TestNode{}, fmt.Errorf("%w: %s", ErrAmbiguous, selector)
	}

	node := candidates[0]
	for _, part := range parts[1:] {
		var matches []domain.TestNode
		for _, child := range node.Children {
			if child.Name == part {
				matches = append(matches, child)
			}
		}
		switch len(matches) {
		case 0:
			return domain.TestNode{}, fmt.Errorf("%w: %s", ErrNoMatch, selector)
		case 1:
			node = matches[0]
		default:
			return domain.TestNode{}, fmt.Errorf("%w: %s", ErrAmbiguous, selector)
		}
	}
	return node, nil
}

// findEntries returns the folders and files matching name
func findEntries(tree []domain.TestNode, name string) []domain.TestNode {
	var found []domain.TestNode
	for _, item := range tree {
		if item.Kind != domain.KindFolder && item.Kind != domain.KindFile {
			continue
		}
		if item.ID == name || item.Name == name || strings.HasSuffix(item.ID, "/"+name) {
			found = append(found, item)
		}
		found = append(found, findEntries(item.Children, name)...)
	}
	return found
}
