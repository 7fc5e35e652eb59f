package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pwr/internal/domain"
)

func caseNode(id string) domain.TestNode {
	return domain.TestNode{ID: id, Name: id, Kind: domain.KindCase}
}

// tests/
//   a.spec.ts
//     suite
//       c1
//       c2
//     c3
//   b.spec.ts
//     c4
//   helpers.ts
func sampleTree() []domain.TestNode {
	return []domain.TestNode{
		{
			ID:   "tests",
			Name: "tests",
			Kind: domain.KindFolder,
			Children: []domain.TestNode{
				{
					ID:   "a",
					Name: "a.spec.ts",
					Kind: domain.KindFile,
					Children: []domain.TestNode{
						{ID: "suite", Name: "suite", Kind: domain.KindSuite, Children: []domain.TestNode{caseNode("c1"), caseNode("c2")}},
						caseNode("c3"),
					},
					Count: 3,
				},
				{ID: "b", Name: "b.spec.ts", Kind: domain.KindFile, Children: []domain.TestNode{caseNode("c4")}, Count: 1},
				{ID: "helpers", Name: "helpers.ts", Kind: domain.KindFile},
			},
		},
	}
}

// assertCheckedAND verifies that every internal node is the AND of its children
func assertCheckedAND(t *testing.T, tree []domain.TestNode) {
	t.Helper()
	for _, node := range tree {
		if !node.HasChildren() {
			continue
		}
		all := true
		for _, child := range node.Children {
			all = all && child.Checked
		}
		assert.Equal(t, all, node.Checked, "node %s", node.ID)
		assertCheckedAND(t, node.Children)
	}
}

func checked(t *testing.T, tree []domain.TestNode, id string) bool {
	t.Helper()
	node, ok := Find(tree, id)
	require.True(t, ok, "node %s not found", id)
	return node.Checked
}

func TestToggle_LeafPropagatesUp(t *testing.T) {
	tree := sampleTree()

	t.Run("only case of a file checks the file", func(t *testing.T) {
		updated := Toggle(tree, "c4")
		assert.True(t, checked(t, updated, "c4"))
		assert.True(t, checked(t, updated, "b"))
		assert.False(t, checked(t, updated, "tests"))
		assertCheckedAND(t, updated)
	})

	t.Run("file stays unchecked until all siblings are checked", func(t *testing.T) {
		updated := Toggle(tree, "c3")
		assert.True(t, checked(t, updated, "c3"))
		assert.False(t, checked(t, updated, "a"))

		updated = Toggle(updated, "c1")
		updated = Toggle(updated, "c2")
		assert.True(t, checked(t, updated, "suite"))
		assert.True(t, checked(t, updated, "a"))
		assertCheckedAND(t, updated)
	})

	t.Run("checking a case leaves its siblings alone", func(t *testing.T) {
		updated := Toggle(tree, "c1")
		updated = Toggle(updated, "c2")
		assert.True(t, checked(t, updated, "c1"))
		assert.True(t, checked(t, updated, "c2"))
	})

	t.Run("unchecking a case unchecks its ancestors", func(t *testing.T) {
		updated := Toggle(tree, "tests")
		updated = Toggle(updated, "c2")
		assert.False(t, checked(t, updated, "c2"))
		assert.False(t, checked(t, updated, "suite"))
		assert.False(t, checked(t, updated, "a"))
		assert.False(t, checked(t, updated, "tests"))
		assert.True(t, checked(t, updated, "c1"))
		assert.True(t, checked(t, updated, "b"))
		assertCheckedAND(t, updated)
	})
}

func TestToggle_InternalNodeSetsSubtree(t *testing.T) {
	tree := sampleTree()

	updated := Toggle(tree, "a")
	for _, id := range []string{"a", "suite", "c1", "c2", "c3"} {
		assert.True(t, checked(t, updated, id), id)
	}
	assert.False(t, checked(t, updated, "tests"))

	updated = Toggle(updated, "tests")
	for _, id := range []string{"tests", "a", "b", "helpers", "c4"} {
		assert.True(t, checked(t, updated, id), id)
	}

	updated = Toggle(updated, "tests")
	assert.Zero(t, CheckedCaseCount(updated))
	assertCheckedAND(t, updated)
}

func TestToggle_IsPure(t *testing.T) {
	tree := sampleTree()
	before := sampleTree()

	updated := Toggle(tree, "c1")
	updated = Toggle(updated, "tests")

	assert.Equal(t, before, tree)
	assert.NotEqual(t, tree, updated)
}

func TestToggle_UnknownID(t *testing.T) {
	tree := sampleTree()
	assert.Equal(t, tree, Toggle(tree, "missing"))
}

func TestCheck(t *testing.T) {
	tree := sampleTree()

	updated := Check(tree, "c4", true)
	assert.True(t, checked(t, updated, "c4"))

	again := Check(updated, "c4", true)
	assert.True(t, checked(t, again, "c4"), "checking twice keeps it checked")

	cleared := Check(again, "b", false)
	assert.False(t, checked(t, cleared, "c4"))
}

func TestToggleExpanded(t *testing.T) {
	tree := sampleTree()
	updated := ToggleExpanded(tree, "suite")

	node, ok := Find(updated, "suite")
	require.True(t, ok)
	assert.True(t, node.Expanded)

	original, _ := Find(tree, "suite")
	assert.False(t, original.Expanded)
}

func TestGates(t *testing.T) {
	tests := []struct {
		name       string
		tree       []domain.TestNode
		selectable bool
		canRun     bool
	}{
		{
			name:       "nothing checked",
			tree:       sampleTree(),
			selectable: true,
			canRun:     false,
		},
		{
			name:       "one case checked",
			tree:       Toggle(sampleTree(), "c3"),
			selectable: true,
			canRun:     true,
		},
		{
			name: "only empty spec files",
			tree: Toggle([]domain.TestNode{
				{ID: "empty", Name: "empty.spec.ts", Kind: domain.KindFile},
			}, "empty"),
			selectable: false,
			canRun:     false,
		},
		{
			name:       "empty tree",
			tree:       nil,
			selectable: false,
			canRun:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := New(tt.tree)
			assert.Equal(t, tt.selectable, tree.Selectable)
			assert.Equal(t, tt.canRun, tree.CanRun())
		})
	}
}

func TestTree_Methods(t *testing.T) {
	tree := New(sampleTree())

	tree = tree.Toggle("suite").Check("c4", true)
	assert.Equal(t, 3, CheckedCaseCount(tree.Roots))
	assert.Equal(t, []string{"c1", "c2", "c4"}, CheckedCaseIDs(tree.Roots))
	assert.True(t, tree.CanRun())
}
