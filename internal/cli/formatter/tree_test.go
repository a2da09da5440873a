package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mbelozerov/caseline/internal/domain"
)

func node(id int64, name string, children ...*domain.SuiteNode) *domain.SuiteNode {
	return &domain.SuiteNode{ID: id, Name: name, Children: children}
}

func TestRenderSuiteTree(t *testing.T) {
	root := node(1, "Root",
		node(2, "Login",
			node(4, "Happy path")),
		node(3, "Checkout"))

	out := RenderSuiteTree(root, nil)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)

	assert.Contains(t, lines[0], "Root")
	assert.Contains(t, lines[1], treeBranch)
	assert.Contains(t, lines[1], "Login")
	assert.Contains(t, lines[2], treeCorner)
	assert.Contains(t, lines[2], "Happy path")
	// Checkout is the last child of the root.
	assert.Contains(t, lines[3], treeCorner)
	assert.Contains(t, lines[3], "Checkout")
	// Grandchild lines under a non-last child carry the pipe.
	assert.Contains(t, lines[2], treePipe)
}

func TestRenderSuiteTree_SyntheticRootHasNoID(t *testing.T) {
	root := domain.NewSyntheticRoot([]*domain.SuiteNode{node(2, "Orphan")})

	out := RenderSuiteTree(root, nil)
	assert.Contains(t, out, domain.SyntheticRootName)
	assert.NotContains(t, strings.Split(out, "\n")[0], "#")
}

func TestRenderSuiteTree_SelectionMarker(t *testing.T) {
	root := node(1, "Root", node(2, "Login"))
	sel := int64(2)

	out := RenderSuiteTree(root, &sel)
	assert.Contains(t, out, "◀")

	out = RenderSuiteTree(root, nil)
	assert.NotContains(t, out, "◀")
}

func TestRenderSuiteTree_Nil(t *testing.T) {
	assert.Contains(t, RenderSuiteTree(nil, nil), "no suites")
}
