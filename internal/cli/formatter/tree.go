package formatter

import (
	"fmt"
	"strings"

	"github.com/mbelozerov/caseline/internal/domain"
)

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeGap    = "   "
)

// RenderSuiteTree renders a suite hierarchy using box-drawing connectors.
// The synthetic plan root is shown dimmed since it does not exist remotely.
// selected, if non-nil, marks one suite with a pointer.
func RenderSuiteTree(root *domain.SuiteNode, selected *int64) string {
	if root == nil {
		return Dim("(no suites)")
	}
	var b strings.Builder
	renderSuiteNode(&b, root, "", true, true, selected)
	return b.String()
}

func renderSuiteNode(b *strings.Builder, n *domain.SuiteNode, prefix string, isLast, isRoot bool, selected *int64) {
	var connector string
	if !isRoot {
		if isLast {
			connector = treeCorner
		} else {
			connector = treeBranch
		}
	}

	label := n.Name
	if n.Synthetic {
		label = Dim(label)
	} else {
		label = StyleFg.Render(label) + Dim(fmt.Sprintf(" #%d", n.ID))
	}
	if selected != nil && !n.Synthetic && n.ID == *selected {
		label += StyleYellowBold.Render(" ◀")
	}

	b.WriteString(prefix + connector + label + "\n")

	childPrefix := prefix
	if !isRoot {
		if isLast {
			childPrefix += treeGap
		} else {
			childPrefix += treePipe
		}
	}
	for i, child := range n.Children {
		renderSuiteNode(b, child, childPrefix, i == len(n.Children)-1, false, selected)
	}
}
