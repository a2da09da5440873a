package domain

// SyntheticRootName is the display name of a synthetic root node.
const SyntheticRootName = "Plan Root"

// SuiteRecord is one entry of the flat suite list served by the remote
// service, with the parent reference already normalized to an optional id.
// The remote API reports parents as either a bare id or an object carrying
// an id; that ambiguity is resolved at the gateway and never reaches here.
type SuiteRecord struct {
	ID       int64
	Name     string
	ParentID *int64
}

// SuiteNode is one node of a reconstructed suite tree. Children preserve the
// order of the source list; they are never sorted. A node belongs to exactly
// one tree instance; trees are rebuilt rather than mutated in place.
type SuiteNode struct {
	ID       int64
	Name     string
	ParentID *int64
	Children []*SuiteNode

	// Synthetic marks a wrapper root that does not exist in the remote
	// service. Synthetic nodes must never appear in a mutation call.
	Synthetic bool
}

// NewSyntheticRoot wraps zero or more rootless nodes in a display-only root.
func NewSyntheticRoot(children []*SuiteNode) *SuiteNode {
	return &SuiteNode{Name: SyntheticRootName, Children: children, Synthetic: true}
}

// Count returns the number of real (non-synthetic) nodes in the tree.
func (n *SuiteNode) Count() int {
	if n == nil {
		return 0
	}
	total := 0
	if !n.Synthetic {
		total = 1
	}
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

// Find returns the descendant (or n itself) with the given id, or nil.
func (n *SuiteNode) Find(id int64) *SuiteNode {
	if n == nil {
		return nil
	}
	if !n.Synthetic && n.ID == id {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(id); found != nil {
			return found
		}
	}
	return nil
}
