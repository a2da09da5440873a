// Package hierarchy reconstructs, caches and incrementally fetches the suite
// tree of a test plan. The remote service exposes suite containment either as
// a flat list with parent references or as an expensive per-node expansion;
// this package turns both into the same rooted tree shape.
package hierarchy

import "github.com/mbelozerov/caseline/internal/domain"

// Build converts a flat suite list into a display tree.
//
// Classification rules, applied per record in input order:
//   - no parent reference: root
//   - parent reference equal to the record's own id: root (a self-referential
//     record would otherwise become its own child)
//   - parent reference not present in the list (dangling): root
//   - otherwise: appended to the parent's children
//
// Exactly one root yields that node as the display root, usable in mutation
// calls. Zero or several roots are wrapped in a synthetic root that never
// leaves the client. Children keep input order.
func Build(records []domain.SuiteRecord) *domain.SuiteNode {
	nodes := make(map[int64]*domain.SuiteNode, len(records))
	ordered := make([]*domain.SuiteNode, 0, len(records))

	for _, rec := range records {
		n := &domain.SuiteNode{ID: rec.ID, Name: rec.Name, ParentID: rec.ParentID}
		nodes[rec.ID] = n
		ordered = append(ordered, n)
	}

	var roots []*domain.SuiteNode
	for _, n := range ordered {
		if n.ParentID == nil || *n.ParentID == n.ID {
			roots = append(roots, n)
			continue
		}
		parent, ok := nodes[*n.ParentID]
		if !ok {
			// Dangling reference: the parent was not part of the fetched
			// set, so the node surfaces as a root rather than vanishing.
			roots = append(roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
	}

	if len(roots) == 1 {
		return roots[0]
	}
	return domain.NewSyntheticRoot(roots)
}
