package hierarchy

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/mbelozerov/caseline/internal/domain"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxInFlight caps concurrent suite fetches within one tree level.
const DefaultMaxInFlight = 16

// ShallowSuite is a single suite with one level of child references,
// as returned by the per-node expansion endpoint.
type ShallowSuite struct {
	ID       int64
	Name     string
	ChildIDs []int64
}

// Gateway is the slice of the remote client the fetcher needs.
type Gateway interface {
	GetPlanRootSuiteID(ctx context.Context, project string, planID int64) (int64, error)
	GetSuiteShallow(ctx context.Context, project string, planID, suiteID int64) (ShallowSuite, error)
}

// ProgressEvent is emitted once per fetched suite. Current increases
// monotonically; event order across concurrently fetched siblings is
// unspecified.
type ProgressEvent struct {
	Current int
	Name    string
}

// Fetcher builds a suite tree by walking the per-node expansion endpoint.
// It is the fallback path for plans where the flat listing is unavailable
// or not trusted.
type Fetcher struct {
	gw          Gateway
	maxInFlight int
}

// NewFetcher creates a Fetcher. maxInFlight <= 0 uses DefaultMaxInFlight.
func NewFetcher(gw Gateway, maxInFlight int) *Fetcher {
	if maxInFlight <= 0 {
		maxInFlight = DefaultMaxInFlight
	}
	return &Fetcher{gw: gw, maxInFlight: maxInFlight}
}

// slot is one node scheduled for fetching: where it attaches and which
// remote suite it resolves.
type slot struct {
	parent *domain.SuiteNode // nil for the plan root
	id     int64
}

// Fetch walks the plan's suite tree level by level: all suites of one level
// are requested concurrently (bounded by maxInFlight), then their child
// references seed the next level. Children attach in reference order
// regardless of response timing.
//
// events, if non-nil, receives one ProgressEvent per fetched suite; sends
// never block, so a slow consumer loses events rather than stalling the walk.
// The first failed node fetch aborts the walk and no partial tree is
// returned.
func (f *Fetcher) Fetch(ctx context.Context, project string, planID int64, events chan<- ProgressEvent) (*domain.SuiteNode, error) {
	rootID, err := f.gw.GetPlanRootSuiteID(ctx, project, planID)
	if err != nil {
		return nil, fmt.Errorf("resolving root suite of plan %d: %w", planID, err)
	}

	var fetched atomic.Int64
	emit := func(name string) {
		current := int(fetched.Add(1))
		if events == nil {
			return
		}
		select {
		case events <- ProgressEvent{Current: current, Name: name}:
		default:
		}
	}

	var root *domain.SuiteNode
	level := []slot{{id: rootID}}

	for len(level) > 0 {
		results := make([]ShallowSuite, len(level))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(f.maxInFlight)
		for i, s := range level {
			g.Go(func() error {
				suite, err := f.gw.GetSuiteShallow(gctx, project, planID, s.id)
				if err != nil {
					return fmt.Errorf("fetching suite %d: %w", s.id, err)
				}
				results[i] = suite
				emit(suite.Name)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		// Attach in slot order so sibling order matches the child
		// references, not response arrival.
		var next []slot
		for i, s := range level {
			node := &domain.SuiteNode{ID: results[i].ID, Name: results[i].Name}
			if s.parent == nil {
				root = node
			} else {
				pid := s.parent.ID
				node.ParentID = &pid
				s.parent.Children = append(s.parent.Children, node)
			}
			for _, childID := range results[i].ChildIDs {
				next = append(next, slot{parent: node, id: childID})
			}
		}
		level = next
	}

	return root, nil
}
