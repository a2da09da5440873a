package hierarchy

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway serves a canned suite graph and records how many calls were
// in flight at once.
type fakeGateway struct {
	rootID  int64
	suites  map[int64]ShallowSuite
	failID  int64 // if set, fetching this suite fails
	rootErr error

	mu        sync.Mutex
	inFlight  int
	peak      int
	callCount int
}

func (g *fakeGateway) GetPlanRootSuiteID(ctx context.Context, project string, planID int64) (int64, error) {
	if g.rootErr != nil {
		return 0, g.rootErr
	}
	return g.rootID, nil
}

func (g *fakeGateway) GetSuiteShallow(ctx context.Context, project string, planID, suiteID int64) (ShallowSuite, error) {
	g.mu.Lock()
	g.inFlight++
	g.callCount++
	if g.inFlight > g.peak {
		g.peak = g.inFlight
	}
	g.mu.Unlock()
	defer func() {
		g.mu.Lock()
		g.inFlight--
		g.mu.Unlock()
	}()

	if suiteID == g.failID && g.failID != 0 {
		return ShallowSuite{}, errors.New("boom")
	}
	s, ok := g.suites[suiteID]
	if !ok {
		return ShallowSuite{}, errors.New("unknown suite")
	}
	return s, nil
}

func threeLevelGateway() *fakeGateway {
	return &fakeGateway{
		rootID: 1,
		suites: map[int64]ShallowSuite{
			1: {ID: 1, Name: "root", ChildIDs: []int64{2, 3}},
			2: {ID: 2, Name: "left", ChildIDs: []int64{4, 5}},
			3: {ID: 3, Name: "right", ChildIDs: nil},
			4: {ID: 4, Name: "left-a", ChildIDs: nil},
			5: {ID: 5, Name: "left-b", ChildIDs: nil},
		},
	}
}

func TestFetcher_BuildsTreeInReferenceOrder(t *testing.T) {
	f := NewFetcher(threeLevelGateway(), 0)

	root, err := f.Fetch(context.Background(), "Webshop", 7, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(1), root.ID)
	require.Len(t, root.Children, 2)
	assert.Equal(t, "left", root.Children[0].Name)
	assert.Equal(t, "right", root.Children[1].Name)
	require.Len(t, root.Children[0].Children, 2)
	assert.Equal(t, "left-a", root.Children[0].Children[0].Name)
	assert.Equal(t, "left-b", root.Children[0].Children[1].Name)
	assert.Empty(t, root.Children[1].Children)

	// Parent ids are filled in on the way down.
	leftA := root.Find(4)
	require.NotNil(t, leftA)
	require.NotNil(t, leftA.ParentID)
	assert.Equal(t, int64(2), *leftA.ParentID)
}

func TestFetcher_EmitsOneEventPerNode(t *testing.T) {
	gw := threeLevelGateway()
	f := NewFetcher(gw, 0)

	events := make(chan ProgressEvent, 32)
	_, err := f.Fetch(context.Background(), "Webshop", 7, events)
	require.NoError(t, err)
	close(events)

	var counts []int
	names := map[string]bool{}
	for ev := range events {
		counts = append(counts, ev.Current)
		names[ev.Name] = true
	}

	assert.Len(t, counts, len(gw.suites))
	for _, s := range gw.suites {
		assert.True(t, names[s.Name], "missing progress event for %s", s.Name)
	}
	// Counts are unique and cover 1..n, in whatever arrival order.
	seen := map[int]bool{}
	for _, c := range counts {
		assert.False(t, seen[c], "duplicate progress count %d", c)
		seen[c] = true
		assert.GreaterOrEqual(t, c, 1)
		assert.LessOrEqual(t, c, len(gw.suites))
	}
}

func TestFetcher_NodeFailureAbortsWalk(t *testing.T) {
	gw := threeLevelGateway()
	gw.failID = 4
	f := NewFetcher(gw, 0)

	root, err := f.Fetch(context.Background(), "Webshop", 7, nil)
	require.Error(t, err)
	assert.Nil(t, root, "no partial tree on failure")
	assert.Contains(t, err.Error(), "fetching suite 4")
}

func TestFetcher_RootResolutionFailure(t *testing.T) {
	gw := &fakeGateway{rootErr: errors.New("plan has no root suite")}
	f := NewFetcher(gw, 0)

	_, err := f.Fetch(context.Background(), "Webshop", 7, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolving root suite")
	assert.Zero(t, gw.callCount)
}

func TestFetcher_RespectsInFlightCap(t *testing.T) {
	// A wide level: one root with many children.
	gw := &fakeGateway{rootID: 1, suites: map[int64]ShallowSuite{}}
	var childIDs []int64
	for id := int64(2); id < 42; id++ {
		childIDs = append(childIDs, id)
		gw.suites[id] = ShallowSuite{ID: id, Name: "leaf"}
	}
	gw.suites[1] = ShallowSuite{ID: 1, Name: "root", ChildIDs: childIDs}

	f := NewFetcher(gw, 4)
	root, err := f.Fetch(context.Background(), "Webshop", 7, nil)
	require.NoError(t, err)
	assert.Len(t, root.Children, 40)
	assert.LessOrEqual(t, gw.peak, 4, "in-flight requests must not exceed the cap")
}

func TestFetcher_NilEventsChannelAllowed(t *testing.T) {
	f := NewFetcher(threeLevelGateway(), 0)
	_, err := f.Fetch(context.Background(), "Webshop", 7, nil)
	assert.NoError(t, err)
}

func TestFetcher_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gw := threeLevelGateway()
	gw.rootErr = ctx.Err()
	f := NewFetcher(gw, 0)

	_, err := f.Fetch(ctx, "Webshop", 7, nil)
	assert.Error(t, err)
}
