package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbelozerov/caseline/internal/testutil"
)

func TestSession_SelectionClearing(t *testing.T) {
	s := NewSession()

	s.SelectProject("Webshop")
	s.SelectPlan(7)
	s.SelectSuite(42)

	project, planID, suiteID := s.Selection()
	assert.Equal(t, "Webshop", project)
	assert.Equal(t, int64(7), planID)
	require.NotNil(t, suiteID)
	assert.Equal(t, int64(42), *suiteID)

	// A new plan invalidates the suite, a new project invalidates both.
	s.SelectPlan(8)
	_, planID, suiteID = s.Selection()
	assert.Equal(t, int64(8), planID)
	assert.Nil(t, suiteID)

	s.SelectSuite(42)
	s.SelectProject("Billing")
	project, planID, suiteID = s.Selection()
	assert.Equal(t, "Billing", project)
	assert.Zero(t, planID)
	assert.Nil(t, suiteID)
}

func TestSession_PersistRestore(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	u := mustCreateUser(t, f, testutil.NewTestUser("dana"))
	require.NoError(t, f.users.SetActive(ctx, u.ID))

	s := NewPersistentSession(f.users)
	s.SelectProject("Webshop")
	s.SelectPlan(7)
	s.SelectSuite(42)
	require.NoError(t, s.Persist(ctx))

	// A fresh session, as created on the next invocation, sees the same
	// selection.
	fresh := NewPersistentSession(f.users)
	require.NoError(t, fresh.Restore(ctx))
	project, planID, suiteID := fresh.Selection()
	assert.Equal(t, "Webshop", project)
	assert.Equal(t, int64(7), planID)
	require.NotNil(t, suiteID)
	assert.Equal(t, int64(42), *suiteID)
}

func TestSession_PersistWithoutStoreIsNoop(t *testing.T) {
	s := NewSession()
	s.SelectProject("Webshop")
	assert.NoError(t, s.Persist(context.Background()))
	assert.NoError(t, s.Restore(context.Background()))
}
