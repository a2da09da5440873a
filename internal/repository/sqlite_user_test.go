package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbelozerov/caseline/internal/domain"
	"github.com/mbelozerov/caseline/internal/repository"
	"github.com/mbelozerov/caseline/internal/testutil"
)

func TestUserRepo_CreateAndGet(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteUserRepo(database)
	ctx := context.Background()

	u := testutil.NewTestUser("dana", testutil.WithRole(domain.RoleLead), testutil.WithPushDirect(true))
	require.NoError(t, repo.Create(ctx, u))
	require.NotZero(t, u.ID)

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "dana", got.Username)
	assert.Equal(t, domain.RoleLead, got.Role)
	assert.Equal(t, testutil.TestOrgURL, got.OrgURL)
	assert.Equal(t, "test-pat", got.PersonalAccessToken)
	assert.True(t, got.CanPushDirect)
}

func TestUserRepo_GetByID_NotFound(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteUserRepo(database)

	_, err := repo.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepo_DuplicateUsernameSameOrg(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteUserRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestUser("dana")))
	err := repo.Create(ctx, testutil.NewTestUser("dana"))
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestUserRepo_SameUsernameDifferentOrg(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteUserRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestUser("dana")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestUser("dana",
		testutil.WithOrgURL("https://svc.example.com/globex"))))

	accounts, err := repo.FindByUsername(ctx, "dana")
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	// Ordered by org URL.
	assert.Equal(t, testutil.TestOrgURL, accounts[0].OrgURL)
	assert.Equal(t, "https://svc.example.com/globex", accounts[1].OrgURL)
}

func TestUserRepo_FindByUsername_Empty(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteUserRepo(database)

	accounts, err := repo.FindByUsername(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestUserRepo_ListByRole(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteUserRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestUser("zoe", testutil.WithRole(domain.RoleLead))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestUser("adam", testutil.WithRole(domain.RoleLead))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestUser("tess")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestUser("lea",
		testutil.WithRole(domain.RoleLead),
		testutil.WithOrgURL("https://svc.example.com/globex"))))

	leads, err := repo.ListByRole(ctx, domain.RoleLead, testutil.TestOrgURL)
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, "adam", leads[0].Username)
	assert.Equal(t, "zoe", leads[1].Username)

	all, err := repo.ListByRole(ctx, domain.RoleLead, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUserRepo_Update(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteUserRepo(database)
	ctx := context.Background()

	u := testutil.NewTestUser("dana")
	require.NoError(t, repo.Create(ctx, u))

	u.Role = domain.RoleLead
	u.CanPushDirect = true
	u.PersonalAccessToken = "rotated-pat"
	require.NoError(t, repo.Update(ctx, u))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleLead, got.Role)
	assert.True(t, got.CanPushDirect)
	assert.Equal(t, "rotated-pat", got.PersonalAccessToken)
}

func TestUserRepo_ActiveLogin(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteUserRepo(database)
	ctx := context.Background()

	_, err := repo.GetActive(ctx)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	dana := testutil.NewTestUser("dana")
	zoe := testutil.NewTestUser("zoe")
	require.NoError(t, repo.Create(ctx, dana))
	require.NoError(t, repo.Create(ctx, zoe))

	require.NoError(t, repo.SetActive(ctx, dana.ID))
	got, err := repo.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, dana.ID, got.ID)

	// A second login replaces the first; there is only one session.
	require.NoError(t, repo.SetActive(ctx, zoe.ID))
	got, err = repo.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, zoe.ID, got.ID)

	require.NoError(t, repo.ClearActive(ctx))
	_, err = repo.GetActive(ctx)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepo_Selection(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteUserRepo(database)
	ctx := context.Background()

	// No login means no row to hold a selection.
	err := repo.SaveSelection(ctx, "Webshop", 7, nil)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, _, _, err = repo.GetSelection(ctx)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	dana := testutil.NewTestUser("dana")
	require.NoError(t, repo.Create(ctx, dana))
	require.NoError(t, repo.SetActive(ctx, dana.ID))

	suite := int64(42)
	require.NoError(t, repo.SaveSelection(ctx, "Webshop", 7, &suite))

	project, planID, suiteID, err := repo.GetSelection(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Webshop", project)
	assert.Equal(t, int64(7), planID)
	require.NotNil(t, suiteID)
	assert.Equal(t, suite, *suiteID)

	// Logging in again resets the selection.
	require.NoError(t, repo.SetActive(ctx, dana.ID))
	project, planID, suiteID, err = repo.GetSelection(ctx)
	require.NoError(t, err)
	assert.Empty(t, project)
	assert.Zero(t, planID)
	assert.Nil(t, suiteID)
}
