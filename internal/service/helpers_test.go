package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mbelozerov/caseline/internal/db"
	"github.com/mbelozerov/caseline/internal/domain"
	"github.com/mbelozerov/caseline/internal/repository"
	"github.com/mbelozerov/caseline/internal/testutil"
)

type fixture struct {
	db      *sql.DB
	users   *repository.SQLiteUserRepo
	cases   *repository.SQLiteCaseRepo
	uow     db.UnitOfWork
	remote  *testutil.FakeTestService
	session *Session
}

func setup(t *testing.T) fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	return fixture{
		db:      database,
		users:   repository.NewSQLiteUserRepo(database),
		cases:   repository.NewSQLiteCaseRepo(database),
		uow:     testutil.NewTestUoW(database),
		remote:  testutil.NewFakeTestService(),
		session: NewSession(),
	}
}

func (f fixture) reviewService() ReviewService {
	return NewReviewService(f.cases, f.users, f.remote, f.session, f.uow)
}

func mustCreateUser(t *testing.T, f fixture, u *domain.User) *domain.User {
	t.Helper()
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func mustCreateCase(t *testing.T, f fixture, c *domain.CaseDraft) *domain.CaseDraft {
	t.Helper()
	require.NoError(t, f.cases.Create(context.Background(), c))
	return c
}
