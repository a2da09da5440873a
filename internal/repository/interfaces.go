package repository

import (
	"context"

	"github.com/mbelozerov/caseline/internal/domain"
)

// CaseFilter narrows case listings. Zero-valued fields are ignored.
type CaseFilter struct {
	Status     domain.CaseStatus
	AuthorID   int64
	ReviewerID int64
	OrgURL     string // matches the author's organization
}

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	// FindByUsername returns every account registered under the username,
	// one per organization.
	FindByUsername(ctx context.Context, username string) ([]*domain.User, error)
	ListByRole(ctx context.Context, role domain.Role, orgURL string) ([]*domain.User, error)
	Update(ctx context.Context, u *domain.User) error

	SetActive(ctx context.Context, userID int64) error
	GetActive(ctx context.Context) (*domain.User, error)
	ClearActive(ctx context.Context) error
}

// SelectionStore persists the project/plan/suite selection of the active
// login. SQLiteUserRepo implements it on the login_state row, so the
// selection lives and dies with the login.
type SelectionStore interface {
	SaveSelection(ctx context.Context, project string, planID int64, suiteID *int64) error
	// GetSelection returns ErrNotFound when nobody is logged in.
	GetSelection(ctx context.Context) (project string, planID int64, suiteID *int64, err error)
}

type CaseRepo interface {
	Create(ctx context.Context, c *domain.CaseDraft) error
	GetByID(ctx context.Context, id int64) (*domain.CaseDraft, error)
	List(ctx context.Context, f CaseFilter) ([]*domain.CaseDraft, error)
	// SetStatus transitions the status of a single case. The caller owns
	// transition legality; the repository records whatever it is given.
	SetStatus(ctx context.Context, id int64, status domain.CaseStatus) error
	// SetRemoteCaseID records the remote id assigned on publish.
	SetRemoteCaseID(ctx context.Context, id int64, remoteID int64) error
}
