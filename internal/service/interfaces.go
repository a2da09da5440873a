package service

import (
	"context"

	"github.com/mbelozerov/caseline/internal/domain"
	"github.com/mbelozerov/caseline/internal/hierarchy"
	"github.com/mbelozerov/caseline/internal/testsvc"
)

// Registration carries the fields of a new local account.
type Registration struct {
	Username            string
	Password            string
	Role                domain.Role
	OrgURL              string
	PersonalAccessToken string
}

// UserPatch is a partial user update. Nil fields are left unchanged.
type UserPatch struct {
	Role          *domain.Role
	CanPushDirect *bool
	Password      *string
}

type AuthService interface {
	Register(ctx context.Context, reg Registration) (*domain.User, error)
	// Login verifies credentials and persists the active session. When the
	// username exists in several organizations and orgURL is empty, it
	// returns *MultipleAccountsError carrying the choices.
	Login(ctx context.Context, username, password, orgURL string) (*domain.User, error)
	Logout(ctx context.Context) error
	ActiveUser(ctx context.Context) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	// FindUser resolves a username within one organization. With an empty
	// orgURL it succeeds only when the name is unambiguous, returning
	// *MultipleAccountsError otherwise.
	FindUser(ctx context.Context, username, orgURL string) (*domain.User, error)
	ListReviewers(ctx context.Context, orgURL string) ([]*domain.User, error)
	// UpdateUser applies an admin patch to another account.
	UpdateUser(ctx context.Context, actor *domain.User, userID int64, patch UserPatch) (*domain.User, error)
}

type SuiteService interface {
	Projects(ctx context.Context) ([]testsvc.ProjectRef, error)
	Plans(ctx context.Context, project string) ([]testsvc.PlanRef, error)
	// Tree returns the plan's suite tree, served from the cache when
	// possible and built from the flat listing otherwise.
	Tree(ctx context.Context, project string, planID int64) (*domain.SuiteNode, error)
	// TreeRecursive builds the tree by walking suites node by node,
	// reporting progress. The result is cached only on success.
	TreeRecursive(ctx context.Context, project string, planID int64, events chan<- hierarchy.ProgressEvent) (*domain.SuiteNode, error)
	CreateSuite(ctx context.Context, project string, planID int64, name string) (domain.SuiteRecord, error)
	ListCases(ctx context.Context, project string, planID, suiteID int64) ([]testsvc.RemoteCase, error)
}

// ReviewBatch groups pending cases sharing a target suite and an author, so
// a reviewer can decide them together.
type ReviewBatch struct {
	SuiteID  *int64
	AuthorID int64
	Cases    []*domain.CaseDraft
}

// ApproveOptions locates the remote destination of an approval. SuiteID, if
// set, overrides the draft's own suite; Project and PlanID fall back to the
// session selection when zero-valued.
type ApproveOptions struct {
	Project string
	PlanID  int64
	SuiteID *int64
}

type ReviewService interface {
	Draft(ctx context.Context, id int64) (*domain.CaseDraft, error)
	DraftsByAuthor(ctx context.Context, authorID int64) ([]*domain.CaseDraft, error)
	// SubmitDrafts stores drafts as pending, assigned to a reviewer who
	// must be a Lead in the author's organization.
	SubmitDrafts(ctx context.Context, author *domain.User, drafts []*domain.CaseDraft, suiteID *int64, reviewerID int64) error
	// PublishDirect pushes drafts straight to the remote suite, bypassing
	// review. Only users with direct-push permission may call it; the rows
	// are stored approved for audit.
	PublishDirect(ctx context.Context, author *domain.User, drafts []*domain.CaseDraft, project string, planID, suiteID int64) error
	PendingForReviewer(ctx context.Context, reviewerID int64) ([]ReviewBatch, error)
	// Approve publishes one pending case to the remote service and marks it
	// approved. The local status changes only after every remote call
	// succeeded; on failure the case stays pending.
	Approve(ctx context.Context, caseID int64, opts ApproveOptions) error
	// ApproveBatch approves the batch strictly in order, stopping at the
	// first failure. It returns how many cases were approved; earlier
	// approvals stand.
	ApproveBatch(ctx context.Context, batch ReviewBatch, opts ApproveOptions) (int, error)
	Reject(ctx context.Context, caseID int64) error
}
