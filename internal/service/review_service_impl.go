package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mbelozerov/caseline/internal/db"
	"github.com/mbelozerov/caseline/internal/domain"
	"github.com/mbelozerov/caseline/internal/repository"
	"github.com/mbelozerov/caseline/internal/testsvc"
)

type reviewService struct {
	cases   repository.CaseRepo
	users   repository.UserRepo
	client  testsvc.Client
	session *Session
	uow     db.UnitOfWork
}

func NewReviewService(cases repository.CaseRepo, users repository.UserRepo, client testsvc.Client, session *Session, uow db.UnitOfWork) ReviewService {
	return &reviewService{
		cases:   cases,
		users:   users,
		client:  client,
		session: session,
		uow:     uow,
	}
}

func (s *reviewService) Draft(ctx context.Context, id int64) (*domain.CaseDraft, error) {
	return s.cases.GetByID(ctx, id)
}

func (s *reviewService) DraftsByAuthor(ctx context.Context, authorID int64) ([]*domain.CaseDraft, error) {
	return s.cases.List(ctx, repository.CaseFilter{AuthorID: authorID})
}

func (s *reviewService) SubmitDrafts(ctx context.Context, author *domain.User, drafts []*domain.CaseDraft, suiteID *int64, reviewerID int64) error {
	if len(drafts) == 0 {
		return fmt.Errorf("no drafts to submit")
	}

	reviewer, err := s.users.GetByID(ctx, reviewerID)
	if err != nil {
		return fmt.Errorf("resolving reviewer: %w", err)
	}
	if reviewer.Role != domain.RoleLead || reviewer.OrgURL != author.OrgURL {
		return fmt.Errorf("reviewer %q must be a lead in the author's organization: %w",
			reviewer.Username, ErrNotAuthorized)
	}

	now := time.Now().UTC()
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txCases := repository.NewSQLiteCaseRepo(tx)
		for _, d := range drafts {
			d.AuthorID = author.ID
			d.Status = domain.CasePending
			d.AssignedReviewerID = &reviewerID
			if d.SuiteID == nil {
				d.SuiteID = suiteID
			}
			if d.CreatedAt.IsZero() {
				d.CreatedAt = now
			}
			if err := txCases.Create(ctx, d); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *reviewService) PublishDirect(ctx context.Context, author *domain.User, drafts []*domain.CaseDraft, project string, planID, suiteID int64) error {
	if !author.CanPublishDirect() {
		return fmt.Errorf("user %q may not publish without review: %w", author.Username, ErrNotAuthorized)
	}

	for _, d := range drafts {
		remoteID, err := s.client.CreateCase(ctx, project, caseFieldsFromDraft(d))
		if err != nil {
			return fmt.Errorf("publishing %q: %w", d.Title, err)
		}
		if err := s.client.LinkCaseToSuite(ctx, project, planID, suiteID, remoteID); err != nil {
			return fmt.Errorf("linking %q: %w", d.Title, err)
		}

		d.AuthorID = author.ID
		d.Status = domain.CaseApproved
		d.SuiteID = &suiteID
		d.RemoteCaseID = &remoteID
		if d.CreatedAt.IsZero() {
			d.CreatedAt = time.Now().UTC()
		}
		if err := s.cases.Create(ctx, d); err != nil {
			return fmt.Errorf("recording published case %q: %w", d.Title, err)
		}
	}
	return nil
}

// batchKey groups pending cases for review. Cases without a suite group
// together under hasSuite=false.
type batchKey struct {
	suiteID  int64
	hasSuite bool
	authorID int64
}

func (s *reviewService) PendingForReviewer(ctx context.Context, reviewerID int64) ([]ReviewBatch, error) {
	pending, err := s.cases.List(ctx, repository.CaseFilter{
		Status:     domain.CasePending,
		ReviewerID: reviewerID,
	})
	if err != nil {
		return nil, err
	}

	var batches []ReviewBatch
	index := map[batchKey]int{}
	for _, c := range pending {
		key := batchKey{authorID: c.AuthorID}
		if c.SuiteID != nil {
			key.suiteID = *c.SuiteID
			key.hasSuite = true
		}
		i, ok := index[key]
		if !ok {
			i = len(batches)
			index[key] = i
			batches = append(batches, ReviewBatch{SuiteID: c.SuiteID, AuthorID: c.AuthorID})
		}
		batches[i].Cases = append(batches[i].Cases, c)
	}
	return batches, nil
}

func (s *reviewService) Approve(ctx context.Context, caseID int64, opts ApproveOptions) error {
	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		return err
	}
	if c.Status != domain.CasePending {
		return fmt.Errorf("case %d is %s: %w", caseID, c.Status, ErrNotPending)
	}

	project, planID := opts.Project, opts.PlanID
	if project == "" || planID == 0 {
		sessProject, sessPlan, _ := s.session.Selection()
		if project == "" {
			project = sessProject
		}
		if planID == 0 {
			planID = sessPlan
		}
	}
	if project == "" || planID == 0 {
		return fmt.Errorf("approving case %d: no project and plan selected", caseID)
	}

	if c.IsUpdate() {
		// The case already exists remotely; approval re-publishes content.
		if err := s.client.UpdateCase(ctx, project, *c.RemoteCaseID, caseFieldsFromDraft(c)); err != nil {
			return fmt.Errorf("updating remote case %d: %w", *c.RemoteCaseID, err)
		}
		return s.cases.SetStatus(ctx, caseID, domain.CaseApproved)
	}

	suiteID, err := s.resolveSuite(c, opts)
	if err != nil {
		return err
	}

	remoteID, err := s.client.CreateCase(ctx, project, caseFieldsFromDraft(c))
	if err != nil {
		return fmt.Errorf("creating remote case for %q: %w", c.Title, err)
	}
	if err := s.client.LinkCaseToSuite(ctx, project, planID, suiteID, remoteID); err != nil {
		return fmt.Errorf("linking remote case %d: %w", remoteID, err)
	}

	// Both local writes land together; a failure rolls back to PENDING
	// with no remote id recorded.
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txCases := repository.NewSQLiteCaseRepo(tx)
		if err := txCases.SetRemoteCaseID(ctx, caseID, remoteID); err != nil {
			return err
		}
		return txCases.SetStatus(ctx, caseID, domain.CaseApproved)
	})
}

// resolveSuite picks the destination suite: the draft's own target wins,
// then the explicit override, then the session selection.
func (s *reviewService) resolveSuite(c *domain.CaseDraft, opts ApproveOptions) (int64, error) {
	if c.SuiteID != nil {
		return *c.SuiteID, nil
	}
	if opts.SuiteID != nil {
		return *opts.SuiteID, nil
	}
	if _, _, sessSuite := s.session.Selection(); sessSuite != nil {
		return *sessSuite, nil
	}
	return 0, fmt.Errorf("case %d: %w", c.ID, ErrNoSuiteResolved)
}

func (s *reviewService) ApproveBatch(ctx context.Context, batch ReviewBatch, opts ApproveOptions) (int, error) {
	if opts.SuiteID == nil {
		opts.SuiteID = batch.SuiteID
	}
	for i, c := range batch.Cases {
		if err := s.Approve(ctx, c.ID, opts); err != nil {
			return i, fmt.Errorf("batch stopped at case %d: %w", c.ID, err)
		}
	}
	return len(batch.Cases), nil
}

func (s *reviewService) Reject(ctx context.Context, caseID int64) error {
	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		return err
	}
	if c.Status != domain.CasePending {
		return fmt.Errorf("case %d is %s: %w", caseID, c.Status, ErrNotPending)
	}
	return s.cases.SetStatus(ctx, caseID, domain.CaseRejected)
}

func caseFieldsFromDraft(c *domain.CaseDraft) testsvc.CaseFields {
	return testsvc.CaseFields{
		Title:          c.Title,
		Steps:          c.Steps,
		Preconditions:  c.Preconditions,
		ExpectedResult: c.ExpectedResult,
		TestType:       c.TestType,
	}
}
