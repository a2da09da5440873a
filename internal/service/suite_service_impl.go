package service

import (
	"context"
	"fmt"

	"github.com/mbelozerov/caseline/internal/domain"
	"github.com/mbelozerov/caseline/internal/hierarchy"
	"github.com/mbelozerov/caseline/internal/testsvc"
)

type suiteService struct {
	client      testsvc.Client
	session     *Session
	fetcher     *hierarchy.Fetcher
	disableFlat bool
}

func NewSuiteService(client testsvc.Client, session *Session, cfg testsvc.Config) SuiteService {
	return &suiteService{
		client:      client,
		session:     session,
		fetcher:     hierarchy.NewFetcher(client, cfg.MaxInFlight),
		disableFlat: cfg.DisableFlatList,
	}
}

func (s *suiteService) Projects(ctx context.Context) ([]testsvc.ProjectRef, error) {
	return s.client.ListProjects(ctx)
}

func (s *suiteService) Plans(ctx context.Context, project string) ([]testsvc.PlanRef, error) {
	return s.client.ListPlans(ctx, project)
}

func (s *suiteService) Tree(ctx context.Context, project string, planID int64) (*domain.SuiteNode, error) {
	key := hierarchy.Key{Project: project, PlanID: planID}
	if root, ok := s.session.Cache().Get(key); ok {
		return root, nil
	}
	if s.disableFlat {
		return s.TreeRecursive(ctx, project, planID, nil)
	}

	records, err := s.client.ListSuitesFlat(ctx, project, planID)
	if err != nil {
		return nil, err
	}
	root := hierarchy.Build(records)
	s.session.Cache().Put(key, root)
	return root, nil
}

func (s *suiteService) TreeRecursive(ctx context.Context, project string, planID int64, events chan<- hierarchy.ProgressEvent) (*domain.SuiteNode, error) {
	root, err := s.fetcher.Fetch(ctx, project, planID, events)
	if err != nil {
		return nil, err
	}
	s.session.Cache().Put(hierarchy.Key{Project: project, PlanID: planID}, root)
	return root, nil
}

func (s *suiteService) CreateSuite(ctx context.Context, project string, planID int64, name string) (domain.SuiteRecord, error) {
	if name == "" {
		return domain.SuiteRecord{}, fmt.Errorf("suite name is required")
	}

	// The cached tree is dropped even when the create fails: an ambiguous
	// failure (timeout after the request reached the service) may still
	// have created the suite remotely.
	defer s.session.Cache().Invalidate(hierarchy.Key{Project: project, PlanID: planID})

	return s.client.CreateSuite(ctx, project, planID, name)
}

func (s *suiteService) ListCases(ctx context.Context, project string, planID, suiteID int64) ([]testsvc.RemoteCase, error) {
	return s.client.ListCasesForSuite(ctx, project, planID, suiteID)
}
