package testutil

import (
	"context"
	"sync"

	"github.com/mbelozerov/caseline/internal/domain"
	"github.com/mbelozerov/caseline/internal/hierarchy"
	"github.com/mbelozerov/caseline/internal/testsvc"
)

// FakeTestService is an in-memory testsvc.Client. Responses are configured by
// populating the public fields; every mutating call is recorded so tests can
// assert on what reached the remote side.
//
// Any of the Err fields, when set, is returned by the corresponding call
// before it takes effect.
type FakeTestService struct {
	mu sync.Mutex

	Projects []testsvc.ProjectRef
	Plans    map[string][]testsvc.PlanRef            // by project
	Suites   map[string][]domain.SuiteRecord         // by project; flat lists
	Shallow  map[int64]hierarchy.ShallowSuite        // by suite id
	RootIDs  map[int64]int64                         // plan id -> root suite id
	Cases    map[int64][]testsvc.RemoteCase          // by suite id

	NextSuiteID int64
	NextCaseID  int64

	ListFlatErr    error
	RootErr        error
	ShallowErr     error
	CreateSuiteErr error
	CreateCaseErr  error
	UpdateCaseErr  error
	LinkErr        error

	FlatCalls        int
	CreatedSuites    []string
	CreatedCases     []testsvc.CaseFields
	UpdatedCases     map[int64]testsvc.CaseFields
	Links            [][2]int64 // (suiteID, remoteCaseID)
}

func NewFakeTestService() *FakeTestService {
	return &FakeTestService{
		Plans:        map[string][]testsvc.PlanRef{},
		Suites:       map[string][]domain.SuiteRecord{},
		Shallow:      map[int64]hierarchy.ShallowSuite{},
		RootIDs:      map[int64]int64{},
		Cases:        map[int64][]testsvc.RemoteCase{},
		UpdatedCases: map[int64]testsvc.CaseFields{},
		NextSuiteID:  1000,
		NextCaseID:   5000,
	}
}

func (f *FakeTestService) ListProjects(context.Context) ([]testsvc.ProjectRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Projects, nil
}

func (f *FakeTestService) ListPlans(_ context.Context, project string) ([]testsvc.PlanRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Plans[project], nil
}

func (f *FakeTestService) ListSuitesFlat(_ context.Context, project string, _ int64) ([]domain.SuiteRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.FlatCalls++
	if f.ListFlatErr != nil {
		return nil, f.ListFlatErr
	}
	return f.Suites[project], nil
}

func (f *FakeTestService) GetPlanRootSuiteID(_ context.Context, _ string, planID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.RootErr != nil {
		return 0, f.RootErr
	}
	return f.RootIDs[planID], nil
}

func (f *FakeTestService) GetSuiteShallow(_ context.Context, _ string, _, suiteID int64) (hierarchy.ShallowSuite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ShallowErr != nil {
		return hierarchy.ShallowSuite{}, f.ShallowErr
	}
	return f.Shallow[suiteID], nil
}

func (f *FakeTestService) CreateSuite(_ context.Context, project string, _ int64, name string) (domain.SuiteRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateSuiteErr != nil {
		return domain.SuiteRecord{}, f.CreateSuiteErr
	}
	f.NextSuiteID++
	rec := domain.SuiteRecord{ID: f.NextSuiteID, Name: name}
	f.Suites[project] = append(f.Suites[project], rec)
	f.CreatedSuites = append(f.CreatedSuites, name)
	return rec, nil
}

func (f *FakeTestService) CreateCase(_ context.Context, _ string, fields testsvc.CaseFields) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateCaseErr != nil {
		return 0, f.CreateCaseErr
	}
	f.NextCaseID++
	f.CreatedCases = append(f.CreatedCases, fields)
	return f.NextCaseID, nil
}

func (f *FakeTestService) UpdateCase(_ context.Context, _ string, remoteCaseID int64, fields testsvc.CaseFields) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateCaseErr != nil {
		return f.UpdateCaseErr
	}
	f.UpdatedCases[remoteCaseID] = fields
	return nil
}

func (f *FakeTestService) LinkCaseToSuite(_ context.Context, _ string, _, suiteID, remoteCaseID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.LinkErr != nil {
		return f.LinkErr
	}
	f.Links = append(f.Links, [2]int64{suiteID, remoteCaseID})
	return nil
}

func (f *FakeTestService) ListCasesForSuite(_ context.Context, _ string, _, suiteID int64) ([]testsvc.RemoteCase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Cases[suiteID], nil
}
