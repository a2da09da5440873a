// Package testsvc is the gateway to the external test-management service.
// It is a pure I/O adapter: wire-shape quirks (duck-typed parent references,
// string-or-number ids, XML step documents) are normalized here and never
// leak into the core packages.
package testsvc

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mbelozerov/caseline/internal/domain"
	"github.com/mbelozerov/caseline/internal/hierarchy"
)

// workItemBatchSize is the maximum number of ids per work item batch request.
const workItemBatchSize = 200

// Client provides the remote operations consumed by the core subsystems.
type Client interface {
	ListProjects(ctx context.Context) ([]ProjectRef, error)
	ListPlans(ctx context.Context, project string) ([]PlanRef, error)
	ListSuitesFlat(ctx context.Context, project string, planID int64) ([]domain.SuiteRecord, error)
	GetPlanRootSuiteID(ctx context.Context, project string, planID int64) (int64, error)
	GetSuiteShallow(ctx context.Context, project string, planID, suiteID int64) (hierarchy.ShallowSuite, error)
	CreateSuite(ctx context.Context, project string, planID int64, name string) (domain.SuiteRecord, error)
	CreateCase(ctx context.Context, project string, fields CaseFields) (int64, error)
	UpdateCase(ctx context.Context, project string, remoteCaseID int64, fields CaseFields) error
	LinkCaseToSuite(ctx context.Context, project string, planID, suiteID, remoteCaseID int64) error
	ListCasesForSuite(ctx context.Context, project string, planID, suiteID int64) ([]RemoteCase, error)
}

// httpClient implements Client against the service's REST surface using
// personal-access-token auth.
type httpClient struct {
	cfg      Config
	orgURL   string
	pat      string
	http     *http.Client
	observer Observer
}

// NewClient creates a Client for one organization. Credential presence is
// checked per call so a half-configured session fails fast with
// ErrMissingCredentials instead of an opaque 401.
func NewClient(cfg Config, orgURL, pat string, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &httpClient{
		cfg:    cfg,
		orgURL: strings.TrimRight(orgURL, "/"),
		pat:    pat,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

func (c *httpClient) ListProjects(ctx context.Context) ([]ProjectRef, error) {
	var out listEnvelope[ProjectRef]
	err := c.get(ctx, "list_projects", c.orgURL+"/_apis/projects", &out)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return out.Value, nil
}

func (c *httpClient) ListPlans(ctx context.Context, project string) ([]PlanRef, error) {
	var out listEnvelope[PlanRef]
	err := c.get(ctx, "list_plans", c.projectURL(project, "_apis/testplan/plans"), &out)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	return out.Value, nil
}

func (c *httpClient) ListSuitesFlat(ctx context.Context, project string, planID int64) ([]domain.SuiteRecord, error) {
	var out listEnvelope[suiteDTO]
	u := c.projectURL(project, fmt.Sprintf("_apis/testplan/Plans/%d/suites", planID))
	if err := c.get(ctx, "list_suites_flat", u, &out); err != nil {
		return nil, fmt.Errorf("listing suites of plan %d: %w", planID, err)
	}

	records := make([]domain.SuiteRecord, 0, len(out.Value))
	for _, dto := range out.Value {
		records = append(records, dto.toRecord())
	}
	return records, nil
}

func (c *httpClient) GetPlanRootSuiteID(ctx context.Context, project string, planID int64) (int64, error) {
	var out planDTO
	u := c.projectURL(project, fmt.Sprintf("_apis/testplan/Plans/%d", planID))
	if err := c.get(ctx, "get_plan", u, &out); err != nil {
		return 0, fmt.Errorf("fetching plan %d: %w", planID, err)
	}
	if out.RootSuite == nil {
		return 0, fmt.Errorf("plan %d has no root suite", planID)
	}
	return int64(out.RootSuite.ID), nil
}

func (c *httpClient) GetSuiteShallow(ctx context.Context, project string, planID, suiteID int64) (hierarchy.ShallowSuite, error) {
	var out suiteDTO
	u := c.projectURL(project, fmt.Sprintf("_apis/testplan/Plans/%d/Suites/%d", planID, suiteID))
	u += "?expand=children"
	if err := c.get(ctx, "get_suite", u, &out); err != nil {
		return hierarchy.ShallowSuite{}, fmt.Errorf("fetching suite %d: %w", suiteID, err)
	}

	shallow := hierarchy.ShallowSuite{ID: int64(out.ID), Name: out.Name}
	for _, ref := range out.Suites {
		shallow.ChildIDs = append(shallow.ChildIDs, int64(ref.ID))
	}
	return shallow, nil
}

func (c *httpClient) CreateSuite(ctx context.Context, project string, planID int64, name string) (domain.SuiteRecord, error) {
	body := map[string]string{
		"name":      name,
		"suiteType": "StaticTestSuite",
	}
	var out suiteDTO
	u := c.projectURL(project, fmt.Sprintf("_apis/testplan/Plans/%d/suites", planID))
	if err := c.send(ctx, "create_suite", http.MethodPost, u, "application/json", body, &out); err != nil {
		return domain.SuiteRecord{}, fmt.Errorf("creating suite %q: %w", name, err)
	}
	return out.toRecord(), nil
}

func (c *httpClient) CreateCase(ctx context.Context, project string, fields CaseFields) (int64, error) {
	var out workItemDTO
	u := c.projectURL(project, "_apis/wit/workitems/"+url.PathEscape("$Test Case"))
	err := c.send(ctx, "create_case", http.MethodPost, u, "application/json-patch+json", casePatch(fields), &out)
	if err != nil {
		return 0, fmt.Errorf("creating case %q: %w", fields.Title, err)
	}
	return out.ID, nil
}

func (c *httpClient) UpdateCase(ctx context.Context, project string, remoteCaseID int64, fields CaseFields) error {
	u := c.projectURL(project, fmt.Sprintf("_apis/wit/workitems/%d", remoteCaseID))
	err := c.send(ctx, "update_case", http.MethodPatch, u, "application/json-patch+json", casePatch(fields), nil)
	if err != nil {
		return fmt.Errorf("updating case %d: %w", remoteCaseID, err)
	}
	return nil
}

func (c *httpClient) LinkCaseToSuite(ctx context.Context, project string, planID, suiteID, remoteCaseID int64) error {
	body := []map[string]any{
		{"workItem": map[string]int64{"id": remoteCaseID}},
	}
	u := c.projectURL(project, fmt.Sprintf("_apis/testplan/Plans/%d/Suites/%d/TestCase", planID, suiteID))
	err := c.send(ctx, "link_case", http.MethodPost, u, "application/json", body, nil)
	if err != nil {
		return fmt.Errorf("linking case %d to suite %d: %w", remoteCaseID, suiteID, err)
	}
	return nil
}

func (c *httpClient) ListCasesForSuite(ctx context.Context, project string, planID, suiteID int64) ([]RemoteCase, error) {
	var points listEnvelope[pointDTO]
	u := c.projectURL(project, fmt.Sprintf("_apis/test/Plans/%d/Suites/%d/points", planID, suiteID))
	if err := c.get(ctx, "list_points", u, &points); err != nil {
		return nil, fmt.Errorf("listing test points of suite %d: %w", suiteID, err)
	}

	var ids []int64
	for _, p := range points.Value {
		if p.TestCase != nil && int64(p.TestCase.ID) != 0 {
			ids = append(ids, int64(p.TestCase.ID))
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var cases []RemoteCase
	for start := 0; start < len(ids); start += workItemBatchSize {
		end := start + workItemBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		var batch listEnvelope[workItemDTO]
		bu := c.projectURL(project, "_apis/wit/workitemsbatch")
		body := map[string]any{"ids": ids[start:end]}
		if err := c.send(ctx, "get_work_items", http.MethodPost, bu, "application/json", body, &batch); err != nil {
			return nil, fmt.Errorf("fetching work items %d..%d: %w", start, end, err)
		}

		for _, wi := range batch.Value {
			cases = append(cases, remoteCaseFromWorkItem(wi))
		}
	}
	return cases, nil
}

func remoteCaseFromWorkItem(wi workItemDTO) RemoteCase {
	testType := domain.TestType(wi.stringField(fieldTestType))
	if testType == "" {
		testType = domain.TestPositive
	}
	return RemoteCase{
		ID:               wi.ID,
		Title:            wi.stringField(fieldTitle),
		State:            wi.stringField(fieldState),
		AssignedTo:       wi.stringField(fieldAssignedTo),
		WorkItemType:     wi.stringField(fieldWorkItemType),
		Steps:            DecodeSteps(wi.stringField(fieldSteps)),
		ExpectedResult:   StripHTML(wi.stringField(fieldExpectedResults)),
		Preconditions:    StripHTML(wi.stringField(fieldPreconditions)),
		TestType:         testType,
		AutomationStatus: wi.stringField(fieldAutomationStatus),
	}
}

// projectURL builds {org}/{project}/{path}?api-version=...
func (c *httpClient) projectURL(project, path string) string {
	return fmt.Sprintf("%s/%s/%s", c.orgURL, url.PathEscape(project), path)
}

func (c *httpClient) get(ctx context.Context, op, rawURL string, out any) error {
	return c.send(ctx, op, http.MethodGet, rawURL, "", nil, out)
}

// send performs one remote call: auth, timeout, error taxonomy mapping and
// JSON decoding. There is no retry; a failure is reported exactly once.
func (c *httpClient) send(ctx context.Context, op, method, rawURL, contentType string, body, out any) error {
	if c.orgURL == "" || c.pat == "" {
		return ErrMissingCredentials
	}

	start := time.Now()
	correlationID := uuid.New().String()

	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	if strings.Contains(rawURL, "?") {
		rawURL += "&api-version=" + c.cfg.APIVersion
	} else {
		rawURL += "?api-version=" + c.cfg.APIVersion
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(":"+c.pat)))
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(correlationID, op, start, false, 0)
		if ctx.Err() != nil {
			return ErrTimeout
		}
		if isConnectionError(err) {
			return ErrUnavailable
		}
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(correlationID, op, start, false, resp.StatusCode)
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		c.observe(correlationID, op, start, false, resp.StatusCode)
		return &RemoteError{StatusCode: resp.StatusCode, Body: excerpt(respBody)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			c.observe(correlationID, op, start, false, resp.StatusCode)
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	c.observe(correlationID, op, start, true, resp.StatusCode)
	return nil
}

func (c *httpClient) observe(correlationID, op string, start time.Time, success bool, status int) {
	c.observer.OnCallComplete(CallEvent{
		CorrelationID: correlationID,
		Operation:     op,
		LatencyMs:     time.Since(start).Milliseconds(),
		Success:       success,
		StatusCode:    status,
	})
}

// excerpt keeps error bodies short enough for a toast line.
func excerpt(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return isConnectionError(urlErr.Err) || urlErr.Timeout()
	}
	return false
}
