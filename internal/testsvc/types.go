package testsvc

import (
	"encoding/json"
	"strconv"

	"github.com/mbelozerov/caseline/internal/domain"
)

// ProjectRef identifies a project in the Test Service.
type ProjectRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PlanRef identifies a test plan within a project.
type PlanRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CaseFields is the writable field set of a remote test case.
type CaseFields struct {
	Title          string
	Steps          []domain.CaseStep
	Preconditions  string
	ExpectedResult string
	TestType       domain.TestType
}

// RemoteCase is a test case read back from the Test Service, with HTML
// markup stripped and steps decoded.
type RemoteCase struct {
	ID               int64
	Title            string
	State            string
	AssignedTo       string
	WorkItemType     string
	Steps            []domain.CaseStep
	ExpectedResult   string
	Preconditions    string
	TestType         domain.TestType
	AutomationStatus string
}

// flexibleID decodes an id the service reports as either a JSON number or a
// numeric string.
type flexibleID int64

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}
		*f = flexibleID(n)
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexibleID(n)
	return nil
}

// parentRef decodes a parent suite reference. Different endpoints report it
// as a bare id or as an object carrying an id; both collapse to one optional
// id here so the ambiguity never reaches the tree builder.
type parentRef struct {
	ID *int64
}

func (p *parentRef) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			ID flexibleID `json:"id"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		id := int64(obj.ID)
		p.ID = &id
		return nil
	}
	var f flexibleID
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	id := int64(f)
	p.ID = &id
	return nil
}

// suiteDTO is the wire shape of one suite record. The parent may arrive
// under "parentSuite" or "parent" depending on the endpoint.
type suiteDTO struct {
	ID          flexibleID    `json:"id"`
	Name        string        `json:"name"`
	ParentSuite *parentRef    `json:"parentSuite"`
	Parent      *parentRef    `json:"parent"`
	Suites      []childRefDTO `json:"suites"`
}

// childRefDTO is a shallow reference to a child suite.
type childRefDTO struct {
	ID flexibleID `json:"id"`
}

// toRecord normalizes a suiteDTO into the gateway's boundary type.
func (d suiteDTO) toRecord() domain.SuiteRecord {
	rec := domain.SuiteRecord{ID: int64(d.ID), Name: d.Name}
	switch {
	case d.ParentSuite != nil && d.ParentSuite.ID != nil:
		rec.ParentID = d.ParentSuite.ID
	case d.Parent != nil && d.Parent.ID != nil:
		rec.ParentID = d.Parent.ID
	}
	return rec
}

// listEnvelope is the standard collection wrapper of the Test Service API.
type listEnvelope[T any] struct {
	Count int `json:"count"`
	Value []T `json:"value"`
}

// planDTO is the wire shape of a plan detail response.
type planDTO struct {
	ID        flexibleID `json:"id"`
	Name      string     `json:"name"`
	RootSuite *struct {
		ID flexibleID `json:"id"`
	} `json:"rootSuite"`
}

// pointDTO is one test point; only the test case reference is used.
type pointDTO struct {
	TestCase *struct {
		ID flexibleID `json:"id"`
	} `json:"testCase"`
}

// workItemDTO is a work item with its raw field map.
type workItemDTO struct {
	ID     int64                      `json:"id"`
	Fields map[string]json.RawMessage `json:"fields"`
}

// stringField extracts a string field from a work item field map, tolerating
// absent fields and identity objects ({"displayName": ...}).
func (w workItemDTO) stringField(name string) string {
	raw, ok := w.Fields[name]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var ident struct {
		DisplayName string `json:"displayName"`
	}
	if err := json.Unmarshal(raw, &ident); err == nil {
		return ident.DisplayName
	}
	return ""
}

// Work item field reference names used by the Test Service.
// Preconditions ride on the repro-steps field, matching how the service's
// own web editor stores them for test cases.
const (
	fieldTitle            = "System.Title"
	fieldState            = "System.State"
	fieldAssignedTo       = "System.AssignedTo"
	fieldWorkItemType     = "System.WorkItemType"
	fieldSteps            = "Microsoft.VSTS.TCM.Steps"
	fieldExpectedResults  = "Microsoft.VSTS.TCM.ExpectedResults"
	fieldPreconditions    = "Microsoft.VSTS.TCM.ReproSteps"
	fieldTestType         = "Microsoft.VSTS.Common.Type"
	fieldAutomationStatus = "Microsoft.VSTS.TCM.AutomationStatus"
)

// patchOp is one JSON-patch operation for work item create/update.
type patchOp struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// casePatch builds the JSON-patch document for the given fields. The "add"
// operation upserts: it creates the field when absent and replaces it
// otherwise, which is why it is used for updates too.
func casePatch(fields CaseFields) []patchOp {
	patch := []patchOp{
		{Op: "add", Path: "/fields/" + fieldTitle, Value: fields.Title},
	}
	if len(fields.Steps) > 0 {
		patch = append(patch, patchOp{Op: "add", Path: "/fields/" + fieldSteps, Value: EncodeSteps(fields.Steps)})
	}
	if fields.Preconditions != "" {
		patch = append(patch, patchOp{Op: "add", Path: "/fields/" + fieldPreconditions, Value: fields.Preconditions})
	}
	if fields.ExpectedResult != "" {
		patch = append(patch, patchOp{Op: "add", Path: "/fields/" + fieldExpectedResults, Value: fields.ExpectedResult})
	}
	if fields.TestType != "" {
		patch = append(patch, patchOp{Op: "add", Path: "/fields/" + fieldTestType, Value: string(fields.TestType)})
	}
	return patch
}
