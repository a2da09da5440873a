package domain

import "time"

// CaseStep is a single action/expectation pair of a test case.
type CaseStep struct {
	Action   string `json:"action"`
	Expected string `json:"expected"`
}

// CaseDraft is a locally stored proposed test case awaiting review.
// Content is fixed at creation; only Status (and RemoteCaseID on publish)
// change afterwards. Re-editing produces a new draft.
type CaseDraft struct {
	ID                 int64
	Title              string
	Steps              []CaseStep
	Preconditions      string
	ExpectedResult     string
	TestType           TestType
	Status             CaseStatus
	AuthorID           int64
	SuiteID            *int64
	AssignedReviewerID *int64
	RemoteCaseID       *int64
	CreatedAt          time.Time
}

// IsUpdate reports whether approving this draft updates an existing remote
// case instead of creating a new one.
func (c *CaseDraft) IsUpdate() bool {
	return c.RemoteCaseID != nil
}
