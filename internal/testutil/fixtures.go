package testutil

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mbelozerov/caseline/internal/domain"
)

// TestOrgURL is the organization every fixture user belongs to unless
// overridden with WithOrgURL.
const TestOrgURL = "https://svc.example.com/acme"

// User options
type UserOption func(*domain.User)

func WithRole(r domain.Role) UserOption {
	return func(u *domain.User) {
		u.Role = r
	}
}

func WithOrgURL(org string) UserOption {
	return func(u *domain.User) {
		u.OrgURL = org
	}
}

func WithPassword(plain string) UserOption {
	return func(u *domain.User) {
		u.PasswordHash = HashPassword(plain)
	}
}

func WithToken(pat string) UserOption {
	return func(u *domain.User) {
		u.PersonalAccessToken = pat
	}
}

func WithPushDirect(v bool) UserOption {
	return func(u *domain.User) {
		u.CanPushDirect = v
	}
}

// HashPassword hashes a plaintext password at the minimum cost. Test-only;
// the auth service uses the default cost.
func HashPassword(plain string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}

func NewTestUser(username string, opts ...UserOption) *domain.User {
	u := &domain.User{
		Username:            username,
		PasswordHash:        HashPassword("password"),
		Role:                domain.RoleTester,
		OrgURL:              TestOrgURL,
		PersonalAccessToken: "test-pat",
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// CaseDraft options
type CaseOption func(*domain.CaseDraft)

func WithStatus(s domain.CaseStatus) CaseOption {
	return func(c *domain.CaseDraft) {
		c.Status = s
	}
}

func WithSuiteID(id int64) CaseOption {
	return func(c *domain.CaseDraft) {
		c.SuiteID = &id
	}
}

func WithReviewerID(id int64) CaseOption {
	return func(c *domain.CaseDraft) {
		c.AssignedReviewerID = &id
	}
}

func WithRemoteCaseID(id int64) CaseOption {
	return func(c *domain.CaseDraft) {
		c.RemoteCaseID = &id
	}
}

func WithSteps(steps ...domain.CaseStep) CaseOption {
	return func(c *domain.CaseDraft) {
		c.Steps = steps
	}
}

func WithTestType(t domain.TestType) CaseOption {
	return func(c *domain.CaseDraft) {
		c.TestType = t
	}
}

func NewTestCaseDraft(authorID int64, title string, opts ...CaseOption) *domain.CaseDraft {
	c := &domain.CaseDraft{
		Title: title,
		Steps: []domain.CaseStep{
			{Action: "Open the page", Expected: "Page loads"},
		},
		Preconditions:  "User is registered",
		ExpectedResult: "Operation succeeds",
		TestType:       domain.TestPositive,
		Status:         domain.CasePending,
		AuthorID:       authorID,
		CreatedAt:      time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
