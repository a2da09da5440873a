package domain

type CaseStatus string

const (
	CasePending  CaseStatus = "PENDING"
	CaseApproved CaseStatus = "APPROVED"
	CaseRejected CaseStatus = "REJECTED"
)

// Terminal reports whether the status admits no further transition.
func (s CaseStatus) Terminal() bool {
	return s == CaseApproved || s == CaseRejected
}

type Role string

const (
	RoleTester Role = "Tester"
	RoleLead   Role = "Lead"
	RoleAdmin  Role = "Admin"
)

// ValidRoles is the canonical set of accepted role strings.
var ValidRoles = map[string]bool{
	"Tester": true, "Lead": true, "Admin": true,
}

type TestType string

const (
	TestPositive TestType = "Positive"
	TestNegative TestType = "Negative"
)
