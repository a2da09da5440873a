package domain

// User is a locally registered account. A person may hold one account per
// organization; (Username, OrgURL) is unique.
type User struct {
	ID                  int64
	Username            string
	PasswordHash        string
	Role                Role
	OrgURL              string
	PersonalAccessToken string
	CanPushDirect       bool
}

// CanPublishDirect reports whether the user may push cases to the remote
// service without going through review.
func (u *User) CanPublishDirect() bool {
	return u.CanPushDirect && (u.Role == RoleLead || u.Role == RoleAdmin)
}
