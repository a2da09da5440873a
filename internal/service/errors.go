package service

import (
	"errors"
	"fmt"

	"github.com/mbelozerov/caseline/internal/domain"
)

var (
	// ErrInvalidCredentials is returned on a failed login. It deliberately
	// does not distinguish unknown username from wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrNotPending is returned when a review decision targets a case that
	// has already been approved or rejected.
	ErrNotPending = errors.New("case is not pending review")

	// ErrNoSuiteResolved is returned when an approval has no target suite:
	// neither the draft, the override, nor the session selection names one.
	ErrNoSuiteResolved = errors.New("no target suite resolved")

	// ErrNotAuthorized is returned when the acting user lacks the role or
	// permission the operation requires.
	ErrNotAuthorized = errors.New("operation not permitted for this user")

	// ErrNotLoggedIn is returned by operations that need an active session.
	ErrNotLoggedIn = errors.New("no active login")
)

// MultipleAccountsError is returned by Login when the username is registered
// in more than one organization and none was specified. Accounts carries the
// choices so the caller can ask the user to pick one.
type MultipleAccountsError struct {
	Accounts []*domain.User
}

func (e *MultipleAccountsError) Error() string {
	return fmt.Sprintf("username is registered in %d organizations", len(e.Accounts))
}
