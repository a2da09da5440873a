package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/mbelozerov/caseline/internal/domain"
	"github.com/mbelozerov/caseline/internal/repository"
)

type authService struct {
	users repository.UserRepo
}

func NewAuthService(users repository.UserRepo) AuthService {
	return &authService{users: users}
}

func (s *authService) Register(ctx context.Context, reg Registration) (*domain.User, error) {
	if reg.Username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if reg.Password == "" {
		return nil, fmt.Errorf("password is required")
	}
	if reg.OrgURL == "" {
		return nil, fmt.Errorf("organization URL is required")
	}
	if !domain.ValidRoles[string(reg.Role)] {
		return nil, fmt.Errorf("unknown role %q", reg.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &domain.User{
		Username:            reg.Username,
		PasswordHash:        string(hash),
		Role:                reg.Role,
		OrgURL:              reg.OrgURL,
		PersonalAccessToken: reg.PersonalAccessToken,
		// Leads may push without review until an admin revokes it.
		CanPushDirect: reg.Role == domain.RoleLead,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *authService) Login(ctx context.Context, username, password, orgURL string) (*domain.User, error) {
	accounts, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if orgURL != "" {
		var filtered []*domain.User
		for _, a := range accounts {
			if a.OrgURL == orgURL {
				filtered = append(filtered, a)
			}
		}
		accounts = filtered
	}

	switch len(accounts) {
	case 0:
		return nil, ErrInvalidCredentials
	case 1:
	default:
		return nil, &MultipleAccountsError{Accounts: accounts}
	}

	u := accounts[0]
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.users.SetActive(ctx, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *authService) Logout(ctx context.Context) error {
	return s.users.ClearActive(ctx)
}

func (s *authService) ActiveUser(ctx context.Context) (*domain.User, error) {
	u, err := s.users.GetActive(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotLoggedIn
		}
		return nil, err
	}
	return u, nil
}

func (s *authService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *authService) FindUser(ctx context.Context, username, orgURL string) (*domain.User, error) {
	accounts, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if orgURL != "" {
		var filtered []*domain.User
		for _, a := range accounts {
			if a.OrgURL == orgURL {
				filtered = append(filtered, a)
			}
		}
		accounts = filtered
	}

	switch len(accounts) {
	case 0:
		return nil, repository.ErrNotFound
	case 1:
		return accounts[0], nil
	default:
		return nil, &MultipleAccountsError{Accounts: accounts}
	}
}

func (s *authService) ListReviewers(ctx context.Context, orgURL string) ([]*domain.User, error) {
	return s.users.ListByRole(ctx, domain.RoleLead, orgURL)
}

func (s *authService) UpdateUser(ctx context.Context, actor *domain.User, userID int64, patch UserPatch) (*domain.User, error) {
	if actor == nil || actor.Role != domain.RoleAdmin {
		return nil, ErrNotAuthorized
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Role != nil {
		if !domain.ValidRoles[string(*patch.Role)] {
			return nil, fmt.Errorf("unknown role %q", *patch.Role)
		}
		u.Role = *patch.Role
	}
	if patch.CanPushDirect != nil {
		u.CanPushDirect = *patch.CanPushDirect
	}
	if patch.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		u.PasswordHash = string(hash)
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
