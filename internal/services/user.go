package services

import (
	"context"
	"strings"

	"github.com/votesecure/platform/types"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByUsername(ctx context.Context, username string) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	Update(ctx context.Context, user types.User) (types.User, error)
	ListByStatus(ctx context.Context, status string, offset, limit int) ([]types.User, int, error)
	CountByStatus(ctx context.Context, status string) (int, error)
	Delete(ctx context.Context, id int) error
}

// UserService encapsulates account use-cases.
type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) GetByID(ctx context.Context, id int) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (types.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (types.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *UserService) Create(ctx context.Context, user types.User) (types.User, error) {
	return s.repo.Create(ctx, user)
}

// UpdateProfile merges the mutable contact fields into the stored user.
// Username, email, role, voter ID and status are never touched here; an empty
// field in the request leaves the stored value as is.
func (s *UserService) UpdateProfile(ctx context.Context, id int, name, phone, address string) (types.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return types.User{}, err
	}

	if name = strings.TrimSpace(name); name != "" {
		user.Name = name
	}
	if phone = strings.TrimSpace(phone); phone != "" {
		user.Phone = phone
	}
	if address = strings.TrimSpace(address); address != "" {
		user.Address = address
	}

	return s.repo.Update(ctx, user)
}

// Approve flips a pending account to approved. Approving an already approved
// account is a no-op.
func (s *UserService) Approve(ctx context.Context, id int) (types.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return types.User{}, err
	}
	if user.Status == types.StatusApproved {
		return user, nil
	}
	user.Status = types.StatusApproved
	return s.repo.Update(ctx, user)
}

// SetAvatarKey records the object storage key of the user's avatar.
func (s *UserService) SetAvatarKey(ctx context.Context, id int, key string) (types.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return types.User{}, err
	}
	user.AvatarKey = key
	return s.repo.Update(ctx, user)
}

func (s *UserService) ListByStatus(ctx context.Context, status string, offset, limit int) ([]types.User, int, error) {
	return s.repo.ListByStatus(ctx, status, offset, limit)
}

func (s *UserService) CountByStatus(ctx context.Context, status string) (int, error) {
	return s.repo.CountByStatus(ctx, status)
}

func (s *UserService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
