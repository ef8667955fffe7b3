package service

import (
	"context"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

type UserService struct {
	userRepo repository.UserRepository
}

// UpdateUserInput carries an admin edit of another user's account. Nil
// fields are left unchanged.
type UpdateUserInput struct {
	ActorID  uint
	TargetID uint
	Name     *string
	Role     *models.Role
	IsActive *bool
}

// UpdateProfileInput carries a user's edit of their own account.
type UpdateProfileInput struct {
	UserID uint
	Name   *string
	Avatar *string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) (*models.UserPage, error) {
	users, total, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return &models.UserPage{
		Users:   users,
		Total:   total,
		HasMore: int64(offset+len(users)) < total,
	}, nil
}

// UpdateUser applies an admin edit. Admins cannot deactivate their own
// account or give up their own admin role, so the site always keeps at
// least one active admin.
func (s *UserService) UpdateUser(ctx context.Context, in UpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.TargetID)
	if err != nil {
		return nil, err
	}

	if in.IsActive != nil {
		if in.ActorID == in.TargetID && !*in.IsActive {
			return nil, models.NewSelfProtectionError("You cannot deactivate your own account")
		}
		user.IsActive = *in.IsActive
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, models.NewValidationError("Invalid role")
		}
		if in.ActorID == in.TargetID && *in.Role != models.RoleAdmin {
			return nil, models.NewSelfProtectionError("You cannot remove your own admin role")
		}
		user.Role = *in.Role
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := validation.ValidateDisplayName(name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Name = name
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a user account. The user's posts are kept under their
// authorship. Admins cannot delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, actorID, targetID uint) error {
	if actorID == targetID {
		return models.NewSelfProtectionError("You cannot delete your own account")
	}
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, targetID)
}

// UpdateProfile applies a user's edit of their own name or avatar.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := validation.ValidateDisplayName(name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Name = name
	}
	if in.Avatar != nil {
		user.Avatar = *in.Avatar
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
