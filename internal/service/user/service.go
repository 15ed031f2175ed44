package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/zmi-time/zmi-backend-go/internal/domain/audit"
	"github.com/zmi-time/zmi-backend-go/internal/domain/auth"
	"github.com/zmi-time/zmi-backend-go/internal/domain/tenant"
	"github.com/zmi-time/zmi-backend-go/internal/domain/user"
	"github.com/zmi-time/zmi-backend-go/internal/pkg/validator"
)

type UserServiceImpl struct {
	userRepo   user.UserRepository
	tenantRepo tenant.TenantRepository
	auditor    audit.Recorder
}

func NewUserService(
	userRepo user.UserRepository,
	tenantRepo tenant.TenantRepository,
	auditor audit.Recorder,
) user.UserService {
	return &UserServiceImpl{
		userRepo:   userRepo,
		tenantRepo: tenantRepo,
		auditor:    auditor,
	}
}

func mapUserToResponse(u user.User) user.UserResponse {
	return user.UserResponse{
		ID:          u.ID,
		TenantID:    u.TenantID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        string(u.Role),
		Active:      u.Active,
		CreatedAt:   u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   u.UpdatedAt.Format(time.RFC3339),
	}
}

// recordUserEvent writes the audit event into the tenant of the affected
// account. Cross-tenant admin accounts have no tenant log, changes to
// them are only traced in the server log.
func (s *UserServiceImpl) recordUserEvent(ctx context.Context, action string, u user.User) {
	if u.TenantID == nil {
		slog.Info("admin account changed", "action", action, "email", u.Email)
		return
	}
	s.auditor.Record(ctx, audit.Event{
		TenantID:   *u.TenantID,
		Action:     action,
		EntityType: "user",
		EntityID:   &u.ID,
		Detail:     map[string]interface{}{"email": u.Email, "role": string(u.Role)},
	})
}

// CreateUser implements user.UserService.
func (s *UserServiceImpl) CreateUser(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to check user email: %w", err)
	}
	if exists {
		return user.UserResponse{}, user.ErrUserEmailExists
	}

	if req.TenantID != nil {
		if _, err := s.tenantRepo.GetByID(ctx, *req.TenantID); err != nil {
			return user.UserResponse{}, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.userRepo.Create(ctx, user.User{
		TenantID:     req.TenantID,
		Email:        req.Email,
		PasswordHash: string(hash),
		DisplayName:  req.DisplayName,
		Role:         user.Role(req.Role),
		Active:       true,
	})
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to create user: %w", err)
	}

	s.recordUserEvent(ctx, "user.create", created)

	return mapUserToResponse(created), nil
}

// GetUser implements user.UserService.
func (s *UserServiceImpl) GetUser(ctx context.Context, id string) (user.UserResponse, error) {
	found, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	return mapUserToResponse(found), nil
}

// ListUsers implements user.UserService.
func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]user.UserResponse, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, mapUserToResponse(u))
	}

	return responses, nil
}

// UpdateUser implements user.UserService. Admins cannot demote or
// deactivate their own account, that would lock them out mid-session.
func (s *UserServiceImpl) UpdateUser(ctx context.Context, req user.UpdateUserRequest) (user.UserResponse, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	existing, err := s.userRepo.GetByID(ctx, req.ID)
	if err != nil {
		return user.UserResponse{}, err
	}

	if actor.UserID == existing.ID {
		if req.Role != nil && *req.Role != string(existing.Role) {
			return user.UserResponse{}, user.ErrOwnAccount
		}
		if req.Active != nil && !*req.Active {
			return user.UserResponse{}, user.ErrOwnAccount
		}
	}

	// The tenant binding of an account never changes, so a role switch
	// between the admin and the tenant-bound roles is rejected.
	if req.Role != nil {
		toAdmin := *req.Role == string(user.RoleAdmin)
		isAdmin := existing.TenantID == nil
		if toAdmin != isAdmin {
			return user.UserResponse{}, validator.ValidationErrors{{
				Field:   "role",
				Message: "role cannot switch between admin and tenant-bound roles",
			}}
		}
	}

	if err := s.userRepo.Update(ctx, req); err != nil {
		return user.UserResponse{}, err
	}

	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
		}
		if err := s.userRepo.UpdatePassword(ctx, req.ID, string(hash)); err != nil {
			return user.UserResponse{}, err
		}
	}

	updated, err := s.userRepo.GetByID(ctx, req.ID)
	if err != nil {
		return user.UserResponse{}, err
	}

	s.recordUserEvent(ctx, "user.update", updated)

	return mapUserToResponse(updated), nil
}

// DeleteUser implements user.UserService.
func (s *UserServiceImpl) DeleteUser(ctx context.Context, id string) error {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return err
	}
	if actor.UserID == id {
		return user.ErrOwnAccount
	}

	existing, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.recordUserEvent(ctx, "user.delete", existing)

	return nil
}
