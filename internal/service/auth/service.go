package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/zmi-time/zmi-backend-go/internal/config"
	"github.com/zmi-time/zmi-backend-go/internal/domain/auth"
	"github.com/zmi-time/zmi-backend-go/internal/domain/user"
	"github.com/zmi-time/zmi-backend-go/internal/pkg/database"
	"github.com/zmi-time/zmi-backend-go/internal/pkg/jwt"
	"github.com/zmi-time/zmi-backend-go/internal/repository/postgresql"
)

type AuthServiceImpl struct {
	db       *database.DB
	userRepo user.UserRepository
	jwtSvc   jwt.Service
	jwtRepo  postgresql.JWTRepository
}

func NewAuthService(
	db *database.DB,
	userRepo user.UserRepository,
	jwtSvc jwt.Service,
	jwtRepo postgresql.JWTRepository,
) auth.AuthService {
	return &AuthServiceImpl{
		db:       db,
		userRepo: userRepo,
		jwtSvc:   jwtSvc,
		jwtRepo:  jwtRepo,
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest, session auth.SessionTrackingRequest) (auth.LoginResponse, error) {
	userData, err := a.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	if !userData.Active {
		return auth.LoginResponse{}, auth.ErrAccountDeactivated
	}

	tenantID := ""
	if userData.TenantID != nil {
		tenantID = *userData.TenantID
	}

	var response auth.LoginResponse
	response.UserID = userData.ID
	response.TenantID = tenantID
	response.DisplayName = userData.DisplayName
	response.Role = string(userData.Role)

	err = postgresql.WithTransaction(ctx, a.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		response.AccessToken, response.AccessTokenExpiresIn, err = a.jwtSvc.GenerateAccessToken(userData.ID, userData.Email, tenantID, userData.Role)
		if err != nil {
			return fmt.Errorf("failed to create access token: %w", err)
		}
		response.RefreshToken, response.RefreshTokenExpiresIn, err = a.jwtSvc.GenerateRefreshToken(userData.ID)
		if err != nil {
			return fmt.Errorf("failed to create refresh token: %w", err)
		}

		if err := a.jwtRepo.CreateRefreshToken(txCtx, userData.ID, response.RefreshToken, response.RefreshTokenExpiresIn, session); err != nil {
			return fmt.Errorf("failed to save refresh token to database: %w", err)
		}
		return nil
	})
	if err != nil {
		return auth.LoginResponse{}, err
	}

	return response, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if err := a.jwtRepo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	revoked, err := a.jwtRepo.IsRefreshTokenRevoked(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.AccessTokenResponse{}, auth.ErrInvalidToken
		}
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if revoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	token, err := a.jwtSvc.JWTAuth().Decode(req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != "refresh" {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	userIDVal, ok := token.Get("user_id")
	if !ok {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	userID, ok := userIDVal.(string)
	if !ok {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	userData, err := a.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.AccessTokenResponse{}, auth.ErrInvalidToken
		}
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to get user: %w", err)
	}
	if !userData.Active {
		return auth.AccessTokenResponse{}, auth.ErrAccountDeactivated
	}

	tenantID := ""
	if userData.TenantID != nil {
		tenantID = *userData.TenantID
	}

	accessToken, expiresIn, err := a.jwtSvc.GenerateAccessToken(userData.ID, userData.Email, tenantID, userData.Role)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	return auth.AccessTokenResponse{
		AccessToken:          accessToken,
		AccessTokenExpiresIn: expiresIn,
	}, nil
}

// EnsureInitialAdmin creates the configured cross-tenant admin account on
// boot when it does not exist yet. An empty email skips the bootstrap.
func EnsureInitialAdmin(ctx context.Context, userRepo user.UserRepository, cfg config.InitialAdminConfig) error {
	if cfg.Email == "" {
		return nil
	}

	exists, err := userRepo.ExistsByEmail(ctx, cfg.Email)
	if err != nil {
		return fmt.Errorf("failed to check initial admin: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash initial admin password: %w", err)
	}

	_, err = userRepo.Create(ctx, user.User{
		TenantID:     nil,
		Email:        cfg.Email,
		PasswordHash: string(hash),
		DisplayName:  cfg.DisplayName,
		Role:         user.RoleAdmin,
		Active:       true,
	})
	if err != nil {
		return fmt.Errorf("failed to create initial admin: %w", err)
	}

	slog.Info("Initial admin account created", "email", cfg.Email)
	return nil
}
