package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/nominahr/payroll-backend-go/internal/domain/auth"
	"github.com/nominahr/payroll-backend-go/internal/domain/company"
	"github.com/nominahr/payroll-backend-go/internal/domain/user"
	"github.com/nominahr/payroll-backend-go/internal/pkg/database"
	jwtpkg "github.com/nominahr/payroll-backend-go/internal/pkg/jwt"
	"github.com/nominahr/payroll-backend-go/internal/repository/postgresql"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Register(ctx context.Context, req auth.RegisterRequest) (auth.LoginResponse, string, int64, error)
	Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, string, int64, error)
	Refresh(ctx context.Context, refreshToken string) (auth.LoginResponse, string, int64, error)
	Logout(ctx context.Context, refreshToken string) error
}

type ServiceImpl struct {
	db          *database.DB
	userRepo    user.Repository
	companyRepo company.Repository
	jwtService  jwtpkg.Service
}

func NewAuthService(db *database.DB, userRepo user.Repository, companyRepo company.Repository, jwtService jwtpkg.Service) Service {
	return &ServiceImpl{
		db:          db,
		userRepo:    userRepo,
		companyRepo: companyRepo,
		jwtService:  jwtService,
	}
}

// Register creates a tenant: the company row and its first admin user, in
// one transaction so a username clash never leaves an orphan company.
func (s *ServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (auth.LoginResponse, string, int64, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, "", 0, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return auth.LoginResponse{}, "", 0, fmt.Errorf("failed to hash password: %w", err)
	}

	var created user.User
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		comp, err := s.companyRepo.Create(txCtx, company.Company{
			Name:     req.CompanyName,
			Username: req.CompanyUsername,
		})
		if err != nil {
			return err
		}

		created, err = s.userRepo.Create(txCtx, user.User{
			CompanyID:    comp.ID,
			Email:        req.Email,
			PasswordHash: string(hash),
			Role:         user.RoleAdmin,
		})
		return err
	})
	if err != nil {
		return auth.LoginResponse{}, "", 0, err
	}

	return s.issueTokens(created)
}

func (s *ServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, string, int64, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, "", 0, err
	}

	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.LoginResponse{}, "", 0, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, "", 0, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, "", 0, auth.ErrInvalidCredentials
	}

	return s.issueTokens(u)
}

func (s *ServiceImpl) Refresh(ctx context.Context, refreshToken string) (auth.LoginResponse, string, int64, error) {
	if refreshToken == "" {
		return auth.LoginResponse{}, "", 0, auth.ErrInvalidToken
	}
	if s.jwtService.IsTokenRevoked(refreshToken) {
		return auth.LoginResponse{}, "", 0, auth.ErrRefreshTokenRevoked
	}

	token, err := s.jwtService.JWTAuth().Decode(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired()) {
			return auth.LoginResponse{}, "", 0, auth.ErrTokenExpired
		}
		return auth.LoginResponse{}, "", 0, auth.ErrInvalidToken
	}

	claims, err := token.AsMap(ctx)
	if err != nil {
		return auth.LoginResponse{}, "", 0, auth.ErrInvalidToken
	}
	if tokenType, _ := claims["type"].(string); tokenType != "refresh" {
		return auth.LoginResponse{}, "", 0, auth.ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return auth.LoginResponse{}, "", 0, auth.ErrInvalidToken
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return auth.LoginResponse{}, "", 0, fmt.Errorf("failed to load user for refresh: %w", err)
	}

	// Rotate: the old refresh token is dead once a new pair is issued.
	s.jwtService.RevokeToken(refreshToken)

	return s.issueTokens(u)
}

func (s *ServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken != "" {
		s.jwtService.RevokeToken(refreshToken)
	}
	return nil
}

func (s *ServiceImpl) issueTokens(u user.User) (auth.LoginResponse, string, int64, error) {
	accessToken, accessExp, err := s.jwtService.GenerateAccessToken(u.ID, u.Email, u.CompanyID, u.Role)
	if err != nil {
		return auth.LoginResponse{}, "", 0, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, refreshExp, err := s.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.LoginResponse{}, "", 0, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return auth.LoginResponse{
		AccessToken: accessToken,
		ExpiresAt:   accessExp,
		UserID:      u.ID,
		CompanyID:   u.CompanyID,
		Role:        string(u.Role),
	}, refreshToken, refreshExp, nil
}
