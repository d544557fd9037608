package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sangkips/pedidos-api/internal/domain/entity"
	"github.com/sangkips/pedidos-api/internal/domain/enum"
	"github.com/sangkips/pedidos-api/internal/domain/repository"
	"github.com/sangkips/pedidos-api/pkg/apperror"
	"github.com/sangkips/pedidos-api/pkg/utils"
)

// AuthService handles authentication-related operations
type AuthService struct {
	userRepo   repository.UserRepository
	jwtManager *utils.JWTManager
	log        *zap.Logger
	hashCost   int
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, jwtManager *utils.JWTManager, log *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		log:        log,
		hashCost:   bcrypt.DefaultCost,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Username string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User        *entity.User
	AccessToken string
}

// Login authenticates a user and returns an access token. Unknown users and
// wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, apperror.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperror.NewInternalError("Failed to load user", err)
	}
	if user == nil || !utils.CheckPasswordHash(input.Password, user.Password) {
		s.log.Info("login rejected", zap.String("username", username))
		return nil, apperror.ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateAccessToken(user.ID, user.Username, user.Role.String())
	if err != nil {
		return nil, apperror.NewInternalError("Failed to issue token", err)
	}

	return &LoginOutput{User: user, AccessToken: token}, nil
}

// EnsureAdmin creates the configured admin account when it does not exist yet.
// It reports whether a user was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return false, nil
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return false, fmt.Errorf("looking up admin user: %w", err)
	}
	if existing != nil {
		return false, nil
	}

	hash, err := utils.HashPasswordWithCost(password, s.hashCost)
	if err != nil {
		return false, fmt.Errorf("hashing admin password: %w", err)
	}
	if err := s.userRepo.Create(ctx, &entity.User{Username: username, Password: hash, Role: enum.UserRoleAdmin}); err != nil {
		return false, fmt.Errorf("creating admin user: %w", err)
	}

	s.log.Info("admin user created", zap.String("username", username))
	return true, nil
}
