package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/campus-complaints/internal/models"
	"github.com/noah-isme/campus-complaints/internal/repository"
	appErrors "github.com/noah-isme/campus-complaints/pkg/errors"
)

type accountRepository interface {
	FindByID(ctx context.Context, id string, role models.Role) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	Upsert(ctx context.Context, account *models.Account) error
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	Secret string
	Expiry time.Duration
}

// AuthService issues and validates tokens and registers students.
type AuthService struct {
	repo      accountRepository
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo accountRepository, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.Expiry <= 0 {
		config.Expiry = 2 * time.Hour
	}
	return &AuthService{repo: repo, validator: validate, logger: logger, metrics: metrics, config: config, now: time.Now}
}

// Login checks credentials against the account of the requested role and
// returns a signed token. Every failure reads "Invalid credentials".
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	if err := s.validator.Struct(req); err != nil {
		s.metrics.RecordLogin(string(req.Role), false)
		return "", appErrors.ErrInvalidCredentials
	}

	account, err := s.repo.FindByID(ctx, req.ID, req.Role)
	if err != nil {
		s.metrics.RecordLogin(string(req.Role), false)
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.ErrInvalidCredentials
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch account")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		s.metrics.RecordLogin(string(req.Role), false)
		return "", appErrors.ErrInvalidCredentials
	}

	token, err := s.issue(account)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create token")
	}
	s.metrics.RecordLogin(string(req.Role), true)
	s.logger.Info("login", zap.String("id", account.ID), zap.String("role", string(account.Role)))
	return token, nil
}

// Register creates a student account.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.ID = strings.TrimSpace(req.ID)
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Missing fields")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	account := &models.Account{
		ID:           req.ID,
		Name:         req.Name,
		PasswordHash: string(hash),
		Role:         models.RoleStudent,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateAccount) {
			return appErrors.Clone(appErrors.ErrConflict, "Student ID already registered")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create account")
	}
	s.logger.Info("student registered", zap.String("id", account.ID))
	return nil
}

// SeedAdmin makes sure the configured administrator can log in.
func (s *AuthService) SeedAdmin(ctx context.Context, id, password, name string) error {
	if id == "" || password == "" {
		return fmt.Errorf("admin id and password are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	return s.repo.Upsert(ctx, &models.Account{
		ID:           id,
		Name:         name,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		CreatedAt:    s.now().UTC(),
	})
}

// ValidateToken verifies signature and expiry. Failures read "Token expired"
// or "Invalid token".
func (s *AuthService) ValidateToken(tokenString string) (*models.Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	token, err := parser.ParseWithClaims(tokenString, &models.Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "Token expired")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "Invalid token")
	}

	claims, ok := token.Claims.(*models.Claims)
	if !ok || !token.Valid || !claims.Role.Valid() || claims.ID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "Invalid token")
	}
	return claims, nil
}

func (s *AuthService) issue(account *models.Account) (string, error) {
	issuedAt := s.now().UTC()
	claims := &models.Claims{
		ID:   account.ID,
		Name: account.Name,
		Role: account.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.Expiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
}
