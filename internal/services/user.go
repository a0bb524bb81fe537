package service

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	appErrors "github.com/pourpal/pourpal-backend/internal/errors"
	"github.com/pourpal/pourpal-backend/internal/models"
	repository "github.com/pourpal/pourpal-backend/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenLifetime       = 24 * time.Hour
	adminPasswordLength = 8

	// Ambiguous characters (0, O, 1, l, I) are left out so an emailed
	// password can be retyped.
	passwordCharset = "abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	RegisterAdmin(ctx context.Context, req *models.RegisterAdminRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
}

type userService struct {
	repo        repository.UserRepository
	rateLimiter repository.RateLimitRepository
	notifier    NotificationService
	jwtKey      []byte
}

func NewUserService(repo repository.UserRepository, rateLimiter repository.RateLimitRepository, notifier NotificationService, jwtKey []byte) UserService {
	return &userService{
		repo:        repo,
		rateLimiter: rateLimiter,
		notifier:    notifier,
		jwtKey:      jwtKey,
	}
}

// Register creates a customer account. The unique email index decides
// between two concurrent registrations for the same address.
func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.InternalError("Failed to secure password").WithError(err)
	}

	now := time.Now()

	user := &models.User{
		ID:        uuid.NewString(),
		Email:     req.Email,
		Name:      req.Name,
		Password:  string(hashedPassword),
		Role:      models.RoleCustomer,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, appErrors.DuplicateEntryError("Email already registered").WithError(err)
		}

		return nil, storageError(err, "Failed to create user")
	}

	if err := s.notifier.SendWelcomeEmail(ctx, user); err != nil {
		slog.Warn("Failed to send welcome email", slog.String("userId", user.ID), slog.String("error", err.Error()))
	}

	return user, nil
}

// RegisterAdmin creates an admin account with a generated password that is
// delivered by email only. A failed delivery is logged, not rolled back; the
// account already exists and the password can be reissued.
func (s *userService) RegisterAdmin(ctx context.Context, req *models.RegisterAdminRequest) (*models.User, error) {
	password, err := generatePassword(adminPasswordLength)
	if err != nil {
		return nil, appErrors.InternalError("Failed to generate password").WithError(err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.InternalError("Failed to secure password").WithError(err)
	}

	now := time.Now()

	user := &models.User{
		ID:        uuid.NewString(),
		Email:     req.Email,
		Name:      req.Name,
		Password:  string(hashedPassword),
		Role:      models.RoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, appErrors.DuplicateEntryError("Email already registered").WithError(err)
		}

		return nil, storageError(err, "Failed to create user")
	}

	if err := s.notifier.SendAdminCredentialsEmail(ctx, user, password); err != nil {
		slog.Error("Failed to send admin credentials email", slog.String("userId", user.ID), slog.String("error", err.Error()))
	}

	return user, nil
}

func (s *userService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	// check rate limit
	allowed, remaining, retryAfter, err := s.rateLimiter.CheckLoginRateLimit(ctx, req.Email)
	if err != nil {
		return nil, appErrors.ThirdPartyError("Rate limit check failed").WithError(err)
	}

	if !allowed {
		return &models.LoginResponse{
			Success:    false,
			Message:    "Too many login attempts. Please try again later.",
			RetryAfter: retryAfter,
		}, nil
	}

	// Retrieve the user from the DB and compare the passwords
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return &models.LoginResponse{
			Success:        false,
			Message:        "Invalid email or password",
			RemainingTries: remaining,
		}, nil
	}

	claims := &models.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	// Generate Token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.jwtKey)
	if err != nil {
		return nil, appErrors.InternalError("Failed to generate authentication token").WithError(err)
	}

	return &models.LoginResponse{
		Success:   true,
		Token:     tokenString,
		ExpiresIn: int(time.Until(claims.ExpiresAt.Time).Seconds()),
	}, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, appErrors.NotFoundError("User not found").WithError(err)
		}

		return nil, storageError(err, "Failed to fetch user")
	}

	return user, nil
}

func generatePassword(length int) (string, error) {
	password := make([]byte, length)

	for i := range password {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(passwordCharset))))
		if err != nil {
			return "", err
		}

		password[i] = passwordCharset[n.Int64()]
	}

	return string(password), nil
}
