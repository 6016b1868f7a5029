package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/storegraph/app/models"
	"github.com/shashiranjanraj/storegraph/app/repositories"
	"github.com/shashiranjanraj/storegraph/pkg/auth"
	"github.com/shashiranjanraj/storegraph/pkg/logger"
	"github.com/shashiranjanraj/storegraph/pkg/metrics"
)

// Login and registration failures. The messages are part of the API.
var (
	ErrUserNotFound       = errors.New("User not found")
	ErrIncorrectPassword  = errors.New("Incorrect password")
	ErrRegistrationFailed = errors.New("Registration failed")
)

// RegisteredMessage is returned by a successful registration.
const RegisteredMessage = "User registered successfully"

// AuthService registers users, logs them in and resolves credentials back
// to identities.
type AuthService struct {
	users  repositories.UserRepository
	issuer *auth.Issuer
}

func NewAuthService(users repositories.UserRepository, issuer *auth.Issuer) *AuthService {
	return &AuthService{users: users, issuer: issuer}
}

// Register stores a new user with a hashed password. Username uniqueness is
// not checked here.
func (s *AuthService) Register(ctx context.Context, username, email, password string, isAdmin bool) (string, error) {
	log := logger.WithCtx(ctx)

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Error("hash password", "error", err)
		return "", ErrRegistrationFailed
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hash,
		IsAdmin:  isAdmin,
	}
	if err := s.users.Create(ctx, user); err != nil {
		log.Error("register user", "username", username, "error", err)
		return "", ErrRegistrationFailed
	}

	log.Info("user registered", "user_id", user.ID.Hex())
	return RegisteredMessage, nil
}

// Login checks the password and issues a credential for the user's id.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if user == nil {
		metrics.AuthFailures.WithLabelValues("user_not_found").Inc()
		return "", ErrUserNotFound
	}
	if !auth.CheckPassword(user.Password, password) {
		metrics.AuthFailures.WithLabelValues("incorrect_password").Inc()
		return "", ErrIncorrectPassword
	}

	return s.issuer.Issue(user.ID.Hex())
}

// Authenticate verifies token and loads its subject. A credential whose user
// no longer exists is rejected.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*auth.Identity, error) {
	claims, err := s.issuer.Verify(token)
	if err != nil {
		metrics.AuthFailures.WithLabelValues("invalid_token").Inc()
		return nil, err
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if errors.Is(err, repositories.ErrInvalidID) || (err == nil && user == nil) {
		metrics.AuthFailures.WithLabelValues("unknown_subject").Inc()
		return nil, fmt.Errorf("%w: unknown subject", auth.ErrInvalidToken)
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	return &auth.Identity{
		UserID:   user.ID.Hex(),
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
	}, nil
}
