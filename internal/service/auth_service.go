// Package service implements the business rules of the skill swap platform.
package service

import (
	"context"
	"errors"
	"strings"

	"skillswap/internal/auth"
	"skillswap/internal/models"
	"skillswap/internal/observability"
	"skillswap/internal/repository"
	"skillswap/internal/validation"
)

type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenIssuer
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

type RegisterInput struct {
	Email        string
	Username     string
	Password     string
	Name         string
	Location     *string
	Bio          *string
	Availability models.Availability
	Visibility   models.Visibility
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Register creates an active user account.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	in.Name = strings.TrimSpace(in.Name)
	if in.Availability == "" {
		in.Availability = models.AvailabilityAnytime
	}
	if in.Visibility == "" {
		in.Visibility = models.VisibilityPublic
	}

	for _, check := range []error{
		validation.ValidateEmail(in.Email),
		validation.ValidateUsername(in.Username),
		validation.ValidatePassword(in.Password),
		validation.ValidateName(in.Name),
		validation.ValidateAvailability(in.Availability),
		validation.ValidateVisibility(in.Visibility),
	} {
		if check != nil {
			return nil, models.NewValidationError(check.Error())
		}
	}

	if err := checkIdentityAvailable(ctx, s.users, in.Email, in.Username, 0); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: hash,
		Name:         in.Name,
		Location:     in.Location,
		Bio:          in.Bio,
		Availability: in.Availability,
		Visibility:   in.Visibility,
		Role:         models.RoleUser,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// checkIdentityAvailable rejects an email or username already held by another
// account. The unique indexes still catch races between check and insert.
func checkIdentityAvailable(ctx context.Context, users repository.UserRepository, email, username string, selfID uint) error {
	if email != "" {
		existing, err := users.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return models.NewConflictError("Email already registered")
		}
	}
	if username != "" {
		existing, err := users.GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return models.NewConflictError("Username already taken")
		}
	}
	return nil
}

// Login verifies credentials and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if user == nil || !auth.VerifyPassword(password, user.PasswordHash) {
		observability.AuthFailures.WithLabelValues(models.CodeUnauthorized).Inc()
		return nil, models.NewUnauthorizedError("Incorrect email or password")
	}
	if err := auth.CheckAccount(user); err != nil {
		recordAuthFailure(err)
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
	}, nil
}

// ResolveActor turns a bearer token into the active account it names.
func (s *AuthService) ResolveActor(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.Parse(token)
	if err != nil {
		recordAuthFailure(err)
		return nil, err
	}

	user, err := s.users.GetActor(ctx, userID)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			err = models.NewUnknownSubjectError(userID)
		}
		recordAuthFailure(err)
		return nil, err
	}

	if err := auth.CheckAccount(user); err != nil {
		recordAuthFailure(err)
		return nil, err
	}
	return user, nil
}

func recordAuthFailure(err error) {
	code := models.CodeInternal
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		code = appErr.Code
	}
	observability.AuthFailures.WithLabelValues(code).Inc()
}
