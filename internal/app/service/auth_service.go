package service

import (
	"context"
	"errors"
	"fmt"

	"minisocial/internal/common"
	"minisocial/internal/common/security"
	"minisocial/internal/domain/model"
	"minisocial/internal/domain/repository"
)

const (
	MsgSignupIncomplete     = "Please fill out the form completely"
	MsgEmailInUse           = "Email already in use"
	MsgPasswordTooLong      = "Password must be at most 72 bytes"
	MsgUserRegistered       = "User registered successfully"
	MsgLoginIncomplete      = "Email and password are required"
	MsgInvalidCredentials   = "Invalid email or password"
	MsgUserLoggedIn         = "User logged in successfully"
	MsgFollowNotImplemented = "Not implemented"
)

type AuthService struct {
	userRepo repository.UserRepository
	tokens   *security.TokenIssuer
}

func NewAuthService(userRepo repository.UserRepository, tokens *security.TokenIssuer) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens}
}

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// Signup registers a user and returns the confirmation message.
//
// The email lookup only produces a friendlier error early; two concurrent
// signups can both pass it, and the unique index rejects the second insert.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (string, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return "", common.NewPublicError(common.ErrValidation, MsgSignupIncomplete)
	}

	_, err := s.userRepo.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return "", common.NewPublicError(common.ErrConflict, MsgEmailInUse)
	case !errors.Is(err, common.ErrNotFound):
		return "", fmt.Errorf("failed to look up email: %w", err)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooLong) {
			return "", common.NewPublicError(common.ErrValidation, MsgPasswordTooLong)
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hashedPassword,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return "", common.NewPublicError(common.ErrConflict, MsgEmailInUse)
		}
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	return MsgUserRegistered, nil
}

// Login checks the credentials and issues a one-hour session token. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if req.Email == "" || req.Password == "" {
		return nil, common.NewPublicError(common.ErrValidation, MsgLoginIncomplete)
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewPublicError(common.ErrInvalidCredentials, MsgInvalidCredentials)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.NewPublicError(common.ErrInvalidCredentials, MsgInvalidCredentials)
	}

	token, _, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &LoginResult{Message: MsgUserLoggedIn, Token: token}, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Follow is a recognized operation with no implementation behind it.
func (s *AuthService) Follow(ctx context.Context) error {
	return common.NewPublicError(common.ErrNotImplemented, MsgFollowNotImplemented)
}
