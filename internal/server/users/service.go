// Package users implements accounts and token issuance of the threads API.
package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/pulse/internal/common"
	"github.com/dmitrijs2005/pulse/internal/server/auth"
	"github.com/dmitrijs2005/pulse/internal/server/config"
	"github.com/dmitrijs2005/pulse/internal/server/refreshtokens"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo                         Repository
	refreshTokenRepo             refreshtokens.Repository
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	rotateRefreshTokens          bool
	bcryptCost                   int
}

func NewService(repo Repository, refreshTokenRepo refreshtokens.Repository, cfg *config.Config) *Service {
	return &Service{
		repo:                         repo,
		refreshTokenRepo:             refreshTokenRepo,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		rotateRefreshTokens:          cfg.RotateRefreshTokens,
		bcryptCost:                   bcrypt.DefaultCost,
	}
}

// WithBcryptCost lowers the hashing cost; tests use bcrypt.MinCost.
func (s *Service) WithBcryptCost(cost int) *Service {
	s.bcryptCost = cost
	return s
}

// Register creates the account and signs it in. A taken username or email
// is reported as a *ConflictError.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := s.repo.Create(ctx, &User{
		UserName:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PhoneNumber:  in.PhoneNumber,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.issue(ctx, user)
}

// Login checks identifier (username or email) and password.
func (s *Service) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	user, err := s.repo.GetUserByLogin(ctx, identifier)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, common.ErrorUnauthorized
	}

	return s.issue(ctx, user)
}

// Refresh exchanges a refresh token for a new access token. With rotation
// enabled the presented token is consumed and a new one returned; otherwise
// the response carries no refresh token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if s.rotateRefreshTokens {
		return s.rotate(ctx, refreshToken)
	}

	rt, err := s.refreshTokenRepo.Find(ctx, refreshToken)
	if err != nil {
		return nil, refreshError(err)
	}
	if time.Now().After(rt.Expires) {
		_ = s.refreshTokenRepo.Delete(ctx, refreshToken)
		return nil, common.ErrRefreshTokenExpired
	}

	accessToken, err := auth.GenerateToken(rt.UserID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: accessToken}, nil
}

// rotate consumes refreshToken atomically, so concurrent refreshes with the
// same token yield exactly one new pair.
func (s *Service) rotate(ctx context.Context, refreshToken string) (*TokenPair, error) {
	next := uuid.NewString()
	rt, err := s.refreshTokenRepo.Rotate(ctx, refreshToken, next, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, refreshError(err)
	}

	accessToken, err := auth.GenerateToken(rt.UserID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		_ = s.refreshTokenRepo.Delete(ctx, next)
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: next}, nil
}

func refreshError(err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return common.ErrInvalidToken
	case errors.Is(err, common.ErrRefreshTokenExpired):
		return common.ErrRefreshTokenExpired
	default:
		return common.ErrorInternal
	}
}

// Authenticate resolves the user behind an access token.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*User, error) {
	id, err := auth.GetUserIDFromToken(accessToken, s.jwtSecret)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

// RevokeAll drops every refresh token, forcing all clients to sign in again.
func (s *Service) RevokeAll(ctx context.Context) error {
	return s.refreshTokenRepo.DeleteAll(ctx)
}

func (s *Service) issue(ctx context.Context, user *User) (*AuthResult, error) {
	accessToken, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refreshToken, err := s.newRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &AuthResult{User: user, Tokens: TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}}, nil
}

func (s *Service) newRefreshToken(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	if err := s.refreshTokenRepo.Create(ctx, userID, token, s.refreshTokenValidityDuration); err != nil {
		return "", err
	}
	return token, nil
}
