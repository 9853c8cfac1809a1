package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/config"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/dto"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/identity"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/models"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	users  repository.UserStore
	tokens repository.RefreshTokenStore
	cfg    *config.Config
	now    func() time.Time
}

func NewAuthService(stores repository.Stores, cfg *config.Config) *AuthService {
	return &AuthService{
		users:  stores.Users,
		tokens: stores.RefreshTokens,
		cfg:    cfg,
		now:    time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if fields := validateStruct(req); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	_, err := s.users.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, storeErr(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:       uuid.NewString(),
		Email:    req.Email,
		Password: string(hash),
		Name:     optional(req.Name),
		Company:  optional(req.Company),
		Role:     models.RoleBroker,
		IsActive: true,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, storeErr(err)
	}

	slog.Info("broker registered", "owner_id", user.ID)
	return s.generateTokenPair(ctx, &user)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, storeErr(err)
	}
	if !user.IsActive || user.Password == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokenPair(ctx, user)
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued.
func (s *AuthService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	if req.RefreshToken == "" {
		return nil, ErrInvalidToken
	}
	stored, err := s.tokens.FindActive(ctx, hashToken(req.RefreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, storeErr(err)
	}

	if err := s.tokens.Revoke(ctx, stored.ID); err != nil {
		return nil, storeErr(err)
	}
	if s.now().After(stored.ExpiresAt) {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, storeErr(err)
	}
	if !user.IsActive {
		return nil, ErrInvalidToken
	}

	return s.generateTokenPair(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, req *dto.LogoutRequest) error {
	if req.RefreshToken == "" {
		return nil
	}
	return storeErr(s.tokens.RevokeByHash(ctx, hashToken(req.RefreshToken)))
}

// Me returns the broker behind the session, creating the row on first use.
func (s *AuthService) Me(ctx context.Context, session identity.Session) (*dto.UserResponse, error) {
	user, err := ensureBroker(ctx, s.users, session)
	if err != nil {
		return nil, err
	}
	resp := userResponse(user)
	return &resp, nil
}

func (s *AuthService) generateTokenPair(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         userResponse(user),
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":     user.ID,
		"email":   user.Email,
		"name":    deref(user.Name),
		"company": deref(user.Company),
		"role":    user.Role,
		"iat":     now.Unix(),
		"exp":     now.Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(ctx context.Context, user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)
	record := models.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: s.now().Add(s.cfg.JWTRefreshExpiry),
	}
	if err := s.tokens.Create(ctx, &record); err != nil {
		return "", storeErr(err)
	}

	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}

func userResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:      u.ID,
		Email:   u.Email,
		Name:    deref(u.Name),
		Company: deref(u.Company),
		Role:    u.Role,
	}
}
