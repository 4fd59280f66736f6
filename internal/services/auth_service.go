package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"carehq/internal/caching"
	"carehq/internal/common"
	"carehq/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthService issues and refreshes access tokens. Refresh tokens are opaque,
// stored hashed in redis with a TTL, and rotated on every use.
type AuthService interface {
	GenerateTokens(ctx context.Context, userID, tenantID uuid.UUID) (*models.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenResponse, error)
	RevokeRefreshToken(ctx context.Context, refreshToken string) error
}

type authService struct {
	cacheSvc   caching.CacheService
	jwtSecret  []byte
	tokenTTL   int // Access token TTL in seconds
	refreshTTL int // Refresh token TTL in seconds
}

// TokenClaims represents the JWT claims carried on access tokens.
type TokenClaims struct {
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
	jwt.RegisteredClaims
}

func (c *TokenClaims) UserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}

func (c *TokenClaims) TenantUUID() (uuid.UUID, error) {
	return uuid.Parse(c.TenantID)
}

func NewAuthService(cacheSvc caching.CacheService, jwtSecret string, tokenTTLSeconds, refreshTTLSeconds int) AuthService {
	return &authService{
		cacheSvc:   cacheSvc,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTLSeconds,
		refreshTTL: refreshTTLSeconds,
	}
}

func (s *authService) GenerateTokens(ctx context.Context, userID, tenantID uuid.UUID) (*models.TokenResponse, error) {
	now := time.Now()
	tokenID := uuid.NewString()

	claims := TokenClaims{
		UserID:   userID.String(),
		TenantID: tenantID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "carehq-auth",
			Subject:   userID.String(),
			Audience:  jwt.ClaimStrings{"carehq-api"},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.tokenTTL) * time.Second)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        tokenID,
		},
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshToken, err := generateSecureToken()
	if err != nil {
		return nil, err
	}

	value := fmt.Sprintf("%s:%s", userID, tenantID)
	key := refreshTokenKey(refreshToken)
	if err := s.cacheSvc.SetString(ctx, key, value, time.Duration(s.refreshTTL)*time.Second); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &models.TokenResponse{
		AccessToken:  accessToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.tokenTTL,
		RefreshToken: refreshToken,
		UserID:       userID.String(),
		TenantID:     tenantID.String(),
		IssuedAt:     now,
	}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	key := refreshTokenKey(refreshToken)
	value, err := s.cacheSvc.GetString(ctx, key)
	if err != nil {
		return nil, &common.AuthenticationError{Reason: "invalid refresh token"}
	}

	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return nil, &common.AuthenticationError{Reason: "invalid refresh token"}
	}
	userID, err1 := uuid.Parse(parts[0])
	tenantID, err2 := uuid.Parse(parts[1])
	if err1 != nil || err2 != nil {
		return nil, &common.AuthenticationError{Reason: "invalid refresh token"}
	}

	// Rotate: the presented token is single-use.
	_ = s.cacheSvc.Delete(ctx, key)

	return s.GenerateTokens(ctx, userID, tenantID)
}

func (s *authService) RevokeRefreshToken(ctx context.Context, refreshToken string) error {
	return s.cacheSvc.Delete(ctx, refreshTokenKey(refreshToken))
}

func refreshTokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "carehq:refresh_token:" + hex.EncodeToString(sum[:])
}

func generateSecureToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
