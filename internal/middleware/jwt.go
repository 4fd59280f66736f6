package middleware

import (
	"context"
	"fmt"
	"strings"
	"time"

	"carehq/internal/common"
	"carehq/internal/services"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// TokenVerifier resolves the signing key for incoming bearer tokens.
// Two modes exist: a shared HS256 secret, or an RS256 JWKS endpoint for
// deployments that delegate token issuance to an external identity provider.
type TokenVerifier struct {
	keyfunc jwt.Keyfunc
	methods []string
}

// NewSecretVerifier verifies tokens signed with a shared HMAC secret.
func NewSecretVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{
		keyfunc: func(token *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		},
		methods: []string{jwt.SigningMethodHS256.Alg()},
	}
}

// NewJWKSVerifier verifies tokens against a remote JWKS endpoint. The key set
// refreshes in the background so key rotation needs no restart.
func NewJWKSVerifier(jwksURL string) (*TokenVerifier, error) {
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch jwks: %w", err)
	}
	return &TokenVerifier{
		keyfunc: jwks.Keyfunc,
		methods: []string{jwt.SigningMethodRS256.Alg(), jwt.SigningMethodES256.Alg()},
	}, nil
}

// JWTMiddleware validates the bearer token and stores the authenticated
// user and tenant IDs in the request context.
func JWTMiddleware(verifier *TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return common.RespondError(c, &common.AuthenticationError{Reason: "missing bearer token"})
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return common.RespondError(c, &common.AuthenticationError{Reason: "malformed authorization header"})
			}

			claims := &services.TokenClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, verifier.keyfunc,
				jwt.WithValidMethods(verifier.methods))
			if err != nil || !token.Valid {
				return common.RespondError(c, &common.AuthenticationError{Reason: "invalid token"})
			}
			if claims.UserID == "" || claims.TenantID == "" {
				return common.RespondError(c, &common.AuthenticationError{Reason: "token missing identity claims"})
			}

			userID, err := claims.UserUUID()
			if err != nil {
				return common.RespondError(c, &common.AuthenticationError{Reason: "invalid user claim"})
			}
			tenantID, err := claims.TenantUUID()
			if err != nil {
				return common.RespondError(c, &common.AuthenticationError{Reason: "invalid tenant claim"})
			}

			ctx := context.WithValue(c.Request().Context(), common.UserIDKey, userID)
			ctx = context.WithValue(ctx, common.TenantIDKey, tenantID)
			ctx = context.WithValue(ctx, common.RequestIDKey, requestID(c))
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// requestID returns the correlation ID echo's RequestID middleware assigned.
func requestID(c echo.Context) string {
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}
