// Package security provides token based authentication
package security

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/savorly/savorly/internal/infrastructure/config"
	"github.com/savorly/savorly/internal/ports/outbound"
	"go.uber.org/zap"
)

var (
	// ErrInvalidToken is returned for malformed, expired or wrongly signed tokens
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrTokenRevoked is returned for tokens revoked by sign-out
	ErrTokenRevoked = errors.New("token has been revoked")
	// ErrWrongTokenType is returned when a refresh token is used for API access
	ErrWrongTokenType = errors.New("wrong token type")
)

// TokenType represents different types of JWT tokens
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

const audience = "savorly-api"

// Claims represents JWT claims structure
type Claims struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// AuthService issues and validates HS256 signed tokens. Revocations are
// kept in the cache so every replica sharing it honors a sign-out.
type AuthService struct {
	config    config.AuthConfig
	cache     outbound.CacheRepository
	logger    *zap.Logger
	jwtSecret []byte
	now       func() time.Time
}

// NewAuthService creates a new authentication service. Without a configured
// secret a random one is generated, so tokens do not survive a restart.
func NewAuthService(cfg config.AuthConfig, cache outbound.CacheRepository, logger *zap.Logger) (*AuthService, error) {
	logger = logger.Named("auth")

	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("failed to generate signing secret: %w", err)
		}
		secret = []byte(hex.EncodeToString(buf))
		logger.Warn("No JWT secret configured, using an ephemeral one")
	}

	return &AuthService{
		config:    cfg,
		cache:     cache,
		logger:    logger,
		jwtSecret: secret,
		now:       time.Now,
	}, nil
}

// IssueTokens creates an access and refresh token pair for a user
func (a *AuthService) IssueTokens(_ context.Context, userID uuid.UUID, email string) (*outbound.TokenPair, error) {
	now := a.now()
	accessExpiry := now.Add(a.config.JWTExpiration)

	access, err := a.sign(userID, email, AccessToken, now, accessExpiry)
	if err != nil {
		return nil, err
	}
	refresh, err := a.sign(userID, email, RefreshToken, now, now.Add(a.config.RefreshExpiration))
	if err != nil {
		return nil, err
	}

	return &outbound.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    accessExpiry.UTC(),
	}, nil
}

func (a *AuthService) sign(userID uuid.UUID, email string, tokenType TokenType, now, expiresAt time.Time) (string, error) {
	claims := &Claims{
		UserID:    userID.String(),
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.config.Issuer,
			Subject:   userID.String(),
			Audience:  []string{audience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

// ValidateAccessToken parses an access token and checks it was not revoked
func (a *AuthService) ValidateAccessToken(ctx context.Context, tokenString string) (*outbound.TokenClaims, error) {
	claims, err := a.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != AccessToken {
		return nil, ErrWrongTokenType
	}

	revoked, err := a.cache.Exists(ctx, revocationKey(claims.ID))
	if err != nil {
		a.logger.Warn("Failed to check token revocation", zap.Error(err))
	} else if revoked {
		return nil, ErrTokenRevoked
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &outbound.TokenClaims{
		UserID:    userID,
		Email:     claims.Email,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// RevokeToken revokes a token until it would have expired anyway
func (a *AuthService) RevokeToken(ctx context.Context, tokenString string) error {
	claims, err := a.parse(tokenString)
	if err != nil {
		return err
	}

	ttl := claims.ExpiresAt.Time.Sub(a.now())
	if ttl <= 0 {
		return nil
	}
	if err := a.cache.Set(ctx, revocationKey(claims.ID), []byte("revoked"), ttl); err != nil {
		return fmt.Errorf("failed to store revocation: %w", err)
	}

	a.logger.Info("Token revoked",
		zap.String("user_id", claims.UserID),
		zap.String("token_id", claims.ID),
	)
	return nil
}

func (a *AuthService) parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return a.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audience),
		jwt.WithIssuer(a.config.Issuer),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func revocationKey(tokenID string) string {
	return fmt.Sprintf("revoked_token:%s", tokenID)
}

var _ outbound.TokenService = (*AuthService)(nil)
