package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"alumnet/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer   = "alumnet-api"
	tokenAudience = "alumnet-client"
)

// ErrTokenRevoked is returned by Verify for a token that was logged out.
var ErrTokenRevoked = errors.New("token has been revoked")

// Claims is the identity carried by a session token.
type Claims struct {
	UserID    uint
	Email     string
	Role      models.Role
	TokenID   string
	ExpiresAt time.Time
}

type tokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HMAC-signed session tokens.
type TokenService struct {
	secret      []byte
	ttl         time.Duration
	revocations RevocationStore
	logger      *slog.Logger
	now         func() time.Time
}

// NewTokenService builds a TokenService. revocations may be nil, in which case
// logout cannot invalidate tokens before expiry.
func NewTokenService(secret string, ttl time.Duration, revocations RevocationStore, logger *slog.Logger) *TokenService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenService{
		secret:      []byte(secret),
		ttl:         ttl,
		revocations: revocations,
		logger:      logger,
		now:         time.Now,
	}
}

// Issue signs a token for user.
func (s *TokenService) Issue(user *models.User) (string, *Claims, error) {
	if len(s.secret) == 0 {
		return "", nil, fmt.Errorf("JWT secret not configured")
	}

	now := s.now()
	claims := &Claims{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		TokenID:   uuid.NewString(),
		ExpiresAt: now.Add(s.ttl),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Email: claims.Email,
		Role:  string(claims.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        claims.TokenID,
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// Verify checks signature, expiry, issuer, audience and revocation, returning
// an Unauthenticated AppError on any failure.
func (s *TokenService) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	var tc tokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &tc, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, models.NewUnauthenticatedError("Invalid or expired token")
	}

	userID, err := strconv.ParseUint(tc.Subject, 10, 32)
	if err != nil || userID == 0 {
		return nil, models.NewUnauthenticatedError("Invalid user ID in token")
	}
	role, ok := models.ParseRole(tc.Role)
	if !ok {
		return nil, models.NewUnauthenticatedError("Invalid role in token")
	}

	if s.revocations != nil && tc.ID != "" {
		revoked, err := s.revocations.IsRevoked(ctx, tc.ID)
		if err != nil {
			// Revocation store outage: keep serving, the token is otherwise valid.
			s.logger.WarnContext(ctx, "token revocation check failed", slog.String("error", err.Error()))
		} else if revoked {
			return nil, models.NewUnauthenticatedError(ErrTokenRevoked.Error())
		}
	}

	claims := &Claims{
		UserID:  uint(userID),
		Email:   tc.Email,
		Role:    role,
		TokenID: tc.ID,
	}
	if tc.ExpiresAt != nil {
		claims.ExpiresAt = tc.ExpiresAt.Time
	}
	return claims, nil
}

// Revoke blacklists the token until it would have expired anyway.
func (s *TokenService) Revoke(ctx context.Context, claims *Claims) error {
	if s.revocations == nil || claims == nil || claims.TokenID == "" {
		return nil
	}
	remaining := claims.ExpiresAt.Sub(s.now())
	if remaining <= 0 {
		return nil
	}
	return s.revocations.Revoke(ctx, claims.TokenID, remaining)
}
