package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	UserCookie  = "userToken"
	AdminCookie = "adminToken"

	SessionTTL = 24 * time.Hour
)

type SessionClaims struct {
	UserID uint `json:"userId"`
	jwt.RegisteredClaims
}

// RevocationStore remembers logged-out token ids until they would expire anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// TokenService signs session tokens and moves them in and out of cookies.
// Admin and user sessions use the same encoding under different cookie names,
// so one browser can hold both at once.
type TokenService struct {
	secret        []byte
	ttl           time.Duration
	secureCookies bool
	revocations   RevocationStore

	Now func() time.Time
}

// NewTokenService fails when secret is empty. revocations may be nil, in which
// case logout only clears the cookie.
func NewTokenService(secret string, secureCookies bool, revocations RevocationStore) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token signing secret is empty")
	}
	return &TokenService{
		secret:        []byte(secret),
		ttl:           SessionTTL,
		secureCookies: secureCookies,
		revocations:   revocations,
		Now:           time.Now,
	}, nil
}

// Sign returns a token for userID and its expiry.
func (s *TokenService) Sign(userID uint) (string, time.Time, error) {
	now := s.Now().UTC()
	expires := now.Add(s.ttl)

	claims := SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, expires, nil
}

// Issue signs a token for userID and sets it as cookieName on w.
func (s *TokenService) Issue(w http.ResponseWriter, userID uint, cookieName string) (string, error) {
	token, expires, err := s.Sign(userID)
	if err != nil {
		return "", err
	}

	http.SetCookie(w, s.cookie(cookieName, token, int(s.ttl.Seconds()), expires))
	return token, nil
}

// Clear overwrites cookieName with an empty, already expired value.
func (s *TokenService) Clear(w http.ResponseWriter, cookieName string) {
	http.SetCookie(w, s.cookie(cookieName, "", -1, time.Unix(0, 0)))
}

func (s *TokenService) cookie(name, value string, maxAge int, expires time.Time) *http.Cookie {
	sameSite := http.SameSiteNoneMode
	if !s.secureCookies {
		// browsers drop SameSite=None cookies without Secure
		sameSite = http.SameSiteLaxMode
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Expires:  expires,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: sameSite,
	}
}

// parse checks the signature and then expiry against s.Now, so tests that move
// the clock see the same result as production.
func (s *TokenService) parse(token string) (*SessionClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	claims := &SessionClaims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	if !claims.VerifyExpiresAt(s.Now(), true) {
		return nil, ErrTokenExpired
	}
	if claims.UserID == 0 {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Verify returns the user id carried by token.
func (s *TokenService) Verify(ctx context.Context, token string) (uint, error) {
	claims, err := s.parse(token)
	if err != nil {
		return 0, err
	}

	if s.revocations != nil && claims.ID != "" {
		revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return 0, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return 0, ErrTokenRevoked
		}
	}
	return claims.UserID, nil
}

// Revoke blocks token until its expiry. Invalid or expired tokens are ignored.
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	if s.revocations == nil || token == "" {
		return nil
	}
	claims, err := s.parse(token)
	if err != nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}

	ttl := claims.ExpiresAt.Time.Sub(s.Now())
	if ttl <= 0 {
		return nil
	}
	return s.revocations.Revoke(ctx, claims.ID, ttl)
}
