package auth

import (
	"errors"
	"time"

	"github.com/Abraxas-365/jobtrack/pkg/kernel"
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the claims carried by an access token
type TokenClaims struct {
	UserID    kernel.UserID
	Email     string
	Scopes    []string
	ExpiresAt time.Time
}

// TokenService issues and validates access tokens
type TokenService interface {
	GenerateAccessToken(userID kernel.UserID, email string, scopes []string) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
}

type jwtClaims struct {
	Email  string   `json:"email,omitempty"`
	Scopes []string `json:"scopes,omitempty"`
	jwt.RegisteredClaims
}

// JWTService signs HS256 access tokens
type JWTService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewJWTService(secret string, accessTTL time.Duration, issuer string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		ttl:    accessTTL,
		issuer: issuer,
		now:    time.Now,
	}
}

func (s *JWTService) GenerateAccessToken(userID kernel.UserID, email string, scopes []string) (string, error) {
	now := s.now()
	claims := jwtClaims{
		Email:  email,
		Scopes: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", ErrRegistry.NewWithCause(CodeTokenGeneration, err)
	}
	return signed, nil
}

func (s *JWTService) ValidateAccessToken(token string) (*TokenClaims, error) {
	claims := &jwtClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		e := ErrInvalidToken().WithCause(err)
		if errors.Is(err, jwt.ErrTokenExpired) {
			e.WithDetail("reason", "expired")
		}
		return nil, e
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken()
	}

	out := &TokenClaims{
		UserID: kernel.UserID(claims.Subject),
		Email:  claims.Email,
		Scopes: claims.Scopes,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
