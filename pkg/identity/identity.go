package identity

import (
	"context"
	"fmt"

	"github.com/campusmart/campusmart-backend/pkg/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// Identity is the provider-asserted identity extracted from a bearer token.
type Identity struct {
	SubjectID uuid.UUID
	Email     string
}

// Verifier validates a bearer token issued by the identity provider.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// TokenClaims is the subset of provider claims the backend cares about.
type TokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTVerifier checks provider tokens locally using the shared signing secret.
type JWTVerifier struct {
	secret []byte
	issuer string
}

// NewJWTVerifier builds a verifier from the identity configuration.
func NewJWTVerifier(cfg config.IdentityConfig) (*JWTVerifier, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("identity jwt secret is required")
	}
	if cfg.Issuer == "" {
		return nil, fmt.Errorf("identity issuer is required")
	}
	return &JWTVerifier{secret: []byte(cfg.JWTSecret), issuer: cfg.Issuer}, nil
}

// Verify parses and validates the token, returning the subject identity.
func (v *JWTVerifier) Verify(_ context.Context, tokenString string) (*Identity, error) {
	claims := &TokenClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return v.secret, nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("token subject is not a uuid: %w", err)
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("token missing email claim")
	}
	return &Identity{SubjectID: subject, Email: claims.Email}, nil
}
