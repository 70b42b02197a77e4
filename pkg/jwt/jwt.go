package jwt

import (
	"errors"
	"time"

	"clinic-scheduler/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "clinic-scheduler"

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

var ErrWrongTokenType = errors.New("wrong token type")

// Claims identify the caller. TokenID is the jti tracked by the token store.
type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	RoleID    int       `json:"role_id"`
	TokenType TokenType `json:"token_type"`
	TokenID   string    `json:"token_id"`
	jwt.RegisteredClaims
}

type JWTService struct {
	secret []byte
	expiry map[TokenType]time.Duration
}

func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret: []byte(cfg.Secret),
		expiry: map[TokenType]time.Duration{
			AccessToken:  cfg.AccessExpiry,
			RefreshToken: cfg.RefreshExpiry,
		},
	}
}

// GenerateAccessToken returns the signed token and its id
func (s *JWTService) GenerateAccessToken(userID uuid.UUID, email string, roleID int) (string, string, error) {
	return s.generate(userID, email, roleID, AccessToken)
}

func (s *JWTService) GenerateRefreshToken(userID uuid.UUID, email string, roleID int) (string, string, error) {
	return s.generate(userID, email, roleID, RefreshToken)
}

func (s *JWTService) generate(userID uuid.UUID, email string, roleID int, tokenType TokenType) (string, string, error) {
	tokenID := uuid.NewString()
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:    userID,
		Email:     email,
		RoleID:    roleID,
		TokenType: tokenType,
		TokenID:   tokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID.String(),
			ID:        tokenID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry[tokenType])),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", "", err
	}
	return signed, tokenID, nil
}

// Parse verifies signature, issuer and expiry, and that the token is of the
// wanted type.
func (s *JWTService) Parse(tokenString string, want TokenType) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if claims.TokenType != want {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// Expiry is the lifetime of tokens of the given type
func (s *JWTService) Expiry(tokenType TokenType) time.Duration {
	return s.expiry[tokenType]
}
