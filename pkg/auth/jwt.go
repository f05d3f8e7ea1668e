package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/khryptorgraphics/cpuschedsim/internal/config"
)

// JWTService issues and validates the bearer tokens that guard the run
// history endpoints in pkg/api. The simulation itself never touches
// this package: authentication is a host concern, not a core one.
type JWTService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
	expiration time.Duration
}

// Claims is the JWT payload carried by a client token.
type Claims struct {
	ClientID string `json:"client_id"`
	jwt.RegisteredClaims
}

// NewJWTService generates an RSA key pair and returns a service with the
// fixed issuer "cpuschedsim" and the token expiry from cfg (24h when cfg
// is nil or sets none).
func NewJWTService(cfg *config.AuthConfig) (*JWTService, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA key: %w", err)
	}

	svc := &JWTService{
		privateKey: privateKey,
		publicKey:  &privateKey.PublicKey,
		issuer:     "cpuschedsim",
		expiration: 24 * time.Hour,
	}
	if cfg != nil && cfg.TokenExpiry > 0 {
		svc.expiration = cfg.TokenExpiry
	}
	return svc, nil
}

// GenerateToken issues a signed token for clientID.
func (j *JWTService) GenerateToken(clientID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Subject:   clientID,
			ExpiresAt: jwt.NewNumericDate(now.Add(j.expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(j.privateKey)
}

// ValidateToken parses and verifies a bearer token.
func (j *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.publicKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
