package auth

import (
	"crypto/rsa"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	nanoid "github.com/matoous/go-nanoid/v2"
)

// GitHub rejects app JWTs that live longer than ten minutes.
const (
	AppJWTTTL = 9 * time.Minute

	// clockSkew backdates iat so a fast local clock is still accepted.
	clockSkew = 60 * time.Second
)

// AppClaims are the claims of a GitHub App JWT.
type AppClaims struct {
	jwt.RegisteredClaims
}

// SignAppJWT creates the RS256 JWT that authenticates as the app itself.
func SignAppJWT(appID int64, key *rsa.PrivateKey, now time.Time) (string, error) {
	if appID <= 0 {
		return "", ErrAppConfig
	}
	if key == nil {
		return "", ErrInvalidPrivateKey
	}

	tokenID, err := nanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate token ID: %w", err)
	}

	claims := AppClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    strconv.FormatInt(appID, 10),
			IssuedAt:  jwt.NewNumericDate(now.Add(-clockSkew)),
			ExpiresAt: jwt.NewNumericDate(now.Add(AppJWTTTL)),
			ID:        tokenID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(key)
}

// ParseAppJWT verifies an app JWT against the public key.
func ParseAppJWT(tokenString string, pub *rsa.PublicKey) (*AppClaims, error) {
	claims := &AppClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return pub, nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// ParsePrivateKey decodes a PEM RSA key in PKCS#1 or PKCS#8 form.
func ParsePrivateKey(pemBytes []byte) (*rsa.PrivateKey, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}
	return key, nil
}

// LoadPrivateKey reads and parses the key at path.
func LoadPrivateKey(path string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read GitHub App private key: %w", err)
	}
	return ParsePrivateKey(data)
}
