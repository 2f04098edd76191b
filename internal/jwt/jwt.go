package jwt

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"chipstack-server/internal/config"
	jwtgo "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer issues the JWT
const Issuer = "chipstack.server"

// Audience is the intended JWT audience
const Audience = "chipstack.players"

var publicKey *rsa.PublicKey
var privateKey *rsa.PrivateKey

// LoadKeys will load the public and private keys from the configured paths
// A missing private key is allowed, the server only needs to validate
func LoadKeys() error {
	cfg := config.Instance().JWT

	var err error
	if publicKey, err = loadPublicKey(cfg.PublicKey); err != nil {
		return err
	}

	if _, statErr := os.Stat(cfg.PrivateKey); statErr == nil {
		if privateKey, err = loadPrivateKey(cfg.PrivateKey); err != nil {
			return err
		}
	}

	return nil
}

// Sign will sign a JWT for the player ID
// A ttl of zero issues a token that does not expire
func Sign(playerID int64, ttl time.Duration) (string, error) {
	if privateKey == nil {
		return "", errors.New("private key is not loaded")
	}

	now := time.Now()
	claims := jwtgo.RegisteredClaims{
		Audience: jwtgo.ClaimStrings{Audience},
		ID:       uuid.New().String(),
		IssuedAt: jwtgo.NewNumericDate(now),
		Issuer:   Issuer,
		Subject:  strconv.FormatInt(playerID, 10),
	}

	if ttl > 0 {
		claims.ExpiresAt = jwtgo.NewNumericDate(now.Add(ttl))
	}

	return jwtgo.NewWithClaims(jwtgo.SigningMethodRS256, claims).SignedString(privateKey)
}

// ValidPlayerID will validate a signed JWT and return the player ID in its subject
func ValidPlayerID(signedString string) (int64, error) {
	if publicKey == nil {
		return 0, errors.New("public key is not loaded")
	}

	claims := &jwtgo.RegisteredClaims{}
	_, err := jwtgo.ParseWithClaims(signedString, claims, func(token *jwtgo.Token) (interface{}, error) {
		return publicKey, nil
	},
		jwtgo.WithValidMethods([]string{jwtgo.SigningMethodRS256.Alg()}),
		jwtgo.WithAudience(Audience),
		jwtgo.WithIssuer(Issuer),
	)

	if err != nil {
		return 0, err
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid subject: %q", claims.Subject)
	}

	return id, nil
}

func loadPublicKey(path string) (*rsa.PublicKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read public key: %w", err)
	}

	key, err := jwtgo.ParseRSAPublicKeyFromPEM(b)
	if err != nil {
		return nil, fmt.Errorf("could not parse RSA public key: %w", err)
	}

	return key, nil
}

func loadPrivateKey(path string) (*rsa.PrivateKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read private key: %w", err)
	}

	key, err := jwtgo.ParseRSAPrivateKeyFromPEM(b)
	if err != nil {
		return nil, fmt.Errorf("could not parse RSA private key: %w", err)
	}

	return key, nil
}
