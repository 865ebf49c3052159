package jwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// Claims son los claims de identidad embebidos en el access token.
type Claims struct {
	UserID string
	Email  string
	Role   string
}

// Issuer firma access tokens EdDSA con la clave del proceso.
type Issuer struct {
	Iss       string // "iss"
	AccessTTL time.Duration

	kid  string
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
}

// NewIssuer crea un issuer a partir de un seed ed25519 (base64, 32 bytes).
// Con seed vacío genera una clave efímera: los tokens no sobreviven un
// reinicio del proceso, aceptable en dev.
func NewIssuer(iss, seedB64 string, accessTTL time.Duration) (*Issuer, error) {
	var priv ed25519.PrivateKey
	if seedB64 == "" {
		_, p, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("jwt: generate key: %w", err)
		}
		priv = p
	} else {
		seed, err := base64.StdEncoding.DecodeString(seedB64)
		if err != nil {
			return nil, fmt.Errorf("jwt: decode seed: %w", err)
		}
		if len(seed) != ed25519.SeedSize {
			return nil, fmt.Errorf("jwt: seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
		}
		priv = ed25519.NewKeyFromSeed(seed)
	}

	pub := priv.Public().(ed25519.PublicKey)
	sum := sha256.Sum256(pub)

	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}

	return &Issuer{
		Iss:       iss,
		AccessTTL: accessTTL,
		kid:       base64.RawURLEncoding.EncodeToString(sum[:8]),
		priv:      priv,
		pub:       pub,
	}, nil
}

// IssueAccess emite un access token {sub, email, role} con expiración corta.
func (i *Issuer) IssueAccess(c Claims) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(i.AccessTTL)

	claims := jwtv5.MapClaims{
		"iss":   i.Iss,
		"sub":   c.UserID,
		"email": c.Email,
		"role":  c.Role,
		"iat":   now.Unix(),
		"nbf":   now.Unix(),
		"exp":   exp.Unix(),
	}
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodEdDSA, claims)
	tk.Header["kid"] = i.kid
	tk.Header["typ"] = "JWT"

	signed, err := tk.SignedString(i.priv)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}
