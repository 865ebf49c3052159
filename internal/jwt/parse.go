package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenInvalid indica firma inválida, issuer incorrecto o claims rotos.
	ErrTokenInvalid = errors.New("jwt: invalid token")

	// ErrTokenExpired indica un token bien firmado pero vencido.
	ErrTokenExpired = errors.New("jwt: token expired")
)

// Parse valida firma (EdDSA), chequea iss y exp/nbf con tolerancia de 30s,
// y devuelve los claims de identidad.
func (i *Issuer) Parse(token string) (*Claims, error) {
	tok, err := jwtv5.Parse(token, func(t *jwtv5.Token) (any, error) {
		return i.pub, nil
	}, jwtv5.WithValidMethods([]string{"EdDSA"}))
	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !tok.Valid {
		return nil, ErrTokenInvalid
	}

	claims, ok := tok.Claims.(jwtv5.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}

	if i.Iss != "" {
		if iss, _ := claims["iss"].(string); iss != i.Iss {
			return nil, ErrTokenInvalid
		}
	}

	now := time.Now()
	if expf, ok := claims["exp"].(float64); ok {
		if time.Unix(int64(expf), 0).Before(now.Add(-30 * time.Second)) {
			return nil, ErrTokenExpired
		}
	}
	if nbff, ok := claims["nbf"].(float64); ok {
		if time.Unix(int64(nbff), 0).After(now.Add(30 * time.Second)) {
			return nil, ErrTokenInvalid
		}
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrTokenInvalid
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	return &Claims{UserID: sub, Email: email, Role: role}, nil
}
