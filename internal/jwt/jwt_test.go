package jwt_test

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/rescuetrack/internal/jwt"
)

var testSeed = base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))

func TestIssueAndParse(t *testing.T) {
	iss, err := jwt.NewIssuer("rescuetrack", testSeed, time.Minute)
	require.NoError(t, err)

	tok, exp, err := iss.IssueAccess(jwt.Claims{UserID: "u1", Email: "maria@rescue.dev", Role: "rescuer"})
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	require.WithinDuration(t, time.Now().Add(time.Minute), exp, 5*time.Second)

	got, err := iss.Parse(tok)
	require.NoError(t, err)
	require.Equal(t, "u1", got.UserID)
	require.Equal(t, "maria@rescue.dev", got.Email)
	require.Equal(t, "rescuer", got.Role)
}

func TestParseExpired(t *testing.T) {
	iss, err := jwt.NewIssuer("rescuetrack", testSeed, time.Minute)
	require.NoError(t, err)
	iss.AccessTTL = -2 * time.Minute // emitido ya vencido

	tok, _, err := iss.IssueAccess(jwt.Claims{UserID: "u1"})
	require.NoError(t, err)

	_, err = iss.Parse(tok)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseWrongIssuer(t *testing.T) {
	a, err := jwt.NewIssuer("rescuetrack", testSeed, time.Minute)
	require.NoError(t, err)
	b, err := jwt.NewIssuer("otro-servicio", testSeed, time.Minute)
	require.NoError(t, err)

	tok, _, err := a.IssueAccess(jwt.Claims{UserID: "u1"})
	require.NoError(t, err)

	_, err = b.Parse(tok)
	require.ErrorIs(t, err, jwt.ErrTokenInvalid)
}

func TestParseWrongKey(t *testing.T) {
	a, err := jwt.NewIssuer("rescuetrack", testSeed, time.Minute)
	require.NoError(t, err)
	b, err := jwt.NewIssuer("rescuetrack", "", time.Minute) // clave efímera distinta
	require.NoError(t, err)

	tok, _, err := a.IssueAccess(jwt.Claims{UserID: "u1"})
	require.NoError(t, err)

	_, err = b.Parse(tok)
	require.ErrorIs(t, err, jwt.ErrTokenInvalid)
}

func TestParseGarbage(t *testing.T) {
	iss, err := jwt.NewIssuer("rescuetrack", testSeed, time.Minute)
	require.NoError(t, err)

	_, err = iss.Parse("no.es.jwt")
	require.ErrorIs(t, err, jwt.ErrTokenInvalid)
	_, err = iss.Parse("")
	require.ErrorIs(t, err, jwt.ErrTokenInvalid)
}

func TestSeedIsDeterministic(t *testing.T) {
	// Dos procesos con el mismo seed validan los tokens del otro.
	a, err := jwt.NewIssuer("rescuetrack", testSeed, time.Minute)
	require.NoError(t, err)
	b, err := jwt.NewIssuer("rescuetrack", testSeed, time.Minute)
	require.NoError(t, err)

	tok, _, err := a.IssueAccess(jwt.Claims{UserID: "u1"})
	require.NoError(t, err)
	got, err := b.Parse(tok)
	require.NoError(t, err)
	require.Equal(t, "u1", got.UserID)
}

func TestNewIssuerBadSeed(t *testing.T) {
	_, err := jwt.NewIssuer("rescuetrack", "!!no-base64!!", time.Minute)
	require.Error(t, err)

	short := base64.StdEncoding.EncodeToString([]byte("corto"))
	_, err = jwt.NewIssuer("rescuetrack", short, time.Minute)
	require.Error(t, err)
}
