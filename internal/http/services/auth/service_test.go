package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/rescuetrack/internal/domain/repository"
	authsvc "github.com/dropDatabas3/rescuetrack/internal/http/services/auth"
	jwtx "github.com/dropDatabas3/rescuetrack/internal/jwt"
	"github.com/dropDatabas3/rescuetrack/internal/security/token"
	"github.com/dropDatabas3/rescuetrack/internal/store/memory"
	"github.com/dropDatabas3/rescuetrack/internal/validation"
)

func newService(t *testing.T) (authsvc.Service, *memory.Store) {
	t.Helper()
	issuer, err := jwtx.NewIssuer("rescuetrack", "", time.Minute)
	require.NoError(t, err)
	store := memory.New()
	return authsvc.New(authsvc.Deps{Store: store, Issuer: issuer, RefreshTTL: time.Hour}), store
}

func register(t *testing.T, svc authsvc.Service) *authsvc.Session {
	t.Helper()
	sess, err := svc.Register(context.Background(), authsvc.RegisterInput{
		Email:    "Maria@Rescue.dev",
		Password: "rescate123",
		Name:     "María",
		Role:     repository.RoleRescuer,
	})
	require.NoError(t, err)
	return sess
}

func TestRegisterIssuesSession(t *testing.T) {
	svc, _ := newService(t)

	sess := register(t, svc)
	require.NotEmpty(t, sess.AccessToken)
	require.NotEmpty(t, sess.RefreshToken)
	require.Greater(t, sess.ExpiresIn, int64(0))
	// Email normalizado a minúsculas.
	require.Equal(t, "maria@rescue.dev", sess.User.Email)
}

func TestRegisterValidationAccumulates(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Register(context.Background(), authsvc.RegisterInput{
		Email:    "no-es-email",
		Password: "corta",
		Name:     "x",
		Role:     "superuser",
	})
	require.Error(t, err)

	var verr validation.Errors
	require.ErrorAs(t, err, &verr)
	fields := map[string]bool{}
	for _, fe := range verr {
		fields[fe.Field] = true
	}
	require.True(t, fields["email"])
	require.True(t, fields["password"])
	require.True(t, fields["name"])
	require.True(t, fields["role"])
}

func TestRegisterEmailTaken(t *testing.T) {
	svc, _ := newService(t)
	register(t, svc)

	_, err := svc.Register(context.Background(), authsvc.RegisterInput{
		Email:    "maria@rescue.dev",
		Password: "rescate123",
		Name:     "Otra María",
		Role:     repository.RoleVet,
	})
	require.ErrorIs(t, err, authsvc.ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc, _ := newService(t)
	register(t, svc)
	ctx := context.Background()

	sess, err := svc.Login(ctx, "  MARIA@rescue.dev ", "rescate123")
	require.NoError(t, err)
	require.NotEmpty(t, sess.AccessToken)

	// Misma respuesta para email inexistente y contraseña incorrecta.
	_, err = svc.Login(ctx, "nadie@rescue.dev", "rescate123")
	require.ErrorIs(t, err, authsvc.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "maria@rescue.dev", "rescate124")
	require.ErrorIs(t, err, authsvc.ErrInvalidCredentials)
}

func TestRotateIsSingleUse(t *testing.T) {
	svc, _ := newService(t)
	sess := register(t, svc)
	ctx := context.Background()

	next, err := svc.Rotate(ctx, sess.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, sess.RefreshToken, next.RefreshToken)

	// El secreto ya consumido no sirve una segunda vez.
	_, err = svc.Rotate(ctx, sess.RefreshToken)
	require.ErrorIs(t, err, authsvc.ErrTokenInvalid)

	// La cadena nueva sigue rotando.
	_, err = svc.Rotate(ctx, next.RefreshToken)
	require.NoError(t, err)
}

func TestRotateRejectsGarbage(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Rotate(ctx, "")
	require.ErrorIs(t, err, authsvc.ErrTokenInvalid)
	_, err = svc.Rotate(ctx, "secreto-inventado")
	require.ErrorIs(t, err, authsvc.ErrTokenInvalid)
}

func TestRotateAfterSweep(t *testing.T) {
	svc, store := newService(t)
	sess := register(t, svc)

	// Un barrido que alcanza la fila deja la rotación inválida: el cliente
	// no distingue entre revocado y barrido.
	n, err := store.Tokens().DeleteExpired(context.Background(), time.Now().Add(100*24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	_, err = svc.Rotate(context.Background(), sess.RefreshToken)
	require.ErrorIs(t, err, authsvc.ErrTokenInvalid)
}

func TestRotateExpiredRowIsConsumed(t *testing.T) {
	svc, store := newService(t)
	sess := register(t, svc)

	// Fila presente pero vencida: la rotación falla como expirado y consume
	// la fila, así el mismo secreto no puede sondear el estado dos veces.
	secret, err := token.GenerateOpaque(32)
	require.NoError(t, err)
	_, err = store.Tokens().Create(context.Background(), repository.CreateRefreshTokenInput{
		UserID:    sess.User.ID,
		TokenHash: token.SHA256Base64URL(secret),
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	})
	require.NoError(t, err)

	_, err = svc.Rotate(context.Background(), secret)
	require.ErrorIs(t, err, authsvc.ErrTokenExpired)

	_, err = svc.Rotate(context.Background(), secret)
	require.ErrorIs(t, err, authsvc.ErrTokenInvalid)
}

func TestRevokeIsIdempotent(t *testing.T) {
	svc, _ := newService(t)
	sess := register(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.Revoke(ctx, sess.RefreshToken))
	require.NoError(t, svc.Revoke(ctx, sess.RefreshToken))
	require.NoError(t, svc.Revoke(ctx, ""))

	_, err := svc.Rotate(ctx, sess.RefreshToken)
	require.ErrorIs(t, err, authsvc.ErrTokenInvalid)
}

func TestMe(t *testing.T) {
	svc, _ := newService(t)
	sess := register(t, svc)

	user, err := svc.Me(context.Background(), sess.User.ID)
	require.NoError(t, err)
	require.Equal(t, "maria@rescue.dev", user.Email)

	_, err = svc.Me(context.Background(), "no-existe")
	require.ErrorIs(t, err, authsvc.ErrUserNotFound)
}

func TestSweepExpired(t *testing.T) {
	svc, store := newService(t)
	sess := register(t, svc)

	// Nada vencido todavía.
	n, err := svc.SweepExpired(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)

	_, err = store.Tokens().Create(context.Background(), repository.CreateRefreshTokenInput{
		UserID: sess.User.ID, TokenHash: "viejo", ExpiresAt: time.Now().Add(-time.Minute),
	})
	require.NoError(t, err)

	n, err = svc.SweepExpired(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}
