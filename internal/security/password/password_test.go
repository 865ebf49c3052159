package password_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/rescuetrack/internal/security/password"
)

// Parámetros chicos para que el test no queme memoria; la derivación es la misma.
var testParams = password.Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32}

func TestHashAndVerify(t *testing.T) {
	phc, err := password.Hash(testParams, "rescate123")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(phc, "$argon2id$v=19$m=8192,t=1,p=1$"))

	require.True(t, password.Verify("rescate123", phc))
	require.False(t, password.Verify("rescate124", phc))
	require.False(t, password.Verify("", phc))
}

func TestHashSaltsEachCall(t *testing.T) {
	a, err := password.Hash(testParams, "rescate123")
	require.NoError(t, err)
	b, err := password.Hash(testParams, "rescate123")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
	require.True(t, password.Verify("rescate123", a))
	require.True(t, password.Verify("rescate123", b))
}

func TestHashRejectsEmpty(t *testing.T) {
	_, err := password.Hash(testParams, "")
	require.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	require.False(t, password.Verify("x", ""))
	require.False(t, password.Verify("x", "no-es-phc"))
	require.False(t, password.Verify("x", "$argon2id$v=18$m=8192,t=1,p=1$AAAA$BBBB"))
	require.False(t, password.Verify("x", "$argon2id$v=19$m=8192,t=1,p=1$!!b64$AAAA"))
}

func TestPolicyValidate(t *testing.T) {
	ok, reasons := password.DefaultPolicy.Validate("rescate123")
	require.True(t, ok)
	require.Empty(t, reasons)

	ok, reasons = password.DefaultPolicy.Validate("abc1")
	require.False(t, ok)
	require.Equal(t, []string{"too_short"}, reasons)

	ok, reasons = password.DefaultPolicy.Validate("12345678")
	require.False(t, ok)
	require.Equal(t, []string{"missing_letter"}, reasons)

	ok, reasons = password.DefaultPolicy.Validate("abcdefgh")
	require.False(t, ok)
	require.Equal(t, []string{"missing_digit"}, reasons)

	ok, reasons = password.DefaultPolicy.Validate("")
	require.False(t, ok)
	require.Len(t, reasons, 3)
}
