package blob_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/rescuetrack/internal/blob"
)

func TestMemoryStorePutDelete(t *testing.T) {
	s := blob.NewMemoryStore()
	ctx := context.Background()

	key := blob.NewKey()
	url, err := s.Put(ctx, key, "image/jpeg", []byte("jpegbytes"))
	require.NoError(t, err)
	require.Equal(t, "memory://"+key, url)
	require.Equal(t, 1, s.Len())

	require.NoError(t, s.Delete(ctx, key))
	require.Equal(t, 0, s.Len())

	// Delete es idempotente.
	require.NoError(t, s.Delete(ctx, key))
}

func TestNewKey(t *testing.T) {
	a := blob.NewKey()
	b := blob.NewKey()
	require.NotEqual(t, a, b)
	require.True(t, strings.HasPrefix(a, "cases/"))
	// cases/<año>/<mes>/<día>/<uuid>
	require.Len(t, strings.Split(a, "/"), 5)
}

func TestKeyFromURL(t *testing.T) {
	key := "cases/2026/08/28/abc-123"
	require.Equal(t, key, blob.KeyFromURL("https://bucket.s3.amazonaws.com/"+key))
	require.Equal(t, key, blob.KeyFromURL("memory://"+key))
	require.Equal(t, key, blob.KeyFromURL(key))
	// Sin prefijo conocido, la URL vuelve entera.
	require.Equal(t, "https://x/y.jpg", blob.KeyFromURL("https://x/y.jpg"))
}
