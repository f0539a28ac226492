package vault

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arolfes/backsnap/internal/models"
	vaultapi "github.com/hashicorp/vault/api"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// fakeVault serves canned KV v2 responses keyed by request path.
func fakeVault(t *testing.T, responses map[string]map[string]any) *Impl {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, ok := responses[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"errors":[]}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": payload})
	}))
	t.Cleanup(srv.Close)

	apiCfg := vaultapi.DefaultConfig()
	apiCfg.Address = srv.URL
	client, err := vaultapi.NewClient(apiCfg)
	require.NoError(t, err)
	client.SetToken("test-token")

	return NewWithClient(testLogger(), models.VaultSettings{Mount: "secret", Path: "backup"}, client)
}

func TestFetch_Success(t *testing.T) {
	svc := fakeVault(t, map[string]map[string]any{
		"/v1/secret/data/backup": {
			"data": map[string]any{"password": "P1"},
		},
	})

	sec, cleanup, err := svc.Fetch(context.Background(), "", true)

	require.NoError(t, err)
	assert.Equal(t, "P1", sec.Reveal())
	cleanup(context.Background())
}

func TestFetch_ItemOverridesPath(t *testing.T) {
	svc := fakeVault(t, map[string]map[string]any{
		"/v1/secret/data/other": {
			"data": map[string]any{"password": "P2"},
		},
	})

	sec, _, err := svc.Fetch(context.Background(), "other", true)

	require.NoError(t, err)
	assert.Equal(t, "P2", sec.Reveal())
}

func TestFetch_MissingField(t *testing.T) {
	svc := fakeVault(t, map[string]map[string]any{
		"/v1/secret/data/backup": {
			"data": map[string]any{"username": "alice"},
		},
	})

	_, _, err := svc.Fetch(context.Background(), "", true)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "backup")
	assert.Contains(t, err.Error(), "password")
}

func TestFetch_NotFound(t *testing.T) {
	svc := fakeVault(t, nil)

	_, _, err := svc.Fetch(context.Background(), "", true)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "backup")
}

func TestFetch_NoPathConfigured(t *testing.T) {
	svc := NewWithClient(testLogger(), models.VaultSettings{}, nil)

	_, _, err := svc.Fetch(context.Background(), "", true)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no vault secret path")
}

func TestName(t *testing.T) {
	assert.Equal(t, "vault", (&Impl{}).Name())
}
