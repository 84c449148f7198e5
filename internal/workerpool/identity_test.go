package workerpool

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadIdentities(t *testing.T) {
	dir := t.TempDir()
	cohortDir := filepath.Join(dir, "prod")
	require.NoError(t, os.MkdirAll(cohortDir, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(cohortDir, "worker-1.session"), []byte("session-blob"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(cohortDir, "worker-1.json"), []byte(`{"app_id":123,"app_hash":"abc"}`), 0o600))

	identities, err := LoadIdentities(dir, "prod")
	require.NoError(t, err)
	require.Len(t, identities, 1)
	require.Equal(t, "worker-1", identities[0].Name)
	require.Equal(t, 123, identities[0].APIID)
	require.Equal(t, "abc", identities[0].APIHash)
}

func TestLoadIdentitiesMissingCredentials(t *testing.T) {
	dir := t.TempDir()
	cohortDir := filepath.Join(dir, "prod")
	require.NoError(t, os.MkdirAll(cohortDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cohortDir, "worker-1.session"), []byte("blob"), 0o600))

	_, err := LoadIdentities(dir, "prod")
	require.Error(t, err)
}
