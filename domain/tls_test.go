package domain_test

import (
	"crypto/tls"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sabouaram/logship/domain"
)

func TestTrustStore_AddBundledFile_MalformedPEM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.pem")
	require.NoError(t, os.WriteFile(path, []byte("not a certificate"), 0o600))

	ts := domain.NewTrustStore()
	err := ts.AddBundledFile(path)
	assert.Error(t, err)
}

func TestTrustStore_AddBundledFile_MissingFile(t *testing.T) {
	ts := domain.NewTrustStore()
	err := ts.AddBundledFile("/no/such/file.pem")
	assert.Error(t, err)
}

func TestClientTLSConfig_EnforcesMinimumVersion(t *testing.T) {
	ts := domain.NewTrustStore()
	cfg := domain.ClientTLSConfig(ts, "ingest.example.com")
	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
	assert.Equal(t, "ingest.example.com", cfg.ServerName)
	assert.NotEmpty(t, cfg.CipherSuites)
}
