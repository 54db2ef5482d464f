// Copyright (c) 2025 CiscoDevNet All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package credential_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/pem"
	"math/big"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CiscoDevNet/radkit-mcp-server-community/src/internal/radkit"
	"github.com/CiscoDevNet/radkit-mcp-server-community/src/internal/radkit/credential"
)

// selfSignedCertPEM generates a throwaway self-signed certificate for
// exercising the decode and validation path.
func selfSignedCertPEM(t *testing.T) []byte {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "radkit-test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	require.NoError(t, err)

	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
}

// keyPEM returns an arbitrary PEM block standing in for an encrypted
// private key; materialization only checks for PEM structure.
func keyPEM() []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:  "EC PRIVATE KEY",
		Bytes: []byte("opaque encrypted key material"),
	})
}

func bundleProfile(t *testing.T) *credential.Profile {
	t.Helper()
	certPEM := selfSignedCertPEM(t)
	return &credential.Profile{
		Source:               credential.SourceEnvBundle,
		Identity:             "netops@example.com",
		DefaultServiceSerial: "abc1-def2-ghi3",
		CertB64:              base64.StdEncoding.EncodeToString(certPEM),
		KeyB64:               base64.StdEncoding.EncodeToString(keyPEM()),
		CAB64:                base64.StdEncoding.EncodeToString(certPEM),
		KeyPasswordB64:       base64.StdEncoding.EncodeToString([]byte("s3cret")),
	}
}

func TestMaterialize_WritesFiles(t *testing.T) {
	m, err := credential.Materialize(bundleProfile(t))
	require.NoError(t, err)
	defer m.Cleanup()

	assert.Equal(t, "s3cret", m.KeyPassword)

	for _, path := range []string{m.CertPath, m.KeyPath, m.CAPath} {
		info, err := os.Stat(path)
		require.NoError(t, err, "expected %s to exist", path)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

func TestMaterialize_RejectsNonBundleProfile(t *testing.T) {
	_, err := credential.Materialize(&credential.Profile{
		Source:   credential.SourceLocalDirectory,
		Identity: "netops@example.com",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "environment bundle")
}

func TestMaterialize_CorruptBase64(t *testing.T) {
	p := bundleProfile(t)
	p.CertB64 = "not-base64!!!"

	_, err := credential.Materialize(p)
	require.Error(t, err)

	var corrupt *radkit.CorruptEncodingError
	require.ErrorAs(t, err, &corrupt)
	assert.Equal(t, credential.EnvCertB64, corrupt.Field)
}

func TestMaterialize_InvalidPEM(t *testing.T) {
	p := bundleProfile(t)
	p.KeyB64 = base64.StdEncoding.EncodeToString([]byte("no pem block here"))

	_, err := credential.Materialize(p)
	require.Error(t, err)

	var corrupt *radkit.CorruptEncodingError
	require.ErrorAs(t, err, &corrupt)
	assert.Equal(t, credential.EnvKeyB64, corrupt.Field)
}

func TestMaterialize_ValidationBeforeWrite(t *testing.T) {
	// A corrupt field must fail before any temp directory is created.
	p := bundleProfile(t)
	p.CAB64 = base64.StdEncoding.EncodeToString([]byte("garbage"))

	before := tempDirCount(t)
	_, err := credential.Materialize(p)
	require.Error(t, err)
	assert.Equal(t, before, tempDirCount(t), "no credential directories should be left behind")
}

func tempDirCount(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir(os.TempDir())
	require.NoError(t, err)
	count := 0
	for _, e := range entries {
		if e.IsDir() && len(e.Name()) > len("radkit-credentials-") &&
			e.Name()[:len("radkit-credentials-")] == "radkit-credentials-" {
			count++
		}
	}
	return count
}

func TestCleanup_Idempotent(t *testing.T) {
	m, err := credential.Materialize(bundleProfile(t))
	require.NoError(t, err)

	require.NoError(t, m.Cleanup())
	for _, path := range []string{m.CertPath, m.KeyPath, m.CAPath} {
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err), "expected %s to be removed", path)
	}

	// Second call is a no-op.
	require.NoError(t, m.Cleanup())
}
