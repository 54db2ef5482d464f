// Copyright (c) 2025 CiscoDevNet All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package credential

import (
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cloudflare/cfssl/helpers"

	"github.com/CiscoDevNet/radkit-mcp-server-community/src/internal/radkit"
)

// Materialized owns the transient certificate files decoded from an
// environment credential bundle. The files live in a process-scoped
// temporary directory readable only by the owning user; the key
// password is held in memory and never written to disk.
//
// A Materialized is created at most once per process by the session
// manager and released through Cleanup on teardown.
type Materialized struct {
	CertPath string
	KeyPath  string
	CAPath   string

	// KeyPassword is the decoded private key password, memory only.
	KeyPassword string

	mu      sync.Mutex
	dir     string
	cleaned bool
}

// Materialize decodes the base64 credential fields of an environment
// bundle profile and writes the certificate, private key, and CA chain
// into a fresh temporary directory (mode 0700, files 0600).
//
// Decoding and structural validation happen before any filesystem
// write: a corrupt field fails with *radkit.CorruptEncodingError and
// leaves zero files behind. A write failure removes everything written
// so far, so after any terminal state either all files exist or none do.
func Materialize(p *Profile) (*Materialized, error) {
	if p.Source != SourceEnvBundle {
		return nil, fmt.Errorf("credential: materialize requires an environment bundle, got %s", p.Source)
	}

	certPEM, err := decodeCertBlob(EnvCertB64, p.CertB64)
	if err != nil {
		return nil, err
	}
	caPEM, err := decodeChainBlob(EnvCAB64, p.CAB64)
	if err != nil {
		return nil, err
	}
	keyPEM, err := decodeKeyBlob(EnvKeyB64, p.KeyB64)
	if err != nil {
		return nil, err
	}
	passwordRaw, err := base64.StdEncoding.DecodeString(p.KeyPasswordB64)
	if err != nil {
		return nil, &radkit.CorruptEncodingError{Field: EnvKeyPasswordB64, Err: err}
	}

	dir, err := os.MkdirTemp("", "radkit-credentials-")
	if err != nil {
		return nil, &radkit.FilesystemError{Op: "mkdir", Path: "radkit-credentials", Err: err}
	}

	m := &Materialized{
		CertPath:    filepath.Join(dir, LocalCertFile),
		KeyPath:     filepath.Join(dir, LocalKeyFile),
		CAPath:      filepath.Join(dir, LocalCAFile),
		KeyPassword: string(passwordRaw),
		dir:         dir,
	}

	for _, f := range []struct {
		path string
		data []byte
	}{
		{m.CertPath, certPEM},
		{m.KeyPath, keyPEM},
		{m.CAPath, caPEM},
	} {
		if err := os.WriteFile(f.path, f.data, 0o600); err != nil {
			os.RemoveAll(dir)
			return nil, &radkit.FilesystemError{Op: "write", Path: f.path, Err: err}
		}
	}

	return m, nil
}

// Cleanup deletes all materialized credential files. Deletion is best
// effort per file: failures are aggregated and reported, but every
// remaining deletion is still attempted. Cleanup is idempotent; calls
// after the first are no-ops.
func (m *Materialized) Cleanup() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cleaned {
		return nil
	}
	m.cleaned = true

	var errs []error
	for _, path := range []string{m.CertPath, m.KeyPath, m.CAPath} {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, &radkit.FilesystemError{Op: "remove", Path: path, Err: err})
		}
	}
	if err := os.Remove(m.dir); err != nil && !errors.Is(err, os.ErrNotExist) {
		errs = append(errs, &radkit.FilesystemError{Op: "remove", Path: m.dir, Err: err})
	}

	return errors.Join(errs...)
}

// decodeCertBlob decodes a base64 field and verifies it parses as a
// single PEM certificate.
func decodeCertBlob(field, value string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, &radkit.CorruptEncodingError{Field: field, Err: err}
	}
	if _, err := helpers.ParseCertificatePEM(data); err != nil {
		return nil, &radkit.CorruptEncodingError{Field: field, Err: err}
	}
	return data, nil
}

// decodeChainBlob decodes a base64 field and verifies it parses as one
// or more PEM certificates.
func decodeChainBlob(field, value string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, &radkit.CorruptEncodingError{Field: field, Err: err}
	}
	if _, err := helpers.ParseCertificatesPEM(data); err != nil {
		return nil, &radkit.CorruptEncodingError{Field: field, Err: err}
	}
	return data, nil
}

// decodeKeyBlob decodes a base64 field and verifies it contains a PEM
// block. The key stays encrypted here; decryption happens at connect
// time with the in-memory password.
func decodeKeyBlob(field, value string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, &radkit.CorruptEncodingError{Field: field, Err: err}
	}
	if block, _ := pem.Decode(data); block == nil {
		return nil, &radkit.CorruptEncodingError{Field: field, Err: errors.New("no PEM block found")}
	}
	return data, nil
}
