// Copyright (c) 2025 CiscoDevNet All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package credential

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"github.com/cloudflare/cfssl/helpers"
)

// LoadTLSCertificate assembles the client certificate and CA pool for
// mutual TLS from credential files on disk. The private key is expected
// in encrypted PEM form and is decrypted in memory with keyPassword;
// the decrypted key never touches the filesystem.
//
// The same loader serves both materialized environment bundles and
// pre-existing local identity directories, since the materializer
// writes files in the vendor's native naming convention.
func LoadTLSCertificate(certPath, keyPath, caPath, keyPassword string) (*tls.Certificate, *x509.CertPool, error) {
	certPEM, err := os.ReadFile(certPath)
	if err != nil {
		return nil, nil, fmt.Errorf("credential: read certificate: %w", err)
	}
	cert, err := helpers.ParseCertificatePEM(certPEM)
	if err != nil {
		return nil, nil, fmt.Errorf("credential: parse certificate: %w", err)
	}

	keyPEM, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, nil, fmt.Errorf("credential: read private key: %w", err)
	}
	key, err := helpers.ParsePrivateKeyPEMWithPassword(keyPEM, []byte(keyPassword))
	if err != nil {
		return nil, nil, fmt.Errorf("credential: decrypt private key: %w", err)
	}

	caPEM, err := os.ReadFile(caPath)
	if err != nil {
		return nil, nil, fmt.Errorf("credential: read CA chain: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caPEM) {
		return nil, nil, fmt.Errorf("credential: no certificates found in CA chain %s", caPath)
	}

	return &tls.Certificate{
		Certificate: [][]byte{cert.Raw},
		PrivateKey:  key,
		Leaf:        cert,
	}, pool, nil
}
