// Copyright (c) 2025 CiscoDevNet All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package credential

import (
	"os"
	"path/filepath"

	"github.com/CiscoDevNet/radkit-mcp-server-community/src/internal/radkit"
)

// Environment variable names for the credential bundle. Several carry a
// legacy alias kept for compatibility with earlier deployments.
const (
	EnvIdentity            = "RADKIT_IDENTITY"
	EnvIdentityAlias       = "RADKIT_SERVICE_USERNAME"
	EnvServiceSerial       = "RADKIT_DEFAULT_SERVICE_SERIAL"
	EnvServiceSerialAlias  = "RADKIT_SERVICE_CODE"
	EnvCertB64             = "RADKIT_CERT_B64"
	EnvKeyB64              = "RADKIT_KEY_B64"
	EnvCAB64               = "RADKIT_CA_B64"
	EnvKeyPasswordB64      = "RADKIT_KEY_PASSWORD_B64"
	EnvKeyPasswordB64Alias = "RADKIT_CLIENT_PRIVATE_KEY_PASSWORD_BASE64"
)

// CloudDomain is the RADKit cloud domain that namespaces local identity
// directories under ~/.radkit/identities/.
const CloudDomain = "prod.radkit-cloud.cisco.com"

// Local identity directories are expected to hold certificate material
// in the vendor's native naming convention.
const (
	LocalCertFile = "certificate.pem"
	LocalKeyFile  = "private_key_encrypted.pem"
	LocalCAFile   = "chain.pem"
)

// Source identifies which of the three mutually exclusive credential
// strategies a resolved profile uses.
type Source int

const (
	// SourceEnvBundle authenticates with certificate material decoded
	// from base64 environment variables (container deployments).
	SourceEnvBundle Source = iota
	// SourceLocalDirectory authenticates with pre-existing certificate
	// files under the local identity directory (local development).
	SourceLocalDirectory
	// SourceInteractiveLogin authenticates with a username only; the
	// vendor connection performs its own interactive flow.
	SourceInteractiveLogin
)

// String returns a short human-readable name for the credential source.
func (s Source) String() string {
	switch s {
	case SourceEnvBundle:
		return "env-bundle"
	case SourceLocalDirectory:
		return "local-directory"
	case SourceInteractiveLogin:
		return "interactive-login"
	default:
		return "unknown"
	}
}

// Profile is the resolved credential selection for this process.
// Exactly one Source is active; selection is a pure function of the
// inputs passed to Resolve and never prompts or writes files.
type Profile struct {
	Source               Source
	Identity             string
	DefaultServiceSerial string

	// EnvBundle fields: base64-encoded PEM blobs, decoded only by
	// Materialize. Empty for other sources.
	CertB64 string
	KeyB64  string
	CAB64   string

	// KeyPasswordB64 protects the encrypted private key. Set for
	// SourceEnvBundle and, when present in the environment, for
	// SourceLocalDirectory.
	KeyPasswordB64 string

	// SearchPath is the local identity directory holding certificate
	// material. Set only for SourceLocalDirectory.
	SearchPath string
}

// LocalCertPaths returns the certificate, key, and CA chain file paths
// inside the profile's local identity directory. Meaningful only for
// SourceLocalDirectory.
func (p *Profile) LocalCertPaths() (certPath, keyPath, caPath string) {
	return filepath.Join(p.SearchPath, LocalCertFile),
		filepath.Join(p.SearchPath, LocalKeyFile),
		filepath.Join(p.SearchPath, LocalCAFile)
}

// Env reads an environment variable, like [os.Getenv].
type Env func(key string) string

// Probe reports whether a path exists as a regular file. It lets tests
// and dry-run callers resolve without touching the real filesystem.
type Probe func(path string) bool

// OSProbe is the default Probe backed by [os.Stat].
func OSProbe(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Resolve inspects the available inputs and selects exactly one
// credential strategy, in strict priority order:
//
//  1. Environment bundle: if any of the four base64 blob variables is
//     set, all six bundle inputs must be present; a partial bundle is
//     an *radkit.IncompleteEnvBundleError naming the missing keys.
//  2. Local identity directory: an identity is configured and
//     home/.radkit/identities/<domain>/<identity> holds the three
//     recognizable credential files.
//  3. Interactive login: an identity is configured.
//
// Otherwise resolution fails with [radkit.ErrNoCredentials]. Resolve
// has no side effects: it never prompts, never writes files, and never
// partial-matches a strategy.
func Resolve(env Env, probe Probe, home string) (*Profile, error) {
	lookup := func(keys ...string) string {
		for _, k := range keys {
			if v := env(k); v != "" {
				return v
			}
		}
		return ""
	}

	identity := lookup(EnvIdentity, EnvIdentityAlias)
	serial := lookup(EnvServiceSerial, EnvServiceSerialAlias)
	keyPassword := lookup(EnvKeyPasswordB64, EnvKeyPasswordB64Alias)
	cert := env(EnvCertB64)
	key := env(EnvKeyB64)
	ca := env(EnvCAB64)

	// Priority 1: environment bundle. Any certificate blob variable
	// commits the caller to the full bundle; partial presence is an
	// error rather than a silent fallthrough to a weaker source. The
	// key password alone does not commit: local-directory auth also
	// consumes it.
	if cert != "" || key != "" || ca != "" {
		var missing []string
		if identity == "" {
			missing = append(missing, EnvIdentity)
		}
		if serial == "" {
			missing = append(missing, EnvServiceSerial)
		}
		if cert == "" {
			missing = append(missing, EnvCertB64)
		}
		if key == "" {
			missing = append(missing, EnvKeyB64)
		}
		if ca == "" {
			missing = append(missing, EnvCAB64)
		}
		if keyPassword == "" {
			missing = append(missing, EnvKeyPasswordB64)
		}
		if len(missing) > 0 {
			return nil, &radkit.IncompleteEnvBundleError{Missing: missing}
		}
		return &Profile{
			Source:               SourceEnvBundle,
			Identity:             identity,
			DefaultServiceSerial: serial,
			CertB64:              cert,
			KeyB64:               key,
			CAB64:                ca,
			KeyPasswordB64:       keyPassword,
		}, nil
	}

	// Priority 2: local identity directory. All three files must be
	// present; a directory missing any of them cannot authenticate and
	// falls through to interactive login. That fallthrough is
	// intentional, not a bug.
	if identity != "" {
		dir := filepath.Join(home, ".radkit", "identities", CloudDomain, identity)
		if probe(filepath.Join(dir, LocalCertFile)) &&
			probe(filepath.Join(dir, LocalKeyFile)) &&
			probe(filepath.Join(dir, LocalCAFile)) {
			return &Profile{
				Source:               SourceLocalDirectory,
				Identity:             identity,
				DefaultServiceSerial: serial,
				KeyPasswordB64:       keyPassword,
				SearchPath:           dir,
			}, nil
		}

		// Priority 3: interactive login with username only.
		return &Profile{
			Source:               SourceInteractiveLogin,
			Identity:             identity,
			DefaultServiceSerial: serial,
		}, nil
	}

	return nil, radkit.ErrNoCredentials
}

// ResolveFromOS resolves against the real process environment and
// filesystem.
func ResolveFromOS() (*Profile, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return Resolve(os.Getenv, OSProbe, home)
}
