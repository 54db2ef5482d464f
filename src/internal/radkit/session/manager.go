// Copyright (c) 2025 CiscoDevNet All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package session

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/CiscoDevNet/radkit-mcp-server-community/src/internal/radkit"
	"github.com/CiscoDevNet/radkit-mcp-server-community/src/internal/radkit/credential"
	"github.com/CiscoDevNet/radkit-mcp-server-community/src/logger"
)

// State is the lifecycle phase of the managed session.
type State int

const (
	StateUninitialized State = iota
	StateEstablishing
	StateReady
	StateFailed
	StateTornDown
)

// String returns a short human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateEstablishing:
		return "establishing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	case StateTornDown:
		return "torn-down"
	default:
		return "unknown"
	}
}

// ErrTornDown is returned by Get after Teardown has run.
var ErrTornDown = errors.New("session: manager torn down")

// Session wraps the authenticated connection handle together with the
// identity that obtained it and the default service serial used when a
// tool call omits an explicit override. Exactly one Session exists per
// process; all concurrent tool invocations share it read-only.
type Session struct {
	Client               radkit.Client
	Identity             string
	Source               credential.Source
	DefaultServiceSerial string
}

// Dialer opens the vendor connection for a resolved credential profile.
// mat is non-nil only for the environment-bundle source.
type Dialer func(ctx context.Context, profile *credential.Profile, mat *credential.Materialized) (radkit.Client, error)

// Options configures a Manager. Zero-value fields get production
// defaults; tests inject fakes through Resolve and Dial.
type Options struct {
	// Resolve selects the credential profile. Default: resolve from the
	// process environment and filesystem.
	Resolve func() (*credential.Profile, error)

	// Dial opens the authenticated vendor connection. Default: mutual
	// TLS against the RADKit cloud.
	Dial Dialer

	// UserAgent for the vendor connection.
	UserAgent string

	// Log receives lifecycle messages. Default: discard.
	Log logger.Logger
}

// Manager owns the single authenticated session of this process. It
// lazily establishes the session on first use, guarantees at most one
// authentication handshake per process lifetime, and releases the
// session plus any materialized credential files on teardown.
//
// State machine: Uninitialized -> Establishing -> Ready | Failed, and
// any state -> TornDown. Failed is sticky: the manager does not retry
// until an explicit Reset. All methods are safe for concurrent use.
type Manager struct {
	opts  Options
	group singleflight.Group

	mu      sync.Mutex
	state   State
	sess    *Session
	mat     *credential.Materialized
	failure error
}

// NewManager creates a session manager. No credential resolution or
// network activity happens until the first Get.
func NewManager(opts Options) *Manager {
	if opts.Resolve == nil {
		opts.Resolve = credential.ResolveFromOS
	}
	if opts.Dial == nil {
		opts.Dial = dialTLS(opts.UserAgent)
	}
	if opts.Log == nil {
		opts.Log = logger.NewMCPLogger(nil, true)
	}
	return &Manager{opts: opts}
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Get returns the shared Session, establishing it on first use.
// Concurrent callers during establishment observe a single
// authentication attempt: they all block on the same in-flight
// handshake and share its outcome. After a failure, Get keeps
// returning the stored error until Reset.
func (m *Manager) Get(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	switch m.state {
	case StateReady:
		sess := m.sess
		m.mu.Unlock()
		return sess, nil
	case StateFailed:
		err := m.failure
		m.mu.Unlock()
		return nil, err
	case StateTornDown:
		m.mu.Unlock()
		return nil, ErrTornDown
	}
	m.mu.Unlock()

	v, err, _ := m.group.Do("establish", func() (any, error) {
		return m.establish(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}

// establish runs resolution, materialization, and the vendor handshake
// exactly once. Runs inside the singleflight group.
func (m *Manager) establish(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	// A sibling singleflight caller may have finished between the state
	// check in Get and entering the group.
	switch m.state {
	case StateReady:
		sess := m.sess
		m.mu.Unlock()
		return sess, nil
	case StateFailed:
		err := m.failure
		m.mu.Unlock()
		return nil, err
	case StateTornDown:
		m.mu.Unlock()
		return nil, ErrTornDown
	}
	m.state = StateEstablishing
	m.mu.Unlock()

	sess, mat, err := m.authenticate(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateTornDown {
		// Teardown raced the handshake; release what we just acquired.
		if sess != nil {
			sess.Client.Close()
		}
		if mat != nil {
			mat.Cleanup()
		}
		return nil, ErrTornDown
	}
	if err != nil {
		m.state = StateFailed
		m.failure = err
		return nil, err
	}
	m.state = StateReady
	m.sess = sess
	m.mat = mat
	return sess, nil
}

// authenticate resolves credentials, materializes environment-sourced
// material, and opens the vendor connection. On any error no credential
// files remain on disk.
func (m *Manager) authenticate(ctx context.Context) (*Session, *credential.Materialized, error) {
	profile, err := m.opts.Resolve()
	if err != nil {
		return nil, nil, err
	}
	m.opts.Log.Printf("authenticating as %s (%s)", profile.Identity, profile.Source)

	var mat *credential.Materialized
	if profile.Source == credential.SourceEnvBundle {
		mat, err = credential.Materialize(profile)
		if err != nil {
			return nil, nil, err
		}
	}

	client, err := m.opts.Dial(ctx, profile, mat)
	if err != nil {
		if mat != nil {
			mat.Cleanup()
		}
		return nil, nil, err
	}

	sess := &Session{
		Client:               client,
		Identity:             profile.Identity,
		Source:               profile.Source,
		DefaultServiceSerial: profile.DefaultServiceSerial,
	}

	// Warm up the default service association. Failure here is not
	// fatal: the service connects lazily on first tool call instead.
	if sess.DefaultServiceSerial != "" {
		if _, err := client.Service(ctx, sess.DefaultServiceSerial); err != nil {
			m.opts.Log.Printf("default service %s not reachable yet: %v", sess.DefaultServiceSerial, err)
		}
	}

	return sess, mat, nil
}

// Service returns the service instance a tool call should use: the
// explicit override when given, otherwise the session's default serial.
// With neither available it fails with [radkit.ErrNoServiceSelected]
// before any remote activity on the serial.
func (m *Manager) Service(ctx context.Context, serialOverride string) (radkit.Service, error) {
	sess, err := m.Get(ctx)
	if err != nil {
		return nil, err
	}
	serial := serialOverride
	if serial == "" {
		serial = sess.DefaultServiceSerial
	}
	if serial == "" {
		return nil, radkit.ErrNoServiceSelected
	}
	return sess.Client.Service(ctx, serial)
}

// Reset moves a Failed manager back to Uninitialized so the next Get
// attempts a fresh establishment. Reset on any other state is a no-op.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateFailed {
		m.state = StateUninitialized
		m.failure = nil
	}
}

// Teardown closes the vendor connection and deletes all materialized
// credential files. Per-file deletion is best effort: failures are
// aggregated into the returned error but never abort the remaining
// deletions. Teardown is idempotent and must run on every exit path;
// callers log the returned error rather than escalating it.
func (m *Manager) Teardown() error {
	m.mu.Lock()
	if m.state == StateTornDown {
		m.mu.Unlock()
		return nil
	}
	prev := m.state
	m.state = StateTornDown
	sess := m.sess
	mat := m.mat
	m.sess = nil
	m.mat = nil
	m.mu.Unlock()

	var errs []error
	if sess != nil {
		if err := sess.Client.Close(); err != nil {
			errs = append(errs, fmt.Errorf("session: close connection: %w", err))
		}
	}
	if mat != nil {
		if err := mat.Cleanup(); err != nil {
			errs = append(errs, err)
		}
	}

	if prev == StateReady {
		m.opts.Log.Println("session torn down")
	}
	return errors.Join(errs...)
}

// dialTLS returns the production Dialer: mutual TLS for certificate
// sources, identity-only handshake for interactive login.
func dialTLS(userAgent string) Dialer {
	return func(ctx context.Context, profile *credential.Profile, mat *credential.Materialized) (radkit.Client, error) {
		cfg := radkit.ConnectConfig{
			Identity:  profile.Identity,
			UserAgent: userAgent,
		}

		switch profile.Source {
		case credential.SourceEnvBundle:
			cert, pool, err := credential.LoadTLSCertificate(mat.CertPath, mat.KeyPath, mat.CAPath, mat.KeyPassword)
			if err != nil {
				return nil, err
			}
			cfg.ClientCertificate = cert
			cfg.RootCAs = pool

		case credential.SourceLocalDirectory:
			if profile.KeyPasswordB64 == "" {
				return nil, &radkit.IncompleteEnvBundleError{Missing: []string{credential.EnvKeyPasswordB64}}
			}
			password, err := base64.StdEncoding.DecodeString(profile.KeyPasswordB64)
			if err != nil {
				return nil, &radkit.CorruptEncodingError{Field: credential.EnvKeyPasswordB64, Err: err}
			}
			certPath, keyPath, caPath := profile.LocalCertPaths()
			cert, pool, err := credential.LoadTLSCertificate(certPath, keyPath, caPath, string(password))
			if err != nil {
				return nil, err
			}
			cfg.ClientCertificate = cert
			cfg.RootCAs = pool
		}

		return radkit.Connect(ctx, cfg)
	}
}
