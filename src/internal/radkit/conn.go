// Copyright (c) 2025 CiscoDevNet All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package radkit

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/CiscoDevNet/radkit-mcp-server-community/src/internal/helper/gc"
)

// DefaultBaseURL is the production RADKit cloud endpoint.
const DefaultBaseURL = "https://prod.radkit-cloud.cisco.com"

// ConnectConfig holds everything needed to open an authenticated
// connection to the RADKit cloud.
//
// ClientCertificate is nil for interactive login; in that case the
// remote service drives its own authorization flow keyed on Identity.
type ConnectConfig struct {
	BaseURL   string
	Identity  string
	UserAgent string

	// Timeout bounds the authentication handshake and any request not
	// already bounded by its caller's context.
	Timeout time.Duration

	ClientCertificate *tls.Certificate
	RootCAs           *x509.CertPool
}

// conn implements Client over HTTPS with mutual TLS.
type conn struct {
	base      string
	identity  string
	userAgent string
	http      *http.Client
	token     string

	mu       sync.Mutex
	services map[string]*service
	closed   bool
}

// Connect opens an authenticated connection to the RADKit cloud and
// performs the session handshake. A rejected handshake returns
// *AuthError; transport failures are returned as wrapped errors.
//
// The returned Client is safe for concurrent use by multiple tool
// invocations.
func Connect(ctx context.Context, cfg ConnectConfig) (Client, error) {
	if cfg.Identity == "" {
		return nil, &InvalidArgumentError{Field: "identity", Reason: "must not be empty"}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	tlsConfig := &tls.Config{RootCAs: cfg.RootCAs}
	if cfg.ClientCertificate != nil {
		tlsConfig.Certificates = []tls.Certificate{*cfg.ClientCertificate}
	}

	c := &conn{
		base:      cfg.BaseURL,
		identity:  cfg.Identity,
		userAgent: cfg.UserAgent,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: &http.Transport{TLSClientConfig: tlsConfig},
		},
		services: make(map[string]*service),
	}

	var session struct {
		Token string `json:"token"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/session",
		map[string]string{"identity": cfg.Identity}, &session)
	if err != nil {
		return nil, err
	}
	c.token = session.Token

	return c, nil
}

// Service returns the service instance with the given serial,
// validating access on first use. Service handles are cached per
// serial for the lifetime of the connection.
func (c *conn) Service(ctx context.Context, serial string) (Service, error) {
	if serial == "" {
		return nil, ErrNoServiceSelected
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, fmt.Errorf("radkit: connection closed")
	}
	if s, ok := c.services[serial]; ok {
		c.mu.Unlock()
		return s, nil
	}
	c.mu.Unlock()

	// Validate the serial before caching; unknown serials surface here
	// rather than on the first tool call.
	var info struct {
		Serial string `json:"serial"`
	}
	path := "/api/v1/services/" + url.PathEscape(serial)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &info); err != nil {
		return nil, fmt.Errorf("radkit: connect to service %s: %w", serial, err)
	}

	s := &service{conn: c, serial: serial}
	c.mu.Lock()
	c.services[serial] = s
	c.mu.Unlock()
	return s, nil
}

// Close releases the connection. Close is idempotent.
func (c *conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.http.CloseIdleConnections()
	return nil
}

// doJSON issues a JSON request against the RADKit cloud API and decodes
// the response body into out. Response bodies are read through the
// shared buffer pool.
func (c *conn) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("radkit: marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("radkit: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("radkit: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	buf := gc.Default.Get()
	defer func() {
		buf.Reset()
		gc.Default.Put(buf)
	}()
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return fmt.Errorf("radkit: read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{Identity: c.identity, Reason: string(buf.Bytes())}
	case resp.StatusCode >= 400:
		return fmt.Errorf("radkit: %s %s: status %d: %s", method, path, resp.StatusCode, string(buf.Bytes()))
	}

	if out != nil {
		if err := json.Unmarshal(buf.Bytes(), out); err != nil {
			return fmt.Errorf("radkit: decode response: %w", err)
		}
	}
	return nil
}

// service implements Service for one serial on a shared connection.
type service struct {
	conn   *conn
	serial string
}

func (s *service) path(parts ...string) string {
	p := "/api/v1/services/" + url.PathEscape(s.serial)
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}

// InventoryNames returns the names of all devices onboarded in the
// service inventory, in the order the service reports them.
func (s *service) InventoryNames(ctx context.Context) ([]string, error) {
	var resp struct {
		Devices []struct {
			Name string `json:"name"`
		} `json:"devices"`
	}
	if err := s.conn.doJSON(ctx, http.MethodGet, s.path("inventory"), nil, &resp); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(resp.Devices))
	for _, d := range resp.Devices {
		names = append(names, d.Name)
	}
	return names, nil
}

// Describe returns the full attribute record of one device.
func (s *service) Describe(ctx context.Context, device string) (*AttributeRecord, error) {
	var rec AttributeRecord
	if err := s.conn.doJSON(ctx, http.MethodGet, s.path("inventory", device), nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Exec runs a single CLI command on a device terminal.
func (s *service) Exec(ctx context.Context, device, command string, opts ExecOptions) (*ExecResult, error) {
	req := map[string]any{
		"command":      command,
		"reset_before": opts.ResetBefore,
		"reset_after":  opts.ResetAfter,
		"sudo":         opts.Sudo,
	}
	var res ExecResult
	if err := s.conn.doJSON(ctx, http.MethodPost, s.path("inventory", device, "exec"), req, &res); err != nil {
		return nil, err
	}
	if res.DeviceName == "" {
		res.DeviceName = device
	}
	if res.Command == "" {
		res.Command = command
	}
	return &res, nil
}

// SNMPGet performs an SNMP GET for the given OIDs on one device.
func (s *service) SNMPGet(ctx context.Context, device string, oids []string) ([]SNMPRow, error) {
	req := map[string]any{"oids": oids}
	var resp struct {
		Rows []SNMPRow `json:"rows"`
	}
	if err := s.conn.doJSON(ctx, http.MethodPost, s.path("inventory", device, "snmp"), req, &resp); err != nil {
		return nil, err
	}
	for i := range resp.Rows {
		if resp.Rows[i].DeviceName == "" {
			resp.Rows[i].DeviceName = device
		}
	}
	return resp.Rows, nil
}
