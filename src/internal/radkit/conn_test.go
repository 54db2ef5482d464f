// Copyright (c) 2025 CiscoDevNet All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package radkit_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CiscoDevNet/radkit-mcp-server-community/src/internal/radkit"
)

// newTestCloud starts a fake RADKit cloud API. The mux handles the
// session handshake; tests add per-endpoint handlers on top.
func newTestCloud(t *testing.T) (*httptest.Server, *http.ServeMux) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/session", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "netops@example.com", req["identity"])
		json.NewEncoder(w).Encode(map[string]string{"token": "test-token"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, mux
}

func connect(t *testing.T, srv *httptest.Server) radkit.Client {
	t.Helper()
	client, err := radkit.Connect(context.Background(), radkit.ConnectConfig{
		BaseURL:   srv.URL,
		Identity:  "netops@example.com",
		UserAgent: "radkit-mcp-server/test",
	})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestConnect_Handshake(t *testing.T) {
	srv, _ := newTestCloud(t)
	client := connect(t, srv)
	require.NotNil(t, client)
}

func TestConnect_EmptyIdentity(t *testing.T) {
	_, err := radkit.Connect(context.Background(), radkit.ConnectConfig{})
	require.Error(t, err)

	var invalid *radkit.InvalidArgumentError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "identity", invalid.Field)
}

func TestConnect_RejectedHandshake(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/session", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "certificate revoked", http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	_, err := radkit.Connect(context.Background(), radkit.ConnectConfig{
		BaseURL:  srv.URL,
		Identity: "netops@example.com",
	})
	require.Error(t, err)

	var authErr *radkit.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "netops@example.com", authErr.Identity)
	assert.Contains(t, authErr.Reason, "certificate revoked")
}

func TestClient_ServiceValidation(t *testing.T) {
	srv, mux := newTestCloud(t)
	mux.HandleFunc("GET /api/v1/services/known-serial", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{"serial": "known-serial"})
	})
	client := connect(t, srv)

	svc, err := client.Service(context.Background(), "known-serial")
	require.NoError(t, err)
	require.NotNil(t, svc)

	// Cached handle for the same serial.
	again, err := client.Service(context.Background(), "known-serial")
	require.NoError(t, err)
	assert.Same(t, svc, again)

	_, err = client.Service(context.Background(), "")
	require.ErrorIs(t, err, radkit.ErrNoServiceSelected)

	_, err = client.Service(context.Background(), "unknown-serial")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown-serial")
}

func TestService_InventoryAndDescribe(t *testing.T) {
	srv, mux := newTestCloud(t)
	mux.HandleFunc("GET /api/v1/services/s1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"serial": "s1"})
	})
	mux.HandleFunc("GET /api/v1/services/s1/inventory", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"devices": []map[string]string{{"name": "router-1"}, {"name": "switch-1"}},
		})
	})
	mux.HandleFunc("GET /api/v1/services/s1/inventory/router-1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(radkit.AttributeRecord{
			Name: "router-1", Host: "10.0.0.1", DeviceType: "IOS_XE", TerminalConfig: true,
		})
	})
	client := connect(t, srv)

	svc, err := client.Service(context.Background(), "s1")
	require.NoError(t, err)

	names, err := svc.InventoryNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"router-1", "switch-1"}, names)

	record, err := svc.Describe(context.Background(), "router-1")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", record.Host)
	assert.True(t, record.TerminalConfig)
}

func TestService_Exec(t *testing.T) {
	srv, mux := newTestCloud(t)
	mux.HandleFunc("GET /api/v1/services/s1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"serial": "s1"})
	})
	var gotBody map[string]any
	mux.HandleFunc("POST /api/v1/services/s1/inventory/router-1/exec", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(radkit.ExecResult{Output: "Cisco IOS XE", Status: "success"})
	})
	client := connect(t, srv)

	svc, err := client.Service(context.Background(), "s1")
	require.NoError(t, err)

	result, err := svc.Exec(context.Background(), "router-1", "show version", radkit.ExecOptions{Sudo: true})
	require.NoError(t, err)

	assert.Equal(t, "show version", gotBody["command"])
	assert.Equal(t, true, gotBody["sudo"])
	assert.Equal(t, false, gotBody["reset_before"])

	// Missing identity fields are filled from the request.
	assert.Equal(t, "router-1", result.DeviceName)
	assert.Equal(t, "show version", result.Command)
	assert.Equal(t, "Cisco IOS XE", result.Output)
}

func TestService_SNMPGet(t *testing.T) {
	srv, mux := newTestCloud(t)
	mux.HandleFunc("GET /api/v1/services/s1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"serial": "s1"})
	})
	mux.HandleFunc("POST /api/v1/services/s1/inventory/router-1/snmp", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"rows": []radkit.SNMPRow{{OID: "1.3.6.1.2.1.1.3.0", Value: "12345", Type: "TimeTicks"}},
		})
	})
	client := connect(t, srv)

	svc, err := client.Service(context.Background(), "s1")
	require.NoError(t, err)

	rows, err := svc.SNMPGet(context.Background(), "router-1", []string{"1.3.6.1.2.1.1.3.0"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "router-1", rows[0].DeviceName, "device name filled from the request")
	assert.Equal(t, "12345", rows[0].Value)
}

func TestClient_CloseIdempotent(t *testing.T) {
	srv, _ := newTestCloud(t)
	client := connect(t, srv)

	require.NoError(t, client.Close())
	require.NoError(t, client.Close())

	_, err := client.Service(context.Background(), "s1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed")
}
