// Copyright (c) 2025 CiscoDevNet All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package radkit

import (
	"context"
)

// AttributeRecord describes a device as onboarded in a RADKit service
// inventory. Field names follow the attribute layout exposed by the
// RADKit service so the record can be returned to callers as JSON
// without further mapping.
type AttributeRecord struct {
	Name                 string   `json:"name"`
	Host                 string   `json:"host"`
	DeviceType           string   `json:"device_type"`
	Description          string   `json:"description"`
	TerminalConfig       bool     `json:"terminal_config"`
	NetconfConfig        bool     `json:"netconf_config"`
	SNMPVersion          string   `json:"snmp_version"`
	SwaggerConfig        bool     `json:"swagger_config"`
	HTTPConfig           bool     `json:"http_config"`
	ForwardedTCPPorts    []string `json:"forwarded_tcp_ports"`
	TerminalCapabilities []string `json:"terminal_capabilities"`
}

// ExecResult holds the outcome of a single command executed on a device
// terminal through a RADKit service.
type ExecResult struct {
	DeviceName string `json:"device_name"`
	Command    string `json:"command"`
	Output     string `json:"output"`
	Status     string `json:"status"`
}

// SNMPRow is a single OID/value pair returned by an SNMP GET operation.
type SNMPRow struct {
	DeviceName string `json:"device_name"`
	OID        string `json:"oid"`
	Value      string `json:"value"`
	Type       string `json:"type"`
}

// ExecOptions carries the optional terminal behaviors of a command
// execution request.
type ExecOptions struct {
	// ResetBefore resets the device terminal before executing the command.
	ResetBefore bool
	// ResetAfter resets the device terminal after executing the command.
	ResetAfter bool
	// Sudo executes the command with elevated privileges.
	Sudo bool
}

// Service is the per-service-instance capability surface of an
// authenticated RADKit connection. A Service is obtained from a Client
// by serial number and is safe for concurrent use.
//
// Methods:
//   - InventoryNames: names of all devices onboarded in the service inventory
//   - Describe: full attribute record of a single device
//   - Exec: one CLI command on one device terminal
//   - SNMPGet: SNMP GET for one or more OIDs on one device
//
// All methods honor context cancellation and deadline expiry; callers
// bound each remote call with its own timeout.
type Service interface {
	InventoryNames(ctx context.Context) ([]string, error)
	Describe(ctx context.Context, device string) (*AttributeRecord, error)
	Exec(ctx context.Context, device, command string, opts ExecOptions) (*ExecResult, error)
	SNMPGet(ctx context.Context, device string, oids []string) ([]SNMPRow, error)
}

// Client is the authenticated connection handle to the RADKit cloud.
// Exactly one Client exists per process; it is created by the session
// manager and shared read-only by all tool invocations.
type Client interface {
	// Service returns the service instance with the given serial,
	// establishing the forwarder association on first use.
	Service(ctx context.Context, serial string) (Service, error)
	// Close releases the connection. Close is idempotent.
	Close() error
}
