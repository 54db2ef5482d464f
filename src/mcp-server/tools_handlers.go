// Copyright (c) 2025 CiscoDevNet All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/CiscoDevNet/radkit-mcp-server-community/src/internal/helper/gc"
	"github.com/CiscoDevNet/radkit-mcp-server-community/src/internal/radkit"
	"github.com/CiscoDevNet/radkit-mcp-server-community/src/internal/radkit/session"
	"github.com/mark3labs/mcp-go/mcp"
)

// execRecord is the structured per-command result returned by exec_command.
type execRecord struct {
	DeviceName     string `json:"device_name"`
	Command        string `json:"command"`
	Output         string `json:"output"`
	Status         string `json:"status"`
	Truncated      bool   `json:"truncated"`
	TotalLines     int    `json:"total_lines"`
	DisplayedLines int    `json:"displayed_lines"`
	Error          string `json:"error,omitempty"`
}

// snmpRecord is a single row returned by snmp_get. A row either carries a
// value or, when the device could not be queried, an error message.
type snmpRecord struct {
	DeviceName string `json:"device_name"`
	OID        string `json:"oid,omitempty"`
	Value      string `json:"value,omitempty"`
	Type       string `json:"type,omitempty"`
	Error      string `json:"error,omitempty"`
}

// attributeEntry pairs a device name with its attribute record or, when the
// lookup failed, with an error message.
type attributeEntry struct {
	DeviceName string                  `json:"device_name"`
	Attributes *radkit.AttributeRecord `json:"attributes,omitempty"`
	Error      string                  `json:"error,omitempty"`
}

// serviceFor resolves the RADKit service targeted by a tool call.
// The optional service_serial argument overrides the default service
// selected at startup. This is the first point where a handler touches
// the session, so credential resolution and login happen here on the
// very first tool call of the process.
func serviceFor(ctx context.Context, request mcp.CallToolRequest, mgr *session.Manager) (radkit.Service, error) {
	if mgr == nil {
		return nil, errors.New("no session manager configured")
	}
	return mgr.Service(ctx, request.GetString("service_serial", ""))
}

// defaultTimeout returns the configured per-device timeout, falling back
// to 30 seconds when no configuration is available.
func defaultTimeout(config *Config) float64 {
	if config == nil || config.Defaults.Timeout <= 0 {
		return 30
	}
	return float64(config.Defaults.Timeout)
}

// defaultMaxLines returns the configured structured output cap, falling
// back to 2000 lines when no configuration is available.
func defaultMaxLines(config *Config) float64 {
	if config == nil || config.Defaults.MaxLines <= 0 {
		return 2000
	}
	return float64(config.Defaults.MaxLines)
}

// defaultSNMPTimeout returns the configured SNMP timeout, falling back to
// 10 seconds when no configuration is available.
func defaultSNMPTimeout(config *Config) float64 {
	if config == nil || config.Defaults.SNMPTimeout <= 0 {
		return 10
	}
	return config.Defaults.SNMPTimeout
}

// remoteErr wraps a deadline expiry into a per-target timeout error so
// batch results name the device that timed out instead of exposing
// transport internals. Other errors pass through unchanged.
func remoteErr(err error, target string, timeout time.Duration) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &radkit.TimeoutError{Target: target, Timeout: timeout}
	}
	return err
}

// handleGetDeviceInventoryNames lists the names of all devices onboarded in
// the targeted RADKit service inventory.
//
// The handler touches the session only after argument validation, so a
// malformed request never triggers authentication. The result is a JSON
// document with the device count and the ordered name list.
func handleGetDeviceInventoryNames(ctx context.Context, request mcp.CallToolRequest, mgr *session.Manager, config *Config) (*mcp.CallToolResult, error) {
	svc, err := serviceFor(ctx, request, mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to access RADKit service: %v", err)), nil
	}

	callCtx, cancel := context.WithTimeout(ctx, time.Duration(defaultTimeout(config)*float64(time.Second)))
	defer cancel()

	names, err := svc.InventoryNames(callCtx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list device inventory: %v", err)), nil
	}

	payload := struct {
		Count   int      `json:"count"`
		Devices []string `json:"devices"`
	}{Count: len(names), Devices: names}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode inventory: %v", err)), nil
	}

	return mcp.NewToolResultText(string(data)), nil
}

// handleGetDeviceAttributes returns the attribute record for one or more
// devices. The target_device argument accepts a single name or a list;
// lookups run independently so one unknown device does not fail the batch.
func handleGetDeviceAttributes(ctx context.Context, request mcp.CallToolRequest, mgr *session.Manager, config *Config) (*mcp.CallToolResult, error) {
	// Validate arguments before touching the session
	targets, err := normalizeTargets(request.GetArguments()["target_device"], "target_device")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, err := serviceFor(ctx, request, mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to access RADKit service: %v", err)), nil
	}

	timeout := time.Duration(defaultTimeout(config) * float64(time.Second))

	entries := make([]attributeEntry, 0, len(targets))
	for _, device := range targets {
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		record, err := svc.Describe(callCtx, device)
		cancel()

		entry := attributeEntry{DeviceName: device}
		if err != nil {
			entry.Error = remoteErr(err, device, timeout).Error()
		} else {
			entry.Attributes = record
		}
		entries = append(entries, entry)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode attributes: %v", err)), nil
	}

	return mcp.NewToolResultText(string(data)), nil
}

// handleExecCLICommands executes CLI commands on one or more devices and
// returns the raw terminal output, sectioned per device and command.
//
// Each device gets its own timeout window; a device that fails or times
// out is reported inline with an error marker and never aborts the rest
// of the batch. Output is uncapped unless max_lines is positive.
func handleExecCLICommands(ctx context.Context, request mcp.CallToolRequest, mgr *session.Manager, config *Config) (*mcp.CallToolResult, error) {
	// Validate arguments before touching the session
	targets, err := normalizeTargets(request.GetArguments()["target_device"], "target_device")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	commands, err := normalizeTargets(request.GetArguments()["cli_commands"], "cli_commands")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	timeout := time.Duration(request.GetFloat("timeout", defaultTimeout(config)) * float64(time.Second))
	if timeout <= 0 {
		return mcp.NewToolResultError("timeout must be positive"), nil
	}
	maxLines := int(request.GetFloat("max_lines", 0))
	opts := radkit.ExecOptions{
		ResetBefore: request.GetBool("reset_before", false),
		ResetAfter:  request.GetBool("reset_after", false),
		Sudo:        request.GetBool("sudo", false),
	}

	svc, err := serviceFor(ctx, request, mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to access RADKit service: %v", err)), nil
	}

	// Assemble potentially large terminal output through the buffer pool
	buf := gc.Default.Get()
	defer func() {
		buf.Reset()
		gc.Default.Put(buf)
	}()

	for _, device := range targets {
		deviceCtx, cancel := context.WithTimeout(ctx, timeout)
		for _, command := range commands {
			result, err := svc.Exec(deviceCtx, device, command, opts)
			if err != nil {
				err = remoteErr(err, device, timeout)
				fmt.Fprintf(buf, "=== %s: %s ===\n[ERROR: %v]\n\n", device, command, err)
				if errors.Is(err, context.DeadlineExceeded) {
					// The device window is spent; skip its remaining commands
					break
				}
				continue
			}
			fmt.Fprintf(buf, "=== %s: %s ===\n%s\n\n", device, command, truncateRaw(result.Output, maxLines))
		}
		cancel()
	}

	return mcp.NewToolResultText(buf.String()), nil
}

// handleExecCommand executes CLI commands on one or more devices and
// returns structured per-command records including status, truncation
// flags, and line counts.
//
// The contract mirrors handleExecCLICommands for batching and timeout
// behavior but shapes output for programmatic consumption: every
// device/command pair yields exactly one record.
func handleExecCommand(ctx context.Context, request mcp.CallToolRequest, mgr *session.Manager, config *Config) (*mcp.CallToolResult, error) {
	// Validate arguments before touching the session
	targets, err := normalizeTargets(request.GetArguments()["device_name"], "device_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	commands, err := normalizeTargets(request.GetArguments()["commands"], "commands")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	timeout := time.Duration(request.GetFloat("timeout", defaultTimeout(config)) * float64(time.Second))
	if timeout <= 0 {
		return mcp.NewToolResultError("timeout must be positive"), nil
	}
	maxLines := int(request.GetFloat("max_lines", defaultMaxLines(config)))
	opts := radkit.ExecOptions{
		ResetBefore: request.GetBool("reset_before", false),
		ResetAfter:  request.GetBool("reset_after", false),
		Sudo:        request.GetBool("sudo", false),
	}

	svc, err := serviceFor(ctx, request, mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to access RADKit service: %v", err)), nil
	}

	records := make([]execRecord, 0, len(targets)*len(commands))
	for _, device := range targets {
		deviceCtx, cancel := context.WithTimeout(ctx, timeout)
		deviceDown := false
		for _, command := range commands {
			if deviceDown {
				records = append(records, execRecord{
					DeviceName: device,
					Command:    command,
					Status:     "skipped",
					Error:      "device timeout exhausted by a previous command",
				})
				continue
			}

			result, err := svc.Exec(deviceCtx, device, command, opts)
			if err != nil {
				err = remoteErr(err, device, timeout)
				records = append(records, execRecord{
					DeviceName: device,
					Command:    command,
					Status:     "failed",
					Error:      err.Error(),
				})
				if errors.Is(err, context.DeadlineExceeded) {
					deviceDown = true
				}
				continue
			}

			output, truncated, total, displayed := truncateStructured(result.Output, maxLines)
			status := result.Status
			if status == "" {
				status = "success"
			}
			records = append(records, execRecord{
				DeviceName:     result.DeviceName,
				Command:        result.Command,
				Output:         output,
				Status:         status,
				Truncated:      truncated,
				TotalLines:     total,
				DisplayedLines: displayed,
			})
		}
		cancel()
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode results: %v", err)), nil
	}

	return mcp.NewToolResultText(string(data)), nil
}

// handleSNMPGet performs SNMP GET queries for one or more OIDs against one
// or more devices and returns structured rows.
//
// Devices are queried independently with their own timeout; a failing
// device contributes a single error row instead of aborting the batch.
func handleSNMPGet(ctx context.Context, request mcp.CallToolRequest, mgr *session.Manager, config *Config) (*mcp.CallToolResult, error) {
	// Validate arguments before touching the session
	targets, err := normalizeTargets(request.GetArguments()["device_name"], "device_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rawOIDs := request.GetArguments()["oid"]
	if rawOIDs == nil {
		// Older clients passed a plural argument name.
		rawOIDs = request.GetArguments()["oids"]
	}
	oids, err := normalizeTargets(rawOIDs, "oid")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	timeout := time.Duration(request.GetFloat("timeout", defaultSNMPTimeout(config)) * float64(time.Second))
	if timeout <= 0 {
		return mcp.NewToolResultError("timeout must be positive"), nil
	}

	svc, err := serviceFor(ctx, request, mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to access RADKit service: %v", err)), nil
	}

	rows := make([]snmpRecord, 0, len(targets)*len(oids))
	for _, device := range targets {
		deviceCtx, cancel := context.WithTimeout(ctx, timeout)
		result, err := svc.SNMPGet(deviceCtx, device, oids)
		cancel()

		if err != nil {
			rows = append(rows, snmpRecord{DeviceName: device, Error: remoteErr(err, device, timeout).Error()})
			continue
		}
		for _, row := range result {
			rows = append(rows, snmpRecord{
				DeviceName: row.DeviceName,
				OID:        row.OID,
				Value:      row.Value,
				Type:       row.Type,
			})
		}
	}

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode results: %v", err)), nil
	}

	return mcp.NewToolResultText(string(data)), nil
}
