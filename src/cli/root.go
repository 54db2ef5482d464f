// Copyright (c) 2025 CiscoDevNet All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/CiscoDevNet/radkit-mcp-server-community/src/internal/helper/posix"
	"github.com/CiscoDevNet/radkit-mcp-server-community/src/internal/radkit/credential"
	"github.com/CiscoDevNet/radkit-mcp-server-community/src/internal/radkit/session"
	"github.com/CiscoDevNet/radkit-mcp-server-community/src/logger"
	mcpserver "github.com/CiscoDevNet/radkit-mcp-server-community/src/mcp-server"
)

var (
	serviceSerial string
	deviceTimeout int
)

// Execute runs the root command, handling any errors that occur during execution.
//
// The CLI exposes three subcommands:
//   - serve: start the MCP server on the configured transport
//   - auth: resolve and display the credential profile without connecting
//   - devices: connect to a RADKit service and list its device inventory
func Execute(ctx context.Context, version string, log logger.Logger) error {
	exeName := posix.GetExecutableName()

	rootCmd := &cobra.Command{
		Use:     exeName,
		Short:   "Cisco RADKit MCP server",
		Long:    "MCP server exposing Cisco RADKit network device access: inventory, CLI execution, and SNMP polling over a single authenticated session.",
		Version: version,
		Example: fmt.Sprintf(`  %s serve
  %s auth
  %s devices --serial abc1-def2-ghi3`, exeName, exeName, exeName),
	}

	rootCmd.AddCommand(
		newServeCommand(version),
		newAuthCommand(log),
		newDevicesCommand(ctx, version, log),
	)

	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

// newServeCommand returns the subcommand that starts the MCP server.
func newServeCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (stdio by default, sse/http via MCP_TRANSPORT)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return mcpserver.Run(version)
		},
	}
}

// newAuthCommand returns the subcommand that reports which credentials
// would be used, without opening any connection. Secrets are never printed.
func newAuthCommand(log logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Show the resolved credential profile without connecting",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := credential.ResolveFromOS()
			if err != nil {
				return fmt.Errorf("credential resolution failed: %w", err)
			}

			log.Printf("identity:        %s", profile.Identity)
			log.Printf("source:          %s", profile.Source)
			if profile.DefaultServiceSerial != "" {
				log.Printf("default service: %s", profile.DefaultServiceSerial)
			} else {
				log.Println("default service: (none; tools must pass service_serial)")
			}
			return nil
		},
	}
}

// newDevicesCommand returns the subcommand that connects to a RADKit
// service and renders its device inventory as a markdown table.
func newDevicesCommand(ctx context.Context, version string, log logger.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List devices in the service inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr := session.NewManager(session.Options{
				UserAgent: "radkit-mcp-server/" + version,
				Log:       log,
			})
			defer mgr.Teardown()

			callCtx, cancel := context.WithTimeout(ctx, time.Duration(deviceTimeout)*time.Second)
			defer cancel()

			svc, err := mgr.Service(callCtx, serviceSerial)
			if err != nil {
				return fmt.Errorf("failed to access RADKit service: %w", err)
			}

			names, err := svc.InventoryNames(callCtx)
			if err != nil {
				return fmt.Errorf("failed to list inventory: %w", err)
			}

			var buf strings.Builder
			table := tablewriter.NewTable(&buf,
				tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
			)
			table.Header([]string{"Name", "Host", "Type", "SNMP", "Terminal", "Description"})

			var rows [][]string
			for _, name := range names {
				record, err := svc.Describe(callCtx, name)
				if err != nil {
					rows = append(rows, []string{name, "-", "-", "-", "-", fmt.Sprintf("lookup failed: %v", err)})
					continue
				}
				rows = append(rows, []string{
					record.Name,
					record.Host,
					record.DeviceType,
					record.SNMPVersion,
					yesNo(record.TerminalConfig),
					record.Description,
				})
			}

			table.Bulk(rows)
			table.Render()

			log.Println(buf.String())
			log.Printf("%d device(s)", len(names))
			return nil
		},
	}

	cmd.Flags().StringVarP(&serviceSerial, "serial", "s", "", "RADKit service serial (default: the session's default from RADKIT_DEFAULT_SERVICE_SERIAL)")
	cmd.Flags().IntVarP(&deviceTimeout, "timeout", "t", 60, "overall timeout in seconds")
	return cmd
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
