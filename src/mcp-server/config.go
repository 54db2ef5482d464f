// Copyright (c) 2025 CiscoDevNet All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// configFormat represents supported configuration file formats.
type configFormat int

const (
	// configFormatJSON represents JSON configuration format (.json)
	configFormatJSON configFormat = iota
	// configFormatYAML represents YAML configuration format (.yaml, .yml)
	configFormatYAML
)

// Config represents the MCP server configuration structure.
// It contains default settings for device command execution and output shaping.
//
// The configuration can be loaded from a JSON or YAML file specified by the
// RADKIT_MCP_CONFIG_FILE environment variable, with defaults applied for any
// missing values. Supported file extensions: .json, .yaml, .yml
type Config struct {
	// Defaults: Default settings for device operations
	Defaults struct {
		// Timeout: Default per-device timeout in seconds for command execution
		Timeout int `json:"timeoutSeconds" yaml:"timeoutSeconds"`
		// MaxLines: Default output line cap applied when a request does not
		// specify its own limit
		MaxLines int `json:"maxLines" yaml:"maxLines"`
		// SNMPTimeout: Default timeout in seconds for SNMP GET operations
		SNMPTimeout float64 `json:"snmpTimeoutSeconds" yaml:"snmpTimeoutSeconds"`
	} `json:"defaults" yaml:"defaults"`

	// Transport: Settings for the MCP transport layer
	Transport struct {
		// Mode: Transport mode (stdio, sse, or http). Defaults to stdio.
		Mode string `json:"mode,omitempty" yaml:"mode,omitempty"`
		// Host: Bind address for network transports
		Host string `json:"host,omitempty" yaml:"host,omitempty"`
		// Port: Listen port for network transports
		Port int `json:"port,omitempty" yaml:"port,omitempty"`
	} `json:"transport" yaml:"transport"`
}

// detectConfigFormat determines the configuration file format based on file extension.
// It supports .json, .yaml, and .yml extensions for flexible configuration management.
//
// The function uses case-insensitive extension matching for cross-platform compatibility.
func detectConfigFormat(configPath string) configFormat {
	ext := strings.ToLower(filepath.Ext(configPath))
	switch ext {
	case ".yaml", ".yml":
		return configFormatYAML
	default:
		return configFormatJSON
	}
}

// unmarshalConfig unmarshals configuration data based on the specified format.
// It supports both JSON and YAML formats for configuration flexibility.
func unmarshalConfig(data []byte, config *Config, format configFormat) error {
	switch format {
	case configFormatYAML:
		if err := yaml.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse YAML config file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse JSON config file: %w", err)
		}
	}
	return nil
}

// loadConfig loads MCP server configuration from a JSON or YAML file or applies defaults.
//
// Configuration Priority:
//  1. Default values are set
//  2. RADKIT_MCP_CONFIG_FILE environment variable is checked if configPath is empty
//  3. Config file values override defaults (if file exists and is valid)
//  4. Environment variables override config file values (MCP_TRANSPORT, MCP_HOST, MCP_PORT)
//
// The file format is automatically detected based on the file extension
// (.json, .yaml, or .yml).
func loadConfig(configPath string) (*Config, error) {
	config := &Config{}

	// Set defaults
	config.Defaults.Timeout = 30
	config.Defaults.MaxLines = 2000
	config.Defaults.SNMPTimeout = 10.0
	config.Transport.Mode = "stdio"
	config.Transport.Host = "localhost"
	config.Transport.Port = 8080

	// Check environment variable for config file path if not provided
	if configPath == "" {
		configPath = os.Getenv("RADKIT_MCP_CONFIG_FILE")
	}

	// Try to load from file if path is provided
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Detect format and unmarshal accordingly
		format := detectConfigFormat(configPath)
		if err := unmarshalConfig(data, config, format); err != nil {
			return nil, err
		}

		// Validate and set defaults for invalid values
		if config.Defaults.Timeout <= 0 {
			config.Defaults.Timeout = 30
		}
		if config.Defaults.MaxLines <= 0 {
			config.Defaults.MaxLines = 2000
		}
		if config.Defaults.SNMPTimeout <= 0 {
			config.Defaults.SNMPTimeout = 10.0
		}
	}

	// Environment overrides for the transport layer
	if mode := os.Getenv("MCP_TRANSPORT"); mode != "" {
		config.Transport.Mode = strings.ToLower(mode)
	}
	if host := os.Getenv("MCP_HOST"); host != "" {
		config.Transport.Host = host
	}
	if port := os.Getenv("MCP_PORT"); port != "" {
		var p int
		if _, err := fmt.Sscanf(port, "%d", &p); err == nil && p > 0 {
			config.Transport.Port = p
		}
	}

	return config, nil
}
