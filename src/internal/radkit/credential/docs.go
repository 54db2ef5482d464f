// Copyright (c) 2025 CiscoDevNet All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package credential resolves which of three mutually exclusive RADKit
// authentication sources to use for this process and, for the
// environment-bundle source, materializes the certificate material into
// transient files. Resolution is a pure function of the environment and
// a filesystem probe; materialization is atomic all-or-nothing and pairs
// with a best-effort idempotent cleanup owned by the session manager.
package credential
