// Copyright (c) 2025 CiscoDevNet All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package session owns the single authenticated RADKit session of the
// process. The Manager lazily establishes the session on first tool
// call, guarantees exactly one authentication handshake regardless of
// caller concurrency, caches service associations by serial, and tears
// everything down (connection plus materialized credential files) on
// shutdown.
package session
