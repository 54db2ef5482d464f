// Copyright (c) 2025 CiscoDevNet All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package radkit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for credential resolution and service selection.
var (
	// ErrNoCredentials indicates that none of the three credential
	// sources (environment bundle, local identity directory, configured
	// identity) is available.
	ErrNoCredentials = errors.New("radkit: no credentials available")

	// ErrNoServiceSelected indicates that a tool call neither carried a
	// service serial override nor had a default service serial configured.
	ErrNoServiceSelected = errors.New("radkit: no service serial selected")
)

// IncompleteEnvBundleError reports an environment credential bundle with
// one or more of its six required variables missing or empty.
type IncompleteEnvBundleError struct {
	// Missing lists the names of the absent environment variables.
	Missing []string
}

func (e *IncompleteEnvBundleError) Error() string {
	return fmt.Sprintf("radkit: incomplete environment credential bundle, missing: %s",
		strings.Join(e.Missing, ", "))
}

// CorruptEncodingError reports a credential field that could not be
// base64-decoded or did not contain the expected PEM material.
type CorruptEncodingError struct {
	// Field is the environment variable name of the corrupt blob.
	Field string
	Err   error
}

func (e *CorruptEncodingError) Error() string {
	return fmt.Sprintf("radkit: corrupt credential encoding in %s: %v", e.Field, e.Err)
}

func (e *CorruptEncodingError) Unwrap() error { return e.Err }

// AuthError reports an authentication rejected by the remote RADKit
// service. Callers should not retry on AuthError.
type AuthError struct {
	Identity string
	Reason   string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("radkit: authentication failed for %q: %s", e.Identity, e.Reason)
}

// TimeoutError reports a remote call that exceeded its deadline. Inside
// a batch tool call it is recovered per target and does not abort
// sibling targets.
type TimeoutError struct {
	// Target is the device name, command, or OID the call was bound to.
	Target  string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("radkit: remote call timed out after %s (target %q)", e.Timeout, e.Target)
}

// Is reports [context.DeadlineExceeded] equivalence so callers can branch
// with errors.Is on either kind.
func (e *TimeoutError) Is(target error) bool { return target == context.DeadlineExceeded }

// InvalidArgumentError reports a malformed tool argument. It is raised
// before any remote call is made.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("radkit: invalid argument %q: %s", e.Field, e.Reason)
}

// FilesystemError reports a failed filesystem operation during
// credential materialization or cleanup.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("radkit: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }
