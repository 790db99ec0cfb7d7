// Copyright (c) 2025 Broadcom. All Rights Reserved.
// Broadcom Confidential. The term "Broadcom" refers to Broadcom Inc.
// and/or its subsidiaries.

package dispatch

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyHostGroup is returned when a dispatch targets a group that
// resolved to zero hosts. Distinct from a missing inventory file so the
// operator sees which of the two went wrong.
var ErrEmptyHostGroup = errors.New("host group is empty")

// ConnectError means the transport never reached a usable session.
type ConnectError struct {
	Err error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connection failed: %v", e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// AuthError means the host was reachable but rejected the identity.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// ModuleError means the module ran on the host but reported failure, for
// example a unit that does not exist or a health endpoint returning 500.
type ModuleError struct {
	Output string
	Err    error
}

func (e *ModuleError) Error() string {
	return fmt.Sprintf("remote module failed: %v", e.Err)
}

func (e *ModuleError) Unwrap() error { return e.Err }

// classify maps a RunModule error to the outcome taxonomy. Anything the
// runner did not type is treated as a transport failure rather than being
// coalesced into a generic bucket.
func classify(err error) Status {
	if err == nil {
		return StatusSuccess
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return StatusTimeout
	}

	var authErr *AuthError
	if errors.As(err, &authErr) {
		return StatusAuthFailed
	}

	var modErr *ModuleError
	if errors.As(err, &modErr) {
		return StatusModuleError
	}

	return StatusConnectionFailed
}
