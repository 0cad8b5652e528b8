// Copyright 2026 The Livebasket Authors
// SPDX-License-Identifier: Apache-2.0

package basket

import "errors"

var (
	// ErrNotReady is returned by operations on a client that is not
	// attached to a room (never connected, or its session has been
	// closed). Distinct from ErrAuthFailed: not-ready is a transient
	// state, auth failure is terminal for the attempt.
	ErrNotReady = errors.New("basket: client not attached to a room")

	// ErrNotDriver is returned when a peer attempts a driver-only
	// mutation. The check runs inside the mutating transaction, so it
	// holds even for callers that bypass UI gating.
	ErrNotDriver = errors.New("basket: caller is not the driver")

	// ErrAuthFailed is returned by Connect when room token
	// verification fails.
	ErrAuthFailed = errors.New("basket: room authentication failed")

	// ErrUnknownPeer is returned by Handoff when the proposed driver
	// is not in the current roster. Handing ownership to an absent
	// peer would leave the room with no effective driver until the
	// next roster change.
	ErrUnknownPeer = errors.New("basket: peer not in roster")
)
