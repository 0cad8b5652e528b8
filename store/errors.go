// Copyright 2026 The Livebasket Authors
// SPDX-License-Identifier: Apache-2.0

package store

import "errors"

var (
	// ErrSessionClosed is returned by operations on a session whose
	// peer has left the room.
	ErrSessionClosed = errors.New("store: session closed")

	// ErrPeerExists is returned by Join when a peer with the same ID
	// is already connected to the room.
	ErrPeerExists = errors.New("store: peer id already connected")

	// ErrInvalidPeer is returned by Join when the peer has a zero ID.
	ErrInvalidPeer = errors.New("store: peer has no id")
)
