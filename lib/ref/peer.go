// Copyright 2026 The Livebasket Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// PeerID identifies a connected peer for the lifetime of its
// connection session. Peer IDs are assigned at authentication and
// stay stable while the peer remains connected; a peer that leaves
// and rejoins keeps the same ID only if it presents the same ID to
// the authentication collaborator again (clients persist it locally).
//
// The canonical form is 4–64 lowercase base36 characters
// (e.g., "k3f9x2ab").
//
// PeerID is an immutable value type. The zero value is not valid;
// use IsZero to check.
type PeerID struct {
	id string
}

// peerIDLength is the length of generated peer IDs. Parsing accepts a
// wider range so externally assigned IDs round-trip.
const peerIDLength = 8

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// ParsePeerID validates and wraps a raw peer ID string. Returns an
// error if the string is empty, shorter than 4 or longer than 64
// characters, or contains anything outside lowercase base36.
func ParsePeerID(raw string) (PeerID, error) {
	if raw == "" {
		return PeerID{}, fmt.Errorf("empty peer ID")
	}
	if len(raw) < 4 || len(raw) > 64 {
		return PeerID{}, fmt.Errorf("peer ID length %d outside 4..64: %q", len(raw), raw)
	}
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'z') {
			return PeerID{}, fmt.Errorf("peer ID contains invalid character %q: %q", c, raw)
		}
	}
	return PeerID{id: raw}, nil
}

// NewPeerID generates a fresh random peer ID.
func NewPeerID() (PeerID, error) {
	buf := make([]byte, peerIDLength)
	max := big.NewInt(int64(len(base36Alphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return PeerID{}, fmt.Errorf("generating peer ID: %w", err)
		}
		buf[i] = base36Alphabet[n.Int64()]
	}
	return PeerID{id: string(buf)}, nil
}

// String returns the peer ID string.
func (p PeerID) String() string { return p.id }

// IsZero reports whether the PeerID is the zero value (uninitialized).
func (p PeerID) IsZero() bool { return p.id == "" }

// MarshalText implements encoding.TextMarshaler.
func (p PeerID) MarshalText() ([]byte, error) {
	return []byte(p.id), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, validating the
// incoming string.
func (p *PeerID) UnmarshalText(text []byte) error {
	parsed, err := ParsePeerID(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
