// Copyright 2026 The Livebasket Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// RoomID identifies a room session: the partition scope binding one
// shared basket, its properties record, its request queue, and its
// presence roster. Sharing a room ID joins the same session.
//
// The canonical form is 8–64 lowercase hex characters. Generated IDs
// are 21 characters, matching the URL-sharing scheme where a fresh ID
// is attached to the page URL when none is present.
//
// RoomID is an immutable value type. The zero value is not valid;
// use IsZero to check.
type RoomID struct {
	id string
}

// roomIDLength is the length of generated room IDs.
const roomIDLength = 21

// ParseRoomID validates and wraps a raw room ID string. Returns an
// error if the string is empty, shorter than 8 or longer than 64
// characters, or contains anything outside lowercase hex.
func ParseRoomID(raw string) (RoomID, error) {
	if raw == "" {
		return RoomID{}, fmt.Errorf("empty room ID")
	}
	if len(raw) < 8 || len(raw) > 64 {
		return RoomID{}, fmt.Errorf("room ID length %d outside 8..64: %q", len(raw), raw)
	}
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return RoomID{}, fmt.Errorf("room ID contains invalid character %q: %q", c, raw)
		}
	}
	return RoomID{id: raw}, nil
}

// NewRoomID generates a fresh random room ID.
func NewRoomID() (RoomID, error) {
	// 11 random bytes give 22 hex characters; trim to the canonical 21.
	buf := make([]byte, (roomIDLength+1)/2)
	if _, err := rand.Read(buf); err != nil {
		return RoomID{}, fmt.Errorf("generating room ID: %w", err)
	}
	return RoomID{id: hex.EncodeToString(buf)[:roomIDLength]}, nil
}

// String returns the room ID string.
func (r RoomID) String() string { return r.id }

// IsZero reports whether the RoomID is the zero value (uninitialized).
func (r RoomID) IsZero() bool { return r.id == "" }

// MarshalText implements encoding.TextMarshaler.
func (r RoomID) MarshalText() ([]byte, error) {
	return []byte(r.id), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, validating the
// incoming string.
func (r *RoomID) UnmarshalText(text []byte) error {
	parsed, err := ParseRoomID(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
