// Copyright 2026 The Livebasket Authors
// SPDX-License-Identifier: Apache-2.0

// Package ref provides validated identifier value types used across
// livebasket: peer IDs and room IDs.
//
// Both types are immutable value types wrapping a validated string.
// The zero value is never valid; use IsZero to check. Identifiers
// enter the system either freshly generated (NewPeerID, NewRoomID) or
// parsed at a boundary (ParsePeerID, ParseRoomID) — code past the
// boundary never handles raw identifier strings.
//
// This package depends on no other livebasket packages.
package ref
