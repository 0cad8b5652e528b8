// Copyright 2026 The Livebasket Authors
// SPDX-License-Identifier: Apache-2.0

package store

import "strings"

// ChangeKind is a bitmask describing what a change notification
// covers. Coalesced notifications OR their kinds together.
type ChangeKind uint8

const (
	// KindStorage marks a change to list or record containers.
	KindStorage ChangeKind = 1 << iota

	// KindPresence marks a change to the roster (join or leave).
	KindPresence
)

// Has reports whether the mask includes kind.
func (k ChangeKind) Has(kind ChangeKind) bool { return k&kind != 0 }

// String returns a "+"-joined list of kind names, or "none".
func (k ChangeKind) String() string {
	var parts []string
	if k.Has(KindStorage) {
		parts = append(parts, "storage")
	}
	if k.Has(KindPresence) {
		parts = append(parts, "presence")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}

// Change is a notification that the room moved to a new version. It
// is a wake-up, not a delta: consumers re-read current room state
// rather than interpreting the notification. Version is the room
// version at the time the notification was sent; when notifications
// coalesce, Version is the latest one and Kinds is the union.
type Change struct {
	Kinds   ChangeKind
	Version uint64
}
