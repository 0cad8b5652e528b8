// Copyright 2026 The Livebasket Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"sync/atomic"

	"github.com/ctnicholas/livebasket/lib/ref"
)

var uniqueCounter atomic.Uint64

// UniqueID returns a string of the form "prefix-N" where N is a
// monotonically increasing integer. Use this when tests need
// distinguishable labels without reaching for time.Now().
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, uniqueCounter.Add(1))
}

// PeerID returns a fresh valid peer ID of the form "<prefix><NNNN>".
// The prefix must be lowercase base36; padding keeps the result
// inside PeerID's length rules.
func PeerID(t interface {
	Helper()
	Fatalf(format string, args ...any)
}, prefix string) ref.PeerID {
	t.Helper()
	id, err := ref.ParsePeerID(fmt.Sprintf("%s%04d", prefix, uniqueCounter.Add(1)))
	if err != nil {
		t.Fatalf("building test peer ID: %v", err)
	}
	return id
}

// RoomID returns a fresh random room ID, failing the test on
// generation errors.
func RoomID(t interface {
	Helper()
	Fatalf(format string, args ...any)
}) ref.RoomID {
	t.Helper()
	id, err := ref.NewRoomID()
	if err != nil {
		t.Fatalf("generating test room ID: %v", err)
	}
	return id
}
