// Copyright 2026 The Livebasket Authors
// SPDX-License-Identifier: Apache-2.0

// Package store implements the shared-store adapter: an in-process
// replicated room holding named ordered lists, named key-value
// records, and a presence roster, with the semantics the basket core
// is written against:
//
//   - at-least-once broadcast of mutations to every connected peer
//   - last-write-wins per record key, ordered by the room's internal
//     version counter
//   - atomic batches: a transaction's mutations commit together and
//     observers never see a torn intermediate state
//   - stable presence order: rosters list peers in join order
//
// Every mutating call returns an explicit result instead of firing
// and forgetting, so retry and no-op policies in the core are
// testable without a network. A production deployment would place a
// real-time transport behind the same Room/Session surface; the core
// does not know the difference.
//
// The package is organized around the data flow:
//
//   - room.go: container state, roster, commit and fan-out
//   - session.go: a peer's handle on a room
//   - tx.go: copy-on-write transactions over lists and records
//   - change.go: coalescing change notifications
package store
