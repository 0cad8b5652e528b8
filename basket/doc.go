// Copyright 2026 The Livebasket Authors
// SPDX-License-Identifier: Apache-2.0

// Package basket implements the shared-basket core: one basket of
// products shared by every peer in a room, owned by a single elected
// "driver", with every other peer (a "passenger") submitting change
// requests the driver accepts or rejects.
//
// The package is organized around that flow:
//
//   - product.go: catalog entries and basket entries
//   - catalog.go: the static read-only product catalog
//   - engine.go: quantity-merging add/remove/clear over a container
//   - election.go: driver election, self-healing on joins and leaves
//   - workflow.go: the driver/passenger actions and request handling
//   - client.go: a peer's connected client, tying the above together
//
// Room state lives in three shared containers with the names the
// storage schema has always used: the "basket" list, the
// "requestedItems" list, and the "basketProperties" record holding
// the driver's peer ID.
//
// Authorization is enforced inside the mutating operations: every
// driver-only action re-reads the driver record in the same
// transaction as its write and fails with ErrNotDriver on mismatch.
// Disabling buttons for passengers is a UI courtesy, not the
// enforcement point.
package basket
