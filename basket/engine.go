// Copyright 2026 The Livebasket Authors
// SPDX-License-Identifier: Apache-2.0

package basket

import "github.com/ctnicholas/livebasket/store"

// The mutation engine: quantity-merging insert, delete, and clear
// over one container, preserving two invariants for every sequence of
// operations:
//
//   - at most one entry per product ID in a container
//   - every stored entry has quantity > 0
//
// All functions operate on staged transaction state, so a compound
// mutation (delete-then-insert merge, accept's move between
// containers) commits atomically with the rest of its batch.

// findByID returns the index of the entry with the given product ID,
// or -1.
func findByID(list *store.TxList[Entry], id int64) int {
	return list.FindIndex(func(entry Entry) bool { return entry.ID == id })
}

// addOrMerge inserts incoming into the list, merging quantities with
// any existing entry for the same product ID.
//
// When an entry exists, the merged entry keeps the existing entry's
// position: remove-then-insert at the same index, so concurrent
// observers see stable ordering. A merged quantity of zero or below
// removes the entry without re-inserting. When no entry exists, the
// incoming entry is appended — but only with a positive quantity; a
// fresh add with quantity < 1 is a no-op rather than a stored
// invariant violation.
func addOrMerge(list *store.TxList[Entry], incoming Entry) {
	index := findByID(list, incoming.ID)
	if index < 0 {
		if incoming.Quantity < 1 {
			return
		}
		list.Push(incoming)
		return
	}

	existing, _ := list.Get(index)
	merged := incoming
	merged.Quantity = existing.Quantity + incoming.Quantity

	list.Delete(index)
	if merged.Quantity > 0 {
		list.Insert(index, merged)
	}
}

// removeByID removes the entry with the given product ID. Reports
// whether anything was removed; an absent ID is a benign no-op
// (already resolved by a concurrent action).
func removeByID(list *store.TxList[Entry], id int64) bool {
	index := findByID(list, id)
	if index < 0 {
		return false
	}
	return list.Delete(index)
}

// TotalCents sums price × quantity over entries, in cents. A zero
// quantity counts as 1: entries are never stored without a quantity,
// but a total should not silently drop a row if one slips through.
func TotalCents(entries []Entry) int64 {
	var total int64
	for _, entry := range entries {
		quantity := int64(entry.Quantity)
		if quantity == 0 {
			quantity = 1
		}
		total += entry.PriceCents * quantity
	}
	return total
}
