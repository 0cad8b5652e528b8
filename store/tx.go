// Copyright 2026 The Livebasket Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"maps"
	"slices"
)

// Tx is a copy-on-write transaction over a room's containers. It is
// created by Session.Batch and is only valid for the duration of the
// batch function. Containers are staged on first access: reads inside
// the transaction see the staged state, so a merge implemented as
// delete-then-insert observes its own delete.
//
// Tx methods never fail; the batch as a whole is acknowledged by
// Batch's return value.
type Tx[E any] struct {
	room    *Room[E]
	actor   Peer
	lists   map[string]*TxList[E]
	records map[string]*TxRecord
}

// Actor returns the peer that opened the transaction.
func (tx *Tx[E]) Actor() Peer { return tx.actor }

// Others returns the roster of connected peers other than the actor,
// in join order, consistent with the transaction's view of the room.
func (tx *Tx[E]) Others() []Peer {
	return tx.room.rosterLocked(tx.actor.ID)
}

// List returns the staged copy of the named list, creating the
// container if it does not exist yet.
func (tx *Tx[E]) List(name string) *TxList[E] {
	if tx.lists == nil {
		tx.lists = make(map[string]*TxList[E])
	}
	staged, ok := tx.lists[name]
	if !ok {
		staged = &TxList[E]{entries: slices.Clone(tx.room.lists[name])}
		tx.lists[name] = staged
	}
	return staged
}

// Record returns the staged copy of the named record, creating the
// container if it does not exist yet.
func (tx *Tx[E]) Record(name string) *TxRecord {
	if tx.records == nil {
		tx.records = make(map[string]*TxRecord)
	}
	staged, ok := tx.records[name]
	if !ok {
		values := maps.Clone(tx.room.records[name])
		if values == nil {
			values = make(map[string]string)
		}
		staged = &TxRecord{values: values}
		tx.records[name] = staged
	}
	return staged
}

// dirty reports whether any staged container was mutated.
func (tx *Tx[E]) dirty() bool {
	for _, staged := range tx.lists {
		if staged.mutated {
			return true
		}
	}
	for _, staged := range tx.records {
		if staged.mutated {
			return true
		}
	}
	return false
}

// TxList is a staged ordered list inside a transaction. Indices are
// zero-based; mutating methods clamp or ignore out-of-range indices
// rather than panicking, mirroring the tolerant list surface of the
// synchronized store the original client was written against.
type TxList[E any] struct {
	entries []E
	mutated bool
}

// Len returns the number of entries.
func (l *TxList[E]) Len() int { return len(l.entries) }

// Get returns the entry at index i, or the zero value and false when
// i is out of range.
func (l *TxList[E]) Get(i int) (E, bool) {
	if i < 0 || i >= len(l.entries) {
		var zero E
		return zero, false
	}
	return l.entries[i], true
}

// FindIndex returns the index of the first entry matching the
// predicate, or -1.
func (l *TxList[E]) FindIndex(match func(E) bool) int {
	return slices.IndexFunc(l.entries, match)
}

// Push appends an entry to the end of the list.
func (l *TxList[E]) Push(entry E) {
	l.entries = append(l.entries, entry)
	l.mutated = true
}

// Insert places an entry at index i, shifting later entries right.
// Out-of-range indices clamp to the nearest end.
func (l *TxList[E]) Insert(i int, entry E) {
	if i < 0 {
		i = 0
	}
	if i > len(l.entries) {
		i = len(l.entries)
	}
	l.entries = slices.Insert(l.entries, i, entry)
	l.mutated = true
}

// Delete removes the entry at index i, shifting later entries left.
// Reports whether an entry was removed; out-of-range indices are a
// no-op.
func (l *TxList[E]) Delete(i int) bool {
	if i < 0 || i >= len(l.entries) {
		return false
	}
	l.entries = slices.Delete(l.entries, i, i+1)
	l.mutated = true
	return true
}

// Clear removes every entry.
func (l *TxList[E]) Clear() {
	if len(l.entries) == 0 {
		return
	}
	l.entries = l.entries[:0]
	l.mutated = true
}

// Entries returns the staged entries. The slice must not be retained
// past the transaction.
func (l *TxList[E]) Entries() []E { return l.entries }

// TxRecord is a staged key-value record inside a transaction.
type TxRecord struct {
	values  map[string]string
	mutated bool
}

// Get returns the value for key and whether it is set.
func (r *TxRecord) Get(key string) (string, bool) {
	value, ok := r.values[key]
	return value, ok
}

// Set stores value under key. Within one committed room history,
// the write that commits later wins the key.
func (r *TxRecord) Set(key, value string) {
	r.values[key] = value
	r.mutated = true
}

// Unset removes key from the record. No-op if absent.
func (r *TxRecord) Unset(key string) {
	if _, ok := r.values[key]; !ok {
		return
	}
	delete(r.values, key)
	r.mutated = true
}
