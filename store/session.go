// Copyright 2026 The Livebasket Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"maps"
	"slices"
	"time"
)

// Session is one peer's handle on a room. Reads return consistent
// copies of committed state; writes go through Batch so that compound
// mutations commit atomically.
//
// A Session is safe for concurrent use, but the intended shape is the
// original client model: one goroutine per peer consuming Events and
// issuing mutations.
type Session[E any] struct {
	room     *Room[E]
	peer     Peer
	joinedAt time.Time

	// events delivers coalescing change notifications. Guarded by
	// room.mu along with closed.
	events chan Change
	closed bool
}

// Self returns the peer this session belongs to.
func (s *Session[E]) Self() Peer { return s.peer }

// JoinedAt returns when the peer joined the room.
func (s *Session[E]) JoinedAt() time.Time { return s.joinedAt }

// Others returns the roster of all other connected peers, in stable
// join order. The order is the same for every observer, which the
// driver election relies on when it picks a replacement driver.
func (s *Session[E]) Others() []Peer {
	s.room.mu.Lock()
	defer s.room.mu.Unlock()
	return s.room.rosterLocked(s.peer.ID)
}

// Events returns the session's change notification channel. The
// channel coalesces: it holds at most one pending Change, and an
// unread notification is folded into the next. A received Change is a
// wake-up to re-read room state, never a delta. The channel is closed
// when the session leaves the room.
func (s *Session[E]) Events() <-chan Change { return s.events }

// Connected reports whether the session is still attached to the
// room.
func (s *Session[E]) Connected() bool {
	s.room.mu.Lock()
	defer s.room.mu.Unlock()
	return !s.closed
}

// List returns a copy of the named list's committed entries. A list
// that has never been written is indistinguishable from an empty one:
// both return nil or an empty slice.
func (s *Session[E]) List(name string) []E {
	s.room.mu.Lock()
	defer s.room.mu.Unlock()
	return slices.Clone(s.room.lists[name])
}

// Record returns a copy of the named record's committed key-value
// pairs. A record that has never been written returns an empty map.
func (s *Session[E]) Record(name string) map[string]string {
	s.room.mu.Lock()
	defer s.room.mu.Unlock()
	values := s.room.records[name]
	if values == nil {
		return map[string]string{}
	}
	return maps.Clone(values)
}

// Batch runs fn inside a transaction. Every mutation fn makes through
// the Tx commits in one step when fn returns nil: other sessions
// observe either none of the batch or all of it, and receive a single
// storage change notification. If fn returns an error, the staged
// mutations are discarded, nothing is broadcast, and the error is
// returned to the caller as the operation's acknowledgment.
//
// fn must not call back into the session (Batch, List, Record,
// Leave); all reads and writes inside the transaction go through the
// Tx, which sees staged state.
func (s *Session[E]) Batch(fn func(tx *Tx[E]) error) error {
	s.room.mu.Lock()
	defer s.room.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}

	tx := &Tx[E]{room: s.room, actor: s.peer}
	if err := fn(tx); err != nil {
		return err
	}
	if !tx.dirty() {
		return nil
	}

	for name, staged := range tx.lists {
		s.room.lists[name] = staged.entries
	}
	for name, staged := range tx.records {
		s.room.records[name] = staged.values
	}
	s.room.broadcastLocked(KindStorage)

	s.room.logger.Debug("batch committed",
		"room", s.room.id, "actor", s.peer.ID, "version", s.room.version)
	return nil
}

// Leave disconnects the session from the room. Idempotent. After
// Leave, Batch returns ErrSessionClosed and Events is closed.
func (s *Session[E]) Leave() {
	s.room.leave(s)
}
