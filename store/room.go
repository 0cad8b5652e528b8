// Copyright 2026 The Livebasket Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/ctnicholas/livebasket/lib/clock"
	"github.com/ctnicholas/livebasket/lib/codec"
	"github.com/ctnicholas/livebasket/lib/ref"
)

// PeerInfo is the read-only display metadata attached to a peer at
// authentication: name, avatar, color. It never changes during a
// session.
type PeerInfo struct {
	Name    string `json:"name" yaml:"name"`
	Color   string `json:"color" yaml:"color"`
	Picture string `json:"picture" yaml:"picture"`
}

// Peer is a connected (or connecting) participant: a session-stable
// ID plus its display metadata.
type Peer struct {
	ID   ref.PeerID `json:"id"`
	Info PeerInfo   `json:"info"`
}

// Room is one shared session: named ordered lists, named key-value
// records, and a roster of connected peers, replicated to every
// session. Containers are created lazily on first write and persist
// for the room's lifetime — an empty room session starts with no
// containers at all.
//
// All state is guarded by a single mutex; concurrent writers are
// serialized, which is what gives record keys their last-write-wins
// order. The room version counter is the store's internal clock.
//
// E is the element type held by the room's lists.
type Room[E any] struct {
	id     ref.RoomID
	clock  clock.Clock
	logger *slog.Logger

	mu       sync.Mutex
	version  uint64
	lists    map[string][]E
	records  map[string]map[string]string
	sessions []*Session[E] // join order; doubles as the roster
}

// NewRoom creates an empty room. The logger may be nil, in which case
// logging is discarded.
func NewRoom[E any](id ref.RoomID, clk clock.Clock, logger *slog.Logger) *Room[E] {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Room[E]{
		id:      id,
		clock:   clk,
		logger:  logger,
		lists:   make(map[string][]E),
		records: make(map[string]map[string]string),
	}
}

// ID returns the room identifier.
func (r *Room[E]) ID() ref.RoomID { return r.id }

// Version returns the current room version. The version increases on
// every committed change, storage or presence.
func (r *Room[E]) Version() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.version
}

// Join connects a peer to the room and returns its session. The
// join is broadcast to every already-connected peer as a presence
// change. Fails if the peer ID is zero, already connected, or the
// context is done.
func (r *Room[E]) Join(ctx context.Context, peer Peer) (*Session[E], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if peer.ID.IsZero() {
		return nil, ErrInvalidPeer
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.sessions {
		if existing.peer.ID == peer.ID {
			return nil, ErrPeerExists
		}
	}

	session := &Session[E]{
		room:     r,
		peer:     peer,
		joinedAt: r.clock.Now(),
		events:   make(chan Change, 1),
	}
	r.sessions = append(r.sessions, session)
	r.broadcastLocked(KindPresence)

	r.logger.Debug("peer joined room",
		"room", r.id, "peer", peer.ID, "roster_size", len(r.sessions))
	return session, nil
}

// Peers returns the full roster in join order.
func (r *Room[E]) Peers() []Peer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rosterLocked(ref.PeerID{})
}

// rosterLocked builds the roster in join order, excluding the peer
// with the given ID (pass the zero PeerID to exclude nobody).
func (r *Room[E]) rosterLocked(exclude ref.PeerID) []Peer {
	peers := make([]Peer, 0, len(r.sessions))
	for _, session := range r.sessions {
		if !exclude.IsZero() && session.peer.ID == exclude {
			continue
		}
		peers = append(peers, session.peer)
	}
	return peers
}

// broadcastLocked bumps the room version and sends a coalescing
// change notification to every connected session, the actor included.
// Each session channel has capacity 1 and a single sender (whoever
// holds the room lock), so the pop-merge-push below never blocks: if
// a previous notification is still unread it is folded into the new
// one.
func (r *Room[E]) broadcastLocked(kinds ChangeKind) {
	r.version++
	change := Change{Kinds: kinds, Version: r.version}
	for _, session := range r.sessions {
		select {
		case pending := <-session.events:
			change.Kinds |= pending.Kinds
		default:
		}
		session.events <- change
		change.Kinds = kinds
	}
}

// leave disconnects a session. Idempotent. The departure is broadcast
// to the remaining peers as a presence change, and the session's
// event channel is closed.
func (r *Room[E]) leave(target *Session[E]) {
	r.mu.Lock()
	defer r.mu.Unlock()

	index := slices.Index(r.sessions, target)
	if index < 0 {
		return
	}
	r.sessions = slices.Delete(r.sessions, index, index+1)
	target.closed = true
	close(target.events)
	r.broadcastLocked(KindPresence)

	r.logger.Debug("peer left room",
		"room", r.id, "peer", target.peer.ID, "roster_size", len(r.sessions))
}

// Snapshot is a consistent deep copy of a room's full state at one
// version. It carries no wall-clock timestamp so that equal state
// encodes to equal bytes.
type Snapshot[E any] struct {
	Room    ref.RoomID                   `json:"room"`
	Version uint64                       `json:"version"`
	Lists   map[string][]E               `json:"lists"`
	Records map[string]map[string]string `json:"records"`
	Peers   []Peer                       `json:"peers"`
}

// Snapshot returns a deep copy of the room's current state. The copy
// is taken under the room lock, so it is internally consistent: no
// torn reads across containers.
func (r *Room[E]) Snapshot() Snapshot[E] {
	r.mu.Lock()
	defer r.mu.Unlock()

	lists := make(map[string][]E, len(r.lists))
	for name, entries := range r.lists {
		lists[name] = slices.Clone(entries)
	}
	records := make(map[string]map[string]string, len(r.records))
	for name, values := range r.records {
		records[name] = maps.Clone(values)
	}
	return Snapshot[E]{
		Room:    r.id,
		Version: r.version,
		Lists:   lists,
		Records: records,
		Peers:   r.rosterLocked(ref.PeerID{}),
	}
}

// EncodeSnapshot returns the room's current state in deterministic
// CBOR. Identical room state always encodes to identical bytes.
func (r *Room[E]) EncodeSnapshot() ([]byte, error) {
	return codec.Marshal(r.Snapshot())
}
