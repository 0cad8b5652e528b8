// Copyright 2026 The Livebasket Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ctnicholas/livebasket/lib/clock"
	"github.com/ctnicholas/livebasket/lib/ref"
	"github.com/ctnicholas/livebasket/lib/testutil"
)

func testRoom(t *testing.T) *Room[string] {
	t.Helper()
	id, err := ref.NewRoomID()
	if err != nil {
		t.Fatalf("NewRoomID: %v", err)
	}
	return NewRoom[string](id, clock.Fake(time.Unix(1700000000, 0)), nil)
}

func testPeer(t *testing.T, raw string) Peer {
	t.Helper()
	id, err := ref.ParsePeerID(raw)
	if err != nil {
		t.Fatalf("ParsePeerID(%q): %v", raw, err)
	}
	return Peer{ID: id, Info: PeerInfo{Name: raw}}
}

func join(t *testing.T, room *Room[string], raw string) *Session[string] {
	t.Helper()
	session, err := room.Join(context.Background(), testPeer(t, raw))
	if err != nil {
		t.Fatalf("Join(%q): %v", raw, err)
	}
	return session
}

func TestJoinRosterOrder(t *testing.T) {
	room := testRoom(t)
	join(t, room, "aaaa")
	join(t, room, "bbbb")
	sessionC := join(t, room, "cccc")

	peers := room.Peers()
	if len(peers) != 3 {
		t.Fatalf("roster size = %d, want 3", len(peers))
	}
	for i, want := range []string{"aaaa", "bbbb", "cccc"} {
		if peers[i].ID.String() != want {
			t.Errorf("roster[%d] = %s, want %s", i, peers[i].ID, want)
		}
	}

	others := sessionC.Others()
	if len(others) != 2 || others[0].ID.String() != "aaaa" || others[1].ID.String() != "bbbb" {
		t.Errorf("Others() = %v, want [aaaa bbbb]", others)
	}
}

func TestJoinDuplicatePeer(t *testing.T) {
	room := testRoom(t)
	join(t, room, "aaaa")
	if _, err := room.Join(context.Background(), testPeer(t, "aaaa")); !errors.Is(err, ErrPeerExists) {
		t.Errorf("duplicate join: got %v, want ErrPeerExists", err)
	}
}

func TestJoinInvalidPeer(t *testing.T) {
	room := testRoom(t)
	if _, err := room.Join(context.Background(), Peer{}); !errors.Is(err, ErrInvalidPeer) {
		t.Errorf("zero-ID join: got %v, want ErrInvalidPeer", err)
	}
}

func TestJoinCancelledContext(t *testing.T) {
	room := testRoom(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := room.Join(ctx, testPeer(t, "aaaa")); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled join: got %v, want context.Canceled", err)
	}
}

func TestPresenceNotifications(t *testing.T) {
	room := testRoom(t)
	sessionA := join(t, room, "aaaa")

	// A's own join notification.
	change := testutil.RequireReceive(t, sessionA.Events(), time.Second, "join notification")
	if !change.Kinds.Has(KindPresence) {
		t.Errorf("join change kinds = %v, want presence", change.Kinds)
	}

	sessionB := join(t, room, "bbbb")
	change = testutil.RequireReceive(t, sessionA.Events(), time.Second, "B join notification")
	if !change.Kinds.Has(KindPresence) {
		t.Errorf("B join change kinds = %v, want presence", change.Kinds)
	}

	sessionB.Leave()
	change = testutil.RequireReceive(t, sessionA.Events(), time.Second, "B leave notification")
	if !change.Kinds.Has(KindPresence) {
		t.Errorf("B leave change kinds = %v, want presence", change.Kinds)
	}
	if len(sessionA.Others()) != 0 {
		t.Errorf("Others after B left = %v, want empty", sessionA.Others())
	}
}

func TestLeaveClosesEvents(t *testing.T) {
	room := testRoom(t)
	session := join(t, room, "aaaa")
	session.Leave()

	if session.Connected() {
		t.Error("Connected() = true after Leave")
	}
	// Drain: the channel must be closed, possibly after a final
	// buffered notification.
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-session.Events():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("events channel not closed after Leave")
		}
	}
}

func TestLeaveIsIdempotent(t *testing.T) {
	room := testRoom(t)
	session := join(t, room, "aaaa")
	session.Leave()
	session.Leave() // must not panic or double-close
}

func TestBatchCommitsAtomically(t *testing.T) {
	room := testRoom(t)
	writer := join(t, room, "aaaa")
	reader := join(t, room, "bbbb")

	// Drain presence notifications before the storage write.
	testutil.RequireReceive(t, reader.Events(), time.Second, "reader presence")

	err := writer.Batch(func(tx *Tx[string]) error {
		list := tx.List("basket")
		list.Push("one")
		list.Push("two")
		tx.Record("props").Set("driver", "aaaa")
		return nil
	})
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}

	change := testutil.RequireReceive(t, reader.Events(), time.Second, "storage notification")
	if !change.Kinds.Has(KindStorage) {
		t.Errorf("change kinds = %v, want storage", change.Kinds)
	}

	// Everything from the batch is visible together.
	entries := reader.List("basket")
	if len(entries) != 2 || entries[0] != "one" || entries[1] != "two" {
		t.Errorf("basket = %v, want [one two]", entries)
	}
	if got := reader.Record("props")["driver"]; got != "aaaa" {
		t.Errorf("driver = %q, want aaaa", got)
	}
}

func TestBatchErrorDiscardsStagedState(t *testing.T) {
	room := testRoom(t)
	session := join(t, room, "aaaa")
	testutil.RequireReceive(t, session.Events(), time.Second, "join notification")

	boom := errors.New("boom")
	err := session.Batch(func(tx *Tx[string]) error {
		tx.List("basket").Push("phantom")
		tx.Record("props").Set("driver", "aaaa")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Batch error = %v, want boom", err)
	}

	if entries := session.List("basket"); len(entries) != 0 {
		t.Errorf("basket after aborted batch = %v, want empty", entries)
	}
	if _, ok := session.Record("props")["driver"]; ok {
		t.Error("record key survived aborted batch")
	}
	testutil.RequireNoReceive(t, session.Events(), 50*time.Millisecond, "no notification for aborted batch")
}

func TestBatchReadsItsOwnWrites(t *testing.T) {
	room := testRoom(t)
	session := join(t, room, "aaaa")

	err := session.Batch(func(tx *Tx[string]) error {
		list := tx.List("basket")
		list.Push("a")
		list.Push("b")
		if list.Len() != 2 {
			t.Errorf("Len inside tx = %d, want 2", list.Len())
		}
		list.Delete(0)
		if got, _ := list.Get(0); got != "b" {
			t.Errorf("Get(0) after delete = %q, want b", got)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
}

func TestEmptyBatchBroadcastsNothing(t *testing.T) {
	room := testRoom(t)
	session := join(t, room, "aaaa")
	testutil.RequireReceive(t, session.Events(), time.Second, "join notification")

	before := room.Version()
	err := session.Batch(func(tx *Tx[string]) error {
		tx.List("basket") // touched but not mutated
		return nil
	})
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if room.Version() != before {
		t.Errorf("version bumped by read-only batch: %d -> %d", before, room.Version())
	}
	testutil.RequireNoReceive(t, session.Events(), 50*time.Millisecond, "no notification for read-only batch")
}

func TestNotificationsCoalesce(t *testing.T) {
	room := testRoom(t)
	writer := join(t, room, "aaaa")
	reader := join(t, room, "bbbb")

	// Do not read from reader.Events yet: B's join notification is
	// pending. Two storage commits must fold into it.
	for i := 0; i < 2; i++ {
		if err := writer.Batch(func(tx *Tx[string]) error {
			tx.List("basket").Push("x")
			return nil
		}); err != nil {
			t.Fatalf("Batch %d: %v", i, err)
		}
	}

	change := testutil.RequireReceive(t, reader.Events(), time.Second, "coalesced notification")
	if !change.Kinds.Has(KindStorage) || !change.Kinds.Has(KindPresence) {
		t.Errorf("coalesced kinds = %v, want storage+presence", change.Kinds)
	}
	if change.Version != room.Version() {
		t.Errorf("coalesced version = %d, want latest %d", change.Version, room.Version())
	}
	testutil.RequireNoReceive(t, reader.Events(), 50*time.Millisecond, "only one coalesced notification")
}

func TestRecordLastWriteWins(t *testing.T) {
	room := testRoom(t)
	sessionA := join(t, room, "aaaa")
	sessionB := join(t, room, "bbbb")

	set := func(s *Session[string], value string) {
		t.Helper()
		if err := s.Batch(func(tx *Tx[string]) error {
			tx.Record("props").Set("driver", value)
			return nil
		}); err != nil {
			t.Fatalf("Batch: %v", err)
		}
	}
	set(sessionA, "aaaa")
	set(sessionB, "bbbb")

	if got := sessionA.Record("props")["driver"]; got != "bbbb" {
		t.Errorf("driver = %q, want bbbb (later write wins)", got)
	}
}

func TestBatchAfterLeave(t *testing.T) {
	room := testRoom(t)
	session := join(t, room, "aaaa")
	session.Leave()

	err := session.Batch(func(tx *Tx[string]) error { return nil })
	if !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Batch after Leave = %v, want ErrSessionClosed", err)
	}
}

func TestLazyContainers(t *testing.T) {
	room := testRoom(t)
	session := join(t, room, "aaaa")

	if entries := session.List("never-written"); len(entries) != 0 {
		t.Errorf("unknown list = %v, want empty", entries)
	}
	if values := session.Record("never-written"); len(values) != 0 {
		t.Errorf("unknown record = %v, want empty", values)
	}
}

func TestTxListClamping(t *testing.T) {
	room := testRoom(t)
	session := join(t, room, "aaaa")

	err := session.Batch(func(tx *Tx[string]) error {
		list := tx.List("basket")
		list.Insert(-5, "first") // clamps to 0
		list.Insert(99, "last")  // clamps to end
		if list.Delete(42) {
			t.Error("Delete out of range reported success")
		}
		if _, ok := list.Get(-1); ok {
			t.Error("Get(-1) reported success")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}

	entries := session.List("basket")
	if len(entries) != 2 || entries[0] != "first" || entries[1] != "last" {
		t.Errorf("basket = %v, want [first last]", entries)
	}
}

func TestSnapshotDeterministicEncoding(t *testing.T) {
	build := func(driverFirst bool) *Room[string] {
		room := testRoom(t)
		session := join(t, room, "aaaa")
		err := session.Batch(func(tx *Tx[string]) error {
			if driverFirst {
				tx.Record("props").Set("driver", "aaaa")
				tx.List("basket").Push("socks")
			} else {
				tx.List("basket").Push("socks")
				tx.Record("props").Set("driver", "aaaa")
			}
			return nil
		})
		if err != nil {
			t.Fatalf("Batch: %v", err)
		}
		return room
	}

	roomA := build(true)
	roomB := build(false)
	// Same room ID so the snapshots are logically identical.
	roomB.id = roomA.id

	encodedA, err := roomA.EncodeSnapshot()
	if err != nil {
		t.Fatalf("EncodeSnapshot: %v", err)
	}
	encodedB, err := roomB.EncodeSnapshot()
	if err != nil {
		t.Fatalf("EncodeSnapshot: %v", err)
	}
	if !bytes.Equal(encodedA, encodedB) {
		t.Error("identical room state encoded to different bytes")
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	room := testRoom(t)
	session := join(t, room, "aaaa")
	if err := session.Batch(func(tx *Tx[string]) error {
		tx.List("basket").Push("socks")
		return nil
	}); err != nil {
		t.Fatalf("Batch: %v", err)
	}

	snapshot := room.Snapshot()
	snapshot.Lists["basket"][0] = "tampered"

	if got := session.List("basket")[0]; got != "socks" {
		t.Errorf("room state mutated through snapshot: %q", got)
	}
}

func TestJoinedAtFollowsRoomClock(t *testing.T) {
	start := time.Unix(1700000000, 0)
	clk := clock.Fake(start)
	id, err := ref.NewRoomID()
	if err != nil {
		t.Fatalf("NewRoomID: %v", err)
	}
	room := NewRoom[string](id, clk, nil)

	first := join(t, room, "alice01")
	clk.Advance(3 * time.Second)
	second := join(t, room, "bobby02")

	if !first.JoinedAt().Equal(start) {
		t.Errorf("first JoinedAt = %v, want %v", first.JoinedAt(), start)
	}
	if !second.JoinedAt().After(first.JoinedAt()) {
		t.Errorf("join times out of order: %v then %v", first.JoinedAt(), second.JoinedAt())
	}
}
