// Copyright 2026 The Livebasket Authors
// SPDX-License-Identifier: Apache-2.0

package basket

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ctnicholas/livebasket/lib/roomtoken"
	"github.com/ctnicholas/livebasket/lib/testutil"
	"github.com/ctnicholas/livebasket/store"
)

func TestConnectRejectsForeignSecret(t *testing.T) {
	room := testRoom(t)
	issuer := testIssuer(t)

	foreign, err := roomtoken.NewIssuer([]byte("another-secret-entirely-here!!!!"), 0, testClock())
	if err != nil {
		t.Fatalf("building issuer: %v", err)
	}
	token, err := foreign.Issue(testutil.PeerID(t, "eve"), room.ID())
	if err != nil {
		t.Fatalf("issuing token: %v", err)
	}

	_, err = Connect(context.Background(), room, token, issuer, nil)
	if !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("connect with foreign token = %v, want ErrAuthFailed", err)
	}
	if len(room.Peers()) != 0 {
		t.Fatalf("rejected peer appears in the roster: %+v", room.Peers())
	}
}

func TestConnectRejectsTokenForOtherRoom(t *testing.T) {
	room := testRoom(t)
	other := testRoom(t)
	issuer := testIssuer(t)

	token, err := issuer.Issue(testutil.PeerID(t, "mallory"), other.ID())
	if err != nil {
		t.Fatalf("issuing token: %v", err)
	}

	_, err = Connect(context.Background(), room, token, issuer, nil)
	if !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("connect with mismatched token = %v, want ErrAuthFailed", err)
	}
}

func TestConnectRejectsGarbageToken(t *testing.T) {
	room := testRoom(t)
	issuer := testIssuer(t)

	_, err := Connect(context.Background(), room, "not-a-token", issuer, nil)
	if !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("connect with garbage token = %v, want ErrAuthFailed", err)
	}
}

func TestConnectAssignsIdentity(t *testing.T) {
	room := testRoom(t)
	issuer := testIssuer(t)
	a := connect(t, room, issuer, "alice")

	info := a.Self().Info
	if info.Name == "" || info.Color == "" || info.Picture == "" {
		t.Fatalf("peer joined without a display identity: %+v", info)
	}
}

func TestRunReconcilesOnPresenceChanges(t *testing.T) {
	room := testRoom(t)
	issuer := testIssuer(t)
	a := connect(t, room, issuer, "alice")

	changes := make(chan store.Change, 16)
	a.OnChange = func(change store.Change) { changes <- change }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	b := connect(t, room, issuer, "bob")
	change := testutil.RequireReceive(t, changes, time.Second, "join notification")
	if !change.Kinds.Has(store.KindPresence) {
		t.Fatalf("change kinds = %v, want presence", change.Kinds)
	}

	// The seat empties when Alice's Run loop is the only reactor
	// left: Bob hands over and leaves in turn.
	if err := a.Handoff(b.Self().ID); err != nil {
		t.Fatalf("handoff: %v", err)
	}
	b.Leave()

	deadline := time.After(time.Second)
	for !a.IsDriver() {
		select {
		case <-changes:
		case <-deadline:
			t.Fatalf("run loop never reclaimed the abandoned seat")
		}
	}

	cancel()
	if err := testutil.RequireReceive(t, done, time.Second, "run exit"); !errors.Is(err, context.Canceled) {
		t.Fatalf("run = %v, want context.Canceled", err)
	}
}

func TestRunReturnsNilWhenSessionCloses(t *testing.T) {
	room := testRoom(t)
	issuer := testIssuer(t)
	a := connect(t, room, issuer, "alice")

	done := make(chan error, 1)
	go func() { done <- a.Run(context.Background()) }()

	a.Leave()
	if err := testutil.RequireReceive(t, done, time.Second, "run exit"); err != nil {
		t.Fatalf("run after leave = %v, want nil", err)
	}
}
