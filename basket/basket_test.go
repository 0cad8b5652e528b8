// Copyright 2026 The Livebasket Authors
// SPDX-License-Identifier: Apache-2.0

package basket

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ctnicholas/livebasket/lib/clock"
	"github.com/ctnicholas/livebasket/lib/roomtoken"
	"github.com/ctnicholas/livebasket/lib/testutil"
	"github.com/ctnicholas/livebasket/store"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testClock() *clock.FakeClock {
	return clock.Fake(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
}

func testRoom(t *testing.T) *store.Room[Entry] {
	t.Helper()
	return store.NewRoom[Entry](testutil.RoomID(t), testClock(), nil)
}

func testIssuer(t *testing.T) *roomtoken.Issuer {
	t.Helper()
	issuer, err := roomtoken.NewIssuer([]byte(testSecret), 0, testClock())
	if err != nil {
		t.Fatalf("building issuer: %v", err)
	}
	return issuer
}

// connect joins a fresh peer to the room through the full token flow
// and registers cleanup.
func connect(t *testing.T, room *store.Room[Entry], issuer *roomtoken.Issuer, prefix string) *Client {
	t.Helper()
	peer := testutil.PeerID(t, prefix)
	token, err := issuer.Issue(peer, room.ID())
	if err != nil {
		t.Fatalf("issuing token for %s: %v", peer, err)
	}
	client, err := Connect(context.Background(), room, token, issuer, nil)
	if err != nil {
		t.Fatalf("connecting %s: %v", peer, err)
	}
	t.Cleanup(client.Leave)
	return client
}

func testProduct(id int64, cents int64) Product {
	return Product{
		ID:         id,
		Name:       fmt.Sprintf("product %d", id),
		PriceCents: cents,
	}
}

// requireBasket asserts the basket's product IDs and quantities in
// order.
func requireBasket(t *testing.T, c *Client, want ...Entry) {
	t.Helper()
	got := c.Basket()
	if len(got) != len(want) {
		t.Fatalf("basket has %d entries, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Quantity != want[i].Quantity {
			t.Fatalf("basket[%d] = product %d quantity %d, want product %d quantity %d",
				i, got[i].ID, got[i].Quantity, want[i].ID, want[i].Quantity)
		}
		if got[i].Requested {
			t.Fatalf("basket[%d] still carries the requested flag", i)
		}
	}
}

func requireDriverIs(t *testing.T, c *Client, want *Client) {
	t.Helper()
	driver, ok := c.Driver()
	if !ok {
		t.Fatalf("no driver assigned, want %s", want.Self().ID)
	}
	if driver != want.Self().ID {
		t.Fatalf("driver is %s, want %s", driver, want.Self().ID)
	}
}
