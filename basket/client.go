// Copyright 2026 The Livebasket Authors
// SPDX-License-Identifier: Apache-2.0

package basket

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ctnicholas/livebasket/lib/ref"
	"github.com/ctnicholas/livebasket/lib/roomtoken"
	"github.com/ctnicholas/livebasket/store"
)

// Names of the shared containers. These are the storage schema and
// must not change: every peer in a room addresses the same containers
// by these names.
const (
	// ContainerBasket is the authoritative basket list. Mutated only
	// by the driver.
	ContainerBasket = "basket"

	// ContainerRequested is the queue of passenger-submitted
	// candidate entries awaiting a driver decision. Any peer may
	// insert; only the driver removes.
	ContainerRequested = "requestedItems"

	// ContainerProperties is the shared record of basket-level
	// properties.
	ContainerProperties = "basketProperties"

	// PropertyDriver is the ContainerProperties key holding the peer
	// ID of the current driver. Unset when no driver is assigned.
	PropertyDriver = "driver"
)

// Client is one peer's connected view of a shared basket: it wraps a
// store session and exposes the role-aware actions. A Client's
// mutations return explicit errors (ErrNotReady, ErrNotDriver) rather
// than silently doing nothing, so callers can distinguish "rejected"
// from "applied".
//
// A Client is driven by its Run loop (or by calling Reconcile
// manually after presence changes); it keeps no derived state of its
// own — role and driver are recomputed from the store on every use.
type Client struct {
	session *store.Session[Entry]
	logger  *slog.Logger

	// OnChange, when set before Run, is invoked from the Run loop for
	// every change notification after election maintenance has run.
	// Used by presentation layers to re-render.
	OnChange func(store.Change)
}

// NewClient wraps an existing session. Most callers use Connect
// instead; NewClient exists for tests and for transports that manage
// their own join handshake.
func NewClient(session *store.Session[Entry], logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{session: session, logger: logger}
}

// Connect verifies a room token, joins the room as the token's
// subject with the token's assigned identity, and runs the initial
// election pass (the "self ready" event). Token failures are reported
// as ErrAuthFailed — a distinct, terminal state, never to be confused
// with a still-loading room.
func Connect(ctx context.Context, room *store.Room[Entry], token string, issuer *roomtoken.Issuer, logger *slog.Logger) (*Client, error) {
	claims, err := issuer.Verify(token, room.ID())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}
	peerID, err := claims.PeerID()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}

	session, err := room.Join(ctx, store.Peer{
		ID: peerID,
		Info: store.PeerInfo{
			Name:    claims.Identity.Name,
			Color:   claims.Identity.Color,
			Picture: claims.Identity.Picture,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("joining room %s: %w", room.ID(), err)
	}

	client := NewClient(session, logger)
	if err := client.Reconcile(); err != nil {
		session.Leave()
		return nil, fmt.Errorf("initial election: %w", err)
	}
	return client, nil
}

// ready returns ErrNotReady unless the client is attached to a live
// session.
func (c *Client) ready() error {
	if c == nil || c.session == nil || !c.session.Connected() {
		return ErrNotReady
	}
	return nil
}

// batch runs a store transaction, translating a closed session into
// ErrNotReady.
func (c *Client) batch(fn func(tx *store.Tx[Entry]) error) error {
	if err := c.ready(); err != nil {
		return err
	}
	err := c.session.Batch(fn)
	if errors.Is(err, store.ErrSessionClosed) {
		return ErrNotReady
	}
	return err
}

// Run consumes the session's change notifications until ctx is done
// or the session closes. Every presence change triggers an election
// pass; afterwards OnChange (if set) is invoked so a presentation
// layer can re-render. Returns nil when the session closed cleanly
// (the peer left), or ctx.Err() on cancellation.
func (c *Client) Run(ctx context.Context) error {
	if err := c.ready(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case change, ok := <-c.session.Events():
			if !ok {
				return nil
			}
			if change.Kinds.Has(store.KindPresence) {
				if err := c.Reconcile(); err != nil && !errors.Is(err, ErrNotReady) {
					return err
				}
			}
			if c.OnChange != nil {
				c.OnChange(change)
			}
		}
	}
}

// Self returns this client's peer.
func (c *Client) Self() store.Peer {
	return c.session.Self()
}

// Others returns all other connected peers in stable join order.
func (c *Client) Others() []store.Peer {
	return c.session.Others()
}

// Driver returns the current driver's peer ID. ok is false when no
// driver is assigned (or the stored value is malformed).
func (c *Client) Driver() (ref.PeerID, bool) {
	if err := c.ready(); err != nil {
		return ref.PeerID{}, false
	}
	raw, ok := c.session.Record(ContainerProperties)[PropertyDriver]
	if !ok || raw == "" {
		return ref.PeerID{}, false
	}
	id, err := ref.ParsePeerID(raw)
	if err != nil {
		return ref.PeerID{}, false
	}
	return id, true
}

// IsDriver reports whether this peer currently owns the basket.
func (c *Client) IsDriver() bool {
	driver, ok := c.Driver()
	return ok && driver == c.session.Self().ID
}

// Basket returns the authoritative basket entries.
func (c *Client) Basket() []Entry {
	if err := c.ready(); err != nil {
		return nil
	}
	return c.session.List(ContainerBasket)
}

// Requested returns the pending request-queue entries.
func (c *Client) Requested() []Entry {
	if err := c.ready(); err != nil {
		return nil
	}
	return c.session.List(ContainerRequested)
}

// Total returns the basket total in cents. Pending requests never
// count toward the total.
func (c *Client) Total() int64 {
	return TotalCents(c.Basket())
}

// Leave disconnects the client from the room. Idempotent.
func (c *Client) Leave() {
	if c.session != nil {
		c.session.Leave()
	}
}

// driverOf reads the driver value from a transaction's view of the
// properties record.
func driverOf(tx *store.Tx[Entry]) (string, bool) {
	value, ok := tx.Record(ContainerProperties).Get(PropertyDriver)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// requireDriver returns ErrNotDriver unless the transaction's actor
// is the current driver. Evaluated inside the transaction so the
// check and the guarded write are atomic.
func requireDriver(tx *store.Tx[Entry]) error {
	driver, ok := driverOf(tx)
	if !ok || driver != tx.Actor().ID.String() {
		return ErrNotDriver
	}
	return nil
}
