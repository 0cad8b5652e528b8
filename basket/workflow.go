// Copyright 2026 The Livebasket Authors
// SPDX-License-Identifier: Apache-2.0

package basket

import (
	"github.com/ctnicholas/livebasket/lib/ref"
	"github.com/ctnicholas/livebasket/store"
)

// Add puts quantity units of product into the basket. The driver
// writes directly to the basket; a passenger's add lands in the
// request queue instead, flagged as requested, where it waits for the
// driver's decision. Quantities below one are ignored.
func (c *Client) Add(product Product, quantity int) error {
	return c.batch(func(tx *store.Tx[Entry]) error {
		entry := Entry{Product: product, Quantity: quantity}
		if err := requireDriver(tx); err != nil {
			entry.Requested = true
			addOrMerge(tx.List(ContainerRequested), entry)
			c.logger.Debug("item requested",
				"product", product.ID,
				"quantity", quantity,
				"by", tx.Actor().ID)
			return nil
		}
		addOrMerge(tx.List(ContainerBasket), entry)
		return nil
	})
}

// Remove deletes the product with the given ID from the basket.
// Driver only. Removing an absent product is a harmless no-op: the
// entry was already gone, which is the state the caller wanted.
func (c *Client) Remove(productID int64) error {
	return c.batch(func(tx *store.Tx[Entry]) error {
		if err := requireDriver(tx); err != nil {
			return err
		}
		removeByID(tx.List(ContainerBasket), productID)
		return nil
	})
}

// Empty clears the basket. Driver only. Pending requests are left
// untouched.
func (c *Client) Empty() error {
	return c.batch(func(tx *store.Tx[Entry]) error {
		if err := requireDriver(tx); err != nil {
			return err
		}
		tx.List(ContainerBasket).Clear()
		return nil
	})
}

// Accept approves a pending request: the entry moves from the request
// queue into the basket (merging with an existing basket entry for
// the same product) in a single atomic step, so no observer ever sees
// the item in both places or in neither. Driver only. If the request
// is no longer in the queue the accept quietly does nothing.
func (c *Client) Accept(productID int64) error {
	return c.batch(func(tx *store.Tx[Entry]) error {
		if err := requireDriver(tx); err != nil {
			return err
		}
		requested := tx.List(ContainerRequested)
		index := findByID(requested, productID)
		if index < 0 {
			return nil
		}
		entry, _ := requested.Get(index)
		requested.Delete(index)
		entry.Requested = false
		addOrMerge(tx.List(ContainerBasket), entry)
		c.logger.Debug("request accepted", "product", productID)
		return nil
	})
}

// Reject discards a pending request. Driver only. Rejecting a request
// that has already disappeared is a no-op.
func (c *Client) Reject(productID int64) error {
	return c.batch(func(tx *store.Tx[Entry]) error {
		if err := requireDriver(tx); err != nil {
			return err
		}
		removeByID(tx.List(ContainerRequested), productID)
		c.logger.Debug("request rejected", "product", productID)
		return nil
	})
}

// Handoff transfers the driver seat to another connected peer.
// Driver only. The target must be in the current roster (or the
// driver itself, a no-op); naming a departed or unknown peer returns
// ErrUnknownPeer rather than stranding the basket with an absent
// driver.
func (c *Client) Handoff(to ref.PeerID) error {
	return c.batch(func(tx *store.Tx[Entry]) error {
		if err := requireDriver(tx); err != nil {
			return err
		}
		if to != tx.Actor().ID {
			found := false
			for _, peer := range tx.Others() {
				if peer.ID == to {
					found = true
					break
				}
			}
			if !found {
				return ErrUnknownPeer
			}
		}
		tx.Record(ContainerProperties).Set(PropertyDriver, to.String())
		c.logger.Debug("driver handoff", "from", tx.Actor().ID, "to", to)
		return nil
	})
}
