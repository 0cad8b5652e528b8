// Copyright 2026 The Livebasket Authors
// SPDX-License-Identifier: Apache-2.0

package basket

import "github.com/ctnicholas/livebasket/store"

// Reconcile brings the shared driver assignment back in line with the
// current roster. It runs after every presence change and on joining:
//
//   - If this peer is already the driver, nothing happens (a driver
//     never demotes itself).
//   - If a driver is assigned and still connected, nothing happens.
//   - Otherwise the seat is empty or abandoned: the longest-connected
//     other peer is elected, or this peer claims the seat when it is
//     alone.
//
// The corrective write is made unconditionally whenever the stored
// value is wrong, even if an identical write was made on a previous
// pass. Two peers reconciling concurrently may both write; last write
// wins, and since both candidates are connected the next pass leaves
// the survivor in place. Convergence depends on that: never skip the
// write because it "already happened".
func (c *Client) Reconcile() error {
	return c.batch(func(tx *store.Tx[Entry]) error {
		self := tx.Actor().ID.String()
		current, assigned := driverOf(tx)
		if assigned && current == self {
			return nil
		}

		others := tx.Others()
		if assigned {
			for _, peer := range others {
				if peer.ID.String() == current {
					return nil
				}
			}
		}

		elected := self
		if len(others) > 0 {
			elected = others[0].ID.String()
		}
		tx.Record(ContainerProperties).Set(PropertyDriver, elected)
		c.logger.Debug("driver elected",
			"previous", current,
			"driver", elected,
			"by", self)
		return nil
	})
}
