// Copyright 2026 The Livebasket Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/pflag"

	"github.com/ctnicholas/livebasket/basket"
	"github.com/ctnicholas/livebasket/lib/clock"
	"github.com/ctnicholas/livebasket/lib/codec"
	"github.com/ctnicholas/livebasket/lib/ref"
	"github.com/ctnicholas/livebasket/lib/roomtoken"
	"github.com/ctnicholas/livebasket/store"
)

// demoCmd runs a scripted three-peer session against an in-process
// room: direct adds by the driver, a passenger request with an accept
// and a reject, a driver handoff, and the re-election that follows
// the driver leaving.
func demoCmd(args []string) error {
	flagSet := pflag.NewFlagSet("demo", pflag.ContinueOnError)
	configPath := flagSet.String("config", "", "path to config file")
	catalogPath := flagSet.String("catalog", "", "path to a catalog YAML file (default: embedded)")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	logger, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	if *catalogPath == "" {
		*catalogPath = cfg.Catalog.File
	}

	catalog := basket.DefaultCatalog()
	if *catalogPath != "" {
		if catalog, err = basket.LoadCatalog(*catalogPath); err != nil {
			return err
		}
	}

	secret := cfg.Auth.Secret
	if secret == "" {
		// The demo room lives and dies inside this process; an
		// ephemeral secret is all it needs.
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return fmt.Errorf("generating session secret: %w", err)
		}
		secret = hex.EncodeToString(buf)
	}
	issuer, err := roomtoken.NewIssuer([]byte(secret), time.Duration(cfg.Auth.TokenTTL), nil)
	if err != nil {
		return err
	}

	roomID, err := ref.NewRoomID()
	if err != nil {
		return err
	}
	room := store.NewRoom[basket.Entry](roomID, clock.Real(), logger)
	fmt.Printf("room %s\n\n", roomID)

	ctx := context.Background()
	join := func(label string) (*basket.Client, error) {
		peer, err := ref.NewPeerID()
		if err != nil {
			return nil, err
		}
		token, err := issuer.Issue(peer, roomID)
		if err != nil {
			return nil, err
		}
		client, err := basket.Connect(ctx, room, token, issuer, logger)
		if err != nil {
			return nil, err
		}
		fmt.Printf("%s joined as %s (%s)\n", label, client.Self().Info.Name, peer)
		return client, nil
	}

	alice, err := join("alice")
	if err != nil {
		return err
	}
	defer alice.Leave()
	bob, err := join("bob")
	if err != nil {
		return err
	}
	defer bob.Leave()
	carol, err := join("carol")
	if err != nil {
		return err
	}
	defer carol.Leave()
	fmt.Println()

	printDriver := func(viewer *basket.Client) {
		driver, ok := viewer.Driver()
		if !ok {
			fmt.Println("driver: none")
			return
		}
		fmt.Printf("driver: %s\n", driver)
	}
	printDriver(alice)

	// Index into the catalog positionally so the script works with
	// any loaded catalog, not just the embedded one.
	products := catalog.Products()
	pick := func(i int) basket.Product {
		return products[i%len(products)]
	}

	// The driver fills the basket directly.
	if err := alice.Add(pick(4), 2); err != nil {
		return err
	}
	if err := alice.Add(pick(1), 1); err != nil {
		return err
	}

	// Passengers can only ask.
	if err := bob.Add(pick(2), 1); err != nil {
		return err
	}
	if err := carol.Add(pick(5), 3); err != nil {
		return err
	}
	fmt.Printf("\npending requests: %d\n", len(alice.Requested()))

	if err := alice.Accept(pick(2).ID); err != nil {
		return err
	}
	if err := alice.Reject(pick(5).ID); err != nil {
		return err
	}

	fmt.Println("\nbasket after review:")
	printBasket(alice)

	// Handoff, then the old driver's adds become requests.
	if err := alice.Handoff(bob.Self().ID); err != nil {
		return err
	}
	printDriver(alice)
	if err := alice.Add(pick(6), 1); err != nil {
		return err
	}
	fmt.Printf("alice's add queued as a request: %d pending\n", len(bob.Requested()))
	if err := bob.Accept(pick(6).ID); err != nil {
		return err
	}

	// The driver leaves; the survivors elect a replacement.
	bob.Leave()
	if err := alice.Reconcile(); err != nil {
		return err
	}
	if err := carol.Reconcile(); err != nil {
		return err
	}
	fmt.Println("\nbob left")
	printDriver(carol)

	fmt.Println("\nfinal basket:")
	printBasket(carol)

	snapshot, err := room.EncodeSnapshot()
	if err != nil {
		return err
	}
	fmt.Printf("\nsnapshot: %d bytes (version %d)\n", len(snapshot), room.Version())
	if logger.Enabled(ctx, slog.LevelDebug) {
		diag, err := codec.Diagnose(snapshot)
		if err != nil {
			return err
		}
		logger.Debug("snapshot diagnostic", "cbor", diag)
	}
	return nil
}

func printBasket(viewer *basket.Client) {
	entries := viewer.Basket()
	if len(entries) == 0 {
		fmt.Println("  (empty)")
		return
	}
	for _, entry := range entries {
		fmt.Printf("  %dx %-20s %8s\n",
			entry.Quantity, entry.Name, basket.FormatPrice(entry.PriceCents*int64(entry.Quantity)))
	}
	fmt.Printf("  total: %s\n", basket.FormatPrice(viewer.Total()))
}
