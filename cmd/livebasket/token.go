// Copyright 2026 The Livebasket Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/ctnicholas/livebasket/lib/ref"
	"github.com/ctnicholas/livebasket/lib/roomtoken"
)

// tokenCmd mints a room access token. Room and peer IDs are generated
// when not supplied, so a bare invocation bootstraps a fresh room.
func tokenCmd(args []string) error {
	flagSet := pflag.NewFlagSet("token", pflag.ContinueOnError)
	configPath := flagSet.String("config", "", "path to config file")
	secret := flagSet.String("secret", "", "signing secret (overrides config)")
	roomFlag := flagSet.String("room", "", "room ID (default: generate a new room)")
	peerFlag := flagSet.String("peer", "", "peer ID (default: generate a new peer)")
	ttl := flagSet.Duration("ttl", 0, "token lifetime (default: config value)")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *secret == "" {
		*secret = cfg.Auth.Secret
	}
	if *secret == "" {
		return fmt.Errorf("no signing secret: pass --secret or set auth.secret in the config")
	}
	if *ttl == 0 {
		*ttl = time.Duration(cfg.Auth.TokenTTL)
	}

	room, err := resolveRoom(*roomFlag)
	if err != nil {
		return err
	}
	peer, err := resolvePeer(*peerFlag)
	if err != nil {
		return err
	}

	issuer, err := roomtoken.NewIssuer([]byte(*secret), *ttl, nil)
	if err != nil {
		return err
	}
	token, err := issuer.Issue(peer, room)
	if err != nil {
		return err
	}

	fmt.Printf("room:  %s\n", room)
	fmt.Printf("peer:  %s\n", peer)
	fmt.Printf("token: %s\n", token)
	return nil
}

func resolveRoom(raw string) (ref.RoomID, error) {
	if raw == "" {
		return ref.NewRoomID()
	}
	return ref.ParseRoomID(raw)
}

func resolvePeer(raw string) (ref.PeerID, error) {
	if raw == "" {
		return ref.NewPeerID()
	}
	return ref.ParsePeerID(raw)
}
