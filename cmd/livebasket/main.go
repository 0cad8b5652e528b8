// Copyright 2026 The Livebasket Authors
// SPDX-License-Identifier: Apache-2.0

// livebasket demonstrates and operates shared shopping baskets.
//
// Usage:
//
//	livebasket demo [flags]
//	livebasket token [flags]
//	livebasket catalog [flags]
//	livebasket version
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ctnicholas/livebasket/lib/config"
	"github.com/ctnicholas/livebasket/lib/version"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "demo":
		err = demoCmd(args)
	case "token":
		err = tokenCmd(args)
	case "catalog":
		err = catalogCmd(args)
	case "version", "--version", "-v":
		fmt.Printf("livebasket %s\n", version.Info())
		return
	case "help", "--help", "-h":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig resolves configuration for a command: an explicit
// --config path wins, then LIVEBASKET_CONFIG, then built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	if os.Getenv("LIVEBASKET_CONFIG") != "" {
		return config.Load()
	}
	return config.Default(), nil
}

// buildLogger constructs the command logger from the loaded config's
// log level. LIVEBASKET_DEBUG forces debug regardless of config.
func buildLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	if os.Getenv("LIVEBASKET_DEBUG") != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})), nil
}

func printUsage() {
	fmt.Print(`livebasket - Shared shopping baskets with driver election

USAGE
    livebasket <command> [flags]

COMMANDS
    demo     Run a scripted multi-peer basket session
    token    Issue a room access token
    catalog  List the product catalog
    version  Show version

EXAMPLES
    # Run the demo against the embedded sock catalog
    livebasket demo

    # Issue a token for a new room
    livebasket token --secret swordfish

    # Issue a token for an existing room and peer
    livebasket token --secret swordfish --room deadbeefdeadbeefdeadb --peer k3f9x2ab

ENVIRONMENT
    LIVEBASKET_CONFIG  Path to the livebasket.yaml config file
    LIVEBASKET_DEBUG   Enable debug logging
`)
}
