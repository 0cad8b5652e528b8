// Copyright 2026 The Livebasket Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for livebasket
// commands.
//
// Configuration is loaded from a single YAML file specified by:
//   - LIVEBASKET_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks or automatic discovery. The config file is
// the single source of truth; environment variables never override
// values inside it.
package config
