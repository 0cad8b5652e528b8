// Copyright 2026 The Livebasket Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts time for deterministic testing.
//
// Key exports:
//
//   - [Clock] -- the interface production code accepts
//   - [Real] -- time-package-backed implementation
//   - [Fake] -- test implementation with explicit Advance
//
// This package depends on no other livebasket packages.
package clock
