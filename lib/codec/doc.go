// Copyright 2026 The Livebasket Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides livebasket's standard CBOR encoding: Core
// Deterministic Encoding on the way out, permissive decoding on the
// way in. Room snapshots are encoded through this package so exports
// of identical state are byte-identical regardless of which peer
// produced them.
//
// Consumers import only this package, never fxamacker/cbor directly.
package codec
