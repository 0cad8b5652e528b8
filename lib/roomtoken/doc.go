// Copyright 2026 The Livebasket Authors
// SPDX-License-Identifier: Apache-2.0

// Package roomtoken implements the authentication collaborator: given
// a stable client-local user ID and a room ID, it mints a signed token
// authorizing that user to join that room. Verification failures are
// distinct sentinel errors so callers can surface a connection error
// instead of an indefinite loading state.
//
// Tokens are HS256 JWTs. The claims carry the room the token is
// scoped to and the display identity (name, color, avatar) assigned
// at issuance — identity is picked randomly per token, the same way
// the demo's auth endpoint has always assigned it.
package roomtoken
