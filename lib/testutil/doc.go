// Copyright 2026 The Livebasket Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides small helpers shared by tests: bounded
// channel receives that fail instead of hanging, and unique ID
// generation for test fixtures.
//
// This package is imported only from _test.go files.
package testutil
