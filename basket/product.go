// Copyright 2026 The Livebasket Authors
// SPDX-License-Identifier: Apache-2.0

package basket

import (
	"fmt"
	"strconv"
	"strings"
)

// Product is a catalog entry. Products are immutable once defined;
// basket operations copy them into entries rather than referencing
// the catalog.
//
// Prices are integer cents. Catalog files write them as decimal
// strings ("2.20"); ParsePrice and FormatPrice convert at the
// boundary so totals never accumulate float drift.
type Product struct {
	ID          int64    `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	PriceCents  int64    `json:"price_cents" yaml:"-"`
	Description string   `json:"description" yaml:"description"`
	Images      []string `json:"images" yaml:"images"`
}

// Entry is a product present in the shared basket or in the request
// queue: a product plus a quantity, and a flag marking entries that
// arrived as passenger requests. Quantity is always positive while
// the entry exists; an update that would drive it to zero or below
// removes the entry instead.
type Entry struct {
	Product
	Quantity  int  `json:"quantity"`
	Requested bool `json:"requested,omitempty"`
}

// ParsePrice converts a non-negative decimal price string ("2.20",
// "7", "0.8") to integer cents. At most two decimal places are
// accepted.
func ParsePrice(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("empty price")
	}
	if strings.HasPrefix(raw, "-") {
		return 0, fmt.Errorf("negative price %q", raw)
	}

	whole, fraction, hasFraction := strings.Cut(raw, ".")
	if whole == "" {
		whole = "0"
	}
	// ParseInt alone would accept interior signs ("2.-5"), so both
	// parts must be digit-only before parsing.
	if !allDigits(whole) {
		return 0, fmt.Errorf("invalid price %q", raw)
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", raw, err)
	}

	var cents int64
	if hasFraction {
		switch len(fraction) {
		case 1:
			fraction += "0"
		case 2:
		default:
			return 0, fmt.Errorf("price %q: expected at most two decimal places", raw)
		}
		if !allDigits(fraction) {
			return 0, fmt.Errorf("invalid price %q", raw)
		}
		cents, err = strconv.ParseInt(fraction, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid price %q: %w", raw, err)
		}
	}
	return units*100 + cents, nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FormatPrice renders integer cents as a decimal string with two
// decimal places ("2.20").
func FormatPrice(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
