// Copyright 2026 The Livebasket Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/ctnicholas/livebasket/basket"
)

// catalogCmd lists the product catalog.
func catalogCmd(args []string) error {
	flagSet := pflag.NewFlagSet("catalog", pflag.ContinueOnError)
	configPath := flagSet.String("config", "", "path to config file")
	catalogPath := flagSet.String("catalog", "", "path to a catalog YAML file (default: embedded)")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
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

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRICE\tNAME\tDESCRIPTION")
	for _, product := range catalog.Products() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			product.ID, basket.FormatPrice(product.PriceCents), product.Name, product.Description)
	}
	return w.Flush()
}
