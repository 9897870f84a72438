// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ManuGH/greetd/internal/client"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printConfig(w io.Writer, cfg *client.Config, asJSON bool) error {
	if asJSON {
		return printJSON(w, cfg)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Prefix:\t%s\n", cfg.Prefix)
	fmt.Fprintf(tw, "Epoch:\t%d\n", cfg.Epoch)
	fmt.Fprintf(tw, "Source:\t%s\n", cfg.Source)
	if !cfg.UpdatedAt.IsZero() {
		fmt.Fprintf(tw, "Updated At:\t%s\n", cfg.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	if cfg.Persisted != nil {
		fmt.Fprintf(tw, "Persisted:\t%t\n", *cfg.Persisted)
	}
	return tw.Flush()
}
