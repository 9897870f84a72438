// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHelloCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "hello <name>",
		Short:   "Ask the daemon for a greeting",
		GroupID: "client",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			greeting, err := c.client().SayHello(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if c.jsonOutput {
				return printJSON(cmd.OutOrStdout(), map[string]string{"greeting": greeting})
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), greeting)
			return err
		},
	}
}

func newPrefixCmd(c *cli) *cobra.Command {
	prefixCmd := &cobra.Command{
		Use:     "prefix",
		Short:   "Show or change the greeting prefix",
		GroupID: "client",
	}

	prefixCmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show the current prefix",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.client().GetConfig(cmd.Context())
			if err != nil {
				return err
			}
			return printConfig(cmd.OutOrStdout(), cfg, c.jsonOutput)
		},
	})

	prefixCmd.AddCommand(&cobra.Command{
		Use:   "set <prefix>",
		Short: "Replace the prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.client().SetPrefix(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printConfig(cmd.OutOrStdout(), cfg, c.jsonOutput)
		},
	})

	prefixCmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Restore the default prefix",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.client().ResetPrefix(cmd.Context())
			if err != nil {
				return err
			}
			return printConfig(cmd.OutOrStdout(), cfg, c.jsonOutput)
		},
	})

	return prefixCmd
}

func newReloadCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "reload",
		Short:   "Reload the prefix from the daemon's config file",
		GroupID: "client",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.client().Reload(cmd.Context())
			if err != nil {
				return err
			}
			return printConfig(cmd.OutOrStdout(), cfg, c.jsonOutput)
		},
	}
}
