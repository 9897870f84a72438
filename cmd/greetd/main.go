// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Command greetd runs the greeting daemon and talks to it.
package main

import (
	"os"

	"github.com/ManuGH/greetd/internal/client"
	"github.com/ManuGH/greetd/internal/version"
	"github.com/spf13/cobra"
)

// EnvURL overrides the daemon URL used by client subcommands.
const EnvURL = "GREETD_URL"

func defaultURL() string {
	if s := os.Getenv(EnvURL); s != "" {
		return s
	}
	return client.DefaultURL
}

// cli holds the state shared by subcommands of one invocation.
type cli struct {
	url        string
	jsonOutput bool
}

func (c *cli) client() *client.HTTPClient {
	return client.NewHTTPClient(c.url)
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:          "greetd <command>",
		Short:        "Greeting service with a runtime-reconfigurable prefix",
		Version:      version.String(),
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&c.url, "url", defaultURL(), "daemon base URL (env "+EnvURL+")")
	root.PersistentFlags().BoolVar(&c.jsonOutput, "json", false, "output as JSON")

	root.AddGroup(
		&cobra.Group{ID: "client", Title: "Client:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	root.AddCommand(newHelloCmd(c))
	root.AddCommand(newPrefixCmd(c))
	root.AddCommand(newReloadCmd(c))

	root.AddCommand(newServeCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
