package main

import (
	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/vastra/internal/server"
)

// vastra serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start()
	},
}
