/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/votesecure/platform/config"
	"github.com/votesecure/platform/internal/server"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Starts the VoteSecure backend server",
	Long: `Starts the VoteSecure backend server. Usage:

	votesecure server
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.LoadConfig()

		srv, err := server.New(cmd.Context(), cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start server: %v\n", err)
			os.Exit(1)
		}
		if err := srv.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
