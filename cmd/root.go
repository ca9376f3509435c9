// Package cmd defines the command-line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "aftervisit",
	Short: "Aftervisit - answer patient questions about past clinical encounters",
	Long: `Aftervisit keeps a searchable, embedded corpus of intake forms and
clinical session records, and answers patient questions about a past
encounter grounded strictly in that encounter's context.

Run "aftervisit serve" to start the HTTP API and indexing pipeline.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
