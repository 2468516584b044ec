package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mailer",
	Short: "Mail relay microservice",
	Long:  "A mail relay microservice that accepts email-send requests over HTTP and delivers them through an upstream provider, one send at a time.",
}

// Execute runs the root Cobra command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
