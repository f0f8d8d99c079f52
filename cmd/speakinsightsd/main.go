package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/speakinsights/speakinsights/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "speakinsightsd",
		Short: "SpeakInsights daemon",
		Long:  "SpeakInsights daemon for serving the meeting API and running the post-meeting processing pipeline",
	}

	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.ProcessCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
