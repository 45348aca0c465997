package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"provchain/logx"
)

var rootCmd = &cobra.Command{
	Use:   "provchain",
	Short: "provchain permissioned record chain CLI",
	Long:  "Command line interface for running and auditing a provchain node.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logx.Error("CMD", "Command execution failed:", err)
		os.Exit(1)
	}
}
