package main

import (
	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "imsphone",
	Short: "imsphone drives a SIP REGISTER probe against an IMS core",
	Long: `imsphone is a thin exercise of the library's core: it opens a
transport channel, sends a REGISTER, and answers a 401 AKAv1-MD5
challenge using the account's SIM credentials.`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once by main.main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "imsphone.yaml", "config file path")
	rootCmd.AddCommand(registerCmd)
}
