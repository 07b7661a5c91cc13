package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Set at build time via -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "none"
)

var rootCmd = &cobra.Command{
	Use:   "minecraft-status-bot",
	Short: "Publish Minecraft server status to Discord",
	Long: `minecraft-status-bot polls Minecraft Java servers through the mcstatus.io API
and keeps one status embed per server up to date in a Discord channel,
optionally with a player-count history chart.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "minecraft-status-bot %s (commit %s)\n", version, commit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "path to config file (default $CONFIG_PATH or "+defaultConfigPath+")")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
