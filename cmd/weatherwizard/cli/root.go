package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "weatherwizard",
	Short: "Weather aggregation backend",
	Long: `weatherwizard serves normalized current conditions, forecasts, metric heatmaps
and AI-written weather descriptions on top of OpenWeatherMap.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "optional config file (yaml, json, toml)")
	rootCmd.AddCommand(serveCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
