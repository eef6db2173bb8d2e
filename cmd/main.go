package main

import (
	"fmt"
	"log/slog"
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "woometrics",
		Short: "WooCommerce revenue, VAT and customer acquisition metrics",
		RunE:  run,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the metrics API",
		RunE:  run,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the woometrics version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}

	cfgFile string
	version string
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to configuration file (optional)")
	rootCmd.AddCommand(serveCmd, reportCmd, tokenCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		slog.Default().Error("can't run woometrics", slog.String("err", err.Error()))
		os.Exit(1)
	}
}
