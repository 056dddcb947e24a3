package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"ecommerce-dashboard/internal/config"
	"ecommerce-dashboard/internal/dataset"
	"ecommerce-dashboard/internal/services"
)

// app carries what every subcommand needs once flags are resolved.
type app struct {
	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	var (
		dataFile string
		port     int
	)
	a := &app{}

	serve := newServeCmd(a)
	root := &cobra.Command{
		Use:   "dashboard",
		Short: "E-commerce performance dashboard",
		Long: `An analytics dashboard over a cleaned e-commerce transaction dataset.
Transactions are filtered by date range and country and summarised as
metrics, trends, top customers and order-time breakdowns.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("data") {
				cfg.Data.CSVFile = dataFile
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
		RunE: serve.RunE,
	}

	root.PersistentFlags().StringVar(&dataFile, "data", "", "cleaned transactions CSV (overrides DATA_FILE)")
	root.PersistentFlags().IntVar(&port, "port", 0, "HTTP port (overrides SERVER_PORT)")

	root.AddCommand(serve, newReportCmd(a))
	return root
}

// loadAnalytics reads the dataset once and builds the pipeline over it.
func loadAnalytics(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*services.Analytics, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Data.LoadTimeout)
	defer cancel()

	opts := []dataset.Option{dataset.WithLogger(logger)}
	if cfg.Data.CacheDir != "" {
		opts = append(opts, dataset.WithCacheDir(cfg.Data.CacheDir))
	}

	start := time.Now()
	table, err := dataset.NewLoader(cfg.Data.CSVFile, opts...).Load(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("CSV data loaded successfully",
		"rows", table.Len(),
		"duration", time.Since(start),
	)

	return services.NewAnalytics(table,
		services.WithLogger(logger),
		services.WithTopN(cfg.Dashboard.TopN),
		services.WithPreviewRows(cfg.Dashboard.PreviewRows),
	), nil
}
