package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"ecommerce-dashboard/internal/aggregate"
	"ecommerce-dashboard/internal/errors"
	"ecommerce-dashboard/internal/filter"
	"ecommerce-dashboard/internal/models"
	"ecommerce-dashboard/internal/observability"
)

type reportOptions struct {
	start   string
	end     string
	country string
	summary bool
}

func newReportCmd(a *app) *cobra.Command {
	var opts reportOptions

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the dashboard for one selection without starting a server",
		Long: `Load the dataset, apply the date range and country filter and print the
resulting dashboard as JSON. Without --start and --end the full date span
is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.NewLoggerTo(cmd.ErrOrStderr(), a.cfg.Logger)

			analytics, err := loadAnalytics(cmd.Context(), a.cfg, logger)
			if err != nil {
				return err
			}

			sel := analytics.DefaultSelection()
			if opts.start != "" || opts.end != "" {
				sel, err = filter.NewSelection(opts.start, opts.end, opts.country)
				if err != nil {
					return errors.FromDomain(err)
				}
			} else if opts.country != "" {
				sel.Country = opts.country
			}

			dashboard, err := analytics.Compute(cmd.Context(), sel)
			if err != nil {
				return errors.FromDomain(err)
			}

			if opts.summary {
				return writeSummary(cmd.OutOrStdout(), dashboard)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(dashboard)
		},
	}

	cmd.Flags().StringVar(&opts.start, "start", "", "first date, YYYY-MM-DD")
	cmd.Flags().StringVar(&opts.end, "end", "", "last date, YYYY-MM-DD (inclusive)")
	cmd.Flags().StringVar(&opts.country, "country", "", "country filter (default all countries)")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "print only the summary metrics")

	return cmd
}

func writeSummary(w io.Writer, d *models.Dashboard) error {
	_, err := fmt.Fprintf(w,
		"Berdasarkan data dari rentang tanggal %s hingga %s\n"+
			"Country:             %s\n"+
			"Total Customers:     %s\n"+
			"Total Orders:        %s\n"+
			"Total Products Sold: %s\n"+
			"Total Sales:         %s\n",
		d.StartDate.Format("02 Jan 2006"), d.EndDate.Format("02 Jan 2006"),
		d.Country,
		aggregate.FormatCount(d.Summary.TotalCustomers),
		aggregate.FormatCount(d.Summary.TotalOrders),
		aggregate.FormatNumber(d.Summary.TotalProductsSold, 0),
		aggregate.FormatCurrency(d.Summary.TotalSales),
	)
	return err
}
