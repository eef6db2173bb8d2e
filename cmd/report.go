package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jekabolt/woometrics/app"
	"github.com/jekabolt/woometrics/config"
	"github.com/jekabolt/woometrics/internal/entity"
	"github.com/jekabolt/woometrics/internal/report"
	"github.com/jekabolt/woometrics/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	reportCmd = &cobra.Command{
		Use:   "report",
		Short: "Print metrics and CAC for a date range",
		RunE:  runReport,
	}

	reportFrom        string
	reportTo          string
	reportGranularity string
	reportJSON        bool
	reportFixedCost   float64
)

func init() {
	reportCmd.Flags().StringVar(&reportFrom, "from", "", "first day, YYYY-MM-DD (default: 30 days ago)")
	reportCmd.Flags().StringVar(&reportTo, "to", "", "last day, YYYY-MM-DD (default: today)")
	reportCmd.Flags().StringVar(&reportGranularity, "granularity", "day", "bucket size: day, week or month")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "print the full report as JSON")
	reportCmd.Flags().Float64Var(&reportFixedCost, "fixed-cost", 0, "fixed acquisition cost per order (default from config)")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("cannot load a config %v", err.Error())
	}
	log.Setup(cfg.Logger)
	ctx := context.Background()

	a := app.New(cfg)
	if err := a.Init(ctx); err != nil {
		return err
	}
	defer a.Close()
	a.Configure(ctx)

	loc, err := cfg.Store.Location()
	if err != nil {
		return err
	}
	period, err := reportPeriod(reportFrom, reportTo, time.Now().In(loc), loc)
	if err != nil {
		return err
	}

	req := report.Request{
		Period:      period,
		Granularity: entity.ParseGranularity(reportGranularity),
		Compare:     true,
		TopProducts: 5,
	}
	if cmd.Flags().Changed("fixed-cost") {
		req.FixedCost = &reportFixedCost
	}
	rep, err := a.Service().Build(ctx, req)
	if err != nil {
		return err
	}

	if reportJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	printReport(cmd.OutOrStdout(), message.NewPrinter(language.English), rep)
	return nil
}

func reportPeriod(from, to string, now time.Time, loc *time.Location) (entity.TimeRange, error) {
	const layout = "2006-01-02"
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	start := end.AddDate(0, 0, -29)
	var err error
	if from != "" {
		if start, err = time.ParseInLocation(layout, from, loc); err != nil {
			return entity.TimeRange{}, fmt.Errorf("bad --from %q: %v", from, err)
		}
	}
	if to != "" {
		if end, err = time.ParseInLocation(layout, to, loc); err != nil {
			return entity.TimeRange{}, fmt.Errorf("bad --to %q: %v", to, err)
		}
	}
	if end.Before(start) {
		return entity.TimeRange{}, fmt.Errorf("--to %s is before --from %s", end.Format(layout), start.Format(layout))
	}
	return entity.TimeRange{From: start, To: end}, nil
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func printReport(w io.Writer, p *message.Printer, rep *report.Report) {
	m := rep.Metrics
	p.Fprintf(w, "Period %s to %s (run %s)\n", rep.Period.From.Format("2006-01-02"), rep.Period.To.Format("2006-01-02"), rep.RunID)
	if rep.Empty {
		p.Fprintf(w, "No orders in this period.\n")
		return
	}
	p.Fprintf(w, "Orders:               %d\n", m.OrderCount)
	p.Fprintf(w, "Revenue incl. VAT:    %.2f\n", money(m.RevenueInclVAT))
	p.Fprintf(w, "Revenue excl. VAT:    %.2f\n", money(m.RevenueExclVAT))
	p.Fprintf(w, "VAT:                  %.2f\n", money(m.TaxTotal))
	p.Fprintf(w, "Shipping:             %.2f (VAT %.2f)\n", money(m.ShippingTotal), money(m.ShippingTax))
	p.Fprintf(w, "COGS:                 %.2f\n", money(m.COGS))
	p.Fprintf(w, "Profit:               %.2f (margin %.2f%%)\n", money(m.Profit), money(m.Margin))
	p.Fprintf(w, "Average per %-9s %.2f\n", m.Granularity+":", money(m.AverageRevenue))
	if c := rep.Comparison; c != nil && c.RevenueInclVAT.ChangePct != nil {
		p.Fprintf(w, "Revenue vs previous:  %+.1f%%\n", *c.RevenueInclVAT.ChangePct)
	}
	if len(rep.FailedPages) > 0 {
		p.Fprintf(w, "Failed order pages:   %v\n", rep.FailedPages)
	}

	c := rep.CAC
	source := "fixed cost per order"
	if c.UsingExternalData {
		source = c.AdSpendSource
	}
	p.Fprintf(w, "\nCustomers:            %d new, %d repeat\n", c.NewCustomers, c.RepeatCustomers)
	p.Fprintf(w, "Ad spend (%s): %.2f\n", source, money(c.AdSpend))
	if c.AdSpendReason != "" {
		p.Fprintf(w, "  fallback reason:    %s\n", c.AdSpendReason)
	}
	p.Fprintf(w, "CAC:                  %.2f\n", money(c.CAC))
	p.Fprintf(w, "LTV:                  %.2f\n", money(c.LTV))
	p.Fprintf(w, "ROI:                  %.2f%%\n", money(c.ROI))

	if len(rep.TopProducts) > 0 {
		p.Fprintf(w, "\nTop products:\n")
		for _, tp := range rep.TopProducts {
			p.Fprintf(w, "  %-32s %5d sold  %10.2f  stock %d\n", tp.Name, tp.Quantity, money(tp.Revenue), tp.StockQuantity)
		}
	}
}
