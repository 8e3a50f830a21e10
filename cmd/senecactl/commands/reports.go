package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/senecapartners/seneca-cms-backend/config"
	"github.com/senecapartners/seneca-cms-backend/internal/reports"
	"github.com/senecapartners/seneca-cms-backend/internal/site"
)

// ErrBrokenLinks makes check-links exit with status 2.
var ErrBrokenLinks = errors.New("broken links found")

var (
	linkTimeout  time.Duration
	onlyBroken   bool
	summaryStart string
	summaryEnd   string
)

// checkLinksCmd runs the dead link check outside a request
var checkLinksCmd = &cobra.Command{
	Use:   "check-links",
	Short: "Check links in videos and plan descriptions",
	Long: `Check every external link stored in videos and plan descriptions, one at a time.
Exits with status 2 when broken links are found.

Examples:
  senecactl check-links
  senecactl check-links --broken --timeout 10s --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheckLinks(cmd.Context())
	},
}

// summaryCmd prints the lead funnel summary
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the lead funnel summary",
	Long: `Show lead totals, conversion rate and average processing time.

Examples:
  senecactl summary --start 2024-01-01 --end 2024-03-31`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSummary(cmd.Context())
	},
}

func init() {
	checkLinksCmd.Flags().DurationVar(&linkTimeout, "timeout", 0, "Per-link timeout (defaults to LINK_CHECK_TIMEOUT_SECONDS)")
	checkLinksCmd.Flags().BoolVar(&onlyBroken, "broken", false, "Print broken links only")
	summaryCmd.Flags().StringVar(&summaryStart, "start", "", "Start date YYYY-MM-DD, inclusive")
	summaryCmd.Flags().StringVar(&summaryEnd, "end", "", "End date YYYY-MM-DD, inclusive")
	rootCmd.AddCommand(checkLinksCmd, summaryCmd)
}

func reportsService(ctx context.Context, cfg *config.Config, db *gorm.DB, timeout time.Duration) (*reports.Service, uint, error) {
	sid := siteID
	if sid == 0 {
		sites, err := site.NewService(ctx, site.NewRepository(db), cfg.DefaultSiteDomain, cfg.DefaultSiteName)
		if err != nil {
			return nil, 0, err
		}
		sid = sites.Default().ID
	}
	if timeout <= 0 {
		timeout = time.Duration(cfg.LinkCheckTimeoutSeconds) * time.Second
	}
	return reports.NewService(reports.NewRepository(db), reports.NewLinkChecker(timeout)), sid, nil
}

func runCheckLinks(ctx context.Context) error {
	cfg, db, err := connect()
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	svc, sid, err := reportsService(ctx, cfg, db, linkTimeout)
	if err != nil {
		return err
	}

	report, err := svc.DeadLinks(ctx, sid)
	if err != nil {
		return err
	}

	return writeLinkReport(os.Stdout, report, onlyBroken, jsonOutput)
}

// writeLinkReport prints the results and returns ErrBrokenLinks when any
// link failed, so the process can exit with status 2.
func writeLinkReport(out io.Writer, report *reports.DeadLinkReport, brokenOnly, asJSON bool) error {
	results := report.AllChecked
	if brokenOnly {
		results = report.Broken
	}
	if asJSON {
		if err := writeJSON(out, results); err != nil {
			return err
		}
	} else {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "STATUS\tSOURCE\tURL")
		for _, r := range results {
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.Status, r.Source, r.URL)
		}
		w.Flush()
		fmt.Fprintf(out, "\n%d checked, %d broken\n", len(report.AllChecked), len(report.Broken))
	}

	if len(report.Broken) > 0 {
		return fmt.Errorf("%w: %d of %d", ErrBrokenLinks, len(report.Broken), len(report.AllChecked))
	}
	return nil
}

func runSummary(ctx context.Context) error {
	dr, err := reports.ParseDateRange(summaryStart, summaryEnd, time.Local)
	if err != nil {
		return err
	}
	cfg, db, err := connect()
	if err != nil {
		return err
	}
	svc, sid, err := reportsService(ctx, cfg, db, 0)
	if err != nil {
		return err
	}

	s, err := svc.Summary(ctx, sid, dr)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(s)
	}

	fmt.Printf("Total applications:  %d\n", s.TotalApplications)
	fmt.Printf("Closed applications: %d\n", s.ClosedApplications)
	fmt.Printf("Conversion rate:     %.2f%%\n", s.ConversionRate)
	if p := s.AvgProcessing; p.Days != nil {
		fmt.Printf("Avg processing:      %dd %dh %dm %ds\n", *p.Days, *p.Hours, *p.Minutes, *p.Seconds)
	} else {
		fmt.Println("Avg processing:      n/a")
	}
	return nil
}
