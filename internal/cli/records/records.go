package records

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/pomolit/internal/aggregator"
	"github.com/julianstephens/pomolit/internal/cli"
	"github.com/julianstephens/pomolit/internal/constants"
	"github.com/julianstephens/pomolit/internal/models"
)

type RecordListCmd struct {
	From string `help:"First day to include (YYYY-MM-DD, 'today' or 'yesterday')."`
	To   string `help:"Last day to include (YYYY-MM-DD, 'today' or 'yesterday')."`
}

func (c *RecordListCmd) Run(ctx *cli.Context) error {
	agg, err := ctx.NewAggregator()
	if err != nil {
		return err
	}
	records := agg.AllRecords()

	if c.From != "" || c.To != "" {
		lower, upper, err := c.bounds(ctx)
		if err != nil {
			return err
		}
		records = aggregator.InRange(records, lower, upper)
	}

	if len(records) == 0 {
		fmt.Println("No records found")
		return nil
	}

	fmt.Println("Records:")
	for _, r := range records {
		mark := " "
		if r.IsDailyTargetMet() {
			mark = "✓"
		}
		fmt.Printf("  %s %s  %d/%d sessions\n", mark, r.Day(), r.SessionsCompleted, r.DailyTarget)
	}
	fmt.Printf("\nTotal: %d sessions over %d day(s)\n", aggregator.Sum(records), len(records))
	return nil
}

// bounds turns the inclusive --from/--to flags into a [lower, upper) range
func (c *RecordListCmd) bounds(ctx *cli.Context) (lower, upper time.Time, err error) {
	now := ctx.Now()
	if c.From != "" {
		if lower, err = cli.ParseDate(c.From, now); err != nil {
			return lower, upper, err
		}
	}
	upper = models.NextDay(now)
	if c.To != "" {
		to, err := cli.ParseDate(c.To, now)
		if err != nil {
			return lower, upper, err
		}
		upper = models.NextDay(to)
	}
	if !lower.IsZero() && !lower.Before(upper) {
		return lower, upper, fmt.Errorf("--from must not be after --to")
	}
	return lower, upper, nil
}

type RecordShowCmd struct {
	Date string `arg:"" optional:"" help:"Day to show (YYYY-MM-DD, 'today' or 'yesterday')." default:"today"`
}

func (c *RecordShowCmd) Run(ctx *cli.Context) error {
	date, err := cli.ParseDate(c.Date, ctx.Now())
	if err != nil {
		return err
	}
	agg, err := ctx.NewAggregator()
	if err != nil {
		return err
	}

	r := agg.RecordForDate(date)
	fmt.Printf("%s\n", r.Day())
	fmt.Printf("  Sessions:     %d\n", r.SessionsCompleted)
	fmt.Printf("  Daily target: %d\n", r.DailyTarget)
	fmt.Printf("  Target met:   %v\n", r.IsDailyTargetMet())
	if r.ID == "" {
		fmt.Println("  (no sessions recorded)")
	}
	return nil
}

// RecordLogCmd counts a work session finished away from the timer
type RecordLogCmd struct{}

func (c *RecordLogCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	coord, err := ctx.NewCoordinator(bg)
	if err != nil {
		return err
	}
	defer coord.Shutdown(bg)

	if err := coord.OnWorkSessionCompleted(bg); err != nil {
		return err
	}
	rec, _, err := ctx.Store.GetRecordByDate(ctx.Now())
	if err != nil {
		return fmt.Errorf("failed to read today's record: %w", err)
	}
	fmt.Printf("✓ Logged session: %d/%d today\n", rec.SessionsCompleted, rec.DailyTarget)
	return nil
}

type RecordDeleteCmd struct {
	Date string `arg:"" help:"Day whose record to delete (YYYY-MM-DD, 'today' or 'yesterday')."`
}

func (c *RecordDeleteCmd) Run(ctx *cli.Context) error {
	date, err := cli.ParseDate(c.Date, ctx.Now())
	if err != nil {
		return err
	}

	rec, found, err := ctx.Store.GetRecordByDate(date)
	if err != nil {
		return fmt.Errorf("failed to find record: %w", err)
	}
	if !found {
		return fmt.Errorf("no record found for date: %s", models.DayKey(date))
	}

	if err := ctx.Store.DeleteRecord(rec); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	fmt.Printf("Deleted record: %s (%d sessions)\n", rec.Day(), rec.SessionsCompleted)
	return nil
}

type RecordClearCmd struct {
	Yes bool `short:"y" help:"Confirm deleting every record."`
}

func (c *RecordClearCmd) Run(ctx *cli.Context) error {
	if !c.Yes {
		return fmt.Errorf("refusing to delete all records without --yes")
	}
	if err := ctx.Store.DeleteAllRecords(); err != nil {
		return fmt.Errorf("failed to delete records: %w", err)
	}
	fmt.Println("Deleted all records")
	return nil
}

type StatsCmd struct {
	Date string `help:"Report as of this day (YYYY-MM-DD, 'today' or 'yesterday')." default:"today"`
	JSON bool   `help:"Print the summary as JSON." name:"json"`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	asOf, err := cli.ParseDate(c.Date, ctx.Now())
	if err != nil {
		return err
	}
	agg, err := ctx.NewAggregator()
	if err != nil {
		return err
	}
	summary := agg.Summary(asOf)

	if c.JSON {
		out, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Println(renderSummary(summary))
	if summary.DaysTracked == 0 {
		fmt.Printf("\nNo sessions recorded yet. Start one with '%s'.\n", constants.AppName)
	}
	return nil
}
