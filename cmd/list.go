package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"verdandi/internal/schedule"
	"verdandi/internal/tz"
)

var listDate string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List a day's schedule and exit",
	Long: `List the appointments and blocks of one day in a simple text format
and exit, without starting the interactive grid.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listDate, "date", "", "Day to list (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	if cfg == nil {
		initConfig()
	}
	client := backendClient()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cal, err := client.FetchCalendar(ctx)
	if err != nil {
		return err
	}
	loc, _ := tz.Load(cal.TimeZone)

	day := time.Now().UTC()
	if listDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", listDate, loc)
		if err != nil {
			return fmt.Errorf("invalid --date %q: %w", listDate, err)
		}
		day = parsed.UTC()
	}
	rng := schedule.RangeFor(schedule.ViewDay, day, loc, cfg.WeekStartDay())

	blocks, err := client.FetchBlocks(ctx, rng.From, rng.To)
	if err != nil {
		return err
	}

	var appointments, blockEvents []schedule.Event
	for _, a := range cal.Appointments {
		if ev, err := a.Event(); err == nil {
			appointments = append(appointments, ev)
		}
	}
	for _, b := range blocks {
		if ev, err := b.Event(); err == nil {
			blockEvents = append(blockEvents, ev)
		}
	}
	events := schedule.MergeSorted(appointments, blockEvents)

	p := tz.PartsOf(rng.From, loc)
	zone := cal.TimeZone
	if zone == "" {
		zone = "UTC"
	}
	fmt.Printf("Schedule for %04d-%02d-%02d (%s):\n", p.Year, p.Month, p.Day, zone)

	placements := schedule.LayoutDay(rng.From, events, loc)
	if len(placements) == 0 {
		fmt.Println("Nothing scheduled.")
		return nil
	}

	for _, pl := range placements {
		ev := pl.Event
		label := ev.Title
		if ev.ClientName != "" {
			label = ev.ClientName + ": " + label
		}
		suffix := ""
		if ev.Kind == schedule.KindBlock {
			suffix = " [block]"
		} else if ev.Status != "" {
			suffix = fmt.Sprintf(" (%s)", ev.Status)
		}

		start := pl.TopMinutes
		end := pl.TopMinutes + pl.HeightMinutes
		fmt.Printf("  %02d:%02d-%02d:%02d  %s%s\n",
			start/60, start%60, (end/60)%24, end%60, label, suffix)
	}
	return nil
}
