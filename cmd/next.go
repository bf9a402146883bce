package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skygazr/eclipsetrack/internal/utils"
)

// nextCmd refreshes the catalog and prints the next eclipses visible
// from the configured observer, with local circumstances where an
// ephemeris is available.
var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the next eclipses visible from your location",
	Run: func(cmd *cobra.Command, args []string) {
		eng, cleanup, err := buildEngine()
		if err != nil {
			utils.Log.Fatal(err)
		}
		defer cleanup()

		ctx := context.Background()
		events := eng.Refresh(ctx)
		visible := eng.SelectVisible(ctx, events)

		if len(visible) == 0 {
			fmt.Println("No visible eclipses found.")
			return
		}

		obs := eng.Observer()
		for _, e := range visible {
			fmt.Printf("%s  %-7s", e.Identifier, e.Type)
			if local, ok := eng.LocalMaximum(e.Date, obs.Latitude, obs.Longitude); ok {
				fmt.Printf("  max %s UTC (%.1f%%)", local.Time.Format("15:04"), local.Coverage)
				if window, ok := eng.ContactTimes(e.Date, obs.Latitude, obs.Longitude); ok {
					fmt.Printf("  partial %s-%s (%d min)",
						window.Start.Format("15:04"), window.End.Format("15:04"), window.DurationMinutes())
				}
			} else {
				fmt.Printf("  around %s UTC", e.Date.Format("15:04"))
			}
			fmt.Println()
		}

		if days, ok := eng.DaysUntilNext(events); ok {
			fmt.Printf("\nNext eclipse in %d days. Data tier: %s\n", days, eng.Status())
		}
	},
}

func init() {
	rootCmd.AddCommand(nextCmd)
}
