package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skygazr/eclipsetrack/internal/utils"
	"github.com/skygazr/eclipsetrack/pkg/catalog"
)

// eventsCmd prints the full upcoming-eclipse catalog.
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Fetch and print the upcoming solar eclipse catalog",
	Run: func(cmd *cobra.Command, args []string) {
		eng, cleanup, err := buildEngine()
		if err != nil {
			utils.Log.Fatal(err)
		}
		defer cleanup()

		events := eng.Refresh(context.Background())
		for _, e := range events {
			line := fmt.Sprintf("%s  %-7s  %s UTC", e.Identifier, e.Type, e.Date.Format("15:04"))
			if e.RegionText != "" {
				line += "  (" + e.RegionText + ")"
			}
			fmt.Println(line)
		}

		fmt.Printf("\n%d events, data tier: %s\n", len(events), eng.Status())
		fmt.Println(catalog.Attribution)
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}
