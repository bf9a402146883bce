package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skygazr/eclipsetrack/internal/utils"
)

// watchCmd runs the engine continuously, refreshing the catalog once a
// day at the configured hour.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run continuously, refreshing the catalog daily",
	Run: func(cmd *cobra.Command, args []string) {
		eng, cleanup, err := buildEngine()
		if err != nil {
			utils.Log.Fatal(err)
		}
		defer cleanup()

		refresh := func() {
			ctx := context.Background()
			events := eng.Refresh(ctx)
			visible := eng.SelectVisible(ctx, events)
			utils.Log.Info("Refresh cycle done: ", len(events), " events, ", len(visible), " visible, tier ", eng.Status())
			for _, e := range visible {
				utils.Log.Info("Visible: ", e.Identifier, " (", e.Type, ")")
			}
		}

		// One immediate cycle so the process is useful before the first
		// scheduled run.
		refresh()

		hour := viper.GetInt("update.hour")
		if hour < 0 || hour > 23 {
			hour = 1
		}
		scheduler := cron.New()
		if _, err := scheduler.AddFunc(fmt.Sprintf("0 %d * * *", hour), refresh); err != nil {
			utils.Log.Fatal("Could not schedule the daily refresh: ", err)
		}
		scheduler.Start()
		utils.Log.Info("Scheduled daily refresh at ", fmt.Sprintf("%02d:00", hour))

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		utils.Log.Info("Received ", sig, ", shutting down")

		<-scheduler.Stop().Done()
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
