package cmd

import (
	"github.com/spf13/viper"

	"github.com/skygazr/eclipsetrack/internal/utils"
	"github.com/skygazr/eclipsetrack/pkg/catalog"
	"github.com/skygazr/eclipsetrack/pkg/engine"
	"github.com/skygazr/eclipsetrack/pkg/visibility"
)

// buildEngine assembles the engine from the effective configuration,
// opening the snapshot store under a file lock. The returned cleanup
// releases the lock and closes the store.
func buildEngine() (*engine.Engine, func(), error) {
	dbPath, err := utils.GetAbsDBPath(viper.GetString("cache.path"))
	if err != nil {
		return nil, nil, err
	}

	lock, err := utils.NewDBLock(dbPath)
	if err != nil {
		return nil, nil, err
	}
	if err := lock.Lock(); err != nil {
		return nil, nil, err
	}

	store, err := catalog.OpenStore(dbPath)
	if err != nil {
		// Persistence is an extra tier, not a requirement; run with the
		// in-memory cache only.
		utils.Log.Warn("Could not open the snapshot store, continuing without persistence: ", err)
		store = nil
	}

	eng := engine.New(engine.Config{
		Observer: engine.Observer{
			Latitude:  viper.GetFloat64("observer.latitude"),
			Longitude: viper.GetFloat64("observer.longitude"),
			Region:    visibility.NormalizeRegion(viper.GetString("observer.region")),
		},
		Store:      store,
		EventCount: viper.GetInt("events.count"),
	})

	cleanup := func() {
		if store != nil {
			if err := store.Close(); err != nil {
				utils.Log.Warn("Could not close the snapshot store: ", err)
			}
		}
		if err := lock.Unlock(); err != nil {
			utils.Log.Warn("Could not release the database lock: ", err)
		}
	}
	return eng, cleanup, nil
}
