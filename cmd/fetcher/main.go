package main

import (
	"context"
	"time"

	"github.com/newsdeck/newsdeck/aggregator"
	"github.com/newsdeck/newsdeck/provider"
	"github.com/newsdeck/newsdeck/store"
	"github.com/newsdeck/newsdeck/utils"
	"github.com/newsdeck/newsdeck/utils/dotenv"
	Flag "github.com/newsdeck/newsdeck/utils/flag"
	Logger "github.com/newsdeck/newsdeck/utils/log"
)

// One-shot bulk fetch-and-persist, meant to run from cron. Queries every
// provider with default parameters and upserts the normalized articles.
func main() {
	Flag.ParseFlags()
	Logger.InitLogger()

	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}

	db, err := utils.GetDBConnection()
	if err != nil {
		Logger.Log.Fatal("cannot connect to database: ", err)
	}
	utils.DatabaseSetupAndMigration(db)

	agg := aggregator.New(provider.DefaultRegistry(), store.NewArticleStore(db))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	summary, err := agg.AggregateAndStore(ctx)
	if err != nil {
		Logger.Log.Fatal("bulk fetch failed: ", err)
	}
	Logger.Log.Info("bulk fetch completed, stored ", summary.Stored,
		" articles, skipped ", summary.Failed)
}
