package main

import (
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/newsdeck/newsdeck/aggregator"
	"github.com/newsdeck/newsdeck/feed"
	"github.com/newsdeck/newsdeck/provider"
	"github.com/newsdeck/newsdeck/server"
	"github.com/newsdeck/newsdeck/server/middlewares"
	"github.com/newsdeck/newsdeck/store"
	"github.com/newsdeck/newsdeck/utils"
	"github.com/newsdeck/newsdeck/utils/dotenv"
	Flag "github.com/newsdeck/newsdeck/utils/flag"
	Logger "github.com/newsdeck/newsdeck/utils/log"
)

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

	articleStore := store.NewArticleStore(db)
	preferenceStore := store.NewPreferenceStore(db)

	agg := aggregator.New(provider.DefaultRegistry(), articleStore)
	if cache := store.NewQueryCacheFromEnv(); cache != nil {
		agg = agg.WithCache(cache)
	}
	feedBuilder := feed.NewBuilder(preferenceStore, agg)
	handler := server.NewHandler(agg, feedBuilder, preferenceStore)

	auth := middlewares.Bypass()
	if !Flag.ByPassAuth {
		middlewares.Setup()
		auth = middlewares.JWT()
	}

	// Default comes with the Logger and Recovery middleware already attached
	router := gin.Default()
	router.Use(cors.Default())
	server.RegisterRoutes(router, handler, auth)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	Logger.Log.Info("api server starts up on port ", port)
	if err := router.Run(":" + port); err != nil && err != http.ErrServerClosed {
		Logger.Log.Fatal("api server exited: ", err)
	}
}
