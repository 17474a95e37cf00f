package main

import (
	"github.com/planwise/planwise/config"
	"github.com/planwise/planwise/routes"
	"github.com/planwise/planwise/store"
	"github.com/planwise/planwise/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	db := config.InitDatabase(store.Models()...)
	utils.InitRedis(cfg)

	r := routes.SetupRouter(cfg, store.New(db))

	utils.Sugar.Infof("starting %s %s on port %s", cfg.AppName, cfg.AppVersion, cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
