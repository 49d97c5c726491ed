package main

import (
	"github.com/sotaworks/honne/config"
	"github.com/sotaworks/honne/models"
	"github.com/sotaworks/honne/routes"
	"github.com/sotaworks/honne/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	// Redis is optional; cache helpers no-op when it is not configured
	utils.InitRedis(cfg)

	db := config.InitDatabase(cfg,
		&models.Suggestion{},
		&models.Discussion{},
		&models.TimelineEntry{},
		&models.PageView{},
	)

	r := routes.SetupRouter(cfg, db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
