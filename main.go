package main

import (
	"context"
	"flag"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"

	"github.com/vega-tools/catalog/biz/handler"
	"github.com/vega-tools/catalog/biz/media"
	"github.com/vega-tools/catalog/biz/middleware"
	"github.com/vega-tools/catalog/biz/router"
	"github.com/vega-tools/catalog/biz/service"
	"github.com/vega-tools/catalog/pkg/config"
	"github.com/vega-tools/catalog/pkg/database"
	"github.com/vega-tools/catalog/pkg/lock"
	"github.com/vega-tools/catalog/pkg/redis"
	"github.com/vega-tools/catalog/pkg/storage"
	"github.com/vega-tools/catalog/pkg/validator"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		hlog.Fatalf("load config: %v", err)
	}

	dbConn, err := database.Open(cfg.Database)
	if err != nil {
		hlog.Fatalf("open database: %v", err)
	}
	if err := database.Migrate(dbConn); err != nil {
		hlog.Fatalf("migrate database: %v", err)
	}

	store, err := storage.New(cfg.Storage)
	if err != nil {
		hlog.Fatalf("init storage: %v", err)
	}
	hlog.Infof("storage backend: %s", store.Type())

	if cfg.Redis.Enabled {
		client, err := redis.NewClient(cfg.Redis)
		if err != nil {
			hlog.Fatalf("connect redis: %v", err)
		}
		if client != nil {
			middleware.InitWriteLock(lock.New(client, "catalog:write_lock", lock.DefaultTTL, lock.DefaultAcquireTimeout))
			hlog.Info("cross-replica write lock enabled")
		}
	}

	variants := media.VariantsFromConfig(cfg.Media.Variants)
	keys := media.NewKeyScheme(cfg.Media.KeyPrefix, cfg.Media.BaseURL)
	manager := media.NewManager(store, service.NewCountStore(dbConn), keys, variants)

	ctx := context.Background()
	processor := media.NewProcessor(store, variants, 64)
	processor.Start(ctx, 2)
	defer processor.Close()

	uploads := validator.NewUploadConfig(cfg.Upload.MaxSize, cfg.Upload.AllowedTypes)
	svc := service.NewService(dbConn, store, manager, processor, uploads)

	if err := svc.LoadSettingDefaults(cfg.Settings.DefaultsDir); err != nil {
		hlog.Fatalf("load setting defaults: %v", err)
	}
	if err := svc.SeedSettings(ctx); err != nil {
		hlog.Fatalf("seed settings: %v", err)
	}
	if cfg.Settings.SeedSampleData {
		if err := svc.SeedCatalog(ctx); err != nil {
			hlog.Fatalf("seed catalog: %v", err)
		}
	}

	h := server.Default(server.WithHostPorts(cfg.Server.Address))
	h.Use(middleware.Recovery(), middleware.Logging(), middleware.CORS(&cfg.CORS), middleware.Auth())

	router.Register(h, handler.NewCatalogHandler(svc), handler.NewAdminHandler(svc), cfg.Server.AdminToken)

	h.Spin()
}
