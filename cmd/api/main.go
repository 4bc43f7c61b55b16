package main

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"merchhold/adapters/excel"
	"merchhold/adapters/localfile"
	"merchhold/adapters/memory"
	"merchhold/adapters/postgres"
	"merchhold/app"
	"merchhold/domain/schema"
	"merchhold/internal/config"
	"merchhold/ports"
	"merchhold/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var tables ports.TableStore
	var profiles ports.ProfileStore
	if cfg.Database.URL != "" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("failed to ensure schema: %v", err)
		}
		tables = postgres.NewTableRepository(db)
		profiles = postgres.NewProfileRepository(db)
	} else {
		tables = memory.NewTableStore()
		profiles = memory.NewProfileStore()
	}

	handles := localfile.NewStore()
	if cfg.Resources.HoldFile != "" {
		handles.Set(ctx, ports.ResourceHold, localfile.NewHandle("HOLD", cfg.Resources.HoldFile))
	}
	if cfg.Resources.RMFile != "" {
		handles.Set(ctx, ports.ResourceRM, localfile.NewHandle("RM", cfg.Resources.RMFile))
	}

	aliases := schema.NewAliasTable()
	resolver := schema.NewResolver(aliases)

	server := ui.NewServer(ui.Deps{
		Records:  app.NewRecordService(tables, profiles, resolver, cfg.Search.ResultCap),
		Updater:  app.NewUpdaterService(handles, resolver),
		Profiles: app.NewProfileService(profiles),
		Reports:  app.NewReportService(tables, resolver),
		Ingester: excel.NewIngester(aliases),
		Tables:   tables,
	})

	if err := server.ListenAndServe(cfg.Server.Port); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
