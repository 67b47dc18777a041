package main

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/strongclose/media-offload/internal"
	"github.com/strongclose/media-offload/internal/attachment"
	"github.com/strongclose/media-offload/internal/health"
	"github.com/strongclose/media-offload/internal/remote"
	"github.com/strongclose/media-offload/internal/rewriter"
	"github.com/strongclose/media-offload/internal/status"
	"github.com/strongclose/media-offload/internal/syncer"
	"github.com/strongclose/media-offload/internal/thumbnail"
	"github.com/valyala/fasthttp"
)

const version = "1.0.0"

func main() {
	config, err := internal.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
		return
	}

	db, err := internal.NewDB(config.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing database")
		return
	}

	store := attachment.NewSQLRepository(db)
	files := attachment.NewFiles(config.Uploads.Dir)

	if err := attachment.MigrateLegacyTable(db, store, log.Logger); err != nil {
		log.Fatal().Err(err).Msg("Error migrating legacy offload table")
		return
	}

	remoteClient := remote.NewClient(remote.Config{
		BaseURL:       config.Remote.BaseURL,
		CDNBaseURL:    config.Remote.CDNBaseURL,
		SiteID:        config.Remote.SiteID,
		APIKey:        config.Remote.APIKey,
		Timeout:       time.Duration(config.Remote.TimeoutSeconds) * time.Second,
		UploadTimeout: time.Duration(config.Remote.UploadTimeoutSeconds) * time.Second,
	}, log.Logger)

	sizes := config.Thumbnails.Sizes
	if len(sizes) == 0 {
		sizes = thumbnail.DefaultSizes()
	}
	generator := thumbnail.NewImagingGenerator(sizes, log.Logger)
	fixer := thumbnail.NewFixer(store, files, generator, log.Logger)
	thumbnailEndpoints := thumbnail.NewEndpoints(store, fixer)

	executor := syncer.NewExecutor(store, files, remoteClient, generator, config.Sync.DeleteLocalFiles, log.Logger)
	service := syncer.NewService(store, files, remoteClient, executor, log.Logger)
	syncEndpoints := syncer.NewEndpoints(service)
	rewriterEndpoints := rewriter.NewEndpoints(store, config.Rewrite.Enabled)
	statusEndpoints := status.NewEndpoints(version, service)
	healthEndpoints := health.NewEndpoints(version, db)

	if config.Sync.AutoSync.Enabled {
		scheduler := syncer.NewScheduler(
			service,
			time.Duration(config.Sync.AutoSync.IntervalMinutes)*time.Minute,
			config.Sync.AutoSync.BatchSize,
			time.Duration(config.Sync.AutoSync.PauseMillis)*time.Millisecond,
			log.Logger,
		)
		scheduler.Start()
		defer scheduler.Stop()
		log.Info().Int("intervalMinutes", config.Sync.AutoSync.IntervalMinutes).Msg("Auto-sync scheduler started")
	}

	requestHandler := internal.NewRequestHandler(config, syncEndpoints, rewriterEndpoints, thumbnailEndpoints, statusEndpoints, healthEndpoints)

	log.Info().Str("addr", config.Server.Addr).Msg("Starting server")
	if err := fasthttp.ListenAndServe(config.Server.Addr, requestHandler); err != nil {
		log.Fatal().Err(err).Msg("Error starting server")
	}
}
