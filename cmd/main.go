package main

import (
	"context"
	"net/http"

	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/app"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/config"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/constants"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/controllers"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/dataloader"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/loaders"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/repositories"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/services"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/storage"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/utils"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize app:", err)
	}
	defer application.Close()

	configRepo := repositories.NewCharacterConfigRepository(application.DB)
	seedRepo := repositories.NewCharacterConfigSeedRepository(application.DB)
	figureRepo := repositories.NewFigureRecordRepository(application.DB)
	fileRepo := repositories.NewFileRepository(application.DB)
	templateRepo := repositories.NewGenerateTemplateRepository(application.DB)

	repos := loaders.Repositories{
		CharacterConfigs:     configRepo,
		CharacterConfigSeeds: seedRepo,
		FigureRecords:        figureRepo,
		Files:                fileRepo,
		GenerateTemplates:    templateRepo,
	}
	loaderOpts := dataloader.Options{Wait: cfg.LoaderWait, MaxBatch: constants.LoaderMaxBatch}

	presigner, err := storage.NewTokenPresigner(cfg.StorageBaseURL, cfg.StorageSigningKey, constants.PresignTTL)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to create storage presigner")
	}

	var jobLock services.JobLock = services.NewLocalJobLock()
	if application.Redis != nil {
		jobLock = services.NewRedisJobLock(application.Redis)
	}

	configService := services.NewCharacterConfigService(configRepo, repos, loaderOpts)
	seedService := services.NewCharacterConfigSeedService(configRepo, seedRepo, repos, loaderOpts, jobLock)
	figureService := services.NewFigureRecordService(figureRepo, repos, loaderOpts)
	fileService := services.NewFileService(fileRepo, repos, loaderOpts, presigner)
	templateService := services.NewGenerateTemplateService(templateRepo, repos, loaderOpts)

	router := controllers.NewRouter(controllers.Controllers{
		Health:           controllers.NewHealthController(application.DB),
		CharacterConfig:  controllers.NewCharacterConfigController(configService, seedService),
		FigureRecord:     controllers.NewFigureRecordController(figureService),
		File:             controllers.NewFileController(fileService),
		GenerateTemplate: controllers.NewGenerateTemplateController(templateService),
	}, cfg.JWTSecret, repos, loaderOpts)

	c := cron.New()
	_, seedErr := c.AddFunc(cfg.SeedRecomputeSchedule, func() {
		if _, e := seedService.Recompute(context.Background()); e != nil {
			utils.Logger.WithError(e).Error("Scheduled seed recompute failed")
		}
	})
	if seedErr != nil {
		utils.Logger.WithError(seedErr).Fatal("Failed to schedule seed recompute cron")
	}
	c.Start()
	defer c.Stop()

	co := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AppUrl},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("Server failed to start:", err)
	}
}
