package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/dataloader"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/loaders"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/middleware"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/routes"
)

// Controllers groups every handler set the router mounts.
type Controllers struct {
	Health           *HealthController
	CharacterConfig  *CharacterConfigController
	FigureRecord     *FigureRecordController
	File             *FileController
	GenerateTemplate *GenerateTemplateController
}

// NewRouter mounts the public and authenticated routes. Authenticated
// requests each get their own loader scope.
func NewRouter(c Controllers, jwtSecret []byte, repos loaders.Repositories, opts dataloader.Options) *mux.Router {
	router := mux.NewRouter()

	// Public
	router.HandleFunc(routes.Health, c.Health.HealthCheckHandler).Methods(http.MethodGet)
	router.Handle(routes.Metrics, promhttp.Handler()).Methods(http.MethodGet)

	secured := router.NewRoute().Subrouter()
	secured.Use(
		middleware.AuthMiddleware(jwtSecret),
		middleware.LoadersMiddleware(repos, opts),
	)

	secured.HandleFunc(routes.CharacterConfigs, c.CharacterConfig.ListHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.CharacterConfigs, c.CharacterConfig.CreateHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.CharacterConfig, c.CharacterConfig.GetHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.CharacterConfig, c.CharacterConfig.UpdateHandler).Methods(http.MethodPatch)
	secured.HandleFunc(routes.CharacterConfigVariants, c.CharacterConfig.VariantsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.CharacterConfigSeeds, c.CharacterConfig.ListSeedsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.CharacterConfigSeed, c.CharacterConfig.GetSeedHandler).Methods(http.MethodGet)

	secured.HandleFunc(routes.FigureRecords, c.FigureRecord.ListByCharactersHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.FigureRecords, c.FigureRecord.CreateHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.FigureRecord, c.FigureRecord.GetHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.FigureRecord, c.FigureRecord.SetDisabledHandler).Methods(http.MethodPatch)

	secured.HandleFunc(routes.Files, c.File.CreateUploadHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.File, c.File.GetHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.FileVerify, c.File.VerifyHandler).Methods(http.MethodPost)

	secured.HandleFunc(routes.GenerateTemplates, c.GenerateTemplate.ListHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.GenerateTemplates, c.GenerateTemplate.CreateHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.GenerateTemplate, c.GenerateTemplate.GetHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.GenerateTemplate, c.GenerateTemplate.UpdateHandler).Methods(http.MethodPatch)

	return router
}
