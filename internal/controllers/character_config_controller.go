package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/dtos"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/models"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/services"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/utils"
)

type CharacterConfigController struct {
	configs *services.CharacterConfigService
	seeds   *services.CharacterConfigSeedService
}

func NewCharacterConfigController(configs *services.CharacterConfigService, seeds *services.CharacterConfigSeedService) *CharacterConfigController {
	return &CharacterConfigController{configs: configs, seeds: seeds}
}

// ----------------------------------------------------------------
// POST /api/v1/character-configs
// ----------------------------------------------------------------
func (c *CharacterConfigController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req dtos.CreateCharacterConfigRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid request body", nil, err)
		return
	}

	cfg, err := c.configs.Create(r.Context(), userID, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.NewCharacterConfigResponse(cfg))
}

// ----------------------------------------------------------------
// GET /api/v1/character-configs/{id}
// ----------------------------------------------------------------
func (c *CharacterConfigController) GetHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	key, err := decodeID(r, models.CharacterConfigIDs)
	if err == nil && key.UserID != userID {
		err = notFound(mux.Vars(r)["id"])
	}
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	cfg, err := c.configs.Get(r.Context(), userID, key.CharacterVariant)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewCharacterConfigResponse(cfg))
}

// ----------------------------------------------------------------
// PATCH /api/v1/character-configs/{id}
// ----------------------------------------------------------------
func (c *CharacterConfigController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	key, err := decodeID(r, models.CharacterConfigIDs)
	if err == nil && key.UserID != userID {
		err = notFound(mux.Vars(r)["id"])
	}
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.UpdateCharacterConfigRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid request body", nil, err)
		return
	}

	cfg, err := c.configs.Update(r.Context(), key, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewCharacterConfigResponse(cfg))
}

// ----------------------------------------------------------------
// GET /api/v1/character-configs?first=&after=
// ----------------------------------------------------------------
func (c *CharacterConfigController) ListHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	args, err := parsePageArgs(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	page, err := c.configs.List(r.Context(), userID, args)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewConnection(page, dtos.NewCharacterConfigResponse))
}

// ----------------------------------------------------------------
// GET /api/v1/characters/{character}/configs
// ----------------------------------------------------------------
func (c *CharacterConfigController) VariantsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	character := mux.Vars(r)["character"]
	if err := models.Validator().Var(character, "required,character"); err != nil {
		utils.HandleAppError(w, utils.NewValidationError("character", "must be exactly one character"))
		return
	}

	configs, err := c.configs.Variants(r.Context(), userID, character)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	resp := make([]dtos.CharacterConfigResponse, len(configs))
	for i, cfg := range configs {
		resp[i] = dtos.NewCharacterConfigResponse(cfg)
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// ----------------------------------------------------------------
// GET /api/v1/character-config-seeds/{id}
// ----------------------------------------------------------------
func (c *CharacterConfigController) GetSeedHandler(w http.ResponseWriter, r *http.Request) {
	key, err := decodeID(r, models.CharacterConfigSeedIDs)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	seed, err := c.seeds.Get(r.Context(), key)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewCharacterConfigSeedResponse(seed))
}

// ----------------------------------------------------------------
// GET /api/v1/character-config-seeds?first=&after=
// ----------------------------------------------------------------
func (c *CharacterConfigController) ListSeedsHandler(w http.ResponseWriter, r *http.Request) {
	args, err := parsePageArgs(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	page, err := c.seeds.List(r.Context(), args)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewConnection(page, dtos.NewCharacterConfigSeedResponse))
}
