package controllers

import (
	"net/http"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/dtos"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/models"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/services"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/utils"
)

type GenerateTemplateController struct {
	templates *services.GenerateTemplateService
}

func NewGenerateTemplateController(templates *services.GenerateTemplateService) *GenerateTemplateController {
	return &GenerateTemplateController{templates: templates}
}

// ----------------------------------------------------------------
// POST /api/v1/generate-templates
// ----------------------------------------------------------------
func (c *GenerateTemplateController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req dtos.CreateGenerateTemplateRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid request body", nil, err)
		return
	}

	tmpl, err := c.templates.Create(r.Context(), userID, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.NewGenerateTemplateResponse(tmpl))
}

// ----------------------------------------------------------------
// GET /api/v1/generate-templates/{id}
// ----------------------------------------------------------------
func (c *GenerateTemplateController) GetHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	key, err := decodeID(r, models.GenerateTemplateIDs)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	tmpl, err := c.templates.Get(r.Context(), userID, key.ID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewGenerateTemplateResponse(tmpl))
}

// ----------------------------------------------------------------
// PATCH /api/v1/generate-templates/{id}
// ----------------------------------------------------------------
func (c *GenerateTemplateController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	key, err := decodeID(r, models.GenerateTemplateIDs)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.UpdateGenerateTemplateRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid request body", nil, err)
		return
	}

	tmpl, err := c.templates.Update(r.Context(), userID, key.ID, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewGenerateTemplateResponse(tmpl))
}

// ----------------------------------------------------------------
// GET /api/v1/generate-templates?first=&after=
// ----------------------------------------------------------------
func (c *GenerateTemplateController) ListHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	args, err := parsePageArgs(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	page, err := c.templates.List(r.Context(), userID, args)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewConnection(page, dtos.NewGenerateTemplateResponse))
}
