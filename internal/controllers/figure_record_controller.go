package controllers

import (
	"net/http"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/dtos"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/models"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/services"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/utils"
)

type FigureRecordController struct {
	figures *services.FigureRecordService
}

func NewFigureRecordController(figures *services.FigureRecordService) *FigureRecordController {
	return &FigureRecordController{figures: figures}
}

// ----------------------------------------------------------------
// POST /api/v1/figure-records
// ----------------------------------------------------------------
func (c *FigureRecordController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req dtos.CreateFigureRecordRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid request body", nil, err)
		return
	}

	rec, err := c.figures.Create(r.Context(), userID, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.NewFigureRecordResponse(rec))
}

// ----------------------------------------------------------------
// GET /api/v1/figure-records/{id}
// ----------------------------------------------------------------
func (c *FigureRecordController) GetHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	key, err := decodeID(r, models.FigureRecordIDs)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	rec, err := c.figures.Get(r.Context(), userID, key.ID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewFigureRecordResponse(rec))
}

// ----------------------------------------------------------------
// PATCH /api/v1/figure-records/{id}
// ----------------------------------------------------------------
func (c *FigureRecordController) SetDisabledHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	key, err := decodeID(r, models.FigureRecordIDs)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.SetFigureRecordDisabledRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid request body", nil, err)
		return
	}

	rec, err := c.figures.SetDisabled(r.Context(), userID, key.ID, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewFigureRecordResponse(rec))
}

// ----------------------------------------------------------------
// GET /api/v1/figure-records?characters=a,b&first=10
// ----------------------------------------------------------------
func (c *FigureRecordController) ListByCharactersHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	args, err := parsePageArgs(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	characters := splitList(r.URL.Query().Get("characters"))

	pages, err := c.figures.ListByCharacters(r.Context(), userID, characters, args)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	resp := make(dtos.FigureRecordsByCharacterResponse, len(pages))
	for character, page := range pages {
		resp[character] = dtos.NewConnection(page, dtos.NewFigureRecordResponse)
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}
