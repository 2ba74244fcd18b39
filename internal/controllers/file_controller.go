package controllers

import (
	"net/http"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/dtos"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/models"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/services"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/utils"
)

type FileController struct {
	files *services.FileService
}

func NewFileController(files *services.FileService) *FileController {
	return &FileController{files: files}
}

// ----------------------------------------------------------------
// POST /api/v1/files
// ----------------------------------------------------------------
func (c *FileController) CreateUploadHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req dtos.CreateFileUploadRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid request body", nil, err)
		return
	}

	resp, err := c.files.CreateUpload(r.Context(), userID, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, resp)
}

// ----------------------------------------------------------------
// GET /api/v1/files/{id}
// ----------------------------------------------------------------
func (c *FileController) GetHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	key, err := decodeID(r, models.FileIDs)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	resp, err := c.files.Get(r.Context(), userID, key.ID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// ----------------------------------------------------------------
// POST /api/v1/files/{id}/verify
// ----------------------------------------------------------------
func (c *FileController) VerifyHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	key, err := decodeID(r, models.FileIDs)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.VerifyFileRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid request body", nil, err)
		return
	}

	resp, err := c.files.Verify(r.Context(), userID, key.ID, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}
