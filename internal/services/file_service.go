package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/dataloader"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/dtos"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/loaders"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/models"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/repositories"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/storage"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/utils"
)

type FileService struct {
	repo      repositories.FileRepository
	repos     loaders.Repositories
	opts      dataloader.Options
	presigner storage.Presigner
}

func NewFileService(
	repo repositories.FileRepository,
	repos loaders.Repositories,
	opts dataloader.Options,
	presigner storage.Presigner,
) *FileService {
	return &FileService{repo: repo, repos: repos, opts: opts, presigner: presigner}
}

// CreateUpload records a pending file and returns where the client
// should PUT its bytes.
func (s *FileService) CreateUpload(ctx context.Context, userID uuid.UUID, req dtos.CreateFileUploadRequest) (*dtos.FileUploadResponse, error) {
	file := models.NewFile(userID, req.MimeType, req.Size)
	if err := validate(req, file); err != nil {
		return nil, err
	}

	upload, err := s.presigner.PresignPut(file.ObjectKey, file.MimeType, file.Size)
	if err != nil {
		return nil, utils.Upstream("presign upload", err)
	}
	if err := s.repo.Create(ctx, file); err != nil {
		return nil, err
	}
	s.remember(ctx, file)

	utils.Logger.WithFields(logrus.Fields{
		"file_id": file.ID,
		"user_id": userID,
		"size":    file.Size,
	}).Debug("File upload created")

	return &dtos.FileUploadResponse{
		File:      dtos.NewFileResponse(file),
		UploadURL: upload.URL,
		ExpiresAt: upload.ExpiresAt,
	}, nil
}

// Verify marks an uploaded file usable. The caller passes the version it
// last read.
func (s *FileService) Verify(ctx context.Context, userID, id uuid.UUID, req dtos.VerifyFileRequest) (*dtos.FileResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	file, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	file.Version = req.Version
	file.Verified = true
	if err := s.repo.Update(ctx, file); err != nil {
		return nil, err
	}
	s.remember(ctx, file)
	return s.respond(file)
}

// Get attaches a download URL once the file is verified.
func (s *FileService) Get(ctx context.Context, userID, id uuid.UUID) (*dtos.FileResponse, error) {
	file, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.respond(file)
}

func (s *FileService) load(ctx context.Context, userID, id uuid.UUID) (*models.File, error) {
	l, release := loaders.For(ctx, s.repos, s.opts)
	defer release()

	file, err := l.File.Load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, notFound("file", id)
	}
	// Loader values are shared within the request.
	cp := *file
	return &cp, nil
}

func (s *FileService) remember(ctx context.Context, file *models.File) {
	if l, ok := loaders.FromContext(ctx); ok {
		l.File.Clear(file.UserID, file.ID)
		l.File.Prime(file.UserID, file.ID, file)
	}
}

func (s *FileService) respond(file *models.File) (*dtos.FileResponse, error) {
	resp := dtos.NewFileResponse(file)
	if !file.Verified {
		return &resp, nil
	}
	download, err := s.presigner.PresignGet(file.ObjectKey)
	if err != nil {
		return nil, utils.Upstream("presign download", err)
	}
	resp.DownloadURL = &download.URL
	resp.ExpiresAt = &download.ExpiresAt
	return &resp, nil
}
