package media

import (
	"context"
	"path"
	"strings"

	"github.com/angelmondragon/wardrop-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/wardrop-backend/pkg/errors"
	"github.com/angelmondragon/wardrop-backend/pkg/imaging"
)

// Folders group stored files by owning resource.
const (
	FolderDresses  = "dresses"
	FolderClothing = "clothing"
	FolderLogos    = "logos"
)

type fileStorage interface {
	Save(ctx context.Context, folder, ext string, data []byte) (string, error)
	Delete(ctx context.Context, publicPath string) error
}

// Upload is one file received from a multipart form.
type Upload struct {
	FileName string
	Data     []byte
}

// Service validates, normalises and stores uploaded images.
type Service interface {
	Store(ctx context.Context, folder string, upload Upload) (string, error)
	Remove(ctx context.Context, publicPath string) error
}

type service struct {
	storage      fileStorage
	allowedExt   map[string]struct{}
	allowedList  string
	maxSize      int64
	maxDimension int
}

// NewService wires the upload pipeline.
func NewService(storage fileStorage, cfg config.UploadsConfig) (Service, error) {
	if storage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "file storage required")
	}
	allowed := make(map[string]struct{}, len(cfg.AllowedExtensions))
	names := make([]string, 0, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		clean := normalizeExt(ext)
		if clean == "" {
			continue
		}
		if _, dup := allowed[clean]; !dup {
			names = append(names, clean)
		}
		allowed[clean] = struct{}{}
	}
	if len(allowed) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "at least one upload extension must be allowed")
	}
	return &service{
		storage:      storage,
		allowedExt:   allowed,
		allowedList:  humanReadableList(names),
		maxSize:      cfg.MaxFileSize(),
		maxDimension: cfg.MaxImageDimension,
	}, nil
}

func (s *service) Store(ctx context.Context, folder string, upload Upload) (string, error) {
	ext := normalizeExt(path.Ext(sanitizeFileName(upload.FileName)))
	if _, ok := s.allowedExt[ext]; !ok {
		return "", pkgerrors.Newf(pkgerrors.CodeValidation, "file type not allowed, use %s", s.allowedList).
			WithDetails(map[string]any{"file": upload.FileName})
	}
	if len(upload.Data) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "file is empty").WithDetails(map[string]any{"file": upload.FileName})
	}
	if int64(len(upload.Data)) > s.maxSize {
		return "", pkgerrors.Newf(pkgerrors.CodeValidation, "file exceeds %d MB", s.maxSize>>20).
			WithDetails(map[string]any{"file": upload.FileName})
	}

	processed, err := imaging.Process(upload.Data, s.maxDimension)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid image").WithDetails(map[string]any{"file": upload.FileName})
	}

	stored, err := s.storage.Save(ctx, folder, processed.Extension, processed.Data)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage: save upload")
	}
	return stored, nil
}

func (s *service) Remove(ctx context.Context, publicPath string) error {
	if strings.TrimSpace(publicPath) == "" {
		return nil
	}
	if err := s.storage.Delete(ctx, publicPath); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage: delete upload")
	}
	return nil
}

func normalizeExt(ext string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
}
