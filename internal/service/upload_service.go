package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path"
	"time"

	"github.com/rs/zerolog"

	"github.com/WooodHead/blog-be-next/internal/config"
	"github.com/WooodHead/blog-be-next/internal/ids"
	"github.com/WooodHead/blog-be-next/internal/storage"
)

const maxUploadSize = 32 << 20 // 32 MiB

var ErrFileTooLarge = errors.New("file exceeds upload size limit")

type UploadService struct {
	store *storage.ObjectStore
	cfg   *config.AppConfig
	log   zerolog.Logger
}

func NewUploadService(store *storage.ObjectStore, cfg *config.AppConfig, log zerolog.Logger) *UploadService {
	return &UploadService{
		store: store,
		cfg:   cfg,
		log:   log,
	}
}

type UploadResult struct {
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	SizeBytes int64     `json:"sizeBytes"`
	CreatedAt time.Time `json:"createdAt"`
}

// Upload streams a multipart file into the object store under a
// date-partitioned key and returns its public URL.
func (s *UploadService) Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader) (UploadResult, error) {
	if file == nil || header == nil {
		return UploadResult{}, errors.New("invalid file payload")
	}
	if header.Size > maxUploadSize {
		return UploadResult{}, ErrFileTooLarge
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	now := time.Now()
	key := fmt.Sprintf("%s/%s%s", now.Format("2006/01/02"), ids.New(), path.Ext(header.Filename))

	if err := s.store.Put(ctx, key, file, header.Size, contentType); err != nil {
		return UploadResult{}, err
	}

	s.log.Debug().Str("key", key).Int64("size", header.Size).Msg("file uploaded")

	return UploadResult{
		Name:      header.Filename,
		URL:       s.store.PublicURL(key),
		SizeBytes: header.Size,
		CreatedAt: now,
	}, nil
}
