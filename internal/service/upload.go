package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/passiton/backend/internal/model"
)

const uploadURLTTL = 15 * time.Minute

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

type Presigner interface {
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
	PublicURL(key string) string
}

type UploadService struct {
	storage Presigner
	now     func() time.Time
	newID   func() string
	log     *slog.Logger
}

// NewUploadService accepts a nil storage; every request then fails with
// ErrUnavailable.
func NewUploadService(storage Presigner, log *slog.Logger) *UploadService {
	if log == nil {
		log = slog.Default()
	}
	return &UploadService{storage: storage, now: time.Now, newID: uuid.NewString, log: log}
}

func (s *UploadService) PresignImage(ctx context.Context, id model.Identity, contentType string) (*model.PresignUploadResponse, error) {
	if s.storage == nil {
		return nil, ErrUnavailable
	}
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, invalid("contentType", "Only JPEG, PNG and WebP images are allowed")
	}

	key := fmt.Sprintf("products/%s/%s.%s", s.now().UTC().Format("2006/01/02"), s.newID(), ext)
	url, err := s.storage.PresignPut(ctx, key, contentType, uploadURLTTL)
	if err != nil {
		return nil, err
	}
	s.log.DebugContext(ctx, "upload presigned", slog.String("key", key), slog.String("user_id", id.ID()))
	return &model.PresignUploadResponse{
		Key:       key,
		UploadURL: url,
		PublicURL: s.storage.PublicURL(key),
		ExpiresIn: int64(uploadURLTTL.Seconds()),
	}, nil
}
