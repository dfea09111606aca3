package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader хранит логотипы команд и ассеты сайта.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	// GetPublicURL возвращает "" если ключ пуст.
	GetPublicURL(key string) string
}

// TeamLogoKey: каждая загрузка получает новый ключ, старый объект удаляет сервис.
func TeamLogoKey(teamID int, ext string) string {
	return fmt.Sprintf("teams/%d/logo-%s%s", teamID, uuid.NewString(), ext)
}

func SiteAssetKey(slot, ext string) string {
	return fmt.Sprintf("site/%s/%s%s", slot, uuid.NewString(), ext)
}
