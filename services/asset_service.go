package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"

	"github.com/Dosada05/artsfest/models"
	"github.com/Dosada05/artsfest/repositories"
	"github.com/Dosada05/artsfest/storage"
)

var slotPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,39}$`)

type AssetService interface {
	Upload(ctx context.Context, slot, contentType string, file io.Reader) (*models.SiteAsset, error)
	Get(ctx context.Context, slot string) (*models.SiteAsset, error)
	List(ctx context.Context) ([]models.SiteAsset, error)
	Delete(ctx context.Context, slot string) error
}

type assetService struct {
	repo     repositories.SiteAssetRepository
	uploader storage.FileUploader
}

func NewAssetService(repo repositories.SiteAssetRepository, uploader storage.FileUploader) AssetService {
	return &assetService{repo: repo, uploader: uploader}
}

func (s *assetService) Upload(ctx context.Context, slot, contentType string, file io.Reader) (*models.SiteAsset, error) {
	if s.uploader == nil {
		return nil, ErrStorageNotConfigured
	}
	if !slotPattern.MatchString(slot) {
		return nil, fmt.Errorf("%w: invalid slot name %q", ErrValidationFailed, slot)
	}
	ext, err := GetExtensionFromContentType(contentType)
	if err != nil {
		return nil, err
	}

	key := storage.SiteAssetKey(slot, ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload asset %s: %w", slot, err)
	}

	asset := &models.SiteAsset{Slot: slot, ObjectKey: key, ContentType: contentType}
	previous, err := s.repo.Upsert(ctx, asset)
	if err != nil {
		if delErr := s.uploader.Delete(context.Background(), key); delErr != nil {
			slog.Error("failed to remove orphaned asset", slog.String("key", key), slog.Any("error", delErr))
		}
		return nil, err
	}
	if previous != nil {
		if err := s.uploader.Delete(ctx, *previous); err != nil {
			slog.Warn("failed to delete replaced asset", slog.String("slot", slot), slog.String("key", *previous), slog.Any("error", err))
		}
	}
	populateAssetURL(asset, s.uploader)
	return asset, nil
}

func (s *assetService) Get(ctx context.Context, slot string) (*models.SiteAsset, error) {
	asset, err := s.repo.GetBySlot(ctx, slot)
	if err != nil {
		if errors.Is(err, repositories.ErrAssetNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, err
	}
	populateAssetURL(asset, s.uploader)
	return asset, nil
}

func (s *assetService) List(ctx context.Context) ([]models.SiteAsset, error) {
	assets, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range assets {
		populateAssetURL(&assets[i], s.uploader)
	}
	return assets, nil
}

func (s *assetService) Delete(ctx context.Context, slot string) error {
	asset, err := s.repo.Delete(ctx, slot)
	if err != nil {
		if errors.Is(err, repositories.ErrAssetNotFound) {
			return ErrAssetNotFound
		}
		return err
	}
	if s.uploader != nil {
		if err := s.uploader.Delete(ctx, asset.ObjectKey); err != nil {
			slog.Warn("failed to delete asset object", slog.String("slot", slot), slog.Any("error", err))
		}
	}
	return nil
}
