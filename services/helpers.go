package services

import (
	"fmt"
	"strings"

	"github.com/Dosada05/artsfest/models"
	"github.com/Dosada05/artsfest/storage"
)

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func populateTeamLogoURL(team *models.Team, uploader storage.FileUploader) {
	if team != nil && team.LogoKey != nil && *team.LogoKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*team.LogoKey)
		if url != "" {
			team.LogoURL = &url
		}
	}
}

func populateAssetURL(asset *models.SiteAsset, uploader storage.FileUploader) {
	if asset != nil && asset.ObjectKey != "" && uploader != nil {
		asset.URL = uploader.GetPublicURL(asset.ObjectKey)
	}
}

// GetExtensionFromContentType допускает только изображения.
func GetExtensionFromContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	case "image/svg+xml":
		return ".svg", nil
	default:
		parts := strings.Split(contentType, "/")
		if len(parts) == 2 && parts[0] == "image" && parts[1] != "" {
			return "." + strings.Split(parts[1], "+")[0], nil
		}
		return "", fmt.Errorf("%w: '%s'", ErrUnsupportedFileType, contentType)
	}
}

func validSections(sections []models.Section) error {
	for _, s := range sections {
		if !s.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidEventSection, s)
		}
	}
	return nil
}
