package storage

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCloudflareR2UploaderValidation(t *testing.T) {
	_, err := NewCloudflareR2Uploader(context.Background(), CloudflareR2UploaderConfig{AccountID: "acc"})
	assert.Error(t, err)

	_, err = NewCloudflareR2Uploader(context.Background(), CloudflareR2UploaderConfig{
		AccountID: "acc", AccessKeyID: "k", SecretAccessKey: "s", BucketName: "b", PublicBaseURL: "not a url",
	})
	assert.Error(t, err)
}

func TestGetPublicURL(t *testing.T) {
	up, err := NewCloudflareR2Uploader(context.Background(), CloudflareR2UploaderConfig{
		AccountID:       "acc",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		BucketName:      "festival",
		PublicBaseURL:   "https://cdn.example.org/media",
	})
	require.NoError(t, err)

	tests := []struct {
		key  string
		want string
	}{
		{"teams/1/logo.png", "https://cdn.example.org/media/teams/1/logo.png"},
		{"/site/banner/x.webp", "https://cdn.example.org/media/site/banner/x.webp"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, up.GetPublicURL(tt.key), tt.key)
	}
}

func TestJoinPublicURLNilBase(t *testing.T) {
	assert.Empty(t, joinPublicURL(nil, "a.png"))
	base, _ := url.Parse("https://cdn.example.org/")
	assert.Equal(t, "https://cdn.example.org/a.png", joinPublicURL(base, "a.png"))
}

func TestObjectKeys(t *testing.T) {
	a := TeamLogoKey(7, ".png")
	b := TeamLogoKey(7, ".png")
	assert.Regexp(t, `^teams/7/logo-[0-9a-f-]{36}\.png$`, a)
	assert.NotEqual(t, a, b)

	assert.Regexp(t, `^site/banner/[0-9a-f-]{36}\.webp$`, SiteAssetKey("banner", ".webp"))
}
