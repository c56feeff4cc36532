package storage

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carnage999-max/ultimate-app-manager/internal/config"
)

func testConfig() config.StorageConfig {
	return config.StorageConfig{
		Region:          "us-east-1",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		Bucket:          "uploads-bucket",
		Endpoint:        "http://localhost:9000",
	}
}

func TestNewS3PresignerRequiresCredentials(t *testing.T) {
	_, err := NewS3Presigner(config.StorageConfig{Bucket: "b"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestPresignUpload(t *testing.T) {
	p, err := NewS3Presigner(testConfig())
	require.NoError(t, err)

	raw, err := p.PresignUpload(context.Background(), "uploads/abc-photo.png", "image/png", time.Hour)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/uploads-bucket/uploads/abc-photo.png", u.Path)
	assert.Equal(t, "3600", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

func TestPresignDownload(t *testing.T) {
	p, err := NewS3Presigner(testConfig())
	require.NoError(t, err)

	raw, err := p.PresignDownload(context.Background(), "leases/doc.pdf", 10*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/uploads-bucket/leases/doc.pdf", u.Path)
	assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
}

func TestUnconfigured(t *testing.T) {
	_, err := Unconfigured{}.PresignUpload(context.Background(), "k", "", time.Minute)
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = Unconfigured{}.PresignDownload(context.Background(), "k", time.Minute)
	assert.ErrorIs(t, err, ErrNotConfigured)
}
