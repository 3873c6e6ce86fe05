package storage

import (
	"context"
	"testing"
	"time"

	"github.com/savorly/savorly/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCDNResolver(t *testing.T) {
	r, err := NewCDNResolver("https://cdn.example.com/images/")
	require.NoError(t, err)
	ctx := context.Background()

	assert.Equal(t, "https://cdn.example.com/images/recipes/pad-thai.jpg", r.ResolveImageURL(ctx, "recipes/pad-thai.jpg"))
	assert.Equal(t, "https://cdn.example.com/images/recipes/a.jpg", r.ResolveImageURL(ctx, "/recipes/a.jpg"))
	assert.Equal(t, "https://elsewhere.test/x.png", r.ResolveImageURL(ctx, "https://elsewhere.test/x.png"))
	assert.Equal(t, "", r.ResolveImageURL(ctx, ""))

	_, err = NewCDNResolver("not a url")
	assert.Error(t, err)
}

func TestS3ResolverPresigns(t *testing.T) {
	r, err := NewS3Resolver(config.AWSConfig{
		Region:          "eu-west-1",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		Endpoint:        "http://localhost:9000",
		S3Bucket:        "savorly-images",
	}, 15*time.Minute, zap.NewNop())
	require.NoError(t, err)

	signed := r.ResolveImageURL(context.Background(), "recipes/carbonara.jpg")
	assert.Contains(t, signed, "http://localhost:9000/savorly-images/recipes/carbonara.jpg")
	assert.Contains(t, signed, "X-Amz-Signature=")
	assert.Contains(t, signed, "X-Amz-Expires=900")

	assert.Equal(t, "https://img.test/a.jpg", r.ResolveImageURL(context.Background(), "https://img.test/a.jpg"))
}

func TestNewImageResolverDefaultsToDirect(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Provider: "direct"}}
	r, err := NewImageResolver(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "recipes/x.jpg", r.ResolveImageURL(context.Background(), "recipes/x.jpg"))
}
