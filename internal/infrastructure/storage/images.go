// Package storage resolves stored recipe image references into URLs clients can load
package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/savorly/savorly/internal/infrastructure/config"
	"github.com/savorly/savorly/internal/ports/outbound"
	"go.uber.org/zap"
)

// NewImageResolver creates the resolver selected by storage.provider
func NewImageResolver(cfg *config.Config, logger *zap.Logger) (outbound.ImageResolver, error) {
	logger = logger.Named("images")

	switch cfg.Storage.Provider {
	case "cdn":
		return NewCDNResolver(cfg.Storage.CDNBaseURL)
	case "s3":
		return NewS3Resolver(cfg.AWS, cfg.Storage.PresignExpiry, logger)
	default:
		return DirectResolver{}, nil
	}
}

// isAbsolute reports whether ref already is a loadable URL
func isAbsolute(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// DirectResolver returns stored references unchanged
type DirectResolver struct{}

// ResolveImageURL returns ref
func (DirectResolver) ResolveImageURL(_ context.Context, ref string) string {
	return ref
}

// CDNResolver serves object keys from a CDN origin
type CDNResolver struct {
	base *url.URL
}

// NewCDNResolver creates a resolver joining keys onto baseURL
func NewCDNResolver(baseURL string) (*CDNResolver, error) {
	base, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("invalid CDN base URL %q", baseURL)
	}
	return &CDNResolver{base: base}, nil
}

// ResolveImageURL joins a key onto the CDN base. Absolute URLs pass through.
func (r *CDNResolver) ResolveImageURL(_ context.Context, ref string) string {
	if ref == "" || isAbsolute(ref) {
		return ref
	}
	return r.base.ResolveReference(&url.URL{Path: strings.TrimPrefix(ref, "/")}).String()
}

// S3Resolver presigns GET requests for keys in a private bucket
type S3Resolver struct {
	client *s3.S3
	bucket string
	expiry time.Duration
	logger *zap.Logger
}

// NewS3Resolver creates a presigning resolver for cfg.S3Bucket
func NewS3Resolver(cfg config.AWSConfig, expiry time.Duration, logger *zap.Logger) (*S3Resolver, error) {
	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}
	if cfg.Endpoint != "" {
		// S3 compatible stores such as MinIO
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	if expiry <= 0 {
		expiry = time.Hour
	}

	logger.Info("S3 image resolver initialized",
		zap.String("bucket", cfg.S3Bucket),
		zap.String("region", cfg.Region),
		zap.Duration("presign_expiry", expiry),
	)

	return &S3Resolver{
		client: s3.New(sess),
		bucket: cfg.S3Bucket,
		expiry: expiry,
		logger: logger,
	}, nil
}

// ResolveImageURL presigns the key. Absolute URLs pass through; a failed
// presign yields an empty URL so the recipe still renders.
func (r *S3Resolver) ResolveImageURL(ctx context.Context, ref string) string {
	if ref == "" || isAbsolute(ref) {
		return ref
	}

	req, _ := r.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(strings.TrimPrefix(ref, "/")),
	})
	req.SetContext(ctx)

	signed, err := req.Presign(r.expiry)
	if err != nil {
		r.logger.Warn("Failed to presign image URL", zap.String("key", ref), zap.Error(err))
		return ""
	}
	return signed
}

var (
	_ outbound.ImageResolver = DirectResolver{}
	_ outbound.ImageResolver = (*CDNResolver)(nil)
	_ outbound.ImageResolver = (*S3Resolver)(nil)
)
