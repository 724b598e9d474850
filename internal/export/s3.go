package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/edvin/backupdash/internal/config"
)

// ReportPrefix is the key prefix reports are stored under.
const ReportPrefix = "reports/"

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader stores reports in an S3-compatible bucket.
type S3Uploader struct {
	client objectPutter
	bucket string
	logger zerolog.Logger
}

// NewS3Uploader creates an uploader for the bucket in cfg. Path-style
// addressing is used so MinIO and Ceph RGW endpoints work unchanged.
func NewS3Uploader(cfg config.ExportConfig, logger zerolog.Logger) *S3Uploader {
	opts := s3.Options{
		Region:       cfg.S3Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.S3Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.S3Endpoint)
	}
	return &S3Uploader{
		client: s3.New(opts),
		bucket: cfg.S3Bucket,
		logger: logger.With().Str("component", "s3-export").Logger(),
	}
}

// Upload writes body under ReportPrefix+name and returns the object's
// s3:// location.
func (u *S3Uploader) Upload(ctx context.Context, name string, body []byte, contentType string) (string, error) {
	key := ReportPrefix + strings.TrimPrefix(name, "/")

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s to bucket %s: %w", key, u.bucket, err)
	}

	u.logger.Info().Str("bucket", u.bucket).Str("key", key).Int("bytes", len(body)).Msg("uploaded report")
	return fmt.Sprintf("s3://%s/%s", u.bucket, key), nil
}
