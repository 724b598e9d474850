package export

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edvin/backupdash/internal/config"
)

type mockPutter struct {
	mock.Mock
}

func (m *mockPutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3.PutObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestS3Uploader_Upload(t *testing.T) {
	putter := new(mockPutter)
	u := &S3Uploader{client: putter, bucket: "reports-bucket", logger: zerolog.Nop()}

	var body []byte
	putter.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.ToString(in.Bucket) == "reports-bucket" &&
			aws.ToString(in.Key) == "reports/backup-logs.csv" &&
			aws.ToString(in.ContentType) == "text/csv" &&
			aws.ToInt64(in.ContentLength) == 8
	})).Run(func(args mock.Arguments) {
		body, _ = io.ReadAll(args.Get(1).(*s3.PutObjectInput).Body)
	}).Return(&s3.PutObjectOutput{}, nil)

	loc, err := u.Upload(context.Background(), "/backup-logs.csv", []byte("id,a\n1,b"), "text/csv")
	require.NoError(t, err)
	assert.Equal(t, "s3://reports-bucket/reports/backup-logs.csv", loc)
	assert.Equal(t, "id,a\n1,b", string(body))
	putter.AssertExpectations(t)
}

func TestS3Uploader_UploadError(t *testing.T) {
	putter := new(mockPutter)
	u := &S3Uploader{client: putter, bucket: "reports-bucket", logger: zerolog.Nop()}
	putter.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("AccessDenied"))

	_, err := u.Upload(context.Background(), "x.csv", []byte("x"), "text/csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reports/x.csv")
	assert.Contains(t, err.Error(), "AccessDenied")
}

func TestNewS3Uploader(t *testing.T) {
	u := NewS3Uploader(config.ExportConfig{
		S3Endpoint:  "http://minio.local:9000",
		S3Region:    "us-east-1",
		S3Bucket:    "reports-bucket",
		S3AccessKey: "ak",
		S3SecretKey: "sk",
	}, zerolog.Nop())

	client, ok := u.client.(*s3.Client)
	require.True(t, ok)
	opts := client.Options()
	assert.True(t, opts.UsePathStyle)
	assert.Equal(t, "http://minio.local:9000", aws.ToString(opts.BaseEndpoint))
	assert.Equal(t, "reports-bucket", u.bucket)
}
