package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	put     *s3.PutObjectInput
	body    string
	deleted []string
	err     error
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.put = in
	data, _ := io.ReadAll(in.Body)
	f.body = string(data)
	return &s3.PutObjectOutput{ETag: aws.String(`"abc123"`)}, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deleted = append(f.deleted, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

var r2Config = CloudflareR2UploaderConfig{
	AccountID:       "acc",
	AccessKeyID:     "key",
	SecretAccessKey: "secret",
	BucketName:      "results",
	PublicBaseURL:   "https://cdn.example.org/archery/",
}

func TestCloudflareR2Upload(t *testing.T) {
	objects := &fakeObjects{}
	u := newCloudflareR2Uploader(objects, r2Config)

	res, err := u.Upload(context.Background(), "results/spring.xlsx", "application/test", strings.NewReader("payload"))
	require.NoError(t, err)
	assert.Equal(t, "abc123", res.ETag)
	assert.Equal(t, "https://cdn.example.org/archery/results/spring.xlsx", res.Location)
	assert.Equal(t, "results", aws.ToString(objects.put.Bucket))
	assert.Equal(t, "application/test", aws.ToString(objects.put.ContentType))
	assert.Equal(t, "payload", objects.body)

	require.NoError(t, u.Delete(context.Background(), "results/spring.xlsx"))
	assert.Equal(t, []string{"results/spring.xlsx"}, objects.deleted)

	_, err = u.Upload(context.Background(), "../escape", "x", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestCloudflareR2UploadError(t *testing.T) {
	boom := errors.New("boom")
	u := newCloudflareR2Uploader(&fakeObjects{err: boom}, r2Config)

	_, err := u.Upload(context.Background(), "a.xlsx", "x", strings.NewReader(""))
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, u.Delete(context.Background(), "a.xlsx"), boom)
}

func TestGetPublicURL(t *testing.T) {
	tests := []struct {
		base, key, want string
	}{
		{"https://cdn.example.org", "a.xlsx", "https://cdn.example.org/a.xlsx"},
		{"https://cdn.example.org/", "/a.xlsx", "https://cdn.example.org/a.xlsx"},
		{"https://cdn.example.org/files", "r/a.xlsx", "https://cdn.example.org/files/r/a.xlsx"},
		{"https://cdn.example.org", "", ""},
		{"", "a.xlsx", ""},
	}
	for _, tt := range tests {
		u := &cloudflareR2Uploader{publicBaseURL: tt.base}
		assert.Equal(t, tt.want, u.GetPublicURL(tt.key), tt.base+" + "+tt.key)
	}
}

func TestNewCloudflareR2UploaderValidates(t *testing.T) {
	cfg := r2Config
	cfg.SecretAccessKey = ""
	_, err := NewCloudflareR2Uploader(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrInvalidR2Config)
}

func TestLocalUploader(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	u, err := NewLocalUploader(dir)
	require.NoError(t, err)

	var _ FileUploader = u

	res, err := u.Upload(context.Background(), ObjectKey("results/", "spring.xlsx"), "x", strings.NewReader("data"))
	require.NoError(t, err)
	assert.Equal(t, "results/spring.xlsx", res.Key)
	assert.Equal(t, filepath.Join(dir, "results", "spring.xlsx"), res.Location)

	data, err := os.ReadFile(res.Location)
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))

	require.NoError(t, u.Delete(context.Background(), res.Key))
	_, err = os.Stat(res.Location)
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, u.Delete(context.Background(), res.Key), "deleting twice is fine")

	_, err = u.Upload(context.Background(), "a/../../b", "x", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "results/a.xlsx", ObjectKey("results/", "a.xlsx"))
	assert.Equal(t, "results/a.xlsx", ObjectKey("/results", "a.xlsx"))
	assert.Equal(t, "a.xlsx", ObjectKey("", "a.xlsx"))
}
