package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"skillswap/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_Save(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, "static/uploads/")
	require.NoError(t, store.EnsureDir())

	url, err := store.Save(context.Background(), "users/4/a.png", "image/png", []byte("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/static/uploads/users/4/a.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "users", "4", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestLocalStore_SaveStaysInsideDir(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, "/static/uploads")

	url, err := store.Save(context.Background(), "../../escape.png", "image/png", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "/static/uploads/escape.png", url)
	_, err = os.Stat(filepath.Join(dir, "escape.png"))
	assert.NoError(t, err)
}

func TestPhotoKey(t *testing.T) {
	assert.Equal(t, "user_12_profile.jpg", PhotoKey(12, "image/jpeg"))
	assert.Equal(t, "user_3_profile.gif", PhotoKey(3, "image/gif"))

	assert.True(t, AllowedContentType("image/png"))
	assert.False(t, AllowedContentType("image/webp"))
	assert.False(t, AllowedContentType("application/pdf"))
}

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	if in.Body != nil {
		f.body, _ = io.ReadAll(in.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store_Save(t *testing.T) {
	putter := &fakePutter{}
	store := newS3Store(putter, S3Config{Bucket: "photos", Endpoint: "http://minio:9000/"})

	url, err := store.Save(context.Background(), "/users/1/p.png", "image/png", []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, "http://minio:9000/photos/users/1/p.png", url)
	assert.Equal(t, "photos", aws.ToString(putter.input.Bucket))
	assert.Equal(t, "users/1/p.png", aws.ToString(putter.input.Key))
	assert.Equal(t, "image/png", aws.ToString(putter.input.ContentType))
	assert.Equal(t, "img", string(putter.body))
}

func TestS3Store_PublicURLAndErrors(t *testing.T) {
	putter := &fakePutter{err: errors.New("denied")}
	store := newS3Store(putter, S3Config{Bucket: "b", Region: "eu-west-1", PublicURL: "https://cdn.example.com/"})
	assert.Equal(t, "https://cdn.example.com", store.baseURL)

	_, err := store.Save(context.Background(), "k", "image/png", []byte("x"))
	assert.ErrorContains(t, err, "denied")

	regional := newS3Store(putter, S3Config{Bucket: "b", Region: "eu-west-1"})
	assert.Equal(t, "https://b.s3.eu-west-1.amazonaws.com", regional.baseURL)
}

func TestNewS3Store_UsesSeams(t *testing.T) {
	origLoad, origNew := loadDefaultAWSConfig, newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig, newS3ClientFromConfig = origLoad, origNew
	})

	var gotEndpoint string
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{Region: "us-east-1"}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		o := s3.Options{}
		for _, fn := range optFns {
			fn(&o)
		}
		gotEndpoint = aws.ToString(o.BaseEndpoint)
		return &s3.Client{}
	}

	store, err := NewS3Store(context.Background(), S3Config{Bucket: "b", Endpoint: "http://minio:9000", AccessKey: "k", SecretKey: "s"})
	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, "http://minio:9000", gotEndpoint)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no creds")
	}
	_, err = NewS3Store(context.Background(), S3Config{Bucket: "b"})
	assert.ErrorContains(t, err, "no creds")

	_, err = NewS3Store(context.Background(), S3Config{})
	assert.Error(t, err)
}

func TestNew_SelectsStore(t *testing.T) {
	store, err := New(context.Background(), &config.Config{PhotoStore: "local", UploadDir: t.TempDir(), UploadURLPrefix: "/static/uploads"})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, store)

	_, err = New(context.Background(), &config.Config{PhotoStore: "ftp"})
	assert.Error(t, err)
}
