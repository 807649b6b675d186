package services

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
)

// MediaService stores video objects and thumbnails in MinIO. Playback goes
// through presigned GET URLs, so the API never proxies video bytes itself.
type MediaService struct {
	appContext.DefaultService

	client     *minio.Client
	bucketName string
	endpoint   string
	accessKey  string
	secretKey  string
	useSSL     bool
}

const MEDIA_SVC = "media_svc"

const presignExpiry = 4 * time.Hour

func (svc MediaService) Id() string {
	return MEDIA_SVC
}

func (svc *MediaService) Configure(ctx *appContext.Context) error {
	svc.endpoint = os.Getenv("MINIO_ENDPOINT")
	if svc.endpoint == "" {
		svc.endpoint = "localhost:9000"
	}

	svc.accessKey = os.Getenv("MINIO_ACCESS_KEY")
	if svc.accessKey == "" {
		svc.accessKey = "admin"
	}

	svc.secretKey = os.Getenv("MINIO_SECRET_KEY")
	if svc.secretKey == "" {
		svc.secretKey = "password123"
	}

	svc.useSSL = os.Getenv("MINIO_USE_SSL") == "true"

	svc.bucketName = os.Getenv("MINIO_BUCKET_NAME")
	if svc.bucketName == "" {
		svc.bucketName = "cliphive-media"
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *MediaService) Start() error {
	client, err := minio.New(svc.endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(svc.accessKey, svc.secretKey, ""),
		Secure: svc.useSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %v", err)
	}

	svc.client = client

	return svc.ensureBucket()
}

func (svc *MediaService) ensureBucket() error {
	ctx := context.Background()

	exists, err := svc.client.BucketExists(ctx, svc.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %v", err)
	}
	if exists {
		return nil
	}

	err = svc.client.MakeBucket(ctx, svc.bucketName, minio.MakeBucketOptions{})
	if err != nil {
		return fmt.Errorf("failed to create bucket: %v", err)
	}

	log.WithField("bucket", svc.bucketName).Info("Created media bucket")
	return nil
}

// VideoObjectKey is the canonical object layout for uploaded clips.
func VideoObjectKey(videoID string) string {
	return fmt.Sprintf("videos/%s/source.mp4", videoID)
}

func ThumbnailObjectKey(videoID string) string {
	return fmt.Sprintf("videos/%s/thumb.jpg", videoID)
}

// PresignUpload returns a URL the client PUTs the raw video to.
func (svc *MediaService) PresignUpload(ctx context.Context, objectKey string) (string, error) {
	u, err := svc.client.PresignedPutObject(ctx, svc.bucketName, objectKey, presignExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign upload: %v", err)
	}
	return u.String(), nil
}

// PresignStream returns a playback URL. The object store handles byte-range
// requests, not this API.
func (svc *MediaService) PresignStream(ctx context.Context, objectKey string) (string, error) {
	if objectKey == "" {
		return "", nil
	}

	params := make(url.Values)
	u, err := svc.client.PresignedGetObject(ctx, svc.bucketName, objectKey, presignExpiry, params)
	if err != nil {
		return "", fmt.Errorf("failed to presign stream: %v", err)
	}
	return u.String(), nil
}

func (svc *MediaService) DeleteObject(ctx context.Context, objectKey string) error {
	if objectKey == "" {
		return nil
	}
	return svc.client.RemoveObject(ctx, svc.bucketName, objectKey, minio.RemoveObjectOptions{})
}
