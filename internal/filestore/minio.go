package filestore

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	minioSDK "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sustentai/ods-platform/internal/config"
)

// MinioStore keeps files as objects in one bucket; keys are object names.
type MinioStore struct {
	client *minioSDK.Client
	bucket string
}

// NewMinioStore connects and creates the bucket when missing.
func NewMinioStore(ctx context.Context, cfg config.MinioConfig) (*MinioStore, error) {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: !cfg.UseSSL,
		},
	}

	client, err := minioSDK.New(cfg.Endpoint, &minioSDK.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to minio: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minioSDK.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &MinioStore{client: client, bucket: cfg.Bucket}, nil
}

func (s *MinioStore) Put(ctx context.Context, key, srcPath string) error {
	contentType := "application/octet-stream"
	if mt, err := mimetype.DetectFile(srcPath); err == nil {
		contentType = mt.String()
	}
	if _, err := s.client.FPutObject(ctx, s.bucket, key, srcPath, minioSDK.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return err
	}
	return os.Remove(srcPath)
}

func (s *MinioStore) Delete(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minioSDK.RemoveObjectOptions{})
}

func dirPrefix(dir string) string {
	return strings.TrimSuffix(dir, "/") + "/"
}

func (s *MinioStore) DeleteDir(ctx context.Context, dir string) error {
	objects := s.client.ListObjects(ctx, s.bucket, minioSDK.ListObjectsOptions{
		Prefix:    dirPrefix(dir),
		Recursive: true,
	})
	for rerr := range s.client.RemoveObjects(ctx, s.bucket, objects, minioSDK.RemoveObjectsOptions{}) {
		if rerr.Err != nil {
			return fmt.Errorf("remove %s: %w", rerr.ObjectName, rerr.Err)
		}
	}
	return nil
}

func (s *MinioStore) Exists(ctx context.Context, key string) (bool, error) {
	if _, err := s.client.StatObject(ctx, s.bucket, key, minioSDK.StatObjectOptions{}); err == nil {
		return true, nil
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	for obj := range s.client.ListObjects(ctx, s.bucket, minioSDK.ListObjectsOptions{
		Prefix:    dirPrefix(key),
		Recursive: true,
		MaxKeys:   1,
	}) {
		if obj.Err != nil {
			return false, obj.Err
		}
		return true, nil
	}
	return false, nil
}

// RenameDir copies every object to the new prefix, then removes the originals.
func (s *MinioStore) RenameDir(ctx context.Context, from, to string) error {
	src := dirPrefix(from)
	dst := dirPrefix(to)
	var moved []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minioSDK.ListObjectsOptions{
		Prefix:    src,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return obj.Err
		}
		target := dst + strings.TrimPrefix(obj.Key, src)
		if _, err := s.client.CopyObject(ctx,
			minioSDK.CopyDestOptions{Bucket: s.bucket, Object: target},
			minioSDK.CopySrcOptions{Bucket: s.bucket, Object: obj.Key},
		); err != nil {
			return fmt.Errorf("copy %s: %w", obj.Key, err)
		}
		moved = append(moved, obj.Key)
	}
	for _, key := range moved {
		if err := s.client.RemoveObject(ctx, s.bucket, key, minioSDK.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("remove %s: %w", key, err)
		}
	}
	return nil
}
