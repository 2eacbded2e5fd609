package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/bryanwahyu/supplychain-insight/internal/domain/procurement"
)

// Store archives narrative reports in a MinIO/S3 bucket.
type Store struct {
	client     *minio.Client
	bucketName string
	prefix     string
}

// New connects and makes sure the bucket exists.
func New(ctx context.Context, endpoint, region, bucket, accessKey, secretKey, prefix string, useSSL bool) (*Store, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, err
		}
	}

	return &Store{client: cli, bucketName: bucket, prefix: prefix}, nil
}

// Store uploads report under <prefix>/<yyyy>/<mm>/<dd>/<entry id>.md and returns its URL.
func (s *Store) Store(ctx context.Context, entry procurement.HistoryEntry, report []byte) (string, error) {
	key := ObjectKey(s.prefix, entry)
	_, err := s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(report), int64(len(report)), minio.PutObjectOptions{
		ContentType: "text/markdown; charset=utf-8",
		UserMetadata: map[string]string{
			"category": string(entry.Category),
			"model":    entry.Model,
		},
	})
	if err != nil {
		return "", fmt.Errorf("upload report %s: %w", key, err)
	}
	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucketName, key), nil
}

func ObjectKey(prefix string, entry procurement.HistoryEntry) string {
	day := entry.CreatedAt.UTC().Format("2006/01/02")
	return path.Join(prefix, day, entry.ID+".md")
}
