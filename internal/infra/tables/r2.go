package tables

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// maxTableSize caps the table download.
const maxTableSize = 4 << 20

// R2Source reads the table from a Cloudflare R2 bucket via the S3 API.
type R2Source struct {
	client *minio.Client
	bucket string
	key    string
	logger *slog.Logger
}

// R2Options locates the table object.
type R2Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Key       string
}

// NewR2Source constructs the source.
func NewR2Source(opts R2Options, logger *slog.Logger) (*R2Source, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Bucket == "" || opts.Key == "" {
		return nil, fmt.Errorf("r2 table source needs bucket and key")
	}
	client, err := minio.New(sanitizeEndpoint(opts.Endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure:       strings.HasPrefix(strings.ToLower(opts.Endpoint), "https"),
		Region:       opts.Region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init r2 client: %w", err)
	}
	return &R2Source{
		client: client,
		bucket: opts.Bucket,
		key:    opts.Key,
		logger: logger.With("component", "tables.r2"),
	}, nil
}

// Load implements Source.
func (s *R2Source) Load(ctx context.Context) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	info, err := obj.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size > maxTableSize {
		return nil, fmt.Errorf("table object %s is %d bytes, limit %d", s.key, info.Size, maxTableSize)
	}
	data, err := io.ReadAll(io.LimitReader(obj, maxTableSize))
	if err != nil {
		return nil, err
	}
	s.logger.Info("calendar table fetched", "bucket", s.bucket, "key", s.key, "etag", info.ETag, "size", info.Size)
	return data, nil
}

// Publish uploads a table document after validating it.
func (s *R2Source) Publish(ctx context.Context, data []byte) error {
	if _, err := Load(ctx, bytesSource(data)); err != nil {
		return err
	}
	_, err := s.client.PutObject(ctx, s.bucket, s.key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:      "application/yaml",
		DisableMultipart: true,
	})
	return err
}

// Name implements Source.
func (s *R2Source) Name() string { return "r2:" + s.bucket + "/" + s.key }

type bytesSource []byte

func (b bytesSource) Load(context.Context) ([]byte, error) { return b, nil }
func (b bytesSource) Name() string                         { return "upload" }

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if i := strings.Index(raw, "/"); i >= 0 {
		raw = raw[:i]
	}
	return raw
}

var (
	_ Source = EmbeddedSource{}
	_ Source = FileSource{}
	_ Source = (*R2Source)(nil)
)
