// Package export uploads JSON snapshots of fetched ratings to an S3
// compatible bucket (AWS S3, MinIO).
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/mark3t-rep/internal/client/models"
	"github.com/google/uuid"
)

var ErrNoBucket = errors.New("export bucket is not configured")

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// ObjectPutter is the part of *s3.Client the exporter uses.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Snapshot is the document written per export. Subject is nil for an
// export of every rating.
type Snapshot struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Subject     *uint32         `json:"subject,omitempty"`
	Summary     models.Summary  `json:"summary"`
	Ratings     []models.Rating `json:"ratings"`
}

type S3Exporter struct {
	bucket string
	putter ObjectPutter
}

// NewS3Exporter builds an exporter talking to the configured endpoint.
// Static credentials are used when an access key is set, the default AWS
// chain otherwise.
func NewS3Exporter(ctx context.Context, cfg Config) (*S3Exporter, error) {
	if cfg.Bucket == "" {
		return nil, ErrNoBucket
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewExporter(cfg.Bucket, client), nil
}

func NewExporter(bucket string, putter ObjectPutter) *S3Exporter {
	return &S3Exporter{bucket: bucket, putter: putter}
}

// SnapshotKey returns a fresh object key for a snapshot taken at t.
func SnapshotKey(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("ratings/%04d/%02d/%02d/%s.json", t.Year(), t.Month(), t.Day(), uuid.New())
}

// Export uploads snap and returns the object key it was stored under.
func (e *S3Exporter) Export(ctx context.Context, snap Snapshot) (string, error) {
	if snap.Ratings == nil {
		snap.Ratings = []models.Rating{}
	}
	body, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	key := SnapshotKey(snap.GeneratedAt)
	_, err = e.putter.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(e.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload snapshot %s: %w", key, err)
	}
	return key, nil
}
