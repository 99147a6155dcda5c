package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"

	"github.com/leadgen/lead-extractor-service/internal/config"
)

// Archiver keeps a copy of every attachment handed out by the export endpoints.
type Archiver interface {
	Archive(ctx context.Context, a Attachment) (string, error)
}

// S3Archiver uploads attachments to an S3 bucket
type S3Archiver struct {
	uploader *s3manager.Uploader
	bucket   string
	now      func() time.Time
}

// NewArchiver returns an S3Archiver when a bucket is configured and nil otherwise.
func NewArchiver(cfg config.ExportConfig) (Archiver, error) {
	if cfg.ArchiveBucket == "" {
		return nil, nil
	}

	awsConfig := &aws.Config{
		Region: aws.String(cfg.Region),
	}

	// For local testing with an S3 compatible endpoint
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3Archiver{
		uploader: s3manager.NewUploader(sess),
		bucket:   cfg.ArchiveBucket,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// Archive uploads the attachment and returns its object key.
func (s *S3Archiver) Archive(ctx context.Context, a Attachment) (string, error) {
	key := ArchiveKey(s.now(), a.Filename)

	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(a.Data),
		ContentType: aws.String(a.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to bucket %s: %w", key, s.bucket, err)
	}

	return key, nil
}

// ArchiveKey is the object key an attachment is stored under.
func ArchiveKey(at time.Time, filename string) string {
	return fmt.Sprintf("exports/%s-%s", at.UTC().Format("20060102T150405Z"), filename)
}
