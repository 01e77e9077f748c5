package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/models"
)

// S3API is the subset of the S3 client used by the archive
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// PageArchive keeps a copy of every listing page the extractors worked on,
// so a bad extraction can be replayed later
type PageArchive struct {
	client     S3API
	bucketName string
	now        func() time.Time
}

// ArchiveResult describes an archived page
type ArchiveResult struct {
	Key        string    `json:"key"`
	Location   string    `json:"location"`
	ETag       string    `json:"etag"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// NewPageArchive creates an archive writing to bucketName
func NewPageArchive(client S3API, bucketName string) *PageArchive {
	return &PageArchive{
		client:     client,
		bucketName: bucketName,
		now:        time.Now,
	}
}

// NewPageArchiveFromConfig creates an archive using the default AWS credential chain
func NewPageArchiveFromConfig(awsCfg aws.Config, bucketName string) *PageArchive {
	return NewPageArchive(s3.NewFromConfig(awsCfg), bucketName)
}

// ArchiveKey returns raw-pages/<platform>/<yyyy-mm-dd>/<hash>.html for a page
func ArchiveKey(platform models.Platform, pageURL string, at time.Time) string {
	sum := sha256.Sum256([]byte(models.NormalizeSourceURL(pageURL)))
	return fmt.Sprintf("raw-pages/%s/%s/%s.html",
		platform,
		at.UTC().Format("2006-01-02"),
		hex.EncodeToString(sum[:])[:16])
}

// ArchivePage uploads the HTML of a page
func (a *PageArchive) ArchivePage(ctx context.Context, platform models.Platform, pageURL, html string) (*ArchiveResult, error) {
	uploadedAt := a.now()
	key := ArchiveKey(platform, pageURL, uploadedAt)
	data := []byte(html)

	result, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("text/html; charset=utf-8"),
		Metadata: map[string]string{
			"source-url": pageURL,
			"platform":   string(platform),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload page to S3: %w", err)
	}

	return &ArchiveResult{
		Key:        key,
		Location:   fmt.Sprintf("s3://%s/%s", a.bucketName, key),
		ETag:       aws.ToString(result.ETag),
		Size:       int64(len(data)),
		UploadedAt: uploadedAt,
	}, nil
}
