package publish

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

const (
	healthyIndex     = "index.html"
	maintenanceIndex = "maintenance.html"
	errorDocument    = "error.html"
)

// BucketWebsiteAPI is the slice of the S3 client the publisher needs.
type BucketWebsiteAPI interface {
	PutBucketWebsite(ctx context.Context, in *s3.PutBucketWebsiteInput, optFns ...func(*s3.Options)) (*s3.PutBucketWebsiteOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Publisher rewrites the bucket's static-website configuration to pick
// the served index page.
type S3Publisher struct {
	API    BucketWebsiteAPI
	Bucket string
	Logger *zap.Logger
}

func NewS3Publisher(api BucketWebsiteAPI, bucket string, logger *zap.Logger) *S3Publisher {
	return &S3Publisher{API: api, Bucket: bucket, Logger: logger}
}

// Publish replaces the website configuration wholesale: the index document
// follows the health outcome, the error document mapping stays fixed.
// Repeating a call with the same value leaves the bucket unchanged.
func (p *S3Publisher) Publish(ctx context.Context, healthy bool) error {
	suffix := healthyIndex
	if !healthy {
		suffix = maintenanceIndex
	}
	_, err := p.API.PutBucketWebsite(ctx, &s3.PutBucketWebsiteInput{
		Bucket: aws.String(p.Bucket),
		WebsiteConfiguration: &types.WebsiteConfiguration{
			IndexDocument: &types.IndexDocument{Suffix: aws.String(suffix)},
			ErrorDocument: &types.ErrorDocument{Key: aws.String(errorDocument)},
		},
	})
	if err != nil {
		return fmt.Errorf("put bucket website %s: %w", p.Bucket, err)
	}
	p.Logger.Info("website_config_updated",
		zap.String("bucket", p.Bucket),
		zap.String("index_suffix", suffix),
	)
	return nil
}

// UploadPage publishes a rendered page body under the given key.
func (p *S3Publisher) UploadPage(ctx context.Context, key string, body []byte) error {
	_, err := p.API.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("text/html"),
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

var _ Publisher = (*S3Publisher)(nil)
