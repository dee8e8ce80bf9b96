package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/deionjtulcidas/ServerlessContactForm/internal/model"
)

// ContentTypeJSON is the content type of archived submissions.
const ContentTypeJSON = "application/json"

// ErrNotConfigured is returned when the archive has no client or bucket.
var ErrNotConfigured = errors.New("archive client not configured")

// S3API is the subset of the S3 client the archive uses.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

// ArchiveClient writes a JSON copy of each submission to an S3 bucket.
type ArchiveClient struct {
	client S3API
	bucket string
	prefix string
}

// NewArchiveClient wraps an existing S3 client.
func NewArchiveClient(client S3API, bucket, prefix string) *ArchiveClient {
	return &ArchiveClient{client: client, bucket: bucket, prefix: prefix}
}

// NewS3Client builds an S3 client from the shared AWS config. When endpoint is
// set (LocalStack, MinIO) path-style addressing is used.
func NewS3Client(cfg aws.Config, endpoint string) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
}

// NewStaticS3Client builds a client with fixed credentials for S3-compatible
// endpoints that do not take part in the AWS credential chain.
func NewStaticS3Client(endpoint, region, accessKey, secretKey string) *s3.Client {
	if region == "" {
		region = "us-east-1"
	}
	creds := credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")
	return s3.NewFromConfig(aws.Config{
		Region:      region,
		Credentials: aws.NewCredentialsCache(creds),
	}, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})
}

// EnsureBucket creates the bucket if it does not exist (HeadBucket fails → CreateBucket).
// Only used against local endpoints; production buckets are provisioned ahead of time.
func (c *ArchiveClient) EnsureBucket(ctx context.Context) error {
	if c == nil || c.client == nil {
		return ErrNotConfigured
	}
	_, err := c.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(c.bucket)})
	if err == nil {
		return nil
	}
	_, createErr := c.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(c.bucket)})
	if createErr != nil {
		var apiErr smithy.APIError
		if errors.As(createErr, &apiErr) {
			switch apiErr.ErrorCode() {
			case "BucketAlreadyOwnedByYou", "BucketAlreadyExists":
				return nil
			}
		}
		return createErr
	}
	return nil
}

// PutObject uploads data to key.
func (c *ArchiveClient) PutObject(ctx context.Context, key string, data []byte, contentType string) error {
	if c == nil || c.client == nil || c.bucket == "" {
		return ErrNotConfigured
	}
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 put %s/%s: %w", c.bucket, key, err)
	}
	return nil
}

// ArchiveSubmission stores sub as JSON under a key derived from its creation
// time and returns the key.
func (c *ArchiveClient) ArchiveSubmission(ctx context.Context, sub *model.Submission, createdAt time.Time) (string, error) {
	body, err := sub.JSON()
	if err != nil {
		return "", fmt.Errorf("encode submission: %w", err)
	}
	key := c.key(createdAt)
	if err := c.PutObject(ctx, key, body, ContentTypeJSON); err != nil {
		return "", err
	}
	return key, nil
}

// GetObject downloads an object by key.
func (c *ArchiveClient) GetObject(ctx context.Context, key string) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, ErrNotConfigured
	}
	out, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

func (c *ArchiveClient) key(t time.Time) string {
	name := KeyForSubmission(t)
	if c.prefix == "" {
		return name
	}
	return path.Join(c.prefix, name)
}

// KeyForSubmission returns the object name for a submission archived at t,
// e.g. submission_20250102030405123456.json. Microsecond resolution keeps
// concurrent invocations from colliding in practice.
func KeyForSubmission(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("submission_%s%06d.json", t.Format("20060102150405"), t.Nanosecond()/int(time.Microsecond))
}
