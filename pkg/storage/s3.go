package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectAPI is the subset of *s3.Client used by Bucket.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// Config describes the S3-compatible endpoint of Supabase Storage.
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Endpoint        string // e.g. https://xyz.supabase.co/storage/v1/s3
	Bucket          string
	PublicBaseURL   string // e.g. https://xyz.supabase.co/storage/v1/object/public
}

func (c Config) Configured() bool {
	return c.AccessKeyID != "" && c.SecretAccessKey != "" && c.Endpoint != "" && c.Bucket != ""
}

// NewS3Client creates a path-style S3 client for cfg.Endpoint.
func NewS3Client(ctx context.Context, cfg Config) (*s3.Client, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true // Supabase Storage only supports path-style
	}), nil
}

// Bucket stores public objects and maps keys to their public URLs.
type Bucket struct {
	api        ObjectAPI
	name       string
	publicBase string
}

func NewBucket(api ObjectAPI, name, publicBaseURL string) *Bucket {
	return &Bucket{
		api:        api,
		name:       name,
		publicBase: strings.TrimRight(publicBaseURL, "/"),
	}
}

// Put uploads data under key, overwriting any existing object, and returns
// the public URL.
func (b *Bucket) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := b.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.name),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		CacheControl:  aws.String("max-age=3600"),
	})
	if err != nil {
		return "", fmt.Errorf("storage: put %s: %w", key, err)
	}
	return b.PublicURL(key), nil
}

func (b *Bucket) Delete(ctx context.Context, key string) error {
	_, err := b.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}

func (b *Bucket) PublicURL(key string) string {
	return b.publicBase + "/" + b.name + "/" + (&url.URL{Path: key}).EscapedPath()
}

// KeyFromURL extracts the object key from a URL pointing into this bucket.
// The second result is false for URLs outside the bucket.
func (b *Bucket) KeyFromURL(publicURL string) (string, bool) {
	marker := "/" + b.name + "/"
	idx := strings.Index(publicURL, marker)
	if idx < 0 {
		return "", false
	}
	key := publicURL[idx+len(marker):]
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	if unescaped, err := url.PathUnescape(key); err == nil {
		key = unescaped
	}
	if key == "" {
		return "", false
	}
	return key, true
}

// Ping checks the bucket is reachable with the configured credentials.
func (b *Bucket) Ping(ctx context.Context) error {
	_, err := b.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(b.name)})
	if err != nil {
		return fmt.Errorf("failed to access bucket %s: %w", b.name, err)
	}
	return nil
}
