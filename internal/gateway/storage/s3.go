// Package storage puts image bytes into the S3-compatible bucket behind the
// gateway and resolves their public URLs.
package storage

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/snapgram/internal/netx"
)

// ContentStore stores an object under key and returns its public URL.
type ContentStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	PublicURL(key string) string
}

type Config struct {
	Region        string
	User          string
	Password      string
	BaseEndpoint  string
	Bucket        string
	PublicBaseURL string
	PresignTTL    time.Duration
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

type S3Store struct {
	cfg  Config
	http netx.HTTPClient
}

func NewS3Store(cfg Config, httpClient netx.HTTPClient) *S3Store {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if cfg.PresignTTL <= 0 {
		cfg.PresignTTL = 15 * time.Minute
	}
	return &S3Store{cfg: cfg, http: httpClient}
}

func (s *S3Store) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.User,
			s.cfg.Password,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.cfg.BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// Put overwrites any object already stored under key.
func (s *S3Store) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", fmt.Errorf("storage config: %w", err)
	}

	bucket := s.cfg.Bucket
	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.cfg.PresignTTL))
	if err != nil {
		return "", fmt.Errorf("presign: %w", err)
	}

	if err := netx.PutPresigned(ctx, s.http, req.URL, data, contentType); err != nil {
		return "", err
	}

	return s.PublicURL(key), nil
}

// PublicURL is PublicBaseURL/key, or BaseEndpoint/bucket/key when no public
// base is configured.
func (s *S3Store) PublicURL(key string) string {
	base := strings.TrimRight(s.cfg.PublicBaseURL, "/")
	if base == "" {
		base = strings.TrimRight(s.cfg.BaseEndpoint, "/") + "/" + s.cfg.Bucket
	}
	return base + "/" + strings.TrimLeft(key, "/")
}
