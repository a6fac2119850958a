package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// R2Store talks to Cloudflare R2 through its S3-compatible API.
type R2Store struct {
	s3           *s3.Client
	bucket       string
	publicDomain string
}

type R2Options struct {
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // https://<account-id>.r2.cloudflarestorage.com
	PublicDomain    string // custom domain or r2.dev URL serving the bucket
}

func NewR2Store(ctx context.Context, o R2Options) (*R2Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKeyID, o.SecretAccessKey, ""),
		),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("r2 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(opts *s3.Options) {
		opts.BaseEndpoint = aws.String(o.Endpoint)
		opts.UsePathStyle = true // required for R2
	})

	return &R2Store{
		s3:           client,
		bucket:       o.Bucket,
		publicDomain: strings.TrimRight(o.PublicDomain, "/"),
	}, nil
}

func (s *R2Store) Upload(ctx context.Context, objectName, contentType string, body io.Reader) (string, error) {
	_, err := s.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(objectName),
		Body:         body,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("no-cache"),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", objectName, err)
	}
	return r2PublicURL(s.publicDomain, s.bucket, objectName), nil
}

func (s *R2Store) Delete(ctx context.Context, objectName string) error {
	_, err := s.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectName),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", objectName, err)
	}
	return nil
}

func (s *R2Store) ObjectName(publicURL string) (string, error) {
	return r2ObjectName(s.publicDomain, s.bucket, publicURL)
}

func r2PublicURL(domain, bucket, objectName string) string {
	return fmt.Sprintf("%s/%s/%s", domain, bucket, objectName)
}

// r2ObjectName only accepts URLs this store could have produced: the
// configured public domain, or an r2.dev host when no domain is set.
func r2ObjectName(domain, bucket, raw string) (string, error) {
	if domain != "" {
		prefix := domain + "/" + bucket + "/"
		if !strings.HasPrefix(raw, prefix) || len(raw) == len(prefix) {
			return "", fmt.Errorf("url is not served from %s", domain)
		}
		return strings.TrimPrefix(raw, prefix), nil
	}

	// r2.dev style: https://<bucket>.<account>.r2.dev/<object>
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") {
		return "", fmt.Errorf("not a recognised R2 public url")
	}
	if !strings.HasSuffix(strings.ToLower(u.Hostname()), ".r2.dev") {
		return "", fmt.Errorf("not a recognised R2 public url")
	}
	name := strings.TrimPrefix(u.Path, "/")
	if name == "" {
		return "", fmt.Errorf("no object path in url")
	}
	return name, nil
}
