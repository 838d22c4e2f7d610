package content

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	getObject = func(c *s3.Client, ctx context.Context, in *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
		return c.GetObject(ctx, in)
	}
)

// S3Config is the access to an S3 compatible store.
type S3Config struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// S3Fetcher downloads s3://bucket/key URLs.
type S3Fetcher struct {
	cfg S3Config
	dir string

	client *s3.Client
}

func NewS3Fetcher(cfg S3Config, dir string) *S3Fetcher {
	return &S3Fetcher{cfg: cfg, dir: dir}
}

func (f *S3Fetcher) s3Client(ctx context.Context) (*s3.Client, error) {
	if f.client != nil {
		return f.client, nil
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(f.cfg.Region)}
	if f.cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(f.cfg.AccessKey, f.cfg.SecretKey, "")))
	}
	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	f.client = newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if f.cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(f.cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return f.client, nil
}

func (f *S3Fetcher) Fetch(ctx context.Context, req Request) (Result, error) {
	bucket, key, err := parseS3URL(req.URL)
	if err != nil {
		return Result{}, err
	}

	c, err := f.s3Client(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("s3 client: %w", err)
	}

	out, err := getObject(c, ctx, &s3.GetObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
	if err != nil {
		return Result{}, fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	p, n, err := save(f.dir, pickName(req.FileName, nameFromURL(req.URL)), out.Body)
	if err != nil {
		return Result{}, err
	}
	return Result{Path: p, Bytes: n, ContentType: aws.ToString(out.ContentType)}, nil
}

func parseS3URL(raw string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("%w: %q", ErrNoSource, raw)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", fmt.Errorf("%w: %q has no object key", ErrNoSource, raw)
	}
	return u.Host, key, nil
}
