package storage

import (
	"bytes"
	"context"
	"io"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"github.com/zeebo/xxh3"
)

type S3Options struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// S3 keeps blobs in a bucket of any S3-compatible service.
type S3 struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func NewS3(ctx context.Context, opts S3Options) (*S3, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load aws config")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := opts.PublicBaseURL
	if baseURL == "" {
		baseURL = "https://" + opts.Bucket + ".s3.amazonaws.com"
	}

	return &S3{
		client:  client,
		bucket:  opts.Bucket,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

func (s *S3) Put(ctx context.Context, folder, filename string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", errors.Wrap(err, "failed to read upload")
	}

	name := objectName(xxh3.Hash(data), filename)
	key := path.Join(cleanFolder(folder), name)

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		input.ContentType = aws.String(ct)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", errors.Wrap(err, "failed to put object")
	}

	return s.baseURL + "/" + key, nil
}
