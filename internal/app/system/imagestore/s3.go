package imagestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// S3Config configures the S3 backend. Endpoint is set for MinIO or another
// S3-compatible server; it switches to path-style URLs. Credentials fall
// back to the default AWS chain when AccessKey is empty.
type S3Config struct {
	Region    string
	Bucket    string
	Prefix    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PublicURL string
}

// S3 stores objects in a bucket with public-read URLs.
type S3 struct {
	client s3iface.S3API
	cfg    S3Config
}

// NewS3 builds an S3 backend from cfg.
func NewS3(cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("imagestore: s3 bucket is required")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	awsConfig := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
		if strings.HasPrefix(cfg.Endpoint, "http://") {
			awsConfig.DisableSSL = aws.Bool(true)
		}
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("imagestore: create AWS session: %w", err)
	}
	return newS3WithClient(s3.New(sess), cfg), nil
}

func newS3WithClient(client s3iface.S3API, cfg S3Config) *S3 {
	return &S3{client: client, cfg: cfg}
}

func (s *S3) key(objectPath string) string {
	p := strings.Trim(s.cfg.Prefix, "/")
	if p == "" {
		return objectPath
	}
	return p + "/" + strings.TrimLeft(objectPath, "/")
}

// Put implements Store. The body is buffered so the SDK can sign and retry it.
func (s *S3) Put(ctx context.Context, objectPath string, r io.Reader, opts *PutOptions) error {
	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, r); err != nil {
		return fmt.Errorf("imagestore: read upload: %w", err)
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.key(objectPath)),
		Body:   bytes.NewReader(buf.Bytes()),
		ACL:    aws.String(s3.ObjectCannedACLPublicRead),
	}
	if opts != nil && opts.ContentType != "" {
		input.ContentType = aws.String(opts.ContentType)
	}
	if _, err := s.client.PutObjectWithContext(ctx, input); err != nil {
		return fmt.Errorf("imagestore: put %s: %w", objectPath, err)
	}
	return nil
}

// URL implements Store.
func (s *S3) URL(objectPath string) string {
	key := s.key(objectPath)
	if s.cfg.PublicURL != "" {
		return strings.TrimRight(s.cfg.PublicURL, "/") + "/" + key
	}
	if s.cfg.Endpoint != "" && !strings.Contains(s.cfg.Endpoint, "amazonaws.com") {
		return strings.TrimRight(s.cfg.Endpoint, "/") + "/" + s.cfg.Bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}
