// Package blob fetches submitted files from object storage.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ErrNotFound is returned when the object does not exist.
var ErrNotFound = errors.New("blob not found")

// getObjectAPI is the part of the S3 client the store uses.
type getObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Options configures the S3 client.
type Options struct {
	Region string

	// Endpoint overrides the S3 endpoint, e.g. for a local stack.
	Endpoint string

	// PathStyle forces path-style addressing.
	PathStyle bool
}

// S3Store reads blobs from S3. A container maps to a bucket and a blob name
// to an object key.
type S3Store struct {
	client getObjectAPI
}

// NewS3Store loads AWS credentials from the default chain and creates a store.
func NewS3Store(ctx context.Context, opts Options) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	if opts.Region != "" {
		cfg.Region = opts.Region
	} else if cfg.Region == "" {
		cfg.Region = "eu-west-2"
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.PathStyle
	})
	return &S3Store{client: client}, nil
}

// Open returns a reader for the object. The caller closes it.
func (s *S3Store) Open(ctx context.Context, container, name string) (io.ReadCloser, error) {
	if container == "" || name == "" {
		return nil, fmt.Errorf("open blob: container and name are required")
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(container),
		Key:    aws.String(name),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, container, name)
		}
		return nil, fmt.Errorf("get object %s/%s: %w", container, name, err)
	}
	return out.Body, nil
}
