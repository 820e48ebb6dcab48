// Package s3 sizes content stored in S3-compatible object storage.
package s3

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

const scheme = "s3://"

// Config options for the S3 prober
type Config struct {
	Region          string // AWS region
	AccessKeyID     string // AWS access key ID
	SecretAccessKey string // AWS secret access key
	Endpoint        string // Optional custom endpoint for S3-compatible services
	UsePathStyle    bool   // Use path-style addressing (default: false)
}

// HeadObjectAPI is the subset of the S3 client used by the prober
type HeadObjectAPI interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// Prober implements provisioning.SizeProber for s3://bucket/key locations.
type Prober struct {
	client HeadObjectAPI
}

// New creates an S3 prober with its own client
func New(config Config) (*Prober, error) {
	if config.Region == "" {
		config.Region = "us-east-1"
	}

	loadOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(config.Region),
	}
	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		loadOptions = append(loadOptions, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(config.AccessKeyID, config.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Options []func(*s3.Options)
	if config.Endpoint != "" {
		s3Options = append(s3Options, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(config.Endpoint)
			o.UsePathStyle = config.UsePathStyle
		})
	}

	return NewWithClient(s3.NewFromConfig(awsCfg, s3Options...)), nil
}

// NewWithClient creates an S3 prober around an existing client
func NewWithClient(client HeadObjectAPI) *Prober {
	return &Prober{client: client}
}

// Probe issues HeadObject for an s3:// location. Other locations, missing
// objects and request failures report ok=false.
func (p *Prober) Probe(ctx context.Context, location string) (int64, bool) {
	bucket, key, ok := ParseLocation(location)
	if !ok {
		return 0, false
	}

	result, err := p.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			slog.Debug("S3 size probe rejected", "bucket", bucket, "key", key, "code", apiErr.ErrorCode())
		} else {
			slog.Debug("S3 size probe failed", "bucket", bucket, "key", key, "err", err)
		}
		return 0, false
	}

	if result.ContentLength == nil {
		return 0, false
	}
	return aws.ToInt64(result.ContentLength), true
}

// ParseLocation splits s3://bucket/key into bucket and key.
func ParseLocation(location string) (bucket, key string, ok bool) {
	if !strings.HasPrefix(location, scheme) {
		return "", "", false
	}
	bucket, key, found := strings.Cut(strings.TrimPrefix(location, scheme), "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}
