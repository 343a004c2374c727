package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3Transport talks to AWS S3 (or a compatible endpoint) through aws-sdk-go-v2.
type S3Transport struct {
	client  *s3.Client
	presign *s3.PresignClient
}

// NewS3Transport builds an S3 transport. Without static credentials the SDK
// default chain resolves them (env, shared config, IAM role).
func NewS3Transport(ctx context.Context, cfg Config) (*S3Transport, error) {
	awsCfg, err := buildAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(endpointURL(cfg))
			o.UsePathStyle = true
		}
	})
	return NewS3TransportWithClient(client), nil
}

// NewS3TransportWithClient wraps an existing S3 client.
func NewS3TransportWithClient(client *s3.Client) *S3Transport {
	return &S3Transport{
		client:  client,
		presign: s3.NewPresignClient(client),
	}
}

func buildAWSConfig(ctx context.Context, cfg Config) (aws.Config, error) {
	var optFns []func(*awsconfig.LoadOptions) error

	if cfg.Region != "" {
		optFns = append(optFns, awsconfig.WithRegion(cfg.Region))
	}

	if cfg.HasStaticCredentials() {
		optFns = append(optFns, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	optFns = append(optFns, awsconfig.WithRetryMaxAttempts(attempts))

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	optFns = append(optFns, awsconfig.WithHTTPClient(newAWSHTTPClient(time.Duration(timeout)*time.Second)))

	return awsconfig.LoadDefaultConfig(ctx, optFns...)
}

// newAWSHTTPClient bounds connection setup and the wait for response headers
// only, like the minio transport; body transfer is bounded by the caller's
// context. The buildable client keeps custom CA bundles (AWS_CA_BUNDLE) working.
func newAWSHTTPClient(timeout time.Duration) *awshttp.BuildableClient {
	return awshttp.NewBuildableClient().
		WithDialerOptions(func(d *net.Dialer) {
			d.Timeout = timeout
			d.KeepAlive = 30 * time.Second
		}).
		WithTransportOptions(func(tr *http.Transport) {
			tr.TLSHandshakeTimeout = timeout
			tr.ResponseHeaderTimeout = timeout
		})
}

func endpointURL(cfg Config) string {
	if strings.HasPrefix(cfg.Endpoint, "http://") || strings.HasPrefix(cfg.Endpoint, "https://") {
		return cfg.Endpoint
	}
	if cfg.UseSSL {
		return "https://" + cfg.Endpoint
	}
	return "http://" + cfg.Endpoint
}

// List issues one ListObjectsV2 request; the server truncates at MaxKeys.
func (t *S3Transport) List(ctx context.Context, bucket string, opts ListOptions) ([]ObjectInfo, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	}
	if opts.Prefix != "" {
		input.Prefix = aws.String(opts.Prefix)
	}
	if opts.MaxKeys > 0 {
		input.MaxKeys = aws.Int32(int32(min(opts.MaxKeys, math.MaxInt32)))
	}

	out, err := t.client.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, mapS3Error("list", "", err)
	}

	objects := make([]ObjectInfo, 0, len(out.Contents))
	for _, item := range out.Contents {
		objects = append(objects, ObjectInfo{
			Key:          aws.ToString(item.Key),
			Size:         aws.ToInt64(item.Size),
			LastModified: aws.ToTime(item.LastModified),
			ETag:         aws.ToString(item.ETag),
		})
	}
	return objects, nil
}

// Get opens the object body.
func (t *S3Transport) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	out, err := t.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, mapS3Error("get", key, err)
	}
	if out.Body == nil {
		return nil, ErrBodyEmpty
	}
	return out.Body, nil
}

// Head fetches object metadata.
func (t *S3Transport) Head(ctx context.Context, bucket, key string) (ObjectMetadata, error) {
	out, err := t.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return ObjectMetadata{}, mapS3Error("head", key, err)
	}
	meta := ObjectMetadata{
		ContentType:   aws.ToString(out.ContentType),
		ContentLength: aws.ToInt64(out.ContentLength),
		LastModified:  aws.ToTime(out.LastModified),
		ETag:          aws.ToString(out.ETag),
		UserMetadata:  make(map[string]string, len(out.Metadata)),
	}
	for k, v := range out.Metadata {
		meta.UserMetadata[k] = v
	}
	return meta, nil
}

// Put uploads an object.
func (t *S3Transport) Put(ctx context.Context, bucket, key string, body io.Reader, size int64, opts WriteOptions) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
	}
	if opts.ContentType != "" {
		input.ContentType = aws.String(opts.ContentType)
	}
	if len(opts.UserMetadata) > 0 {
		input.Metadata = opts.UserMetadata
	}

	if _, err := t.client.PutObject(ctx, input); err != nil {
		return mapS3Error("put", key, err)
	}
	return nil
}

// Delete removes an object.
func (t *S3Transport) Delete(ctx context.Context, bucket, key string) error {
	_, err := t.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return mapS3Error("delete", key, err)
	}
	return nil
}

// PresignGet signs a GET request locally.
func (t *S3Transport) PresignGet(ctx context.Context, bucket, key string, expires time.Duration) (string, error) {
	req, err := t.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", mapS3Error("presign", key, err)
	}
	return req.URL, nil
}

func mapS3Error(op, key string, err error) error {
	if err == nil {
		return nil
	}

	var nsk *s3types.NoSuchKey
	var nf *s3types.NotFound
	if errors.As(err, &nsk) || errors.As(err, &nf) {
		return notFound(key)
	}

	te := &TransportError{Op: op, Key: key, Err: err}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		te.Code = apiErr.ErrorCode()
		if te.Code == "NoSuchKey" || te.Code == "NotFound" {
			return notFound(key)
		}
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		te.StatusCode = respErr.HTTPStatusCode()
	}
	return te
}

var _ Transport = (*S3Transport)(nil)
