package artifacts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3Client is the subset of the S3 API used by S3Store, allowing injection
// of a mock client in tests.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store persists bundles as objects in a bucket, optionally under a key
// prefix.
type S3Store struct {
	client S3Client
	bucket string
	prefix string
}

// NewS3Store builds a store for the locator, authenticating with the static
// credentials from the snapshot.
func NewS3Store(env map[string]string, loc *Locator) *S3Store {
	client := s3.New(s3.Options{
		Region: loc.Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			env[EnvAccessKeyID], env[EnvSecretAccessKey], ""),
	})
	return NewS3StoreWithClient(client, loc.Bucket, loc.Prefix)
}

// NewS3StoreWithClient builds a store around an existing client.
func NewS3StoreWithClient(client S3Client, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

// Put streams the bundle bytes as the object body.
func (s *S3Store) Put(ctx context.Context, name string, data io.Reader) error {
	key := s.Key(name)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   data,
	})
	if err != nil {
		return storageError(fmt.Sprintf("putting object %q in bucket %q", key, s.bucket), err)
	}
	return nil
}

// Get retrieves the object body. A NoSuchKey failure is reported as
// not-found; every other failure class propagates as a storage error.
func (s *S3Store) Get(ctx context.Context, name string) (io.ReadCloser, error) {
	key := s.Key(name)
	output, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, NewNotFoundError(fmt.Sprintf("no object %q in bucket %q", key, s.bucket))
		}
		return nil, storageError(fmt.Sprintf("getting object %q from bucket %q", key, s.bucket), err)
	}
	return output.Body, nil
}

// List enumerates the objects under the store's key prefix, with names
// reported relative to that prefix.
func (s *S3Store) List(ctx context.Context) ([]Object, error) {
	listPrefix := s.listPrefix()
	output, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(listPrefix),
	})
	if err != nil {
		return nil, storageError(fmt.Sprintf("listing bucket %q prefix %q", s.bucket, listPrefix), err)
	}
	var objects []Object
	for _, content := range output.Contents {
		if content.Key == nil {
			continue
		}
		var modified time.Time
		if content.LastModified != nil {
			modified = *content.LastModified
		}
		objects = append(objects, Object{
			Name:         strings.TrimPrefix(*content.Key, listPrefix),
			LastModified: modified,
		})
	}
	return objects, nil
}

// Delete removes the object by name. Versioned buckets report a delete
// marker in the response; nothing acts on a false value today because the
// retention semantics for soft-deleted versions are undefined upstream.
func (s *S3Store) Delete(ctx context.Context, name string) error {
	key := s.Key(name)
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return storageError(fmt.Sprintf("deleting object %q from bucket %q", key, s.bucket), err)
	}
	return nil
}

// Latest resolves the most recently modified object under the store's key
// prefix. An empty listing is a not-found naming the bucket and prefix
// searched.
func (s *S3Store) Latest(ctx context.Context) (string, error) {
	objects, err := s.List(ctx)
	if err != nil {
		return "", err
	}
	if len(objects) == 0 {
		return "", NewNotFoundError(fmt.Sprintf("nothing found in bucket %q prefix %q", s.bucket, s.listPrefix()))
	}
	latest := objects[0]
	for _, object := range objects[1:] {
		if object.LastModified.After(latest.LastModified) {
			latest = object
		}
	}
	return latest.Name, nil
}

// Key reports the full object key for a bundle name.
func (s *S3Store) Key(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + "/" + name
}

// Location reports the bucket and prefix.
func (s *S3Store) Location() string {
	if s.prefix == "" {
		return "s3://" + s.bucket
	}
	return "s3://" + s.bucket + "/" + s.prefix
}

func (s *S3Store) listPrefix() string {
	if s.prefix == "" {
		return ""
	}
	return s.prefix + "/"
}

// isNoSuchKey reports whether err is the NoSuchKey failure class, the only
// class the latest-fallback treats as an absent object.
func isNoSuchKey(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey"
}

// storageError wraps a backend failure, preserving the provider error code
// and message when present.
func storageError(msg string, err error) *Error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		msg = fmt.Sprintf("%s: %s: %s", msg, apiErr.ErrorCode(), apiErr.ErrorMessage())
	}
	return NewStorageError(msg, err)
}
