package storage

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ObjectAPI is the part of *s3.Client used for photos.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// PhotoStorage stores leave photos in a single bucket and derives their
// public URLs from a fixed base.
type PhotoStorage struct {
	client        ObjectAPI
	bucket        string
	publicBaseURL string
}

func NewPhotoStorage(client ObjectAPI, bucket, publicBaseURL string) *PhotoStorage {
	return &PhotoStorage{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// DefaultEndpoint is the S3-compatible API endpoint for a COS region.
func DefaultEndpoint(region string) string {
	return fmt.Sprintf("https://cos.%s.myqcloud.com", region)
}

// DefaultPublicBaseURL is the virtual-hosted URL prefix of a COS bucket.
func DefaultPublicBaseURL(bucket, region string) string {
	return fmt.Sprintf("https://%s.cos.%s.myqcloud.com", bucket, region)
}

// ClientOptions points an s3.Client at endpoint. Checksums are only sent
// when an operation requires them; uploads carry Content-MD5 instead.
func ClientOptions(endpoint string) func(*s3.Options) {
	return func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = false
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	}
}

// PutPhoto uploads body under key with the STANDARD storage class. The
// service verifies the upload against the Content-MD5 header.
func (s *PhotoStorage) PutPhoto(ctx context.Context, key string, body []byte, contentType string) error {
	sum := md5.Sum(body)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
		ContentMD5:    aws.String(base64.StdEncoding.EncodeToString(sum[:])),
		StorageClass:  s3types.StorageClassStandard,
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", key, err)
	}

	return nil
}

// GetPhoto downloads the object stored under key.
func (s *PhotoStorage) GetPhoto(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}

	return data, nil
}

// PublicURL returns the retrieval URL for key. No network call is made.
func (s *PhotoStorage) PublicURL(key string) string {
	return s.publicBaseURL + "/" + key
}

// KeyFromURL reverses PublicURL.
func (s *PhotoStorage) KeyFromURL(photoURL string) (string, error) {
	prefix := s.publicBaseURL + "/"
	if !strings.HasPrefix(photoURL, prefix) {
		return "", fmt.Errorf("photo url %q is not under %s", photoURL, prefix)
	}

	key := strings.TrimPrefix(photoURL, prefix)
	if key == "" {
		return "", errors.New("photo url has an empty object key")
	}

	return key, nil
}
