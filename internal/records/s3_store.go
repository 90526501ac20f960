package records

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of the S3 client used by S3Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Store keeps each table as a CSV object under prefix.
type S3Store struct {
	bucket   string
	prefix   string
	s3Client S3API
	logger   *slog.Logger
}

// NewS3Store creates a store backed by CSV objects under bucket/prefix.
func NewS3Store(s3Client S3API, bucket, prefix string, logger *slog.Logger) *S3Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &S3Store{bucket: bucket, prefix: prefix, s3Client: s3Client, logger: logger}
}

// Key returns the object key backing name.
func (s *S3Store) Key(name string) string {
	prefix := s.prefix
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + name + ".csv"
}

func (s *S3Store) LoadTable(ctx context.Context, name string) (*Table, error) {
	key := s.Key(name)
	out, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("records: s3 get %s: %w", key, ErrTableNotFound)
		}
		return nil, fmt.Errorf("records: s3 get %s: %w", key, err)
	}
	defer out.Body.Close()

	t, err := DecodeCSV(out.Body)
	if err != nil {
		return nil, fmt.Errorf("records: decode s3 %s: %w", key, err)
	}
	return t, nil
}

func (s *S3Store) SaveTable(ctx context.Context, name string, t *Table) error {
	data, err := MarshalCSV(t)
	if err != nil {
		return fmt.Errorf("records: encode %s: %w", name, err)
	}
	key := s.Key(name)
	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return fmt.Errorf("records: s3 put %s: %w", key, err)
	}
	s.logger.Debug("table written to s3", "table", name, "s3_key", key, "rows", t.Len())
	return nil
}
