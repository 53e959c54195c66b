// Package storage resolves record file locations. A location is a local path or an
// s3://bucket/key uri, S3 files are copied to a local file to be read or appended.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/x4b1/mqbackup/internal/awsconfig"
)

//go:generate go tool moq -pkg storage_test -stub -out mock_test.go . S3Client

const s3Scheme = "s3"

// ErrNotFound is returned when the remote object does not exist.
var ErrNotFound = errors.New("object not found")

// S3Client defines the AWS S3 methods used by the Store. This is used for testing purposes.
type S3Client interface {
	GetObject(context.Context, *s3.GetObjectInput, ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Location is where a record file lives.
type Location struct {
	// Path of local files.
	Path string
	// Bucket and Key of S3 objects.
	Bucket string
	Key    string
}

// IsRemote returns true when the location is an S3 object.
func (l Location) IsRemote() bool {
	return l.Bucket != ""
}

func (l Location) String() string {
	if l.IsRemote() {
		return fmt.Sprintf("%s://%s/%s", s3Scheme, l.Bucket, l.Key)
	}

	return l.Path
}

// Parse returns the location of a local path or s3 uri.
func Parse(s string) (Location, error) {
	if !strings.HasPrefix(s, s3Scheme+"://") {
		if s == "" {
			return Location{}, errors.New("empty location")
		}
		return Location{Path: s}, nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return Location{}, fmt.Errorf("parsing %s: %w", s, err)
	}

	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" || strings.HasSuffix(key, "/") {
		return Location{}, fmt.Errorf("invalid s3 location %q, expected s3://bucket/key", s)
	}

	return Location{Bucket: u.Host, Key: key}, nil
}

// Open returns a Store using the AWS configuration loaded from the environment and the
// given overrides.
func Open(ctx context.Context, params awsconfig.Params) (*Store, error) {
	cfg, err := awsconfig.Load(ctx, params)
	if err != nil {
		return nil, err
	}

	return New(s3.NewFromConfig(cfg, func(o *s3.Options) {
		// localstack serves buckets on the path.
		o.UsePathStyle = params.Endpoint != ""
	})), nil
}

// New returns a Store using the given S3 client, nil supports only local locations.
func New(cli S3Client) *Store {
	return &Store{cli: cli}
}

// Store copies record files between local paths and S3.
type Store struct {
	cli S3Client
}

// Local returns the local file of the location, downloading S3 objects into dir.
// The returned bool is false when the S3 object does not exist yet, in which case the
// local file path is returned without creating it.
func (s *Store) Local(ctx context.Context, loc Location, dir string) (string, bool, error) {
	if !loc.IsRemote() {
		_, err := os.Stat(loc.Path)
		switch {
		case err == nil:
			return loc.Path, true, nil
		case errors.Is(err, os.ErrNotExist):
			return loc.Path, false, nil
		default:
			return "", false, err
		}
	}

	path := filepath.Join(dir, filepath.Base(loc.Key))
	err := s.Download(ctx, loc, path)
	switch {
	case err == nil:
		return path, true, nil
	case errors.Is(err, ErrNotFound):
		return path, false, nil
	default:
		return "", false, err
	}
}

// Download copies the S3 object into the local path.
func (s *Store) Download(ctx context.Context, loc Location, path string) error {
	if s.cli == nil {
		return errors.New("s3 is not configured")
	}

	out, err := s.cli.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	})
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%s: %w", loc, ErrNotFound)
		}
		return fmt.Errorf("getting %s: %w", loc, err)
	}
	defer out.Body.Close()

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if _, err := io.Copy(f, out.Body); err != nil {
		_ = f.Close()
		return fmt.Errorf("downloading %s: %w", loc, err)
	}

	return f.Close()
}

// Upload copies the local file to the location. Local locations are left untouched.
func (s *Store) Upload(ctx context.Context, path string, loc Location) error {
	if !loc.IsRemote() {
		return nil
	}
	if s.cli == nil {
		return errors.New("s3 is not configured")
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := s.cli.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
		Body:   f,
	}); err != nil {
		return fmt.Errorf("uploading %s: %w", loc, err)
	}

	return nil
}

func isNotFound(err error) bool {
	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return true
	}

	var apiErr smithy.APIError

	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound"
}
